package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanifn/tagihin/internal/domain"
)

// SessionStore implements domain.SessionStore using PostgreSQL.
type SessionStore struct {
	pool *pgxpool.Pool
}

// Compile-time check to ensure SessionStore implements domain.SessionStore.
var _ domain.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a new SessionStore instance.
func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

// CreateSession inserts a new session row.
func (s *SessionStore) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (token, scope, principal_id, expires_at)
		VALUES ($1, $2, $3, $4)`,
		session.Token, session.Scope, session.PrincipalID, session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by token within a scope. Tokens issued
// in another scope are not visible.
func (s *SessionStore) GetSession(ctx context.Context, token, scope string) (*domain.Session, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT token, scope, principal_id, expires_at, created_at
		FROM sessions WHERE token = $1 AND scope = $2`,
		token, scope,
	)

	var sess domain.Session
	err := row.Scan(&sess.Token, &sess.Scope, &sess.PrincipalID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.Unauthorized("session.get", "Session not found")
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &sess, nil
}

// DeleteSession removes a session. Unknown tokens are a no-op.
func (s *SessionStore) DeleteSession(ctx context.Context, token, scope string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM sessions WHERE token = $1 AND scope = $2`,
		token, scope,
	)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry and returns
// the number removed.
func (s *SessionStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
