package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hanifn/tagihin/internal/domain"
)

// SessionService is re-exported from domain for convenience.
type SessionService = domain.SessionService

type sessionService struct {
	store domain.SessionStore
	scope string
	ttl   time.Duration
}

// NewSessionService creates a session service bound to one scope.
// The server runs one instance for admins and one for users; tokens
// never cross scopes.
func NewSessionService(store domain.SessionStore, scope string, ttl time.Duration) SessionService {
	return &sessionService{
		store: store,
		scope: scope,
		ttl:   ttl,
	}
}

// Create issues a new session token for the principal.
func (s *sessionService) Create(ctx context.Context, principalID uuid.UUID) (string, error) {
	token, err := GenerateToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}

	session := &domain.Session{
		Token:       token,
		Scope:       s.scope,
		PrincipalID: principalID,
		ExpiresAt:   time.Now().Add(s.ttl),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return token, nil
}

// Resolve returns the principal ID for a live token in this scope.
func (s *sessionService) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, ErrSessionNotFound
	}

	session, err := s.store.GetSession(ctx, token, s.scope)
	if err != nil {
		if domain.IsCode(err, domain.EUNAUTHORIZED) {
			return uuid.Nil, ErrSessionNotFound
		}
		return uuid.Nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	if session.Expired(time.Now()) {
		// Best effort cleanup; the expiry check already rejected it.
		_ = s.store.DeleteSession(ctx, token, s.scope)
		return uuid.Nil, domain.ErrSessionExpired
	}

	return session.PrincipalID, nil
}

// Destroy deletes a session. Unknown tokens are a no-op.
func (s *sessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.DeleteSession(ctx, token, s.scope); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
