package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session scopes. A token created in one scope never resolves in the
// other, keeping admin and user identities disjoint.
const (
	SessionScopeAdmin = "admin"
	SessionScopeUser  = "user"
)

// Session is a server-side login session keyed by an opaque token.
type Session struct {
	Token       string
	Scope       string
	PrincipalID uuid.UUID
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SessionService issues and resolves login sessions within a single scope.
// The server runs two instances, one per scope.
type SessionService interface {
	// Create issues a new session token for the principal.
	Create(ctx context.Context, principalID uuid.UUID) (string, error)

	// Resolve returns the principal ID for a live token in this scope.
	// Unknown, expired, or out-of-scope tokens yield an unauthorized error.
	Resolve(ctx context.Context, token string) (uuid.UUID, error)

	// Destroy deletes a session. Deleting an unknown token is not an error.
	Destroy(ctx context.Context, token string) error
}

// SessionStore is the persistence surface for sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, token, scope string) (*Session, error)
	DeleteSession(ctx context.Context, token, scope string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}
