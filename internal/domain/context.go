// Package domain provides core business types and context helpers for Tagihin.
//
// Context helpers centralize request-scoped principal access so handlers and
// services read the authenticated identity the same way everywhere.
package domain

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	// userContextKey stores the authenticated user in context.
	userContextKey contextKey = iota

	// adminContextKey stores the authenticated admin in context.
	adminContextKey

	// requestIDContextKey stores the request ID for tracing.
	requestIDContextKey
)

// Principal is a minimal authenticated identity stored in context.
// Admins and users are disjoint populations resolved from different
// session scopes.
type Principal struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// --- User Context Helpers ---

// NewContextWithUser returns a new context with the user attached.
func NewContextWithUser(ctx context.Context, user *Principal) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the user from context.
// Returns nil if no user is present.
func UserFromContext(ctx context.Context) *Principal {
	user, _ := ctx.Value(userContextKey).(*Principal)
	return user
}

// UserIDFromContext retrieves the user ID from context.
// Returns uuid.Nil if no user is present.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if user := UserFromContext(ctx); user != nil {
		return user.ID
	}
	return uuid.Nil
}

// RequireUserID retrieves the user ID from context, panicking if not present.
// Use this in service layers where an authenticated user is required.
// The panic will be caught by recovery middleware in HTTP handlers.
func RequireUserID(ctx context.Context) uuid.UUID {
	id := UserIDFromContext(ctx)
	if id == uuid.Nil {
		panic("user_id required in context but not found")
	}
	return id
}

// --- Admin Context Helpers ---

// NewContextWithAdmin returns a new context with the admin attached.
func NewContextWithAdmin(ctx context.Context, admin *Principal) context.Context {
	return context.WithValue(ctx, adminContextKey, admin)
}

// AdminFromContext retrieves the admin from context.
// Returns nil if no admin is present.
func AdminFromContext(ctx context.Context) *Principal {
	admin, _ := ctx.Value(adminContextKey).(*Principal)
	return admin
}

// AdminIDFromContext retrieves the admin ID from context.
// Returns uuid.Nil if no admin is present.
func AdminIDFromContext(ctx context.Context) uuid.UUID {
	if admin := AdminFromContext(ctx); admin != nil {
		return admin.ID
	}
	return uuid.Nil
}

// --- Request ID Context Helpers ---

// NewContextWithRequestID returns a new context with the request ID attached.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if no request ID is present.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}

// --- Convenience Helpers ---

// IsAuthenticated returns true if there is a user in context.
func IsAuthenticated(ctx context.Context) bool {
	return UserFromContext(ctx) != nil
}

// IsAdmin returns true if there is an admin in context.
func IsAdmin(ctx context.Context) bool {
	return AdminFromContext(ctx) != nil
}
