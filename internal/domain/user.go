package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ACCOUNT DOMAIN TYPES
// =============================================================================

// User is an invoice-issuing account holder.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Admin is a back-office operator. Admins and users are stored in
// separate tables and never share sessions.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal converts a user to its context representation.
func (u *User) Principal() *Principal {
	return &Principal{ID: u.ID, Email: u.Email, Name: u.Name}
}

// Principal converts an admin to its context representation.
func (a *Admin) Principal() *Principal {
	return &Principal{ID: a.ID, Email: a.Email, Name: a.Name}
}

// =============================================================================
// SERVICE INTERFACES
// =============================================================================

// UserService provides registration and authentication for account holders.
type UserService interface {
	// Register creates a new user account.
	Register(ctx context.Context, email, password, name string) (*User, error)

	// Authenticate verifies email/password and returns the user if valid.
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*User, error)

	// ListUsers returns all users with pagination, newest first.
	ListUsers(ctx context.Context, limit, offset int32) ([]User, error)
}

// AdminService provides authentication for back-office operators.
type AdminService interface {
	// Authenticate verifies email/password and returns the admin if valid.
	Authenticate(ctx context.Context, email, password string) (*Admin, error)

	// GetAdminByID retrieves an admin by ID.
	GetAdminByID(ctx context.Context, adminID string) (*Admin, error)

	// ListAdminEmails returns all admin email addresses.
	ListAdminEmails(ctx context.Context) ([]string, error)
}

// =============================================================================
// STORE INTERFACES
// =============================================================================

// UserStore is the persistence surface for users.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context, limit, offset int32) ([]User, error)
}

// AdminStore is the persistence surface for admins.
type AdminStore interface {
	CreateAdmin(ctx context.Context, admin *Admin) error
	GetAdminByID(ctx context.Context, id uuid.UUID) (*Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*Admin, error)
	ListAdminEmails(ctx context.Context) ([]string, error)
}

// =============================================================================
// DOMAIN ERRORS
// =============================================================================

// Account-specific errors.
var (
	ErrUserNotFound    = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrAdminNotFound   = &Error{Code: ENOTFOUND, Message: "Admin not found"}
	ErrUserExists      = &Error{Code: ECONFLICT, Message: "User with this email already exists"}
	ErrAdminExists     = &Error{Code: ECONFLICT, Message: "Admin with this email already exists"}
	ErrInvalidEmail    = &Error{Code: EINVALID, Message: "Invalid email address"}
	ErrInvalidPassword = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
	ErrSessionExpired  = &Error{Code: EUNAUTHORIZED, Message: "Session has expired"}
)
