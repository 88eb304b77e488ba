package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hanifn/tagihin/internal/auth"
	"github.com/hanifn/tagihin/internal/domain"
)

// UserService is re-exported from domain for convenience.
type UserService = domain.UserService

// AdminService is re-exported from domain for convenience.
type AdminService = domain.AdminService

type userService struct {
	store domain.UserStore
}

// NewUserService creates a new UserService instance.
func NewUserService(store domain.UserStore) UserService {
	return &userService{store: store}
}

// Register creates a new user account.
func (s *userService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("user.register", "name", "Name is required")
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, domain.NewValidationError("user.register", "password", "Password must be at least 8 characters")
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate verifies email/password and returns the user if valid.
// Unknown emails and wrong passwords both yield ErrInvalidPassword so
// login responses do not reveal which accounts exist.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, domain.ErrInvalidPassword
		}
		return nil, err
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, domain.ErrInvalidPassword
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return user, nil
}

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidUserID
	}
	return s.store.GetUserByID(ctx, id)
}

// ListUsers returns all users with pagination, newest first.
func (s *userService) ListUsers(ctx context.Context, limit, offset int32) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListUsers(ctx, limit, offset)
}

type adminService struct {
	store domain.AdminStore
}

// NewAdminService creates a new AdminService instance.
func NewAdminService(store domain.AdminStore) AdminService {
	return &adminService{store: store}
}

// Authenticate verifies email/password and returns the admin if valid.
func (s *adminService) Authenticate(ctx context.Context, email, password string) (*domain.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	admin, err := s.store.GetAdminByEmail(ctx, email)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, domain.ErrInvalidPassword
		}
		return nil, err
	}

	if err := auth.VerifyPassword(password, admin.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, domain.ErrInvalidPassword
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return admin, nil
}

// GetAdminByID retrieves an admin by ID.
func (s *adminService) GetAdminByID(ctx context.Context, adminID string) (*domain.Admin, error) {
	id, err := uuid.Parse(adminID)
	if err != nil {
		return nil, domain.ErrAdminNotFound
	}
	return s.store.GetAdminByID(ctx, id)
}

// ListAdminEmails returns all admin email addresses.
func (s *adminService) ListAdminEmails(ctx context.Context) ([]string, error) {
	return s.store.ListAdminEmails(ctx)
}
