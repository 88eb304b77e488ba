// Package bootstrap handles one-time initialization tasks for the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hanifn/tagihin/internal/auth"
	"github.com/hanifn/tagihin/internal/domain"
)

// AdminConfig contains configuration for the initial admin account.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// Validate checks that the admin configuration is valid.
func (c *AdminConfig) Validate() error {
	if c.Email == "" {
		return errors.New("admin email is required")
	}
	if c.Password == "" {
		return errors.New("admin password is required")
	}
	if len(c.Password) < 12 {
		return errors.New("admin password must be at least 12 characters")
	}
	return nil
}

// EnsureAdmin creates the initial admin account if it doesn't exist.
// This function is idempotent - safe to call on every startup.
//
// If an admin with the configured email already exists, it returns without
// error. If the config has an empty Email or Password, it logs a warning and
// skips, which allows running without an admin in dev.
func EnsureAdmin(ctx context.Context, store domain.AdminStore, cfg *AdminConfig, logger *slog.Logger) error {
	if cfg == nil || cfg.Email == "" || cfg.Password == "" {
		logger.Warn("bootstrap: skipping admin creation - ADMIN_EMAIL or ADMIN_PASSWORD not set",
			"hint", "Set these environment variables to create an admin account on first startup",
		)
		return nil
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid admin configuration: %w", err)
	}

	// Store the same form the login path looks up
	email := strings.ToLower(strings.TrimSpace(cfg.Email))

	// Check if admin already exists
	if _, err := store.GetAdminByEmail(ctx, email); err == nil {
		logger.Info("bootstrap: admin account already exists", "email", email)
		return nil
	} else if !domain.IsCode(err, domain.ENOTFOUND) {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}

	passwordHash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := cfg.Name
	if name == "" {
		name = "Admin"
	}

	admin := &domain.Admin{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
	}
	if err := store.CreateAdmin(ctx, admin); err != nil {
		// Concurrent creation from another instance
		if domain.IsCode(err, domain.ECONFLICT) {
			logger.Info("bootstrap: admin account already exists", "email", email)
			return nil
		}
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	logger.Info("bootstrap: admin account created successfully",
		"email", email,
		"admin_id", admin.ID,
	)
	return nil
}
