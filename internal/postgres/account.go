package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hanifn/tagihin/internal/domain"
)

// UserStore implements domain.UserStore using PostgreSQL.
type UserStore struct {
	pool *pgxpool.Pool
}

// Compile-time check to ensure UserStore implements domain.UserStore.
var _ domain.UserStore = (*UserStore)(nil)

// NewUserStore creates a new UserStore instance.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// CreateUser inserts a new user. A duplicate email yields ErrUserExists.
func (s *UserStore) CreateUser(ctx context.Context, user *domain.User) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		user.Email, user.Name, user.PasswordHash,
	)
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByID retrieves a user by ID.
func (s *UserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users WHERE id = $1`, id,
	)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users WHERE email = $1`, email,
	)
	return scanUser(row)
}

// ListUsers returns users with pagination, newest first.
func (s *UserStore) ListUsers(ctx context.Context, limit, offset int32) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// AdminStore implements domain.AdminStore using PostgreSQL.
type AdminStore struct {
	pool *pgxpool.Pool
}

// Compile-time check to ensure AdminStore implements domain.AdminStore.
var _ domain.AdminStore = (*AdminStore)(nil)

// NewAdminStore creates a new AdminStore instance.
func NewAdminStore(pool *pgxpool.Pool) *AdminStore {
	return &AdminStore{pool: pool}
}

// CreateAdmin inserts a new admin. A duplicate email yields ErrAdminExists.
func (s *AdminStore) CreateAdmin(ctx context.Context, admin *domain.Admin) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO admins (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`,
		admin.Email, admin.Name, admin.PasswordHash,
	)
	if err := row.Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt); err != nil {
		if isUniqueViolation(err, "") {
			return domain.ErrAdminExists
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// GetAdminByID retrieves an admin by ID.
func (s *AdminStore) GetAdminByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM admins WHERE id = $1`, id,
	)
	return scanAdmin(row)
}

// GetAdminByEmail retrieves an admin by email.
func (s *AdminStore) GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM admins WHERE email = $1`, email,
	)
	return scanAdmin(row)
}

// ListAdminEmails returns all admin email addresses.
func (s *AdminStore) ListAdminEmails(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT email FROM admins ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("failed to scan admin email: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list admin emails: %w", err)
	}
	return emails, nil
}

func scanAdmin(row pgx.Row) (*domain.Admin, error) {
	var a domain.Admin
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &a, nil
}
