package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifn/tagihin/internal/auth"
	"github.com/hanifn/tagihin/internal/domain"
)

type fakeAdminStore struct {
	admins map[string]*domain.Admin
}

func newFakeAdminStore() *fakeAdminStore {
	return &fakeAdminStore{admins: make(map[string]*domain.Admin)}
}

func (f *fakeAdminStore) CreateAdmin(ctx context.Context, admin *domain.Admin) error {
	if _, ok := f.admins[admin.Email]; ok {
		return domain.ErrAdminExists
	}
	admin.ID = uuid.New()
	copied := *admin
	f.admins[admin.Email] = &copied
	return nil
}

func (f *fakeAdminStore) GetAdminByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	for _, admin := range f.admins {
		if admin.ID == id {
			return admin, nil
		}
	}
	return nil, domain.ErrAdminNotFound
}

func (f *fakeAdminStore) GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	admin, ok := f.admins[email]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	return admin, nil
}

func (f *fakeAdminStore) ListAdminEmails(ctx context.Context) ([]string, error) {
	var emails []string
	for email := range f.admins {
		emails = append(emails, email)
	}
	return emails, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates admin with hashed password", func(t *testing.T) {
		store := newFakeAdminStore()

		err := EnsureAdmin(ctx, store, &AdminConfig{
			Email:    "ops@tagihin.id",
			Password: "correct-horse-battery",
			Name:     "Operations",
		}, discardLogger())
		require.NoError(t, err)

		admin, err := store.GetAdminByEmail(ctx, "ops@tagihin.id")
		require.NoError(t, err)
		assert.Equal(t, "Operations", admin.Name)
		assert.NoError(t, auth.VerifyPassword("correct-horse-battery", admin.PasswordHash))
	})

	t.Run("normalizes email so login finds it", func(t *testing.T) {
		store := newFakeAdminStore()

		err := EnsureAdmin(ctx, store, &AdminConfig{
			Email:    " Ops@Tagihin.ID ",
			Password: "correct-horse-battery",
		}, discardLogger())
		require.NoError(t, err)

		// Authenticate lowercases before the lookup, so the stored
		// email must already be lowercase.
		admin, err := store.GetAdminByEmail(ctx, "ops@tagihin.id")
		require.NoError(t, err)
		assert.Equal(t, "ops@tagihin.id", admin.Email)

		// Re-running with the unnormalized form must not create a second account.
		require.NoError(t, EnsureAdmin(ctx, store, &AdminConfig{
			Email:    "OPS@tagihin.id",
			Password: "correct-horse-battery",
		}, discardLogger()))
		assert.Len(t, store.admins, 1)
	})

	t.Run("idempotent when admin exists", func(t *testing.T) {
		store := newFakeAdminStore()
		cfg := &AdminConfig{Email: "ops@tagihin.id", Password: "correct-horse-battery"}

		require.NoError(t, EnsureAdmin(ctx, store, cfg, discardLogger()))
		first, err := store.GetAdminByEmail(ctx, "ops@tagihin.id")
		require.NoError(t, err)

		require.NoError(t, EnsureAdmin(ctx, store, cfg, discardLogger()))
		second, err := store.GetAdminByEmail(ctx, "ops@tagihin.id")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("skips when not configured", func(t *testing.T) {
		store := newFakeAdminStore()

		require.NoError(t, EnsureAdmin(ctx, store, nil, discardLogger()))
		require.NoError(t, EnsureAdmin(ctx, store, &AdminConfig{Email: "ops@tagihin.id"}, discardLogger()))
		assert.Empty(t, store.admins)
	})

	t.Run("rejects short password", func(t *testing.T) {
		store := newFakeAdminStore()

		err := EnsureAdmin(ctx, store, &AdminConfig{
			Email:    "ops@tagihin.id",
			Password: "short",
		}, discardLogger())
		assert.Error(t, err)
	})

	t.Run("defaults name", func(t *testing.T) {
		store := newFakeAdminStore()

		require.NoError(t, EnsureAdmin(ctx, store, &AdminConfig{
			Email:    "ops@tagihin.id",
			Password: "correct-horse-battery",
		}, discardLogger()))

		admin, err := store.GetAdminByEmail(ctx, "ops@tagihin.id")
		require.NoError(t, err)
		assert.Equal(t, "Admin", admin.Name)
	})
}
