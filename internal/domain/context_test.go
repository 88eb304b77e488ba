package domain

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestUserContext(t *testing.T) {
	t.Run("UserFromContext returns nil when no user", func(t *testing.T) {
		ctx := context.Background()
		user := UserFromContext(ctx)
		if user != nil {
			t.Errorf("expected nil user, got %+v", user)
		}
	})

	t.Run("UserFromContext returns user when set", func(t *testing.T) {
		ctx := context.Background()
		expected := &Principal{
			ID:    uuid.New(),
			Email: "budi@example.com",
			Name:  "Budi",
		}
		ctx = NewContextWithUser(ctx, expected)

		user := UserFromContext(ctx)
		if user == nil {
			t.Fatal("expected user, got nil")
		}
		if user.ID != expected.ID {
			t.Errorf("ID = %v, want %v", user.ID, expected.ID)
		}
		if user.Email != expected.Email {
			t.Errorf("Email = %q, want %q", user.Email, expected.Email)
		}
	})

	t.Run("UserIDFromContext returns Nil when no user", func(t *testing.T) {
		if id := UserIDFromContext(context.Background()); id != uuid.Nil {
			t.Errorf("expected uuid.Nil, got %v", id)
		}
	})

	t.Run("RequireUserID panics when no user", func(t *testing.T) {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected panic")
			}
		}()
		RequireUserID(context.Background())
	})

	t.Run("RequireUserID returns ID when user set", func(t *testing.T) {
		id := uuid.New()
		ctx := NewContextWithUser(context.Background(), &Principal{ID: id})
		if got := RequireUserID(ctx); got != id {
			t.Errorf("RequireUserID = %v, want %v", got, id)
		}
	})
}

func TestAdminContext(t *testing.T) {
	t.Run("AdminFromContext returns nil when no admin", func(t *testing.T) {
		if admin := AdminFromContext(context.Background()); admin != nil {
			t.Errorf("expected nil admin, got %+v", admin)
		}
	})

	t.Run("AdminFromContext returns admin when set", func(t *testing.T) {
		expected := &Principal{
			ID:    uuid.New(),
			Email: "admin@example.com",
			Name:  "Admin",
		}
		ctx := NewContextWithAdmin(context.Background(), expected)

		admin := AdminFromContext(ctx)
		if admin == nil {
			t.Fatal("expected admin, got nil")
		}
		if admin.Email != expected.Email {
			t.Errorf("Email = %q, want %q", admin.Email, expected.Email)
		}
	})

	t.Run("admin and user keys do not collide", func(t *testing.T) {
		admin := &Principal{ID: uuid.New(), Email: "admin@example.com"}
		ctx := NewContextWithAdmin(context.Background(), admin)

		if user := UserFromContext(ctx); user != nil {
			t.Errorf("admin context should not yield a user, got %+v", user)
		}
		if !IsAdmin(ctx) {
			t.Error("IsAdmin should be true")
		}
		if IsAuthenticated(ctx) {
			t.Error("IsAuthenticated should be false without a user")
		}
	})
}

func TestRequestIDContext(t *testing.T) {
	t.Run("empty when not set", func(t *testing.T) {
		if id := RequestIDFromContext(context.Background()); id != "" {
			t.Errorf("expected empty request ID, got %q", id)
		}
	})

	t.Run("round trips", func(t *testing.T) {
		ctx := NewContextWithRequestID(context.Background(), "req-123")
		if id := RequestIDFromContext(ctx); id != "req-123" {
			t.Errorf("RequestIDFromContext = %q, want %q", id, "req-123")
		}
	})
}
