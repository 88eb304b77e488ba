package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanifn/tagihin/internal/cookie"
	"github.com/hanifn/tagihin/internal/domain"
)

type stubAdminService struct {
	AuthenticateFunc    func(ctx context.Context, email, password string) (*domain.Admin, error)
	GetAdminByIDFunc    func(ctx context.Context, adminID string) (*domain.Admin, error)
	ListAdminEmailsFunc func(ctx context.Context) ([]string, error)
}

func (s *stubAdminService) Authenticate(ctx context.Context, email, password string) (*domain.Admin, error) {
	return s.AuthenticateFunc(ctx, email, password)
}

func (s *stubAdminService) GetAdminByID(ctx context.Context, adminID string) (*domain.Admin, error) {
	return s.GetAdminByIDFunc(ctx, adminID)
}

func (s *stubAdminService) ListAdminEmails(ctx context.Context) ([]string, error) {
	return s.ListAdminEmailsFunc(ctx)
}

type stubSessionService struct {
	destroyed []string
}

func (s *stubSessionService) Create(ctx context.Context, principalID uuid.UUID) (string, error) {
	return "admin-session-token", nil
}

func (s *stubSessionService) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	return uuid.Nil, domain.ErrSessionExpired
}

func (s *stubSessionService) Destroy(ctx context.Context, token string) error {
	s.destroyed = append(s.destroyed, token)
	return nil
}

func TestAdminLogin(t *testing.T) {
	adminID := uuid.New()

	t.Run("success sets admin cookie", func(t *testing.T) {
		admins := &stubAdminService{
			AuthenticateFunc: func(ctx context.Context, email, password string) (*domain.Admin, error) {
				return &domain.Admin{ID: adminID, Email: email, Name: "Admin"}, nil
			},
		}

		h := NewAuthHandler(admins, &stubSessionService{}, cookie.NewConfig(false), 30*24*time.Hour)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
			strings.NewReader(`{"email":"admin@tagihin.id","password":"admin-rahasia"}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, cookie.AdminSessionCookieName, cookies[0].Name)
		assert.Equal(t, "admin-session-token", cookies[0].Value)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		admins := &stubAdminService{
			AuthenticateFunc: func(ctx context.Context, email, password string) (*domain.Admin, error) {
				return nil, domain.ErrInvalidPassword
			},
		}

		h := NewAuthHandler(admins, &stubSessionService{}, cookie.NewConfig(false), 30*24*time.Hour)

		req := httptest.NewRequest(http.MethodPost, "/api/admin/login",
			strings.NewReader(`{"email":"admin@tagihin.id","password":"salah"}`))
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestAdminLogout(t *testing.T) {
	sessions := &stubSessionService{}
	h := NewAuthHandler(&stubAdminService{}, sessions, cookie.NewConfig(false), 30*24*time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	req.AddCookie(&http.Cookie{Name: cookie.AdminSessionCookieName, Value: "old-admin-token"})
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"old-admin-token"}, sessions.destroyed)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestAdminMe(t *testing.T) {
	h := NewAuthHandler(&stubAdminService{}, &stubSessionService{}, cookie.NewConfig(false), 30*24*time.Hour)

	t.Run("authenticated", func(t *testing.T) {
		principal := &domain.Principal{ID: uuid.New(), Email: "admin@tagihin.id", Name: "Admin"}
		req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
		req = req.WithContext(domain.NewContextWithAdmin(req.Context(), principal))
		rec := httptest.NewRecorder()
		h.Me(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "admin@tagihin.id", body["email"])
	})

	t.Run("user principal does not satisfy admin endpoint", func(t *testing.T) {
		principal := &domain.Principal{ID: uuid.New(), Email: "budi@example.com", Name: "Budi"}
		req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
		req = req.WithContext(domain.NewContextWithUser(req.Context(), principal))
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h.Me(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAdminListUsers(t *testing.T) {
	users := &stubUserService{
		ListUsersFunc: func(ctx context.Context, limit, offset int32) ([]domain.User, error) {
			return []domain.User{{ID: uuid.New(), Email: "budi@example.com", Name: "Budi"}}, nil
		},
	}

	h := NewUserHandler(users)
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Users []domain.User `json:"users"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Users, 1)
	assert.Equal(t, "budi@example.com", body.Users[0].Email)
}

type stubUserService struct {
	ListUsersFunc func(ctx context.Context, limit, offset int32) ([]domain.User, error)
}

func (s *stubUserService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	return nil, nil
}

func (s *stubUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return nil, nil
}

func (s *stubUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return nil, nil
}

func (s *stubUserService) ListUsers(ctx context.Context, limit, offset int32) ([]domain.User, error) {
	return s.ListUsersFunc(ctx, limit, offset)
}
