package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/luxedrive/internal/auth"
	"github.com/ukydev/luxedrive/internal/config"
	"github.com/ukydev/luxedrive/internal/db"
	"github.com/ukydev/luxedrive/internal/models"
)

var (
	adminUser    = &models.User{ID: "u1", Email: "admin@luxedrive.com", Role: models.RoleAdmin}
	customerUser = &models.User{ID: "u2", Email: "john@example.com", Role: models.RoleUser}
)

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func newAuthFixture(t *testing.T) (*auth.Service, *db.Repository) {
	t.Helper()
	store := db.NewMemoryStore()
	require.NoError(t, db.Bootstrap(context.Background(), store, db.DefaultSeed(time.Now())))
	repo := db.NewRepository(store)
	return auth.NewService(config.AuthConfig{JWTSecret: "test"}, repo, repo, quietLogger()), repo
}

func tokenFor(t *testing.T, svc *auth.Service, user *models.User) string {
	t.Helper()
	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	svc, repo := newAuthFixture(t)
	mw := NewAuthMiddleware(svc, repo)

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/mine", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, svc, customerUser))
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
			claims, ok := GetUserFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, "u2", claims.UserID)
			assert.Equal(t, models.RoleUser, claims.Role)
		})

		mw.Authenticate(handler).ServeHTTP(w, req)
		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing authorization header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/mine", nil)
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { handlerCalled = true })

		mw.Authenticate(handler).ServeHTTP(w, req)
		assert.False(t, handlerCalled)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/mine", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { handlerCalled = true })

		mw.Authenticate(handler).ServeHTTP(w, req)
		assert.False(t, handlerCalled)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed authorization header", func(t *testing.T) {
		token := tokenFor(t, svc, customerUser)
		for _, header := range []string{token, "Token " + token, "Bearer", "bearer " + token, "Bearer " + token + " extra"} {
			req := httptest.NewRequest(http.MethodGet, "/api/bookings/mine", nil)
			req.Header.Set("Authorization", header)
			w := httptest.NewRecorder()

			handlerCalled := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { handlerCalled = true })

			mw.Authenticate(handler).ServeHTTP(w, req)
			assert.False(t, handlerCalled, header)
			assert.Equal(t, http.StatusUnauthorized, w.Code, header)
			assert.Contains(t, w.Body.String(), "Bearer <token>", header)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		ghost := &models.User{ID: "u404", Email: "ghost@example.com", Role: models.RoleUser}
		req := httptest.NewRequest(http.MethodGet, "/api/bookings/mine", nil)
		req.Header.Set("Authorization", "Bearer "+tokenFor(t, svc, ghost))
		w := httptest.NewRecorder()

		mw.Authenticate(http.NotFoundHandler()).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("blocked user", func(t *testing.T) {
		token := tokenFor(t, svc, customerUser)
		_, err := repo.ToggleBlock(context.Background(), "u2")
		require.NoError(t, err)
		t.Cleanup(func() { _, _ = repo.ToggleBlock(context.Background(), "u2") })

		req := httptest.NewRequest(http.MethodGet, "/api/bookings/mine", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { handlerCalled = true })

		mw.Authenticate(handler).ServeHTTP(w, req)
		assert.False(t, handlerCalled)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	svc, repo := newAuthFixture(t)
	mw := NewAuthMiddleware(svc, repo)

	tests := []struct {
		name       string
		user       *models.User
		wantCalled bool
		wantStatus int
	}{
		{"admin", adminUser, true, http.StatusOK},
		{"customer", customerUser, false, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, svc, tt.user))
			w := httptest.NewRecorder()

			handlerCalled := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { handlerCalled = true })

			mw.Authenticate(mw.RequireRole(models.RoleAdmin)(handler)).ServeHTTP(w, req)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}

	t.Run("no claims", func(t *testing.T) {
		w := httptest.NewRecorder()
		mw.RequireRole(models.RoleAdmin)(http.NotFoundHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthMiddleware_RequirePermission(t *testing.T) {
	svc, repo := newAuthFixture(t)
	mw := NewAuthMiddleware(svc, repo)

	tests := []struct {
		name       string
		user       *models.User
		action     string
		wantCalled bool
	}{
		{"admin any action", adminUser, "manage_fleet", true},
		{"customer books", customerUser, "create_booking", true},
		{"customer manages fleet", customerUser, "manage_fleet", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, svc, tt.user))
			w := httptest.NewRecorder()

			handlerCalled := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { handlerCalled = true })

			mw.Authenticate(mw.RequirePermission(tt.action)(handler)).ServeHTTP(w, req)
			assert.Equal(t, tt.wantCalled, handlerCalled)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimitMiddleware()
	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	handler := limiter.RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("192.168.1.1"))
	assert.Equal(t, http.StatusOK, hit("192.168.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("192.168.1.1"))
	assert.Equal(t, http.StatusOK, hit("192.168.1.2"), "limits are per client")

	current = current.Add(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hit("192.168.1.1"), "window has passed")
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	handler := NewRateLimitMiddleware().RateLimit(0, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for i := 0; i < 20; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", getClientIP(req))

	req.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.2", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "10.0.0.3, 10.0.0.4")
	assert.Equal(t, "10.0.0.3", getClientIP(req))
}

func TestGetUserFromContext(t *testing.T) {
	claims := &models.Claims{UserID: "test-id", Email: "test@example.com", Role: models.RoleAdmin}

	retrieved, ok := GetUserFromContext(WithClaims(context.Background(), claims))
	assert.True(t, ok)
	assert.Equal(t, claims, retrieved)

	_, ok = GetUserFromContext(context.Background())
	assert.False(t, ok)
}
