package auth

import (
	"context"
	"io"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/luxedrive/internal/config"
	"github.com/ukydev/luxedrive/internal/db"
	"github.com/ukydev/luxedrive/internal/models"
)

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestService(t *testing.T, cfg config.AuthConfig) (*Service, *db.Repository) {
	t.Helper()

	store := db.NewMemoryStore()
	require.NoError(t, db.Bootstrap(context.Background(), store, db.DefaultSeed(time.Now())))
	repo := db.NewRepository(store)
	return NewService(cfg, repo, repo, quietLogger()), repo
}

func TestNewService(t *testing.T) {
	service, _ := newTestService(t, config.AuthConfig{})
	assert.NotEmpty(t, service.jwtSecret)
	assert.Equal(t, 24*time.Hour, service.tokenExp)
	assert.False(t, service.requirePassword)
}

func TestService_HashPassword(t *testing.T) {
	service, _ := newTestService(t, config.AuthConfig{})

	password := "testpassword123"
	hash, err := service.HashPassword(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
	assert.True(t, service.CheckPassword(password, hash))
	assert.False(t, service.CheckPassword("wrongpassword", hash))
}

func TestService_ValidateToken(t *testing.T) {
	service, _ := newTestService(t, config.AuthConfig{JWTSecret: "test-secret"})

	user := &models.User{ID: "u1", Email: "admin@luxedrive.com", Role: models.RoleAdmin}
	token, err := service.GenerateToken(user)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin@luxedrive.com", claims.Email)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	_, err = service.ValidateToken("Bearer " + token)
	assert.NoError(t, err)

	_, err = service.ValidateToken("invalid-token")
	assert.Equal(t, ErrInvalidToken, err)

	other, _ := newTestService(t, config.AuthConfig{JWTSecret: "another-secret"})
	_, err = other.ValidateToken(token)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestService_TokensAreUnique(t *testing.T) {
	service, _ := newTestService(t, config.AuthConfig{})
	user := &models.User{ID: "u2", Email: "john@example.com", Role: models.RoleUser}

	first, err := service.GenerateToken(user)
	require.NoError(t, err)
	second, err := service.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestService_TokenExpiration(t *testing.T) {
	service, _ := newTestService(t, config.AuthConfig{TokenTTL: time.Hour})
	user := &models.User{ID: "u2", Email: "john@example.com", Role: models.RoleUser}

	token, _ := service.GenerateToken(user)
	claims, err := service.ValidateToken(token)
	require.NoError(t, err)

	now := time.Now().Unix()
	assert.Greater(t, claims.Exp, now)
	assert.LessOrEqual(t, claims.Exp, now+int64(time.Hour.Seconds())+1)
}

func TestService_ExtractTokenFromHeader(t *testing.T) {
	service, _ := newTestService(t, config.AuthConfig{})

	extracted, err := service.ExtractTokenFromHeader("Bearer valid-token")
	assert.NoError(t, err)
	assert.Equal(t, "valid-token", extracted)

	for _, header := range []string{"", "InvalidFormat", "Bearer ", "Basic abc"} {
		_, err = service.ExtractTokenFromHeader(header)
		assert.Equal(t, ErrInvalidToken, err, header)
	}
}

func TestService_ValidateEmail(t *testing.T) {
	service, _ := newTestService(t, config.AuthConfig{})

	assert.NoError(t, service.ValidateEmail("test@example.com"))
	for _, email := range []string{"testexample.com", "test@", "test"} {
		err := service.ValidateEmail(email)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid email format")
	}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, config.AuthConfig{})

	session, err := service.Login(ctx, "admin@luxedrive.com", "anything")
	require.NoError(t, err)
	assert.Equal(t, "u1", session.User.ID)
	assert.Equal(t, models.RoleAdmin, session.User.Role)
	assert.NotEmpty(t, session.Token)

	current, err := service.CurrentSession(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, session.Token, current.Token)

	other, err := service.CurrentSession(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, other, "another user must not see the session")

	_, err = service.Login(ctx, "nobody@example.com", "")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestService_Login_EmailIsNormalized(t *testing.T) {
	service, _ := newTestService(t, config.AuthConfig{})

	session, err := service.Login(context.Background(), "  John@Example.com ", "")
	require.NoError(t, err)
	assert.Equal(t, "u2", session.User.ID)
}

func TestService_Login_BlockedUser(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestService(t, config.AuthConfig{})

	_, err := repo.ToggleBlock(ctx, "u2")
	require.NoError(t, err)

	_, err = service.Login(ctx, "john@example.com", "")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	current, err := service.CurrentSession(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestService(t, config.AuthConfig{})

	_, err := service.Login(ctx, "john@example.com", "")
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, "u1"))
	stored, err := repo.FindSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored, "logout by another user leaves the session")

	require.NoError(t, service.Logout(ctx, "u2"))
	current, err := service.CurrentSession(ctx, "u2")
	require.NoError(t, err)
	assert.Nil(t, current)

	assert.NoError(t, service.Logout(ctx, "u2"))
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestService(t, config.AuthConfig{})

	user, err := service.Register(ctx, models.RegisterRequest{Name: "Jane", Email: "jane@example.com", Phone: "+1 555"})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.IsBlocked)
	assert.Empty(t, user.PasswordHash)

	stored, err := repo.FindUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, stored.ID)

	_, err = service.Register(ctx, models.RegisterRequest{Name: "Again", Email: "JANE@example.com"})
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)

	_, err = service.Register(ctx, models.RegisterRequest{Name: "Bad", Email: "not-an-email"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestService_RequirePassword(t *testing.T) {
	ctx := context.Background()
	service, repo := newTestService(t, config.AuthConfig{RequirePassword: true})

	_, err := service.Register(ctx, models.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "short"})
	assert.ErrorIs(t, err, models.ErrValidation)

	user, err := service.Register(ctx, models.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash, "public user must not carry the hash")

	stored, err := repo.FindUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)

	_, err = service.Login(ctx, "jane@example.com", "wrong-password")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	session, err := service.Login(ctx, "jane@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Empty(t, session.User.PasswordHash)

	// seeded accounts have no hash and cannot sign in once passwords are required
	_, err = service.Login(ctx, "admin@luxedrive.com", "")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestService_RequirePassword_SeededAdmin(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	repo := db.NewRepository(store)
	service := NewService(config.AuthConfig{RequirePassword: true, AdminPassword: "admin-secret"}, repo, repo, quietLogger())

	hash, err := service.HashPassword("admin-secret")
	require.NoError(t, err)
	require.NoError(t, db.Bootstrap(ctx, store, db.DefaultSeed(time.Now()).WithAdminPasswordHash(hash)))

	_, err = service.Login(ctx, "admin@luxedrive.com", "")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	_, err = service.Login(ctx, "admin@luxedrive.com", "wrong-password")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	session, err := service.Login(ctx, "admin@luxedrive.com", "admin-secret")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, session.User.Role)
	assert.Empty(t, session.User.PasswordHash)
}
