package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/luxedrive/internal/config"
	"github.com/ukydev/luxedrive/internal/db"
	"github.com/ukydev/luxedrive/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Service handles registration, login and the current session.
type Service struct {
	jwtSecret       []byte
	tokenExp        time.Duration
	requirePassword bool

	users    db.UserCollection
	sessions db.SessionStore
	log      log.FieldLogger
}

// NewService creates a new authentication service
func NewService(cfg config.AuthConfig, users db.UserCollection, sessions db.SessionStore, logger log.FieldLogger) *Service {
	secret := cfg.JWTSecret
	if secret == "" {
		secret = "default-secret-key-change-in-production"
	}
	exp := cfg.TokenTTL
	if exp <= 0 {
		exp = 24 * time.Hour
	}
	if logger == nil {
		logger = log.StandardLogger()
	}

	return &Service{
		jwtSecret:       []byte(secret),
		tokenExp:        exp,
		requirePassword: cfg.RequirePassword,
		users:           users,
		sessions:        sessions,
		log:             logger,
	}
}

// Register creates a customer account. The role is always RoleUser.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := s.ValidateEmail(req.Email); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	user := models.User{
		Name:  strings.TrimSpace(req.Name),
		Email: req.Email,
		Role:  models.RoleUser,
		Phone: strings.TrimSpace(req.Phone),
	}

	if s.requirePassword {
		if err := s.ValidatePassword(req.Password); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrValidation, err)
		}
		hash, err := s.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	created, err := s.users.InsertUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(log.Fields{"user_id": created.ID, "email": created.Email}).Info("Registered user")
	public := created.Public()
	return &public, nil
}

// Login looks the user up by email and records a new session. Blocked users
// and unknown emails both fail with models.ErrInvalidCredentials. The password
// is only verified when the service was configured with RequirePassword.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.IsBlocked {
		s.log.WithField("user_id", user.ID).Warn("Login attempt by blocked user")
		return nil, models.ErrInvalidCredentials
	}

	if s.requirePassword && (user.PasswordHash == "" || !s.CheckPassword(password, user.PasswordHash)) {
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	session := models.Session{User: user.Public(), Token: token}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.log.WithFields(log.Fields{"user_id": user.ID, "role": user.Role}).Info("User logged in")
	return &session, nil
}

// Logout clears the current session when it belongs to userID. A session
// held by another user is left in place.
func (s *Service) Logout(ctx context.Context, userID string) error {
	session, err := s.sessions.FindSession(ctx)
	if err != nil {
		return err
	}
	if session == nil || session.User.ID != userID {
		return nil
	}
	return s.sessions.DeleteSession(ctx)
}

// CurrentSession returns the current session when it belongs to userID, or
// nil otherwise.
func (s *Service) CurrentSession(ctx context.Context, userID string) (*models.Session, error) {
	session, err := s.sessions.FindSession(ctx)
	if err != nil || session == nil {
		return nil, err
	}
	if session.User.ID != userID {
		return nil, nil
	}
	return session, nil
}

// HashPassword hashes a password using bcrypt
func (s *Service) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword checks if a password matches a hash
func (s *Service) CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken generates a JWT token for a user
func (s *Service) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     now.Add(s.tokenExp).Unix(),
		"iat":     now.Unix(),
		"jti":     uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a JWT token and returns the claims
func (s *Service) ValidateToken(tokenString string) (*models.Claims, error) {
	// Remove "Bearer " prefix if present
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	email, ok := claims["email"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}

	roleStr, ok := claims["role"].(string)
	if !ok || !models.IsValidRole(models.Role(roleStr)) {
		return nil, ErrInvalidToken
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &models.Claims{
		UserID: userID,
		Email:  email,
		Role:   models.Role(roleStr),
		Exp:    int64(exp),
	}, nil
}

// ExtractTokenFromHeader extracts token from Authorization header
func (s *Service) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}

// ValidatePassword validates password strength
func (s *Service) ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}

// ValidateEmail validates email format
func (s *Service) ValidateEmail(email string) error {
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return errors.New("invalid email format")
	}
	return nil
}
