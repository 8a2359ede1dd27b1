package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/coupondrop/coupondrop/internal/auth"
	"github.com/coupondrop/coupondrop/internal/model"
	"github.com/coupondrop/coupondrop/internal/repository"
)

// AuthService authenticates dashboard operators and mints session tokens.
type AuthService struct {
	postgres  *sqlx.DB
	adminRepo *repository.AdminUserRepository
	secret    []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService instance
func NewAuthService(postgres *sqlx.DB, secret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 2 * time.Hour
	}
	return &AuthService{
		postgres:  postgres,
		adminRepo: repository.NewAdminUserRepository(),
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// TokenTTL returns the session token lifetime, for cookie max-age.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// Login verifies credentials and returns a signed session token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.AdminUser, error) {
	user, err := s.adminRepo.FindByUsername(s.postgres, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up admin", zap.Error(err))
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(auth.NewClaims(user.ID, user.Username, s.tokenTTL), s.secret)
	if err != nil {
		s.logger.Error("failed to sign session token", zap.Error(err))
		return "", nil, err
	}

	s.logger.Info("admin logged in", zap.String("username", user.Username))
	return token, user, nil
}

// VerifyToken validates a session token and returns its claims.
func (s *AuthService) VerifyToken(tokenStr string) (*auth.Claims, error) {
	return auth.ParseToken(tokenStr, s.secret)
}

// CurrentUser resolves the operator behind verified claims.
func (s *AuthService) CurrentUser(ctx context.Context, adminID uuid.UUID) (*model.AdminUser, error) {
	user, err := s.adminRepo.FindByID(s.postgres, adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

// SeedAdmin creates the configured bootstrap operator when no accounts
// exist yet. A no-op otherwise, or when no bootstrap password is set.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) error {
	if password == "" {
		return nil
	}

	count, err := s.adminRepo.CountAdminUsers(s.postgres)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &model.AdminUser{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.adminRepo.CreateAdminUser(s.postgres, user); err != nil {
		return err
	}

	s.logger.Info("seeded bootstrap admin", zap.String("username", username))
	return nil
}
