package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/hr-records-service/internal/auth"
	"github.com/spec-kit/hr-records-service/internal/config"
	"github.com/spec-kit/hr-records-service/internal/domain"
	"github.com/spec-kit/hr-records-service/internal/repository"
	apperrors "github.com/spec-kit/hr-records-service/pkg/util"
)

// AccountService coordinates registration, login and profile flows.
type AccountService struct {
	users       repository.UserRepository
	tokenMgr    *auth.TokenManager
	revocations auth.RevocationStore
	bcryptCost  int
	minPassword int
}

// AccountDependencies bundles requirements for the account service.
type AccountDependencies struct {
	UserRepo        repository.UserRepository
	RevocationStore auth.RevocationStore
}

// ProfileUpdateInput carries a partial profile update. Nil fields are left
// untouched.
type ProfileUpdateInput struct {
	Name     *string
	Email    *string
	Password *string
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, deps AccountDependencies) *AccountService {
	return &AccountService{
		users:       deps.UserRepo,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		revocations: deps.RevocationStore,
		bcryptCost:  cfg.Auth.BcryptCost,
		minPassword: cfg.Auth.MinPasswordLength,
	}
}

// Register creates a new account. The email is required and normalized to
// lowercase before persisting; the password is stored only as a bcrypt hash.
func (s *AccountService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := s.checkPassword(password); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateSuperuser registers an account with staff and superuser flags set.
func (s *AccountService) CreateSuperuser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.Register(ctx, email, "", password)
	if err != nil {
		return nil, err
	}
	user.IsStaff = true
	user.IsSuperuser = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if !user.IsActive {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("user inactive")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (s *AccountService) CheckPassword(user *domain.User, plaintext string) bool {
	return auth.ComparePassword(user.PasswordHash, plaintext) == nil
}

// Logout revokes the presented token until its natural expiry.
func (s *AccountService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return s.revocations.Revoke(ctx, tokenID, expiresAt)
}

// GetProfile loads the caller's account.
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateProfile applies a partial update to the caller's account.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.Email != nil {
		email, err := s.normalizeEmail(*input.Email)
		if err != nil {
			return nil, err
		}
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Password != nil {
		if err := s.checkPassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AccountService) normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", apperrors.NewValidationError("email required", map[string]any{
			"email": "this field may not be blank",
		})
	}
	return email, nil
}

func (s *AccountService) checkPassword(password string) error {
	if len(password) < s.minPassword {
		return apperrors.NewValidationError("password too short", map[string]any{
			"password": fmt.Sprintf("must be at least %d characters", s.minPassword),
		})
	}
	return nil
}

func (s *AccountService) ensureEmailFree(ctx context.Context, email string) error {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return apperrors.NewConflict("email already registered", map[string]any{
			"email": "a user with this email already exists",
		})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return nil
}
