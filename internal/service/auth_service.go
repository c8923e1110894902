package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/edupress/lms-backend/internal/dto"
	"github.com/edupress/lms-backend/internal/model"
	"github.com/edupress/lms-backend/internal/repository"
	"github.com/edupress/lms-backend/pkg/apperror"
	"github.com/edupress/lms-backend/pkg/password"
	"github.com/edupress/lms-backend/pkg/token"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const loginThrottleWindow = 3 * time.Second

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, user *model.User) (*dto.AuthResponse, error)
}

type authService struct {
	repo   repository.UserRepository
	tokens *token.Service
	rdb    *redis.Client
}

func NewAuthService(repo repository.UserRepository, tokens *token.Service, rdb *redis.Client) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		rdb:    rdb,
	}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperror.Wrap(apperror.ErrConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := model.RoleStudent
	if input.Role != "" {
		role = model.Role(input.Role)
	}
	// Admin accounts are never self-registered; binding already restricts the
	// field to student/teacher, this guards non-HTTP callers.
	if !role.Valid() || role == model.RoleAdmin {
		return nil, apperror.Wrap(apperror.ErrInvalidInput, "invalid role")
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashed,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Institution:  input.Institution,
		Role:         role,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	// The throttle is best-effort: a redis outage must not lock anyone out.
	allowed, err := CheckAndSetRateLimit(ctx, s.rdb, email, "login", loginThrottleWindow)
	if err != nil {
		log.Printf("login throttle check failed: %v", err)
		allowed = true
	}
	if !allowed {
		return nil, apperror.Wrap(apperror.ErrRateLimitExceeded, "too many login attempts, try again shortly")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrUnauthorized, "invalid email or password")
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, apperror.Wrap(apperror.ErrUnauthorized, "invalid email or password")
	}

	if !user.IsActive {
		return nil, apperror.Wrap(apperror.ErrForbidden, "account is inactive")
	}

	// Credentials already checked out; the lock expires on its own if the
	// clear fails.
	if err := ClearRateLimit(ctx, s.rdb, email, "login"); err != nil {
		log.Printf("failed to clear login throttle for %s: %v", email, err)
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Refresh(ctx context.Context, user *model.User) (*dto.AuthResponse, error) {
	return s.buildAuthResponse(user)
}

func (s *authService) buildAuthResponse(user *model.User) (*dto.AuthResponse, error) {
	signed, expiresAt, err := s.tokens.Issue(token.Identity{
		ID:    user.ID,
		Email: user.Email,
		Role:  string(user.Role),
	})
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""

	return &dto.AuthResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        user,
	}, nil
}
