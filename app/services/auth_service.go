package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/mockshop/app/models"
	"github.com/shashiranjanraj/mockshop/app/repositories"
	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/auth"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
)

// RegisterInput is the body of POST /api/auth/register.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

// LoginInput is the body of POST /api/auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is returned by register, login and refresh.
type Session struct {
	User *models.User `json:"user,omitempty"`
	auth.TokenPair
}

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService() *AuthService {
	return &AuthService{users: repositories.NewUserRepository()}
}

// Register creates a CUSTOMER account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	taken, err := s.users.EmailTaken(ctx, email)
	if err != nil {
		return Session{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return Session{}, apperr.Invalid(map[string]string{"email": "email is already registered"})
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	u := models.User{
		Email:     email,
		Password:  hash,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Role:      models.RoleCustomer,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}
	logger.WithCtx(ctx).Info("user registered", "user_id", u.ID)
	return s.session(u)
}

// Login checks the password and issues a token pair.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (Session, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil && !errors.Is(err, orm.ErrNotFound) {
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	if err != nil || !auth.CheckPassword(u.Password, in.Password) {
		return Session{}, apperr.Unauthorized("Invalid email or password")
	}
	return s.session(u)
}

// Refresh trades a valid refresh token for a new pair. The old refresh
// token is revoked.
func (s *AuthService) Refresh(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ValidateRefresh(token)
	if err != nil {
		return Session{}, apperr.Unauthorized("Invalid refresh token")
	}
	u, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, orm.ErrNotFound) {
		return Session{}, apperr.Unauthorized("Invalid refresh token")
	}
	if err != nil {
		return Session{}, fmt.Errorf("load user: %w", err)
	}
	if err := auth.Revoke(claims); err != nil {
		return Session{}, fmt.Errorf("revoke refresh token: %w", err)
	}
	pair, err := auth.IssuePair(u.ID, u.Role)
	if err != nil {
		return Session{}, fmt.Errorf("issue tokens: %w", err)
	}
	return Session{TokenPair: pair}, nil
}

// Me returns the signed-in user.
func (s *AuthService) Me(ctx context.Context, userID uint) (models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, orm.ErrNotFound) {
		return u, apperr.NotFound("User not found")
	}
	if err != nil {
		return u, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

// Logout revokes the access token of the current request.
func (s *AuthService) Logout(_ context.Context, id auth.Identity) error {
	if err := auth.Revoke(id.Claims); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *AuthService) session(u models.User) (Session, error) {
	pair, err := auth.IssuePair(u.ID, u.Role)
	if err != nil {
		return Session{}, fmt.Errorf("issue tokens: %w", err)
	}
	return Session{User: &u, TokenPair: pair}, nil
}
