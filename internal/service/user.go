package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kapilraj/pos-backend/internal/hash"
	"github.com/kapilraj/pos-backend/internal/models"
	"github.com/kapilraj/pos-backend/internal/repo"
	"github.com/kapilraj/pos-backend/internal/token"
	"github.com/kapilraj/pos-backend/internal/transport"
)

// ErrBadCredentials covers both unknown email and wrong password so the
// login response never reveals which one failed.
var ErrBadCredentials = errors.New("invalid email or password")

type UserService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

func NewUserService(r *repo.GormRepo, secret []byte) *UserService {
	return &UserService{Repo: r, JWTSecret: secret}
}

func (s *UserService) Login(ctx context.Context, email, password string) (*transport.AuthResponse, error) {
	user, err := s.Repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrBadCredentials
	}

	signed, err := token.SignAccessToken(user.UserID, user.Email, user.Role, s.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &transport.AuthResponse{Email: user.Email, Token: signed, Role: user.Role}, nil
}

func (s *UserService) CreateUser(ctx context.Context, req transport.UserRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	if _, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email %s already registered", ErrConflict, email)
	} else if !errors.Is(err, repo.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		UserID:       uuid.NewString(),
		Email:        email,
		PasswordHash: hashed,
		Role:         token.NormalizeRole(req.Role),
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	return s.Repo.DeleteUser(ctx, userID)
}
