package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kapilraj/pos-backend/internal/repo"
	"github.com/kapilraj/pos-backend/internal/token"
	"github.com/kapilraj/pos-backend/internal/transport"
)

var testSecret = []byte("test-secret")

func TestCreateUserAndLogin(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(&repo.GormRepo{DB: db}, testSecret)

	user, err := svc.CreateUser(context.Background(), transport.UserRequest{
		Email:    "Admin@Example.com",
		Password: "hunter22",
		Role:     "admin",
	})
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", user.Email)
	require.Equal(t, "ROLE_ADMIN", user.Role)
	require.NotEqual(t, "hunter22", user.PasswordHash)

	resp, err := svc.Login(context.Background(), "admin@example.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "ROLE_ADMIN", resp.Role)

	claims, err := token.Parse(resp.Token, testSecret)
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", claims["email"])
	require.True(t, token.IsAdmin(claims))
}

func TestLoginBadCredentials(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(&repo.GormRepo{DB: db}, testSecret)

	_, err := svc.CreateUser(context.Background(), transport.UserRequest{
		Email:    "cashier@example.com",
		Password: "correct",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "cashier@example.com", "wrong")
	require.ErrorIs(t, err, ErrBadCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.ErrorIs(t, err, ErrBadCredentials)
}

func TestCreateUserDefaultsRole(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(&repo.GormRepo{DB: db}, testSecret)

	user, err := svc.CreateUser(context.Background(), transport.UserRequest{
		Email:    "cashier@example.com",
		Password: "pw",
	})
	require.NoError(t, err)
	require.Equal(t, "ROLE_USER", user.Role)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(&repo.GormRepo{DB: db}, testSecret)

	_, err := svc.CreateUser(context.Background(), transport.UserRequest{
		Email: "dup@example.com", Password: "pw",
	})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), transport.UserRequest{
		Email: "DUP@example.com", Password: "pw",
	})
	require.ErrorIs(t, err, ErrConflict)
}

func TestCreateUserValidation(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(&repo.GormRepo{DB: db}, testSecret)

	_, err := svc.CreateUser(context.Background(), transport.UserRequest{Password: "pw"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateUser(context.Background(), transport.UserRequest{Email: "a@b.c"})
	require.ErrorIs(t, err, ErrValidation)
}

func TestDeleteUser(t *testing.T) {
	db := testDB(t)
	svc := NewUserService(&repo.GormRepo{DB: db}, testSecret)

	user, err := svc.CreateUser(context.Background(), transport.UserRequest{
		Email: "gone@example.com", Password: "pw",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), user.UserID))

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Empty(t, users)

	err = svc.DeleteUser(context.Background(), user.UserID)
	require.ErrorIs(t, err, repo.ErrUserNotFound)
}
