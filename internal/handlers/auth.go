package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kapilraj/pos-backend/internal/events"
	"github.com/kapilraj/pos-backend/internal/logging"
	"github.com/kapilraj/pos-backend/internal/service"
	"github.com/kapilraj/pos-backend/internal/transport"
)

type AuthHandler struct {
	Users    *service.UserService
	Producer *events.Producer
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	log := logging.FromContext(ctx).With("handler", "login")

	var req transport.UserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.Users.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			log.Warn("login_failed", "email", req.Email, "reason", "bad_credentials")
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		log.Error("login_failed", "email", req.Email, "error", err)
		return httpError(err)
	}

	log.Info("login_success", "email", resp.Email, "role", resp.Role)
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	log := logging.FromContext(ctx).With("handler", "register")

	var req transport.UserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.Users.CreateUser(ctx, req)
	if err != nil {
		log.Warn("register_failed", "email", req.Email, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicUsers, user.UserID, map[string]any{
		"type":   "user_registered",
		"userID": user.UserID,
		"email":  user.Email,
		"role":   user.Role,
	})

	log.Info("register_success", "userID", user.UserID, "email", user.Email)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.ListUsers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AuthHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	log := logging.FromContext(ctx).With("handler", "delete_user")

	userID := c.Param("id")
	if err := h.Users.DeleteUser(ctx, userID); err != nil {
		log.Warn("delete_user_failed", "userID", userID, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, events.TopicUsers, userID, map[string]any{
		"type":   "user_deleted",
		"userID": userID,
	})

	log.Info("delete_user_success", "userID", userID)
	return c.NoContent(http.StatusNoContent)
}
