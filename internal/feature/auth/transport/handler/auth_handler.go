// Package handler provides the HTTP handlers of the auth feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/auth/transport/http/dto"
	"shop_backend/internal/feature/auth/usecase"
	jwtmw "shop_backend/internal/platform/jwt"
)

// AuthUsecase defines the auth operations the handler needs.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	Register(ctx context.Context, username, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	UpdateFavorites(ctx context.Context, userID uint, favorites []uint) ([]uint, error)
	Profile(ctx context.Context, userID uint) (*entity.User, error)
}

// AuthHandler handles the /api/users endpoints.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /api/users/register.
//   - 400 on validation errors
//   - 409 when the email is taken
//   - 201 with a token on success
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	token, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(c, "register failed", err)
		return
	}

	slog.Info("user registered", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.TokenRes{Message: "User registered successfully", Token: token})
}

// Login handles POST /api/users/login.
//   - 400 on validation errors
//   - 401 for an unknown email or wrong password
//   - 200 with a token on success
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, "login failed", err)
		return
	}

	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.TokenRes{Message: "Login successful", Token: token})
}

// UpdateFavorites handles PUT /api/users/favorites. Requires AuthRequired.
func (h *AuthHandler) UpdateFavorites(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	var req dto.FavoritesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("favorites validation failed", "error", err, "user_id", userID, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	favorites, err := h.auth.UpdateFavorites(c.Request.Context(), userID, req.Favorites)
	if err != nil {
		writeError(c, "favorites update failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.FavoritesRes{Message: "Favorites updated successfully", Favorites: favorites})
}

// Me handles GET /api/users/me. Requires AuthRequired.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := jwtmw.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "unauthorized"})
		return
	}

	user, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, "profile lookup failed", err)
		return
	}

	favorites := user.Favorites
	if favorites == nil {
		favorites = []uint{}
	}
	c.JSON(http.StatusOK, dto.UserRes{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Favorites: favorites,
		CreatedAt: user.CreatedAt,
	})
}

// writeError maps usecase errors to status codes. Unknown errors are logged
// and reported as a generic 500.
func writeError(c *gin.Context, msg string, err error) {
	status := http.StatusInternalServerError
	body := "server error"

	switch {
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		status, body = http.StatusConflict, usecase.ErrEmailAlreadyExists.Error()
	case errors.Is(err, usecase.ErrInvalidCredentials):
		status, body = http.StatusUnauthorized, usecase.ErrInvalidCredentials.Error()
	case errors.Is(err, usecase.ErrUserNotFound):
		status, body = http.StatusNotFound, usecase.ErrUserNotFound.Error()
	}

	if status == http.StatusInternalServerError {
		slog.Error(msg, "error", err, "remote_addr", c.ClientIP())
	} else {
		slog.Warn(msg, "error", err, "remote_addr", c.ClientIP())
	}
	c.JSON(status, api.ErrorResponse{Error: body})
}
