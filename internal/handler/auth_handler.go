package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulsechat/pulse-backend/internal/common"
	"github.com/pulsechat/pulse-backend/internal/domain"
	"github.com/pulsechat/pulse-backend/internal/middleware"
	"github.com/pulsechat/pulse-backend/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RefreshRequest refresh token request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Username and password required", err)
		return
	}

	resp, err := h.service.Register(&req)
	switch {
	case errors.Is(err, common.ErrUsernameAlreadyExists):
		common.ErrorResponse(c, http.StatusBadRequest, "Username already exists", err)
		return
	case errors.Is(err, common.ErrPhoneAlreadyRegistered):
		common.ErrorResponse(c, http.StatusBadRequest, "Phone number already registered", err)
		return
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	case err != nil:
		common.ErrorResponse(c, http.StatusInternalServerError, "Registration failed", err)
		return
	}

	common.SuccessResponse(c, resp)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Username and password required", err)
		return
	}

	resp, err := h.service.Login(req.Username, req.Password)
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid credentials", err)
		return
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
		return
	case err != nil:
		common.ErrorResponse(c, http.StatusInternalServerError, "Login failed", err)
		return
	}

	common.SuccessResponse(c, resp)
}

// RefreshToken handles POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Refresh token required", err)
		return
	}

	tokens, err := h.service.RefreshToken(req.RefreshToken)
	if errors.Is(err, common.ErrInvalidToken) || errors.Is(err, common.ErrUserNotFound) {
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid refresh token", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Token refresh failed", err)
		return
	}

	common.SuccessResponse(c, tokens)
}

// GetCurrentUser handles GET /api/v1/auth/me (requires JWT)
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	user, err := h.service.GetCurrentUser(userID)
	if err != nil {
		common.ErrorResponse(c, http.StatusNotFound, "User not found", err)
		return
	}

	common.SuccessResponse(c, gin.H{"user": user})
}
