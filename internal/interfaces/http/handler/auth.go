package handler

import (
	"time"

	"github.com/commerceqb/gateway/internal/domain/commerce"
	"github.com/commerceqb/gateway/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LoginRequest holds admin login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the minted access token
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Username    string    `json:"username"`
}

// AuthHandler handles admin authentication requests
type AuthHandler struct {
	BaseHandler
	users  commerce.UserRepository
	tokens *auth.JWTService
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users commerce.UserRepository, tokens *auth.JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, logger: logger}
}

// Login authenticates an admin user and mints an API token
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil || !user.CanConnect() || !user.VerifyPassword(req.Password) {
		h.logger.Warn("admin login rejected", zap.String("username", req.Username))
		h.Unauthorized(c, "Invalid credentials")
		return
	}

	token, expiresAt, err := h.tokens.GenerateToken(user.ID, user.Username)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Username:    user.Username,
	})
}

// RegisterRoutes mounts the auth endpoints on the given router group
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}
