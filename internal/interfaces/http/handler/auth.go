package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
)

// AuthHandler issues admin API tokens. The storefront endpoints are
// anonymous; only the admin surface authenticates.
type AuthHandler struct {
	BaseHandler
	jwtService *auth.JWTService
	admin      config.AdminConfig
	logger     *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(jwtService *auth.JWTService, admin config.AdminConfig, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		jwtService: jwtService,
		admin:      admin,
		logger:     logger,
	}
}

// LoginRequest represents an admin login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
	Username    string `json:"username"`
}

// Login godoc
// @Summary      Admin login
// @Description  Verifies the admin credential and issues a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      200 {object} APIResponse[LoginResponse]
// @Failure      401 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if h.admin.PasswordHash == "" {
		h.logger.Warn("Login attempted without a configured admin credential")
		h.Unauthorized(c, "Invalid credentials")
		return
	}

	if req.Username != h.admin.Username {
		h.Unauthorized(c, "Invalid credentials")
		return
	}

	if err := auth.VerifyPassword(h.admin.PasswordHash, req.Password); err != nil {
		h.logger.Warn("Admin login failed", zap.String("username", req.Username))
		h.Unauthorized(c, "Invalid credentials")
		return
	}

	// Single configured admin, so the user ID is derived from the
	// username and stays stable across restarts.
	userID := uuid.NewSHA1(uuid.NameSpaceOID, []byte("storefront-admin:"+req.Username))

	token, err := h.jwtService.GenerateToken(auth.GenerateTokenInput{
		UserID:   userID,
		Username: req.Username,
		Role:     auth.RoleAdmin,
	})
	if err != nil {
		h.logger.Error("Failed to issue admin token", zap.Error(err))
		h.InternalError(c, "Failed to issue token")
		return
	}

	h.Success(c, LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		Username:    req.Username,
	})
}
