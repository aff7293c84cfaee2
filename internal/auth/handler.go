// File: internal/auth/handler.go
package auth

import (
	"net/http"
	"time"

	"realty_bureau_backend/internal/common"
	"realty_bureau_backend/internal/config"
	"realty_bureau_backend/internal/middleware"
	"realty_bureau_backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for auth handlers.
type Handler struct {
	service Service
	cfg     *config.Config
	logger  *zap.Logger
}

// NewHandler creates a new auth handler.
func NewHandler(service Service, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for authentication operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", h.signup)
		authGroup.POST("/login", h.login)
		authGroup.POST("/google/login", h.googleLogin)

		authGroup.POST("/logout", authMW, h.logout)
		authGroup.GET("/profile", authMW, h.profile)
	}
}

func (h *Handler) signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Signup: invalid request body", zap.Error(err))
		common.RespondWithError(c, common.NewBindingAPIError(err))
		return
	}
	resp, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	h.setAuthCookie(c, resp.Token, resp.ExpiresAt)
	common.RespondCreated(c, "User registered successfully.", resp)
}

func (h *Handler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("Login: invalid request body", zap.Error(err))
		common.RespondWithError(c, common.NewBindingAPIError(err))
		return
	}
	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	h.setAuthCookie(c, resp.Token, resp.ExpiresAt)
	common.RespondOK(c, "Login successful.", resp)
}

func (h *Handler) googleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondWithError(c, common.NewBindingAPIError(err))
		return
	}
	resp, created, err := h.service.GoogleLogin(c.Request.Context(), req.Credential)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	h.setAuthCookie(c, resp.Token, resp.ExpiresAt)
	if created {
		common.RespondCreated(c, "Google sign-up successful.", resp)
		return
	}
	common.RespondOK(c, "Google login successful.", resp)
}

func (h *Handler) logout(c *gin.Context) {
	claims := middleware.GetUserClaimsFromContext(c)
	if claims == nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authentication required."))
		return
	}
	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		common.RespondWithError(c, err)
		return
	}
	h.clearAuthCookie(c)
	common.RespondOK(c, "Logged out successfully.", nil)
}

func (h *Handler) profile(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrUnauthorized.WithDetails("Authentication required."))
		return
	}
	usr, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User profile retrieved successfully.", user.ToUserResponse(usr))
}

func (h *Handler) setAuthCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		return
	}
	h.writeCookie(c, token, maxAge)
}

func (h *Handler) clearAuthCookie(c *gin.Context) {
	h.writeCookie(c, "", -1)
}

// Secure cookies are SameSite=None, plain ones Lax.
func (h *Handler) writeCookie(c *gin.Context, value string, maxAge int) {
	if h.cfg.AuthCookieSecure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(h.cfg.AuthCookieName, value, maxAge, "/", h.cfg.AuthCookieDomain, h.cfg.AuthCookieSecure, true)
}
