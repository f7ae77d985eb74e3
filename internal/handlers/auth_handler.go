package handlers

import (
	"net/http"

	"github.com/classtrack/learning-service/internal/services"
	"github.com/classtrack/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
	sessionTTL  int
	secure      bool
}

func NewAuthHandler(authService services.AuthService, sessionTTLSeconds int, secureCookies bool, logger utils.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
		sessionTTL:  sessionTTLSeconds,
		secure:      secureCookies,
	}
}

type LoginRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// Login verifies credentials and sets the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.UserID, req.Password)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, h.sessionTTL, "/", "", h.secure, true)

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Logged in",
		Data:    user,
	})
}

// Logout revokes the session server-side and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(SessionCookieName)
	if err == nil && token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			h.LogError(c, err, "Failed to destroy session")
		}
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", h.secure, true)

	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out"})
}

// Me returns the session's identity.
func (h *AuthHandler) Me(c *gin.Context) {
	session := SessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// ChangePassword lets a logged-in user rotate their own password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	session := SessionFromContext(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not authenticated"})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), session.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Password changed"})
}
