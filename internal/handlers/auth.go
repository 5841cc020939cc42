package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskbox/taskbox-api/internal/constants"
	"github.com/taskbox/taskbox-api/internal/dto"
	apierrors "github.com/taskbox/taskbox-api/internal/errors"
	"github.com/taskbox/taskbox-api/internal/middleware"
	"github.com/taskbox/taskbox-api/internal/services"
	"github.com/taskbox/taskbox-api/internal/token"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService   *services.AuthService
	tokens        *token.Manager
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler. secureCookies should be true
// in production so the session cookie is only sent over HTTPS.
func NewAuthHandler(authService *services.AuthService, tokens *token.Manager, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		tokens:        tokens,
		secureCookies: secureCookies,
	}
}

// Signup registers a new user and opens a session.
func (h *AuthHandler) Signup(c *gin.Context) {
	type SignupRequest struct {
		Username string `json:"username" binding:"required,min=3,max=20"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Signup(services.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if !h.openSession(c, user.ID) {
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(*user))
}

// Login authenticates a user and opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	if !h.openSession(c, user.ID) {
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(*user))
}

// Logout clears the session cookie. Tokens are stateless, so there is
// nothing to revoke server-side; the client simply stops holding a valid
// credential.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, "", -1, "/", "", h.secureCookies, true)

	c.JSON(http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(*user))
}

// openSession issues a token for userID and sets the session cookie.
// Reports false after writing an error response if issuing fails.
func (h *AuthHandler) openSession(c *gin.Context, userID uint64) bool {
	t, err := h.tokens.Issue(userID)
	if err != nil {
		apierrors.InternalError(c, "")
		return false
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, t, int(constants.SessionLifetime.Seconds()), "/", "", h.secureCookies, true)
	return true
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUsernameInvalid),
		errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUserExists):
		apierrors.AlreadyExists(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
