package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/coupondrop/coupondrop/internal/api/middleware"
	"github.com/coupondrop/coupondrop/internal/api/response"
	"github.com/coupondrop/coupondrop/internal/model"
	"github.com/coupondrop/coupondrop/internal/service"
)

// AuthService is the slice of authentication the handlers need.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *model.AdminUser, error)
	CurrentUser(ctx context.Context, adminID uuid.UUID) (*model.AdminUser, error)
	TokenTTL() time.Duration
}

// AuthHandler serves admin login, logout and session retrieval.
type AuthHandler struct {
	auth          AuthService
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(auth AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookies: secureCookies}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type adminResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// Login verifies credentials and installs the session token cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, "username and password are required")
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials, "invalid username or password")
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "login failed")
		return
	}

	SetAccessTokenCookie(c, token, h.auth.TokenTTL(), h.secureCookies)
	response.Success(c, adminResponse{ID: user.ID, Username: user.Username})
}

// Logout clears the session token cookie. Tokens are short-lived and
// stateless; there is no server-side revocation list.
func (h *AuthHandler) Logout(c *gin.Context) {
	ClearAccessTokenCookie(c, h.secureCookies)
	response.Success(c, nil)
}

// Me returns the authenticated operator.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized, "unauthorized")
		return
	}

	adminID, err := claims.AdminUUID()
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized, "unauthorized")
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), adminID)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized, "unauthorized")
		return
	}

	response.Success(c, adminResponse{ID: user.ID, Username: user.Username})
}
