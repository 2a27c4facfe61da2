package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	appidentity "github.com/arghosts/affiliate-shop-sub000/internal/application/identity"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/config"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/metrics"
	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/dto"
	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthService is the admin session use case consumed by AuthHandler
type AuthService interface {
	Login(ctx context.Context, input appidentity.LoginInput) (*appidentity.LoginResult, error)
	Me(ctx context.Context, session *appidentity.SessionIdentity) (*appidentity.AdminResponse, error)
}

// SessionCookie holds the attributes of the admin session cookie
type SessionCookie struct {
	Name     string
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// NewSessionCookie builds the cookie attributes from configuration
func NewSessionCookie(session config.SessionConfig, cookie config.CookieConfig) SessionCookie {
	name := session.CookieName
	if name == "" {
		name = "admin_session"
	}
	path := cookie.Path
	if path == "" {
		path = "/"
	}
	return SessionCookie{
		Name:     name,
		Domain:   cookie.Domain,
		Path:     path,
		Secure:   cookie.Secure,
		SameSite: parseSameSite(cookie.SameSite),
	}
}

func parseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// AuthHandler handles admin login, logout and the current session
type AuthHandler struct {
	BaseHandler
	authService AuthService
	cookie      SessionCookie
	metrics     *metrics.Metrics
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthService, cookie SessionCookie, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		metrics:     m,
	}
}

// Login godoc
// @Summary      Admin login
// @Description  Verifies the credentials and sets the HttpOnly session cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body appidentity.LoginInput true "Credentials"
// @Success      200 {object} dto.ActionResult{data=appidentity.LoginResult}
// @Failure      401 {object} dto.ActionResult
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req appidentity.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ActionInvalid(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	h.metrics.ObserveLogin(err)
	if err != nil {
		h.ActionFailed(c, err)
		return
	}

	h.setCookie(c, result.Token, int(time.Until(result.ExpiresAt).Seconds()))
	h.Action(c, http.StatusOK, "Signed in", result)
}

// Logout clears the session cookie. Sessions are stateless, so there is
// nothing to revoke server side.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, "", -1)
	h.Action(c, http.StatusOK, "Signed out", nil)
}

// Me returns the admin owning the current session
func (h *AuthHandler) Me(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}

	admin, err := h.authService.Me(c.Request.Context(), session)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, admin)
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(h.cookie.SameSite)
	c.SetCookie(h.cookie.Name, value, maxAge, h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}
