package middleware

import (
	"context"
	"net/http"
	"strings"

	appidentity "github.com/arghosts/affiliate-shop-sub000/internal/application/identity"
	"github.com/arghosts/affiliate-shop-sub000/internal/infrastructure/logger"
	"github.com/arghosts/affiliate-shop-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const sessionContextKey = "admin_session"

// SessionVerifier resolves a session token to its admin
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*appidentity.SessionIdentity, error)
}

// SessionGuardConfig names the session cookie and the page paths of the gate
type SessionGuardConfig struct {
	CookieName string
	LoginPath  string // unauthenticated admin pages redirect here
	HomePath   string // signed-in visitors of LoginPath redirect here
	AdminPath  string // prefix of gated pages
}

// DefaultSessionGuardConfig returns the default cookie name and page paths
func DefaultSessionGuardConfig() SessionGuardConfig {
	return SessionGuardConfig{
		CookieName: "admin_session",
		LoginPath:  "/login",
		HomePath:   "/admin",
		AdminPath:  "/admin",
	}
}

func (cfg SessionGuardConfig) withDefaults() SessionGuardConfig {
	def := DefaultSessionGuardConfig()
	if cfg.CookieName == "" {
		cfg.CookieName = def.CookieName
	}
	if cfg.LoginPath == "" {
		cfg.LoginPath = def.LoginPath
	}
	if cfg.HomePath == "" {
		cfg.HomePath = def.HomePath
	}
	if cfg.AdminPath == "" {
		cfg.AdminPath = def.AdminPath
	}
	return cfg
}

// RequireSession rejects API requests without a valid session cookie with a
// 401 envelope. On success the session is stored on the gin context and the
// admin ID is attached to the request logger.
func RequireSession(verifier SessionVerifier, cfg SessionGuardConfig) gin.HandlerFunc {
	cfg = cfg.withDefaults()

	return func(c *gin.Context) {
		session := verifyCookie(c, verifier, cfg.CookieName)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c),
			))
			return
		}

		setSession(c, session)
		c.Next()
	}
}

// PageGate guards the admin and login pages. Visitors of an admin page
// without a valid session are sent to the login page; signed-in visitors
// of the login page are sent to the admin home. Other paths pass through.
func PageGate(verifier SessionVerifier, cfg SessionGuardConfig) gin.HandlerFunc {
	cfg = cfg.withDefaults()

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		switch {
		case isUnder(path, cfg.AdminPath):
			session := verifyCookie(c, verifier, cfg.CookieName)
			if session == nil {
				c.Redirect(http.StatusFound, cfg.LoginPath)
				c.Abort()
				return
			}
			setSession(c, session)

		case isUnder(path, cfg.LoginPath):
			if verifyCookie(c, verifier, cfg.CookieName) != nil {
				c.Redirect(http.StatusFound, cfg.HomePath)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// GetSession returns the session stored by RequireSession or PageGate
func GetSession(c *gin.Context) *appidentity.SessionIdentity {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	session, _ := v.(*appidentity.SessionIdentity)
	return session
}

func verifyCookie(c *gin.Context, verifier SessionVerifier, name string) *appidentity.SessionIdentity {
	token, err := c.Cookie(name)
	if err != nil || token == "" {
		return nil
	}
	session, err := verifier.VerifySession(c.Request.Context(), token)
	if err != nil {
		return nil
	}
	return session
}

func setSession(c *gin.Context, session *appidentity.SessionIdentity) {
	c.Set(sessionContextKey, session)

	ctx := logger.WithAdminID(c.Request.Context(), session.AdminID.String())
	c.Request = c.Request.WithContext(ctx)
	if _, ok := c.Get("logger"); ok {
		c.Set("logger", logger.FromContext(ctx))
	}
}

// isUnder reports whether path is prefix itself or a sub path of it.
// "/administrator" is not under "/admin".
func isUnder(path, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
