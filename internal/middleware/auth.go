package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/admin-console/internal/capability"
	"github.com/clinicdesk/admin-console/internal/session"
)

// RouteState is the per-route authorization outcome. Routing decisions are a
// pure function of the session and the route's required capability.
type RouteState int

const (
	RouteLoading RouteState = iota
	RouteUnauthenticated
	RouteNoPermission
	RouteAuthorized
)

func (s RouteState) String() string {
	switch s {
	case RouteLoading:
		return "loading"
	case RouteUnauthenticated:
		return "unauthenticated"
	case RouteNoPermission:
		return "no_permission"
	case RouteAuthorized:
		return "authorized"
	}
	return "unknown"
}

// Resolve computes the route state. Lacking a permission is not an
// authentication failure: an authenticated user without the capability is
// sent to the landing page, never back to login.
func Resolve(s *session.Session, required *capability.Capability) RouteState {
	if s != nil && s.Loading {
		return RouteLoading
	}
	if !s.Authenticated() {
		return RouteUnauthenticated
	}
	if required != nil && !s.Capabilities().Has(*required) {
		return RouteNoPermission
	}
	return RouteAuthorized
}

const sessionContextKey = "console_session"

// AuthMiddleware resolves the browser session and gates routes on it.
type AuthMiddleware struct {
	sessions   *session.Manager
	cookieName string
}

func NewAuthMiddleware(sessions *session.Manager, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, cookieName: cookieName}
}

// Resolve loads the session named by the cookie and, when a persisted
// credential is present but identity is unresolved, runs the bootstrap
// inline, so no gated route is reachable until identity settles.
func (m *AuthMiddleware) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(m.cookieName)
		if err != nil || id == "" {
			c.Next()
			return
		}
		s, err := m.sessions.Get(c.Request.Context(), id)
		if err != nil {
			c.Next()
			return
		}
		if s.Loading || (s.Token != "" && s.User == nil) {
			s.Loading = true
			if err := m.sessions.Bootstrap(c.Request.Context(), s); err != nil {
				c.Next()
				return
			}
		}
		c.Set(sessionContextKey, s)
		c.Next()
	}
}

// SessionFrom retrieves the resolved session, nil when unauthenticated.
func SessionFrom(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		return v.(*session.Session)
	}
	return nil
}

// RequireCapability gates a route per the state table: unauthenticated users
// go to login with the requested location preserved for the post-login
// return; authenticated users lacking the capability go to the landing page.
func (m *AuthMiddleware) RequireCapability(required *capability.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := SessionFrom(c)
		switch Resolve(s, required) {
		case RouteUnauthenticated:
			target := "/auth/login?from=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
		case RouteNoPermission:
			c.Redirect(http.StatusFound, "/")
			c.Abort()
		default:
			c.Next()
		}
	}
}

// RequireAuth gates a route that needs a user but no particular capability.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return m.RequireCapability(nil)
}

// PublicOnly guards the auth pages: an already-authenticated user is sent to
// the landing page instead.
func (m *AuthMiddleware) PublicOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionFrom(c).Authenticated() {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
