package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "auth-session"
	RoleCookie    = "user-role"
)

// GateConfig describes which page paths are auth-only, which require a
// session, and which are restricted to advisors.
type GateConfig struct {
	AuthPaths      []string // login/register pages, redirected away when signed in
	ProtectedPaths []string // prefixes that require the session cookie
	AdvisorPaths   []string // prefixes that additionally require the advisor role
	LoginPath      string
}

// RouteGate drives the redirect rules from the two auth cookies. Enforcement
// of the role itself happens in the API middleware; the cookies only gate
// page navigation.
func RouteGate(cfg GateConfig) gin.HandlerFunc {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		_, sessionErr := c.Cookie(SessionCookie)
		role, _ := c.Cookie(RoleCookie)
		authenticated := sessionErr == nil

		if authenticated && hasPrefix(cfg.AuthPaths, path) {
			c.Redirect(http.StatusFound, roleHome(role))
			c.Abort()
			return
		}

		if !authenticated && hasPrefix(cfg.ProtectedPaths, path) {
			c.Redirect(http.StatusFound, cfg.LoginPath+"?redirect="+url.QueryEscape(path))
			c.Abort()
			return
		}

		if hasPrefix(cfg.AdvisorPaths, path) && role != "advisor" {
			c.Redirect(http.StatusFound, roleHome(role))
			c.Abort()
			return
		}

		c.Next()
	}
}

func roleHome(role string) string {
	switch role {
	case "advisor":
		return "/advisor/dashboard"
	case "admin":
		return "/admin"
	default:
		return "/dashboard"
	}
}

func hasPrefix(prefixes []string, path string) bool {
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
