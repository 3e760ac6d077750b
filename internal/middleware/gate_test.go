package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func gateRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RouteGate(GateConfig{
		AuthPaths:      []string{"/login", "/register"},
		ProtectedPaths: []string{"/dashboard", "/advisor", "/checkout"},
		AdvisorPaths:   []string{"/advisor"},
	}))

	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	r.GET("/", ok)
	r.GET("/login", ok)
	r.GET("/dashboard", ok)
	r.GET("/advisor/dashboard", ok)
	r.GET("/checkout", ok)

	return r
}

func gateRequest(r *gin.Engine, path, role string, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authenticated {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "1"})
	}
	if role != "" {
		req.AddCookie(&http.Cookie{Name: RoleCookie, Value: role})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouteGate_AuthenticatedOnAuthPageGoesToRoleHome(t *testing.T) {
	r := gateRouter()

	w := gateRequest(r, "/login", "client", true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = gateRequest(r, "/login", "advisor", true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/advisor/dashboard", w.Header().Get("Location"))

	w = gateRequest(r, "/register", "admin", true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
}

func TestRouteGate_UnauthenticatedOnProtectedPathRedirectsToLogin(t *testing.T) {
	r := gateRouter()

	w := gateRequest(r, "/dashboard", "", false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirect=%2Fdashboard", w.Header().Get("Location"))

	w = gateRequest(r, "/checkout", "", false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirect=%2Fcheckout", w.Header().Get("Location"))
}

func TestRouteGate_NonAdvisorOnAdvisorPathRedirectsHome(t *testing.T) {
	r := gateRouter()

	w := gateRequest(r, "/advisor/dashboard", "client", true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
}

func TestRouteGate_PassThrough(t *testing.T) {
	r := gateRouter()

	// anonymous on a public page
	w := gateRequest(r, "/login", "", false)
	assert.Equal(t, http.StatusOK, w.Code)

	// authenticated client on a protected page
	w = gateRequest(r, "/dashboard", "client", true)
	assert.Equal(t, http.StatusOK, w.Code)

	// advisor on the advisor area
	w = gateRequest(r, "/advisor/dashboard", "advisor", true)
	assert.Equal(t, http.StatusOK, w.Code)

	// anonymous on an ungated path
	w = gateRequest(r, "/", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
}
