package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/admin-console/internal/capability"
	"github.com/clinicdesk/admin-console/internal/config"
	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/internal/session"
	"github.com/clinicdesk/admin-console/internal/upstream"
	"github.com/clinicdesk/admin-console/pkg/logger"
)

const cookieName = "console_session"

func newGatedEngine(t *testing.T) (*gin.Engine, session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	client := upstream.NewClient(config.UpstreamConfig{BaseURL: "http://unreachable.invalid", Timeout: time.Second}, log)
	store := session.NewMemoryStore(time.Hour)
	manager := session.NewManager(store, client, log)
	mw := NewAuthMiddleware(manager, cookieName)

	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }

	engine := gin.New()
	engine.Use(mw.Resolve())
	engine.GET("/auth/login", mw.PublicOnly(), ok)
	engine.GET("/", mw.RequireAuth(), ok)

	viewDoctors := capability.ViewDoctors
	engine.GET("/doctors", mw.RequireCapability(&viewDoctors), ok)
	return engine, store
}

func putSession(t *testing.T, store session.Store, s *session.Session) {
	t.Helper()
	require.NoError(t, store.Put(context.Background(), s))
}

func get(engine *gin.Engine, path, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: sessionID})
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestUnauthenticatedRedirectsToLoginWithFrom(t *testing.T) {
	engine, _ := newGatedEngine(t)

	w := get(engine, "/doctors?page=2", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login?from="+`%2Fdoctors%3Fpage%3D2`, w.Header().Get("Location"))
}

func TestMissingCapabilityRedirectsToLanding(t *testing.T) {
	engine, store := newGatedEngine(t)
	putSession(t, store, &session.Session{
		ID:    "s1",
		Token: "tok",
		User:  &model.User{ID: "u1"},
		// No VIEW_DOCTORS grant.
		Permissions: []model.Permission{{Name: "VIEW_PROFILE"}},
	})

	w := get(engine, "/doctors", "s1")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestGrantedCapabilityPasses(t *testing.T) {
	engine, store := newGatedEngine(t)
	putSession(t, store, &session.Session{
		ID:          "s2",
		Token:       "tok",
		User:        &model.User{ID: "u1"},
		Permissions: []model.Permission{{Name: "VIEW_DOCTORS"}},
	})

	w := get(engine, "/doctors", "s2")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPublicOnlyBouncesAuthenticatedUsers(t *testing.T) {
	engine, store := newGatedEngine(t)
	putSession(t, store, &session.Session{
		ID:    "s3",
		Token: "tok",
		User:  &model.User{ID: "u1"},
	})

	w := get(engine, "/auth/login", "s3")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	// Without a session, the login page renders.
	w = get(engine, "/auth/login", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
