package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/admin-console/internal/handler"
	"github.com/clinicdesk/admin-console/internal/middleware"
	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/internal/session"
	"github.com/clinicdesk/admin-console/internal/state"
	"github.com/clinicdesk/admin-console/pkg/logger"
)

// Handler serves the sign-in surface. The login/registration endpoints are
// registered behind the public-only guard; logout and the session probe need
// the resolved session instead.
type Handler struct {
	sessions   *session.Manager
	pages      *state.Registry
	cookieName string
	cookieTTL  time.Duration
	logger     *logger.Logger
}

func NewHandler(sessions *session.Manager, pages *state.Registry, cookieName string, cookieTTL time.Duration, l *logger.Logger) *Handler {
	return &Handler{
		sessions:   sessions,
		pages:      pages,
		cookieName: cookieName,
		cookieTTL:  cookieTTL,
		logger:     l.WithComponent("auth_handler"),
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.POST("/register", h.Register)
	rg.POST("/forgot-password", h.ForgotPassword)
	rg.POST("/reset-password", h.ResetPassword)
}

// RegisterSessionRoutes registers the endpoints that operate on an existing
// session and therefore must not sit behind the public-only guard.
func (h *Handler) RegisterSessionRoutes(rg *gin.RouterGroup) {
	rg.POST("/logout", h.Logout)
	rg.GET("/session", h.CurrentSession)
}

type loginView struct {
	User     *model.User `json:"user,omitempty"`
	Role     model.Role  `json:"role,omitempty"`
	Redirect string      `json:"redirect"`
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	s, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}

	c.SetCookie(h.cookieName, s.ID, int(h.cookieTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(loginView{
		User:     s.User,
		Role:     s.Role,
		Redirect: postLoginTarget(c.Query("from")),
	}))
}

// postLoginTarget honors the location the login redirect preserved, but only
// same-site paths; anything else lands on the dashboard.
func postLoginTarget(from string) string {
	if strings.HasPrefix(from, "/") && !strings.HasPrefix(from, "//") {
		return from
	}
	return "/"
}

// Logout clears the credential and every piece of page state the session
// accumulated. It answers the same way whether or not a session existed.
func (h *Handler) Logout(c *gin.Context) {
	if s := middleware.SessionFrom(c); s != nil {
		if err := h.sessions.Logout(c.Request.Context(), s.ID); err != nil {
			h.logger.Error(err, "failed to drop session")
		}
		h.pages.DropSession(s.ID)
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(loginView{Redirect: "/auth/login"}))
}

// CurrentSession is the probe the shell calls on load to decide what to
// render before any navigation happens.
func (h *Handler) CurrentSession(c *gin.Context) {
	s := middleware.SessionFrom(c)
	if !s.Authenticated() {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("not signed in"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"user":         s.User,
		"role":         s.Role,
		"capabilities": s.Capabilities().Names(),
	}))
}

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.sessions.Register(c.Request.Context(), req); err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, &handler.Response{
		Status:  "success",
		Message: "account created",
		Toast:   true,
	})
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.sessions.ForgotPassword(c.Request.Context(), req); err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, &handler.Response{
		Status:  "success",
		Message: "reset instructions sent",
		Toast:   true,
	})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if err := h.sessions.ResetPassword(c.Request.Context(), req); err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, &handler.Response{
		Status:  "success",
		Message: "password updated",
		Toast:   true,
	})
}
