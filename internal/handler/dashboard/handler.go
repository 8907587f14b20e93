package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/admin-console/internal/handler"
	"github.com/clinicdesk/admin-console/internal/middleware"
	"github.com/clinicdesk/admin-console/internal/navigation"
	dashboardsvc "github.com/clinicdesk/admin-console/internal/service/dashboard"
)

// Handler serves the landing page: the role-scoped headline numbers plus the
// permission-gated sidebar the shell renders around every page.
type Handler struct {
	stats *dashboardsvc.Service
}

func NewHandler(stats *dashboardsvc.Service) *Handler {
	return &Handler{stats: stats}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Show)
	rg.GET("/navigation", h.Navigation)
}

func (h *Handler) Show(c *gin.Context) {
	s := middleware.SessionFrom(c)
	stats, err := h.stats.Stats(c.Request.Context(), s.Token, s.User.ID)
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"stats": stats,
		"role":  s.Role,
	}))
}

// Navigation returns the sidebar groups visible to the session's capability
// set. Entries the user cannot reach are absent, not disabled.
func (h *Handler) Navigation(c *gin.Context) {
	s := middleware.SessionFrom(c)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(navigation.Grouped(s.Capabilities())))
}
