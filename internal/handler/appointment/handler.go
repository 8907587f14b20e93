package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/admin-console/internal/handler"
	"github.com/clinicdesk/admin-console/internal/middleware"
	"github.com/clinicdesk/admin-console/internal/model"
	appointmentsvc "github.com/clinicdesk/admin-console/internal/service/appointment"
	"github.com/clinicdesk/admin-console/internal/state"
)

// Handler serves an appointments listing page. The doctor-scoped page and
// the admin-wide one are two instances with distinct page keys, so their
// list state never bleeds into each other; the upstream scopes the data by
// the caller's token either way.
type Handler struct {
	appointments *appointmentsvc.Service
	pages        *state.Registry
	pageKey      string
	debounce     time.Duration
	defaultLimit int
}

func NewHandler(appointments *appointmentsvc.Service, pages *state.Registry, pageKey string, debounce time.Duration, defaultLimit int) *Handler {
	return &Handler{
		appointments: appointments,
		pages:        pages,
		pageKey:      pageKey,
		debounce:     debounce,
		defaultLimit: defaultLimit,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("/search", h.Search)
	rg.DELETE("", h.Delete)
	rg.GET("/stats", h.Stats)
	rg.PUT("/:id/status", h.ChangeStatus)
}

func (h *Handler) page(c *gin.Context) *handler.ListPage[model.Appointment] {
	s := middleware.SessionFrom(c)
	v := h.pages.GetOrCreate(s.ID, h.pageKey, func() interface{} {
		return handler.NewListPage(h.appointments.NewListController(s.Token), h.debounce)
	})
	return v.(*handler.ListPage[model.Appointment])
}

func (h *Handler) List(c *gin.Context) {
	handler.ServeList(c, h.page(c), h.defaultLimit)
}

func (h *Handler) Search(c *gin.Context) {
	handler.ServeSearch(c, h.page(c))
}

// ChangeStatus applies a user-picked status. The picklist excludes
// REASSIGNED, which only arises through the reassignment flow.
func (h *Handler) ChangeStatus(c *gin.Context) {
	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	s := middleware.SessionFrom(c)
	page := h.page(c)
	if err := h.appointments.ChangeStatus(c.Request.Context(), s.Token, page.List, c.Param("id"), req.Status); err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, &handler.Response{
		Status:  "success",
		Message: "status updated",
		Data:    handler.ListViewOf(page.List),
		Toast:   true,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	var req model.DeleteAppointmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	s := middleware.SessionFrom(c)
	page := h.page(c)
	msg, err := h.appointments.Delete(c.Request.Context(), s.Token, page.List, req.AppointmentIDs)
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, &handler.Response{
		Status:  "success",
		Message: msg,
		Data:    handler.ListViewOf(page.List),
		Toast:   true,
	})
}

func (h *Handler) Stats(c *gin.Context) {
	s := middleware.SessionFrom(c)
	stats, err := h.appointments.Stats(c.Request.Context(), s.Token, s.User.ID)
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}
