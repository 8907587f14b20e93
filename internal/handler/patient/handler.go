package patient

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/admin-console/internal/handler"
	"github.com/clinicdesk/admin-console/internal/middleware"
	"github.com/clinicdesk/admin-console/internal/model"
	patientsvc "github.com/clinicdesk/admin-console/internal/service/patient"
	"github.com/clinicdesk/admin-console/internal/state"
)

const pageKey = "patients"

// Handler serves the patients page: the searchable listing, the detail view
// with appointment history, and the bulk delete.
type Handler struct {
	patients     *patientsvc.Service
	pages        *state.Registry
	debounce     time.Duration
	defaultLimit int
}

func NewHandler(patients *patientsvc.Service, pages *state.Registry, debounce time.Duration, defaultLimit int) *Handler {
	return &Handler{
		patients:     patients,
		pages:        pages,
		debounce:     debounce,
		defaultLimit: defaultLimit,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("/search", h.Search)
	rg.DELETE("", h.Delete)
	rg.GET("/stats", h.Stats)
	rg.GET("/:id", h.Get)
}

func (h *Handler) page(c *gin.Context) *handler.ListPage[model.Patient] {
	s := middleware.SessionFrom(c)
	v := h.pages.GetOrCreate(s.ID, pageKey, func() interface{} {
		return handler.NewListPage(h.patients.NewListController(s.Token), h.debounce)
	})
	return v.(*handler.ListPage[model.Patient])
}

func (h *Handler) List(c *gin.Context) {
	handler.ServeList(c, h.page(c), h.defaultLimit)
}

func (h *Handler) Search(c *gin.Context) {
	handler.ServeSearch(c, h.page(c))
}

func (h *Handler) Get(c *gin.Context) {
	s := middleware.SessionFrom(c)
	p, err := h.patients.Get(c.Request.Context(), s.Token, c.Param("id"))
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) Delete(c *gin.Context) {
	var req model.DeletePatientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	s := middleware.SessionFrom(c)
	page := h.page(c)
	msg, err := h.patients.Delete(c.Request.Context(), s.Token, page.List, req.PatientIDs)
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
	stats, err := h.patients.Stats(c.Request.Context(), s.Token, s.User.ID)
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}
