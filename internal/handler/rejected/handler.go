package rejected

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/admin-console/internal/handler"
	"github.com/clinicdesk/admin-console/internal/middleware"
	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/internal/query"
	rejectedsvc "github.com/clinicdesk/admin-console/internal/service/rejected"
	"github.com/clinicdesk/admin-console/internal/state"
	"github.com/clinicdesk/admin-console/pkg/errors"
)

const pageKey = "rejected-appointments"

func reassignKey(appointmentID string) string {
	return "reassign:" + appointmentID
}

// Handler serves the rejected-appointments page and the reassignment flow
// hanging off its rows. Each in-progress flow is per-session page state keyed
// by the appointment, so parallel flows on different rows stay independent.
type Handler struct {
	rejected     *rejectedsvc.Service
	pages        *state.Registry
	debounce     time.Duration
	defaultLimit int
}

func NewHandler(rejected *rejectedsvc.Service, pages *state.Registry, debounce time.Duration, defaultLimit int) *Handler {
	return &Handler{
		rejected:     rejected,
		pages:        pages,
		debounce:     debounce,
		defaultLimit: defaultLimit,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("/search", h.Search)
	rg.DELETE("", h.Delete)
	rg.POST("/:id/reassign", h.StartReassign)
	rg.GET("/:id/reassign", h.ShowReassign)
	rg.POST("/:id/reassign/doctor", h.ChooseDoctor)
	rg.POST("/:id/reassign/slot", h.ChooseSlot)
	rg.POST("/:id/reassign/confirm", h.Confirm)
}

func (h *Handler) page(c *gin.Context) *handler.ListPage[model.Appointment] {
	s := middleware.SessionFrom(c)
	v := h.pages.GetOrCreate(s.ID, pageKey, func() interface{} {
		return handler.NewListPage(h.rejected.NewListController(s.Token), h.debounce)
	})
	return v.(*handler.ListPage[model.Appointment])
}

func (h *Handler) List(c *gin.Context) {
	handler.ServeList(c, h.page(c), h.defaultLimit)
}

func (h *Handler) Search(c *gin.Context) {
	handler.ServeSearch(c, h.page(c))
}

func (h *Handler) Delete(c *gin.Context) {
	var req model.DeleteAppointmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	s := middleware.SessionFrom(c)
	page := h.page(c)
	msg, err := h.rejected.Delete(c.Request.Context(), s.Token, page.List, req.AppointmentIDs)
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	for _, id := range req.AppointmentIDs {
		h.pages.Delete(s.ID, reassignKey(id))
	}
	c.JSON(http.StatusOK, &handler.Response{
		Status:  "success",
		Message: msg,
		Data:    handler.ListViewOf(page.List),
		Toast:   true,
	})
}

// resourceView is the wire shape of a dependent lookup's state.
type resourceView struct {
	Data    interface{} `json:"data,omitempty"`
	Loading bool        `json:"loading"`
	Error   string      `json:"error,omitempty"`
}

func viewOf[T any](snap query.Snapshot[T]) resourceView {
	v := resourceView{Loading: snap.Loading, Error: snap.Err}
	if snap.HasData {
		v.Data = snap.Data
	}
	return v
}

type flowView struct {
	Appointment model.Appointment         `json:"appointment"`
	Stage       string                    `json:"stage"`
	CanConfirm  bool                      `json:"canConfirm"`
	DoctorID    string                    `json:"doctorId,omitempty"`
	Slot        *rejectedsvc.SelectedSlot `json:"slot,omitempty"`
	Doctors     resourceView              `json:"doctors"`
	Slots       resourceView              `json:"slots"`
}

func flowViewOf(r *rejectedsvc.Reassigner) flowView {
	return flowView{
		Appointment: r.Appointment(),
		Stage:       r.Stage().String(),
		CanConfirm:  r.CanConfirm(),
		DoctorID:    r.SelectedDoctor(),
		Slot:        r.Selection(),
		Doctors:     viewOf(r.Doctors()),
		Slots:       viewOf(r.Slots()),
	}
}

// StartReassign opens (or reopens) the flow for one listed appointment. The
// candidate doctors sharing the original doctor's speciality load right
// away; time slots stay unfetched until a doctor is chosen.
func (h *Handler) StartReassign(c *gin.Context) {
	s := middleware.SessionFrom(c)
	id := c.Param("id")

	var appt *model.Appointment
	for _, a := range h.page(c).List.Items() {
		if a.ID == id {
			appt = &a
			break
		}
	}
	if appt == nil {
		handler.RespondMutationError(c, errors.NewNotFound("appointment", nil))
		return
	}

	r := h.rejected.NewReassigner(c.Request.Context(), s.Token, *appt)
	h.pages.Delete(s.ID, reassignKey(id))
	h.pages.GetOrCreate(s.ID, reassignKey(id), func() interface{} { return r })
	c.JSON(http.StatusOK, handler.NewSuccessResponse(flowViewOf(r)))
}

func (h *Handler) flow(c *gin.Context) (*rejectedsvc.Reassigner, bool) {
	s := middleware.SessionFrom(c)
	v, ok := h.pages.Get(s.ID, reassignKey(c.Param("id")))
	if !ok {
		handler.RespondMutationError(c, errors.NewNotFound("reassignment flow", nil))
		return nil, false
	}
	return v.(*rejectedsvc.Reassigner), true
}

func (h *Handler) ShowReassign(c *gin.Context) {
	r, ok := h.flow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(flowViewOf(r)))
}

type chooseDoctorRequest struct {
	DoctorID string `json:"doctorId" binding:"required"`
}

// ChooseDoctor picks a candidate and triggers the dependent slot fetch; any
// previously chosen slot is discarded with the old doctor's calendar.
func (h *Handler) ChooseDoctor(c *gin.Context) {
	var req chooseDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	r, ok := h.flow(c)
	if !ok {
		return
	}
	if err := r.ChooseDoctor(c.Request.Context(), req.DoctorID); err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(flowViewOf(r)))
}

type chooseSlotRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

func (h *Handler) ChooseSlot(c *gin.Context) {
	var req chooseSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	r, ok := h.flow(c)
	if !ok {
		return
	}
	if err := r.ChooseSlot(req.Date, req.Time); err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(flowViewOf(r)))
}

// Confirm submits the reassignment. On success the appointment has left the
// rejected set, so the flow state is dropped and the row removed from the
// local listing with the pagination recomputed.
func (h *Handler) Confirm(c *gin.Context) {
	r, ok := h.flow(c)
	if !ok {
		return
	}

	msg, err := r.Confirm(c.Request.Context())
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}

	s := middleware.SessionFrom(c)
	id := c.Param("id")
	h.pages.Delete(s.ID, reassignKey(id))
	page := h.page(c)
	page.List.RemoveByID([]string{id})
	c.JSON(http.StatusCreated, &handler.Response{
		Status:  "success",
		Message: msg,
		Data:    handler.ListViewOf(page.List),
		Toast:   true,
	})
}
