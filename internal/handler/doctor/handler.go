package doctor

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/admin-console/internal/handler"
	"github.com/clinicdesk/admin-console/internal/middleware"
	"github.com/clinicdesk/admin-console/internal/model"
	availabilitysvc "github.com/clinicdesk/admin-console/internal/service/availability"
	doctorsvc "github.com/clinicdesk/admin-console/internal/service/doctor"
	permissionsvc "github.com/clinicdesk/admin-console/internal/service/permission"
	"github.com/clinicdesk/admin-console/internal/state"
)

const pageKey = "doctors"

// Handler serves the doctors pages: the filtered listing, the detail view
// with the availability editor, and the admin-only permission assignment.
type Handler struct {
	doctors      *doctorsvc.Service
	availability *availabilitysvc.Service
	permissions  *permissionsvc.Service
	pages        *state.Registry
	debounce     time.Duration
	defaultLimit int
}

func NewHandler(doctors *doctorsvc.Service, availability *availabilitysvc.Service, permissions *permissionsvc.Service, pages *state.Registry, debounce time.Duration, defaultLimit int) *Handler {
	return &Handler{
		doctors:      doctors,
		availability: availability,
		permissions:  permissions,
		pages:        pages,
		debounce:     debounce,
		defaultLimit: defaultLimit,
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("/search", h.Search)
	rg.DELETE("", h.Delete)
	rg.GET("/permissions", h.PermissionOptions)
	rg.GET("/specialities", h.Specialities)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.PUT("/:id/status", h.ChangeStatus)
	rg.POST("/:id/image", h.UploadImage)
	rg.POST("/:id/permissions", h.AssignPermissions)
	rg.POST("/:id/availability", h.AddAvailability)
	rg.PUT("/:id/availability/:availabilityId", h.EditAvailability)
	rg.DELETE("/:id/availability", h.DeleteAvailability)
}

func (h *Handler) page(c *gin.Context) *handler.ListPage[model.Doctor] {
	s := middleware.SessionFrom(c)
	v := h.pages.GetOrCreate(s.ID, pageKey, func() interface{} {
		return handler.NewListPage(h.doctors.NewListController(s.Token), h.debounce)
	})
	return v.(*handler.ListPage[model.Doctor])
}

func (h *Handler) List(c *gin.Context) {
	handler.ServeList(c, h.page(c), h.defaultLimit)
}

func (h *Handler) Search(c *gin.Context) {
	handler.ServeSearch(c, h.page(c))
}

func (h *Handler) Get(c *gin.Context) {
	s := middleware.SessionFrom(c)
	doc, err := h.doctors.Get(c.Request.Context(), s.Token, c.Param("id"))
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(doc))
}

// Delete removes the selected doctors in one batched request and answers
// with the reconciled list, recomputed locally without a refetch.
func (h *Handler) Delete(c *gin.Context) {
	var req model.DeleteDoctorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	s := middleware.SessionFrom(c)
	page := h.page(c)
	msg, err := h.doctors.Delete(c.Request.Context(), s.Token, page.List, req.DoctorIDs)
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

// ChangeStatus flips the active flag. Only the one record's status changes
// in the listing; ordering and the other rows stay as they were.
func (h *Handler) ChangeStatus(c *gin.Context) {
	var req model.UpdateDoctorStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	s := middleware.SessionFrom(c)
	page := h.page(c)
	if err := h.doctors.ChangeStatus(c.Request.Context(), s.Token, page.List, c.Param("id"), req.Status); err != nil {
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

func (h *Handler) Update(c *gin.Context) {
	var patch model.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	s := middleware.SessionFrom(c)
	id := c.Param("id")
	if err := h.doctors.UpdateProfile(c.Request.Context(), s.Token, id, patch); err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	h.page(c).List.PatchByID(id, func(d *model.Doctor) { applyPatch(d, patch) })
	c.JSON(http.StatusOK, &handler.Response{
		Status:  "success",
		Message: "profile updated",
		Toast:   true,
	})
}

func applyPatch(d *model.Doctor, p model.ProfilePatch) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Designation != nil {
		d.Designation = *p.Designation
	}
	if p.Speciality != nil {
		d.Speciality = *p.Speciality
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
}

// UploadImage replaces one doctor's image and patches only that field of the
// matching list record.
func (h *Handler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("image file is required"))
		return
	}
	file, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("failed to read image file"))
		return
	}
	defer file.Close()

	s := middleware.SessionFrom(c)
	page := h.page(c)
	img, err := h.doctors.UploadImage(c.Request.Context(), s.Token, page.List, c.Param("id"), fh.Filename, file)
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, &handler.Response{
		Status:  "success",
		Message: "image updated",
		Data:    gin.H{"image": h.doctors.ResolveImage(img)},
		Toast:   true,
	})
}

// Specialities returns the fixed filter vocabulary for the speciality select.
func (h *Handler) Specialities(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.doctors.Specialities()))
}

// PermissionOptions lists the assignable permission vocabulary for the
// assignment dialog.
func (h *Handler) PermissionOptions(c *gin.Context) {
	s := middleware.SessionFrom(c)
	perms, err := h.permissions.All(c.Request.Context(), s.Token)
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(perms))
}

func (h *Handler) AssignPermissions(c *gin.Context) {
	var req model.AssignPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	s := middleware.SessionFrom(c)
	msg, err := h.doctors.AssignPermissions(c.Request.Context(), s.Token, c.Param("id"), req.PermissionIDs)
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, &handler.Response{
		Status:  "success",
		Message: msg,
		Toast:   true,
	})
}

// AddAvailability applies one time-window template across the selected
// weekdays and answers with the merged collection in canonical weekday
// order, so the editor never refetches the whole doctor.
func (h *Handler) AddAvailability(c *gin.Context) {
	var req model.AddAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	s := middleware.SessionFrom(c)
	id := c.Param("id")
	doc, err := h.doctors.Get(c.Request.Context(), s.Token, id)
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}

	added, err := h.availability.Add(c.Request.Context(), s.Token, id, req, doc.Availability)
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusCreated, &handler.Response{
		Status:  "success",
		Message: "availability added",
		Data:    availabilitysvc.Merge(doc.Availability, added, nil, nil),
		Toast:   true,
	})
}

// EditAvailability replaces the window fields of one record; identity fields
// stay as they are.
func (h *Handler) EditAvailability(c *gin.Context) {
	var window model.AvailabilityWindow
	if err := c.ShouldBindJSON(&window); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	s := middleware.SessionFrom(c)
	doc, err := h.doctors.Get(c.Request.Context(), s.Token, c.Param("id"))
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}

	edited, err := h.availability.Edit(c.Request.Context(), s.Token, c.Param("availabilityId"), window)
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, &handler.Response{
		Status:  "success",
		Message: "availability updated",
		Data:    availabilitysvc.Merge(doc.Availability, nil, edited, nil),
		Toast:   true,
	})
}

func (h *Handler) DeleteAvailability(c *gin.Context) {
	var req model.DeleteAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	s := middleware.SessionFrom(c)
	doc, err := h.doctors.Get(c.Request.Context(), s.Token, c.Param("id"))
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}

	msg, err := h.availability.Delete(c.Request.Context(), s.Token, req.AvailabilityIDs)
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, &handler.Response{
		Status:  "success",
		Message: msg,
		Data:    availabilitysvc.Merge(doc.Availability, nil, nil, req.AvailabilityIDs),
		Toast:   true,
	})
}
