package profile

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/admin-console/internal/handler"
	"github.com/clinicdesk/admin-console/internal/middleware"
	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/internal/session"
	"github.com/clinicdesk/admin-console/internal/upstream"
)

// Handler serves the signed-in user's own profile page.
type Handler struct {
	sessions *session.Manager
	client   *upstream.Client
}

func NewHandler(sessions *session.Manager, client *upstream.Client) *Handler {
	return &Handler{sessions: sessions, client: client}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Show)
	rg.PUT("", h.Update)
	rg.POST("/image", h.UploadImage)
}

type profileView struct {
	User         *model.User `json:"user"`
	Image        string      `json:"image,omitempty"`
	Capabilities []string    `json:"capabilities"`
}

func (h *Handler) Show(c *gin.Context) {
	s := middleware.SessionFrom(c)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(profileView{
		User:         s.User,
		Image:        h.client.ResolveImage(s.User.Image),
		Capabilities: s.Capabilities().Names(),
	}))
}

// Update applies a partial field set. Only the named fields change, both
// upstream and in the session copy.
func (h *Handler) Update(c *gin.Context) {
	var patch model.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	s := middleware.SessionFrom(c)
	if err := h.sessions.UpdateProfileData(c.Request.Context(), s, patch); err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, &handler.Response{
		Status:  "success",
		Message: "profile updated",
		Data:    gin.H{"user": s.User},
		Toast:   true,
	})
}

// UploadImage replaces only the profile image; every other profile field is
// left untouched and nothing is refetched.
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
	msg, err := h.sessions.UpdateProfileImage(c.Request.Context(), s, fh.Filename, file)
	if err != nil {
		handler.RespondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, &handler.Response{
		Status:  "success",
		Message: msg,
		Data:    gin.H{"image": h.client.ResolveImage(s.User.Image)},
		Toast:   true,
	})
}
