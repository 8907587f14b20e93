package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	// Toast marks messages the shell should also surface as a transient
	// notification, on top of any inline rendering.
	Toast bool `json:"toast,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// ListView is the view model every list page renders: the items, the
// pagination controls, the filter state echoed back, and the fetch error (if
// any) shown as a blocking panel in place of the table.
type ListView struct {
	Data       interface{}       `json:"data"`
	Pagination model.Pagination  `json:"pagination"`
	Filters    map[string]string `json:"filters,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// RespondMutationError maps a mutation failure onto the wire: client-side
// validation never reached the network and reads as a bad request; everything
// else carries the normalized upstream message. Both are flagged for a toast.
func RespondMutationError(c *gin.Context, err error) {
	status := http.StatusBadGateway
	if errors.IsValidation(err) {
		status = http.StatusBadRequest
	} else if appErr, ok := err.(*errors.AppError); ok {
		switch appErr.Code {
		case errors.ErrBadRequest:
			status = http.StatusBadRequest
		case errors.ErrUnauthorized:
			status = http.StatusUnauthorized
		case errors.ErrForbidden:
			status = http.StatusForbidden
		case errors.ErrNotFound:
			status = http.StatusNotFound
		}
	}
	c.JSON(status, &Response{
		Status:  "error",
		Message: errors.DisplayMessage(err),
		Toast:   true,
	})
}
