package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/admin-console/pkg/errors"
)

func respond(t *testing.T, err error) (int, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	RespondMutationError(c, err)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestMutationErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation reads as bad request", errors.NewValidation("select at least one day"), http.StatusBadRequest, "select at least one day"},
		{"unauthorized keeps the server message verbatim", errors.NewUnauthorized("Invalid credentials", assertableErr("401")), http.StatusUnauthorized, "Invalid credentials"},
		{"upstream failure reads as bad gateway", assertableErr("connection refused"), http.StatusBadGateway, "connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := respond(t, tt.err)
			assert.Equal(t, tt.wantStatus, code)
			assert.Equal(t, "error", resp.Status)
			assert.Equal(t, tt.wantMsg, resp.Message)
			assert.True(t, resp.Toast)
		})
	}
}

type assertableErr string

func (e assertableErr) Error() string { return string(e) }
