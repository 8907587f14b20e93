package upstream

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/admin-console/internal/config"
	"github.com/clinicdesk/admin-console/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func testClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client := NewClient(config.UpstreamConfig{
		BaseURL:      srv.URL,
		ImageBaseURL: "http://images.local",
		Timeout:      5 * time.Second,
	}, testLogger())
	return client, srv
}

func TestBearerInjection(t *testing.T) {
	var gotAuth string
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	})

	require.NoError(t, client.Get(context.Background(), "tok-123", "/admin/doctors", nil))
	assert.Equal(t, "Bearer tok-123", gotAuth)

	// No token means no Authorization header at all.
	require.NoError(t, client.Get(context.Background(), "", "/admin/auth/login", nil))
	assert.Empty(t, gotAuth)
}

func TestErrorMessagePriority(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message wins over error", `{"message":"Invalid credentials","error":"auth failed"}`, "Invalid credentials"},
		{"error field as fallback", `{"error":"auth failed"}`, "auth failed"},
		{"unusable body falls back to generic", `not json`, GenericFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(tt.body))
			})

			err := client.Post(context.Background(), "", "/admin/auth/login", map[string]string{}, nil)
			require.Error(t, err)
			assert.Equal(t, tt.want, Message(err))
			assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
		})
	}
}

func TestTransportErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := NewClient(config.UpstreamConfig{BaseURL: srv.URL, Timeout: time.Second}, testLogger())

	err := client.Get(context.Background(), "", "/admin/doctors", nil)
	require.Error(t, err)
	assert.NotEqual(t, GenericFailure, Message(err))
	assert.Zero(t, StatusOf(err))
}

func TestDeleteCarriesBody(t *testing.T) {
	var gotMethod string
	var gotBody map[string][]string
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"message":"deleted"}`))
	})

	var resp struct {
		Message string `json:"message"`
	}
	err := client.Delete(context.Background(), "tok", "/admin/doctors",
		map[string][]string{"doctorsId": {"a", "b"}}, &resp)
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, []string{"a", "b"}, gotBody["doctorsId"])
	assert.Equal(t, "deleted", resp.Message)
}

func TestResolveImage(t *testing.T) {
	client := NewClient(config.UpstreamConfig{
		BaseURL:      "http://api.local",
		ImageBaseURL: "http://images.local",
	}, testLogger())

	assert.Equal(t, "", client.ResolveImage(""))
	assert.Equal(t, "http://images.local/uploads/a.png", client.ResolveImage("uploads/a.png"))
	assert.Equal(t, "http://images.local/uploads/a.png", client.ResolveImage("/uploads/a.png"))
	assert.Equal(t, "https://cdn.example.com/a.png", client.ResolveImage("https://cdn.example.com/a.png"))
}
