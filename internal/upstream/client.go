package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/clinicdesk/admin-console/internal/config"
	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/pkg/logger"
)

// Client is the single typed HTTP client every other component goes through.
// It knows the upstream base URL and attaches the caller's bearer token to
// every request that carries one.
type Client struct {
	baseURL      string
	imageBaseURL string
	http         *http.Client
	logger       *logger.Logger
}

func NewClient(cfg config.UpstreamConfig, l *logger.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		http:         &http.Client{Timeout: cfg.Timeout},
		logger:       l.WithComponent("upstream"),
	}
}

// ListEnvelope is the paginated response shape shared by every list endpoint.
type ListEnvelope[T any] struct {
	Data       []T              `json:"data"`
	Pagination model.Pagination `json:"pagination"`
}

func (c *Client) Get(ctx context.Context, token, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, token, path, nil, out)
}

func (c *Client) Post(ctx context.Context, token, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, token, path, body, out)
}

func (c *Client) Put(ctx context.Context, token, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, token, path, body, out)
}

// Delete issues a DELETE with a JSON body; the bulk endpoints carry the id
// list in the body, not the path.
func (c *Client) Delete(ctx context.Context, token, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodDelete, token, path, body, out)
}

func (c *Client) do(ctx context.Context, method, token, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &APIError{Message: "", transport: fmt.Errorf("failed to encode request body: %w", err)}
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &APIError{transport: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req, token)

	return c.send(req, out)
}

// PostMultipart uploads a single file field, used by the profile image
// endpoint.
func (c *Client) PostMultipart(ctx context.Context, token, path, field, filename string, file io.Reader, out interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return &APIError{transport: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return &APIError{transport: err}
	}
	if err := w.Close(); err != nil {
		return &APIError{transport: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return &APIError{transport: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	c.authorize(req, token)

	return c.send(req, out)
}

func (c *Client) authorize(req *http.Request, token string) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("upstream request failed", "method", req.Method, "path", req.URL.Path)
		return &APIError{transport: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, transport: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &APIError{StatusCode: resp.StatusCode, transport: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return nil
}

// ResolveImage turns the relative image path the API returns into an
// absolute URL for display. Absolute URLs pass through untouched.
func (c *Client) ResolveImage(rel string) string {
	if rel == "" {
		return ""
	}
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") {
		return rel
	}
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}
	return c.imageBaseURL + rel
}
