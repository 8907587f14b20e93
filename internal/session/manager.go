package session

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clinicdesk/admin-console/internal/model"
	"github.com/clinicdesk/admin-console/internal/upstream"
	"github.com/clinicdesk/admin-console/pkg/errors"
	"github.com/clinicdesk/admin-console/pkg/logger"
)

// Manager owns the session lifecycle: bootstrap, login, logout, and the
// narrow profile patches. Every mutator either fully replaces identity or
// patches a named subset of fields; none of them triggers an implicit
// full-session refetch.
type Manager struct {
	store  Store
	client *upstream.Client
	logger *logger.Logger
}

func NewManager(store Store, client *upstream.Client, l *logger.Logger) *Manager {
	return &Manager{
		store:  store,
		client: client,
		logger: l.WithComponent("session"),
	}
}

// Teardown releases the backing store.
func (m *Manager) Teardown() error {
	return m.store.Close()
}

func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

type userEnvelope struct {
	User model.User `json:"user"`
}

// Bootstrap resolves identity from a persisted credential. An expired or
// rejected token is cleared and the session left empty; either way the
// session leaves the loading state, so routing can proceed.
func (m *Manager) Bootstrap(ctx context.Context, s *Session) error {
	defer func() {
		s.Loading = false
		if err := m.store.Put(ctx, s); err != nil {
			m.logger.Error(err, "failed to persist session after bootstrap")
		}
	}()

	if s.Token == "" {
		return nil
	}

	if expired(s.Token) {
		m.logger.Debug("persisted credential expired, clearing", "session", s.ID)
		s.clearIdentity()
		return nil
	}

	var env userEnvelope
	if err := m.client.Get(ctx, s.Token, "/admin/auth/getUserData", &env); err != nil {
		m.logger.Warn("bootstrap fetch failed, clearing credential", "session", s.ID, "reason", upstream.Message(err))
		s.clearIdentity()
		return nil
	}

	user := env.User
	s.User = &user
	s.Role = user.Role
	s.Permissions = user.Permissions
	return nil
}

// Login exchanges credentials for a token, persists it, and runs the
// bootstrap profile fetch. A failure surfaces the server's message verbatim
// and leaves nothing persisted.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp model.LoginResponse
	err := m.client.Post(ctx, "", "/admin/auth/login", model.LoginRequest{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, errors.NewUnauthorized(upstream.Message(err), err)
	}

	s := &Session{
		ID:        uuid.NewString(),
		Token:     resp.Token,
		Role:      resp.Role,
		Loading:   true,
		CreatedAt: time.Now(),
	}

	var env userEnvelope
	if err := m.client.Get(ctx, s.Token, "/admin/auth/getUserData", &env); err != nil {
		// The credential is still persisted below, so the next bootstrap
		// can retry the profile fetch; identity stays unresolved until
		// then, mirroring a failed profile fetch after a successful login.
		m.logger.Warn("profile fetch after login failed", "reason", upstream.Message(err))
	} else {
		user := env.User
		s.User = &user
		s.Role = user.Role
		s.Permissions = user.Permissions
	}
	s.Loading = false

	if err := m.store.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return s, nil
}

// Logout clears the persisted credential and in-memory session synchronously;
// no upstream round-trip is required.
func (m *Manager) Logout(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// Register proxies account creation to the upstream.
func (m *Manager) Register(ctx context.Context, req model.RegisterRequest) error {
	if err := m.client.Post(ctx, "", "/admin/auth/register", req, nil); err != nil {
		return errors.NewBadRequest(upstream.Message(err), err)
	}
	return nil
}

// ForgotPassword and ResetPassword are proxied; the upstream owns the email
// and token machinery.
func (m *Manager) ForgotPassword(ctx context.Context, req model.ForgotPasswordRequest) error {
	if err := m.client.Post(ctx, "", "/admin/auth/forgot-password", req, nil); err != nil {
		return errors.NewBadRequest(upstream.Message(err), err)
	}
	return nil
}

func (m *Manager) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	if err := m.client.Post(ctx, "", "/admin/auth/reset-password", req, nil); err != nil {
		return errors.NewBadRequest(upstream.Message(err), err)
	}
	return nil
}

// UpdateProfileImage uploads a new image and patches only the image field of
// the current user; the rest of the profile is untouched and not refetched.
func (m *Manager) UpdateProfileImage(ctx context.Context, s *Session, filename string, file io.Reader) (string, error) {
	if !s.Authenticated() {
		return "", errors.Unauthorized(nil)
	}

	var resp struct {
		Message string `json:"message"`
		Data    struct {
			Image string `json:"image"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/admin/doctors/%s/upload-image", s.User.ID)
	if err := m.client.PostMultipart(ctx, s.Token, path, "image", filename, file, &resp); err != nil {
		return "", errors.NewBadRequest(upstream.Message(err), err)
	}

	s.User.Image = resp.Data.Image
	if err := m.store.Put(ctx, s); err != nil {
		return "", fmt.Errorf("failed to persist session: %w", err)
	}
	return resp.Message, nil
}

// UpdateProfileData sends a partial field set and applies the same patch
// locally via structural merge, keeping unnamed fields untouched.
func (m *Manager) UpdateProfileData(ctx context.Context, s *Session, patch model.ProfilePatch) error {
	if !s.Authenticated() {
		return errors.Unauthorized(nil)
	}
	if patch.IsZero() {
		return errors.NewValidation("no profile fields to update")
	}

	path := fmt.Sprintf("/admin/doctors/%s", s.User.ID)
	if err := m.client.Put(ctx, s.Token, path, patch, nil); err != nil {
		return errors.NewBadRequest(upstream.Message(err), err)
	}

	patch.Apply(s.User)
	if err := m.store.Put(ctx, s); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// expired inspects the token's registered claims without verifying the
// signature; verification is the upstream's job. A token that cannot be
// parsed is treated as opaque and handed to the upstream as-is.
func expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
