package session

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"

	"quiz-client/internal/apiclient"
	"quiz-client/internal/credstore"
	"quiz-client/internal/logger"
)

const (
	DefaultRole   = "USER"
	AnonymousUser = "Anonymous User"

	msgInvalidCredentials = "Invalid username or password"
	msgCannotConnect      = "Cannot connect to server. Please check if the backend is running."
	msgLoginFailed        = "Login failed. Please try again."
	msgRegisterFailed     = "Registration failed. Please try again."
	msgRegisterRejected   = "Registration failed"
	msgSessionReset       = "Session was reset. Please sign in again."
)

type User struct {
	Username string
	Email    string
	Role     string
}

type Session struct {
	User          User
	Authenticated bool
}

// Result is the outcome of a login or registration attempt.
type Result struct {
	Success bool
	Error   string
}

// Backend is the subset of the API client the session needs.
type Backend interface {
	Me(ctx context.Context, authorization string) (apiclient.Profile, error)
	Register(ctx context.Context, request apiclient.RegisterRequest) error
}

// Manager owns the signed-in identity and the credential header derived from it.
// It is the only writer of that header.
type Manager struct {
	store   credstore.Store
	backend Backend
	log     *logger.Logger

	mu      sync.Mutex
	session Session
	header  string
	// epoch changes on every sign-out so in-flight logins can detect they are stale.
	epoch uint64
}

func NewManager(store credstore.Store, backend Backend, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		store:   store,
		backend: backend,
		log:     log.With("component", "session"),
	}
}

// BasicAuthHeader renders the credential pair as an Authorization header value.
func BasicAuthHeader(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// Restore re-establishes the previous session from stored credentials without
// contacting the backend. A malformed entry is discarded and never reported.
func (m *Manager) Restore(ctx context.Context) {
	creds, err := m.store.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, credstore.ErrNotFound):
		return
	case errors.Is(err, credstore.ErrMalformed):
		m.log.Warn("discarding malformed stored credentials", "error", err)
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			m.log.Warn("failed to clear malformed credentials", "error", clearErr)
		}
		return
	default:
		m.log.Warn("failed to read stored credentials", "error", err)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Session{
		User:          User{Username: creds.Username},
		Authenticated: true,
	}
	m.header = BasicAuthHeader(creds.Username, creds.Password)
	m.log.Info("session restored", "username", creds.Username)
}

func (m *Manager) Login(ctx context.Context, username, password string) Result {
	header := BasicAuthHeader(username, password)
	epoch := m.currentEpoch()

	profile, err := m.backend.Me(ctx, header)
	if err != nil {
		m.log.Info("login failed", "username", username, "error", err)
		m.reset(ctx)
		return Result{Error: describeLoginError(err)}
	}

	m.mu.Lock()
	if m.epoch != epoch {
		m.mu.Unlock()
		m.log.Info("discarding login that raced a sign-out", "username", username)
		return Result{Error: msgSessionReset}
	}
	if err := m.store.Save(ctx, credstore.Credentials{Username: username, Password: password}); err != nil {
		m.log.Warn("failed to persist credentials", "error", err)
	}
	m.session = Session{
		User:          userFromProfile(profile, username),
		Authenticated: true,
	}
	m.header = header
	m.mu.Unlock()

	m.log.Info("signed in", "username", username)
	return Result{Success: true}
}

func (m *Manager) Register(ctx context.Context, username, email, password string) Result {
	err := m.backend.Register(ctx, apiclient.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		m.log.Info("registration failed", "username", username, "error", err)
		return Result{Error: describeRegisterError(err)}
	}
	return m.Login(ctx, username, password)
}

// Logout clears stored credentials, the header and the in-memory session.
func (m *Manager) Logout(ctx context.Context) {
	m.reset(ctx)
}

// Invalidate is called when the backend rejects the active credentials.
// It reports true only for the call that actually ended a session.
func (m *Manager) Invalidate() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	wasAuthenticated := m.session.Authenticated
	m.resetLocked(context.Background())
	return wasAuthenticated
}

func (m *Manager) AuthorizationHeader() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.session.Authenticated || m.header == "" {
		return "", false
	}
	return m.header, true
}

func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Username is the name quiz submissions are recorded under.
func (m *Manager) Username() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if name := strings.TrimSpace(m.session.User.Username); name != "" {
		return name
	}
	return AnonymousUser
}

func (m *Manager) currentEpoch() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch
}

func (m *Manager) reset(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked(ctx)
}

func (m *Manager) resetLocked(ctx context.Context) {
	m.epoch++
	m.session = Session{}
	m.header = ""
	if err := m.store.Clear(ctx); err != nil {
		m.log.Warn("failed to clear stored credentials", "error", err)
	}
}

func userFromProfile(profile apiclient.Profile, fallbackUsername string) User {
	user := User{
		Username: strings.TrimSpace(profile.Username),
		Email:    strings.TrimSpace(profile.Email),
		Role:     strings.TrimSpace(profile.Role),
	}
	if user.Username == "" {
		user.Username = fallbackUsername
	}
	if user.Role == "" {
		user.Role = DefaultRole
	}
	return user
}

func describeLoginError(err error) string {
	switch {
	case errors.Is(err, apiclient.ErrAuth):
		return msgInvalidCredentials
	case errors.Is(err, apiclient.ErrNetwork):
		return msgCannotConnect
	default:
		return msgLoginFailed
	}
}

func describeRegisterError(err error) string {
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 && apiErr.Kind != apiclient.KindAuth:
		if message := apiclient.ServerMessage(err); message != "" {
			return message
		}
		return msgRegisterRejected
	case errors.Is(err, apiclient.ErrNetwork):
		return msgCannotConnect
	default:
		return msgRegisterFailed
	}
}
