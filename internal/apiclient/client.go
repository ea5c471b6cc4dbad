package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"quiz-client/internal/logger"
	"quiz-client/internal/quiz"
)

const (
	defaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 30 * time.Second

	// SignInRoute is where the client is sent after losing authorization.
	SignInRoute = "/login"
)

// Authenticator supplies the active credential header and is told when the
// backend rejects it.
type Authenticator interface {
	AuthorizationHeader() (string, bool)
	// Invalidate drops the session and reports whether one was active.
	Invalidate() bool
}

// Navigator receives the redirect to the sign-in surface.
type Navigator interface {
	Current() string
	Redirect(route string)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger

	mu   sync.RWMutex
	auth Authenticator
	nav  Navigator
}

type requestOptions struct {
	// header replaces the session header and disables 401 interception; used by
	// the sign-in probe and registration, which run outside the session.
	header     string
	standalone bool
}

func New(baseURL string, httpClient *http.Client, log *logger.Logger) *Client {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log.With("component", "apiclient"),
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) UseAuthenticator(auth Authenticator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auth = auth
}

func (c *Client) UseNavigator(nav Navigator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nav = nav
}

func (c *Client) GenerateQuiz(ctx context.Context, topic, description string) (quiz.RawQuiz, error) {
	var payload quiz.RawQuiz
	request := generateRequest{Topic: topic, Description: description}
	if err := c.doJSON(ctx, http.MethodPost, generatePath, requestOptions{}, request, &payload); err != nil {
		return quiz.RawQuiz{}, err
	}
	return payload, nil
}

func (c *Client) SubmitQuiz(ctx context.Context, request SubmitRequest) (quiz.ScoreResult, error) {
	var payload quiz.ScoreResult
	if err := c.doJSON(ctx, http.MethodPost, submitPath, requestOptions{}, request, &payload); err != nil {
		return quiz.ScoreResult{}, err
	}
	return payload, nil
}

// History lists the signed-in user's submissions, newest first.
func (c *Client) History(ctx context.Context) ([]Attempt, error) {
	var payload []Attempt
	if err := c.doJSON(ctx, http.MethodGet, historyPath, requestOptions{}, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Me probes the protected identity endpoint with an explicit credential header.
func (c *Client) Me(ctx context.Context, authorization string) (Profile, error) {
	var payload Profile
	opts := requestOptions{header: authorization, standalone: true}
	if err := c.doJSON(ctx, http.MethodGet, mePath, opts, nil, &payload); err != nil {
		return Profile{}, err
	}
	return payload, nil
}

func (c *Client) Register(ctx context.Context, request RegisterRequest) error {
	return c.doJSON(ctx, http.MethodPost, registerPath, requestOptions{standalone: true}, request, nil)
}

func (c *Client) collaborators() (Authenticator, Navigator) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth, c.nav
}

func (c *Client) doJSON(ctx context.Context, method, path string, opts requestOptions, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	auth, _ := c.collaborators()
	switch {
	case opts.header != "":
		request.Header.Set("Authorization", opts.header)
	case !opts.standalone && auth != nil:
		if header, ok := auth.AuthorizationHeader(); ok {
			request.Header.Set("Authorization", header)
		}
	}

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		c.log.Warn("request failed without response", "method", method, "path", path, "error", err)
		return &APIError{Kind: KindNetwork, Err: err}
	}
	defer response.Body.Close()

	c.log.Debug("request completed",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"elapsed", time.Since(started),
	)

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{
			Kind:       kindForStatus(response.StatusCode),
			StatusCode: response.StatusCode,
		}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil {
			apiErr.Message = strings.TrimSpace(payload.Message)
			if apiErr.Message == "" {
				apiErr.Message = strings.TrimSpace(payload.Error)
			}
		}
		if apiErr.Kind == KindAuth && !opts.standalone {
			c.handleUnauthorized()
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(responseBody); err != nil {
		return &APIError{Kind: KindServer, StatusCode: response.StatusCode, Err: err}
	}
	return nil
}

func (c *Client) handleUnauthorized() {
	auth, nav := c.collaborators()
	if auth == nil || !auth.Invalidate() {
		return
	}

	c.log.Info("session invalidated by backend")
	if nav != nil && nav.Current() != SignInRoute {
		nav.Redirect(SignInRoute)
	}
}
