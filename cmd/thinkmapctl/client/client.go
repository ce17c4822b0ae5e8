package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/config"
	"github.com/concave-dev/thinkmap/internal/auth"
	"github.com/concave-dev/thinkmap/internal/feedback"
	"github.com/concave-dev/thinkmap/internal/mindmap"
)

const apiPrefix = "/api/v1"

// ErrNotFound is returned when the API answers 404.
var ErrNotFound = errors.New("not found")

// APIResponse is the success envelope of thinkmapd.
type APIResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Count  int             `json:"count,omitempty"`
}

// TokenResponse is returned by login, register and refresh.
type TokenResponse struct {
	Status   string `json:"status"`
	Access   string `json:"access"`
	Refresh  string `json:"refresh,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
}

// User is the authenticated account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Health is the daemon health report.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Generator string    `json:"generator"`
}

// APIClient is a typed thinkmapd client. It is safe for concurrent use.
type APIClient struct {
	transport *Transport
	gate      *auth.Gate
}

// NewAPIClient wraps transport with a Gate over store.
func NewAPIClient(transport *Transport, store auth.TokenStore) *APIClient {
	return &APIClient{
		transport: transport,
		gate:      auth.NewGate(transport, store, nil),
	}
}

// CreateAPIClient builds a client from the global flags.
func CreateAPIClient(store auth.TokenStore) *APIClient {
	timeout := time.Duration(config.Global.Timeout) * time.Second
	return NewAPIClient(NewTransport(config.Global.APIAddr, timeout), store)
}

// do sends a request through the Gate and returns the raw body.
func (c *APIClient) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	resp, err := c.gate.Dispatch(ctx, &auth.Request{
		Method: method,
		Path:   path,
		Body:   body,
	})
	if err != nil {
		var se *auth.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, se.Message)
		}
		return nil, err
	}
	return resp.Body, nil
}

// call sends a request and decodes the envelope's data into out (if non-nil).
func (c *APIClient) call(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	var env APIResponse
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("response for %s %s has no data", method, path)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func (c *APIClient) tokens(ctx context.Context, path, username, password string) (*TokenResponse, error) {
	raw, err := c.do(ctx, http.MethodPost, path, map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	var out TokenResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if out.Access == "" || out.Refresh == "" {
		return nil, fmt.Errorf("token response is missing tokens")
	}
	return &out, nil
}

// Register creates an account and returns its first token pair.
func (c *APIClient) Register(ctx context.Context, username, password string) (*TokenResponse, error) {
	return c.tokens(ctx, auth.RegisterPath, username, password)
}

// Login exchanges credentials for a token pair.
func (c *APIClient) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	return c.tokens(ctx, auth.LoginPath, username, password)
}

// Logout revokes the refresh token.
func (c *APIClient) Logout(ctx context.Context, refresh string) error {
	return c.call(ctx, http.MethodPost, apiPrefix+"/auth/logout", map[string]string{"refresh": refresh}, nil)
}

// Me returns the authenticated user.
func (c *APIClient) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.call(ctx, http.MethodGet, apiPrefix+"/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Health fetches the daemon health report. It needs no credentials.
func (c *APIClient) Health(ctx context.Context) (*Health, error) {
	raw, err := c.do(ctx, http.MethodGet, apiPrefix+"/health", nil)
	if err != nil {
		return nil, err
	}
	var h Health
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("failed to decode health: %w", err)
	}
	return &h, nil
}

func mapPath(id string) string {
	return apiPrefix + "/maps/" + url.PathEscape(id)
}

// ListMaps returns the caller's maps, most recently updated first.
func (c *APIClient) ListMaps(ctx context.Context) ([]*mindmap.Map, error) {
	var maps []*mindmap.Map
	if err := c.call(ctx, http.MethodGet, apiPrefix+"/maps", nil, &maps); err != nil {
		return nil, err
	}
	return maps, nil
}

// CreateMap creates a map. An empty title lets the server pick one.
func (c *APIClient) CreateMap(ctx context.Context, title string) (*mindmap.Map, error) {
	var m mindmap.Map
	if err := c.call(ctx, http.MethodPost, apiPrefix+"/maps", map[string]string{"title": title}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMap fetches one map.
func (c *APIClient) GetMap(ctx context.Context, id string) (*mindmap.Map, error) {
	var m mindmap.Map
	if err := c.call(ctx, http.MethodGet, mapPath(id), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveMap replaces a map's content and returns the stored version.
func (c *APIClient) SaveMap(ctx context.Context, m *mindmap.Map) (*mindmap.Map, error) {
	var saved mindmap.Map
	if err := c.call(ctx, http.MethodPut, mapPath(m.ID), m, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// DeleteMap removes a map and its feedback history.
func (c *APIClient) DeleteMap(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, mapPath(id), nil, nil)
}

// RequestFeedback asks the daemon for feedback on a batch of edits.
func (c *APIClient) RequestFeedback(ctx context.Context, mapID string, req feedback.Request) (*feedback.Feedback, error) {
	var out struct {
		Feedback *feedback.Feedback `json:"feedback"`
	}
	if err := c.call(ctx, http.MethodPost, mapPath(mapID)+"/feedback", req, &out); err != nil {
		return nil, err
	}
	if out.Feedback == nil {
		return nil, fmt.Errorf("feedback response is empty")
	}
	return out.Feedback, nil
}

// ListFeedback returns a map's feedback history, oldest first.
func (c *APIClient) ListFeedback(ctx context.Context, mapID string) ([]*feedback.Feedback, error) {
	var list []*feedback.Feedback
	if err := c.call(ctx, http.MethodGet, mapPath(mapID)+"/feedback", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}
