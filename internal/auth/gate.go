// Package auth keeps the client's credentials valid across concurrent API
// calls.
//
// SINGLE-FLIGHT REFRESH:
// Every request goes through Gate.Dispatch. When the access token has expired
// (locally by its exp claim, or remotely by a 401), callers serialise on one
// weighted semaphore. The first caller through performs the refresh; callers
// that were queued behind it see that the refresh generation moved while they
// waited and reuse its outcome instead of refreshing again. A failed refresh
// is reported to the caller that ran it and to every caller that waited on it.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/metrics"
)

// Auth endpoint paths. Requests to these bypass the Gate.
const (
	LoginPath    = "/api/v1/auth/login"
	RegisterPath = "/api/v1/auth/register"
	RefreshPath  = "/api/v1/auth/refresh"
)

// Request is a transport-neutral API request.
type Request struct {
	Method string
	Path   string
	Body   any
	Query  map[string]string
}

// Response is a transport-neutral API response body.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport sends one request. An empty token means no Authorization header.
// Non-2xx responses are reported as *StatusError.
type Transport interface {
	Send(ctx context.Context, req *Request, token string) (*Response, error)
}

// TokenStore holds the session credentials.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	AccessTokenValid() bool
	SaveAccessToken(token string) error
}

// Refresher exchanges a refresh token for a new access token.
type Refresher func(ctx context.Context, refreshToken string) (string, error)

// Gate wraps a Transport with single-flight token refresh.
type Gate struct {
	transport Transport
	store     TokenStore
	refresh   Refresher

	sem *semaphore.Weighted

	mu         sync.Mutex
	generation uint64
	lastErr    error
}

// NewGate creates a Gate. A nil refresher uses the refresh endpoint through
// the same transport.
func NewGate(transport Transport, store TokenStore, refresher Refresher) *Gate {
	g := &Gate{
		transport: transport,
		store:     store,
		refresh:   refresher,
		sem:       semaphore.NewWeighted(1),
	}
	if g.refresh == nil {
		g.refresh = g.refreshViaTransport
	}
	return g
}

// IsAuthEndpoint reports whether path is login, register or refresh.
func IsAuthEndpoint(path string) bool {
	path = strings.SplitN(path, "?", 2)[0]
	switch strings.TrimSuffix(path, "/") {
	case LoginPath, RegisterPath, RefreshPath:
		return true
	}
	return false
}

// Dispatch sends req with a valid access token, refreshing at most once per
// expiry across all concurrent callers.
func (g *Gate) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	if IsAuthEndpoint(req.Path) {
		return g.transport.Send(ctx, req, "")
	}

	if !g.store.AccessTokenValid() && g.store.RefreshToken() != "" {
		gen := g.currentGeneration()
		if err := g.refreshOnce(ctx, gen); err != nil {
			return nil, err
		}
	}

	resp, err := g.transport.Send(ctx, req, g.store.AccessToken())
	if err == nil || !IsUnauthorized(err) {
		return resp, err
	}

	if g.store.RefreshToken() == "" {
		return nil, err
	}

	return g.recoverUnauthorized(ctx, req)
}

// recoverUnauthorized handles a 401 under the lock: one retry in case another
// caller refreshed meanwhile, then a refresh and a final attempt.
func (g *Gate) recoverUnauthorized(ctx context.Context, req *Request) (*Response, error) {
	gen := g.currentGeneration()

	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer g.sem.Release(1)

	if refreshed, err := g.generationMoved(gen); refreshed {
		if err != nil {
			return nil, err
		}
	} else {
		resp, err := g.transport.Send(ctx, req, g.store.AccessToken())
		if err == nil || !IsUnauthorized(err) {
			return resp, err
		}
		logging.Debug("Auth: Retry of %s %s still unauthorized, refreshing", req.Method, req.Path)

		if err := g.refreshLocked(ctx); err != nil {
			return nil, err
		}
	}

	return g.transport.Send(ctx, req, g.store.AccessToken())
}

// refreshOnce refreshes unless a refresh completed after gen was observed.
func (g *Gate) refreshOnce(ctx context.Context, gen uint64) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer g.sem.Release(1)

	if refreshed, err := g.generationMoved(gen); refreshed {
		return err
	}
	if g.store.AccessTokenValid() {
		return nil
	}
	return g.refreshLocked(ctx)
}

// refreshLocked performs the refresh. The caller holds sem.
func (g *Gate) refreshLocked(ctx context.Context) error {
	var err error
	refreshToken := g.store.RefreshToken()
	if refreshToken == "" {
		err = &RefreshError{Err: ErrNoRefreshToken}
	} else {
		logging.Debug("Auth: Refreshing access token")
		var access string
		access, err = g.refresh(ctx, refreshToken)
		if err != nil {
			err = &RefreshError{Err: err}
		} else if saveErr := g.store.SaveAccessToken(access); saveErr != nil {
			err = &RefreshError{Err: saveErr}
		}
	}

	metrics.RefreshTotal.WithLabelValues(metrics.ResultLabel(err)).Inc()
	if err != nil {
		logging.Warn("Auth: %v", err)
	}

	g.mu.Lock()
	g.generation++
	g.lastErr = err
	g.mu.Unlock()
	return err
}

func (g *Gate) currentGeneration() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generation
}

// generationMoved reports whether a refresh finished after gen and returns
// that refresh's error.
func (g *Gate) generationMoved(gen uint64) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.generation != gen {
		return true, g.lastErr
	}
	return false, nil
}

type refreshBody struct {
	Refresh string `json:"refresh"`
}

type accessBody struct {
	Access string `json:"access"`
}

func (g *Gate) refreshViaTransport(ctx context.Context, refreshToken string) (string, error) {
	resp, err := g.transport.Send(ctx, &Request{
		Method: "POST",
		Path:   RefreshPath,
		Body:   refreshBody{Refresh: refreshToken},
	}, "")
	if err != nil {
		return "", err
	}
	return decodeAccess(resp.Body)
}

var errEmptyAccess = errors.New("refresh response did not include an access token")

// decodeAccess reads {"access": "..."}.
func decodeAccess(body []byte) (string, error) {
	var out accessBody
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if out.Access == "" {
		return "", errEmptyAccess
	}
	return out.Access, nil
}
