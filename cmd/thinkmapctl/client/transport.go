// Package client provides the thinkmapd API client used by thinkmapctl.
//
// Requests flow through two layers. Transport is a resty client that knows
// the wire format: base URL, headers, retries on connection errors and the
// {"status":"error"} envelope. APIClient sits on an auth.Gate, so every call
// except login, register and refresh carries a valid access token and a
// burst of concurrent calls triggers at most one token refresh.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/config"
	"github.com/concave-dev/thinkmap/cmd/thinkmapctl/utils"
	"github.com/concave-dev/thinkmap/internal/auth"
	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/netutil"
)

// errorEnvelope is the body of every non-2xx thinkmapd response.
type errorEnvelope struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

// Transport implements auth.Transport over resty.
type Transport struct {
	client  *resty.Client
	baseURL string
}

// NewTransport creates a resty-backed transport for the API at apiAddr
// (host:port).
func NewTransport(apiAddr string, timeout time.Duration) *Transport {
	return NewTransportForURL(fmt.Sprintf("http://%s", apiAddr), timeout)
}

// NewTransportForURL is NewTransport for a full base URL.
func NewTransportForURL(baseURL string, timeout time.Duration) *Transport {
	client := resty.New()

	// Route Resty's internal logging through our structured logging system
	client.SetLogger(utils.RestyLogger{})

	client.
		SetTimeout(timeout).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("thinkmapctl/%s", config.Version))

	// Only retry on connection errors, not HTTP errors
	client.
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil
		})

	client.OnBeforeRequest(func(c *resty.Client, req *resty.Request) error {
		logging.Debug("Making API request: %s %s", req.Method, req.URL)
		return nil
	})

	client.OnAfterResponse(func(c *resty.Client, resp *resty.Response) error {
		logging.Debug("API response: %d %s (took %v)",
			resp.StatusCode(), resp.Status(), resp.Time())
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		logging.Debug("API request failed: %s %s - %v", req.Method, req.URL, err)
	})

	return &Transport{
		client:  client,
		baseURL: baseURL,
	}
}

// BaseURL returns the API base URL.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// Send implements auth.Transport.
func (t *Transport) Send(ctx context.Context, req *auth.Request, token string) (*auth.Response, error) {
	r := t.client.R().SetContext(ctx)
	if token != "" {
		r.SetAuthToken(token)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}
	if len(req.Query) > 0 {
		r.SetQueryParams(req.Query)
	}

	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		if netutil.IsConnectionRefusedError(err) {
			return nil, fmt.Errorf("no thinkmapd listening at %s (is it running?): %w", t.baseURL, err)
		}
		return nil, fmt.Errorf("failed to connect to API server at %s: %w", t.baseURL, err)
	}

	if resp.IsError() {
		return nil, statusError(resp.StatusCode(), resp.Body())
	}

	return &auth.Response{StatusCode: resp.StatusCode(), Body: resp.Body()}, nil
}

// statusError builds an *auth.StatusError from an error envelope, falling
// back to the raw body when it is not JSON.
func statusError(code int, body []byte) *auth.StatusError {
	msg := string(body)
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != "" {
		msg = env.Error
		if env.Details != "" {
			msg += ": " + env.Details
		}
	}
	return &auth.StatusError{StatusCode: code, Message: msg, Body: body}
}
