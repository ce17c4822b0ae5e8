package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeStore struct {
	mu         sync.Mutex
	access     string
	refresh    string
	valid      bool
	validCalls atomic.Int32
}

func (s *fakeStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

func (s *fakeStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

func (s *fakeStore) AccessTokenValid() bool {
	s.validCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.valid
}

func (s *fakeStore) SaveAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = token
	s.valid = true
	return nil
}

type sentRequest struct {
	path  string
	token string
	body  any
}

// fakeTransport answers with handle, recording every call.
type fakeTransport struct {
	mu     sync.Mutex
	sent   []sentRequest
	handle func(req *Request, token string, call int) (*Response, error)
}

func (f *fakeTransport) Send(_ context.Context, req *Request, token string) (*Response, error) {
	f.mu.Lock()
	f.sent = append(f.sent, sentRequest{path: req.Path, token: token, body: req.Body})
	call := len(f.sent)
	f.mu.Unlock()

	if f.handle == nil {
		return &Response{StatusCode: http.StatusOK}, nil
	}
	return f.handle(req, token, call)
}

func (f *fakeTransport) calls() []sentRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentRequest(nil), f.sent...)
}

func unauthorized() error {
	return &StatusError{StatusCode: http.StatusUnauthorized, Message: "token expired"}
}

func mapsRequest() *Request {
	return &Request{Method: http.MethodGet, Path: "/api/v1/maps"}
}

func TestSingleFlightRefresh(t *testing.T) {
	const callers = 10

	store := &fakeStore{access: "stale", refresh: "r1"}
	transport := &fakeTransport{}

	var refreshes atomic.Int32
	release := make(chan struct{})
	refresher := func(ctx context.Context, refresh string) (string, error) {
		refreshes.Add(1)
		<-release
		return "fresh", nil
	}
	gate := NewGate(transport, store, refresher)

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gate.Dispatch(context.Background(), mapsRequest())
			errs <- err
		}()
	}

	deadline := time.Now().Add(2 * time.Second)
	for store.validCalls.Load() < callers && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Dispatch() error: %v", err)
		}
	}
	if got := refreshes.Load(); got != 1 {
		t.Errorf("refresh calls = %d, want 1", got)
	}
	sent := transport.calls()
	if len(sent) != callers {
		t.Fatalf("transport calls = %d, want %d", len(sent), callers)
	}
	for _, s := range sent {
		if s.token != "fresh" {
			t.Errorf("request sent with token %q, want refreshed token", s.token)
		}
	}
}

func TestUnauthorizedWithoutRefreshTokenPassesThrough(t *testing.T) {
	original := unauthorized()
	store := &fakeStore{access: "a", valid: true}
	transport := &fakeTransport{handle: func(*Request, string, int) (*Response, error) {
		return nil, original
	}}

	var refreshes atomic.Int32
	gate := NewGate(transport, store, func(context.Context, string) (string, error) {
		refreshes.Add(1)
		return "", nil
	})

	_, err := gate.Dispatch(context.Background(), mapsRequest())
	if err != original {
		t.Fatalf("Dispatch() error = %v, want the original error value", err)
	}
	if !errors.Is(err, ErrAuthExpired) {
		t.Error("401 should match ErrAuthExpired")
	}
	if refreshes.Load() != 0 || len(transport.calls()) != 1 {
		t.Errorf("unexpected retries: refreshes=%d sends=%d", refreshes.Load(), len(transport.calls()))
	}
}

func TestUnauthorizedRetryThenRefresh(t *testing.T) {
	store := &fakeStore{access: "old", refresh: "r1", valid: true}
	transport := &fakeTransport{handle: func(_ *Request, token string, _ int) (*Response, error) {
		if token == "new" {
			return &Response{StatusCode: http.StatusOK, Body: []byte(`[]`)}, nil
		}
		return nil, unauthorized()
	}}

	var refreshes atomic.Int32
	gate := NewGate(transport, store, func(_ context.Context, refresh string) (string, error) {
		if refresh != "r1" {
			t.Errorf("refresh token = %q", refresh)
		}
		refreshes.Add(1)
		return "new", nil
	})

	resp, err := gate.Dispatch(context.Background(), mapsRequest())
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if string(resp.Body) != "[]" {
		t.Errorf("body = %q", resp.Body)
	}

	sent := transport.calls()
	want := []string{"old", "old", "new"}
	if len(sent) != len(want) {
		t.Fatalf("sends = %d, want %d (initial, retry, final)", len(sent), len(want))
	}
	for i, s := range sent {
		if s.token != want[i] {
			t.Errorf("send %d token = %q, want %q", i, s.token, want[i])
		}
	}
	if refreshes.Load() != 1 {
		t.Errorf("refreshes = %d, want 1", refreshes.Load())
	}
}

func TestUnauthorizedRetrySucceedsWithoutRefresh(t *testing.T) {
	store := &fakeStore{access: "a", refresh: "r1", valid: true}
	transport := &fakeTransport{handle: func(_ *Request, _ string, call int) (*Response, error) {
		if call == 1 {
			return nil, unauthorized()
		}
		return &Response{StatusCode: http.StatusOK}, nil
	}}

	var refreshes atomic.Int32
	gate := NewGate(transport, store, func(context.Context, string) (string, error) {
		refreshes.Add(1)
		return "new", nil
	})

	if _, err := gate.Dispatch(context.Background(), mapsRequest()); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}
	if refreshes.Load() != 0 {
		t.Errorf("refresh performed although retry succeeded")
	}
}

func TestRefreshFailurePropagatesToWaiters(t *testing.T) {
	const callers = 5

	store := &fakeStore{access: "stale", refresh: "revoked"}
	transport := &fakeTransport{}

	var refreshes atomic.Int32
	release := make(chan struct{})
	cause := errors.New("refresh token revoked")
	gate := NewGate(transport, store, func(context.Context, string) (string, error) {
		refreshes.Add(1)
		<-release
		return "", cause
	})

	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := gate.Dispatch(context.Background(), mapsRequest())
			errs <- err
		}()
	}

	deadline := time.Now().Add(2 * time.Second)
	for store.validCalls.Load() < callers && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if !errors.Is(err, ErrRefreshFailed) {
			t.Errorf("Dispatch() error = %v, want ErrRefreshFailed", err)
		}
		if !errors.Is(err, cause) {
			t.Errorf("Dispatch() error = %v, want wrapped cause", err)
		}
	}
	if refreshes.Load() != 1 {
		t.Errorf("refreshes = %d, want 1", refreshes.Load())
	}
	if n := len(transport.calls()); n != 0 {
		t.Errorf("requests sent after failed refresh: %d", n)
	}
}

func TestAuthEndpointsBypassGate(t *testing.T) {
	store := &fakeStore{access: "stale", refresh: "r1"}
	transport := &fakeTransport{}

	var refreshes atomic.Int32
	gate := NewGate(transport, store, func(context.Context, string) (string, error) {
		refreshes.Add(1)
		return "new", nil
	})

	for _, path := range []string{LoginPath, RegisterPath, RefreshPath + "/"} {
		if _, err := gate.Dispatch(context.Background(), &Request{Method: http.MethodPost, Path: path}); err != nil {
			t.Fatalf("Dispatch(%s) error: %v", path, err)
		}
	}

	if refreshes.Load() != 0 {
		t.Error("auth endpoint triggered a refresh")
	}
	for _, s := range transport.calls() {
		if s.token != "" {
			t.Errorf("auth endpoint %s sent with bearer token %q", s.path, s.token)
		}
	}
}

func TestDefaultRefresherCallsRefreshEndpoint(t *testing.T) {
	store := &fakeStore{access: "stale", refresh: "r1"}
	transport := &fakeTransport{handle: func(req *Request, token string, _ int) (*Response, error) {
		if req.Path == RefreshPath {
			body, _ := json.Marshal(req.Body)
			if string(body) != `{"refresh":"r1"}` {
				t.Errorf("refresh body = %s", body)
			}
			return &Response{StatusCode: http.StatusOK, Body: []byte(`{"access":"new"}`)}, nil
		}
		return &Response{StatusCode: http.StatusOK}, nil
	}}

	gate := NewGate(transport, store, nil)
	if _, err := gate.Dispatch(context.Background(), mapsRequest()); err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}

	sent := transport.calls()
	if len(sent) != 2 || sent[0].path != RefreshPath || sent[1].token != "new" {
		t.Errorf("unexpected sends: %+v", sent)
	}
}

func TestOtherErrorsReturnedUnchanged(t *testing.T) {
	serverErr := &StatusError{StatusCode: http.StatusInternalServerError}
	store := &fakeStore{access: "a", refresh: "r1", valid: true}
	transport := &fakeTransport{handle: func(*Request, string, int) (*Response, error) {
		return nil, serverErr
	}}
	gate := NewGate(transport, store, func(context.Context, string) (string, error) {
		t.Error("refresh should not run for a 500")
		return "", nil
	})

	if _, err := gate.Dispatch(context.Background(), mapsRequest()); err != serverErr {
		t.Errorf("Dispatch() error = %v, want original 500", err)
	}
	if errors.Is(serverErr, ErrAuthExpired) {
		t.Error("500 must not match ErrAuthExpired")
	}
}

func TestDispatchHonoursContextWhileWaiting(t *testing.T) {
	store := &fakeStore{access: "stale", refresh: "r1"}
	release := make(chan struct{})
	gate := NewGate(&fakeTransport{}, store, func(context.Context, string) (string, error) {
		<-release
		return "fresh", nil
	})
	defer close(release)

	go gate.Dispatch(context.Background(), mapsRequest())
	for store.validCalls.Load() < 1 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := gate.Dispatch(ctx, mapsRequest()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Dispatch() error = %v, want context deadline", err)
	}
}
