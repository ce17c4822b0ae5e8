package auth

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthExpired matches a 401 the Gate could not recover from.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrRefreshFailed matches a failed refresh attempt.
	ErrRefreshFailed = errors.New("token refresh failed")

	// ErrNoRefreshToken is the cause recorded when a refresh was needed but
	// the store holds no refresh token.
	ErrNoRefreshToken = errors.New("no refresh token")
)

// StatusError is a non-2xx API response. Transports return it so the Gate
// can recognise 401s without knowing the HTTP library in use.
type StatusError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API request failed with status %d", e.StatusCode)
}

// Is lets errors.Is(err, ErrAuthExpired) match 401 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrAuthExpired && e.StatusCode == http.StatusUnauthorized
}

// IsUnauthorized reports whether err is a 401 StatusError.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized
}

// RefreshError wraps the cause of a failed refresh.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

func (e *RefreshError) Is(target error) bool {
	return target == ErrRefreshFailed
}
