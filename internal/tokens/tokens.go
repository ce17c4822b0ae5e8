// Package tokens issues and verifies the JWT credentials used between
// thinkmapctl and thinkmapd.
//
// Two kinds of HS256 token are issued per login: a short-lived access token
// sent as a bearer credential, and a long-lived refresh token that can only
// be exchanged for a new access token. The kind is carried in the "typ"
// claim so one cannot be used in place of the other.
package tokens

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMissingToken = errors.New("missing authentication token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrWrongKind    = errors.New("wrong token type")
)

// Kind distinguishes access from refresh tokens.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// DefaultIssuer is the iss claim of tokens minted by thinkmapd.
const DefaultIssuer = "thinkmapd"

// Claims are the JWT claims of both token kinds. Subject holds the user id.
type Claims struct {
	Username string `json:"username"`
	Kind     Kind   `json:"typ"`
	jwt.RegisteredClaims
}

// Pair is returned by login and register.
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Config holds signing parameters.
type Config struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Issuer mints and verifies tokens.
type Issuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer validates cfg and returns an Issuer.
func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.Secret) < 16 {
		return nil, errors.New("token secret must be at least 16 bytes")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	if cfg.RefreshTTL < cfg.AccessTTL {
		return nil, errors.New("refresh token lifetime must not be shorter than access token lifetime")
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &Issuer{
		secret:     []byte(cfg.Secret),
		issuer:     issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
	}, nil
}

// IssuePair mints an access and a refresh token for the user.
func (i *Issuer) IssuePair(userID, username string) (Pair, error) {
	access, err := i.issue(userID, username, KindAccess, i.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := i.issue(userID, username, KindRefresh, i.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh}, nil
}

// IssueAccess mints a new access token.
func (i *Issuer) IssueAccess(userID, username string) (string, error) {
	return i.issue(userID, username, KindAccess, i.accessTTL)
}

func (i *Issuer) issue(userID, username string, kind Kind, ttl time.Duration) (string, error) {
	now := i.now()
	claims := &Claims{
		Username: username,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify parses tokenString, checks signature, issuer, expiry and kind, and
// returns its claims. A "Bearer " prefix is accepted.
func (i *Issuer) Verify(tokenString string, kind Kind) (*Claims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrWrongKind, claims.Kind, kind)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// ExpiresAt reads the exp claim without verifying the signature. The client
// uses it to detect locally expired access tokens; the server still verifies
// every token it receives.
func ExpiresAt(tokenString string) (time.Time, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: missing exp claim", ErrInvalidToken)
	}
	return claims.ExpiresAt.Time, nil
}

// Subject reads the sub and username claims without verification.
func Subject(tokenString string) (userID, username string, err error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.Subject, claims.Username, nil
}
