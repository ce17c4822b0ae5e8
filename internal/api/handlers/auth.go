package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/store"
	"github.com/concave-dev/thinkmap/internal/tokens"
	"github.com/concave-dev/thinkmap/internal/validate"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// AccountStore is the account side of the store.
type AccountStore interface {
	CreateUser(username, password string) (*store.User, error)
	Authenticate(username, password string) (*store.User, error)
	GetUser(id string) (*store.User, error)
	RevokeToken(jti string, expiresAt time.Time) error
	IsRevoked(jti string) (bool, error)
}

// TokenIssuer mints and verifies tokens.
type TokenIssuer interface {
	IssuePair(userID, username string) (tokens.Pair, error)
	IssueAccess(userID, username string) (string, error)
	Verify(token string, kind tokens.Kind) (*tokens.Claims, error)
}

// CredentialsRequest is the body of register and login.
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body of refresh and logout.
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// TokenResponse carries a freshly issued token pair.
type TokenResponse struct {
	Status   string `json:"status"`
	Access   string `json:"access"`
	Refresh  string `json:"refresh,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
}

// Register creates an account and logs it in.
//
// POST /api/v1/auth/register
func Register(accounts AccountStore, issuer TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CredentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		if err := validate.UsernameFormat(req.Username); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid username", err.Error())
			return
		}
		if len(req.Password) < MinPasswordLength {
			respondError(c, http.StatusBadRequest, "Invalid password", "password must be at least 8 characters")
			return
		}

		user, err := accounts.CreateUser(req.Username, req.Password)
		if errors.Is(err, store.ErrUserExists) {
			respondError(c, http.StatusConflict, "Username already taken", "")
			return
		}
		if err != nil {
			logging.Error("Register: Failed to create user %s: %v", req.Username, err)
			respondError(c, http.StatusInternalServerError, "Failed to create account", "")
			return
		}

		logging.Info("Registered user %s (%s)", user.Username, logging.FormatID(user.ID))
		issuePair(c, issuer, user, http.StatusCreated)
	}
}

// Login exchanges a username and password for a token pair.
//
// POST /api/v1/auth/login
func Login(accounts AccountStore, issuer TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CredentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}

		user, err := accounts.Authenticate(req.Username, req.Password)
		if errors.Is(err, store.ErrInvalidCredentials) {
			logging.Warn("Login: Rejected credentials for %s", req.Username)
			respondError(c, http.StatusUnauthorized, "Invalid username or password", "")
			return
		}
		if err != nil {
			logging.Error("Login: Store error: %v", err)
			respondError(c, http.StatusInternalServerError, "Failed to log in", "")
			return
		}

		issuePair(c, issuer, user, http.StatusOK)
	}
}

func issuePair(c *gin.Context, issuer TokenIssuer, user *store.User, code int) {
	pair, err := issuer.IssuePair(user.ID, user.Username)
	if err != nil {
		logging.Error("Failed to issue tokens for %s: %v", user.Username, err)
		respondError(c, http.StatusInternalServerError, "Failed to issue tokens", "")
		return
	}
	c.JSON(code, TokenResponse{
		Status:   "success",
		Access:   pair.Access,
		Refresh:  pair.Refresh,
		UserID:   user.ID,
		Username: user.Username,
	})
}

// verifyRefresh checks a refresh token's signature, kind and revocation.
func verifyRefresh(accounts AccountStore, issuer TokenIssuer, token string) (*tokens.Claims, error) {
	claims, err := issuer.Verify(token, tokens.KindRefresh)
	if err != nil {
		return nil, err
	}
	revoked, err := accounts.IsRevoked(claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, tokens.ErrInvalidToken
	}
	return claims, nil
}

// Refresh mints a new access token from a refresh token.
//
// POST /api/v1/auth/refresh
func Refresh(accounts AccountStore, issuer TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}

		claims, err := verifyRefresh(accounts, issuer, req.Refresh)
		if err != nil {
			logging.Warn("Refresh: Rejected refresh token: %v", err)
			respondError(c, http.StatusUnauthorized, "Invalid refresh token", err.Error())
			return
		}

		if _, err := accounts.GetUser(claims.Subject); err != nil {
			respondError(c, http.StatusUnauthorized, "Unknown user", "")
			return
		}

		access, err := issuer.IssueAccess(claims.Subject, claims.Username)
		if err != nil {
			logging.Error("Refresh: Failed to issue access token: %v", err)
			respondError(c, http.StatusInternalServerError, "Failed to issue token", "")
			return
		}

		logging.Debug("Refreshed access token for %s", claims.Username)
		c.JSON(http.StatusOK, TokenResponse{Status: "success", Access: access})
	}
}

// Logout revokes a refresh token until it would have expired.
//
// POST /api/v1/auth/logout
func Logout(accounts AccountStore, issuer TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}

		claims, err := verifyRefresh(accounts, issuer, req.Refresh)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Invalid refresh token", err.Error())
			return
		}

		if err := accounts.RevokeToken(claims.ID, claims.ExpiresAt.Time); err != nil {
			logging.Error("Logout: Failed to revoke token: %v", err)
			respondError(c, http.StatusInternalServerError, "Failed to log out", "")
			return
		}

		logging.Info("User %s logged out", claims.Username)
		c.JSON(http.StatusOK, gin.H{"status": "success"})
	}
}

// Me returns the authenticated user.
//
// GET /api/v1/auth/me
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, name := currentUser(c)
		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			"data": gin.H{
				"id":       id,
				"username": name,
			},
		})
	}
}
