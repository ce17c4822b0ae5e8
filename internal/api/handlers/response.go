// Package handlers provides HTTP request handlers for the thinkmapd API
// server.
//
// Handlers are built as gin.HandlerFunc factories over small store
// interfaces so they can be exercised with httptest and fakes. Successful
// responses use the {"status":"success","data":...} envelope, with "count"
// on lists; failures use {"status":"error","error":...,"details":...}.
package handlers

import (
	"github.com/gin-gonic/gin"
)

// Context keys set by the authentication middleware.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// respondError writes the error envelope.
func respondError(c *gin.Context, code int, message string, details string) {
	body := gin.H{
		"status": "error",
		"error":  message,
	}
	if details != "" {
		body["details"] = details
	}
	c.AbortWithStatusJSON(code, body)
}

// RespondError is respondError for middleware outside this package.
func RespondError(c *gin.Context, code int, message string, details string) {
	respondError(c, code, message, details)
}

// currentUser returns the authenticated user id and name.
func currentUser(c *gin.Context) (string, string) {
	return c.GetString(ContextUserID), c.GetString(ContextUsername)
}
