package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/concave-dev/thinkmap/internal/api/handlers"
	"github.com/concave-dev/thinkmap/internal/logging"
	"github.com/concave-dev/thinkmap/internal/metrics"
	"github.com/concave-dev/thinkmap/internal/tokens"
)

// loggingMiddleware provides request logging
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		logging.Info("%s - \"%s %s %s %d %s \"%s\" %s\"",
			param.ClientIP,
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
		return ""
	})
}

// metricsMiddleware records request counts and latency per route template.
func (s *Server) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// corsMiddleware provides CORS headers
func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")
		c.Header("Access-Control-Max-Age", "300")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// authMiddleware requires a valid access token and stores its subject in
// the request context. Expired tokens get a 401 so the client refreshes.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := s.config.Issuer.Verify(c.GetHeader("Authorization"), tokens.KindAccess)
		if err != nil {
			logging.Debug("Auth: Rejected %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			handlers.RespondError(c, http.StatusUnauthorized, "Unauthorized", err.Error())
			return
		}

		c.Set(handlers.ContextUserID, claims.Subject)
		c.Set(handlers.ContextUsername, claims.Username)
		c.Next()
	}
}
