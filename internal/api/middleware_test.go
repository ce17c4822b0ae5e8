package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/concave-dev/thinkmap/internal/api/handlers"
)

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server, err := NewServer(validConfig(t))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	router := gin.New()
	router.Use(server.corsMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "ok"})
	})

	tests := []struct {
		name           string
		method         string
		expectedStatus int
	}{
		{"GET request with CORS headers", "GET", 200},
		{"OPTIONS request should return 204", "OPTIONS", 204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/test", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			expectedHeaders := map[string]string{
				"Access-Control-Allow-Origin":  "*",
				"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
				"Access-Control-Allow-Headers": "Accept, Authorization, Content-Type",
				"Access-Control-Max-Age":       "300",
			}
			for header, expectedValue := range expectedHeaders {
				if actual := w.Header().Get(header); actual != expectedValue {
					t.Errorf("Header %s = %q, want %q", header, actual, expectedValue)
				}
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := validConfig(t)
	server, err := NewServer(cfg)
	if err != nil {
		t.Fatal(err)
	}

	router := gin.New()
	router.GET("/private", server.authMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(handlers.ContextUsername))
	})

	pair, err := cfg.Issuer.IssuePair("user-1", "ada")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"refresh token", "Bearer " + pair.Refresh, http.StatusUnauthorized},
		{"access token", "Bearer " + pair.Access, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.want == http.StatusOK && w.Body.String() != "ada" {
				t.Errorf("username in context = %q", w.Body.String())
			}
		})
	}
}
