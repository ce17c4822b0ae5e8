package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/concave-dev/thinkmap/internal/api/handlers"
)

// Configures all API routes
func (s *Server) setupRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	v1.GET("/health", handlers.HandleHealth(s.version(), s.startTime, s.config.Generator.Name()))

	st, issuer := s.config.Store, s.config.Issuer

	// Authentication endpoints are public; the client sends them without a
	// bearer token.
	auth := v1.Group("/auth")
	{
		auth.POST("/register", handlers.Register(st, issuer))
		auth.POST("/login", handlers.Login(st, issuer))
		auth.POST("/refresh", handlers.Refresh(st, issuer))
		auth.POST("/logout", handlers.Logout(st, issuer))
		auth.GET("/me", s.authMiddleware(), handlers.Me())
	}

	maps := v1.Group("/maps", s.authMiddleware())
	{
		maps.GET("", handlers.ListMaps(st))
		maps.POST("", handlers.CreateMap(st))
		maps.GET("/:id", handlers.GetMap(st))
		maps.PUT("/:id", handlers.UpdateMap(st))
		maps.DELETE("/:id", handlers.DeleteMap(st))
		maps.POST("/:id/feedback", handlers.RequestFeedback(st, s.config.Generator, s.config.FeedbackTimeout))
		maps.GET("/:id/feedback", handlers.ListFeedback(st))
	}
}
