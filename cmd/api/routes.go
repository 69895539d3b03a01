package main

import (
	"context"
	"net/http"

	"session-auth/internal/auth"
	"session-auth/internal/httpapi"
	"session-auth/pkg/logger"

	"github.com/gin-gonic/gin"
)

// healthCheck reports whether one dependency is reachable.
type healthCheck func(ctx context.Context) error

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, serviceKey string, checks map[string]healthCheck) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		status := http.StatusOK
		deps := gin.H{}
		for name, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				logger.FromGin(c).Error("health check failed", "dependency", name, "err", err)
				deps[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "up"
		}
		if status != http.StatusOK {
			c.JSON(status, gin.H{"status": "degraded", "dependencies": deps})
			return
		}
		c.JSON(status, gin.H{"status": "ok", "dependencies": deps})
	})

	v1 := r.Group("/v1")
	{
		// Token endpoints authenticate through the body token, not a header.
		// Issuance is for the trusted caller that verified the user's credentials.
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/token", auth.RequireServiceKey(serviceKey), h.IssueTokens)
			authGroup.POST("/refresh", h.Refresh)
			authGroup.POST("/logout", h.Logout)
			authGroup.POST("/logout-all", h.LogoutAll)
		}

		v1.GET("/me", auth.RequireAccessToken(h.Auth, true), h.Me)

		// Socket handshake: token in the query string, phase 1 only.
		v1.GET("/socket/identity", auth.RequireQueryToken(h.Auth), h.SocketIdentity)
	}
}
