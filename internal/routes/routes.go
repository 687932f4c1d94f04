package routes

import (
	"net/http"

	"petnest_backend/internal/handlers"
	"petnest_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes wires every HTTP and websocket route onto the engine.
func RegisterRoutes(router *gin.Engine, appHandlers *handlers.AppHandlers, wsHandler *ws.Handler) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		appHandlers.Auth.RegisterRoutes(api)
		appHandlers.Users.RegisterRoutes(api)
		appHandlers.Pets.RegisterRoutes(api)
		appHandlers.Payments.RegisterRoutes(api)
		appHandlers.Messages.RegisterRoutes(api)
		appHandlers.Admin.RegisterRoutes(api)
	}

	router.GET("/ws/chat", wsHandler.ServeWS)
}
