package app

import (
	"net/http"

	"crm-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newRouter(h handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.auth.Register)
		auth.POST("/login", h.auth.Login)
		auth.GET("/me", h.authMW.Auth(), h.auth.Me)
	}

	api := v1.Group("/", h.authMW.Auth())
	{
		users := api.Group("/users", h.authMW.RequireUserAdmin())
		{
			users.GET("", h.user.ListUsers)
			users.POST("", h.user.CreateUser)
			users.PUT("/:id/role", h.user.UpdateRole)
			users.PUT("/:id/active", h.user.SetActive)
		}

		clients := api.Group("/clients")
		{
			clients.POST("", h.client.CreateClient)
			clients.GET("", h.client.ListClients)
			clients.POST("/assign-group", h.client.AssignGroup)
			clients.GET("/:id", h.client.GetClient)
			clients.PUT("/:id", h.client.UpdateClient)
			clients.DELETE("/:id", h.authMW.RequireDelete(), h.client.DeleteClient)
		}

		groups := api.Group("/groups")
		{
			groups.POST("", h.group.CreateGroup)
			groups.GET("", h.group.ListGroups)
			groups.GET("/:id", h.group.GetGroup)
			groups.PUT("/:id", h.group.UpdateGroup)
			groups.DELETE("/:id", h.group.DeleteGroup)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", h.order.CreateOrder)
			orders.GET("", h.order.ListOrders)
			orders.GET("/:id", h.order.GetOrder)
			orders.PUT("/:id", h.order.UpdateOrder)
			orders.POST("/:id/bin", h.order.MoveToBin)
			orders.POST("/:id/restore", h.order.Restore)
			orders.DELETE("/:id", h.authMW.RequireDelete(), h.order.Purge)
			orders.POST("/:id/events", h.order.AddEvent)
			orders.DELETE("/:id/events/:event_id", h.order.DeleteEvent)
			orders.PUT("/:id/client", h.order.LinkClient)
		}

		callLogs := api.Group("/call-logs")
		{
			callLogs.POST("", h.callLog.CreateCallLog)
			callLogs.GET("", h.callLog.ListCallLogs)
			callLogs.GET("/:id", h.callLog.GetCallLog)
			callLogs.DELETE("/:id", h.callLog.DeleteCallLog)
		}

		events := api.Group("/events")
		{
			events.POST("", h.event.CreateGlobalEvent)
			events.GET("", h.event.ListGlobalEvents)
		}

		api.GET("/ws", h.ws.Stream)
	}

	return r
}
