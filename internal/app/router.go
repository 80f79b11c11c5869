// internal/app/router.go
package app

import (
	eventHandler "eventora-service/internal/handlers/event"
	subscriptionHandler "eventora-service/internal/handlers/subscription"
	userHandler "eventora-service/internal/handlers/user"
	"eventora-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	UserHandler         *userHandler.UserHandler
	EventHandler        *eventHandler.EventHandler
	SubscriptionHandler *subscriptionHandler.SubscriptionHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== Auth ====================
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.UserHandler.Login)
	}

	// ==================== Users ====================
	usersPublic := api.Group("/users")
	{
		usersPublic.POST("", h.UserHandler.CreateUser)
	}

	users := api.Group("/users")
	users.Use(h.AuthMiddleware.Auth())
	{
		users.GET("", h.AuthMiddleware.RequireRole("admin"), h.UserHandler.GetAllUsers)
		users.GET("/:id", h.UserHandler.GetUserByID)
		users.GET("/current/:email", h.UserHandler.GetCurrentUser)
		users.PATCH("/:id", h.UserHandler.UpdateUser)
		users.PATCH("/:id/subscription", h.UserHandler.UpdateUserSubscription)
		users.DELETE("/:id", h.UserHandler.DeleteUser)
	}

	// ==================== Events ====================
	eventsPublic := api.Group("/events")
	{
		eventsPublic.GET("", h.EventHandler.GetAllEvents)
		eventsPublic.GET("/nearby", h.EventHandler.SearchNearbyEvents)
		eventsPublic.GET("/:id", h.EventHandler.GetEventByID)
		eventsPublic.GET("/user/:userId", h.EventHandler.GetEventsByUserID)
	}

	events := api.Group("/events")
	events.Use(h.AuthMiddleware.Auth())
	{
		events.POST("", h.EventHandler.CreateEvent)
		events.POST("/promotions", h.EventHandler.CreatePromotion)
		events.PATCH("/:id", h.EventHandler.UpdateEvent)
		events.PATCH("/:id/admin", h.AuthMiddleware.RequireRole("admin"), h.EventHandler.UpdateEventByAdmin)
		events.DELETE("/:id", h.EventHandler.DeleteEvent)
	}

	// ==================== Subscriptions ====================
	subscriptions := api.Group("/subscriptions")
	subscriptions.Use(h.AuthMiddleware.Auth())
	{
		subscriptions.GET("", h.SubscriptionHandler.GetSubscriptions)
		subscriptions.POST("", h.SubscriptionHandler.CreateSubscription)
		subscriptions.POST("/:companyId/cancel", h.SubscriptionHandler.CancelSubscription)
		subscriptions.POST("/:companyId/reactivate", h.SubscriptionHandler.ReactivateSubscription)
		subscriptions.POST("/:companyId/upgrade", h.SubscriptionHandler.UpgradeSubscription)
	}

	logger.Info("router initialised",
		zap.Int("routes", len(r.Routes())),
	)
}
