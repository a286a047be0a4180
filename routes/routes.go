package routes

import (
	"net/http"
	"time"

	"chairhop/handlers"
	"chairhop/middleware"
	"chairhop/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAppointmentRoutes sets up the appointment lifecycle endpoints.
func RegisterAppointmentRoutes(r *gin.Engine) {
	api := r.Group("/api/appointments")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", handlers.ListOpenSlots)
		api.GET("/mine", handlers.ListMine)
		api.GET("/:id", handlers.GetSlot)
		api.GET("/:id/quote", handlers.QuoteSlot)
		api.GET("/:id/add-ons", handlers.AddOnMenu)
		api.GET("/:id/review", handlers.GetAppointmentReview)
		api.POST("/:id/review", middleware.RequireRole(models.RoleCustomer), handlers.CreateReview)

		api.POST("", middleware.RequireRole(models.RoleStylist), handlers.CreateSlot)
		api.DELETE("/:id", middleware.RequireRole(models.RoleStylist), handlers.DeleteSlot)
		api.POST("/:id/accept", middleware.RequireRole(models.RoleStylist), handlers.AcceptSlot)

		api.POST("/:id/book", middleware.RequireRole(models.RoleCustomer), handlers.BookSlot)
		api.POST("/:id/cancel", handlers.CancelSlot)
		api.POST("/:id/complete", handlers.CompleteSlot)
	}
}

// RegisterServiceRoutes sets up the stylist service catalog endpoints.
func RegisterServiceRoutes(r *gin.Engine) {
	api := r.Group("/api/services")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/stylist/:stylistID", handlers.ListStylistServices)

		api.POST("", middleware.RequireRole(models.RoleStylist), handlers.CreateService)
		api.GET("/mine", middleware.RequireRole(models.RoleStylist), handlers.ListMyServices)
		api.POST("/:id/deactivate", middleware.RequireRole(models.RoleStylist), handlers.DeactivateService)
		api.DELETE("/:id", middleware.RequireRole(models.RoleStylist), handlers.DeleteService)
	}
}

// RegisterChatRoutes sets up the booking assistant endpoints.
func RegisterChatRoutes(r *gin.Engine) {
	api := r.Group("/api/chat")
	{
		api.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleCustomer))
		api.POST("/message", handlers.AssistantMessage)
		api.GET("/conversations", handlers.ListConversations)
		api.GET("/conversations/:id", handlers.ListConversationTurns)
		api.POST("/conversations/:id/photo", handlers.UploadChatPhoto)
	}
}

// RegisterReviewRoutes sets up the public review listing.
func RegisterReviewRoutes(r *gin.Engine) {
	r.GET("/api/reviews", handlers.ListStylistReviews)
}

// RegisterPaymentRoutes sets up payment endpoints.
func RegisterPaymentRoutes(r *gin.Engine) {
	api := r.Group("/api/payments")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/:id/intent", middleware.RequireRole(models.RoleCustomer), handlers.CreatePaymentIntent)
		api.POST("/:id/confirm", handlers.ConfirmPayment)
	}
}

// RegisterDeviceRoutes sets up push token registration.
func RegisterDeviceRoutes(r *gin.Engine) {
	api := r.Group("/api/devices")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/fcm-token", handlers.RegisterFCMToken)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm ChairHop"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAppointmentRoutes(r)
	RegisterServiceRoutes(r)
	RegisterReviewRoutes(r)
	RegisterChatRoutes(r)
	RegisterPaymentRoutes(r)
	RegisterDeviceRoutes(r)
}
