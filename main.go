// File: chairhop/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chairhop/config"
	"chairhop/cron"
	"chairhop/database"
	appointmentRepoPkg "chairhop/database/repository/appointment"
	conversationRepoPkg "chairhop/database/repository/conversation"
	reviewRepoPkg "chairhop/database/repository/review"
	serviceRepoPkg "chairhop/database/repository/service"
	userRepoPkg "chairhop/database/repository/user"
	"chairhop/handlers"
	"chairhop/middleware"
	"chairhop/routes"
	"chairhop/services/assistant"
	"chairhop/services/booking"
	"chairhop/services/matching"
	"chairhop/services/notification"
	"chairhop/services/storage"
	"chairhop/services/tasks"
	"chairhop/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitChatContextCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	stripe.Key = config.AppConfig.StripeKey

	// repositories.
	aptRepo := appointmentRepoPkg.NewMongoAppointmentRepo()
	svcRepo := serviceRepoPkg.NewMongoServiceRepo()
	convRepo := conversationRepoPkg.NewMongoConversationRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	revRepo := reviewRepoPkg.NewMongoReviewRepo()

	// services.
	notificationService := notification.NewDefaultNotificationService(userRepo)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisEmbedWorkDB,
	})
	embedQueue := &tasks.AsynqEmbeddingQueue{Client: asynqClient}

	bookingService := &booking.DefaultBookingService{
		Repo:       aptRepo,
		Services:   svcRepo,
		Users:      userRepo,
		Reviews:    revRepo,
		Notifier:   notificationService,
		EmbedQueue: embedQueue,
		AddOns:     config.LoadAddOnCatalog(),
	}

	embedder := matching.NewGeminiEmbedder(config.AppConfig.GeminiAPIKey)
	matcher := matching.NewDefaultMatcher(aptRepo, embedder)
	cron.InitEmbeddingWorker(aptRepo, embedder)

	ctxStore := assistant.NewRedisContextStore(utils.GetChatContextClient(), 30*time.Minute)
	assistantService := &assistant.DefaultAssistantService{
		Conversations: convRepo,
		CtxStore:      ctxStore,
		Matcher:       matcher,
		Booking:       bookingService,
		Replies:       assistant.NewGeminiClient(config.AppConfig.GeminiAPIKey),
	}

	if cld, err := utils.Cloudinary(); err != nil {
		logger.Sugar().Warnf("main: photo uploads disabled: %v", err)
	} else {
		handlers.StorageSvc = storage.NewStorageService(cld)
	}

	// handlers.
	handlers.BookingSvc = bookingService
	handlers.PaymentSvc = bookingService
	handlers.ReviewSvc = bookingService
	handlers.AssistantSvc = assistantService
	handlers.ServiceRepo = svcRepo
	handlers.AppointmentRepo = aptRepo
	handlers.UserRepo = userRepo

	routes.RegisterRoutes(router)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := asynqClient.Close(); err != nil {
		logger.Sugar().Warnf("main: failed to close task client: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
