package main

import (
	"github.com/beckernir/AUCA-HR/internal/handler"
	"github.com/beckernir/AUCA-HR/internal/middleware"
	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/internal/realtime"
	"github.com/beckernir/AUCA-HR/internal/repository"
	"github.com/beckernir/AUCA-HR/internal/service"
	"github.com/beckernir/AUCA-HR/pkg/config"
	"github.com/beckernir/AUCA-HR/pkg/database"
	"github.com/beckernir/AUCA-HR/pkg/jwtutil"
	"github.com/beckernir/AUCA-HR/pkg/logger"
	"github.com/beckernir/AUCA-HR/prometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting HR backend...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(
		&model.User{},
		&model.Education{},
		&model.WorkExperience{},
		&model.LeaveRequest{},
		&model.Notification{},
		&model.ChatMessage{},
		&model.Session{},
	); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations applied")

	// Initialize JWT utility
	jwtConfig := &jwtutil.JWTConfig{
		SigningKey:        cfg.JWT.SigningKey,
		AccessExpiration:  cfg.JWT.AccessExpiration,
		RefreshExpiration: cfg.JWT.RefreshExpiration,
	}
	jwtUtil := jwtutil.NewJWTUtil(jwtConfig)

	// Initialize Prometheus metrics
	prometheus.InitMetrics()
	log.Info("Prometheus metrics initialized")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	chatRepo := repository.NewChatRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// Realtime hub
	hub := realtime.NewHub(log)

	// Services
	notificationService := service.NewNotificationService(notificationRepo, userRepo, hub)
	leaveService := service.NewLeaveService(leaveRepo, userRepo, notificationService, cfg.Leave.AnnualQuotaDays)
	chatService := service.NewChatService(chatRepo, userRepo, hub)
	authService := service.NewAuthService(userRepo, sessionRepo, jwtUtil, jwtConfig)
	userService := service.NewUserService(userRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	leaveHandler := handler.NewLeaveHandler(leaveService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	chatHandler := handler.NewChatHandler(chatService)
	wsHandler := handler.NewWebsocketHandler(hub, jwtUtil, sessionRepo)
	healthHandler := handler.NewHealthHandler(cfg.ServiceName)

	// Initialize Echo framework
	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	authGuard := middleware.JWTAuthMiddleware(jwtUtil, sessionRepo)
	hrOnly := middleware.RequireRole(model.RoleHR)

	// Public routes
	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	e.GET("/ws", wsHandler.Connect)

	// Authentication routes - these don't belong under /api since they're for getting access to the API
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout, authGuard)

	// API routes - all require authentication
	api := e.Group("/api/v1")
	api.Use(authGuard)

	// Employee directory
	users := api.Group("/users")
	users.POST("", userHandler.Create, hrOnly)
	users.GET("", userHandler.List, hrOnly)
	users.POST("/change-password", userHandler.ChangePassword)
	users.GET("/:id", userHandler.Get)
	users.PATCH("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Deactivate, hrOnly)

	// Leave workflow
	leaves := api.Group("/leaves")
	leaves.POST("", leaveHandler.Submit)
	leaves.GET("", leaveHandler.All, hrOnly)
	leaves.GET("/my-requests", leaveHandler.MyRequests)
	leaves.GET("/pending", leaveHandler.Pending, hrOnly)
	leaves.GET("/pending/count", leaveHandler.PendingCount, hrOnly)
	leaves.GET("/search", leaveHandler.Search, hrOnly)
	leaves.GET("/balance", leaveHandler.Balance)
	leaves.GET("/:id", leaveHandler.Get)
	leaves.PUT("/:id/approve", leaveHandler.Approve, hrOnly)
	leaves.PUT("/:id/reject", leaveHandler.Reject, hrOnly)
	leaves.PUT("/:id/cancel", leaveHandler.Cancel)

	// Notifications
	notifications := api.Group("/notifications")
	notifications.GET("", notificationHandler.List)
	notifications.GET("/unread", notificationHandler.Unread)
	notifications.GET("/unread/count", notificationHandler.UnreadCount)
	notifications.PUT("/mark-all-read", notificationHandler.MarkAllRead)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)
	notifications.DELETE("/read", notificationHandler.DeleteRead)

	// Chat
	chat := api.Group("/chat")
	chat.POST("/messages", chatHandler.Send)
	chat.GET("/conversation/private/:id", chatHandler.PrivateConversation)
	chat.GET("/conversation/group/:room", chatHandler.GroupConversation)
	chat.GET("/partners", chatHandler.Partners)
	chat.GET("/unread/count", chatHandler.UnreadCount)
	chat.GET("/unread/sender/:senderId", chatHandler.UnreadCountFromSender)
	chat.PUT("/messages/read/:senderId", chatHandler.MarkConversationRead)
	chat.DELETE("/messages/:id", chatHandler.Delete)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
