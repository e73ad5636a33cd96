package router

import (
	"firebase.google.com/go/v4/messaging"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/mallardapp/mallard/backend/internal/handlers"
	"github.com/mallardapp/mallard/backend/internal/middleware"
	"github.com/mallardapp/mallard/backend/internal/models"
	"github.com/mallardapp/mallard/backend/internal/repositories"
	"github.com/mallardapp/mallard/backend/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	logger.Log.Info("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// pushClient may be nil when FCM is not configured.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, pushClient *messaging.Client, jwtSecret string) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Notification{},
		&models.PolicyNotif{},
		&models.ClaimNotif{},
		&models.NewsNotif{},
	)
	if err != nil {
		logger.Log.Fatalf("Failed to auto migrate models: %v", err)
	}
	logger.Log.Info("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	eventRepo := repositories.NewMongoEventRepository(mgClient.Database("mallard"))

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, jwtSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	logger.Log.Info("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(jwtSecret))
	logger.Log.Info("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api)
	logger.Log.Info("User routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, eventRepo, pushClient)
	notificationHandler.RegisterNotificationRoutes(api)
	logger.Log.Info("Notification routes configured.")

	logger.Log.Info("All routes configured.")
}
