package main

import (
	"context"

	"firebase.google.com/go/v4/messaging"
	"github.com/labstack/echo/v4"
	"github.com/mallardapp/mallard/backend/internal/router"
	"github.com/mallardapp/mallard/backend/pkg/config"
	"github.com/mallardapp/mallard/backend/pkg/firebase"
	"github.com/mallardapp/mallard/backend/pkg/logger"
	"github.com/mallardapp/mallard/backend/validators"
)

func main() {
	logger.InitLogger()

	// Load configuration
	cfg := config.Load()

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "supersecretjwtkey"
		logger.Log.Warn("JWT_SECRET not set, using development default")
	}

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase messaging. Push is optional: without credentials the
	// inbox still works, recipients just get no FCM notifications.
	var pushClient *messaging.Client
	if cfg.FirebaseCredentialsPath != "" {
		ctx := context.Background()
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.Log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		pushClient = firebaseApp.Messaging
	} else {
		logger.Log.Info("FIREBASE_CREDENTIALS_PATH not set, push notifications disabled")
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, pushClient, jwtSecret)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
