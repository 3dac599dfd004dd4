package main

import (
	"context" // context package is needed for Redis operations
	"time"    // Ping timeout

	"krishisaarthi/internal/advisor" // Crop question responder
	"krishisaarthi/internal/api"     // HTTP handlers and routes
	"krishisaarthi/internal/config"  // Configuration
	"krishisaarthi/internal/db"      // Database connection
	"krishisaarthi/internal/session" // Session cookie carrier
	"krishisaarthi/internal/storage" // S3 upload presigning

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig() // Load and validate configuration
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}

	// Connect to the database
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	_, err = redisClient.Ping(ctx).Result()
	cancel()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Setup S3 presigner for direct uploads
	presigner, err := storage.NewS3Presigner(cfg)
	if err != nil {
		logrus.Fatalf("failed to configure S3: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(api.Deps{
		DB:        gdb,
		Redis:     redisClient,
		Carrier:   session.NewCarrier(cfg.JWTSecret, cfg.IsProd),
		Presigner: presigner,
		Advisor:   advisor.NewPlaceholder(),
	})

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"port":      cfg.AppPort,  // Listen port
		"db_driver": cfg.DBDriver, // Database driver
		"prod":      cfg.IsProd,   // Production mode
	}).Info("Server running")
	if err := r.Run(":" + cfg.AppPort); err != nil {
		logrus.Fatalf("server stopped: %v", err)
	}
}
