package api

import (
	"context"  // Ping deadlines
	"net/http" // HTTP status codes
	"time"     // Uptime

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/gorm"                 // GORM ORM library
)

var appStart = time.Now()

type healthCheck struct {
	OK bool `json:"ok"`
}

// check records a dependency's ping result, logging the failure instead of exposing it
func check(name string, err error) healthCheck {
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"dependency": name,        // Failing dependency
			"error":      err.Error(), // Error message
		}).Error("Health check failed")
		return healthCheck{}
	}
	return healthCheck{OK: true}
}

// HealthHandler pings the database and, when configured, Redis
func HealthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 800*time.Millisecond)
		defer cancel()

		checks := gin.H{}
		allOK := true
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		dbCheck := check("database", err)
		checks["database"] = dbCheck
		allOK = allOK && dbCheck.OK
		if rdb != nil {
			redisCheck := check("redis", rdb.Ping(ctx).Err())
			checks["redis"] = redisCheck
			allOK = allOK && redisCheck.OK
		}

		status := http.StatusOK
		if !allOK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status":     gin.H{"ok": allOK},
			"uptime_sec": int(time.Since(appStart).Seconds()),
			"checks":     checks,
			"time":       time.Now().Format(time.RFC3339),
		})
	}
}
