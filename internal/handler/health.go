package handler

import (
	"context"
	"net/http"
	"time"

	"lamda/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Health returns a JSON health check response. Reports the optional
// Redis cache and the breaker guarding the LAMDA backend; an open
// breaker degrades the status without taking the service down.
func Health(rdb *redis.Client, cb *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			}
		}

		breakerStatus := "closed"
		switch cb.State() {
		case infra.CBOpen:
			breakerStatus = "open"
		case infra.CBHalfOpen:
			breakerStatus = "half_open"
		}

		status := http.StatusOK
		if breakerStatus == "open" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":      status == http.StatusOK,
			"redis":   redisStatus,
			"backend": breakerStatus,
		})
	}
}
