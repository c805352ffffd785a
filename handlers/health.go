package handlers

import (
	"net/http"

	"imobil/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthHandler reports store connectivity; it answers 503 when a store is down.
func HealthHandler(redisClient *redis.Client, mongoClient *mongo.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := utils.CheckHealth(c.Request.Context(), redisClient, mongoClient)
		code := http.StatusOK
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "message": "imobil api"})
	}
}
