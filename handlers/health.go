package handlers

import (
	"net/http"

	"flywise/services"

	"github.com/gin-gonic/gin"
)

// RootHandler mirrors the original service banner.
func RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"service": "flywise",
		"routes": []string{
			"/api/recommend (POST)",
			"/api/hotels (GET)",
			"/api/phrase-guide/:lang (GET)",
			"/api/report (POST)",
		},
	})
}

func HealthHandler(store *services.PriceStore, aiConfigured bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"service":     "FlyWise API",
			"mock_routes": store.Routes(),
			"ai":          aiConfigured,
		})
	}
}
