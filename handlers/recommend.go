package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"flywise/services"

	"github.com/gin-gonic/gin"
)

// RecommendHandler runs the full recommendation pipeline: resolve a price
// source, compute baseline features, rank stay windows and produce a
// book-or-wait verdict.
func RecommendHandler(rec *services.Recommender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.RecommendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		req.Origin = strings.ToUpper(strings.TrimSpace(req.Origin))
		req.Destination = strings.ToUpper(strings.TrimSpace(req.Destination))

		result, err := rec.Recommend(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var shapeErr *services.ShapeError
	var upstreamErr *services.UpstreamError

	switch {
	case errors.As(err, &shapeErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": shapeErr.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No price data for this route/month"})
	case errors.Is(err, services.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &upstreamErr):
		log.Printf("⚠️  Upstream AI failure: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "AI service returned an unusable response",
			"raw":   upstreamErr.Raw,
		})
	default:
		log.Printf("❌ Unhandled error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
