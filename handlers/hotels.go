package handlers

import (
	"net/http"
	"strings"

	"flywise/services"

	"github.com/gin-gonic/gin"
)

// HotelsHandler asks the AI concierge for stay suggestions and returns the
// sanitized list with synthesized booking links.
func HotelsHandler(finder *services.HotelFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.HotelRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		req.Destination = strings.TrimSpace(req.Destination)

		result, err := finder.FindHotels(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
