package handlers

import (
	"log"
	"net/http"

	"flywise/services"

	"github.com/gin-gonic/gin"
)

type ReportRequest struct {
	Origin      string                        `json:"origin" binding:"required"`
	Destination string                        `json:"destination" binding:"required"`
	Month       string                        `json:"month" binding:"required"`
	StayLen     int                           `json:"stay_len" binding:"required,gt=0"`
	Result      services.RecommendationResult `json:"result" binding:"required"`
}

// ReportHandler renders a recommendation as a downloadable PDF. Nothing is
// persisted; the bytes are generated and streamed in-request.
func ReportHandler(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	pdfBytes, err := services.GenerateReportBytes(services.ReportData{
		Origin:      req.Origin,
		Destination: req.Destination,
		Month:       req.Month,
		StayLen:     req.StayLen,
		Result:      req.Result,
	})
	if err != nil {
		log.Printf("❌ PDF generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=flywise-report.pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
