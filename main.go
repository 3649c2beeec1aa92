package main

import (
	"log"
	"os"
	"strings"
	"time"

	"flywise/handlers"
	"flywise/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file (ignored in production where env vars are set directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using environment variables")
	}

	// Mock price dataset, loaded once and read-only for the process lifetime
	store, err := services.NewPriceStore(os.Getenv("MOCK_PRICES_FILE"))
	if err != nil {
		log.Fatalf("❌ Failed to load mock prices: %v", err)
	}
	log.Printf("✅ Mock price dataset loaded (%d routes)", store.Routes())

	// AI collaborator; nil when unconfigured, which selects heuristic fallbacks
	var ai services.Generator
	if gemini := services.NewGeminiClient(); gemini != nil {
		ai = gemini
	}

	recommender := services.NewRecommender(ai, store)
	hotelFinder := services.NewHotelFinder(ai)

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.SetTrustedProxies([]string{"0.0.0.0/0"})

	// CORS — allow configured frontend origins
	frontendURLs := os.Getenv("FRONTEND_URL")
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	if frontendURLs != "" {
		for _, u := range strings.Split(frontendURLs, ",") {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(requestID())

	// Routes
	r.GET("/", handlers.RootHandler)
	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthHandler(store, ai != nil))
		api.POST("/recommend", handlers.RecommendHandler(recommender))
		api.GET("/hotels", handlers.HotelsHandler(hotelFinder))
		api.GET("/phrase-guide/:lang", handlers.PhraseGuideHandler)
		api.POST("/report", handlers.ReportHandler)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 FlyWise backend starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// requestID stamps every response so degraded AI paths can be correlated
// with server logs.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
