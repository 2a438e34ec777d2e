package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"prediction-service/internal/database"
	"prediction-service/internal/handlers"
	"prediction-service/internal/predictor"
	"prediction-service/internal/scorer"
	"prediction-service/internal/schema"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	featuresPath := getEnv("FEATURES_PATH", "features.json")
	modelPath := getEnv("MODEL_PATH", "home_price_model.gob")

	// The schema and model are loaded exactly once; both are read-only for the
	// lifetime of the process. A missing or corrupt artifact aborts startup —
	// the service must not accept traffic without them.
	registry, err := schema.Load(featuresPath)
	if err != nil {
		log.Fatalf("Cannot start without a feature schema: %v", err)
	}
	log.Printf("Loaded feature schema with %d feature(s) from %s", registry.Len(), featuresPath)

	model, err := scorer.LoadTree(modelPath)
	if err != nil {
		log.Fatalf("Cannot start without a scoring model: %v", err)
	}
	log.Printf("Loaded scoring model from %s", modelPath)

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to initialize audit database: %v", err)
	}

	svc := predictor.NewService(registry, model)

	router := gin.Default()
	router.GET("/", handlers.Health)
	router.POST("/predict", handlers.PredictHandler(svc))

	port := getEnv("PORT", "50505")
	log.Printf("Starting prediction service on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start prediction service: %v", err)
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
