package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/articlegroup/concierge/internal/analytics"
	"github.com/articlegroup/concierge/internal/cache"
	"github.com/articlegroup/concierge/internal/database"
	"github.com/articlegroup/concierge/internal/embedding"
	"github.com/articlegroup/concierge/internal/middleware"
	"github.com/articlegroup/concierge/internal/search"
	"github.com/articlegroup/concierge/internal/setup/logger"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// Standalone hybrid search API, useful for tuning relevance without the
// full concierge pipeline in front of it.
func main() {
	// Load env
	envMissing := godotenv.Load() != nil

	logger.Setup(os.Getenv("LOG_LEVEL"))
	if envMissing {
		log.Warn().Msg("No .env file found")
	}

	ctx := context.Background()

	// Connect to database
	config := database.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Database: os.Getenv("DB_NAME"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}

	db, err := database.New(ctx, config)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	log.Info().Msg("Database connected")

	store := cache.NewMemoryStore(0)
	defer store.Close()

	monitor := analytics.NewTracker()

	// Wire components
	region := os.Getenv("AWS_REGION")
	embeddingModel := os.Getenv("EMBEDDING_MODEL_ID")
	if embeddingModel == "" {
		embeddingModel = "amazon.titan-embed-text-v2:0"
	}

	embedder, err := embedding.NewBedrockEmbedder(ctx, region, embeddingModel, store, monitor)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create embedder")
	}

	searchService := search.NewService(db, embedder, store, monitor)
	handler := search.NewHandler(searchService)

	// Setup routes
	container := restful.NewContainer()
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)
	search.RegisterRoutes(container, handler)

	// CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	// Start server
	port := os.Getenv("SEARCH_API_PORT")
	if port == "" {
		port = "8082"
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("address", addr).Msg("Starting Search API")

	server := http.Server{
		Addr:    addr,
		Handler: corsHandler.Handler(container),
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
