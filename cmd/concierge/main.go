package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/articlegroup/concierge/internal/api"
	"github.com/articlegroup/concierge/internal/middleware"
	"github.com/articlegroup/concierge/internal/search"
	"github.com/articlegroup/concierge/internal/setup"
	"github.com/articlegroup/concierge/internal/setup/logger"
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Portfolio Concierge API",
			Description: "Retrieval-augmented concierge for portfolio content",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "chat", Description: "Concierge chat"}},
		{TagProps: spec.TagProps{Name: "admin", Description: "Operational endpoints"}},
	}
}

func main() {
	// godotenv runs before config so LOG_LEVEL from .env applies.
	envMissing := godotenv.Load() != nil

	cfg := setup.LoadConfig()
	logger.Setup(cfg.LogLevel)

	log.Info().Msg("Starting Portfolio Concierge API Server")
	if envMissing {
		log.Warn().Msg("No .env file found")
	}

	ctx := context.Background()
	deps, err := setup.Wire(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer deps.DB.Close()
	defer deps.Store.Close()
	defer deps.Limiter.Close()

	log.Info().
		Str("region", cfg.AWSRegion).
		Str("model", cfg.ClaudeModelID).
		Str("embedding_model", cfg.EmbeddingModelID).
		Msg("Pipeline wired")

	container := restful.NewContainer()

	// Add filters
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)

	// register API
	api.RegisterRoutes(container, deps.Handler)
	search.RegisterRoutes(container, deps.SearchHandler)

	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/api/v1/openapi.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}

	container.Add(restfulspec.NewOpenAPIService(config))

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().Str("address", addr).Msg("Starting server")

	server := http.Server{
		Addr:         addr,
		Handler:      corsHandler.Handler(container),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
