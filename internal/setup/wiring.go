package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/articlegroup/concierge/internal/analytics"
	"github.com/articlegroup/concierge/internal/api"
	"github.com/articlegroup/concierge/internal/assets"
	"github.com/articlegroup/concierge/internal/bedrock"
	"github.com/articlegroup/concierge/internal/cache"
	"github.com/articlegroup/concierge/internal/database"
	"github.com/articlegroup/concierge/internal/embedding"
	"github.com/articlegroup/concierge/internal/intent"
	"github.com/articlegroup/concierge/internal/layout"
	"github.com/articlegroup/concierge/internal/middleware"
	"github.com/articlegroup/concierge/internal/orchestrator"
	"github.com/articlegroup/concierge/internal/ratelimit"
	"github.com/articlegroup/concierge/internal/retriever"
	"github.com/articlegroup/concierge/internal/search"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port     string
	LogLevel string

	AWSRegion        string
	ClaudeModelID    string
	EmbeddingModelID string

	Database database.Config

	RedisAddr     string
	RedisPassword string
	CacheCapacity int

	IntentTablesPath string

	ChatMaxRequests int
	ChatWindow      time.Duration

	OrchestratorTimeout time.Duration

	Retrieval retriever.Config
}

func LoadConfig() *Config {
	retrieval := retriever.DefaultConfig()
	retrieval.MinRelevanceScore = getEnvFloat("MIN_RELEVANCE_SCORE", retrieval.MinRelevanceScore)
	retrieval.FilteredBoost = getEnvFloat("FILTERED_SCORE_BOOST", retrieval.FilteredBoost)
	retrieval.MaxCaseStudies = getEnvInt("MAX_CASE_STUDIES", retrieval.MaxCaseStudies)
	retrieval.MaxArticles = getEnvInt("MAX_ARTICLES", retrieval.MaxArticles)
	retrieval.ForcedCaseStudies = getEnvInt("FORCED_CASE_STUDIES", retrieval.ForcedCaseStudies)
	retrieval.SemanticWeight = getEnvFloat("SEMANTIC_WEIGHT", retrieval.SemanticWeight)

	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:    getEnv("CLAUDE_MODEL_ID", ""),
		EmbeddingModelID: getEnv("EMBEDDING_MODEL_ID", "amazon.titan-embed-text-v2:0"),

		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "concierge"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "concierge"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CacheCapacity: getEnvInt("CACHE_CAPACITY", 1000),

		IntentTablesPath: getEnv("INTENT_TABLES_PATH", ""),

		ChatMaxRequests: getEnvInt("CHAT_RATE_LIMIT", 20),
		ChatWindow:      getEnvDuration("CHAT_RATE_WINDOW", time.Minute),

		OrchestratorTimeout: getEnvDuration("ORCHESTRATOR_TIMEOUT", 30*time.Second),

		Retrieval: retrieval,
	}
}

type Dependencies struct {
	Handler       *api.Handler
	SearchHandler *search.Handler
	DB            *database.DB
	Store         cache.Store
	Limiter       *ratelimit.Limiter
}

func Wire(ctx context.Context, cfg *Config) (*Dependencies, error) {
	if cfg.ClaudeModelID == "" {
		return nil, fmt.Errorf("CLAUDE_MODEL_ID must be set: %w", middleware.ErrMissingModelID)
	}
	if cfg.EmbeddingModelID == "" {
		return nil, fmt.Errorf("EMBEDDING_MODEL_ID must be set: %w", middleware.ErrMissingEmbedding)
	}
	if cfg.Database.Host == "" || cfg.Database.Database == "" {
		return nil, fmt.Errorf("DB_HOST and DB_NAME must be set: %w", middleware.ErrMissingDatabase)
	}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	store, err := buildCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	monitor := analytics.NewTracker()

	embedder, err := embedding.NewBedrockEmbedder(ctx, cfg.AWSRegion, cfg.EmbeddingModelID, store, monitor)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	claudeClient, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bedrock client: %w", err)
	}

	signer, err := assets.NewS3Signer(ctx, cfg.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset signer: %w", err)
	}

	detector, err := buildDetector(cfg)
	if err != nil {
		return nil, err
	}

	searchService := search.NewService(db, embedder, store, monitor)
	assetService := assets.NewService(db, embedder, signer, store, monitor)
	contextRetriever := retriever.New(searchService, assetService, db, detector, cfg.Retrieval)

	orchestratorConfig := orchestrator.DefaultConfig()
	orchestratorConfig.Timeout = cfg.OrchestratorTimeout
	orchestratorService := orchestrator.NewService(claudeClient, store, monitor, orchestratorConfig)

	limiter := ratelimit.NewLimiter()

	handler := api.NewHandler(
		contextRetriever,
		orchestratorService,
		layout.NewRegistry(),
		limiter,
		api.RateLimitConfig{MaxRequests: cfg.ChatMaxRequests, Window: cfg.ChatWindow},
		store,
		monitor,
	)

	return &Dependencies{
		Handler:       handler,
		SearchHandler: search.NewHandler(searchService),
		DB:            db,
		Store:         store,
		Limiter:       limiter,
	}, nil
}

func buildCache(ctx context.Context, cfg *Config) (cache.Store, error) {
	if cfg.RedisAddr == "" {
		log.Info().Int("capacity", cfg.CacheCapacity).Msg("Using in-memory result cache")
		return cache.NewMemoryStore(cfg.CacheCapacity), nil
	}

	client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to connect cache backend: %w", err)
	}

	return cache.NewRedisStore(client, "concierge"), nil
}

func buildDetector(cfg *Config) (*intent.Detector, error) {
	if cfg.IntentTablesPath == "" {
		return intent.NewDefaultDetector(), nil
	}

	tables, err := intent.LoadTables(cfg.IntentTablesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load intent tables: %w", err)
	}

	return intent.NewDetector(tables), nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		value = defaultValue
	}

	return value
}
