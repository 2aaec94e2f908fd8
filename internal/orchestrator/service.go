package orchestrator

import (
	"context"
	"time"

	"github.com/articlegroup/concierge/internal/analytics"
	"github.com/articlegroup/concierge/internal/bedrock"
	"github.com/articlegroup/concierge/internal/cache"
	"github.com/articlegroup/concierge/internal/retriever"
	"github.com/rs/zerolog/log"
)

// Orchestrator responses should reflect fresh evidence, so their cache
// class is the shortest lived.
const responseTTL = 5 * time.Minute

type Config struct {
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

func DefaultConfig() Config {
	return Config{
		Timeout:     30 * time.Second,
		MaxTokens:   2000,
		Temperature: 0.0,
	}
}

// Service maps a query plus retrieved evidence onto a constrained layout
// plan by prompting the generative model and validating its output.
type Service struct {
	invoker bedrock.ModelInvoker
	store   cache.Store
	monitor analytics.Monitor
	config  Config
}

func NewService(invoker bedrock.ModelInvoker, store cache.Store, monitor analytics.Monitor, config Config) *Service {
	return &Service{
		invoker: invoker,
		store:   store,
		monitor: monitor,
		config:  config,
	}
}

// Orchestrate never returns an error to the caller: a timed-out or
// unparseable model call degrades to the empty-layout contact fallback.
func (s *Service) Orchestrate(ctx context.Context, query string, evidence *retriever.RetrievedContext, history []Message) Result {
	// Follow-up turns depend on history, so only fresh queries are
	// cacheable.
	cacheable := len(history) == 0
	cacheKey := cache.Key(map[string]any{"query": query, "evidence": evidence})

	if cacheable {
		if cached, ok := s.store.Get(ctx, cache.PrefixOrchestrator, cacheKey); ok {
			var result Result
			if err := cache.Unmarshal(cached, &result); err == nil {
				s.monitor.RecordCall("orchestrate", 0, nil, true)
				return result
			}
		}
	}

	prompt := buildPrompt(query, evidence, history)

	invokeCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	response, err := s.invoker.InvokeModel(invokeCtx, bedrock.ModelRequest{
		Prompt:      prompt,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	s.monitor.RecordCall("orchestrate", time.Since(start), err, false)

	if err != nil {
		// A hung or failed model call must not hang the request; degrade
		// to the same path as a parse failure.
		log.Error().Err(err).Msg("Model orchestration failed, returning contact fallback")
		return fallbackResult()
	}

	result := parseResponse(response.Content)

	if cacheable && !result.Layout.Empty() {
		if payload, err := cache.Marshal(result); err == nil {
			s.store.Set(ctx, cache.PrefixOrchestrator, cacheKey, payload, responseTTL)
		}
	}

	return result
}
