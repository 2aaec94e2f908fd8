package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/articlegroup/concierge/internal/analytics"
	"github.com/articlegroup/concierge/internal/cache"
	"github.com/articlegroup/concierge/internal/layout"
	"github.com/articlegroup/concierge/internal/middleware"
	"github.com/articlegroup/concierge/internal/orchestrator"
	"github.com/articlegroup/concierge/internal/ratelimit"
	"github.com/articlegroup/concierge/internal/retriever"
	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RateLimitConfig gates the chat endpoint, the only expensive entry point.
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

func DefaultRateLimit() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests: 20,
		Window:      time.Minute,
	}
}

type Handler struct {
	retriever    *retriever.Retriever
	orchestrator *orchestrator.Service
	registry     *layout.Registry
	limiter      *ratelimit.Limiter
	limits       RateLimitConfig
	store        cache.Store
	monitor      analytics.Monitor
}

func NewHandler(
	contextRetriever *retriever.Retriever,
	orchestratorService *orchestrator.Service,
	registry *layout.Registry,
	limiter *ratelimit.Limiter,
	limits RateLimitConfig,
	store cache.Store,
	monitor analytics.Monitor,
) *Handler {
	return &Handler{
		retriever:    contextRetriever,
		orchestrator: orchestratorService,
		registry:     registry,
		limiter:      limiter,
		limits:       limits,
		store:        store,
		monitor:      monitor,
	}
}

// Chat handles POST /api/v1/chat
func (h *Handler) Chat(req *restful.Request, resp *restful.Response) {
	// Rate limit before any retrieval or model work runs.
	clientID := ratelimit.ClientID(req.Request)
	gate := h.limiter.Check(clientID, h.limits.MaxRequests, h.limits.Window)

	resp.AddHeader(ratelimit.HeaderRateLimit, fmt.Sprintf("%d", gate.Limit))
	resp.AddHeader(ratelimit.HeaderRateRemaining, fmt.Sprintf("%d", gate.Remaining))
	resp.AddHeader(ratelimit.HeaderRateReset, fmt.Sprintf("%d", gate.ResetAt.Unix()))

	if !gate.Allowed {
		retryAfter := int(gate.RetryAfter.Seconds() + 0.5)
		if retryAfter < 1 {
			retryAfter = 1
		}
		resp.AddHeader(ratelimit.HeaderRetryAfter, fmt.Sprintf("%d", retryAfter))

		log.Info().
			Str("client", clientID).
			Dur("retry_after", gate.RetryAfter).
			Msg("Chat request rate limited")

		middleware.HandleError(resp, fmt.Errorf("rate limit exceeded, retry in %ds", retryAfter), http.StatusTooManyRequests)
		return
	}

	var chatRequest ChatRequest
	if err := req.ReadEntity(&chatRequest); err != nil {
		log.Error().Err(err).Msg("Failed to parse chat request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if err := validate(chatRequest); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	requestID := uuid.NewString()
	ctx := req.Request.Context()

	log.Info().
		Str("request_id", requestID).
		Str("query", chatRequest.Query).
		Int("history_len", len(chatRequest.ConversationHistory)).
		Msg("Process chat query")

	start := time.Now()

	evidence, err := h.retriever.Retrieve(ctx, retriever.Params{Query: chatRequest.Query})
	if err != nil {
		h.monitor.RecordCall("chat", time.Since(start), err, false)
		log.Error().Err(err).Str("request_id", requestID).Msg("Context retrieval failed")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	result := h.orchestrator.Orchestrate(ctx, chatRequest.Query, evidence, chatRequest.ConversationHistory)
	h.monitor.RecordCall("chat", time.Since(start), nil, false)

	response := ChatResponse{
		RequestID:          requestID,
		Layout:             result.Layout,
		Render:             layout.Assemble(h.registry, result.Layout),
		Explanation:        result.Explanation,
		SuggestedFollowUps: result.SuggestedFollowUps,
		ContactCTA:         result.ContactCTA,
	}

	log.Info().
		Str("request_id", requestID).
		Int("components", len(result.Layout.Layout)).
		Bool("contact_cta", result.ContactCTA).
		Dur("duration", time.Since(start)).
		Msg("Chat query complete")

	resp.WriteHeaderAndEntity(http.StatusOK, response)
}

// Health handles GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:    "ok",
		Version:   "1.0.0",
		Analytics: h.monitor.Snapshot(),
	})
}

// ClearCache handles POST /api/v1/admin/cache/clear
func (h *Handler) ClearCache(req *restful.Request, resp *restful.Response) {
	ctx := req.Request.Context()

	prefixes := []string{
		cache.PrefixEmbedding,
		cache.PrefixSearch,
		cache.PrefixAssets,
		cache.PrefixOrchestrator,
	}

	for _, prefix := range prefixes {
		if err := h.store.ClearPrefix(ctx, prefix); err != nil {
			log.Error().Err(err).Str("prefix", prefix).Msg("Failed to clear cache prefix")
			middleware.HandleError(resp, err, http.StatusInternalServerError)
			return
		}
	}

	resp.WriteHeaderAndEntity(http.StatusOK, map[string]string{"status": "cleared"})
}

func validate(request ChatRequest) error {
	if request.Query == "" {
		return middleware.ErrEmptyQuery
	}
	if len(request.Query) > maxQueryLength {
		return middleware.ErrQueryTooLong
	}
	for _, message := range request.ConversationHistory {
		if message.Role == "" || message.Content == "" {
			return middleware.ErrInvalidHistory
		}
	}
	return nil
}
