package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/articlegroup/concierge/internal/analytics"
	"github.com/articlegroup/concierge/internal/api"
	"github.com/articlegroup/concierge/internal/assets"
	"github.com/articlegroup/concierge/internal/bedrock"
	"github.com/articlegroup/concierge/internal/cache"
	"github.com/articlegroup/concierge/internal/database"
	"github.com/articlegroup/concierge/internal/intent"
	"github.com/articlegroup/concierge/internal/layout"
	"github.com/articlegroup/concierge/internal/orchestrator"
	"github.com/articlegroup/concierge/internal/ratelimit"
	"github.com/articlegroup/concierge/internal/retriever"
	"github.com/articlegroup/concierge/internal/search"
	"github.com/emicklei/go-restful/v3"
)

type stubSearcher struct {
	results []search.Result
}

func (s *stubSearcher) Search(_ context.Context, _ string, _ database.ChunkFilters, _ int, _ float64) ([]search.Result, error) {
	return s.results, nil
}

type stubAssetSearcher struct{}

func (stubAssetSearcher) Search(_ context.Context, _ string, _, _ []string, _ int) ([]assets.Result, error) {
	return nil, nil
}

type stubCatalog struct{}

func (stubCatalog) ListCapabilities(_ context.Context) ([]database.TaxonomyTerm, error) {
	return nil, nil
}
func (stubCatalog) ListIndustries(_ context.Context) ([]database.TaxonomyTerm, error) {
	return nil, nil
}
func (stubCatalog) ListTopics(_ context.Context) ([]database.TaxonomyTerm, error) { return nil, nil }
func (stubCatalog) MetricsByDocumentIDs(_ context.Context, _ []string) ([]database.DocumentMetric, error) {
	return nil, nil
}

type stubInvoker struct {
	response *bedrock.ModelResponse
}

func (s *stubInvoker) InvokeModel(_ context.Context, _ bedrock.ModelRequest) (*bedrock.ModelResponse, error) {
	return s.response, nil
}

func (s *stubInvoker) InvokeModelWithRetry(ctx context.Context, request bedrock.ModelRequest) (*bedrock.ModelResponse, error) {
	return s.InvokeModel(ctx, request)
}

func modelResponse() *bedrock.ModelResponse {
	return &bedrock.ModelResponse{
		Content: "```json\n" +
			`{"layout": [{"component": "hero", "props": {"title": "Fintech work"}}, {"component": "caseStudyTeaser", "props": {"title": "Meridian", "slug": "meridian"}}]}` +
			"\n```\nHere is our closest fintech work.",
		StopReason: "end_turn",
	}
}

func setupTestAPI(t *testing.T, limits api.RateLimitConfig) *restful.Container {
	t.Helper()

	store := cache.NewMemoryStore(100)
	t.Cleanup(store.Close)

	limiter := ratelimit.NewLimiter()
	t.Cleanup(limiter.Close)

	searcher := &stubSearcher{
		results: []search.Result{
			{
				ChunkID:       "c1",
				DocumentID:    "d1",
				DocType:       database.DocTypeCaseStudy,
				Title:         "Meridian",
				Slug:          "meridian",
				Content:       "A rebrand for a digital-first bank.",
				CombinedScore: 0.8,
			},
		},
	}

	contextRetriever := retriever.New(searcher, stubAssetSearcher{}, stubCatalog{}, intent.NewDefaultDetector(), retriever.DefaultConfig())
	orchestratorService := orchestrator.NewService(&stubInvoker{response: modelResponse()}, store, analytics.Noop{}, orchestrator.DefaultConfig())

	handler := api.NewHandler(
		contextRetriever,
		orchestratorService,
		layout.NewRegistry(),
		limiter,
		limits,
		store,
		analytics.NewTracker(),
	)

	container := restful.NewContainer()
	api.RegisterRoutes(container, handler)

	return container
}

func postChat(container *restful.Container, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:1234"

	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)
	return recorder
}

func TestAPI_Health(t *testing.T) {
	container := setupTestAPI(t, api.DefaultRateLimit())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var response api.HealthResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response.Status != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", response.Status)
	}
}

func TestAPI_Chat_HappyPath(t *testing.T) {
	container := setupTestAPI(t, api.DefaultRateLimit())

	recorder := postChat(container, api.ChatRequest{Query: "show me fintech work"})

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var response api.ChatResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response.RequestID == "" {
		t.Error("Expected a request ID")
	}
	if len(response.Layout.Layout) != 2 {
		t.Errorf("Expected 2 layout items, got %d", len(response.Layout.Layout))
	}
	if len(response.Render) != 2 {
		t.Errorf("Expected 2 render units, got %d", len(response.Render))
	}
	if response.Explanation == "" {
		t.Error("Expected an explanation")
	}
	if response.ContactCTA {
		t.Error("Expected no contact CTA for a populated layout")
	}

	if recorder.Header().Get(ratelimit.HeaderRateLimit) == "" {
		t.Error("Expected rate limit headers on the chat response")
	}
}

func TestAPI_Chat_EmptyQuery(t *testing.T) {
	container := setupTestAPI(t, api.DefaultRateLimit())

	recorder := postChat(container, api.ChatRequest{Query: ""})

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", recorder.Code)
	}
}

func TestAPI_Chat_QueryTooLong(t *testing.T) {
	container := setupTestAPI(t, api.DefaultRateLimit())

	recorder := postChat(container, api.ChatRequest{Query: strings.Repeat("x", 2001)})

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", recorder.Code)
	}
}

func TestAPI_Chat_InvalidHistory(t *testing.T) {
	container := setupTestAPI(t, api.DefaultRateLimit())

	recorder := postChat(container, api.ChatRequest{
		Query: "show me fintech work",
		ConversationHistory: []orchestrator.Message{
			{Role: "user", Content: ""},
		},
	})

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", recorder.Code)
	}
}

func TestAPI_Chat_RateLimited(t *testing.T) {
	container := setupTestAPI(t, api.RateLimitConfig{MaxRequests: 1, Window: time.Minute})

	first := postChat(container, api.ChatRequest{Query: "show me fintech work"})
	if first.Code != http.StatusOK {
		t.Fatalf("Expected the first request to pass, got %d", first.Code)
	}

	second := postChat(container, api.ChatRequest{Query: "show me fintech work"})
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected status 429, got %d", second.Code)
	}
	if second.Header().Get(ratelimit.HeaderRetryAfter) == "" {
		t.Error("Expected a Retry-After header on rejection")
	}
	if second.Header().Get(ratelimit.HeaderRateRemaining) != "0" {
		t.Errorf("Expected remaining=0, got '%s'", second.Header().Get(ratelimit.HeaderRateRemaining))
	}
}

func TestAPI_ClearCache(t *testing.T) {
	container := setupTestAPI(t, api.DefaultRateLimit())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/cache/clear", nil)
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}
}
