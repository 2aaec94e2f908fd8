package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/articlegroup/concierge/internal/analytics"
	"github.com/articlegroup/concierge/internal/cache"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/rs/zerolog/log"
)

// Embedder converts text into a fixed-dimension vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

var ErrEmptyInput = errors.New("embedding input must not be empty")

// truncate bounds input to the model's character ceiling, backing off to a
// rune boundary so a multi-byte character is never cut in half.
func truncate(text string) string {
	if len(text) <= maxInputChars {
		return text
	}

	cut := maxInputChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	return text[:cut]
}

const (
	// Titan input ceiling in characters; input is truncated before the call
	// rather than rejected.
	maxInputChars = 8000

	// Embedding vectors are content addressed, so a long TTL is safe.
	embeddingTTL = 24 * time.Hour

	maxRetries = 1
)

type titanRequest struct {
	InputText string `json:"inputText"`
}

type titanResponse struct {
	Embedding []float32 `json:"embedding"`
}

// BedrockEmbedder calls Titan text embeddings, memoizing results in the
// shared cache. An embedding failure is fatal for the current query; there
// is no silent empty-vector fallback.
type BedrockEmbedder struct {
	client  *bedrockruntime.Client
	modelID string
	store   cache.Store
	monitor analytics.Monitor
}

var _ Embedder = (*BedrockEmbedder)(nil)

func NewBedrockEmbedder(ctx context.Context, region, modelID string, store cache.Store, monitor analytics.Monitor) (*BedrockEmbedder, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &BedrockEmbedder{
		client:  bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
		store:   store,
		monitor: monitor,
	}, nil
}

func (e *BedrockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}

	text = truncate(text)

	cacheKey := cache.Key(map[string]string{"model": e.modelID, "input": text})
	if cached, ok := e.store.Get(ctx, cache.PrefixEmbedding, cacheKey); ok {
		var vector []float32
		if err := cache.Unmarshal(cached, &vector); err == nil {
			e.monitor.RecordCall("embedding", 0, nil, true)
			return vector, nil
		}
	}

	start := time.Now()
	vector, err := e.invoke(ctx, text)
	e.monitor.RecordCall("embedding", time.Since(start), err, false)
	if err != nil {
		return nil, err
	}

	if payload, err := cache.Marshal(vector); err == nil {
		e.store.Set(ctx, cache.PrefixEmbedding, cacheKey, payload, embeddingTTL)
	}

	return vector, nil
}

// invoke retries once on failure. Embedding generation is idempotent, so
// this is the only place in the pipeline that silently retries.
func (e *BedrockEmbedder) invoke(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(titanRequest{InputText: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			log.Warn().Err(lastErr).Int("attempt", attempt).Msg("Retrying embedding generation")
		}

		output, err := e.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
			ModelId:     &e.modelID,
			Body:        body,
			ContentType: aws.String("application/json"),
			Accept:      aws.String("application/json"),
		})
		if err != nil {
			lastErr = err
			continue
		}

		var response titanResponse
		if err := json.Unmarshal(output.Body, &response); err != nil {
			return nil, fmt.Errorf("failed to unmarshal embedding response: %w", err)
		}

		if len(response.Embedding) == 0 {
			return nil, fmt.Errorf("embedding service returned an empty vector")
		}

		return response.Embedding, nil
	}

	return nil, fmt.Errorf("failed to generate embeddings: %w", lastErr)
}
