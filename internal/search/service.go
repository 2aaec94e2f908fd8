package search

import (
	"context"
	"fmt"
	"time"

	"github.com/articlegroup/concierge/internal/analytics"
	"github.com/articlegroup/concierge/internal/cache"
	"github.com/articlegroup/concierge/internal/database"
	"github.com/articlegroup/concierge/internal/embedding"
)

// Searcher is the hybrid search contract consumed by the retriever.
type Searcher interface {
	Search(ctx context.Context, query string, filters database.ChunkFilters, matchCount int, semanticWeight float64) ([]Result, error)
}

// Search results stay fresh enough at half an hour; content changes are
// ingestion-time events, not request-time ones.
const searchTTL = 30 * time.Minute

const DefaultSemanticWeight = 0.7

type Service struct {
	db       *database.DB
	embedder embedding.Embedder
	store    cache.Store
	monitor  analytics.Monitor
}

var _ Searcher = (*Service)(nil)

func NewService(db *database.DB, embedder embedding.Embedder, store cache.Store, monitor analytics.Monitor) *Service {
	return &Service{
		db:       db,
		embedder: embedder,
		store:    store,
		monitor:  monitor,
	}
}

// Search blends vector similarity and keyword relevance into one ranked
// result set, ordered descending by combined score. Zero results is a valid
// output, not an error.
func (s *Service) Search(ctx context.Context, query string, filters database.ChunkFilters, matchCount int, semanticWeight float64) ([]Result, error) {
	cacheKey := cache.Key(map[string]any{
		"query":   query,
		"filters": filters,
		"count":   matchCount,
		"weight":  semanticWeight,
	})

	if cached, ok := s.store.Get(ctx, cache.PrefixSearch, cacheKey); ok {
		var results []Result
		if err := cache.Unmarshal(cached, &results); err == nil {
			s.monitor.RecordCall("search", 0, nil, true)
			return results, nil
		}
	}

	embeddings, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unable to generate query embeddings: %w", err)
	}

	start := time.Now()
	chunks, err := s.db.HybridSearchChunks(ctx, embeddings, query, filters, matchCount, semanticWeight)
	s.monitor.RecordCall("search", time.Since(start), err, false)
	if err != nil {
		return nil, fmt.Errorf("unable to run hybrid search: %w", err)
	}

	var results []Result
	for _, chunk := range chunks {
		results = append(results, Result{
			ChunkID:         chunk.ChunkID,
			DocumentID:      chunk.DocumentID,
			ChunkIndex:      chunk.ChunkIndex,
			ChunkType:       chunk.ChunkType,
			Content:         chunk.Content,
			Title:           chunk.Title,
			Slug:            chunk.Slug,
			DocType:         chunk.DocType,
			ClientName:      chunk.ClientName,
			Author:          chunk.Author,
			HeroImageURL:    chunk.HeroImageURL,
			VideoURL:        chunk.VideoURL,
			SimilarityScore: chunk.Similarity,
			KeywordScore:    chunk.Keyword,
			CombinedScore:   chunk.Combined,
		})
	}

	if payload, err := cache.Marshal(results); err == nil {
		s.store.Set(ctx, cache.PrefixSearch, cacheKey, payload, searchTTL)
	}

	return results, nil
}

// ListDocuments returns the indexed document catalog. Uncached; it backs a
// debugging endpoint, not the chat path.
func (s *Service) ListDocuments(ctx context.Context) ([]database.Document, error) {
	return s.db.ListDocuments(ctx)
}
