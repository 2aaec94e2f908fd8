package assets

import (
	"context"
	"fmt"
	"time"

	"github.com/articlegroup/concierge/internal/analytics"
	"github.com/articlegroup/concierge/internal/cache"
	"github.com/articlegroup/concierge/internal/database"
	"github.com/articlegroup/concierge/internal/embedding"
	"github.com/rs/zerolog/log"
)

// Result is one visual asset hit enriched with a short-lived access URL.
type Result struct {
	AssetID         string  `json:"asset_id"`
	DocumentID      string  `json:"document_id"`
	Title           string  `json:"title,omitempty"`
	Description     string  `json:"description"`
	AssetType       string  `json:"asset_type"`
	SimilarityScore float64 `json:"similarity_score"`
	URL             string  `json:"url"`
}

// Searcher is the visual asset search contract consumed by the retriever.
type Searcher interface {
	Search(ctx context.Context, query string, documentIDs, assetTypes []string, matchCount int) ([]Result, error)
}

const (
	// Signed URLs expire after an hour; cached rows must not outlive the
	// search result cache class.
	signedURLExpiry = time.Hour
	assetCacheTTL   = 30 * time.Minute
)

type Service struct {
	db       *database.DB
	embedder embedding.Embedder
	signer   Signer
	store    cache.Store
	monitor  analytics.Monitor
}

var _ Searcher = (*Service)(nil)

func NewService(db *database.DB, embedder embedding.Embedder, signer Signer, store cache.Store, monitor analytics.Monitor) *Service {
	return &Service{
		db:       db,
		embedder: embedder,
		signer:   signer,
		store:    store,
		monitor:  monitor,
	}
}

// Search runs a vector search over asset description embeddings and signs a
// URL per hit. A failed signing drops that one asset rather than failing
// the batch.
func (s *Service) Search(ctx context.Context, query string, documentIDs, assetTypes []string, matchCount int) ([]Result, error) {
	rows, err := s.searchRows(ctx, query, documentIDs, assetTypes, matchCount)
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, row := range rows {
		url, err := s.signer.SignedURL(ctx, row.StorageBucket, row.StoragePath, signedURLExpiry)
		if err != nil {
			log.Warn().
				Err(err).
				Str("asset_id", row.ID).
				Msg("Dropping asset with unsignable URL")
			continue
		}

		results = append(results, Result{
			AssetID:         row.ID,
			DocumentID:      row.DocumentID,
			Title:           row.Title,
			Description:     row.Description,
			AssetType:       row.AssetType,
			SimilarityScore: row.Similarity,
			URL:             url,
		})
	}

	return results, nil
}

func (s *Service) searchRows(ctx context.Context, query string, documentIDs, assetTypes []string, matchCount int) ([]database.VisualAssetRow, error) {
	cacheKey := cache.Key(map[string]any{
		"query":     query,
		"documents": documentIDs,
		"types":     assetTypes,
		"count":     matchCount,
	})

	if cached, ok := s.store.Get(ctx, cache.PrefixAssets, cacheKey); ok {
		var rows []database.VisualAssetRow
		if err := cache.Unmarshal(cached, &rows); err == nil {
			s.monitor.RecordCall("asset_search", 0, nil, true)
			return rows, nil
		}
	}

	embeddings, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("unable to generate query embeddings: %w", err)
	}

	start := time.Now()
	rows, err := s.db.SearchVisualAssets(ctx, embeddings, documentIDs, assetTypes, matchCount)
	s.monitor.RecordCall("asset_search", time.Since(start), err, false)
	if err != nil {
		return nil, fmt.Errorf("unable to search visual assets: %w", err)
	}

	if payload, err := cache.Marshal(rows); err == nil {
		s.store.Set(ctx, cache.PrefixAssets, cacheKey, payload, assetCacheTTL)
	}

	return rows, nil
}
