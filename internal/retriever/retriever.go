package retriever

import (
	"context"
	"sort"

	"github.com/articlegroup/concierge/internal/assets"
	"github.com/articlegroup/concierge/internal/database"
	"github.com/articlegroup/concierge/internal/intent"
	"github.com/articlegroup/concierge/internal/search"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Catalog is the taxonomy and metric lookup surface of the repository.
type Catalog interface {
	ListCapabilities(ctx context.Context) ([]database.TaxonomyTerm, error)
	ListIndustries(ctx context.Context) ([]database.TaxonomyTerm, error)
	ListTopics(ctx context.Context) ([]database.TaxonomyTerm, error)
	MetricsByDocumentIDs(ctx context.Context, documentIDs []string) ([]database.DocumentMetric, error)
}

// Retriever builds the deduplicated, type-balanced evidence set for one
// query. Each request builds its own context from scratch, so instances are
// safe for concurrent use.
type Retriever struct {
	searcher search.Searcher
	assets   assets.Searcher
	catalog  Catalog
	detector *intent.Detector
	config   Config
}

func New(searcher search.Searcher, assetSearcher assets.Searcher, catalog Catalog, detector *intent.Detector, config Config) *Retriever {
	return &Retriever{
		searcher: searcher,
		assets:   assetSearcher,
		catalog:  catalog,
		detector: detector,
		config:   config,
	}
}

// Retrieve runs the full evidence pipeline: intent detection, parallel
// filtered + unfiltered searches, merge with a boost for taxonomy agreement,
// relevance threshold with a top-N fallback, per-document dedup with type
// balancing, forced case-study inclusion, and metric collection.
func (r *Retriever) Retrieve(ctx context.Context, params Params) (*RetrievedContext, error) {
	r.applyDefaults(&params)

	detected := r.detector.Detect(params.Query)
	enhancedCaps := union(params.Capabilities, detected.Capabilities)
	enhancedInds := union(params.Industries, detected.Industries)

	candidateCount := params.MaxChunks * r.config.CandidateMultiplier

	enhanced := database.ChunkFilters{
		Capabilities: enhancedCaps,
		Industries:   enhancedInds,
	}

	var (
		filtered, raw []search.Result
		assetResults  []assets.Result
		capabilities  []database.TaxonomyTerm
		industries    []database.TaxonomyTerm
		topics        []database.TaxonomyTerm
	)

	group, groupCtx := errgroup.WithContext(ctx)

	// The filtered search guards precision, the unfiltered one guards
	// recall when the filters turn out too narrow. Skip the filtered pass
	// entirely when no filters applied; it would be identical to raw.
	if !enhanced.Empty() {
		group.Go(func() error {
			var err error
			filtered, err = r.searcher.Search(groupCtx, params.Query, enhanced, candidateCount, r.config.SemanticWeight)
			return err
		})
	}

	group.Go(func() error {
		var err error
		raw, err = r.searcher.Search(groupCtx, params.Query, database.ChunkFilters{}, candidateCount, r.config.SemanticWeight)
		return err
	})

	group.Go(func() error {
		results, err := r.assets.Search(groupCtx, params.Query, nil, nil, params.MaxAssets)
		if err != nil {
			log.Warn().Err(err).Msg("Visual asset search failed, continuing without assets")
			return nil
		}
		assetResults = results
		return nil
	})

	group.Go(func() error {
		capabilities = r.listTaxonomy(groupCtx, "capabilities", r.catalog.ListCapabilities)
		industries = r.listTaxonomy(groupCtx, "industries", r.catalog.ListIndustries)
		topics = r.listTaxonomy(groupCtx, "topics", r.catalog.ListTopics)
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	merged := r.merge(filtered, raw)
	kept := r.applyThreshold(merged, params.MinRelevanceScore, params.MaxChunks)
	final := r.balanceTypes(kept, merged, params.MaxChunks)

	metrics := r.collectMetrics(ctx, final)

	return &RetrievedContext{
		Query:               params.Query,
		Chunks:              final,
		Assets:              assetResults,
		Metrics:             metrics,
		Capabilities:        capabilities,
		Industries:          industries,
		Topics:              topics,
		AppliedCapabilities: enhancedCaps,
		AppliedIndustries:   enhancedInds,
	}, nil
}

func (r *Retriever) applyDefaults(params *Params) {
	if params.MaxChunks <= 0 {
		params.MaxChunks = r.config.MaxChunks
	}
	if params.MaxAssets <= 0 {
		params.MaxAssets = r.config.MaxAssets
	}
	if params.MinRelevanceScore <= 0 {
		params.MinRelevanceScore = r.config.MinRelevanceScore
	}
}

// merge dedupes by chunk identity, preferring the filtered search's copy
// with a score boost reflecting taxonomy agreement, then sorts by combined
// score.
func (r *Retriever) merge(filtered, raw []search.Result) []search.Result {
	seen := make(map[string]bool, len(filtered))
	merged := make([]search.Result, 0, len(filtered)+len(raw))

	for _, result := range filtered {
		result.CombinedScore *= r.config.FilteredBoost
		seen[result.ChunkID] = true
		merged = append(merged, result)
	}

	for _, result := range raw {
		if !seen[result.ChunkID] {
			merged = append(merged, result)
		}
	}

	sortByScore(merged)

	return merged
}

// applyThreshold drops candidates below the minimum relevance score. When
// that empties the set entirely, the top-N raw candidates survive instead;
// a threshold must never produce a dead end while candidates exist.
func (r *Retriever) applyThreshold(merged []search.Result, minScore float64, maxChunks int) []search.Result {
	var kept []search.Result
	for _, result := range merged {
		if result.CombinedScore >= minScore {
			kept = append(kept, result)
		}
	}

	if len(kept) == 0 && len(merged) > 0 {
		log.Info().
			Float64("min_score", minScore).
			Int("candidates", len(merged)).
			Msg("Relevance threshold emptied the candidate set, falling back to top results")

		if len(merged) > maxChunks {
			return merged[:maxChunks]
		}
		return merged
	}

	return kept
}

// balanceTypes partitions by document type, keeps the best chunk per parent
// document, force-includes case studies when scoring noise washed them out,
// and caps the final set.
func (r *Retriever) balanceTypes(kept, merged []search.Result, maxChunks int) []search.Result {
	caseStudies := bestPerDocument(kept, database.DocTypeCaseStudy, r.config.MaxCaseStudies)
	articles := bestPerDocument(kept, database.DocTypeArticle, r.config.MaxArticles)

	// Case studies are the primary conversion asset. If filtering removed
	// them all while raw candidates had some, pull the top raw matches
	// back in.
	if len(caseStudies) == 0 {
		caseStudies = bestPerDocument(merged, database.DocTypeCaseStudy, r.config.ForcedCaseStudies)
		if len(caseStudies) > 0 {
			log.Info().Int("forced", len(caseStudies)).Msg("Force-including top case study matches")
		}
	}

	// append may alias the caseStudies backing array, so grab the best one
	// before the combined slice gets re-sorted.
	var topCaseStudy search.Result
	if len(caseStudies) > 0 {
		topCaseStudy = caseStudies[0]
	}

	final := append(caseStudies, articles...)
	sortByScore(final)

	if len(final) > maxChunks {
		final = final[:maxChunks]

		// A tight cap can trim every case study when articles outscore
		// them. Give back the last slot so at least one survives.
		if topCaseStudy.ChunkID != "" && !hasDocType(final, database.DocTypeCaseStudy) {
			final[len(final)-1] = topCaseStudy
			sortByScore(final)
		}
	}

	// Best + one detail chunk: when room remains, the top document may
	// contribute a second chunk for depth. This is the only path that
	// lets one document appear twice.
	if len(final) > 0 && len(final) < maxChunks {
		if detail, ok := detailChunk(merged, final); ok {
			final = append(final, detail)
			sortByScore(final)
		}
	}

	return final
}

func hasDocType(results []search.Result, docType string) bool {
	for _, result := range results {
		if result.DocType == docType {
			return true
		}
	}
	return false
}

// bestPerDocument keeps the single highest-scoring chunk per parent
// document for one document type, up to cap. Input must already be sorted
// by combined score.
func bestPerDocument(results []search.Result, docType string, limit int) []search.Result {
	seen := make(map[string]bool)
	var picked []search.Result

	for _, result := range results {
		if result.DocType != docType || seen[result.DocumentID] {
			continue
		}

		seen[result.DocumentID] = true
		picked = append(picked, result)

		if len(picked) == limit {
			break
		}
	}

	return picked
}

// detailChunk finds the next-best chunk of the top-ranked document that is
// not already part of the final set.
func detailChunk(merged, final []search.Result) (search.Result, bool) {
	topDoc := final[0].DocumentID

	chosen := make(map[string]bool, len(final))
	for _, result := range final {
		chosen[result.ChunkID] = true
	}

	for _, result := range merged {
		if result.DocumentID == topDoc && !chosen[result.ChunkID] {
			return result, true
		}
	}

	return search.Result{}, false
}

func (r *Retriever) collectMetrics(ctx context.Context, chunks []search.Result) []database.DocumentMetric {
	seen := make(map[string]bool)
	var documentIDs []string
	for _, chunk := range chunks {
		if !seen[chunk.DocumentID] {
			seen[chunk.DocumentID] = true
			documentIDs = append(documentIDs, chunk.DocumentID)
		}
	}

	metrics, err := r.catalog.MetricsByDocumentIDs(ctx, documentIDs)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to fetch document metrics, continuing without them")
		return nil
	}

	return metrics
}

func (r *Retriever) listTaxonomy(ctx context.Context, name string, list func(context.Context) ([]database.TaxonomyTerm, error)) []database.TaxonomyTerm {
	terms, err := list(ctx)
	if err != nil {
		log.Warn().Err(err).Str("taxonomy", name).Msg("Failed to list taxonomy terms")
		return nil
	}
	return terms
}

func sortByScore(results []search.Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CombinedScore > results[j].CombinedScore
	})
}

func union(explicit, detected []string) []string {
	seen := make(map[string]bool)
	var out []string

	for _, slug := range explicit {
		if !seen[slug] {
			seen[slug] = true
			out = append(out, slug)
		}
	}
	for _, slug := range detected {
		if !seen[slug] {
			seen[slug] = true
			out = append(out, slug)
		}
	}

	return out
}
