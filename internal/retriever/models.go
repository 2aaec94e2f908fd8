package retriever

import (
	"github.com/articlegroup/concierge/internal/assets"
	"github.com/articlegroup/concierge/internal/database"
	"github.com/articlegroup/concierge/internal/search"
)

// RetrievedContext is the bounded evidence bundle handed to the
// orchestrator. Built fresh per request; nothing in it is shared state.
type RetrievedContext struct {
	Query        string                    `json:"query"`
	Chunks       []search.Result           `json:"chunks"`
	Assets       []assets.Result           `json:"assets"`
	Metrics      []database.DocumentMetric `json:"metrics"`
	Capabilities []database.TaxonomyTerm   `json:"capabilities"`
	Industries   []database.TaxonomyTerm   `json:"industries"`
	Topics       []database.TaxonomyTerm   `json:"topics"`

	// AppliedCapabilities/AppliedIndustries are the enhanced filter set:
	// explicit filters unioned with detected intent.
	AppliedCapabilities []string `json:"applied_capabilities,omitempty"`
	AppliedIndustries   []string `json:"applied_industries,omitempty"`
}

// Params is one retrieval request. Zero values fall back to Config defaults.
type Params struct {
	Query             string
	Capabilities      []string
	Industries        []string
	MaxChunks         int
	MaxAssets         int
	MinRelevanceScore float64
}

// Config carries the retrieval tuning constants. The thresholds are product
// tuning choices, not derived values, so they stay configurable.
type Config struct {
	MinRelevanceScore   float64
	FilteredBoost       float64
	MaxCaseStudies      int
	MaxArticles         int
	ForcedCaseStudies   int
	CandidateMultiplier int
	MaxChunks           int
	MaxAssets           int
	SemanticWeight      float64
}

func DefaultConfig() Config {
	return Config{
		MinRelevanceScore:   0.15,
		FilteredBoost:       1.10,
		MaxCaseStudies:      4,
		MaxArticles:         2,
		ForcedCaseStudies:   2,
		CandidateMultiplier: 2,
		MaxChunks:           6,
		MaxAssets:           4,
		SemanticWeight:      search.DefaultSemanticWeight,
	}
}
