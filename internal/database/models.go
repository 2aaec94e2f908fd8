package database

// Document types stored in the documents table.
const (
	DocTypeCaseStudy = "case_study"
	DocTypeArticle   = "article"
)

type Document struct {
	ID      string
	Title   string
	Slug    string
	DocType string
}

// HybridChunk is one scored row from the hybrid chunk search: a content
// chunk joined with its parent document fields.
type HybridChunk struct {
	ChunkID      string
	DocumentID   string
	ChunkIndex   int
	ChunkType    string
	Content      string
	Title        string
	Slug         string
	DocType      string
	ClientName   string
	Author       string
	HeroImageURL string
	VideoURL     string
	Similarity   float64
	Keyword      float64
	Combined     float64
}

type VisualAssetRow struct {
	ID            string
	DocumentID    string
	Title         string
	Description   string
	AssetType     string
	StorageBucket string
	StoragePath   string
	Similarity    float64
}

type DocumentMetric struct {
	ID           string `json:"id"`
	DocumentID   string `json:"document_id"`
	Value        string `json:"value"`
	Label        string `json:"label"`
	Context      string `json:"context,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

// TaxonomyTerm is one entry of a flat controlled vocabulary
// (capability, industry or topic).
type TaxonomyTerm struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ChunkFilters narrow the hybrid search before scoring.
type ChunkFilters struct {
	DocTypes     []string
	Capabilities []string
	Industries   []string
}

func (f ChunkFilters) Empty() bool {
	return len(f.DocTypes) == 0 && len(f.Capabilities) == 0 && len(f.Industries) == 0
}
