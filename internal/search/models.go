package search

type Request struct {
	Query          string   `json:"query"`
	Limit          int      `json:"limit,omitempty" description:"Max results (default: 10)"`
	SemanticWeight float64  `json:"semantic_weight,omitempty" description:"Vector vs keyword blend (default: 0.7)"`
	DocTypes       []string `json:"doc_types,omitempty"`
	Capabilities   []string `json:"capabilities,omitempty"`
	Industries     []string `json:"industries,omitempty"`
}

// Result is one scored chunk joined with its parent document fields.
// Ephemeral: recomputed per query, never persisted.
type Result struct {
	ChunkID         string  `json:"chunk_id"`
	DocumentID      string  `json:"document_id"`
	ChunkIndex      int     `json:"chunk_index"`
	ChunkType       string  `json:"chunk_type"`
	Content         string  `json:"content"`
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	DocType         string  `json:"doc_type"`
	ClientName      string  `json:"client_name,omitempty"`
	Author          string  `json:"author,omitempty"`
	HeroImageURL    string  `json:"hero_image_url,omitempty"`
	VideoURL        string  `json:"video_url,omitempty"`
	SimilarityScore float64 `json:"similarity_score"`
	KeywordScore    float64 `json:"keyword_score"`
	CombinedScore   float64 `json:"combined_score"`
}

type Response struct {
	Query  string   `json:"query"`
	Result []Result `json:"result"`
	Count  int      `json:"count"`
	Method string   `json:"method"`
}
