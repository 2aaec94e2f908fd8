package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// HybridSearchChunks runs the blended vector + full-text query over content
// chunks. semanticWeight interpolates between cosine similarity and ts_rank;
// filters are applied in the WHERE clause, before scoring.
func (db *DB) HybridSearchChunks(
	ctx context.Context,
	queryEmbedding []float32,
	queryText string,
	filters ChunkFilters,
	matchCount int,
	semanticWeight float64,
) ([]HybridChunk, error) {
	args := []any{
		pgvector.NewVector(queryEmbedding),
		queryText,
		semanticWeight,
	}

	var conditions []string
	if len(filters.DocTypes) > 0 {
		args = append(args, filters.DocTypes)
		conditions = append(conditions, fmt.Sprintf("d.doc_type = ANY($%d)", len(args)))
	}
	if len(filters.Capabilities) > 0 {
		args = append(args, filters.Capabilities)
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM document_capabilities dc
			JOIN capabilities cap ON cap.id = dc.capability_id
			WHERE dc.document_id = d.id AND cap.slug = ANY($%d))`, len(args)))
	}
	if len(filters.Industries) > 0 {
		args = append(args, filters.Industries)
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM document_industries di
			JOIN industries ind ON ind.id = di.industry_id
			WHERE di.document_id = d.id AND ind.slug = ANY($%d))`, len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, matchCount)

	query := fmt.Sprintf(`
	SELECT
	  c.id,
	  c.document_id,
	  c.chunk_index,
	  c.chunk_type,
	  c.content,
	  d.title,
	  d.slug,
	  d.doc_type,
	  COALESCE(d.client_name, ''),
	  COALESCE(d.author, ''),
	  COALESCE(d.hero_image_url, ''),
	  COALESCE(d.video_url, ''),
	  1 - (c.embedding <=> $1) AS similarity_score,
	  COALESCE(ts_rank(c.content_tsvector, plainto_tsquery('english', $2)), 0) AS keyword_score,
	  $3 * (1 - (c.embedding <=> $1)) +
	    (1 - $3) * COALESCE(ts_rank(c.content_tsvector, plainto_tsquery('english', $2)), 0) AS combined_score
	FROM content_chunks c
	JOIN documents d ON d.id = c.document_id
	%s
	ORDER BY combined_score DESC
	LIMIT $%d`, where, len(args))

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("hybrid chunk search failed: %w", err)
	}
	defer rows.Close()

	var chunks []HybridChunk
	for rows.Next() {
		var chunk HybridChunk

		err := rows.Scan(
			&chunk.ChunkID,
			&chunk.DocumentID,
			&chunk.ChunkIndex,
			&chunk.ChunkType,
			&chunk.Content,
			&chunk.Title,
			&chunk.Slug,
			&chunk.DocType,
			&chunk.ClientName,
			&chunk.Author,
			&chunk.HeroImageURL,
			&chunk.VideoURL,
			&chunk.Similarity,
			&chunk.Keyword,
			&chunk.Combined,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}

		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return chunks, nil
}

// SearchVisualAssets runs a vector search over asset description embeddings.
// documentIDs and assetTypes are optional narrowing filters.
func (db *DB) SearchVisualAssets(
	ctx context.Context,
	queryEmbedding []float32,
	documentIDs []string,
	assetTypes []string,
	matchCount int,
) ([]VisualAssetRow, error) {
	args := []any{pgvector.NewVector(queryEmbedding)}

	var conditions []string
	if len(documentIDs) > 0 {
		args = append(args, documentIDs)
		conditions = append(conditions, fmt.Sprintf("a.document_id = ANY($%d)", len(args)))
	}
	if len(assetTypes) > 0 {
		args = append(args, assetTypes)
		conditions = append(conditions, fmt.Sprintf("a.asset_type = ANY($%d)", len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	args = append(args, matchCount)

	query := fmt.Sprintf(`
	SELECT
	  a.id,
	  a.document_id,
	  COALESCE(a.title, ''),
	  COALESCE(a.description, ''),
	  a.asset_type,
	  a.storage_bucket,
	  a.storage_path,
	  1 - (a.embedding <=> $1) AS similarity_score
	FROM visual_assets a
	%s
	ORDER BY a.embedding <=> $1 ASC
	LIMIT $%d`, where, len(args))

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("visual asset search failed: %w", err)
	}
	defer rows.Close()

	var assets []VisualAssetRow
	for rows.Next() {
		var asset VisualAssetRow

		err := rows.Scan(
			&asset.ID,
			&asset.DocumentID,
			&asset.Title,
			&asset.Description,
			&asset.AssetType,
			&asset.StorageBucket,
			&asset.StoragePath,
			&asset.Similarity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}

		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return assets, nil
}

// MetricsByDocumentIDs returns the display-ordered metrics attached to the
// given documents.
func (db *DB) MetricsByDocumentIDs(ctx context.Context, documentIDs []string) ([]DocumentMetric, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}

	query := `
	SELECT id, document_id, value, label, COALESCE(context, ''), display_order
	FROM document_metrics
	WHERE document_id = ANY($1)
	ORDER BY document_id, display_order ASC`

	rows, err := db.Pool.Query(ctx, query, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document metrics: %w", err)
	}
	defer rows.Close()

	var metrics []DocumentMetric
	for rows.Next() {
		var metric DocumentMetric

		err := rows.Scan(
			&metric.ID,
			&metric.DocumentID,
			&metric.Value,
			&metric.Label,
			&metric.Context,
			&metric.DisplayOrder,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metric row: %w", err)
		}

		metrics = append(metrics, metric)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return metrics, nil
}

func (db *DB) ListCapabilities(ctx context.Context) ([]TaxonomyTerm, error) {
	return db.listTaxonomy(ctx, `SELECT id, name, slug FROM capabilities ORDER BY name`)
}

func (db *DB) ListIndustries(ctx context.Context) ([]TaxonomyTerm, error) {
	return db.listTaxonomy(ctx, `SELECT id, name, slug FROM industries ORDER BY name`)
}

func (db *DB) ListTopics(ctx context.Context) ([]TaxonomyTerm, error) {
	return db.listTaxonomy(ctx, `SELECT id, name, slug FROM topics ORDER BY name`)
}

func (db *DB) listTaxonomy(ctx context.Context, query string) ([]TaxonomyTerm, error) {
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list taxonomy terms: %w", err)
	}
	defer rows.Close()

	var terms []TaxonomyTerm
	for rows.Next() {
		var term TaxonomyTerm

		if err := rows.Scan(&term.ID, &term.Name, &term.Slug); err != nil {
			return nil, fmt.Errorf("failed to scan taxonomy row: %w", err)
		}

		terms = append(terms, term)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return terms, nil
}

// TODO: Add pagination
func (db *DB) ListDocuments(ctx context.Context) ([]Document, error) {
	query := `SELECT id, title, slug, doc_type FROM documents ORDER BY title`

	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	defer rows.Close()

	var documents []Document
	for rows.Next() {
		var document Document

		if err := rows.Scan(&document.ID, &document.Title, &document.Slug, &document.DocType); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}

		documents = append(documents, document)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return documents, nil
}
