package assets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/articlegroup/concierge/internal/analytics"
	"github.com/articlegroup/concierge/internal/cache"
	"github.com/articlegroup/concierge/internal/database"
)

// MockSigner fails for the paths it is told to reject
type MockSigner struct {
	FailPaths map[string]bool

	SignedPaths []string
}

func (m *MockSigner) SignedURL(_ context.Context, bucket, path string, _ time.Duration) (string, error) {
	if m.FailPaths[path] {
		return "", errors.New("presign denied")
	}

	m.SignedPaths = append(m.SignedPaths, path)
	return "https://" + bucket + ".example.com/" + path + "?signed", nil
}

// failingEmbedder guards the cache-hit path: reaching it means the cache
// was bypassed.
type failingEmbedder struct{}

func (failingEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, errors.New("embedder must not be called on a cache hit")
}

func seedAssetRows(t *testing.T, store cache.Store, query string, matchCount int, rows []database.VisualAssetRow) {
	t.Helper()

	key := cache.Key(map[string]any{
		"query":     query,
		"documents": []string(nil),
		"types":     []string(nil),
		"count":     matchCount,
	})

	payload, err := cache.Marshal(rows)
	if err != nil {
		t.Fatalf("Failed to marshal asset rows: %v", err)
	}

	store.Set(context.Background(), cache.PrefixAssets, key, payload, time.Minute)
}

func TestService_Search_SignFailureDropsOnlyThatAsset(t *testing.T) {
	store := cache.NewMemoryStore(10)
	defer store.Close()

	rows := []database.VisualAssetRow{
		{
			ID:            "asset-1",
			DocumentID:    "d1",
			Description:   "Hero still from the rebrand film",
			AssetType:     "image",
			StorageBucket: "portfolio-assets",
			StoragePath:   "d1/hero.jpg",
			Similarity:    0.9,
		},
		{
			ID:            "asset-2",
			DocumentID:    "d2",
			Description:   "Campaign launch teaser",
			AssetType:     "video",
			StorageBucket: "portfolio-assets",
			StoragePath:   "d2/teaser.mp4",
			Similarity:    0.8,
		},
	}
	seedAssetRows(t, store, "rebrand visuals", 4, rows)

	signer := &MockSigner{FailPaths: map[string]bool{"d2/teaser.mp4": true}}
	service := NewService(nil, failingEmbedder{}, signer, store, analytics.Noop{})

	results, err := service.Search(context.Background(), "rebrand visuals", nil, nil, 4)
	if err != nil {
		t.Fatalf("Expected one failed presign to degrade, got %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected exactly the signable asset to survive, got %d results", len(results))
	}
	if results[0].AssetID != "asset-1" {
		t.Errorf("Expected asset-1 to survive, got '%s'", results[0].AssetID)
	}
	if results[0].URL == "" {
		t.Error("Expected the surviving asset to carry a signed URL")
	}
}

func TestService_Search_AllAssetsSignable(t *testing.T) {
	store := cache.NewMemoryStore(10)
	defer store.Close()

	rows := []database.VisualAssetRow{
		{ID: "asset-1", StorageBucket: "portfolio-assets", StoragePath: "d1/hero.jpg"},
		{ID: "asset-2", StorageBucket: "portfolio-assets", StoragePath: "d2/board.png"},
	}
	seedAssetRows(t, store, "brand boards", 4, rows)

	signer := &MockSigner{}
	service := NewService(nil, failingEmbedder{}, signer, store, analytics.Noop{})

	results, err := service.Search(context.Background(), "brand boards", nil, nil, 4)
	if err != nil {
		t.Fatalf("Expected search to succeed, got %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected both assets signed, got %d", len(results))
	}
	if len(signer.SignedPaths) != 2 {
		t.Errorf("Expected two presign calls, got %d", len(signer.SignedPaths))
	}
}
