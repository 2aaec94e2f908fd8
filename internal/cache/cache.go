package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Well-known key prefixes, one per data class. TTLs differ by class because
// embeddings are content-addressed while orchestrator answers must track
// fresh evidence.
const (
	PrefixEmbedding    = "embedding"
	PrefixSearch       = "search"
	PrefixAssets       = "assets"
	PrefixOrchestrator = "orchestrator"
)

// Store is a time-boxed key/value cache. Values are opaque JSON payloads so
// both the in-memory and Redis backends share one contract.
type Store interface {
	Get(ctx context.Context, prefix, key string) ([]byte, bool)
	Set(ctx context.Context, prefix, key string, value []byte, ttl time.Duration)
	ClearPrefix(ctx context.Context, prefix string) error
	Close()
}

// Key derives a deterministic cache key from any JSON-serializable lookup
// input. The digest keeps keys short regardless of input size.
func Key(input any) string {
	data, err := json.Marshal(input)
	if err != nil {
		return "unserializable"
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Marshal/Unmarshal are thin helpers so call sites cache typed values
// without repeating the encoding.
func Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
