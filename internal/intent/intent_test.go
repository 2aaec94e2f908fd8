package intent

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetector_Detect_CapabilityAndIndustry(t *testing.T) {
	detector := NewDefaultDetector()

	result := detector.Detect("Show me fintech rebrand work")

	if len(result.Capabilities) != 1 || result.Capabilities[0] != "brand-strategy" {
		t.Errorf("Expected capabilities=[brand-strategy], got %v", result.Capabilities)
	}
	if len(result.Industries) != 1 || result.Industries[0] != "fintech" {
		t.Errorf("Expected industries=[fintech], got %v", result.Industries)
	}
}

func TestDetector_Detect_CaseInsensitive(t *testing.T) {
	detector := NewDefaultDetector()

	result := detector.Detect("HEALTHCARE Campaign examples")

	if len(result.Industries) != 1 || result.Industries[0] != "healthcare" {
		t.Errorf("Expected industries=[healthcare], got %v", result.Industries)
	}
	if len(result.Capabilities) != 1 || result.Capabilities[0] != "campaigns" {
		t.Errorf("Expected capabilities=[campaigns], got %v", result.Capabilities)
	}
}

func TestDetector_Detect_NoMatchIsEmpty(t *testing.T) {
	detector := NewDefaultDetector()

	result := detector.Detect("hello there")

	if len(result.Capabilities) != 0 {
		t.Errorf("Expected no capabilities, got %v", result.Capabilities)
	}
	if len(result.Industries) != 0 {
		t.Errorf("Expected no industries, got %v", result.Industries)
	}
}

func TestDetector_Detect_DedupesSlugAcrossKeywords(t *testing.T) {
	detector := NewDefaultDetector()

	// "brand" and "rebrand" both map to brand-strategy.
	result := detector.Detect("brand work and a rebrand")

	if len(result.Capabilities) != 1 {
		t.Errorf("Expected one deduplicated slug, got %v", result.Capabilities)
	}
}

func TestDetector_Detect_MultipleSlugsSorted(t *testing.T) {
	detector := NewDefaultDetector()

	result := detector.Detect("video campaign for a fintech launch")

	if len(result.Capabilities) != 2 {
		t.Fatalf("Expected two capabilities, got %v", result.Capabilities)
	}
	if result.Capabilities[0] != "campaigns" || result.Capabilities[1] != "video-production" {
		t.Errorf("Expected sorted [campaigns video-production], got %v", result.Capabilities)
	}
}

func TestLoadTables_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intent.yaml")
	content := []byte("capabilities:\n  packaging: design\nindustries:\n  gaming: technology\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write test tables: %v", err)
	}

	tables, err := LoadTables(path)
	if err != nil {
		t.Fatalf("Expected LoadTables to succeed, got %v", err)
	}

	if tables.Capabilities["packaging"] != "design" {
		t.Error("Expected the override keyword to be present")
	}
	if tables.Industries["gaming"] != "technology" {
		t.Error("Expected the override industry keyword to be present")
	}
	if tables.Industries["fintech"] != "fintech" {
		t.Error("Expected default keywords to survive the merge")
	}
}

func TestLoadTables_MissingFile(t *testing.T) {
	if _, err := LoadTables("/nonexistent/intent.yaml"); err == nil {
		t.Error("Expected an error for a missing tables file")
	}
}
