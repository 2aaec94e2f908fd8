package embedding

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate_ShortInputUnchanged(t *testing.T) {
	input := "brand strategy for a fintech"

	if got := truncate(input); got != input {
		t.Errorf("Expected short input unchanged, got %q", got)
	}
}

func TestTruncate_LongInputBounded(t *testing.T) {
	input := strings.Repeat("a", maxInputChars+500)

	got := truncate(input)
	if len(got) != maxInputChars {
		t.Errorf("Expected exactly %d bytes, got %d", maxInputChars, len(got))
	}
}

func TestTruncate_DoesNotSplitRunes(t *testing.T) {
	// Fill up to just under the limit, then cross it with multi-byte
	// characters so the byte cut lands inside one.
	input := strings.Repeat("a", maxInputChars-2) + strings.Repeat("€", 3)

	got := truncate(input)
	if !utf8.ValidString(got) {
		t.Fatal("Expected truncation to preserve UTF-8 validity")
	}
	if len(got) > maxInputChars {
		t.Errorf("Expected at most %d bytes, got %d", maxInputChars, len(got))
	}
}
