package orchestrator

import (
	"encoding/json"
	"strings"

	"github.com/articlegroup/concierge/internal/layout"
	"github.com/rs/zerolog/log"
)

const fallbackExplanation = "I couldn't find portfolio work that matches that request. Reach out to the team and we'll point you at the right examples."

// noRelevantPhrases mark an explanation as a miss even when a layout
// parses; the consuming UI surfaces a human-contact fallback then.
var noRelevantPhrases = []string{
	"no relevant",
	"couldn't find",
	"could not find",
	"no matching",
	"nothing in the portfolio",
}

// parseResponse extracts the first fenced JSON block and the trailing prose.
// Any parse failure degrades to an empty layout with the contact fallback;
// the parse error never reaches the caller.
func parseResponse(content string) Result {
	block, rest, ok := extractFencedJSON(content)
	if !ok {
		log.Warn().Msg("Model response contained no fenced JSON block")
		return fallbackResult()
	}

	var payload modelPayload
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		log.Warn().Err(err).Msg("Failed to parse model layout JSON")
		return fallbackResult()
	}

	explanation := strings.TrimSpace(rest)
	if explanation == "" {
		explanation = "Here is a selection of relevant work."
	}

	result := Result{
		Layout:             layout.Plan{Layout: payload.Layout},
		Explanation:        explanation,
		SuggestedFollowUps: payload.SuggestedFollowUps,
	}

	if result.Layout.Empty() || signalsNoContent(explanation) {
		result.ContactCTA = true
	}

	return result
}

func fallbackResult() Result {
	return Result{
		Layout:      layout.Plan{},
		Explanation: fallbackExplanation,
		ContactCTA:  true,
	}
}

// extractFencedJSON returns the body of the first ``` fence (with or
// without a json language tag) and everything after the closing fence.
func extractFencedJSON(content string) (block string, rest string, ok bool) {
	start := strings.Index(content, "```")
	if start == -1 {
		return "", "", false
	}

	body := content[start+3:]
	if after, found := strings.CutPrefix(body, "json"); found {
		body = after
	}

	end := strings.Index(body, "```")
	if end == -1 {
		return "", "", false
	}

	return strings.TrimSpace(body[:end]), body[end+3:], true
}

func signalsNoContent(explanation string) bool {
	lowered := strings.ToLower(explanation)

	for _, phrase := range noRelevantPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}

	return false
}
