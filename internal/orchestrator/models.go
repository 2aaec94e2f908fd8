package orchestrator

import "github.com/articlegroup/concierge/internal/layout"

// Message is one turn of prior conversation supplied by the caller.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is the orchestrator's outward contract. It always carries a
// coherent explanation, even when the layout is empty; a thrown or empty
// response is never acceptable here.
type Result struct {
	Layout             layout.Plan `json:"layout"`
	Explanation        string      `json:"explanation"`
	SuggestedFollowUps []string    `json:"suggested_follow_ups,omitempty"`
	ContactCTA         bool        `json:"contact_cta"`
}

// modelPayload is the JSON object expected inside the model's fenced block.
type modelPayload struct {
	Layout             []layout.Component `json:"layout"`
	SuggestedFollowUps []string           `json:"suggestedFollowUps"`
}
