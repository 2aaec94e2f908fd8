package api

import (
	"github.com/articlegroup/concierge/internal/analytics"
	"github.com/articlegroup/concierge/internal/layout"
	"github.com/articlegroup/concierge/internal/orchestrator"
)

const maxQueryLength = 2000

type ChatRequest struct {
	Query               string                 `json:"query" description:"Free-text business query"`
	ConversationHistory []orchestrator.Message `json:"conversationHistory,omitempty"`
}

type ChatResponse struct {
	RequestID          string              `json:"request_id"`
	Layout             layout.Plan         `json:"layout"`
	Render             []layout.RenderUnit `json:"render"`
	Explanation        string              `json:"explanation"`
	SuggestedFollowUps []string            `json:"suggestedFollowUps,omitempty"`
	ContactCTA         bool                `json:"contactCTA,omitempty"`
}

type HealthResponse struct {
	Status    string             `json:"status" description:"Service status"`
	Version   string             `json:"version" description:"API version"`
	Analytics analytics.Snapshot `json:"analytics"`
}
