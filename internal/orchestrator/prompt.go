package orchestrator

import (
	"fmt"
	"strings"

	"github.com/articlegroup/concierge/internal/retriever"
)

const maxHistoryMessages = 10

// systemInstructions constrain the model to the closed component vocabulary
// and to the supplied evidence. Kept as one block so prompt changes are a
// single diff.
const systemInstructions = `You are a portfolio concierge for a creative agency. Given a business query and retrieved evidence, you compose a page layout that answers the query using ONLY the evidence provided.

Rules:
1. Respond with exactly one fenced JSON block, then a short prose rationale.
2. The JSON object has this shape: {"layout": [{"component": "<name>", "props": {...}}], "suggestedFollowUps": ["..."]}
3. Allowed component names: hero, caseStudyTeaser, articleTeaser, metricsGrid, quoteBlock, imageGallery, videoPlayer, textSection, contactCard. No other names.
4. caseStudyTeaser and articleTeaser props require "title" and "slug" copied from the evidence.
5. Use image or video props ONLY when the evidence record contains that URL. Never invent media.
6. Every claim in props and rationale must be grounded in the evidence records.
7. If no evidence is relevant, return {"layout": []} and say so plainly in the rationale.
8. Optionally include up to three suggestedFollowUps the visitor might ask next.`

func buildPrompt(query string, evidence *retriever.RetrievedContext, history []Message) string {
	var prompt strings.Builder

	prompt.WriteString(systemInstructions)
	prompt.WriteString("\n\n")

	if section := historySection(history); section != "" {
		prompt.WriteString(section)
		prompt.WriteString("\n")
	}

	prompt.WriteString(evidenceSection(evidence))
	prompt.WriteString("\n")
	prompt.WriteString(fmt.Sprintf("Current query: %s\n", query))

	return prompt.String()
}

func historySection(history []Message) string {
	if len(history) == 0 {
		return ""
	}

	messages := history
	if len(messages) > maxHistoryMessages {
		messages = messages[len(messages)-maxHistoryMessages:]
	}

	var section strings.Builder
	section.WriteString("Conversation history:\n")
	for _, message := range messages {
		section.WriteString(fmt.Sprintf("%s: %s\n", message.Role, message.Content))
	}

	return section.String()
}

// evidenceSection serializes the retrieved context into explicit
// "field: value" records so the model never has to infer structure.
func evidenceSection(evidence *retriever.RetrievedContext) string {
	var section strings.Builder

	section.WriteString("<evidence>\n")

	for i, chunk := range evidence.Chunks {
		section.WriteString(fmt.Sprintf("[content %d]\n", i+1))
		section.WriteString(fmt.Sprintf("type: %s\n", chunk.DocType))
		section.WriteString(fmt.Sprintf("title: %s\n", chunk.Title))
		section.WriteString(fmt.Sprintf("slug: %s\n", chunk.Slug))
		if chunk.ClientName != "" {
			section.WriteString(fmt.Sprintf("client: %s\n", chunk.ClientName))
		}
		if chunk.Author != "" {
			section.WriteString(fmt.Sprintf("author: %s\n", chunk.Author))
		}
		if chunk.HeroImageURL != "" {
			section.WriteString(fmt.Sprintf("image: %s\n", chunk.HeroImageURL))
		}
		if chunk.VideoURL != "" {
			section.WriteString(fmt.Sprintf("video: %s\n", chunk.VideoURL))
		}
		section.WriteString(fmt.Sprintf("relevance: %.2f\n", chunk.CombinedScore))
		section.WriteString(fmt.Sprintf("excerpt: %s\n\n", chunk.Content))
	}

	for i, asset := range evidence.Assets {
		section.WriteString(fmt.Sprintf("[visual %d]\n", i+1))
		section.WriteString(fmt.Sprintf("asset_type: %s\n", asset.AssetType))
		if asset.Title != "" {
			section.WriteString(fmt.Sprintf("title: %s\n", asset.Title))
		}
		section.WriteString(fmt.Sprintf("description: %s\n", asset.Description))
		section.WriteString(fmt.Sprintf("url: %s\n\n", asset.URL))
	}

	for i, metric := range evidence.Metrics {
		section.WriteString(fmt.Sprintf("[metric %d]\n", i+1))
		section.WriteString(fmt.Sprintf("value: %s\n", metric.Value))
		section.WriteString(fmt.Sprintf("label: %s\n", metric.Label))
		if metric.Context != "" {
			section.WriteString(fmt.Sprintf("context: %s\n", metric.Context))
		}
		section.WriteString("\n")
	}

	if len(evidence.Chunks) == 0 && len(evidence.Assets) == 0 {
		section.WriteString("(no matching evidence)\n")
	}

	section.WriteString("</evidence>\n")

	return section.String()
}
