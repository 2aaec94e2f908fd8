package search

import (
	"net/http"

	"github.com/articlegroup/concierge/internal/database"
	"github.com/articlegroup/concierge/internal/middleware"
	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Hybrid handles POST /search/v1/hybrid
func (h *Handler) Hybrid(req *restful.Request, resp *restful.Response) {
	var searchRequest Request

	if err := req.ReadEntity(&searchRequest); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if searchRequest.Query == "" {
		middleware.HandleError(resp, middleware.ErrEmptyQuery, http.StatusBadRequest)
		return
	}

	if searchRequest.Limit == 0 {
		searchRequest.Limit = 10
	}
	if searchRequest.SemanticWeight == 0 {
		searchRequest.SemanticWeight = DefaultSemanticWeight
	}

	ctx := req.Request.Context()

	filters := database.ChunkFilters{
		DocTypes:     searchRequest.DocTypes,
		Capabilities: searchRequest.Capabilities,
		Industries:   searchRequest.Industries,
	}

	results, err := h.service.Search(ctx, searchRequest.Query, filters, searchRequest.Limit, searchRequest.SemanticWeight)
	if err != nil {
		log.Error().Err(err).Msg("Hybrid search failed")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	response := Response{
		Query:  searchRequest.Query,
		Result: results,
		Count:  len(results),
		Method: "hybrid",
	}

	resp.WriteEntity(response)
}

// Documents handles GET /search/v1/documents
func (h *Handler) Documents(req *restful.Request, resp *restful.Response) {
	documents, err := h.service.ListDocuments(req.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list documents")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteEntity(map[string]any{
		"documents": documents,
		"count":     len(documents),
	})
}
