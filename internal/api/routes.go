package api

import (
	"github.com/articlegroup/concierge/internal/middleware"
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check with pipeline analytics").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/chat").
			To(handler.Chat).
			Doc("Turn a business query into a ranked content layout").
			Metadata(restfulspec.KeyOpenAPITags, []string{"chat"}).
			Reads(ChatRequest{}).
			Writes(ChatResponse{}).
			Returns(200, "OK", ChatResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(429, "Too Many Requests", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	// Admin: Clear cache endpoint
	ws.
		Route(ws.POST("/admin/cache/clear").
			To(handler.ClearCache).
			Doc("Clear all result caches").
			Metadata(restfulspec.KeyOpenAPITags, []string{"admin"}).
			Returns(200, "OK", map[string]string{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
