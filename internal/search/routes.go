package search

import (
	"github.com/emicklei/go-restful/v3"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)
	ws.
		Path("/search/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Hybrid search debugging endpoint
	ws.Route(ws.POST("/hybrid").
		To(handler.Hybrid).
		Doc("Hybrid vector + keyword search").
		Reads(Request{}).
		Writes(Response{}))

	ws.Route(ws.GET("/documents").
		To(handler.Documents).
		Doc("List indexed documents"))

	container.Add(ws)
}
