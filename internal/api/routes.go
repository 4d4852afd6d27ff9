package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "shipquery/docs" // swagger spec registration
	"shipquery/internal/api/handler"
	"shipquery/pkg/router"
)

// RegisterRoutes wires all endpoints onto the router. More specific routes
// are registered first; the router matches in registration order.
func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.POST("/api/v1/datasets", h.UploadDataset)
	r.GET("/api/v1/fields", h.ListFields)
	r.POST("/api/v1/questions", h.AskQuestion)
	r.GET("/api/v1/history", h.GetHistory)
	r.GET("/swagger/*", router.HandlerFunc(httpSwagger.WrapHandler))
}
