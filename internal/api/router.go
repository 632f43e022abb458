package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"sparql-flatten/internal/api/handler"
	"sparql-flatten/pkg/router"

	_ "sparql-flatten/docs"
)

func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.GET("/health", h.Health)
	r.POST("/api/v1/flatten", h.Flatten)
	r.GET("/api/v1/runs", h.ListRuns)
	// More specific routes first
	r.GET("/api/v1/runs/*/errors", h.GetRunErrors)
	// Generic run route last
	r.GET("/api/v1/runs/*", h.GetRun)
	r.Handle(http.MethodGet, "/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}
