// internal/server/server.go
package server

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"itinerary-planner/internal/common/config"
)

// New builds the HTTP server with all routes, CORS, and the Prometheus
// scrape endpoint.
func New(cfg config.ServerConfig, h *Handlers) *http.Server {
	router := httprouter.New()

	router.POST("/api/itinerary", h.GenerateItinerary)

	router.GET("/api/events", h.ListEvents)
	router.POST("/api/events", h.CreateEvent)
	router.GET("/api/events/:id", h.GetEvent)
	router.PUT("/api/events/:id", h.UpdateEvent)
	router.DELETE("/api/events/:id", h.DeleteEvent)

	router.GET("/health", h.Health)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return &http.Server{
		Addr:         cfg.Address,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
