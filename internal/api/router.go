package api

import (
	"net/http"
	"time"

	"github.com/oterogarcia/madbus/internal/api/handlers"
)

// NewRouter creates and configures the HTTP router with all routes and
// middleware.
func NewRouter(stops handlers.StopProvider) http.Handler {
	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler()
	rootHandler := handlers.NewRootHandler()
	stopHandler := handlers.NewStopHandler(stops)

	mux.HandleFunc("GET /{$}", rootHandler.Index)
	mux.HandleFunc("GET /health", healthHandler.Health)

	mux.HandleFunc("GET /transit/stop/{stopId}", stopHandler.GetStopInfo)
	mux.HandleFunc("GET /transit/stop/{stopId}/arrivals", stopHandler.GetArrivals)
	mux.HandleFunc("GET /transit/stop/{stopId}/line/{line}", stopHandler.GetLineInfo)

	mux.HandleFunc("/", rootHandler.NotFound)

	return Chain(mux,
		Recovery,
		Logging,
		CORS,
		Timeout(15*time.Second),
	)
}
