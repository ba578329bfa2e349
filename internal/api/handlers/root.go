package handlers

import (
	"net/http"
)

type RootHandler struct{}

func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

func (h *RootHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "madbus",
		"description": "Live EMT Madrid bus stop and arrival data",
		"endpoints": map[string]string{
			"GET /":                                  "API information",
			"GET /health":                            "Health check",
			"GET /transit/stop/{stopId}":             "Stop metadata and serving lines",
			"GET /transit/stop/{stopId}/arrivals":    "Stop snapshot with live arrival estimates",
			"GET /transit/stop/{stopId}/line/{line}": "Single line status at the stop",
		},
	})
}

func (h *RootHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":   "Route not found",
		"message": "Check the root endpoint (/) for available routes",
	})
}
