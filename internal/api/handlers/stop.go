package handlers

import (
	"errors"
	"net/http"

	"github.com/oterogarcia/madbus/internal/transit"
)

type StopHandler struct {
	stops StopProvider
}

func NewStopHandler(stops StopProvider) *StopHandler {
	return &StopHandler{stops: stops}
}

// GetStopInfo returns the stop's metadata and serving lines.
func (h *StopHandler) GetStopInfo(w http.ResponseWriter, r *http.Request) {
	stopID := r.PathValue("stopId")
	if stopID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Stop ID is required",
		})
		return
	}

	snap, err := h.stops.GetStopInfo(stopID)
	if err != nil {
		writeStopError(w, stopID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stop_id": stopID,
		"stop":    snap,
	})
}

// GetArrivals returns the stop snapshot including live arrival estimates.
func (h *StopHandler) GetArrivals(w http.ResponseWriter, r *http.Request) {
	stopID := r.PathValue("stopId")
	if stopID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Stop ID is required",
		})
		return
	}

	snap, err := h.stops.GetArrivals(stopID)
	if err != nil {
		writeStopError(w, stopID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stop_id": stopID,
		"stop":    snap,
	})
}

// GetLineInfo returns one line's status at the stop.
func (h *StopHandler) GetLineInfo(w http.ResponseWriter, r *http.Request) {
	stopID := r.PathValue("stopId")
	line := r.PathValue("line")
	if stopID == "" || line == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Stop ID and line are required",
		})
		return
	}

	status, err := h.stops.GetLineInfo(stopID, line)
	if err != nil {
		writeStopError(w, stopID, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stop_id": stopID,
		"line":    status,
	})
}

func writeStopError(w http.ResponseWriter, stopID string, err error) {
	switch {
	case errors.Is(err, transit.ErrStopNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "Stop not found",
			"message": "Bus stop " + stopID + " is disabled or does not exist",
		})
	case errors.Is(err, transit.ErrBadCredentials):
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":   "EMT authentication failed",
			"message": err.Error(),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "Failed to fetch stop data",
			"message": err.Error(),
		})
	}
}
