package handlers

import (
	"github.com/oterogarcia/madbus/internal/emt"
	"github.com/oterogarcia/madbus/internal/transit"
)

// StopProvider abstracts the EMT stop service for testability.
type StopProvider interface {
	GetStopInfo(stopID string) (*emt.StopSnapshot, error)
	GetArrivals(stopID string) (*emt.StopSnapshot, error)
	GetLineInfo(stopID, line string) (*transit.LineStatus, error)
}
