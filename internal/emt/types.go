// Package emt is a client for the EMT Madrid MobilityLabs bus API.
package emt

import "github.com/rs/zerolog/log"

// StopSnapshot is the client's in-memory view of a single bus stop: static
// metadata plus the latest live arrival estimates for each serving line.
// It is mutated in place by successive parses and only constructed once per
// Client.
type StopSnapshot struct {
	StopID      *string              `json:"stop_id"`
	StopName    *string              `json:"stop_name"`
	Coordinates []float64            `json:"coordinates"` // [longitude, latitude]
	Address     *string              `json:"address"`
	Lines       map[string]*LineInfo `json:"lines"`
}

// LineInfo describes one bus line serving the stop. Arrivals and Distance
// are parallel, index-aligned sequences: they are cleared together and
// rebuilt from scratch on every successful arrivals fetch.
type LineInfo struct {
	Destination *string    `json:"destination"`
	Origin      *string    `json:"origin"`
	MaxFreq     *int       `json:"max_freq"` // minutes
	MinFreq     *int       `json:"min_freq"` // minutes
	StartTime   *string    `json:"start_time"`
	EndTime     *string    `json:"end_time"`
	DayType     *string    `json:"day_type"`
	Distance    []*float64 `json:"distance"` // metres, as reported
	Arrivals    []*int     `json:"arrivals"` // minutes, capped at 45
}

// NewStopSnapshot returns an empty snapshot with no stop assigned yet.
func NewStopSnapshot() *StopSnapshot {
	return &StopSnapshot{Lines: map[string]*LineInfo{}}
}

// ArrivalTimes returns the line's next arrivals in minutes as exactly two
// entries, nil-padded when fewer estimates are available and truncated when
// there are more. An unknown line yields two nils.
func (s *StopSnapshot) ArrivalTimes(line string) []*int {
	out := make([]*int, 2)
	info, ok := s.Lines[line]
	if !ok {
		return out
	}
	copy(out, info.Arrivals)
	return out
}

// LineInfo returns the stored info for a line. An empty distance sequence is
// padded with a single nil so display surfaces always have a value to show.
// Unknown lines yield a fully-null placeholder.
func (s *StopSnapshot) LineInfo(line string) *LineInfo {
	info, ok := s.Lines[line]
	if !ok {
		log.Warn().Str("line", line).Msg("Bus line does not serve this stop")
		return &LineInfo{
			Distance: []*float64{nil},
			Arrivals: []*int{nil, nil},
		}
	}
	if info.Distance != nil && len(info.Distance) == 0 {
		info.Distance = append(info.Distance, nil)
	}
	return info
}

// Clone returns a deep copy safe to hand out while the original keeps being
// mutated by later fetches.
func (s *StopSnapshot) Clone() *StopSnapshot {
	out := &StopSnapshot{
		StopID:   s.StopID,
		StopName: s.StopName,
		Address:  s.Address,
		Lines:    make(map[string]*LineInfo, len(s.Lines)),
	}
	if s.Coordinates != nil {
		out.Coordinates = make([]float64, len(s.Coordinates))
		copy(out.Coordinates, s.Coordinates)
	}
	for label, info := range s.Lines {
		copied := *info
		copied.Arrivals = make([]*int, len(info.Arrivals))
		copy(copied.Arrivals, info.Arrivals)
		copied.Distance = make([]*float64, len(info.Distance))
		copy(copied.Distance, info.Distance)
		out.Lines[label] = &copied
	}
	return out
}
