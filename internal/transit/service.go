// Package transit exposes EMT Madrid stop data behind a serialized, cached
// service suitable for the HTTP layer.
package transit

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/oterogarcia/madbus/internal/cache"
	"github.com/oterogarcia/madbus/internal/emt"
)

var (
	// ErrStopNotFound reports a stop id the EMT API knows nothing about, or
	// one it has disabled.
	ErrStopNotFound = errors.New("bus stop not found")

	// ErrBadCredentials reports that the EMT API rejected the configured
	// account.
	ErrBadCredentials = errors.New("EMT API rejected the configured credentials")
)

// LineStatus pairs a line's static description with the padded two-slot
// arrival view used by display surfaces.
type LineStatus struct {
	Line         string        `json:"line"`
	Info         *emt.LineInfo `json:"info"`
	NextArrivals []*int        `json:"next_arrivals"`
}

// StopService serializes access to a single emt.Client and caches snapshot
// copies per stop id. The client is not safe for concurrent use, so every
// refresh runs under the mutex; cached reads don't touch the client at all.
type StopService struct {
	mu       sync.Mutex
	client   *emt.Client
	email    string
	password string

	infoCache    *cache.Cache[*emt.StopSnapshot]
	arrivalCache *cache.Cache[*emt.StopSnapshot]
}

// NewStopService wraps client with the given EMT account. cacheTTL bounds
// how long stop metadata and arrival estimates are served without hitting
// the API again.
func NewStopService(client *emt.Client, email, password string, cacheTTL time.Duration) *StopService {
	return &StopService{
		client:       client,
		email:        email,
		password:     password,
		infoCache:    cache.New[*emt.StopSnapshot](cacheTTL),
		arrivalCache: cache.New[*emt.StopSnapshot](cacheTTL),
	}
}

// Authenticate logs in eagerly so a misconfigured account fails at startup
// instead of on the first request.
func (s *StopService) Authenticate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureTokenLocked()
}

// GetStopInfo returns the stop's metadata snapshot, refreshing it from the
// API when the cached copy has expired.
func (s *StopService) GetStopInfo(stopID string) (*emt.StopSnapshot, error) {
	if snap, ok := s.infoCache.Get(stopID); ok {
		return snap, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureTokenLocked(); err != nil {
		return nil, err
	}
	if err := s.updateLocked(stopID, s.client.UpdateStopInfo); err != nil {
		return nil, err
	}
	if err := s.trackingLocked(stopID); err != nil {
		return nil, err
	}

	snap := s.client.StopInfo().Clone()
	s.infoCache.Set(stopID, snap)
	return snap, nil
}

// GetArrivals returns the stop snapshot with live arrival estimates,
// fetching the stop metadata first when the client is not tracking this
// stop yet.
func (s *StopService) GetArrivals(stopID string) (*emt.StopSnapshot, error) {
	if snap, ok := s.arrivalCache.Get(stopID); ok {
		return snap, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureTokenLocked(); err != nil {
		return nil, err
	}
	if err := s.trackingLocked(stopID); err != nil {
		// Stop metadata is static; fetch it only when switching stops.
		if err := s.updateLocked(stopID, s.client.UpdateStopInfo); err != nil {
			return nil, err
		}
		if err := s.trackingLocked(stopID); err != nil {
			return nil, err
		}
	}
	if err := s.updateLocked(stopID, s.client.UpdateArrivalTimes); err != nil {
		return nil, err
	}

	snap := s.client.StopInfo().Clone()
	s.arrivalCache.Set(stopID, snap)
	return snap, nil
}

// GetLineInfo returns one line's status at the stop, including the two-slot
// arrival view. Lines the stop does not serve come back as a fully-null
// placeholder rather than an error.
func (s *StopService) GetLineInfo(stopID, line string) (*LineStatus, error) {
	snap, err := s.GetArrivals(stopID)
	if err != nil {
		return nil, err
	}
	// Work on a copy: the cached snapshot is shared across requests and
	// LineInfo pads an empty distance sequence in place.
	snap = snap.Clone()
	return &LineStatus{
		Line:         line,
		Info:         snap.LineInfo(line),
		NextArrivals: snap.ArrivalTimes(line),
	}, nil
}

// updateLocked runs one client update and, when the API reports the token as
// expired mid-session, re-authenticates once and retries. Caller holds s.mu.
func (s *StopService) updateLocked(stopID string, update func(string) error) error {
	err := update(stopID)
	if errors.Is(err, emt.ErrInvalidToken) {
		log.Info().Str("stop", stopID).Msg("EMT token rejected, re-authenticating")
		if err = s.loginLocked(); err != nil {
			return err
		}
		err = update(stopID)
	}
	return err
}

// trackingLocked checks that the client snapshot carries the requested stop.
// A disabled or unknown stop leaves the snapshot untouched, so the requested
// id never makes it in.
func (s *StopService) trackingLocked(stopID string) error {
	snap := s.client.StopInfo()
	if snap.StopID == nil || *snap.StopID != stopID {
		return ErrStopNotFound
	}
	return nil
}

func (s *StopService) ensureTokenLocked() error {
	if token := s.client.Token(); token != "" && token != emt.InvalidToken {
		return nil
	}
	return s.loginLocked()
}

func (s *StopService) loginLocked() error {
	token, err := s.client.Authenticate(s.email, s.password)
	if err != nil {
		return fmt.Errorf("authenticating with EMT API: %w", err)
	}
	if token == emt.InvalidToken {
		return ErrBadCredentials
	}
	return nil
}
