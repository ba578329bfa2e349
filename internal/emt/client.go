package emt

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the production MobilityLabs API.
const DefaultBaseURL = "https://openapi.emtmadrid.es/"

const (
	endpointLogin      = "v1/mobilitylabs/user/login/"
	endpointStopDetail = "v1/transport/busemtmad/stops/%s/detail/"
	endpointArrivals   = "v2/transport/busemtmad/stops/%s/arrives/"
)

// Client talks to the EMT Madrid API and keeps the snapshot of one bus stop.
// It is not safe for concurrent use: an interleaved update could clear a
// line's sequences while another call repopulates them. Callers serialize
// access, typically one Client per tracked stop.
type Client struct {
	baseURL  string
	client   *http.Client
	token    string
	snapshot *StopSnapshot
}

// New creates a client against baseURL (DefaultBaseURL when empty). Every
// request is bounded by timeout; there is no retry policy.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: timeout},
		snapshot: NewStopSnapshot(),
	}
}

// Authenticate logs in with the given credentials and stores the access
// token. A rejected login stores and returns InvalidToken with a nil error
// so a polling caller can check the marker instead of handling a failure.
func (c *Client) Authenticate(email, password string) (string, error) {
	headers := map[string]string{"email": email, "password": password}
	body, err := c.send(http.MethodGet, c.baseURL+endpointLogin, headers, nil)
	if err != nil {
		return "", err
	}

	token, err := ParseToken(body)
	if errors.Is(err, ErrInvalidCredentials) {
		log.Warn().Msg("EMT login rejected: invalid email or password")
		c.token = InvalidToken
		return c.token, nil
	}
	if err != nil {
		return "", err
	}
	c.token = token
	return c.token, nil
}

// Token returns the stored access token: "" before the first login,
// InvalidToken after a rejected one.
func (c *Client) Token() string { return c.token }

// UpdateStopInfo fetches the stop's static metadata and replaces the
// snapshot's stop fields and lines map. With the InvalidToken marker stored
// no request is made and the snapshot stays untouched. A disabled or
// nonexistent stop is logged and skipped, keeping the previous snapshot.
func (c *Client) UpdateStopInfo(stopID string) error {
	if c.token == InvalidToken {
		return ErrInvalidToken
	}

	url := c.baseURL + fmt.Sprintf(endpointStopDetail, stopID)
	body, err := c.send(http.MethodGet, url, c.authHeaders(), nil)
	if err != nil {
		return err
	}

	err = ParseStopInfo(body, c.snapshot)
	if errors.Is(err, ErrStopDisabled) {
		log.Warn().Str("stop", stopID).Msg("Bus stop disabled or does not exist")
		return nil
	}
	return err
}

// UpdateArrivalTimes fetches live estimates and rebuilds every known line's
// arrivals and distance sequences. Same token and disabled-stop handling as
// UpdateStopInfo.
func (c *Client) UpdateArrivalTimes(stopID string) error {
	if c.token == InvalidToken {
		return ErrInvalidToken
	}

	url := c.baseURL + fmt.Sprintf(endpointArrivals, stopID)
	payload := map[string]string{
		"stopId":                      stopID,
		"Text_EstimationsRequired_YN": "Y",
	}
	body, err := c.send(http.MethodPost, url, c.authHeaders(), payload)
	if err != nil {
		return err
	}

	err = ParseArrivals(body, c.snapshot)
	if errors.Is(err, ErrStopDisabled) {
		log.Warn().Str("stop", stopID).Msg("Bus stop disabled or does not exist")
		return nil
	}
	return err
}

// StopInfo returns the current snapshot. It is the live view owned by the
// Client; callers must treat it as read-only.
func (c *Client) StopInfo() *StopSnapshot { return c.snapshot }

// ArrivalTimes returns the line's next arrivals in minutes, always exactly
// two entries. See StopSnapshot.ArrivalTimes.
func (c *Client) ArrivalTimes(line string) []*int {
	return c.snapshot.ArrivalTimes(line)
}

// LineInfo returns the stored info for a line, or a fully-null placeholder
// for a line that does not serve this stop. See StopSnapshot.LineInfo.
func (c *Client) LineInfo(line string) *LineInfo {
	return c.snapshot.LineInfo(line)
}

func (c *Client) authHeaders() map[string]string {
	return map[string]string{"accessToken": c.token}
}

// send performs one bounded request and returns the response body. Failed
// requests are not retried; transport errors and non-OK statuses propagate
// to the caller.
func (c *Client) send(method, url string, headers map[string]string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connecting to EMT API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("EMT API returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
