package emt

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Response codes used by the MobilityLabs API. Every endpoint wraps its
// payload in the same {code, description, data} envelope.
const (
	codeLoginOK      = "01"
	codeInvalidToken = "80"
	codeStopDisabled = "90"
)

const maxArrivalMinutes = 45

type envelope struct {
	Code        string            `json:"code"`
	Description string            `json:"description"`
	Data        []json.RawMessage `json:"data"`
}

type loginPayload struct {
	AccessToken string `json:"accessToken"`
}

type stopDetailPayload struct {
	Stops []stopRecord `json:"stops"`
}

type stopRecord struct {
	Stop     string  `json:"stop"`
	Name     *string `json:"name"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	PostalAddress *string      `json:"postalAddress"`
	DataLine      []lineRecord `json:"dataLine"`
}

type lineRecord struct {
	Label     string `json:"label"`
	Direction string `json:"direction"`
	MaxFreq   string `json:"maxFreq"` // minutes, sent as a string
	MinFreq   string `json:"minFreq"`
	StartTime string `json:"startTime"`
	StopTime  string `json:"stopTime"`
	DayType   string `json:"dayType"`
	HeaderA   string `json:"headerA"`
	HeaderB   string `json:"headerB"`
}

type arrivalsPayload struct {
	Arrive []arriveRecord `json:"Arrive"`
}

type arriveRecord struct {
	Line           string  `json:"line"`
	EstimateArrive int     `json:"estimateArrive"` // seconds
	DistanceBus    float64 `json:"DistanceBus"`    // metres
}

// ParseToken extracts the access token from a login response. A non-success
// code means the credentials were rejected; a success code without a token
// is a malformed response.
func ParseToken(raw []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", &ParseError{What: "token", Err: err}
	}
	if env.Code != codeLoginOK {
		return "", ErrInvalidCredentials
	}
	if len(env.Data) == 0 {
		return "", &ParseError{What: "token"}
	}
	var login loginPayload
	if err := json.Unmarshal(env.Data[0], &login); err != nil {
		return "", &ParseError{What: "token", Err: err}
	}
	if login.AccessToken == "" {
		return "", &ParseError{What: "token"}
	}
	return login.AccessToken, nil
}

// ParseStopInfo remaps a stop-detail response into the snapshot, replacing
// the stop fields and the whole lines map. The snapshot is left untouched on
// any error.
func ParseStopInfo(raw []byte, snap *StopSnapshot) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &ParseError{What: "stop info", Err: err}
	}
	switch env.Code {
	case codeStopDisabled:
		return ErrStopDisabled
	case codeInvalidToken:
		return ErrInvalidToken
	}
	if len(env.Data) == 0 {
		return &ParseError{What: "stop info"}
	}
	var detail stopDetailPayload
	if err := json.Unmarshal(env.Data[0], &detail); err != nil {
		return &ParseError{What: "stop info", Err: err}
	}
	if len(detail.Stops) == 0 {
		return &ParseError{What: "stop info"}
	}
	stop := detail.Stops[0]
	if stop.Stop == "" || stop.Name == nil || stop.PostalAddress == nil || stop.DataLine == nil {
		return &ParseError{What: "stop info"}
	}
	lines, err := parseLines(stop.DataLine)
	if err != nil {
		return err
	}

	snap.StopID = &stop.Stop
	snap.StopName = stop.Name
	snap.Coordinates = stop.Geometry.Coordinates
	snap.Address = stop.PostalAddress
	snap.Lines = lines
	return nil
}

func parseLines(records []lineRecord) (map[string]*LineInfo, error) {
	lines := make(map[string]*LineInfo, len(records))
	for _, rec := range records {
		maxFreq, err := strconv.Atoi(rec.MaxFreq)
		if err != nil {
			return nil, &ParseError{What: "stop info", Err: err}
		}
		minFreq, err := strconv.Atoi(rec.MinFreq)
		if err != nil {
			return nil, &ParseError{What: "stop info", Err: err}
		}

		info := &LineInfo{
			MaxFreq:   &maxFreq,
			MinFreq:   &minFreq,
			StartTime: &rec.StartTime,
			EndTime:   &rec.StopTime,
			DayType:   &rec.DayType,
			Distance:  []*float64{},
			Arrivals:  []*int{},
		}
		// Direction "A" means the stop is served towards headerA; any other
		// value flips origin and destination.
		if rec.Direction == "A" {
			info.Destination = &rec.HeaderA
			info.Origin = &rec.HeaderB
		} else {
			info.Destination = &rec.HeaderB
			info.Origin = &rec.HeaderA
		}
		lines[rec.Label] = info
	}
	return lines, nil
}

// ParseArrivals rebuilds every known line's arrivals and distance sequences
// from an arrivals response. Records for lines the snapshot does not know
// are dropped. On any error the snapshot keeps its previous sequences.
func ParseArrivals(raw []byte, snap *StopSnapshot) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &ParseError{What: "arrivals", Err: err}
	}
	// The API reuses code 80 for both an expired token and a disabled stop;
	// the description text is the only way to tell them apart. The token
	// check must run first.
	if env.Code == codeInvalidToken {
		if strings.Contains(env.Description, "token") {
			return ErrInvalidToken
		}
		return ErrStopDisabled
	}
	if len(env.Data) == 0 {
		return &ParseError{What: "arrivals"}
	}
	var payload arrivalsPayload
	if err := json.Unmarshal(env.Data[0], &payload); err != nil {
		return &ParseError{What: "arrivals", Err: err}
	}

	for _, info := range snap.Lines {
		info.Arrivals = []*int{}
		info.Distance = []*float64{}
	}
	for _, arrive := range payload.Arrive {
		info, ok := snap.Lines[arrive.Line]
		if !ok {
			continue
		}
		// 45 minutes is the display convention for "unknown or too far".
		minutes := arrive.EstimateArrive / 60
		if minutes > maxArrivalMinutes {
			minutes = maxArrivalMinutes
		}
		distance := arrive.DistanceBus
		info.Arrivals = append(info.Arrivals, &minutes)
		info.Distance = append(info.Distance, &distance)
	}
	return nil
}
