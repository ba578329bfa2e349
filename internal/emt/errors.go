package emt

import (
	"errors"
	"fmt"
)

// InvalidToken is the marker stored when the API rejects the login
// credentials. It is distinguishable from "" (never authenticated) so
// polling callers can detect the rejection without handling an error.
const InvalidToken = "invalid token"

var (
	// ErrInvalidCredentials signals a login response with a non-success code.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrStopDisabled signals a stop id the API reports as disabled or
	// nonexistent. Updates skip it and keep the previous snapshot.
	ErrStopDisabled = errors.New("bus stop disabled or does not exist")

	// ErrInvalidToken signals a token the API no longer accepts; the caller
	// is expected to re-authenticate.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// ParseError reports a success-coded response whose payload is missing the
// fields the client needs. That is an API contract violation the caller
// cannot recover from locally.
type ParseError struct {
	What string // which payload: "token", "stop info" or "arrivals"
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unparseable %s response: %v", e.What, e.Err)
	}
	return fmt.Sprintf("unparseable %s response", e.What)
}

func (e *ParseError) Unwrap() error { return e.Err }
