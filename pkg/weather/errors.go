package weather

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNetwork      Kind = "network"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindBadStatus    Kind = "bad_status"
	KindMalformed    Kind = "malformed"
)

var (
	ErrNetwork      = errors.New("weather: network failure")
	ErrUnauthorized = errors.New("weather: api key rejected")
	ErrCityNotFound = errors.New("weather: city not found")
	ErrBadStatus    = errors.New("weather: unexpected status")
	ErrMalformed    = errors.New("weather: malformed response")
)

var sentinels = map[Kind]error{
	KindNetwork:      ErrNetwork,
	KindUnauthorized: ErrUnauthorized,
	KindNotFound:     ErrCityNotFound,
	KindBadStatus:    ErrBadStatus,
	KindMalformed:    ErrMalformed,
}

// FetchError is returned for every failed fetch. Status is the HTTP status
// when one was received.
type FetchError struct {
	Kind   Kind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("weather fetch failed (%s", e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(", status %d", e.Status)
	}
	msg += ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return sentinels[e.Kind] == target }

// KindOf returns the failure kind of err, or "" when err is not a fetch error.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

func kindForStatus(status int) Kind {
	switch status {
	case 401, 403:
		return KindUnauthorized
	case 404:
		return KindNotFound
	default:
		return KindBadStatus
	}
}
