package vod

import (
	"errors"
)

// ErrNotFound is matched (via errors.Is) by every lookup failure below.
var ErrNotFound = errors.New("not found")

type notFoundError string

func (e notFoundError) Error() string { return string(e) }

func (e notFoundError) Is(target error) bool { return target == ErrNotFound }

var (
	// ErrUserNotFound is returned when the streamer login does not exist.
	ErrUserNotFound error = notFoundError("user does not exist")
	// ErrClipNotFound is returned when the clip slug is unknown.
	ErrClipNotFound error = notFoundError("clip does not exist")
	// ErrBroadcastNotFound is returned when a VOD id is unknown.
	ErrBroadcastNotFound error = notFoundError("vod does not exist")
	// ErrClipBroadcastRemoved is returned when a clip's source VOD was deleted.
	ErrClipBroadcastRemoved error = notFoundError("the vod for this clip has been removed")
	// ErrNoBroadcasts is returned when the streamer has no archived VODs.
	ErrNoBroadcasts error = notFoundError("does not have any available VODs")
	// ErrNoMatchingBroadcast is returned when no VOD covers the resolved moment.
	ErrNoMatchingBroadcast = errors.New("was not streaming at the time of the clip/vod or the vod was deleted")

	// ErrInvalidURL is returned for input that is neither a clip nor a VOD link.
	ErrInvalidURL = errors.New("invalid clip or vod url")
	// ErrInvalidOffset is returned for malformed h/m/s strings.
	ErrInvalidOffset = errors.New("invalid time offset")
)

// GatewayError wraps a transport or provider failure from the data provider.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string { return "gateway " + e.Op + ": " + e.Err.Error() }

func (e *GatewayError) Unwrap() error { return e.Err }

func gatewayErr(op string, err error) error {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return err
	}
	return &GatewayError{Op: op, Err: err}
}

// ErrorClass groups errors by how callers should present them.
type ErrorClass int

const (
	// ErrorClassUnknown is used for nil and unrecognised errors.
	ErrorClassUnknown ErrorClass = iota
	// ErrorClassInvalidInput covers malformed URLs and offsets.
	ErrorClassInvalidInput
	// ErrorClassNotFound covers missing users, clips and VOD lists.
	ErrorClassNotFound
	// ErrorClassNoMatch means the streamer was offline at that moment.
	ErrorClassNoMatch
	// ErrorClassGateway covers Twitch API and network failures.
	ErrorClassGateway
)

// String returns the label used in metrics and API responses.
func (ec ErrorClass) String() string {
	switch ec {
	case ErrorClassInvalidInput:
		return "invalid_input"
	case ErrorClassNotFound:
		return "not_found"
	case ErrorClassNoMatch:
		return "no_match"
	case ErrorClassGateway:
		return "gateway"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by this package to its ErrorClass.
// A GatewayError is always a gateway failure, even when it wraps a parse error
// caused by malformed provider data.
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorClassUnknown
	}
	var ge *GatewayError
	switch {
	case errors.As(err, &ge):
		return ErrorClassGateway
	case errors.Is(err, ErrInvalidURL), errors.Is(err, ErrInvalidOffset):
		return ErrorClassInvalidInput
	case errors.Is(err, ErrNoMatchingBroadcast):
		return ErrorClassNoMatch
	case errors.Is(err, ErrNotFound):
		return ErrorClassNotFound
	default:
		return ErrorClassUnknown
	}
}

// StreamerError prefixes a lookup failure with the streamer's display name,
// e.g. "xQc does not have any available VODs".
type StreamerError struct {
	Streamer string
	Err      error
}

func (e *StreamerError) Error() string { return e.Streamer + " " + e.Err.Error() }

func (e *StreamerError) Unwrap() error { return e.Err }
