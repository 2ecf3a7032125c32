package httpd

import (
	"errors"
	"fmt"

	"github.com/muurk/slhttpd/internal/firmware"
	"github.com/muurk/slhttpd/internal/registry"
)

var (
	// ErrAlreadyExists is returned when a token id is registered twice.
	ErrAlreadyExists = registry.ErrExists
	// ErrNotFound is returned for token ids with no registration.
	ErrNotFound = registry.ErrNotFound
	// ErrInvalidArgument covers bad token ids, nil callbacks and undersized
	// buffers.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Negative errno-style status codes for registry errors.
const (
	StatusOK              int32 = 0
	StatusNotFound        int32 = -2  // ENOENT
	StatusAlreadyExists   int32 = -17 // EEXIST
	StatusInvalidArgument int32 = -22 // EINVAL
	StatusUnknown         int32 = -1
)

// Direction distinguishes the GET and POST token registries.
type Direction int

const (
	DirectionGet Direction = iota
	DirectionPost
)

func (d Direction) String() string {
	switch d {
	case DirectionGet:
		return "get"
	case DirectionPost:
		return "post"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// TokenError describes a failed registry operation.
type TokenError struct {
	Op        string    // "register", "deregister", "hits"
	Direction Direction // which registry
	Token     string    // token as given by the caller
	Err       error     // one of the sentinel errors, possibly wrapped
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("%s %s token %q: %v", e.Op, e.Direction, e.Token, e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }

// Status maps err onto the firmware API's integer convention. Firmware status
// codes pass through unchanged.
func Status(err error) int32 {
	if err == nil {
		return StatusOK
	}

	var fw firmware.Status
	if errors.As(err, &fw) {
		return int32(fw)
	}

	switch {
	case errors.Is(err, ErrAlreadyExists):
		return StatusAlreadyExists
	case errors.Is(err, ErrNotFound):
		return StatusNotFound
	case errors.Is(err, ErrInvalidArgument):
		return StatusInvalidArgument
	default:
		return StatusUnknown
	}
}
