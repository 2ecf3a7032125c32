package client

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// ErrorType is the category of a request failure.
type ErrorType int

const (
	ErrTypeNetwork ErrorType = iota
	ErrTypeTimeout
	ErrTypeConnectionRefused
	ErrTypeDNS
	ErrTypeAuth
	ErrTypeHTTP
	ErrTypeRequest
)

func (t ErrorType) String() string {
	switch t {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeRequest:
		return "Invalid Request"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(t))
	}
}

// Error is returned for every failed request.
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int // HTTP status, if one was received
	Err        error
	Retryable  bool
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// classify turns a transport error into an *Error.
func classify(message string, err error) *Error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	e := &Error{Type: ErrTypeNetwork, Message: message, Err: err, Retryable: true}

	var dnsErr *net.DNSError
	var opErr *net.OpError
	switch {
	case os.IsTimeout(err):
		e.Type = ErrTypeTimeout
	case errors.As(err, &dnsErr):
		e.Type = ErrTypeDNS
		e.Retryable = false
	case errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED):
		e.Type = ErrTypeConnectionRefused
	}
	return e
}

func httpError(status int, message string) *Error {
	if status == 401 {
		return &Error{Type: ErrTypeAuth, Message: "authentication failed (check credentials)", StatusCode: status}
	}
	return &Error{
		Type:       ErrTypeHTTP,
		Message:    message,
		StatusCode: status,
		Retryable:  status >= 500,
	}
}

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}

// ShortMessage returns a one-line description of err for CLI output.
func ShortMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	switch e.Type {
	case ErrTypeTimeout:
		return "Server not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Connection refused - is the server running?"
	case ErrTypeDNS:
		return "Cannot resolve server hostname"
	case ErrTypeAuth:
		return "Authentication failed - check credentials"
	case ErrTypeHTTP:
		return fmt.Sprintf("Server error (HTTP %d)", e.StatusCode)
	default:
		return e.Message
	}
}
