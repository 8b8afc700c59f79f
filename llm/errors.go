package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies a failed chat call.
type ErrorKind int

const (
	// KindConnect means the endpoint could not be reached at all.
	KindConnect ErrorKind = iota + 1
	// KindStatus means the endpoint answered with a non-2xx status.
	KindStatus
	// KindTimeout means the call exceeded the configured timeout.
	KindTimeout
	// KindDecode means the response body was malformed or incomplete.
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindConnect:
		return "connect"
	case KindStatus:
		return "status"
	case KindTimeout:
		return "timeout"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// TransportError reports a failed call to the chat endpoint. Calls are never
// retried; the caller decides how to surface the failure.
type TransportError struct {
	Kind       ErrorKind
	StatusCode int // set for KindStatus
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("chat transport (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("chat transport (%s)", e.Kind)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTimeout reports whether err is a timed-out chat call.
func IsTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Kind == KindTimeout
}

// ParseError reports that no valid JSON object could be recovered from the
// model output.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract json: %v", e.Err)
	}
	return "extract json: no object found"
}

func (e *ParseError) Unwrap() error { return e.Err }

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
