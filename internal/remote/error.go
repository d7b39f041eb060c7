package remote

import (
	"fmt"

	"github.com/go-faster/errors"
)

// Kind classifies a failed upstream call into the categories callers can
// act on. Anything more granular belongs in the wrapped error.
type Kind uint8

const (
	// KindUnreachable covers network errors, timeouts, and cancelled
	// contexts: no usable HTTP response was received at all.
	KindUnreachable Kind = iota
	// KindUnauthorized is a 401: the bearer token is missing, expired, or
	// rejected by the upstream service.
	KindUnauthorized
	// KindNotFound is a 404.
	KindNotFound
	// KindServerError is any 5xx, plus the 4xx statuses the gateway has no
	// dedicated handling for.
	KindServerError
	// KindInvalidResponse means the upstream answered with a body that is
	// not JSON or does not match the expected shape.
	KindInvalidResponse
)

func (k Kind) String() string {
	switch k {
	case KindUnreachable:
		return "unreachable"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindServerError:
		return "server_error"
	case KindInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// CallError describes a failed call to an upstream service. Status is zero
// when no HTTP response was received.
type CallError struct {
	Kind    Kind
	Service string
	Method  string
	Path    string
	Status  int
	Err     error
}

func (e *CallError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s %s: %s (status %d)", e.Service, e.Method, e.Path, e.Kind, e.Status)
	}
	return fmt.Sprintf("%s: %s %s: %s: %v", e.Service, e.Method, e.Path, e.Kind, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}

// KindOf extracts the classification from err. The second return value is
// false when err does not originate from a Client.
func KindOf(err error) (Kind, bool) {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}

// IsUnauthorized reports whether err is a 401 from an upstream service.
func IsUnauthorized(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindUnauthorized
}

// IsUnreachable reports whether err means the upstream could not be reached.
func IsUnreachable(err error) bool {
	k, ok := KindOf(err)
	return ok && k == KindUnreachable
}
