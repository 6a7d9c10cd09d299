package counter

import (
	"errors"
	"fmt"
	"strings"

	apierrors "github.com/Apurer/counter-panel/internal/shared/errors"
)

var (
	// ErrUnexpectedStatus is wrapped when the remote store answers outside 2xx.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrMalformedBody is wrapped when a response body cannot be decoded.
	ErrMalformedBody = errors.New("malformed response body")
)

// TransportError is the single failure kind of the remote collaborator:
// network errors, non-2xx answers and undecodable bodies.
type TransportError struct {
	Op         string
	Method     string
	Path       string
	StatusCode int
	Problem    *apierrors.ProblemDetail
	Err        error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s %s", e.Op, e.Method, e.Path)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	if e.Problem != nil {
		b.WriteString(": ")
		b.WriteString(e.Problem.Error())
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err came from the remote collaborator.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// StatusCode extracts the HTTP status of a transport failure, or 0.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}
