package ldapauth

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrConnectionFailed is the fixed condition delivered to a callback's error
// slot when the directory server was unreachable. Bind and search failures
// are not errors; they surface through the result value.
var ErrConnectionFailed = errors.New("LDAP connection failed")

// ErrClosed is returned synchronously by entry points after Close.
var ErrClosed = errors.New("ldapauth: service closed")

// ValidationError reports a malformed entry-call argument. It is returned
// synchronously; no task is scheduled and no callback will fire.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AuthCallback receives the outcome of an Authenticate call. err is non-nil
// only when the server was unreachable, in which case authenticated is false.
type AuthCallback func(err error, authenticated bool)

// SearchCallback receives the outcome of a Search call. err is non-nil only
// when the server was unreachable; a bind rejection or an unmatched filter
// yields a nil error and empty results.
type SearchCallback func(err error, results Results)

// ConnParams are the connection and bind parameters shared by both request
// kinds. Immutable once the request is created.
type ConnParams struct {
	Host     string
	Port     int
	Username string
	Password string
}

type operation uint8

const (
	opAuthenticate operation = iota
	opSearch
)

func (op operation) String() string {
	switch op {
	case opAuthenticate:
		return "authenticate"
	case opSearch:
		return "search"
	default:
		return "unknown"
	}
}

// request is the record moved between execution contexts: built on the
// calling goroutine, filled in by exactly one worker, consumed by the
// dispatcher. It is handed off over channels and never accessed from two
// goroutines at once.
type request struct {
	id     uuid.UUID
	op     operation
	params ConnParams

	// Search inputs.
	base   string
	filter string

	// Outcome, written once by the worker phase.
	connected     bool
	authenticated bool
	results       Results

	// Exactly one of these is set, matching op.
	authCB   AuthCallback
	searchCB SearchCallback
}
