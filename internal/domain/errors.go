package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every typed error below matches exactly one of these with errors.Is.
var (
	ErrTransport    = errors.New("transport failure")
	ErrDecode       = errors.New("deserialization failure")
	ErrConsistency  = errors.New("consistency failure")
	ErrPrecondition = errors.New("precondition failure")
)

// TransportError is a non-success response or a failed request.
type TransportError struct {
	Op         string
	Index      string
	StatusCode int
	// Reason is the summarised Elasticsearch error, Body the raw response.
	Reason string
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	msg := e.Op
	if e.Index != "" {
		msg += " " + e.Index
	}
	switch {
	case e.StatusCode != 0 && e.Reason != "":
		return fmt.Sprintf("%s: status %d: %s", msg, e.StatusCode, e.Reason)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %s", msg, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	default:
		return msg + ": transport failure"
	}
}

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is a response body that does not have the expected shape.
type DecodeError struct {
	Op    string
	Index string
	Body  string
	Err   error
}

func (e *DecodeError) Error() string {
	msg := "decode " + e.Op
	if e.Index != "" {
		msg += " " + e.Index
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg + ": unexpected response"
}

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func (e *DecodeError) Unwrap() error { return e.Err }

// ConsistencyError is a document count that did not converge.
// Attempts is zero when a reindex response total already disagreed.
type ConsistencyError struct {
	Index    string
	Expected int64
	Actual   int64
	Attempts int
	// Err is the last count error, if the final attempt failed outright.
	Err error
}

func (e *ConsistencyError) Error() string {
	if e.Attempts == 0 {
		return fmt.Sprintf("index %s: reindex reported %d documents, expected %d", e.Index, e.Actual, e.Expected)
	}
	msg := fmt.Sprintf("index %s: document count %d did not reach %d after %d attempts",
		e.Index, e.Actual, e.Expected, e.Attempts)
	if e.Err != nil {
		msg += fmt.Sprintf(" (last error: %v)", e.Err)
	}
	return msg
}

func (e *ConsistencyError) Is(target error) bool { return target == ErrConsistency }

func (e *ConsistencyError) Unwrap() error { return e.Err }

// PreconditionError is an action refused before any cluster call.
type PreconditionError struct {
	Action string
	Reason string
}

func (e *PreconditionError) Error() string {
	if e.Action == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Action, e.Reason)
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }
