package combine

import (
	"fmt"
	"net/http"
)

// ErrorKind tags a pipeline failure. Every failure aborts the whole
// request; no partial combined calendar is ever emitted.
type ErrorKind int

const (
	// ErrConfig marks an invalid source configuration, detected before
	// any network access.
	ErrConfig ErrorKind = iota
	// ErrParam marks invalid request parameters (show and hide
	// supplied together).
	ErrParam
	// ErrFetch marks a transport failure or non-success status for a
	// source.
	ErrFetch
	// ErrParse marks a source body that is not a valid calendar
	// document.
	ErrParse
)

// Error is the tagged failure returned by the pipeline driver.
// SourceID names the offending source for fetch and parse failures.
type Error struct {
	Kind     ErrorKind
	SourceID string
	Err      error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case ErrConfig:
		msg = "invalid calendar source configuration"
	case ErrParam:
		msg = "invalid request parameters"
	case ErrFetch:
		msg = fmt.Sprintf("unable to fetch calendar source %q", e.SourceID)
	case ErrParse:
		msg = fmt.Sprintf("unable to parse calendar source %q", e.SourceID)
	default:
		msg = "combine failed"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the failure to the response status the HTTP layer
// should answer with: parameter mistakes are the client's fault,
// everything else is a server-side problem.
func (e *Error) HTTPStatus() int {
	if e.Kind == ErrParam {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func configErr(err error) *Error {
	return &Error{Kind: ErrConfig, Err: err}
}

func paramErr(err error) *Error {
	return &Error{Kind: ErrParam, Err: err}
}

func fetchErr(sourceID string, err error) *Error {
	return &Error{Kind: ErrFetch, SourceID: sourceID, Err: err}
}

func parseErr(sourceID string, err error) *Error {
	return &Error{Kind: ErrParse, SourceID: sourceID, Err: err}
}
