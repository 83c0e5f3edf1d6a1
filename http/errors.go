package http

import (
	"errors"
	"fmt"
)

// Sentinel errors. Check them with errors.Is.
var (
	// ErrMalformedRequest is returned when a builder cannot be turned into a
	// wire request, for example because the endpoint is not a valid path.
	ErrMalformedRequest = errors.New("requestbuilder: malformed request")

	// ErrInvalidBaseURL is returned by NewClient for a base URL that is not
	// absolute.
	ErrInvalidBaseURL = errors.New("requestbuilder: invalid base URL")

	// ErrInvalidResponse is returned when a transport completes without a
	// usable response.
	ErrInvalidResponse = errors.New("requestbuilder: invalid response")

	// ErrInvalidJSON is wrapped by the CodecError returned for a successful
	// response whose body does not parse.
	ErrInvalidJSON = errors.New("requestbuilder: invalid JSON")

	// ErrUnboundRequest is returned when Send is called on a builder that was
	// not created through a Client.
	ErrUnboundRequest = errors.New("requestbuilder: request builder is not bound to a client")
)

// errorCodeBase is added to the HTTP status to form StatusError.Code.
const errorCodeBase = 10000

// StatusError is an application-level failure: the exchange completed but
// the status code was not acceptable.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	body := string(e.Body)
	if body == "" {
		body = "?"
	}
	return fmt.Sprintf("requestbuilder: request/server error %d: %s", e.StatusCode, body)
}

// Code returns 10000 plus the HTTP status code.
func (e *StatusError) Code() int {
	return errorCodeBase + e.StatusCode
}

// CodecError reports a JSON encoding or decoding failure. It is kept
// distinct from StatusError so callers can tell a bad payload from a bad
// status.
type CodecError struct {
	// Op is "encode" or "decode".
	Op  string
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("requestbuilder: JSON %s: %v", e.Op, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// APIError is raised by JSONErrorFieldBehavior when a successful response
// body carries an error field.
type APIError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("requestbuilder: API error at %s (status %d): %s", e.Path, e.StatusCode, e.Message)
}

// SchemaError is raised by SchemaBehavior when a response body does not
// conform to the expected JSON Schema.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("requestbuilder: response does not match schema: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
