package cloudprint

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when an authenticated call is made without an access token.
	ErrNotAuthenticated = errors.New("not authenticated: access token is not set")
	// ErrInvalidArgument is returned when a required parameter is missing or unusable.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTransport wraps network failures and non-2xx HTTP responses.
	ErrTransport = errors.New("transport error")
	// ErrMalformedResponse is returned when a response body is not valid JSON or lacks an expected field.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrPrintSubmitFailed is returned when the provider rejects a print job.
	ErrPrintSubmitFailed = errors.New("print submit failed")
	// ErrRequestRejected is returned when the provider reports failure for a non-submit call.
	ErrRequestRejected = errors.New("request rejected")
	// ErrPrinterNotFound is returned by printer lookups that match nothing.
	ErrPrinterNotFound = errors.New("printer not found")
)

// APIError carries the error code and message reported by Cloud Print.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (error code: %s)", e.Message, e.Code)
}
