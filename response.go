package cloudprint

import (
	"bytes"
	"encoding/json"
	"strings"
)

// flag decodes the "success" marker. Cloud Print has sent it as a JSON
// boolean, as the string "1" and as a number over the years. Anything other
// than true or 1 counts as failure.
type flag bool

func (f *flag) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(strings.Trim(string(data), `"`)) {
	case "true", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}

// text decodes a JSON string or number into a string.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	*t = text(data)
	return nil
}

// apiResponse holds the envelope fields shared by every Cloud Print response.
type apiResponse struct {
	Success   *flag  `json:"success"`
	ErrorCode text   `json:"errorCode"`
	Message   string `json:"message"`
}

// succeeded reports whether the provider explicitly reported success.
func (r apiResponse) succeeded() bool {
	return r.Success != nil && bool(*r.Success)
}

// rejected reports whether the provider explicitly reported failure.
// A missing marker is not a rejection.
func (r apiResponse) rejected() bool {
	return r.Success != nil && !bool(*r.Success)
}

func (r apiResponse) apiError() *APIError {
	return &APIError{Code: string(r.ErrorCode), Message: r.Message}
}
