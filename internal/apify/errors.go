package apify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingToken is returned before any network call when the session has
// no API credential.
var ErrMissingToken = errors.New("apify: api token required")

// fallbackMessage is surfaced when a failure response carries no usable
// message of its own.
const fallbackMessage = "request to the actor platform failed"

// APIError is a failed remote call: transport errors carry StatusCode 0,
// non-2xx responses carry the status and the message extracted from the
// response body.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Message)
	}
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// UserMessage is the text shown inline in the dashboard.
func (e *APIError) UserMessage() string {
	if strings.TrimSpace(e.Message) == "" {
		return fallbackMessage
	}
	return e.Message
}

func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// messageFromBody pulls a human-readable message out of a failure body.
// Both shapes the platform answers with are tried: {"error": {"message"}}
// and a flat {"message"} / {"error"}.
func messageFromBody(body []byte) string {
	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &nested); err == nil && nested.Error.Message != "" {
		return nested.Error.Message
	}

	var flat struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &flat); err == nil {
		if flat.Message != "" {
			return flat.Message
		}
		if flat.Error != "" {
			return flat.Error
		}
	}
	return ""
}
