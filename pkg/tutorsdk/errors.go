package tutorsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// TransportError is returned when the HTTP round trip fails (network
// unreachable, connection reset, context cancelled).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to send request %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RequestError is returned for any non-2xx response.
type RequestError struct {
	StatusCode int

	// Message is the human-readable reason extracted from the response body,
	// or the status text when the body carried none.
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// ParseError is returned when a successful response body is not valid JSON
// for the requested type.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to decode response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status of a *RequestError in err's chain, or 0.
func StatusCode(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}

// messageFields are checked in order for a human-readable error message.
var messageFields = []string{"message", "error", "detail"}

// newRequestError builds the error for a non-2xx response.
func newRequestError(resp *http.Response, body []byte) *RequestError {
	msg, ok := extractMessage(body)
	if !ok {
		msg = statusText(resp)
	}
	return &RequestError{StatusCode: resp.StatusCode, Message: msg}
}

// extractMessage returns the first non-empty string among the conventional
// message fields of a JSON object body.
func extractMessage(body []byte) (string, bool) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", false
	}

	for _, key := range messageFields {
		if s, ok := fields[key].(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

// statusText returns the reason phrase the server sent, falling back to the
// canonical text for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
