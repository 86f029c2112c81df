// Package errors provides error helpers shared by the esmigrate packages.
package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	// MinErrorStatusCode is the minimum HTTP status code considered an error
	MinErrorStatusCode = 400

	maxBodyInMessage = 512
)

// HTTPError represents an HTTP API error response
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
	// Type is the Elasticsearch error type, e.g. index_not_found_exception.
	Type    string
	Message string
}

func (e *HTTPError) Error() string {
	switch {
	case e.Type != "" && e.Message != "":
		return fmt.Sprintf("HTTP error (%d): %s: %s", e.StatusCode, e.Type, e.Message)
	case e.Message != "":
		return fmt.Sprintf("HTTP error (%d): %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("HTTP error: %d %s", e.StatusCode, e.Status)
	}
}

// ParseHTTPError reads resp.Body and returns an *HTTPError for error statuses.
func ParseHTTPError(resp *http.Response) error {
	if resp.StatusCode < MinErrorStatusCode {
		return nil
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    fmt.Sprintf("failed to read error response body: %v", err),
		}
	}

	return NewHTTPError(resp.StatusCode, bodyBytes)
}

// NewHTTPError builds an *HTTPError from a status code and a raw body.
// Elasticsearch bodies of the form {"error":{"type":..,"reason":..}} and
// plain {"error":"..."} or {"message":"..."} bodies are summarised.
func NewHTTPError(statusCode int, body []byte) *HTTPError {
	httpErr := &HTTPError{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Body:       string(body),
	}

	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &envelope) != nil {
		httpErr.Message = truncate(strings.TrimSpace(string(body)))
		return httpErr
	}

	var cause ElasticsearchCause
	var plain string
	switch {
	case len(envelope.Error) > 0 && json.Unmarshal(envelope.Error, &cause) == nil && cause.Type != "":
		httpErr.Type = cause.Type
		httpErr.Message = cause.Summary()
	case len(envelope.Error) > 0 && json.Unmarshal(envelope.Error, &plain) == nil:
		httpErr.Message = plain
	case envelope.Message != "":
		httpErr.Message = envelope.Message
	default:
		httpErr.Message = truncate(string(body))
	}

	return httpErr
}

// ElasticsearchCause is the "error" object of an Elasticsearch error body.
type ElasticsearchCause struct {
	Type      string               `json:"type"`
	Reason    string               `json:"reason"`
	Index     string               `json:"index"`
	RootCause []ElasticsearchCause `json:"root_cause"`
}

// Summary returns the reason, preferring the first root cause when the
// top-level reason is empty.
func (c ElasticsearchCause) Summary() string {
	if c.Reason != "" {
		return c.Reason
	}
	if len(c.RootCause) > 0 {
		return c.RootCause[0].Reason
	}
	return c.Type
}

func truncate(s string) string {
	if len(s) <= maxBodyInMessage {
		return s
	}
	return s[:maxBodyInMessage] + "..."
}

// GetHTTPStatusCode extracts the HTTP status code from an error chain.
func GetHTTPStatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}
