package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	errHTTP       = "http status %d: %s"
	errHTTPStatus = "http status: %d"
	errDecode     = "failed to decode response: %v"
)

// ErrNoText is returned when a well-formed response holds no text output.
var ErrNoText = errors.New("no text content in response output")

// ErrorResponse is the error envelope returned by the API on failures.
type ErrorResponse struct {
	Error struct {
		Message string  `json:"message"`
		Type    string  `json:"type"`
		Param   *string `json:"param"`
		Code    any     `json:"code"`
	} `json:"error"`
}

// StatusError reports a non-2xx HTTP status. Body holds the raw response text
// so callers can tell authentication, quota and validation failures apart.
type StatusError struct {
	StatusCode int
	Body       string
	Message    string
	Type       string
}

// NewStatusError builds a StatusError and, when the body is the API's error
// envelope, extracts its message and type.
func NewStatusError(code int, body []byte) *StatusError {
	e := &StatusError{StatusCode: code, Body: string(body)}

	var envelope ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil {
		e.Message = envelope.Error.Message
		e.Type = envelope.Error.Type
	}

	return e
}

func (e *StatusError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf(errHTTP, e.StatusCode, e.Message)
	case e.Body != "":
		return fmt.Sprintf(errHTTP, e.StatusCode, e.Body)
	}
	return fmt.Sprintf(errHTTPStatus, e.StatusCode)
}

// DecodeError reports a successful HTTP exchange whose body could not be
// decoded into a Response.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf(errDecode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
