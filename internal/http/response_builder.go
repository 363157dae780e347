// Package http serves the dashboard pages and the JSON API.
//
// This file implements a small builder for consistent responses, both HTML
// pages and JSON API bodies.

package http

import (
	"encoding/json"
	"html/template"
	"net/http"
)

// ResponseBuilder provides a fluent API for building responses.
type ResponseBuilder struct {
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the response body as bytes.
func (b *ResponseBuilder) Body(content []byte) *ResponseBuilder {
	b.body = content
	return b
}

// BodyHTML sets the response body as HTML content.
func (b *ResponseBuilder) BodyHTML(html []byte) *ResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = html
	return b
}

// JSON encodes v as the body. An encoding failure turns the response into a
// 500 with a generic error body.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	b.headers["Content-Type"] = "application/json"
	data, err := json.Marshal(v)
	if err != nil {
		b.statusCode = http.StatusInternalServerError
		data = []byte(`{"error":"response encoding failed"}`)
	}
	b.body = append(data, '\n')
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// APIError is the JSON body of every failed API call.
type APIError struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSONError creates a JSON error response.
func JSONError(statusCode int, message string, details any) *ResponseBuilder {
	return NewResponse().Status(statusCode).JSON(APIError{Error: message, Details: details})
}

// ErrorResponse creates a minimal HTML error response. The message is
// HTML-escaped.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	escapedMsg := template.HTMLEscapeString(message)
	return NewResponse().
		Status(statusCode).
		BodyHTML([]byte(`<div class="error">` + escapedMsg + `</div>`))
}

// BadRequestError creates a 400 Bad Request JSON response.
func BadRequestError(message string) *ResponseBuilder {
	return JSONError(http.StatusBadRequest, message, nil)
}

// NotFoundError creates a 404 Not Found JSON response.
func NotFoundError(message string) *ResponseBuilder {
	return JSONError(http.StatusNotFound, message, nil)
}

// InternalServerError creates a 500 Internal Server Error JSON response.
func InternalServerError(message string) *ResponseBuilder {
	return JSONError(http.StatusInternalServerError, message, nil)
}
