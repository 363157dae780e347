package http

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Status(http.StatusCreated).
		Header("X-Custom", "1").
		Body([]byte("test")).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if w.Body.String() != "test" {
		t.Errorf("Body = %q, want %q", w.Body.String(), "test")
	}
	if w.Header().Get("X-Custom") != "1" {
		t.Errorf("X-Custom header missing")
	}
}

func TestResponseBuilder_JSON(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().JSON(map[string]float64{"result": 37.5}).Write(w)

	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := w.Body.String(); got != "{\"result\":37.5}\n" {
		t.Errorf("Body = %q", got)
	}
}

func TestResponseBuilder_JSONEncodingFailure(t *testing.T) {
	w := httptest.NewRecorder()
	NewResponse().JSON(map[string]float64{"result": math.NaN()}).Write(w)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Status code = %d, want 500", w.Code)
	}
}

func TestErrorResponse_EscapesHTML(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(http.StatusBadRequest, "<b>bad</b>").Write(w)

	want := `<div class="error">&lt;b&gt;bad&lt;/b&gt;</div>`
	if w.Body.String() != want {
		t.Errorf("Body = %q, want %q", w.Body.String(), want)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestJSONErrorHelpers(t *testing.T) {
	tests := []struct {
		name    string
		builder *ResponseBuilder
		code    int
		body    string
	}{
		{"bad request", BadRequestError("nope"), http.StatusBadRequest, "{\"error\":\"nope\"}\n"},
		{"not found", NotFoundError("gone"), http.StatusNotFound, "{\"error\":\"gone\"}\n"},
		{"internal", InternalServerError("oops"), http.StatusInternalServerError, "{\"error\":\"oops\"}\n"},
		{"details", JSONError(http.StatusUnprocessableEntity, "invalid", []string{"a"}), http.StatusUnprocessableEntity, "{\"error\":\"invalid\",\"details\":[\"a\"]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)
			if w.Code != tt.code {
				t.Errorf("Status code = %d, want %d", w.Code, tt.code)
			}
			if w.Body.String() != tt.body {
				t.Errorf("Body = %q, want %q", w.Body.String(), tt.body)
			}
		})
	}
}
