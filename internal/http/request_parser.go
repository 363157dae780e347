// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating request data.

package http

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dompet/internal/core"
)

// ErrBadParam wraps every rejected query or form parameter.
var ErrBadParam = errors.New("bad parameter")

const maxFormBytes = 16 << 10

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month int
}

// ParseMonthParams reads year and month from the query. ok is false when
// neither is present, letting the caller pick a default period. Supplying
// only one of them is an error.
func ParseMonthParams(query url.Values) (params MonthParams, ok bool, err error) {
	y := strings.TrimSpace(query.Get("year"))
	m := strings.TrimSpace(query.Get("month"))
	if y == "" && m == "" {
		return MonthParams{}, false, nil
	}
	if y == "" || m == "" {
		return MonthParams{}, false, fmt.Errorf("%w: year and month go together", ErrBadParam)
	}
	if params.Year, err = strconv.Atoi(y); err != nil || params.Year < 1 || params.Year > 9999 {
		return MonthParams{}, false, fmt.Errorf("%w: year %q", ErrBadParam, y)
	}
	if params.Month, err = strconv.Atoi(m); err != nil {
		return MonthParams{}, false, fmt.Errorf("%w: month %q", ErrBadParam, m)
	}
	if _, err := core.NewPeriod(params.Year, params.Month); err != nil {
		return MonthParams{}, false, fmt.Errorf("%w: %w", ErrBadParam, err)
	}
	return params, true, nil
}

// ParseFloatParams reads the named query values in order. Each must be a
// finite number.
func ParseFloatParams(query url.Values, names ...string) ([]float64, error) {
	out := make([]float64, 0, len(names))
	var missing []string
	for _, name := range names {
		raw := strings.TrimSpace(query.Get(name))
		if raw == "" {
			missing = append(missing, name)
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s=%q is not a finite number", ErrBadParam, name, raw)
		}
		out = append(out, v)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrBadParam, strings.Join(missing, ", "))
	}
	return out, nil
}

// ParsePriceParam reads a rupiah "price" from the query. ok is false when it
// is absent; a present price must be a positive amount.
func ParsePriceParam(query url.Values) (price float64, ok bool, err error) {
	raw := strings.TrimSpace(query.Get("price"))
	if raw == "" {
		return 0, false, nil
	}
	price, err = core.ParseRupiah(raw)
	if err != nil || price <= 0 {
		return 0, true, fmt.Errorf("%w: price %q", ErrBadParam, raw)
	}
	return price, true, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// ParseFormOrFail parses a size-limited request form and returns an error
// response on failure. Returns nil on success.
func ParseFormOrFail(w http.ResponseWriter, r *http.Request) *ResponseBuilder {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return ErrorResponse(http.StatusBadRequest, "invalid form")
	}
	return nil
}
