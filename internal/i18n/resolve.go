package i18n

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrInvalidLocale is reported for a locale segment outside the supported
// set. Callers surface it as "not found".
var ErrInvalidLocale = errors.New("invalid locale")

// InvalidLocaleError carries the rejected segment.
type InvalidLocaleError struct {
	Segment string
}

func (e *InvalidLocaleError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidLocale, e.Segment)
}

func (e *InvalidLocaleError) Is(target error) bool {
	return target == ErrInvalidLocale
}

// Resolution is the outcome of classifying a request path.
type Resolution struct {
	Locale Locale
	// Path is the request path with any locale prefix removed.
	Path string
	// Prefixed is set when the path carried an explicit locale segment.
	Prefixed bool
}

// Canonical reports whether the path is already in its as-needed form, that
// is, the default locale is not spelled out in the URL.
func (r Resolution) Canonical() bool {
	return !(r.Prefixed && r.Locale == Default)
}

// Resolve classifies path. A first segment that is a well-formed BCP 47 tag
// with a known language must be exactly a supported locale; anything else is
// a page path in the default locale.
func Resolve(path string) (Resolution, error) {
	if path == "" {
		path = "/"
	}
	trimmed := strings.TrimPrefix(path, "/")
	segment, rest, hasRest := strings.Cut(trimmed, "/")
	if !isLocaleSegment(segment) {
		return Resolution{Locale: Default, Path: path}, nil
	}
	l, err := Parse(segment)
	if err != nil {
		return Resolution{}, err
	}
	stripped := "/"
	if hasRest {
		stripped = "/" + rest
	}
	return Resolution{Locale: l, Path: stripped, Prefixed: true}, nil
}

// isLocaleSegment reports whether x/text accepts s as a language tag:
// "fr", "EN", "en-US", "zh-Hant", "fil". Unknown subtags ("ok", "api") and
// malformed input ("settings", "2025-08") are page segments.
func isLocaleSegment(s string) bool {
	if s == "" {
		return false
	}
	_, err := language.Parse(s)
	return err == nil
}

// Localize builds the URL path for l using as-needed prefixing.
func Localize(l Locale, path string) string {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}
	if l == Default {
		return path
	}
	if path == "/" {
		return "/" + string(l)
	}
	return "/" + string(l) + path
}
