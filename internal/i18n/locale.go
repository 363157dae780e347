// Package i18n selects the UI language for a request and serves the
// translated message bundles for it.
//
// The supported set is closed: Indonesian (the default, served unprefixed)
// and English (served under /en). Classification of a path is pure; whether
// the classification runs for a given request is decided separately by a
// Matcher handed to the middleware.
package i18n

import (
	"context"

	"golang.org/x/text/language"
)

// Locale is a supported UI language identifier.
type Locale string

const (
	ID Locale = "id"
	EN Locale = "en"
)

// Default is served at the root and at every unprefixed path.
const Default = ID

var supported = [...]Locale{ID, EN}

// Supported returns the supported locales, default first.
func Supported() []Locale {
	return supported[:]
}

// IsSupported reports whether s is exactly a supported locale identifier.
func IsSupported(s string) bool {
	for _, l := range supported {
		if string(l) == s {
			return true
		}
	}
	return false
}

// Parse returns the locale for s, or ErrInvalidLocale.
func Parse(s string) (Locale, error) {
	if !IsSupported(s) {
		return "", &InvalidLocaleError{Segment: s}
	}
	return Locale(s), nil
}

// Tag returns the BCP 47 tag used for number formatting and catalogs.
func (l Locale) Tag() language.Tag {
	switch l {
	case EN:
		return language.English
	default:
		return language.Indonesian
	}
}

func (l Locale) String() string {
	return string(l)
}

type contextKey struct{}

// WithLocale returns a copy of ctx carrying l.
func WithLocale(ctx context.Context, l Locale) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the locale resolved for the request, if any.
func FromContext(ctx context.Context) (Locale, bool) {
	l, ok := ctx.Value(contextKey{}).(Locale)
	return l, ok
}

// LocaleOf returns the request locale, or Default when nothing was resolved
// (for example when the middleware is not active for the route).
func LocaleOf(ctx context.Context) Locale {
	if l, ok := FromContext(ctx); ok {
		return l
	}
	return Default
}
