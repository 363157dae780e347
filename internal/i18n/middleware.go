package i18n

import (
	"errors"
	"net/http"
	"strings"

	applog "dompet/internal/log"
)

// Matcher decides whether the locale middleware runs for a request.
type Matcher interface {
	Match(r *http.Request) bool
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(r *http.Request) bool

func (f MatcherFunc) Match(r *http.Request) bool { return f(r) }

type noneMatcher struct{}

func (noneMatcher) Match(*http.Request) bool { return false }
func (noneMatcher) Empty() bool              { return true }

// MatchNone never activates the middleware.
func MatchNone() Matcher {
	return noneMatcher{}
}

// Inactive reports whether m can never activate the middleware, so pages
// should not offer locale-prefixed links.
func Inactive(m Matcher) bool {
	if m == nil {
		return true
	}
	e, ok := m.(interface{ Empty() bool })
	return ok && e.Empty()
}

// MatchAll activates the middleware for every request.
func MatchAll() Matcher {
	return MatcherFunc(func(*http.Request) bool { return true })
}

// PathMatcher matches request paths against a list of patterns. A pattern is
// either an exact path ("/") or a prefix ending in "/*" ("/en/*", "/*").
// An empty list matches nothing.
type PathMatcher struct {
	exact    map[string]struct{}
	prefixes []string
}

// NewPathMatcher builds a matcher from patterns; blank entries are skipped.
func NewPathMatcher(patterns []string) *PathMatcher {
	m := &PathMatcher{exact: make(map[string]struct{})}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if prefix, ok := strings.CutSuffix(p, "/*"); ok {
			m.prefixes = append(m.prefixes, prefix+"/")
			continue
		}
		m.exact[p] = struct{}{}
	}
	return m
}

// Empty reports whether the matcher can never match.
func (m *PathMatcher) Empty() bool {
	return len(m.exact) == 0 && len(m.prefixes) == 0
}

func (m *PathMatcher) Match(r *http.Request) bool {
	path := r.URL.Path
	if _, ok := m.exact[path]; ok {
		return true
	}
	for _, prefix := range m.prefixes {
		if strings.HasPrefix(path, prefix) || path+"/" == prefix {
			return true
		}
	}
	return false
}

// Middleware resolves the request locale for matched requests. It must run
// before routing: it strips the locale prefix from the URL path.
type Middleware struct {
	matcher  Matcher
	notFound http.Handler
}

// NewMiddleware wires the resolver behind matcher. notFound renders the
// response for an unsupported locale segment; nil means http.NotFound.
func NewMiddleware(matcher Matcher, notFound http.Handler) *Middleware {
	if matcher == nil {
		matcher = MatchNone()
	}
	if notFound == nil {
		notFound = http.HandlerFunc(http.NotFound)
	}
	return &Middleware{matcher: matcher, notFound: notFound}
}

// Handler returns the middleware as a chi/net-http compatible wrapper.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.matcher.Match(r) {
			next.ServeHTTP(w, r)
			return
		}
		logger := applog.FromContext(r.Context())

		res, err := Resolve(r.URL.Path)
		if err != nil {
			if errors.Is(err, ErrInvalidLocale) {
				logger.WarnContext(r.Context(), "Unsupported locale in path",
					applog.FieldPath, r.URL.Path,
					applog.FieldError, err.Error())
				m.notFound.ServeHTTP(w, r)
				return
			}
			logger.ErrorContext(r.Context(), "Locale resolution failed", applog.FieldError, err.Error())
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if !res.Canonical() {
			target := res.Path
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusTemporaryRedirect)
			return
		}

		ctx := WithLocale(r.Context(), res.Locale)
		r = r.WithContext(ctx)
		if res.Prefixed {
			u := *r.URL
			u.Path = res.Path
			u.RawPath = ""
			r.URL = &u
		}
		next.ServeHTTP(w, r)
	})
}
