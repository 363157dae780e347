package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

//go:embed locales/*.json
var localesFS embed.FS

var (
	ErrMissingBundle = errors.New("missing message bundle")
	ErrMissingKey    = errors.New("missing message key")
	ErrUnknownKey    = errors.New("unknown message key")
)

// Bundle holds every message of one locale.
type Bundle struct {
	locale   Locale
	messages map[Key]string
	printer  *message.Printer
}

// Locale returns the bundle's locale.
func (b *Bundle) Locale() Locale {
	return b.locale
}

// Text returns the raw message for k.
func (b *Bundle) Text(k Key) string {
	return b.messages[k]
}

// Sprintf formats the message for k with args, localizing numbers.
func (b *Bundle) Sprintf(k Key, args ...any) string {
	return b.printer.Sprintf(string(k), args...)
}

// Printer returns a printer bound to this bundle's messages.
func (b *Bundle) Printer() *message.Printer {
	return b.printer
}

// Month returns the localized name of month m (1-12).
func (b *Bundle) Month(m int) string {
	return b.messages[MonthKey(m)]
}

// Catalog loads bundles lazily, once per locale, from a filesystem holding
// locales/<locale>.json.
type Catalog struct {
	fsys    fs.FS
	entries [len(supported)]catalogEntry
}

type catalogEntry struct {
	once   sync.Once
	bundle *Bundle
	err    error
}

// NewCatalog returns a catalog reading from fsys.
func NewCatalog(fsys fs.FS) *Catalog {
	return &Catalog{fsys: fsys}
}

var defaultCatalog = NewCatalog(localesFS)

// DefaultCatalog returns the catalog of embedded bundles.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// Bundle returns the bundle for l, loading it on first use.
func (c *Catalog) Bundle(l Locale) (*Bundle, error) {
	i := indexOf(l)
	if i < 0 {
		return nil, &InvalidLocaleError{Segment: string(l)}
	}
	e := &c.entries[i]
	e.once.Do(func() {
		e.bundle, e.err = c.load(l)
	})
	return e.bundle, e.err
}

// MustBundle is Bundle for callers that ran Validate at startup.
func (c *Catalog) MustBundle(l Locale) *Bundle {
	b, err := c.Bundle(l)
	if err != nil {
		panic(err)
	}
	return b
}

// Validate loads every supported bundle and reports all problems at once.
func (c *Catalog) Validate() error {
	var errs []error
	for _, l := range supported {
		if _, err := c.Bundle(l); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Catalog) load(l Locale) (*Bundle, error) {
	path := "locales/" + string(l) + ".json"
	data, err := fs.ReadFile(c.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrMissingBundle, l, err)
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	flat := make(map[string]string)
	if err := flatten("", tree, flat); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	messages := make(map[Key]string, len(flat))
	var missing []string
	for _, k := range Keys() {
		v, ok := flat[string(k)]
		if !ok {
			missing = append(missing, string(k))
			continue
		}
		messages[k] = v
		delete(flat, string(k))
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w in %s: %s", ErrMissingKey, path, strings.Join(missing, ", "))
	}
	if len(flat) > 0 {
		extra := make([]string, 0, len(flat))
		for k := range flat {
			extra = append(extra, k)
		}
		sort.Strings(extra)
		return nil, fmt.Errorf("%w in %s: %s", ErrUnknownKey, path, strings.Join(extra, ", "))
	}

	tag := l.Tag()
	builder := catalog.NewBuilder(catalog.Fallback(tag))
	for k, v := range messages {
		if err := builder.SetString(tag, string(k), v); err != nil {
			return nil, fmt.Errorf("register %s/%s: %w", l, k, err)
		}
	}
	return &Bundle{
		locale:   l,
		messages: messages,
		printer:  message.NewPrinter(tag, message.Catalog(builder)),
	}, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) error {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("message %q must be a string or an object, got %T", key, v)
		}
	}
	return nil
}

func indexOf(l Locale) int {
	for i, s := range supported {
		if s == l {
			return i
		}
	}
	return -1
}

// Load returns the embedded bundle for l.
func Load(l Locale) (*Bundle, error) {
	return defaultCatalog.Bundle(l)
}

// Validate checks every embedded bundle.
func Validate() error {
	return defaultCatalog.Validate()
}
