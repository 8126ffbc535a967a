// Package localization resolves user-facing notification strings by stable
// key. Catalogs are embedded JSON documents mapping key -> fmt template; a
// missing key falls back to the key name itself so a stale catalog can never
// fail a notification.
package localization

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLocale is used when no locale is requested or the requested one is
// not bundled.
const DefaultLocale = "en"

// Provider resolves localized strings by key.
type Provider interface {
	// GetString returns the raw template for key, or key itself when absent.
	GetString(key string) string
	// GetFormatted interpolates args into the template for key. A missing
	// key falls back to the key name, ignoring the args.
	GetFormatted(key string, args ...any) string
}

// Catalog is a Provider backed by one embedded locale file.
type Catalog struct {
	locale  string
	strings map[string]string
	logger  *slog.Logger
}

// Load reads the embedded catalog for the given locale, falling back to the
// default locale when the requested one is not bundled. Load only errors when
// even the default catalog is unreadable, which would be a packaging bug.
func Load(locale string, logger *slog.Logger) (*Catalog, error) {
	if locale == "" {
		locale = DefaultLocale
	}

	data, err := localeFS.ReadFile("locales/" + locale + ".json")
	if err != nil && locale != DefaultLocale {
		logger.Warn("localization: locale not bundled, using default",
			slog.String("locale", locale),
		)
		locale = DefaultLocale
		data, err = localeFS.ReadFile("locales/" + locale + ".json")
	}
	if err != nil {
		return nil, fmt.Errorf("localization: read catalog %s: %w", locale, err)
	}

	strings := map[string]string{}
	if err := json.Unmarshal(data, &strings); err != nil {
		return nil, fmt.Errorf("localization: parse catalog %s: %w", locale, err)
	}

	return &Catalog{
		locale:  locale,
		strings: strings,
		logger:  logger.With(slog.String("component", "localization")),
	}, nil
}

// Locale returns the catalog's locale code.
func (c *Catalog) Locale() string {
	return c.locale
}

// GetString returns the template for key. Missing keys return the key name so
// callers always have something displayable.
func (c *Catalog) GetString(key string) string {
	if s, ok := c.strings[key]; ok {
		return s
	}
	c.logger.Warn("localization: missing key", slog.String("key", key))
	return key
}

// GetFormatted interpolates args into the template for key.
func (c *Catalog) GetFormatted(key string, args ...any) string {
	s, ok := c.strings[key]
	if !ok {
		c.logger.Warn("localization: missing key", slog.String("key", key))
		return key
	}
	return fmt.Sprintf(s, args...)
}

// Compile-time interface check.
var _ Provider = (*Catalog)(nil)
