// Package i18n loads the embedded locale catalogs and resolves one per request.
// A Printer is immutable, so handlers running concurrently never share locale
// state.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLocale is used when the request carries no locale or an unsupported one.
const DefaultLocale = "en-US"

// Bundle holds every loaded locale catalog.
type Bundle struct {
	matcher  language.Matcher
	tags     []language.Tag
	catalogs map[language.Tag]map[string]string
	fallback language.Tag
}

// Printer formats messages for a single resolved locale.
type Printer struct {
	tag      language.Tag
	messages map[string]string
	fallback map[string]string
}

// Load parses the embedded catalogs and builds the matcher. The default locale
// must be among them.
func Load() (*Bundle, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("reading embedded locales: %w", err)
	}

	b := &Bundle{
		catalogs: make(map[language.Tag]map[string]string),
		fallback: language.MustParse(DefaultLocale),
	}

	for _, entry := range entries {
		name := entry.Name()
		tag, err := language.Parse(strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, fmt.Errorf("locale file %s: %w", name, err)
		}

		raw, err := localeFS.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("reading locale %s: %w", name, err)
		}

		messages := make(map[string]string)
		if err := json.Unmarshal(raw, &messages); err != nil {
			return nil, fmt.Errorf("parsing locale %s: %w", name, err)
		}
		b.catalogs[tag] = messages
	}

	if _, ok := b.catalogs[b.fallback]; !ok {
		return nil, fmt.Errorf("default locale %s has no catalog", DefaultLocale)
	}

	// The fallback tag goes first so that Match resolves unknown locales to it.
	b.tags = append(b.tags, b.fallback)
	for tag := range b.catalogs {
		if tag != b.fallback {
			b.tags = append(b.tags, tag)
		}
	}
	b.matcher = language.NewMatcher(b.tags)

	return b, nil
}

// Locales returns the loaded locale tags.
func (b *Bundle) Locales() []language.Tag {
	return b.tags
}

// Printer resolves the given BCP-47 locale string to the closest loaded catalog.
func (b *Bundle) Printer(locale string) *Printer {
	tag := b.fallback
	if locale != "" {
		if requested, err := language.Parse(locale); err == nil {
			_, index, _ := b.matcher.Match(requested)
			tag = b.tags[index]
		}
	}

	return &Printer{
		tag:      tag,
		messages: b.catalogs[tag],
		fallback: b.catalogs[b.fallback],
	}
}

// Tag returns the locale this printer resolved to.
func (p *Printer) Tag() language.Tag {
	return p.tag
}

// Sprintf formats the message for key with positional arguments. Missing keys
// fall back to the default locale, and finally to the key itself so that a
// response is never empty.
func (p *Printer) Sprintf(key string, args ...any) string {
	format, ok := p.messages[key]
	if !ok {
		format, ok = p.fallback[key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
