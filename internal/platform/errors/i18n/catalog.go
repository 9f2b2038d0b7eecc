// Package i18n provides internationalization support for error messages.
package i18n

import (
	"bytes"
	"maps"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// DefaultLocale is the locale used when no better match exists.
const DefaultLocale = "en-US"

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// Catalog maps error codes to message templates for a specific locale.
// Templates are parsed once, when the catalog is built.
type Catalog struct {
	locale    string
	messages  map[Code]string
	templates map[Code]*template.Template
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{
		"en-US": NewCatalog("en-US", enUSMessages),
		"pt-BR": NewCatalog("pt-BR", ptBRMessages),
	}

	// builtin is ordered with the default first so the matcher falls back to it.
	builtin = []language.Tag{language.AmericanEnglish, language.BrazilianPortuguese}
	matcher = language.NewMatcher(builtin)
)

// GetCatalog returns the catalog for the given locale.
// Exact registrations win; otherwise the closest built-in language is used,
// falling back to en-US.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = DefaultLocale
	}
	if c, ok := lookupCatalog(requested); ok {
		return c
	}

	resolved := DefaultLocale
	if tag, err := language.Parse(requested); err == nil {
		_, idx, confidence := matcher.Match(tag)
		if confidence != language.No {
			resolved = builtin[idx].String()
		}
	}
	if c, ok := lookupCatalog(resolved); ok {
		return c
	}
	c, _ := lookupCatalog(DefaultLocale)
	return c
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for code with metadata. Unknown codes render as
// the code itself; a template that fails to parse or execute renders as its
// raw text.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	raw, ok := c.messages[code]
	if !ok {
		return code
	}
	t, ok := c.templates[code]
	if !ok {
		return raw
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return raw
	}
	return buf.String()
}

// RegisterCatalog registers a catalog for the given locale, replacing any
// existing one.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
}

// NewCatalog builds a catalog for locale, parsing every message template.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	c := &Catalog{
		locale:    locale,
		messages:  maps.Clone(messages),
		templates: make(map[Code]*template.Template, len(messages)),
	}
	for code, text := range c.messages {
		t, err := template.New(code).Parse(text)
		if err != nil {
			continue
		}
		c.templates[code] = t
	}
	return c
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}
