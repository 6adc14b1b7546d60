package source

import (
	"fmt"
	"net/url"
	"strings"
)

// QueryEncoding selects how spaces in the query text are encoded when
// substituted into a search URL template. Outlets disagree on this.
type QueryEncoding string

const (
	// EncodePlus replaces spaces with '+' (classic query-string style).
	EncodePlus QueryEncoding = "plus"
	// EncodePercent replaces spaces with '%20' (path-segment style).
	EncodePercent QueryEncoding = "percent"
)

const queryPlaceholder = "{query}"

// LinkRule describes how article links are recognized on an outlet's
// search-results page.
type LinkRule struct {
	// Selector locates candidate anchors. Empty means "a[href]".
	Selector string
	// AllowSubstrings keeps only hrefs containing at least one entry.
	// Empty means any same-host link is eligible.
	AllowSubstrings []string
	// DenySubstrings drops hrefs containing any entry.
	DenySubstrings []string
	// BaseURL resolves relative hrefs and pins the accepted host.
	BaseURL string
	// HostRewrites maps a matched host to a replacement applied after
	// filtering, e.g. the bbc.co.uk search host to the bbc.com article host.
	HostRewrites map[string]string
}

// ArticleRule describes how an article page body is isolated.
type ArticleRule struct {
	// BodySelectors are tried in order; the first selection yielding
	// paragraph text wins.
	BodySelectors []string
	// HeadingSelector overrides the default h1/title heading lookup.
	HeadingSelector string
	// ImageSelector locates a lead image before the og:image fallback.
	ImageSelector string
}

// Descriptor is the static per-outlet configuration row. Descriptors are
// immutable after Registry validation and safe for concurrent reads.
type Descriptor struct {
	ID          string
	DisplayName string
	// SearchURLTemplate contains a {query} placeholder.
	SearchURLTemplate string
	// AltSearchURLTemplate, when set, is tried after the primary search
	// URL fails on the network.
	AltSearchURLTemplate string
	Encoding             QueryEncoding
	Links                LinkRule
	Article              ArticleRule
}

// SearchURL substitutes the query text into the outlet's primary search
// URL template.
func (d Descriptor) SearchURL(query string) string {
	return expandTemplate(d.SearchURLTemplate, query, d.Encoding)
}

// AltSearchURL substitutes the query into the fallback template. Empty
// when the outlet has no fallback.
func (d Descriptor) AltSearchURL(query string) string {
	if d.AltSearchURLTemplate == "" {
		return ""
	}
	return expandTemplate(d.AltSearchURLTemplate, query, d.Encoding)
}

func expandTemplate(tmpl, query string, enc QueryEncoding) string {
	q := strings.TrimSpace(query)
	switch enc {
	case EncodePercent:
		q = url.PathEscape(q)
	default:
		q = url.QueryEscape(q) // spaces become '+'
	}
	return strings.ReplaceAll(tmpl, queryPlaceholder, q)
}

// Registry holds the ordered outlet table. Order is significant: the
// aggregated result set groups outlets in registry order.
type Registry struct {
	list []Descriptor
	byID map[string]Descriptor
}

// NewRegistry builds a registry from descriptors, preserving order.
func NewRegistry(descs []Descriptor) (*Registry, error) {
	r := &Registry{byID: make(map[string]Descriptor, len(descs))}
	for _, d := range descs {
		if err := validateDescriptor(d); err != nil {
			return nil, fmt.Errorf("source %q: %w", d.ID, err)
		}
		if _, dup := r.byID[d.ID]; dup {
			return nil, fmt.Errorf("source %q: duplicate id", d.ID)
		}
		r.list = append(r.list, d)
		r.byID[d.ID] = d
	}
	if len(r.list) == 0 {
		return nil, fmt.Errorf("no sources configured")
	}
	return r, nil
}

// All returns the descriptors in configured order.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, len(r.list))
	copy(out, r.list)
	return out
}

// ByID looks up a single outlet.
func (r *Registry) ByID(id string) (Descriptor, bool) {
	d, ok := r.byID[strings.ToLower(strings.TrimSpace(id))]
	return d, ok
}

// IDs returns the outlet ids in configured order.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.list))
	for _, d := range r.list {
		out = append(out, d.ID)
	}
	return out
}

func validateDescriptor(d Descriptor) error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("empty id")
	}
	if d.ID != strings.ToLower(d.ID) {
		return fmt.Errorf("id must be lower-case")
	}
	if strings.TrimSpace(d.DisplayName) == "" {
		return fmt.Errorf("empty display name")
	}
	if !strings.Contains(d.SearchURLTemplate, queryPlaceholder) {
		return fmt.Errorf("search template missing %s placeholder", queryPlaceholder)
	}
	if d.AltSearchURLTemplate != "" && !strings.Contains(d.AltSearchURLTemplate, queryPlaceholder) {
		return fmt.Errorf("alt search template missing %s placeholder", queryPlaceholder)
	}
	for _, tmpl := range []string{d.SearchURLTemplate, d.AltSearchURLTemplate} {
		if tmpl == "" {
			continue
		}
		u, err := url.Parse(strings.ReplaceAll(tmpl, queryPlaceholder, "probe"))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("search template %q is not an absolute URL", tmpl)
		}
	}
	base, err := url.Parse(d.Links.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return fmt.Errorf("link base URL %q is not an absolute URL", d.Links.BaseURL)
	}
	if len(d.Article.BodySelectors) == 0 {
		return fmt.Errorf("no article body selectors")
	}
	return nil
}
