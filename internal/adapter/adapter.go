// Package adapter turns a topic query into candidate article links for a
// single outlet, driven entirely by the outlet's source.Descriptor.
package adapter

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/realify/newsdesk/internal/fetch"
	"github.com/realify/newsdesk/internal/news"
	"github.com/realify/newsdesk/internal/source"
)

// NetworkError reports a transport failure or non-success status while
// talking to one outlet. It is scoped to that outlet only.
type NetworkError struct {
	SourceID string
	URL      string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("source %s: fetch %s: %v", e.SourceID, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports that an outlet's search page no longer matches the
// configured result rule. It signals markup drift needing maintenance,
// not a caller mistake.
type ParseError struct {
	SourceID string
	URL      string
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("source %s: parse %s: %s", e.SourceID, e.URL, e.Reason)
}

// Searcher is the outlet-adapter capability contract.
type Searcher interface {
	Search(ctx context.Context, desc source.Descriptor, query string) ([]news.Candidate, error)
}

// Adapter implements Searcher over a shared fetch.Client. Adapters are
// stateless and safe for concurrent use across outlets and queries.
type Adapter struct {
	Client *fetch.Client
	// PerSource caps candidates per outlet. Zero means 3.
	PerSource int
}

const defaultPerSource = 3

// Search fetches the outlet's search page and parses it into up to
// PerSource candidates, in page order. Outlet-native relevance ordering
// is trusted as-is; no re-ranking happens here.
func (a *Adapter) Search(ctx context.Context, desc source.Descriptor, query string) ([]news.Candidate, error) {
	searchURL := desc.SearchURL(query)
	body, _, err := a.Client.Get(ctx, searchURL)
	if err != nil && desc.AltSearchURLTemplate != "" {
		alt := desc.AltSearchURL(query)
		log.Debug().Str("source", desc.ID).Str("url", alt).Msg("primary search failed, trying fallback URL")
		searchURL = alt
		body, _, err = a.Client.Get(ctx, searchURL)
	}
	if err != nil {
		return nil, &NetworkError{SourceID: desc.ID, URL: searchURL, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{SourceID: desc.ID, URL: searchURL, Reason: err.Error()}
	}

	sel := doc.Find(anchorSelector(desc.Links))
	if sel.Length() == 0 {
		return nil, &ParseError{SourceID: desc.ID, URL: searchURL, Reason: "result selector matched no elements"}
	}

	limit := a.PerSource
	if limit <= 0 {
		limit = defaultPerSource
	}

	base, err := url.Parse(desc.Links.BaseURL)
	if err != nil {
		return nil, &ParseError{SourceID: desc.ID, URL: searchURL, Reason: "bad base URL: " + err.Error()}
	}

	seen := map[string]struct{}{}
	out := make([]news.Candidate, 0, limit)
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		resolved, ok := resolveLink(base, desc.Links, href)
		if !ok {
			return true
		}
		if _, dup := seen[resolved]; dup {
			return true
		}
		seen[resolved] = struct{}{}
		out = append(out, news.Candidate{
			SourceID: desc.ID,
			URL:      resolved,
			Title:    strings.TrimSpace(s.Text()),
		})
		return len(out) < limit
	})

	log.Debug().Str("source", desc.ID).Int("candidates", len(out)).Str("query", query).Msg("search parsed")
	return out, nil
}

func anchorSelector(rule source.LinkRule) string {
	if rule.Selector != "" {
		return rule.Selector
	}
	return "a[href]"
}

// resolveLink normalizes one anchor href against the outlet rule:
// relative links resolve against the base, off-host links are dropped,
// allow/deny substring filters apply, then host rewrites.
func resolveLink(base *url.URL, rule source.LinkRule, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return "", false
	}
	u, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	u = base.ResolveReference(u)
	if !strings.EqualFold(u.Host, base.Host) {
		return "", false
	}
	full := u.String()
	if len(rule.AllowSubstrings) > 0 && !containsAny(full, rule.AllowSubstrings) {
		return "", false
	}
	if containsAny(full, rule.DenySubstrings) {
		return "", false
	}
	// A bare section root (e.g. "/news/") is navigation, not an article.
	if strings.TrimPrefix(u.Path, "/") == "" {
		return "", false
	}
	if repl, ok := rule.HostRewrites[strings.ToLower(u.Host)]; ok {
		u.Host = repl
		full = u.String()
	}
	return full, true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
