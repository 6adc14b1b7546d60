package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/realify/newsdesk/internal/fetch"
	"github.com/realify/newsdesk/internal/source"
)

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, html)
	}))
}

func testDescriptor(ts *httptest.Server) source.Descriptor {
	return source.Descriptor{
		ID:                "geo",
		DisplayName:       "Geo News",
		SearchURLTemplate: ts.URL + "/search/{query}",
		Encoding:          source.EncodePlus,
		Links: source.LinkRule{
			AllowSubstrings: []string{"/latest/"},
			BaseURL:         ts.URL,
		},
		Article: source.ArticleRule{BodySelectors: []string{"article"}},
	}
}

func TestSearch_CapsAtThreeInPageOrder(t *testing.T) {
	ts := serveHTML(t, `<html><body>
		<a href="/latest/1">First</a>
		<a href="/latest/2">Second</a>
		<a href="/other/x">Nav link</a>
		<a href="/latest/3">Third</a>
		<a href="/latest/4">Fourth</a>
	</body></html>`)
	defer ts.Close()

	a := &Adapter{Client: &fetch.Client{}}
	cands, err := a.Search(context.Background(), testDescriptor(ts), "economy")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(cands) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(cands))
	}
	for i, wantPath := range []string{"/latest/1", "/latest/2", "/latest/3"} {
		u, _ := url.Parse(cands[i].URL)
		if u.Path != wantPath {
			t.Fatalf("candidate %d: expected %s, got %s", i, wantPath, u.Path)
		}
		if cands[i].SourceID != "geo" {
			t.Fatalf("candidate %d: wrong source id %q", i, cands[i].SourceID)
		}
	}
	if cands[0].Title != "First" {
		t.Fatalf("expected anchor text as title, got %q", cands[0].Title)
	}
}

func TestSearch_DeduplicatesLinks(t *testing.T) {
	ts := serveHTML(t, `<html><body>
		<a href="/latest/1">One</a>
		<a href="/latest/1">One again</a>
		<a href="/latest/2">Two</a>
	</body></html>`)
	defer ts.Close()

	a := &Adapter{Client: &fetch.Client{}}
	cands, err := a.Search(context.Background(), testDescriptor(ts), "q")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(cands) != 2 {
		t.Fatalf("expected deduped candidates, got %d", len(cands))
	}
}

func TestSearch_DropsOffHostAndDeniedLinks(t *testing.T) {
	ts := serveHTML(t, `<html><body>
		<a href="https://elsewhere.example/latest/1">Off host</a>
		<a href="/latest/video/2">Denied</a>
		<a href="/latest/3">Kept</a>
	</body></html>`)
	defer ts.Close()

	desc := testDescriptor(ts)
	desc.Links.DenySubstrings = []string{"/video/"}

	a := &Adapter{Client: &fetch.Client{}}
	cands, err := a.Search(context.Background(), desc, "q")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
}

func TestSearch_AppliesHostRewrite(t *testing.T) {
	ts := serveHTML(t, `<html><body><a href="/news/articles/abc">Story</a></body></html>`)
	defer ts.Close()

	desc := testDescriptor(ts)
	desc.Links.AllowSubstrings = []string{"/news/"}
	host, _ := url.Parse(ts.URL)
	desc.Links.HostRewrites = map[string]string{host.Host: "www.example.com"}

	a := &Adapter{Client: &fetch.Client{}}
	cands, err := a.Search(context.Background(), desc, "q")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	u, _ := url.Parse(cands[0].URL)
	if u.Host != "www.example.com" {
		t.Fatalf("expected rewritten host, got %q", u.Host)
	}
}

func TestSearch_ParseErrorWhenSelectorMatchesNothing(t *testing.T) {
	ts := serveHTML(t, `<html><body><p>No anchors at all</p></body></html>`)
	defer ts.Close()

	a := &Adapter{Client: &fetch.Client{}}
	_, err := a.Search(context.Background(), testDescriptor(ts), "q")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.SourceID != "geo" {
		t.Fatalf("parse error must carry the outlet id, got %q", pe.SourceID)
	}
}

func TestSearch_NetworkErrorOnBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	a := &Adapter{Client: &fetch.Client{}}
	_, err := a.Search(context.Background(), testDescriptor(ts), "q")
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if ne.SourceID != "geo" {
		t.Fatalf("network error must carry the outlet id, got %q", ne.SourceID)
	}
}

func TestSearch_FallsBackToAltSearchURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, `<html><body><a href="/latest/1">One</a></body></html>`)
	}))
	defer ts.Close()

	desc := testDescriptor(ts)
	desc.SearchURLTemplate = ts.URL + "/broken?q={query}"
	desc.AltSearchURLTemplate = ts.URL + "/fallback?s={query}"

	a := &Adapter{Client: &fetch.Client{}}
	cands, err := a.Search(context.Background(), desc, "q")
	if err != nil {
		t.Fatalf("expected fallback URL to be used: %v", err)
	}
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate from fallback, got %d", len(cands))
	}
}
