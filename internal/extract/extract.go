// Package extract isolates the main body text of an article page,
// independent of outlet: the owning outlet's article rule is tried
// first, then a generic largest-paragraph-block heuristic.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"

	"github.com/realify/newsdesk/internal/fetch"
	"github.com/realify/newsdesk/internal/news"
	"github.com/realify/newsdesk/internal/source"
)

// MinBodyChars is the threshold below which extracted text is treated
// as no usable body.
const MinBodyChars = 50

// Extractor fetches a candidate page and pulls out heading, body text,
// and an optional lead image.
type Extractor struct {
	Client *fetch.Client
}

// Extract never fails the whole query. A fetch failure returns an
// error scoped to this candidate alone, so the caller can drop it while
// the rest of the branch continues. A page that fetched but yields no
// usable body returns an Article with empty RawText and no error; the
// pipeline degrades the summary instead. One attempt per candidate
// within ctx's deadline.
func (e *Extractor) Extract(ctx context.Context, cand news.Candidate, rule source.ArticleRule) (news.Article, error) {
	art := news.Article{SourceID: cand.SourceID, URL: cand.URL, Heading: cand.Title}

	body, _, err := e.Client.Get(ctx, cand.URL)
	if err != nil {
		log.Warn().Str("source", cand.SourceID).Str("url", cand.URL).Err(err).Msg("article fetch failed")
		return art, fmt.Errorf("fetch article %s: %w", cand.URL, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		log.Warn().Str("source", cand.SourceID).Str("url", cand.URL).Err(err).Msg("article parse failed")
		return art, nil
	}

	if h := heading(doc, rule); h != "" {
		art.Heading = h
	}
	art.Picture = leadImage(doc, rule)

	text := ruleText(doc, rule)
	if text == "" {
		text = largestBlock(doc)
	}
	if len(text) < MinBodyChars {
		log.Warn().Str("source", cand.SourceID).Str("url", cand.URL).Int("chars", len(text)).Msg("no usable body text")
		return art, nil
	}
	art.RawText = text
	return art, nil
}

func heading(doc *goquery.Document, rule source.ArticleRule) string {
	if rule.HeadingSelector != "" {
		if h := strings.TrimSpace(doc.Find(rule.HeadingSelector).First().Text()); h != "" {
			return h
		}
	}
	if h := strings.TrimSpace(doc.Find("h1").First().Text()); h != "" {
		return h
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func leadImage(doc *goquery.Document, rule source.ArticleRule) string {
	if rule.ImageSelector != "" {
		if src, ok := doc.Find(rule.ImageSelector).First().Attr("src"); ok && strings.TrimSpace(src) != "" {
			return strings.TrimSpace(src)
		}
	}
	if content, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}

// ruleText applies the outlet's body selectors in order. Paragraphs
// inside the matched container are preferred; a container that holds
// bare text (e.g. BBC's text blocks) is used directly.
func ruleText(doc *goquery.Document, rule source.ArticleRule) string {
	for _, selector := range rule.BodySelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}
		parts := paragraphs(sel)
		if len(parts) == 0 {
			sel.Each(func(_ int, s *goquery.Selection) {
				if t := collapse(s.Text()); t != "" {
					parts = append(parts, t)
				}
			})
		}
		if text := strings.Join(parts, " "); text != "" {
			return text
		}
	}
	return ""
}

func paragraphs(sel *goquery.Selection) []string {
	var parts []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := collapse(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return parts
}

// largestBlock is the generic fallback: group every <p> by its parent
// element and return the paragraphs of the parent holding the most text.
// This finds the article body on pages whose configured rule has
// drifted, while skipping nav and teaser paragraphs scattered elsewhere.
func largestBlock(doc *goquery.Document) string {
	type block struct {
		total int
		parts []string
	}
	blocks := map[*html.Node]*block{}
	var order []*html.Node

	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if len(p.Nodes) == 0 || p.Nodes[0].Parent == nil {
			return
		}
		if insideBoilerplate(p.Nodes[0]) {
			return
		}
		parent := p.Nodes[0].Parent
		text := collapse(p.Text())
		if text == "" {
			return
		}
		b, ok := blocks[parent]
		if !ok {
			b = &block{}
			blocks[parent] = b
			order = append(order, parent)
		}
		b.total += len(text)
		b.parts = append(b.parts, text)
	})

	var best *block
	for _, parent := range order {
		b := blocks[parent]
		if best == nil || b.total > best.total {
			best = b
		}
	}
	if best == nil {
		return ""
	}
	return strings.Join(best.parts, " ")
}

func insideBoilerplate(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		switch strings.ToLower(cur.Data) {
		case "nav", "footer", "aside", "header", "noscript":
			return true
		}
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
