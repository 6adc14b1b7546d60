// Package orchestrate fans a query out across outlets, drives search,
// extraction, and summarization per candidate, and aggregates the
// branches into one ordered, deduplicated result set.
package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/realify/newsdesk/internal/adapter"
	"github.com/realify/newsdesk/internal/news"
	"github.com/realify/newsdesk/internal/source"
	"github.com/realify/newsdesk/internal/summarize"
)

// SelectorAll requests every configured outlet.
const SelectorAll = "all"

// ErrInvalidQuery is the only failure reported to callers: empty query
// text or an unknown source selector, detected before any network
// activity. Everything else shrinks the result set instead.
var ErrInvalidQuery = errors.New("invalid query")

// Extractor pulls an article from a candidate page. A non-nil error
// means the page could not be fetched at all; that candidate is dropped
// while the branch continues. Empty RawText with a nil error means the
// page had no usable body and the summary degrades instead.
type Extractor interface {
	Extract(ctx context.Context, cand news.Candidate, rule source.ArticleRule) (news.Article, error)
}

// Summarizer produces a display summary, possibly degraded, never failing.
type Summarizer interface {
	Summarize(ctx context.Context, rawText string) summarize.Summary
}

// Sink receives finished items for persistence.
type Sink interface {
	Upsert(ctx context.Context, item news.Item) error
}

// Config carries the orchestration tunables.
type Config struct {
	// PerOutletCap bounds items per outlet per query. Zero means 3.
	PerOutletCap int
	// CallTimeout bounds each search, extract, and summarize call,
	// clipped to whatever remains of the global budget. Zero means 15s.
	CallTimeout time.Duration
	// GlobalTimeout bounds a whole query. Zero means 60s.
	GlobalTimeout time.Duration
}

func (c Config) perOutletCap() int {
	if c.PerOutletCap <= 0 {
		return 3
	}
	return c.PerOutletCap
}

func (c Config) callTimeout() time.Duration {
	if c.CallTimeout <= 0 {
		return 15 * time.Second
	}
	return c.CallTimeout
}

func (c Config) globalTimeout() time.Duration {
	if c.GlobalTimeout <= 0 {
		return 60 * time.Second
	}
	return c.GlobalTimeout
}

// Orchestrator coordinates one query across outlets. Sink is optional;
// when nil, results are not persisted.
type Orchestrator struct {
	Registry   *source.Registry
	Searcher   adapter.Searcher
	Extractor  Extractor
	Summarizer Summarizer
	Sink       Sink
	Config     Config
}

// RunSearch resolves the selector, runs one concurrent branch per
// outlet, and returns the aggregated items grouped by requested outlet
// order then native result order. Partial failures never surface as an
// error; the result set just shrinks. Persisted items are best-effort.
func (o *Orchestrator) RunSearch(ctx context.Context, queryText, selector string) ([]news.Item, error) {
	descs, query, err := o.resolve(queryText, selector)
	if err != nil {
		return nil, err
	}
	items := o.run(ctx, query, descs)
	if o.Sink != nil {
		o.persistBestEffort(ctx, items)
	}
	return items, nil
}

// ScrapeSource runs a single-outlet search-and-persist pass outside the
// interactive flow, for pre-warming the store. Unlike RunSearch, store
// failures surface here.
func (o *Orchestrator) ScrapeSource(ctx context.Context, sourceID, queryText string) (int, error) {
	if strings.TrimSpace(sourceID) == "" || strings.EqualFold(sourceID, SelectorAll) {
		return 0, fmt.Errorf("%w: scrape requires a single source id", ErrInvalidQuery)
	}
	descs, query, err := o.resolve(queryText, sourceID)
	if err != nil {
		return 0, err
	}
	if o.Sink == nil {
		return 0, errors.New("persistence is not enabled")
	}
	items := o.run(ctx, query, descs)
	for _, it := range items {
		if err := o.Sink.Upsert(ctx, it); err != nil {
			return 0, fmt.Errorf("persist scrape results: %w", err)
		}
	}
	return len(items), nil
}

// resolve validates the query before any network activity.
func (o *Orchestrator) resolve(queryText, selector string) ([]source.Descriptor, string, error) {
	query := strings.TrimSpace(queryText)
	if query == "" {
		return nil, "", fmt.Errorf("%w: empty query text", ErrInvalidQuery)
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" || sel == SelectorAll {
		return o.Registry.All(), query, nil
	}
	desc, ok := o.Registry.ByID(sel)
	if !ok {
		return nil, "", fmt.Errorf("%w: unknown source %q", ErrInvalidQuery, selector)
	}
	return []source.Descriptor{desc}, query, nil
}

// run launches one branch per outlet and aggregates. Completion order
// does not affect output order: branch i writes slot i, and slots are
// flattened in requested order after all branches finish or the global
// deadline lapses.
func (o *Orchestrator) run(ctx context.Context, query string, descs []source.Descriptor) []news.Item {
	ctx, cancel := context.WithTimeout(ctx, o.Config.globalTimeout())
	defer cancel()

	collected := make([][]news.Item, len(descs))
	var g errgroup.Group
	for i, desc := range descs {
		g.Go(func() error {
			collected[i] = o.branch(ctx, query, desc)
			return nil
		})
	}
	_ = g.Wait()

	seen := map[string]struct{}{}
	var out []news.Item
	for _, group := range collected {
		for _, it := range group {
			if _, dup := seen[it.URL]; dup {
				continue
			}
			seen[it.URL] = struct{}{}
			out = append(out, it)
		}
	}
	log.Info().Str("query", query).Int("sources", len(descs)).Int("items", len(out)).Msg("search aggregated")
	return out
}

// branch runs one outlet in isolation: search once, then extract and
// summarize each candidate in native order. Failure here never
// propagates; the branch just contributes less.
func (o *Orchestrator) branch(ctx context.Context, query string, desc source.Descriptor) []news.Item {
	searchCtx, cancel := context.WithTimeout(ctx, o.Config.callTimeout())
	cands, err := o.Searcher.Search(searchCtx, desc, query)
	cancel()
	if err != nil {
		var pe *adapter.ParseError
		if errors.As(err, &pe) {
			log.Warn().Str("source", desc.ID).Err(err).Msg("search markup drift, source needs maintenance")
		} else {
			log.Warn().Str("source", desc.ID).Err(err).Msg("search failed")
		}
		return nil
	}

	limit := o.Config.perOutletCap()
	if len(cands) > limit {
		cands = cands[:limit]
	}

	// Candidates keep their native search order; a candidate that hits
	// the deadline is dropped while the rest of the branch continues.
	items := make([]news.Item, 0, len(cands))
	for _, cand := range cands {
		if ctx.Err() != nil {
			log.Warn().Str("source", desc.ID).Int("collected", len(items)).Msg("branch deadline reached, keeping partial results")
			break
		}
		extractCtx, cancel := context.WithTimeout(ctx, o.Config.callTimeout())
		article, err := o.Extractor.Extract(extractCtx, cand, desc.Article)
		cancel()
		if err != nil {
			// Unreachable page: drop this candidate only, the rest of
			// the branch keeps going.
			log.Warn().Str("source", desc.ID).Str("url", cand.URL).Err(err).Msg("candidate dropped")
			continue
		}

		sumCtx, cancel := context.WithTimeout(ctx, o.Config.callTimeout())
		sum := o.Summarizer.Summarize(sumCtx, article.RawText)
		cancel()
		items = append(items, news.Item{
			URL:       canonicalURL(article.URL),
			Heading:   article.Heading,
			Summary:   sum.Text,
			Degraded:  sum.Degraded,
			Picture:   article.Picture,
			SourceID:  desc.ID,
			FetchedAt: time.Now().UTC(),
		})
	}
	log.Debug().Str("source", desc.ID).Int("items", len(items)).Msg("branch collected")
	return items
}

func (o *Orchestrator) persistBestEffort(ctx context.Context, items []news.Item) {
	for _, it := range items {
		if err := o.Sink.Upsert(ctx, it); err != nil {
			// Interactive search never fails on store errors.
			log.Warn().Str("url", it.URL).Err(err).Msg("upsert failed")
		}
	}
}
