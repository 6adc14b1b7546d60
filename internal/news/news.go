package news

import "time"

// Candidate is a single search-result link discovered on an outlet's
// search page, before any content extraction.
type Candidate struct {
	SourceID string
	URL      string
	Title    string
}

// Article is the extracted content of a candidate page. RawText may be
// empty when no usable body was found; downstream stages degrade in that
// case instead of failing the query.
type Article struct {
	SourceID string
	URL      string
	Heading  string
	RawText  string
	Picture  string
}

// Item is the unit returned to callers and persisted in the store.
// URL is the canonical dedup key across an aggregated result set and
// across the store.
type Item struct {
	URL       string    `json:"url"`
	Heading   string    `json:"heading"`
	Summary   string    `json:"summary"`
	Degraded  bool      `json:"degraded"`
	Picture   string    `json:"picture,omitempty"`
	SourceID  string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}
