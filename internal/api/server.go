// Package api exposes the pipeline over HTTP for the web client:
// live search, stored-results listing, scrape triggering, and health.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/realify/newsdesk/internal/news"
	"github.com/realify/newsdesk/internal/orchestrate"
	"github.com/realify/newsdesk/internal/store"
)

// SearchRunner is the orchestrator surface the handlers need.
type SearchRunner interface {
	RunSearch(ctx context.Context, queryText, selector string) ([]news.Item, error)
	ScrapeSource(ctx context.Context, sourceID, queryText string) (int, error)
}

// Repository is the read side of the result store.
type Repository interface {
	ListRecent(ctx context.Context, limit int) ([]news.Item, error)
	Stats(ctx context.Context) (store.Stats, error)
}

// Server holds the handler dependencies. Repo may be nil when
// persistence is disabled.
type Server struct {
	Runner SearchRunner
	Repo   Repository
}

// Routes returns the configured http.Handler.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /news", s.handleListNews)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.HandleFunc("POST /scrape/{source}", s.handleScrape)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// handleSearch is the live path: always scrapes, never reads the store.
// Invalid input is the only error a caller sees; partial outlet
// failures come back as a smaller result set with status 200.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	selector := r.URL.Query().Get("source")
	if selector == "" {
		selector = orchestrate.SelectorAll
	}

	items, err := s.Runner.RunSearch(r.Context(), query, selector)
	if err != nil {
		if errors.Is(err, orchestrate.ErrInvalidQuery) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("search failed")
		respondError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if items == nil {
		items = []news.Item{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"query":   query,
		"source":  selector,
		"count":   len(items),
		"results": items,
	})
}

func (s *Server) handleListNews(w http.ResponseWriter, r *http.Request) {
	if s.Repo == nil {
		respondError(w, http.StatusServiceUnavailable, "persistence is not enabled")
		return
	}
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	items, err := s.Repo.ListRecent(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list news failed")
		respondError(w, http.StatusInternalServerError, "listing failed")
		return
	}
	if items == nil {
		items = []news.Item{}
	}
	respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.Repo == nil {
		respondError(w, http.StatusServiceUnavailable, "persistence is not enabled")
		return
	}
	st, err := s.Repo.Stats(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("stats failed")
		respondError(w, http.StatusInternalServerError, "stats failed")
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// handleScrape runs a single-outlet search-and-persist pass for
// pre-warming the store. This is the one path where store errors
// surface to the caller.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	sourceID := r.PathValue("source")
	query := r.URL.Query().Get("query")
	if query == "" {
		// Pre-warm pass without a topic: scrape the outlet's own idea
		// of current news.
		query = "news"
	}
	count, err := s.Runner.ScrapeSource(r.Context(), sourceID, query)
	if err != nil {
		if errors.Is(err, orchestrate.ErrInvalidQuery) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Str("source", sourceID).Err(err).Msg("scrape failed")
		respondJSON(w, http.StatusInternalServerError, map[string]any{"status": "error", "count": 0})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "success", "count": count})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
