// Package app wires configuration into the running service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/realify/newsdesk/internal/adapter"
	"github.com/realify/newsdesk/internal/api"
	"github.com/realify/newsdesk/internal/extract"
	"github.com/realify/newsdesk/internal/fetch"
	"github.com/realify/newsdesk/internal/llm"
	"github.com/realify/newsdesk/internal/orchestrate"
	"github.com/realify/newsdesk/internal/source"
	"github.com/realify/newsdesk/internal/store"
	"github.com/realify/newsdesk/internal/summarize"
)

// App owns the wired pipeline and the HTTP server.
type App struct {
	cfg    Config
	server *http.Server
	store  *store.Store
}

// New validates cfg, builds the outlet registry, and wires the
// pipeline. The LLM preflight is best-effort: an unreachable model does
// not block startup, summaries degrade instead.
func New(ctx context.Context, cfg Config) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	registry, err := source.NewRegistry(source.Defaults())
	if err != nil {
		return nil, fmt.Errorf("source table: %w", err)
	}

	client := &fetch.Client{
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       2,
		PerRequestTimeout: cfg.CallTimeout,
		MaxConcurrent:     2 * len(registry.IDs()),
	}

	var capability llm.Client
	if cfg.LLMBaseURL != "" || cfg.LLMAPIKey != "" {
		transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
		if cfg.LLMBaseURL != "" {
			transportCfg.BaseURL = cfg.LLMBaseURL
		}
		provider := &llm.OpenAIProvider{Inner: openai.NewClientWithConfig(transportCfg)}
		preflight(ctx, provider)
		capability = llm.NewGate(provider, int64(cfg.LLMConcurrency))
	} else {
		log.Warn().Msg("no LLM configured, summaries will be truncated raw text")
	}

	a := &App{cfg: cfg}
	var sink orchestrate.Sink
	var repo api.Repository
	if cfg.DBPath != "" {
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("result store: %w", err)
		}
		a.store = st
		sink = st
		repo = st
		log.Info().Str("db", cfg.DBPath).Msg("result store ready")
	} else {
		log.Warn().Msg("persistence disabled, search results will not be stored")
	}

	orc := &orchestrate.Orchestrator{
		Registry: registry,
		Searcher: &adapter.Adapter{Client: client, PerSource: cfg.PerOutletCap},
		Extractor: &extract.Extractor{Client: client},
		Summarizer: &summarize.Summarizer{
			Client:           capability,
			Model:            cfg.LLMModel,
			ChunkChars:       cfg.ChunkChars,
			PassThroughChars: cfg.PassThroughChars,
			MaxFinalChars:    cfg.MaxSummaryChars,
		},
		Sink: sink,
		Config: orchestrate.Config{
			PerOutletCap:  cfg.PerOutletCap,
			CallTimeout:   cfg.CallTimeout,
			GlobalTimeout: cfg.GlobalTimeout,
		},
	}

	srv := &api.Server{Runner: orc, Repo: repo}
	a.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", a.cfg.Addr).Msg("listening")
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	}
}

// Close releases the store.
func (a *App) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}

// preflight lists models on the configured backend. Best-effort only:
// downstream summarization surfaces real failures as degraded output.
func preflight(ctx context.Context, lister llm.ModelLister) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	models, err := lister.ListModels(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("LLM model list failed; continuing")
		return
	}
	if len(models.Models) == 0 {
		log.Warn().Msg("LLM returned zero models")
		return
	}
	log.Info().Int("count", len(models.Models)).Msg("LLM models available")
}
