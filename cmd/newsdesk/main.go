package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/realify/newsdesk/internal/app"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		cfg        app.Config
		configPath string
		envFile    string
	)

	flag.StringVar(&cfg.Addr, "addr", "", "HTTP listen address (default :5000)")
	flag.StringVar(&cfg.DBPath, "db", "", "SQLite database path; empty disables persistence")
	flag.StringVar(&cfg.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	flag.StringVar(&cfg.LLMModel, "llm.model", "", "Model name for summarization")
	flag.StringVar(&cfg.LLMAPIKey, "llm.key", "", "API key for the summarization backend")
	flag.IntVar(&cfg.LLMConcurrency, "llm.concurrency", 0, "Max concurrent summarization calls (default 2)")
	flag.StringVar(&cfg.UserAgent, "ua", "", "User-Agent for outlet requests")
	flag.IntVar(&cfg.PerOutletCap, "search.perOutlet", 0, "Max results per outlet per query (default 3)")
	flag.DurationVar(&cfg.CallTimeout, "timeout.call", 0, "Per-call timeout (default 15s)")
	flag.DurationVar(&cfg.GlobalTimeout, "timeout.global", 0, "Global query deadline (default 60s)")
	flag.IntVar(&cfg.ChunkChars, "summary.chunkChars", 0, "Max characters per summarization chunk (default 700)")
	flag.IntVar(&cfg.MaxSummaryChars, "summary.maxChars", 0, "Max characters in the final summary (default 800)")
	flag.StringVar(&configPath, "config", "", "Path to YAML config file")
	flag.StringVar(&envFile, "env", ".env", "Path to dotenv file")
	flag.BoolVar(&cfg.Verbose, "v", false, "Verbose logging")
	flag.Parse()

	if err := app.LoadEnvFiles(envFile); err != nil {
		log.Fatal().Err(err).Msg("load env file")
	}
	app.ApplyEnvToConfig(&cfg)
	fileCfg, err := app.LoadFileConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config file")
	}
	app.MergeFileConfig(&cfg, fileCfg)

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("shut down cleanly")
}
