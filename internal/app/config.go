package app

import (
	"fmt"
	"time"
)

// Config is the resolved service configuration. Precedence: explicit
// flags, then environment, then config file, then defaults.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// DBPath is the sqlite database path. Empty disables persistence.
	DBPath string

	// LLMBaseURL points at an OpenAI-compatible server.
	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string
	// LLMConcurrency bounds in-flight summarization calls.
	LLMConcurrency int

	UserAgent string

	// PerOutletCap bounds results per outlet per query.
	PerOutletCap int
	// CallTimeout bounds each network/summarization call.
	CallTimeout time.Duration
	// GlobalTimeout bounds a whole query.
	GlobalTimeout time.Duration

	// ChunkChars bounds each summarization call's input.
	ChunkChars int
	// PassThroughChars is the short-text display threshold.
	PassThroughChars int
	// MaxSummaryChars bounds the final summary.
	MaxSummaryChars int

	Verbose bool
}

// ApplyDefaults fills unset tunables with their documented defaults.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = ":5000"
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	}
	if c.LLMConcurrency <= 0 {
		c.LLMConcurrency = 2
	}
	if c.PerOutletCap <= 0 {
		c.PerOutletCap = 3
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 15 * time.Second
	}
	if c.GlobalTimeout <= 0 {
		c.GlobalTimeout = 60 * time.Second
	}
	if c.ChunkChars <= 0 {
		c.ChunkChars = 700
	}
	if c.PassThroughChars <= 0 {
		c.PassThroughChars = 400
	}
	if c.MaxSummaryChars <= 0 {
		c.MaxSummaryChars = 800
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.CallTimeout > c.GlobalTimeout {
		return fmt.Errorf("call timeout %s exceeds global timeout %s", c.CallTimeout, c.GlobalTimeout)
	}
	if c.ChunkChars < c.PassThroughChars/2 {
		return fmt.Errorf("chunk size %d is too small for pass-through threshold %d", c.ChunkChars, c.PassThroughChars)
	}
	return nil
}
