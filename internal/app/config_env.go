package app

import (
	"os"
	"strconv"
	"time"
)

// ApplyEnvToConfig populates unset fields of cfg from environment
// variables. Explicit cfg values take precedence over env.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.Addr == "" {
		cfg.Addr = os.Getenv("NEWSDESK_ADDR")
	}
	if cfg.DBPath == "" {
		cfg.DBPath = os.Getenv("NEWSDESK_DB")
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = os.Getenv("LLM_MODEL")
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = os.Getenv("LLM_API_KEY")
	}
	if cfg.LLMConcurrency == 0 {
		cfg.LLMConcurrency = envInt("LLM_CONCURRENCY")
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = os.Getenv("NEWSDESK_USER_AGENT")
	}
	if cfg.PerOutletCap == 0 {
		cfg.PerOutletCap = envInt("NEWSDESK_PER_OUTLET")
	}
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = envDuration("NEWSDESK_CALL_TIMEOUT")
	}
	if cfg.GlobalTimeout == 0 {
		cfg.GlobalTimeout = envDuration("NEWSDESK_GLOBAL_TIMEOUT")
	}
}

func envInt(key string) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 0
}

func envDuration(key string) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return 0
}
