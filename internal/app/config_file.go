package app

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the YAML configuration schema. Nested sections map
// naturally to flags and env.
type FileConfig struct {
	Addr string `yaml:"addr"`
	DB   string `yaml:"db"`

	LLM struct {
		BaseURL     string `yaml:"base"`
		Model       string `yaml:"model"`
		APIKey      string `yaml:"key"`
		Concurrency int    `yaml:"concurrency"`
	} `yaml:"llm"`

	Fetch struct {
		UserAgent string `yaml:"userAgent"`
	} `yaml:"fetch"`

	Search struct {
		PerOutlet     int           `yaml:"perOutlet"`
		CallTimeout   time.Duration `yaml:"callTimeout"`
		GlobalTimeout time.Duration `yaml:"globalTimeout"`
	} `yaml:"search"`

	Summary struct {
		ChunkChars       int `yaml:"chunkChars"`
		PassThroughChars int `yaml:"passThroughChars"`
		MaxChars         int `yaml:"maxChars"`
	} `yaml:"summary"`

	Verbose bool `yaml:"verbose"`
}

// LoadFileConfig reads a YAML config file. A missing path is not an
// error; the zero FileConfig is returned.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	if path == "" {
		return fc, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// MergeFileConfig fills unset cfg fields from the file config. Explicit
// cfg values take precedence.
func MergeFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.Addr == "" {
		cfg.Addr = fc.Addr
	}
	if cfg.DBPath == "" {
		cfg.DBPath = fc.DB
	}
	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = fc.LLM.BaseURL
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = fc.LLM.Model
	}
	if cfg.LLMAPIKey == "" {
		cfg.LLMAPIKey = fc.LLM.APIKey
	}
	if cfg.LLMConcurrency == 0 {
		cfg.LLMConcurrency = fc.LLM.Concurrency
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if cfg.PerOutletCap == 0 {
		cfg.PerOutletCap = fc.Search.PerOutlet
	}
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = fc.Search.CallTimeout
	}
	if cfg.GlobalTimeout == 0 {
		cfg.GlobalTimeout = fc.Search.GlobalTimeout
	}
	if cfg.ChunkChars == 0 {
		cfg.ChunkChars = fc.Summary.ChunkChars
	}
	if cfg.PassThroughChars == 0 {
		cfg.PassThroughChars = fc.Summary.PassThroughChars
	}
	if cfg.MaxSummaryChars == 0 {
		cfg.MaxSummaryChars = fc.Summary.MaxChars
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}
