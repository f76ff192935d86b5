// Package config implements the layered configuration loader (C11): a
// single .tsugix.json resolution order (TSUGIX_CONFIG path, then
// ./.tsugix.json, then $HOME/.tsugix.json, then hardcoded defaults).
// Credentials are read exclusively from environment variables, never from
// the config file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// TsugixConfigEnv overrides the config file path entirely when set.
const TsugixConfigEnv = "TSUGIX_CONFIG"

const configFileName = ".tsugix.json"

// fileConfig is the on-disk shape of .tsugix.json. Every field is optional;
// a missing or malformed file yields only defaults.
type fileConfig struct {
	Provider             string  `json:"provider"`
	Model                string  `json:"model"`
	Endpoint             string  `json:"endpoint"`
	MaxTokens            int     `json:"max_tokens"`
	Temperature          float64 `json:"temperature"`
	RetryCount           int     `json:"retry_count"`
	TimeoutSeconds       int     `json:"timeout_seconds"`
	MaxConcurrent        int     `json:"max_concurrent"`
	RequestsPerMinute    int     `json:"requests_per_minute"`
	SnippetWindow        int     `json:"snippet_window"`
	AutoBackup           *bool   `json:"auto_backup"`
	AutoApply            *bool   `json:"auto_apply"`
	AutoRerun            *bool   `json:"auto_rerun"`
	RootDirectory        string   `json:"root_directory"`
	CustomPromptTemplate string   `json:"custom_prompt_template"`
	IgnorePatterns       []string `json:"ignore_patterns"`
}

// Config is the resolved, merged configuration used by the rest of the
// application.
type Config struct {
	Provider             string
	Model                string
	Endpoint             string
	MaxTokens            int
	Temperature          float64
	RetryCount           int
	TimeoutSeconds       int
	MaxConcurrent        int
	RequestsPerMinute    int
	SnippetWindow        int
	AutoBackup           bool
	AutoApply            bool
	AutoRerun            bool
	RootDirectory        string
	CustomPromptTemplate string
	IgnorePatterns       []string

	// OpenAIAPIKey and AnthropicAPIKey come exclusively from the
	// environment, never the config file.
	OpenAIAPIKey    string
	AnthropicAPIKey string
}

// ProviderOpenAI and ProviderAnthropic name the two recognized providers.
const (
	ProviderOpenAI    = "OpenAI"
	ProviderAnthropic = "Anthropic"
)

// defaults returns the hardcoded fallback configuration.
func defaults() Config {
	return Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o",
		MaxTokens:         8000,
		Temperature:       0.2,
		RetryCount:        1,
		TimeoutSeconds:    30,
		MaxConcurrent:     5,
		RequestsPerMinute: 60,
		SnippetWindow:     5,
		AutoBackup:        true,
	}
}

// Load resolves the configuration: TSUGIX_CONFIG env var path, then
// ./.tsugix.json, then $HOME/.tsugix.json, then hardcoded defaults. A
// missing or malformed file never errors the run; it simply falls back.
func Load() Config {
	cfg := defaults()

	path := resolvePath()
	if path == "" {
		return withCredentials(cfg)
	}

	data, err := os.ReadFile(path) // #nosec G304 - path comes from a fixed, documented resolution order
	if err != nil {
		return withCredentials(cfg)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return withCredentials(cfg)
	}

	applyOverrides(&cfg, &fc)
	return withCredentials(cfg)
}

func resolvePath() string {
	if p := os.Getenv(TsugixConfigEnv); p != "" {
		return p
	}
	if wd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(wd, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func applyOverrides(cfg *Config, fc *fileConfig) {
	if fc.Provider == ProviderAnthropic || fc.Provider == ProviderOpenAI {
		cfg.Provider = fc.Provider
	}
	if fc.Model != "" {
		cfg.Model = fc.Model
	}
	if fc.Endpoint != "" {
		cfg.Endpoint = fc.Endpoint
	}
	if fc.MaxTokens > 0 {
		cfg.MaxTokens = fc.MaxTokens
	}
	if fc.Temperature > 0 {
		cfg.Temperature = fc.Temperature
	}
	if fc.RetryCount > 0 {
		cfg.RetryCount = fc.RetryCount
	}
	if fc.TimeoutSeconds > 0 {
		cfg.TimeoutSeconds = fc.TimeoutSeconds
	}
	if fc.MaxConcurrent > 0 {
		cfg.MaxConcurrent = fc.MaxConcurrent
	}
	if fc.RequestsPerMinute > 0 {
		cfg.RequestsPerMinute = fc.RequestsPerMinute
	}
	if fc.SnippetWindow > 0 {
		cfg.SnippetWindow = fc.SnippetWindow
	}
	if fc.AutoBackup != nil {
		cfg.AutoBackup = *fc.AutoBackup
	}
	if fc.AutoApply != nil {
		cfg.AutoApply = *fc.AutoApply
	}
	if fc.AutoRerun != nil {
		cfg.AutoRerun = *fc.AutoRerun
	}
	if fc.RootDirectory != "" {
		cfg.RootDirectory = fc.RootDirectory
	}
	if fc.CustomPromptTemplate != "" {
		cfg.CustomPromptTemplate = fc.CustomPromptTemplate
	}
	if len(fc.IgnorePatterns) > 0 {
		cfg.IgnorePatterns = fc.IgnorePatterns
	}
}

func withCredentials(cfg Config) Config {
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	if cfg.RootDirectory == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.RootDirectory = wd
		}
	}
	return cfg
}

// ResolveWritePath returns the path the config subcommand should write to:
// the TSUGIX_CONFIG override if set, otherwise ./.tsugix.json in the
// current directory.
func ResolveWritePath() string {
	if p := os.Getenv(TsugixConfigEnv); p != "" {
		return p
	}
	wd, err := os.Getwd()
	if err != nil {
		return configFileName
	}
	return filepath.Join(wd, configFileName)
}
