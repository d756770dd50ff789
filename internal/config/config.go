// Package config handles crawler configuration: browser and visit settings
// from a YAML file with env-var overrides, and the consent keyword
// vocabulary from a words.json file.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// CrawlConfig contains general crawl configuration.
type CrawlConfig struct {
	Headless            bool   `yaml:"headless"`
	UserAgent           string `yaml:"user_agent"`
	Locale              string `yaml:"locale"`
	NavigationTimeoutMs int    `yaml:"navigation_timeout_ms"`
	PageSettleSeconds   int    `yaml:"page_settle_seconds"`
	PostConsentSeconds  int    `yaml:"post_consent_seconds"`
	Workers             int    `yaml:"workers"`
	OutputRoot          string `yaml:"output_root"`
	WordsPath           string `yaml:"words_path"`
	BlocklistPath       string `yaml:"blocklist_path"`
	RecordVideo         bool   `yaml:"record_video"`
}

// DefaultCrawlConfig returns the default crawl configuration with
// environment overrides applied.
func DefaultCrawlConfig() CrawlConfig {
	cfg := CrawlConfig{
		Headless:            true,
		UserAgent:           "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Locale:              "en-US",
		NavigationTimeoutMs: 30000,
		PageSettleSeconds:   10,
		PostConsentSeconds:  2,
		Workers:             1,
		OutputRoot:          ".",
		BlocklistPath:       "./disconnect_blocklist.json",
		RecordVideo:         true,
	}

	if ua := os.Getenv("CRAWL_USER_AGENT"); ua != "" {
		cfg.UserAgent = ua
	}
	if workers := os.Getenv("CRAWL_WORKERS"); workers != "" {
		if parsed, err := strconv.Atoi(workers); err == nil && parsed > 0 {
			cfg.Workers = parsed
		}
	}
	if headless := os.Getenv("CRAWL_HEADLESS"); headless != "" {
		if parsed, err := strconv.ParseBool(headless); err == nil {
			cfg.Headless = parsed
		}
	}

	return cfg
}

// LoadCrawlConfig reads a YAML configuration file over the defaults. An
// empty path returns the defaults unchanged.
func LoadCrawlConfig(path string) (CrawlConfig, error) {
	cfg := DefaultCrawlConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *CrawlConfig) applyDefaults() {
	base := DefaultCrawlConfig()
	if c.UserAgent == "" {
		c.UserAgent = base.UserAgent
	}
	if c.Locale == "" {
		c.Locale = base.Locale
	}
	if c.NavigationTimeoutMs <= 0 {
		c.NavigationTimeoutMs = base.NavigationTimeoutMs
	}
	if c.PageSettleSeconds <= 0 {
		c.PageSettleSeconds = base.PageSettleSeconds
	}
	if c.PostConsentSeconds <= 0 {
		c.PostConsentSeconds = base.PostConsentSeconds
	}
	if c.Workers <= 0 {
		c.Workers = base.Workers
	}
	if c.OutputRoot == "" {
		c.OutputRoot = base.OutputRoot
	}
	if c.BlocklistPath == "" {
		c.BlocklistPath = base.BlocklistPath
	}
}
