// Package config provides configuration management for the triggerkeeper CLI.
package config

import (
	"fmt"
	"strings"

	"github.com/solatis/triggerkeeper/internal/editor"
)

// Log formats accepted by log.format.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// CLIConfig holds configuration shared by every triggerkeeper command.
type CLIConfig struct {
	CandidatesFile string
	SearchType     editor.SearchType
	LogLevel       string
	LogFormat      string
}

// DefaultCLIConfig returns configuration with default values.
func DefaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		CandidatesFile: "",
		SearchType:     editor.SearchTypeGraph,
		LogLevel:       "info",
		LogFormat:      LogFormatJSON,
	}
}

// Validate normalizes and checks cfg after flag overrides are applied.
func (c *CLIConfig) Validate() error {
	return validateConfig(c)
}

// validateConfig checks search type, log level and log format.
func validateConfig(cfg *CLIConfig) error {
	st, err := editor.ParseSearchType(string(cfg.SearchType))
	if err != nil {
		return fmt.Errorf("editor.search_type: %w", err)
	}
	cfg.SearchType = st

	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	switch strings.ToLower(cfg.LogFormat) {
	case LogFormatJSON, LogFormatText:
		cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	default:
		return fmt.Errorf("log.format must be json or text, got %q", cfg.LogFormat)
	}
	return nil
}
