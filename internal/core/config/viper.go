package config

import (
	"fmt"
	"strings"

	"github.com/solatis/triggerkeeper/internal/editor"
	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence; flags are
// applied by the caller on top of the returned config.
func LoadConfig(configPath string) (*CLIConfig, error) {
	v := viper.New()

	// Set defaults matching DefaultCLIConfig
	def := DefaultCLIConfig()
	v.SetDefault("editor.candidates_file", def.CandidatesFile)
	v.SetDefault("editor.search_type", string(def.SearchType))
	v.SetDefault("log.level", def.LogLevel)
	v.SetDefault("log.format", def.LogFormat)

	// Bind environment variables with TK_ prefix
	v.SetEnvPrefix("TK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &CLIConfig{
		CandidatesFile: v.GetString("editor.candidates_file"),
		SearchType:     editor.SearchType(v.GetString("editor.search_type")),
		LogLevel:       v.GetString("log.level"),
		LogFormat:      v.GetString("log.format"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
