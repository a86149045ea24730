package cmd

import (
	"fmt"

	"github.com/solatis/triggerkeeper/internal/core/config"
	"github.com/solatis/triggerkeeper/internal/core/manifest"
	"github.com/solatis/triggerkeeper/internal/editor"
	"github.com/solatis/triggerkeeper/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const Version = "0.1.0"

// cli holds the persistent flag values and the state built from them before
// any subcommand runs.
type cli struct {
	configFile     string
	candidatesFile string
	searchType     string
	logLevel       string
	logFormat      string

	cfg    *config.CLIConfig
	logger *zap.Logger
}

// NewRootCmd builds the triggerkeeper command tree.
func NewRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:     "triggerkeeper",
		Short:   "Composite trigger condition compiler",
		Long:    `TriggerKeeper compiles, parses, reconciles and evaluates composite trigger conditions built from delegate monitors.`,
		Version: Version,

		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&c.candidatesFile, "candidates", "", "candidate monitor list (YAML)")
	rootCmd.PersistentFlags().StringVar(&c.searchType, "search-type", "graph", "editor search type (graph, query)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&c.logFormat, "log-format", "json", "log format (json, text)")

	rootCmd.AddCommand(
		c.compileCmd(),
		c.parseCmd(),
		c.reconcileCmd(),
		c.validateCmd(),
		c.evalCmd(),
		c.editCmd(),
	)
	return rootCmd
}

func Execute() error {
	return NewRootCmd().Execute()
}

// setup loads configuration, applies changed flags on top and builds the logger.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(c.configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("candidates") {
		cfg.CandidatesFile = c.candidatesFile
	}
	if flags.Changed("search-type") {
		cfg.SearchType = editor.SearchType(c.searchType)
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = c.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = c.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.logger = logger.With(zap.String("command", cmd.Name()))
	return nil
}

// candidates loads the configured candidate list. No file means no candidates.
func (c *cli) candidates() (types.Candidates, error) {
	if c.cfg.CandidatesFile == "" {
		return nil, nil
	}
	cs, err := manifest.LoadCandidates(c.cfg.CandidatesFile)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("candidates loaded",
		zap.String("path", c.cfg.CandidatesFile),
		zap.Int("count", len(cs)))
	return cs, nil
}
