package cmd

import (
	"fmt"

	"github.com/solatis/triggerkeeper/internal/core/manifest"
	"github.com/solatis/triggerkeeper/internal/predicate"
	"github.com/solatis/triggerkeeper/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// reconciled is the output document of the reconcile command.
type reconciled struct {
	Text  string       `yaml:"text"`
	Terms []types.Term `yaml:"terms"`
}

func (c *cli) compileCmd() *cobra.Command {
	var termsFile string

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a term list to canonical text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			terms, err := manifest.LoadTerms(termsFile)
			if err != nil {
				return err
			}
			text := predicate.Compile(terms)
			c.logger.Debug("compiled", zap.Int("terms", len(terms)), zap.String("text", text))
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&termsFile, "file", "f", "", "term list (YAML)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) parseCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "parse TEXT",
		Short: "Parse canonical text into a term list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := c.candidates()
			if err != nil {
				return err
			}

			var terms []types.Term
			if strict {
				terms, err = predicate.ParseStrict(args[0], cs)
				if err != nil {
					return err
				}
			} else {
				terms = predicate.Parse(args[0], cs)
			}
			return manifest.WriteTerms(cmd.OutOrStdout(), terms)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "report syntax errors instead of returning an empty list")
	return cmd
}

func (c *cli) reconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile TEXT",
		Short: "Repair canonical text against the candidate list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := c.candidates()
			if err != nil {
				return err
			}

			parsed := predicate.Parse(args[0], cs)
			terms := predicate.Reconcile(parsed, cs)
			out := reconciled{Text: predicate.Compile(terms), Terms: terms}

			c.logger.Debug("reconciled",
				zap.Int("parsed", len(parsed)),
				zap.Int("terms", len(terms)),
				zap.String("text", out.Text))
			return manifest.WriteYAML(cmd.OutOrStdout(), out)
		},
	}
}
