package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solatis/triggerkeeper/internal/core/manifest"
	"github.com/solatis/triggerkeeper/internal/predicate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) evalCmd() *cobra.Command {
	var (
		stateFlags []string
		statesFile string
	)

	cmd := &cobra.Command{
		Use:   "eval TEXT...",
		Short: "Evaluate canonical text against delegate monitor states",
		Long: `Evaluates each TEXT against one set of delegate states.

With a single TEXT the result is printed alone; with several, each line holds
the result and the text it belongs to.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			states := map[string]bool{}
			if statesFile != "" {
				loaded, err := manifest.LoadStates(statesFile)
				if err != nil {
					return err
				}
				states = loaded
			}
			// --state entries win over the states file.
			for _, s := range stateFlags {
				id, v, err := parseState(s)
				if err != nil {
					return err
				}
				states[id] = v
			}

			engine := predicate.NewEngine()
			for _, text := range args {
				prog, err := engine.Program(text)
				if err != nil {
					return err
				}
				c.logger.Debug("program compiled",
					zap.String("source", prog.Source()),
					zap.Strings("delegates", prog.Delegates()))

				result, err := prog.Evaluate(states)
				if err != nil {
					return err
				}
				if len(args) == 1 {
					fmt.Fprintln(cmd.OutOrStdout(), result)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%t\t%s\n", result, text)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&stateFlags, "state", nil, "delegate state as id=bool (repeatable)")
	cmd.Flags().StringVar(&statesFile, "states", "", "delegate states (YAML mapping of id to bool)")
	return cmd
}

// parseState splits an id=bool flag value.
func parseState(s string) (string, bool, error) {
	id, raw, ok := strings.Cut(s, "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return "", false, fmt.Errorf("state must be id=bool, got %q", s)
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return "", false, fmt.Errorf("state %q: %w", id, err)
	}
	return id, v, nil
}
