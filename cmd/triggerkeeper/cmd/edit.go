package cmd

import (
	"fmt"
	"time"

	"github.com/solatis/triggerkeeper/internal/core/manifest"
	"github.com/solatis/triggerkeeper/internal/editor"
	"github.com/solatis/triggerkeeper/internal/formstate"
	"github.com/solatis/triggerkeeper/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// fieldPath is the form path the CLI edits; the in-memory form has one field.
const fieldPath = "condition"

// session is the output document of the edit command.
type session struct {
	SessionID types.SessionID   `yaml:"session_id"`
	Started   time.Time         `yaml:"started"`
	Mode      editor.SearchType `yaml:"mode"`
	Text      string            `yaml:"text"`
	Valid     bool              `yaml:"valid"`
	Message   string            `yaml:"message,omitempty"`
	Terms     []types.Term      `yaml:"terms,omitempty"`
}

// open mounts a container over a single-field in-memory form.
func (c *cli) open(text string, cs types.Candidates, mode editor.SearchType, edit bool) (*editor.Container, *formstate.Memory, error) {
	form := formstate.NewMemory(map[string]string{fieldPath: text})
	form.Subscribe(func(path, value string) {
		c.logger.Debug("field written", zap.String("path", path), zap.String("value", value))
	})

	container, err := editor.NewContainer(form, fieldPath, cs, mode,
		editor.WithLogger(c.logger),
		editor.WithEditMode(edit))
	if err != nil {
		return nil, nil, err
	}
	return container, form, nil
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate TEXT",
		Short: "Validate canonical text against the candidate list",
		Long: `Validates TEXT the way the configured editor would.

In graph mode the text is parsed and reconciled first, then checked for
candidate count, selection count and dangling delegates. In query mode only
non-empty text is required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cs, err := c.candidates()
			if err != nil {
				return err
			}
			container, _, err := c.open(args[0], cs, c.cfg.SearchType, true)
			if err != nil {
				return err
			}

			v := container.Validate()
			if !v.Valid() {
				return fmt.Errorf("invalid trigger condition: %w", v.Err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}

func (c *cli) editCmd() *cobra.Command {
	var (
		scriptFile string
		text       string
		edit       bool
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Replay an editor script on an in-memory form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := manifest.LoadScript(scriptFile)
			if err != nil {
				return err
			}

			cs := script.Candidates
			if len(cs) == 0 {
				if cs, err = c.candidates(); err != nil {
					return err
				}
			}
			mode := c.cfg.SearchType
			if script.SearchType != "" && !cmd.Flags().Changed("search-type") {
				mode = script.SearchType
			}
			if !cmd.Flags().Changed("text") {
				text = script.Text
			}
			if !cmd.Flags().Changed("edit") {
				edit = script.Edit
			}

			container, form, err := c.open(text, cs, mode, edit)
			if err != nil {
				return err
			}
			if err := manifest.Replay(container, script.Steps); err != nil {
				return err
			}

			out := session{
				SessionID: container.Session(),
				Started:   types.SessionStarted(container.Session()),
				Mode:      container.Mode(),
				Text:      form.Get(fieldPath),
			}
			v := container.Validate()
			out.Valid = v.Valid()
			out.Message = v.Message()
			if l := container.Structured(); l != nil {
				out.Terms = l.Terms()
			}

			c.logger.Info("editor script replayed",
				zap.String("session_id", string(out.SessionID)),
				zap.Int("steps", len(script.Steps)),
				zap.Bool("valid", out.Valid))
			return manifest.WriteYAML(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&scriptFile, "script", "", "editor script (YAML)")
	cmd.Flags().StringVar(&text, "text", "", "initial field text (overrides the script)")
	cmd.Flags().BoolVar(&edit, "edit", false, "edit an existing trigger (seed from text even when empty)")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}
