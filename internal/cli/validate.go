package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/comalice/hfsm/config"
)

// ValidationResult summarises a valid definition.
type ValidationResult struct {
	Name        string            `json:"name"`
	States      int               `json:"states"`
	Events      int               `json:"events"`
	Transitions int               `json:"transitions"`
	Refs        config.References `json:"refs"`
}

func (r ValidationResult) String() string {
	return fmt.Sprintf("✓ %s valid: %d states, %d events, %d transitions",
		r.Name, r.States, r.Events, r.Transitions)
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a machine definition without running it",
		Long: `Parse a YAML machine definition and check that every state, event and
parent link resolves, that nesting is acyclic and within the default depth
limit, and that every Initial state is a direct child. No hooks run.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	l, err := load(path, nil, newLogger(f))
	if err != nil {
		return fail(f, err)
	}

	name := l.doc.Name
	if name == "" {
		name = filepath.Base(path)
	}
	return f.Success(ValidationResult{
		Name:        name,
		States:      len(l.def.States()),
		Events:      len(l.def.Events()),
		Transitions: len(l.def.Table()),
		Refs:        l.doc.Refs(),
	})
}
