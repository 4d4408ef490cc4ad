package cli

import (
	"github.com/spf13/cobra"

	"github.com/comalice/hfsm"
	"github.com/comalice/hfsm/internal/render"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	DOT bool
}

// StateInfo is one state of the JSON dump.
type StateInfo struct {
	Name    string `json:"name"`
	Parent  string `json:"parent,omitempty"`
	Initial string `json:"initial,omitempty"`
	Depth   int    `json:"depth"`
	Active  bool   `json:"active"`
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{}
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the state hierarchy",
		Long: `Start a machine from a YAML definition and print its state hierarchy,
marking the states active after the initial transition. With --dot the
hierarchy and every transition row are written as Graphviz source.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(rootOpts, opts, args[0], cmd)
		},
	}
	cmd.Flags().BoolVar(&opts.DOT, "dot", false, "write Graphviz DOT instead of text")
	return cmd
}

func runDump(rootOpts *RootOptions, opts *DumpOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd)
	if opts.DOT && f.JSON() {
		return fail(f, NewExitError(ExitCommandError, "--dot cannot be combined with --format json"))
	}

	logger := newLogger(f)
	l, err := load(path, nil, logger)
	if err != nil {
		return fail(f, err)
	}
	m, err := l.def.NewMachine(machineOptions(l, logger)...)
	if err != nil {
		return fail(f, WrapExitError(ExitFailure, "cannot start machine", err))
	}

	switch {
	case opts.DOT:
		err = render.DOT(f.Writer, m)
	case f.JSON():
		err = f.Success(stateInfos(m))
	default:
		err = render.Text(f.Writer, m)
	}
	return err
}

func stateInfos(m *hfsm.Machine) []StateInfo {
	active := make(map[*hfsm.State]bool)
	for s := m.Current(); s != nil; s = s.Parent {
		active[s] = true
	}
	var infos []StateInfo
	m.Dump(func(s *hfsm.State, depth int) {
		info := StateInfo{Name: s.Name, Depth: depth, Active: active[s]}
		if s.Parent != nil {
			info.Parent = s.Parent.Name
		}
		if s.Initial != nil {
			info.Initial = s.Initial.Name
		}
		infos = append(infos, info)
	})
	return infos
}
