package cli

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/comalice/hfsm"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	Guards    []string // name=bool
	MaxDepth  int
	MaxChain  int
	Terminate bool
}

// Step outcomes.
const (
	OutcomeChanged  = "changed"
	OutcomeIgnored  = "ignored"
	OutcomeRejected = "rejected"
)

// Step is one observed dispatch result.
type Step struct {
	Event   string `json:"event"`
	From    string `json:"from"`
	To      string `json:"to,omitempty"`
	Outcome string `json:"outcome"`
	Guard   string `json:"guard,omitempty"`
}

func (s Step) String() string {
	switch s.Outcome {
	case OutcomeIgnored:
		return fmt.Sprintf("%s --%s--> ignored", s.From, s.Event)
	case OutcomeRejected:
		return fmt.Sprintf("%s --%s--> rejected [%s]", s.From, s.Event, s.Guard)
	}
	return fmt.Sprintf("%s --%s--> %s", s.From, s.Event, s.To)
}

// RunResult is the trace of a run.
type RunResult struct {
	Machine string `json:"machine"`
	Steps   []Step `json:"steps"`
	Final   string `json:"final"`
}

func (r RunResult) String() string {
	var sb strings.Builder
	for _, s := range r.Steps {
		sb.WriteString(s.String())
		sb.WriteByte('\n')
	}
	sb.WriteString("final: ")
	sb.WriteString(r.Final)
	return sb.String()
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{}
	cmd := &cobra.Command{
		Use:   "run <file> [events...]",
		Short: "Replay events against a machine",
		Long: `Start a machine from a YAML definition, send each named event in order
and print every transition, ignored event and guard rejection. Hooks and
actions are stand-ins that only log. Guards return true unless set with
--guard name=false.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(rootOpts, opts, args[0], args[1:], cmd)
		},
	}
	cmd.Flags().StringArrayVar(&opts.Guards, "guard", nil, "fix a guard's result (name=bool, repeatable)")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", hfsm.DefaultMaxDepth, "maximum state nesting depth")
	cmd.Flags().IntVar(&opts.MaxChain, "max-chain", hfsm.DefaultMaxChain, "maximum consecutive null transitions")
	cmd.Flags().BoolVar(&opts.Terminate, "terminate", false, "terminate the machine after the last event")
	return cmd
}

func runRun(rootOpts *RootOptions, opts *RunOptions, path string, names []string, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd)
	guards, err := parseGuards(opts.Guards)
	if err != nil {
		return fail(f, err)
	}

	logger := newLogger(f)
	l, err := load(path, guards, logger)
	if err != nil {
		return fail(f, err)
	}

	events := make([]*hfsm.Event, len(names))
	for i, name := range names {
		if events[i] = l.def.Event(name); events[i] == nil {
			return fail(f, NewExitError(ExitCommandError, fmt.Sprintf("unknown event %q", name)))
		}
	}

	result := RunResult{}
	trace := hfsm.ObserverFuncs{
		OnStateChanged: func(m *hfsm.Machine, from, to *hfsm.State, ev *hfsm.Event) {
			result.Steps = append(result.Steps, Step{
				Event: stepEvent(ev), From: from.Name, To: to.Name, Outcome: OutcomeChanged,
			})
		},
		OnEventIgnored: func(m *hfsm.Machine, ev *hfsm.Event) {
			result.Steps = append(result.Steps, Step{
				Event: stepEvent(ev), From: m.CurrentName(), Outcome: OutcomeIgnored,
			})
		},
		OnGuardRejected: func(m *hfsm.Machine, t *hfsm.Transition) {
			result.Steps = append(result.Steps, Step{
				Event: stepEvent(t.Event), From: m.CurrentName(), Outcome: OutcomeRejected, Guard: t.Guard.Name,
			})
		},
	}

	mopts := append(machineOptions(l, logger),
		hfsm.WithObserver(trace),
		hfsm.WithMaxDepth(opts.MaxDepth),
		hfsm.WithMaxChain(opts.MaxChain),
	)
	m, err := l.def.NewMachine(mopts...)
	if err != nil {
		return fail(f, WrapExitError(ExitFailure, "cannot start machine", err))
	}
	result.Machine = m.ID()

	for _, ev := range events {
		if err := m.Send(ev); err != nil {
			return fail(f, WrapExitError(ExitFailure, fmt.Sprintf("sending %q", ev.Name), err))
		}
	}
	if opts.Terminate {
		if err := m.Terminate(); err != nil {
			return fail(f, WrapExitError(ExitFailure, "terminating", err))
		}
	}
	result.Final = m.CurrentName()
	return f.Success(result)
}

// stepEvent names ev for traces; Terminate reports a nil event.
func stepEvent(ev *hfsm.Event) string {
	if ev == nil {
		return "terminate"
	}
	return hfsm.EventName(ev)
}

func parseGuards(specs []string) (map[string]bool, error) {
	guards := make(map[string]bool, len(specs))
	for _, spec := range specs {
		name, value, ok := strings.Cut(spec, "=")
		if !ok || name == "" {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid --guard %q: want name=bool", spec))
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid --guard %q", spec), err)
		}
		guards[name] = b
	}
	return guards, nil
}

func machineOptions(l *loaded, logger *slog.Logger) []hfsm.Option {
	opts := []hfsm.Option{hfsm.WithLogger(logger)}
	if l.doc.Name != "" {
		opts = append(opts, hfsm.WithID(l.doc.Name))
	}
	return opts
}
