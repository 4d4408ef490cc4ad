package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/comalice/hfsm"
	"github.com/comalice/hfsm/config"
)

// loaded is a parsed document and the definition built from it.
type loaded struct {
	doc *config.Document
	def *hfsm.Definition
}

// load parses path and builds it against a registry of stand-in functions:
// hooks and actions log their name, guards return the value in guards or
// true when absent.
func load(path string, guards map[string]bool, logger *slog.Logger) (*loaded, error) {
	doc, err := config.LoadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cannot load definition", err)
	}
	def, err := doc.Build(standIns(doc.Refs(), guards, logger))
	if err != nil {
		return nil, WrapExitError(ExitFailure, "invalid definition", err)
	}
	return &loaded{doc: doc, def: def}, nil
}

func standIns(refs config.References, guards map[string]bool, logger *slog.Logger) *config.Registry {
	reg := config.NewRegistry()
	for _, name := range refs.Hooks {
		reg.Hook(name, func(m *hfsm.Machine, _ any, completed bool) {
			logger.Debug("hook", "name", name, "state", m.CurrentName(), "completed", completed)
		})
	}
	for _, name := range refs.Execs {
		reg.Exec(name, func(m *hfsm.Machine, _ any) {
			logger.Debug("exec", "name", name, "state", m.CurrentName())
		})
	}
	for _, name := range refs.Guards {
		value, ok := guards[name]
		if !ok {
			value = true
		}
		reg.Guard(name, func(*hfsm.Machine) bool { return value })
	}
	for _, name := range refs.Actions {
		reg.Action(name, func(m *hfsm.Machine) {
			logger.Debug("action", "name", name, "state", m.CurrentName())
		})
	}
	return reg
}

// errorLines splits a joined error into one line per cause.
func errorLines(err error) []string {
	var lines []string
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err != nil {
		err = exitErr.Err
	}
	for _, line := range strings.Split(err.Error(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// fail writes err through the formatter and returns it for cobra.
func fail(f *OutputFormatter, err error) error {
	msg := err.Error()
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		msg = exitErr.Message
	}
	if werr := f.Error(msg, errorLines(err)); werr != nil {
		return fmt.Errorf("%w (writing output: %v)", err, werr)
	}
	return err
}
