package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/comalice/hfsm"
)

// ErrEmptyDocument is returned by Parse when the input holds no document.
var ErrEmptyDocument = errors.New("config: empty document")

// Document is the YAML form of a machine definition.
type Document struct {
	Name        string           `yaml:"name,omitempty" json:"name,omitempty"`
	States      []StateSpec      `yaml:"states" json:"states"`
	Events      []string         `yaml:"events,omitempty" json:"events,omitempty"`
	Transitions []TransitionSpec `yaml:"transitions" json:"transitions"`
}

// StateSpec declares one state. Entry, Exec and Exit name registered hooks.
type StateSpec struct {
	Name    string `yaml:"name" json:"name"`
	Parent  string `yaml:"parent,omitempty" json:"parent,omitempty"`
	Initial string `yaml:"initial,omitempty" json:"initial,omitempty"`
	Data    any    `yaml:"data,omitempty" json:"data,omitempty"`
	Entry   string `yaml:"entry,omitempty" json:"entry,omitempty"`
	Exec    string `yaml:"exec,omitempty" json:"exec,omitempty"`
	Exit    string `yaml:"exit,omitempty" json:"exit,omitempty"`
}

// TransitionSpec is one table row. Guard and Action name registered
// functions.
type TransitionSpec struct {
	From   string `yaml:"from" json:"from"`
	Event  string `yaml:"event,omitempty" json:"event,omitempty"`
	Guard  string `yaml:"guard,omitempty" json:"guard,omitempty"`
	Action string `yaml:"action,omitempty" json:"action,omitempty"`
	To     string `yaml:"to,omitempty" json:"to,omitempty"`
}

// Parse decodes a single document from r. Unknown fields are rejected.
func Parse(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDocument
		}
		return nil, fmt.Errorf("yaml decode: %w", err)
	}
	return &doc, nil
}

// LoadFile parses the document stored at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return doc, nil
}

// Build resolves every function name against reg and builds the
// definition. All unresolved names and definition errors are reported
// together.
func (d *Document) Build(reg *Registry) (*hfsm.Definition, error) {
	if reg == nil {
		reg = NewRegistry()
	}
	var errs []error
	b := hfsm.NewBuilder()

	for _, spec := range d.States {
		sb := b.State(spec.Name)
		if spec.Parent != "" {
			sb.In(spec.Parent)
		}
		if spec.Initial != "" {
			sb.Initial(spec.Initial)
		}
		if spec.Data != nil {
			sb.Data(spec.Data)
		}
		if spec.Entry != "" {
			fn, err := reg.hook(spec.Entry)
			errs = appendErr(errs, err, "state %q entry", spec.Name)
			sb.OnEntry(fn)
		}
		if spec.Exec != "" {
			fn, err := reg.exec(spec.Exec)
			errs = appendErr(errs, err, "state %q exec", spec.Name)
			sb.OnExec(fn)
		}
		if spec.Exit != "" {
			fn, err := reg.hook(spec.Exit)
			errs = appendErr(errs, err, "state %q exit", spec.Name)
			sb.OnExit(fn)
		}
	}
	if len(d.Events) > 0 {
		b.Event(d.Events...)
	}

	for i, row := range d.Transitions {
		tb := b.On(row.From, row.Event)
		if row.Guard != "" {
			pred, err := reg.guard(row.Guard)
			errs = appendErr(errs, err, "transition %d guard", i)
			tb.When(row.Guard, pred)
		}
		if row.Action != "" {
			effect, err := reg.action(row.Action)
			errs = appendErr(errs, err, "transition %d action", i)
			tb.Do(row.Action, effect)
		}
		if row.To != "" {
			tb.Goto(row.To)
		}
	}

	def, err := b.Build()
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return def, nil
}

func appendErr(errs []error, err error, format string, args ...any) []error {
	if err == nil {
		return errs
	}
	return append(errs, fmt.Errorf(format+": %w", append(args, err)...))
}

// References lists the function names a document uses, sorted and without
// duplicates.
type References struct {
	Hooks   []string `json:"hooks,omitempty"`
	Execs   []string `json:"execs,omitempty"`
	Guards  []string `json:"guards,omitempty"`
	Actions []string `json:"actions,omitempty"`
}

// Refs returns the function names the document references.
func (d *Document) Refs() References {
	var r References
	for _, s := range d.States {
		r.Hooks = appendName(r.Hooks, s.Entry)
		r.Hooks = appendName(r.Hooks, s.Exit)
		r.Execs = appendName(r.Execs, s.Exec)
	}
	for _, t := range d.Transitions {
		r.Guards = appendName(r.Guards, t.Guard)
		r.Actions = appendName(r.Actions, t.Action)
	}
	for _, names := range []*[]string{&r.Hooks, &r.Execs, &r.Guards, &r.Actions} {
		slices.Sort(*names)
		*names = slices.Compact(*names)
	}
	return r
}

func appendName(names []string, name string) []string {
	if name == "" {
		return names
	}
	return append(names, name)
}
