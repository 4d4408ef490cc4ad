package config

import (
	"errors"
	"fmt"

	"github.com/comalice/hfsm"
)

// ErrUnregistered is returned when a document names a function the
// Registry does not hold. Unregistered guards fail the build rather than
// evaluating to false at run time.
var ErrUnregistered = errors.New("config: function not registered")

// Registry maps the function names used by documents to Go functions.
// Registering a name again replaces the previous function.
type Registry struct {
	hooks   map[string]hfsm.HookFunc
	execs   map[string]hfsm.ExecFunc
	guards  map[string]func(*hfsm.Machine) bool
	actions map[string]func(*hfsm.Machine)
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks:   make(map[string]hfsm.HookFunc),
		execs:   make(map[string]hfsm.ExecFunc),
		guards:  make(map[string]func(*hfsm.Machine) bool),
		actions: make(map[string]func(*hfsm.Machine)),
	}
}

// Hook registers an entry or exit hook.
func (r *Registry) Hook(name string, fn hfsm.HookFunc) *Registry {
	r.hooks[name] = fn
	return r
}

// Exec registers a hook run by Update.
func (r *Registry) Exec(name string, fn hfsm.ExecFunc) *Registry {
	r.execs[name] = fn
	return r
}

// Guard registers a transition predicate.
func (r *Registry) Guard(name string, pred func(*hfsm.Machine) bool) *Registry {
	r.guards[name] = pred
	return r
}

// Action registers a transition effect.
func (r *Registry) Action(name string, effect func(*hfsm.Machine)) *Registry {
	r.actions[name] = effect
	return r
}

func (r *Registry) hook(name string) (hfsm.HookFunc, error) {
	return lookup(r.hooks, "hook", name)
}

func (r *Registry) exec(name string) (hfsm.ExecFunc, error) {
	return lookup(r.execs, "exec", name)
}

func (r *Registry) guard(name string) (func(*hfsm.Machine) bool, error) {
	return lookup(r.guards, "guard", name)
}

func (r *Registry) action(name string) (func(*hfsm.Machine), error) {
	return lookup(r.actions, "action", name)
}

func lookup[F any](m map[string]F, kind, name string) (F, error) {
	fn, ok := m[name]
	if !ok {
		var zero F
		return zero, fmt.Errorf("%w: %s %q", ErrUnregistered, kind, name)
	}
	return fn, nil
}
