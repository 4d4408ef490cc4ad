// Package config loads machine definitions from YAML.
//
// A document names its states, events and transition rows as plain strings.
// Hooks, guards and actions are referenced by name and resolved against a
// Registry when the document is built, so the same file can drive a
// production machine or a test double:
//
//	name: door
//	states:
//	  - name: closed
//	  - name: open
//	events: [push, pull]
//	transitions:
//	  - {from: start, to: closed}
//	  - {from: closed, event: pull, guard: unlocked, to: open}
//	  - {from: open, event: push, to: closed}
//
// A row without an event fires on the null event. A row without a target is
// an internal transition.
package config
