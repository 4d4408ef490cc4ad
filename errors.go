package hfsm

import "errors"

var (
	// ErrInvalidArgument reports a nil or empty table, a nil event, a malformed
	// transition row, or an Initial state that is not a direct child.
	ErrInvalidArgument = errors.New("hfsm: invalid argument")

	// ErrTooDeep reports a parent chain longer than the configured maximum
	// nesting depth. Parent cycles are reported the same way.
	ErrTooDeep = errors.New("hfsm: state nesting too deep")

	// ErrTerminated reports use of a machine after Terminate.
	ErrTerminated = errors.New("hfsm: machine terminated")

	// ErrChainLimit reports null-event chaining that did not settle.
	ErrChainLimit = errors.New("hfsm: null transition chain limit reached")

	// ErrUnknownState reports a reference to an undeclared state name.
	ErrUnknownState = errors.New("hfsm: unknown state")

	// ErrUnknownEvent reports a reference to an undeclared event name.
	ErrUnknownEvent = errors.New("hfsm: unknown event")

	// ErrDuplicate reports a state or event declared twice.
	ErrDuplicate = errors.New("hfsm: duplicate declaration")
)
