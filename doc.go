// Package hfsm is a hierarchical finite-state-machine runtime with bounded,
// allocation-free dispatch.
//
// A machine is built from a flat transition table. States form a hierarchy
// through their Parent links; an event not handled by the current state
// bubbles to its ancestors. Moving between states exits up to the lowest
// common ancestor and enters down to the target, then resumes the target's
// history child or its Initial child.
//
// After New returns, Send, Update and Terminate perform no heap allocation
// unless a logger enabled at Debug or an Observer is configured. The scratch
// space they need is carved out of the collections package at construction.
//
// A Machine is not safe for concurrent use. Calling back into the machine
// from a hook or action (Send, Update, Terminate) panics. Use the realtime
// package to feed one machine from many goroutines.
package hfsm
