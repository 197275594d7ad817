package ecs

import "errors"

// Non-fatal error kinds. Programming errors (attaching a component type
// that was never registered, registering a descriptor with an empty access
// table or a duplicate name, building a scheduler with no descriptors) are
// not in this taxonomy: they panic instead.
var (
	// ErrCycle means the dependency builder's DAG has a loop; Build()
	// returns a partial schedule alongside this error.
	ErrCycle = errors.New("ecs: dependency graph has a cycle")

	// ErrDeadlock means every remaining candidate in a batch conflicts
	// with every other; Build() returns a partial schedule alongside
	// this error.
	ErrDeadlock = errors.New("ecs: scheduler deadlock: unsolvable same-batch conflict")

	// ErrMissingReferent means a command buffer opcode targeted an
	// entity or a "current spawn" that does not exist by the time the
	// opcode runs; the opcode is skipped.
	ErrMissingReferent = errors.New("ecs: command references a missing entity")
)
