package ecs

// AccessMode declares how a system touches one component type for the
// duration of a batch.
type AccessMode int

const (
	// ReadOnly declares a component type the system only reads; two
	// ReadOnly declarations of the same type never conflict.
	ReadOnly AccessMode = iota
	// ReadWrite declares a component type the system mutates; it conflicts
	// with any other declaration, read or write, of the same type.
	ReadWrite
)

func (m AccessMode) String() string {
	if m == ReadWrite {
		return "READ_WRITE"
	}
	return "READ_ONLY"
}

// System is the body a scheduled descriptor dispatches to, once per matched
// view record, with a thread-local command buffer.
type System interface {
	ViewComponents(view ViewRecord, commands *Commands)
}

// SystemFunc adapts a plain function to System, letting a bare func stand
// in for a one-method interface.
type SystemFunc func(view ViewRecord, commands *Commands)

func (f SystemFunc) ViewComponents(view ViewRecord, commands *Commands) { f(view, commands) }

// SystemDescriptor is a schedulable system registration: its access table
// (which drives both the query used to find its view records and the
// dependency builder's conflict detection), explicit ordering edges, a
// group tie-breaker, a parallel-fanout flag, and the body itself.
type SystemDescriptor struct {
	// Name must be unique within a Scheduler.
	Name string
	// Access declares the component types this system's body touches and
	// how. Must not be empty.
	Access map[ComponentTypeName]AccessMode
	// Before lists descriptor names that must run in a batch after this
	// one; After lists names that must run in a batch before this one.
	Before []string
	After  []string
	// Group is a priority hint: smaller groups are preferred earlier during
	// batch assembly, used only to break ties among otherwise-unordered
	// candidates.
	Group int
	// Parallel, if true, fans the per-view-record work for this descriptor
	// out across the scheduler's worker pool instead of running it
	// sequentially on the calling goroutine.
	Parallel bool
	// Body is invoked once per matched view record.
	Body System

	subBuffers []*Commands
	rootBuffer *Commands
}

// accessNames returns the descriptor's access-table keys, used to build the
// descriptor's multi_view query.
func (d *SystemDescriptor) accessNames() []ComponentTypeName {
	names := make([]ComponentTypeName, 0, len(d.Access))
	for n := range d.Access {
		names = append(names, n)
	}
	return names
}
