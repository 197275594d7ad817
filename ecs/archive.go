package ecs

import "gopkg.in/yaml.v3"

// Packable is the component serialization hook: the core never inspects
// component interiors, it only calls these four methods when a snapshot
// collaborator asks it to. A component type that doesn't implement
// Packable simply can't be snapshotted; that is a property of the
// component, not an error the store raises.
type Packable interface {
	// Pack writes the component's state into archive.
	Pack(archive *Archive) error
	// Unpack reads the component's state back out of archive.
	Unpack(archive *Archive) error
	// Convert migrates an archive written by an older schema version into
	// this component's current shape, before Unpack is called against it.
	Convert(archive *Archive) error
	// Test is a self-check a component can run against its own
	// pack/unpack round-trip; used by the snapshot collaborator's
	// contract tests, never called by the core itself.
	Test() error
}

// Archive is a human-readable, YAML-backed key/value bag: a thin
// Marshal/Unmarshal wrapper over a stable field-name key space, chosen
// over a binary format because human-readable output survives hand
// migration best.
type Archive struct {
	fields map[string]any
}

// NewArchive returns an empty archive ready for Set calls (packing) or for
// Decode after Load (unpacking).
func NewArchive() *Archive {
	return &Archive{fields: make(map[string]any)}
}

// Set stores value under key, overwriting any previous value.
func (a *Archive) Set(key string, value any) { a.fields[key] = value }

// Get returns the value stored under key, or nil if absent.
func (a *Archive) Get(key string) any { return a.fields[key] }

// Has reports whether key was ever Set (or decoded from Load).
func (a *Archive) Has(key string) bool {
	_, ok := a.fields[key]
	return ok
}

// Marshal renders the archive as YAML.
func (a *Archive) Marshal() ([]byte, error) {
	return yaml.Marshal(a.fields)
}

// Load replaces the archive's contents by unmarshalling YAML bytes,
// typically produced by an older build's Marshal (the "convert" half of
// the pack/unpack/convert contract then reshapes it onto the current
// schema).
func (a *Archive) Load(data []byte) error {
	fields := make(map[string]any)
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return err
	}
	a.fields = fields
	return nil
}
