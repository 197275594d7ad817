package ecs

import "reflect"

func singletonKey(t reflect.Type) string {
	return t.PkgPath() + "." + t.Name()
}

// Singleton is an accessor for a single component instance that belongs to
// no entity: a handle for global game state/config data, backed by
// Storage's plain singletons map rather than anything entity-addressed.
type Singleton[T any] struct {
	storage *Storage
	key     string
}

// NewSingleton returns an accessor for T in storage, creating it (with the
// given initializer, or a zero value if none is given) if it doesn't exist
// yet. The singleton is guaranteed to exist after this call returns.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	var zero T
	key := singletonKey(reflect.TypeOf(zero))

	if _, ok := storage.singletons[key]; !ok {
		value := zero
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.singletons[key] = &value
	}

	return &Singleton[T]{storage: storage, key: key}
}

// Init binds s to storage, ensuring the singleton exists with a zero value
// if it was never created. For Singleton fields declared on a system value
// and bound during setup; NewSingleton is the usual entry point otherwise.
func (s *Singleton[T]) Init(storage *Storage) {
	var zero T
	s.storage = storage
	s.key = singletonKey(reflect.TypeOf(zero))

	if _, ok := storage.singletons[s.key]; !ok {
		storage.singletons[s.key] = &zero
	}
}

// Get returns a pointer to the singleton's current value.
func (s *Singleton[T]) Get() *T {
	return s.storage.singletons[s.key].(*T)
}
