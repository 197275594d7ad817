package ecs

import (
	"iter"
	"sort"
	"strings"
	"sync"
	"weak"

	"github.com/kamstrup/intmap"
)

// Storage is the ECS data store: entity table, per-component-type stores,
// the entity -> component-name index, and the reactive query cache
// registry, all kept in agreement with each other on every mutation.
type Storage struct {
	registry *ComponentRegistry
	entities *entityTable

	stores map[ComponentTypeName]componentStorage
	index  map[EntityId]map[ComponentTypeName]struct{}

	caches map[string]*QueryCache

	refsMu sync.Mutex
	refs   *intmap.Map[EntityId, weak.Pointer[EntityRef]]

	singletons map[string]any

	observers []ComponentObserver

	events *EventDispatcher
}

// ComponentObserver receives attach/detach notifications from a Storage.
// Notifications fire on the mutating goroutine, which during a tick is
// always the flush thread; an observer must not structurally mutate the
// store re-entrantly.
type ComponentObserver interface {
	ComponentAdded(entity Entity, name ComponentTypeName, component any)
	ComponentRemoved(entity Entity, name ComponentTypeName, component any)
}

// AddComponentObserver subscribes o to every component attach and detach.
// Observers are notified before query caches are maintained, so an
// observer sees the store's indices already updated but the caches still
// in their pre-mutation state.
func (s *Storage) AddComponentObserver(o ComponentObserver) {
	s.observers = append(s.observers, o)
}

// NewStorage creates an empty store bound to registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:   registry,
		entities:   newEntityTable(),
		stores:     make(map[ComponentTypeName]componentStorage),
		index:      make(map[EntityId]map[ComponentTypeName]struct{}),
		caches:     make(map[string]*QueryCache),
		refs:       intmap.New[EntityId, weak.Pointer[EntityRef]](64),
		singletons: make(map[string]any),
		events:     NewEventDispatcher(),
	}
}

// Events returns the store's default event dispatcher, the one the
// command buffer's batched events are delivered through at flush time.
func (s *Storage) Events() *EventDispatcher { return s.events }

// LastAllocatedId returns the entity-id watermark, exposed to snapshot
// collaborators so restoring a snapshot can reproduce id allocation
// semantics.
func (s *Storage) LastAllocatedId() EntityId { return s.entities.lastId }

// SetLastAllocatedId sets the watermark directly; used when restoring a
// snapshot, before any entities are (re-)created.
func (s *Storage) SetLastAllocatedId(id EntityId) { s.entities.lastId = id }

// CreateEntity allocates a new entity. If id is zero, the next id is
// drawn from the internal counter; otherwise id is used verbatim, and if
// an entity already lived at that id it is destroyed first (its
// components removed, notifications fired) before the new one takes its
// place.
func (s *Storage) CreateEntity(id EntityId) Entity {
	if id == 0 {
		id = s.entities.nextId()
	} else {
		if s.entities.isLive(id) {
			s.RemoveEntity(id)
		}
		s.entities.reserve(id)
	}
	s.entities.markLive(id)
	s.index[id] = make(map[ComponentTypeName]struct{})
	return Entity{id: id, store: s}
}

// RemoveEntity removes all of an entity's components (firing remove
// notifications) then deletes the entity row. Returns whether the entity
// existed.
func (s *Storage) RemoveEntity(id EntityId) bool {
	if !s.entities.isLive(id) {
		return false
	}
	s.RemoveAllComponents(id)
	delete(s.index, id)
	s.entities.markDead(id)
	s.invalidateRef(id)
	return true
}

// GetEntity returns a handle to id if it is live.
func (s *Storage) GetEntity(id EntityId) (Entity, bool) {
	if !s.entities.isLive(id) {
		return Entity{}, false
	}
	return Entity{id: id, store: s}, true
}

// HasEntity reports whether id is live.
func (s *Storage) HasEntity(id EntityId) bool { return s.entities.isLive(id) }

// EntityIds iterates every live entity id, in unspecified order.
func (s *Storage) EntityIds() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for id := range s.index {
			if !yield(id) {
				return
			}
		}
	}
}

func (s *Storage) ensureStore(name ComponentTypeName) componentStorage {
	if st, ok := s.stores[name]; ok {
		return st
	}
	factory := s.registry.factory(name)
	if factory == nil {
		panic("ecs: component type " + string(name) + " is not registered")
	}
	st := factory()
	s.stores[name] = st
	return st
}

// AddComponent attaches component to id under name. Fails only if id is
// not live. If id already carries a component under name, the stored value
// is overwritten in place and no attach notification fires.
func (s *Storage) AddComponent(id EntityId, name ComponentTypeName, component any) bool {
	if !s.entities.isLive(id) {
		return false
	}

	names := s.index[id]
	_, already := names[name]

	st := s.ensureStore(name)
	st.Set(id, component)
	names[name] = struct{}{}

	if !already {
		s.notifyComponentChanged(id, name, st.Get(id), true)
	}
	return true
}

// RemoveComponent detaches the named component from id.
func (s *Storage) RemoveComponent(id EntityId, name ComponentTypeName) bool {
	names, ok := s.index[id]
	if !ok {
		return false
	}
	if _, has := names[name]; !has {
		return false
	}

	var component any
	if st, ok := s.stores[name]; ok {
		component = st.Take(id)
	}
	delete(names, name)

	s.notifyComponentChanged(id, name, component, false)
	return true
}

// RemoveAllComponents detaches every component from id. Iterates a
// snapshot of the entity's component-name set, since mutating the
// underlying map while ranging over it is forbidden.
func (s *Storage) RemoveAllComponents(id EntityId) bool {
	names, ok := s.index[id]
	if !ok {
		return false
	}
	snapshot := make([]ComponentTypeName, 0, len(names))
	for n := range names {
		snapshot = append(snapshot, n)
	}
	for _, n := range snapshot {
		s.RemoveComponent(id, n)
	}
	return true
}

// GetComponent returns the component of the given type on id, or nil.
func (s *Storage) GetComponent(id EntityId, name ComponentTypeName) any {
	st, ok := s.stores[name]
	if !ok {
		return nil
	}
	return st.Get(id)
}

// GetComponents iterates every (name, component) pair attached to id.
func (s *Storage) GetComponents(id EntityId) iter.Seq2[ComponentTypeName, any] {
	return func(yield func(ComponentTypeName, any) bool) {
		names, ok := s.index[id]
		if !ok {
			return
		}
		for n := range names {
			if !yield(n, s.GetComponent(id, n)) {
				return
			}
		}
	}
}

// HasComponent reports whether id currently carries a component named
// name.
func (s *Storage) HasComponent(id EntityId, name ComponentTypeName) bool {
	names, ok := s.index[id]
	if !ok {
		return false
	}
	_, has := names[name]
	return has
}

// View performs an unfiltered linear scan over every component of the
// given type, with no cache involved.
func (s *Storage) View(name ComponentTypeName) iter.Seq2[EntityId, any] {
	return func(yield func(EntityId, any) bool) {
		st, ok := s.stores[name]
		if !ok {
			return
		}
		for id, comp := range st.Iter() {
			if !yield(id, comp) {
				return
			}
		}
	}
}

// signature normalises a component-name list by sorting and deduplicating
// it, so [A,B] and [B,A] share a cache.
func signature(names []ComponentTypeName) []ComponentTypeName {
	set := make(map[ComponentTypeName]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	out := make([]ComponentTypeName, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// signatureKey renders a normalised signature as the registry key. The key
// doubles as the cache's label in stats and metrics, so it stays readable.
func signatureKey(sig []ComponentTypeName) string {
	strs := make([]string, len(sig))
	for i, n := range sig {
		strs[i] = string(n)
	}
	return strings.Join(strs, "+")
}

// MultiView returns the materialised view for the normalised signature of
// names, creating the cache lazily on first use.
func (s *Storage) MultiView(names []ComponentTypeName) *QueryCache {
	sig := signature(names)
	key := signatureKey(sig)
	if c, ok := s.caches[key]; ok {
		return c
	}
	c := newQueryCache(s, sig)
	s.caches[key] = c
	return c
}

// notifyComponentChanged fires the attach/detach signal to observers, then
// informs every cache whose signature overlaps name. Observers go first so
// a detach signal can still read the component instance before any cached
// record referencing it is evicted.
func (s *Storage) notifyComponentChanged(id EntityId, name ComponentTypeName, component any, added bool) {
	if len(s.observers) > 0 {
		entity := Entity{id: id, store: s}
		for _, o := range s.observers {
			if added {
				o.ComponentAdded(entity, name, component)
			} else {
				o.ComponentRemoved(entity, name, component)
			}
		}
	}
	for _, c := range s.caches {
		c.onComponentChanged(id, name, added)
	}
}
