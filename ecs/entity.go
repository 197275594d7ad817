package ecs

import "github.com/kamstrup/intmap"

// EntityId is an opaque handle to a live (or once-live) entity. The zero
// value means "no entity" and is never assigned to a spawned entity.
type EntityId uint32

// ComponentTypeName is the interned symbolic key components are stored and
// queried under. Names are unique per Storage.
type ComponentTypeName string

// Entity is a cheap-to-copy handle carrying an EntityId plus a non-owning
// back-reference to its owning store.
type Entity struct {
	id    EntityId
	store *Storage
}

// Id returns the entity's identifier.
func (e Entity) Id() EntityId { return e.id }

// Valid reports whether the handle's id is non-zero and the store still
// lists the entity as live.
func (e Entity) Valid() bool {
	return e.id != 0 && e.store != nil && e.store.HasEntity(e.id)
}

// Destroy removes the entity from its store and zeroes the handle's id.
func (e *Entity) Destroy() bool {
	if e.id == 0 || e.store == nil {
		return false
	}
	ok := e.store.RemoveEntity(e.id)
	e.id = 0
	return ok
}

// entityTable allocates entity ids from a monotonic counter and tracks
// which ids are currently live. The liveness set is a kamstrup/intmap.Map
// keyed by the raw id with a bare struct{} presence marker, giving O(1)
// insertion/removal/membership on the hot allocate/destroy path.
type entityTable struct {
	lastId EntityId
	live   *intmap.Map[EntityId, struct{}]
}

func newEntityTable() *entityTable {
	return &entityTable{live: intmap.New[EntityId, struct{}](256)}
}

// nextId advances and returns the counter without marking anything live.
func (t *entityTable) nextId() EntityId {
	t.lastId++
	return t.lastId
}

// reserve bumps the watermark so that future allocations never collide
// with an explicitly-requested id.
func (t *entityTable) reserve(id EntityId) {
	if id > t.lastId {
		t.lastId = id
	}
}

func (t *entityTable) markLive(id EntityId) { t.live.Put(id, struct{}{}) }
func (t *entityTable) markDead(id EntityId) { t.live.Del(id) }
func (t *entityTable) isLive(id EntityId) bool {
	_, ok := t.live.Get(id)
	return ok
}
