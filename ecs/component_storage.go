package ecs

import (
	"iter"

	"github.com/kamstrup/intmap"
)

// componentStorage is a type-erased, entity-id-keyed component store for
// exactly one component type. Implementations must give O(1) insertion,
// removal and membership tests keyed by EntityId.
type componentStorage interface {
	Set(id EntityId, item any)
	Delete(id EntityId)
	// Take removes id's component and returns a copy of its final value,
	// for detach notifications that outlive the slot.
	Take(id EntityId) any
	Get(id EntityId) any
	Has(id EntityId) bool
	Len() int
	Iter() iter.Seq2[EntityId, any]
}

const componentBlockSize = 64

// genericComponentStorage is a generic componentStorage keyed by EntityId.
// Components live in fixed-size blocks with a free-slot list; the slot for
// a given entity is found through slotOf. slotOf/idOf are
// kamstrup/intmap.Maps, giving the per-type access path O(1)
// insertion/removal/membership. Blocks are held by pointer, so appending a
// new block never moves existing components and pointers handed out by
// Get/Iter stay valid until the component is deleted.
type genericComponentStorage[T any] struct {
	blocks    []*[componentBlockSize]T
	filled    [][componentBlockSize]bool
	freeSlots []int
	nextSlot  int

	slotOf *intmap.Map[EntityId, int]
	idOf   *intmap.Map[int, EntityId]
}

func newGenericComponentStorage[T any]() *genericComponentStorage[T] {
	return &genericComponentStorage[T]{
		slotOf: intmap.New[EntityId, int](64),
		idOf:   intmap.New[int, EntityId](64),
	}
}

func (cs *genericComponentStorage[T]) allocSlot() int {
	if n := len(cs.freeSlots); n > 0 {
		slot := cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
		return slot
	}
	slot := cs.nextSlot
	cs.nextSlot++
	blockIdx := slot / componentBlockSize
	if blockIdx >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, new([componentBlockSize]T))
		cs.filled = append(cs.filled, [componentBlockSize]bool{})
	}
	return slot
}

func toConcrete[T any](item any) (T, bool) {
	var zero T
	if ptr, ok := item.(*T); ok {
		return *ptr, true
	}
	if val, ok := item.(T); ok {
		return val, true
	}
	return zero, false
}

// Set stores (or overwrites) the component for id.
func (cs *genericComponentStorage[T]) Set(id EntityId, item any) {
	concrete, ok := toConcrete[T](item)
	if !ok {
		panic("component value has the wrong type for this storage")
	}

	if slot, exists := cs.slotOf.Get(id); exists {
		blockIdx, slotIdx := slot/componentBlockSize, slot%componentBlockSize
		cs.blocks[blockIdx][slotIdx] = concrete
		return
	}

	slot := cs.allocSlot()
	blockIdx, slotIdx := slot/componentBlockSize, slot%componentBlockSize
	cs.blocks[blockIdx][slotIdx] = concrete
	cs.filled[blockIdx][slotIdx] = true
	cs.slotOf.Put(id, slot)
	cs.idOf.Put(slot, id)
}

// Delete removes the component belonging to id, if present.
func (cs *genericComponentStorage[T]) Delete(id EntityId) {
	slot, ok := cs.slotOf.Get(id)
	if !ok {
		return
	}
	blockIdx, slotIdx := slot/componentBlockSize, slot%componentBlockSize
	cs.filled[blockIdx][slotIdx] = false
	var zero T
	cs.blocks[blockIdx][slotIdx] = zero

	cs.slotOf.Del(id)
	cs.idOf.Del(slot)
	cs.freeSlots = append(cs.freeSlots, slot)
}

// Take removes id's component, returning a pointer to a detached copy of
// its final value, or nil if id had none.
func (cs *genericComponentStorage[T]) Take(id EntityId) any {
	slot, ok := cs.slotOf.Get(id)
	if !ok {
		return nil
	}
	blockIdx, slotIdx := slot/componentBlockSize, slot%componentBlockSize
	value := cs.blocks[blockIdx][slotIdx]
	cs.Delete(id)
	return &value
}

// Get returns a pointer to the component belonging to id, or nil.
func (cs *genericComponentStorage[T]) Get(id EntityId) any {
	slot, ok := cs.slotOf.Get(id)
	if !ok {
		return nil
	}
	blockIdx, slotIdx := slot/componentBlockSize, slot%componentBlockSize
	if !cs.filled[blockIdx][slotIdx] {
		return nil
	}
	return &cs.blocks[blockIdx][slotIdx]
}

// Has reports whether id has a component in this storage.
func (cs *genericComponentStorage[T]) Has(id EntityId) bool {
	_, ok := cs.slotOf.Get(id)
	return ok
}

// Len returns the number of attached components.
func (cs *genericComponentStorage[T]) Len() int { return cs.slotOf.Len() }

// Iter yields (EntityId, component pointer) pairs in unspecified order.
func (cs *genericComponentStorage[T]) Iter() iter.Seq2[EntityId, any] {
	return func(yield func(EntityId, any) bool) {
		for slot := 0; slot < cs.nextSlot; slot++ {
			blockIdx, slotIdx := slot/componentBlockSize, slot%componentBlockSize
			if !cs.filled[blockIdx][slotIdx] {
				continue
			}
			id, ok := cs.idOf.Get(slot)
			if !ok {
				continue
			}
			if !yield(id, &cs.blocks[blockIdx][slotIdx]) {
				return
			}
		}
	}
}
