package ecs

import "github.com/tessera-engine/tessera/ecs/internal/elog"

// opcode enumerates the deferred-command-buffer stream entries. The buffer
// records these in a single flat, ordered slice, because flush must honor
// strict stream order, not per-kind grouping order.
type opcode int

const (
	opSpawn opcode = iota
	opAddToNew
	opAddComp
	opRmComp
	opRmAll
	opDestroy
	opDefer
)

type command struct {
	op        opcode
	entity    EntityId
	name      ComponentTypeName
	component any
	fn        func()
}

// SpawnBuilder is the fluent sub-scope returned by Commands.Spawn; its
// AddComponent calls target the spawn that produced it, not whatever spawn
// is "current" when they eventually run. The ADD_TO_NEW opcode's operand is
// otherwise resolved against stream position, but the builder pins its
// owner spawn so interleaved Spawn calls on the same Commands don't
// cross-contaminate.
type SpawnBuilder struct {
	c        *Commands
	spawnIdx int
}

// AddComponent queues an ADD_TO_NEW opcode for this builder's spawn. If name
// is empty, Flush deduces it from the registry at flush time.
func (b SpawnBuilder) AddComponent(name ComponentTypeName, component any) SpawnBuilder {
	b.c.ops = append(b.c.ops, command{op: opAddToNew, name: name, component: component, entity: EntityId(b.spawnIdx)})
	return b
}

// EntityBuilder is the fluent sub-scope returned by Commands.Entity.
type EntityBuilder struct {
	c  *Commands
	id EntityId
}

// AddComponent queues an ADD_COMP opcode against this builder's entity.
func (b EntityBuilder) AddComponent(name ComponentTypeName, component any) EntityBuilder {
	b.c.ops = append(b.c.ops, command{op: opAddComp, entity: b.id, name: name, component: component})
	return b
}

// RemoveComponent queues an RM_COMP opcode against this builder's entity.
func (b EntityBuilder) RemoveComponent(name ComponentTypeName) EntityBuilder {
	b.c.ops = append(b.c.ops, command{op: opRmComp, entity: b.id, name: name})
	return b
}

// RemoveAll queues an RM_ALL opcode against this builder's entity.
func (b EntityBuilder) RemoveAll() EntityBuilder {
	b.c.ops = append(b.c.ops, command{op: opRmAll, entity: b.id})
	return b
}

// Destroy queues a DESTROY opcode against this builder's entity.
func (b EntityBuilder) Destroy() EntityBuilder {
	b.c.ops = append(b.c.ops, command{op: opDestroy, entity: b.id})
	return b
}

// Commands is a deferred command buffer: an ordered opcode stream plus a
// per-event-name payload batch. Systems never mutate Storage directly;
// their body receives a Commands and queues intent here, which the
// scheduler flushes against the store on a single thread at the end of a
// tick.
type Commands struct {
	ops    []command
	events map[string][]any
	// spawnCount tracks how many SPAWN opcodes this buffer has recorded, so
	// each SpawnBuilder can be given a stable per-buffer spawn index without
	// resolving it against stream position until flush.
	spawnCount int
}

// NewCommands returns an empty command buffer.
func NewCommands() *Commands {
	return &Commands{events: make(map[string][]any)}
}

// Spawn queues a SPAWN opcode and returns a builder for attaching its
// initial components.
func (c *Commands) Spawn() SpawnBuilder {
	idx := c.spawnCount
	c.spawnCount++
	c.ops = append(c.ops, command{op: opSpawn, entity: EntityId(idx)})
	return SpawnBuilder{c: c, spawnIdx: idx}
}

// Entity returns a builder for queuing operations against an explicit,
// already-live entity id.
func (c *Commands) Entity(id EntityId) EntityBuilder {
	return EntityBuilder{c: c, id: id}
}

// AddComponent queues an ADD_COMP opcode directly, without a builder.
func (c *Commands) AddComponent(entity EntityId, name ComponentTypeName, component any) {
	c.ops = append(c.ops, command{op: opAddComp, entity: entity, name: name, component: component})
}

// RemoveComponent queues an RM_COMP opcode directly.
func (c *Commands) RemoveComponent(entity EntityId, name ComponentTypeName) {
	c.ops = append(c.ops, command{op: opRmComp, entity: entity, name: name})
}

// RemoveAll queues an RM_ALL opcode directly.
func (c *Commands) RemoveAll(entity EntityId) {
	c.ops = append(c.ops, command{op: opRmAll, entity: entity})
}

// Destroy queues a DESTROY opcode directly.
func (c *Commands) Destroy(entity EntityId) {
	c.ops = append(c.ops, command{op: opDestroy, entity: entity})
}

// Defer queues a callable to run on the flush thread, after every prior
// opcode in this stream has taken effect.
func (c *Commands) Defer(fn func()) {
	c.ops = append(c.ops, command{op: opDefer, fn: fn})
}

// Emit batches payload under event name, to be dispatched in a single
// lookup per name at flush.
func (c *Commands) Emit(name string, payload any) {
	c.events[name] = append(c.events[name], payload)
}

// Merge appends other's opcode stream verbatim, then concatenates its
// per-event payload lists onto the receiver's. Merging B into A is
// equivalent to executing A's stream then B's.
func (c *Commands) Merge(other *Commands) {
	if other == nil {
		return
	}

	spawnOffset := c.spawnCount
	for _, op := range other.ops {
		if op.op == opSpawn {
			c.spawnCount++
		}
		if op.op == opSpawn || op.op == opAddToNew {
			op.entity += EntityId(spawnOffset)
		}
		c.ops = append(c.ops, op)
	}
	for name, payloads := range other.events {
		c.events[name] = append(c.events[name], payloads...)
	}
}

// IsEmpty reports whether the buffer has nothing queued.
func (c *Commands) IsEmpty() bool {
	return len(c.ops) == 0 && len(c.events) == 0
}

// Clear discards every queued opcode and event without applying them.
func (c *Commands) Clear() {
	c.ops = c.ops[:0]
	c.events = make(map[string][]any)
	c.spawnCount = 0
}

// Flush processes the opcode stream strictly in order against storage, then
// dispatches each event name's batched payloads, and finally clears the
// buffer. Sequential consistency: a DEFER sees every prior opcode's
// effect, because they have already run against storage by the time it
// fires.
func (c *Commands) Flush(storage *Storage) {
	log := elog.WithComponent("commands")

	spawnedIds := make(map[EntityId]EntityId, c.spawnCount)
	var currentSpawn EntityId
	haveSpawn := false

	for _, op := range c.ops {
		switch op.op {
		case opSpawn:
			id := storage.CreateEntity(0)
			spawnedIds[op.entity] = id.id
			currentSpawn = id.id
			haveSpawn = true

		case opAddToNew:
			spawnID, ok := spawnedIds[op.entity]
			if !ok {
				if !haveSpawn {
					log.Warn().Err(ErrMissingReferent).Msg("ADD_TO_NEW with no preceding SPAWN")
					continue
				}
				spawnID = currentSpawn
			}
			name := op.name
			if name == "" {
				var ok bool
				name, ok = storage.registry.nameOf(op.component)
				if !ok {
					log.Warn().Msg("ADD_TO_NEW: component type not registered and no name given")
					continue
				}
			}
			storage.AddComponent(spawnID, name, op.component)

		case opAddComp:
			if !storage.HasEntity(op.entity) {
				log.Warn().Err(ErrMissingReferent).Uint32("entity", uint32(op.entity)).Msg("ADD_COMP against a missing entity")
				continue
			}
			name := op.name
			if name == "" {
				var ok bool
				name, ok = storage.registry.nameOf(op.component)
				if !ok {
					log.Warn().Msg("ADD_COMP: component type not registered and no name given")
					continue
				}
			}
			storage.AddComponent(op.entity, name, op.component)

		case opRmComp:
			if !storage.HasEntity(op.entity) {
				log.Warn().Err(ErrMissingReferent).Uint32("entity", uint32(op.entity)).Msg("RM_COMP against a missing entity")
				continue
			}
			storage.RemoveComponent(op.entity, op.name)

		case opRmAll:
			if !storage.HasEntity(op.entity) {
				log.Warn().Err(ErrMissingReferent).Uint32("entity", uint32(op.entity)).Msg("RM_ALL against a missing entity")
				continue
			}
			storage.RemoveAllComponents(op.entity)

		case opDestroy:
			if !storage.HasEntity(op.entity) {
				log.Warn().Err(ErrMissingReferent).Uint32("entity", uint32(op.entity)).Msg("DESTROY against a missing entity")
				continue
			}
			storage.RemoveEntity(op.entity)

		case opDefer:
			op.fn()
		}
		commandsFlushed.WithLabelValues(op.op.label()).Inc()
	}

	for name, payloads := range c.events {
		storage.Events().DispatchBatch(name, payloads)
	}

	c.Clear()
}
