package ecs

import (
	"sort"
	"sync"
)

// EventListener receives an event payload dispatched under the name it was
// registered against.
type EventListener func(payload any)

// EventDispatcher is the core's named pub/sub collaborator:
// add_listener/remove_listener/dispatch. The command buffer's per-event-name
// batching is the only internal caller.
type EventDispatcher struct {
	mu        sync.Mutex
	listeners map[string][]EventListener
	nextToken int
	tokens    map[string]map[int]EventListener
}

// NewEventDispatcher returns an empty, synchronous, in-process dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{
		listeners: make(map[string][]EventListener),
		tokens:    make(map[string]map[int]EventListener),
	}
}

// ListenerToken identifies a registered listener so it can be removed again
// without requiring function identity comparison (Go funcs aren't
// comparable).
type ListenerToken struct {
	name string
	id   int
}

// AddListener subscribes fn under name and returns a token for later
// removal.
func (d *EventDispatcher) AddListener(name string, fn EventListener) ListenerToken {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextToken++
	id := d.nextToken
	if d.tokens[name] == nil {
		d.tokens[name] = make(map[int]EventListener)
	}
	d.tokens[name][id] = fn
	d.rebuild(name)
	return ListenerToken{name: name, id: id}
}

// RemoveListener unsubscribes the listener identified by tok. Removing an
// already-removed or unknown token is a silent no-op.
func (d *EventDispatcher) RemoveListener(tok ListenerToken) {
	d.mu.Lock()
	defer d.mu.Unlock()

	byID, ok := d.tokens[tok.name]
	if !ok {
		return
	}
	delete(byID, tok.id)
	d.rebuild(tok.name)
}

// rebuild recomputes the flat dispatch slice for name from its token map.
// Holding a flat slice keeps Dispatch allocation-free in the common case
// where listeners rarely change between dispatches.
func (d *EventDispatcher) rebuild(name string) {
	byID := d.tokens[name]
	if len(byID) == 0 {
		delete(d.listeners, name)
		delete(d.tokens, name)
		return
	}
	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fns := make([]EventListener, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, byID[id])
	}
	d.listeners[name] = fns
}

// Dispatch delivers payload to every listener registered under name, in
// registration order. Dispatching a name with no listeners is a silent
// no-op.
func (d *EventDispatcher) Dispatch(name string, payload any) {
	d.mu.Lock()
	fns := d.listeners[name]
	d.mu.Unlock()

	for _, fn := range fns {
		fn(payload)
	}
}

// DispatchBatch delivers every payload queued under name, in the order they
// were batched. Used by Commands.Flush, which collects one payload list per
// event name before handing each off in a single lookup.
func (d *EventDispatcher) DispatchBatch(name string, payloads []any) {
	if len(payloads) == 0 {
		return
	}
	d.mu.Lock()
	fns := d.listeners[name]
	d.mu.Unlock()

	for _, payload := range payloads {
		for _, fn := range fns {
			fn(payload)
		}
	}
}
