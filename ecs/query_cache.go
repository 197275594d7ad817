package ecs

import "github.com/kamstrup/intmap"

// ViewRecord is one row of a cache or query-builder result: the entity
// handle plus one field per component name in the signature/any_of list.
type ViewRecord struct {
	Entity     EntityId
	Components map[ComponentTypeName]any
}

// Get returns the component for name in this record, or nil if it is not
// present (only possible for any_of-derived records, where fields are
// optional).
func (r ViewRecord) Get(name ComponentTypeName) any { return r.Components[name] }

// QueryCache is a materialised, incrementally maintained view of every
// live entity whose component set is a superset of signature. Its
// identity is stable: callers that hold on to a *QueryCache observe later
// mutations reflected in place.
type QueryCache struct {
	storage   *Storage
	signature []ComponentTypeName
	sigSet    map[ComponentTypeName]struct{}

	results []ViewRecord
	// indexOf is a kamstrup/intmap.Map, the same O(1) entity-id-keyed
	// index the component stores use, so swap-with-last eviction stays
	// O(1) on the hot path too.
	indexOf *intmap.Map[EntityId, int]

	metricsKey string
}

func newQueryCache(storage *Storage, signature []ComponentTypeName) *QueryCache {
	c := &QueryCache{
		storage:    storage,
		signature:  signature,
		sigSet:     make(map[ComponentTypeName]struct{}, len(signature)),
		indexOf:    intmap.New[EntityId, int](64),
		metricsKey: signatureKey(signature),
	}
	for _, n := range signature {
		c.sigSet[n] = struct{}{}
	}
	c.build()
	return c
}

// build performs the initial admission pass: locate the smallest type
// list in the signature and enumerate it, admitting a candidate iff every
// other name is also present.
func (c *QueryCache) build() {
	if len(c.signature) == 0 {
		return
	}

	smallest := c.signature[0]
	smallestLen := -1
	for _, n := range c.signature {
		st, ok := c.storage.stores[n]
		if !ok {
			// No entity can satisfy the signature until this type has a
			// store at all.
			return
		}
		if smallestLen == -1 || st.Len() < smallestLen {
			smallest = n
			smallestLen = st.Len()
		}
	}

	st := c.storage.stores[smallest]
	for id := range st.Iter() {
		if c.satisfies(id) {
			c.admit(id)
		}
	}
}

func (c *QueryCache) satisfies(id EntityId) bool {
	for _, n := range c.signature {
		if !c.storage.HasComponent(id, n) {
			return false
		}
	}
	return true
}

func (c *QueryCache) recordFor(id EntityId) ViewRecord {
	comps := make(map[ComponentTypeName]any, len(c.signature))
	for _, n := range c.signature {
		comps[n] = c.storage.GetComponent(id, n)
	}
	return ViewRecord{Entity: id, Components: comps}
}

func (c *QueryCache) admit(id EntityId) {
	if _, already := c.indexOf.Get(id); already {
		return
	}
	c.indexOf.Put(id, len(c.results))
	c.results = append(c.results, c.recordFor(id))
	c.reportSize()
}

// reportSize publishes the cache's current size under its normalised
// signature to the ecs_query_cache_size gauge.
func (c *QueryCache) reportSize() {
	queryCacheSize.WithLabelValues(c.metricsKey).Set(float64(len(c.results)))
}

// evict removes id using swap-with-last then pop, keeping the operation
// O(1); the swapped-in record's id->index entry is rewritten.
func (c *QueryCache) evict(id EntityId) {
	idx, ok := c.indexOf.Get(id)
	if !ok {
		return
	}
	last := len(c.results) - 1
	if idx != last {
		c.results[idx] = c.results[last]
		c.indexOf.Put(c.results[idx].Entity, idx)
	}
	c.results = c.results[:last]
	c.indexOf.Del(id)
	c.reportSize()
}

// onComponentChanged is the incremental-maintenance entry point driven by
// Storage.notifyComponentChanged.
func (c *QueryCache) onComponentChanged(id EntityId, name ComponentTypeName, added bool) {
	if _, relevant := c.sigSet[name]; !relevant {
		return
	}

	if added {
		if _, already := c.indexOf.Get(id); !already && c.satisfies(id) {
			c.admit(id)
		}
		return
	}

	if _, cached := c.indexOf.Get(id); cached {
		c.evict(id)
	}
}

// Results returns the cache's current materialised records. The returned
// slice is the cache's live backing storage and must not be retained
// across a mutation.
func (c *QueryCache) Results() []ViewRecord { return c.results }

// Len returns the number of cached records.
func (c *QueryCache) Len() int { return len(c.results) }

// IsEmpty reports whether the cache currently has no records.
func (c *QueryCache) IsEmpty() bool { return len(c.results) == 0 }
