package ecs

import "weak"

// EntityRef is a stable, non-owning reference to an entity that survives
// the entity's components changing underneath it. Backed by a weak
// pointer keyed on the plain EntityId rather than any storage-internal
// position, so it stays valid across component churn.
type EntityRef struct {
	Id EntityId
}

// CreateEntityRef returns the (possibly cached) EntityRef for id. Calling
// it twice for the same live id returns the same *EntityRef.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	if !s.entities.isLive(id) {
		return nil
	}

	s.refsMu.Lock()
	defer s.refsMu.Unlock()

	if wp, ok := s.refs.Get(id); ok {
		if ref := wp.Value(); ref != nil {
			return ref
		}
		s.refs.Del(id)
	}

	ref := &EntityRef{Id: id}
	s.refs.Put(id, weak.Make(ref))
	return ref
}

// ResolveEntityRef returns the id ref points to, and whether it is still
// valid.
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if ref == nil || ref.Id == 0 {
		return 0, false
	}
	return ref.Id, true
}

// InvalidateEntityRef marks ref as deleted; subsequent ResolveEntityRef
// calls on it fail.
func (s *Storage) InvalidateEntityRef(ref *EntityRef) bool {
	if ref == nil || ref.Id == 0 {
		return false
	}

	s.refsMu.Lock()
	s.refs.Del(ref.Id)
	s.refsMu.Unlock()

	ref.Id = 0
	return true
}

// invalidateRef is called from RemoveEntity so a destroyed entity's
// outstanding EntityRef observes invalidity without the caller having to
// hold on to it separately.
func (s *Storage) invalidateRef(id EntityId) {
	s.refsMu.Lock()
	wp, ok := s.refs.Get(id)
	if ok {
		if ref := wp.Value(); ref != nil {
			ref.Id = 0
		}
		s.refs.Del(id)
	}
	s.refsMu.Unlock()
}
