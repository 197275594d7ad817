package ecs

// StorageStats is a point-in-time snapshot of a Storage's size:
// per-component-type counts, live query-cache sizes, and the singleton
// population, as consumed by the debugui dashboard.
type StorageStats struct {
	LiveEntities    int
	ComponentCounts map[ComponentTypeName]int
	CacheSizes      map[string]int
	SingletonCount  int
}

// CollectStats walks the store's component stores and query caches and
// returns a fresh snapshot.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		LiveEntities:    len(s.index),
		ComponentCounts: make(map[ComponentTypeName]int, len(s.stores)),
		CacheSizes:      make(map[string]int, len(s.caches)),
		SingletonCount:  len(s.singletons),
	}
	for name, st := range s.stores {
		stats.ComponentCounts[name] = st.Len()
	}
	for key, c := range s.caches {
		stats.CacheSizes[key] = c.Len()
	}
	return stats
}
