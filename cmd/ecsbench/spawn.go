package main

import (
	"math/rand"

	"github.com/tessera-engine/tessera/ecs"
)

// spawnRandomEntity creates an entity carrying numComponents distinct
// generated components, used to populate the stress test's initial
// working set.
func spawnRandomEntity(storage *ecs.Storage, rng *rand.Rand, numComponents int) ecs.Entity {
	entity := storage.CreateEntity(0)

	seen := make(map[int]bool, numComponents)
	for len(seen) < numComponents && len(seen) < len(generatedComponentNames) {
		n := rng.Intn(len(generatedComponentNames))
		if seen[n] {
			continue
		}
		seen[n] = true
		storage.AddComponent(entity.Id(), generatedComponentNames[n], newGenComponent(n))
	}

	return entity
}
