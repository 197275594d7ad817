package main

import (
	"fmt"
	"math/rand"

	"github.com/tessera-engine/tessera/ecs"
)

// touchSystem is a bench System body: for every view record it holds a
// read-write declaration on, it nudges the component's Value field. It
// never issues commands, so the stress test measures scheduling/dispatch
// overhead, not command-buffer replay cost.
type touchSystem struct {
	writeNames []ecs.ComponentTypeName
}

func (t *touchSystem) ViewComponents(view ecs.ViewRecord, _ *ecs.Commands) {
	for _, name := range t.writeNames {
		if v, ok := view.Get(name).(bumper); ok {
			v.bump()
		}
	}
}

// registerGeneratedSystems builds systemCount descriptors over
// generatedComponentNames: each touches a small random slice of component
// types, with one designated write and the rest read-only, and a random
// group id, exercising the dependency builder's conflict batching and the
// worker pool's fan-out at scale.
func registerGeneratedSystems(scheduler *ecs.Scheduler, systemCount int, rng *rand.Rand) {
	names := generatedComponentNames
	descriptors := make([]*ecs.SystemDescriptor, 0, systemCount)

	for i := 0; i < systemCount; i++ {
		touched := 1 + rng.Intn(3)
		access := make(map[ecs.ComponentTypeName]ecs.AccessMode, touched)
		var writeNames []ecs.ComponentTypeName

		for j := 0; j < touched; j++ {
			name := names[rng.Intn(len(names))]
			if _, dup := access[name]; dup {
				continue
			}
			mode := ecs.ReadOnly
			if j == 0 {
				mode = ecs.ReadWrite
				writeNames = append(writeNames, name)
			}
			access[name] = mode
		}

		descriptors = append(descriptors, &ecs.SystemDescriptor{
			Name:     genSystemName(i),
			Access:   access,
			Group:    rng.Intn(8),
			Parallel: rng.Intn(4) == 0,
			Body:     &touchSystem{writeNames: writeNames},
		})
	}

	scheduler.AddSystems(descriptors...)
}

func genSystemName(i int) string {
	return fmt.Sprintf("Sys_%d", i)
}
