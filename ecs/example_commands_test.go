package ecs_test

import (
	"fmt"

	"github.com/tessera-engine/tessera/ecs"
)

// ExampleCommands demonstrates deferring entity destruction out of a
// system body. Systems never mutate Storage directly during a batch;
// they queue intent on a Commands buffer, which the scheduler flushes
// against the store once every system in the tick has run.
func ExampleCommands() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Health](registry, "Health")
	storage := ecs.NewStorage(registry)

	storage.CreateEntity(0)
	dying := storage.CreateEntity(0)
	storage.AddComponent(dying.Id(), "Health", &Health{Current: 0, Max: 100})
	storage.CreateEntity(0)

	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(1))
	sched.AddSystems(&ecs.SystemDescriptor{
		Name:   "Cleanup",
		Access: map[ecs.ComponentTypeName]ecs.AccessMode{"Health": ecs.ReadOnly},
		Body: ecs.SystemFunc(func(rec ecs.ViewRecord, cmds *ecs.Commands) {
			if rec.Get("Health").(*Health).Current <= 0 {
				cmds.Destroy(rec.Entity)
			}
		}),
	})
	sched.Build()
	sched.Run(1.0)

	remaining := 0
	for range storage.EntityIds() {
		remaining++
	}
	fmt.Printf("Remaining entities: %d\n", remaining)

	// Output:
	// Remaining entities: 2
}
