package ecs_test

import (
	"fmt"
	"sort"

	"github.com/tessera-engine/tessera/ecs"
)

// ExampleQueryBuilder demonstrates the With/Without immediate-mode query,
// evaluated once on Execute against the entity currently matching.
func ExampleQueryBuilder() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry, "Position")
	ecs.RegisterComponent[PlayerController](registry, "PlayerController")
	storage := ecs.NewStorage(registry)

	player := storage.CreateEntity(0)
	storage.AddComponent(player.Id(), "Position", &Position{X: 1})
	storage.AddComponent(player.Id(), "PlayerController", &PlayerController{})

	npc := storage.CreateEntity(0)
	storage.AddComponent(npc.Id(), "Position", &Position{X: 2})

	records := ecs.NewQueryBuilder(storage).With("Position").Without("PlayerController").Execute()

	var xs []float32
	for _, rec := range records {
		xs = append(xs, rec.Get("Position").(*Position).X)
	}
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })

	fmt.Println(xs)

	// Output:
	// [2]
}
