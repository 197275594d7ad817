package ecs_test

import "github.com/tessera-engine/tessera/ecs"

// Common component types shared across the package's test files.
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

type AI struct {
	State int
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry, "Position")
	ecs.RegisterComponent[Velocity](registry, "Velocity")
	ecs.RegisterComponent[Name](registry, "Name")
	ecs.RegisterComponent[Health](registry, "Health")
	ecs.RegisterComponent[PlayerController](registry, "PlayerController")
	ecs.RegisterComponent[AI](registry, "AI")
	return registry
}
