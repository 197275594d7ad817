package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tessera-engine/tessera/ecs"
)

type GameClock struct {
	Elapsed float64
}

func TestNewSingletonDefaultsToZeroValue(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	clock := ecs.NewSingleton[GameClock](storage)
	assert.Equal(t, float64(0), clock.Get().Elapsed)
}

func TestNewSingletonWithInitializer(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	clock := ecs.NewSingleton(storage, GameClock{Elapsed: 10})
	assert.Equal(t, float64(10), clock.Get().Elapsed)
}

func TestSingletonGetReturnsLiveMutablePointer(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	clock := ecs.NewSingleton[GameClock](storage)
	clock.Get().Elapsed = 5

	again := ecs.NewSingleton[GameClock](storage)
	assert.Equal(t, float64(5), again.Get().Elapsed)
}

func TestSingletonInitBindsWithoutOverwritingExisting(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ecs.NewSingleton(storage, GameClock{Elapsed: 99})

	var s ecs.Singleton[GameClock]
	s.Init(storage)
	assert.Equal(t, float64(99), s.Get().Elapsed)
}
