package ecs_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessera-engine/tessera/ecs"
)

func descriptor(name string, access map[ecs.ComponentTypeName]ecs.AccessMode, body ecs.System) *ecs.SystemDescriptor {
	return &ecs.SystemDescriptor{Name: name, Access: access, Body: body}
}

func TestSchedulerBuildSingleDescriptorShortCircuits(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(4))
	sched.AddSystems(descriptor("Move", map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadWrite}, ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {})))

	result := sched.Build()
	require.NoError(t, result.Err)
	assert.Equal(t, [][]string{{"Move"}}, result.Batches)
}

func TestSchedulerNonConflictingSystemsShareABatch(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(4))
	sched.AddSystems(
		descriptor("ReadPosition", map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadOnly}, ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {})),
		descriptor("ReadVelocity", map[ecs.ComponentTypeName]ecs.AccessMode{"Velocity": ecs.ReadOnly}, ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {})),
	)

	result := sched.Build()
	require.NoError(t, result.Err)
	require.Len(t, result.Batches, 1)
	assert.ElementsMatch(t, []string{"ReadPosition", "ReadVelocity"}, result.Batches[0])
}

func TestSchedulerConflictingWritersSplitAcrossBatches(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(4))
	sched.AddSystems(
		descriptor("WriteA", map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadWrite}, ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {})),
		descriptor("WriteB", map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadWrite}, ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {})),
	)

	result := sched.Build()
	require.NoError(t, result.Err)
	require.Len(t, result.Batches, 2)
}

func TestSchedulerBeforeAfterOrdering(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(4))

	first := descriptor("First", map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadWrite}, ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {}))
	second := descriptor("Second", map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadWrite}, ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {}))
	second.After = []string{"First"}
	sched.AddSystems(first, second)

	result := sched.Build()
	require.NoError(t, result.Err)
	require.Len(t, result.Batches, 2)
	assert.Equal(t, []string{"First"}, result.Batches[0])
	assert.Equal(t, []string{"Second"}, result.Batches[1])
}

func TestSchedulerCycleReportsErrCycle(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(4))

	a := descriptor("A", map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadOnly}, ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {}))
	b := descriptor("B", map[ecs.ComponentTypeName]ecs.AccessMode{"Velocity": ecs.ReadOnly}, ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {}))
	a.After = []string{"B"}
	b.After = []string{"A"}
	sched.AddSystems(a, b)

	result := sched.Build()
	assert.ErrorIs(t, result.Err, ecs.ErrCycle)
}

func TestSchedulerAddSystemsPanicsOnEmptyAccessTable(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(4))
	assert.Panics(t, func() {
		sched.AddSystems(descriptor("Bad", nil, ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {})))
	})
}

func TestSchedulerAddSystemsPanicsOnDuplicateName(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(4))
	access := map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadOnly}
	sched.AddSystems(descriptor("Dup", access, ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {})))
	assert.Panics(t, func() {
		sched.AddSystems(descriptor("Dup", access, ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {})))
	})
}

func TestSchedulerBuildPanicsOnEmptyDescriptors(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(4))
	assert.Panics(t, func() { sched.Build() })
}

func TestSchedulerRunMutatesStateAndDefersCommandsToFlush(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	e := storage.CreateEntity(0)
	storage.AddComponent(e.Id(), "Health", &Health{Current: 10, Max: 10})

	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(2))
	sched.AddSystems(descriptor("Damage", map[ecs.ComponentTypeName]ecs.AccessMode{"Health": ecs.ReadWrite}, ecs.SystemFunc(
		func(rec ecs.ViewRecord, _ *ecs.Commands) {
			rec.Get("Health").(*Health).Current--
		},
	)))
	sched.Build()

	sched.Run(1.0 / 60)

	assert.Equal(t, 9, storage.GetComponent(e.Id(), "Health").(*Health).Current)
}

func TestSchedulerParallelSystemUsesSubBuffersFlushedAtTickEnd(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 8; i++ {
		e := storage.CreateEntity(0)
		storage.AddComponent(e.Id(), "Position", &Position{})
	}

	var mu sync.Mutex
	touched := map[ecs.EntityId]bool{}

	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(4))
	sched.AddSystems(&ecs.SystemDescriptor{
		Name:     "Parallel",
		Access:   map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadWrite},
		Parallel: true,
		Body: ecs.SystemFunc(func(rec ecs.ViewRecord, cmds *ecs.Commands) {
			mu.Lock()
			touched[rec.Entity] = true
			mu.Unlock()
			cmds.AddComponent(rec.Entity, "Velocity", &Velocity{DX: 1})
		}),
	})
	sched.Build()
	sched.Run(0.1)

	assert.Len(t, touched, 8)
	count := 0
	for range storage.View("Velocity") {
		count++
	}
	assert.Equal(t, 8, count)
}

func TestSchedulerClearDropsDescriptorsAndBatches(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(2))
	sched.AddSystems(descriptor("A", map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadOnly}, ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {})))
	sched.Build()
	sched.Clear()

	assert.Panics(t, func() { sched.Build() })
}

func TestSchedulerProducerBatchedBeforeConsumer(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := 0; i < 10; i++ {
		e := storage.CreateEntity(0)
		storage.AddComponent(e.Id(), "Health", &Health{Current: 0, Max: 100})
	}

	var sum int
	producer := descriptor("Producer", map[ecs.ComponentTypeName]ecs.AccessMode{"Health": ecs.ReadWrite}, ecs.SystemFunc(
		func(rec ecs.ViewRecord, _ *ecs.Commands) {
			rec.Get("Health").(*Health).Current++
		},
	))
	consumer := descriptor("Consumer", map[ecs.ComponentTypeName]ecs.AccessMode{"Health": ecs.ReadOnly}, ecs.SystemFunc(
		func(rec ecs.ViewRecord, _ *ecs.Commands) {
			sum += rec.Get("Health").(*Health).Current
		},
	))
	consumer.After = []string{"Producer"}

	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(4))
	sched.AddSystems(producer, consumer)
	result := sched.Build()
	require.NoError(t, result.Err)

	sched.Run(1.0 / 60)
	assert.Equal(t, 10, sum, "first frame: every Health incremented before the consumer reads")

	sum = 0
	sched.Run(1.0 / 60)
	assert.Equal(t, 20, sum, "second frame: values carried over and incremented again")
}

func batchIndexOf(batches [][]string) map[string]int {
	out := make(map[string]int)
	for i, batch := range batches {
		for _, name := range batch {
			out[name] = i
		}
	}
	return out
}

func TestSchedulerSeparatesWritersFromEachOtherAndFromReaders(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(4))

	noop := ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {})
	sched.AddSystems(
		descriptor("A", map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadWrite}, noop),
		descriptor("B", map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadWrite}, noop),
		descriptor("C", map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadOnly}, noop),
		descriptor("D", map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadOnly}, noop),
	)

	result := sched.Build()
	require.NoError(t, result.Err)
	idx := batchIndexOf(result.Batches)

	assert.NotEqual(t, idx["A"], idx["B"], "two writers never share a batch")
	assert.NotEqual(t, idx["A"], idx["C"], "a writer and a reader never share a batch")
	assert.NotEqual(t, idx["B"], idx["C"])
	assert.Equal(t, idx["C"], idx["D"], "two readers share a batch")
	assert.GreaterOrEqual(t, len(result.Batches), 3)
}

func TestSchedulerDiamondDependency(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(4))
	noop := ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {})

	start := descriptor("Start", map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadOnly}, noop)
	left := descriptor("Left", map[ecs.ComponentTypeName]ecs.AccessMode{"Velocity": ecs.ReadOnly}, noop)
	right := descriptor("Right", map[ecs.ComponentTypeName]ecs.AccessMode{"Name": ecs.ReadOnly}, noop)
	end := descriptor("End", map[ecs.ComponentTypeName]ecs.AccessMode{"Health": ecs.ReadOnly}, noop)
	left.After = []string{"Start"}
	right.After = []string{"Start"}
	end.After = []string{"Left", "Right"}
	sched.AddSystems(start, left, right, end)

	result := sched.Build()
	require.NoError(t, result.Err)
	idx := batchIndexOf(result.Batches)

	assert.Less(t, idx["Start"], idx["Left"])
	assert.Less(t, idx["Start"], idx["Right"])
	assert.Less(t, idx["Left"], idx["End"])
	assert.Less(t, idx["Right"], idx["End"])
}

func TestSchedulerHundredSystemChainAndFanout(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	sched := ecs.NewScheduler(storage, ecs.NewWorkerPool(8))
	noop := ecs.SystemFunc(func(ecs.ViewRecord, *ecs.Commands) {})
	access := map[ecs.ComponentTypeName]ecs.AccessMode{"Position": ecs.ReadOnly}

	descriptors := make([]*ecs.SystemDescriptor, 100)
	for i := range descriptors {
		descriptors[i] = descriptor(fmt.Sprintf("Sys_%d", i), access, noop)
		switch {
		case i == 0:
		case i%2 == 1:
			descriptors[i].After = []string{"Sys_0"}
		default:
			descriptors[i].After = []string{fmt.Sprintf("Sys_%d", i-2)}
		}
	}
	sched.AddSystems(descriptors...)

	result := sched.Build()
	require.NoError(t, result.Err)
	idx := batchIndexOf(result.Batches)
	require.Len(t, idx, 100, "every system is placed")

	for i := 2; i < 100; i += 2 {
		assert.Less(t, idx[fmt.Sprintf("Sys_%d", i-2)], idx[fmt.Sprintf("Sys_%d", i)], "even chain ascends")
	}
	for i := 1; i < 100; i += 2 {
		assert.Greater(t, idx[fmt.Sprintf("Sys_%d", i)], idx["Sys_0"], "odd systems run after Sys_0")
	}
}
