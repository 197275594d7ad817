package ecs

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tessera-engine/tessera/ecs/internal/elog"
)

// BuildResult reports the outcome of a Scheduler.Build call: the batches
// actually produced, an identifier correlating this build with its
// metrics/log lines/debug-UI snapshot, and any non-fatal diagnostic (a
// cycle or a deadlock) without discarding the partial plan.
type BuildResult struct {
	ID      uuid.UUID
	Batches [][]string
	Err     error
}

// Scheduler owns a set of descriptors keyed by name, the dependency
// builder's output, and a worker pool reference.
type Scheduler struct {
	storage     *Storage
	pool        *WorkerPool
	descriptors map[string]*SystemDescriptor
	batches     [][]string
	lastBuild   uuid.UUID
}

// NewScheduler returns a scheduler bound to storage, running batches
// through pool. A nil pool gets an unbounded one.
func NewScheduler(storage *Storage, pool *WorkerPool) *Scheduler {
	if pool == nil {
		pool = NewWorkerPool(0)
	}
	return &Scheduler{
		storage:     storage,
		pool:        pool,
		descriptors: make(map[string]*SystemDescriptor),
	}
}

// AddSystems registers descriptors; each must declare a non-empty access
// table, and names must be unique within the scheduler (both are
// programmer errors and panic).
func (s *Scheduler) AddSystems(descriptors ...*SystemDescriptor) {
	for _, d := range descriptors {
		if len(d.Access) == 0 {
			panic("ecs: system descriptor " + d.Name + " has an empty access table")
		}
		if _, dup := s.descriptors[d.Name]; dup {
			panic("ecs: duplicate system descriptor name " + d.Name)
		}
		s.descriptors[d.Name] = d
	}
}

// Build runs the dependency builder and stores the resulting batch plan.
// Idempotent: later calls recompute from scratch. Panics if no descriptors
// are registered.
func (s *Scheduler) Build() BuildResult {
	if len(s.descriptors) == 0 {
		panic("ecs: scheduler built with no registered descriptors")
	}

	plan := buildSchedule(s.descriptors)
	s.batches = plan.Batches
	s.lastBuild = uuid.New()

	// Materialise every descriptor's cache now, on the calling goroutine.
	// During a batch the cache registry must be read-only; lazily creating
	// a cache from inside a worker would mutate it concurrently.
	for _, d := range s.descriptors {
		s.storage.MultiView(d.accessNames())
	}

	return BuildResult{ID: s.lastBuild, Batches: plan.Batches, Err: plan.Err}
}

// Run executes one tick: each batch in order, fanned across the worker
// pool, joined before the next batch starts; then, as end-of-tick
// finalisation, every descriptor's command buffers are flushed against the
// store on the calling goroutine.
func (s *Scheduler) Run(delta float64) {
	log := elog.WithComponent("scheduler")
	tickStart := time.Now()

	for i, batch := range s.batches {
		names := batch
		workerQueueDepth.Set(float64(len(names)))
		batchStart := time.Now()
		if err := s.pool.GroupTask(len(names), func(task int) {
			s.runDescriptor(s.descriptors[names[task]], delta)
		}); err != nil {
			log.Warn().Err(err).Msg("batch join reported a task failure")
		}
		workerQueueDepth.Set(0)
		batchDuration.WithLabelValues(strconv.Itoa(i)).Observe(time.Since(batchStart).Seconds())
	}

	for _, d := range s.descriptors {
		s.flushDescriptor(d)
	}

	tickDuration.Observe(time.Since(tickStart).Seconds())
}

// runDescriptor executes one descriptor's body against its matched view
// records for this tick. The flush step is deferred: Run performs it
// afterward for every descriptor at once.
func (s *Scheduler) runDescriptor(d *SystemDescriptor, delta float64) {
	cache := s.storage.MultiView(d.accessNames())
	records := cache.Results()
	if len(records) == 0 {
		return
	}

	if d.rootBuffer == nil {
		d.rootBuffer = NewCommands()
	}

	if !d.Parallel {
		for _, rec := range records {
			d.Body.ViewComponents(rec, d.rootBuffer)
		}
		return
	}

	for len(d.subBuffers) < len(records) {
		d.subBuffers = append(d.subBuffers, NewCommands())
	}

	_ = s.pool.GroupTask(len(records), func(i int) {
		d.Body.ViewComponents(records[i], d.subBuffers[i])
	})
}

// flushDescriptor drains a descriptor's sub-buffers first, then its root
// buffer, against the store.
func (s *Scheduler) flushDescriptor(d *SystemDescriptor) {
	for _, buf := range d.subBuffers {
		if !buf.IsEmpty() {
			buf.Flush(s.storage)
		}
	}
	if d.rootBuffer != nil && !d.rootBuffer.IsEmpty() {
		d.rootBuffer.Flush(s.storage)
	}
}

// Clear drops every registered descriptor, the batch plan, and each
// descriptor's command buffers.
func (s *Scheduler) Clear() {
	for _, d := range s.descriptors {
		d.rootBuffer = nil
		d.subBuffers = nil
	}
	s.descriptors = make(map[string]*SystemDescriptor)
	s.batches = nil
}
