package ecs

import (
	"sort"

	"github.com/tessera-engine/tessera/ecs/internal/elog"
)

// batchPlan is the dependency builder's output: an ordered list of batches,
// each an unordered set of descriptor names that may run concurrently.
type batchPlan struct {
	Batches [][]string
	Err     error
}

// buildSchedule runs a modified Kahn topological sort with conflict-aware
// batch admission. descriptors is keyed by name; every name referenced by
// a Before/After edge must be present, or it is ignored as a dangling edge
// (the descriptor it points to was never registered).
func buildSchedule(descriptors map[string]*SystemDescriptor) batchPlan {
	if len(descriptors) == 1 {
		for name := range descriptors {
			return batchPlan{Batches: [][]string{{name}}}
		}
	}

	// successors[u] = names that must run after u; inDegree[v] = number of
	// names that must run before v. before/after are normalised into the
	// single adjacency "u must complete before v".
	successors := make(map[string][]string, len(descriptors))
	inDegree := make(map[string]int, len(descriptors))
	for name := range descriptors {
		inDegree[name] = 0
	}
	addEdge := func(u, v string) {
		if _, ok := descriptors[u]; !ok {
			return
		}
		if _, ok := descriptors[v]; !ok {
			return
		}
		successors[u] = append(successors[u], v)
		inDegree[v]++
	}
	// Stable insertion order for edges/tie-breaks: iterate names sorted so
	// the plan is deterministic across runs given the same descriptor set.
	names := make([]string, 0, len(descriptors))
	for name := range descriptors {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		d := descriptors[name]
		for _, before := range d.Before {
			addEdge(name, before)
		}
		for _, after := range d.After {
			addEdge(after, name)
		}
	}

	sortByGroup := func(queue []string) {
		sort.SliceStable(queue, func(i, j int) bool {
			return descriptors[queue[i]].Group < descriptors[queue[j]].Group
		})
	}

	var ready []string
	for _, name := range names {
		if inDegree[name] == 0 {
			ready = append(ready, name)
		}
	}
	sortByGroup(ready)

	placed := make(map[string]bool, len(descriptors))
	var batches [][]string
	log := elog.WithComponent("dependency_builder")

	for len(placed) < len(descriptors) {
		if len(ready) == 0 {
			log.Warn().Int("placed", len(placed)).Int("total", len(descriptors)).Msg("dependency graph has a cycle")
			return batchPlan{Batches: batches, Err: ErrCycle}
		}

		var batch []string
		var rejected []string
		reads := make(map[ComponentTypeName]bool)
		writes := make(map[ComponentTypeName]bool)

		for _, candidate := range ready {
			d := descriptors[candidate]
			if conflicts(d, reads, writes) {
				rejected = append(rejected, candidate)
				continue
			}
			batch = append(batch, candidate)
			for name, mode := range d.Access {
				if mode == ReadWrite {
					writes[name] = true
				} else {
					reads[name] = true
				}
			}
		}

		if len(batch) == 0 {
			log.Warn().Int("pending", len(ready)).Msg("scheduler deadlock: unsolvable same-batch conflict")
			return batchPlan{Batches: batches, Err: ErrDeadlock}
		}

		batches = append(batches, batch)
		for _, name := range batch {
			placed[name] = true
		}

		var unlocked []string
		for _, name := range batch {
			for _, succ := range successors[name] {
				inDegree[succ]--
				if inDegree[succ] == 0 {
					unlocked = append(unlocked, succ)
				}
			}
		}
		sortByGroup(unlocked)

		ready = append(rejected, unlocked...)
	}

	return batchPlan{Batches: batches}
}

// conflicts reports whether d would conflict with the reads/writes already
// admitted into the current batch: a candidate is rejected if it would
// write a component already read or written, or read a component already
// written.
func conflicts(d *SystemDescriptor, reads, writes map[ComponentTypeName]bool) bool {
	for name, mode := range d.Access {
		if mode == ReadWrite {
			if reads[name] || writes[name] {
				return true
			}
		} else {
			if writes[name] {
				return true
			}
		}
	}
	return false
}
