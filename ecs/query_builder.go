package ecs

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// FilterFunc rejects (returns false for) a view record a With/AnyOf clause
// would otherwise admit.
type FilterFunc func(ViewRecord) bool

// QueryBuilder is an immediate-mode query over a Storage, evaluated once on
// Execute. It is not cached and does not observe later mutations; callers
// who need a reactive view go through Storage.MultiView directly.
type QueryBuilder struct {
	storage    *Storage
	with       []ComponentTypeName
	without    []ComponentTypeName
	anyOf      []ComponentTypeName
	filters    []FilterFunc
	filterExpr []*vm.Program
}

// NewQueryBuilder returns a builder over storage with no clauses set.
func NewQueryBuilder(storage *Storage) *QueryBuilder {
	return &QueryBuilder{storage: storage}
}

// With requires every name to be present (the AND anchor).
func (q *QueryBuilder) With(names ...ComponentTypeName) *QueryBuilder {
	q.with = append(q.with, names...)
	return q
}

// Without requires none of the names to be present.
func (q *QueryBuilder) Without(names ...ComponentTypeName) *QueryBuilder {
	q.without = append(q.without, names...)
	return q
}

// AnyOf requires at least one of the names to be present (the OR anchor).
func (q *QueryBuilder) AnyOf(names ...ComponentTypeName) *QueryBuilder {
	q.anyOf = append(q.anyOf, names...)
	return q
}

// Filter adds a user predicate over the candidate record; any filter
// returning false rejects the candidate.
func (q *QueryBuilder) Filter(fn FilterFunc) *QueryBuilder {
	q.filters = append(q.filters, fn)
	return q
}

// FilterExpr compiles src as a boolean expr-lang expression evaluated
// against the candidate record's components (keyed by name, as in
// ViewRecord.Components) and adds it as a rejection clause alongside any
// Filter(func) already attached; the two compose.
func (q *QueryBuilder) FilterExpr(src string) *QueryBuilder {
	program, err := expr.Compile(src, expr.AllowUndefinedVariables())
	if err != nil {
		panic("ecs: invalid FilterExpr: " + err.Error())
	}
	q.filterExpr = append(q.filterExpr, program)
	return q
}

func (q *QueryBuilder) passesRejections(rec ViewRecord) bool {
	// Without and AnyOf must consult the store, not the record: a record
	// only carries its own anchor's fields, never the other clauses' names.
	for _, n := range q.without {
		if q.storage.HasComponent(rec.Entity, n) {
			return false
		}
	}
	if len(q.anyOf) > 0 {
		any := false
		for _, n := range q.anyOf {
			if q.storage.HasComponent(rec.Entity, n) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	for _, fn := range q.filters {
		if !fn(rec) {
			return false
		}
	}
	for _, program := range q.filterExpr {
		env := make(map[string]any, len(rec.Components))
		for name, comp := range rec.Components {
			env[string(name)] = comp
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		if !ok {
			return false
		}
	}
	return true
}

// Execute runs the builder's clauses through a three-branch dispatch
// (with/anyOf/neither) and returns the matching records.
func (q *QueryBuilder) Execute() []ViewRecord {
	switch {
	case len(q.with) > 0:
		return q.executeWith()
	case len(q.anyOf) > 0:
		return q.executeAnyOf()
	default:
		return nil
	}
}

func (q *QueryBuilder) executeWith() []ViewRecord {
	cache := q.storage.MultiView(q.with)
	out := make([]ViewRecord, 0, cache.Len())
	for _, rec := range cache.Results() {
		if q.passesRejections(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func (q *QueryBuilder) executeAnyOf() []ViewRecord {
	seen := make(map[EntityId]bool)
	var out []ViewRecord

	for _, name := range q.anyOf {
		for id := range q.storage.View(name) {
			if seen[id] {
				continue
			}
			seen[id] = true

			comps := make(map[ComponentTypeName]any, len(q.anyOf))
			for _, n := range q.anyOf {
				comps[n] = q.storage.GetComponent(id, n)
			}
			rec := ViewRecord{Entity: id, Components: comps}

			if q.passesRejections(rec) {
				out = append(out, rec)
			}
		}
	}
	return out
}
