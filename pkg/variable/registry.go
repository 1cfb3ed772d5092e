package variable

import (
	"log"
	"sort"

	"github.com/samber/lo"
)

// Registry stores custom variables keyed by name, in insertion order.
// It is not safe for concurrent use; callers serialize access.
type Registry struct {
	variables []CustomVariable
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add inserts v, or replaces the existing variable with the same name
// wholesale. Replacement keeps the original position.
func (r *Registry) Add(v CustomVariable) {
	_, idx, found := lo.FindIndexOf(r.variables, func(existing CustomVariable) bool {
		return existing.Name == v.Name
	})
	if found {
		r.variables[idx] = v
		log.Printf("[variable] %s updated", v.Name)
		return
	}
	r.variables = append(r.variables, v)
	log.Printf("[variable] %s added", v.Name)
}

// Remove deletes every variable named name. Removing an unknown name is a
// no-op.
func (r *Registry) Remove(name string) {
	r.variables = lo.Filter(r.variables, func(v CustomVariable, _ int) bool {
		return v.Name != name
	})
	log.Printf("[variable] %s removed", name)
}

// Get returns the variable named name.
func (r *Registry) Get(name string) (CustomVariable, bool) {
	return lo.Find(r.variables, func(v CustomVariable) bool {
		return v.Name == name
	})
}

// Variables returns a copy of the stored variables in insertion order.
func (r *Registry) Variables() []CustomVariable {
	return append([]CustomVariable(nil), r.variables...)
}

// Len returns the number of stored variables.
func (r *Registry) Len() int {
	return len(r.variables)
}

// Map projects the registry to name -> value for expression evaluation.
func (r *Registry) Map() map[string]string {
	return lo.Associate(r.variables, func(v CustomVariable) (string, string) {
		return v.Name, v.Value
	})
}

// Conflict is an edge driven by more than one variable.
type Conflict struct {
	Edge      Edge
	Variables []string // in registry order
}

// Conflicts treats variables and edges as the two sides of a bipartite graph
// and reports every edge with more than one incident variable, sorted by
// edge. It only reports; resolving a conflict is the caller's decision.
func (r *Registry) Conflicts() []Conflict {
	type incidence struct {
		edge     Edge
		variable string
	}
	var pairs []incidence
	for _, v := range r.variables {
		for _, b := range v.Bindings {
			pairs = append(pairs, incidence{edge: b.Edge(), variable: v.Name})
		}
	}

	byEdge := lo.GroupBy(pairs, func(p incidence) Edge { return p.edge })

	var conflicts []Conflict
	for edge, ps := range byEdge {
		names := lo.Uniq(lo.Map(ps, func(p incidence, _ int) string { return p.variable }))
		if len(names) > 1 {
			conflicts = append(conflicts, Conflict{Edge: edge, Variables: names})
		}
	}
	sort.Slice(conflicts, func(i, j int) bool {
		a, b := conflicts[i].Edge, conflicts[j].Edge
		if a.MeshName != b.MeshName {
			return a.MeshName < b.MeshName
		}
		return a.Axis < b.Axis
	})
	return conflicts
}
