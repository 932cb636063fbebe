package domain

import (
	"iter"
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// linkScopes are the scopes whose targets become deps of the library rule.
// Test scopes depend on other modules' libraries only, so they cannot close a cycle.
var linkScopes = []ScopeName{ScopeMain, ScopeProvided, ScopeApt}

// ModuleGraph is the dependency graph between the modules of a project.
type ModuleGraph struct {
	modules map[ModuleID]*Module
	order   []ModuleID
}

// NewModuleGraph creates a graph over the given modules.
// References to modules outside the set are ignored.
func NewModuleGraph(modules []*Module) *ModuleGraph {
	g := &ModuleGraph{modules: make(map[ModuleID]*Module, len(modules))}
	for _, m := range modules {
		g.modules[m.ID()] = m
	}
	return g
}

func (g *ModuleGraph) edges(m *Module) []ModuleID {
	var ids []ModuleID
	for _, name := range linkScopes {
		for _, ref := range m.Scope(name).Targets {
			id := ModuleID(ref.Path + ":" + ref.Name)
			if _, ok := g.modules[id]; ok {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Validate checks for cycles using a depth-first topological sort.
// On success it records a deterministic dependencies-first order.
func (g *ModuleGraph) Validate() error {
	ids := make([]ModuleID, 0, len(g.modules))
	for id := range g.modules {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	g.order = make([]ModuleID, 0, len(ids))
	state := make(map[ModuleID]int) // 0: unvisited, 1: visiting, 2: visited
	var path []ModuleID

	var visit func(u ModuleID) error
	visit = func(u ModuleID) error {
		state[u] = 1
		path = append(path, u)

		for _, dep := range g.edges(g.modules[u]) {
			switch state[dep] {
			case 1:
				return cycleError(path, dep)
			case 0:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		state[u] = 2
		path = path[:len(path)-1]
		g.order = append(g.order, u)
		return nil
	}

	for _, id := range ids {
		if state[id] == 0 {
			if err := visit(id); err != nil {
				g.order = nil
				return err
			}
		}
	}
	return nil
}

func cycleError(path []ModuleID, dep ModuleID) error {
	start := 0
	for i, id := range path {
		if id == dep {
			start = i
			break
		}
	}
	parts := make([]string, 0, len(path)-start+1)
	for _, id := range path[start:] {
		parts = append(parts, string(id))
	}
	parts = append(parts, string(dep))
	return zerr.With(ErrModuleCycle, "cycle", strings.Join(parts, " -> "))
}

// Walk yields modules with every dependency before its dependents.
// It assumes Validate has been called and returned nil.
func (g *ModuleGraph) Walk() iter.Seq[*Module] {
	return func(yield func(*Module) bool) {
		for _, id := range g.order {
			if !yield(g.modules[id]) {
				return
			}
		}
	}
}
