// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package compiler

import (
	"sort"

	"github.com/weavelang/weave/pkg/weave/ast"
)

// vertexKind distinguishes the two declaration shapes that participate in
// the dependency graph (spec.md §4.5: "vertices are declarations (formulas
// + imports; arguments and constants are leaves outside the graph)").
type vertexKind uint8

const (
	vertexFormula vertexKind = iota
	vertexImport
)

type vertex struct {
	kind    vertexKind
	module  *ast.Module
	formula *ast.Formula
	importD *ast.Import
}

func (v vertex) qualifiedName() string {
	switch v.kind {
	case vertexFormula:
		return v.module.Ident + "." + v.formula.Ident
	default:
		return v.module.Ident + "." + v.importD.Ident
	}
}

// DepTable is the directed graph over formula and import declarations
// (spec.md §4.5). Edge i -> j means "i depends on j": j must be evaluated,
// or at least resolved, before i can run.
type DepTable struct {
	vertices []vertex
	index    map[any]int // *ast.Formula or *ast.Import -> vertex id

	deps      [][]int // deps[i]: vertex ids that i depends on
	dependents [][]int // dependents[i]: vertex ids that depend on i
}

// VertexCount returns the number of declaration vertices (step count, in
// the planner's terms).
func (t *DepTable) VertexCount() int { return len(t.vertices) }

// Dependencies returns the vertex ids that vertex i depends on.
func (t *DepTable) Dependencies(i int) []int { return t.deps[i] }

// Dependents returns the vertex ids that depend on vertex i.
func (t *DepTable) Dependents(i int) []int { return t.dependents[i] }

// Module returns the module that owns vertex i.
func (t *DepTable) Module(i int) *ast.Module { return t.vertices[i].module }

// Formula returns the formula at vertex i, or nil if i is an import vertex.
func (t *DepTable) Formula(i int) *ast.Formula { return t.vertices[i].formula }

// Import returns the import at vertex i, or nil if i is a formula vertex.
func (t *DepTable) Import(i int) *ast.Import { return t.vertices[i].importD }

// Name returns the "Module.Decl" qualified name of vertex i, used in
// diagnostics.
func (t *DepTable) Name(i int) string { return t.vertices[i].qualifiedName() }

// idOf returns the vertex id of a formula or import declaration.
func (t *DepTable) idOf(decl any) (int, bool) {
	id, ok := t.index[decl]
	return id, ok
}

// BuildDepTable constructs the dependency graph per spec.md §4.5's tree
// walk and runs cycle detection. It does not compute layering; call
// MinimalPartialOrder for that.
func BuildDepTable(program *ast.Program, reg *Registry) (*DepTable, *Error) {
	t := &DepTable{index: map[any]int{}}

	for _, m := range program.Modules {
		for _, f := range m.Formulas {
			t.addVertex(vertex{kind: vertexFormula, module: m, formula: f})
		}

		for _, imp := range m.Imports {
			t.addVertex(vertex{kind: vertexImport, module: m, importD: imp})
		}
	}

	t.deps = make([][]int, len(t.vertices))
	t.dependents = make([][]int, len(t.vertices))

	for _, m := range program.Modules {
		for _, f := range m.Formulas {
			t.addFormulaEdges(m, f, reg)
		}

		for _, imp := range m.Imports {
			t.addImportEdges(m, imp, reg)
		}
	}

	if err := t.detectCycle(); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *DepTable) addVertex(v vertex) {
	id := len(t.vertices)
	t.vertices = append(t.vertices, v)

	if v.kind == vertexFormula {
		t.index[v.formula] = id
	} else {
		t.index[v.importD] = id
	}
}

func (t *DepTable) addEdge(from, to int) {
	if from == to {
		return
	}

	for _, existing := range t.deps[from] {
		if existing == to {
			return
		}
	}

	t.deps[from] = append(t.deps[from], to)
	t.dependents[to] = append(t.dependents[to], from)
}

// addFormulaEdges walks a formula's body and, for every identifier that
// resolves to a local formula or import of the same module, adds an edge
// from the formula to that declaration (spec.md §4.5). Identifiers
// resolving to an argument, constant, or module alias are resolved but
// contribute no edge, since those targets are not graph vertices.
func (t *DepTable) addFormulaEdges(m *ast.Module, f *ast.Formula, reg *Registry) {
	fromID, ok := t.idOf(f)
	if !ok {
		return
	}

	for _, id := range ast.CollectIdentifiers(f.Body) {
		slot, ok := reg.Resolve(m, id.Name)
		if !ok {
			continue
		}

		switch slot.Kind {
		case SlotFormula:
			if toID, ok := t.idOf(slot.Formula); ok {
				t.addEdge(fromID, toID)
			}
		case SlotImport:
			if toID, ok := t.idOf(slot.Import); ok {
				t.addEdge(fromID, toID)
			}
		}
	}
}

// addImportEdges wires an import vertex to the declaration(s) it brings
// into scope (spec.md §4.5):
//   - Formula import {M, F}: an edge to M's formula F, if F exists and is
//     exported (the only way a formula is externally visible).
//   - Module import {M}: an edge to every exported formula of M.
//   - Argument/Constant imports have no outgoing edges; their targets are
//     leaves outside the graph.
//
// A missing target is left dangling rather than failing compilation; it
// surfaces as a runtime UnresolvedIdentifier when the import is accessed.
func (t *DepTable) addImportEdges(m *ast.Module, imp *ast.Import, reg *Registry) {
	fromID, ok := t.idOf(imp)
	if !ok {
		return
	}

	switch imp.Kind {
	case ast.ImportFormula:
		target, ok := t.lookupExportedFormula(imp.Path[0], imp.Path[1], reg)
		if !ok {
			return
		}

		if toID, ok := t.idOf(target); ok {
			t.addEdge(fromID, toID)
		}
	case ast.ImportModule:
		targetModule, ok := t.lookupModule(imp.Path[0], reg)
		if !ok {
			return
		}

		for _, f := range targetModule.Formulas {
			if !f.IsExported {
				continue
			}

			if toID, ok := t.idOf(f); ok {
				t.addEdge(fromID, toID)
			}
		}
	case ast.ImportArgument, ast.ImportConstant:
		// Leaves: no outgoing edges.
	}
}

// ResolveFormulaImport resolves a Formula-kind import to its target
// declaration, applying the same "must be exported" rule used during edge
// construction. Used by the runtime driver to read the right step slot.
func (t *DepTable) ResolveFormulaImport(imp *ast.Import, reg *Registry) (*ast.Formula, bool) {
	return t.lookupExportedFormula(imp.Path[0], imp.Path[1], reg)
}

// ResolveModuleImport resolves a Module-kind import to its target module.
func (t *DepTable) ResolveModuleImport(imp *ast.Import, reg *Registry) (*ast.Module, bool) {
	return t.lookupModule(imp.Path[0], reg)
}

func (t *DepTable) lookupModule(name string, reg *Registry) (*ast.Module, bool) {
	slot, ok := reg.ResolveTop(name)
	if !ok || slot.Kind != SlotModule {
		return nil, false
	}

	return slot.Module, true
}

func (t *DepTable) lookupExportedFormula(moduleName, formulaName string, reg *Registry) (*ast.Formula, bool) {
	mod, ok := t.lookupModule(moduleName, reg)
	if !ok {
		return nil, false
	}

	scope := reg.ModuleScope(mod)
	if scope == nil {
		return nil, false
	}

	slot, ok := scope.resolve(reg.Comparer(), formulaName)
	if !ok || slot.Kind != SlotFormula || !slot.Formula.IsExported {
		return nil, false
	}

	return slot.Formula, true
}

// detectCycle runs Kahn's algorithm: it is both a cycle check and, on
// success, the first pass of the layering used by MinimalPartialOrder
// (spec.md §4.5: "run cycle detection (Tarjan or Kahn)").
func (t *DepTable) detectCycle() *Error {
	_, err := t.layer()
	return err
}

// MinimalPartialOrder returns the fewest-layers decomposition of the graph
// such that every edge runs from an earlier layer to a later one (spec.md
// §4.5): repeatedly peel the set of vertices with no unresolved
// dependencies.
func (t *DepTable) MinimalPartialOrder() ([][]int, *Error) {
	return t.layer()
}

func (t *DepTable) layer() ([][]int, *Error) {
	n := len(t.vertices)
	remainingDeps := make([]int, n)

	for i := range t.vertices {
		remainingDeps[i] = len(t.deps[i])
	}

	assigned := make([]bool, n)
	assignedCount := 0

	var layers [][]int

	frontier := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if remainingDeps[i] == 0 {
			frontier = append(frontier, i)
		}
	}

	for len(frontier) > 0 {
		sort.Ints(frontier)

		for _, v := range frontier {
			assigned[v] = true
		}

		assignedCount += len(frontier)
		layers = append(layers, frontier)

		var next []int

		seen := map[int]bool{}

		for _, v := range frontier {
			for _, dep := range t.dependents[v] {
				if assigned[dep] || seen[dep] {
					continue
				}

				remainingDeps[dep]--
				if remainingDeps[dep] == 0 {
					next = append(next, dep)
					seen[dep] = true
				}
			}
		}

		frontier = next
	}

	if assignedCount < n {
		var members []string

		for i := 0; i < n; i++ {
			if !assigned[i] {
				members = append(members, t.vertices[i].qualifiedName())
			}
		}

		return nil, cycleError(members)
	}

	return layers, nil
}
