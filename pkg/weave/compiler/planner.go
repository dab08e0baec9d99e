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
	"github.com/weavelang/weave/pkg/weave/ast"
	"github.com/weavelang/weave/pkg/weave/value"
)

// StepKind classifies an execution step as synchronous or asynchronous
// (spec.md §4.6).
type StepKind uint8

// The two step kinds.
const (
	Sync StepKind = iota
	Async
)

// String renders the step kind's name, used by the CLI's compile report.
func (k StepKind) String() string {
	if k == Async {
		return "async"
	}

	return "sync"
}

// Step is one unit of planned execution: a single declaration, its step
// id, and the step ids it depends on (spec.md §4.6: "{node, kind, id,
// dependencies: [id], symbol_table}"). dependencies[i] < id always holds.
type Step struct {
	ID           int
	Kind         StepKind
	Dependencies []int

	Module  *ast.Module
	Formula *ast.Formula // nil for an import step
	Import  *ast.Import  // nil for a formula step
}

// Name returns the step's "Module.Decl" qualified name.
func (s *Step) Name() string {
	if s.Formula != nil {
		return s.Module.Ident + "." + s.Formula.Ident
	}

	return s.Module.Ident + "." + s.Import.Ident
}

// Plan is the planner's output: an ordered sequence of execution groups,
// each a set of steps with no intra-group dependencies (spec.md §4.6).
type Plan struct {
	Groups [][]*Step
	Steps  []*Step // flat, indexed by step id
}

// BuildPlan computes the execution plan from a dependency table and
// registry (spec.md §4.6): vertex ids from DepTable.MinimalPartialOrder
// become step ids in the same relative order, renumbered layer by layer so
// that every dependency id is less than its dependent's id.
func BuildPlan(program *ast.Program, deps *DepTable, reg *Registry) (*Plan, *Error) {
	layers, err := deps.MinimalPartialOrder()
	if err != nil {
		return nil, err
	}

	n := deps.VertexCount()
	vertexToStep := make([]int, n)
	steps := make([]*Step, n)

	nextID := 0

	for _, layer := range layers {
		for _, v := range layer {
			vertexToStep[v] = nextID
			nextID++
		}
	}

	var groups [][]*Step

	for _, layer := range layers {
		group := make([]*Step, 0, len(layer))

		for _, v := range layer {
			stepDeps := make([]int, 0, len(deps.Dependencies(v)))
			for _, d := range deps.Dependencies(v) {
				stepDeps = append(stepDeps, vertexToStep[d])
			}

			step := &Step{
				ID:           vertexToStep[v],
				Kind:         classify(deps, v, reg),
				Dependencies: stepDeps,
				Module:       deps.Module(v),
				Formula:      deps.Formula(v),
				Import:       deps.Import(v),
			}

			steps[step.ID] = step
			group = append(group, step)
		}

		groups = append(groups, group)
	}

	return &Plan{Groups: groups, Steps: steps}, nil
}

// classify decides Sync vs Async for a single declaration (spec.md §4.6):
// an import of a Pending constant, or a formula with `await` in tail
// position, is Async; everything else is Sync. This is NOT transitively
// propagated — a formula depending on an Async step stays Sync; it is
// simply placed in a later group by the layering.
func classify(deps *DepTable, v int, reg *Registry) StepKind {
	if f := deps.Formula(v); f != nil {
		if u, ok := f.Body.(*ast.UnaryOp); ok && u.Kind == value.UnaryAwait && u.TailPosition {
			return Async
		}

		return Sync
	}

	imp := deps.Import(v)
	if imp.Kind != ast.ImportConstant {
		return Sync
	}

	slot, ok := reg.ResolveTop(imp.Path[0])
	if !ok || slot.Kind != SlotConstant {
		return Sync
	}

	if _, ok := slot.Constant.Value.(value.Pending); ok {
		return Async
	}

	return Sync
}
