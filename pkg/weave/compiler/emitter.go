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

import "github.com/weavelang/weave/pkg/weave/ast"

// Compiled is the emitter's output (spec.md §4.7): everything the runtime
// driver needs to execute a program, with no further AST walking required
// on the hot path.
type Compiled struct {
	Program  *ast.Program
	Registry *Registry
	Deps     *DepTable
	Plan     *Plan

	// StepIndex maps a formula or import declaration to its step id, the
	// index the runtime driver uses for skip-list and slot lookups.
	StepIndex map[any]int
}

// Emit builds the Compiled bundle from an already-planned program. It
// performs no further validation; BuildPlan and BuildDepTable have already
// rejected unresolvable structure (cycles, duplicate names).
func Emit(program *ast.Program, reg *Registry, deps *DepTable, plan *Plan) *Compiled {
	index := make(map[any]int, len(plan.Steps))

	for _, step := range plan.Steps {
		if step.Formula != nil {
			index[step.Formula] = step.ID
		} else {
			index[step.Import] = step.ID
		}
	}

	return &Compiled{Program: program, Registry: reg, Deps: deps, Plan: plan, StepIndex: index}
}
