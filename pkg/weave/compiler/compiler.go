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

// Compile runs the full compile → schedule pipeline over an already-parsed
// program (spec.md §4.2–§4.7): symbol resolution, dependency graph
// construction and cycle detection, execution planning, and emission.
// Compilation is single-shot and never partial: any *Error rejects the
// whole program.
func Compile(program *ast.Program, opts ...Option) (*Compiled, *Error) {
	o := newOptions(opts)

	reg, err := BuildRegistry(program, o.comparer)
	if err != nil {
		return nil, err
	}

	deps, err := BuildDepTable(program, reg)
	if err != nil {
		return nil, err
	}

	plan, err := BuildPlan(program, deps, reg)
	if err != nil {
		return nil, err
	}

	return Emit(program, reg, deps, plan), nil
}
