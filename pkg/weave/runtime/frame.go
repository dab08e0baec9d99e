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
// Package runtime executes a compiler.Compiled program (spec.md §4.7,
// §5): it seeds argument/constant/export slots, runs the plan group by
// group honoring the skip list, and assembles the result bundle.
package runtime

import (
	"sync"

	"github.com/weavelang/weave/pkg/weave/ast"
	"github.com/weavelang/weave/pkg/weave/compiler"
	"github.com/weavelang/weave/pkg/weave/value"
)

// frame holds all per-call mutable state (spec.md §3, "Lifecycles": "each
// execution is independent: no cross-call state").
type frame struct {
	compiled *compiler.Compiled

	argValues   map[*ast.Argument]value.Value
	constValues map[*ast.Constant]value.Value
	exports     map[*ast.Module]*value.Object

	// exportsMu guards Set calls against the *value.Object values in
	// exports: a group can run two or more Async steps that export into the
	// same module concurrently (spec.md §5), and value.Object.Set is not
	// safe for concurrent use on its own.
	exportsMu sync.Mutex

	// stepValues[i] holds the result of step i once evaluated: a formula's
	// expression value, or an import's resolved pass-through value.
	stepValues []value.Value

	// skip is the skip list (spec.md §3, §4.7): all true initially, flipped
	// to false by a step's own post-action on success.
	skip []bool
}

// setExport records a formula's exported value into its module's Object
// under exportsMu (see the field doc above).
func (f *frame) setExport(m *ast.Module, key string, v value.Value) {
	f.exportsMu.Lock()
	defer f.exportsMu.Unlock()

	f.exports[m].Set(key, v)
}

func newFrame(c *compiler.Compiled, args []value.Value, cmp value.Comparer) *frame {
	f := &frame{
		compiled:    c,
		argValues:   make(map[*ast.Argument]value.Value, len(c.Program.Arguments)),
		constValues: make(map[*ast.Constant]value.Value, len(c.Program.Constants)),
		exports:     make(map[*ast.Module]*value.Object, len(c.Program.Modules)),
		stepValues:  make([]value.Value, len(c.Plan.Steps)),
		skip:        make([]bool, len(c.Plan.Steps)),
	}

	for i := range f.skip {
		f.skip[i] = true
	}

	for i, a := range c.Program.Arguments {
		if i < len(args) {
			f.argValues[a] = args[i]
		} else {
			f.argValues[a] = value.Errorf(value.ErrInternal, "missing argument binding for %q", a.Ident)
		}
	}

	for _, cst := range c.Program.Constants {
		f.constValues[cst] = cst.Value
	}

	for _, m := range c.Program.Modules {
		f.exports[m] = value.NewObject(cmp)
	}

	return f
}

// dependenciesSkippable reports whether any of the given step ids is still
// marked skippable (spec.md §4.7's step execution protocol).
func (f *frame) dependenciesSkippable(deps []int) bool {
	for _, d := range deps {
		if f.skip[d] {
			return true
		}
	}

	return false
}
