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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavelang/weave/pkg/weave/value"
)

func TestBuildDepTableAddsFormulaChainEdges(t *testing.T) {
	prog := parse(t, `
module M {
    export a = 1
    export b = a + 1
    export c = b + a
}
`)

	reg, err := BuildRegistry(prog, value.DefaultComparer())
	require.Nil(t, err)

	deps, derr := BuildDepTable(prog, reg)
	require.Nil(t, derr)

	a, b, c := prog.Modules[0].Formulas[0], prog.Modules[0].Formulas[1], prog.Modules[0].Formulas[2]

	aID, _ := deps.idOf(a)
	bID, _ := deps.idOf(b)
	cID, _ := deps.idOf(c)

	assert.Equal(t, []int{aID}, deps.Dependencies(bID))
	assert.ElementsMatch(t, []int{bID, aID}, deps.Dependencies(cID))
	assert.ElementsMatch(t, []int{bID, cID}, deps.Dependents(aID))
}

func TestBuildDepTableWiresModuleImportToExportedFormulasOnly(t *testing.T) {
	prog := parse(t, `
module A {
    export visible = 1
    hidden = 2
}
module B {
    import module A
    export r = visible
}
`)

	reg, err := BuildRegistry(prog, value.DefaultComparer())
	require.Nil(t, err)

	deps, derr := BuildDepTable(prog, reg)
	require.Nil(t, derr)

	importDecl := prog.Modules[1].Imports[0]
	visible := prog.Modules[0].Formulas[0]
	hidden := prog.Modules[0].Formulas[1]

	impID, _ := deps.idOf(importDecl)
	visibleID, _ := deps.idOf(visible)
	hiddenID, _ := deps.idOf(hidden)

	assert.Contains(t, deps.Dependencies(impID), visibleID)
	assert.NotContains(t, deps.Dependencies(impID), hiddenID)
}

func TestBuildDepTableDetectsCycle(t *testing.T) {
	prog := parse(t, `
module M {
    export a = b
    export b = a
}
`)

	reg, err := BuildRegistry(prog, value.DefaultComparer())
	require.Nil(t, err)

	_, derr := BuildDepTable(prog, reg)
	require.NotNil(t, derr)
	assert.Equal(t, ErrCycle, derr.ErrKind)
	assert.Len(t, derr.Cycle, 2)
}

func TestBuildDepTableFormulaImportResolvesExportedTarget(t *testing.T) {
	prog := parse(t, `
module A {
    export total = 1
}
module B {
    import total from A
    export r = total
}
`)

	reg, err := BuildRegistry(prog, value.DefaultComparer())
	require.Nil(t, err)

	deps, derr := BuildDepTable(prog, reg)
	require.Nil(t, derr)

	imp := prog.Modules[1].Imports[0]
	target, ok := deps.ResolveFormulaImport(imp, reg)
	require.True(t, ok)
	assert.Equal(t, prog.Modules[0].Formulas[0], target)
}

func TestBuildDepTableUnexportedFormulaImportDanglesWithoutError(t *testing.T) {
	prog := parse(t, `
module A {
    total = 1
}
module B {
    import total from A
    export r = total
}
`)

	reg, err := BuildRegistry(prog, value.DefaultComparer())
	require.Nil(t, err)

	deps, derr := BuildDepTable(prog, reg)
	require.Nil(t, derr, "a dangling unexported import is not a compile error")

	imp := prog.Modules[1].Imports[0]
	_, found := deps.ResolveFormulaImport(imp, reg)
	assert.False(t, found, "an unexported formula is never a valid import target")
}
