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

	"github.com/weavelang/weave/pkg/weave/ast"
	"github.com/weavelang/weave/pkg/weave/value"
)

func TestBuildRegistryResolvesAcrossScopes(t *testing.T) {
	prog := parse(t, `
argument x
constant K = 1
module A {
    export total = K
}
module B {
    import module A
    export r = x
}
`)

	reg, err := BuildRegistry(prog, value.DefaultComparer())
	require.Nil(t, err)

	slot, ok := reg.ResolveTop("x")
	require.True(t, ok)
	assert.Equal(t, SlotArgument, slot.Kind)

	slot, ok = reg.ResolveTop("K")
	require.True(t, ok)
	assert.Equal(t, SlotConstant, slot.Kind)

	b := prog.Modules[1]
	slot, ok = reg.Resolve(b, "x")
	require.True(t, ok, "module-local scope falls back to the program-level scope")
	assert.Equal(t, SlotArgument, slot.Kind)

	slot, ok = reg.Resolve(b, "A")
	require.True(t, ok)
	assert.Equal(t, SlotImport, slot.Kind)
}

func TestBuildRegistryIsCaseFoldedByDefault(t *testing.T) {
	prog := parse(t, `
argument X
module M {
    export r = x
}
`)

	reg, err := BuildRegistry(prog, value.DefaultComparer())
	require.Nil(t, err)

	_, ok := reg.ResolveTop("x")
	assert.True(t, ok, "default comparer folds case")
}

// TestBuildRegistryRejectsDuplicateImportAndFormulaNames exercises
// BuildRegistry directly on a hand-assembled Program (spec.md §1's
// out-of-scope builder façade), since the parser already rejects this
// shape before BuildRegistry ever sees it.
func TestBuildRegistryRejectsDuplicateImportAndFormulaNames(t *testing.T) {
	arg := &ast.Argument{Ident: "shared"}
	mod := &ast.Module{
		Ident:   "M",
		Imports: []*ast.Import{{Ident: "shared", Path: []string{"shared"}, Kind: ast.ImportArgument}},
		Formulas: []*ast.Formula{
			{Ident: "shared", Body: &ast.Literal{Value: value.NewNumberFromInt64(1)}},
		},
	}

	prog := &ast.Program{Arguments: []*ast.Argument{arg}, Modules: []*ast.Module{mod}}

	_, err := BuildRegistry(prog, value.DefaultComparer())
	require.NotNil(t, err)
	assert.Equal(t, ErrDuplicateName, err.ErrKind)
}
