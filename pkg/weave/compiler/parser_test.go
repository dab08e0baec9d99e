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

	"github.com/weavelang/weave/pkg/util/source"
	"github.com/weavelang/weave/pkg/weave/ast"
	"github.com/weavelang/weave/pkg/weave/value"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()

	file := source.NewSourceFile("test.weave", []byte(src))

	prog, _, err := ParseProgram(file)
	require.Nil(t, err, "unexpected parse error: %v", err)

	return prog
}

func parseErr(t *testing.T, src string) *Error {
	t.Helper()

	file := source.NewSourceFile("test.weave", []byte(src))

	_, _, err := ParseProgram(file)
	require.NotNil(t, err, "expected a parse error")

	return err
}

func TestParseProgramTopLevelDecls(t *testing.T) {
	prog := parse(t, `
argument x
constant K = 10
module M {
    import argument x
    export total = x + K
}
`)

	require.Len(t, prog.Arguments, 1)
	assert.Equal(t, "x", prog.Arguments[0].Ident)

	require.Len(t, prog.Constants, 1)
	assert.Equal(t, "K", prog.Constants[0].Ident)
	assert.Equal(t, "10", prog.Constants[0].Value.(value.Number).Decimal())

	require.Len(t, prog.Modules, 1)
	mod := prog.Modules[0]
	assert.Equal(t, "M", mod.Ident)

	require.Len(t, mod.Imports, 1)
	assert.Equal(t, ast.ImportArgument, mod.Imports[0].Kind)
	assert.Equal(t, []string{"x"}, mod.Imports[0].Path)

	require.Len(t, mod.Formulas, 1)
	f := mod.Formulas[0]
	assert.Equal(t, "total", f.Ident)
	assert.True(t, f.IsExported)

	bin, ok := f.Body.(*ast.BinaryOp)
	require.True(t, ok)
	assert.Equal(t, value.BinAdd, bin.Kind)
}

func TestParseImportFormKinds(t *testing.T) {
	prog := parse(t, `
argument x
constant K = 1
module A {
    export total = K
}
module B {
    import argument x as arg
    import constant K as k
    import module A
    import total from A as t
}
`)

	b := prog.Modules[1]
	require.Len(t, b.Imports, 4)

	assert.Equal(t, ast.ImportArgument, b.Imports[0].Kind)
	assert.Equal(t, "arg", b.Imports[0].Ident)

	assert.Equal(t, ast.ImportConstant, b.Imports[1].Kind)
	assert.Equal(t, "k", b.Imports[1].Ident)

	assert.Equal(t, ast.ImportModule, b.Imports[2].Kind)
	assert.Equal(t, "A", b.Imports[2].Ident)

	assert.Equal(t, ast.ImportFormula, b.Imports[3].Kind)
	assert.Equal(t, []string{"A", "total"}, b.Imports[3].Path)
	assert.Equal(t, "t", b.Imports[3].Ident)
}

func TestParseOperatorPrecedenceAndAssociativity(t *testing.T) {
	prog := parse(t, `
module M {
    export r = 1 + 2 * 3
}
`)

	top := prog.Modules[0].Formulas[0].Body.(*ast.BinaryOp)
	assert.Equal(t, value.BinAdd, top.Kind)

	rhs := top.Rhs.(*ast.BinaryOp)
	assert.Equal(t, value.BinMul, rhs.Kind)
}

func TestParsePowIsRightAssociative(t *testing.T) {
	prog := parse(t, `
module M {
    export r = 2 ^ 3 ^ 2
}
`)

	top := prog.Modules[0].Formulas[0].Body.(*ast.BinaryOp)
	require.Equal(t, value.BinPow, top.Kind)

	rhs, ok := top.Rhs.(*ast.BinaryOp)
	require.True(t, ok, "exponentiation must nest on the right")
	assert.Equal(t, value.BinPow, rhs.Kind)
}

func TestParseMacroIf(t *testing.T) {
	prog := parse(t, `
module M {
    export r = IF(true, 1, 2)
}
`)

	m := prog.Modules[0].Formulas[0].Body.(*ast.Macro)
	assert.Equal(t, ast.MacroIf, m.Kind)
	require.Len(t, m.Args, 3)
}

func TestParseMacroObjectRequiresNamedArgs(t *testing.T) {
	prog := parse(t, `
module M {
    export r = OBJECT(a = 1, b = 2)
}
`)

	m := prog.Modules[0].Formulas[0].Body.(*ast.Macro)
	require.Len(t, m.Args, 2)
	assert.Equal(t, "a", m.Args[0].Name)
	assert.Equal(t, "b", m.Args[1].Name)
}

func TestParseMacroObjectRejectsPositionalArg(t *testing.T) {
	err := parseErr(t, `
module M {
    export r = OBJECT(1)
}
`)

	assert.Equal(t, ErrParse, err.ErrKind)
}

func TestParseMacroWhereShape(t *testing.T) {
	prog := parse(t, `
module M {
    export r = WHERE(result = x, x > 0, x, 0)
}
`)

	m := prog.Modules[0].Formulas[0].Body.(*ast.Macro)
	assert.Equal(t, ast.MacroWhere, m.Kind)
	require.Len(t, m.Args, 4)
	assert.Equal(t, "result", m.Args[0].Name)
}

func TestParseMacroWhereRejectsMissingResult(t *testing.T) {
	err := parseErr(t, `
module M {
    export r = WHERE(x > 0, x, 0)
}
`)

	assert.Equal(t, ErrParse, err.ErrKind)
}

func TestParseLowercaseKeywordIsNotAMacro(t *testing.T) {
	// "if" is a reserved word (lex.Keywords), but only the uppercase
	// spelling immediately followed by '(' is a macro head; lowercase
	// "if" used as a bare identifier is rejected since it is reserved.
	err := parseErr(t, `
module M {
    export r = if
}
`)

	assert.Equal(t, ErrParse, err.ErrKind)
}

func TestParseAccessAndInvokePostfix(t *testing.T) {
	prog := parse(t, `
module M {
    export r = f(x).field
}
`)

	access := prog.Modules[0].Formulas[0].Body.(*ast.Access)
	assert.Equal(t, "field", access.Member)

	_, ok := access.Value.(*ast.Invoke)
	assert.True(t, ok)
}

func TestParseDuplicateTopLevelNameIsRejected(t *testing.T) {
	err := parseErr(t, `
argument x
constant x = 1
`)

	assert.Equal(t, ErrDuplicateName, err.ErrKind)
}

func TestParseDuplicateFormulaNameInModuleIsRejected(t *testing.T) {
	err := parseErr(t, `
module M {
    export a = 1
    export a = 2
}
`)

	assert.Equal(t, ErrDuplicateName, err.ErrKind)
}

func TestParseTailAwaitIsMarked(t *testing.T) {
	prog := parse(t, `
constant P = 1
module M {
    import constant P
    export r = await P
}
`)

	u := prog.Modules[0].Formulas[0].Body.(*ast.UnaryOp)
	assert.Equal(t, value.UnaryAwait, u.Kind)
	assert.True(t, u.TailPosition)
}

func TestParseAwaitOutsideTailPositionWarns(t *testing.T) {
	file := source.NewSourceFile("test.weave", []byte(`
constant P = 1
module M {
    import constant P
    export r = (await P) + 1
}
`))

	_, warnings, err := ParseProgram(file)
	require.Nil(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "no-op")
}

func TestParseQuotedIdentifier(t *testing.T) {
	prog := parse(t, "module M {\n    export 'my formula' = 1\n}\n")

	assert.Equal(t, "my formula", prog.Modules[0].Formulas[0].Ident)
}
