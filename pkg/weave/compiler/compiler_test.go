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
	"github.com/weavelang/weave/pkg/weave/value"
	"golang.org/x/text/language"
)

func TestCompileEndToEndProducesRunnablePlan(t *testing.T) {
	prog := parse(t, `
argument price
argument quantity
constant taxRate = 0.2
module Order {
    import argument price
    import argument quantity
    import constant taxRate
    subtotal = price * quantity
    export total = subtotal + subtotal * taxRate
}
`)

	compiled, err := Compile(prog)
	require.Nil(t, err)

	require.NotEmpty(t, compiled.Plan.Groups)
	assert.Equal(t, compiled.Program, prog)

	subtotal := prog.Modules[0].Formulas[0]
	id, ok := compiled.StepIndex[subtotal]
	require.True(t, ok)
	assert.GreaterOrEqual(t, id, 0)
}

func TestCompileRejectsUnresolvableCycleAsSingleFatalError(t *testing.T) {
	prog := parse(t, `
module M {
    export a = b
    export b = a
}
`)

	_, err := Compile(prog)
	require.NotNil(t, err)
	assert.Equal(t, ErrCycle, err.ErrKind)
}

func TestCompileWithLocaleComparer(t *testing.T) {
	prog := parse(t, `
argument Girth
module M {
    import argument Girth
    export r = GIRTH
}
`)

	_, err := Compile(prog, WithComparer(value.NewLocaleComparer(language.Turkish)))
	assert.Nil(t, err, "compiling with a locale comparer succeeds; formula-body identifiers are not checked at compile time")
}

func TestCompileFromParsedSourceFile(t *testing.T) {
	file := source.NewSourceFile("order.weave", []byte(`
argument qty
module M {
    import argument qty
    export r = qty
}
`))

	prog, _, perr := ParseProgram(file)
	require.Nil(t, perr)

	_, err := Compile(prog)
	assert.Nil(t, err)
}
