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

func buildPlan(t *testing.T, src string) (*ast.Program, *Plan) {
	t.Helper()

	prog := parse(t, src)

	reg, err := BuildRegistry(prog, value.DefaultComparer())
	require.Nil(t, err)

	deps, derr := BuildDepTable(prog, reg)
	require.Nil(t, derr)

	plan, perr := BuildPlan(prog, deps, reg)
	require.Nil(t, perr)

	return prog, plan
}

func TestBuildPlanOrdersDependenciesBeforeDependents(t *testing.T) {
	_, plan := buildPlan(t, `
module M {
    export a = 1
    export b = a + 1
    export c = b + a
}
`)

	require.Len(t, plan.Groups, 3, "a strict chain yields one formula per layer")

	for _, step := range plan.Steps {
		for _, dep := range step.Dependencies {
			assert.Less(t, dep, step.ID, "every dependency id must precede its dependent's id")
		}
	}

	assert.Equal(t, "M.a", plan.Steps[0].Name())
	assert.Equal(t, "M.b", plan.Steps[1].Name())
	assert.Equal(t, "M.c", plan.Steps[2].Name())
}

func TestBuildPlanGroupsIndependentFormulasTogether(t *testing.T) {
	_, plan := buildPlan(t, `
module M {
    export a = 1
    export b = 2
    export c = a + b
}
`)

	require.Len(t, plan.Groups, 2)
	assert.Len(t, plan.Groups[0], 2, "a and b have no dependencies between them")
	assert.Len(t, plan.Groups[1], 1)
}

func TestBuildPlanClassifiesTailAwaitAsAsync(t *testing.T) {
	_, plan := buildPlan(t, `
constant P = 1
module M {
    import constant P
    export r = await P
}
`)

	var formulaStep *Step

	for _, s := range plan.Steps {
		if s.Formula != nil {
			formulaStep = s
		}
	}

	require.NotNil(t, formulaStep)
	assert.Equal(t, Async, formulaStep.Kind)
	assert.Equal(t, "async", formulaStep.Kind.String())
}

func TestBuildPlanNonTailAwaitStaysSync(t *testing.T) {
	_, plan := buildPlan(t, `
constant P = 1
module M {
    import constant P
    export r = (await P) + 1
}
`)

	var formulaStep *Step

	for _, s := range plan.Steps {
		if s.Formula != nil {
			formulaStep = s
		}
	}

	require.NotNil(t, formulaStep)
	assert.Equal(t, Sync, formulaStep.Kind)
}

func TestBuildPlanAsyncClassificationIsNotTransitivelyPropagated(t *testing.T) {
	_, plan := buildPlan(t, `
constant P = 1
module M {
    import constant P
    export pending = await P
    export downstream = pending + 1
}
`)

	var pendingStep, downstreamStep *Step

	for _, s := range plan.Steps {
		if s.Formula == nil {
			continue
		}

		switch s.Formula.Ident {
		case "pending":
			pendingStep = s
		case "downstream":
			downstreamStep = s
		}
	}

	require.NotNil(t, pendingStep)
	require.NotNil(t, downstreamStep)
	assert.Equal(t, Async, pendingStep.Kind)
	assert.Equal(t, Sync, downstreamStep.Kind, "a Sync formula stays Sync even when it depends on an Async step")
}
