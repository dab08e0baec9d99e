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
package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weavelang/weave/pkg/weave/value"
)

func TestCollectIdentifiersFindsAllLeaves(t *testing.T) {
	expr := &BinaryOp{
		Kind: value.BinAdd,
		Lhs:  &Identifier{Name: "x"},
		Rhs: &Invoke{
			Callee: &Identifier{Name: "f"},
			Args:   []Expr{&Identifier{Name: "y"}, &Literal{Value: value.NewNumberFromInt64(1)}},
		},
	}

	ids := CollectIdentifiers(expr)

	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name
	}

	assert.Equal(t, []string{"x", "f", "y"}, names)
}

func TestWalkerVisitsInSourceOrderWithEnterExit(t *testing.T) {
	expr := &Block{Exprs: []Expr{
		&Identifier{Name: "a"},
		&UnaryOp{Kind: value.UnaryNeg, Operand: &Identifier{Name: "b"}},
	}}

	var trace []string

	w := &Walker{
		OnEnterBlock:      func(*Block) { trace = append(trace, "enter-block") },
		OnExitBlock:       func(*Block) { trace = append(trace, "exit-block") },
		OnEnterIdentifier: func(n *Identifier) { trace = append(trace, "enter-id:"+n.Name) },
		OnExitIdentifier:  func(n *Identifier) { trace = append(trace, "exit-id:"+n.Name) },
		OnEnterUnaryOp:    func(*UnaryOp) { trace = append(trace, "enter-unary") },
		OnExitUnaryOp:     func(*UnaryOp) { trace = append(trace, "exit-unary") },
	}

	w.Walk(expr)

	assert.Equal(t, []string{
		"enter-block",
		"enter-id:a", "exit-id:a",
		"enter-unary", "enter-id:b", "exit-id:b", "exit-unary",
		"exit-block",
	}, trace)
}

func TestWalkerNilCallbacksAreSkipped(t *testing.T) {
	assert.NotPanics(t, func() {
		(&Walker{}).Walk(&Identifier{Name: "x"})
	})
}

func TestChildrenReverseOrdersRightToLeft(t *testing.T) {
	macro := &Macro{Kind: MacroList, Args: []Arg{
		{Value: &Literal{Value: value.NewNumberFromInt64(1)}},
		{Value: &Literal{Value: value.NewNumberFromInt64(2)}},
	}}

	rev := ChildrenReverse(macro)
	require := assert.New(t)
	require.Len(rev, 2)
	require.Equal(macro.Args[1].Value, rev[0])
	require.Equal(macro.Args[0].Value, rev[1])
}
