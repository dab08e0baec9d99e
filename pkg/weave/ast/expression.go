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
	"github.com/weavelang/weave/pkg/weave/value"
)

// Expr is implemented by every expression AST node variant (spec.md §3,
// "Expression AST (variants)").
type Expr interface {
	// children returns this node's direct children in source order, for the
	// tree walker (spec.md §4.3).
	children() []Expr
	exprNode()
}

// Children returns e's direct children in left-to-right source order.
func Children(e Expr) []Expr {
	return e.children()
}

// ChildrenReverse returns e's direct children in right-to-left order.
func ChildrenReverse(e Expr) []Expr {
	kids := e.children()
	out := make([]Expr, len(kids))

	for i, k := range kids {
		out[len(kids)-1-i] = k
	}

	return out
}

// ============================================================================
// Literal
// ============================================================================

// Literal is a compile-time constant value embedded directly in the source
// (spec.md §3).
type Literal struct {
	Value value.Value
}

func (l *Literal) exprNode()        {}
func (l *Literal) children() []Expr { return nil }

// ============================================================================
// Identifier
// ============================================================================

// Identifier references a name visible in the enclosing scope: an argument,
// constant, import, formula, or module alias (spec.md §3, §4.4).
type Identifier struct {
	Name string
}

func (i *Identifier) exprNode()        {}
func (i *Identifier) children() []Expr { return nil }

// ============================================================================
// Access
// ============================================================================

// Access is member access `value.member` (spec.md §3, §4.8).
type Access struct {
	Value  Expr
	Member string
}

func (a *Access) exprNode()        {}
func (a *Access) children() []Expr { return []Expr{a.Value} }

// ============================================================================
// Invoke
// ============================================================================

// Invoke is a function call `callee(args...)` (spec.md §3, §4.8).
type Invoke struct {
	Callee Expr
	Args   []Expr
}

func (n *Invoke) exprNode() {}
func (n *Invoke) children() []Expr {
	kids := make([]Expr, 0, len(n.Args)+1)
	kids = append(kids, n.Callee)
	kids = append(kids, n.Args...)

	return kids
}

// ============================================================================
// BinaryOp
// ============================================================================

// BinaryOp is a binary operator application (spec.md §3, §4.2, §4.8).
type BinaryOp struct {
	Kind value.BinaryKind
	Lhs  Expr
	Rhs  Expr
}

func (b *BinaryOp) exprNode()        {}
func (b *BinaryOp) children() []Expr { return []Expr{b.Lhs, b.Rhs} }

// ============================================================================
// UnaryOp
// ============================================================================

// UnaryOp is a unary operator application (spec.md §3, §4.2, §4.8).
type UnaryOp struct {
	Kind    value.UnaryKind
	Operand Expr
	// TailPosition is true when this UnaryAwait sits at the top level of a
	// formula body, the only place `await` is semantically meaningful
	// (spec.md §9 open question). Set by the parser, consulted by the
	// planner (spec.md §4.6) and the runtime evaluator.
	TailPosition bool
}

func (u *UnaryOp) exprNode()        {}
func (u *UnaryOp) children() []Expr { return []Expr{u.Operand} }

// ============================================================================
// Block
// ============================================================================

// Block evaluates each expression in order and returns the last (spec.md
// §3, §4.8).
type Block struct {
	Exprs []Expr
}

func (b *Block) exprNode()        {}
func (b *Block) children() []Expr { return b.Exprs }

// ============================================================================
// Macro
// ============================================================================

// MacroKind is the closed set of macro names (spec.md §3).
type MacroKind uint8

// The closed set of macro kinds.
const (
	MacroIf MacroKind = iota
	MacroList
	MacroObject
	MacroWhere
)

// String renders the macro kind's source-level name.
func (k MacroKind) String() string {
	switch k {
	case MacroIf:
		return "IF"
	case MacroList:
		return "LIST"
	case MacroObject:
		return "OBJECT"
	case MacroWhere:
		return "WHERE"
	default:
		return "UNKNOWN"
	}
}

// Arg is one macro argument: either positional (Name == "") or named.
type Arg struct {
	Name  string
	Value Expr
}

// Macro is a lazily-evaluated macro invocation: IF, LIST, OBJECT, or WHERE
// (spec.md §3, §4.8). Laziness (only the taken branch of IF/WHERE is
// evaluated) is implemented by the runtime evaluator, not here; the AST just records
// the argument list.
type Macro struct {
	Kind MacroKind
	Args []Arg
}

func (m *Macro) exprNode() {}
func (m *Macro) children() []Expr {
	kids := make([]Expr, len(m.Args))
	for i, a := range m.Args {
		kids[i] = a.Value
	}

	return kids
}
