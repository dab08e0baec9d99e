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

// Walker performs a depth-first traversal of an expression tree, invoking
// registered callbacks on entry to, and exit from, each node (spec.md §4.3:
// "enter node, then enter/exit each child left-to-right recursively, then
// exit node"). Callbacks are optional; a nil callback is simply skipped.
type Walker struct {
	OnEnterIdentifier func(*Identifier)
	OnExitIdentifier  func(*Identifier)
	OnEnterAccess     func(*Access)
	OnExitAccess      func(*Access)
	OnEnterInvoke     func(*Invoke)
	OnExitInvoke      func(*Invoke)
	OnEnterBinaryOp   func(*BinaryOp)
	OnExitBinaryOp    func(*BinaryOp)
	OnEnterUnaryOp    func(*UnaryOp)
	OnExitUnaryOp     func(*UnaryOp)
	OnEnterBlock      func(*Block)
	OnExitBlock       func(*Block)
	OnEnterMacro      func(*Macro)
	OnExitMacro       func(*Macro)
	OnEnterLiteral    func(*Literal)
	OnExitLiteral     func(*Literal)
}

// Walk traverses e and all its descendants, firing this walker's callbacks.
func (w *Walker) Walk(e Expr) {
	switch n := e.(type) {
	case *Identifier:
		fire(w.OnEnterIdentifier, n)
		fire(w.OnExitIdentifier, n)
	case *Literal:
		fire(w.OnEnterLiteral, n)
		fire(w.OnExitLiteral, n)
	case *Access:
		fire(w.OnEnterAccess, n)
		w.walkChildren(n)
		fire(w.OnExitAccess, n)
	case *Invoke:
		fire(w.OnEnterInvoke, n)
		w.walkChildren(n)
		fire(w.OnExitInvoke, n)
	case *BinaryOp:
		fire(w.OnEnterBinaryOp, n)
		w.walkChildren(n)
		fire(w.OnExitBinaryOp, n)
	case *UnaryOp:
		fire(w.OnEnterUnaryOp, n)
		w.walkChildren(n)
		fire(w.OnExitUnaryOp, n)
	case *Block:
		fire(w.OnEnterBlock, n)
		w.walkChildren(n)
		fire(w.OnExitBlock, n)
	case *Macro:
		fire(w.OnEnterMacro, n)
		w.walkChildren(n)
		fire(w.OnExitMacro, n)
	}
}

func (w *Walker) walkChildren(e Expr) {
	for _, child := range Children(e) {
		w.Walk(child)
	}
}

func fire[T any](cb func(T), n T) {
	if cb != nil {
		cb(n)
	}
}

// CollectIdentifiers returns every Identifier node reachable from e, in
// source order. The dependency table (spec.md §4.5) uses this to discover
// which declarations a formula or import body references.
func CollectIdentifiers(e Expr) []*Identifier {
	var out []*Identifier

	var walk func(Expr)
	walk = func(e Expr) {
		if id, ok := e.(*Identifier); ok {
			out = append(out, id)
			return
		}

		for _, c := range Children(e) {
			walk(c)
		}
	}

	walk(e)

	return out
}
