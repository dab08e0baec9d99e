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
// Package ast defines the immutable node variants produced by the parser
// (spec.md §3, §4.3) and a small visitor framework for walking them. Node
// variants are plain structs implementing marker interfaces (Decl, Expr) so
// that dispatch is an ordinary Go type switch, following the teacher's
// per-variant-struct style (pkg/corset/ast).
package ast

import "github.com/weavelang/weave/pkg/weave/value"

// Decl is implemented by every top-level and module-level declaration.
type Decl interface {
	declNode()
	// Name returns the local name under which this declaration is visible.
	Name() string
}

// ============================================================================
// Program
// ============================================================================

// Program is the root of the AST: a named collection of arguments,
// constants, and modules (spec.md §3).
type Program struct {
	Arguments []*Argument
	Constants []*Constant
	Modules   []*Module
}

// ============================================================================
// Argument
// ============================================================================

// Argument is an externally supplied slot, bound at call time (spec.md §3).
type Argument struct {
	Ident string
}

func (a *Argument) declNode()     {}
func (a *Argument) Name() string { return a.Ident }

// ============================================================================
// Constant
// ============================================================================

// Constant is a statically bound value (spec.md §3). Parsed constants are
// bound to a literal; a host assembling a Program directly (spec.md §1's
// out-of-scope program-builder façade) may bind any Value, including a
// Pending, to model scenarios like spec.md §8's async-barrier example.
type Constant struct {
	Ident string
	Value value.Value
}

func (c *Constant) declNode()     {}
func (c *Constant) Name() string { return c.Ident }

// ============================================================================
// Module
// ============================================================================

// Module is a named collection of imports and formulas, owning its own
// lexical scope (spec.md §3).
type Module struct {
	Ident    string
	Imports  []*Import
	Formulas []*Formula
}

func (m *Module) declNode()     {}
func (m *Module) Name() string { return m.Ident }

// ============================================================================
// Import
// ============================================================================

// ImportKind classifies what an Import's path refers to (spec.md §3).
type ImportKind uint8

// The closed set of import kinds.
const (
	ImportArgument ImportKind = iota
	ImportConstant
	ImportFormula
	ImportModule
)

// String renders the import kind's name, used in diagnostics.
func (k ImportKind) String() string {
	switch k {
	case ImportArgument:
		return "Argument"
	case ImportConstant:
		return "Constant"
	case ImportFormula:
		return "Formula"
	case ImportModule:
		return "Module"
	default:
		return "Unknown"
	}
}

// Import is a typed name binding: {local_name, path, kind} (spec.md §3). Path
// has length 1 for Argument/Constant/Module imports and length 2
// (module-name, formula-name) for Formula imports.
type Import struct {
	Ident string
	Path  []string
	Kind  ImportKind
}

func (i *Import) declNode()     {}
func (i *Import) Name() string { return i.Ident }

// ============================================================================
// Formula
// ============================================================================

// Formula is {name, body, is_exported} (spec.md §3); body is an expression
// AST evaluated once per call.
type Formula struct {
	Ident      string
	Body       Expr
	IsExported bool
}

func (f *Formula) declNode()     {}
func (f *Formula) Name() string { return f.Ident }
