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
	"github.com/weavelang/weave/pkg/weave/ast"
	"github.com/weavelang/weave/pkg/weave/value"
)

// SlotKind classifies what a Slot resolves to (spec.md §4.4).
type SlotKind uint8

// The closed set of slot kinds.
const (
	SlotArgument SlotKind = iota
	SlotConstant
	SlotModule
	SlotImport
	SlotFormula
)

// Slot is the registry's unit of name resolution: a declaration reachable
// from some scope. Exactly one of the typed fields is non-nil, matching
// Kind (spec.md §4.4: "resolve(name) returns the slot").
type Slot struct {
	Kind SlotKind
	Name string

	Argument *ast.Argument
	Constant *ast.Constant
	Module   *ast.Module
	Import   *ast.Import
	Formula  *ast.Formula
}

// ModuleScope is one module's local scope: imports and formulas share a
// single name space (spec.md §3: "names collide across the two collections
// would be a compile error"), plus the module's exports-object identity.
type ModuleScope struct {
	Module  *ast.Module
	local   map[string]*Slot
	Exports *Slot
}

func (s *ModuleScope) resolve(cmp value.Comparer, name string) (*Slot, bool) {
	slot, ok := s.local[cmp.Fold(name)]
	return slot, ok
}

// Registry is the program-wide symbol registry (spec.md §4.4): three
// unique-name top-level scopes plus one ModuleScope per module.
type Registry struct {
	cmp value.Comparer

	arguments map[string]*Slot
	constants map[string]*Slot
	modules   map[string]*Slot

	moduleScopes map[*ast.Module]*ModuleScope
}

// Comparer returns the name comparer the registry was built with.
func (r *Registry) Comparer() value.Comparer { return r.cmp }

// ResolveTop resolves a name against the program-level argument, constant,
// and module scopes, in that order.
func (r *Registry) ResolveTop(name string) (*Slot, bool) {
	key := r.cmp.Fold(name)

	if s, ok := r.arguments[key]; ok {
		return s, true
	}

	if s, ok := r.constants[key]; ok {
		return s, true
	}

	if s, ok := r.modules[key]; ok {
		return s, true
	}

	return nil, false
}

// ModuleScope returns the local scope owned by the given module.
func (r *Registry) ModuleScope(m *ast.Module) *ModuleScope {
	return r.moduleScopes[m]
}

// Resolve resolves a name visible from inside the given module: first the
// module's own local scope (imports + formulas), then the program-level
// scopes (spec.md §4.4, §3: arguments/constants/modules are visible
// program-wide by name; a module only reaches them through an explicit
// import, enforced by the dependency table's edge construction rather than
// by hiding them here — §4.5 only adds edges for imported names).
func (r *Registry) Resolve(m *ast.Module, name string) (*Slot, bool) {
	scope := r.moduleScopes[m]
	if scope != nil {
		if s, ok := scope.resolve(r.cmp, name); ok {
			return s, true
		}
	}

	return r.ResolveTop(name)
}

// TryResolve is an alias for Resolve that makes call sites read as the
// "does this exist" query spec.md §4.4 names `try_resolve`.
func (r *Registry) TryResolve(m *ast.Module, name string) (*Slot, bool) {
	return r.Resolve(m, name)
}

// BuildRegistry constructs the program's symbol registry, rejecting
// duplicate names within any scope (spec.md §4.4). This is independent of
// the parser's own duplicate checks, since a Program assembled directly by
// a host (spec.md §1's out-of-scope builder façade) bypasses parsing.
func BuildRegistry(program *ast.Program, cmp value.Comparer) (*Registry, *Error) {
	reg := &Registry{
		cmp:          cmp,
		arguments:    map[string]*Slot{},
		constants:    map[string]*Slot{},
		modules:      map[string]*Slot{},
		moduleScopes: map[*ast.Module]*ModuleScope{},
	}

	for _, a := range program.Arguments {
		if err := insertUnique(reg.arguments, cmp, a.Ident, &Slot{Kind: SlotArgument, Name: a.Ident, Argument: a}); err != nil {
			return nil, err
		}
	}

	for _, c := range program.Constants {
		if err := insertUnique(reg.constants, cmp, c.Ident, &Slot{Kind: SlotConstant, Name: c.Ident, Constant: c}); err != nil {
			return nil, err
		}
	}

	for _, m := range program.Modules {
		if err := insertUnique(reg.modules, cmp, m.Ident, &Slot{Kind: SlotModule, Name: m.Ident, Module: m}); err != nil {
			return nil, err
		}
	}

	for _, m := range program.Modules {
		scope, err := buildModuleScope(m, cmp)
		if err != nil {
			return nil, err
		}

		reg.moduleScopes[m] = scope
	}

	return reg, nil
}

func buildModuleScope(m *ast.Module, cmp value.Comparer) (*ModuleScope, *Error) {
	scope := &ModuleScope{
		Module: m,
		local:  map[string]*Slot{},
		Exports: &Slot{
			Kind:   SlotModule,
			Name:   m.Ident,
			Module: m,
		},
	}

	for _, imp := range m.Imports {
		slot := &Slot{Kind: SlotImport, Name: imp.Ident, Import: imp}
		if err := insertUnique(scope.local, cmp, imp.Ident, slot); err != nil {
			return nil, err
		}
	}

	for _, f := range m.Formulas {
		slot := &Slot{Kind: SlotFormula, Name: f.Ident, Formula: f}
		if err := insertUnique(scope.local, cmp, f.Ident, slot); err != nil {
			return nil, err
		}
	}

	return scope, nil
}

func insertUnique(scope map[string]*Slot, cmp value.Comparer, name string, slot *Slot) *Error {
	key := cmp.Fold(name)
	if _, exists := scope[key]; exists {
		return duplicateNameErrorf(nil, -1, "duplicate name %q in scope", name)
	}

	scope[key] = slot

	return nil
}
