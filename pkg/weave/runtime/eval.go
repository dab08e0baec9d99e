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
package runtime

import (
	"github.com/weavelang/weave/pkg/weave/ast"
	"github.com/weavelang/weave/pkg/weave/compiler"
	"github.com/weavelang/weave/pkg/weave/value"
)

// evalCtx carries the fixed context an expression evaluation needs: which
// module it runs in (for identifier resolution) and the call's frame.
type evalCtx struct {
	module *ast.Module
	frame  *frame
	cmp    value.Comparer
}

func evalExpr(ctx evalCtx, e ast.Expr) value.Value {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Value
	case *ast.Identifier:
		return evalIdentifier(ctx, n)
	case *ast.Access:
		return evalAccess(ctx, n)
	case *ast.Invoke:
		return evalInvoke(ctx, n)
	case *ast.BinaryOp:
		lhs := evalExpr(ctx, n.Lhs)
		rhs := evalExpr(ctx, n.Rhs)

		return value.ApplyBinary(n.Kind, lhs, rhs, ctx.cmp)
	case *ast.UnaryOp:
		return evalUnary(ctx, n)
	case *ast.Block:
		return evalBlock(ctx, n)
	case *ast.Macro:
		return evalMacro(ctx, n)
	default:
		return value.Errorf(value.ErrInternal, "unknown expression node")
	}
}

// evalIdentifier resolves a name against the registry and reads the
// matching runtime slot (spec.md §4.8: "Identifier: reads the resolved
// slot; if unresolved at compile time, evaluates to
// Error{UnresolvedIdentifier, name}").
func evalIdentifier(ctx evalCtx, n *ast.Identifier) value.Value {
	reg := ctx.frame.compiled.Registry

	slot, ok := reg.Resolve(ctx.module, n.Name)
	if !ok {
		return value.Errorf(value.ErrUnresolvedIdentifier, "unresolved identifier %q", n.Name)
	}

	switch slot.Kind {
	case compiler.SlotArgument:
		return ctx.frame.argValues[slot.Argument]
	case compiler.SlotConstant:
		return ctx.frame.constValues[slot.Constant]
	case compiler.SlotModule:
		return ctx.frame.exports[slot.Module]
	case compiler.SlotImport:
		return readImportSlot(ctx, slot.Import)
	case compiler.SlotFormula:
		id, ok := ctx.frame.compiled.StepIndex[slot.Formula]
		if !ok {
			return value.Errorf(value.ErrInternal, "formula %q has no assigned step", n.Name)
		}

		return ctx.frame.stepValues[id]
	default:
		return value.Errorf(value.ErrInternal, "unknown slot kind for %q", n.Name)
	}
}

// readImportSlot returns the already-evaluated value for an import. A
// Module-kind import's "value" is the target module's live exports
// object, read by reference rather than through the step slot, since an
// import-of-module step's own evaluation produces no independent value.
func readImportSlot(ctx evalCtx, imp *ast.Import) value.Value {
	if imp.Kind == ast.ImportModule {
		target, ok := ctx.frame.compiled.Deps.ResolveModuleImport(imp, ctx.frame.compiled.Registry)
		if !ok {
			return value.Errorf(value.ErrUnresolvedIdentifier, "unresolved module %q", imp.Path[0])
		}

		return ctx.frame.exports[target]
	}

	id, ok := ctx.frame.compiled.StepIndex[imp]
	if !ok {
		return value.Errorf(value.ErrInternal, "import %q has no assigned step", imp.Ident)
	}

	return ctx.frame.stepValues[id]
}

// evalAccess implements member access (spec.md §4.8): only an Object
// supports it; any other variant, Error included, is AccessUnsupported.
func evalAccess(ctx evalCtx, n *ast.Access) value.Value {
	v := evalExpr(ctx, n.Value)

	obj, ok := v.(*value.Object)
	if !ok {
		return value.Errorf(value.ErrAccessUnsupported, "cannot access member %q of %s", n.Member, v.Kind())
	}

	val, found := obj.Get(n.Member)
	if !found {
		return value.Errorf(value.ErrAccessFailed, "no member %q", n.Member)
	}

	return val
}

// evalInvoke implements a function call (spec.md §4.8). Arguments are
// evaluated left-to-right; the first Error among them short-circuits and
// becomes the Invoke's result without the callee ever being called.
func evalInvoke(ctx evalCtx, n *ast.Invoke) value.Value {
	callee := evalExpr(ctx, n.Callee)

	args := make([]value.Value, len(n.Args))

	for i, a := range n.Args {
		av := evalExpr(ctx, a)
		if e, ok := value.IsError(av); ok {
			return e
		}

		args[i] = av
	}

	fn, ok := callee.(value.Function)
	if !ok {
		return value.Errorf(value.ErrInvokeUnsupported, "cannot invoke %s", callee.Kind())
	}

	return fn.Call(args)
}

// evalUnary implements the three unary operators (spec.md §4.8, §9). A
// tail-position `await` is the only place `await` actually resolves a
// Pending value; anywhere else it is identity.
func evalUnary(ctx evalCtx, n *ast.UnaryOp) value.Value {
	operand := evalExpr(ctx, n.Operand)

	if n.Kind == value.UnaryAwait && n.TailPosition {
		if p, ok := operand.(value.Pending); ok {
			return p.Await()
		}

		return operand
	}

	return value.ApplyUnary(n.Kind, operand)
}

func evalBlock(ctx evalCtx, n *ast.Block) value.Value {
	if len(n.Exprs) == 0 {
		return value.Errorf(value.ErrInternal, "empty block")
	}

	var last value.Value

	for _, e := range n.Exprs {
		last = evalExpr(ctx, e)
	}

	return last
}

// evalMacro implements the four macro forms with their laziness rules
// (spec.md §4.8). Every macro is also an argument list, so the general
// short-circuit rule applies: the first Error encountered in evaluation
// order becomes the macro's overall result.
func evalMacro(ctx evalCtx, n *ast.Macro) value.Value {
	switch n.Kind {
	case ast.MacroIf:
		return evalMacroIf(ctx, n)
	case ast.MacroList:
		return evalMacroList(ctx, n)
	case ast.MacroObject:
		return evalMacroObject(ctx, n)
	case ast.MacroWhere:
		return evalMacroWhere(ctx, n)
	default:
		return value.Errorf(value.ErrInternal, "unknown macro kind")
	}
}

func evalMacroIf(ctx evalCtx, n *ast.Macro) value.Value {
	cond := evalExpr(ctx, n.Args[0].Value)
	if e, ok := value.IsError(cond); ok {
		return e
	}

	b, ok := value.CastBoolean(cond)
	if !ok {
		return value.Errorf(value.ErrCoercionFailed, "cannot coerce %s to Boolean", cond.Kind())
	}

	if b {
		return evalExpr(ctx, n.Args[1].Value)
	}

	return evalExpr(ctx, n.Args[2].Value)
}

func evalMacroList(ctx evalCtx, n *ast.Macro) value.Value {
	items := make([]value.Value, len(n.Args))

	for i, a := range n.Args {
		v := evalExpr(ctx, a.Value)
		if e, ok := value.IsError(v); ok {
			return e
		}

		items[i] = v
	}

	return value.NewList(items...)
}

func evalMacroObject(ctx evalCtx, n *ast.Macro) value.Value {
	obj := value.NewObject(ctx.cmp)

	for _, a := range n.Args {
		v := evalExpr(ctx, a.Value)
		if e, ok := value.IsError(v); ok {
			return e
		}

		if _, exists := obj.Get(a.Name); exists {
			return value.Errorf(value.ErrDuplicateKey, "duplicate key %q", a.Name)
		}

		obj.Set(a.Name, v)
	}

	return obj
}

// evalMacroWhere evaluates WHERE(result = expr, cond1, branch1, ...,
// default). The leading "result" argument is a label on the macro's
// purpose, not a value the macro consumes, so it is never evaluated.
func evalMacroWhere(ctx evalCtx, n *ast.Macro) value.Value {
	rest := n.Args[1:]
	def := rest[len(rest)-1]
	pairs := rest[:len(rest)-1]

	for i := 0; i+1 < len(pairs); i += 2 {
		cond := evalExpr(ctx, pairs[i].Value)
		if e, ok := value.IsError(cond); ok {
			return e
		}

		b, ok := value.CastBoolean(cond)
		if !ok {
			return value.Errorf(value.ErrCoercionFailed, "cannot coerce %s to Boolean", cond.Kind())
		}

		if b {
			return evalExpr(ctx, pairs[i+1].Value)
		}
	}

	return evalExpr(ctx, def.Value)
}
