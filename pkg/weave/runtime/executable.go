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
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/weavelang/weave/pkg/weave/ast"
	"github.com/weavelang/weave/pkg/weave/compiler"
	"github.com/weavelang/weave/pkg/weave/value"
)

// Executable is a compiled program ready to be invoked (spec.md §4.7,
// §6: "Executable.call(arguments) -> Result"). It is immutable and safe
// to call concurrently; each call gets its own frame.
type Executable struct {
	compiled *compiler.Compiled
	cmp      value.Comparer
}

// New wraps a compiler.Compiled bundle as a callable Executable.
func New(compiled *compiler.Compiled, cmp value.Comparer) *Executable {
	return &Executable{compiled: compiled, cmp: cmp}
}

// Call runs one evaluation of the program (spec.md §4.7's four steps,
// §5's concurrency model). A zero timeout means no deadline.
func (e *Executable) Call(ctx context.Context, args []value.Value, timeout time.Duration) (result *Result) {
	traceID := uuid.New().String()
	f := newFrame(e.compiled, args, e.cmp)

	result = newResult(traceID)

	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan struct{})

	go func() {
		defer close(done)
		e.runGroups(ctx, f, traceID, result)
	}()

	select {
	case <-done:
		return result
	case <-ctx.Done():
		// Best-effort detach: in-flight async steps keep running in their
		// goroutines but we stop waiting on them (spec.md §5).
		log.WithField("trace", traceID).Warn("call aborted: timeout")

		return &Result{
			Modules: map[string]map[string]value.Value{},
			Errors:  map[string]value.Error{"": value.NewError(value.ErrTimeout, "call timed out")},
			TraceID: traceID,
		}
	}
}

func (e *Executable) runGroups(ctx context.Context, f *frame, traceID string, result *Result) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("trace", traceID).Errorf("runtime panic recovered: %v", r)
		}
	}()

	for groupIdx, group := range e.compiled.Plan.Groups {
		var syncSteps, asyncSteps []*compiler.Step

		for _, step := range group {
			if step.Kind == compiler.Async {
				asyncSteps = append(asyncSteps, step)
			} else {
				syncSteps = append(syncSteps, step)
			}
		}

		log.WithField("trace", traceID).Infof(
			"group %d: %d sync step(s), %d async step(s)", groupIdx, len(syncSteps), len(asyncSteps))

		var wg sync.WaitGroup

		wg.Add(len(asyncSteps))

		for _, step := range asyncSteps {
			go func(step *compiler.Step) {
				defer wg.Done()
				e.runStep(f, step, traceID, result)
			}(step)
		}

		for _, step := range syncSteps {
			e.runStep(f, step, traceID, result)
		}

		wg.Wait()

		if ctx.Err() != nil {
			return
		}
	}
}

// runStep applies the step execution protocol uniformly to Sync and
// Async steps (spec.md §4.7).
func (e *Executable) runStep(f *frame, step *compiler.Step, traceID string, result *Result) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("trace", traceID).Errorf("%s: runtime panic recovered: %v", step.Name(), r)
			result.recordError(step.Name(), value.Errorf(value.ErrInternal, "runtime panic: %v", r))
		}
	}()

	if f.dependenciesSkippable(step.Dependencies) {
		return
	}

	ctx := evalCtx{module: step.Module, frame: f, cmp: e.cmp}

	var v value.Value
	if step.Formula != nil {
		v = evalExpr(ctx, step.Formula.Body)
	} else {
		v = evalImport(ctx, step.Import)
	}

	f.stepValues[step.ID] = v

	if errVal, isErr := value.IsError(v); isErr {
		log.WithField("trace", traceID).Warnf("%s: %s", step.Name(), errVal.String())
		result.recordError(step.Name(), errVal)

		return
	}

	f.skip[step.ID] = false

	if step.Formula != nil && step.Formula.IsExported {
		f.setExport(step.Module, step.Formula.Ident, v)
		result.recordExport(step.Module.Ident, step.Formula.Ident, v)
	}
}

func evalImport(ctx evalCtx, imp *ast.Import) value.Value {
	reg := ctx.frame.compiled.Registry

	switch imp.Kind {
	case ast.ImportArgument:
		slot, ok := reg.ResolveTop(imp.Path[0])
		if !ok || slot.Kind != compiler.SlotArgument {
			return value.Errorf(value.ErrUnresolvedIdentifier, "unresolved argument %q", imp.Path[0])
		}

		return ctx.frame.argValues[slot.Argument]
	case ast.ImportConstant:
		slot, ok := reg.ResolveTop(imp.Path[0])
		if !ok || slot.Kind != compiler.SlotConstant {
			return value.Errorf(value.ErrUnresolvedIdentifier, "unresolved constant %q", imp.Path[0])
		}

		v := ctx.frame.constValues[slot.Constant]
		if p, ok := v.(value.Pending); ok {
			return p.Await()
		}

		return v
	case ast.ImportFormula:
		target, ok := ctx.frame.compiled.Deps.ResolveFormulaImport(imp, reg)
		if !ok {
			return value.Errorf(value.ErrUnresolvedIdentifier, "unresolved formula %s.%s", imp.Path[0], imp.Path[1])
		}

		id, ok := ctx.frame.compiled.StepIndex[target]
		if !ok {
			return value.Errorf(value.ErrInternal, "formula %s.%s has no assigned step", imp.Path[0], imp.Path[1])
		}

		return ctx.frame.stepValues[id]
	case ast.ImportModule:
		target, ok := ctx.frame.compiled.Deps.ResolveModuleImport(imp, reg)
		if !ok {
			return value.Errorf(value.ErrUnresolvedIdentifier, "unresolved module %q", imp.Path[0])
		}

		return ctx.frame.exports[target]
	default:
		return value.Errorf(value.ErrInternal, "unknown import kind")
	}
}
