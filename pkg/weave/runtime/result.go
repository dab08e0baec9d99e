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
	"sync"

	json "github.com/segmentio/encoding/json"

	"github.com/weavelang/weave/pkg/weave/value"
)

// Result is the call's output bundle (spec.md §6, §4.14): exported
// formulas that succeeded, per-formula errors, and the call's trace id
// for correlating with log output. A group can hold two or more Async
// steps (spec.md §5), each recording into Result from its own goroutine,
// so mu guards Modules/Errors for the lifetime of the call.
type Result struct {
	mu sync.Mutex

	// Modules maps module name -> formula name -> Value, for every
	// exported formula that evaluated successfully.
	Modules map[string]map[string]value.Value
	// Errors maps "module.formula" -> the Error it evaluated to.
	Errors map[string]value.Error
	// TraceID is the call's correlation id (spec.md §4.14).
	TraceID string
}

func newResult(traceID string) *Result {
	return &Result{
		Modules: map[string]map[string]value.Value{},
		Errors:  map[string]value.Error{},
		TraceID: traceID,
	}
}

func (r *Result) recordExport(moduleName, formulaName string, v value.Value) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.Modules[moduleName]
	if !ok {
		m = map[string]value.Value{}
		r.Modules[moduleName] = m
	}

	m[formulaName] = v
}

func (r *Result) recordError(qualifiedName string, e value.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Errors[qualifiedName] = e
}

type resultWire struct {
	Modules map[string]map[string]value.Value `json:"modules"`
	Errors  map[string]value.Error            `json:"errors"`
	TraceID string                             `json:"traceId"`
}

// MarshalJSON implements json.Marshaler, giving Result a stable wire shape
// independent of the internal value.Value envelope encoding (spec.md
// §4.15).
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultWire{Modules: r.Modules, Errors: r.Errors, TraceID: r.TraceID})
}
