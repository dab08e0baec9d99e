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

import "github.com/weavelang/weave/pkg/weave/value"

type options struct {
	comparer value.Comparer
}

// Option configures a single Compile call.
type Option func(*options)

// WithComparer overrides the name comparer used for symbol resolution and
// Object key lookup (spec.md §9's locale open question). The default is
// value.DefaultComparer(), an ordinal case-fold.
func WithComparer(cmp value.Comparer) Option {
	return func(o *options) {
		o.comparer = cmp
	}
}

func newOptions(opts []Option) options {
	o := options{comparer: value.DefaultComparer()}

	for _, apply := range opts {
		apply(&o)
	}

	return o
}
