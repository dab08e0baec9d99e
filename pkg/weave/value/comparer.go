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
package value

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Comparer determines how symbol names and Object keys are compared. The
// language spec mandates case-insensitive comparison throughout (spec.md
// §4.4, §4.8) but leaves the exact notion of "case-insensitive" open for a
// locale-sensitive host to override (spec.md §9). Parameterizing this
// interface, rather than hard-coding strings.EqualFold, is how that open
// question is resolved (see DESIGN.md).
type Comparer interface {
	// Equal determines whether two names are considered the same identifier.
	Equal(a, b string) bool
	// Fold normalises a name to its canonical comparison form, e.g. for use
	// as a map key.
	Fold(name string) string
}

// foldComparer is the default Comparer: Unicode case-folding under the
// invariant (root) locale, via golang.org/x/text/cases rather than a
// hand-rolled strings.EqualFold loop, so that a caller can substitute a
// genuinely locale-sensitive cases.Caser (e.g. Turkish dotless-i handling)
// without touching any call site.
type foldComparer struct {
	caser cases.Caser
}

// DefaultComparer returns the ordinal, locale-invariant case-fold comparer
// used unless a program is compiled WithComparer(...).
func DefaultComparer() Comparer {
	return foldComparer{cases.Fold(cases.Compact)}
}

// NewLocaleComparer constructs a Comparer using locale-sensitive lower-casing
// (e.g. Turkish dotless-i handling) for a specific language tag, for hosts
// that need more than ordinal case-folding for key matching. Fold() itself is
// deliberately locale-independent (it exists for caseless matching, not
// display), so locale sensitivity is layered on via Lower(tag) instead.
func NewLocaleComparer(tag language.Tag) Comparer {
	return foldComparer{cases.Lower(tag)}
}

func (c foldComparer) Equal(a, b string) bool {
	return c.caser.String(a) == c.caser.String(b)
}

func (c foldComparer) Fold(name string) string {
	return c.caser.String(name)
}
