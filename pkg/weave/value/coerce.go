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

import "strings"

// CastNumber coerces a value to Number, per the coercion table in spec.md
// §4.8: Number is identity, String is parsed in invariant-locale syntax,
// Boolean is 0/1, anything else fails.
func CastNumber(v Value) (Number, bool) {
	switch t := v.(type) {
	case Number:
		return t, true
	case String_:
		return ParseNumber(strings.TrimSpace(string(t)))
	case Boolean:
		if t {
			return NewNumberFromInt64(1), true
		}

		return NewNumberFromInt64(0), true
	default:
		return Number{}, false
	}
}

// CastString coerces a value to String, per spec.md §4.8: Number renders as
// invariant-locale decimal text, Boolean as "true"/"false", String is
// identity, anything else fails.
func CastString(v Value) (String_, bool) {
	switch t := v.(type) {
	case String_:
		return t, true
	case Number:
		return String_(t.Decimal()), true
	case Boolean:
		return String_(t.String()), true
	default:
		return "", false
	}
}

// CastBoolean coerces a value to Boolean, per spec.md §4.8: Boolean is
// identity, Number is false iff exactly zero, String is a case-insensitive
// "true"/"false", anything else fails.
func CastBoolean(v Value) (Boolean, bool) {
	switch t := v.(type) {
	case Boolean:
		return t, true
	case Number:
		return Boolean(!t.IsZero()), true
	case String_:
		switch strings.ToLower(string(t)) {
		case "true":
			return true, true
		case "false":
			return false, true
		default:
			return false, false
		}
	default:
		return false, false
	}
}
