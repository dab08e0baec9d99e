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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberDecimalTrimsTrailingZeros(t *testing.T) {
	n, ok := ParseNumber("1/4")
	require.True(t, ok)
	assert.Equal(t, "0.25", n.Decimal())

	i, ok := ParseNumber("7")
	require.True(t, ok)
	assert.Equal(t, "7", i.Decimal())
}

func TestCastNumberFromStringAndBoolean(t *testing.T) {
	n, ok := CastNumber(NewString(" 42 "))
	require.True(t, ok)
	assert.Equal(t, "42", n.Decimal())

	n, ok = CastNumber(Boolean(true))
	require.True(t, ok)
	assert.Equal(t, "1", n.Decimal())

	_, ok = CastNumber(NewObject(DefaultComparer()))
	assert.False(t, ok)
}

func TestCastBooleanCaseInsensitive(t *testing.T) {
	b, ok := CastBoolean(NewString("TRUE"))
	require.True(t, ok)
	assert.True(t, bool(b))

	_, ok = CastBoolean(NewString("nope"))
	assert.False(t, ok)
}

func TestApplyBinaryArithmetic(t *testing.T) {
	cmp := DefaultComparer()

	lhs := NewNumberFromInt64(3)
	rhs := NewNumberFromInt64(4)

	result := ApplyBinary(BinAdd, lhs, rhs, cmp)
	assert.Equal(t, "7", result.(Number).Decimal())
}

func TestApplyBinaryDivisionByZeroIsMathDomainError(t *testing.T) {
	cmp := DefaultComparer()

	result := ApplyBinary(BinDiv, NewNumberFromInt64(1), NewNumberFromInt64(0), cmp)

	e, ok := IsError(result)
	require.True(t, ok)
	assert.Equal(t, ErrMathDomain, e.ErrKind)
}

func TestApplyBinaryPropagatesErrorOperandUnchanged(t *testing.T) {
	cmp := DefaultComparer()

	original := Errorf(ErrInternal, "boom")
	result := ApplyBinary(BinAdd, original, NewNumberFromInt64(1), cmp)

	e, ok := IsError(result)
	require.True(t, ok)
	assert.Equal(t, original, e)
}

func TestEqualityCrossVariant(t *testing.T) {
	cmp := DefaultComparer()

	assert.True(t, Equal(NewNumberFromInt64(10), NewString("10"), cmp))
	assert.False(t, Equal(NewNumberFromInt64(10), Boolean(true), cmp))
	assert.True(t, Equal(Boolean(false), Boolean(false), cmp))
}

func TestObjectCaseInsensitiveLookup(t *testing.T) {
	obj := NewObject(DefaultComparer())
	obj.Set("Name", NewString("ada"))

	v, ok := obj.Get("name")
	require.True(t, ok)
	assert.Equal(t, "ada", v.(String_).Text())

	obj.Set("NAME", NewString("override"))
	assert.Equal(t, 1, obj.Len(), "overwriting an existing key must not grow the object")
}

func TestApplyUnaryAwaitIsIdentityOutsidePlanner(t *testing.T) {
	result := ApplyUnary(UnaryAwait, NewNumberFromInt64(5))
	assert.Equal(t, "5", result.(Number).Decimal())
}
