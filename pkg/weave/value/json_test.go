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

	json "github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, v Value) Value {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	out, err := UnmarshalValue(data)
	require.NoError(t, err)

	return out
}

func TestJSONRoundTripNumberPreservesExactDecimal(t *testing.T) {
	n, ok := ParseNumber("1/3")
	require.True(t, ok)

	out := roundTrip(t, n)
	assert.Equal(t, n.Decimal(), out.(Number).Decimal())
}

func TestJSONRoundTripStringAndBoolean(t *testing.T) {
	assert.Equal(t, "hi", roundTrip(t, NewString("hi")).(String_).Text())
	assert.Equal(t, Boolean(true), roundTrip(t, Boolean(true)))
}

func TestJSONRoundTripObjectPreservesOrder(t *testing.T) {
	obj := NewObject(DefaultComparer())
	obj.Set("b", NewNumberFromInt64(2))
	obj.Set("a", NewNumberFromInt64(1))

	out := roundTrip(t, obj).(*Object)
	assert.Equal(t, []string{"b", "a"}, out.Keys())
}

func TestJSONRoundTripList(t *testing.T) {
	list := NewList(NewNumberFromInt64(1), NewString("x"))

	out := roundTrip(t, list).(*List)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, "1", out.Items()[0].(Number).Decimal())
}

func TestJSONRoundTripError(t *testing.T) {
	e := Errorf(ErrMathDomain, "division by zero")

	out := roundTrip(t, e).(Error)
	assert.Equal(t, e, out)
}

func TestJSONMarshalFunctionAndPendingFail(t *testing.T) {
	_, err := json.Marshal(Function{Name: "f", Call: func(args []Value) Value { return nil }})
	assert.Error(t, err)

	_, err = json.Marshal(NewPending(nil))
	assert.Error(t, err)
}
