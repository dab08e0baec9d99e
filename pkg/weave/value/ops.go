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
// ops.go implements the operator tables for binary and unary expressions
// (spec.md §4.8). Each operator is a pure function over value pairs that
// returns either a result Value or an Error value — never a Go error.
package value

import "math/big"

// BinaryKind is the closed set of binary operators, ordered low-to-high by
// the precedence-climb in spec.md §4.2.
type BinaryKind uint8

// The binary operator kinds.
const (
	BinOr BinaryKind = iota
	BinAnd
	BinEqual
	BinNotEqual
	BinLess
	BinLessEqual
	BinGreater
	BinGreaterEqual
	BinConcat
	BinAdd
	BinSub
	BinMul
	BinDiv
	BinMod
	BinPow
)

// UnaryKind is the closed set of unary operators.
type UnaryKind uint8

// The unary operator kinds.
const (
	UnaryNeg UnaryKind = iota
	UnaryNot
	// UnaryAwait is only meaningful in tail position, where the planner
	// schedules the step as Async and the runtime evaluator resolves a
	// Pending operand; mid-expression it evaluates as identity (spec.md
	// §9 open question).
	UnaryAwait
)

// ApplyBinary evaluates a binary operator over already-evaluated operands.
// Per spec.md §7, operators do not short-circuit on Error operands — they
// attempt to coerce them, and coercing an Error propagates it unchanged.
func ApplyBinary(kind BinaryKind, lhs, rhs Value, cmp Comparer) Value {
	if e, ok := IsError(lhs); ok {
		return e
	}

	if e, ok := IsError(rhs); ok {
		return e
	}

	switch kind {
	case BinOr, BinAnd:
		return applyLogic(kind, lhs, rhs)
	case BinEqual:
		return Boolean(Equal(lhs, rhs, cmp))
	case BinNotEqual:
		return Boolean(!Equal(lhs, rhs, cmp))
	case BinLess, BinLessEqual, BinGreater, BinGreaterEqual:
		return applyCompare(kind, lhs, rhs)
	case BinConcat:
		return applyConcat(lhs, rhs)
	case BinAdd, BinSub, BinMul, BinDiv, BinMod, BinPow:
		return applyArithmetic(kind, lhs, rhs)
	default:
		return Errorf(ErrInternal, "unknown binary operator %d", kind)
	}
}

// ApplyUnary evaluates a unary operator over an already-evaluated operand.
func ApplyUnary(kind UnaryKind, operand Value) Value {
	if e, ok := IsError(operand); ok {
		return e
	}

	switch kind {
	case UnaryNeg:
		n, ok := CastNumber(operand)
		if !ok {
			return Errorf(ErrCoercionFailed, "cannot coerce %s to Number", operand.Kind())
		}

		return NewNumberFromRat(new(big.Rat).Neg(n.Rat()))
	case UnaryNot:
		b, ok := CastBoolean(operand)
		if !ok {
			return Errorf(ErrCoercionFailed, "cannot coerce %s to Boolean", operand.Kind())
		}

		return !b
	case UnaryAwait:
		// No-op outside tail position; the planner handles tail-position
		// await by scheduling the step as Async (spec.md §4.6, §9).
		return operand
	default:
		return Errorf(ErrInternal, "unknown unary operator %d", kind)
	}
}

func applyLogic(kind BinaryKind, lhs, rhs Value) Value {
	l, ok := CastBoolean(lhs)
	if !ok {
		return Errorf(ErrCoercionFailed, "cannot coerce %s to Boolean", lhs.Kind())
	}

	r, ok := CastBoolean(rhs)
	if !ok {
		return Errorf(ErrCoercionFailed, "cannot coerce %s to Boolean", rhs.Kind())
	}

	if kind == BinOr {
		return l || r
	}

	return l && r
}

func applyCompare(kind BinaryKind, lhs, rhs Value) Value {
	l, ok := CastNumber(lhs)
	if !ok {
		return Errorf(ErrCoercionFailed, "cannot coerce %s to Number", lhs.Kind())
	}

	r, ok := CastNumber(rhs)
	if !ok {
		return Errorf(ErrCoercionFailed, "cannot coerce %s to Number", rhs.Kind())
	}

	c := l.Rat().Cmp(r.Rat())

	switch kind {
	case BinLess:
		return Boolean(c < 0)
	case BinLessEqual:
		return Boolean(c <= 0)
	case BinGreater:
		return Boolean(c > 0)
	case BinGreaterEqual:
		return Boolean(c >= 0)
	default:
		return Errorf(ErrInternal, "unknown comparison operator %d", kind)
	}
}

func applyConcat(lhs, rhs Value) Value {
	l, ok := CastString(lhs)
	if !ok {
		return Errorf(ErrCoercionFailed, "cannot coerce %s to String", lhs.Kind())
	}

	r, ok := CastString(rhs)
	if !ok {
		return Errorf(ErrCoercionFailed, "cannot coerce %s to String", rhs.Kind())
	}

	return String_(string(l) + string(r))
}

func applyArithmetic(kind BinaryKind, lhs, rhs Value) Value {
	l, ok := CastNumber(lhs)
	if !ok {
		return Errorf(ErrCoercionFailed, "cannot coerce %s to Number", lhs.Kind())
	}

	r, ok := CastNumber(rhs)
	if !ok {
		return Errorf(ErrCoercionFailed, "cannot coerce %s to Number", rhs.Kind())
	}

	switch kind {
	case BinAdd:
		return NewNumberFromRat(new(big.Rat).Add(l.Rat(), r.Rat()))
	case BinSub:
		return NewNumberFromRat(new(big.Rat).Sub(l.Rat(), r.Rat()))
	case BinMul:
		return NewNumberFromRat(new(big.Rat).Mul(l.Rat(), r.Rat()))
	case BinDiv:
		if r.IsZero() {
			return Errorf(ErrMathDomain, "division by zero")
		}

		return NewNumberFromRat(new(big.Rat).Quo(l.Rat(), r.Rat()))
	case BinMod:
		return applyMod(l, r)
	case BinPow:
		return applyPow(l, r)
	default:
		return Errorf(ErrInternal, "unknown arithmetic operator %d", kind)
	}
}

func applyMod(l, r Number) Value {
	if r.IsZero() {
		return Errorf(ErrMathDomain, "modulo by zero")
	}

	if !l.IsInteger() || !r.IsInteger() {
		return Errorf(ErrMathDomain, "remainder requires integer operands")
	}

	var rem big.Int
	rem.Mod(l.Rat().Num(), r.Rat().Num())

	return NewNumberFromRat(new(big.Rat).SetInt(&rem))
}

func applyPow(l, r Number) Value {
	if l.IsZero() && r.IsZero() {
		return Errorf(ErrMathDomain, "0^0 is undefined")
	}

	if !r.IsInteger() {
		return Errorf(ErrMathDomain, "exponent must be an integer")
	}

	exp := r.Rat().Num()
	if exp.Sign() < 0 {
		if l.IsZero() {
			return Errorf(ErrMathDomain, "division by zero")
		}

		positive := new(big.Int).Neg(exp)
		base := powInt(l.Rat(), positive)

		return NewNumberFromRat(new(big.Rat).Inv(base))
	}

	return NewNumberFromRat(powInt(l.Rat(), exp))
}

func powInt(base *big.Rat, exp *big.Int) *big.Rat {
	result := big.NewRat(1, 1)
	b := new(big.Rat).Set(base)
	e := new(big.Int).Set(exp)

	zero := big.NewInt(0)
	two := big.NewInt(2)
	rem := new(big.Int)

	for e.Cmp(zero) > 0 {
		rem.Mod(e, two)

		if rem.Sign() != 0 {
			result.Mul(result, b)
		}

		b.Mul(b, b)
		e.Div(e, two)
	}

	return result
}

// Equal implements the equality table from spec.md §4.8: exact for
// Number/Number, ordinal for String/String, structural for Boolean/Boolean,
// stringified-number comparison for Number/String, false (never an error)
// for every other pairing. NotEqual is its logical negation.
func Equal(lhs, rhs Value, cmp Comparer) bool {
	switch l := lhs.(type) {
	case Number:
		switch r := rhs.(type) {
		case Number:
			return l.Rat().Cmp(r.Rat()) == 0
		case String_:
			return l.Decimal() == string(r)
		}
	case String_:
		switch r := rhs.(type) {
		case String_:
			return string(l) == string(r)
		case Number:
			return string(l) == r.Decimal()
		}
	case Boolean:
		if r, ok := rhs.(Boolean); ok {
			return l == r
		}
	}

	_ = cmp // reserved: Object/List deep-equality would consult cmp for keys

	return false
}
