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
// Package value implements the runtime's closed value model: the tagged
// variants every expression evaluates to, their coercions, and their
// operators. See spec.md §3 ("Value variants") and §4.8 ("Expression
// evaluator").
package value

import (
	"fmt"
	"math/big"
)

// Kind tags a Value with its runtime variant. Used for fast dispatch in the
// operator tables without a type switch at every call site.
type Kind uint8

// The closed set of runtime value variants.
const (
	KindNumber Kind = iota
	KindString
	KindBoolean
	KindObject
	KindList
	KindFunction
	KindPending
	KindError
)

// String renders the kind's name, used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindBoolean:
		return "Boolean"
	case KindObject:
		return "Object"
	case KindList:
		return "List"
	case KindFunction:
		return "Function"
	case KindPending:
		return "Pending"
	case KindError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Value is the interface implemented by every runtime variant. Values are
// immutable once constructed (spec.md §3, "Lifecycles").
type Value interface {
	// Kind returns this value's variant tag.
	Kind() Kind
	// String renders this value for diagnostics (not the CastString coercion).
	String() string
}

// ============================================================================
// Number
// ============================================================================

// Number is an exact, arbitrary-precision decimal. It is backed by a
// math/big.Rat rather than a binary float so that decimal literals compare
// and print exactly as written (see DESIGN.md for why no third-party decimal
// library is used here).
type Number struct {
	rat *big.Rat
}

// NewNumberFromInt64 constructs a Number from a machine integer.
func NewNumberFromInt64(v int64) Number {
	return Number{big.NewRat(v, 1)}
}

// NewNumberFromRat constructs a Number directly from a big.Rat. The rat is
// not copied defensively; callers must not mutate it afterwards.
func NewNumberFromRat(r *big.Rat) Number {
	return Number{r}
}

// ParseNumber parses invariant-locale decimal syntax: optional sign, digits,
// optional '.' followed by digits (spec.md §6, "Literal wire formats").
// It uses big.Rat.SetString, so it also accepts a fraction "a/b" and an
// exponent suffix such as "1e3".
func ParseNumber(text string) (Number, bool) {
	r, ok := new(big.Rat).SetString(text)
	if !ok {
		return Number{}, false
	}

	return Number{r}, true
}

// Rat exposes the underlying rational for arithmetic in ops.go.
func (n Number) Rat() *big.Rat {
	return n.rat
}

// Kind implements Value.
func (n Number) Kind() Kind { return KindNumber }

// String implements Value.
func (n Number) String() string {
	return n.rat.RatString()
}

// IsZero determines whether this number is exactly zero.
func (n Number) IsZero() bool {
	return n.rat.Sign() == 0
}

// IsInteger determines whether this number has no fractional part.
func (n Number) IsInteger() bool {
	return n.rat.IsInt()
}

// Decimal renders this number using invariant-locale decimal text: a sign,
// digits, and (if the value is not integral) a '.' followed by digits. This
// is distinct from String(), which is a debug rendering; Decimal is what
// CastString and JSON marshalling use.
func (n Number) Decimal() string {
	if n.rat.IsInt() {
		return n.rat.Num().String()
	}
	// FloatString with an ample precision, then trim trailing zeros. 40
	// digits comfortably exceeds any precision a decimal literal in this
	// language could have encoded.
	text := n.rat.FloatString(40)

	end := len(text)
	for end > 0 && text[end-1] == '0' {
		end--
	}

	if end > 0 && text[end-1] == '.' {
		end--
	}

	return text[:end]
}

// ============================================================================
// String
// ============================================================================

// String_ is the runtime's text variant, named to avoid colliding with the
// builtin string / the Value.String() diagnostic method.
type String_ string

// NewString constructs a String value.
func NewString(s string) String_ { return String_(s) }

// Kind implements Value.
func (s String_) Kind() Kind { return KindString }

// String implements Value.
func (s String_) String() string { return fmt.Sprintf("%q", string(s)) }

// Text returns the raw text content.
func (s String_) Text() string { return string(s) }

// ============================================================================
// Boolean
// ============================================================================

// Boolean is the runtime's truth-value variant.
type Boolean bool

// Kind implements Value.
func (b Boolean) Kind() Kind { return KindBoolean }

// String implements Value.
func (b Boolean) String() string {
	if b {
		return "true"
	}

	return "false"
}

// ============================================================================
// Object
// ============================================================================

// Object is an ordered string-keyed mapping with case-insensitive lookup
// (spec.md §3). Key comparison is delegated to a Comparer so it can be
// parameterized (spec.md §9).
type Object struct {
	keys     []string
	values   []Value
	comparer Comparer
}

// NewObject constructs an empty object using the given comparer for key
// lookup. Use DefaultComparer() when no program-specific comparer applies.
func NewObject(cmp Comparer) *Object {
	return &Object{comparer: cmp}
}

// Kind implements Value.
func (o *Object) Kind() Kind { return KindObject }

// String implements Value.
func (o *Object) String() string {
	s := "{"

	for i, k := range o.keys {
		if i > 0 {
			s += ", "
		}

		s += k + ": " + o.values[i].String()
	}

	return s + "}"
}

// Set inserts or overwrites a key's value. Insertion order is preserved for
// keys set for the first time; overwriting an existing key keeps its
// original position.
func (o *Object) Set(key string, val Value) {
	for i, k := range o.keys {
		if o.comparer.Equal(k, key) {
			o.values[i] = val
			return
		}
	}

	o.keys = append(o.keys, key)
	o.values = append(o.values, val)
}

// Get performs a case-insensitive lookup, per the comparer in force.
func (o *Object) Get(key string) (Value, bool) {
	for i, k := range o.keys {
		if o.comparer.Equal(k, key) {
			return o.values[i], true
		}
	}

	return nil, false
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

// Values returns the values, index-aligned with Keys().
func (o *Object) Values() []Value {
	return o.values
}

// Len returns the number of entries.
func (o *Object) Len() int {
	return len(o.keys)
}

// ============================================================================
// List
// ============================================================================

// List is an ordered sequence of values.
type List struct {
	items []Value
}

// NewList constructs a List from the given elements.
func NewList(items ...Value) *List {
	return &List{items}
}

// Kind implements Value.
func (l *List) Kind() Kind { return KindList }

// String implements Value.
func (l *List) String() string {
	s := "["

	for i, v := range l.items {
		if i > 0 {
			s += ", "
		}

		s += v.String()
	}

	return s + "]"
}

// Items returns the underlying elements.
func (l *List) Items() []Value {
	return l.items
}

// Len returns the number of elements.
func (l *List) Len() int {
	return len(l.items)
}

// ============================================================================
// Function
// ============================================================================

// Callable is the signature every host-provided function must implement. It
// may return a Pending value when the call is asynchronous.
type Callable func(args []Value) Value

// Function is an opaque callable value supplied by the host (spec.md §3: "no
// first-class function definitions within the language").
type Function struct {
	Name string
	Call Callable
}

// Kind implements Value.
func (f Function) Kind() Kind { return KindFunction }

// String implements Value.
func (f Function) String() string {
	return fmt.Sprintf("<function %s>", f.Name)
}

// ============================================================================
// Pending
// ============================================================================

// Resolver is satisfied by an async step's future; Await blocks until the
// underlying computation settles.
type Resolver interface {
	Await() Value
}

// Pending wraps a deferred value. The runtime driver is the only caller that
// should ever call Await directly; formula bodies that reference a Pending
// without an explicit `await` simply carry it as an opaque value.
type Pending struct {
	resolver Resolver
}

// NewPending constructs a Pending value from a resolver.
func NewPending(r Resolver) Pending {
	return Pending{r}
}

// Kind implements Value.
func (p Pending) Kind() Kind { return KindPending }

// String implements Value.
func (p Pending) String() string { return "<pending>" }

// Await resolves this pending value, blocking the calling goroutine.
func (p Pending) Await() Value {
	return p.resolver.Await()
}

// ============================================================================
// Error
// ============================================================================

// ErrorKind is the closed set of runtime error kinds (spec.md §6).
type ErrorKind string

// The closed set of RuntimeError kinds.
const (
	ErrUnresolvedIdentifier ErrorKind = "UnresolvedIdentifier"
	ErrAccessUnsupported    ErrorKind = "AccessUnsupported"
	ErrAccessFailed         ErrorKind = "AccessFailed"
	ErrInvokeUnsupported    ErrorKind = "InvokeUnsupported"
	ErrCoercionFailed       ErrorKind = "CoercionFailed"
	ErrMathDomain           ErrorKind = "MathDomain"
	ErrDuplicateKey         ErrorKind = "DuplicateKey"
	ErrTimeout              ErrorKind = "Timeout"
	ErrInternal             ErrorKind = "Internal"
)

// Error carries a failure as an ordinary Value: it never unwinds a
// goroutine, it is written into a step's slot like any other result
// (spec.md §7).
type Error struct {
	ErrKind ErrorKind
	Message string
}

// NewError constructs an Error value.
func NewError(kind ErrorKind, message string) Error {
	return Error{kind, message}
}

// Errorf constructs an Error value with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) Error {
	return Error{kind, fmt.Sprintf(format, args...)}
}

// Kind implements Value.
func (e Error) Kind() Kind { return KindError }

// String implements Value.
func (e Error) String() string {
	return fmt.Sprintf("%s: %s", e.ErrKind, e.Message)
}

// IsError is a convenience test used throughout the evaluator for the
// "first Error short-circuits" rule (spec.md §4.8, §7).
func IsError(v Value) (Error, bool) {
	e, ok := v.(Error)
	return e, ok
}
