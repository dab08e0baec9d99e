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
// Package compiler implements the compile → schedule pipeline: the parser,
// the symbol registry, the dependency table, the execution planner, and the
// emitter that bundles their output into a *Compiled, which runtime.New
// wraps into an executable (spec.md §4.2–§4.7).
package compiler

import (
	"fmt"
	"strings"

	"github.com/weavelang/weave/pkg/util/source"
	"github.com/weavelang/weave/pkg/weave/lex"
)

// ErrorKind is the closed set of compile-time failure modes (spec.md §6:
// "CompileError kinds = {Parse, UnknownName, DuplicateName, Cycle}").
type ErrorKind string

// The closed set of CompileError kinds.
const (
	ErrParse         ErrorKind = "Parse"
	ErrUnknownName   ErrorKind = "UnknownName"
	ErrDuplicateName ErrorKind = "DuplicateName"
	ErrCycle         ErrorKind = "Cycle"
)

// Error is the single, fatal compile-time error (spec.md §7: "never
// partial; the program is rejected in full"). Position is -1 when the error
// is not tied to a specific span (e.g. a whole-program cycle). Span covers
// the same offset as Position (a single-rune span when Position >= 0); File
// is the source file Span indexes into, and is nil for errors raised after
// parsing, where no *source.File is retained (scope/dependency/cycle
// errors).
type Error struct {
	ErrKind  ErrorKind
	Message  string
	Position int
	Span     source.Span
	File     *source.File
	// Cycle names the declarations involved in a dependency cycle
	// (ErrCycle only).
	Cycle []string
}

func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s: %s (at %d)", e.ErrKind, e.Message, e.Position)
	}

	return fmt.Sprintf("%s: %s", e.ErrKind, e.Message)
}

// FirstEnclosingLine locates the source line enclosing this error's Span,
// mirroring the teacher's source.SyntaxError.FirstEnclosingLine. Callers
// must check File != nil first (see the Error doc comment).
func (e *Error) FirstEnclosingLine() source.Line {
	return e.File.FindFirstEnclosingLine(e.Span)
}

// spanForPos builds a single-rune span at pos, or the empty Span when pos
// is negative (no specific location).
func spanForPos(pos int) source.Span {
	if pos < 0 {
		return source.Span{}
	}

	return source.NewSpan(pos, pos+1)
}

// parseErrorf builds a Parse error at pos within file. file may be nil when
// no source file is available (callers must not call FirstEnclosingLine in
// that case).
func parseErrorf(file *source.File, pos int, expected, actual string) *Error {
	return &Error{
		ErrKind:  ErrParse,
		Message:  fmt.Sprintf("expected %s, found %s", expected, actual),
		Position: pos,
		Span:     spanForPos(pos),
		File:     file,
	}
}

func unknownNameErrorf(pos int, format string, args ...any) *Error {
	return &Error{
		ErrKind:  ErrUnknownName,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
		Span:     spanForPos(pos),
	}
}

func duplicateNameErrorf(file *source.File, pos int, format string, args ...any) *Error {
	return &Error{
		ErrKind:  ErrDuplicateName,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
		Span:     spanForPos(pos),
		File:     file,
	}
}

func cycleError(members []string) *Error {
	return &Error{
		ErrKind:  ErrCycle,
		Message:  fmt.Sprintf("dependency cycle: %s", strings.Join(members, " -> ")),
		Position: -1,
		Cycle:    members,
	}
}

func fromLexError(file *source.File, err *lex.Error) *Error {
	return &Error{
		ErrKind:  ErrParse,
		Message:  err.Message,
		Position: err.Position,
		Span:     spanForPos(err.Position),
		File:     file,
	}
}

// Warning is a non-fatal diagnostic emitted during compilation (spec.md §9:
// await used outside tail position). Warnings never block compilation.
type Warning struct {
	Message  string
	Position int
}

func (w Warning) String() string {
	return fmt.Sprintf("warning: %s (at %d)", w.Message, w.Position)
}
