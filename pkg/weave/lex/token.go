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
// Package lex tokenises formula-language source text (spec.md §4.1) into a
// stream of Token values, reusing the teacher's Span/File/SyntaxError
// vocabulary from pkg/util/source.
package lex

import "fmt"

// Kind is the token's lexical category.
type Kind uint

// The closed set of token kinds.
const (
	EOF Kind = iota
	IDENT
	QIDENT // quoted identifier: 'arbitrary text'
	NUMBER
	STRING

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	COMMA
	DOT
	EQUALS

	PLUS
	MINUS
	STAR
	SLASH
	CARET
	PERCENT
	AMP // & (string concatenation)

	LT
	LE
	GT
	GE
	NE // <>
)

var kindNames = map[Kind]string{
	EOF: "EOF", IDENT: "identifier", QIDENT: "quoted identifier",
	NUMBER: "number", STRING: "string",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	COMMA: ",", DOT: ".", EQUALS: "=",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", CARET: "^", PERCENT: "%",
	AMP: "&", LT: "<", LE: "<=", GT: ">", GE: ">=", NE: "<>",
}

// String renders the kind's name, used in ParseError messages.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}

	return fmt.Sprintf("Kind(%d)", uint(k))
}

// Keywords is the closed set of reserved words (spec.md §4.1). An IDENT
// token whose text is in this set is still lexed as IDENT; the parser
// consults Keywords to decide whether an identifier-shaped token should be
// treated as a keyword in a given grammar position.
var Keywords = map[string]bool{
	"true": true, "false": true, "if": true, "where": true, "list": true,
	"object": true, "import": true, "from": true, "as": true, "await": true,
	"or": true, "and": true, "not": true, "module": true, "export": true,
	"argument": true, "constant": true,
}

// Token is one lexed token: a kind tag over a span of the source file.
type Token struct {
	Kind Kind
	// Start and End are rune offsets into the source file's contents.
	Start int
	End   int
}

// Text extracts this token's source text from the given file contents.
func (t Token) Text(contents []rune) string {
	return string(contents[t.Start:t.End])
}
