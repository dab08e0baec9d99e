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
package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weavelang/weave/pkg/util/source"
)

func tokenize(t *testing.T, text string) []Token {
	t.Helper()

	file := source.NewSourceFile("test.weave", []byte(text))

	tokens, err := Tokenize(file)
	assert.NoError(t, err)

	return tokens
}

func TestTokenizeIdentifiersAndKeywords(t *testing.T) {
	tokens := tokenize(t, "export a = if")
	kinds := []Kind{IDENT, IDENT, EQUALS, IDENT, EOF}

	assert.Equal(t, len(kinds), len(tokens))

	for i, k := range kinds {
		assert.Equal(t, k, tokens[i].Kind)
	}

	assert.True(t, Keywords["export"])
	assert.True(t, Keywords["if"])
	assert.False(t, Keywords["a"])
}

func TestTokenizeNumbers(t *testing.T) {
	tokens := tokenize(t, "1 2.5 10")
	assert.Equal(t, []Kind{NUMBER, NUMBER, NUMBER, EOF}, kindsOf(tokens))

	file := source.NewSourceFile("t", []byte("1 2.5 10"))
	contents := file.Contents()
	assert.Equal(t, "1", tokens[0].Text(contents))
	assert.Equal(t, "2.5", tokens[1].Text(contents))
	assert.Equal(t, "10", tokens[2].Text(contents))
}

func TestTokenizeString(t *testing.T) {
	tokens := tokenize(t, `"hello\nworld"`)
	assert.Equal(t, []Kind{STRING, EOF}, kindsOf(tokens))

	file := source.NewSourceFile("t", []byte(`"hello\nworld"`))
	text := tokens[0].Text(file.Contents())
	inner := text[1 : len(text)-1]
	assert.Equal(t, "hello\nworld", Unescape(inner))
}

func TestTokenizeUnterminatedString(t *testing.T) {
	file := source.NewSourceFile("t", []byte(`"hello`))
	_, err := Tokenize(file)
	assert.Error(t, err)

	lexErr, ok := err.(*Error)
	assert.True(t, ok)
	assert.Equal(t, ErrUnterminatedString, lexErr.ErrKind)
}

func TestTokenizeOperators(t *testing.T) {
	tokens := tokenize(t, "<= >= <> < > + - * / ^ % &")
	expected := []Kind{LE, GE, NE, LT, GT, PLUS, MINUS, STAR, SLASH, CARET, PERCENT, AMP, EOF}
	assert.Equal(t, expected, kindsOf(tokens))
}

func TestTokenizeQuotedIdentifier(t *testing.T) {
	tokens := tokenize(t, "'strange name'")
	assert.Equal(t, []Kind{QIDENT, EOF}, kindsOf(tokens))
}

func TestTokenizeUnexpectedChar(t *testing.T) {
	file := source.NewSourceFile("t", []byte("a $ b"))
	_, err := Tokenize(file)
	assert.Error(t, err)

	lexErr, ok := err.(*Error)
	assert.True(t, ok)
	assert.Equal(t, ErrUnexpectedChar, lexErr.ErrKind)
}

func kindsOf(tokens []Token) []Kind {
	out := make([]Kind, len(tokens))
	for i, t := range tokens {
		out[i] = t.Kind
	}

	return out
}
