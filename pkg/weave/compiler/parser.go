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

import (
	"strings"

	"github.com/weavelang/weave/pkg/util/source"
	"github.com/weavelang/weave/pkg/weave/ast"
	"github.com/weavelang/weave/pkg/weave/lex"
	"github.com/weavelang/weave/pkg/weave/value"
)

// Parser is a recursive-descent parser with a one-token lookahead (spec.md
// §4.2). It never panics: every failure mode is returned as an *Error.
type Parser struct {
	file     *source.File
	contents []rune
	tokens   []lex.Token
	pos      int
	warnings []Warning
}

// ParseProgram parses an entire source file into an ast.Program.
func ParseProgram(file *source.File) (*ast.Program, []Warning, *Error) {
	tokens, err := lex.Tokenize(file)
	if err != nil {
		if lexErr, ok := err.(*lex.Error); ok {
			return nil, nil, fromLexError(file, lexErr)
		}

		return nil, nil, &Error{ErrKind: ErrParse, Message: err.Error(), Position: -1}
	}

	p := &Parser{file: file, contents: file.Contents(), tokens: tokens}

	prog, perr := p.parseProgram()
	if perr != nil {
		return nil, nil, perr
	}

	return prog, p.warnings, nil
}

// ---------------------------------------------------------------------------
// Token stream helpers
// ---------------------------------------------------------------------------

func (p *Parser) cur() lex.Token {
	return p.tokens[p.pos]
}

func (p *Parser) curText() string {
	return p.cur().Text(p.contents)
}

func (p *Parser) atKeyword(kw string) bool {
	t := p.cur()
	return t.Kind == lex.IDENT && t.Text(p.contents) == kw
}

func (p *Parser) advance() lex.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}

	return t
}

func (p *Parser) expectKind(k lex.Kind) (lex.Token, *Error) {
	if p.cur().Kind != k {
		return lex.Token{}, parseErrorf(p.file, p.cur().Start, k.String(), p.describeCur())
	}

	return p.advance(), nil
}

func (p *Parser) expectKeyword(kw string) *Error {
	if !p.atKeyword(kw) {
		return parseErrorf(p.file, p.cur().Start, "'"+kw+"'", p.describeCur())
	}

	p.advance()

	return nil
}

func (p *Parser) describeCur() string {
	t := p.cur()
	if t.Kind == lex.EOF {
		return "end of input"
	}

	return t.Kind.String() + " '" + t.Text(p.contents) + "'"
}

// ---------------------------------------------------------------------------
// Program := (ArgumentDecl | ConstantDecl | Module)*
// ---------------------------------------------------------------------------

func (p *Parser) parseProgram() (*ast.Program, *Error) {
	prog := &ast.Program{}
	names := map[string]bool{}

	for p.cur().Kind != lex.EOF {
		switch {
		case p.atKeyword("argument"):
			arg, err := p.parseArgumentDecl()
			if err != nil {
				return nil, err
			}

			if err := p.checkUnique(names, arg.Ident, p.tokens[p.pos-1].Start); err != nil {
				return nil, err
			}

			prog.Arguments = append(prog.Arguments, arg)
		case p.atKeyword("constant"):
			c, err := p.parseConstantDecl()
			if err != nil {
				return nil, err
			}

			if err := p.checkUnique(names, c.Ident, p.tokens[p.pos-1].Start); err != nil {
				return nil, err
			}

			prog.Constants = append(prog.Constants, c)
		case p.atKeyword("module"):
			m, err := p.parseModule()
			if err != nil {
				return nil, err
			}

			if err := p.checkUnique(names, m.Ident, p.tokens[p.pos-1].Start); err != nil {
				return nil, err
			}

			prog.Modules = append(prog.Modules, m)
		default:
			return nil, parseErrorf(p.file, p.cur().Start, "'argument', 'constant', or 'module'", p.describeCur())
		}
	}

	return prog, nil
}

func (p *Parser) checkUnique(names map[string]bool, name string, pos int) *Error {
	key := strings.ToLower(name)
	if names[key] {
		return duplicateNameErrorf(p.file, pos, "duplicate top-level name %q", name)
	}

	names[key] = true

	return nil
}

func (p *Parser) parseArgumentDecl() (*ast.Argument, *Error) {
	if err := p.expectKeyword("argument"); err != nil {
		return nil, err
	}

	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	return &ast.Argument{Ident: name}, nil
}

func (p *Parser) parseConstantDecl() (*ast.Constant, *Error) {
	if err := p.expectKeyword("constant"); err != nil {
		return nil, err
	}

	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectKind(lex.EQUALS); err != nil {
		return nil, err
	}

	v, err := p.parseLiteralValue()
	if err != nil {
		return nil, err
	}

	return &ast.Constant{Ident: name, Value: v}, nil
}

// parseLiteralValue parses a bare literal (not a general expression): a
// constant's binding is a statically-bound value (spec.md §3).
func (p *Parser) parseLiteralValue() (value.Value, *Error) {
	switch {
	case p.cur().Kind == lex.NUMBER:
		text := p.curText()
		p.advance()

		n, ok := value.ParseNumber(text)
		if !ok {
			return nil, parseErrorf(p.file, p.cur().Start, "valid number literal", text)
		}

		return n, nil
	case p.cur().Kind == lex.STRING:
		text := p.curText()
		p.advance()

		return value.NewString(lex.Unescape(text[1 : len(text)-1])), nil
	case p.atKeyword("true"):
		p.advance()
		return value.Boolean(true), nil
	case p.atKeyword("false"):
		p.advance()
		return value.Boolean(false), nil
	default:
		return nil, parseErrorf(p.file, p.cur().Start, "literal value", p.describeCur())
	}
}

// ---------------------------------------------------------------------------
// Module := "module" Identifier "{" Import* Formula* "}"
// ---------------------------------------------------------------------------

func (p *Parser) parseModule() (*ast.Module, *Error) {
	if err := p.expectKeyword("module"); err != nil {
		return nil, err
	}

	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectKind(lex.LBRACE); err != nil {
		return nil, err
	}

	mod := &ast.Module{Ident: name}
	names := map[string]bool{}

	for p.atKeyword("import") {
		imp, err := p.parseImport()
		if err != nil {
			return nil, err
		}

		if err := p.checkUnique(names, imp.Ident, p.tokens[p.pos-1].Start); err != nil {
			return nil, err
		}

		mod.Imports = append(mod.Imports, imp)
	}

	for p.cur().Kind != lex.RBRACE {
		if p.cur().Kind == lex.EOF {
			return nil, parseErrorf(p.file, p.cur().Start, "'}'", p.describeCur())
		}

		f, err := p.parseFormula()
		if err != nil {
			return nil, err
		}

		if err := p.checkUnique(names, f.Ident, p.tokens[p.pos-1].Start); err != nil {
			return nil, err
		}

		mod.Formulas = append(mod.Formulas, f)
	}

	if _, err := p.expectKind(lex.RBRACE); err != nil {
		return nil, err
	}

	return mod, nil
}

// Import := "import" "argument" Identifier ["as" Identifier]
//         | "import" "constant" Identifier ["as" Identifier]
//         | "import" "module" Identifier ["as" Identifier]
//         | "import" Identifier "from" Identifier ["as" Identifier]
func (p *Parser) parseImport() (*ast.Import, *Error) {
	if err := p.expectKeyword("import"); err != nil {
		return nil, err
	}

	var (
		kind ast.ImportKind
		path []string
	)

	switch {
	case p.atKeyword("argument"):
		p.advance()

		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}

		kind, path = ast.ImportArgument, []string{name}
	case p.atKeyword("constant"):
		p.advance()

		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}

		kind, path = ast.ImportConstant, []string{name}
	case p.atKeyword("module"):
		p.advance()

		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}

		kind, path = ast.ImportModule, []string{name}
	default:
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}

		if err := p.expectKeyword("from"); err != nil {
			return nil, err
		}

		moduleName, err := p.parseIdent()
		if err != nil {
			return nil, err
		}

		kind, path = ast.ImportFormula, []string{moduleName, name}
	}

	local := path[len(path)-1]

	if p.atKeyword("as") {
		p.advance()

		alias, err := p.parseIdent()
		if err != nil {
			return nil, err
		}

		local = alias
	}

	return &ast.Import{Ident: local, Path: path, Kind: kind}, nil
}

// Formula := ["export"] Identifier "=" Expression
func (p *Parser) parseFormula() (*ast.Formula, *Error) {
	exported := false
	if p.atKeyword("export") {
		p.advance()

		exported = true
	}

	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	if _, err := p.expectKind(lex.EQUALS); err != nil {
		return nil, err
	}

	body, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	p.checkTailAwait(body)

	return &ast.Formula{Ident: name, Body: body, IsExported: exported}, nil
}

// checkTailAwait marks the outermost node as a tail-position await and warns
// when `await` appears elsewhere (spec.md §9 open question).
func (p *Parser) checkTailAwait(body ast.Expr) {
	if u, ok := body.(*ast.UnaryOp); ok && u.Kind == value.UnaryAwait {
		u.TailPosition = true
	}

	var walk func(ast.Expr, bool)
	walk = func(e ast.Expr, tail bool) {
		if u, ok := e.(*ast.UnaryOp); ok && u.Kind == value.UnaryAwait && !tail {
			p.warnings = append(p.warnings, Warning{
				Message:  "`await` outside tail position is a no-op",
				Position: 0,
			})
		}

		for _, c := range ast.Children(e) {
			walk(c, false)
		}
	}

	walk(body, true)
}

// ---------------------------------------------------------------------------
// Expression := precedence-climb over binary operators (spec.md §4.2)
// ---------------------------------------------------------------------------

// precedenceLevels maps a token kind (and, for keyword operators, its text) to the
// BinaryKind it introduces at a given precedence level, low to high.
var precedenceLevels = [][]struct {
	kw   string
	kind lex.Kind
	op   value.BinaryKind
}{
	{{kw: "or", kind: lex.IDENT, op: value.BinOr}},
	{{kw: "and", kind: lex.IDENT, op: value.BinAnd}},
	{
		{kind: lex.EQUALS, op: value.BinEqual},
		{kind: lex.NE, op: value.BinNotEqual},
	},
	{
		{kind: lex.LT, op: value.BinLess},
		{kind: lex.LE, op: value.BinLessEqual},
		{kind: lex.GT, op: value.BinGreater},
		{kind: lex.GE, op: value.BinGreaterEqual},
	},
	{{kind: lex.AMP, op: value.BinConcat}},
	{
		{kind: lex.PLUS, op: value.BinAdd},
		{kind: lex.MINUS, op: value.BinSub},
	},
	{
		{kind: lex.STAR, op: value.BinMul},
		{kind: lex.SLASH, op: value.BinDiv},
		{kind: lex.PERCENT, op: value.BinMod},
	},
}

func (p *Parser) parseExpression() (ast.Expr, *Error) {
	return p.parseLevel(0)
}

// parseLevel implements left-associative precedence climbing for every
// level except the final one (exponentiation), which is right-associative
// and handled by parsePow.
func (p *Parser) parseLevel(level int) (ast.Expr, *Error) {
	if level >= len(precedenceLevels) {
		return p.parsePow()
	}

	lhs, err := p.parseLevel(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		op, matched := p.matchLevel(level)
		if !matched {
			return lhs, nil
		}

		p.advance()

		rhs, err := p.parseLevel(level + 1)
		if err != nil {
			return nil, err
		}

		lhs = &ast.BinaryOp{Kind: op, Lhs: lhs, Rhs: rhs}
	}
}

func (p *Parser) matchLevel(level int) (value.BinaryKind, bool) {
	t := p.cur()

	for _, entry := range precedenceLevels[level] {
		if entry.kw != "" {
			if p.atKeyword(entry.kw) {
				return entry.op, true
			}

			continue
		}

		if t.Kind == entry.kind {
			return entry.op, true
		}
	}

	return 0, false
}

// parsePow handles `^`, right-associative. Both operands are unary
// expressions, so unary minus binds tighter than `^` on either side:
// -2^2 is (-2)^2 == 4, and 2^-1 == 0.5.
func (p *Parser) parsePow() (ast.Expr, *Error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	if p.cur().Kind != lex.CARET {
		return lhs, nil
	}

	p.advance()

	rhs, err := p.parsePow()
	if err != nil {
		return nil, err
	}

	return &ast.BinaryOp{Kind: value.BinPow, Lhs: lhs, Rhs: rhs}, nil
}

// Unary := ("not"|"-"|"await") Unary | Postfix
func (p *Parser) parseUnary() (ast.Expr, *Error) {
	switch {
	case p.cur().Kind == lex.MINUS:
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &ast.UnaryOp{Kind: value.UnaryNeg, Operand: operand}, nil
	case p.atKeyword("not"):
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &ast.UnaryOp{Kind: value.UnaryNot, Operand: operand}, nil
	case p.atKeyword("await"):
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &ast.UnaryOp{Kind: value.UnaryAwait, Operand: operand}, nil
	default:
		return p.parsePostfix()
	}
}

// Postfix := Atom (("." Identifier) | ("(" ArgList ")"))*
func (p *Parser) parsePostfix() (ast.Expr, *Error) {
	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		switch p.cur().Kind {
		case lex.DOT:
			p.advance()

			member, err := p.parseIdent()
			if err != nil {
				return nil, err
			}

			expr = &ast.Access{Value: expr, Member: member}
		case lex.LPAREN:
			p.advance()

			args, err := p.parseExprList(lex.RPAREN)
			if err != nil {
				return nil, err
			}

			if _, err := p.expectKind(lex.RPAREN); err != nil {
				return nil, err
			}

			expr = &ast.Invoke{Callee: expr, Args: args}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseExprList(end lex.Kind) ([]ast.Expr, *Error) {
	var exprs []ast.Expr

	if p.cur().Kind == end {
		return exprs, nil
	}

	for {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		exprs = append(exprs, e)

		if p.cur().Kind != lex.COMMA {
			return exprs, nil
		}

		p.advance()
	}
}

// Atom := Literal | Identifier | "(" Expression ")" | MacroInvocation
func (p *Parser) parseAtom() (ast.Expr, *Error) {
	switch {
	case p.cur().Kind == lex.NUMBER:
		text := p.curText()
		p.advance()

		n, ok := value.ParseNumber(text)
		if !ok {
			return nil, parseErrorf(p.file, p.cur().Start, "valid number literal", text)
		}

		return &ast.Literal{Value: n}, nil
	case p.cur().Kind == lex.STRING:
		text := p.curText()
		p.advance()

		return &ast.Literal{Value: value.NewString(lex.Unescape(text[1 : len(text)-1]))}, nil
	case p.atKeyword("true"):
		p.advance()
		return &ast.Literal{Value: value.Boolean(true)}, nil
	case p.atKeyword("false"):
		p.advance()
		return &ast.Literal{Value: value.Boolean(false)}, nil
	case p.cur().Kind == lex.LPAREN:
		p.advance()

		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expectKind(lex.RPAREN); err != nil {
			return nil, err
		}

		return e, nil
	case p.isMacroHead():
		return p.parseMacro()
	case p.cur().Kind == lex.IDENT || p.cur().Kind == lex.QIDENT:
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}

		return &ast.Identifier{Name: name}, nil
	default:
		return nil, parseErrorf(p.file, p.cur().Start, "expression", p.describeCur())
	}
}

// macroNames maps the case-sensitive source spelling of a macro head to its
// MacroKind (spec.md §3: "IF/LIST/OBJECT/WHERE").
var macroNames = map[string]ast.MacroKind{
	"IF":     ast.MacroIf,
	"LIST":   ast.MacroList,
	"OBJECT": ast.MacroObject,
	"WHERE":  ast.MacroWhere,
}

// isMacroHead reports whether the current token is a macro name immediately
// followed by '(', distinguishing a macro invocation from a plain
// identifier reference of the same spelling.
func (p *Parser) isMacroHead() bool {
	t := p.cur()
	if t.Kind != lex.IDENT {
		return false
	}

	if _, ok := macroNames[t.Text(p.contents)]; !ok {
		return false
	}

	next, ok := p.peekNextKind()

	return ok && next == lex.LPAREN
}

func (p *Parser) peekNextKind() (lex.Kind, bool) {
	if p.pos+1 >= len(p.tokens) {
		return 0, false
	}

	return p.tokens[p.pos+1].Kind, true
}

// parseMacro parses a macro invocation and validates its argument shape
// against the macro kind (spec.md §3). Duplicate OBJECT keys are a runtime
// error, not a parse error, since macro arguments are evaluated lazily.
func (p *Parser) parseMacro() (ast.Expr, *Error) {
	name := p.curText()
	kind := macroNames[name]
	headPos := p.cur().Start

	p.advance() // macro name
	p.advance() // '('

	args, err := p.parseArgList(kind != ast.MacroObject)
	if err != nil {
		return nil, err
	}

	if _, err := p.expectKind(lex.RPAREN); err != nil {
		return nil, err
	}

	if err := validateMacroShape(p.file, kind, args, headPos); err != nil {
		return nil, err
	}

	return &ast.Macro{Kind: kind, Args: args}, nil
}

// parseArgList parses a comma-separated argument list where each argument
// is either a bare expression (positional) or `name = expression` (named).
// allowPositionalBare relaxes lookahead: OBJECT arguments are always named.
func (p *Parser) parseArgList(allowPositionalBare bool) ([]ast.Arg, *Error) {
	var args []ast.Arg

	if p.cur().Kind == lex.RPAREN {
		return args, nil
	}

	for {
		arg, err := p.parseArg(allowPositionalBare)
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if p.cur().Kind != lex.COMMA {
			return args, nil
		}

		p.advance()
	}
}

func (p *Parser) parseArg(allowPositionalBare bool) (ast.Arg, *Error) {
	if p.cur().Kind == lex.IDENT && !lex.Keywords[p.curText()] {
		if next, ok := p.peekNextKind(); ok && next == lex.EQUALS {
			name := p.curText()
			p.advance() // name
			p.advance() // '='

			v, err := p.parseExpression()
			if err != nil {
				return ast.Arg{}, err
			}

			return ast.Arg{Name: name, Value: v}, nil
		}
	}

	if !allowPositionalBare {
		return ast.Arg{}, parseErrorf(p.file, p.cur().Start, "named argument 'name = expression'", p.describeCur())
	}

	v, err := p.parseExpression()
	if err != nil {
		return ast.Arg{}, err
	}

	return ast.Arg{Value: v}, nil
}

// validateMacroShape enforces the per-macro argument shape from spec.md §3:
// IF and LIST take only positional arguments, OBJECT takes only named
// arguments, WHERE takes a leading named "result" followed by alternating
// positional (cond, branch) pairs and a final positional default.
func validateMacroShape(file *source.File, kind ast.MacroKind, args []ast.Arg, pos int) *Error {
	switch kind {
	case ast.MacroIf:
		if len(args) != 3 {
			return parseErrorf(file, pos, "IF(condition, then, else)", "wrong argument count")
		}

		return requirePositional(file, args, pos)
	case ast.MacroList:
		return requirePositional(file, args, pos)
	case ast.MacroObject:
		for _, a := range args {
			if a.Name == "" {
				return parseErrorf(file, pos, "named argument in OBJECT(...)", "positional argument")
			}
		}

		return nil
	case ast.MacroWhere:
		if len(args) < 2 {
			return parseErrorf(file, pos, "WHERE(result = expr, condition, branch, ..., default)", "too few arguments")
		}

		if args[0].Name != "result" {
			return parseErrorf(file, pos, "leading 'result = expression' in WHERE(...)", "missing 'result' argument")
		}

		rest := args[1:]
		if len(rest)%2 != 1 {
			return parseErrorf(file, pos, "alternating (condition, branch) pairs followed by a default in WHERE(...)", "unbalanced argument count")
		}

		return requirePositional(file, rest, pos)
	default:
		return nil
	}
}

func requirePositional(file *source.File, args []ast.Arg, pos int) *Error {
	for _, a := range args {
		if a.Name != "" {
			return parseErrorf(file, pos, "positional argument", "named argument '"+a.Name+"'")
		}
	}

	return nil
}

func (p *Parser) parseIdent() (string, *Error) {
	t := p.cur()

	switch t.Kind {
	case lex.IDENT:
		text := t.Text(p.contents)
		if lex.Keywords[text] {
			return "", parseErrorf(p.file, t.Start, "identifier", "reserved word '"+text+"'")
		}

		p.advance()

		return text, nil
	case lex.QIDENT:
		text := t.Text(p.contents)
		p.advance()

		return text[1 : len(text)-1], nil
	default:
		return "", parseErrorf(p.file, t.Start, "identifier", p.describeCur())
	}
}
