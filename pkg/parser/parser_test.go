/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parser

import (
	"math/big"
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/dburkart/strata/pkg/ast"
	"github.com/dburkart/strata/pkg/common/parse"
	"github.com/dburkart/strata/pkg/lexer"
	"github.com/dburkart/strata/pkg/token"
)

func parseModule(t *testing.T, source string) *ast.Module {
	t.Helper()
	mod, err := ParseString(source, ModeModule)
	if err != nil {
		t.Fatalf("failed to parse %q: %s", source, err)
	}
	return mod.(*ast.Module)
}

func parseExpression(t *testing.T, source string) ast.Expr {
	t.Helper()
	mod, err := ParseString(source, ModeExpression)
	if err != nil {
		t.Fatalf("failed to parse %q: %s", source, err)
	}
	return mod.(*ast.Expression).Body
}

func assertDump(t *testing.T, node ast.Node, want string) {
	t.Helper()
	if got := ast.Dump(node); got != want {
		t.Errorf("unexpected tree:\n%s\nwanted:\n%s", got, want)
	}
}

func assertSpan(t *testing.T, node ast.Node, start, end parse.Location) {
	t.Helper()
	if node.Start() != start || node.End() != end {
		t.Errorf("%s: wanted span %s-%s, got %s-%s", node.Kind(), start, end, node.Start(), node.End())
	}
}

func TestParseModuleStatements(t *testing.T) {
	mod := parseModule(t, "x = 1\ny = 2; z = 3\nif x:\n    pass\n")
	if len(mod.Body) != 4 {
		t.Fatalf("wanted 4 statements, got %d", len(mod.Body))
	}

	if _, ok := mod.Body[3].(*ast.If); !ok {
		t.Errorf("wanted last statement to be *ast.If, found %s", reflect.TypeOf(mod.Body[3]))
	}
}

func TestParseEmptyModule(t *testing.T) {
	mod := parseModule(t, "")
	if len(mod.Body) != 0 {
		t.Errorf("wanted an empty module, got %d statements", len(mod.Body))
	}

	mod = parseModule(t, "# only a comment\n\n")
	if len(mod.Body) != 0 {
		t.Errorf("wanted an empty module, got %d statements", len(mod.Body))
	}
}

func TestArithmeticTree(t *testing.T) {
	mod := parseModule(t, "x = 1 + 2 * 3")
	assertDump(t, mod, `Module[]
    Assign[]
        Name[x Store]
        BinOp[Add]
            Constant[1]
            BinOp[Mult]
                Constant[2]
                Constant[3]
`)

	assign := mod.Body[0].(*ast.Assign)
	assertSpan(t, assign, parse.NewLocation(1, 0), parse.NewLocation(1, 13))
	assertSpan(t, assign.Value, parse.NewLocation(1, 4), parse.NewLocation(1, 13))
}

func TestLeftAssociativeOperators(t *testing.T) {
	assertDump(t, parseExpression(t, "a - b - c"), `BinOp[Sub]
    BinOp[Sub]
        Name[a Load]
        Name[b Load]
    Name[c Load]
`)

	assertDump(t, parseExpression(t, "a << b | c & d"), `BinOp[BitOr]
    BinOp[LShift]
        Name[a Load]
        Name[b Load]
    BinOp[BitAnd]
        Name[c Load]
        Name[d Load]
`)

	assertDump(t, parseExpression(t, "a % b // c"), `BinOp[FloorDiv]
    BinOp[Mod]
        Name[a Load]
        Name[b Load]
    Name[c Load]
`)

	assertDump(t, parseModule(t, "x %= 2\n"), `Module[]
    AugAssign[Mod]
        Name[x Store]
        Constant[2]
`)
}

func TestPowerIsRightAssociative(t *testing.T) {
	assertDump(t, parseExpression(t, "a ** b ** c"), `BinOp[Pow]
    Name[a Load]
    BinOp[Pow]
        Name[b Load]
        Name[c Load]
`)

	assertDump(t, parseExpression(t, "-a ** b"), `UnaryOp[USub]
    BinOp[Pow]
        Name[a Load]
        Name[b Load]
`)
}

func TestChainedComparison(t *testing.T) {
	e := parseExpression(t, "a < b < c")
	assertDump(t, e, `Compare[Lt Lt]
    Name[a Load]
    Name[b Load]
    Name[c Load]
`)

	assertDump(t, parseExpression(t, "a not in b is not c"), `Compare[NotIn IsNot]
    Name[a Load]
    Name[b Load]
    Name[c Load]
`)
}

func TestBooleanOperators(t *testing.T) {
	assertDump(t, parseExpression(t, "a or b and not c or d"), `BoolOp[Or]
    Name[a Load]
    BoolOp[And]
        Name[b Load]
        UnaryOp[Not]
            Name[c Load]
    Name[d Load]
`)
}

func TestTrailingCommaMakesTuple(t *testing.T) {
	e := parseExpression(t, "x,")
	tuple, ok := e.(*ast.Tuple)
	if !ok {
		t.Fatalf("wanted *ast.Tuple, found %s", reflect.TypeOf(e))
	}
	if len(tuple.Elts) != 1 {
		t.Errorf("wanted a single element, got %d", len(tuple.Elts))
	}
	assertSpan(t, tuple, parse.NewLocation(1, 0), parse.NewLocation(1, 2))

	if _, ok := parseExpression(t, "x").(*ast.Name); !ok {
		t.Errorf("wanted a bare name without a trailing comma")
	}
	if _, ok := parseExpression(t, "(x)").(*ast.Name); !ok {
		t.Errorf("wanted parentheses to group, not build a tuple")
	}
	if tuple, ok := parseExpression(t, "()").(*ast.Tuple); !ok || len(tuple.Elts) != 0 {
		t.Errorf("wanted an empty tuple")
	}
}

func TestPrimaryChain(t *testing.T) {
	e := parseExpression(t, "a.b[0](1).c")
	assertDump(t, e, `Attribute[c Load]
    Call[]
        Subscript[Load]
            Attribute[b Load]
                Name[a Load]
            Constant[0]
        Constant[1]
`)
	assertSpan(t, e, parse.NewLocation(1, 0), parse.NewLocation(1, 11))
}

func TestCallArguments(t *testing.T) {
	assertDump(t, parseExpression(t, "f(a, *b, c=1, **d)"), `Call[]
    Name[f Load]
    Name[a Load]
    Starred[Load]
        Name[b Load]
    Keyword[c]
        Constant[1]
    Keyword[**]
        Name[d Load]
`)

	assertDump(t, parseExpression(t, "f(x for x in y)"), `Call[]
    Name[f Load]
    GeneratorExp[]
        Name[x Load]
        Comprehension[]
            Name[x Store]
            Name[y Load]
`)
}

func TestSlices(t *testing.T) {
	assertDump(t, parseExpression(t, "a[1:2, ::3]"), `Subscript[Load]
    Name[a Load]
    Tuple[Load]
        Slice[]
            Constant[1]
            Constant[2]
        Slice[]
            Constant[3]
`)
}

func TestContainers(t *testing.T) {
	assertDump(t, parseExpression(t, "{a: 1, **b}"), `Dict[]
    Name[a Load]
    Constant[1]
    Name[b Load]
`)

	assertDump(t, parseExpression(t, "[x * 2 for x in y if x]"), `ListComp[]
    BinOp[Mult]
        Name[x Load]
        Constant[2]
    Comprehension[]
        Name[x Store]
        Name[y Load]
        Name[x Load]
`)

	assertDump(t, parseExpression(t, "{1, 2}"), `Set[]
    Constant[1]
    Constant[2]
`)
}

func TestLambdaAndConditional(t *testing.T) {
	assertDump(t, parseExpression(t, "lambda x, *a, k=1: x if k else a"), `Lambda[]
    Arguments[args=1 vararg kwonly=1 kw_defaults=1]
        Arg[x]
        Arg[a]
        Arg[k]
        Constant[1]
    IfExp[]
        Name[k Load]
        Name[x Load]
        Name[a Load]
`)
}

func TestAssignmentTargets(t *testing.T) {
	assertDump(t, parseModule(t, "a.b = 1\n"), `Module[]
    Assign[]
        Attribute[b Store]
            Name[a Load]
        Constant[1]
`)

	assertDump(t, parseModule(t, "a[0] = 1\n"), `Module[]
    Assign[]
        Subscript[Store]
            Name[a Load]
            Constant[0]
        Constant[1]
`)

	assertDump(t, parseModule(t, "a, *b = c = d\n"), `Module[]
    Assign[]
        Tuple[Store]
            Name[a Store]
            Starred[Store]
                Name[b Store]
        Name[c Store]
        Name[d Load]
`)

	assertDump(t, parseModule(t, "x.y += 1\n"), `Module[]
    AugAssign[Add]
        Attribute[y Store]
            Name[x Load]
        Constant[1]
`)

	assertDump(t, parseModule(t, "x: int = 1\n"), `Module[]
    AnnAssign[simple]
        Name[x Store]
        Name[int Load]
        Constant[1]
`)
}

func TestAssignmentToLiteralFails(t *testing.T) {
	_, err := ParseString("1 = 2\n", ModeModule)

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("wanted a *ParseError, got %v", err)
	}
	if perr.Kind != ErrUnrecognizedToken || perr.Token.Type != token.TOK_EQUAL {
		t.Errorf("wanted failure at '=', got %s", perr)
	}
	if perr.Location != parse.NewLocation(1, 2) {
		t.Errorf("wanted failure at 1:2, got %s", perr.Location)
	}
}

func TestDelTargets(t *testing.T) {
	assertDump(t, parseModule(t, "del a, b[0], (c, d)\n"), `Module[]
    Delete[]
        Name[a Del]
        Subscript[Del]
            Name[b Load]
            Constant[0]
        Tuple[Del]
            Name[c Del]
            Name[d Del]
`)
}

func TestImports(t *testing.T) {
	assertDump(t, parseModule(t, "import a.b as c, d\nfrom ..e import (f, g as h)\nfrom . import *\n"), `Module[]
    Import[]
        Alias[a.b as c]
        Alias[d]
    ImportFrom[e level=2]
        Alias[f]
        Alias[g as h]
    ImportFrom[level=1]
        Alias[*]
`)
}

func TestFunctionDef(t *testing.T) {
	mod := parseModule(t, "@d\nasync def f(a, /, b=1, *, c, d=2, **e) -> int:\n    return a\n")
	def := mod.Body[0].(*ast.FunctionDef)

	if !def.IsAsync || def.Name != "f" {
		t.Errorf("wanted async f, got %s", def.Label())
	}
	if len(def.DecoratorList) != 1 || def.Returns == nil {
		t.Errorf("wanted a decorator and a return annotation")
	}

	args := def.Args
	if len(args.Posonlyargs) != 1 || len(args.Args) != 1 || len(args.Defaults) != 1 {
		t.Errorf("unexpected positional parameters: %+v", args)
	}
	if args.Kwarg == nil || args.Kwarg.Arg != "e" {
		t.Errorf("wanted **e, got %+v", args.Kwarg)
	}

	// Keyword-only defaults line up with their parameters
	if len(args.Kwonlyargs) != 2 || len(args.KwDefaults) != 2 {
		t.Fatalf("wanted 2 keyword-only parameters with 2 default slots, got %d and %d",
			len(args.Kwonlyargs), len(args.KwDefaults))
	}
	if args.KwDefaults[0] != nil || args.KwDefaults[1] == nil {
		t.Errorf("wanted only the second keyword-only parameter to have a default")
	}
	if got := args.Label(); got != "posonly=1 args=1 kwonly=2 kw_defaults=1 kwarg defaults=1" {
		t.Errorf("unexpected parameter layout %q", got)
	}

	// Decorators are outside the span, the trailing newline is not included
	assertSpan(t, def, parse.NewLocation(2, 0), parse.NewLocation(3, 12))
}

func TestClassDef(t *testing.T) {
	assertDump(t, parseModule(t, "class A(B, metaclass=M):\n    x = 1\n"), `Module[]
    ClassDef[A]
        Name[B Load]
        Keyword[metaclass]
            Name[M Load]
        Assign[]
            Name[x Store]
            Constant[1]
`)
}

func TestCompoundStatements(t *testing.T) {
	source := `for x in y:
    break
else:
    pass
while x:
    continue
with a as b, c:
    pass
try:
    pass
except E as e:
    raise X from e
finally:
    pass
`
	assertDump(t, parseModule(t, source), `Module[]
    For[]
        Name[x Store]
        Name[y Load]
        Break[]
        Pass[]
    While[]
        Name[x Load]
        Continue[]
    With[]
        WithItem[]
            Name[a Load]
            Name[b Store]
        WithItem[]
            Name[c Load]
        Pass[]
    Try[]
        Pass[]
        ExceptHandler[e]
            Name[E Load]
            Raise[]
                Name[X Load]
                Name[e Load]
        Pass[]
`)
}

func TestBlockSpans(t *testing.T) {
	mod := parseModule(t, "if a:\n    b\nc\n")
	assertSpan(t, mod.Body[0], parse.NewLocation(1, 0), parse.NewLocation(2, 5))
	assertSpan(t, mod.Body[1], parse.NewLocation(3, 0), parse.NewLocation(3, 1))

	// Nested blocks end at their last real token too
	mod = parseModule(t, "while a:\n    if b:\n        c\n")
	while := mod.Body[0].(*ast.While)
	assertSpan(t, while, parse.NewLocation(1, 0), parse.NewLocation(3, 9))
	assertSpan(t, while.Body[0], parse.NewLocation(2, 4), parse.NewLocation(3, 9))
}

func TestElifEndsWithItsBlock(t *testing.T) {
	mod := parseModule(t, "if a:\n    pass\nelif b:\n    pass\nelse:\n    pass\n")
	outer := mod.Body[0].(*ast.If)
	assertSpan(t, outer, parse.NewLocation(1, 0), parse.NewLocation(6, 8))

	if len(outer.Orelse) != 1 {
		t.Fatalf("wanted the elif as the only orelse statement, got %d", len(outer.Orelse))
	}
	elif := outer.Orelse[0].(*ast.If)
	assertSpan(t, elif, parse.NewLocation(3, 0), parse.NewLocation(4, 8))
	if len(elif.Orelse) != 1 {
		t.Errorf("wanted the else body on the elif, got %d statements", len(elif.Orelse))
	}

	// A chain of elifs nests, each ending with its own block
	mod = parseModule(t, "if a:\n    x\nelif b:\n    y\nelif c:\n    z\n")
	first := mod.Body[0].(*ast.If).Orelse[0].(*ast.If)
	assertSpan(t, first, parse.NewLocation(3, 0), parse.NewLocation(4, 5))
	second := first.Orelse[0].(*ast.If)
	assertSpan(t, second, parse.NewLocation(5, 0), parse.NewLocation(6, 5))
}

func TestStrings(t *testing.T) {
	assertDump(t, parseExpression(t, `"a" 'b'`), `Constant["ab"]
`)

	assertDump(t, parseExpression(t, `f"{x!r:>{w}}"`), `JoinedStr[]
    FormattedValue[!r]
        Name[x Load]
        JoinedStr[]
            Constant[">"]
            FormattedValue[]
                Name[w Load]
`)
}

func TestStringFormatError(t *testing.T) {
	_, err := ParseString(`x = f"{}"`, ModeModule)

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("wanted a *ParseError, got %v", err)
	}
	if perr.Detail != "string format error" {
		t.Errorf("wanted a string format error, got %q", perr.Detail)
	}
	if perr.Location != parse.NewLocation(1, 4) {
		t.Errorf("wanted the error at the string, got %s", perr.Location)
	}
}

func TestConstants(t *testing.T) {
	e := parseExpression(t, "123456789012345678901234567890")
	c := e.(*ast.Constant)
	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	if v, ok := c.Value.(ast.IntValue); !ok || v.Int.Cmp(want) != 0 {
		t.Errorf("wanted %s, got %s", want, c.Value)
	}

	tests := map[string]string{
		"None":    "None",
		"True":    "True",
		"...":     "...",
		"1.5":     "1.5",
		`b"\x00"`: `b"\x00"`,
	}
	for input, label := range tests {
		if got := parseExpression(t, input).Label(); got != label {
			t.Errorf("%s: wanted %s, got %s", input, label, got)
		}
	}
}

// functionHeader spells out `def f(:` followed by an indented pass. The
// lexer would reject the unclosed parenthesis, so the tokens are built by
// hand.
func functionHeader() token.Source {
	at := func(row, col int, tok token.Token, width int) token.Spanned {
		return token.Spanned{
			Start: parse.NewLocation(row, col),
			Tok:   tok,
			End:   parse.NewLocation(row, col+width),
		}
	}
	return token.FromTokens([]token.Spanned{
		at(1, 0, token.New(token.TOK_DEF), 3),
		at(1, 4, token.NewName("f"), 1),
		at(1, 5, token.New(token.TOK_LPAR), 1),
		at(1, 6, token.New(token.TOK_COLON), 1),
		at(1, 7, token.New(token.TOK_NEWLINE), 1),
		at(2, 0, token.New(token.TOK_INDENT), 4),
		at(2, 4, token.New(token.TOK_PASS), 4),
		at(2, 8, token.New(token.TOK_NEWLINE), 1),
		at(3, 0, token.New(token.TOK_DEDENT), 0),
	})
}

func TestUnrecognizedToken(t *testing.T) {
	_, err := Parse(functionHeader(), ModeModule)

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("wanted a *ParseError, got %v", err)
	}
	if perr.Kind != ErrUnrecognizedToken {
		t.Fatalf("wanted an unrecognized token, got %s", perr.Kind)
	}
	if perr.Token.Type != token.TOK_COLON || perr.Location != parse.NewLocation(1, 6) {
		t.Errorf("wanted ':' at 1:6, got '%s' at %s", perr.Token, perr.Location)
	}

	found := false
	for _, k := range perr.Expected {
		if k == token.TOK_RPAR {
			found = true
		}
	}
	if !found {
		t.Errorf("wanted ')' among the expected tokens, got %v", perr.Expected)
	}

	if got, want := perr.Error(), "1:6: unrecognized token ':'"; got != want {
		t.Errorf("wanted %q, got %q", want, got)
	}
}

func TestUnexpectedEOF(t *testing.T) {
	_, err := ParseString("if x:\n", ModeModule, WithSourcePath("main.py"))

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("wanted a *ParseError, got %v", err)
	}
	if perr.Kind != ErrEOF {
		t.Fatalf("wanted EOF, got %s", perr.Kind)
	}
	if perr.Location != parse.NewLocation(1, 6) {
		t.Errorf("wanted the end of the last token, got %s", perr.Location)
	}
	if got, want := perr.Error(), "main.py:1:6: unexpected end of input"; got != want {
		t.Errorf("wanted %q, got %q", want, got)
	}
}

func TestLexicalErrorsPassThrough(t *testing.T) {
	_, err := ParseString("x = (1\n", ModeModule)

	var lerr *lexer.Error
	if !errors.As(err, &lerr) {
		t.Fatalf("wanted a *lexer.Error, got %v", err)
	}

	var perr *ParseError
	if errors.As(err, &perr) {
		t.Errorf("lexical errors should not be mapped to a ParseError")
	}
}

func TestModes(t *testing.T) {
	mod, err := ParseString("if x:\n    y\n", ModeInteractive)
	if err != nil {
		t.Fatal(err)
	}
	if body := mod.(*ast.Interactive).Body; len(body) != 1 {
		t.Errorf("wanted a single statement, got %d", len(body))
	}

	// Only one statement is accepted interactively
	if _, err := ParseString("x\ny\n", ModeInteractive); err == nil {
		t.Errorf("wanted a second statement to be rejected")
	}

	// Statements are not expressions
	if _, err := ParseString("x = 1", ModeExpression); err == nil {
		t.Errorf("wanted an assignment to be rejected in expression mode")
	}

	for name, want := range map[string]Mode{"exec": ModeModule, "single": ModeInteractive, "expression": ModeExpression} {
		if m, err := ParseMode(name); err != nil || m != want {
			t.Errorf("%s: wanted %s, got %s (%v)", name, want, m, err)
		}
	}
	if _, err := ParseMode("bogus"); err == nil {
		t.Errorf("wanted an unknown mode to be rejected")
	}
}

func TestReparseIsDeterministic(t *testing.T) {
	source := "def f(x):\n    return [y for y in x if y]\n\nprint(f(range(3)))\n"

	tokens, err := lexer.Tokenize(source)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSession(token.FromTokens(tokens))
	if err != nil {
		t.Fatal(err)
	}

	spans := func(mod ast.Mod) []parse.Location {
		var out []parse.Location
		ast.Inspect(mod, func(n ast.Node) bool {
			out = append(out, n.Start(), n.End())
			return true
		})
		return out
	}

	first, err := s.Parse(ModeModule)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Parse(ModeModule)
	if err != nil {
		t.Fatal(err)
	}

	if ast.Dump(first) != ast.Dump(second) {
		t.Errorf("trees differ between parses")
	}
	if !reflect.DeepEqual(spans(first), spans(second)) {
		t.Errorf("spans differ between parses")
	}
}

func TestStats(t *testing.T) {
	var stats Stats
	_, err := ParseString("a + b * c\n", ModeModule, WithStats(&stats))
	if err != nil {
		t.Fatal(err)
	}

	if stats.Tokens != 6 {
		t.Errorf("wanted 6 tokens, got %d", stats.Tokens)
	}
	if stats.MemoEntries == 0 || stats.GrowIterations == 0 {
		t.Errorf("wanted the memo table to be used, got %+v", stats)
	}
}

func nested(open, close string, depth int) string {
	return strings.Repeat(open, depth) + "x" + strings.Repeat(close, depth)
}

// Memo work must grow linearly with nesting depth.
func TestMemoGrowthIsLinear(t *testing.T) {
	tests := []struct {
		name        string
		open, close string
	}{
		{"parens", "(", ")"},
		{"lists", "[", "]"},
		{"calls", "f(", ")"},
	}

	measure := func(t *testing.T, source string) Stats {
		t.Helper()
		var stats Stats
		if _, err := ParseString(source, ModeExpression, WithStats(&stats)); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		return stats
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shallow := measure(t, nested(tt.open, tt.close, 50))
			deep := measure(t, nested(tt.open, tt.close, 200))

			if deep.MemoEntries <= shallow.MemoEntries {
				t.Fatalf("wanted more memo entries when nesting deeper, got %d and %d",
					shallow.MemoEntries, deep.MemoEntries)
			}

			// Four times the depth; quadratic growth would be sixteen times
			if deep.MemoEntries > 5*shallow.MemoEntries {
				t.Errorf("memo entries grew from %d to %d for 4x the depth",
					shallow.MemoEntries, deep.MemoEntries)
			}
			if deep.MemoHits > 5*shallow.MemoHits {
				t.Errorf("memo hits grew from %d to %d for 4x the depth",
					shallow.MemoHits, deep.MemoHits)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	source := "x = 1\ny = = 2\n"
	_, err := ParseString(source, ModeModule)
	if err == nil {
		t.Fatal("wanted a syntax error")
	}

	want := "Syntax error found at 2:4:\ny = = 2\n    ^ unrecognized token '='\n"
	if got := FormatError(err, source); got != want {
		t.Errorf("wanted:\n%q\ngot:\n%q", want, got)
	}

	source = "x = $\n"
	_, err = ParseString(source, ModeModule)
	want = "Syntax error found at 1:4:\nx = $\n    ^ invalid character '$'\n"
	if got := FormatError(err, source); got != want {
		t.Errorf("wanted:\n%q\ngot:\n%q", want, got)
	}
}
