/*
 * Copyright (c) 2022-2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package token

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/dburkart/strata/pkg/common/parse"
)

type TokenType int

const (
	TOK_INVALID TokenType = iota

	// Literals
	TOK_NAME
	TOK_INT
	TOK_FLOAT
	TOK_COMPLEX
	TOK_STRING

	// Layout
	TOK_NEWLINE
	TOK_NL
	TOK_INDENT
	TOK_DEDENT
	TOK_EOF
	TOK_COMMENT

	// Punctuation and operators
	TOK_LPAR
	TOK_RPAR
	TOK_LSQB
	TOK_RSQB
	TOK_COLON
	TOK_COMMA
	TOK_SEMI
	TOK_PLUS
	TOK_MINUS
	TOK_STAR
	TOK_SLASH
	TOK_VBAR
	TOK_AMPER
	TOK_LESS
	TOK_GREATER
	TOK_EQUAL
	TOK_DOT
	TOK_PERCENT
	TOK_LBRACE
	TOK_RBRACE
	TOK_EQ_EQUAL
	TOK_NOT_EQUAL
	TOK_LESS_EQUAL
	TOK_GREATER_EQUAL
	TOK_TILDE
	TOK_CIRCUMFLEX
	TOK_LEFT_SHIFT
	TOK_RIGHT_SHIFT
	TOK_DOUBLE_STAR
	TOK_DOUBLE_STAR_EQUAL
	TOK_PLUS_EQUAL
	TOK_MINUS_EQUAL
	TOK_STAR_EQUAL
	TOK_SLASH_EQUAL
	TOK_PERCENT_EQUAL
	TOK_AMPER_EQUAL
	TOK_VBAR_EQUAL
	TOK_CIRCUMFLEX_EQUAL
	TOK_LEFT_SHIFT_EQUAL
	TOK_RIGHT_SHIFT_EQUAL
	TOK_DOUBLE_SLASH
	TOK_DOUBLE_SLASH_EQUAL
	TOK_COLON_EQUAL
	TOK_AT
	TOK_AT_EQUAL
	TOK_RARROW
	TOK_ELLIPSIS

	// Keywords
	TOK_FALSE
	TOK_NONE
	TOK_TRUE
	TOK_AND
	TOK_AS
	TOK_ASSERT
	TOK_ASYNC
	TOK_AWAIT
	TOK_BREAK
	TOK_CLASS
	TOK_CONTINUE
	TOK_DEF
	TOK_DEL
	TOK_ELIF
	TOK_ELSE
	TOK_EXCEPT
	TOK_FINALLY
	TOK_FOR
	TOK_FROM
	TOK_GLOBAL
	TOK_IF
	TOK_IMPORT
	TOK_IN
	TOK_IS
	TOK_LAMBDA
	TOK_NONLOCAL
	TOK_NOT
	TOK_OR
	TOK_PASS
	TOK_RAISE
	TOK_RETURN
	TOK_TRY
	TOK_WHILE
	TOK_WITH
	TOK_YIELD

	tokenTypeCount
)

var names = [tokenTypeCount]string{
	TOK_INVALID:            "TOK_INVALID",
	TOK_NAME:               "TOK_NAME",
	TOK_INT:                "TOK_INT",
	TOK_FLOAT:              "TOK_FLOAT",
	TOK_COMPLEX:            "TOK_COMPLEX",
	TOK_STRING:             "TOK_STRING",
	TOK_NEWLINE:            "TOK_NEWLINE",
	TOK_NL:                 "TOK_NL",
	TOK_INDENT:             "TOK_INDENT",
	TOK_DEDENT:             "TOK_DEDENT",
	TOK_EOF:                "TOK_EOF",
	TOK_COMMENT:            "TOK_COMMENT",
	TOK_LPAR:               "TOK_LPAR",
	TOK_RPAR:               "TOK_RPAR",
	TOK_LSQB:               "TOK_LSQB",
	TOK_RSQB:               "TOK_RSQB",
	TOK_COLON:              "TOK_COLON",
	TOK_COMMA:              "TOK_COMMA",
	TOK_SEMI:               "TOK_SEMI",
	TOK_PLUS:               "TOK_PLUS",
	TOK_MINUS:              "TOK_MINUS",
	TOK_STAR:               "TOK_STAR",
	TOK_SLASH:              "TOK_SLASH",
	TOK_VBAR:               "TOK_VBAR",
	TOK_AMPER:              "TOK_AMPER",
	TOK_LESS:               "TOK_LESS",
	TOK_GREATER:            "TOK_GREATER",
	TOK_EQUAL:              "TOK_EQUAL",
	TOK_DOT:                "TOK_DOT",
	TOK_PERCENT:            "TOK_PERCENT",
	TOK_LBRACE:             "TOK_LBRACE",
	TOK_RBRACE:             "TOK_RBRACE",
	TOK_EQ_EQUAL:           "TOK_EQ_EQUAL",
	TOK_NOT_EQUAL:          "TOK_NOT_EQUAL",
	TOK_LESS_EQUAL:         "TOK_LESS_EQUAL",
	TOK_GREATER_EQUAL:      "TOK_GREATER_EQUAL",
	TOK_TILDE:              "TOK_TILDE",
	TOK_CIRCUMFLEX:         "TOK_CIRCUMFLEX",
	TOK_LEFT_SHIFT:         "TOK_LEFT_SHIFT",
	TOK_RIGHT_SHIFT:        "TOK_RIGHT_SHIFT",
	TOK_DOUBLE_STAR:        "TOK_DOUBLE_STAR",
	TOK_DOUBLE_STAR_EQUAL:  "TOK_DOUBLE_STAR_EQUAL",
	TOK_PLUS_EQUAL:         "TOK_PLUS_EQUAL",
	TOK_MINUS_EQUAL:        "TOK_MINUS_EQUAL",
	TOK_STAR_EQUAL:         "TOK_STAR_EQUAL",
	TOK_SLASH_EQUAL:        "TOK_SLASH_EQUAL",
	TOK_PERCENT_EQUAL:      "TOK_PERCENT_EQUAL",
	TOK_AMPER_EQUAL:        "TOK_AMPER_EQUAL",
	TOK_VBAR_EQUAL:         "TOK_VBAR_EQUAL",
	TOK_CIRCUMFLEX_EQUAL:   "TOK_CIRCUMFLEX_EQUAL",
	TOK_LEFT_SHIFT_EQUAL:   "TOK_LEFT_SHIFT_EQUAL",
	TOK_RIGHT_SHIFT_EQUAL:  "TOK_RIGHT_SHIFT_EQUAL",
	TOK_DOUBLE_SLASH:       "TOK_DOUBLE_SLASH",
	TOK_DOUBLE_SLASH_EQUAL: "TOK_DOUBLE_SLASH_EQUAL",
	TOK_COLON_EQUAL:        "TOK_COLON_EQUAL",
	TOK_AT:                 "TOK_AT",
	TOK_AT_EQUAL:           "TOK_AT_EQUAL",
	TOK_RARROW:             "TOK_RARROW",
	TOK_ELLIPSIS:           "TOK_ELLIPSIS",
	TOK_FALSE:              "TOK_FALSE",
	TOK_NONE:               "TOK_NONE",
	TOK_TRUE:               "TOK_TRUE",
	TOK_AND:                "TOK_AND",
	TOK_AS:                 "TOK_AS",
	TOK_ASSERT:             "TOK_ASSERT",
	TOK_ASYNC:              "TOK_ASYNC",
	TOK_AWAIT:              "TOK_AWAIT",
	TOK_BREAK:              "TOK_BREAK",
	TOK_CLASS:              "TOK_CLASS",
	TOK_CONTINUE:           "TOK_CONTINUE",
	TOK_DEF:                "TOK_DEF",
	TOK_DEL:                "TOK_DEL",
	TOK_ELIF:               "TOK_ELIF",
	TOK_ELSE:               "TOK_ELSE",
	TOK_EXCEPT:             "TOK_EXCEPT",
	TOK_FINALLY:            "TOK_FINALLY",
	TOK_FOR:                "TOK_FOR",
	TOK_FROM:               "TOK_FROM",
	TOK_GLOBAL:             "TOK_GLOBAL",
	TOK_IF:                 "TOK_IF",
	TOK_IMPORT:             "TOK_IMPORT",
	TOK_IN:                 "TOK_IN",
	TOK_IS:                 "TOK_IS",
	TOK_LAMBDA:             "TOK_LAMBDA",
	TOK_NONLOCAL:           "TOK_NONLOCAL",
	TOK_NOT:                "TOK_NOT",
	TOK_OR:                 "TOK_OR",
	TOK_PASS:               "TOK_PASS",
	TOK_RAISE:              "TOK_RAISE",
	TOK_RETURN:             "TOK_RETURN",
	TOK_TRY:                "TOK_TRY",
	TOK_WHILE:              "TOK_WHILE",
	TOK_WITH:               "TOK_WITH",
	TOK_YIELD:              "TOK_YIELD",
}

// text holds the source spelling of every fixed-spelling token.
var text = [tokenTypeCount]string{
	TOK_NEWLINE:            "\n",
	TOK_NL:                 "\n",
	TOK_LPAR:               "(",
	TOK_RPAR:               ")",
	TOK_LSQB:               "[",
	TOK_RSQB:               "]",
	TOK_COLON:              ":",
	TOK_COMMA:              ",",
	TOK_SEMI:               ";",
	TOK_PLUS:               "+",
	TOK_MINUS:              "-",
	TOK_STAR:               "*",
	TOK_SLASH:              "/",
	TOK_VBAR:               "|",
	TOK_AMPER:              "&",
	TOK_LESS:               "<",
	TOK_GREATER:            ">",
	TOK_EQUAL:              "=",
	TOK_DOT:                ".",
	TOK_PERCENT:            "%",
	TOK_LBRACE:             "{",
	TOK_RBRACE:             "}",
	TOK_EQ_EQUAL:           "==",
	TOK_NOT_EQUAL:          "!=",
	TOK_LESS_EQUAL:         "<=",
	TOK_GREATER_EQUAL:      ">=",
	TOK_TILDE:              "~",
	TOK_CIRCUMFLEX:         "^",
	TOK_LEFT_SHIFT:         "<<",
	TOK_RIGHT_SHIFT:        ">>",
	TOK_DOUBLE_STAR:        "**",
	TOK_DOUBLE_STAR_EQUAL:  "**=",
	TOK_PLUS_EQUAL:         "+=",
	TOK_MINUS_EQUAL:        "-=",
	TOK_STAR_EQUAL:         "*=",
	TOK_SLASH_EQUAL:        "/=",
	TOK_PERCENT_EQUAL:      "%=",
	TOK_AMPER_EQUAL:        "&=",
	TOK_VBAR_EQUAL:         "|=",
	TOK_CIRCUMFLEX_EQUAL:   "^=",
	TOK_LEFT_SHIFT_EQUAL:   "<<=",
	TOK_RIGHT_SHIFT_EQUAL:  ">>=",
	TOK_DOUBLE_SLASH:       "//",
	TOK_DOUBLE_SLASH_EQUAL: "//=",
	TOK_COLON_EQUAL:        ":=",
	TOK_AT:                 "@",
	TOK_AT_EQUAL:           "@=",
	TOK_RARROW:             "->",
	TOK_ELLIPSIS:           "...",
	TOK_FALSE:              "False",
	TOK_NONE:               "None",
	TOK_TRUE:               "True",
	TOK_AND:                "and",
	TOK_AS:                 "as",
	TOK_ASSERT:             "assert",
	TOK_ASYNC:              "async",
	TOK_AWAIT:              "await",
	TOK_BREAK:              "break",
	TOK_CLASS:              "class",
	TOK_CONTINUE:           "continue",
	TOK_DEF:                "def",
	TOK_DEL:                "del",
	TOK_ELIF:               "elif",
	TOK_ELSE:               "else",
	TOK_EXCEPT:             "except",
	TOK_FINALLY:            "finally",
	TOK_FOR:                "for",
	TOK_FROM:               "from",
	TOK_GLOBAL:             "global",
	TOK_IF:                 "if",
	TOK_IMPORT:             "import",
	TOK_IN:                 "in",
	TOK_IS:                 "is",
	TOK_LAMBDA:             "lambda",
	TOK_NONLOCAL:           "nonlocal",
	TOK_NOT:                "not",
	TOK_OR:                 "or",
	TOK_PASS:               "pass",
	TOK_RAISE:              "raise",
	TOK_RETURN:             "return",
	TOK_TRY:                "try",
	TOK_WHILE:              "while",
	TOK_WITH:               "with",
	TOK_YIELD:              "yield",
}

var keywords map[string]TokenType

func init() {
	keywords = make(map[string]TokenType)
	for t := TOK_FALSE; t <= TOK_YIELD; t++ {
		keywords[text[t]] = t
	}
}

// Keyword returns the keyword token type for ident, if it is one.
func Keyword(ident string) (TokenType, bool) {
	t, ok := keywords[ident]
	return t, ok
}

func (t TokenType) ToString() string {
	if t < 0 || t >= tokenTypeCount {
		return "TOK_UNKNOWN"
	}
	return names[t]
}

func (t TokenType) String() string {
	return t.ToString()
}

// Text returns the fixed source spelling of t, or "" for literal and layout
// tokens without one.
func (t TokenType) Text() string {
	if t < 0 || t >= tokenTypeCount {
		return ""
	}
	return text[t]
}

// IsLiteral reports whether tokens of this type carry a payload.
func (t TokenType) IsLiteral() bool {
	return t >= TOK_NAME && t <= TOK_STRING
}

// IsKeyword reports whether t is a reserved word.
func (t TokenType) IsKeyword() bool {
	return t >= TOK_FALSE && t <= TOK_YIELD
}

type StringKind int

const (
	StringPlain StringKind = iota
	StringF
	StringBytes
	StringUnicode
)

func (k StringKind) Prefix() string {
	switch k {
	case StringF:
		return "f"
	case StringBytes:
		return "b"
	case StringUnicode:
		return "u"
	}
	return ""
}

// Token is a classified lexical unit. Only the fields matching Type are set:
// Lexeme for names, strings and comments, Int for integers, Float for floats,
// Float and Imag for complex numbers.
type Token struct {
	Type       TokenType
	Lexeme     string
	Int        *big.Int
	Float      float64
	Imag       float64
	StringKind StringKind
	Triple     bool
}

func New(t TokenType) Token {
	return Token{Type: t}
}

func NewName(name string) Token {
	return Token{Type: TOK_NAME, Lexeme: name}
}

func NewInt(v *big.Int) Token {
	return Token{Type: TOK_INT, Int: v}
}

func NewFloat(v float64) Token {
	return Token{Type: TOK_FLOAT, Float: v}
}

func NewComplex(real, imag float64) Token {
	return Token{Type: TOK_COMPLEX, Float: real, Imag: imag}
}

func NewString(value string, kind StringKind, triple bool) Token {
	return Token{Type: TOK_STRING, Lexeme: value, StringKind: kind, Triple: triple}
}

func NewComment(text string) Token {
	return Token{Type: TOK_COMMENT, Lexeme: text}
}

// String reconstructs the literal form of the token.
func (t Token) String() string {
	switch t.Type {
	case TOK_NAME:
		return t.Lexeme
	case TOK_INT:
		if t.Int == nil {
			return "0"
		}
		return t.Int.String()
	case TOK_FLOAT:
		return FormatFloat(t.Float)
	case TOK_COMPLEX:
		if t.Float == 0 {
			return FormatFloat(t.Imag) + "j"
		}
		sign := "+"
		if t.Imag < 0 {
			sign = ""
		}
		return "(" + FormatFloat(t.Float) + sign + FormatFloat(t.Imag) + "j)"
	case TOK_STRING:
		return t.StringKind.Prefix() + strconv.Quote(t.Lexeme)
	case TOK_COMMENT:
		return "#" + t.Lexeme
	case TOK_INDENT:
		return "<indent>"
	case TOK_DEDENT:
		return "<dedent>"
	case TOK_EOF:
		return "<eof>"
	}
	if s := t.Type.Text(); s != "" {
		return s
	}
	return t.Type.ToString()
}

// FormatFloat renders f the way the source language prints floats: always
// with a fractional part or exponent.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnI") {
		s += ".0"
	}
	return s
}

// Spanned is a token together with its source span.
type Spanned struct {
	Start parse.Location
	Tok   Token
	End   parse.Location
}

// Result is one element of a lexer's output: either a token or an error.
type Result struct {
	Spanned
	Err error
}
