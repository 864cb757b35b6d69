/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parser

import (
	"io"
	"math/big"

	"github.com/dburkart/strata/pkg/common/parse"
	"github.com/dburkart/strata/pkg/token"
)

// pegTok is an interned token. For literal kinds index points into the
// matching literal table of the session.
type pegTok struct {
	kind  token.TokenType
	index uint32
}

type span struct {
	start parse.Location
	end   parse.Location
}

type stringLiteral struct {
	value  string
	kind   token.StringKind
	triple bool
}

// Session holds the interned token stream of exactly one parse. It is
// read-only once NewSession returns.
type Session struct {
	tokens []pegTok
	spans  []span

	names     []string
	ints      []*big.Int
	floats    []float64
	complexes [][2]float64
	strings   []stringLiteral
}

// NewSession drains src and interns every token. A lexical error aborts
// interning and is returned unchanged.
func NewSession(src token.Source) (*Session, error) {
	s := &Session{}

	for {
		t, err := src.NextToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		s.intern(t)
	}

	return s, nil
}

func (s *Session) intern(t token.Spanned) {
	tok := pegTok{kind: t.Tok.Type}

	switch t.Tok.Type {
	case token.TOK_COMMENT, token.TOK_NL:
		// Non-semantic
		return
	case token.TOK_NAME:
		s.names = append(s.names, t.Tok.Lexeme)
		tok.index = uint32(len(s.names) - 1)
	case token.TOK_INT:
		s.ints = append(s.ints, t.Tok.Int)
		tok.index = uint32(len(s.ints) - 1)
	case token.TOK_FLOAT:
		s.floats = append(s.floats, t.Tok.Float)
		tok.index = uint32(len(s.floats) - 1)
	case token.TOK_COMPLEX:
		s.complexes = append(s.complexes, [2]float64{t.Tok.Float, t.Tok.Imag})
		tok.index = uint32(len(s.complexes) - 1)
	case token.TOK_STRING:
		s.strings = append(s.strings, stringLiteral{t.Tok.Lexeme, t.Tok.StringKind, t.Tok.Triple})
		tok.index = uint32(len(s.strings) - 1)
	}

	s.tokens = append(s.tokens, tok)
	s.spans = append(s.spans, span{t.Start, t.End})
}

// Len returns the number of interned tokens.
func (s *Session) Len() int {
	return len(s.tokens)
}

func (s *Session) kind(pos int) token.TokenType {
	if pos < len(s.tokens) {
		return s.tokens[pos].kind
	}
	return token.TOK_INVALID
}

// Token reconstructs the token at pos from the literal tables.
func (s *Session) Token(pos int) token.Spanned {
	t := s.tokens[pos]
	out := token.Spanned{Start: s.spans[pos].start, End: s.spans[pos].end}

	switch t.kind {
	case token.TOK_NAME:
		out.Tok = token.NewName(s.names[t.index])
	case token.TOK_INT:
		out.Tok = token.NewInt(s.ints[t.index])
	case token.TOK_FLOAT:
		out.Tok = token.NewFloat(s.floats[t.index])
	case token.TOK_COMPLEX:
		c := s.complexes[t.index]
		out.Tok = token.NewComplex(c[0], c[1])
	case token.TOK_STRING:
		lit := s.strings[t.index]
		out.Tok = token.NewString(lit.value, lit.kind, lit.triple)
	default:
		out.Tok = token.New(t.kind)
	}

	return out
}

// Tokens returns every interned token in order.
func (s *Session) Tokens() []token.Spanned {
	out := make([]token.Spanned, len(s.tokens))
	for i := range s.tokens {
		out[i] = s.Token(i)
	}
	return out
}
