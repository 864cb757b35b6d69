/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parser

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/dburkart/strata/pkg/common/parse"
	"github.com/dburkart/strata/pkg/lexer"
	"github.com/dburkart/strata/pkg/token"
)

type ErrorKind int

const (
	// ErrEOF means input ended while a construct was still open.
	ErrEOF ErrorKind = iota
	// ErrUnrecognizedToken means no rule could continue at a token.
	ErrUnrecognizedToken
)

func (k ErrorKind) String() string {
	if k == ErrEOF {
		return "EOF"
	}
	return "UnrecognizedToken"
}

// ParseError is a syntax error located at the furthest token any rule
// reached.
type ParseError struct {
	Kind     ErrorKind
	Location parse.Location
	// Token is set for ErrUnrecognizedToken.
	Token *token.Token
	// Expected lists the token kinds that would have let parsing continue.
	Expected []token.TokenType
	// Detail explains semantic failures such as undecodable strings.
	Detail     string
	SourcePath string
}

func (e *ParseError) Message() string {
	msg := "unexpected end of input"
	if e.Kind == ErrUnrecognizedToken {
		msg = fmt.Sprintf("unrecognized token '%s'", e.Token)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ParseError) Error() string {
	if e.SourcePath != "" {
		return fmt.Sprintf("%s:%s: %s", e.SourcePath, e.Location, e.Message())
	}
	return fmt.Sprintf("%s: %s", e.Location, e.Message())
}

// SyntaxError converts the error into a caret-renderable syntax error.
func (e *ParseError) SyntaxError() parse.SyntaxError {
	width := 1
	if e.Token != nil {
		if w := utf8.RuneCountInString(e.Token.String()); w > 1 {
			width = w
		}
	}
	return parse.NewSyntaxError(e.Location, width, e.Message())
}

// newParseError maps the furthest failure position to a ParseError.
func (p *parser) newParseError() *ParseError {
	e := &ParseError{Detail: p.detail}

	for k := range p.expected {
		e.Expected = append(e.Expected, k)
	}
	sort.Slice(e.Expected, func(i, j int) bool { return e.Expected[i] < e.Expected[j] })

	if p.furthest >= p.s.Len() {
		e.Kind = ErrEOF
		if n := p.s.Len(); n > 0 {
			e.Location = p.s.spans[n-1].end
		}
		return e
	}

	t := p.s.Token(p.furthest)
	e.Kind = ErrUnrecognizedToken
	e.Location = t.Start
	e.Token = &t.Tok
	return e
}

// FormatError renders a lexical or syntax error from parsing source with a
// caret under the offending column. Other errors are returned as text.
func FormatError(err error, source string) string {
	var syntax parse.SyntaxError

	var parseErr *ParseError
	var lexErr *lexer.Error
	switch {
	case errors.As(err, &parseErr):
		syntax = parseErr.SyntaxError()
	case errors.As(err, &lexErr):
		syntax = parse.NewSyntaxError(lexErr.Location, 1, lexErr.Message)
	default:
		return err.Error() + "\n"
	}
	return syntax.FormatError(source)
}
