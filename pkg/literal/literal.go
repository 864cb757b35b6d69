/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package literal

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/dburkart/strata/pkg/ast"
	"github.com/dburkart/strata/pkg/common/parse"
	"github.com/dburkart/strata/pkg/token"
)

var (
	ErrNoParts         = errors.New("no string literals to decode")
	ErrMixedBytes      = errors.New("cannot mix bytes and nonbytes literals")
	ErrSingleBrace     = errors.New("f-string: single '}' is not allowed")
	ErrEmptyExpression = errors.New("f-string: empty expression not allowed")
	ErrUnclosedField   = errors.New("f-string: expecting '}'")
	ErrConversion      = errors.New("f-string: invalid conversion character: expected 's', 'r', or 'a'")
)

// Part is one string token of an implicitly concatenated literal. Value has
// escapes already resolved.
type Part struct {
	Value  string
	Kind   token.StringKind
	Triple bool
	Start  parse.Location
	End    parse.Location
}

// ExprParser parses the source of an f-string replacement field.
type ExprParser func(source string, loc parse.Location) (ast.Expr, error)

// Decode joins adjacent string literals into a single Constant, or a
// JoinedStr when any part is an f-string. Every produced node spans the whole
// run of parts.
func Decode(parts []Part, parseExpr ExprParser) (ast.Expr, error) {
	if len(parts) == 0 {
		return nil, ErrNoParts
	}

	start, end := parts[0].Start, parts[len(parts)-1].End
	isBytes := parts[0].Kind == token.StringBytes
	hasFormat := false

	for _, p := range parts {
		if (p.Kind == token.StringBytes) != isBytes {
			return nil, ErrMixedBytes
		}
		if p.Kind == token.StringF {
			hasFormat = true
		}
	}

	if !hasFormat {
		var b strings.Builder
		for _, p := range parts {
			b.WriteString(p.Value)
		}

		c := &ast.Constant{}
		if isBytes {
			c.Value = ast.BytesValue(b.String())
		} else {
			c.Value = ast.StrValue(b.String())
			if parts[0].Kind == token.StringUnicode {
				c.StringKind = "u"
			}
		}
		c.SetSpan(start, end)
		return c, nil
	}

	j := &joiner{start: start, end: end}
	for _, p := range parts {
		if p.Kind != token.StringF {
			j.text(p.Value)
			continue
		}

		f := fstringParser{src: p.Value, loc: p.Start, parseExpr: parseExpr, start: start, end: end}
		if err := f.parse(j, false); err != nil {
			return nil, err
		}
	}

	return j.joined(), nil
}

// joiner accumulates the values of a JoinedStr, merging adjacent literal text
// into a single Constant.
type joiner struct {
	start, end parse.Location
	pending    strings.Builder
	values     []ast.Expr
}

func (j *joiner) text(s string) {
	j.pending.WriteString(s)
}

func (j *joiner) value(e ast.Expr) {
	j.flush()
	j.values = append(j.values, e)
}

func (j *joiner) flush() {
	if j.pending.Len() == 0 {
		return
	}
	c := &ast.Constant{Value: ast.StrValue(j.pending.String())}
	c.SetSpan(j.start, j.end)
	j.values = append(j.values, c)
	j.pending.Reset()
}

func (j *joiner) joined() *ast.JoinedStr {
	j.flush()
	s := &ast.JoinedStr{Values: j.values}
	s.SetSpan(j.start, j.end)
	return s
}
