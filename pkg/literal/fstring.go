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
)

type fstringParser struct {
	src       string
	pos       int
	loc       parse.Location
	parseExpr ExprParser

	start, end parse.Location
}

// parse consumes literal text and replacement fields. Inside a format spec it
// stops at the closing brace of the enclosing field.
func (f *fstringParser) parse(j *joiner, spec bool) error {
	for f.pos < len(f.src) {
		c := f.src[f.pos]

		switch {
		case c == '{' && !spec && f.peek(1) == '{':
			j.text("{")
			f.pos += 2
		case c == '{':
			value, err := f.field()
			if err != nil {
				return err
			}
			j.value(value)
		case c == '}' && spec:
			return nil
		case c == '}' && f.peek(1) == '}':
			j.text("}")
			f.pos += 2
		case c == '}':
			return ErrSingleBrace
		default:
			j.pending.WriteByte(c)
			f.pos++
		}
	}

	if spec {
		return ErrUnclosedField
	}
	return nil
}

func (f *fstringParser) peek(n int) byte {
	if f.pos+n < len(f.src) {
		return f.src[f.pos+n]
	}
	return 0
}

// field parses `{expression[!conversion][:spec]}` starting at the open brace.
func (f *fstringParser) field() (ast.Expr, error) {
	f.pos++
	exprStart := f.pos

	depth := 0
	var quote byte
scan:
	for ; f.pos < len(f.src); f.pos++ {
		c := f.src[f.pos]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']':
			depth--
		case '}':
			if depth == 0 {
				break scan
			}
			depth--
		case '!':
			if depth == 0 && f.peek(1) != '=' {
				break scan
			}
		case ':':
			if depth == 0 {
				break scan
			}
		}
	}

	if f.pos >= len(f.src) {
		return nil, ErrUnclosedField
	}

	source := f.src[exprStart:f.pos]
	if strings.TrimSpace(source) == "" {
		return nil, ErrEmptyExpression
	}

	value, err := f.parseExpr(source, f.loc)
	if err != nil {
		return nil, errors.Wrap(err, "f-string expression")
	}

	fv := &ast.FormattedValue{Value: value}
	fv.SetSpan(f.start, f.end)

	if f.src[f.pos] == '!' {
		switch f.peek(1) {
		case 's', 'r', 'a':
			fv.Conversion = rune(f.peek(1))
			f.pos += 2
		default:
			return nil, ErrConversion
		}
	}

	if f.pos < len(f.src) && f.src[f.pos] == ':' {
		f.pos++
		spec := &joiner{start: f.start, end: f.end}
		if err := f.parse(spec, true); err != nil {
			return nil, err
		}
		fv.FormatSpec = spec.joined()
	}

	if f.pos >= len(f.src) || f.src[f.pos] != '}' {
		return nil, ErrUnclosedField
	}
	f.pos++

	return fv, nil
}
