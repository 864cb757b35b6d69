/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parser

import (
	"github.com/dburkart/strata/pkg/ast"
	"github.com/dburkart/strata/pkg/common/parse"
	"github.com/dburkart/strata/pkg/lexer"
	"github.com/dburkart/strata/pkg/literal"
	"github.com/dburkart/strata/pkg/token"
)

func (p *parser) nameExpr(pos int, ctx ast.ExprContext) (ast.Expr, int, bool) {
	id, q, ok := p.name(pos)
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.Name{Id: id, Ctx: ctx}), q, true
}

// primary is the left-recursive chain of attribute access, calls and
// subscripts over an atom.
//
// Grammar:
//
//	primary: primary '.' NAME
//	       | primary genexp
//	       | primary '(' [arguments] ')'
//	       | primary '[' slices ']'
//	       | atom
func (p *parser) primary(pos int) (ast.Expr, int, bool) {
	return growLeft(p, rulePrimary, pos, func(pos int) (ast.Expr, int, bool) {
		if value, q, ok := p.primary(pos); ok {
			if r, ok := p.tok(q, token.TOK_DOT); ok {
				if attr, r, ok := p.name(r); ok {
					return located(p, pos, r, &ast.Attribute{Value: value, Attr: attr, Ctx: ast.Load}), r, true
				}
			}
			if gen, r, ok := p.genexp(q); ok {
				return located(p, pos, r, &ast.Call{Func: value, Args: []ast.Expr{gen}}), r, true
			}
			if args, r, ok := par(p, q, p.optionalArguments); ok {
				return located(p, pos, r, &ast.Call{Func: value, Args: args.args, Keywords: args.keywords}), r, true
			}
			if slice, r, ok := sqb(p, q, p.slices); ok {
				return located(p, pos, r, &ast.Subscript{Value: value, Slice: slice, Ctx: ast.Load}), r, true
			}
		}
		return p.atom(pos)
	})
}

func (p *parser) slices(pos int) (ast.Expr, int, bool) {
	if s, q, ok := p.slice(pos); ok && p.notTok(q, token.TOK_COMMA) {
		return s, q, true
	}

	elts, q, ok := sepBy1(p, pos, token.TOK_COMMA, func(pos int) (ast.Expr, int, bool) {
		if s, q, ok := p.slice(pos); ok {
			return s, q, true
		}
		return p.starredExpression(pos)
	})
	if !ok {
		return nil, pos, false
	}
	if r, ok := p.tok(q, token.TOK_COMMA); ok {
		q = r
	}
	return located(p, pos, q, &ast.Tuple{Elts: elts, Ctx: ast.Load}), q, true
}

func (p *parser) slice(pos int) (ast.Expr, int, bool) {
	// [expression] ':' [expression] [':' [expression]]
	lower, q, _ := p.expression(pos)
	if q, ok := p.tok(q, token.TOK_COLON); ok {
		s := &ast.Slice{Lower: lower}
		s.Upper, q, _ = p.expression(q)
		if r, ok := p.tok(q, token.TOK_COLON); ok {
			s.Step, q, _ = p.expression(r)
		}
		return located(p, pos, q, s), q, true
	}

	return p.namedExpression(pos)
}

func (p *parser) atom(pos int) (ast.Expr, int, bool) {
	if e, q, ok := p.nameExpr(pos, ast.Load); ok {
		return e, q, true
	}
	if e, q, ok := p.constant(pos); ok {
		return e, q, true
	}
	if e, q, ok := p.strings(pos); ok {
		return e, q, true
	}

	type alternative func(int) (ast.Expr, int, bool)
	var alternatives []alternative
	switch {
	case p.lookahead(pos, token.TOK_LPAR):
		alternatives = []alternative{p.tuple, p.group, p.genexp}
	case p.lookahead(pos, token.TOK_LSQB):
		alternatives = []alternative{p.list, p.listcomp}
	case p.lookahead(pos, token.TOK_LBRACE):
		alternatives = []alternative{p.dict, p.set, p.dictcomp, p.setcomp}
	}

	for _, alt := range alternatives {
		if e, q, ok := alt(pos); ok {
			return e, q, true
		}
	}
	return nil, pos, false
}

var constantKinds = []token.TokenType{
	token.TOK_TRUE, token.TOK_FALSE, token.TOK_NONE, token.TOK_INT,
	token.TOK_FLOAT, token.TOK_COMPLEX, token.TOK_ELLIPSIS,
}

func (p *parser) constant(pos int) (ast.Expr, int, bool) {
	kind, q, ok := p.oneOf(pos, constantKinds...)
	if !ok {
		return nil, pos, false
	}

	index := p.s.tokens[pos].index
	c := &ast.Constant{}
	switch kind {
	case token.TOK_TRUE:
		c.Value = ast.BoolValue(true)
	case token.TOK_FALSE:
		c.Value = ast.BoolValue(false)
	case token.TOK_NONE:
		c.Value = ast.NoneValue{}
	case token.TOK_INT:
		c.Value = ast.IntValue{Int: p.s.ints[index]}
	case token.TOK_FLOAT:
		c.Value = ast.FloatValue(p.s.floats[index])
	case token.TOK_COMPLEX:
		v := p.s.complexes[index]
		c.Value = ast.ComplexValue{Real: v[0], Imag: v[1]}
	case token.TOK_ELLIPSIS:
		c.Value = ast.EllipsisValue{}
	}
	return located(p, pos, q, c), q, true
}

// strings concatenates a run of adjacent string tokens.
func (p *parser) strings(pos int) (ast.Expr, int, bool) {
	return memoize(p, ruleStrings, pos, func(pos int) (ast.Expr, int, bool) {
		var parts []literal.Part
		q := pos
		for p.kind(q) == token.TOK_STRING {
			lit := p.s.strings[p.s.tokens[q].index]
			parts = append(parts, literal.Part{
				Value:  lit.value,
				Kind:   lit.kind,
				Triple: lit.triple,
				Start:  p.s.spans[q].start,
				End:    p.s.spans[q].end,
			})
			q++
		}
		if len(parts) == 0 {
			p.fail(pos, token.TOK_STRING)
			return nil, pos, false
		}

		e, err := literal.Decode(parts, parseFormattedExpr)
		if err != nil {
			p.log.Debug().Err(err).Msg("string literal rejected")
			p.failDetail(pos, "string format error")
			return nil, pos, false
		}
		return e, q, true
	})
}

// parseFormattedExpr parses the expression of an f-string replacement field
// by lexing it in parentheses, so that it may span lines.
func parseFormattedExpr(source string, loc parse.Location) (ast.Expr, error) {
	mod, err := Parse(lexer.NewAt("("+source+")", loc), ModeExpression)
	if err != nil {
		return nil, err
	}
	return mod.(*ast.Expression).Body, nil
}

func (p *parser) group(pos int) (ast.Expr, int, bool) {
	return par(p, pos, func(pos int) (ast.Expr, int, bool) {
		if e, q, ok := p.yieldExpr(pos); ok {
			return e, q, true
		}
		return p.namedExpression(pos)
	})
}

func (p *parser) tuple(pos int) (ast.Expr, int, bool) {
	elts, q, ok := par(p, pos, func(pos int) ([]ast.Expr, int, bool) {
		first, q, ok := p.starNamedExpression(pos)
		if !ok {
			return nil, pos, true
		}
		q, ok = p.tok(q, token.TOK_COMMA)
		if !ok {
			return nil, pos, true
		}
		rest, q, _ := p.starNamedExpressions(q)
		return append([]ast.Expr{first}, rest...), q, true
	})
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.Tuple{Elts: elts, Ctx: ast.Load}), q, true
}

func (p *parser) list(pos int) (ast.Expr, int, bool) {
	elts, q, ok := sqb(p, pos, p.optionalStarNamedExpressions)
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.List{Elts: elts, Ctx: ast.Load}), q, true
}

func (p *parser) optionalStarNamedExpressions(pos int) ([]ast.Expr, int, bool) {
	elts, q, _ := p.starNamedExpressions(pos)
	return elts, q, true
}

func (p *parser) set(pos int) (ast.Expr, int, bool) {
	elts, q, ok := brace(p, pos, p.starNamedExpressions)
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.Set{Elts: elts}), q, true
}

type kvPair struct {
	key   ast.Expr
	value ast.Expr
}

func (p *parser) dict(pos int) (ast.Expr, int, bool) {
	pairs, q, ok := brace(p, pos, func(pos int) ([]kvPair, int, bool) {
		pairs, q, ok := sepBy1(p, pos, token.TOK_COMMA, p.doubleStarredKVPair)
		if !ok {
			return nil, pos, true
		}
		if r, ok := p.tok(q, token.TOK_COMMA); ok {
			q = r
		}
		return pairs, q, true
	})
	if !ok {
		return nil, pos, false
	}

	d := &ast.Dict{}
	for _, kv := range pairs {
		d.Keys = append(d.Keys, kv.key)
		d.Values = append(d.Values, kv.value)
	}
	return located(p, pos, q, d), q, true
}

// doubleStarredKVPair matches `'**' bitwise_or` (with a nil key) or a
// key/value pair.
func (p *parser) doubleStarredKVPair(pos int) (kvPair, int, bool) {
	if q, ok := p.tok(pos, token.TOK_DOUBLE_STAR); ok {
		if value, q, ok := p.bitwiseOr(q); ok {
			return kvPair{value: value}, q, true
		}
	}
	return p.kvPair(pos)
}

func (p *parser) kvPair(pos int) (kvPair, int, bool) {
	key, q, ok := p.expression(pos)
	if !ok {
		return kvPair{}, pos, false
	}
	q, ok = p.tok(q, token.TOK_COLON)
	if !ok {
		return kvPair{}, pos, false
	}
	value, q, ok := p.expression(q)
	if !ok {
		return kvPair{}, pos, false
	}
	return kvPair{key, value}, q, true
}

func (p *parser) forIfClauses(pos int) ([]*ast.Comprehension, int, bool) {
	return many1(pos, p.forIfClause)
}

// forIfClause matches `['async'] 'for' star_targets 'in' disjunction ('if' disjunction)*`.
func (p *parser) forIfClause(pos int) (*ast.Comprehension, int, bool) {
	c := &ast.Comprehension{}
	q := pos
	if r, ok := p.tok(q, token.TOK_ASYNC); ok {
		c.IsAsync, q = true, r
	}

	q, ok := p.tok(q, token.TOK_FOR)
	if !ok {
		return nil, pos, false
	}
	c.Target, q, ok = p.starTargets(q)
	if !ok {
		return nil, pos, false
	}
	q, ok = p.tok(q, token.TOK_IN)
	if !ok {
		return nil, pos, false
	}
	c.Iter, q, ok = p.disjunction(q)
	if !ok {
		return nil, pos, false
	}

	for {
		r, ok := p.tok(q, token.TOK_IF)
		if !ok {
			break
		}
		cond, r, ok := p.disjunction(r)
		if !ok {
			break
		}
		c.Ifs = append(c.Ifs, cond)
		q = r
	}

	return located(p, pos, q, c), q, true
}

// comprehension matches `open elt for_if_clauses close`.
func (p *parser) comprehension(pos int, open, close token.TokenType, elt func(int) (ast.Expr, int, bool)) (ast.Expr, []*ast.Comprehension, int, bool) {
	type body struct {
		elt  ast.Expr
		gens []*ast.Comprehension
	}

	b, q, ok := delimited(p, pos, open, close, func(pos int) (body, int, bool) {
		e, q, ok := elt(pos)
		if !ok {
			return body{}, pos, false
		}
		gens, q, ok := p.forIfClauses(q)
		if !ok {
			return body{}, pos, false
		}
		return body{e, gens}, q, true
	})
	if !ok {
		return nil, nil, pos, false
	}
	return b.elt, b.gens, q, true
}

func (p *parser) listcomp(pos int) (ast.Expr, int, bool) {
	elt, gens, q, ok := p.comprehension(pos, token.TOK_LSQB, token.TOK_RSQB, p.namedExpression)
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.ListComp{Elt: elt, Generators: gens}), q, true
}

func (p *parser) setcomp(pos int) (ast.Expr, int, bool) {
	elt, gens, q, ok := p.comprehension(pos, token.TOK_LBRACE, token.TOK_RBRACE, p.namedExpression)
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.SetComp{Elt: elt, Generators: gens}), q, true
}

func (p *parser) genexp(pos int) (ast.Expr, int, bool) {
	elt := func(pos int) (ast.Expr, int, bool) {
		if e, q, ok := p.assignmentExpression(pos); ok {
			return e, q, true
		}
		return p.expressionNotWalrus(pos)
	}

	e, gens, q, ok := p.comprehension(pos, token.TOK_LPAR, token.TOK_RPAR, elt)
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.GeneratorExp{Elt: e, Generators: gens}), q, true
}

func (p *parser) dictcomp(pos int) (ast.Expr, int, bool) {
	var pair kvPair
	elt := func(pos int) (ast.Expr, int, bool) {
		kv, q, ok := p.kvPair(pos)
		if !ok {
			return nil, pos, false
		}
		pair = kv
		return kv.value, q, true
	}

	_, gens, q, ok := p.comprehension(pos, token.TOK_LBRACE, token.TOK_RBRACE, elt)
	if !ok {
		return nil, pos, false
	}
	d := &ast.DictComp{Key: pair.key, Value: pair.value, Generators: gens}
	return located(p, pos, q, d), q, true
}
