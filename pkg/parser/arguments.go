/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parser

import (
	"github.com/dburkart/strata/pkg/ast"
	"github.com/dburkart/strata/pkg/token"
)

// callArgs is a call argument list split into positional and keyword
// arguments.
type callArgs struct {
	args     []ast.Expr
	keywords []*ast.Keyword
}

// argItem is a keyword argument or a starred positional argument.
type argItem struct {
	keyword *ast.Keyword
	starred ast.Expr
}

func (c *callArgs) add(items []argItem) {
	for _, item := range items {
		if item.keyword != nil {
			c.keywords = append(c.keywords, item.keyword)
		} else {
			c.args = append(c.args, item.starred)
		}
	}
}

// arguments matches `args [','] &')'`.
func (p *parser) arguments(pos int) (callArgs, int, bool) {
	return memoize(p, ruleArguments, pos, func(pos int) (callArgs, int, bool) {
		args, q, ok := p.args(pos)
		if !ok {
			return callArgs{}, pos, false
		}
		if r, ok := p.tok(q, token.TOK_COMMA); ok {
			q = r
		}
		if !p.lookahead(q, token.TOK_RPAR) {
			return callArgs{}, pos, false
		}
		return args, q, true
	})
}

// optionalArguments always succeeds, with an empty argument list when no
// arguments are present.
func (p *parser) optionalArguments(pos int) (callArgs, int, bool) {
	args, q, _ := p.arguments(pos)
	return args, q, true
}

func (p *parser) args(pos int) (callArgs, int, bool) {
	positional, q, ok := sepBy1(p, pos, token.TOK_COMMA, p.positionalArg)
	if ok {
		args := callArgs{args: positional}
		if r, ok := p.tok(q, token.TOK_COMMA); ok {
			if items, r, ok := p.kwargs(r); ok {
				args.add(items)
				q = r
			}
		}
		return args, q, true
	}

	items, q, ok := p.kwargs(pos)
	if !ok {
		return callArgs{}, pos, false
	}
	args := callArgs{}
	args.add(items)
	return args, q, true
}

// positionalArg matches a starred expression, or a (possibly walrus)
// expression not followed by '='.
func (p *parser) positionalArg(pos int) (ast.Expr, int, bool) {
	if e, q, ok := p.starredExpression(pos); ok {
		return e, q, true
	}

	e, q, ok := p.assignmentExpression(pos)
	if !ok {
		e, q, ok = p.expressionNotWalrus(pos)
	}
	if !ok || !p.notTok(q, token.TOK_EQUAL) {
		return nil, pos, false
	}
	return e, q, true
}

func (p *parser) kwargs(pos int) ([]argItem, int, bool) {
	starred, q, ok := sepBy1(p, pos, token.TOK_COMMA, p.kwargOrStarred)
	if ok {
		if r, ok := p.tok(q, token.TOK_COMMA); ok {
			if doubled, r, ok := sepBy1(p, r, token.TOK_COMMA, p.kwargOrDoubleStarred); ok {
				return append(starred, doubled...), r, true
			}
		}
		return starred, q, true
	}

	return sepBy1(p, pos, token.TOK_COMMA, p.kwargOrDoubleStarred)
}

func (p *parser) starredExpression(pos int) (ast.Expr, int, bool) {
	q, ok := p.tok(pos, token.TOK_STAR)
	if !ok {
		return nil, pos, false
	}
	value, q, ok := p.expression(q)
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.Starred{Value: value, Ctx: ast.Load}), q, true
}

// keywordArg matches `NAME '=' expression`.
func (p *parser) keywordArg(pos int) (*ast.Keyword, int, bool) {
	name, q, ok := p.name(pos)
	if !ok {
		return nil, pos, false
	}
	q, ok = p.tok(q, token.TOK_EQUAL)
	if !ok {
		return nil, pos, false
	}
	value, q, ok := p.expression(q)
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.Keyword{Arg: name, Value: value}), q, true
}

func (p *parser) kwargOrStarred(pos int) (argItem, int, bool) {
	if k, q, ok := p.keywordArg(pos); ok {
		return argItem{keyword: k}, q, true
	}
	if e, q, ok := p.starredExpression(pos); ok {
		return argItem{starred: e}, q, true
	}
	return argItem{}, pos, false
}

func (p *parser) kwargOrDoubleStarred(pos int) (argItem, int, bool) {
	if k, q, ok := p.keywordArg(pos); ok {
		return argItem{keyword: k}, q, true
	}

	q, ok := p.tok(pos, token.TOK_DOUBLE_STAR)
	if !ok {
		return argItem{}, pos, false
	}
	value, q, ok := p.expression(q)
	if !ok {
		return argItem{}, pos, false
	}
	return argItem{keyword: located(p, pos, q, &ast.Keyword{Value: value})}, q, true
}
