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

// Assignment, for-loop and del targets are parsed by their own rule family
// so that only assignable shapes are accepted and each node carries the
// right context.

func (p *parser) starTargets(pos int) (ast.Expr, int, bool) {
	if t, q, ok := p.starTarget(pos); ok && p.notTok(q, token.TOK_COMMA) {
		return t, q, true
	}

	first, q, ok := p.starTarget(pos)
	if !ok {
		return nil, pos, false
	}

	elts := []ast.Expr{first}
	for {
		r, ok := p.tok(q, token.TOK_COMMA)
		if !ok {
			break
		}
		next, r, ok := p.starTarget(r)
		if !ok {
			break
		}
		elts = append(elts, next)
		q = r
	}
	if r, ok := p.tok(q, token.TOK_COMMA); ok {
		q = r
	}
	return located(p, pos, q, &ast.Tuple{Elts: elts, Ctx: ast.Store}), q, true
}

func (p *parser) starTargetsList(pos int) ([]ast.Expr, int, bool) {
	elts, q, ok := sepBy1(p, pos, token.TOK_COMMA, p.starTarget)
	if !ok {
		return nil, pos, false
	}
	if r, ok := p.tok(q, token.TOK_COMMA); ok {
		q = r
	}
	return elts, q, true
}

// starTargetsTuple matches the inside of a parenthesized target tuple. It
// needs at least one comma, and rejects `(a,,)`.
func (p *parser) starTargetsTuple(pos int) ([]ast.Expr, int, bool) {
	first, q, ok := p.starTarget(pos)
	if !ok {
		return nil, pos, false
	}
	q, ok = p.tok(q, token.TOK_COMMA)
	if !ok {
		return nil, pos, false
	}

	elts := []ast.Expr{first}
	if rest, r, ok := sepBy1(p, q, token.TOK_COMMA, p.starTarget); ok {
		elts = append(elts, rest...)
		q = r
	}

	if r, ok := p.tok(q, token.TOK_COMMA); ok {
		if len(elts) == 1 {
			p.failDetail(q, "invalid token ','")
			return nil, pos, false
		}
		q = r
	}
	return elts, q, true
}

func (p *parser) starTarget(pos int) (ast.Expr, int, bool) {
	return memoize(p, ruleStarTarget, pos, func(pos int) (ast.Expr, int, bool) {
		// '*' !'*' star_target
		if q, ok := p.tok(pos, token.TOK_STAR); ok && p.notTok(q, token.TOK_STAR) {
			if value, q, ok := p.starTarget(q); ok {
				return located(p, pos, q, &ast.Starred{Value: value, Ctx: ast.Store}), q, true
			}
		}
		return p.targetWithStarAtom(pos)
	})
}

func (p *parser) targetWithStarAtom(pos int) (ast.Expr, int, bool) {
	return memoize(p, ruleTargetWithStarAtom, pos, func(pos int) (ast.Expr, int, bool) {
		if t, q, ok := p.singleSubscriptAttributeTarget(pos, ast.Store); ok {
			return t, q, true
		}
		return p.starAtom(pos)
	})
}

func (p *parser) starAtom(pos int) (ast.Expr, int, bool) {
	if t, q, ok := p.nameExpr(pos, ast.Store); ok {
		return t, q, true
	}
	if t, q, ok := par(p, pos, p.targetWithStarAtom); ok {
		return t, q, true
	}

	elts, q, ok := par(p, pos, func(pos int) ([]ast.Expr, int, bool) {
		elts, q, _ := p.starTargetsTuple(pos)
		return elts, q, true
	})
	if ok {
		return located(p, pos, q, &ast.Tuple{Elts: elts, Ctx: ast.Store}), q, true
	}

	elts, q, ok = sqb(p, pos, func(pos int) ([]ast.Expr, int, bool) {
		elts, q, _ := p.starTargetsList(pos)
		return elts, q, true
	})
	if ok {
		return located(p, pos, q, &ast.List{Elts: elts, Ctx: ast.Store}), q, true
	}
	return nil, pos, false
}

func (p *parser) singleTarget(pos int) (ast.Expr, int, bool) {
	if t, q, ok := p.singleSubscriptAttributeTarget(pos, ast.Store); ok {
		return t, q, true
	}
	if t, q, ok := p.nameExpr(pos, ast.Store); ok {
		return t, q, true
	}
	return par(p, pos, p.singleTarget)
}

// singleSubscriptAttributeTarget matches an attribute or subscript whose
// outermost access receives ctx. Inner accesses stay Load.
func (p *parser) singleSubscriptAttributeTarget(pos int, ctx ast.ExprContext) (ast.Expr, int, bool) {
	value, q, ok := p.tPrimary(pos)
	if !ok {
		return nil, pos, false
	}

	if r, ok := p.tok(q, token.TOK_DOT); ok {
		if attr, r, ok := p.name(r); ok && p.not(r, p.tLookahead) {
			return located(p, pos, r, &ast.Attribute{Value: value, Attr: attr, Ctx: ctx}), r, true
		}
	}

	if slice, r, ok := sqb(p, q, p.slices); ok && p.not(r, p.tLookahead) {
		return located(p, pos, r, &ast.Subscript{Value: value, Slice: slice, Ctx: ctx}), r, true
	}
	return nil, pos, false
}

// tPrimary is the primary chain of a target, minus its final access. Every
// alternative must be followed by another '(' '[' or '.'.
func (p *parser) tPrimary(pos int) (ast.Expr, int, bool) {
	return growLeft(p, ruleTPrimary, pos, func(pos int) (ast.Expr, int, bool) {
		if value, q, ok := p.tPrimary(pos); ok {
			if r, ok := p.tok(q, token.TOK_DOT); ok {
				if attr, r, ok := p.name(r); ok && p.tLookahead(r) {
					return located(p, pos, r, &ast.Attribute{Value: value, Attr: attr, Ctx: ast.Load}), r, true
				}
			}
			if slice, r, ok := sqb(p, q, p.slices); ok && p.tLookahead(r) {
				return located(p, pos, r, &ast.Subscript{Value: value, Slice: slice, Ctx: ast.Load}), r, true
			}
			if gen, r, ok := p.genexp(q); ok && p.tLookahead(r) {
				return located(p, pos, r, &ast.Call{Func: value, Args: []ast.Expr{gen}}), r, true
			}
			if args, r, ok := par(p, q, p.optionalArguments); ok && p.tLookahead(r) {
				return located(p, pos, r, &ast.Call{Func: value, Args: args.args, Keywords: args.keywords}), r, true
			}
		}

		if a, q, ok := p.atom(pos); ok && p.tLookahead(q) {
			return a, q, true
		}
		return nil, pos, false
	})
}

func (p *parser) tLookahead(pos int) bool {
	return p.lookahead(pos, token.TOK_LPAR, token.TOK_LSQB, token.TOK_DOT)
}

func (p *parser) delTargets(pos int) ([]ast.Expr, int, bool) {
	targets, q, ok := sepBy1(p, pos, token.TOK_COMMA, p.delTarget)
	if !ok {
		return nil, pos, false
	}
	if r, ok := p.tok(q, token.TOK_COMMA); ok {
		q = r
	}
	return targets, q, true
}

func (p *parser) delTarget(pos int) (ast.Expr, int, bool) {
	return memoize(p, ruleDelTarget, pos, func(pos int) (ast.Expr, int, bool) {
		if t, q, ok := p.singleSubscriptAttributeTarget(pos, ast.Del); ok {
			return t, q, true
		}
		return p.delTAtom(pos)
	})
}

func (p *parser) delTAtom(pos int) (ast.Expr, int, bool) {
	if t, q, ok := p.nameExpr(pos, ast.Del); ok {
		return t, q, true
	}
	if t, q, ok := par(p, pos, p.delTarget); ok {
		return t, q, true
	}
	if elts, q, ok := par(p, pos, p.delTargets); ok {
		return located(p, pos, q, &ast.Tuple{Elts: elts, Ctx: ast.Del}), q, true
	}
	if elts, q, ok := sqb(p, pos, p.delTargets); ok {
		return located(p, pos, q, &ast.List{Elts: elts, Ctx: ast.Del}), q, true
	}
	return nil, pos, false
}
