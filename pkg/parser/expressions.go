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

// opTable maps operator tokens to AST operators, in match order.
type opTable struct {
	kinds []token.TokenType
	ops   []ast.Operator
}

func (t opTable) lookup(kind token.TokenType) ast.Operator {
	for i, k := range t.kinds {
		if k == kind {
			return t.ops[i]
		}
	}
	panic("operator table has no entry for " + kind.ToString())
}

var (
	bitwiseOrOps  = opTable{[]token.TokenType{token.TOK_VBAR}, []ast.Operator{ast.BitOr}}
	bitwiseXorOps = opTable{[]token.TokenType{token.TOK_CIRCUMFLEX}, []ast.Operator{ast.BitXor}}
	bitwiseAndOps = opTable{[]token.TokenType{token.TOK_AMPER}, []ast.Operator{ast.BitAnd}}
	shiftOps      = opTable{
		[]token.TokenType{token.TOK_LEFT_SHIFT, token.TOK_RIGHT_SHIFT},
		[]ast.Operator{ast.LShift, ast.RShift},
	}
	sumOps = opTable{
		[]token.TokenType{token.TOK_PLUS, token.TOK_MINUS},
		[]ast.Operator{ast.Add, ast.Sub},
	}
	termOps = opTable{
		[]token.TokenType{token.TOK_STAR, token.TOK_SLASH, token.TOK_DOUBLE_SLASH, token.TOK_PERCENT, token.TOK_AT},
		[]ast.Operator{ast.Mult, ast.Div, ast.FloorDiv, ast.Modulo, ast.MatMult},
	}
)

var factorOps = map[token.TokenType]ast.UnaryOperator{
	token.TOK_PLUS:  ast.UAdd,
	token.TOK_MINUS: ast.USub,
	token.TOK_TILDE: ast.Invert,
}

type compareOp struct {
	first, second token.TokenType
	op            ast.CmpOperator
}

// Two-token operators precede their one-token prefixes.
var compareOps = []compareOp{
	{token.TOK_EQ_EQUAL, token.TOK_INVALID, ast.Eq},
	{token.TOK_NOT_EQUAL, token.TOK_INVALID, ast.NotEq},
	{token.TOK_LESS_EQUAL, token.TOK_INVALID, ast.LtE},
	{token.TOK_LESS, token.TOK_INVALID, ast.Lt},
	{token.TOK_GREATER_EQUAL, token.TOK_INVALID, ast.GtE},
	{token.TOK_GREATER, token.TOK_INVALID, ast.Gt},
	{token.TOK_NOT, token.TOK_IN, ast.NotIn},
	{token.TOK_IN, token.TOK_INVALID, ast.In},
	{token.TOK_IS, token.TOK_NOT, ast.IsNot},
	{token.TOK_IS, token.TOK_INVALID, ast.Is},
}

// packTuple matches `item (',' item)* [',']`. A single item without a
// trailing comma is returned as is; anything else becomes a Tuple.
func (p *parser) packTuple(pos int, ctx ast.ExprContext, item func(int) (ast.Expr, int, bool)) (ast.Expr, int, bool) {
	first, q, ok := item(pos)
	if !ok {
		return nil, pos, false
	}

	elts := []ast.Expr{first}
	for {
		r, ok := p.tok(q, token.TOK_COMMA)
		if !ok {
			break
		}
		next, r, ok := item(r)
		if !ok {
			break
		}
		elts = append(elts, next)
		q = r
	}

	trailing := false
	if r, ok := p.tok(q, token.TOK_COMMA); ok {
		trailing, q = true, r
	}

	if len(elts) == 1 && !trailing {
		return first, q, true
	}
	return located(p, pos, q, &ast.Tuple{Elts: elts, Ctx: ctx}), q, true
}

func (p *parser) expressions(pos int) (ast.Expr, int, bool) {
	return p.packTuple(pos, ast.Load, p.expression)
}

// expression matches a conditional expression, a disjunction or a lambda.
//
// Grammar:
//
//	expression: disjunction 'if' disjunction 'else' expression
//	          | disjunction
//	          | lambdef
func (p *parser) expression(pos int) (ast.Expr, int, bool) {
	if body, q, ok := p.disjunction(pos); ok {
		if q, ok := p.tok(q, token.TOK_IF); ok {
			if test, q, ok := p.disjunction(q); ok {
				if q, ok := p.tok(q, token.TOK_ELSE); ok {
					if orelse, q, ok := p.expression(q); ok {
						return located(p, pos, q, &ast.IfExp{Test: test, Body: body, Orelse: orelse}), q, true
					}
				}
			}
		}
	}

	if e, q, ok := p.disjunction(pos); ok {
		return e, q, true
	}
	return p.lambdef(pos)
}

func (p *parser) yieldExpr(pos int) (ast.Expr, int, bool) {
	q, ok := p.tok(pos, token.TOK_YIELD)
	if !ok {
		return nil, pos, false
	}

	if r, ok := p.tok(q, token.TOK_FROM); ok {
		if value, r, ok := p.expression(r); ok {
			return located(p, pos, r, &ast.YieldFrom{Value: value}), r, true
		}
	}

	value, q, _ := p.starExpressions(q)
	return located(p, pos, q, &ast.Yield{Value: value}), q, true
}

func (p *parser) starExpressions(pos int) (ast.Expr, int, bool) {
	return p.packTuple(pos, ast.Load, p.starExpression)
}

func (p *parser) starExpression(pos int) (ast.Expr, int, bool) {
	if e, q, ok := p.starredBitwiseOr(pos); ok {
		return e, q, true
	}
	return p.expression(pos)
}

func (p *parser) starNamedExpressions(pos int) ([]ast.Expr, int, bool) {
	elts, q, ok := sepBy1(p, pos, token.TOK_COMMA, p.starNamedExpression)
	if !ok {
		return nil, pos, false
	}
	if r, ok := p.tok(q, token.TOK_COMMA); ok {
		q = r
	}
	return elts, q, true
}

func (p *parser) starNamedExpression(pos int) (ast.Expr, int, bool) {
	if e, q, ok := p.starredBitwiseOr(pos); ok {
		return e, q, true
	}
	return p.namedExpression(pos)
}

// starredBitwiseOr matches `'*' bitwise_or`.
func (p *parser) starredBitwiseOr(pos int) (ast.Expr, int, bool) {
	q, ok := p.tok(pos, token.TOK_STAR)
	if !ok {
		return nil, pos, false
	}
	value, q, ok := p.bitwiseOr(q)
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.Starred{Value: value, Ctx: ast.Load}), q, true
}

// assignmentExpression matches the walrus form `NAME ':=' expression`.
func (p *parser) assignmentExpression(pos int) (ast.Expr, int, bool) {
	target, q, ok := p.nameExpr(pos, ast.Store)
	if !ok {
		return nil, pos, false
	}
	q, ok = p.tok(q, token.TOK_COLON_EQUAL)
	if !ok {
		return nil, pos, false
	}
	value, q, ok := p.expression(q)
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.NamedExpr{Target: target, Value: value}), q, true
}

func (p *parser) namedExpression(pos int) (ast.Expr, int, bool) {
	if e, q, ok := p.assignmentExpression(pos); ok {
		return e, q, true
	}
	return p.expressionNotWalrus(pos)
}

// expressionNotWalrus matches `expression !':='`.
func (p *parser) expressionNotWalrus(pos int) (ast.Expr, int, bool) {
	e, q, ok := p.expression(pos)
	if !ok || !p.notTok(q, token.TOK_COLON_EQUAL) {
		return nil, pos, false
	}
	return e, q, true
}

func (p *parser) disjunction(pos int) (ast.Expr, int, bool) {
	return memoize(p, ruleDisjunction, pos, func(pos int) (ast.Expr, int, bool) {
		return p.boolChain(pos, token.TOK_OR, ast.Or, p.conjunction)
	})
}

func (p *parser) conjunction(pos int) (ast.Expr, int, bool) {
	return memoize(p, ruleConjunction, pos, func(pos int) (ast.Expr, int, bool) {
		return p.boolChain(pos, token.TOK_AND, ast.And, p.inversion)
	})
}

// boolChain matches `operand (keyword operand)*`, flattening two or more
// operands into one BoolOp.
func (p *parser) boolChain(pos int, keyword token.TokenType, op ast.BoolOperator, operand func(int) (ast.Expr, int, bool)) (ast.Expr, int, bool) {
	first, q, ok := operand(pos)
	if !ok {
		return nil, pos, false
	}

	values := []ast.Expr{first}
	for {
		r, ok := p.tok(q, keyword)
		if !ok {
			break
		}
		next, r, ok := operand(r)
		if !ok {
			break
		}
		values = append(values, next)
		q = r
	}

	if len(values) == 1 {
		return first, q, true
	}
	return located(p, pos, q, &ast.BoolOp{Op: op, Values: values}), q, true
}

func (p *parser) inversion(pos int) (ast.Expr, int, bool) {
	return memoize(p, ruleInversion, pos, func(pos int) (ast.Expr, int, bool) {
		if q, ok := p.tok(pos, token.TOK_NOT); ok {
			if operand, q, ok := p.inversion(q); ok {
				return located(p, pos, q, &ast.UnaryOp{Op: ast.Not, Operand: operand}), q, true
			}
		}
		return p.comparison(pos)
	})
}

// comparison keeps a whole chain such as `a < b < c` in one Compare node.
func (p *parser) comparison(pos int) (ast.Expr, int, bool) {
	return memoize(p, ruleComparison, pos, func(pos int) (ast.Expr, int, bool) {
		left, q, ok := p.bitwiseOr(pos)
		if !ok {
			return nil, pos, false
		}

		pairs, q := many(q, p.compareOpPair)
		if len(pairs) == 0 {
			return left, q, true
		}

		cmp := &ast.Compare{Left: left}
		for _, pair := range pairs {
			cmp.Ops = append(cmp.Ops, pair.op)
			cmp.Comparators = append(cmp.Comparators, pair.operand)
		}
		return located(p, pos, q, cmp), q, true
	})
}

type comparePair struct {
	op      ast.CmpOperator
	operand ast.Expr
}

func (p *parser) compareOpPair(pos int) (comparePair, int, bool) {
	return memoize(p, ruleCompareOpPair, pos, func(pos int) (comparePair, int, bool) {
		for _, c := range compareOps {
			q, ok := p.tok(pos, c.first)
			if !ok {
				continue
			}
			if c.second != token.TOK_INVALID {
				if q, ok = p.tok(q, c.second); !ok {
					continue
				}
			}
			if operand, q, ok := p.bitwiseOr(q); ok {
				return comparePair{c.op, operand}, q, true
			}
		}
		return comparePair{}, pos, false
	})
}

// binaryChain evaluates one left-recursive binary operator level:
//
//	self: self op operand | operand
func (p *parser) binaryChain(rule ruleID, pos int, ops opTable, self, operand func(int) (ast.Expr, int, bool)) (ast.Expr, int, bool) {
	return growLeft(p, rule, pos, func(pos int) (ast.Expr, int, bool) {
		if left, q, ok := self(pos); ok {
			if kind, q, ok := p.oneOf(q, ops.kinds...); ok {
				if right, q, ok := operand(q); ok {
					node := &ast.BinOp{Left: left, Op: ops.lookup(kind), Right: right}
					return located(p, pos, q, node), q, true
				}
			}
		}
		return operand(pos)
	})
}

func (p *parser) bitwiseOr(pos int) (ast.Expr, int, bool) {
	return p.binaryChain(ruleBitwiseOr, pos, bitwiseOrOps, p.bitwiseOr, p.bitwiseXor)
}

func (p *parser) bitwiseXor(pos int) (ast.Expr, int, bool) {
	return p.binaryChain(ruleBitwiseXor, pos, bitwiseXorOps, p.bitwiseXor, p.bitwiseAnd)
}

func (p *parser) bitwiseAnd(pos int) (ast.Expr, int, bool) {
	return p.binaryChain(ruleBitwiseAnd, pos, bitwiseAndOps, p.bitwiseAnd, p.shiftExpr)
}

func (p *parser) shiftExpr(pos int) (ast.Expr, int, bool) {
	return p.binaryChain(ruleShiftExpr, pos, shiftOps, p.shiftExpr, p.sum)
}

func (p *parser) sum(pos int) (ast.Expr, int, bool) {
	return p.binaryChain(ruleSum, pos, sumOps, p.sum, p.term)
}

func (p *parser) term(pos int) (ast.Expr, int, bool) {
	return p.binaryChain(ruleTerm, pos, termOps, p.term, p.factor)
}

func (p *parser) factor(pos int) (ast.Expr, int, bool) {
	return memoize(p, ruleFactor, pos, func(pos int) (ast.Expr, int, bool) {
		if kind, q, ok := p.oneOf(pos, token.TOK_PLUS, token.TOK_MINUS, token.TOK_TILDE); ok {
			if operand, q, ok := p.factor(q); ok {
				return located(p, pos, q, &ast.UnaryOp{Op: factorOps[kind], Operand: operand}), q, true
			}
		}
		return p.power(pos)
	})
}

// power is right-associative: the exponent is a factor, which recurses back
// into power.
func (p *parser) power(pos int) (ast.Expr, int, bool) {
	base, q, ok := p.awaitPrimary(pos)
	if !ok {
		return nil, pos, false
	}

	if r, ok := p.tok(q, token.TOK_DOUBLE_STAR); ok {
		if exponent, r, ok := p.factor(r); ok {
			return located(p, pos, r, &ast.BinOp{Left: base, Op: ast.Pow, Right: exponent}), r, true
		}
	}
	return base, q, true
}

func (p *parser) awaitPrimary(pos int) (ast.Expr, int, bool) {
	return memoize(p, ruleAwaitPrimary, pos, func(pos int) (ast.Expr, int, bool) {
		if q, ok := p.tok(pos, token.TOK_AWAIT); ok {
			if value, q, ok := p.primary(q); ok {
				return located(p, pos, q, &ast.Await{Value: value}), q, true
			}
		}
		return p.primary(pos)
	})
}
