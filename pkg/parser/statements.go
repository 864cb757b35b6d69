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

// atEnd succeeds when only an optional end-of-file marker remains at pos.
func (p *parser) atEnd(pos int) bool {
	if p.kind(pos) == token.TOK_EOF {
		pos++
	}
	if pos < p.s.Len() {
		p.fail(pos, token.TOK_EOF)
		return false
	}
	return true
}

// file is the module entry rule.
//
// Grammar:
//
//	file: [statements] ENDMARKER
func (p *parser) file() (ast.Mod, bool) {
	body, pos, _ := p.statements(0)
	if !p.atEnd(pos) {
		return nil, false
	}
	return &ast.Module{Body: body}, true
}

// interactive is the entry rule for a single REPL statement.
//
// Grammar:
//
//	interactive: statement
func (p *parser) interactive() (ast.Mod, bool) {
	body, pos, ok := p.statement(0)
	if !ok || !p.atEnd(pos) {
		return nil, false
	}
	return &ast.Interactive{Body: body}, true
}

// eval is the expression entry rule.
//
// Grammar:
//
//	eval: expressions NEWLINE* ENDMARKER
func (p *parser) eval() (ast.Mod, bool) {
	body, pos, ok := p.expressions(0)
	if !ok {
		return nil, false
	}
	for p.kind(pos) == token.TOK_NEWLINE {
		pos++
	}
	if !p.atEnd(pos) {
		return nil, false
	}
	return &ast.Expression{Body: body}, true
}

func (p *parser) statements(pos int) ([]ast.Stmt, int, bool) {
	groups, q, ok := many1(pos, p.statement)
	if !ok {
		return nil, pos, false
	}

	var stmts []ast.Stmt
	for _, g := range groups {
		stmts = append(stmts, g...)
	}
	return stmts, q, true
}

func (p *parser) statement(pos int) ([]ast.Stmt, int, bool) {
	if s, q, ok := p.compoundStmt(pos); ok {
		return []ast.Stmt{s}, q, true
	}
	return p.simpleStmts(pos)
}

func (p *parser) simpleStmts(pos int) ([]ast.Stmt, int, bool) {
	if s, q, ok := p.simpleStmt(pos); ok && p.notTok(q, token.TOK_SEMI) {
		if q, ok := p.tok(q, token.TOK_NEWLINE); ok {
			return []ast.Stmt{s}, q, true
		}
	}

	stmts, q, ok := sepBy1(p, pos, token.TOK_SEMI, p.simpleStmt)
	if !ok {
		return nil, pos, false
	}
	if r, ok := p.tok(q, token.TOK_SEMI); ok {
		q = r
	}
	q, ok = p.tok(q, token.TOK_NEWLINE)
	if !ok {
		return nil, pos, false
	}
	return stmts, q, true
}

func (p *parser) simpleStmt(pos int) (ast.Stmt, int, bool) {
	return memoize(p, ruleSimpleStmt, pos, func(pos int) (ast.Stmt, int, bool) {
		if s, q, ok := p.assignment(pos); ok {
			return s, q, true
		}
		if e, q, ok := p.starExpressions(pos); ok {
			return located(p, pos, q, &ast.ExprStmt{Value: e}), q, true
		}

		type keywordStmt struct {
			kind token.TokenType
			rule func(int) (ast.Stmt, int, bool)
		}
		alternatives := []keywordStmt{
			{token.TOK_RETURN, p.returnStmt},
			{token.TOK_IMPORT, p.importStmt},
			{token.TOK_FROM, p.importStmt},
			{token.TOK_RAISE, p.raiseStmt},
			{token.TOK_PASS, p.keywordOnly(token.TOK_PASS, func() ast.Stmt { return &ast.Pass{} })},
			{token.TOK_DEL, p.delStmt},
			{token.TOK_YIELD, p.yieldStmt},
			{token.TOK_ASSERT, p.assertStmt},
			{token.TOK_BREAK, p.keywordOnly(token.TOK_BREAK, func() ast.Stmt { return &ast.Break{} })},
			{token.TOK_CONTINUE, p.keywordOnly(token.TOK_CONTINUE, func() ast.Stmt { return &ast.Continue{} })},
			{token.TOK_GLOBAL, p.globalStmt},
			{token.TOK_NONLOCAL, p.nonlocalStmt},
		}

		for _, alt := range alternatives {
			if !p.lookahead(pos, alt.kind) {
				continue
			}
			if s, q, ok := alt.rule(pos); ok {
				return s, q, true
			}
		}
		return nil, pos, false
	})
}

// keywordOnly builds a rule for statements made of a single keyword.
func (p *parser) keywordOnly(kind token.TokenType, build func() ast.Stmt) func(int) (ast.Stmt, int, bool) {
	return func(pos int) (ast.Stmt, int, bool) {
		q, ok := p.tok(pos, kind)
		if !ok {
			return nil, pos, false
		}
		s := build()
		s.(spanner).SetSpan(p.span(pos, q))
		return s, q, true
	}
}

var augAssignOps = opTable{
	kinds: []token.TokenType{
		token.TOK_PLUS_EQUAL, token.TOK_MINUS_EQUAL, token.TOK_STAR_EQUAL,
		token.TOK_AT_EQUAL, token.TOK_SLASH_EQUAL, token.TOK_PERCENT_EQUAL,
		token.TOK_AMPER_EQUAL, token.TOK_VBAR_EQUAL, token.TOK_CIRCUMFLEX_EQUAL,
		token.TOK_LEFT_SHIFT_EQUAL, token.TOK_RIGHT_SHIFT_EQUAL,
		token.TOK_DOUBLE_STAR_EQUAL, token.TOK_DOUBLE_SLASH_EQUAL,
	},
	ops: []ast.Operator{
		ast.Add, ast.Sub, ast.Mult,
		ast.MatMult, ast.Div, ast.Modulo,
		ast.BitAnd, ast.BitOr, ast.BitXor,
		ast.LShift, ast.RShift,
		ast.Pow, ast.FloorDiv,
	},
}

func (p *parser) assignment(pos int) (ast.Stmt, int, bool) {
	// NAME ':' expression ['=' annotated_rhs]
	if target, q, ok := p.nameExpr(pos, ast.Store); ok {
		if s, q, ok := p.annAssignTail(pos, q, target, true); ok {
			return s, q, true
		}
	}

	// ('(' single_target ')' | single_subscript_attribute_target) ':' expression ['=' annotated_rhs]
	target, q, ok := par(p, pos, p.singleTarget)
	if !ok {
		target, q, ok = p.singleSubscriptAttributeTarget(pos, ast.Store)
	}
	if ok {
		if s, q, ok := p.annAssignTail(pos, q, target, false); ok {
			return s, q, true
		}
	}

	// (star_targets '=')+ (yield_expr | star_expressions) !'='
	var targets []ast.Expr
	q = pos
	for {
		t, r, ok := p.starTargets(q)
		if !ok {
			break
		}
		r, ok = p.tok(r, token.TOK_EQUAL)
		if !ok {
			break
		}
		targets = append(targets, t)
		q = r
	}
	if len(targets) > 0 {
		if value, r, ok := p.annotatedRhs(q); ok && p.notTok(r, token.TOK_EQUAL) {
			return located(p, pos, r, &ast.Assign{Targets: targets, Value: value}), r, true
		}
	}

	// single_target augassign (yield_expr | star_expressions)
	if target, q, ok := p.singleTarget(pos); ok {
		if k, r, ok := p.oneOf(q, augAssignOps.kinds...); ok {
			if value, r, ok := p.annotatedRhs(r); ok {
				stmt := &ast.AugAssign{Target: target, Op: augAssignOps.lookup(k), Value: value}
				return located(p, pos, r, stmt), r, true
			}
		}
	}

	return nil, pos, false
}

func (p *parser) annAssignTail(begin, pos int, target ast.Expr, simple bool) (ast.Stmt, int, bool) {
	q, ok := p.tok(pos, token.TOK_COLON)
	if !ok {
		return nil, begin, false
	}
	annotation, q, ok := p.expression(q)
	if !ok {
		return nil, begin, false
	}

	var value ast.Expr
	if r, ok := p.tok(q, token.TOK_EQUAL); ok {
		if v, r, ok := p.annotatedRhs(r); ok {
			value, q = v, r
		}
	}

	stmt := &ast.AnnAssign{Target: target, Annotation: annotation, Value: value, Simple: simple}
	return located(p, begin, q, stmt), q, true
}

func (p *parser) annotatedRhs(pos int) (ast.Expr, int, bool) {
	if e, q, ok := p.yieldExpr(pos); ok {
		return e, q, true
	}
	return p.starExpressions(pos)
}

func (p *parser) returnStmt(pos int) (ast.Stmt, int, bool) {
	q, ok := p.tok(pos, token.TOK_RETURN)
	if !ok {
		return nil, pos, false
	}
	value, q, _ := p.starExpressions(q)
	return located(p, pos, q, &ast.Return{Value: value}), q, true
}

func (p *parser) raiseStmt(pos int) (ast.Stmt, int, bool) {
	q, ok := p.tok(pos, token.TOK_RAISE)
	if !ok {
		return nil, pos, false
	}

	exc, q, ok := p.expression(q)
	if !ok {
		return located(p, pos, q, &ast.Raise{}), q, true
	}

	var cause ast.Expr
	if r, ok := p.tok(q, token.TOK_FROM); ok {
		if c, r, ok := p.expression(r); ok {
			cause, q = c, r
		}
	}
	return located(p, pos, q, &ast.Raise{Exc: exc, Cause: cause}), q, true
}

func (p *parser) globalStmt(pos int) (ast.Stmt, int, bool) {
	names, q, ok := p.keywordNames(pos, token.TOK_GLOBAL)
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.Global{Names: names}), q, true
}

func (p *parser) nonlocalStmt(pos int) (ast.Stmt, int, bool) {
	names, q, ok := p.keywordNames(pos, token.TOK_NONLOCAL)
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.Nonlocal{Names: names}), q, true
}

func (p *parser) keywordNames(pos int, keyword token.TokenType) ([]string, int, bool) {
	q, ok := p.tok(pos, keyword)
	if !ok {
		return nil, pos, false
	}
	names, q, ok := sepBy1(p, q, token.TOK_COMMA, p.name)
	if !ok {
		return nil, pos, false
	}
	return names, q, true
}

func (p *parser) delStmt(pos int) (ast.Stmt, int, bool) {
	q, ok := p.tok(pos, token.TOK_DEL)
	if !ok {
		return nil, pos, false
	}
	targets, q, ok := p.delTargets(q)
	if !ok || !p.lookahead(q, token.TOK_SEMI, token.TOK_NEWLINE) {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.Delete{Targets: targets}), q, true
}

func (p *parser) yieldStmt(pos int) (ast.Stmt, int, bool) {
	e, q, ok := p.yieldExpr(pos)
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.ExprStmt{Value: e}), q, true
}

func (p *parser) assertStmt(pos int) (ast.Stmt, int, bool) {
	q, ok := p.tok(pos, token.TOK_ASSERT)
	if !ok {
		return nil, pos, false
	}
	test, q, ok := p.expression(q)
	if !ok {
		return nil, pos, false
	}

	var msg ast.Expr
	if r, ok := p.tok(q, token.TOK_COMMA); ok {
		if m, r, ok := p.expression(r); ok {
			msg, q = m, r
		}
	}
	return located(p, pos, q, &ast.Assert{Test: test, Msg: msg}), q, true
}

func (p *parser) importStmt(pos int) (ast.Stmt, int, bool) {
	if s, q, ok := p.importName(pos); ok {
		return s, q, true
	}
	return p.importFrom(pos)
}

func (p *parser) importName(pos int) (ast.Stmt, int, bool) {
	q, ok := p.tok(pos, token.TOK_IMPORT)
	if !ok {
		return nil, pos, false
	}
	names, q, ok := sepBy1(p, q, token.TOK_COMMA, p.dottedAsName)
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.Import{Names: names}), q, true
}

// importLevel counts leading dots of a relative import; an ellipsis token
// counts for three.
func (p *parser) importLevel(pos int) (int, int) {
	level := 0
	for {
		switch p.kind(pos) {
		case token.TOK_DOT:
			level++
		case token.TOK_ELLIPSIS:
			level += 3
		default:
			p.fail(pos, token.TOK_DOT)
			p.fail(pos, token.TOK_ELLIPSIS)
			return level, pos
		}
		pos++
	}
}

func (p *parser) importFrom(pos int) (ast.Stmt, int, bool) {
	q, ok := p.tok(pos, token.TOK_FROM)
	if !ok {
		return nil, pos, false
	}
	level, q := p.importLevel(q)

	// 'from' ('.' | '...')* dotted_name 'import' import_from_targets
	if module, r, ok := p.dottedName(q); ok {
		if r, ok := p.tok(r, token.TOK_IMPORT); ok {
			if names, r, ok := p.importFromTargets(r); ok {
				stmt := &ast.ImportFrom{Module: module, Names: names, Level: level}
				return located(p, pos, r, stmt), r, true
			}
		}
	}

	// 'from' ('.' | '...')+ 'import' import_from_targets
	if level == 0 {
		return nil, pos, false
	}
	if r, ok := p.tok(q, token.TOK_IMPORT); ok {
		if names, r, ok := p.importFromTargets(r); ok {
			stmt := &ast.ImportFrom{Names: names, Level: level}
			return located(p, pos, r, stmt), r, true
		}
	}
	return nil, pos, false
}

func (p *parser) importFromTargets(pos int) ([]*ast.Alias, int, bool) {
	names, q, ok := par(p, pos, func(pos int) ([]*ast.Alias, int, bool) {
		names, q, ok := p.importFromAsNames(pos)
		if !ok {
			return nil, pos, false
		}
		if r, ok := p.tok(q, token.TOK_COMMA); ok {
			q = r
		}
		return names, q, true
	})
	if ok {
		return names, q, true
	}

	if names, q, ok := p.importFromAsNames(pos); ok && p.notTok(q, token.TOK_COMMA) {
		return names, q, true
	}

	if q, ok := p.tok(pos, token.TOK_STAR); ok {
		return []*ast.Alias{located(p, pos, q, &ast.Alias{Name: "*"})}, q, true
	}
	return nil, pos, false
}

func (p *parser) importFromAsNames(pos int) ([]*ast.Alias, int, bool) {
	return sepBy1(p, pos, token.TOK_COMMA, func(pos int) (*ast.Alias, int, bool) {
		return p.alias(pos, p.name)
	})
}

func (p *parser) dottedAsName(pos int) (*ast.Alias, int, bool) {
	return p.alias(pos, p.dottedName)
}

// alias matches `name ['as' NAME]` where name is parsed by nameRule.
func (p *parser) alias(pos int, nameRule func(int) (string, int, bool)) (*ast.Alias, int, bool) {
	name, q, ok := nameRule(pos)
	if !ok {
		return nil, pos, false
	}

	a := &ast.Alias{Name: name}
	if r, ok := p.tok(q, token.TOK_AS); ok {
		if asName, r, ok := p.name(r); ok {
			a.AsName, q = asName, r
		}
	}
	return located(p, pos, q, a), q, true
}

func (p *parser) dottedName(pos int) (string, int, bool) {
	return growLeft(p, ruleDottedName, pos, func(pos int) (string, int, bool) {
		if prefix, q, ok := p.dottedName(pos); ok {
			if q, ok := p.tok(q, token.TOK_DOT); ok {
				if name, q, ok := p.name(q); ok {
					return prefix + "." + name, q, true
				}
			}
		}
		return p.name(pos)
	})
}
