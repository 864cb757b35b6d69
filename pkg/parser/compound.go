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

func (p *parser) compoundStmt(pos int) (ast.Stmt, int, bool) {
	alternatives := []struct {
		kinds []token.TokenType
		rule  func(int) (ast.Stmt, int, bool)
	}{
		{[]token.TokenType{token.TOK_DEF, token.TOK_AT, token.TOK_ASYNC}, p.functionDef},
		{[]token.TokenType{token.TOK_IF}, p.ifStmt},
		{[]token.TokenType{token.TOK_CLASS, token.TOK_AT}, p.classDef},
		{[]token.TokenType{token.TOK_WITH, token.TOK_ASYNC}, p.withStmt},
		{[]token.TokenType{token.TOK_FOR, token.TOK_ASYNC}, p.forStmt},
		{[]token.TokenType{token.TOK_TRY}, p.tryStmt},
		{[]token.TokenType{token.TOK_WHILE}, p.whileStmt},
	}

	for _, alt := range alternatives {
		if !p.lookahead(pos, alt.kinds...) {
			continue
		}
		if s, q, ok := alt.rule(pos); ok {
			return s, q, true
		}
	}
	return nil, pos, false
}

// block is either an indented suite or simple statements on the same line.
//
// Grammar:
//
//	block: NEWLINE INDENT statements DEDENT | simple_stmts
func (p *parser) block(pos int) ([]ast.Stmt, int, bool) {
	return memoize(p, ruleBlock, pos, func(pos int) ([]ast.Stmt, int, bool) {
		if q, ok := p.tok(pos, token.TOK_NEWLINE); ok {
			if q, ok := p.tok(q, token.TOK_INDENT); ok {
				if body, q, ok := p.statements(q); ok {
					if q, ok := p.tok(q, token.TOK_DEDENT); ok {
						return body, q, true
					}
				}
			}
		}
		return p.simpleStmts(pos)
	})
}

// colonBlock matches `':' block`.
func (p *parser) colonBlock(pos int) ([]ast.Stmt, int, bool) {
	q, ok := p.tok(pos, token.TOK_COLON)
	if !ok {
		return nil, pos, false
	}
	body, q, ok := p.block(q)
	if !ok {
		return nil, pos, false
	}
	return body, q, true
}

// keywordBlock matches `keyword ':' block`.
func (p *parser) keywordBlock(pos int, keyword token.TokenType) ([]ast.Stmt, int, bool) {
	q, ok := p.tok(pos, keyword)
	if !ok {
		return nil, pos, false
	}
	body, q, ok := p.colonBlock(q)
	if !ok {
		return nil, pos, false
	}
	return body, q, true
}

func (p *parser) elseBlock(pos int) ([]ast.Stmt, int, bool) {
	return p.keywordBlock(pos, token.TOK_ELSE)
}

func (p *parser) finallyBlock(pos int) ([]ast.Stmt, int, bool) {
	return p.keywordBlock(pos, token.TOK_FINALLY)
}

func (p *parser) decorator(pos int) (ast.Expr, int, bool) {
	q, ok := p.tok(pos, token.TOK_AT)
	if !ok {
		return nil, pos, false
	}
	e, q, ok := p.namedExpression(q)
	if !ok {
		return nil, pos, false
	}
	q, ok = p.tok(q, token.TOK_NEWLINE)
	if !ok {
		return nil, pos, false
	}
	return e, q, true
}

// classDef spans from the class keyword; decorators are not included.
func (p *parser) classDef(pos int) (ast.Stmt, int, bool) {
	decorators, begin := many(pos, p.decorator)

	q, ok := p.tok(begin, token.TOK_CLASS)
	if !ok {
		return nil, pos, false
	}
	name, q, ok := p.name(q)
	if !ok {
		return nil, pos, false
	}

	stmt := &ast.ClassDef{Name: name, DecoratorList: decorators}
	if args, r, ok := par(p, q, p.optionalArguments); ok {
		stmt.Bases, stmt.Keywords = args.args, args.keywords
		q = r
	}

	stmt.Body, q, ok = p.colonBlock(q)
	if !ok {
		return nil, pos, false
	}
	return locatedBlock(p, begin, q, stmt), q, true
}

// functionDef spans from `async` or `def`; decorators are not included.
func (p *parser) functionDef(pos int) (ast.Stmt, int, bool) {
	decorators, begin := many(pos, p.decorator)

	stmt := &ast.FunctionDef{DecoratorList: decorators}
	q := begin
	if r, ok := p.tok(q, token.TOK_ASYNC); ok {
		stmt.IsAsync, q = true, r
	}

	q, ok := p.tok(q, token.TOK_DEF)
	if !ok {
		return nil, pos, false
	}
	stmt.Name, q, ok = p.name(q)
	if !ok {
		return nil, pos, false
	}

	stmt.Args, q, ok = par(p, q, func(pos int) (*ast.Arguments, int, bool) {
		if args, q, ok := p.parameters(pos, defParams); ok {
			return args, q, true
		}
		return &ast.Arguments{}, pos, true
	})
	if !ok {
		return nil, pos, false
	}

	if r, ok := p.tok(q, token.TOK_RARROW); ok {
		if returns, r, ok := p.expression(r); ok {
			stmt.Returns, q = returns, r
		}
	}

	stmt.Body, q, ok = p.colonBlock(q)
	if !ok {
		return nil, pos, false
	}
	return locatedBlock(p, begin, q, stmt), q, true
}

// ifStmt and elifStmt share a shape. An elif becomes a nested If in the
// orelse of its parent. The if spans through its orelse, an elif ends with
// its own block.
func (p *parser) ifStmt(pos int) (ast.Stmt, int, bool) {
	return p.conditional(pos, token.TOK_IF)
}

func (p *parser) elifStmt(pos int) (ast.Stmt, int, bool) {
	return p.conditional(pos, token.TOK_ELIF)
}

func (p *parser) conditional(pos int, keyword token.TokenType) (ast.Stmt, int, bool) {
	q, ok := p.tok(pos, keyword)
	if !ok {
		return nil, pos, false
	}
	test, q, ok := p.namedExpression(q)
	if !ok {
		return nil, pos, false
	}
	body, q, ok := p.colonBlock(q)
	if !ok {
		return nil, pos, false
	}

	stmt := &ast.If{Test: test, Body: body}
	if keyword == token.TOK_ELIF {
		located(p, pos, p.blockEnd(q), stmt)
	}

	if elif, r, ok := p.elifStmt(q); ok {
		stmt.Orelse, q = []ast.Stmt{elif}, r
	} else if orelse, r, ok := p.elseBlock(q); ok {
		stmt.Orelse, q = orelse, r
	}

	if keyword == token.TOK_ELIF {
		return stmt, q, true
	}
	return locatedBlock(p, pos, q, stmt), q, true
}

func (p *parser) whileStmt(pos int) (ast.Stmt, int, bool) {
	q, ok := p.tok(pos, token.TOK_WHILE)
	if !ok {
		return nil, pos, false
	}
	test, q, ok := p.namedExpression(q)
	if !ok {
		return nil, pos, false
	}
	body, q, ok := p.colonBlock(q)
	if !ok {
		return nil, pos, false
	}

	stmt := &ast.While{Test: test, Body: body}
	if orelse, r, ok := p.elseBlock(q); ok {
		stmt.Orelse, q = orelse, r
	}
	return locatedBlock(p, pos, q, stmt), q, true
}

func (p *parser) forStmt(pos int) (ast.Stmt, int, bool) {
	stmt := &ast.For{}
	q := pos
	if r, ok := p.tok(q, token.TOK_ASYNC); ok {
		stmt.IsAsync, q = true, r
	}

	q, ok := p.tok(q, token.TOK_FOR)
	if !ok {
		return nil, pos, false
	}
	stmt.Target, q, ok = p.starTargets(q)
	if !ok {
		return nil, pos, false
	}
	q, ok = p.tok(q, token.TOK_IN)
	if !ok {
		return nil, pos, false
	}
	stmt.Iter, q, ok = p.starExpressions(q)
	if !ok {
		return nil, pos, false
	}
	stmt.Body, q, ok = p.colonBlock(q)
	if !ok {
		return nil, pos, false
	}

	if orelse, r, ok := p.elseBlock(q); ok {
		stmt.Orelse, q = orelse, r
	}
	return locatedBlock(p, pos, q, stmt), q, true
}

func (p *parser) withStmt(pos int) (ast.Stmt, int, bool) {
	q := pos
	isAsync := false
	if r, ok := p.tok(q, token.TOK_ASYNC); ok {
		isAsync, q = true, r
	}

	q, ok := p.tok(q, token.TOK_WITH)
	if !ok {
		return nil, pos, false
	}

	// 'with' '(' ','.with_item+ ','? ')' ':' block
	items, r, ok := par(p, q, func(pos int) ([]*ast.WithItem, int, bool) {
		items, q, ok := sepBy1(p, pos, token.TOK_COMMA, p.withItem)
		if !ok {
			return nil, pos, false
		}
		if r, ok := p.tok(q, token.TOK_COMMA); ok {
			q = r
		}
		return items, q, true
	})
	if ok {
		if body, r, ok := p.colonBlock(r); ok {
			stmt := &ast.With{Items: items, Body: body, IsAsync: isAsync}
			return locatedBlock(p, pos, r, stmt), r, true
		}
	}

	// 'with' ','.with_item+ ':' block
	items, q, ok = sepBy1(p, q, token.TOK_COMMA, p.withItem)
	if !ok {
		return nil, pos, false
	}
	body, q, ok := p.colonBlock(q)
	if !ok {
		return nil, pos, false
	}
	stmt := &ast.With{Items: items, Body: body, IsAsync: isAsync}
	return locatedBlock(p, pos, q, stmt), q, true
}

func (p *parser) withItem(pos int) (*ast.WithItem, int, bool) {
	e, q, ok := p.expression(pos)
	if !ok {
		return nil, pos, false
	}

	item := &ast.WithItem{ContextExpr: e}
	if r, ok := p.tok(q, token.TOK_AS); ok {
		if target, r, ok := p.starTarget(r); ok && p.lookahead(r, token.TOK_COMMA, token.TOK_RPAR, token.TOK_COLON) {
			item.OptionalVars, q = target, r
		}
	}
	return item, q, true
}

func (p *parser) tryStmt(pos int) (ast.Stmt, int, bool) {
	body, q, ok := p.keywordBlock(pos, token.TOK_TRY)
	if !ok {
		return nil, pos, false
	}

	stmt := &ast.Try{Body: body}

	if finally, r, ok := p.finallyBlock(q); ok {
		stmt.Finalbody = finally
		return locatedBlock(p, pos, r, stmt), r, true
	}

	stmt.Handlers, q, ok = many1(q, p.exceptBlock)
	if !ok {
		return nil, pos, false
	}
	if orelse, r, ok := p.elseBlock(q); ok {
		stmt.Orelse, q = orelse, r
	}
	if finally, r, ok := p.finallyBlock(q); ok {
		stmt.Finalbody, q = finally, r
	}
	return locatedBlock(p, pos, q, stmt), q, true
}

func (p *parser) exceptBlock(pos int) (*ast.ExceptHandler, int, bool) {
	q, ok := p.tok(pos, token.TOK_EXCEPT)
	if !ok {
		return nil, pos, false
	}

	// 'except' expression ['as' NAME] ':' block
	if typ, r, ok := p.expression(q); ok {
		handler := &ast.ExceptHandler{Type: typ}
		if s, ok := p.tok(r, token.TOK_AS); ok {
			if name, s, ok := p.name(s); ok {
				handler.Name, r = name, s
			}
		}
		if body, r, ok := p.colonBlock(r); ok {
			handler.Body = body
			return locatedBlock(p, pos, r, handler), r, true
		}
	}

	// 'except' ':' block
	body, q, ok := p.colonBlock(q)
	if !ok {
		return nil, pos, false
	}
	return locatedBlock(p, pos, q, &ast.ExceptHandler{Body: body}), q, true
}
