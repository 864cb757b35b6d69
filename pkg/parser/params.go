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

// paramStyle distinguishes function parameters from lambda parameters.
// Lambda parameters take no annotations and end at ':' rather than ')'.
type paramStyle struct {
	closer    token.TokenType
	annotated bool
}

var (
	defParams    = paramStyle{closer: token.TOK_RPAR, annotated: true}
	lambdaParams = paramStyle{closer: token.TOK_COLON, annotated: false}
)

type paramWithDefault struct {
	arg   *ast.Arg
	value ast.Expr
}

type starParams struct {
	vararg *ast.Arg
	kwonly []paramWithDefault
	kwarg  *ast.Arg
}

// parameters matches a parameter list, trying in order: positional-only
// parameters without defaults, positional-only parameters with defaults,
// plain parameters, parameters with defaults, then star parameters alone.
func (p *parser) parameters(pos int, style paramStyle) (*ast.Arguments, int, bool) {
	noDefault := func(pos int) (*ast.Arg, int, bool) { return p.paramNoDefault(pos, style) }
	withDefault := func(pos int) (paramWithDefault, int, bool) { return p.paramWithDefault(pos, style) }

	if slash, q, ok := p.slashNoDefault(pos, style); ok {
		plain, q := many(q, noDefault)
		defaulted, q := many(q, withDefault)
		star, q, _ := p.starEtc(q, style)
		return makeArguments(slash, nil, nil, plain, defaulted, star), q, true
	}

	if slashPlain, slashDefaulted, q, ok := p.slashWithDefault(pos, style); ok {
		defaulted, q := many(q, withDefault)
		star, q, _ := p.starEtc(q, style)
		return makeArguments(nil, slashPlain, slashDefaulted, nil, defaulted, star), q, true
	}

	if plain, q, ok := many1(pos, noDefault); ok {
		defaulted, q := many(q, withDefault)
		star, q, _ := p.starEtc(q, style)
		return makeArguments(nil, nil, nil, plain, defaulted, star), q, true
	}

	if defaulted, q, ok := many1(pos, withDefault); ok {
		star, q, _ := p.starEtc(q, style)
		return makeArguments(nil, nil, nil, nil, defaulted, star), q, true
	}

	if star, q, ok := p.starEtc(pos, style); ok {
		return makeArguments(nil, nil, nil, nil, nil, star), q, true
	}

	return nil, pos, false
}

func makeArguments(slash, slashPlain []*ast.Arg, slashDefaulted []paramWithDefault,
	plain []*ast.Arg, defaulted []paramWithDefault, star *starParams) *ast.Arguments {
	args := &ast.Arguments{}

	args.Posonlyargs = append(args.Posonlyargs, slash...)
	args.Posonlyargs = append(args.Posonlyargs, slashPlain...)
	for _, d := range slashDefaulted {
		args.Posonlyargs = append(args.Posonlyargs, d.arg)
		args.Defaults = append(args.Defaults, d.value)
	}

	args.Args = append(args.Args, plain...)
	for _, d := range defaulted {
		args.Args = append(args.Args, d.arg)
		args.Defaults = append(args.Defaults, d.value)
	}

	if star != nil {
		args.Vararg = star.vararg
		args.Kwarg = star.kwarg
		for _, k := range star.kwonly {
			args.Kwonlyargs = append(args.Kwonlyargs, k.arg)
			args.KwDefaults = append(args.KwDefaults, k.value)
		}
	}

	return args
}

func (p *parser) slashNoDefault(pos int, style paramStyle) ([]*ast.Arg, int, bool) {
	params, q, ok := many1(pos, func(pos int) (*ast.Arg, int, bool) { return p.paramNoDefault(pos, style) })
	if !ok {
		return nil, pos, false
	}
	q, ok = p.slash(q, style)
	if !ok {
		return nil, pos, false
	}
	return params, q, true
}

func (p *parser) slashWithDefault(pos int, style paramStyle) ([]*ast.Arg, []paramWithDefault, int, bool) {
	plain, q := many(pos, func(pos int) (*ast.Arg, int, bool) { return p.paramNoDefault(pos, style) })
	defaulted, q, ok := many1(q, func(pos int) (paramWithDefault, int, bool) { return p.paramWithDefault(pos, style) })
	if !ok {
		return nil, nil, pos, false
	}
	q, ok = p.slash(q, style)
	if !ok {
		return nil, nil, pos, false
	}
	return plain, defaulted, q, true
}

func (p *parser) slash(pos int, style paramStyle) (int, bool) {
	q, ok := p.tok(pos, token.TOK_SLASH)
	if !ok {
		return pos, false
	}
	q, ok = p.paramSplit(q, style)
	if !ok {
		return pos, false
	}
	return q, true
}

func (p *parser) starEtc(pos int, style paramStyle) (*starParams, int, bool) {
	maybeDefault := func(pos int) (paramWithDefault, int, bool) { return p.paramMaybeDefault(pos, style) }

	if q, ok := p.tok(pos, token.TOK_STAR); ok {
		// '*' param_no_default param_maybe_default* [kwds]
		if vararg, r, ok := p.paramNoDefault(q, style); ok {
			kwonly, r := many(r, maybeDefault)
			kwarg, r, _ := p.kwds(r, style)
			return &starParams{vararg: vararg, kwonly: kwonly, kwarg: kwarg}, r, true
		}

		// '*' param_no_default_star_annotation param_maybe_default* [kwds]
		if style.annotated {
			if vararg, r, ok := p.paramStarAnnotation(q, style); ok {
				kwonly, r := many(r, maybeDefault)
				kwarg, r, _ := p.kwds(r, style)
				return &starParams{vararg: vararg, kwonly: kwonly, kwarg: kwarg}, r, true
			}
		}

		// '*' ',' param_maybe_default+ [kwds]
		if r, ok := p.tok(q, token.TOK_COMMA); ok {
			if kwonly, r, ok := many1(r, maybeDefault); ok {
				kwarg, r, _ := p.kwds(r, style)
				return &starParams{kwonly: kwonly, kwarg: kwarg}, r, true
			}
		}
	}

	if kwarg, q, ok := p.kwds(pos, style); ok {
		return &starParams{kwarg: kwarg}, q, true
	}
	return nil, pos, false
}

func (p *parser) kwds(pos int, style paramStyle) (*ast.Arg, int, bool) {
	q, ok := p.tok(pos, token.TOK_DOUBLE_STAR)
	if !ok {
		return nil, pos, false
	}
	arg, q, ok := p.paramNoDefault(q, style)
	if !ok {
		return nil, pos, false
	}
	return arg, q, true
}

func (p *parser) paramNoDefault(pos int, style paramStyle) (*ast.Arg, int, bool) {
	arg, q, ok := p.param(pos, style)
	if !ok {
		return nil, pos, false
	}
	q, ok = p.paramSplit(q, style)
	if !ok {
		return nil, pos, false
	}
	return arg, q, true
}

func (p *parser) paramStarAnnotation(pos int, style paramStyle) (*ast.Arg, int, bool) {
	name, q, ok := p.name(pos)
	if !ok {
		return nil, pos, false
	}
	q, ok = p.tok(q, token.TOK_COLON)
	if !ok {
		return nil, pos, false
	}
	annotation, q, ok := p.starExpression(q)
	if !ok {
		return nil, pos, false
	}
	arg := located(p, pos, q, &ast.Arg{Arg: name, Annotation: annotation})

	q, ok = p.paramSplit(q, style)
	if !ok {
		return nil, pos, false
	}
	return arg, q, true
}

func (p *parser) paramWithDefault(pos int, style paramStyle) (paramWithDefault, int, bool) {
	d, q, ok := p.paramMaybeDefault(pos, style)
	if !ok || d.value == nil {
		return paramWithDefault{}, pos, false
	}
	return d, q, true
}

func (p *parser) paramMaybeDefault(pos int, style paramStyle) (paramWithDefault, int, bool) {
	arg, q, ok := p.param(pos, style)
	if !ok {
		return paramWithDefault{}, pos, false
	}

	d := paramWithDefault{arg: arg}
	if r, ok := p.tok(q, token.TOK_EQUAL); ok {
		if value, r, ok := p.expression(r); ok {
			d.value, q = value, r
		}
	}

	q, ok = p.paramSplit(q, style)
	if !ok {
		return paramWithDefault{}, pos, false
	}
	return d, q, true
}

func (p *parser) param(pos int, style paramStyle) (*ast.Arg, int, bool) {
	name, q, ok := p.name(pos)
	if !ok {
		return nil, pos, false
	}

	arg := &ast.Arg{Arg: name}
	if style.annotated {
		if r, ok := p.tok(q, token.TOK_COLON); ok {
			if annotation, r, ok := p.expression(r); ok {
				arg.Annotation, q = annotation, r
			}
		}
	}
	return located(p, pos, q, arg), q, true
}

// paramSplit matches the comma after a parameter, or peeks at the token
// closing the list.
func (p *parser) paramSplit(pos int, style paramStyle) (int, bool) {
	if q, ok := p.tok(pos, token.TOK_COMMA); ok {
		return q, true
	}
	if p.lookahead(pos, style.closer) {
		return pos, true
	}
	return pos, false
}

// lambdef matches `'lambda' [lambda_params] ':' expression`.
func (p *parser) lambdef(pos int) (ast.Expr, int, bool) {
	q, ok := p.tok(pos, token.TOK_LAMBDA)
	if !ok {
		return nil, pos, false
	}

	args, q, ok := p.parameters(q, lambdaParams)
	if !ok {
		args = &ast.Arguments{}
	}

	q, ok = p.tok(q, token.TOK_COLON)
	if !ok {
		return nil, pos, false
	}
	body, q, ok := p.expression(q)
	if !ok {
		return nil, pos, false
	}
	return located(p, pos, q, &ast.Lambda{Args: args, Body: body}), q, true
}
