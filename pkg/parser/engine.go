/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parser

import (
	"github.com/rs/zerolog"

	"github.com/dburkart/strata/pkg/token"
)

// ruleID identifies a memoized rule.
type ruleID uint8

const (
	ruleSimpleStmt ruleID = iota
	ruleBlock
	ruleDisjunction
	ruleConjunction
	ruleInversion
	ruleComparison
	ruleCompareOpPair
	ruleFactor
	ruleAwaitPrimary
	ruleStrings
	ruleArguments
	ruleStarTarget
	ruleTargetWithStarAtom
	ruleDelTarget

	// Left-recursive
	ruleDottedName
	ruleBitwiseOr
	ruleBitwiseXor
	ruleBitwiseAnd
	ruleShiftExpr
	ruleSum
	ruleTerm
	rulePrimary
	ruleTPrimary
)

type memoKey struct {
	rule ruleID
	pos  int
}

type memoEntry struct {
	value any
	end   int
	ok    bool
}

// parser evaluates the grammar over a session. Every rule method has the
// shape func(pos int) (T, int, bool): on success it returns the value and the
// position after the match; on failure the zero value, the input position and
// false.
type parser struct {
	s    *Session
	memo map[memoKey]memoEntry
	log  zerolog.Logger

	// Furthest failure
	furthest int
	expected map[token.TokenType]struct{}
	detail   string
	quiet    int

	stats Stats
}

func newParser(s *Session, log zerolog.Logger) *parser {
	return &parser{
		s:        s,
		memo:     make(map[memoKey]memoEntry),
		log:      log,
		expected: make(map[token.TokenType]struct{}),
	}
}

// memoize returns the recorded outcome of rule at pos, evaluating f the first
// time the pair is seen.
func memoize[T any](p *parser, rule ruleID, pos int, f func(int) (T, int, bool)) (T, int, bool) {
	key := memoKey{rule, pos}
	if e, hit := p.memo[key]; hit {
		p.stats.MemoHits++
		v, _ := e.value.(T)
		return v, e.end, e.ok
	}

	v, end, ok := f(pos)
	p.memo[key] = memoEntry{value: v, end: end, ok: ok}
	return v, end, ok
}

// growLeft evaluates a directly left-recursive rule. A failing seed is
// recorded at pos so the recursive alternative falls through to the base
// case; each successful evaluation replaces the seed and the rule is
// re-evaluated until the match stops getting longer.
func growLeft[T any](p *parser, rule ruleID, pos int, f func(int) (T, int, bool)) (T, int, bool) {
	key := memoKey{rule, pos}
	if e, hit := p.memo[key]; hit {
		p.stats.MemoHits++
		v, _ := e.value.(T)
		return v, e.end, e.ok
	}

	p.memo[key] = memoEntry{end: pos}

	var best T
	bestEnd := pos
	found := false

	for {
		p.stats.GrowIterations++
		v, end, ok := f(pos)
		if !ok || (found && end <= bestEnd) {
			break
		}
		best, bestEnd, found = v, end, true
		p.memo[key] = memoEntry{value: v, end: end, ok: true}
	}

	return best, bestEnd, found
}

func (p *parser) fail(pos int, kind token.TokenType) {
	if p.quiet > 0 {
		return
	}
	if pos > p.furthest {
		p.furthest = pos
		p.expected = make(map[token.TokenType]struct{})
		p.detail = ""
	}
	if pos == p.furthest {
		p.expected[kind] = struct{}{}
	}
}

// failDetail records a semantic failure, such as an undecodable string, at
// pos.
func (p *parser) failDetail(pos int, detail string) {
	if p.quiet > 0 {
		return
	}
	if pos > p.furthest {
		p.furthest = pos
		p.expected = make(map[token.TokenType]struct{})
	}
	if pos == p.furthest {
		p.detail = detail
	}
}

func (p *parser) kind(pos int) token.TokenType {
	return p.s.kind(pos)
}

// tok matches a single token of the given kind.
func (p *parser) tok(pos int, kind token.TokenType) (int, bool) {
	if p.s.kind(pos) == kind {
		return pos + 1, true
	}
	p.fail(pos, kind)
	return pos, false
}

// oneOf matches a single token of any of the given kinds.
func (p *parser) oneOf(pos int, kinds ...token.TokenType) (token.TokenType, int, bool) {
	k := p.s.kind(pos)
	for _, want := range kinds {
		if k == want {
			return k, pos + 1, true
		}
	}
	for _, want := range kinds {
		p.fail(pos, want)
	}
	return token.TOK_INVALID, pos, false
}

// lookahead reports whether the token at pos is one of kinds without
// consuming it.
func (p *parser) lookahead(pos int, kinds ...token.TokenType) bool {
	_, _, ok := p.oneOf(pos, kinds...)
	return ok
}

// not succeeds when f fails at pos. Failures inside f are not reported.
func (p *parser) not(pos int, f func(int) bool) bool {
	p.quiet++
	ok := f(pos)
	p.quiet--
	return !ok
}

// notTok is a negative lookahead on a single token kind.
func (p *parser) notTok(pos int, kinds ...token.TokenType) bool {
	return p.not(pos, func(pos int) bool {
		return p.lookahead(pos, kinds...)
	})
}

// name matches a Name token and returns its text.
func (p *parser) name(pos int) (string, int, bool) {
	if p.s.kind(pos) != token.TOK_NAME {
		p.fail(pos, token.TOK_NAME)
		return "", pos, false
	}
	return p.s.names[p.s.tokens[pos].index], pos + 1, true
}

// sepBy1 matches one or more items separated by sep, without a trailing
// separator.
func sepBy1[T any](p *parser, pos int, sep token.TokenType, item func(int) (T, int, bool)) ([]T, int, bool) {
	first, q, ok := item(pos)
	if !ok {
		return nil, pos, false
	}

	items := []T{first}
	for {
		r, ok := p.tok(q, sep)
		if !ok {
			break
		}
		next, r, ok := item(r)
		if !ok {
			break
		}
		items = append(items, next)
		q = r
	}
	return items, q, true
}

// many matches zero or more items.
func many[T any](pos int, item func(int) (T, int, bool)) ([]T, int) {
	var items []T
	for {
		v, q, ok := item(pos)
		if !ok || q == pos {
			return items, pos
		}
		items = append(items, v)
		pos = q
	}
}

// many1 matches one or more items.
func many1[T any](pos int, item func(int) (T, int, bool)) ([]T, int, bool) {
	items, q := many(pos, item)
	if len(items) == 0 {
		return nil, pos, false
	}
	return items, q, true
}

// par matches `( inner )`.
func par[T any](p *parser, pos int, inner func(int) (T, int, bool)) (T, int, bool) {
	return delimited(p, pos, token.TOK_LPAR, token.TOK_RPAR, inner)
}

// sqb matches `[ inner ]`.
func sqb[T any](p *parser, pos int, inner func(int) (T, int, bool)) (T, int, bool) {
	return delimited(p, pos, token.TOK_LSQB, token.TOK_RSQB, inner)
}

// brace matches `{ inner }`.
func brace[T any](p *parser, pos int, inner func(int) (T, int, bool)) (T, int, bool) {
	return delimited(p, pos, token.TOK_LBRACE, token.TOK_RBRACE, inner)
}

func delimited[T any](p *parser, pos int, open, close token.TokenType, inner func(int) (T, int, bool)) (T, int, bool) {
	var zero T

	q, ok := p.tok(pos, open)
	if !ok {
		return zero, pos, false
	}
	v, q, ok := inner(q)
	if !ok {
		return zero, pos, false
	}
	q, ok = p.tok(q, close)
	if !ok {
		return zero, pos, false
	}
	return v, q, true
}
