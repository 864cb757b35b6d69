/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package token

import "io"

// Source is a finite stream of tokens. NextToken returns io.EOF once the
// stream is exhausted; any other error is a lexical error.
type Source interface {
	NextToken() (Spanned, error)
}

type sliceSource struct {
	results []Result
	pos     int
}

// FromResults adapts already materialized lexer results into a Source.
func FromResults(results []Result) Source {
	return &sliceSource{results: results}
}

// FromTokens adapts a slice of tokens into a Source.
func FromTokens(tokens []Spanned) Source {
	results := make([]Result, len(tokens))
	for i, t := range tokens {
		results[i] = Result{Spanned: t}
	}
	return FromResults(results)
}

func (s *sliceSource) NextToken() (Spanned, error) {
	if s.pos >= len(s.results) {
		return Spanned{}, io.EOF
	}
	r := s.results[s.pos]
	s.pos++
	if r.Err != nil {
		return Spanned{}, r.Err
	}
	return r.Spanned, nil
}

// Collect drains src into a slice.
func Collect(src Source) ([]Spanned, error) {
	var out []Spanned
	for {
		tok, err := src.NextToken()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, tok)
	}
}
