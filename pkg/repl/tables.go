/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/dburkart/strata/pkg/parser"
	"github.com/dburkart/strata/pkg/token"
)

// TokenTable lists tokens with their kind, literal form and span.
type TokenTable []token.Spanned

func (t TokenTable) Headers() []string {
	return []string{"Index", "Kind", "Literal", "Start", "End"}
}

func (t TokenTable) Values() [][]string {
	rows := make([][]string, len(t))
	for i, tok := range t {
		rows[i] = []string{
			strconv.Itoa(i),
			tok.Tok.Type.ToString(),
			tok.Tok.String(),
			tok.Start.String(),
			tok.End.String(),
		}
	}
	return rows
}

// StatsTable describes the work done by a parse.
type StatsTable parser.Stats

func (s StatsTable) Headers() []string {
	return []string{"Tokens", "Memo Entries", "Memo Hits", "Grow Iterations"}
}

func (s StatsTable) Values() [][]string {
	return [][]string{{
		humanize.Comma(int64(s.Tokens)),
		humanize.Comma(int64(s.MemoEntries)),
		humanize.Comma(int64(s.MemoHits)),
		humanize.Comma(int64(s.GrowIterations)),
	}}
}
