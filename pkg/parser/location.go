/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parser

import (
	"fmt"

	"github.com/dburkart/strata/pkg/common/parse"
	"github.com/dburkart/strata/pkg/token"
)

type spanner interface {
	SetSpan(start, end parse.Location)
}

// span returns the source range covered by tokens [begin, end).
func (p *parser) span(begin, end int) (parse.Location, parse.Location) {
	if begin >= end {
		panic(fmt.Sprintf("empty token range [%d, %d)", begin, end))
	}
	return p.s.spans[begin].start, p.s.spans[end-1].end
}

// located sets the span of n to the tokens [begin, end) and returns it.
func located[N spanner](p *parser, begin, end int, n N) N {
	n.SetSpan(p.span(begin, end))
	return n
}

// blockEnd backs pos up over the Newline and Dedent tokens that close a
// block, so that a compound statement ends with its last real token.
func (p *parser) blockEnd(pos int) int {
	for pos > 0 {
		k := p.s.tokens[pos-1].kind
		if k != token.TOK_NEWLINE && k != token.TOK_DEDENT {
			break
		}
		pos--
	}
	return pos
}

// locatedBlock is located with the end trimmed by blockEnd.
func locatedBlock[N spanner](p *parser, begin, end int, n N) N {
	return located(p, begin, p.blockEnd(end), n)
}
