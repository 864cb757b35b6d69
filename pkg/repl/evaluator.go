/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dburkart/strata/pkg/ast"
	"github.com/dburkart/strata/pkg/lexer"
	"github.com/dburkart/strata/pkg/parser"
)

// ErrIncomplete is returned by Feed while the buffered input needs more lines.
var ErrIncomplete = errors.New("incomplete input")

// Evaluator accumulates REPL lines until they form a complete unit for its
// mode, then parses them.
type Evaluator struct {
	Mode parser.Mode

	log    zerolog.Logger
	buffer []string

	// Results of the last parse attempt
	source  string
	session *parser.Session
	stats   parser.Stats
}

func NewEvaluator(log zerolog.Logger, mode parser.Mode) *Evaluator {
	return &Evaluator{
		Mode: mode,
		log:  log,
	}
}

// Pending reports whether lines are buffered waiting for continuation.
func (e *Evaluator) Pending() bool {
	return len(e.buffer) > 0
}

// Reset discards buffered lines.
func (e *Evaluator) Reset() {
	e.buffer = nil
}

// Feed adds a line of input. It returns ErrIncomplete while more lines are
// needed. Once the first line opens a block, input is only parsed after a
// blank line.
func (e *Evaluator) Feed(line string) (ast.Mod, error) {
	blank := strings.TrimSpace(line) == ""
	if blank && len(e.buffer) == 0 {
		return nil, ErrIncomplete
	}

	if !blank {
		e.buffer = append(e.buffer, line)
		if e.opensBlock() {
			return nil, ErrIncomplete
		}
	}

	mod, err := e.parse(strings.Join(e.buffer, "\n") + "\n")
	if err != nil && !blank && incomplete(err) {
		return nil, ErrIncomplete
	}

	e.Reset()
	return mod, err
}

func (e *Evaluator) opensBlock() bool {
	return strings.HasSuffix(strings.TrimSpace(e.buffer[0]), ":")
}

func (e *Evaluator) parse(source string) (ast.Mod, error) {
	e.source = source
	e.session = nil
	e.stats = parser.Stats{}

	s, err := parser.NewSession(lexer.New(source))
	if err != nil {
		return nil, err
	}
	e.session = s

	return s.Parse(e.Mode, parser.WithLogger(e.log), parser.WithStats(&e.stats))
}

// Tokens returns the interned tokens of the last parsed input.
func (e *Evaluator) Tokens() TokenTable {
	if e.session == nil {
		return nil
	}
	return TokenTable(e.session.Tokens())
}

// Stats returns the engine statistics of the last parse.
func (e *Evaluator) Stats() StatsTable {
	return StatsTable(e.stats)
}

// Source returns the text of the last parsed input.
func (e *Evaluator) Source() string {
	return e.source
}

// incomplete reports whether err could be resolved by more input.
func incomplete(err error) bool {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return lexErr.Incomplete
	}

	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Kind == parser.ErrEOF
	}
	return false
}
