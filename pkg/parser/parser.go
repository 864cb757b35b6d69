/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package parser

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dburkart/strata/pkg/ast"
	"github.com/dburkart/strata/pkg/lexer"
	"github.com/dburkart/strata/pkg/token"
)

// Mode selects the entry rule.
type Mode int

const (
	ModeModule Mode = iota
	ModeInteractive
	ModeExpression
)

var modeNames = []string{"module", "interactive", "expression"}

func (m Mode) String() string {
	return modeNames[m]
}

// ParseMode converts a mode name into a Mode. "exec", "single" and "eval"
// are accepted as aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "module", "exec":
		return ModeModule, nil
	case "interactive", "single":
		return ModeInteractive, nil
	case "expression", "eval":
		return ModeExpression, nil
	}
	return ModeModule, errors.Errorf("unknown parse mode '%s'", s)
}

// Stats describes the work done by one parse.
type Stats struct {
	Tokens         int
	MemoEntries    int
	MemoHits       int
	GrowIterations int
}

type config struct {
	log        zerolog.Logger
	stats      *Stats
	sourcePath string
}

type Option func(*config)

func WithLogger(log zerolog.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithStats fills s with engine statistics once parsing finishes.
func WithStats(s *Stats) Option {
	return func(c *config) {
		c.stats = s
	}
}

// WithSourcePath names the input in error messages.
func WithSourcePath(path string) Option {
	return func(c *config) {
		c.sourcePath = path
	}
}

// Parse runs the entry rule for mode over the session. Each call uses a
// fresh memo table.
func (s *Session) Parse(mode Mode, opts ...Option) (ast.Mod, error) {
	c := config{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&c)
	}

	p := newParser(s, c.log)

	var (
		mod ast.Mod
		ok  bool
	)
	switch mode {
	case ModeInteractive:
		mod, ok = p.interactive()
	case ModeExpression:
		mod, ok = p.eval()
	default:
		mod, ok = p.file()
	}

	p.stats.Tokens = s.Len()
	p.stats.MemoEntries = len(p.memo)
	if c.stats != nil {
		*c.stats = p.stats
	}

	p.log.Debug().
		Str("mode", mode.String()).
		Int("tokens", p.stats.Tokens).
		Int("memo_entries", p.stats.MemoEntries).
		Int("memo_hits", p.stats.MemoHits).
		Int("grow_iterations", p.stats.GrowIterations).
		Bool("ok", ok).
		Msg("parsed session")

	if !ok {
		err := p.newParseError()
		err.SourcePath = c.sourcePath
		return nil, err
	}
	return mod, nil
}

// Parse interns src and parses it with the entry rule for mode. Lexical
// errors from src are returned unchanged.
func Parse(src token.Source, mode Mode, opts ...Option) (ast.Mod, error) {
	s, err := NewSession(src)
	if err != nil {
		return nil, err
	}
	return s.Parse(mode, opts...)
}

// ParseString lexes and parses source text.
func ParseString(source string, mode Mode, opts ...Option) (ast.Mod, error) {
	return Parse(lexer.New(source), mode, opts...)
}

func ParseModule(src token.Source, opts ...Option) (*ast.Module, error) {
	mod, err := Parse(src, ModeModule, opts...)
	if err != nil {
		return nil, err
	}
	return mod.(*ast.Module), nil
}

func ParseInteractive(src token.Source, opts ...Option) (*ast.Interactive, error) {
	mod, err := Parse(src, ModeInteractive, opts...)
	if err != nil {
		return nil, err
	}
	return mod.(*ast.Interactive), nil
}

func ParseExpression(src token.Source, opts ...Option) (*ast.Expression, error) {
	mod, err := Parse(src, ModeExpression, opts...)
	if err != nil {
		return nil, err
	}
	return mod.(*ast.Expression), nil
}
