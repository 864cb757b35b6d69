/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package repl

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dburkart/strata/pkg/ast"
	"github.com/dburkart/strata/pkg/parser"
)

func TestParseCommand(t *testing.T) {
	t.Run("mode", func(t *testing.T) {
		cmd, err := ParseCommand(":mode expression")
		if err != nil {
			t.Fatal(err)
		}
		if cmd.Name != CommandMode || cmd.Arg != "expression" {
			t.Errorf("unexpected command %+v", cmd)
		}
	})
	t.Run("mode no args", func(t *testing.T) {
		_, err := ParseCommand(":mode")
		if err == nil {
			t.Fail()
		}
	})
	t.Run("case insensitive", func(t *testing.T) {
		cmd, err := ParseCommand(":TOKENS")
		if err != nil || cmd.Name != CommandTokens {
			t.Fail()
		}
	})
	t.Run("quit aliases", func(t *testing.T) {
		for _, line := range []string{":quit", ":q", ":exit"} {
			cmd, err := ParseCommand(line)
			if err != nil || cmd.Name != CommandQuit {
				t.Errorf("%s: wanted quit, got %+v (%v)", line, cmd, err)
			}
		}
	})
	t.Run("unknown", func(t *testing.T) {
		_, err := ParseCommand(":frobnicate now")
		if errors.Cause(err) != ErrUnknownCommand {
			t.Errorf("wanted ErrUnknownCommand, got %v", err)
		}
	})
	t.Run("is command", func(t *testing.T) {
		if !IsCommand("  :stats") || IsCommand("x = 1") {
			t.Fail()
		}
	})
}

func TestEvaluatorSingleLine(t *testing.T) {
	e := NewEvaluator(zerolog.Nop(), parser.ModeInteractive)

	mod, err := e.Feed("x = 1")
	if err != nil {
		t.Fatal(err)
	}
	if len(mod.(*ast.Interactive).Body) != 1 {
		t.Errorf("wanted one statement")
	}
	if e.Pending() {
		t.Errorf("wanted the buffer to be flushed")
	}
	if e.Stats().Tokens != 4 {
		t.Errorf("wanted 4 tokens, got %d", e.Stats().Tokens)
	}
}

func TestEvaluatorBlock(t *testing.T) {
	e := NewEvaluator(zerolog.Nop(), parser.ModeInteractive)

	for _, line := range []string{"if x:", "    y = 1", "    z = 2"} {
		if _, err := e.Feed(line); err != ErrIncomplete {
			t.Fatalf("%q: wanted ErrIncomplete, got %v", line, err)
		}
	}

	mod, err := e.Feed("")
	if err != nil {
		t.Fatal(err)
	}
	stmt := mod.(*ast.Interactive).Body[0].(*ast.If)
	if len(stmt.Body) != 2 {
		t.Errorf("wanted 2 statements in the block, got %d", len(stmt.Body))
	}
}

func TestEvaluatorOpenBracket(t *testing.T) {
	e := NewEvaluator(zerolog.Nop(), parser.ModeExpression)

	if _, err := e.Feed("f(1,"); err != ErrIncomplete {
		t.Fatalf("wanted ErrIncomplete, got %v", err)
	}
	mod, err := e.Feed("  2)")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := mod.(*ast.Expression).Body.(*ast.Call); !ok {
		t.Errorf("wanted a call")
	}
}

func TestEvaluatorSyntaxError(t *testing.T) {
	e := NewEvaluator(zerolog.Nop(), parser.ModeInteractive)

	_, err := e.Feed("1 = 2")
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("wanted a *parser.ParseError, got %v", err)
	}
	if e.Pending() {
		t.Errorf("wanted the buffer to be discarded after an error")
	}

	// Tokens of the failed input stay available
	if len(e.Tokens()) != 4 {
		t.Errorf("wanted 4 tokens, got %d", len(e.Tokens()))
	}
}

func TestTextWriter(t *testing.T) {
	e := NewEvaluator(zerolog.Nop(), parser.ModeExpression)
	if _, err := e.Feed("a + 1"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := NewOutputWriter(&buf, "text").Write(e.Tokens()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"TOK_NAME", "TOK_PLUS", "1:4"} {
		if !strings.Contains(out, want) {
			t.Errorf("wanted %q in:\n%s", want, out)
		}
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	stats := StatsTable{Tokens: 1200, MemoEntries: 3, MemoHits: 2, GrowIterations: 1}
	if err := NewOutputWriter(&buf, "csv").Write(stats); err != nil {
		t.Fatal(err)
	}

	want := "Tokens,Memo Entries,Memo Hits,Grow Iterations\n\"1,200\",3,2,1\n"
	if buf.String() != want {
		t.Errorf("wanted %q, got %q", want, buf.String())
	}
}

func TestJSONWriter(t *testing.T) {
	e := NewEvaluator(zerolog.Nop(), parser.ModeExpression)
	if _, err := e.Feed("x"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := NewOutputWriter(&buf, "json").Write(e.Tokens()); err != nil {
		t.Fatal(err)
	}

	var rows []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0]["Literal"] != "x" || rows[1]["Kind"] != "TOK_NEWLINE" {
		t.Errorf("unexpected rows %v", rows)
	}
}
