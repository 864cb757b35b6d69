/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package tokens

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/dburkart/strata/pkg/lexer"
	"github.com/dburkart/strata/pkg/token"
)

func TestTable(t *testing.T) {
	source := "x = 1  # one\n\ny = 2\n"

	table, err := Table(source, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(table) != 8 {
		t.Errorf("wanted 8 interned tokens, got %d", len(table))
	}

	raw, err := Table(source, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) != 10 {
		t.Errorf("wanted 10 raw tokens, got %d", len(raw))
	}
	if raw[3].Tok.Type != token.TOK_COMMENT {
		t.Errorf("wanted the comment in the raw table, got %s", raw[3].Tok.Type)
	}
}

func TestTableLexicalError(t *testing.T) {
	_, err := Table("x = $\n", false)

	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		t.Errorf("wanted a *lexer.Error, got %v", err)
	}
}

func TestValidFormat(t *testing.T) {
	for _, f := range []string{"text", "csv", "json"} {
		if !validFormat(f) {
			t.Errorf("wanted %s to be accepted", f)
		}
	}
	if validFormat("xml") {
		t.Errorf("wanted xml to be rejected")
	}
}
