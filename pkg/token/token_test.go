/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package token

import (
	"errors"
	"io"
	"math/big"
	"testing"
)

func TestKeyword(t *testing.T) {
	for _, word := range []string{"def", "lambda", "None", "yield", "nonlocal"} {
		tt, ok := Keyword(word)
		if !ok {
			t.Errorf("wanted %q to be a keyword", word)
			continue
		}
		if tt.Text() != word {
			t.Errorf("wanted %s to spell %q, got %q", tt.ToString(), word, tt.Text())
		}
	}

	if _, ok := Keyword("print"); ok {
		t.Error("print should not be a keyword")
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{NewName("spam"), "spam"},
		{NewInt(big.NewInt(42)), "42"},
		{NewFloat(1), "1.0"},
		{NewFloat(2.5), "2.5"},
		{NewComplex(0, 3), "3.0j"},
		{NewComplex(1, -2), "(1.0-2.0j)"},
		{NewString("hi", StringBytes, false), `b"hi"`},
		{New(TOK_DOUBLE_STAR_EQUAL), "**="},
		{New(TOK_ELSE), "else"},
		{New(TOK_DEDENT), "<dedent>"},
	}

	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("wanted %q, got %q", tt.want, got)
		}
	}
}

func TestFromResults(t *testing.T) {
	lexErr := errors.New("boom")
	src := FromResults([]Result{
		{Spanned: Spanned{Tok: NewName("a")}},
		{Err: lexErr},
	})

	tok, err := src.NextToken()
	if err != nil || tok.Tok.Lexeme != "a" {
		t.Fatalf("wanted name token, got %v (%v)", tok, err)
	}

	if _, err = src.NextToken(); err != lexErr {
		t.Fatalf("wanted lexical error to pass through, got %v", err)
	}

	empty := FromTokens(nil)
	if _, err = empty.NextToken(); err != io.EOF {
		t.Errorf("wanted io.EOF, got %v", err)
	}
}
