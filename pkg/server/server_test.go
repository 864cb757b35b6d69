/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newTestServer() Server {
	return New(zerolog.Nop(), 0)
}

func post(t *testing.T, h http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestParseModule(t *testing.T) {
	srv := newTestServer()
	rec := post(t, srv.Handler(), "/parse", "x = 1\n")

	if rec.Code != http.StatusOK {
		t.Fatalf("wanted 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("wanted a JSON response, got %s", ct)
	}

	var resp ParseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(resp.ID); err != nil {
		t.Errorf("wanted a uuid request id, got %q", resp.ID)
	}
	if resp.Mode != "module" || resp.AST["_type"] != "Module" {
		t.Errorf("unexpected response %+v", resp)
	}

	body := resp.AST["body"].([]any)
	assign := body[0].(map[string]any)
	if assign["_type"] != "Assign" {
		t.Errorf("wanted an Assign, got %v", assign["_type"])
	}
}

func TestParseExpressionModeAlias(t *testing.T) {
	srv := newTestServer()
	rec := post(t, srv.Handler(), "/parse?mode=eval", "a + b")

	if rec.Code != http.StatusOK {
		t.Fatalf("wanted 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ParseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Mode != "expression" || resp.AST["_type"] != "Expression" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		status int
		kind   string
	}{
		{"syntax", "/parse", "1 = 2\n", http.StatusUnprocessableEntity, "UnrecognizedToken"},
		{"eof", "/parse", "if x:\n", http.StatusUnprocessableEntity, "EOF"},
		{"lexical", "/parse", "x = $\n", http.StatusUnprocessableEntity, "LexicalError"},
		{"mode", "/parse?mode=bogus", "x\n", http.StatusBadRequest, "BadRequest"},
	}

	srv := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, srv.Handler(), tt.target, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("wanted %d, got %d", tt.status, rec.Code)
			}

			var resp ErrResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Error.Kind != tt.kind {
				t.Errorf("wanted %s, got %+v", tt.kind, resp.Error)
			}
		})
	}
}

func TestParseSyntaxErrorLocation(t *testing.T) {
	srv := newTestServer()
	rec := post(t, srv.Handler(), "/parse", "1 = 2\n")

	var resp ErrResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Error.Location) != 2 || resp.Error.Location[0] != 1 || resp.Error.Location[1] != 2 {
		t.Errorf("wanted the error at 1:2, got %v", resp.Error.Location)
	}
	if resp.Error.Message != "unrecognized token '='" {
		t.Errorf("unexpected message %q", resp.Error.Message)
	}
}

func TestBodyTooLarge(t *testing.T) {
	srv := newTestServer()

	// Every line is valid, so only a truncated read could produce a tree
	line := "x = 1\n"
	body := strings.Repeat(line, MaxBodySize/len(line)+1)
	rec := post(t, srv.Handler(), "/parse", body)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("wanted 413, got %d", rec.Code)
	}

	var resp ErrResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error.Kind != "BadRequest" {
		t.Errorf("wanted BadRequest, got %+v", resp.Error)
	}
	if strings.Contains(rec.Body.String(), `"ast"`) {
		t.Errorf("wanted no tree for an oversized body")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/parse", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("wanted 405, got %d", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodPost {
		t.Errorf("wanted an Allow header")
	}
}

func TestMetrics(t *testing.T) {
	srv := newTestServer()
	post(t, srv.Handler(), "/parse", "a + b * c\n")
	post(t, srv.Handler(), "/parse", "1 = 2\n")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`strata_parse_requests{mode="module",result="ok"} 1`,
		`strata_parse_requests{mode="module",result="syntax_error"} 1`,
		"strata_parse_duration_ns_bucket",
		"strata_parse_tokens_count 1",
		"strata_engine_memo_entries_total",
		"strata_engine_grow_iterations_total",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("wanted %q in metrics output", want)
		}
	}
}
