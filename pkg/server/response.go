/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/dburkart/strata/pkg/ast"
	"github.com/dburkart/strata/pkg/common/parse"
	"github.com/dburkart/strata/pkg/lexer"
	"github.com/dburkart/strata/pkg/parser"
)

// ParseResponse is the body of a successful parse.
type ParseResponse struct {
	ID   string         `json:"id"`
	Mode string         `json:"mode"`
	AST  map[string]any `json:"ast"`
}

// ErrResponse is the body of a failed request.
type ErrResponse struct {
	ID    string    `json:"id"`
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Location []int    `json:"location,omitempty"`
	Expected []string `json:"expected,omitempty"`
	Detail   string   `json:"detail,omitempty"`
}

func location(l parse.Location) []int {
	return []int{l.Row, l.Column}
}

func parseResponse(id, mode string, mod ast.Mod) ParseResponse {
	return ParseResponse{ID: id, Mode: mode, AST: ast.ToMap(mod)}
}

// errorBody describes err, which is either a lexical or a syntax error.
func errorBody(err error) ErrorBody {
	var lexErr *lexer.Error
	if errors.As(err, &lexErr) {
		return ErrorBody{
			Kind:     "LexicalError",
			Message:  lexErr.Message,
			Location: location(lexErr.Location),
		}
	}

	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		body := ErrorBody{
			Kind:     parseErr.Kind.String(),
			Message:  parseErr.Message(),
			Location: location(parseErr.Location),
			Detail:   parseErr.Detail,
		}
		for _, k := range parseErr.Expected {
			body.Expected = append(body.Expected, k.ToString())
		}
		return body
	}

	return ErrorBody{Kind: "BadRequest", Message: err.Error()}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
