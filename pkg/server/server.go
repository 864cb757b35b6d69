/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dburkart/strata/pkg/parser"
)

// MaxBodySize bounds the source text accepted by /parse.
const MaxBodySize = 4 << 20

type Server struct {
	log     zerolog.Logger
	metrics MetricsStore
	totals  *engineTotals

	port int
}

func New(log zerolog.Logger, port int) Server {
	totals := &engineTotals{}

	metrics := NewMetricsStore()
	metrics.RegisterCollector(newEngineStatsCollector(totals))

	return Server{
		log,
		metrics,
		totals,
		port,
	}
}

// Handler routes /parse and /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/parse", s.handleParse)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

func (s *Server) ListenAndServe() error {
	s.log.Info().Int("port", s.port).Msg("listening for parse requests")

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	id := uuid.New().String()
	log := s.log.With().Str("request-id", id).Logger()

	modeName := r.URL.Query().Get("mode")
	if modeName == "" {
		modeName = parser.ModeModule.String()
	}
	log.Info().Str("method", r.Method).Str("mode", modeName).Msg("parse request")

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.fail(log, w, http.StatusMethodNotAllowed, id, "invalid", "bad_request",
			errors.Errorf("method %s not allowed", r.Method))
		return
	}

	mode, err := parser.ParseMode(modeName)
	if err != nil {
		s.fail(log, w, http.StatusBadRequest, id, "invalid", "bad_request", err)
		return
	}
	modeName = mode.String()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(log, w, http.StatusRequestEntityTooLarge, id, modeName, "too_large",
				errors.Errorf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.fail(log, w, http.StatusBadRequest, id, modeName, "bad_request", errors.Wrap(err, "reading request body"))
		return
	}

	var stats parser.Stats
	start := time.Now()
	mod, err := parser.ParseString(string(body), mode, parser.WithLogger(log), parser.WithStats(&stats))
	s.metrics.ObserveParseNS(modeName, time.Since(start).Nanoseconds())
	s.totals.Add(stats)

	if err != nil {
		s.fail(log, w, http.StatusUnprocessableEntity, id, modeName, resultOf(err), err)
		return
	}

	s.metrics.ObserveTokens(stats.Tokens)
	s.metrics.IncRequests(modeName, "ok")
	log.Debug().Int("tokens", stats.Tokens).Msg("parsed")

	if err := writeJSON(w, http.StatusOK, parseResponse(id, modeName, mod)); err != nil {
		log.Error().Err(err).Msg("unable to write response")
	}
}

func (s *Server) fail(log zerolog.Logger, w http.ResponseWriter, status int, id, mode, result string, err error) {
	s.metrics.IncRequests(mode, result)
	log.Info().Err(err).Int("status", status).Msg("parse request failed")

	if err := writeJSON(w, status, ErrResponse{ID: id, Error: errorBody(err)}); err != nil {
		log.Error().Err(err).Msg("unable to write response")
	}
}

func resultOf(err error) string {
	if strings.HasPrefix(errorBody(err).Kind, "Lexical") {
		return "lexical_error"
	}
	return "syntax_error"
}
