/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsStore interface {
	Registry() *prometheus.Registry
	RegisterCollector(c prometheus.Collector)
	Handler() http.Handler

	// Collection
	IncRequests(mode, result string)
	ObserveParseNS(mode string, t int64)
	ObserveTokens(n int)
}

type metricsStore struct {
	registry *prometheus.Registry
	Requests *prometheus.CounterVec
	ParseNS  *prometheus.HistogramVec
	Tokens   prometheus.Histogram
}

var (
	ModeLabel   = "mode"
	ResultLabel = "result"
)

func NewMetricsStore() MetricsStore {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsAll),
		),
	)

	buckets := []float64{}
	for i := 1; i < 20; i++ {
		buckets = append(buckets, float64(2*i*int(time.Millisecond)))
	}

	factory := promauto.With(reg)
	return &metricsStore{
		registry: reg,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "strata_parse_requests",
			Help: "Parse request counts by mode and result",
		}, []string{ModeLabel, ResultLabel}),
		ParseNS: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "strata_parse_duration_ns",
			Help:    "Time spent lexing and parsing a request",
			Buckets: buckets,
		}, []string{ModeLabel}),
		Tokens: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "strata_parse_tokens",
			Help:    "Number of interned tokens per parsed request",
			Buckets: prometheus.ExponentialBuckets(8, 4, 8),
		}),
	}
}

func (ms *metricsStore) Registry() *prometheus.Registry {
	return ms.registry
}

func (ms *metricsStore) RegisterCollector(c prometheus.Collector) {
	ms.registry.MustRegister(c)
}

func (ms *metricsStore) Handler() http.Handler {
	return promhttp.HandlerFor(ms.Registry(), promhttp.HandlerOpts{Registry: ms.Registry()})
}

func (ms *metricsStore) IncRequests(mode, result string) {
	ms.Requests.With(prometheus.Labels{ModeLabel: mode, ResultLabel: result}).Inc()
}

func (ms *metricsStore) ObserveParseNS(mode string, t int64) {
	ms.ParseNS.
		With(prometheus.Labels{ModeLabel: mode}).
		Observe(float64(t))
}

func (ms *metricsStore) ObserveTokens(n int) {
	ms.Tokens.Observe(float64(n))
}
