/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dburkart/strata/pkg/parser"
)

// engineTotals accumulates parser.Stats across requests.
type engineTotals struct {
	mu    sync.Mutex
	stats parser.Stats
}

func (t *engineTotals) Add(s parser.Stats) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Tokens += s.Tokens
	t.stats.MemoEntries += s.MemoEntries
	t.stats.MemoHits += s.MemoHits
	t.stats.GrowIterations += s.GrowIterations
}

func (t *engineTotals) Get() parser.Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

type engineStatsCollector struct {
	totals *engineTotals

	memoEntries    *prometheus.Desc
	memoHits       *prometheus.Desc
	growIterations *prometheus.Desc
}

func newEngineStatsCollector(totals *engineTotals) prometheus.Collector {
	return &engineStatsCollector{
		totals: totals,
		memoEntries: prometheus.NewDesc(
			"strata_engine_memo_entries_total",
			"Memo table entries created by all parses.",
			nil, nil,
		),
		memoHits: prometheus.NewDesc(
			"strata_engine_memo_hits_total",
			"Rule evaluations answered from the memo table.",
			nil, nil,
		),
		growIterations: prometheus.NewDesc(
			"strata_engine_grow_iterations_total",
			"Evaluations of left-recursive rules while growing a seed.",
			nil, nil,
		),
	}
}

// Describe implements Collector.
func (c *engineStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.memoEntries
	ch <- c.memoHits
	ch <- c.growIterations
}

// Collect implements Collector.
func (c *engineStatsCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.totals.Get()
	ch <- prometheus.MustNewConstMetric(c.memoEntries, prometheus.CounterValue, float64(stats.MemoEntries))
	ch <- prometheus.MustNewConstMetric(c.memoHits, prometheus.CounterValue, float64(stats.MemoHits))
	ch <- prometheus.MustNewConstMetric(c.growIterations, prometheus.CounterValue, float64(stats.GrowIterations))
}
