package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for editing sessions.
type Metrics struct {
	edits  *prometheus.CounterVec
	misses *prometheus.CounterVec
	nodes  *prometheus.GaugeVec
}

// NewMetrics registers session metrics on reg.
// A nil reg creates unregistered collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		edits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "querytree_edits_total",
				Help: "Total number of edits applied to a query tree",
			},
			[]string{"op"},
		),

		misses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "querytree_edit_misses_total",
				Help: "Total number of edits rejected without changing the tree",
			},
			[]string{"op"},
		),

		nodes: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "querytree_nodes",
				Help: "Current number of nodes in the query tree",
			},
			[]string{"kind"},
		),
	}
}

// RecordEdit records an applied edit.
func (m *Metrics) RecordEdit(op Op) {
	m.edits.WithLabelValues(string(op)).Inc()
}

// RecordMiss records an edit that left the tree unchanged.
func (m *Metrics) RecordMiss(op Op) {
	m.misses.WithLabelValues(string(op)).Inc()
}

// SetNodes records the current rule and group counts.
func (m *Metrics) SetNodes(rules, groups int) {
	m.nodes.WithLabelValues("rule").Set(float64(rules))
	m.nodes.WithLabelValues("group").Set(float64(groups))
}
