// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics holds the Prometheus collectors of the broker.
//
// Collectors are registered on the Registerer handed to [New]; a nil
// Registerer yields working but unregistered collectors, which is what tests
// use. Every method is safe on a nil *Metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ssdm"

// Outcome labels shared by the result-bearing counters.
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics groups the broker collectors.
type Metrics struct {
	// TokensIssued counts signed tokens by class.
	TokensIssued *prometheus.CounterVec

	// SessionsCreated counts opened viewer sessions by session type.
	SessionsCreated *prometheus.CounterVec

	// Extensions counts extension attempts by result.
	Extensions *prometheus.CounterVec

	// Disclosures counts vault reads by result.
	Disclosures *prometheus.CounterVec

	// JanitorPurged counts records removed by the janitor, by record kind.
	JanitorPurged *prometheus.CounterVec

	// StoreUp is 1 while the last store health probe succeeded.
	StoreUp prometheus.Gauge

	// RequestDuration observes HTTP handling time by route pattern and status.
	RequestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TokensIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Signed tokens by class",
		}, []string{"class"}),

		SessionsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Viewer sessions opened by session type",
		}, []string{"type"}),

		Extensions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_extensions_total",
			Help:      "Viewer session extension attempts by result",
		}, []string{"result"}),

		Disclosures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disclosures_total",
			Help:      "Personal data disclosures by result",
		}, []string{"result"}),

		JanitorPurged: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "janitor_purged_total",
			Help:      "Expired records removed by the janitor by kind",
		}, []string{"kind"}),

		StoreUp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_up",
			Help:      "Whether the last store health probe succeeded",
		}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request handling time by route and status",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "method", "status"}),
	}
}

// IncTokenIssued records one signed token of the given class.
func (m *Metrics) IncTokenIssued(class string) {
	if m != nil {
		m.TokensIssued.WithLabelValues(class).Inc()
	}
}

// IncSessionCreated records one opened session.
func (m *Metrics) IncSessionCreated(sessionType string) {
	if m != nil {
		m.SessionsCreated.WithLabelValues(sessionType).Inc()
	}
}

// IncExtension records an extension attempt.
func (m *Metrics) IncExtension(result string) {
	if m != nil {
		m.Extensions.WithLabelValues(result).Inc()
	}
}

// IncDisclosure records a disclosure attempt.
func (m *Metrics) IncDisclosure(result string) {
	if m != nil {
		m.Disclosures.WithLabelValues(result).Inc()
	}
}

// AddPurged records n records of kind removed by the janitor.
func (m *Metrics) AddPurged(kind string, n int) {
	if m != nil && n > 0 {
		m.JanitorPurged.WithLabelValues(kind).Add(float64(n))
	}
}

// SetStoreUp records the result of a store health probe.
func (m *Metrics) SetStoreUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.StoreUp.Set(1)
		return
	}
	m.StoreUp.Set(0)
}

// ObserveRequest records the duration of one HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, method, statusClass(status)).Observe(d.Seconds())
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
