//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2024 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package monitoring

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rest_api_transactions"

type PrometheusMetrics struct {
	QueueLength         prometheus.Gauge
	LocksHeld           *prometheus.GaugeVec
	TransactionsActive  prometheus.Gauge
	Admissions          *prometheus.CounterVec
	AdmissionWait       prometheus.Histogram
	TransactionTimeouts prometheus.Counter
	Bypassed            prometheus.Counter
	Withdrawn           prometheus.Counter

	Locks        *prometheus.GaugeVec
	LocksWaiting *prometheus.GaugeVec

	OpenConnections     prometheus.Gauge
	AcceptedConnections prometheus.Counter
}

var (
	msMetrics     *PrometheusMetrics
	msMetricsOnce sync.Once
)

// GetMetrics returns the process wide metrics registered with the default
// prometheus registerer.
func GetMetrics() *PrometheusMetrics {
	msMetricsOnce.Do(func() {
		msMetrics = NewPrometheusMetrics(prometheus.DefaultRegisterer)
	})
	return msMetrics
}

// NewPrometheusMetrics registers all collectors with reg. Pass NoopRegisterer
// to get working but unexported collectors.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = NoopRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		QueueLength: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_length",
			Help:      "Number of operations waiting for admission",
		}),
		LocksHeld: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "locks_held",
			Help:      "Number of granted resource locks by kind (read/write)",
		}, []string{"kind"}),
		TransactionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "transactions_active",
			Help:      "Number of registered transactions",
		}),
		Admissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admissions_total",
			Help:      "Number of admitted operations by kind (operation/reservation)",
		}, []string{"kind"}),
		AdmissionWait: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "admission_wait_seconds",
			Help:      "Time operations spent in the admission queue",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		TransactionTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transaction_timeouts_total",
			Help:      "Number of transactions ended by their timeout",
		}),
		Bypassed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bypassed_total",
			Help:      "Number of requests executed without entering the admission queue",
		}),
		Withdrawn: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "withdrawn_total",
			Help:      "Number of operations that left the queue before admission",
		}),
		Locks: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scheduler_locks",
			Help:      "Number of currently held mutexes by location",
		}, []string{"location"}),
		LocksWaiting: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scheduler_locks_waiting",
			Help:      "Number of goroutines waiting for a mutex by location",
		}, []string{"location"}),
		OpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_connections",
			Help:      "Number of currently open client connections",
		}),
		AcceptedConnections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accepted_connections_total",
			Help:      "Number of accepted client connections",
		}),
	}
}
