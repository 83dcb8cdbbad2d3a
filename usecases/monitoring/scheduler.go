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

import "time"

func (pm *PrometheusMetrics) Enqueued() {
	if pm == nil {
		return
	}

	pm.QueueLength.Inc()
}

// Move an operation from the queue to the lock table
func (pm *PrometheusMetrics) Admitted(reservation bool, reads, writes int, waited time.Duration) {
	if pm == nil {
		return
	}

	kind := "operation"
	if reservation {
		kind = "reservation"
		pm.TransactionsActive.Inc()
	}

	pm.QueueLength.Dec()
	pm.Admissions.WithLabelValues(kind).Inc()
	pm.AdmissionWait.Observe(waited.Seconds())
	pm.LocksHeld.WithLabelValues("read").Add(float64(reads))
	pm.LocksHeld.WithLabelValues("write").Add(float64(writes))
}

// Remove an operation from the queue without admitting it
func (pm *PrometheusMetrics) WithdrawnFromQueue() {
	if pm == nil {
		return
	}

	pm.QueueLength.Dec()
	pm.Withdrawn.Inc()
}

func (pm *PrometheusMetrics) Released(reads, writes int) {
	if pm == nil {
		return
	}

	pm.LocksHeld.WithLabelValues("read").Sub(float64(reads))
	pm.LocksHeld.WithLabelValues("write").Sub(float64(writes))
}

func (pm *PrometheusMetrics) TransactionEnded(reserved int, timedOut bool) {
	if pm == nil {
		return
	}

	pm.TransactionsActive.Dec()
	pm.LocksHeld.WithLabelValues("read").Sub(float64(reserved))
	pm.LocksHeld.WithLabelValues("write").Sub(float64(reserved))
	if timedOut {
		pm.TransactionTimeouts.Inc()
	}
}

func (pm *PrometheusMetrics) BypassedQueue() {
	if pm == nil {
		return
	}

	pm.Bypassed.Inc()
}
