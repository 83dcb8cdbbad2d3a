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

package ctxlock

import (
	"sync"

	"github.com/mhk76/RestApiTransactions/usecases/monitoring"
)

// MeteredMutex is a mutex that reports holders and waiters per location.
type MeteredMutex struct {
	lock     sync.Mutex
	location string
	metrics  *monitoring.PrometheusMetrics
}

// NewMeteredMutex returns a mutex reporting to metrics. A nil metrics value
// turns metering off.
func NewMeteredMutex(location string, metrics *monitoring.PrometheusMetrics) *MeteredMutex {
	return &MeteredMutex{
		location: location,
		metrics:  metrics,
	}
}

func (m *MeteredMutex) Lock() {
	if m.metrics == nil {
		m.lock.Lock()
		return
	}
	m.metrics.LocksWaiting.WithLabelValues(m.location).Inc()
	m.lock.Lock()
	m.metrics.LocksWaiting.WithLabelValues(m.location).Dec()
	m.metrics.Locks.WithLabelValues(m.location).Inc()
}

func (m *MeteredMutex) Unlock() {
	if m.metrics != nil {
		m.metrics.Locks.WithLabelValues(m.location).Dec()
	}
	m.lock.Unlock()
}
