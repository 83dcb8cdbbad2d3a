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
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhk76/RestApiTransactions/usecases/monitoring"
)

func TestMeteredMutex_BasicLockUnlock(t *testing.T) {
	m := NewMeteredMutex("test-metered", nil)

	m.Lock()
	m.Unlock()

	m.Lock()
	m.Unlock()
}

func TestMeteredMutex_ReportsHoldersAndWaiters(t *testing.T) {
	metrics := monitoring.NewPrometheusMetrics(prometheus.NewRegistry())
	m := NewMeteredMutex("scheduler", metrics)

	held := metrics.Locks.WithLabelValues("scheduler")
	waiting := metrics.LocksWaiting.WithLabelValues("scheduler")

	m.Lock()
	assert.Equal(t, float64(1), testutil.ToFloat64(held))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.Lock()
		m.Unlock()
	}()

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(waiting) == 1
	}, time.Second, time.Millisecond)

	m.Unlock()
	wg.Wait()

	assert.Equal(t, float64(0), testutil.ToFloat64(held))
	assert.Equal(t, float64(0), testutil.ToFloat64(waiting))
}

func TestMeteredMutex_ProtectsCriticalSection(t *testing.T) {
	m := NewMeteredMutex("test-metered", monitoring.NewPrometheusMetrics(monitoring.NoopRegisterer))

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Lock()
				counter++
				m.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5000, counter)
}
