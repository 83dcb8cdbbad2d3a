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

import "github.com/prometheus/client_golang/prometheus"

// NoopRegisterer is a no-op registry mainly used to disable metrics
// registration when monitoring is disabled or in tests that create many
// schedulers.
var NoopRegisterer prometheus.Registerer = &NoopPrometheusRegistery{}

type NoopPrometheusRegistery struct{}

func (n *NoopPrometheusRegistery) Register(prometheus.Collector) error {
	return nil
}

func (n *NoopPrometheusRegistery) MustRegister(...prometheus.Collector) {
}

func (n *NoopPrometheusRegistery) Unregister(prometheus.Collector) bool {
	return true
}
