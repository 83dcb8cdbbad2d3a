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
	"net"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// CountingListener wraps l so that OpenConnections follows the number of
// live client connections and AcceptedConnections counts every accept.
// A nil receiver returns l unchanged.
func (pm *PrometheusMetrics) CountingListener(l net.Listener) net.Listener {
	if pm == nil {
		return l
	}
	return &countingListener{Listener: l, open: pm.OpenConnections, accepted: pm.AcceptedConnections}
}

type countingListener struct {
	net.Listener
	open     prometheus.Gauge
	accepted prometheus.Counter
}

func (c *countingListener) Accept() (net.Conn, error) {
	conn, err := c.Listener.Accept()
	if err != nil {
		return nil, err
	}
	c.accepted.Inc()
	c.open.Inc()
	return &countingConn{Conn: conn, open: c.open}, nil
}

type countingConn struct {
	net.Conn
	open prometheus.Gauge
	once sync.Once
}

func (c *countingConn) Close() error {
	err := c.Conn.Close()

	// Close may be called more than once per connection.
	c.once.Do(c.open.Dec)

	return err
}
