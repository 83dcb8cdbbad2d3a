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

// Package ratelimiter bounds how many operations may wait for admission at
// the same time.
package ratelimiter

import "sync/atomic"

// Limiter is a thread-safe counter of pending operations. A Limiter created
// with a non-positive maximum never refuses.
type Limiter struct {
	max     int64
	current atomic.Int64
}

func New(maxPending int) *Limiter {
	return &Limiter{
		max: int64(maxPending),
	}
}

// Unlimited reports whether the limiter was created without a maximum.
func (l *Limiter) Unlimited() bool {
	return l == nil || l.max <= 0
}

// If there is still room, TryInc increases the counter and returns true. If
// the limit is reached it leaves the counter untouched and returns false.
func (l *Limiter) TryInc() bool {
	if l.Unlimited() {
		return true
	}

	if l.current.Add(1) <= l.max {
		return true
	}

	// undo unsuccessful increment
	l.current.Add(-1)
	return false
}

func (l *Limiter) Dec() {
	if l.Unlimited() {
		return
	}

	if n := l.current.Add(-1); n < 0 {
		// Only reachable if Dec is called more often than TryInc succeeded.
		// A failed swap means another caller already fixed the value.
		l.current.CompareAndSwap(n, 0)
	}
}
