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

package errors

import (
	"context"
	"errors"
	"net/http"
)

var (
	// ErrSchedulerClosed is returned to callers still waiting for admission
	// when the scheduler shuts down.
	ErrSchedulerClosed = errors.New("scheduler closed")

	// ErrTooManyPending is returned when the admission queue is at its
	// configured limit.
	ErrTooManyPending = errors.New("too many pending operations")
)

// StatusCode maps errors returned by the scheduler to the HTTP status the
// gateway answers with.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrTooManyPending):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrSchedulerClosed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
