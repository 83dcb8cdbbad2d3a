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
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil", nil, http.StatusOK},
		{"too many pending", ErrTooManyPending, http.StatusTooManyRequests},
		{"wrapped too many pending", fmt.Errorf("acquire: %w", ErrTooManyPending), http.StatusTooManyRequests},
		{"closed", ErrSchedulerClosed, http.StatusServiceUnavailable},
		{"client went away", context.Canceled, http.StatusServiceUnavailable},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StatusCode(tc.err))
		})
	}
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(fmt.Errorf("x: %w", ErrTooManyPending)))
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.False(t, IsTransient(ErrSchedulerClosed))
	assert.False(t, IsTransient(nil))
}

func TestGoWrapperRecovers(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()

	var wg sync.WaitGroup
	wg.Add(1)
	GoWrapper(func() {
		defer wg.Done()
		panic("oops")
	}, logger)
	wg.Wait()

	require.Eventually(t, func() bool {
		return hook.LastEntry() != nil
	}, time.Second, time.Millisecond)
	assert.Contains(t, hook.LastEntry().Message, "oops")
}

func TestErrorGroupWrapperTurnsPanicIntoError(t *testing.T) {
	logger, _ := logrustest.NewNullLogger()

	eg := NewErrorGroupWrapper(logger, "test")
	eg.Go(func() error { return nil })
	eg.Go(func() error { panic("kaputt") })

	err := eg.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaputt")
}

func TestErrorGroupWithContextCancelsSiblings(t *testing.T) {
	logger, _ := logrustest.NewNullLogger()

	eg, ctx := NewErrorGroupWithContextWrapper(context.Background(), logger)
	eg.Go(func() error { return errors.New("first") })
	eg.Go(func() error {
		<-ctx.Done()
		return nil
	})

	assert.EqualError(t, eg.Wait(), "first")
}
