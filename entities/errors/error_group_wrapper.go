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
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	entsentry "github.com/mhk76/RestApiTransactions/entities/sentry"
)

// ErrorGroupWrapper is a custom type that embeds errgroup.Group.
type ErrorGroupWrapper struct {
	*errgroup.Group
	ReturnError error
	Variables   []interface{}
	logger      logrus.FieldLogger
}

// NewErrorGroupWrapper creates a new ErrorGroupWrapper.
func NewErrorGroupWrapper(logger logrus.FieldLogger, vars ...interface{}) *ErrorGroupWrapper {
	return &ErrorGroupWrapper{
		Group:       new(errgroup.Group),
		ReturnError: nil,
		Variables:   vars,
		logger:      logger,
	}
}

// NewErrorGroupWithContextWrapper creates a wrapper whose derived context is
// cancelled as soon as one of the functions returns an error.
func NewErrorGroupWithContextWrapper(ctx context.Context, logger logrus.FieldLogger, vars ...interface{}) (*ErrorGroupWrapper, context.Context) {
	group, ctx := errgroup.WithContext(ctx)
	return &ErrorGroupWrapper{
		Group:     group,
		Variables: vars,
		logger:    logger,
	}, ctx
}

// Go overrides the Go method to add panic recovery logic.
func (egw *ErrorGroupWrapper) Go(f func() error, localVars ...interface{}) {
	egw.Group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				egw.logger.WithField("variables", egw.Variables).
					WithField("local_variables", localVars).
					Errorf("Recovered from panic: %v", r)
				entsentry.Recover(r)
				debug.PrintStack()
				err = fmt.Errorf("panic occurred: %v", r)
			}
		}()
		return f()
	})
}

// Wait waits for all goroutines to finish and returns the first non-nil error.
func (egw *ErrorGroupWrapper) Wait() error {
	if err := egw.Group.Wait(); err != nil {
		return err
	}
	return egw.ReturnError
}
