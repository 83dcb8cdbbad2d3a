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
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	entcfg "github.com/mhk76/RestApiTransactions/entities/config"
	entsentry "github.com/mhk76/RestApiTransactions/entities/sentry"
)

// GoWrapper runs f in a new goroutine. A panic inside f is logged, reported
// to sentry when enabled, and swallowed unless DISABLE_RECOVERY_ON_PANIC is
// set.
func GoWrapper(f func(), logger logrus.FieldLogger) {
	go func() {
		defer func() {
			if !entcfg.Enabled(os.Getenv("DISABLE_RECOVERY_ON_PANIC")) {
				if r := recover(); r != nil {
					logger.Errorf("Recovered from panic: %v", r)
					entsentry.Recover(r)
					debug.PrintStack()
				}
			}
		}()
		f()
	}()
}
