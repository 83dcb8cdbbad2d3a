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
)

// IsTransient reports whether a client could reasonably retry the operation
// that failed with err.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTooManyPending) ||
		errors.Is(err, context.DeadlineExceeded)
}
