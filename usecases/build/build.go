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

// Package build exposes version information injected at link time, e.g.
//
//	go build -ldflags "-X github.com/mhk76/RestApiTransactions/usecases/build.Version=1.2.3"
package build

import "runtime"

var (
	Version  = "dev"
	Revision = "unknown"
	Branch   = "unknown"

	GoVersion = runtime.Version()
)
