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

package state

import (
	"github.com/sirupsen/logrus"

	"github.com/mhk76/RestApiTransactions/usecases/config"
	"github.com/mhk76/RestApiTransactions/usecases/locking"
	"github.com/mhk76/RestApiTransactions/usecases/monitoring"
)

// State is the only source of application-wide state
type State struct {
	Logger       *logrus.Logger
	ServerConfig *config.ServerConfig
	Scheduler    *locking.Scheduler
	Metrics      *monitoring.PrometheusMetrics
}
