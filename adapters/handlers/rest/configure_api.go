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

package rest

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/mhk76/RestApiTransactions/adapters/handlers/rest/state"
	"github.com/mhk76/RestApiTransactions/usecases/config"
	"github.com/mhk76/RestApiTransactions/usecases/locking"
	"github.com/mhk76/RestApiTransactions/usecases/monitoring"
)

// RouteRegistrar adds endpoints and their declarations to the router.
type RouteRegistrar func(router *mux.Router, declarations *Declarations)

// MakeAppState loads the configuration and starts the scheduler. Metrics
// are registered with the default registerer only when monitoring is
// enabled. The caller owns the scheduler and has to close it.
func MakeAppState(flags *config.Flags, logger *logrus.Logger) (*state.State, error) {
	serverConfig := &config.ServerConfig{}
	if err := serverConfig.LoadConfig(flags, logger); err != nil {
		return nil, err
	}

	var metrics *monitoring.PrometheusMetrics
	if serverConfig.Config.Monitoring.Enabled {
		metrics = monitoring.GetMetrics()
	}

	return NewAppState(serverConfig, logger, metrics), nil
}

// NewAppState creates the scheduler for an already loaded configuration.
func NewAppState(serverConfig *config.ServerConfig, logger *logrus.Logger,
	metrics *monitoring.PrometheusMetrics,
) *state.State {
	cfg := serverConfig.Config.RestApiTransactions

	appState := &state.State{
		Logger:       logger,
		ServerConfig: serverConfig,
		Metrics:      metrics,
	}
	appState.Scheduler = locking.NewScheduler(locking.SchedulerParams{
		Logger:             logger,
		Metrics:            metrics,
		TransactionTimeout: cfg.Timeout(),
		Cooldown:           locking.CooldownPolicy(cfg.CooldownOrDefault()),
		MaxPending:         cfg.MaxPending,
	})

	logger.WithFields(logrus.Fields{
		"action":      "startup",
		"mode":        cfg.RunMode(),
		"timeout":     cfg.Timeout(),
		"cooldown":    cfg.CooldownOrDefault(),
		"max_pending": cfg.MaxPending,
	}).Info("configured rest api transactions")

	return appState
}

// NewHandler builds the API handler. The transactions middleware is left
// out entirely when the mode is neither Always nor Headers.
func NewHandler(appState *state.State, registrars ...RouteRegistrar) http.Handler {
	router := mux.NewRouter()
	declarations := NewDeclarations()

	mode := appState.ServerConfig.Config.RestApiTransactions.RunMode()
	if mode.Enabled() {
		router.Use(NewTransactionsMiddleware(appState.Scheduler, declarations, mode,
			appState.Logger, appState.Metrics).Handler)
	} else {
		appState.Logger.WithField("action", "startup").
			Info("rest api transactions disabled, requests are not locked")
	}

	setupDebugHandlers(router, appState)
	for _, register := range registrars {
		register(router, declarations)
	}

	return setupGlobalMiddleware(appState, router)
}
