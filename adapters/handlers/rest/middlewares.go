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
	"runtime/debug"

	"github.com/felixge/httpsnoop"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/mhk76/RestApiTransactions/adapters/handlers/rest/state"
	entsentry "github.com/mhk76/RestApiTransactions/entities/sentry"
)

// The global middleware wraps the router, so it also applies to unmatched
// routes and the debug endpoints. Panic recovery runs outermost so that it
// sees panics re-raised after the locks of a failed request were released.
func setupGlobalMiddleware(appState *state.State, handler http.Handler) http.Handler {
	origins := []string{"*"}
	if origin := appState.ServerConfig.Config.Origin; origin != "" {
		origins = []string{origin}
	}

	handleCORS := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"POST", "PUT", "DELETE", "GET", "PATCH"},
		AllowedHeaders: []string{
			"Content-Type", HeaderActivation, HeaderTransactionStart,
			HeaderTransactionEnd, HeaderTransactionID,
		},
		ExposedHeaders: []string{HeaderTransactionID},
	}).Handler
	handler = handleCORS(handler)

	handler = addLogging(appState.Logger, appState.ServerConfig.Config.Debug, handler)
	handler = addPanicRecovery(appState.Logger, handler)

	return handler
}

func addLogging(logger logrus.FieldLogger, enabled bool, next http.Handler) http.Handler {
	if !enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		logger.WithFields(logrus.Fields{
			"action":         "request",
			"method":         r.Method,
			"path":           r.URL.Path,
			"status":         m.Code,
			"bytes":          m.Written,
			"took":           m.Duration,
			"transaction_id": w.Header().Get(HeaderTransactionID),
		}).Info("request served")
	})
}

func addPanicRecovery(logger logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.WithFields(logrus.Fields{
				"action": "request",
				"method": r.Method,
				"path":   r.URL.Path,
			}).Errorf("recovered from panic: %v", rec)
			entsentry.Recover(rec)
			debug.PrintStack()

			http.Error(w, http.StatusText(http.StatusInternalServerError),
				http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
