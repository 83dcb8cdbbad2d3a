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
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mhk76/RestApiTransactions/adapters/handlers/rest/state"
	"github.com/mhk76/RestApiTransactions/usecases/locking"
)

type locksResponse struct {
	Mode string `json:"mode"`
	locking.Snapshot
}

func setupDebugHandlers(router *mux.Router, appState *state.State) {
	logger := appState.Logger

	router.HandleFunc("/debug/locks", func(w http.ResponseWriter, r *http.Request) {
		resp := locksResponse{
			Mode:     string(appState.ServerConfig.Config.RestApiTransactions.RunMode()),
			Snapshot: appState.Scheduler.Snapshot(),
		}
		if resp.Mode == "" {
			resp.Mode = "Disabled"
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.WithField("action", "debug_locks").WithError(err).
				Error("failed to encode lock table")
		}
	}).Methods(http.MethodGet)
}
