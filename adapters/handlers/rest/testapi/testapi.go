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

// Package testapi serves example endpoints that exercise the transactions
// middleware: long and quick reads and writes on shared resources, a
// transaction action, and a neutral endpoint without declarations.
package testapi

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mhk76/RestApiTransactions/adapters/handlers/rest"
	"github.com/mhk76/RestApiTransactions/usecases/config"
)

// Durations are the simulated processing times of the endpoints.
type Durations struct {
	Quick time.Duration
	Long  time.Duration
}

func DurationsFromConfig(cfg config.TestAPI) Durations {
	return Durations{Quick: cfg.QuickDuration, Long: cfg.LongDuration}
}

// Register returns a registrar for the example endpoints.
func Register(d Durations) rest.RouteRegistrar {
	return func(router *mux.Router, decls *rest.Declarations) {
		handle := func(path string, took time.Duration, declared ...rest.Declaration) {
			rest.HandleDeclared(router, decls, "/test/"+path,
				respond(path, took), declared...).Methods(http.MethodGet)
		}

		handle("long-write/read", d.Quick, rest.Read("long-write"))
		handle("long-write/write", d.Long, rest.Write("long-write"))

		handle("long-read/long-read", d.Long, rest.Read("long-read"))
		handle("long-read/quick-read", d.Quick, rest.Read("long-read"))
		handle("long-read/write", d.Quick, rest.Write("long-read"))

		handle("transaction/action", d.Long/2, rest.Read("transaction"))

		handle("neutral", d.Quick)
	}
}

// respond waits for took, then writes name. A client going away ends the
// wait early.
func respond(name string, took time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.NewTimer(took)
		defer t.Stop()

		select {
		case <-t.C:
		case <-r.Context().Done():
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, name)
	})
}
