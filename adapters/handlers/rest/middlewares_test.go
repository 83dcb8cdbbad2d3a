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
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhk76/RestApiTransactions/usecases/config"
)

func TestPanickingHandlerReleasesLocks(t *testing.T) {
	appState := newTestAppState(t, config.ModeAlways)
	handler := NewHandler(appState, func(router *mux.Router, decls *Declarations) {
		HandleDeclared(router, decls, "/explode", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}), Write("a"))
	})

	rec := serve(handler, "/explode", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	snap := appState.Scheduler.Snapshot()
	assert.Empty(t, snap.Reading)
	assert.Empty(t, snap.Writing)
	assert.Zero(t, snap.Queued)
}

func TestCORSExposesTransactionID(t *testing.T) {
	appState := newTestAppState(t, config.ModeAlways)
	handler := NewHandler(appState)

	rec := serve(handler, "/debug/locks", map[string]string{"Origin": "http://example.com"})
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, http.CanonicalHeaderKey(rec.Header().Get("Access-Control-Expose-Headers")),
		http.CanonicalHeaderKey(HeaderTransactionID))
}

func TestAccessLogging(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	handler := addLogging(logger, true, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderTransactionID, "some-id")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))

	serve(handler, "/pot", nil)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, int64(15), entry.Data["bytes"])
	assert.Equal(t, "/pot", entry.Data["path"])
	assert.Equal(t, "some-id", entry.Data["transaction_id"])
}

func TestAccessLoggingDisabled(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	serve(addLogging(logger, false, http.NotFoundHandler()), "/", nil)
	assert.Empty(t, hook.AllEntries())
}
