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

package testapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhk76/RestApiTransactions/adapters/handlers/rest"
	"github.com/mhk76/RestApiTransactions/usecases/config"
)

var testDurations = Durations{
	Quick: 20 * time.Millisecond,
	Long:  400 * time.Millisecond,
}

func newTestServer(t *testing.T, mode config.Mode, timeoutSeconds int) *httptest.Server {
	t.Helper()
	logger, _ := logrustest.NewNullLogger()

	cfg := config.Defaults()
	cfg.RestApiTransactions.Mode = string(mode)
	cfg.RestApiTransactions.TimeoutSeconds = timeoutSeconds
	cfg.RestApiTransactions.Cooldown = 20 * time.Millisecond

	appState := rest.NewAppState(&config.ServerConfig{Config: cfg}, logger, nil)
	srv := httptest.NewServer(rest.NewHandler(appState, Register(testDurations)))
	t.Cleanup(func() {
		srv.Close()
		appState.Scheduler.Close()
	})
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, headers map[string]string) *http.Response {
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/test/"+path, nil)
	if !assert.NoError(t, err) {
		return nil
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := srv.Client().Do(req)
	if !assert.NoError(t, err) {
		return nil
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp
}

type launcher struct {
	t        *testing.T
	srv      *httptest.Server
	wg       sync.WaitGroup
	finished []time.Time
}

func newLauncher(t *testing.T, srv *httptest.Server, n int) *launcher {
	return &launcher{t: t, srv: srv, finished: make([]time.Time, n)}
}

func (l *launcher) launch(i int, path string, headers map[string]string) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		resp := get(l.t, l.srv, path, headers)
		if resp != nil {
			assert.Equal(l.t, http.StatusOK, resp.StatusCode, path)
		}
		l.finished[i] = time.Now()
	}()
}

func (l *launcher) wait() []time.Time {
	l.wg.Wait()
	return l.finished
}

var activated = map[string]string{rest.HeaderActivation: "On"}

func TestReadWhileLongWrite(t *testing.T) {
	srv := newTestServer(t, config.ModeAlways, 5)
	l := newLauncher(t, srv, 3)

	l.launch(0, "long-write/write", activated)
	time.Sleep(100 * time.Millisecond)
	l.launch(1, "long-write/read", activated)
	l.launch(2, "neutral", activated)

	done := l.wait()
	assert.True(t, done[2].Before(done[0]), "neutral before write")
	assert.True(t, done[2].Before(done[1]), "neutral before read")
	assert.True(t, done[0].Before(done[1]), "write before read")
}

func TestReadWhileLongWriteWithoutActivationHeader(t *testing.T) {
	srv := newTestServer(t, config.ModeHeaders, 5)
	l := newLauncher(t, srv, 3)

	l.launch(0, "long-write/write", nil)
	time.Sleep(100 * time.Millisecond)
	l.launch(1, "long-write/read", nil)
	l.launch(2, "neutral", nil)

	done := l.wait()
	assert.True(t, done[1].Before(done[0]), "read is not held back by the write")
	assert.True(t, done[2].Before(done[0]), "neutral before write")
}

func TestReadWhileLongWriteWithActivationHeader(t *testing.T) {
	srv := newTestServer(t, config.ModeHeaders, 5)
	l := newLauncher(t, srv, 2)

	l.launch(0, "long-write/write", activated)
	time.Sleep(100 * time.Millisecond)
	l.launch(1, "long-write/read", activated)

	done := l.wait()
	assert.True(t, done[0].Before(done[1]), "write before read")
}

func TestWriteWhileLongRead(t *testing.T) {
	srv := newTestServer(t, config.ModeAlways, 5)
	l := newLauncher(t, srv, 4)

	l.launch(0, "long-read/long-read", activated)
	time.Sleep(100 * time.Millisecond)
	l.launch(1, "long-read/write", activated)
	l.launch(2, "long-read/quick-read", activated)
	l.launch(3, "neutral", activated)

	done := l.wait()
	assert.True(t, done[3].Before(done[0]), "neutral before long-read")
	assert.True(t, done[2].Before(done[0]), "quick-read before long-read")
	assert.True(t, done[3].Before(done[1]), "neutral before write")
	assert.True(t, done[2].Before(done[1]), "quick-read before write")
	assert.True(t, done[0].Before(done[1]), "long-read before write")
}

func startTransaction(t *testing.T, srv *httptest.Server, reserve string) string {
	t.Helper()
	resp := get(t, srv, "transaction/action", map[string]string{
		rest.HeaderActivation:       "On",
		rest.HeaderTransactionStart: reserve,
	})
	require.NotNil(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	id := resp.Header.Get(rest.HeaderTransactionID)
	_, err := uuid.Parse(id)
	require.NoError(t, err, "transaction id header %q", id)
	return id
}

func TestTransaction(t *testing.T) {
	srv := newTestServer(t, config.ModeAlways, 5)
	txID := startTransaction(t, srv, "transaction")

	l := newLauncher(t, srv, 3)
	l.launch(0, "transaction/action", activated)
	l.launch(1, "transaction/action", map[string]string{
		rest.HeaderActivation:     "On",
		rest.HeaderTransactionID:  txID,
		rest.HeaderTransactionEnd: txID,
	})
	l.launch(2, "neutral", activated)

	done := l.wait()
	assert.True(t, done[2].Before(done[0]), "neutral before outside action")
	assert.True(t, done[2].Before(done[1]), "neutral before inside action")
	assert.True(t, done[1].Before(done[0]), "inside action before outside action")
}

func TestTransactionTimeout(t *testing.T) {
	srv := newTestServer(t, config.ModeAlways, 1)
	startTransaction(t, srv, "transaction")
	started := time.Now()

	resp := get(t, srv, "transaction/action", activated)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.GreaterOrEqual(t, time.Since(started), 700*time.Millisecond,
		"outside action waits for the reservation to expire")
}

func TestMalformedTransactionID(t *testing.T) {
	srv := newTestServer(t, config.ModeAlways, 5)
	startTransaction(t, srv, "transaction")

	// without a valid id the request is an outsider and waits for the
	// timeout, so use an endpoint the reservation does not cover
	resp := get(t, srv, "long-read/quick-read", map[string]string{
		rest.HeaderTransactionID: "not-a-uuid",
	})
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(rest.HeaderTransactionID))
}

func TestDisabledModeIgnoresTransactionHeaders(t *testing.T) {
	srv := newTestServer(t, config.ModeDisabled, 5)

	resp := get(t, srv, "transaction/action", map[string]string{
		rest.HeaderActivation:       "On",
		rest.HeaderTransactionStart: "transaction",
	})
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(rest.HeaderTransactionID))

	debugResp, err := srv.Client().Get(srv.URL + "/debug/locks")
	require.NoError(t, err)
	defer debugResp.Body.Close()

	var body struct {
		Mode         string            `json:"mode"`
		Transactions []json.RawMessage `json:"transactions"`
	}
	require.NoError(t, json.NewDecoder(debugResp.Body).Decode(&body))
	assert.Equal(t, "Disabled", body.Mode)
	assert.Empty(t, body.Transactions)
}
