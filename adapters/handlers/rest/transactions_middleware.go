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
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	enterrors "github.com/mhk76/RestApiTransactions/entities/errors"
	"github.com/mhk76/RestApiTransactions/usecases/config"
	"github.com/mhk76/RestApiTransactions/usecases/locking"
	"github.com/mhk76/RestApiTransactions/usecases/monitoring"
)

type admissionScheduler interface {
	Acquire(ctx context.Context, req locking.Request) (*locking.Grant, error)
	Begin(ctx context.Context, resourceList ...string) (uuid.UUID, error)
	End(id uuid.UUID)
}

// TransactionsMiddleware holds every request that declares resources until
// the scheduler admits it, and drives transactions through the request
// headers.
type TransactionsMiddleware struct {
	scheduler    admissionScheduler
	declarations *Declarations
	mode         config.Mode
	logger       logrus.FieldLogger
	metrics      *monitoring.PrometheusMetrics
}

func NewTransactionsMiddleware(scheduler admissionScheduler, declarations *Declarations,
	mode config.Mode, logger logrus.FieldLogger, metrics *monitoring.PrometheusMetrics,
) *TransactionsMiddleware {
	return &TransactionsMiddleware{
		scheduler:    scheduler,
		declarations: declarations,
		mode:         mode,
		logger:       logger.WithField("component", "transactions_middleware"),
		metrics:      metrics,
	}
}

// Handler wraps next. It has to be installed on the router (Router.Use)
// so that the matched route is known.
func (m *TransactionsMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.mode == config.ModeHeaders && !hasHeader(r.Header, HeaderActivation) {
			next.ServeHTTP(w, r)
			return
		}

		logger := m.logger.WithField("path", r.URL.Path)

		txID := uuid.Nil
		startedHere := false
		if starts := r.Header.Values(HeaderTransactionStart); len(starts) > 0 {
			id, err := m.scheduler.Begin(r.Context(), starts...)
			if err != nil {
				m.refuse(w, logger, err)
				return
			}
			txID, startedHere = id, true
			w.Header().Set(HeaderTransactionID, id.String())
			logger.WithField("transaction_id", id).Debug("transaction started")
		} else if raw := r.Header.Get(HeaderTransactionID); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				logger.WithError(err).WithField("transaction_id", raw).
					Debug("ignoring malformed transaction id")
			} else {
				txID = id
			}
		}

		reads, writes := m.declarations.Lookup(r)
		if len(reads) == 0 && txID == uuid.Nil {
			m.metrics.BypassedQueue()
			next.ServeHTTP(w, r)
			return
		}

		grant, err := m.scheduler.Acquire(r.Context(), locking.Request{
			Reads:         reads,
			Writes:        writes,
			TransactionID: txID,
		})
		if err != nil {
			if startedHere {
				m.scheduler.End(txID)
			}
			m.refuse(w, logger, err)
			return
		}
		defer grant.Release()

		logger.WithFields(logrus.Fields{
			"operation_id":   grant.ID(),
			"transaction_id": txID,
			"reads":          reads.String(),
			"writes":         writes.String(),
		}).Debug("executing request")

		next.ServeHTTP(w, r)

		if txID != uuid.Nil && hasHeader(r.Header, HeaderTransactionEnd) {
			m.scheduler.End(txID)
		}
	})
}

func (m *TransactionsMiddleware) refuse(w http.ResponseWriter, logger logrus.FieldLogger, err error) {
	status := enterrors.StatusCode(err)
	logger.WithError(err).WithField("status", status).Warn("request not admitted")
	if enterrors.IsTransient(err) {
		w.Header().Set("Retry-After", "1")
	}
	http.Error(w, http.StatusText(status), status)
}
