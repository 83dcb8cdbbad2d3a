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

package locking

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	enterrors "github.com/mhk76/RestApiTransactions/entities/errors"
	"github.com/mhk76/RestApiTransactions/entities/resources"
)

type transaction struct {
	id        uuid.UUID
	reserved  resources.Set
	startedAt time.Time
	// cancel stops the timeout waiter.
	cancel context.CancelFunc
}

// TransactionInfo describes a registered transaction.
type TransactionInfo struct {
	ID        uuid.UUID `json:"id"`
	Reserved  []string  `json:"reserved"`
	StartedAt time.Time `json:"started_at"`
}

// Begin reserves resourceList for a new transaction and blocks until the
// reservation is admitted. Each element may hold several comma separated
// names. The returned id lets later operations pass the reservation.
//
// The reservation is held until End is called with the id or the
// transaction timeout expires, whichever comes first.
func (s *Scheduler) Begin(ctx context.Context, resourceList ...string) (uuid.UUID, error) {
	op := newReservation(resources.ParseList(resourceList...), s.clock.Now())
	if err := s.enqueue(op); err != nil {
		return uuid.Nil, err
	}

	if err := s.await(ctx, op); err != nil {
		return uuid.Nil, err
	}
	return op.id, nil
}

// End releases the reservation of transaction id. Unknown and already
// ended ids are ignored.
func (s *Scheduler) End(id uuid.UUID) {
	s.end(id, false)
}

func (s *Scheduler) end(id uuid.UUID, timedOut bool) bool {
	s.mu.Lock()
	tx, ok := s.transactions[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	tx.cancel()
	for _, name := range tx.reserved {
		s.table.release(id, name, readLock)
		s.table.release(id, name, writeLock)
	}
	delete(s.transactions, id)
	s.metrics.TransactionEnded(len(tx.reserved), timedOut)
	s.mu.Unlock()

	l := s.logger.WithFields(logrus.Fields{
		"action":         "transaction_end",
		"transaction_id": id,
		"reserved":       tx.reserved.String(),
	})
	if timedOut {
		l.Warn("transaction timed out, reservation released")
	} else {
		l.Debug("transaction ended")
	}

	s.requestRescan()
	return true
}

// registerTransactionWithLock records the transaction of an admitted
// reservation and arms its timeout. The timer is created before the mutex
// is released.
func (s *Scheduler) registerTransactionWithLock(op *operation) {
	ctx, cancel := context.WithCancel(context.Background())
	tx := &transaction{
		id:        op.id,
		reserved:  op.reads,
		startedAt: s.clock.Now(),
		cancel:    cancel,
	}
	s.transactions[tx.id] = tx

	timer := s.clock.NewTimer(s.timeout)
	enterrors.GoWrapper(func() {
		s.awaitTimeout(ctx, tx.id, timer)
	}, s.logger)
}

func (s *Scheduler) awaitTimeout(ctx context.Context, id uuid.UUID, timer clockwork.Timer) {
	select {
	case <-timer.Chan():
		// End may have won the race, end is a no-op then
		s.end(id, true)
	case <-ctx.Done():
		timer.Stop()
	}
}

// Active lists the registered transactions ordered by start time.
func (s *Scheduler) Active() []TransactionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeWithLock()
}

func (s *Scheduler) activeWithLock() []TransactionInfo {
	out := make([]TransactionInfo, 0, len(s.transactions))
	for _, tx := range s.transactions {
		out = append(out, TransactionInfo{
			ID:        tx.id,
			Reserved:  tx.reserved.Strings(),
			StartedAt: tx.startedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}
