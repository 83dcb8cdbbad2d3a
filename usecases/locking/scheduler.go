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
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/mhk76/RestApiTransactions/entities/ctxlock"
	enterrors "github.com/mhk76/RestApiTransactions/entities/errors"
	"github.com/mhk76/RestApiTransactions/entities/resources"
	"github.com/mhk76/RestApiTransactions/usecases/monitoring"
	"github.com/mhk76/RestApiTransactions/usecases/ratelimiter"
)

const (
	DefaultTransactionTimeout = 5 * time.Second
	DefaultCooldown           = 500 * time.Millisecond
)

// Scheduler admits operations that declare the resources they read and
// write, so that no operation reads a resource while another one outside
// its transaction writes it, and no operation writes a resource while
// another one outside its transaction reads it.
//
// The flow is:
//  1. Acquire (or Begin for a transaction reservation) appends an operation
//     to the admission queue and requests a rescan.
//  2. The scan loop admits the first operation in the queue that does not
//     conflict with the lock table, records its locks and wakes its caller.
//     It keeps scanning until nothing more can be admitted.
//  3. Grant.Release drops the operation's locks and, after the cool-down,
//     requests another rescan. Ending a transaction drops the reservation.
//
// Admission is first-fit, not FIFO. A blocked operation near the head does
// not stop admissible operations behind it.
type Scheduler struct {
	mu           *ctxlock.MeteredMutex
	table        *lockTable
	queue        *admissionQueue
	transactions map[uuid.UUID]*transaction
	closed       bool

	clock    clockwork.Clock
	timeout  time.Duration
	cooldown backoff.BackOff
	pending  *ratelimiter.Limiter

	logger  logrus.FieldLogger
	metrics *monitoring.PrometheusMetrics

	rescanCh  chan struct{}
	stopCh    chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
}

type SchedulerParams struct {
	Clock   clockwork.Clock
	Logger  logrus.FieldLogger
	Metrics *monitoring.PrometheusMetrics

	// TransactionTimeout bounds how long a reservation is held without being
	// ended. Non-positive values select DefaultTransactionTimeout.
	TransactionTimeout time.Duration
	// Cooldown is consulted after every release for the delay before the
	// queue is rescanned. Nil selects a constant DefaultCooldown.
	Cooldown backoff.BackOff
	// MaxPending limits the number of queued operations. Zero means no limit.
	MaxPending int
}

// CooldownPolicy returns a constant cool-down of d, or none when d is zero.
func CooldownPolicy(d time.Duration) backoff.BackOff {
	if d <= 0 {
		return &backoff.ZeroBackOff{}
	}
	return backoff.NewConstantBackOff(d)
}

// NewScheduler creates a scheduler and starts its scan loop. Close must be
// called to stop it.
func NewScheduler(params SchedulerParams) *Scheduler {
	if params.Clock == nil {
		params.Clock = clockwork.NewRealClock()
	}
	if params.Logger == nil {
		params.Logger = logrus.New()
	}
	if params.TransactionTimeout <= 0 {
		params.TransactionTimeout = DefaultTransactionTimeout
	}
	if params.Cooldown == nil {
		params.Cooldown = CooldownPolicy(DefaultCooldown)
	}

	s := &Scheduler{
		mu:           ctxlock.NewMeteredMutex("scheduler", params.Metrics),
		table:        newLockTable(),
		queue:        &admissionQueue{},
		transactions: map[uuid.UUID]*transaction{},

		clock:    params.Clock,
		timeout:  params.TransactionTimeout,
		cooldown: params.Cooldown,
		pending:  ratelimiter.New(params.MaxPending),

		logger:  params.Logger.WithField("component", "scheduler"),
		metrics: params.Metrics,

		rescanCh: make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		loopDone: make(chan struct{}),
	}

	enterrors.GoWrapper(s.loop, s.logger)

	return s
}

// Request describes the resources an operation needs. TransactionID is
// uuid.Nil for operations outside a transaction.
type Request struct {
	Reads         resources.Set
	Writes        resources.Set
	TransactionID uuid.UUID
}

// Grant is held by an admitted operation until it calls Release.
type Grant struct {
	s    *Scheduler
	op   *operation
	once sync.Once
}

func (g *Grant) ID() uuid.UUID {
	return g.op.id
}

func (g *Grant) TransactionID() uuid.UUID {
	return g.op.transactionID
}

// Release drops the locks the operation holds. Reservation locks of its
// transaction are untouched. Calling Release more than once is a no-op.
func (g *Grant) Release() {
	g.once.Do(func() {
		g.s.release(g.op)
	})
}

// Acquire queues an operation and blocks until it is admitted, ctx is done
// or the scheduler is closed. A cancelled operation is withdrawn from the
// queue and never holds locks afterwards.
func (s *Scheduler) Acquire(ctx context.Context, req Request) (*Grant, error) {
	op := newOperation(req.TransactionID, req.Reads, req.Writes, s.clock.Now())
	if err := s.enqueue(op); err != nil {
		return nil, err
	}

	if err := s.await(ctx, op); err != nil {
		return nil, err
	}
	return &Grant{s: s, op: op}, nil
}

// Close stops the scan loop and cancels every transaction timer. Callers
// still waiting for admission get ErrSchedulerClosed.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		for _, tx := range s.transactions {
			tx.cancel()
		}
		s.mu.Unlock()

		close(s.stopCh)
		<-s.loopDone
		s.logger.WithField("action", "scheduler_close").Debug("scheduler stopped")
	})
}

func (s *Scheduler) enqueue(op *operation) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return enterrors.ErrSchedulerClosed
	}
	if !s.pending.TryInc() {
		s.mu.Unlock()
		return enterrors.ErrTooManyPending
	}
	s.queue.enqueue(op)
	s.metrics.Enqueued()
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"action":       "enqueue",
		"operation_id": op.id,
		"reservation":  op.reservation,
		"reads":        op.reads.String(),
		"writes":       op.writes.String(),
	}).Debug("operation queued")

	s.requestRescan()
	return nil
}

// await blocks until op is granted. When ctx ends or the scheduler closes
// first, op is withdrawn. If it was admitted in the meantime the grant is
// undone for a cancelled ctx, and kept for a closing scheduler.
func (s *Scheduler) await(ctx context.Context, op *operation) error {
	var err error
	select {
	case <-op.granted:
		return nil
	case <-ctx.Done():
		err = ctx.Err()
	case <-s.stopCh:
		err = enterrors.ErrSchedulerClosed
	}

	if s.withdraw(op) {
		return err
	}

	// admitted concurrently, admission dequeues and closes op.granted in
	// the same critical section
	if errors.Is(err, enterrors.ErrSchedulerClosed) {
		return nil
	}
	if op.reservation {
		s.End(op.id)
	} else {
		s.release(op)
	}
	return err
}

func (s *Scheduler) withdraw(op *operation) bool {
	s.mu.Lock()
	removed := s.queue.remove(op.id)
	if removed {
		s.pending.Dec()
		s.metrics.WithdrawnFromQueue()
	}
	s.mu.Unlock()

	if removed {
		s.logger.WithFields(logrus.Fields{
			"action":       "withdraw",
			"operation_id": op.id,
		}).Debug("operation withdrawn before admission")
	}
	return removed
}

func (s *Scheduler) release(op *operation) {
	s.mu.Lock()
	for _, name := range op.reads {
		s.table.release(op.id, name, readLock)
	}
	for _, name := range op.writes {
		s.table.release(op.id, name, writeLock)
	}
	s.metrics.Released(len(op.reads), len(op.writes))
	delay := s.cooldown.NextBackOff()
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"action":       "release",
		"operation_id": op.id,
		"cooldown":     delay,
	}).Debug("operation released its locks")

	s.rescanAfter(delay)
}

// rescanAfter requests a rescan once delay has passed. backoff.Stop and
// zero request it right away.
func (s *Scheduler) rescanAfter(delay time.Duration) {
	if delay <= 0 {
		s.requestRescan()
		return
	}
	s.clock.AfterFunc(delay, s.requestRescan)
}

// requestRescan never blocks. A pending signal already covers the new
// state, because the loop drains the queue after receiving it.
func (s *Scheduler) requestRescan() {
	select {
	case s.rescanCh <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop() {
	defer close(s.loopDone)

	for {
		select {
		case <-s.rescanCh:
			for s.processQueue() {
			}
		case <-s.stopCh:
			return
		}
	}
}

// processQueue admits at most one operation and reports whether it did.
func (s *Scheduler) processQueue() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	op := s.queue.findAdmissible(s.table)
	if op == nil {
		if s.queue.len() > 0 {
			s.logger.WithFields(logrus.Fields{
				"action": "scan",
				"queued": s.queue.len(),
			}).Debug("no queued operation is admissible")
		}
		return false
	}

	if op.reservation {
		s.registerTransactionWithLock(op)
	}
	for _, name := range op.reads {
		s.table.acquireRead(op.id, name)
	}
	for _, name := range op.writes {
		s.table.acquireWrite(op.id, name)
	}
	s.pending.Dec()

	waited := s.clock.Since(op.enqueuedAt)
	s.metrics.Admitted(op.reservation, len(op.reads), len(op.writes), waited)

	s.logger.WithFields(logrus.Fields{
		"action":       "admit",
		"operation_id": op.id,
		"reservation":  op.reservation,
		"waited":       waited,
		"reads":        op.reads.String(),
		"writes":       op.writes.String(),
	}).Debug("operation admitted")

	close(op.granted)
	return true
}
