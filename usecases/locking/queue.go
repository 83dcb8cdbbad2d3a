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
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mhk76/RestApiTransactions/entities/resources"
)

// operation is one admission request. It is owned by the scheduler from
// enqueue until it is admitted or withdrawn.
type operation struct {
	id uuid.UUID
	// transactionID is uuid.Nil for standalone operations. Holders are never
	// uuid.Nil, so a standalone operation is exempt from nothing.
	transactionID uuid.UUID
	reservation   bool

	reads  resources.Set
	writes resources.Set

	enqueuedAt time.Time
	// granted is closed exactly once, when the operation is admitted.
	granted chan struct{}
}

func newOperation(transactionID uuid.UUID, reads, writes resources.Set, now time.Time) *operation {
	return &operation{
		id:            uuid.New(),
		transactionID: transactionID,
		reads:         reads,
		writes:        writes,
		enqueuedAt:    now,
		granted:       make(chan struct{}),
	}
}

// newReservation builds the synthetic operation that starts a transaction.
// Its id doubles as the transaction id, and it reads and writes every
// reserved resource.
func newReservation(reserved resources.Set, now time.Time) *operation {
	op := newOperation(uuid.Nil, reserved, reserved, now)
	op.transactionID = op.id
	op.reservation = true
	return op
}

// blocked reports whether op conflicts with the current lock table:
//
//   - a resource op reads has a write holder other than op's transaction, or
//   - a resource op writes has a read holder other than op's transaction.
//
// Writers are not checked against other writers.
func (op *operation) blocked(lt *lockTable) bool {
	for _, name := range op.reads {
		if lt.heldByOther(name, writeLock, op.transactionID) {
			return true
		}
	}
	for _, name := range op.writes {
		if lt.heldByOther(name, readLock, op.transactionID) {
			return true
		}
	}
	return false
}

// admissionQueue holds operations in arrival order. It is not thread safe.
type admissionQueue struct {
	ops []*operation
}

func (q *admissionQueue) enqueue(op *operation) {
	q.ops = append(q.ops, op)
}

// findAdmissible scans from head to tail and removes the first operation
// that is not blocked. Operations further back may overtake blocked ones
// closer to the head.
func (q *admissionQueue) findAdmissible(lt *lockTable) *operation {
	for i, op := range q.ops {
		if op.blocked(lt) {
			continue
		}
		q.ops = slices.Delete(q.ops, i, i+1)
		return op
	}
	return nil
}

// remove withdraws a queued operation. It returns false if id is not queued.
func (q *admissionQueue) remove(id uuid.UUID) bool {
	for i, op := range q.ops {
		if op.id == id {
			q.ops = slices.Delete(q.ops, i, i+1)
			return true
		}
	}
	return false
}

func (q *admissionQueue) len() int {
	return len(q.ops)
}
