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
	"sort"

	"github.com/google/uuid"

	"github.com/mhk76/RestApiTransactions/entities/resources"
)

type lockKind int

const (
	readLock lockKind = iota
	writeLock
)

func (k lockKind) String() string {
	if k == writeLock {
		return "write"
	}
	return "read"
}

type holders map[uuid.UUID]struct{}

// lockTable records which operations or transactions currently hold read
// and write locks per resource. A resource without holders is removed from
// the map, so absent and empty mean the same thing.
//
// lockTable is not thread safe. The scheduler calls it with its mutex held.
type lockTable struct {
	reading map[resources.Name]holders
	writing map[resources.Name]holders
}

func newLockTable() *lockTable {
	return &lockTable{
		reading: map[resources.Name]holders{},
		writing: map[resources.Name]holders{},
	}
}

func (lt *lockTable) locks(kind lockKind) map[resources.Name]holders {
	if kind == writeLock {
		return lt.writing
	}
	return lt.reading
}

// acquire adds holder unconditionally. Conflicts are checked at admission,
// not here.
func (lt *lockTable) acquire(holder uuid.UUID, name resources.Name, kind lockKind) {
	m := lt.locks(kind)
	h, ok := m[name]
	if !ok {
		h = holders{}
		m[name] = h
	}
	h[holder] = struct{}{}
}

func (lt *lockTable) acquireRead(holder uuid.UUID, name resources.Name) {
	lt.acquire(holder, name, readLock)
}

func (lt *lockTable) acquireWrite(holder uuid.UUID, name resources.Name) {
	lt.acquire(holder, name, writeLock)
}

// release removes holder from the given lock. Releasing a lock that is not
// held is not an error.
func (lt *lockTable) release(holder uuid.UUID, name resources.Name, kind lockKind) {
	m := lt.locks(kind)
	h, ok := m[name]
	if !ok {
		return
	}
	delete(h, holder)
	if len(h) == 0 {
		delete(m, name)
	}
}

// heldByOther reports whether name carries a lock of the given kind whose
// holder is not exempt.
func (lt *lockTable) heldByOther(name resources.Name, kind lockKind, exempt uuid.UUID) bool {
	for holder := range lt.locks(kind)[name] {
		if holder != exempt {
			return true
		}
	}
	return false
}

// snapshot copies the table into sorted string form.
func (lt *lockTable) snapshot() (reading, writing map[string][]string) {
	return copyLocks(lt.reading), copyLocks(lt.writing)
}

func copyLocks(m map[resources.Name]holders) map[string][]string {
	out := make(map[string][]string, len(m))
	for name, h := range m {
		ids := make([]string, 0, len(h))
		for id := range h {
			ids = append(ids, id.String())
		}
		sort.Strings(ids)
		out[string(name)] = ids
	}
	return out
}
