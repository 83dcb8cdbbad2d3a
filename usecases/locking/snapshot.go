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

// Snapshot is a point-in-time copy of the scheduling state.
type Snapshot struct {
	Queued       int                 `json:"queued"`
	Reading      map[string][]string `json:"reading"`
	Writing      map[string][]string `json:"writing"`
	Transactions []TransactionInfo   `json:"transactions"`
}

func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	reading, writing := s.table.snapshot()
	return Snapshot{
		Queued:       s.queue.len(),
		Reading:      reading,
		Writing:      writing,
		Transactions: s.activeWithLock(),
	}
}
