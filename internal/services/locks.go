package services

import (
	"hash/fnv"
	"io"
	"sync"
	"time"

	"clinic-app-server/internal/scheduling"
)

// stripedLock serializes booking mutations per (doctor, date) key. MySQL has
// no partial unique index over the status column, so the at-most-one-BOOKED
// invariants cannot be a plain composite index; instead the read-validate-
// write sequence holds this lock for the key it mutates. Keys are hashed onto
// a fixed set of mutexes, so unrelated keys may occasionally share a lock,
// which only costs throughput, never correctness.
type stripedLock struct {
	mu [64]sync.Mutex
}

// lock acquires the stripe for the key and returns its release func.
func (l *stripedLock) lock(doctorID string, date time.Time) func() {
	h := fnv.New32a()
	io.WriteString(h, doctorID)
	io.WriteString(h, scheduling.DateOf(date).Format("2006-01-02"))

	m := &l.mu[h.Sum32()%uint32(len(l.mu))]
	m.Lock()
	return m.Unlock
}
