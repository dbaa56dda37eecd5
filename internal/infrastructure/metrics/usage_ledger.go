package metrics

import (
	"sync"

	"github.com/greenstack/ecoswitch/internal/domain/models"
)

// UsageLedger retains a bounded rolling history of per-query usage records.
// The core pipeline is stateless; keeping history is the caller layer's job,
// and this ledger is that layer's storage. Oldest entries are evicted first
// once the capacity is reached.
type UsageLedger struct {
	mu       sync.RWMutex
	capacity int
	records  []models.UsageRecord
}

// NewUsageLedger creates a ledger holding at most capacity records.
func NewUsageLedger(capacity int) *UsageLedger {
	if capacity <= 0 {
		capacity = 100
	}
	return &UsageLedger{
		capacity: capacity,
		records:  make([]models.UsageRecord, 0, capacity),
	}
}

// Record appends a usage record, evicting the oldest entry when full.
func (l *UsageLedger) Record(rec models.UsageRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.records) == l.capacity {
		copy(l.records, l.records[1:])
		l.records = l.records[:l.capacity-1]
	}
	l.records = append(l.records, rec)
}

// Records returns a snapshot copy of the history, oldest first.
func (l *UsageLedger) Records() []models.UsageRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snapshot := make([]models.UsageRecord, len(l.records))
	copy(snapshot, l.records)
	return snapshot
}

// Len returns the number of retained records.
func (l *UsageLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Reset clears the history (useful for testing).
func (l *UsageLedger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = l.records[:0]
}
