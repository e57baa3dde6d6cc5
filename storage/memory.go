package storage

import (
	"sync"

	"bakuscan/models"
)

const defaultMaxPerSession = 50

// MemoryScanStore keeps scan history in process memory only. The cap is
// enforced on write, so a long-lived session cannot grow without bound.
// It is safe for concurrent use.
type MemoryScanStore struct {
	mu    sync.RWMutex
	max   int
	scans map[string][]*models.ScanRecord
}

// NewMemoryScanStore creates a store retaining at most maxPerSession scans
// per session. Non-positive values fall back to the default of 50.
func NewMemoryScanStore(maxPerSession int) *MemoryScanStore {
	if maxPerSession <= 0 {
		maxPerSession = defaultMaxPerSession
	}
	return &MemoryScanStore{
		max:   maxPerSession,
		scans: make(map[string][]*models.ScanRecord),
	}
}

// Append stores a scan, evicting the oldest records past the cap.
func (s *MemoryScanStore) Append(sessionID string, scan *models.ScanRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := append(s.scans[sessionID], scan)
	if len(list) > s.max {
		list = list[len(list)-s.max:]
	}
	s.scans[sessionID] = list
}

// Recent returns up to limit scans for the session, newest first. A
// non-positive limit returns everything stored for the session.
func (s *MemoryScanStore) Recent(sessionID string, limit int) []*models.ScanRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.scans[sessionID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}

	out := make([]*models.ScanRecord, 0, limit)
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, list[i])
	}
	return out
}

// Sessions returns the number of sessions currently tracked.
func (s *MemoryScanStore) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scans)
}
