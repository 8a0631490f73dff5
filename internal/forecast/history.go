package forecast

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/noctalab/sleep-forecast/internal/domain"
)

// historyStore is the per-user append-only log of dated entries. Entries are
// never removed or overwritten; re-adding for the same (user, date) appends a
// second entry. Ordering is by date regardless of insertion order.
type historyStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]domain.HistoryEntry
}

func newHistoryStore() *historyStore {
	return &historyStore{
		entries: make(map[uuid.UUID][]domain.HistoryEntry),
	}
}

// add appends an entry, keeping the user's slice sorted by date. Out-of-order
// insertion is expected (backfilled diary nights).
func (s *historyStore) add(entry domain.HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.entries[entry.UserID]
	// Entries usually arrive in date order, so check the common case before
	// paying for a sorted insert.
	if n := len(list); n == 0 || !entry.Date.Before(list[n-1].Date) {
		s.entries[entry.UserID] = append(list, entry)
		return
	}

	idx := sort.Search(len(list), func(i int) bool {
		return list[i].Date.After(entry.Date)
	})
	list = append(list, domain.HistoryEntry{})
	copy(list[idx+1:], list[idx:])
	list[idx] = entry
	s.entries[entry.UserID] = list
}

// get returns a copy of the user's date-ordered history. Unknown users get
// an empty slice, never nil handling at call sites.
func (s *historyStore) get(userID uuid.UUID) []domain.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.entries[userID]
	out := make([]domain.HistoryEntry, len(list))
	copy(out, list)
	return out
}

// count returns the number of entries for a user without copying.
func (s *historyStore) count(userID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[userID])
}

// stats reports the tracked population across all users.
func (s *historyStore) stats() domain.EngineStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, list := range s.entries {
		total += len(list)
	}
	return domain.EngineStats{
		UsersTracked: len(s.entries),
		TotalEntries: total,
	}
}
