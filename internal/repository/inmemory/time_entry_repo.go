package inmemory

import (
	"context"
	"crmTracker/internal/models/timeentry"
	repo "crmTracker/internal/repository"
	"time"

	"github.com/google/uuid"
)

func cloneEntry(e *timeentry.TimeEntry) *timeentry.TimeEntry {
	c := *e
	if e.EndedAt != nil {
		t := *e.EndedAt
		c.EndedAt = &t
	}
	if e.DurationSec != nil {
		d := *e.DurationSec
		c.DurationSec = &d
	}
	return &c
}

func (s *Storage) CreateTimeEntry(ctx context.Context, entry *timeentry.TimeEntry) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.entries[entry.ID] = cloneEntry(entry)
	s.entryIDs = append(s.entryIDs, entry.ID)
	return nil
}

func (s *Storage) GetTimeEntry(ctx context.Context, id uuid.UUID) (*timeentry.TimeEntry, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneEntry(entry), nil
}

func (s *Storage) CloseTimeEntry(ctx context.Context, id uuid.UUID, endedAt time.Time, durationSec int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return repo.ErrNotFound
	}
	entry.EndedAt = &endedAt
	entry.DurationSec = &durationSec
	return nil
}

// ListTimeEntries фильтрует только по пользователю, последние начатые первыми
func (s *Storage) ListTimeEntries(ctx context.Context, query timeentry.Query) ([]*timeentry.TimeEntry, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*timeentry.TimeEntry{}
	for i := len(s.entryIDs) - 1; i >= 0; i-- {
		entry := s.entries[s.entryIDs[i]]
		if query.UserID != "" && entry.UserID != query.UserID {
			continue
		}
		res = append(res, cloneEntry(entry))
	}
	return res, nil
}
