package inmemory

import (
	"context"
	"crmTracker/internal/models/client"
	repo "crmTracker/internal/repository"
	"time"

	"github.com/google/uuid"
)

func cloneClient(c *client.Client) *client.Client {
	copied := *c
	copied.AcquisitionEntries = append([]client.AcquisitionEntry{}, c.AcquisitionEntries...)
	return &copied
}

func (s *Storage) CreateClient(ctx context.Context, c *client.Client) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.clients[c.ID] = cloneClient(c)
	s.clientIDs = append(s.clientIDs, c.ID)
	return nil
}

func (s *Storage) GetClient(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	c, ok := s.clients[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneClient(c), nil
}

func (s *Storage) ListClients(ctx context.Context) ([]*client.Client, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*client.Client, 0, len(s.clientIDs))
	for _, id := range s.clientIDs {
		res = append(res, cloneClient(s.clients[id]))
	}
	return res, nil
}

func (s *Storage) AddAcquisitionEntry(ctx context.Context, id uuid.UUID, entry client.AcquisitionEntry, updatedAt time.Time) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	c, ok := s.clients[id]
	if !ok {
		return repo.ErrNotFound
	}
	c.AcquisitionEntries = append(c.AcquisitionEntries, entry)
	c.UpdatedAt = &updatedAt
	return nil
}
