package inmemory

import (
	"context"
	"crmTracker/internal/models/task"
	repo "crmTracker/internal/repository"
)

func (s *Storage) GetSettings(ctx context.Context) (*task.Settings, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.settings == nil {
		return nil, repo.ErrNotFound
	}
	copied := s.settings.Clone()
	return &copied, nil
}

// CreateSettingsIfAbsent сохраняет документ, только если его ещё нет
func (s *Storage) CreateSettingsIfAbsent(ctx context.Context, settings task.Settings) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.settings != nil {
		return nil
	}
	copied := settings.Clone()
	s.settings = &copied
	return nil
}

func (s *Storage) SaveSettings(ctx context.Context, settings task.Settings) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	copied := settings.Clone()
	s.settings = &copied
	return nil
}
