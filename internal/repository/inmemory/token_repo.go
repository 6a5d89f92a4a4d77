package inmemory

import (
	"context"
	"crmTracker/internal/models/integration"
	repo "crmTracker/internal/repository"
)

func (s *Storage) SaveToken(ctx context.Context, token integration.Token) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.tokens[token.Provider] = token
	return nil
}

func (s *Storage) GetToken(ctx context.Context, provider string) (*integration.Token, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	token, ok := s.tokens[provider]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &token, nil
}
