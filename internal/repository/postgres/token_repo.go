package postgres

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/models/integration"
	repo "crmTracker/internal/repository"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func (s *Storage) SaveToken(ctx context.Context, token integration.Token) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO integration_tokens (provider, access_token, refresh_token, token_type, expiry, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (provider) DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_type = EXCLUDED.token_type,
			expiry = EXCLUDED.expiry,
			updated_at = EXCLUDED.updated_at`,
		token.Provider, token.AccessToken, token.RefreshToken, token.TokenType, token.Expiry, token.UpdatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось сохранить токен интеграции", err)
		return fmt.Errorf("сохранение токена: %w", err)
	}
	return nil
}

func (s *Storage) GetToken(ctx context.Context, provider string) (*integration.Token, error) {
	token := &integration.Token{}
	err := s.pool.QueryRow(ctx,
		`SELECT provider, access_token, refresh_token, token_type, expiry, updated_at
		 FROM integration_tokens WHERE provider = $1`, provider).Scan(
		&token.Provider, &token.AccessToken, &token.RefreshToken, &token.TokenType, &token.Expiry, &token.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("получение токена: %w", err)
	}
	return token, nil
}
