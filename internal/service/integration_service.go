package service

import (
	"context"
	"crmTracker/internal/config"
	"crmTracker/internal/logger"
	"crmTracker/internal/models/integration"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type CalendlyClient interface {
	AuthCodeURL() string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	EventTypes(ctx context.Context) ([]json.RawMessage, error)
}

type IntegrationService struct {
	calendly CalendlyClient
	tokens   TokenRepository
	cfg      config.CalendlyConfig
	now      Clock
}

func NewIntegrationService(calendly CalendlyClient, tokens TokenRepository, cfg config.CalendlyConfig, now Clock) *IntegrationService {
	if now == nil {
		now = time.Now
	}
	return &IntegrationService{
		calendly: calendly,
		tokens:   tokens,
		cfg:      cfg,
		now:      now,
	}
}

// OAuthResult - ответ callback; Tokens заполняется только при expose_tokens
type OAuthResult struct {
	TokenType string
	Expiry    *time.Time
	Tokens    map[string]any
}

func (s *IntegrationService) OAuthStartURL() (string, error) {
	var missing []string
	if s.cfg.ClientID == "" {
		missing = append(missing, "CALENDLY_CLIENT_ID")
	}
	if s.cfg.RedirectURI == "" {
		missing = append(missing, "CALENDLY_REDIRECT_URI")
	}
	if len(missing) > 0 {
		return "", NewConfigMissing(missing...)
	}
	return s.calendly.AuthCodeURL(), nil
}

// OAuthCallback обменивает код на токен и сохраняет его в хранилище токенов
func (s *IntegrationService) OAuthCallback(ctx context.Context, code string) (*OAuthResult, error) {
	if code == "" {
		return nil, NewValidationError("code", "обязательный параметр")
	}
	if !s.cfg.OAuthConfigured() {
		return nil, NewConfigMissing("CALENDLY_CLIENT_ID", "CALENDLY_CLIENT_SECRET", "CALENDLY_REDIRECT_URI")
	}

	token, err := s.calendly.Exchange(ctx, code)
	if err != nil {
		return nil, NewUpstreamError("обмен кода на токен", err)
	}

	stored := integration.Token{
		Provider:     integration.ProviderCalendly,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		UpdatedAt:    s.now().UTC(),
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		stored.Expiry = &expiry
	}

	if err := s.tokens.SaveToken(ctx, stored); err != nil {
		return nil, fmt.Errorf("сохранение токена: %w", err)
	}
	logger.Info("Service: Токен планировщика сохранён", zap.String("provider", stored.Provider))

	res := &OAuthResult{TokenType: stored.TokenType, Expiry: stored.Expiry}
	if s.cfg.ExposeTokens {
		logger.Warn("Service: Сырые токены отдаются клиенту, отключите calendly.expose_tokens")
		res.Tokens = map[string]any{
			"access_token":  token.AccessToken,
			"refresh_token": token.RefreshToken,
			"token_type":    token.TokenType,
			"expires_in":    token.ExpiresIn,
		}
	}
	return res, nil
}

func (s *IntegrationService) EventTypes(ctx context.Context) ([]json.RawMessage, error) {
	if s.cfg.PersonalToken == "" {
		return nil, NewConfigMissing("CALENDLY_PERSONAL_TOKEN")
	}

	types, err := s.calendly.EventTypes(ctx)
	if err != nil {
		return nil, NewUpstreamError("получение типов событий", err)
	}
	return types, nil
}
