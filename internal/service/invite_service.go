package service

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/mailer"
	"fmt"

	"go.uber.org/zap"
)

type Mailer interface {
	Configured() bool
	Send(ctx context.Context, msg mailer.Message) error
}

type InviteService struct {
	mailer Mailer
}

func NewInviteService(m Mailer) *InviteService {
	return &InviteService{mailer: m}
}

func (s *InviteService) SendInvite(ctx context.Context, msg mailer.Message) error {
	if len(msg.To) == 0 {
		return NewValidationError("to", "нет получателей")
	}
	for _, to := range msg.To {
		if to == "" {
			return NewValidationError("to", "пустой адрес получателя")
		}
	}
	if !s.mailer.Configured() {
		return NewConfigMissing("EMAIL_HOST", "EMAIL_USER", "EMAIL_PASS")
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.Error("Service: Ошибка отправки приглашения", err, zap.Strings("to", msg.To))
		return fmt.Errorf("отправка приглашения: %w", err)
	}
	return nil
}
