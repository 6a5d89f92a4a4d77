package service

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/metrics"
	"crmTracker/internal/models/appointment"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AppointmentService struct {
	repo            AppointmentRepository
	requireClientID bool
	now             Clock
}

// NewAppointmentService: requireClientID включает строгий режим вебхука,
// в котором запрос без clientId отклоняется до любой записи.
func NewAppointmentService(repo AppointmentRepository, requireClientID bool, now Clock) *AppointmentService {
	if now == nil {
		now = time.Now
	}
	return &AppointmentService{
		repo:            repo,
		requireClientID: requireClientID,
		now:             now,
	}
}

// Capture сохраняет событие планировщика сначала в коллекцию клиента (если
// clientId передан), затем в общую. Первая запись не откатывается при ошибке второй.
func (s *AppointmentService) Capture(ctx context.Context, capture appointment.Capture) (*appointment.Appointment, error) {
	if s.requireClientID && capture.ClientID == "" {
		return nil, NewValidationError("clientId", "обязательное поле")
	}

	record := appointment.FromCapture(capture, uuid.New(), s.now().UTC())

	if capture.ClientID != "" {
		if err := s.repo.AddClientAppointment(ctx, capture.ClientID, record); err != nil {
			return nil, fmt.Errorf("сохранение записи клиента: %w", err)
		}
		metrics.AppointmentCaptured("client")
	}

	if err := s.repo.AddGlobalAppointment(ctx, record); err != nil {
		logger.Error("Service: Запись сохранена у клиента, но не в общей коллекции", err,
			zap.String("appointment_id", record.ID.String()),
			zap.String("client_id", capture.ClientID))
		return nil, fmt.Errorf("сохранение в общую коллекцию: %w", err)
	}
	metrics.AppointmentCaptured("global")

	logger.Info("Service: Событие планировщика сохранено",
		zap.String("appointment_id", record.ID.String()),
		zap.String("client_id", capture.ClientID))
	return record, nil
}

func (s *AppointmentService) ListByClient(ctx context.Context, clientID string) ([]*appointment.Appointment, error) {
	list, err := s.repo.ListClientAppointments(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("получение записей клиента: %w", err)
	}
	return list, nil
}

// ListGlobal возвращает общую коллекцию, clientID пустой - все записи
func (s *AppointmentService) ListGlobal(ctx context.Context, clientID string) ([]*appointment.Appointment, error) {
	list, err := s.repo.ListGlobalAppointments(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("получение общих записей: %w", err)
	}
	return list, nil
}
