package service

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/metrics"
	"crmTracker/internal/models/timeentry"
	rep "crmTracker/internal/repository"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TimeService struct {
	repo TimeEntryRepository
	now  Clock
}

func NewTimeService(repo TimeEntryRepository, now Clock) *TimeService {
	if now == nil {
		now = time.Now
	}
	return &TimeService{repo: repo, now: now}
}

// StartTimeEntry не проверяет наличие открытой записи для той же пары
// задача/пользователь.
func (s *TimeService) StartTimeEntry(ctx context.Context, taskID, userID string) (*timeentry.TimeEntry, error) {
	if taskID == "" {
		return nil, NewValidationError("task_id", "обязательное поле")
	}
	if userID == "" {
		return nil, NewValidationError("user_id", "обязательное поле")
	}

	entry := &timeentry.TimeEntry{
		ID:        uuid.New(),
		TaskID:    taskID,
		UserID:    userID,
		StartedAt: s.now(),
	}

	if err := s.repo.CreateTimeEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("начало учёта времени: %w", err)
	}

	metrics.TimeEntryStarted()
	logger.Info("Service: Учёт времени начат",
		zap.String("entry_id", entry.ID.String()),
		zap.String("task_id", taskID),
		zap.String("user_id", userID))
	return entry, nil
}

// StopTimeEntry закрывает запись. Отсутствующая запись - no-op (nil, nil).
// Повторная остановка пересчитывает длительность от нового времени окончания.
func (s *TimeService) StopTimeEntry(ctx context.Context, entryID uuid.UUID) (*timeentry.TimeEntry, error) {
	entry, err := s.repo.GetTimeEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Запись времени не найдена", zap.String("entry_id", entryID.String()))
			return nil, nil
		}
		return nil, fmt.Errorf("получение записи времени: %w", err)
	}

	if !entry.IsRunning() {
		logger.Warn("Service: Запись времени уже остановлена, длительность пересчитывается",
			zap.String("entry_id", entryID.String()),
			zap.Time("ended_at", *entry.EndedAt))
	}

	endedAt := s.now()
	duration := timeentry.Duration(entry.StartedAt, endedAt)

	if err := s.repo.CloseTimeEntry(ctx, entryID, endedAt, duration); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("остановка учёта времени: %w", err)
	}

	entry.EndedAt = &endedAt
	entry.DurationSec = &duration

	metrics.TimeEntryStopped()
	logger.Info("Service: Учёт времени остановлен",
		zap.String("entry_id", entryID.String()),
		zap.Int64("duration_sec", duration))
	return entry, nil
}

// GetTimesheet фильтрует только по пользователю; интервал дат пока не применяется
func (s *TimeService) GetTimesheet(ctx context.Context, query timeentry.Query) (timeentry.Timesheet, error) {
	if query.From != nil || query.To != nil {
		logger.Debug("Service: Фильтр табеля по датам не поддерживается, параметры проигнорированы")
	}

	entries, err := s.repo.ListTimeEntries(ctx, query)
	if err != nil {
		return timeentry.Timesheet{}, fmt.Errorf("получение табеля: %w", err)
	}
	return timeentry.NewTimesheet(entries), nil
}
