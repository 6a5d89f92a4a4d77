package service

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/metrics"
	"crmTracker/internal/models/task"
	rep "crmTracker/internal/repository"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// SettingsService владеет документом настроек задач и его снимком.
// Снимок передаётся остальным сервисам явно и заменяется целиком после
// каждой записи администратора или периодического перечитывания.
type SettingsService struct {
	repo     SettingsRepository
	snapshot atomic.Pointer[task.Settings]
}

func NewSettingsService(repo SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// GetSettings читает документ из хранилища, при отсутствии создаёт документ по умолчанию
func (s *SettingsService) GetSettings(ctx context.Context) (task.Settings, error) {
	current, err := s.repo.GetSettings(ctx)
	if err == nil {
		return *current, nil
	}
	if !errors.Is(err, rep.ErrNotFound) {
		return task.Settings{}, fmt.Errorf("получение настроек: %w", err)
	}

	logger.Info("Service: Настройки задач отсутствуют, создаём по умолчанию")
	if err := s.repo.CreateSettingsIfAbsent(ctx, task.DefaultSettings()); err != nil {
		return task.Settings{}, fmt.Errorf("создание настроек по умолчанию: %w", err)
	}

	current, err = s.repo.GetSettings(ctx)
	if err != nil {
		return task.Settings{}, fmt.Errorf("получение настроек: %w", err)
	}
	return *current, nil
}

// UpdateSettings заменяет переданные поля верхнего уровня. Задачи со
// статусами, удалёнными из списка, не мигрируются.
func (s *SettingsService) UpdateSettings(ctx context.Context, update task.SettingsUpdate) (task.Settings, error) {
	if update.Priorities != nil {
		for _, p := range *update.Priorities {
			if !p.ID.Valid() {
				return task.Settings{}, NewValidationError("priorities", fmt.Sprintf("неизвестный приоритет %q", p.ID))
			}
		}
	}

	current, err := s.GetSettings(ctx)
	if err != nil {
		return task.Settings{}, err
	}

	merged := current.Merge(update)
	if err := s.repo.SaveSettings(ctx, merged); err != nil {
		return task.Settings{}, fmt.Errorf("сохранение настроек: %w", err)
	}

	s.publish(merged)
	logger.Info("Service: Настройки задач обновлены",
		zap.Int("statuses", len(merged.Statuses)),
		zap.Int("priorities", len(merged.Priorities)))
	return merged, nil
}

// NormalizeSettings пишет документ только если нормализованная форма отличается
func (s *SettingsService) NormalizeSettings(ctx context.Context) (task.Settings, error) {
	current, err := s.GetSettings(ctx)
	if err != nil {
		return task.Settings{}, err
	}

	normalized := current.Normalize()
	if !current.Equal(normalized) {
		if err := s.repo.SaveSettings(ctx, normalized); err != nil {
			return task.Settings{}, fmt.Errorf("сохранение нормализованных настроек: %w", err)
		}
		logger.Info("Service: Настройки задач нормализованы")
	}

	s.publish(normalized)
	return normalized, nil
}

// Snapshot возвращает текущий снимок, загружая его при первом обращении
func (s *SettingsService) Snapshot(ctx context.Context) (task.Settings, error) {
	if current := s.snapshot.Load(); current != nil {
		return current.Clone(), nil
	}
	if err := s.Refresh(ctx); err != nil {
		return task.Settings{}, err
	}
	return s.snapshot.Load().Clone(), nil
}

// Refresh перечитывает настройки из хранилища и заменяет снимок
func (s *SettingsService) Refresh(ctx context.Context) error {
	current, err := s.GetSettings(ctx)
	if err != nil {
		metrics.SettingsRefreshed(false)
		return err
	}
	s.publish(current)
	metrics.SettingsRefreshed(true)
	return nil
}

func (s *SettingsService) publish(settings task.Settings) {
	copied := settings.Clone()
	s.snapshot.Store(&copied)
}
