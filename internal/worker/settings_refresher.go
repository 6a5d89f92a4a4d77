package worker

import (
	"context"
	"crmTracker/internal/logger"
	"time"

	"go.uber.org/zap"
)

type SettingsSource interface {
	Refresh(ctx context.Context) error
}

// SettingsRefresher периодически перечитывает настройки задач, чтобы
// правки другого экземпляра сервиса доходили до снимка без перезапуска.
type SettingsRefresher struct {
	source   SettingsSource
	interval time.Duration
}

func NewSettingsRefresher(source SettingsSource, interval *time.Duration) *SettingsRefresher {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = time.Minute
	} else {
		intervalToSet = *interval
	}

	return &SettingsRefresher{
		source:   source,
		interval: intervalToSet,
	}
}

func (w *SettingsRefresher) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Обновление настроек останавливается")
			return
		}
	}
}

func (w *SettingsRefresher) Check(ctx context.Context) {
	start := time.Now()

	if err := w.source.Refresh(ctx); err != nil {
		logger.Warn("Worker: Ошибка обновления снимка настроек", zap.Error(err))
		return
	}

	logger.Debug("Worker: Снимок настроек обновлён", zap.Duration("ms", time.Since(start)))
}
