package postgres

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/models/task"
	repo "crmTracker/internal/repository"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

func (s *Storage) GetSettings(ctx context.Context) (*task.Settings, error) {
	start := time.Now()
	defer slow("get_settings", start, 50*time.Millisecond)

	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM task_settings WHERE id = $1`, task.SettingsID).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить настройки задач", err)
		return nil, fmt.Errorf("получение настроек: %w", err)
	}

	settings := &task.Settings{}
	if err := json.Unmarshal(doc, settings); err != nil {
		return nil, fmt.Errorf("разбор настроек: %w", err)
	}
	return settings, nil
}

// CreateSettingsIfAbsent - при гонке первых обращений остаётся первая запись
func (s *Storage) CreateSettingsIfAbsent(ctx context.Context, settings task.Settings) error {
	doc, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("сериализация настроек: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO task_settings (id, doc, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (id) DO NOTHING`,
		task.SettingsID, doc)
	if err != nil {
		logger.Error("Repository: Не удалось создать настройки задач", err)
		return fmt.Errorf("создание настроек: %w", err)
	}
	return nil
}

func (s *Storage) SaveSettings(ctx context.Context, settings task.Settings) error {
	start := time.Now()
	defer slow("save_settings", start, 50*time.Millisecond)

	doc, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("сериализация настроек: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO task_settings (id, doc, updated_at) VALUES ($1, $2, NOW())
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = NOW()`,
		task.SettingsID, doc)
	if err != nil {
		logger.Error("Repository: Не удалось сохранить настройки задач", err)
		return fmt.Errorf("сохранение настроек: %w", err)
	}
	return nil
}
