package postgres

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/models/timeentry"
	repo "crmTracker/internal/repository"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

func (s *Storage) CreateTimeEntry(ctx context.Context, entry *timeentry.TimeEntry) error {
	start := time.Now()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO task_time_entries (id, task_id, user_id, started_at, ended_at, duration_sec)
		 VALUES ($1, $2, $3, $4, NULL, NULL)`,
		entry.ID, entry.TaskID, entry.UserID, entry.StartedAt)
	if err != nil {
		logger.Error("Repository: Не удалось начать учёт времени", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("создание записи времени: %w", err)
	}

	slow("create_time_entry", start, 50*time.Millisecond)
	return nil
}

func (s *Storage) GetTimeEntry(ctx context.Context, id uuid.UUID) (*timeentry.TimeEntry, error) {
	entry := &timeentry.TimeEntry{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, task_id, user_id, started_at, ended_at, duration_sec
		 FROM task_time_entries WHERE id = $1`, id).Scan(
		&entry.ID, &entry.TaskID, &entry.UserID, &entry.StartedAt, &entry.EndedAt, &entry.DurationSec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить запись времени", err)
		return nil, fmt.Errorf("получение записи времени: %w", err)
	}
	return entry, nil
}

func (s *Storage) CloseTimeEntry(ctx context.Context, id uuid.UUID, endedAt time.Time, durationSec int64) error {
	start := time.Now()

	tag, err := s.pool.Exec(ctx,
		`UPDATE task_time_entries SET ended_at = $1, duration_sec = $2 WHERE id = $3`,
		endedAt, durationSec, id)
	if err != nil {
		logger.Error("Repository: Не удалось остановить учёт времени", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("закрытие записи времени: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	slow("close_time_entry", start, 50*time.Millisecond)
	return nil
}

func (s *Storage) ListTimeEntries(ctx context.Context, query timeentry.Query) ([]*timeentry.TimeEntry, error) {
	start := time.Now()

	sql := `SELECT id, task_id, user_id, started_at, ended_at, duration_sec FROM task_time_entries`
	args := []any{}
	if query.UserID != "" {
		sql += ` WHERE user_id = $1`
		args = append(args, query.UserID)
	}
	sql += ` ORDER BY started_at DESC`

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить табель", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение табеля: %w", err)
	}
	defer rows.Close()

	entries := []*timeentry.TimeEntry{}
	for rows.Next() {
		entry := &timeentry.TimeEntry{}
		if err := rows.Scan(&entry.ID, &entry.TaskID, &entry.UserID, &entry.StartedAt, &entry.EndedAt, &entry.DurationSec); err != nil {
			logger.Warn("Repository: Ошибка сканирования записи времени", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	slow("list_time_entries", start, 100*time.Millisecond)
	return entries, nil
}
