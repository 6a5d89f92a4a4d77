package postgres

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/models/task"
	repo "crmTracker/internal/repository"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const taskColumns = `id,
				title,
				description,
				status,
				priority,
				sla_level,
				discipline,
				phase,
				assignee_ids,
				start_date,
				due_date,
				estimate_hours,
				spent_seconds,
				client_id,
				work_id,
				created_at,
				updated_at,
				version`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func scanTask(row pgx.Row) (*task.Task, error) {
	t := &task.Task{}
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.SLALevel,
		&t.Discipline,
		&t.Phase,
		&t.AssigneeIDs,
		&t.StartDate,
		&t.DueDate,
		&t.EstimateHours,
		&t.SpentSeconds,
		&t.Links.ClientID,
		&t.Links.WorkID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.Version,
	)
	if err != nil {
		return nil, err
	}
	if t.AssigneeIDs == nil {
		t.AssigneeIDs = []string{}
	}
	return t, nil
}

func (s *Storage) CreateTask(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	assignees := taskToCreate.AssigneeIDs
	if assignees == nil {
		assignees = []string{}
	}

	query := `INSERT INTO tasks
				(id, title, description, status, priority, sla_level, discipline, phase, assignee_ids, start_date,
				 due_date, estimate_hours, spent_seconds, client_id, work_id, created_at, updated_at, version)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, 1)
				RETURNING version`

	err := s.pool.QueryRow(ctx, query,
		taskToCreate.ID,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Status,
		taskToCreate.Priority,
		taskToCreate.SLALevel,
		taskToCreate.Discipline,
		taskToCreate.Phase,
		assignees,
		taskToCreate.StartDate,
		taskToCreate.DueDate,
		taskToCreate.EstimateHours,
		taskToCreate.SpentSeconds,
		taskToCreate.Links.ClientID,
		taskToCreate.Links.WorkID,
		taskToCreate.CreatedAt,
		taskToCreate.UpdatedAt,
	).Scan(&taskToCreate.Version)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	slow("create_task", start, 50*time.Millisecond)
	return nil
}

func (s *Storage) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	slow("get_task", start, 100*time.Millisecond)
	return t, nil
}

// ListTasks - все заданные фильтры объединяются через AND
func (s *Storage) ListTasks(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	start := time.Now()

	conditions := []string{}
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.AssigneeID != "" {
		args = append(args, []string{filter.AssigneeID})
		conditions = append(conditions, fmt.Sprintf("assignee_ids @> $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+likeEscaper.Replace(q)+"%")
		conditions = append(conditions, fmt.Sprintf("(title ILIKE $%[1]d OR description ILIKE $%[1]d)", len(args)))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY updated_at DESC, id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	slow("list_tasks", start, 50*time.Millisecond+time.Millisecond*time.Duration(len(tasks)))
	return tasks, nil
}

// UpdateTask пишет только поля из патча. Версия растёт на каждой записи;
// при заданном expectedVersion запись условная.
func (s *Storage) UpdateTask(ctx context.Context, id uuid.UUID, patch task.Patch, updatedAt time.Time, expectedVersion *int) (*task.Task, error) {
	start := time.Now()

	sets := []string{}
	args := []any{}
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Priority != nil {
		set("priority", *patch.Priority)
	}
	if patch.SLALevel != nil {
		set("sla_level", *patch.SLALevel)
	}
	if patch.Discipline != nil {
		set("discipline", *patch.Discipline)
	}
	if patch.Phase != nil {
		set("phase", *patch.Phase)
	}
	if patch.AssigneeIDs != nil {
		set("assignee_ids", *patch.AssigneeIDs)
	}
	if patch.StartDate != nil {
		set("start_date", *patch.StartDate)
	}
	if patch.DueDate != nil {
		set("due_date", *patch.DueDate)
	}
	if patch.EstimateHours != nil {
		set("estimate_hours", *patch.EstimateHours)
	}
	if patch.Links != nil {
		set("client_id", patch.Links.ClientID)
		set("work_id", patch.Links.WorkID)
	}
	set("updated_at", updatedAt)
	sets = append(sets, "version = version + 1")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	if expectedVersion != nil {
		args = append(args, *expectedVersion)
		query += fmt.Sprintf(` AND version = $%d`, len(args))
	}
	query += ` RETURNING ` + taskColumns

	t, err := scanTask(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if expectedVersion == nil {
				return nil, repo.ErrNotFound
			}
			if _, getErr := s.GetTask(ctx, id); getErr != nil {
				return nil, getErr
			}
			logger.Warn("Конфликт версий при обновлении задачи",
				zap.String("task_id", id.String()),
				zap.Int("expected_version", *expectedVersion))
			return nil, repo.ErrVersionConflict
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	slow("update_task", start, 100*time.Millisecond)
	return t, nil
}

// полное удаление из БД
func (s *Storage) DeleteTask(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	_, err := s.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.Error("Repository: Полное удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("полное удаление: %w", err)
	}

	slow("delete_task", start, 100*time.Millisecond)
	return nil
}
