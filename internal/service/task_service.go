package service

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/metrics"
	"crmTracker/internal/models/task"
	rep "crmTracker/internal/repository"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

const resourceTask = "задача"

type TaskService struct {
	repo     TaskRepository
	settings *SettingsService
	now      Clock
}

func NewTaskService(repo TaskRepository, settings *SettingsService, now Clock) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{
		repo:     repo,
		settings: settings,
		now:      now,
	}
}

type CreateTaskInput struct {
	Title         string
	Description   string
	Status        string
	Priority      task.Priority
	SLALevel      task.SLALevel
	Discipline    string
	Phase         string
	AssigneeIDs   []string
	StartDate     *time.Time
	DueDate       *time.Time
	EstimateHours *float64
	Links         task.Links
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

// CreateTask создаёт задачу. Без явного статуса задача получает первый
// статус по order из текущего снимка настроек.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*task.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}

	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение настроек: %w", err)
	}

	status := input.Status
	if status == "" {
		initial, ok := settings.InitialStatus()
		if !ok {
			return nil, NewValidationError("status", "в настройках нет ни одного статуса")
		}
		status = initial.ID
	} else if settings, err = s.checkStatus(ctx, settings, status); err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = task.PriorityMedium
	} else if err := checkPriority(settings, priority); err != nil {
		return nil, err
	}
	if !input.SLALevel.Valid() {
		return nil, NewValidationError("sla_level", fmt.Sprintf("неизвестный уровень SLA %q", input.SLALevel))
	}

	assignees := input.AssigneeIDs
	if assignees == nil {
		assignees = []string{}
	}

	now := s.now()
	newTask := &task.Task{
		ID:            uuid.New(),
		Title:         input.Title,
		Description:   input.Description,
		Status:        status,
		Priority:      priority,
		SLALevel:      input.SLALevel,
		Discipline:    input.Discipline,
		Phase:         input.Phase,
		AssigneeIDs:   assignees,
		StartDate:     input.StartDate,
		DueDate:       input.DueDate,
		EstimateHours: input.EstimateHours,
		SpentSeconds:  0,
		Links:         input.Links,
		CreatedAt:     now,
		UpdatedAt:     now,
		Version:       1,
	}

	if err := s.repo.CreateTask(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	metrics.TaskCreated()
	logger.Info("Service: Задача создана",
		zap.String("task_id", newTask.ID.String()),
		zap.String("status", newTask.Status))
	return newTask, nil
}

// GetTask возвращает nil без ошибки, если задачи нет
func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	found, err := s.repo.GetTask(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, nil
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return found, nil
}

func (s *TaskService) ListTasks(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	tasks, err := s.repo.ListTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	return tasks, nil
}

// UpdateTask записывает только переданные поля и всегда обновляет updated_at.
// expectedVersion превращает запись в compare-and-swap.
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, expectedVersion *int, options ...task.TaskOption) (*task.Task, error) {
	patch := task.NewPatch(options...)
	if patch.IsEmpty() {
		logger.Debug("Service: Пустой патч, обновляется только updated_at", zap.String("task_id", id.String()))
	}

	if err := s.validatePatch(ctx, patch); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateTask(ctx, id, patch, s.now(), expectedVersion)
	if err != nil {
		switch {
		case errors.Is(err, rep.ErrNotFound):
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(resourceTask, id.String())
		case errors.Is(err, rep.ErrVersionConflict):
			return nil, NewVersionConflict(resourceTask, id.String(), *expectedVersion)
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	if patch.Status != nil {
		metrics.StatusTransition(*patch.Status)
	}
	return updated, nil
}

func (s *TaskService) validatePatch(ctx context.Context, patch task.Patch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return NewValidationError("title", "название не может быть пустым")
	}
	if patch.SLALevel != nil && !patch.SLALevel.Valid() {
		return NewValidationError("sla_level", fmt.Sprintf("неизвестный уровень SLA %q", *patch.SLALevel))
	}
	if patch.Status == nil && patch.Priority == nil {
		return nil
	}

	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("получение настроек: %w", err)
	}
	if patch.Status != nil {
		if settings, err = s.checkStatus(ctx, settings, *patch.Status); err != nil {
			return err
		}
	}
	if patch.Priority != nil {
		return checkPriority(settings, *patch.Priority)
	}
	return nil
}

// checkStatus проверяет статус по снимку. Неизвестный статус проверяется
// повторно после одного перечитывания настроек из хранилища.
func (s *TaskService) checkStatus(ctx context.Context, settings task.Settings, status string) (task.Settings, error) {
	if !settings.Resolve(status).IsOrphaned() {
		return settings, nil
	}

	if err := s.settings.Refresh(ctx); err != nil {
		return settings, fmt.Errorf("обновление настроек: %w", err)
	}
	fresh, err := s.settings.Snapshot(ctx)
	if err != nil {
		return settings, fmt.Errorf("получение настроек: %w", err)
	}
	if fresh.Resolve(status).IsOrphaned() {
		return fresh, NewValidationError("status", fmt.Sprintf("статус %q отсутствует в настройках", status))
	}

	logger.Info("Service: Снимок настроек обновлён по неизвестному статусу", zap.String("status", status))
	return fresh, nil
}

// checkPriority: пустой список приоритетов в настройках не ограничивает выбор
func checkPriority(settings task.Settings, priority task.Priority) error {
	if !priority.Valid() {
		return NewValidationError("priority", fmt.Sprintf("неизвестный приоритет %q", priority))
	}
	if len(settings.Priorities) > 0 && !settings.HasPriority(priority) {
		return NewValidationError("priority", fmt.Sprintf("приоритет %q отключён в настройках", priority))
	}
	return nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("удаление задачи: %w", err)
	}
	logger.Info("Service: Задача удалена", zap.String("task_id", id.String()))
	return nil
}

// Board группирует задачи по статусам текущего снимка настроек
func (s *TaskService) Board(ctx context.Context, assigneeID string) (task.Board, error) {
	settings, err := s.settings.Snapshot(ctx)
	if err != nil {
		return task.Board{}, fmt.Errorf("получение настроек: %w", err)
	}

	tasks, err := s.repo.ListTasks(ctx, task.Filter{AssigneeID: assigneeID})
	if err != nil {
		return task.Board{}, fmt.Errorf("получение задач: %w", err)
	}

	return task.GroupByStatus(settings, tasks), nil
}
