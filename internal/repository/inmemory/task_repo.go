package inmemory

import (
	"context"
	"crmTracker/internal/models/task"
	repo "crmTracker/internal/repository"
	"sort"
	"time"

	"github.com/google/uuid"
)

func cloneTask(t *task.Task) *task.Task {
	c := *t
	c.AssigneeIDs = append([]string{}, t.AssigneeIDs...)
	if t.StartDate != nil {
		d := *t.StartDate
		c.StartDate = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.EstimateHours != nil {
		h := *t.EstimateHours
		c.EstimateHours = &h
	}
	return &c
}

func (s *Storage) CreateTask(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if taskToCreate.Version == 0 {
		taskToCreate.Version = 1
	}
	s.tasks[taskToCreate.ID] = cloneTask(taskToCreate)
	return nil
}

func (s *Storage) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	taskToGet, ok := s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneTask(taskToGet), nil
}

// ListTasks возвращает задачи по фильтру, последние изменённые первыми
func (s *Storage) ListTasks(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*task.Task{}
	for _, t := range s.tasks {
		if !filter.Match(t) {
			continue
		}
		res = append(res, cloneTask(t))
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].UpdatedAt.Equal(res[j].UpdatedAt) {
			return res[i].ID.String() < res[j].ID.String()
		}
		return res[i].UpdatedAt.After(res[j].UpdatedAt)
	})
	return res, nil
}

// UpdateTask применяет патч. Если expectedVersion задан, запись выполняется
// только при совпадении версии.
func (s *Storage) UpdateTask(ctx context.Context, id uuid.UUID, patch task.Patch, updatedAt time.Time, expectedVersion *int) (*task.Task, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	existed, ok := s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	if expectedVersion != nil && existed.Version != *expectedVersion {
		return nil, repo.ErrVersionConflict
	}

	patch.Apply(existed)
	existed.UpdatedAt = updatedAt
	existed.Version++

	return cloneTask(existed), nil
}

// полное удаление, отсутствующий id игнорируется
func (s *Storage) DeleteTask(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.tasks, id)
	return nil
}
