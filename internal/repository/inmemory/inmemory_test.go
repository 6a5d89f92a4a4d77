package inmemory_test

import (
	"context"
	"crmTracker/internal/models/appointment"
	"crmTracker/internal/models/client"
	"crmTracker/internal/models/integration"
	"crmTracker/internal/models/task"
	"crmTracker/internal/models/timeentry"
	"crmTracker/internal/models/workorder"
	repo "crmTracker/internal/repository"
	"crmTracker/internal/repository/inmemory"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(title string, updatedAt time.Time, assignees ...string) *task.Task {
	if assignees == nil {
		assignees = []string{}
	}
	return &task.Task{
		ID:          uuid.New(),
		Title:       title,
		Status:      "todo",
		Priority:    task.PriorityMedium,
		AssigneeIDs: assignees,
		CreatedAt:   updatedAt,
		UpdatedAt:   updatedAt,
	}
}

// TestStorage_TaskLifecycle проверяет создание, обновление и удаление задачи
func TestStorage_TaskLifecycle(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	now := time.Now().UTC()

	created := newTask("first", now)
	require.NoError(t, storage.CreateTask(ctx, created))
	assert.Equal(t, 1, created.Version)

	got, err := storage.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)

	got.Title = "mutated"
	again, err := storage.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", again.Title, "хранилище отдаёт копии")

	updated, err := storage.UpdateTask(ctx, created.ID, task.NewPatch(task.WithTitle("second")), now.Add(time.Second), nil)
	require.NoError(t, err)
	assert.Equal(t, "second", updated.Title)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, now.Add(time.Second), updated.UpdatedAt)

	require.NoError(t, storage.DeleteTask(ctx, created.ID))
	_, err = storage.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	// повторное удаление не ошибка
	assert.NoError(t, storage.DeleteTask(ctx, created.ID))
}

func TestStorage_UpdateTask_Version(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	created := newTask("task", time.Now())
	require.NoError(t, storage.CreateTask(ctx, created))

	stale := 5
	_, err := storage.UpdateTask(ctx, created.ID, task.NewPatch(task.WithTitle("x")), time.Now(), &stale)
	assert.ErrorIs(t, err, repo.ErrVersionConflict)

	current := 1
	updated, err := storage.UpdateTask(ctx, created.ID, task.NewPatch(task.WithTitle("x")), time.Now(), &current)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version)

	_, err = storage.UpdateTask(ctx, uuid.New(), task.NewPatch(task.WithTitle("x")), time.Now(), nil)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// TestStorage_UpdateTask_ConcurrentCAS - из параллельных записей с одной версией проходит одна
func TestStorage_UpdateTask_ConcurrentCAS(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	created := newTask("task", time.Now())
	require.NoError(t, storage.CreateTask(ctx, created))

	var wg sync.WaitGroup
	var mtx sync.Mutex
	succeeded := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			expected := 1
			_, err := storage.UpdateTask(ctx, created.ID, task.NewPatch(task.WithStatus("done")), time.Now(), &expected)
			if err == nil {
				mtx.Lock()
				succeeded++
				mtx.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}

func TestStorage_ListTasks(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	older := newTask("older", base, "u1")
	newer := newTask("newer", base.Add(time.Hour), "u1", "u2")
	older.Description = "Replace the kitchen VALVE"
	newer.Priority = task.PriorityUrgent
	other := newTask("other", base.Add(2*time.Hour), "u3")
	other.Status = "done"
	other.Priority = task.PriorityUrgent
	for _, tt := range []*task.Task{older, newer, other} {
		require.NoError(t, storage.CreateTask(ctx, tt))
	}

	tests := []struct {
		name   string
		filter task.Filter
		want   []string
	}{
		{"all, updatedAt desc", task.Filter{}, []string{"other", "newer", "older"}},
		{"by status", task.Filter{Status: "todo"}, []string{"newer", "older"}},
		{"by assignee", task.Filter{AssigneeID: "u2"}, []string{"newer"}},
		{"status and assignee", task.Filter{Status: "done", AssigneeID: "u1"}, []string{}},
		{"by priority", task.Filter{Priority: task.PriorityUrgent}, []string{"other", "newer"}},
		{"query in description, any case", task.Filter{Query: "  valve "}, []string{"older"}},
		{"query in title", task.Filter{Query: "NEW"}, []string{"newer"}},
		{"priority and status", task.Filter{Priority: task.PriorityUrgent, Status: "todo"}, []string{"newer"}},
		{"query without match", task.Filter{Query: "pump"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := storage.ListTasks(ctx, tt.filter)
			require.NoError(t, err)

			titles := []string{}
			for _, item := range list {
				titles = append(titles, item.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestStorage_Settings(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()

	_, err := storage.GetSettings(ctx)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, storage.CreateSettingsIfAbsent(ctx, task.DefaultSettings()))

	custom := task.Settings{Statuses: []task.StatusDef{{ID: "open", Name: "Open"}}}
	require.NoError(t, storage.CreateSettingsIfAbsent(ctx, custom))

	got, err := storage.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(task.DefaultSettings()), "существующий документ не перезаписывается")

	require.NoError(t, storage.SaveSettings(ctx, custom))
	got, err = storage.GetSettings(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(custom))
}

func TestStorage_TimeEntries(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	first := &timeentry.TimeEntry{ID: uuid.New(), TaskID: "t1", UserID: "u1", StartedAt: start}
	second := &timeentry.TimeEntry{ID: uuid.New(), TaskID: "t2", UserID: "u1", StartedAt: start.Add(time.Hour)}
	foreign := &timeentry.TimeEntry{ID: uuid.New(), TaskID: "t1", UserID: "u2", StartedAt: start}
	for _, e := range []*timeentry.TimeEntry{first, second, foreign} {
		require.NoError(t, storage.CreateTimeEntry(ctx, e))
	}

	ended := start.Add(30 * time.Minute)
	require.NoError(t, storage.CloseTimeEntry(ctx, first.ID, ended, 1800))
	assert.ErrorIs(t, storage.CloseTimeEntry(ctx, uuid.New(), ended, 1), repo.ErrNotFound)

	got, err := storage.GetTimeEntry(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DurationSec)
	assert.Equal(t, int64(1800), *got.DurationSec)
	assert.False(t, got.IsRunning())

	list, err := storage.ListTimeEntries(ctx, timeentry.Query{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestStorage_Appointments(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()

	scheduled := "2024-05-01T09:00:00Z"
	later := "2024-06-01T09:00:00Z"
	clientID := "c1"

	a1 := &appointment.Appointment{ID: uuid.New(), ClientID: &clientID, ScheduledAt: &scheduled}
	a2 := &appointment.Appointment{ID: uuid.New(), ClientID: &clientID, ScheduledAt: &later}
	orphan := &appointment.Appointment{ID: uuid.New()}

	require.NoError(t, storage.AddClientAppointment(ctx, clientID, a1))
	require.NoError(t, storage.AddClientAppointment(ctx, clientID, a2))
	for _, a := range []*appointment.Appointment{a1, orphan, a2} {
		require.NoError(t, storage.AddGlobalAppointment(ctx, a))
	}

	byClient, err := storage.ListClientAppointments(ctx, clientID)
	require.NoError(t, err)
	require.Len(t, byClient, 2)
	assert.Equal(t, a2.ID, byClient[0].ID)

	global, err := storage.ListGlobalAppointments(ctx, "")
	require.NoError(t, err)
	require.Len(t, global, 3)
	assert.Equal(t, orphan.ID, global[2].ID, "записи без времени в конце")

	filtered, err := storage.ListGlobalAppointments(ctx, clientID)
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	empty, err := storage.ListClientAppointments(ctx, "missing")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestStorage_Clients(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	now := time.Now().UTC()

	c := &client.Client{ID: uuid.New(), Name: "Alfa", CreatedAt: &now}
	require.NoError(t, storage.CreateClient(ctx, c))

	entry := client.AcquisitionEntry{ID: "e1", Source: client.SourceReferral}
	later := now.Add(time.Minute)
	require.NoError(t, storage.AddAcquisitionEntry(ctx, c.ID, entry, later))
	assert.ErrorIs(t, storage.AddAcquisitionEntry(ctx, uuid.New(), entry, later), repo.ErrNotFound)

	got, err := storage.GetClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []client.AcquisitionEntry{entry}, got.AcquisitionEntries)
	require.NotNil(t, got.UpdatedAt)
	assert.Equal(t, later, *got.UpdatedAt)

	list, err := storage.ListClients(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = storage.GetClient(ctx, uuid.New())
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestStorage_WorkOrders(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()

	first := &workorder.WorkOrder{
		ID:            uuid.New(),
		Type:          "Instalare",
		Products:      []workorder.Product{{Quantity: 1, Price: 100}},
		OfferResponse: &workorder.OfferResponse{Status: "accept"},
	}
	second := &workorder.WorkOrder{ID: uuid.New(), Type: "Service"}
	require.NoError(t, storage.CreateWorkOrder(ctx, first))
	require.NoError(t, storage.CreateWorkOrder(ctx, second))

	// хранилище держит копию
	first.Products[0].Price = 999
	first.OfferResponse.Status = "reject"

	list, err := storage.ListWorkOrders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, 100.0, list[0].Products[0].Price)
	assert.True(t, list[0].Accepted())
	assert.Equal(t, second.ID, list[1].ID)
}

func TestStorage_UpdateTask_DisciplineAndPhase(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()
	created := newTask("t", time.Now().UTC())
	created.Discipline = "electric"
	require.NoError(t, storage.CreateTask(ctx, created))

	patch := task.NewPatch(task.WithPhase("Execuție"))
	updated, err := storage.UpdateTask(ctx, created.ID, patch, time.Now().UTC(), nil)
	require.NoError(t, err)
	assert.Equal(t, "electric", updated.Discipline)
	assert.Equal(t, "Execuție", updated.Phase)
}

func TestStorage_Tokens(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.New()

	_, err := storage.GetToken(ctx, integration.ProviderCalendly)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	token := integration.Token{Provider: integration.ProviderCalendly, AccessToken: "a", TokenType: "Bearer", UpdatedAt: time.Now()}
	require.NoError(t, storage.SaveToken(ctx, token))

	got, err := storage.GetToken(ctx, integration.ProviderCalendly)
	require.NoError(t, err)
	assert.Equal(t, "a", got.AccessToken)
}
