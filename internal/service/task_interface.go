package service

import (
	"context"
	"crmTracker/internal/models/appointment"
	"crmTracker/internal/models/client"
	"crmTracker/internal/models/integration"
	"crmTracker/internal/models/task"
	"crmTracker/internal/models/timeentry"
	"crmTracker/internal/models/workorder"
	"time"

	"github.com/google/uuid"
)

type SettingsRepository interface {
	GetSettings(context.Context) (*task.Settings, error)
	CreateSettingsIfAbsent(context.Context, task.Settings) error
	SaveSettings(context.Context, task.Settings) error
}

type TaskRepository interface {
	HealthCheck(context.Context) error
	CreateTask(context.Context, *task.Task) error
	GetTask(context.Context, uuid.UUID) (*task.Task, error)
	ListTasks(context.Context, task.Filter) ([]*task.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, patch task.Patch, updatedAt time.Time, expectedVersion *int) (*task.Task, error)
	DeleteTask(context.Context, uuid.UUID) error
}

type TimeEntryRepository interface {
	CreateTimeEntry(context.Context, *timeentry.TimeEntry) error
	GetTimeEntry(context.Context, uuid.UUID) (*timeentry.TimeEntry, error)
	CloseTimeEntry(ctx context.Context, id uuid.UUID, endedAt time.Time, durationSec int64) error
	ListTimeEntries(context.Context, timeentry.Query) ([]*timeentry.TimeEntry, error)
}

type AppointmentRepository interface {
	AddClientAppointment(ctx context.Context, clientID string, a *appointment.Appointment) error
	AddGlobalAppointment(context.Context, *appointment.Appointment) error
	ListClientAppointments(ctx context.Context, clientID string) ([]*appointment.Appointment, error)
	ListGlobalAppointments(ctx context.Context, clientID string) ([]*appointment.Appointment, error)
}

type ClientRepository interface {
	CreateClient(context.Context, *client.Client) error
	GetClient(context.Context, uuid.UUID) (*client.Client, error)
	ListClients(context.Context) ([]*client.Client, error)
	AddAcquisitionEntry(ctx context.Context, id uuid.UUID, entry client.AcquisitionEntry, updatedAt time.Time) error
}

type WorkOrderRepository interface {
	CreateWorkOrder(context.Context, *workorder.WorkOrder) error
	ListWorkOrders(context.Context) ([]*workorder.WorkOrder, error)
}

type TokenRepository interface {
	SaveToken(context.Context, integration.Token) error
	GetToken(ctx context.Context, provider string) (*integration.Token, error)
}

// Clock - источник серверного времени, в тестах подменяется
type Clock func() time.Time
