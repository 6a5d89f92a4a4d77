package handlers

import (
	"context"
	"crmTracker/internal/mailer"
	"crmTracker/internal/models/appointment"
	"crmTracker/internal/models/client"
	"crmTracker/internal/models/report"
	"crmTracker/internal/models/task"
	"crmTracker/internal/models/timeentry"
	"crmTracker/internal/models/workorder"
	"crmTracker/internal/service"
	"encoding/json"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(context.Context) error
	CreateTask(context.Context, service.CreateTaskInput) (*task.Task, error)
	GetTask(context.Context, uuid.UUID) (*task.Task, error)
	ListTasks(context.Context, task.Filter) ([]*task.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, expectedVersion *int, options ...task.TaskOption) (*task.Task, error)
	DeleteTask(context.Context, uuid.UUID) error
	Board(ctx context.Context, assigneeID string) (task.Board, error)
}

type SettingsService interface {
	GetSettings(context.Context) (task.Settings, error)
	UpdateSettings(context.Context, task.SettingsUpdate) (task.Settings, error)
	NormalizeSettings(context.Context) (task.Settings, error)
	Snapshot(context.Context) (task.Settings, error)
}

type TimeService interface {
	StartTimeEntry(ctx context.Context, taskID, userID string) (*timeentry.TimeEntry, error)
	StopTimeEntry(context.Context, uuid.UUID) (*timeentry.TimeEntry, error)
	GetTimesheet(context.Context, timeentry.Query) (timeentry.Timesheet, error)
}

type AppointmentService interface {
	Capture(context.Context, appointment.Capture) (*appointment.Appointment, error)
	ListByClient(ctx context.Context, clientID string) ([]*appointment.Appointment, error)
	ListGlobal(ctx context.Context, clientID string) ([]*appointment.Appointment, error)
}

type IntegrationService interface {
	OAuthStartURL() (string, error)
	OAuthCallback(ctx context.Context, code string) (*service.OAuthResult, error)
	EventTypes(context.Context) ([]json.RawMessage, error)
}

type ClientService interface {
	CreateClient(context.Context, service.CreateClientInput) (*client.Client, error)
	GetClient(context.Context, uuid.UUID) (*client.Client, error)
	ListClients(context.Context) ([]*client.Client, error)
	AddAcquisitionEntry(ctx context.Context, id uuid.UUID, input service.AcquisitionEntryInput) (*client.AcquisitionEntry, error)
	AcquisitionReport(ctx context.Context, year int) (report.Acquisition, error)
	MarketingCostReport(ctx context.Context, year int) (report.MarketingCosts, error)
}

type WorkOrderService interface {
	CreateWorkOrder(context.Context, service.CreateWorkOrderInput) (*workorder.WorkOrder, error)
	ListWorkOrders(context.Context) ([]*workorder.WorkOrder, error)
	ProjectTypeReport(context.Context, report.ProjectTypeFilter) (report.ProjectTypes, error)
	SalesReport(ctx context.Context, year int, includeVAT bool) (report.Sales, error)
}

type InviteService interface {
	SendInvite(context.Context, mailer.Message) error
}
