package handlers_test

import (
	"context"
	"crmTracker/internal/handlers"
	"crmTracker/internal/mailer"
	"crmTracker/internal/models/appointment"
	"crmTracker/internal/models/client"
	"crmTracker/internal/models/report"
	"crmTracker/internal/models/task"
	"crmTracker/internal/models/timeentry"
	"crmTracker/internal/models/workorder"
	"crmTracker/internal/service"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTaskService - мок сервиса задач
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskService) CreateTask(ctx context.Context, input service.CreateTaskInput) (*task.Task, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, id uuid.UUID, expectedVersion *int, options ...task.TaskOption) (*task.Task, error) {
	args := m.Called(ctx, id, expectedVersion, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskService) Board(ctx context.Context, assigneeID string) (task.Board, error) {
	args := m.Called(ctx, assigneeID)
	return args.Get(0).(task.Board), args.Error(1)
}

var _ handlers.TaskService = (*MockTaskService)(nil)

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) GetSettings(ctx context.Context) (task.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(task.Settings), args.Error(1)
}

func (m *MockSettingsService) UpdateSettings(ctx context.Context, update task.SettingsUpdate) (task.Settings, error) {
	args := m.Called(ctx, update)
	return args.Get(0).(task.Settings), args.Error(1)
}

func (m *MockSettingsService) NormalizeSettings(ctx context.Context) (task.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(task.Settings), args.Error(1)
}

func (m *MockSettingsService) Snapshot(ctx context.Context) (task.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(task.Settings), args.Error(1)
}

var _ handlers.SettingsService = (*MockSettingsService)(nil)

type MockTimeService struct {
	mock.Mock
}

func (m *MockTimeService) StartTimeEntry(ctx context.Context, taskID, userID string) (*timeentry.TimeEntry, error) {
	args := m.Called(ctx, taskID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*timeentry.TimeEntry), args.Error(1)
}

func (m *MockTimeService) StopTimeEntry(ctx context.Context, id uuid.UUID) (*timeentry.TimeEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*timeentry.TimeEntry), args.Error(1)
}

func (m *MockTimeService) GetTimesheet(ctx context.Context, query timeentry.Query) (timeentry.Timesheet, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(timeentry.Timesheet), args.Error(1)
}

var _ handlers.TimeService = (*MockTimeService)(nil)

type MockAppointmentService struct {
	mock.Mock
}

func (m *MockAppointmentService) Capture(ctx context.Context, c appointment.Capture) (*appointment.Appointment, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appointment.Appointment), args.Error(1)
}

func (m *MockAppointmentService) ListByClient(ctx context.Context, clientID string) ([]*appointment.Appointment, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*appointment.Appointment), args.Error(1)
}

func (m *MockAppointmentService) ListGlobal(ctx context.Context, clientID string) ([]*appointment.Appointment, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*appointment.Appointment), args.Error(1)
}

var _ handlers.AppointmentService = (*MockAppointmentService)(nil)

type MockIntegrationService struct {
	mock.Mock
}

func (m *MockIntegrationService) OAuthStartURL() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockIntegrationService) OAuthCallback(ctx context.Context, code string) (*service.OAuthResult, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OAuthResult), args.Error(1)
}

func (m *MockIntegrationService) EventTypes(ctx context.Context) ([]json.RawMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]json.RawMessage), args.Error(1)
}

var _ handlers.IntegrationService = (*MockIntegrationService)(nil)

type MockClientService struct {
	mock.Mock
}

func (m *MockClientService) CreateClient(ctx context.Context, input service.CreateClientInput) (*client.Client, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientService) GetClient(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Client), args.Error(1)
}

func (m *MockClientService) ListClients(ctx context.Context) ([]*client.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*client.Client), args.Error(1)
}

func (m *MockClientService) AddAcquisitionEntry(ctx context.Context, id uuid.UUID, input service.AcquisitionEntryInput) (*client.AcquisitionEntry, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.AcquisitionEntry), args.Error(1)
}

func (m *MockClientService) AcquisitionReport(ctx context.Context, year int) (report.Acquisition, error) {
	args := m.Called(ctx, year)
	return args.Get(0).(report.Acquisition), args.Error(1)
}

func (m *MockClientService) MarketingCostReport(ctx context.Context, year int) (report.MarketingCosts, error) {
	args := m.Called(ctx, year)
	return args.Get(0).(report.MarketingCosts), args.Error(1)
}

var _ handlers.ClientService = (*MockClientService)(nil)

type MockInviteService struct {
	mock.Mock
}

func (m *MockInviteService) SendInvite(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

var _ handlers.InviteService = (*MockInviteService)(nil)

type MockWorkOrderService struct {
	mock.Mock
}

func (m *MockWorkOrderService) CreateWorkOrder(ctx context.Context, input service.CreateWorkOrderInput) (*workorder.WorkOrder, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workorder.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) ListWorkOrders(ctx context.Context) ([]*workorder.WorkOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*workorder.WorkOrder), args.Error(1)
}

func (m *MockWorkOrderService) ProjectTypeReport(ctx context.Context, filter report.ProjectTypeFilter) (report.ProjectTypes, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(report.ProjectTypes), args.Error(1)
}

func (m *MockWorkOrderService) SalesReport(ctx context.Context, year int, includeVAT bool) (report.Sales, error) {
	args := m.Called(ctx, year, includeVAT)
	return args.Get(0).(report.Sales), args.Error(1)
}

var _ handlers.WorkOrderService = (*MockWorkOrderService)(nil)

// withURLParam подставляет параметр маршрута chi, как это делает роутер
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
