package service_test

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/mailer"
	"crmTracker/internal/models/appointment"
	"crmTracker/internal/models/integration"
	"crmTracker/internal/models/task"
	"crmTracker/internal/models/timeentry"
	"crmTracker/internal/models/workorder"
	"crmTracker/internal/service"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/oauth2"
)

// MockTaskRepository - мок репозитория задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTaskRepository) CreateTask(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) ListTasks(ctx context.Context, filter task.Filter) ([]*task.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) UpdateTask(ctx context.Context, id uuid.UUID, patch task.Patch, updatedAt time.Time, expectedVersion *int) (*task.Task, error) {
	args := m.Called(ctx, id, patch, updatedAt, expectedVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ service.TaskRepository = (*MockTaskRepository)(nil)

// MockSettingsRepository - мок хранилища настроек
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetSettings(ctx context.Context) (*task.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Settings), args.Error(1)
}

func (m *MockSettingsRepository) CreateSettingsIfAbsent(ctx context.Context, settings task.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockSettingsRepository) SaveSettings(ctx context.Context, settings task.Settings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

var _ service.SettingsRepository = (*MockSettingsRepository)(nil)

// MockTimeEntryRepository - мок хранилища записей времени
type MockTimeEntryRepository struct {
	mock.Mock
}

func (m *MockTimeEntryRepository) CreateTimeEntry(ctx context.Context, entry *timeentry.TimeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) GetTimeEntry(ctx context.Context, id uuid.UUID) (*timeentry.TimeEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*timeentry.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) CloseTimeEntry(ctx context.Context, id uuid.UUID, endedAt time.Time, durationSec int64) error {
	args := m.Called(ctx, id, endedAt, durationSec)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) ListTimeEntries(ctx context.Context, query timeentry.Query) ([]*timeentry.TimeEntry, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*timeentry.TimeEntry), args.Error(1)
}

var _ service.TimeEntryRepository = (*MockTimeEntryRepository)(nil)

// MockAppointmentRepository - мок хранилища записей на встречи
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) AddClientAppointment(ctx context.Context, clientID string, a *appointment.Appointment) error {
	args := m.Called(ctx, clientID, a)
	return args.Error(0)
}

func (m *MockAppointmentRepository) AddGlobalAppointment(ctx context.Context, a *appointment.Appointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAppointmentRepository) ListClientAppointments(ctx context.Context, clientID string) ([]*appointment.Appointment, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*appointment.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) ListGlobalAppointments(ctx context.Context, clientID string) ([]*appointment.Appointment, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*appointment.Appointment), args.Error(1)
}

var _ service.AppointmentRepository = (*MockAppointmentRepository)(nil)

// MockTokenRepository - мок хранилища токенов
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) SaveToken(ctx context.Context, token integration.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) GetToken(ctx context.Context, provider string) (*integration.Token, error) {
	args := m.Called(ctx, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Token), args.Error(1)
}

var _ service.TokenRepository = (*MockTokenRepository)(nil)

// MockCalendly - мок клиента планировщика
type MockCalendly struct {
	mock.Mock
}

func (m *MockCalendly) AuthCodeURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockCalendly) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockCalendly) EventTypes(ctx context.Context) ([]json.RawMessage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]json.RawMessage), args.Error(1)
}

var _ service.CalendlyClient = (*MockCalendly)(nil)

// MockMailer - мок почтового клиента
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Configured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMailer) Send(ctx context.Context, msg mailer.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

var _ service.Mailer = (*MockMailer)(nil)

type MockWorkOrderRepository struct {
	mock.Mock
}

func (m *MockWorkOrderRepository) CreateWorkOrder(ctx context.Context, w *workorder.WorkOrder) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockWorkOrderRepository) ListWorkOrders(ctx context.Context) ([]*workorder.WorkOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*workorder.WorkOrder), args.Error(1)
}

var _ service.WorkOrderRepository = (*MockWorkOrderRepository)(nil)

// fixedClock возвращает часы, которые отдают значения по очереди,
// последнее значение повторяется
func fixedClock(times ...time.Time) service.Clock {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func hasBusinessCode(err error, code string) bool {
	busErr, ok := service.AsBusinessError(err)
	return ok && busErr.Code == code
}

// observeLogs подменяет глобальный логгер на время теста
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	previous := logger.Logger
	logger.Logger = zap.New(core)
	t.Cleanup(func() { logger.Logger = previous })
	return logs
}
