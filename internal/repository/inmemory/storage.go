package inmemory

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/models/appointment"
	"crmTracker/internal/models/client"
	"crmTracker/internal/models/integration"
	"crmTracker/internal/models/task"
	"crmTracker/internal/models/timeentry"
	"crmTracker/internal/models/workorder"
	"sync"

	"github.com/google/uuid"
)

// Storage хранит все коллекции в памяти процесса. Используется в тестах
// и при repository.type = inmemory.
type Storage struct {
	mtx *sync.RWMutex

	settings *task.Settings

	tasks   map[uuid.UUID]*task.Task
	entries map[uuid.UUID]*timeentry.TimeEntry
	// порядок вставки записей времени
	entryIDs []uuid.UUID

	clients            map[uuid.UUID]*client.Client
	clientIDs          []uuid.UUID
	clientAppointments map[string][]*appointment.Appointment
	globalAppointments []*appointment.Appointment

	workOrders []*workorder.WorkOrder

	tokens map[string]integration.Token
}

func New() *Storage {
	return &Storage{
		mtx:                &sync.RWMutex{},
		tasks:              make(map[uuid.UUID]*task.Task),
		entries:            make(map[uuid.UUID]*timeentry.TimeEntry),
		entryIDs:           []uuid.UUID{},
		clients:            make(map[uuid.UUID]*client.Client),
		clientIDs:          []uuid.UUID{},
		clientAppointments: make(map[string][]*appointment.Appointment),
		globalAppointments: []*appointment.Appointment{},
		workOrders:         []*workorder.WorkOrder{},
		tokens:             make(map[string]integration.Token),
	}
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	logger.Info("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) Close() {}
