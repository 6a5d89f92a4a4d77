package app

import (
	"context"
	"crmTracker/internal/config"
	"crmTracker/internal/handlers"
	"crmTracker/internal/integrations/calendly"
	"crmTracker/internal/logger"
	"crmTracker/internal/mailer"
	"crmTracker/internal/middleware"
	"crmTracker/internal/repository/inmemory"
	"crmTracker/internal/repository/postgres"
	"crmTracker/internal/service"
	"crmTracker/internal/worker"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Storage - всё, что сервисы ждут от хранилища
type Storage interface {
	service.SettingsRepository
	service.TaskRepository
	service.TimeEntryRepository
	service.AppointmentRepository
	service.ClientRepository
	service.TokenRepository
	service.WorkOrderRepository
	Close()
}

type App struct {
	config    *config.Config
	server    *http.Server
	storage   Storage
	settings  *service.SettingsService
	refresher *worker.SettingsRefresher
	limiter   *middleware.RateLimiter
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init собирает зависимости. При ошибке уже открытые ресурсы закрываются.
func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	if err := a.initServices(ctx); err != nil {
		logger.Error("Ошибка инициализации приложения", err)
		a.close()
		return err
	}
	return nil
}

func (a *App) initServices(ctx context.Context) error {
	storage, err := a.initStorage(ctx)
	if err != nil {
		return err
	}
	a.storage = storage
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Закрытие хранилища...")
		storage.Close()
	})

	clock := service.Clock(time.Now)

	a.settings = service.NewSettingsService(storage)
	if err := a.settings.Refresh(ctx); err != nil {
		return fmt.Errorf("загрузка настроек задач: %w", err)
	}

	taskService := service.NewTaskService(storage, a.settings, clock)
	timeService := service.NewTimeService(storage, clock)
	appointmentService := service.NewAppointmentService(storage, a.config.Appointments.RequireClientID, clock)
	clientService := service.NewClientService(storage, clock)
	workOrderService := service.NewWorkOrderService(storage, clock)
	integrationService := service.NewIntegrationService(
		calendly.New(a.config.Calendly, nil), storage, a.config.Calendly, clock)
	inviteService := service.NewInviteService(mailer.New(a.config.SMTP))

	a.limiter = middleware.NewRateLimiter(a.config.Server.RateLimitRPM)

	router := NewRouter(Handlers{
		Tasks:        handlers.NewTaskHandler(taskService, a.settings),
		Settings:     handlers.NewSettingsHandler(a.settings),
		Time:         handlers.NewTimeHandler(timeService),
		Integrations: handlers.NewIntegrationHandler(appointmentService, integrationService),
		Clients:      handlers.NewClientHandler(clientService, appointmentService),
		Invites:      handlers.NewInviteHandler(inviteService),
		WorkOrders:   handlers.NewWorkOrderHandler(workOrderService),
	}, RouterOptions{
		CORSOrigins: a.config.Server.CORSOrigins,
		RateLimiter: a.limiter,
	})

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      otelhttp.NewHandler(router, "crm-tracker"),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	interval := a.config.Settings.RefreshInterval
	a.refresher = worker.NewSettingsRefresher(a.settings, &interval)

	logger.Info("Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr))
	return nil
}

func (a *App) initStorage(ctx context.Context) (Storage, error) {
	switch a.config.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, a.config.Database)
		if err != nil {
			return nil, fmt.Errorf("подключение к postgres: %w", err)
		}
		if err := storage.Migrate(ctx); err != nil {
			storage.Close()
			return nil, fmt.Errorf("миграции postgres: %w", err)
		}
		return storage, nil
	case "inmemory":
		logger.Warn("Используется хранилище в памяти, данные не переживут перезапуск")
		return inmemory.New(), nil
	}
	return nil, fmt.Errorf("неизвестный тип хранилища: %q", a.config.Repository.Type)
}

// Run запускает HTTP сервер и фоновое обновление настроек до SIGINT/SIGTERM
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP сервер: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.refresher.Start(gctx)
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.limiter.Cleanup(10000)
			case <-gctx.Done():
				return nil
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Остановка HTTP сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка HTTP сервера: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (a *App) close() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
