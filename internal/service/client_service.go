package service

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/models/client"
	"crmTracker/internal/models/report"
	rep "crmTracker/internal/repository"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resourceClient = "клиент"

type ClientService struct {
	repo ClientRepository
	now  Clock
}

func NewClientService(repo ClientRepository, now Clock) *ClientService {
	if now == nil {
		now = time.Now
	}
	return &ClientService{repo: repo, now: now}
}

type CreateClientInput struct {
	Name               string
	AcquisitionEntries []AcquisitionEntryInput
}

type AcquisitionEntryInput struct {
	Source client.Source
	Cost   float64
	Date   *time.Time
	Note   string
}

func (in AcquisitionEntryInput) validate() error {
	if !in.Source.Valid() {
		return NewValidationError("source", fmt.Sprintf("неизвестный источник %q", in.Source))
	}
	if in.Cost < 0 {
		return NewValidationError("cost", "стоимость не может быть отрицательной")
	}
	return nil
}

func (in AcquisitionEntryInput) toEntry() client.AcquisitionEntry {
	return client.AcquisitionEntry{
		ID:     uuid.NewString(),
		Source: in.Source,
		Cost:   in.Cost,
		Date:   in.Date,
		Note:   in.Note,
	}
}

func (s *ClientService) CreateClient(ctx context.Context, input CreateClientInput) (*client.Client, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, NewValidationError("name", "имя клиента не может быть пустым")
	}

	entries := make([]client.AcquisitionEntry, 0, len(input.AcquisitionEntries))
	for _, in := range input.AcquisitionEntries {
		if err := in.validate(); err != nil {
			return nil, err
		}
		entries = append(entries, in.toEntry())
	}

	now := s.now().UTC()
	newClient := &client.Client{
		ID:                 uuid.New(),
		Name:               input.Name,
		CreatedAt:          &now,
		UpdatedAt:          &now,
		AcquisitionEntries: entries,
	}

	if err := s.repo.CreateClient(ctx, newClient); err != nil {
		return nil, fmt.Errorf("создание клиента: %w", err)
	}

	logger.Info("Service: Клиент создан", zap.String("client_id", newClient.ID.String()))
	return newClient, nil
}

func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	found, err := s.repo.GetClient(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound(resourceClient, id.String())
		}
		return nil, fmt.Errorf("получение клиента: %w", err)
	}
	return found, nil
}

func (s *ClientService) ListClients(ctx context.Context) ([]*client.Client, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение клиентов: %w", err)
	}
	return clients, nil
}

func (s *ClientService) AddAcquisitionEntry(ctx context.Context, id uuid.UUID, input AcquisitionEntryInput) (*client.AcquisitionEntry, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	entry := input.toEntry()
	if err := s.repo.AddAcquisitionEntry(ctx, id, entry, s.now().UTC()); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return nil, NewNotFound(resourceClient, id.String())
		}
		return nil, fmt.Errorf("добавление записи о привлечении: %w", err)
	}

	logger.Info("Service: Запись о привлечении добавлена",
		zap.String("client_id", id.String()),
		zap.String("source", string(entry.Source)))
	return &entry, nil
}

// AcquisitionReport - год 0 означает текущий год
func (s *ClientService) AcquisitionReport(ctx context.Context, year int) (report.Acquisition, error) {
	clients, err := s.ListClients(ctx)
	if err != nil {
		return report.Acquisition{}, err
	}
	return report.BuildAcquisition(clients, s.year(year)), nil
}

func (s *ClientService) MarketingCostReport(ctx context.Context, year int) (report.MarketingCosts, error) {
	clients, err := s.ListClients(ctx)
	if err != nil {
		return report.MarketingCosts{}, err
	}
	return report.BuildMarketingCosts(clients, s.year(year)), nil
}

func (s *ClientService) year(year int) int {
	if year == 0 {
		return s.now().UTC().Year()
	}
	return year
}
