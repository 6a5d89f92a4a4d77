package postgres

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/models/client"
	repo "crmTracker/internal/repository"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const clientColumns = `id, name, created_at, updated_at, acquisition_entries, acquisition_source, campaign_cost`

func scanClient(row pgx.Row) (*client.Client, error) {
	c := &client.Client{}
	var entries []byte
	var source *string
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt, &entries, &source, &c.CampaignCost); err != nil {
		return nil, err
	}
	if source != nil {
		src := client.Source(*source)
		c.AcquisitionSource = &src
	}
	c.AcquisitionEntries = []client.AcquisitionEntry{}
	if len(entries) > 0 {
		if err := json.Unmarshal(entries, &c.AcquisitionEntries); err != nil {
			return nil, fmt.Errorf("разбор записей привлечения: %w", err)
		}
	}
	return c, nil
}

func (s *Storage) CreateClient(ctx context.Context, c *client.Client) error {
	start := time.Now()

	entries := c.AcquisitionEntries
	if entries == nil {
		entries = []client.AcquisitionEntry{}
	}
	doc, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("сериализация записей привлечения: %w", err)
	}

	var source *string
	if c.AcquisitionSource != nil {
		src := string(*c.AcquisitionSource)
		source = &src
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO clients (`+clientColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Name, c.CreatedAt, c.UpdatedAt, doc, source, c.CampaignCost)
	if err != nil {
		logger.Error("Repository: Не удалось добавить клиента", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление клиента: %w", err)
	}

	slow("create_client", start, 50*time.Millisecond)
	return nil
}

func (s *Storage) GetClient(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	c, err := scanClient(s.pool.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить клиента", err)
		return nil, fmt.Errorf("получение клиента: %w", err)
	}
	return c, nil
}

func (s *Storage) ListClients(ctx context.Context) ([]*client.Client, error) {
	start := time.Now()

	rows, err := s.pool.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name`)
	if err != nil {
		logger.Error("Repository: Не удалось получить клиентов", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение клиентов: %w", err)
	}
	defer rows.Close()

	clients := []*client.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования клиента", zap.Error(err))
			continue
		}
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	slow("list_clients", start, 200*time.Millisecond)
	return clients, nil
}

// AddAcquisitionEntry дописывает запись в конец JSONB массива
func (s *Storage) AddAcquisitionEntry(ctx context.Context, id uuid.UUID, entry client.AcquisitionEntry, updatedAt time.Time) error {
	doc, err := json.Marshal([]client.AcquisitionEntry{entry})
	if err != nil {
		return fmt.Errorf("сериализация записи привлечения: %w", err)
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE clients SET acquisition_entries = acquisition_entries || $1::jsonb, updated_at = $2 WHERE id = $3`,
		doc, updatedAt, id)
	if err != nil {
		logger.Error("Repository: Не удалось добавить запись привлечения", err)
		return fmt.Errorf("добавление записи привлечения: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
