package postgres

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/models/workorder"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const workOrderColumns = `id, type, status, client, location, issued_at, products, offer_date,
				offer_adjustment_percent, offer_vat_percent, accepted_offer, offer_response, created_at, updated_at`

func scanWorkOrder(row pgx.Row) (*workorder.WorkOrder, error) {
	w := &workorder.WorkOrder{}
	var products, accepted, response []byte
	err := row.Scan(
		&w.ID,
		&w.Type,
		&w.Status,
		&w.Client,
		&w.Location,
		&w.IssuedAt,
		&products,
		&w.OfferDate,
		&w.OfferAdjustmentPercent,
		&w.OfferVATPercent,
		&accepted,
		&response,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.Products = []workorder.Product{}
	if len(products) > 0 {
		if err := json.Unmarshal(products, &w.Products); err != nil {
			return nil, fmt.Errorf("разбор товаров оферты: %w", err)
		}
	}
	if len(accepted) > 0 {
		if err := json.Unmarshal(accepted, &w.AcceptedOffer); err != nil {
			return nil, fmt.Errorf("разбор снимка оферты: %w", err)
		}
	}
	if len(response) > 0 {
		if err := json.Unmarshal(response, &w.OfferResponse); err != nil {
			return nil, fmt.Errorf("разбор ответа на оферту: %w", err)
		}
	}
	return w, nil
}

// nullableJSON превращает nil в SQL NULL, а не в строку "null"
func nullableJSON(v any) ([]byte, error) {
	doc, err := json.Marshal(v)
	if err != nil || string(doc) == "null" {
		return nil, err
	}
	return doc, nil
}

func (s *Storage) CreateWorkOrder(ctx context.Context, w *workorder.WorkOrder) error {
	start := time.Now()

	items := w.Products
	if items == nil {
		items = []workorder.Product{}
	}
	products, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("сериализация товаров оферты: %w", err)
	}
	accepted, err := nullableJSON(w.AcceptedOffer)
	if err != nil {
		return fmt.Errorf("сериализация снимка оферты: %w", err)
	}
	response, err := nullableJSON(w.OfferResponse)
	if err != nil {
		return fmt.Errorf("сериализация ответа на оферту: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO work_orders (`+workOrderColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		w.ID, w.Type, w.Status, w.Client, w.Location, w.IssuedAt, products, w.OfferDate,
		w.OfferAdjustmentPercent, w.OfferVATPercent, accepted, response, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		logger.Error("Repository: Не удалось добавить работу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление работы: %w", err)
	}

	slow("create_work_order", start, 50*time.Millisecond)
	return nil
}

// ListWorkOrders отдаёт работы по дате выдачи, без даты - в конце
func (s *Storage) ListWorkOrders(ctx context.Context) ([]*workorder.WorkOrder, error) {
	start := time.Now()

	rows, err := s.pool.Query(ctx,
		`SELECT `+workOrderColumns+` FROM work_orders ORDER BY issued_at NULLS LAST, created_at, id`)
	if err != nil {
		logger.Error("Repository: Не удалось получить работы", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение работ: %w", err)
	}
	defer rows.Close()

	orders := []*workorder.WorkOrder{}
	for rows.Next() {
		w, err := scanWorkOrder(rows)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования работы", zap.Error(err))
			continue
		}
		orders = append(orders, w)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	slow("list_work_orders", start, 200*time.Millisecond)
	return orders, nil
}
