package service

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/models/report"
	"crmTracker/internal/models/workorder"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WorkOrderService struct {
	repo WorkOrderRepository
	now  Clock
}

func NewWorkOrderService(repo WorkOrderRepository, now Clock) *WorkOrderService {
	if now == nil {
		now = time.Now
	}
	return &WorkOrderService{repo: repo, now: now}
}

type CreateWorkOrderInput struct {
	Type      string
	Status    string
	Client    string
	Location  string
	IssuedAt  *time.Time
	Products  []workorder.Product
	OfferDate *time.Time

	OfferAdjustmentPercent *float64
	OfferVATPercent        *float64
	AcceptedOffer          *workorder.OfferSnapshot
	OfferResponse          *workorder.OfferResponse
}

func validateProducts(field string, products []workorder.Product) error {
	for _, p := range products {
		if p.Quantity < 0 || p.Price < 0 {
			return NewValidationError(field, "количество и цена не могут быть отрицательными")
		}
	}
	return nil
}

func (s *WorkOrderService) CreateWorkOrder(ctx context.Context, input CreateWorkOrderInput) (*workorder.WorkOrder, error) {
	if err := validateProducts("products", input.Products); err != nil {
		return nil, err
	}
	if input.AcceptedOffer != nil {
		if err := validateProducts("accepted_offer", input.AcceptedOffer.Products); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	products := input.Products
	if products == nil {
		products = []workorder.Product{}
	}
	order := &workorder.WorkOrder{
		ID:                     uuid.New(),
		Type:                   input.Type,
		Status:                 input.Status,
		Client:                 input.Client,
		Location:               input.Location,
		IssuedAt:               input.IssuedAt,
		Products:               products,
		OfferDate:              input.OfferDate,
		OfferAdjustmentPercent: input.OfferAdjustmentPercent,
		OfferVATPercent:        input.OfferVATPercent,
		AcceptedOffer:          input.AcceptedOffer,
		OfferResponse:          input.OfferResponse,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := s.repo.CreateWorkOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("создание работы: %w", err)
	}

	logger.Info("Service: Работа создана",
		zap.String("work_order_id", order.ID.String()),
		zap.Bool("accepted", order.Accepted()))
	return order, nil
}

func (s *WorkOrderService) ListWorkOrders(ctx context.Context) ([]*workorder.WorkOrder, error) {
	orders, err := s.repo.ListWorkOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("получение работ: %w", err)
	}
	return orders, nil
}

func (s *WorkOrderService) ProjectTypeReport(ctx context.Context, filter report.ProjectTypeFilter) (report.ProjectTypes, error) {
	orders, err := s.ListWorkOrders(ctx)
	if err != nil {
		return report.ProjectTypes{}, err
	}
	return report.BuildProjectTypes(orders, filter), nil
}

// SalesReport - год 0 означает текущий год
func (s *WorkOrderService) SalesReport(ctx context.Context, year int, includeVAT bool) (report.Sales, error) {
	orders, err := s.ListWorkOrders(ctx)
	if err != nil {
		return report.Sales{}, err
	}
	if year == 0 {
		year = s.now().UTC().Year()
	}
	return report.BuildSales(orders, year, includeVAT), nil
}
