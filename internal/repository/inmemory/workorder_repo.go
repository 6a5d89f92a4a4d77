package inmemory

import (
	"context"
	"crmTracker/internal/models/workorder"
)

func cloneWorkOrder(w *workorder.WorkOrder) *workorder.WorkOrder {
	copied := *w
	copied.Products = append([]workorder.Product{}, w.Products...)
	if w.AcceptedOffer != nil {
		snap := *w.AcceptedOffer
		if snap.Products != nil {
			snap.Products = append([]workorder.Product{}, snap.Products...)
		}
		copied.AcceptedOffer = &snap
	}
	if w.OfferResponse != nil {
		resp := *w.OfferResponse
		copied.OfferResponse = &resp
	}
	return &copied
}

func (s *Storage) CreateWorkOrder(ctx context.Context, w *workorder.WorkOrder) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.workOrders = append(s.workOrders, cloneWorkOrder(w))
	return nil
}

// ListWorkOrders отдаёт работы в порядке добавления
func (s *Storage) ListWorkOrders(ctx context.Context) ([]*workorder.WorkOrder, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*workorder.WorkOrder, 0, len(s.workOrders))
	for _, w := range s.workOrders {
		res = append(res, cloneWorkOrder(w))
	}
	return res, nil
}
