package handlers

import (
	"crmTracker/internal/handlers/dto"
	"crmTracker/internal/logger"
	"crmTracker/internal/models/report"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type WorkOrderHandler struct {
	WorkOrderService WorkOrderService
}

func NewWorkOrderHandler(workOrders WorkOrderService) WorkOrderHandler {
	return WorkOrderHandler{WorkOrderService: workOrders}
}

func (s *WorkOrderHandler) PostWorkOrder(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateWorkOrderRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := s.WorkOrderService.CreateWorkOrder(r.Context(), request.ToInput())
	if err != nil {
		handleServiceError(w, r, err, "create_work_order")
		return
	}

	logger.Info("HTTP_OUT: Работа создана",
		zap.String("work_order_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("work_order", created))
}

func (s *WorkOrderHandler) ListWorkOrders(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	orders, err := s.WorkOrderService.ListWorkOrders(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_work_orders")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("work_orders", orders))
}

func (s *WorkOrderHandler) ProjectTypeReport(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	query := r.URL.Query()
	filter := report.ProjectTypeFilter{
		Type:     query.Get("type"),
		Client:   query.Get("client"),
		Location: query.Get("location"),
	}

	rep, err := s.WorkOrderService.ProjectTypeReport(r.Context(), filter)
	if err != nil {
		handleServiceError(w, r, err, "project_type_report")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("report", rep))
}

// SalesReport: vat по умолчанию true
func (s *WorkOrderHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	year, ok := parseYear(w, r)
	if !ok {
		return
	}

	includeVAT := true
	if raw := r.URL.Query().Get("vat"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			logger.Warn("HTTP: Неверное значение параметра",
				zap.String("query", "vat"),
				zap.String("value", raw),
				zap.String("client_ip", r.RemoteAddr))

			responseWithError(w, http.StatusBadRequest, "неверное значение vat")
			return
		}
		includeVAT = v
	}

	rep, err := s.WorkOrderService.SalesReport(r.Context(), year, includeVAT)
	if err != nil {
		handleServiceError(w, r, err, "sales_report")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("report", rep))
}
