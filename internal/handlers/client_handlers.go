package handlers

import (
	"crmTracker/internal/handlers/dto"
	"crmTracker/internal/logger"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type ClientHandler struct {
	ClientService      ClientService
	AppointmentService AppointmentService
}

func NewClientHandler(clients ClientService, appointments AppointmentService) ClientHandler {
	return ClientHandler{
		ClientService:      clients,
		AppointmentService: appointments,
	}
}

func (s *ClientHandler) PostClient(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateClientRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	created, err := s.ClientService.CreateClient(r.Context(), request.ToInput())
	if err != nil {
		handleServiceError(w, r, err, "create_client")
		return
	}

	logger.Info("HTTP_OUT: Клиент создан",
		zap.String("client_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("client", created))
}

func (s *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	clients, err := s.ClientService.ListClients(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "list_clients")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("clients", clients))
}

func (s *ClientHandler) GetClientByID(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	found, err := s.ClientService.GetClient(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_client")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("client", found))
}

func (s *ClientHandler) PostAcquisitionEntry(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.AcquisitionEntryRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	entry, err := s.ClientService.AddAcquisitionEntry(r.Context(), id, request.ToInput())
	if err != nil {
		handleServiceError(w, r, err, "add_acquisition_entry")
		return
	}

	logger.Info("HTTP_OUT: Запись о привлечении добавлена",
		zap.String("client_id", id.String()),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusCreated, toPayload("entry", entry))
}

func (s *ClientHandler) ListClientAppointments(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	list, err := s.AppointmentService.ListByClient(r.Context(), id.String())
	if err != nil {
		handleServiceError(w, r, err, "list_client_appointments")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("appointments", list))
}

func (s *ClientHandler) AcquisitionReport(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	year, ok := parseYear(w, r)
	if !ok {
		return
	}

	rep, err := s.ClientService.AcquisitionReport(r.Context(), year)
	if err != nil {
		handleServiceError(w, r, err, "acquisition_report")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("report", rep))
}

func (s *ClientHandler) MarketingCostReport(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	year, ok := parseYear(w, r)
	if !ok {
		return
	}

	rep, err := s.ClientService.MarketingCostReport(r.Context(), year)
	if err != nil {
		handleServiceError(w, r, err, "marketing_cost_report")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("report", rep))
}

// parseYear: пустой параметр даёт 0, сервис подставит текущий год
func parseYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return 0, true
	}

	year, err := strconv.Atoi(raw)
	if err != nil || year < 1970 || year > 9999 {
		logger.Warn("HTTP: Неверное значение параметра",
			zap.String("query", "year"),
			zap.String("value", raw),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "неверное значение year")
		return 0, false
	}
	return year, true
}
