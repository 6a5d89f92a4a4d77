package handlers

import (
	"crmTracker/internal/logger"
	"crmTracker/internal/models/appointment"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type IntegrationHandler struct {
	AppointmentService AppointmentService
	IntegrationService IntegrationService
}

func NewIntegrationHandler(appointments AppointmentService, integrations IntegrationService) IntegrationHandler {
	return IntegrationHandler{
		AppointmentService: appointments,
		IntegrationService: integrations,
	}
}

// Capture принимает событие планировщика от виджета на странице записи
func (s *IntegrationHandler) Capture(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request appointment.Capture
	if err := decodeCapture(r, &request); err != nil {
		logger.Error("HTTP: Не удалось прочитать событие планировщика", err,
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	record, err := s.AppointmentService.Capture(r.Context(), request)
	if err != nil {
		handleServiceError(w, r, err, "capture_appointment")
		return
	}

	logger.Info("HTTP_OUT: Событие сохранено",
		zap.String("appointment_id", record.ID.String()),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK,
		toPayload("ok", true),
		toPayload("id", record.ID))
}

// decodeCapture читает тело без проверки Content-Type: виджет шлёт его как есть
func decodeCapture(r *http.Request, dst *appointment.Capture) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("чтение тела запроса: %w", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("неверное тело запроса: %w", err)
	}
	return nil
}

func (s *IntegrationHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	list, err := s.AppointmentService.ListGlobal(r.Context(), r.URL.Query().Get("clientId"))
	if err != nil {
		handleServiceError(w, r, err, "list_appointments")
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("appointments", list))
}

func (s *IntegrationHandler) OAuthStart(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	target, err := s.IntegrationService.OAuthStartURL()
	if err != nil {
		handleServiceError(w, r, err, "oauth_start")
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

func (s *IntegrationHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	code := r.URL.Query().Get("code")
	if code == "" {
		responseWithError(w, http.StatusBadRequest, "нет параметра code")
		return
	}

	result, err := s.IntegrationService.OAuthCallback(r.Context(), code)
	if err != nil {
		handleServiceError(w, r, err, "oauth_callback")
		return
	}

	logger.Info("HTTP_OUT: Авторизация планировщика завершена",
		zap.Duration("ms", time.Since(start)))

	payload := []Payload{
		toPayload("ok", true),
		toPayload("token_type", result.TokenType),
		toPayload("expires_at", result.Expiry),
	}
	if result.Tokens != nil {
		payload = append(payload, toPayload("tokens", result.Tokens))
	}
	responseWithJSON(w, http.StatusOK, payload...)
}

func (s *IntegrationHandler) EventTypes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	types, err := s.IntegrationService.EventTypes(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "event_types")
		return
	}

	logger.Info("HTTP_OUT: Типы событий получены",
		zap.Int("count", len(types)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK,
		toPayload("ok", true),
		toPayload("event_types", types))
}
