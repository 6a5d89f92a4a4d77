package handlers

import (
	"crmTracker/internal/logger"
	"crmTracker/internal/models/task"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type SettingsHandler struct {
	SettingsService SettingsService
}

func NewSettingsHandler(settingsService SettingsService) SettingsHandler {
	return SettingsHandler{SettingsService: settingsService}
}

func (s *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	settings, err := s.SettingsService.GetSettings(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "get_settings")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("statuses", settings.Statuses),
		toPayload("priorities", settings.Priorities))
}

func (s *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var update task.SettingsUpdate
	if !decodeJSON(w, r, &update) {
		return
	}

	if update.Statuses == nil && update.Priorities == nil {
		responseWithError(w, http.StatusBadRequest, "нужно передать statuses и/или priorities")
		return
	}

	settings, err := s.SettingsService.UpdateSettings(r.Context(), update)
	if err != nil {
		handleServiceError(w, r, err, "update_settings")
		return
	}

	logger.Info("HTTP_OUT: Настройки обновлены",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK,
		toPayload("statuses", settings.Statuses),
		toPayload("priorities", settings.Priorities))
}

func (s *SettingsHandler) NormalizeSettings(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	settings, err := s.SettingsService.NormalizeSettings(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "normalize_settings")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("statuses", settings.Statuses),
		toPayload("priorities", settings.Priorities))
}
