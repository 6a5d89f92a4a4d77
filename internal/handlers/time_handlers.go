package handlers

import (
	"crmTracker/internal/handlers/dto"
	"crmTracker/internal/logger"
	"crmTracker/internal/models/timeentry"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type TimeHandler struct {
	TimeService TimeService
}

func NewTimeHandler(timeService TimeService) TimeHandler {
	return TimeHandler{TimeService: timeService}
}

func (s *TimeHandler) StartTimeEntry(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	taskID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var request dto.StartTimeEntryRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	entry, err := s.TimeService.StartTimeEntry(r.Context(), taskID.String(), request.UserID)
	if err != nil {
		handleServiceError(w, r, err, "start_time_entry")
		return
	}

	logger.Info("HTTP_OUT: Учёт времени начат",
		zap.String("entry_id", entry.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, toPayload("time_entry", entry))
}

// StopTimeEntry отвечает 200 и для отсутствующей записи: остановка такой записи - no-op
func (s *TimeHandler) StopTimeEntry(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	entry, err := s.TimeService.StopTimeEntry(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "stop_time_entry")
		return
	}

	logger.Info("HTTP_OUT: Учёт времени остановлен",
		zap.String("entry_id", id.String()),
		zap.Bool("found", entry != nil),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK,
		toPayload("ok", true),
		toPayload("time_entry", entry))
}

func (s *TimeHandler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP_IN:")

	from, err := optionalTime(r, "from")
	if err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное значение from: "+err.Error())
		return
	}
	to, err := optionalTime(r, "to")
	if err != nil {
		responseWithError(w, http.StatusBadRequest, "неверное значение to: "+err.Error())
		return
	}

	sheet, err := s.TimeService.GetTimesheet(r.Context(), timeentry.Query{
		UserID: r.URL.Query().Get("userId"),
		From:   from,
		To:     to,
	})
	if err != nil {
		handleServiceError(w, r, err, "timesheet")
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("entries", sheet.Entries),
		toPayload("total_sec", sheet.TotalSec))
}
