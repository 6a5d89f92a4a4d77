package handlers

import (
	"crmTracker/internal/handlers/dto"
	"crmTracker/internal/logger"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type InviteHandler struct {
	InviteService InviteService
}

func NewInviteHandler(inviteService InviteService) InviteHandler {
	return InviteHandler{InviteService: inviteService}
}

func (s *InviteHandler) PostInvite(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.InviteRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if len(request.To) == 0 {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "to"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "нет получателей")
		return
	}

	if err := s.InviteService.SendInvite(r.Context(), request.ToMessage()); err != nil {
		handleServiceError(w, r, err, "send_invite")
		return
	}

	logger.Info("HTTP_OUT: Приглашение отправлено",
		zap.Int("recipients", len(request.To)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, toPayload("success", true))
}
