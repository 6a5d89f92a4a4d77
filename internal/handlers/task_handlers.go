package handlers

import (
	"crmTracker/internal/handlers/dto"
	"crmTracker/internal/logger"
	"crmTracker/internal/models/task"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const serviceName = "crm-tracker"

type TaskHandler struct {
	TaskService     TaskService
	SettingsService SettingsService
}

func NewTaskHandler(taskService TaskService, settingsService SettingsService) TaskHandler {
	return TaskHandler{
		TaskService:     taskService,
		SettingsService: settingsService,
	}
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Хранилище недоступно", err)
		responseWithJSON(w, http.StatusServiceUnavailable,
			toPayload("status", "unavailable"),
			toPayload("service", serviceName),
			toPayload("error", err.Error()))
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", "ok"),
		toPayload("service", serviceName),
		toPayload("time", time.Now().UTC()))
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	var request dto.CreateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	if strings.TrimSpace(request.Title) == "" {
		logger.Warn("HTTP: Ошибка валидации",
			zap.String("field", "title"),
			zap.String("error", "empty_field"),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusBadRequest, "название не может быть пустым")
		return
	}

	created, err := s.TaskService.CreateTask(r.Context(), request.ToInput())
	if err != nil {
		handleServiceError(w, r, err, "create_task")
		return
	}

	settings, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.String("task_id", created.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	w.Header().Set("ETag", etag(created.Version))
	responseWithJSON(w, http.StatusCreated, toPayload("task", dto.FromTask(created, settings)))
}

func (s *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	query := r.URL.Query()
	filter := task.Filter{
		Status:     query.Get("status"),
		AssigneeID: query.Get("assigneeId"),
		Priority:   task.Priority(query.Get("priority")),
		Query:      query.Get("q"),
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		responseWithError(w, http.StatusBadRequest, "неверное значение priority")
		return
	}

	tasks, err := s.TaskService.ListTasks(r.Context(), filter)
	if err != nil {
		handleServiceError(w, r, err, "list_tasks")
		return
	}

	settings, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, toPayload("tasks", dto.FromTaskList(tasks, settings)))
}

func (s *TaskHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	board, err := s.TaskService.Board(r.Context(), r.URL.Query().Get("assigneeId"))
	if err != nil {
		handleServiceError(w, r, err, "board")
		return
	}

	logger.Info("HTTP_OUT: Доска получена",
		zap.Int("columns", len(board.Columns)),
		zap.Int("uncategorized", len(board.Uncategorized)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK,
		toPayload("columns", board.Columns),
		toPayload(task.UncategorizedColumnID, board.Uncategorized))
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	found, err := s.TaskService.GetTask(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err, "get_task")
		return
	}
	if found == nil {
		responseWithError(w, http.StatusNotFound, "задача не найдена")
		return
	}

	settings, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.String("task_id", found.ID.String()),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	w.Header().Set("ETag", etag(found.Version))
	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(found, settings)))
}

func (s *TaskHandler) UpdateTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	headerVersion, err := ifMatchVersion(r)
	if err != nil {
		responseWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var request dto.UpdateTaskRequest
	if !decodeJSON(w, r, &request) {
		return
	}

	expected := request.Version
	if headerVersion != nil {
		if expected != nil && *expected != *headerVersion {
			responseWithError(w, http.StatusBadRequest, "версия в If-Match и в теле запроса не совпадает")
			return
		}
		expected = headerVersion
	}

	updated, err := s.TaskService.UpdateTask(r.Context(), id, expected, request.Options()...)
	if err != nil {
		handleServiceError(w, r, err, "update_task")
		return
	}

	settings, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.String("task_id", id.String()),
		zap.Int("version", updated.Version),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	w.Header().Set("ETag", etag(updated.Version))
	responseWithJSON(w, http.StatusOK, toPayload("task", dto.FromTask(updated, settings)))
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := s.TaskService.DeleteTask(r.Context(), id); err != nil {
		handleServiceError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	w.WriteHeader(http.StatusNoContent)
}

func (s *TaskHandler) snapshot(w http.ResponseWriter, r *http.Request) (task.Settings, bool) {
	settings, err := s.SettingsService.Snapshot(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "settings_snapshot")
		return task.Settings{}, false
	}
	return settings, true
}

func etag(version int) string {
	return `"` + strconv.Itoa(version) + `"`
}
