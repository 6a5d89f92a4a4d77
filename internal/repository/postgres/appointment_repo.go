package postgres

import (
	"context"
	"crmTracker/internal/logger"
	"crmTracker/internal/models/appointment"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const appointmentColumns = `id, client_id, event_uri, invitee_uri, scheduled_at, raw, created_at, created_by_user_id, created_by_role`

func (s *Storage) insertAppointment(ctx context.Context, table string, clientID *string, a *appointment.Appointment) error {
	start := time.Now()

	var raw []byte
	if len(a.Raw) > 0 {
		raw = a.Raw
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, table, appointmentColumns)
	_, err := s.pool.Exec(ctx, query,
		a.ID, clientID, a.EventURI, a.InviteeURI, a.ScheduledAt, raw, a.CreatedAt, a.CreatedByUserID, a.CreatedByRole)
	if err != nil {
		logger.Error("Repository: Не удалось сохранить запись на встречу", err,
			zap.String("table", table), zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("сохранение встречи: %w", err)
	}

	slow("insert_"+table, start, 50*time.Millisecond)
	return nil
}

func (s *Storage) AddClientAppointment(ctx context.Context, clientID string, a *appointment.Appointment) error {
	return s.insertAppointment(ctx, "client_appointments", &clientID, a)
}

func (s *Storage) AddGlobalAppointment(ctx context.Context, a *appointment.Appointment) error {
	return s.insertAppointment(ctx, "appointments_global", a.ClientID, a)
}

func (s *Storage) ListClientAppointments(ctx context.Context, clientID string) ([]*appointment.Appointment, error) {
	return s.listAppointments(ctx,
		`SELECT `+appointmentColumns+` FROM client_appointments WHERE client_id = $1
		 ORDER BY scheduled_at DESC NULLS LAST`, clientID)
}

func (s *Storage) ListGlobalAppointments(ctx context.Context, clientID string) ([]*appointment.Appointment, error) {
	if clientID == "" {
		return s.listAppointments(ctx,
			`SELECT `+appointmentColumns+` FROM appointments_global ORDER BY scheduled_at DESC NULLS LAST`)
	}
	return s.listAppointments(ctx,
		`SELECT `+appointmentColumns+` FROM appointments_global WHERE client_id = $1
		 ORDER BY scheduled_at DESC NULLS LAST`, clientID)
}

func (s *Storage) listAppointments(ctx context.Context, query string, args ...any) ([]*appointment.Appointment, error) {
	start := time.Now()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить встречи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение встреч: %w", err)
	}
	defer rows.Close()

	list := []*appointment.Appointment{}
	for rows.Next() {
		a := &appointment.Appointment{}
		var raw []byte
		err := rows.Scan(&a.ID, &a.ClientID, &a.EventURI, &a.InviteeURI, &a.ScheduledAt, &raw,
			&a.CreatedAt, &a.CreatedByUserID, &a.CreatedByRole)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования встречи", zap.Error(err))
			continue
		}
		a.Raw = raw
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	slow("list_appointments", start, 100*time.Millisecond)
	return list, nil
}
