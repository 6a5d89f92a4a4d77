package inmemory

import (
	"context"
	"crmTracker/internal/models/appointment"
	"encoding/json"
	"sort"
)

func cloneAppointment(a *appointment.Appointment) *appointment.Appointment {
	c := *a
	if a.Raw != nil {
		c.Raw = append(json.RawMessage{}, a.Raw...)
	}
	return &c
}

func (s *Storage) AddClientAppointment(ctx context.Context, clientID string, a *appointment.Appointment) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.clientAppointments[clientID] = append(s.clientAppointments[clientID], cloneAppointment(a))
	return nil
}

func (s *Storage) AddGlobalAppointment(ctx context.Context, a *appointment.Appointment) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.globalAppointments = append(s.globalAppointments, cloneAppointment(a))
	return nil
}

func (s *Storage) ListClientAppointments(ctx context.Context, clientID string) ([]*appointment.Appointment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*appointment.Appointment{}
	for _, a := range s.clientAppointments[clientID] {
		res = append(res, cloneAppointment(a))
	}
	sortByScheduled(res)
	return res, nil
}

// ListGlobalAppointments - общая коллекция, clientID пустой означает всех клиентов
func (s *Storage) ListGlobalAppointments(ctx context.Context, clientID string) ([]*appointment.Appointment, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*appointment.Appointment{}
	for _, a := range s.globalAppointments {
		if clientID != "" && (a.ClientID == nil || *a.ClientID != clientID) {
			continue
		}
		res = append(res, cloneAppointment(a))
	}
	sortByScheduled(res)
	return res, nil
}

// записи без времени уходят в конец
func sortByScheduled(list []*appointment.Appointment) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].ScheduledAt, list[j].ScheduledAt
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a > *b
	})
}
