package service_test

import (
	"context"
	"crmTracker/internal/models/appointment"
	"crmTracker/internal/repository/inmemory"
	"crmTracker/internal/service"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestAppointmentService_Capture - запись попадает и к клиенту, и в общую коллекцию
func TestAppointmentService_Capture(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 4, 30, 12, 0, 0, 0, time.UTC)
	storage := inmemory.New()
	svc := service.NewAppointmentService(storage, false, fixedClock(now))

	record, err := svc.Capture(ctx, appointment.Capture{
		ClientID: "c1",
		Payload:  json.RawMessage(`{"event":{"uri":"e1","start_time":"2024-05-01T09:00:00Z"},"invitee":{"uri":"i1"}}`),
	})
	require.NoError(t, err)
	assert.Equal(t, now, record.CreatedAt)

	byClient, err := svc.ListByClient(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, byClient, 1)

	global, err := svc.ListGlobal(ctx, "")
	require.NoError(t, err)
	require.Len(t, global, 1)

	for _, got := range []*appointment.Appointment{byClient[0], global[0]} {
		assert.Equal(t, record.ID, got.ID)
		require.NotNil(t, got.EventURI)
		assert.Equal(t, "e1", *got.EventURI)
		require.NotNil(t, got.InviteeURI)
		assert.Equal(t, "i1", *got.InviteeURI)
		require.NotNil(t, got.ScheduledAt)
		assert.Equal(t, "2024-05-01T09:00:00Z", *got.ScheduledAt)
	}
}

func TestAppointmentService_Capture_WithoutClient(t *testing.T) {
	ctx := context.Background()

	t.Run("permissive mode writes global only", func(t *testing.T) {
		mockRepo := new(MockAppointmentRepository)
		mockRepo.On("AddGlobalAppointment", mock.Anything, mock.AnythingOfType("*appointment.Appointment")).Return(nil)

		svc := service.NewAppointmentService(mockRepo, false, nil)
		record, err := svc.Capture(ctx, appointment.Capture{Payload: json.RawMessage(`{}`)})

		require.NoError(t, err)
		assert.Nil(t, record.ClientID)
		mockRepo.AssertNotCalled(t, "AddClientAppointment", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertExpectations(t)
	})

	t.Run("strict mode rejects before any write", func(t *testing.T) {
		mockRepo := new(MockAppointmentRepository)

		svc := service.NewAppointmentService(mockRepo, true, nil)
		_, err := svc.Capture(ctx, appointment.Capture{Payload: json.RawMessage(`{}`)})

		assert.True(t, hasBusinessCode(err, service.CodeValidation))
		mockRepo.AssertNotCalled(t, "AddGlobalAppointment", mock.Anything, mock.Anything)
	})
}

// TestAppointmentService_Capture_Errors - первая запись не откатывается
func TestAppointmentService_Capture_Errors(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*MockAppointmentRepository)
	}{
		{
			name: "error - client collection write fails",
			setupMock: func(m *MockAppointmentRepository) {
				m.On("AddClientAppointment", mock.Anything, "c1", mock.Anything).Return(errors.New("write failed"))
			},
		},
		{
			name: "error - global write fails after client write",
			setupMock: func(m *MockAppointmentRepository) {
				m.On("AddClientAppointment", mock.Anything, "c1", mock.Anything).Return(nil)
				m.On("AddGlobalAppointment", mock.Anything, mock.Anything).Return(errors.New("write failed"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAppointmentRepository)
			tt.setupMock(mockRepo)

			svc := service.NewAppointmentService(mockRepo, false, nil)
			_, err := svc.Capture(context.Background(), appointment.Capture{ClientID: "c1"})

			assert.Error(t, err)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAppointmentService_ListGlobal_FilterByClient(t *testing.T) {
	ctx := context.Background()
	svc := service.NewAppointmentService(inmemory.New(), false, nil)

	_, err := svc.Capture(ctx, appointment.Capture{ClientID: "c1"})
	require.NoError(t, err)
	_, err = svc.Capture(ctx, appointment.Capture{ClientID: "c2"})
	require.NoError(t, err)
	_, err = svc.Capture(ctx, appointment.Capture{})
	require.NoError(t, err)

	all, err := svc.ListGlobal(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	filtered, err := svc.ListGlobal(ctx, "c2")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "c2", *filtered[0].ClientID)
}
