package service_test

import (
	"context"
	"crmTracker/internal/mailer"
	"crmTracker/internal/service"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestInviteService_SendInvite тестирует отправку приглашения
func TestInviteService_SendInvite(t *testing.T) {
	msg := mailer.Message{To: []string{"client@example.com"}}

	tests := []struct {
		name       string
		msg        mailer.Message
		setupMock  func(*MockMailer)
		expectCode string
		expectErr  bool
	}{
		{
			name: "success - sent",
			msg:  msg,
			setupMock: func(m *MockMailer) {
				m.On("Configured").Return(true)
				m.On("Send", mock.Anything, msg).Return(nil)
			},
		},
		{
			name:       "error - no recipients",
			msg:        mailer.Message{},
			setupMock:  func(m *MockMailer) {},
			expectCode: service.CodeValidation,
			expectErr:  true,
		},
		{
			name:       "error - blank recipient",
			msg:        mailer.Message{To: []string{"a@example.com", ""}},
			setupMock:  func(m *MockMailer) {},
			expectCode: service.CodeValidation,
			expectErr:  true,
		},
		{
			name: "error - smtp not configured",
			msg:  msg,
			setupMock: func(m *MockMailer) {
				m.On("Configured").Return(false)
			},
			expectCode: service.CodeConfigMissing,
			expectErr:  true,
		},
		{
			name: "error - send failure",
			msg:  msg,
			setupMock: func(m *MockMailer) {
				m.On("Configured").Return(true)
				m.On("Send", mock.Anything, msg).Return(errors.New("smtp 535"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockMailer)
			tt.setupMock(m)

			err := service.NewInviteService(m).SendInvite(context.Background(), tt.msg)

			if !tt.expectErr {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				if tt.expectCode != "" {
					assert.True(t, hasBusinessCode(err, tt.expectCode))
				} else {
					_, isBusiness := service.AsBusinessError(err)
					assert.False(t, isBusiness)
				}
			}
			m.AssertExpectations(t)
		})
	}
}
