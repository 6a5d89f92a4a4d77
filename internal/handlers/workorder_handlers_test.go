package handlers_test

import (
	"crmTracker/internal/handlers"
	"crmTracker/internal/models/report"
	"crmTracker/internal/models/workorder"
	"crmTracker/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWorkOrderHandler_PostWorkOrder(t *testing.T) {
	orderID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockWorkOrderService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "success - created",
			body: `{"type":"Instalare","client":"Alfa","products":[{"quantity":2,"price":100}],"offer_response":{"status":"accept"}}`,
			setupMock: func(m *MockWorkOrderService) {
				m.On("CreateWorkOrder", mock.Anything, mock.MatchedBy(func(in service.CreateWorkOrderInput) bool {
					return in.Type == "Instalare" && len(in.Products) == 1 &&
						in.OfferResponse != nil && in.OfferResponse.Status == "accept"
				})).Return(&workorder.WorkOrder{ID: orderID}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "error - validation",
			body: `{"products":[{"quantity":-1,"price":1}]}`,
			setupMock: func(m *MockWorkOrderService) {
				m.On("CreateWorkOrder", mock.Anything, mock.Anything).
					Return(nil, service.NewValidationError("products", "отрицательное количество"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  service.CodeValidation,
		},
		{
			name:           "error - malformed json",
			body:           `{"type":`,
			setupMock:      func(m *MockWorkOrderService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockWorkOrderService)
			tt.setupMock(svc)
			handler := handlers.NewWorkOrderHandler(svc)

			w := httptest.NewRecorder()
			handler.PostWorkOrder(w, jsonRequest(http.MethodPost, "/work-orders", tt.body))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(t, w))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestWorkOrderHandler_ListWorkOrders(t *testing.T) {
	svc := new(MockWorkOrderService)
	svc.On("ListWorkOrders", mock.Anything).Return([]*workorder.WorkOrder{{ID: uuid.New()}}, nil)
	handler := handlers.NewWorkOrderHandler(svc)

	w := httptest.NewRecorder()
	handler.ListWorkOrders(w, httptest.NewRequest(http.MethodGet, "/work-orders", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var list []json.RawMessage
	require.NoError(t, json.Unmarshal(decodeBody(t, w)["work_orders"], &list))
	assert.Len(t, list, 1)
}

func TestWorkOrderHandler_ProjectTypeReport(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		filter         report.ProjectTypeFilter
		serviceErr     error
		expectedStatus int
	}{
		{
			name:           "no filter",
			query:          "",
			filter:         report.ProjectTypeFilter{},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "all filters",
			query:          "?type=Instalare&client=Alfa&location=Cluj",
			filter:         report.ProjectTypeFilter{Type: "Instalare", Client: "Alfa", Location: "Cluj"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "storage failure",
			query:          "?type=Toate",
			filter:         report.ProjectTypeFilter{Type: "Toate"},
			serviceErr:     errors.New("db down"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockWorkOrderService)
			svc.On("ProjectTypeReport", mock.Anything, tt.filter).
				Return(report.ProjectTypes{Total: 3, ByType: map[string]int{"Instalare": 3}}, tt.serviceErr)
			handler := handlers.NewWorkOrderHandler(svc)

			w := httptest.NewRecorder()
			handler.ProjectTypeReport(w, httptest.NewRequest(http.MethodGet, "/reports/project-types"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var rep report.ProjectTypes
				require.NoError(t, json.Unmarshal(decodeBody(t, w)["report"], &rep))
				assert.Equal(t, 3, rep.Total)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestWorkOrderHandler_SalesReport(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		year           int
		includeVAT     bool
		expectedStatus int
	}{
		{"defaults", "", 0, true, http.StatusOK},
		{"year without vat", "?year=2024&vat=false", 2024, false, http.StatusOK},
		{"explicit vat", "?vat=1", 0, true, http.StatusOK},
		{"bad vat", "?vat=maybe", 0, false, http.StatusBadRequest},
		{"bad year", "?year=abc", 0, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockWorkOrderService)
			if tt.expectedStatus == http.StatusOK {
				svc.On("SalesReport", mock.Anything, tt.year, tt.includeVAT).
					Return(report.Sales{Year: 2024, IncludeVAT: tt.includeVAT, Total: 1190}, nil)
			}
			handler := handlers.NewWorkOrderHandler(svc)

			w := httptest.NewRecorder()
			handler.SalesReport(w, httptest.NewRequest(http.MethodGet, "/reports/sales"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var rep report.Sales
				require.NoError(t, json.Unmarshal(decodeBody(t, w)["report"], &rep))
				assert.Equal(t, 1190.0, rep.Total)
				assert.Equal(t, tt.includeVAT, rep.IncludeVAT)
			} else {
				svc.AssertNotCalled(t, "SalesReport", mock.Anything, mock.Anything, mock.Anything)
			}
			svc.AssertExpectations(t)
		})
	}
}
