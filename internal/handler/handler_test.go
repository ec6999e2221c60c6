package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/cgradwohl/message-log-service/internal/domain"
	"github.com/cgradwohl/message-log-service/internal/dto"
	"github.com/cgradwohl/message-log-service/internal/service"
)

const testTimestamp int64 = 1723475612000

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// MockMessageLogService is a mock implementation of service.MessageLogServicer
type MockMessageLogService struct {
	mock.Mock
}

func (m *MockMessageLogService) Create(ctx context.Context, tenantID, messageID string, eventType domain.EventType,
	payload domain.Payload, timestamp int64) *domain.EventRecord {
	args := m.Called(ctx, tenantID, messageID, eventType, payload, timestamp)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.EventRecord)
}

func (m *MockMessageLogService) GetLogs(ctx context.Context, tenantID, messageID string) ([]*domain.EventRecord, error) {
	args := m.Called(ctx, tenantID, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EventRecord), args.Error(1)
}

func (m *MockMessageLogService) GetByType(ctx context.Context, tenantID, messageID string, eventType domain.EventType) ([]*domain.EventRecord, error) {
	args := m.Called(ctx, tenantID, messageID, eventType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EventRecord), args.Error(1)
}

func (m *MockMessageLogService) GetHistoryByID(ctx context.Context, tenantID, messageID string, filter string) ([]*domain.HistoryRecord, error) {
	args := m.Called(ctx, tenantID, messageID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.HistoryRecord), args.Error(1)
}

func (m *MockMessageLogService) GetByID(ctx context.Context, tenantID, messageID string, includeProviders bool) (*domain.MessageLog, error) {
	args := m.Called(ctx, tenantID, messageID, includeProviders)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageLog), args.Error(1)
}

func TestHandler_HealthCheck(t *testing.T) {
	mockService := new(MockMessageLogService)
	handler := NewHandler(mockService, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
}

func TestHandler_CreateEvent_Success(t *testing.T) {
	mockService := new(MockMessageLogService)
	handler := NewHandler(mockService, zap.NewNop())

	record := &domain.EventRecord{ID: "evt-1"}
	mockService.On("Create", mock.Anything, "tenant-1", "msg-1", domain.ProviderSent,
		mock.Anything, testTimestamp).Return(record)

	body, _ := json.Marshal(dto.CreateEventRequest{
		Type:      "provider:sent",
		JSON:      map[string]any{"provider": "sendgrid"},
		Timestamp: testTimestamp,
	})
	req := httptest.NewRequest(http.MethodPost, "/messages/msg-1/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", "tenant-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var response dto.CreateEventResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "evt-1", response.EventID)
	assert.Equal(t, "accepted", response.Status)
	mockService.AssertExpectations(t)
}

func TestHandler_CreateEvent_DroppedWriteStillAccepted(t *testing.T) {
	mockService := new(MockMessageLogService)
	handler := NewHandler(mockService, zap.NewNop())

	mockService.On("Create", mock.Anything, "tenant-1", "msg-1", domain.ProviderSent,
		mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(dto.CreateEventRequest{
		Type: "provider:sent",
		JSON: map[string]any{"provider": "sendgrid"},
	})
	req := httptest.NewRequest(http.MethodPost, "/messages/msg-1/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", "tenant-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var response dto.CreateEventResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Empty(t, response.EventID)
}

func TestHandler_CreateEvent_MissingTenantHeader(t *testing.T) {
	mockService := new(MockMessageLogService)
	handler := NewHandler(mockService, zap.NewNop())

	body, _ := json.Marshal(dto.CreateEventRequest{
		Type: "provider:sent",
		JSON: map[string]any{},
	})
	req := httptest.NewRequest(http.MethodPost, "/messages/msg-1/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestHandler_CreateEvent_UnknownType(t *testing.T) {
	mockService := new(MockMessageLogService)
	handler := NewHandler(mockService, zap.NewNop())

	body, _ := json.Marshal(dto.CreateEventRequest{
		Type: "made:up",
		JSON: map[string]any{},
	})
	req := httptest.NewRequest(http.MethodPost, "/messages/msg-1/events", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", "tenant-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "validation_error", response.Error)
	mockService.AssertNotCalled(t, "Create")
}

func TestHandler_CreateEvent_InvalidJSON(t *testing.T) {
	mockService := new(MockMessageLogService)
	handler := NewHandler(mockService, zap.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/messages/msg-1/events",
		bytes.NewReader([]byte(`{"type": "provider:sent", invalid}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", "tenant-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestHandler_GetLogs_Success(t *testing.T) {
	mockService := new(MockMessageLogService)
	handler := NewHandler(mockService, zap.NewNop())

	records := []*domain.EventRecord{
		{ID: "e1", Type: domain.EventReceived, Timestamp: 100},
	}
	mockService.On("GetLogs", mock.Anything, "tenant-1", "msg-1").Return(records, nil)

	req := httptest.NewRequest(http.MethodGet, "/messages/msg-1/events", nil)
	req.Header.Set("X-Tenant-Id", "tenant-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.GetLogsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Results, 1)
	assert.Equal(t, "e1", response.Results[0].ID)
	mockService.AssertExpectations(t)
}

func TestHandler_GetLogs_TypeFilter(t *testing.T) {
	mockService := new(MockMessageLogService)
	handler := NewHandler(mockService, zap.NewNop())

	mockService.On("GetByType", mock.Anything, "tenant-1", "msg-1", domain.ProviderAttempt).
		Return([]*domain.EventRecord{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/messages/msg-1/events?type=provider:attempt", nil)
	req.Header.Set("X-Tenant-Id", "tenant-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
	mockService.AssertNotCalled(t, "GetLogs")
}

func TestHandler_GetHistory_Success(t *testing.T) {
	mockService := new(MockMessageLogService)
	handler := NewHandler(mockService, zap.NewNop())

	records := []*domain.HistoryRecord{
		{Type: domain.HistoryEnqueued, TS: 100},
		{Type: domain.HistorySent, TS: 200},
	}
	mockService.On("GetHistoryByID", mock.Anything, "tenant-1", "msg-1", "").Return(records, nil)

	req := httptest.NewRequest(http.MethodGet, "/messages/msg-1/history", nil)
	req.Header.Set("X-Tenant-Id", "tenant-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.GetHistoryResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Results, 2)
	mockService.AssertExpectations(t)
}

func TestHandler_GetHistory_InvalidFilter(t *testing.T) {
	mockService := new(MockMessageLogService)
	handler := NewHandler(mockService, zap.NewNop())

	serviceErr := fmt.Errorf("%w: unknown history type", service.ErrInvalidArgument)
	mockService.On("GetHistoryByID", mock.Anything, "tenant-1", "msg-1", "NOT_A_TYPE").
		Return(nil, serviceErr)

	req := httptest.NewRequest(http.MethodGet, "/messages/msg-1/history?type=NOT_A_TYPE", nil)
	req.Header.Set("X-Tenant-Id", "tenant-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetMessage_Success(t *testing.T) {
	mockService := new(MockMessageLogService)
	handler := NewHandler(mockService, zap.NewNop())

	messageLog := &domain.MessageLog{
		ID:        "msg-1",
		Status:    domain.StatusDelivered,
		Delivered: 300,
	}
	mockService.On("GetByID", mock.Anything, "tenant-1", "msg-1", true).Return(messageLog, nil)

	req := httptest.NewRequest(http.MethodGet, "/messages/msg-1?providers=true", nil)
	req.Header.Set("X-Tenant-Id", "tenant-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response domain.MessageLog
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "msg-1", response.ID)
	assert.Equal(t, domain.StatusDelivered, response.Status)
	mockService.AssertExpectations(t)
}

func TestHandler_GetMessage_NotFound(t *testing.T) {
	mockService := new(MockMessageLogService)
	handler := NewHandler(mockService, zap.NewNop())

	serviceErr := fmt.Errorf("%w: msg-1", service.ErrNotFound)
	mockService.On("GetByID", mock.Anything, "tenant-1", "msg-1", false).Return(nil, serviceErr)

	req := httptest.NewRequest(http.MethodGet, "/messages/msg-1", nil)
	req.Header.Set("X-Tenant-Id", "tenant-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "not_found", response.Error)
}

func TestHandler_GetMessage_InternalError(t *testing.T) {
	mockService := new(MockMessageLogService)
	handler := NewHandler(mockService, zap.NewNop())

	mockService.On("GetByID", mock.Anything, "tenant-1", "msg-1", false).
		Return(nil, assert.AnError)

	req := httptest.NewRequest(http.MethodGet, "/messages/msg-1", nil)
	req.Header.Set("X-Tenant-Id", "tenant-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "internal_error", response.Error)
}
