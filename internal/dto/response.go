package dto

import "github.com/cgradwohl/message-log-service/internal/domain"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"type is required"`
}

// CreateEventResponse represents a successful event append.
type CreateEventResponse struct {
	EventID string `json:"event_id" example:"6dfb53bc-40a1-4e5a-90a2-0b194c0af032"`
	Status  string `json:"status" example:"accepted"`
}

// GetLogsResponse wraps the event list view.
type GetLogsResponse struct {
	Results []*domain.EventRecord `json:"results"`
}

// GetHistoryResponse wraps the audit-trail view.
type GetHistoryResponse struct {
	Results []*domain.HistoryRecord `json:"results"`
}
