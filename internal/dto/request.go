package dto

// CreateEventRequest represents an event append request from a producer.
type CreateEventRequest struct {
	Type      string         `json:"type" binding:"required" example:"provider:sent"`
	JSON      map[string]any `json:"json" binding:"required"`
	Timestamp int64          `json:"timestamp" example:"1723475612000"`
}

// GetLogsRequest represents the query options on the event list endpoint.
type GetLogsRequest struct {
	Type string `form:"type" example:"provider:delivered"`
}

// GetHistoryRequest represents the query options on the history endpoint.
type GetHistoryRequest struct {
	Type string `form:"type" example:"DELIVERED"`
}

// GetMessageRequest represents the query options on the aggregate endpoint.
type GetMessageRequest struct {
	Providers bool `form:"providers" example:"true"`
}
