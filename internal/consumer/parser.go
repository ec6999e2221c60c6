package consumer

import (
	"encoding/json"
	"fmt"

	"github.com/cgradwohl/message-log-service/internal/queue"
)

// JSONRetryParser implements MessageParser for JSON-formatted retry payloads.
type JSONRetryParser struct{}

// NewJSONRetryParser creates a new JSON retry parser.
func NewJSONRetryParser() *JSONRetryParser {
	return &JSONRetryParser{}
}

// Parse parses a JSON message body into a RetryPayload.
func (p *JSONRetryParser) Parse(body []byte) (*queue.RetryPayload, error) {
	var payload queue.RetryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal retry payload: %w", err)
	}

	if payload.TenantID == "" || payload.MessageID == "" {
		return nil, fmt.Errorf("retry payload missing tenant or message id")
	}
	if !payload.Type.Known() {
		return nil, fmt.Errorf("retry payload has unknown event type %q", payload.Type)
	}

	return &payload, nil
}
