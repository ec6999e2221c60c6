package domain

// HistoryRecord is the public-facing projection of one event record for the
// audit-trail view. It is a tagged union: Type selects the variant and only
// that variant's fields are populated.
type HistoryRecord struct {
	Type HistoryType `json:"type"`
	TS   int64       `json:"ts"`

	// Channel-scoped variants (SENT, DELIVERED, OPENED, CLICKED, ...).
	Channel     string            `json:"channel,omitempty"`
	Integration string            `json:"integration,omitempty"`
	Reference   map[string]string `json:"reference,omitempty"`

	// ENQUEUED.
	Data      Payload `json:"data,omitempty"`
	Event     string  `json:"event,omitempty"`
	Override  Payload `json:"override,omitempty"`
	Profile   Payload `json:"profile,omitempty"`
	Recipient string  `json:"recipient,omitempty"`

	// PROFILE_LOADED.
	MergedProfile Payload `json:"mergedProfile,omitempty"`
	StoredProfile Payload `json:"storedProfile,omitempty"`

	// MAPPED.
	Notification string `json:"notification,omitempty"`

	// RENDERED: artifact key to retrieval path.
	Output map[string]string `json:"output,omitempty"`

	// UNDELIVERABLE / UNROUTABLE.
	Reason        Reason `json:"reason,omitempty"`
	ReasonCode    string `json:"reasonCode,omitempty"`
	ReasonDetails string `json:"reasonDetails,omitempty"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}
