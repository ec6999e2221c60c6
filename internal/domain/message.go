package domain

// Message is the stored row for one notification send, written by the
// (external) send pipeline. The aggregate view is never stored; it is
// recomputed from this row plus the event log on every read.
type Message struct {
	ID           string        `json:"id"`
	TenantID     string        `json:"tenantId"`
	Enqueued     int64         `json:"enqueued"`
	Status       MessageStatus `json:"status"`
	Event        string        `json:"event,omitempty"`
	Notification string        `json:"notification,omitempty"`
	Recipient    string        `json:"recipient,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
}

// ChannelInfo describes the channel a delivery attempt went through.
type ChannelInfo struct {
	Key      string `json:"key"`
	Name     string `json:"name,omitempty"`
	Template string `json:"template,omitempty"`
}

// ProviderLog is the per-channel/per-provider breakdown entry of a message
// aggregate: the status of one delivery attempt computed independently of the
// message's overall status.
type ProviderLog struct {
	Channel          ChannelInfo       `json:"channel"`
	Provider         string            `json:"provider"`
	Status           MessageStatus     `json:"status"`
	Sent             int64             `json:"sent,omitempty"`
	Delivered        int64             `json:"delivered,omitempty"`
	Opened           int64             `json:"opened,omitempty"`
	Clicked          int64             `json:"clicked,omitempty"`
	Error            string            `json:"error,omitempty"`
	ProviderResponse Payload           `json:"providerResponse,omitempty"`
	Reference        map[string]string `json:"reference,omitempty"`
}

// MessageLog is the computed current-status view of a message. It is a pure
// function of (message row, event log).
type MessageLog struct {
	ID           string        `json:"id"`
	Status       MessageStatus `json:"status"`
	Enqueued     int64         `json:"enqueued"`
	Sent         int64         `json:"sent,omitempty"`
	Delivered    int64         `json:"delivered,omitempty"`
	Opened       int64         `json:"opened,omitempty"`
	Clicked      int64         `json:"clicked,omitempty"`
	Archived     int64         `json:"archived,omitempty"`
	Event        string        `json:"event,omitempty"`
	Notification string        `json:"notification,omitempty"`
	Reason       Reason        `json:"reason,omitempty"`
	ReasonCode   string        `json:"reasonCode,omitempty"`
	Error        string        `json:"error,omitempty"`
	WillRetry    *bool         `json:"willRetry,omitempty"`
	Providers    []ProviderLog `json:"providers,omitempty"`
}
