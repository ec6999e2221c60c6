package domain

// EventType identifies one entry in the closed message event taxonomy.
type EventType string

const (
	EventArchived       EventType = "event:archived"
	EventClick          EventType = "event:click"
	EventDelivering     EventType = "event:delivering"
	EventFiltered       EventType = "event:filtered"
	EventMapped         EventType = "event:mapped"
	EventNotificationID EventType = "event:notificationId"
	EventOpened         EventType = "event:opened"
	EventPrepared       EventType = "event:prepared"
	EventReceived       EventType = "event:received"
	EventRouted         EventType = "event:routed"
	EventTimedOut       EventType = "event:timedout"
	EventUndeliverable  EventType = "undeliverable"
	EventUnmapped       EventType = "event:unmapped"
	EventUnroutable     EventType = "unroutable"

	PollingAttempt EventType = "polling:attempt"
	PollingError   EventType = "polling:error"

	ProfileLoaded EventType = "profile:loaded"

	ProviderAttempt    EventType = "provider:attempt"
	ProviderDelivered  EventType = "provider:delivered"
	ProviderDelivering EventType = "provider:delivering"
	ProviderError      EventType = "provider:error"
	ProviderRendered   EventType = "provider:rendered"
	ProviderSent       EventType = "provider:sent"
	ProviderSimulated  EventType = "provider:simulated"

	WebhookReceived EventType = "webhook:received"
)

// knownEventTypes is the closed taxonomy; everything else is rejected on write.
var knownEventTypes = map[EventType]struct{}{
	EventArchived:       {},
	EventClick:          {},
	EventDelivering:     {},
	EventFiltered:       {},
	EventMapped:         {},
	EventNotificationID: {},
	EventOpened:         {},
	EventPrepared:       {},
	EventReceived:       {},
	EventRouted:         {},
	EventTimedOut:       {},
	EventUndeliverable:  {},
	EventUnmapped:       {},
	EventUnroutable:     {},
	PollingAttempt:      {},
	PollingError:        {},
	ProfileLoaded:       {},
	ProviderAttempt:     {},
	ProviderDelivered:   {},
	ProviderDelivering:  {},
	ProviderError:       {},
	ProviderRendered:    {},
	ProviderSent:        {},
	ProviderSimulated:   {},
	WebhookReceived:     {},
}

// Known reports whether t belongs to the event taxonomy.
func (t EventType) Known() bool {
	_, ok := knownEventTypes[t]
	return ok
}

// PayloadTypeExternal marks a payload that was moved to blob storage; the
// inline payload is then {"type": "EXTERNAL", "path": "<blob key>"}.
const PayloadTypeExternal = "EXTERNAL"

// EventRecord is one immutable entry in a message's append-only event log.
// Records are never mutated or deleted after the initial write, and storage
// order carries no temporal meaning; consumers sort by Timestamp explicitly.
type EventRecord struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	MessageID string    `json:"messageId"`
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestamp"`
	JSON      Payload   `json:"json"`
}
