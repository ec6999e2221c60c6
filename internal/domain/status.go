package domain

// MessageStatus is the coarse current status of a message, derived from its
// event log.
type MessageStatus string

const (
	StatusClicked       MessageStatus = "CLICKED"
	StatusDelivered     MessageStatus = "DELIVERED"
	StatusEnqueued      MessageStatus = "ENQUEUED"
	StatusFiltered      MessageStatus = "FILTERED"
	StatusOpened        MessageStatus = "OPENED"
	StatusSent          MessageStatus = "SENT"
	StatusSimulated     MessageStatus = "SIMULATED"
	StatusUndeliverable MessageStatus = "UNDELIVERABLE"
	StatusUnmapped      MessageStatus = "UNMAPPED"
	StatusUnroutable    MessageStatus = "UNROUTABLE"
)

// HistoryType is the audit-trail projection type. It extends the status set
// with states that only matter for per-event display.
type HistoryType string

const (
	HistoryClicked       HistoryType = "CLICKED"
	HistoryDelivered     HistoryType = "DELIVERED"
	HistoryDelivering    HistoryType = "DELIVERING"
	HistoryEnqueued      HistoryType = "ENQUEUED"
	HistoryFiltered      HistoryType = "FILTERED"
	HistoryMapped        HistoryType = "MAPPED"
	HistoryOpened        HistoryType = "OPENED"
	HistoryProfileLoaded HistoryType = "PROFILE_LOADED"
	HistoryRendered      HistoryType = "RENDERED"
	HistorySent          HistoryType = "SENT"
	HistorySimulated     HistoryType = "SIMULATED"
	HistoryUndeliverable HistoryType = "UNDELIVERABLE"
	HistoryUnmapped      HistoryType = "UNMAPPED"
	HistoryUnroutable    HistoryType = "UNROUTABLE"
)

var knownHistoryTypes = map[HistoryType]struct{}{
	HistoryClicked:       {},
	HistoryDelivered:     {},
	HistoryDelivering:    {},
	HistoryEnqueued:      {},
	HistoryFiltered:      {},
	HistoryMapped:        {},
	HistoryOpened:        {},
	HistoryProfileLoaded: {},
	HistoryRendered:      {},
	HistorySent:          {},
	HistorySimulated:     {},
	HistoryUndeliverable: {},
	HistoryUnmapped:      {},
	HistoryUnroutable:    {},
}

// Known reports whether t is a recognized history type.
func (t HistoryType) Known() bool {
	_, ok := knownHistoryTypes[t]
	return ok
}

// Reason is the human-readable failure classification surfaced on
// UNDELIVERABLE and UNROUTABLE messages.
type Reason string

const (
	ReasonFiltered      Reason = "FILTERED"
	ReasonNoChannels    Reason = "NO_CHANNELS"
	ReasonNoProviders   Reason = "NO_PROVIDERS"
	ReasonProviderError Reason = "PROVIDER_ERROR"
	ReasonUnsubscribed  Reason = "UNSUBSCRIBED"
)
