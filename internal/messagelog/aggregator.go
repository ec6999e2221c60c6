package messagelog

import (
	"sort"
	"strings"

	"github.com/cgradwohl/message-log-service/internal/domain"
	"github.com/cgradwohl/message-log-service/internal/history"
	"github.com/cgradwohl/message-log-service/internal/providers"
)

// Aggregator computes the current-status view of a message from its full
// event log. It is pure: same snapshot in, same aggregate out, no side
// effects, no caching. Events arrive in storage order, which means no order
// at all, so every query below re-sorts explicitly.
type Aggregator struct {
	registry *providers.Registry
}

// New creates an aggregator backed by the given capability registry.
func New(registry *providers.Registry) *Aggregator {
	return &Aggregator{registry: registry}
}

// errorish are the event types scanned for the last error message.
var errorish = []domain.EventType{
	domain.PollingError,
	domain.ProviderError,
	domain.EventUndeliverable,
	domain.EventUnroutable,
}

// Aggregate builds one MessageLog from the message row and its unfiltered
// event list.
func (a *Aggregator) Aggregate(msg *domain.Message, events []*domain.EventRecord, includeProviders bool) (*domain.MessageLog, error) {
	asc := sortedAscending(events)
	desc := reversed(asc)

	out := &domain.MessageLog{
		ID:       msg.ID,
		Status:   msg.Status,
		Enqueued: msg.Enqueued,
	}

	// Lifecycle markers, first occurrence ascending.
	opened := firstOfType(asc, domain.EventOpened)
	clicked := firstOfType(asc, domain.EventClick)
	mapped := firstOfType(asc, domain.EventNotificationID)
	received := firstOfType(asc, domain.EventReceived)
	unmapped := firstOfType(asc, domain.EventUnmapped)
	archived := firstOfType(asc, domain.EventArchived)

	if opened != nil {
		out.Opened = opened.Timestamp
	}
	if clicked != nil {
		out.Clicked = clicked.Timestamp
	}
	if archived != nil {
		out.Archived = archived.Timestamp
	}

	out.Event = canonicalEventName(mapped, unmapped, received)
	if mapped != nil {
		out.Notification = history.PublicNotificationID(mapped.JSON.GetString("notificationId"))
	}

	delivered, err := a.deliveredTimestamp(firstOfType(asc, domain.ProviderDelivered))
	if err != nil {
		return nil, err
	}
	out.Delivered = delivered

	// Evidence of delivery implies having been sent.
	if sent := firstOfType(asc, domain.ProviderSent); sent != nil {
		out.Sent = sent.Timestamp
	} else {
		out.Sent = delivered
	}

	failed := msg.Status == domain.StatusUndeliverable || msg.Status == domain.StatusUnroutable
	if failed {
		if lastError := firstOfType(desc, errorish...); lastError != nil {
			out.Error = errorMessage(lastError)
		}
		out.Reason, out.ReasonCode = deriveReason(asc, desc)
	}

	if msg.Status == domain.StatusUndeliverable {
		if lastProviderError := firstOfType(desc, domain.ProviderError); lastProviderError != nil {
			if willRetry, ok := lastProviderError.JSON.GetBool("willRetry"); ok {
				out.WillRetry = &willRetry
			}
		}
	}

	if includeProviders {
		switch msg.Status {
		case domain.StatusEnqueued, domain.StatusUnmapped, domain.StatusUnroutable:
			out.Providers = []domain.ProviderLog{}
		default:
			providerLogs, err := a.providerBreakdown(asc)
			if err != nil {
				return nil, err
			}
			out.Providers = providerLogs
		}
	}

	return out, nil
}

// canonicalEventName prefers the mapped notification's event id, then the
// unmapped event's, then the received body's event.
func canonicalEventName(mapped, unmapped, received *domain.EventRecord) string {
	if mapped != nil {
		if name := mapped.JSON.GetString("eventId"); name != "" {
			return name
		}
	}
	if unmapped != nil {
		if name := unmapped.JSON.GetString("eventId"); name != "" {
			return name
		}
	}
	if received != nil {
		return received.JSON.GetPayload("body").GetString("event")
	}
	return ""
}

// deliveredTimestamp extracts the delivery time from a provider:delivered
// event through the capability registry, falling back to the event's own
// timestamp. Registry failures propagate: a delivered event naming an
// unregistered provider is a configuration defect.
func (a *Aggregator) deliveredTimestamp(event *domain.EventRecord) (int64, error) {
	if event == nil {
		return 0, nil
	}

	provider := event.JSON.GetString("provider")
	response := event.JSON.GetPayload("providerResponse")
	if provider == "" || response == nil {
		return event.Timestamp, nil
	}

	ts, err := a.registry.ExtractDeliveredTimestamp(provider, response)
	if err != nil {
		return 0, err
	}
	if ts == 0 {
		return event.Timestamp, nil
	}
	return ts, nil
}

// errorMessage pulls the human text from an error-ish event; the field
// depends on the type.
func errorMessage(event *domain.EventRecord) string {
	switch event.Type {
	case domain.PollingError, domain.ProviderError:
		return event.JSON.GetString("errorMessage")
	default:
		if details := event.JSON.GetString("reasonDetails"); details != "" {
			return details
		}
		return event.JSON.GetString("reason")
	}
}

// deriveReason classifies why a message failed. A filtered event wins over
// everything; otherwise the most recent failure event's structured type is
// used verbatim, with a legacy free-text fallback.
func deriveReason(asc, desc []*domain.EventRecord) (domain.Reason, string) {
	if firstOfType(asc, domain.EventFiltered) != nil {
		return domain.ReasonFiltered, ""
	}

	failure := firstOfType(desc, domain.ProviderError, domain.EventUndeliverable, domain.EventUnroutable)
	if failure == nil {
		return "", ""
	}

	reasonCode := failure.JSON.GetString("reasonCode")
	if structured := failure.JSON.GetString("type"); structured != "" {
		return domain.Reason(structured), reasonCode
	}

	return legacyReason(failure.JSON.GetString("reason")), reasonCode
}

// legacyReason pattern-matches the free-text reason strings written before
// failures carried a structured type.
func legacyReason(text string) domain.Reason {
	switch text {
	case "Notification Disabled", "Notification Disabled by Category":
		return domain.ReasonUnsubscribed
	case "No providers added":
		return domain.ReasonNoProviders
	case "No Valid Delivery Channel":
		return domain.ReasonNoChannels
	default:
		return domain.ReasonProviderError
	}
}

// sortedAscending copies and sorts by timestamp. The copy keeps the
// aggregator pure with respect to its input slice.
func sortedAscending(events []*domain.EventRecord) []*domain.EventRecord {
	out := make([]*domain.EventRecord, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

func reversed(events []*domain.EventRecord) []*domain.EventRecord {
	out := make([]*domain.EventRecord, len(events))
	for i, e := range events {
		out[len(events)-1-i] = e
	}
	return out
}

// firstOfType returns the first event whose type is one of types, in the
// given order, or nil.
func firstOfType(events []*domain.EventRecord, types ...domain.EventType) *domain.EventRecord {
	for _, e := range events {
		for _, t := range types {
			if e.Type == t {
				return e
			}
		}
	}
	return nil
}

// taxonomyChannelKey derives the display key for a channel group from a
// class:channel:provider taxonomy string. A wildcard class means the channel
// segment names the group; a wildcard elsewhere with a real class means the
// class does; otherwise the provider segment (the last one) wins.
func taxonomyChannelKey(taxonomy, provider string) string {
	if taxonomy == "" {
		return provider
	}

	parts := strings.Split(taxonomy, ":")
	switch {
	case parts[0] == "*" && len(parts) > 1:
		return parts[1]
	case len(parts) > 1 && parts[1] == "*":
		return parts[0]
	default:
		return parts[len(parts)-1]
	}
}
