package messagelog

import (
	"github.com/cgradwohl/message-log-service/internal/domain"
)

// groupStatusByType lists the event types that carry a per-channel status
// meaning; only these participate in the provider breakdown.
var groupStatusByType = map[domain.EventType]domain.MessageStatus{
	domain.EventOpened:        domain.StatusOpened,
	domain.EventClick:         domain.StatusClicked,
	domain.ProviderDelivered:  domain.StatusDelivered,
	domain.ProviderError:      domain.StatusUndeliverable,
	domain.ProviderSent:       domain.StatusSent,
	domain.ProviderSimulated:  domain.StatusSimulated,
	domain.EventUndeliverable: domain.StatusUndeliverable,
}

// providerBreakdown folds the status-bearing events into per-channel groups,
// preserving first-seen order, and computes each group's view independently.
func (a *Aggregator) providerBreakdown(asc []*domain.EventRecord) ([]domain.ProviderLog, error) {
	var keys []string
	groups := map[string][]*domain.EventRecord{}

	for _, event := range asc {
		if _, ok := groupStatusByType[event.Type]; !ok {
			continue
		}
		key := groupKey(event)
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], event)
	}

	out := make([]domain.ProviderLog, 0, len(keys))
	for _, key := range keys {
		log, err := a.buildProviderLog(groups[key])
		if err != nil {
			return nil, err
		}
		out = append(out, log)
	}

	return out, nil
}

// groupKey identifies one delivery attempt: the channel id when present, the
// legacy flat channelId otherwise, and for the oldest data the provider name.
func groupKey(event *domain.EventRecord) string {
	if id := event.JSON.GetString("channel", "id"); id != "" {
		return id
	}
	if id := event.JSON.GetString("channelId"); id != "" {
		return id
	}
	return event.JSON.GetString("provider")
}

// buildProviderLog computes one group's status, timestamps, error, response,
// and reference. events are in ascending timestamp order.
func (a *Aggregator) buildProviderLog(events []*domain.EventRecord) (domain.ProviderLog, error) {
	desc := reversed(events)

	has := func(t domain.EventType) bool {
		return firstOfType(desc, t) != nil
	}

	status := groupStatus(
		has(domain.EventClick),
		has(domain.EventOpened),
		has(domain.ProviderDelivered),
		has(domain.ProviderSent),
		has(domain.ProviderError) || has(domain.EventUndeliverable),
	)

	sentEvent := firstOfType(events, domain.ProviderSent)
	deliveredEvent := firstOfType(events, domain.ProviderDelivered)
	errorEvent := firstOfType(desc, domain.ProviderError, domain.EventUndeliverable)

	deliveredTS, err := a.deliveredTimestamp(deliveredEvent)
	if err != nil {
		return domain.ProviderLog{}, err
	}

	out := domain.ProviderLog{
		Status:    status,
		Provider:  groupProvider(events),
		Delivered: deliveredTS,
	}

	if sentEvent != nil {
		out.Sent = sentEvent.Timestamp
	} else {
		out.Sent = deliveredTS
	}
	if opened := firstOfType(events, domain.EventOpened); opened != nil {
		out.Opened = opened.Timestamp
	}
	if clicked := firstOfType(events, domain.EventClick); clicked != nil {
		out.Clicked = clicked.Timestamp
	}
	if status == domain.StatusUndeliverable && errorEvent != nil {
		out.Error = errorMessage(errorEvent)
	}

	out.Channel = groupChannel(events, sentEvent, deliveredEvent, errorEvent, out.Provider)

	// The raw provider response shown is the one from the event matching
	// the group's current status.
	var responseEvent *domain.EventRecord
	switch status {
	case domain.StatusSent:
		responseEvent = sentEvent
	case domain.StatusDelivered:
		responseEvent = deliveredEvent
	case domain.StatusUndeliverable:
		responseEvent = errorEvent
	}
	if responseEvent != nil {
		out.ProviderResponse = responseEvent.JSON.GetPayload("providerResponse")
	}

	var sentResponse, deliveredResponse domain.Payload
	if sentEvent != nil {
		sentResponse = sentEvent.JSON.GetPayload("providerResponse")
	}
	if deliveredEvent != nil {
		deliveredResponse = deliveredEvent.JSON.GetPayload("providerResponse")
	}
	if out.Provider != "" && (sentResponse != nil || deliveredResponse != nil) {
		reference, err := a.registry.ExtractReference(out.Provider, sentResponse, deliveredResponse)
		if err != nil {
			return domain.ProviderLog{}, err
		}
		out.Reference = reference
	}

	return out, nil
}

// groupStatus is the per-channel status precedence chain. A group whose
// events map to none of the flags can only have been built from simulated
// sends, so SIMULATED is the explicit final outcome.
func groupStatus(clicked, opened, delivered, sent, undeliverable bool) domain.MessageStatus {
	switch {
	case clicked:
		return domain.StatusClicked
	case opened:
		return domain.StatusOpened
	case delivered:
		return domain.StatusDelivered
	case sent && undeliverable:
		return domain.StatusUndeliverable
	case sent:
		return domain.StatusSent
	case undeliverable:
		return domain.StatusUndeliverable
	default:
		return domain.StatusSimulated
	}
}

// groupProvider is the first provider name any event in the group carries.
func groupProvider(events []*domain.EventRecord) string {
	for _, event := range events {
		if provider := event.JSON.GetString("provider"); provider != "" {
			return provider
		}
	}
	return ""
}

// groupChannel assembles the channel display info. The taxonomy comes from
// the representative event: the first found among sent, delivered,
// undeliverable, and error, in that priority.
func groupChannel(events []*domain.EventRecord, sentEvent, deliveredEvent, errorEvent *domain.EventRecord, provider string) domain.ChannelInfo {
	representative := sentEvent
	if representative == nil {
		representative = deliveredEvent
	}
	if representative == nil {
		representative = firstOfType(events, domain.EventUndeliverable)
	}
	if representative == nil {
		representative = errorEvent
	}
	if representative == nil && len(events) > 0 {
		representative = events[0]
	}
	if representative == nil {
		return domain.ChannelInfo{Key: provider}
	}

	taxonomy := representative.JSON.GetString("taxonomy")
	if taxonomy == "" {
		taxonomy = representative.JSON.GetString("channel", "taxonomy")
	}

	return domain.ChannelInfo{
		Key:      taxonomyChannelKey(taxonomy, provider),
		Name:     representative.JSON.GetString("channel", "label"),
		Template: representative.JSON.GetString("channel", "template"),
	}
}
