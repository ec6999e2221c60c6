package history

import (
	"encoding/hex"
	"fmt"

	"github.com/cgradwohl/message-log-service/internal/domain"
	"github.com/cgradwohl/message-log-service/internal/providers"
)

// projection maps one event record to its audit-trail view.
type projection func(*domain.EventRecord) (*domain.HistoryRecord, error)

// Projector turns event records into history records through an explicit
// dispatch table. Event types absent from the table have no public history
// representation and are skipped by callers.
type Projector struct {
	registry *providers.Registry
	table    map[domain.EventType]projection
}

// New creates a projector backed by the given provider capability registry.
func New(registry *providers.Registry) *Projector {
	p := &Projector{registry: registry}
	p.table = map[domain.EventType]projection{
		domain.EventReceived:       p.enqueued,
		domain.ProfileLoaded:       p.profileLoaded,
		domain.EventNotificationID: p.mapped,
		domain.EventUnmapped:       p.unmapped,
		domain.EventFiltered:       p.filtered,
		domain.EventDelivering:     p.delivering,
		domain.ProviderDelivering:  p.delivering,
		domain.ProviderRendered:    p.rendered,
		domain.ProviderSent:        p.sent,
		domain.ProviderDelivered:   p.delivered,
		domain.ProviderSimulated:   p.simulated,
		domain.ProviderError:       p.providerError,
		domain.EventUndeliverable:  p.undeliverable,
		domain.EventUnroutable:     p.unroutable,
		domain.EventOpened:         p.opened,
		domain.EventClick:          p.clicked,
	}
	return p
}

// Project maps one record. The second return is false when the event type
// has no history projection.
func (p *Projector) Project(record *domain.EventRecord) (*domain.HistoryRecord, bool, error) {
	fn, ok := p.table[record.Type]
	if !ok {
		return nil, false, nil
	}

	hr, err := fn(record)
	if err != nil {
		return nil, false, err
	}
	return hr, true, nil
}

func (p *Projector) enqueued(record *domain.EventRecord) (*domain.HistoryRecord, error) {
	body := payload(record).GetPayload("body")
	return &domain.HistoryRecord{
		Type:      domain.HistoryEnqueued,
		TS:        record.Timestamp,
		Data:      body.GetPayload("data"),
		Event:     body.GetString("event"),
		Override:  body.GetPayload("override"),
		Profile:   body.GetPayload("profile"),
		Recipient: body.GetString("recipient"),
	}, nil
}

func (p *Projector) profileLoaded(record *domain.EventRecord) (*domain.HistoryRecord, error) {
	json := payload(record)
	return &domain.HistoryRecord{
		Type:          domain.HistoryProfileLoaded,
		TS:            record.Timestamp,
		MergedProfile: json.GetPayload("mergedProfile"),
		StoredProfile: json.GetPayload("storedProfile"),
	}, nil
}

func (p *Projector) mapped(record *domain.EventRecord) (*domain.HistoryRecord, error) {
	json := payload(record)
	return &domain.HistoryRecord{
		Type:         domain.HistoryMapped,
		TS:           record.Timestamp,
		Event:        json.GetString("eventId"),
		Notification: PublicNotificationID(json.GetString("notificationId")),
	}, nil
}

func (p *Projector) unmapped(record *domain.EventRecord) (*domain.HistoryRecord, error) {
	return &domain.HistoryRecord{
		Type:  domain.HistoryUnmapped,
		TS:    record.Timestamp,
		Event: payload(record).GetString("eventId"),
	}, nil
}

func (p *Projector) filtered(record *domain.EventRecord) (*domain.HistoryRecord, error) {
	return &domain.HistoryRecord{
		Type: domain.HistoryFiltered,
		TS:   record.Timestamp,
	}, nil
}

func (p *Projector) delivering(record *domain.EventRecord) (*domain.HistoryRecord, error) {
	channel, integration := channelIntegration(payload(record))
	return &domain.HistoryRecord{
		Type:        domain.HistoryDelivering,
		TS:          record.Timestamp,
		Channel:     channel,
		Integration: integration,
	}, nil
}

// rendered synthesizes retrieval paths per artifact key instead of inlining
// rendered content.
func (p *Projector) rendered(record *domain.EventRecord) (*domain.HistoryRecord, error) {
	output := map[string]string{}
	for key := range payload(record).GetPayload("output") {
		output[key] = fmt.Sprintf("/messages/%s/output/%s/%s", record.MessageID, record.ID, key)
	}

	return &domain.HistoryRecord{
		Type:   domain.HistoryRendered,
		TS:     record.Timestamp,
		Output: output,
	}, nil
}

func (p *Projector) sent(record *domain.EventRecord) (*domain.HistoryRecord, error) {
	channel, integration := channelIntegration(payload(record))
	return &domain.HistoryRecord{
		Type:        domain.HistorySent,
		TS:          record.Timestamp,
		Channel:     channel,
		Integration: integration,
	}, nil
}

// delivered asks the provider capability registry for the real delivery
// timestamp and reference; the record's own timestamp is the fallback.
func (p *Projector) delivered(record *domain.EventRecord) (*domain.HistoryRecord, error) {
	json := payload(record)
	channel, integration := channelIntegration(json)

	hr := &domain.HistoryRecord{
		Type:        domain.HistoryDelivered,
		TS:          record.Timestamp,
		Channel:     channel,
		Integration: integration,
	}

	provider := json.GetString("provider")
	response := json.GetPayload("providerResponse")
	if provider == "" {
		return hr, nil
	}

	if response != nil {
		ts, err := p.registry.ExtractDeliveredTimestamp(provider, response)
		if err != nil {
			return nil, err
		}
		if ts > 0 {
			hr.TS = ts
		}
	}

	reference, err := p.registry.ExtractReference(provider, nil, response)
	if err != nil {
		return nil, err
	}
	hr.Reference = reference

	return hr, nil
}

func (p *Projector) simulated(record *domain.EventRecord) (*domain.HistoryRecord, error) {
	channel, integration := channelIntegration(payload(record))
	return &domain.HistoryRecord{
		Type:        domain.HistorySimulated,
		TS:          record.Timestamp,
		Channel:     channel,
		Integration: integration,
	}, nil
}

func (p *Projector) providerError(record *domain.EventRecord) (*domain.HistoryRecord, error) {
	json := payload(record)
	channel, integration := channelIntegration(json)
	return &domain.HistoryRecord{
		Type:         domain.HistoryUndeliverable,
		TS:           record.Timestamp,
		Channel:      channel,
		Integration:  integration,
		ErrorMessage: json.GetString("errorMessage"),
	}, nil
}

func (p *Projector) undeliverable(record *domain.EventRecord) (*domain.HistoryRecord, error) {
	json := payload(record)
	channel, integration := channelIntegration(json)
	return &domain.HistoryRecord{
		Type:          domain.HistoryUndeliverable,
		TS:            record.Timestamp,
		Channel:       channel,
		Integration:   integration,
		Reason:        domain.Reason(json.GetString("type")),
		ReasonCode:    json.GetString("reasonCode"),
		ReasonDetails: json.GetString("reasonDetails"),
	}, nil
}

func (p *Projector) unroutable(record *domain.EventRecord) (*domain.HistoryRecord, error) {
	json := payload(record)
	return &domain.HistoryRecord{
		Type:          domain.HistoryUnroutable,
		TS:            record.Timestamp,
		Reason:        domain.Reason(json.GetString("type")),
		ReasonCode:    json.GetString("reasonCode"),
		ReasonDetails: json.GetString("reasonDetails"),
	}, nil
}

func (p *Projector) opened(record *domain.EventRecord) (*domain.HistoryRecord, error) {
	channel, integration := channelIntegration(payload(record))
	return &domain.HistoryRecord{
		Type:        domain.HistoryOpened,
		TS:          record.Timestamp,
		Channel:     channel,
		Integration: integration,
	}, nil
}

func (p *Projector) clicked(record *domain.EventRecord) (*domain.HistoryRecord, error) {
	channel, integration := channelIntegration(payload(record))
	return &domain.HistoryRecord{
		Type:        domain.HistoryClicked,
		TS:          record.Timestamp,
		Channel:     channel,
		Integration: integration,
	}, nil
}

// payload coerces a record's payload defensively: older producers stored it
// as a JSON-encoded string.
func payload(record *domain.EventRecord) domain.Payload {
	if record.JSON != nil {
		return record.JSON
	}
	return domain.Payload{}
}

// channelIntegration pulls the channel and integration identifiers, covering
// both the flat string and nested object channel shapes.
func channelIntegration(json domain.Payload) (string, string) {
	channel := json.GetString("channel")
	if channel == "" {
		channel = json.GetString("channel", "id")
	}

	integration := json.GetString("integration")
	if integration == "" {
		integration = json.GetString("provider")
	}

	return channel, integration
}

// PublicNotificationID re-encodes a raw notification id into the platform's
// public id format.
func PublicNotificationID(raw string) string {
	if raw == "" {
		return ""
	}
	return "1-" + hex.EncodeToString([]byte(raw))
}
