package eventlog

import (
	"encoding/base64"

	"github.com/cgradwohl/message-log-service/internal/domain"
)

// Legacy shape migration. Old records differ from the current form in three
// ways: the whole payload may be a JSON-encoded string (handled by
// domain.AsPayload on read), event-received payloads may carry flat
// eventData/eventId/eventProfile/recipientId fields instead of a nested body,
// and profile/data sub-objects may themselves be JSON-encoded strings. All of
// it is corrected in place right after read so nothing downstream sees
// historical drift.

// flatReceivedFields maps the legacy flat field names to their home inside
// the nested body.
var flatReceivedFields = map[string]string{
	"eventData":    "data",
	"eventId":      "event",
	"eventProfile": "profile",
	"recipientId":  "recipient",
}

func migrateLegacyShape(eventType domain.EventType, payload domain.Payload) {
	if payload == nil {
		return
	}

	if eventType == domain.EventReceived {
		liftFlatReceivedFields(payload)
		parseStringlySubObjects(payload)
	}
}

// liftFlatReceivedFields rebuilds the nested body from legacy flat fields.
// Records that already have a body are left alone.
func liftFlatReceivedFields(payload domain.Payload) {
	if _, ok := payload["body"]; ok {
		return
	}

	body := map[string]any{}
	for flat, nested := range flatReceivedFields {
		if v, ok := payload[flat]; ok {
			body[nested] = v
			delete(payload, flat)
		}
	}

	if len(body) > 0 {
		payload["body"] = body
	}
}

// parseStringlySubObjects parses body sub-objects that older producers
// stored as JSON-encoded strings. Unparseable values stay as they are.
func parseStringlySubObjects(payload domain.Payload) {
	body := domain.AsPayload(payload["body"])
	if body == nil {
		return
	}

	for _, key := range []string{"data", "profile", "override"} {
		if s, ok := body[key].(string); ok {
			if sub := domain.AsPayload(s); sub != nil {
				body[key] = map[string]any(sub)
			}
		}
	}

	payload["body"] = map[string]any(body)
}

// decodeRenderedSubject reverses the storage encoding applied to rendered
// email subjects.
func decodeRenderedSubject(eventType domain.EventType, payload domain.Payload) {
	if eventType != domain.ProviderRendered || payload == nil {
		return
	}

	encoded, ok := payload["subject"].(string)
	if !ok || encoded == "" {
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// Already plain text on newer records.
		return
	}
	payload["subject"] = string(decoded)
}
