package eventlog

import "github.com/cgradwohl/message-log-service/internal/domain"

// truncatedTypes are the event types that embed unbounded strings: base64
// attachments on received events, raw provider response dumps on sent and
// error events.
var truncatedTypes = map[domain.EventType]struct{}{
	domain.EventReceived: {},
	domain.ProviderError: {},
	domain.ProviderSent:  {},
}

const truncationMarker = "...[truncated]"

// truncateStrings bounds every string inside a decoded JSON value in place.
func truncateStrings(v map[string]any, limit int) {
	for key, val := range v {
		v[key] = truncateValue(val, limit)
	}
}

func truncateValue(v any, limit int) any {
	switch t := v.(type) {
	case string:
		if len(t) > limit {
			return t[:limit] + truncationMarker
		}
		return t
	case map[string]any:
		truncateStrings(t, limit)
		return t
	case domain.Payload:
		truncateStrings(t, limit)
		return map[string]any(t)
	case []any:
		for i, item := range t {
			t[i] = truncateValue(item, limit)
		}
		return t
	default:
		return v
	}
}
