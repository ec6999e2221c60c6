package providers

import (
	"strconv"
	"strings"
	"time"

	"github.com/cgradwohl/message-log-service/internal/domain"
)

// registerBuiltins wires the providers this deployment ships with. Response
// shapes follow each provider's actual API.
func registerBuiltins(r *Registry) {
	r.Register("sendgrid", Capability{
		Strategy: Polling,
		// SendGrid events carry a unix-seconds timestamp.
		DeliveredTimestamp: func(response domain.Payload) int64 {
			if ts := response.GetInt64("timestamp"); ts > 0 {
				return ts * 1000
			}
			return 0
		},
		Reference: func(sent, delivered domain.Payload) map[string]string {
			id := sent.GetString("x-message-id")
			if id == "" {
				id = delivered.GetString("sg_message_id")
			}
			if id == "" {
				return nil
			}
			return map[string]string{"x-message-id": id}
		},
	})

	r.Register("twilio", Capability{
		Strategy: Polling,
		// Twilio statuses carry RFC 2822 dates.
		DeliveredTimestamp: func(response domain.Payload) int64 {
			raw := response.GetString("date_updated")
			if raw == "" {
				return 0
			}
			t, err := time.Parse(time.RFC1123Z, raw)
			if err != nil {
				return 0
			}
			return t.UnixMilli()
		},
		Reference: func(sent, delivered domain.Payload) map[string]string {
			sid := sent.GetString("sid")
			if sid == "" {
				sid = delivered.GetString("sid")
			}
			if sid == "" {
				return nil
			}
			return map[string]string{"sid": sid}
		},
	})

	r.Register("slack", Capability{
		Strategy: Webhook,
		// chat.postMessage returns ts as fractional unix seconds.
		DeliveredTimestamp: func(response domain.Payload) int64 {
			raw := response.GetString("ts")
			if raw == "" {
				return 0
			}
			sec, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return 0
			}
			return int64(sec * 1000)
		},
		// Slack messages are addressed by the (channel, ts) pair.
		Reference: func(sent, delivered domain.Payload) map[string]string {
			ts := sent.GetString("ts")
			if ts == "" {
				ts = delivered.GetString("ts")
			}
			channel := sent.GetString("channel")
			if channel == "" {
				channel = delivered.GetString("channel")
			}
			if ts == "" && channel == "" {
				return nil
			}
			return map[string]string{"ts": ts, "channel": channel}
		},
	})

	r.Register("expo", Capability{
		Strategy: Polling,
		Reference: func(sent, delivered domain.Payload) map[string]string {
			ref := map[string]string{}
			if ticket := sent.GetString("data", "id"); ticket != "" {
				ref["ticket"] = ticket
			}
			if receipt := delivered.GetString("id"); receipt != "" {
				ref["receipt"] = receipt
			}
			if len(ref) == 0 {
				return nil
			}
			return ref
		},
	})

	r.Register("firebase-fcm", Capability{
		Strategy: DeliverImmediately,
		// FCM send responses name the message projects/*/messages/{id}.
		Reference: func(sent, delivered domain.Payload) map[string]string {
			name := sent.GetString("name")
			if name == "" {
				return nil
			}
			parts := strings.Split(name, "/")
			return map[string]string{"message_id": parts[len(parts)-1]}
		},
	})
}
