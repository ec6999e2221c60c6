package providers

import (
	"fmt"

	"github.com/cgradwohl/message-log-service/internal/domain"
)

// DeliveryStrategy tags how delivery confirmation is obtained for a provider.
// The polling scheduler consumes this tag; the aggregator only uses the
// timestamp and reference hooks.
type DeliveryStrategy string

const (
	DeliverImmediately DeliveryStrategy = "DELIVER_IMMEDIATELY"
	Polling            DeliveryStrategy = "POLLING"
	Webhook            DeliveryStrategy = "WEBHOOK"
)

// Capability describes the per-provider hooks used to interpret raw provider
// responses. Hook funcs may be nil when a provider has nothing to extract.
type Capability struct {
	Strategy DeliveryStrategy

	// DeliveredTimestamp extracts the delivery time (epoch ms) from the
	// raw delivered response; 0 means the response carries none.
	DeliveredTimestamp func(response domain.Payload) int64

	// Reference builds the provider-specific external reference from the
	// raw sent and delivered responses.
	Reference func(sent, delivered domain.Payload) map[string]string
}

// Registry is the capability lookup table, keyed by provider identifier.
type Registry struct {
	caps map[string]Capability
}

// NewRegistry creates a registry preloaded with the built-in providers.
func NewRegistry() *Registry {
	r := &Registry{caps: make(map[string]Capability)}
	registerBuiltins(r)
	return r
}

// Register adds or replaces a provider capability.
func (r *Registry) Register(provider string, capability Capability) {
	r.caps[provider] = capability
}

// Lookup returns the capability for a provider. An unknown key is a
// configuration defect, not a timing gap, so it fails loudly.
func (r *Registry) Lookup(provider string) (Capability, error) {
	capability, ok := r.caps[provider]
	if !ok {
		return Capability{}, fmt.Errorf("unknown provider %q: no capability registered", provider)
	}
	return capability, nil
}

// deliveredTimestamp applies the timestamp hook to a raw response. A nil
// response or missing hook yields 0.
func (c Capability) deliveredTimestamp(response domain.Payload) int64 {
	if response == nil || c.DeliveredTimestamp == nil {
		return 0
	}
	return c.DeliveredTimestamp(response)
}

// ExtractDeliveredTimestamp is the registry-level convenience used by the
// projector and aggregator: look up the provider and apply its timestamp
// hook.
func (r *Registry) ExtractDeliveredTimestamp(provider string, response domain.Payload) (int64, error) {
	capability, err := r.Lookup(provider)
	if err != nil {
		return 0, err
	}
	return capability.deliveredTimestamp(response), nil
}

// ExtractReference looks up the provider and applies its reference hook to
// the raw sent and delivered responses.
func (r *Registry) ExtractReference(provider string, sent, delivered domain.Payload) (map[string]string, error) {
	capability, err := r.Lookup(provider)
	if err != nil {
		return nil, err
	}
	if capability.Reference == nil {
		return nil, nil
	}
	return capability.Reference(sent, delivered), nil
}
