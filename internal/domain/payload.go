package domain

import "encoding/json"

// Payload is an event-specific JSON payload. Shapes vary by event type and by
// age of the record, so access goes through the defensive helpers below.
type Payload map[string]any

// AsPayload coerces a value into a Payload. Older records stored payloads as
// JSON-encoded strings; newer ones store parsed objects. Anything else yields
// nil.
func AsPayload(v any) Payload {
	switch p := v.(type) {
	case nil:
		return nil
	case Payload:
		return p
	case map[string]any:
		return Payload(p)
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(p), &m); err != nil {
			return nil
		}
		return m
	default:
		return nil
	}
}

// GetString walks nested maps along path and returns the string leaf, or ""
// when any segment is missing or not a string.
func (p Payload) GetString(path ...string) string {
	v := p.get(path...)
	s, _ := v.(string)
	return s
}

// GetInt64 returns the numeric leaf at path as int64. JSON numbers decode as
// float64, so both representations are accepted.
func (p Payload) GetInt64(path ...string) int64 {
	switch v := p.get(path...).(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	default:
		return 0
	}
}

// GetBool returns the boolean leaf at path, and whether it was present.
func (p Payload) GetBool(path ...string) (bool, bool) {
	b, ok := p.get(path...).(bool)
	return b, ok
}

// GetPayload returns the sub-object at path, tolerating JSON-encoded strings.
func (p Payload) GetPayload(path ...string) Payload {
	return AsPayload(p.get(path...))
}

func (p Payload) get(path ...string) any {
	if p == nil {
		return nil
	}
	var cur any = map[string]any(p)
	for _, key := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[key]
		if !ok {
			return nil
		}
	}
	return cur
}

// IsExternal reports whether the payload is a pointer into blob storage, and
// if so the blob path.
func (p Payload) IsExternal() (string, bool) {
	if p.GetString("type") != PayloadTypeExternal {
		return "", false
	}
	path := p.GetString("path")
	return path, path != ""
}

// Clone produces a shallow copy one level deep, enough to normalize a payload
// without mutating the stored item.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
