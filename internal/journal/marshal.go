package journal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/tally/internal/ir"
)

// marshalArgs serializes op args to canonical JSON for storage.
// Canonical form keeps stored bytes deterministic, so journal rows can be
// compared byte-for-byte during replay verification.
func marshalArgs(args map[string]any) (string, error) {
	if args == nil {
		args = map[string]any{}
	}
	data, err := ir.MarshalCanonical(args)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

// unmarshalArgs decodes a stored args column back into a map.
// Numbers decode as int64; floats are rejected (they can never have been
// written, so finding one means the row is corrupt).
func unmarshalArgs(data string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}

	val, err := fromJSONValue(raw)
	if err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}

	obj, ok := val.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unmarshal args: expected object, got %T", val)
	}
	return obj, nil
}

// fromJSONValue converts a decoded JSON value to journal-native types.
func fromJSONValue(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in stored args")
	case string, bool:
		return val, nil
	case json.Number:
		s := string(val)
		if strings.ContainsAny(s, ".eE") {
			return nil, fmt.Errorf("floats are forbidden in stored args: %s", s)
		}
		return val.Int64()
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			conv, err := fromJSONValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = conv
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			conv, err := fromJSONValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			out[k] = conv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}
