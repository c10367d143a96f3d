package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeNode parses JSON into a Node. Integral numbers become Int,
// fractional or exponent-form numbers become Float; json.Decoder with
// UseNumber avoids the float64 round-trip for large integers.
//
// JSON has no tag type, so clause heads decode as String. The clause
// package's matcher normalizes heads transparently, so decoded trees match
// the same way canonically built ones do.
func DecodeNode(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}

	return FromAny(raw)
}

// DecodeDocument is DecodeNode constrained to a top-level mapping, the
// shape query documents take.
func DecodeDocument(data []byte) (Map, error) {
	n, err := DecodeNode(data)
	if err != nil {
		return nil, err
	}
	doc, ok := n.(Map)
	if !ok {
		return nil, fmt.Errorf("query document must be an object, got %T", n)
	}
	return doc, nil
}

// FromAny converts a generically decoded value (encoding/json or yaml.v3
// output) to a Node. Supported inputs: nil, bool, string, integers,
// floats, json.Number, []any, map[string]any, and values that already are
// Nodes.
func FromAny(v any) (Node, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Node:
		return val, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float64:
		// yaml.v3 decodes all JSON-style numbers it cannot prove integral
		// as float64; keep integral values as Int for exact equality.
		if val == float64(int64(val)) {
			return Int(int64(val)), nil
		}
		return Float(val), nil
	case json.Number:
		s := string(val)
		if !strings.ContainsAny(s, ".eE") {
			i, err := val.Int64()
			if err != nil {
				return nil, fmt.Errorf("integer out of int64 range: %s", s)
			}
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number: %s", s)
		}
		return Float(f), nil
	case []any:
		seq := make(Seq, len(val))
		for i, elem := range val {
			n, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("sequence[%d]: %w", i, err)
			}
			seq[i] = n
		}
		return seq, nil
	case map[string]any:
		m := make(Map, len(val))
		for k, elem := range val {
			n, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("mapping[%q]: %w", k, err)
			}
			m[k] = n
		}
		return m, nil
	case map[any]any:
		// YAML decoders produce this shape for some documents; keys must
		// still be strings.
		m := make(Map, len(val))
		for k, elem := range val {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("mapping key must be a string, got %T", k)
			}
			n, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("mapping[%q]: %w", key, err)
			}
			m[key] = n
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}

// MarshalJSON implements json.Marshaler. Tags serialize as plain strings;
// the tag/string distinction exists only in memory.
func (t Tag) MarshalJSON() ([]byte, error) { return json.Marshal(string(t)) }

// MarshalJSON implements json.Marshaler.
func (Null) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalJSON implements json.Marshaler with keys in SortedKeys order, so
// the same document always serializes to the same bytes.
func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range m.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := MarshalNode(m[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler.
func (s Seq) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, elem := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := MarshalNode(elem)
		if err != nil {
			return nil, fmt.Errorf("sequence[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalNode marshals any Node to JSON via type-switch dispatch.
// A nil Node marshals as null, matching an absent optional clause.
func MarshalNode(n Node) ([]byte, error) {
	switch v := n.(type) {
	case nil:
		return []byte("null"), nil
	case Tag:
		return json.Marshal(string(v))
	case String:
		return json.Marshal(string(v))
	case Int:
		return json.Marshal(int64(v))
	case Float:
		return json.Marshal(float64(v))
	case Bool:
		return json.Marshal(bool(v))
	case Null:
		return []byte("null"), nil
	case Seq:
		return v.MarshalJSON()
	case Map:
		return v.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown Node type: %T", n)
	}
}
