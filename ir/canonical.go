package ir

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces canonical JSON for content-addressed identity.
// Two structurally equal documents always produce identical bytes.
//
// Differences from MarshalNode:
//  1. Object keys sorted by UTF-16 code units (RFC 8785 ordering)
//  2. Strings are NFC normalized
//  3. No HTML escaping (< > & stay literal)
//  4. Only control characters, backslash, and quote are escaped
//
// Floats use shortest round-trip formatting, so canonical bytes of a tree
// containing floats are stable but not RFC 8785 number-grammar exact.
func MarshalCanonical(n Node) ([]byte, error) {
	switch v := n.(type) {
	case nil:
		return nil, fmt.Errorf("cannot canonically marshal a nil Node")
	case Tag:
		return appendCanonicalString(nil, string(v)), nil
	case String:
		return appendCanonicalString(nil, string(v)), nil
	case Int:
		return strconv.AppendInt(nil, int64(v), 10), nil
	case Float:
		return strconv.AppendFloat(nil, float64(v), 'g', -1, 64), nil
	case Bool:
		if v {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case Null:
		return []byte("null"), nil
	case Seq:
		return marshalCanonicalSeq(v)
	case Map:
		return marshalCanonicalMap(v)
	default:
		return nil, fmt.Errorf("unknown Node type: %T", n)
	}
}

// appendCanonicalString encodes a JSON string per RFC 8785: NFC normalized,
// with only quote, backslash, and control characters escaped. Control
// characters with conventional short escapes use them; the rest use \u00XX.
func appendCanonicalString(buf []byte, s string) []byte {
	s = norm.NFC.String(s)

	buf = append(buf, '"')
	for _, r := range s {
		switch r {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			if r < 0x20 {
				buf = append(buf, fmt.Sprintf(`\u%04x`, r)...)
			} else {
				buf = utf8Append(buf, r)
			}
		}
	}
	return append(buf, '"')
}

func utf8Append(buf []byte, r rune) []byte {
	return append(buf, string(r)...)
}

func marshalCanonicalSeq(s Seq) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, elem := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := MarshalCanonical(elem)
		if err != nil {
			return nil, fmt.Errorf("sequence[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCanonicalMap(m Map) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range m.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(appendCanonicalString(nil, k))
		buf.WriteByte(':')

		valBytes, err := MarshalCanonical(m[k])
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// compareKeysRFC8785 compares strings by UTF-16 code units, the ordering
// RFC 8785 requires for object keys. Go's native string comparison is
// UTF-8 byte order, which differs for characters outside the BMP.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}
