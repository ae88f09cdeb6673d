package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"time"
	"unicode/utf8"
)

// Blob layout: every node is a JSON object {"t":<kind>,"v":<payload>}.
//
//	str   -> JSON string, valid UTF-8 only
//	int   -> JSON integer
//	float -> JSON string (strconv 'g', so NaN and +Inf/-Inf survive)
//	bool  -> JSON bool
//	time  -> JSON string, RFC 3339 with nanoseconds, years 0000-9999
//	list  -> JSON array of nodes, in order
//	set   -> JSON array of nodes, sorted by node encoding
//	map   -> JSON object of nodes, keys sorted
//
// There is no version header. Forward compatibility rests on the kind set
// being closed.

// blobTimeLayout keeps the zone offset so naive timestamps read back with the
// same wall clock they were written with.
const blobTimeLayout = time.RFC3339Nano

// ValidText reports whether s survives the blob layout unchanged. JSON
// strings can not carry invalid UTF-8.
func ValidText(s string) bool {
	return utf8.ValidString(s)
}

// TimeInRange reports whether t survives the blob layout unchanged. RFC 3339
// has a four digit year.
func TimeInRange(t time.Time) bool {
	y := t.Year()
	return y >= 0 && y <= 9999
}

// EncodeBlob serializes a value for storage in a blob column.
// Text that is not valid UTF-8 and times outside TimeInRange are rejected.
func EncodeBlob(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeNode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeNode(buf *bytes.Buffer, v Value) error {
	kind := Kind(v)
	if kind == "" {
		return fmt.Errorf("unknown Value type: %T", v)
	}

	buf.WriteString(`{"t":"`)
	buf.WriteString(kind)
	buf.WriteString(`","v":`)

	switch val := v.(type) {
	case String:
		if !ValidText(string(val)) {
			return fmt.Errorf("str %q: invalid UTF-8", string(val))
		}
		if err := writeJSONString(buf, string(val)); err != nil {
			return err
		}
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Float:
		if err := writeJSONString(buf, strconv.FormatFloat(float64(val), 'g', -1, 64)); err != nil {
			return err
		}
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case Time:
		if !TimeInRange(time.Time(val)) {
			return fmt.Errorf("time: year %d outside 0000-9999", time.Time(val).Year())
		}
		if err := writeJSONString(buf, time.Time(val).Format(blobTimeLayout)); err != nil {
			return err
		}
	case List:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeNode(buf, elem); err != nil {
				return fmt.Errorf("list[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case Set:
		elems := make([][]byte, 0, len(val))
		for i, elem := range val {
			data, err := EncodeBlob(elem)
			if err != nil {
				return fmt.Errorf("set[%d]: %w", i, err)
			}
			elems = append(elems, data)
		}
		slices.SortFunc(elems, bytes.Compare)
		elems = slices.CompactFunc(elems, bytes.Equal)
		buf.WriteByte('[')
		buf.Write(bytes.Join(elems, []byte{','}))
		buf.WriteByte(']')
	case Map:
		buf.WriteByte('{')
		for i, k := range val.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if !ValidText(k) {
				return fmt.Errorf("map key %q: invalid UTF-8", k)
			}
			if err := writeJSONString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := encodeNode(buf, val[k]); err != nil {
				return fmt.Errorf("map[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
	}

	buf.WriteByte('}')
	return nil
}

// writeJSONString writes s as a JSON string without HTML escaping.
func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encoder adds a trailing newline, remove it
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}

// blobNode is the wire shape of one encoded value.
type blobNode struct {
	T string          `json:"t"`
	V json.RawMessage `json:"v"`
}

// DecodeBlob parses a blob produced by EncodeBlob.
// An empty blob decodes to a nil Value.
func DecodeBlob(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return decodeNode(data)
}

func decodeNode(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var node blobNode
	if err := dec.Decode(&node); err != nil {
		return nil, fmt.Errorf("decode blob node: %w", err)
	}

	switch node.T {
	case KindString:
		var s string
		if err := json.Unmarshal(node.V, &s); err != nil {
			return nil, fmt.Errorf("decode %s: %w", node.T, err)
		}
		return String(s), nil

	case KindInt:
		var n json.Number
		if err := json.Unmarshal(node.V, &n); err != nil {
			return nil, fmt.Errorf("decode %s: %w", node.T, err)
		}
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", node.T, err)
		}
		return Int(i), nil

	case KindFloat:
		var s string
		if err := json.Unmarshal(node.V, &s); err != nil {
			return nil, fmt.Errorf("decode %s: %w", node.T, err)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", node.T, err)
		}
		return Float(f), nil

	case KindBool:
		var b bool
		if err := json.Unmarshal(node.V, &b); err != nil {
			return nil, fmt.Errorf("decode %s: %w", node.T, err)
		}
		return Bool(b), nil

	case KindTime:
		var s string
		if err := json.Unmarshal(node.V, &s); err != nil {
			return nil, fmt.Errorf("decode %s: %w", node.T, err)
		}
		t, err := time.Parse(blobTimeLayout, s)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", node.T, err)
		}
		return Time(t), nil

	case KindList, KindSet:
		var raw []json.RawMessage
		if err := json.Unmarshal(node.V, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", node.T, err)
		}
		elems := make([]Value, len(raw))
		for i, r := range raw {
			elem, err := decodeNode(r)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", node.T, i, err)
			}
			elems[i] = elem
		}
		if node.T == KindSet {
			return NewSet(elems...), nil
		}
		return List(elems), nil

	case KindMap:
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(node.V, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", node.T, err)
		}
		m := make(Map, len(raw))
		for k, r := range raw {
			elem, err := decodeNode(r)
			if err != nil {
				return nil, fmt.Errorf("map[%q]: %w", k, err)
			}
			m[k] = elem
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unknown blob kind %q", node.T)
	}
}
