// Package dataset implements reading and writing of localized JSON dataset
// documents.
//
// A document is a JSON object whose "dataList" array holds the records:
//
//	{
//	  "dataList": [
//	    { "id": 1, "content": "Hello", "model": "..." }
//	  ]
//	}
//
// Round-trip fidelity: key order is preserved at every level, values that
// are not rewritten keep their original JSON encoding, and top-level keys
// other than "dataList" are carried through unchanged.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strconv"
)

// ---------------------------------------------------------------------------
// Record model
// ---------------------------------------------------------------------------

// field is a single key of a JSON object, kept in document order.
type field struct {
	key string
	raw json.RawMessage
}

// Record is one element of a document's dataList: an ordered mapping from
// field name to raw JSON value.
type Record struct {
	fields []field
	// index maps field name → position in fields.
	index map[string]int
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{index: make(map[string]int)}
}

// ParseRecord parses a JSON object into a Record.
func ParseRecord(data []byte) (*Record, error) {
	fields, err := parseObject(data)
	if err != nil {
		return nil, err
	}
	r := NewRecord()
	for _, f := range fields {
		r.setRaw(f.key, f.raw)
	}
	return r, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// ID returns the record identifier as a comparable key. Numbers compare by
// value (1 and 1.0 are the same id), strings by their decoded text, and a
// number never equals a string. Records whose id is absent, null, empty,
// zero or false have no usable id.
func (r *Record) ID() (string, bool) {
	raw, ok := r.Get("id")
	if !ok {
		return "", false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}

	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return "", false
		}
		return strconv.Quote(s), true
	case c == '-' || (c >= '0' && c <= '9'):
		return numberID(string(raw))
	}

	switch string(raw) {
	case "null", "false":
		return "", false
	}
	return string(raw), true
}

// numberID canonicalizes a JSON number so equal values share one key.
func numberID(text string) (string, bool) {
	f, _, err := big.ParseFloat(text, 10, 256, big.ToNearestEven)
	if err != nil {
		return text, true
	}
	if f.Sign() == 0 {
		return "", false
	}
	return f.Text('g', -1), true
}

// Get returns the raw JSON value of a field.
func (r *Record) Get(name string) (json.RawMessage, bool) {
	idx, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.fields[idx].raw, true
}

// String returns the value of a field when it holds a JSON string.
func (r *Record) String(name string) (string, bool) {
	raw, ok := r.Get(name)
	if !ok || len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Has reports whether the record carries the named field.
func (r *Record) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Set stores a string value. An existing field is replaced in place, a new
// one is appended after the existing fields.
func (r *Record) Set(name, value string) {
	r.setRaw(name, encodeString(value))
}

// SetRaw stores a raw JSON value.
func (r *Record) SetRaw(name string, raw json.RawMessage) {
	r.setRaw(name, append(json.RawMessage(nil), raw...))
}

func (r *Record) setRaw(name string, raw json.RawMessage) {
	if idx, ok := r.index[name]; ok {
		r.fields[idx].raw = raw
		return
	}
	r.index[name] = len(r.fields)
	r.fields = append(r.fields, field{key: name, raw: raw})
}

// Fields returns the field names in document order.
func (r *Record) Fields() []string {
	names := make([]string, len(r.fields))
	for i, f := range r.fields {
		names[i] = f.key
	}
	return names
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.fields) }

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := &Record{
		fields: make([]field, len(r.fields)),
		index:  make(map[string]int, len(r.index)),
	}
	for i, f := range r.fields {
		c.fields[i] = field{key: f.key, raw: append(json.RawMessage(nil), f.raw...)}
		c.index[f.key] = i
	}
	return c
}

// MarshalJSON encodes the record as a compact JSON object in field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeObject(&buf, r.fields)
	return buf.Bytes(), nil
}

// ---------------------------------------------------------------------------
// Ordered object helpers
// ---------------------------------------------------------------------------

// parseObject decodes a JSON object into its fields, preserving key order.
// A repeated key keeps its first position and its last value.
func parseObject(data []byte) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var fields []field
	seen := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("value for %q: %w", key, err)
		}
		raw = canonical(raw)

		if idx, ok := seen[key]; ok {
			fields[idx].raw = raw
			continue
		}
		seen[key] = len(fields)
		fields = append(fields, field{key: key, raw: raw})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after object")
	}
	return fields, nil
}

// canonical compacts a raw value and re-encodes JSON strings so that
// non-ASCII text is written literally instead of as \u escapes.
func canonical(raw json.RawMessage) json.RawMessage {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return encodeString(s)
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

// encodeString encodes s as a JSON string without HTML escaping.
func encodeString(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}

// writeObject writes fields as a compact JSON object.
func writeObject(buf *bytes.Buffer, fields []field) {
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(encodeString(f.key))
		buf.WriteByte(':')
		if len(f.raw) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(f.raw)
		}
	}
	buf.WriteByte('}')
}
