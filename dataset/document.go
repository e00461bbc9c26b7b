package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// ListKey is the name of the top-level array holding the records.
const ListKey = "dataList"

// utf8BOM is the byte-order mark some editors prepend to UTF-8 files.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrInvalidUTF8 is returned when a document is not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// ---------------------------------------------------------------------------
// Document model
// ---------------------------------------------------------------------------

// Document is a parsed dataset file.
type Document struct {
	// Records holds the dataList elements in order.
	Records []*Record
	// head holds every top-level key in document order. The dataList entry
	// is a placeholder; its value is rebuilt from Records on output.
	head []field
}

// Empty returns a document with an empty dataList.
func Empty() *Document {
	return &Document{head: []field{{key: ListKey}}}
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ReadFile reads and decodes a document from disk. The raw file bytes are
// returned alongside the document. Decode errors are returned unwrapped;
// callers add the path.
func ReadFile(path string) (*Document, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, data, err
	}
	return doc, data, nil
}

// Decode parses document bytes. A leading UTF-8 byte-order mark is
// tolerated; the remaining bytes must be strict UTF-8 JSON.
func Decode(data []byte) (*Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}

	fields, err := parseObject(data)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	doc := &Document{}
	hasList := false
	for _, f := range fields {
		if f.key != ListKey {
			doc.head = append(doc.head, f)
			continue
		}
		hasList = true
		records, err := parseList(f.raw)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", ListKey, err)
		}
		doc.Records = records
		doc.head = append(doc.head, field{key: ListKey})
	}
	if !hasList {
		doc.head = append(doc.head, field{key: ListKey})
	}
	return doc, nil
}

// parseList decodes the dataList array. A null list is treated as empty.
func parseList(raw json.RawMessage) ([]*Record, error) {
	if string(raw) == "null" {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	records := make([]*Record, 0, len(items))
	for i, item := range items {
		r, err := ParseRecord(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Marshal serialises the document with 2-space indentation, original key
// order and literal non-ASCII text. The output ends with a newline.
func (d *Document) Marshal() ([]byte, error) {
	var compact bytes.Buffer
	head := d.head
	if len(head) == 0 {
		head = []field{{key: ListKey}}
	}

	compact.WriteByte('{')
	for i, f := range head {
		if i > 0 {
			compact.WriteByte(',')
		}
		compact.Write(encodeString(f.key))
		compact.WriteByte(':')
		if f.key == ListKey {
			d.writeList(&compact)
			continue
		}
		compact.Write(f.raw)
	}
	compact.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("formatting document: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func (d *Document) writeList(buf *bytes.Buffer) {
	buf.WriteByte('[')
	for i, r := range d.Records {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeObject(buf, r.fields)
	}
	buf.WriteByte(']')
}

// WriteBytes writes already-encoded document bytes to path, creating parent
// directories as needed. The file is replaced through a temporary file in
// the same directory so a failed write never leaves a truncated document.
func WriteBytes(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".locsync-*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	_ = os.Chmod(tmpPath, 0644)
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
