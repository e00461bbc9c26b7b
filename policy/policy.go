// Package policy decides, per record field, whether automatic translation
// should run.
package policy

import (
	"crypto/md5"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// DefaultFields are the record fields translated when no list is configured.
var DefaultFields = []string{"content", "teller", "dlg", "desc", "dialog", "abName", "name"}

// DefaultSentinel marks a field value that must be left as it is.
const DefaultSentinel = "??"

// ---------------------------------------------------------------------------
// Optional values
// ---------------------------------------------------------------------------

// Value is an optional field value as seen by the policy.
type Value struct {
	s       string
	present bool
	isText  bool
}

// None is an absent value.
var None = Value{}

// Some returns a present string value.
func Some(s string) Value {
	return Value{s: s, present: true, isText: true}
}

// NonString is a present value that is not a JSON string.
var NonString = Value{present: true}

// Present reports whether the value exists.
func (v Value) Present() bool { return v.present }

// Text returns the string and whether the value is a present string.
func (v Value) Text() (string, bool) { return v.s, v.present && v.isText }

// ---------------------------------------------------------------------------
// Policy
// ---------------------------------------------------------------------------

// Policy holds the translatable field set and the "leave as-is" marker.
type Policy struct {
	fields   map[string]bool
	names    []string
	sentinel string
}

// New builds a policy. Empty arguments fall back to DefaultFields and
// DefaultSentinel.
func New(fields []string, sentinel string) *Policy {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	if sentinel == "" {
		sentinel = DefaultSentinel
	}
	p := &Policy{fields: make(map[string]bool, len(fields)), sentinel: sentinel}
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || p.fields[f] {
			continue
		}
		p.fields[f] = true
		p.names = append(p.names, f)
	}
	return p
}

// Fields returns the translatable field names in configured order.
func (p *Policy) Fields() []string {
	return append([]string(nil), p.names...)
}

// Translatable reports whether name is in the translatable field set.
func (p *Policy) Translatable(name string) bool {
	return p.fields[name]
}

// Sentinel returns the "leave as-is" marker.
func (p *Policy) Sentinel() string { return p.sentinel }

// NeedsTranslation applies the eligibility rules in order:
//  1. the field must be translatable;
//  2. the candidate must be a non-blank string;
//  3. an existing value carrying the sentinel is never overwritten;
//  4. text that already contains target-language ideographs, in the
//     candidate or in the existing value, is not translated again.
//
// The same rules serve new and existing records, so a field translated on
// an earlier run stops triggering calls.
func (p *Policy) NeedsTranslation(name string, candidate, existing Value) bool {
	if !p.fields[name] {
		return false
	}
	text, ok := candidate.Text()
	if !ok || strings.TrimSpace(text) == "" {
		return false
	}
	if cur, ok := existing.Text(); ok {
		if strings.Contains(cur, p.sentinel) {
			return false
		}
		if HasIdeograph(cur) {
			return false
		}
	}
	if HasIdeograph(text) {
		return false
	}
	return true
}

// Fingerprint is a stable digest of the field set and sentinel. Changing
// either invalidates previously recorded sync checksums.
func (p *Policy) Fingerprint() string {
	names := p.Fields()
	sort.Strings(names)
	sum := md5.Sum([]byte(strings.Join(names, "\x00") + "\x01" + p.sentinel))
	return fmt.Sprintf("%x", sum)
}

// ---------------------------------------------------------------------------
// Script detection
// ---------------------------------------------------------------------------

// HasIdeograph reports whether s contains a CJK unified ideograph
// (U+4E00..U+9FFF). This is a coarse script check, not a language
// classifier.
func HasIdeograph(s string) bool {
	for _, r := range s {
		if r >= '\u4e00' && r <= '\u9fff' {
			return true
		}
	}
	return false
}

// HasLetter reports whether s contains any alphabetic character.
func HasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
