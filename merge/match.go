// Package merge brings a target dataset document up to date with its source
// document.
//
// Records are matched by id. Records that exist only in the source are
// copied into the target with their translatable fields translated; records
// present in both keep their target values except for fields that still need
// translation. Target records are never removed.
package merge

import (
	"github.com/faustlauncher/locsync/dataset"
)

// MatchedPair is a target record together with the source record of the same id.
type MatchedPair struct {
	Source *dataset.Record
	Target *dataset.Record
}

// Diff compares the records of a source and a target document.
//   - missing holds source records whose id is absent from the target, in
//     source order. A repeated source id is reported once.
//   - matched pairs every target record whose id exists in the source with
//     the first source record of that id, in target order.
//
// Records without a usable id are ignored on both sides.
func Diff(source, target []*dataset.Record) (missing []*dataset.Record, matched []MatchedPair) {
	bySource := make(map[string]*dataset.Record, len(source))
	for _, r := range source {
		id, ok := r.ID()
		if !ok {
			continue
		}
		if _, dup := bySource[id]; !dup {
			bySource[id] = r
		}
	}

	inTarget := make(map[string]bool, len(target))
	for _, r := range target {
		id, ok := r.ID()
		if !ok {
			continue
		}
		inTarget[id] = true
		if s, ok := bySource[id]; ok {
			matched = append(matched, MatchedPair{Source: s, Target: r})
		}
	}

	for _, r := range source {
		id, ok := r.ID()
		if !ok || inTarget[id] {
			continue
		}
		inTarget[id] = true
		missing = append(missing, r)
	}
	return missing, matched
}

// ---------------------------------------------------------------------------
// Ordered record map
// ---------------------------------------------------------------------------

// recordMap is an id-keyed map that remembers insertion order. Records
// without an id keep their position but cannot be looked up.
type recordMap struct {
	order []*dataset.Record
	byID  map[string]int
}

func newRecordMap(records []*dataset.Record) *recordMap {
	m := &recordMap{
		order: make([]*dataset.Record, 0, len(records)),
		byID:  make(map[string]int, len(records)),
	}
	for _, r := range records {
		// Duplicate ids already in the document are kept; lookups see the first.
		if id, ok := r.ID(); ok {
			if _, exists := m.byID[id]; !exists {
				m.byID[id] = len(m.order)
			}
		}
		m.order = append(m.order, r)
	}
	return m
}

// put replaces the record with the same id in place, or appends r.
func (m *recordMap) put(r *dataset.Record) {
	id, ok := r.ID()
	if !ok {
		m.order = append(m.order, r)
		return
	}
	if idx, exists := m.byID[id]; exists {
		m.order[idx] = r
		return
	}
	m.byID[id] = len(m.order)
	m.order = append(m.order, r)
}

func (m *recordMap) records() []*dataset.Record {
	return m.order
}
