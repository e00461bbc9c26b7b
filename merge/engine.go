package merge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/faustlauncher/locsync/dataset"
	"github.com/faustlauncher/locsync/discovery"
	"github.com/faustlauncher/locsync/lockfile"
	"github.com/faustlauncher/locsync/policy"
	"github.com/faustlauncher/locsync/translator"
)

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

// DecodeError reports a document that could not be loaded. The document is
// skipped.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("loading %s: %v", e.Path, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// TranslationFailure reports a field whose translation failed. The field
// keeps its source value.
type TranslationFailure struct {
	Doc   string
	ID    string
	Field string
	Text  string
	Err   error
}

func (e *TranslationFailure) Error() string {
	return fmt.Sprintf("%s: record %s field %q (%q): %v", e.Doc, e.ID, e.Field, preview(e.Text, 40), e.Err)
}
func (e *TranslationFailure) Unwrap() error { return e.Err }

// PersistenceError reports a merged document that could not be written.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("writing %s: %v", e.Path, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

// ---------------------------------------------------------------------------
// Document results
// ---------------------------------------------------------------------------

// State is the last stage a document reached.
type State int

const (
	StatePending State = iota
	StateLoaded
	StateDiffed
	StateTranslated
	StatePersisted
	StateFailed
)

var stateNames = [...]string{"pending", "loaded", "diffed", "translated", "persisted", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Status is the outcome of one document attempt.
type Status int

const (
	StatusMerged Status = iota
	StatusSkipped
	StatusUnchanged
	StatusFailed
)

// DocResult describes the processing of one document pair.
type DocResult struct {
	Pair   discovery.Pair
	State  State
	Status Status

	// NewRecords is the number of records copied from the source.
	NewRecords int
	// Translated is the number of fields replaced by a translation.
	Translated int
	// Pending is the number of fields that need translation but were left
	// untranslated because the engine runs dry.
	Pending int
	// Calls is the number of translation requests issued.
	Calls int
	// Written is set when the target file was rewritten.
	Written bool
	// Interrupted is set when the context ended while the document was
	// being translated.
	Interrupted bool

	Failures []*TranslationFailure
}

// Message is a one-line description for progress reporting.
func (d *DocResult) Message() string {
	name := d.Pair.TargetRel
	switch d.Status {
	case StatusSkipped:
		return fmt.Sprintf("skipped %s (blacklisted)", name)
	case StatusUnchanged:
		return fmt.Sprintf("unchanged %s", name)
	case StatusFailed:
		return fmt.Sprintf("failed %s", name)
	}
	msg := fmt.Sprintf("merged %s (+%d records, %d fields", name, d.NewRecords, d.Translated)
	if d.Pending > 0 {
		msg += fmt.Sprintf(", %d pending", d.Pending)
	}
	if len(d.Failures) > 0 {
		msg += fmt.Sprintf(", %d failed", len(d.Failures))
	}
	return msg + ")"
}

// ---------------------------------------------------------------------------
// Engine
// ---------------------------------------------------------------------------

// Options configures an Engine.
type Options struct {
	// Lock records cleanly merged documents so later runs can skip them.
	Lock *lockfile.LockFile
	// Dataset namespaces lock entries when several datasets share one lock.
	Dataset string
	// Force ignores the lock.
	Force bool
	// DryRun computes the merge without calling the service or writing files.
	DryRun bool
	// Direction is passed to every translation call.
	Direction translator.Direction
	// Progress is called after each document attempt.
	Progress func(done, total int, msg string)
	// OnLog emits log messages.
	OnLog func(format string, args ...any)
	// OnError emits error messages.
	OnError func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) logError(format string, args ...any) {
	if o.OnError != nil {
		o.OnError(format, args...)
	} else if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

// writeFile persists a merged document.
var writeFile = dataset.WriteBytes

// Engine merges document pairs, one at a time.
type Engine struct {
	client translator.Client
	policy *policy.Policy
	opts   Options
}

// New creates an Engine. A nil policy uses the default field set.
func New(client translator.Client, pol *policy.Policy, opts Options) *Engine {
	if pol == nil {
		pol = policy.New(nil, "")
	}
	return &Engine{client: client, policy: pol, opts: opts}
}

// LockKey returns the lock entry name of a pair.
func (e *Engine) LockKey(pair discovery.Pair) string {
	if e.opts.Dataset == "" {
		return pair.TargetRel
	}
	return path.Join(e.opts.Dataset, pair.TargetRel)
}

// Run processes every pair in order. A failing document never stops the
// run; a cancelled context stops it between documents.
func (e *Engine) Run(ctx context.Context, pairs []discovery.Pair) *RunResult {
	res := &RunResult{Total: len(pairs)}

	for i, pair := range pairs {
		if err := ctx.Err(); err != nil {
			res.NotProcessed = len(pairs) - i
			res.addError(fmt.Errorf("run stopped before %s: %w", pair.TargetRel, err))
			break
		}

		doc, err := e.ProcessDocument(ctx, pair)
		res.add(doc, err)
		if err != nil {
			e.opts.logError("%v", err)
		}
		if e.opts.Progress != nil {
			e.opts.Progress(i+1, len(pairs), doc.Message())
		}

		if doc.Interrupted {
			res.NotProcessed = len(pairs) - i - 1
			res.addError(fmt.Errorf("run stopped in %s: %w", pair.TargetRel, ctx.Err()))
			break
		}
	}
	return res
}

// ProcessDocument merges one pair. Field-level translation failures are
// reported in the result; the returned error is set only when the document
// as a whole failed.
func (e *Engine) ProcessDocument(ctx context.Context, pair discovery.Pair) (doc *DocResult, err error) {
	doc = &DocResult{Pair: pair}

	defer func() {
		if r := recover(); r != nil {
			doc.State = StateFailed
			doc.Status = StatusFailed
			err = fmt.Errorf("%s: unexpected panic: %v", pair.TargetRel, r)
		}
	}()

	if pair.Blacklisted {
		doc.Status = StatusSkipped
		return doc, nil
	}

	fail := func(ferr error) (*DocResult, error) {
		doc.State = StateFailed
		doc.Status = StatusFailed
		return doc, ferr
	}

	// Loaded
	src, srcBytes, err := dataset.ReadFile(pair.Source)
	if err != nil {
		return fail(&DecodeError{Path: pair.Source, Err: err})
	}

	tgtBytes, tgt, err := e.loadTarget(pair.Target)
	if err != nil {
		return fail(err)
	}

	entry := lockfile.Entry{
		Source: lockfile.Hash(srcBytes),
		Target: lockfile.Hash(tgtBytes),
		Policy: e.policy.Fingerprint(),
	}
	if e.opts.Lock != nil && !e.opts.Force && !e.opts.Lock.IsChanged(e.LockKey(pair), entry) {
		doc.Status = StatusUnchanged
		return doc, nil
	}
	doc.State = StateLoaded

	// Diffed
	missing, matched := Diff(src.Records, tgt.Records)
	doc.State = StateDiffed

	// Translated
	records := newRecordMap(tgt.Records)
	for _, s := range missing {
		records.put(e.createRecord(ctx, doc, s))
	}
	for _, m := range matched {
		e.updateRecord(ctx, doc, m)
	}
	tgt.Records = records.records()
	doc.NewRecords = len(missing)
	doc.State = StateTranslated

	// Persisted
	out, err := tgt.Marshal()
	if err != nil {
		return fail(&PersistenceError{Path: pair.Target, Err: err})
	}
	if e.opts.DryRun {
		doc.State = StatePersisted
		return doc, nil
	}
	if !bytes.Equal(out, tgtBytes) {
		if err := writeFile(pair.Target, out); err != nil {
			return fail(&PersistenceError{Path: pair.Target, Err: err})
		}
		doc.Written = true
		e.opts.log("%s: wrote %d records", pair.TargetRel, len(tgt.Records))
	}
	doc.State = StatePersisted

	if e.opts.Lock != nil {
		if len(doc.Failures) == 0 && !doc.Interrupted {
			entry.Target = lockfile.Hash(out)
			e.opts.Lock.Update(e.LockKey(pair), entry)
		} else {
			e.opts.Lock.Remove(e.LockKey(pair))
		}
	}
	return doc, nil
}

// loadTarget reads the target document. A missing or malformed target is
// replaced by an empty document; the returned bytes are nil when the file
// does not exist.
func (e *Engine) loadTarget(path string) ([]byte, *dataset.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, dataset.Empty(), nil
		}
		return nil, nil, &DecodeError{Path: path, Err: err}
	}
	doc, err := dataset.Decode(data)
	if err != nil {
		e.opts.logError("%s: %v, starting from an empty document", path, err)
		return data, dataset.Empty(), nil
	}
	return data, doc, nil
}

// createRecord builds the target copy of a source-only record.
func (e *Engine) createRecord(ctx context.Context, doc *DocResult, s *dataset.Record) *dataset.Record {
	rec := s.Clone()
	id, _ := rec.ID()
	for _, name := range rec.Fields() {
		if !e.policy.NeedsTranslation(name, valueOf(rec, name), policy.None) {
			continue
		}
		text, _ := rec.String(name)
		if translated, ok := e.translate(ctx, doc, id, name, text); ok {
			rec.Set(name, translated)
		}
	}
	return rec
}

// updateRecord fills a matched target record. Fields the target lacks are
// copied from the source first; translatable fields are translated when the
// policy allows it. Other target fields are left alone.
func (e *Engine) updateRecord(ctx context.Context, doc *DocResult, m MatchedPair) {
	id, _ := m.Target.ID()
	for _, name := range m.Source.Fields() {
		existing := valueOf(m.Target, name)
		if !existing.Present() {
			raw, _ := m.Source.Get(name)
			m.Target.SetRaw(name, raw)
		}
		candidate := valueOf(m.Source, name)
		if !e.policy.NeedsTranslation(name, candidate, existing) {
			continue
		}
		text, _ := candidate.Text()
		if translated, ok := e.translate(ctx, doc, id, name, text); ok {
			m.Target.Set(name, translated)
		}
	}
}

// translate issues one call. It reports false when the field must keep its
// current value.
func (e *Engine) translate(ctx context.Context, doc *DocResult, id, field, text string) (string, bool) {
	if e.opts.DryRun {
		doc.Pending++
		return "", false
	}
	if doc.Interrupted {
		return "", false
	}
	if ctx.Err() != nil {
		doc.Interrupted = true
		return "", false
	}

	doc.Calls++
	res := e.client.Translate(ctx, text, e.opts.Direction)
	if !res.OK() {
		if ctx.Err() != nil {
			doc.Interrupted = true
			return "", false
		}
		doc.Failures = append(doc.Failures, &TranslationFailure{
			Doc:   doc.Pair.TargetRel,
			ID:    id,
			Field: field,
			Text:  text,
			Err:   res.Err,
		})
		return "", false
	}
	doc.Translated++
	return res.Text, true
}

// valueOf returns a record field as a policy value.
func valueOf(r *dataset.Record, name string) policy.Value {
	if s, ok := r.String(name); ok {
		return policy.Some(s)
	}
	if r.Has(name) {
		return policy.NonString
	}
	return policy.None
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// ---------------------------------------------------------------------------
// Run results
// ---------------------------------------------------------------------------

// RunResult aggregates a run.
type RunResult struct {
	// Processed counts documents merged and persisted.
	Processed int
	// Skipped counts blacklisted documents.
	Skipped int
	// Unchanged counts documents skipped through the lock.
	Unchanged int
	// Failed counts documents that could not be merged.
	Failed int
	// NotProcessed counts documents left untouched after cancellation.
	NotProcessed int
	Total        int

	NewRecords       int
	TranslatedFields int
	PendingFields    int
	Calls            int

	// Errors holds every document-level and field-level error message in
	// the order they occurred.
	Errors []string

	Docs []*DocResult

	errs []error
}

func (r *RunResult) addError(err error) {
	r.errs = append(r.errs, err)
	r.Errors = append(r.Errors, err.Error())
}

func (r *RunResult) add(doc *DocResult, err error) {
	r.Docs = append(r.Docs, doc)
	switch doc.Status {
	case StatusSkipped:
		r.Skipped++
	case StatusUnchanged:
		r.Unchanged++
	case StatusFailed:
		r.Failed++
	default:
		r.Processed++
	}
	r.NewRecords += doc.NewRecords
	r.TranslatedFields += doc.Translated
	r.PendingFields += doc.Pending
	r.Calls += doc.Calls
	for _, f := range doc.Failures {
		r.addError(f)
	}
	if err != nil {
		r.addError(err)
	}
}

// Err returns every recorded error as a single multierror, or nil.
func (r *RunResult) Err() error {
	var result *multierror.Error
	for _, err := range r.errs {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// OK reports whether no document failed.
func (r *RunResult) OK() bool {
	return r.Failed == 0
}

// Summary returns the first n error messages, followed by a count of the
// rest. Lines are rendered from Err.
func (r *RunResult) Summary(n int) []string {
	var merr *multierror.Error
	if !errors.As(r.Err(), &merr) {
		return nil
	}
	merr.ErrorFormat = summaryFormat(n)
	return strings.Split(merr.Error(), "\n")
}

// summaryFormat lists at most n errors, one per line.
func summaryFormat(n int) multierror.ErrorFormatFunc {
	return func(errs []error) string {
		lines := make([]string, 0, min(len(errs), n)+1)
		for i, err := range errs {
			if i == n {
				lines = append(lines, fmt.Sprintf("... and %d more", len(errs)-n))
				break
			}
			lines = append(lines, strings.ReplaceAll(err.Error(), "\n", " "))
		}
		return strings.Join(lines, "\n")
	}
}
