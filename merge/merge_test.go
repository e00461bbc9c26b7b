package merge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/faustlauncher/locsync/dataset"
	"github.com/faustlauncher/locsync/discovery"
	"github.com/faustlauncher/locsync/lockfile"
	"github.com/faustlauncher/locsync/policy"
	"github.com/faustlauncher/locsync/translator"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// fakeClient prefixes text with an ideograph so translated values are
// recognizable and never translated twice.
type fakeClient struct {
	calls []string
	fail  map[string]bool
	hook  func(text string)
}

func (f *fakeClient) Translate(ctx context.Context, text string, dir translator.Direction) translator.Result {
	f.calls = append(f.calls, text)
	if f.hook != nil {
		f.hook(text)
	}
	if err := ctx.Err(); err != nil {
		return translator.Fail(err)
	}
	if f.fail[text] {
		return translator.Fail(errors.New("service unavailable"))
	}
	return translator.Ok("译:" + text)
}

type fixture struct {
	src, tgt string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	return &fixture{src: filepath.Join(dir, "src"), tgt: filepath.Join(dir, "tgt")}
}

func writeText(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

// pair writes the given source (and target, unless empty) and returns the
// matching document pair for name.
func (f *fixture) pair(t *testing.T, name, source, target string) discovery.Pair {
	t.Helper()
	p := discovery.Pair{
		Source:    filepath.Join(f.src, "EN_"+name),
		Target:    filepath.Join(f.tgt, name),
		Rel:       "EN_" + name,
		TargetRel: name,
	}
	writeText(t, p.Source, source)
	if target != "" {
		writeText(t, p.Target, target)
	}
	return p
}

func records(t *testing.T, path string) map[string]*dataset.Record {
	t.Helper()
	doc, _, err := dataset.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", path, err)
	}
	byID := make(map[string]*dataset.Record)
	for _, r := range doc.Records {
		if id, ok := r.ID(); ok {
			byID[id] = r
		}
	}
	return byID
}

func fieldOf(t *testing.T, r *dataset.Record, name string) string {
	t.Helper()
	if r == nil {
		t.Fatalf("record missing")
	}
	s, ok := r.String(name)
	if !ok {
		t.Fatalf("field %q missing", name)
	}
	return s
}

func parseRecords(t *testing.T, items ...string) []*dataset.Record {
	t.Helper()
	out := make([]*dataset.Record, len(items))
	for i, item := range items {
		r, err := dataset.ParseRecord([]byte(item))
		if err != nil {
			t.Fatalf("ParseRecord(%s): %v", item, err)
		}
		out[i] = r
	}
	return out
}

// ---------------------------------------------------------------------------
// Diff
// ---------------------------------------------------------------------------

func TestDiff(t *testing.T) {
	source := parseRecords(t,
		`{"id":1,"content":"a"}`,
		`{"id":2,"content":"b"}`,
		`{"content":"no id"}`,
		`{"id":3,"content":"c"}`,
		`{"id":3,"content":"c again"}`,
		`{"id":"2","content":"string id"}`,
	)
	target := parseRecords(t,
		`{"id":2,"content":"B"}`,
		`{"id":9,"content":"orphan"}`,
		`{"id":null,"content":"no id"}`,
	)

	missing, matched := Diff(source, target)

	var ids []string
	for _, r := range missing {
		id, _ := r.ID()
		ids = append(ids, id)
	}
	if got := strings.Join(ids, ","); got != `1,3,"2"` {
		t.Fatalf("missing ids = %s, want 1,3,\"2\"", got)
	}
	if s, _ := missing[1].String("content"); s != "c" {
		t.Fatalf("duplicate id resolved to %q, want first record", s)
	}

	if len(matched) != 1 {
		t.Fatalf("matched = %d, want 1", len(matched))
	}
	if s, _ := matched[0].Source.String("content"); s != "b" {
		t.Fatalf("matched source content = %q, want b", s)
	}
	if s, _ := matched[0].Target.String("content"); s != "B" {
		t.Fatalf("matched target content = %q, want B", s)
	}
}

func TestRecordMapKeepsDuplicates(t *testing.T) {
	m := newRecordMap(parseRecords(t, `{"id":1,"v":"a"}`, `{"id":1,"v":"b"}`, `{"v":"c"}`))
	m.put(parseRecords(t, `{"id":2,"v":"d"}`)[0])
	m.put(parseRecords(t, `{"id":1,"v":"e"}`)[0])

	var got []string
	for _, r := range m.records() {
		s, _ := r.String("v")
		got = append(got, s)
	}
	if strings.Join(got, "") != "ebcd" {
		t.Fatalf("records = %v, want [e b c d]", got)
	}
}

// ---------------------------------------------------------------------------
// Scenarios
// ---------------------------------------------------------------------------

func TestNewRecordTranslated(t *testing.T) {
	f := newFixture(t)
	p := f.pair(t, "S101.json",
		`{"dataList":[{"id":1,"content":"Hello","model":"m1"}]}`, "")

	client := &fakeClient{}
	res := New(client, nil, Options{}).Run(context.Background(), []discovery.Pair{p})

	if !res.OK() || res.Processed != 1 || res.NewRecords != 1 || res.TranslatedFields != 1 {
		t.Fatalf("result = %+v", res)
	}
	want := "{\n  \"dataList\": [\n    {\n      \"id\": 1,\n      \"content\": \"译:Hello\",\n      \"model\": \"m1\"\n    }\n  ]\n}\n"
	if got := readFile(t, p.Target); got != want {
		t.Fatalf("target =\n%s\nwant\n%s", got, want)
	}
}

func TestExistingTranslationsProtected(t *testing.T) {
	f := newFixture(t)
	p := f.pair(t, "S102.json",
		`{"dataList":[{"id":1,"content":"Hello"},{"id":2,"content":"Hi"},{"id":3,"content":"Goodbye"}]}`,
		`{"dataList":[{"id":2,"content":"你好"},{"id":3,"content":"??pending"}]}`)

	client := &fakeClient{}
	res := New(client, nil, Options{}).Run(context.Background(), []discovery.Pair{p})
	if !res.OK() {
		t.Fatalf("run failed: %v", res.Err())
	}
	if len(client.calls) != 1 || client.calls[0] != "Hello" {
		t.Fatalf("calls = %v, want [Hello]", client.calls)
	}

	got := records(t, p.Target)
	if v := fieldOf(t, got["2"], "content"); v != "你好" {
		t.Fatalf("id 2 content = %q, want 你好", v)
	}
	if v := fieldOf(t, got["3"], "content"); v != "??pending" {
		t.Fatalf("id 3 content = %q, want ??pending", v)
	}
	if v := fieldOf(t, got["1"], "content"); v != "译:Hello" {
		t.Fatalf("id 1 content = %q, want 译:Hello", v)
	}

	// Existing order first, new records appended.
	doc, _, _ := dataset.ReadFile(p.Target)
	var order []string
	for _, r := range doc.Records {
		id, _ := r.ID()
		order = append(order, id)
	}
	if strings.Join(order, ",") != "2,3,1" {
		t.Fatalf("order = %v, want [2 3 1]", order)
	}
}

func TestMatchedRecordGainsFields(t *testing.T) {
	f := newFixture(t)
	p := f.pair(t, "Skills.json",
		`{"version":3,"dataList":[{"id":"s1","name":"Fireball","cost":{"mp":5},"desc":"Burns"}],"meta":{"x":[1,2]}}`,
		`{"version":2,"dataList":[{"id":"s1","cost":{"mp":7},"name":"火球"},{"id":"old","name":"Kept"}]}`)

	client := &fakeClient{}
	res := New(client, nil, Options{}).Run(context.Background(), []discovery.Pair{p})
	if !res.OK() {
		t.Fatalf("run failed: %v", res.Err())
	}

	got := records(t, p.Target)
	s1 := got[`"s1"`]
	if v := fieldOf(t, s1, "name"); v != "火球" {
		t.Fatalf("name = %q, want 火球", v)
	}
	if v := fieldOf(t, s1, "desc"); v != "译:Burns" {
		t.Fatalf("desc = %q, want 译:Burns", v)
	}
	if raw, _ := s1.Get("cost"); string(raw) != `{"mp":7}` {
		t.Fatalf("cost = %s, want target value kept", raw)
	}
	if _, ok := got[`"old"`]; !ok {
		t.Fatal("target-only record removed")
	}

	out := readFile(t, p.Target)
	if !strings.HasPrefix(out, "{\n  \"version\": 2,\n  \"dataList\"") {
		t.Fatalf("top-level keys not preserved:\n%s", out)
	}
	if strings.Contains(out, "meta") {
		t.Fatalf("source-only top-level key leaked into target:\n%s", out)
	}
}

// ---------------------------------------------------------------------------
// Properties
// ---------------------------------------------------------------------------

func TestIdempotent(t *testing.T) {
	f := newFixture(t)
	p := f.pair(t, "S103.json",
		`{"dataList":[{"id":1,"content":"Hello","teller":"Ann"},{"id":2,"content":""}]}`,
		`{"dataList":[{"id":2,"content":"Hi"}]}`)

	client := &fakeClient{}
	eng := New(client, nil, Options{})
	if res := eng.Run(context.Background(), []discovery.Pair{p}); !res.OK() {
		t.Fatalf("first run failed: %v", res.Err())
	}
	first := readFile(t, p.Target)
	firstCalls := len(client.calls)

	res := eng.Run(context.Background(), []discovery.Pair{p})
	if !res.OK() {
		t.Fatalf("second run failed: %v", res.Err())
	}
	if len(client.calls) != firstCalls {
		t.Fatalf("second run made %d calls, want 0", len(client.calls)-firstCalls)
	}
	if second := readFile(t, p.Target); second != first {
		t.Fatalf("second run changed target:\n%s\nvs\n%s", second, first)
	}
	if res.Docs[0].Written {
		t.Fatal("second run rewrote an unchanged target")
	}
}

func TestTranslationFailureKeepsSource(t *testing.T) {
	f := newFixture(t)
	p := f.pair(t, "S104.json",
		`{"dataList":[{"id":7,"content":"Boom","desc":"Fine"}]}`, "")

	client := &fakeClient{fail: map[string]bool{"Boom": true}}
	res := New(client, nil, Options{}).Run(context.Background(), []discovery.Pair{p})

	if !res.OK() {
		t.Fatalf("field failure must not fail the document: %+v", res)
	}
	if len(res.Errors) != 1 {
		t.Fatalf("errors = %v, want 1", res.Errors)
	}
	var tf *TranslationFailure
	if !errors.As(res.Err(), &tf) || tf.ID != "7" || tf.Field != "content" || tf.Text != "Boom" {
		t.Fatalf("Err() = %v, want TranslationFailure for id 7 content", res.Err())
	}

	got := records(t, p.Target)
	if v := fieldOf(t, got["7"], "content"); v != "Boom" {
		t.Fatalf("content = %q, want source value", v)
	}
	if v := fieldOf(t, got["7"], "desc"); v != "译:Fine" {
		t.Fatalf("desc = %q, want translated", v)
	}

	// The failed field is retried on the next run.
	client.fail = nil
	New(client, nil, Options{}).Run(context.Background(), []discovery.Pair{p})
	if v := fieldOf(t, records(t, p.Target)["7"], "content"); v != "译:Boom" {
		t.Fatalf("content after retry = %q", v)
	}
}

func TestBlacklistedLeftAlone(t *testing.T) {
	f := newFixture(t)
	target := "{ \"dataList\" : [ {\"id\":1,\"content\":\"Hello\"} ] }"
	p := f.pair(t, "Locked.json", `not json at all`, target)
	p.Blacklisted = true

	var progress []string
	client := &fakeClient{}
	res := New(client, nil, Options{
		Progress: func(done, total int, msg string) { progress = append(progress, msg) },
	}).Run(context.Background(), []discovery.Pair{p})

	if res.Skipped != 1 || !res.OK() || len(client.calls) != 0 {
		t.Fatalf("result = %+v, calls = %v", res, client.calls)
	}
	if got := readFile(t, p.Target); got != target {
		t.Fatalf("blacklisted target changed: %q", got)
	}
	if len(progress) != 1 || !strings.Contains(progress[0], "skipped") {
		t.Fatalf("progress = %v", progress)
	}
}

func TestBadSourceDoesNotStopRun(t *testing.T) {
	f := newFixture(t)
	bad := f.pair(t, "Bad.json", `{"dataList": [`, "")
	good := f.pair(t, "Good.json", "\xEF\xBB\xBF"+`{"dataList":[{"id":1,"name":"Sword"}]}`, "")

	var progress []int
	res := New(&fakeClient{}, nil, Options{
		Progress: func(done, total int, msg string) {
			if total != 2 {
				t.Errorf("total = %d, want 2", total)
			}
			progress = append(progress, done)
		},
	}).Run(context.Background(), []discovery.Pair{bad, good})

	if res.Failed != 1 || res.Processed != 1 || res.OK() {
		t.Fatalf("result = %+v", res)
	}
	var de *DecodeError
	if !errors.As(res.Err(), &de) || de.Path != bad.Source {
		t.Fatalf("Err() = %v, want DecodeError for %s", res.Err(), bad.Source)
	}
	if _, err := os.Stat(bad.Target); !os.IsNotExist(err) {
		t.Fatalf("target of a bad source was created")
	}
	if v := fieldOf(t, records(t, good.Target)["1"], "name"); v != "译:Sword" {
		t.Fatalf("name = %q", v)
	}
	if len(progress) != 2 || progress[0] != 1 || progress[1] != 2 {
		t.Fatalf("progress = %v, want [1 2]", progress)
	}
}

func TestMalformedTargetTreatedAsEmpty(t *testing.T) {
	f := newFixture(t)
	p := f.pair(t, "S105.json", `{"dataList":[{"id":1,"content":"Hello"}]}`, `{"dataList": oops`)

	var logged []string
	res := New(&fakeClient{}, nil, Options{
		OnError: func(format string, args ...any) { logged = append(logged, format) },
	}).Run(context.Background(), []discovery.Pair{p})

	if !res.OK() || res.NewRecords != 1 {
		t.Fatalf("result = %+v", res)
	}
	if len(logged) != 1 {
		t.Fatalf("logged = %v, want a warning about the malformed target", logged)
	}
	if v := fieldOf(t, records(t, p.Target)["1"], "content"); v != "译:Hello" {
		t.Fatalf("content = %q", v)
	}
}

func TestPersistenceFailure(t *testing.T) {
	f := newFixture(t)
	first := f.pair(t, "A.json", `{"dataList":[{"id":1,"name":"a"}]}`, "")
	second := f.pair(t, "B.json", `{"dataList":[{"id":1,"name":"b"}]}`, "")

	orig := writeFile
	t.Cleanup(func() { writeFile = orig })
	writeFile = func(path string, data []byte) error {
		if path == first.Target {
			return errors.New("disk full")
		}
		return orig(path, data)
	}

	res := New(&fakeClient{}, nil, Options{}).Run(context.Background(), []discovery.Pair{first, second})

	if res.Failed != 1 || res.Processed != 1 {
		t.Fatalf("result = %+v", res)
	}
	var pe *PersistenceError
	if !errors.As(res.Err(), &pe) || pe.Path != first.Target {
		t.Fatalf("Err() = %v, want PersistenceError", res.Err())
	}
	if res.Docs[0].State != StateFailed || res.Docs[1].State != StatePersisted {
		t.Fatalf("states = %v, %v", res.Docs[0].State, res.Docs[1].State)
	}
}

func TestPanicRecovered(t *testing.T) {
	f := newFixture(t)
	first := f.pair(t, "A.json", `{"dataList":[{"id":1,"name":"a"}]}`, "")
	second := f.pair(t, "B.json", `{"dataList":[{"id":1,"content":"ok"}]}`, "")

	client := translator.Func(func(ctx context.Context, text string, dir translator.Direction) translator.Result {
		if text == "a" {
			panic("boom")
		}
		return translator.Ok("好")
	})

	res := New(client, nil, Options{}).Run(context.Background(), []discovery.Pair{first, second})
	if res.Failed != 1 || res.Processed != 1 {
		t.Fatalf("result = %+v", res)
	}
	if !strings.Contains(res.Errors[0], "panic") {
		t.Fatalf("errors = %v", res.Errors)
	}
}

func TestDryRun(t *testing.T) {
	f := newFixture(t)
	p := f.pair(t, "S106.json",
		`{"dataList":[{"id":1,"content":"Hello","desc":"World"},{"id":2,"content":"Hi"}]}`,
		`{"dataList":[{"id":2,"content":"Hi"}]}`)
	before := readFile(t, p.Target)

	client := &fakeClient{}
	res := New(client, nil, Options{DryRun: true}).Run(context.Background(), []discovery.Pair{p})

	if len(client.calls) != 0 {
		t.Fatalf("dry run made calls: %v", client.calls)
	}
	if res.NewRecords != 1 || res.PendingFields != 3 {
		t.Fatalf("result = %+v, want 1 new record and 3 pending fields", res)
	}
	if got := readFile(t, p.Target); got != before {
		t.Fatal("dry run wrote the target")
	}
}

func TestCustomPolicy(t *testing.T) {
	f := newFixture(t)
	p := f.pair(t, "S107.json", `{"dataList":[{"id":1,"content":"Hello","title":"Intro"}]}`, "")

	client := &fakeClient{}
	pol := policy.New([]string{"title"}, "")
	New(client, pol, Options{}).Run(context.Background(), []discovery.Pair{p})

	got := records(t, p.Target)["1"]
	if v := fieldOf(t, got, "content"); v != "Hello" {
		t.Fatalf("content = %q, want untouched", v)
	}
	if v := fieldOf(t, got, "title"); v != "译:Intro" {
		t.Fatalf("title = %q", v)
	}
}

// ---------------------------------------------------------------------------
// Lock and cancellation
// ---------------------------------------------------------------------------

func TestLockSkipsUnchanged(t *testing.T) {
	f := newFixture(t)
	p := f.pair(t, "S108.json", `{"dataList":[{"id":1,"content":"Hello"}]}`, "")

	lock, err := lockfile.Load(t.TempDir())
	if err != nil {
		t.Fatalf("lockfile.Load: %v", err)
	}
	client := &fakeClient{}

	res := New(client, nil, Options{Lock: lock}).Run(context.Background(), []discovery.Pair{p})
	if res.Processed != 1 || lock.Len() != 1 {
		t.Fatalf("first run: %+v, lock = %d", res, lock.Len())
	}

	res = New(client, nil, Options{Lock: lock}).Run(context.Background(), []discovery.Pair{p})
	if res.Unchanged != 1 || res.Processed != 0 {
		t.Fatalf("second run: %+v, want unchanged", res)
	}

	res = New(client, nil, Options{Lock: lock, Force: true}).Run(context.Background(), []discovery.Pair{p})
	if res.Processed != 1 {
		t.Fatalf("forced run: %+v, want processed", res)
	}

	writeText(t, p.Source, `{"dataList":[{"id":1,"content":"Hello"},{"id":2,"content":"More"}]}`)
	res = New(client, nil, Options{Lock: lock}).Run(context.Background(), []discovery.Pair{p})
	if res.Processed != 1 || res.NewRecords != 1 {
		t.Fatalf("run after source change: %+v", res)
	}

	if got := strings.Join(client.calls, ","); got != "Hello,More" {
		t.Fatalf("calls = %s, want Hello,More", got)
	}
}

func TestLockNotRecordedOnFailure(t *testing.T) {
	f := newFixture(t)
	p := f.pair(t, "S109.json", `{"dataList":[{"id":1,"content":"Boom"}]}`, "")

	lock, _ := lockfile.Load(t.TempDir())
	New(&fakeClient{fail: map[string]bool{"Boom": true}}, nil, Options{Lock: lock}).
		Run(context.Background(), []discovery.Pair{p})

	if lock.Len() != 0 {
		t.Fatalf("lock recorded a document with failures: %v", lock.Names())
	}
}

func TestCancelledBeforeRun(t *testing.T) {
	f := newFixture(t)
	p := f.pair(t, "S110.json", `{"dataList":[{"id":1,"content":"Hello"}]}`, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := New(&fakeClient{}, nil, Options{}).Run(ctx, []discovery.Pair{p})

	if res.NotProcessed != 1 || res.Processed != 0 {
		t.Fatalf("result = %+v", res)
	}
	if !errors.Is(res.Err(), context.Canceled) {
		t.Fatalf("Err() = %v, want context.Canceled", res.Err())
	}
	if _, err := os.Stat(p.Target); !os.IsNotExist(err) {
		t.Fatal("target written after cancellation")
	}
}

func TestCancelledDuringDocument(t *testing.T) {
	f := newFixture(t)
	first := f.pair(t, "A.json", `{"dataList":[{"id":1,"content":"one"},{"id":2,"content":"two"}]}`, "")
	second := f.pair(t, "B.json", `{"dataList":[{"id":1,"content":"three"}]}`, "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client := &fakeClient{hook: func(text string) {
		if text == "one" {
			cancel()
		}
	}}

	lock, _ := lockfile.Load(t.TempDir())
	res := New(client, nil, Options{Lock: lock}).Run(ctx, []discovery.Pair{first, second})

	if len(client.calls) != 1 {
		t.Fatalf("calls = %v, want only the first", client.calls)
	}
	if res.NotProcessed != 1 || !res.Docs[0].Interrupted {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Docs[0].Failures) != 0 {
		t.Fatalf("cancellation recorded as translation failure: %v", res.Docs[0].Failures)
	}
	if lock.Len() != 0 {
		t.Fatal("interrupted document recorded in lock")
	}
	// Untranslated values are still persisted from the source.
	if v := fieldOf(t, records(t, first.Target)["2"], "content"); v != "two" {
		t.Fatalf("content = %q", v)
	}
}

// ---------------------------------------------------------------------------
// Run result
// ---------------------------------------------------------------------------

func TestSummary(t *testing.T) {
	res := &RunResult{}
	for i := 0; i < 12; i++ {
		res.addError(errors.New("e"))
	}
	got := res.Summary(10)
	if len(got) != 11 || got[10] != "... and 2 more" {
		t.Fatalf("Summary = %v", got)
	}
	if n := len(res.Summary(20)); n != 12 {
		t.Fatalf("Summary(20) = %d lines, want 12", n)
	}
	if (&RunResult{}).Err() != nil {
		t.Fatal("empty result should have nil Err")
	}
}

func TestLockKey(t *testing.T) {
	pair := discovery.Pair{TargetRel: "sub/Story.json"}
	if got := New(nil, nil, Options{}).LockKey(pair); got != "sub/Story.json" {
		t.Fatalf("LockKey() = %q", got)
	}
	if got := New(nil, nil, Options{Dataset: "story"}).LockKey(pair); got != "story/sub/Story.json" {
		t.Fatalf("LockKey(dataset) = %q", got)
	}
}

func TestNumericIDsMatchByValue(t *testing.T) {
	f := newFixture(t)
	p := f.pair(t, "S104.json",
		`{"dataList":[{"id":1.0,"content":"Hello"}]}`,
		`{"dataList":[{"id":1,"content":"你好"}]}`)

	client := &fakeClient{}
	res := New(client, nil, Options{}).Run(context.Background(), []discovery.Pair{p})
	if !res.OK() {
		t.Fatalf("run failed: %v", res.Err())
	}
	if res.NewRecords != 0 {
		t.Fatalf("NewRecords = %d, want 0", res.NewRecords)
	}
	if len(client.calls) != 0 {
		t.Fatalf("calls = %v, want none", client.calls)
	}
	doc, _, err := dataset.ReadFile(p.Target)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(doc.Records) != 1 {
		t.Fatalf("records = %d, want 1 (no duplicate id)", len(doc.Records))
	}
	if got := fieldOf(t, doc.Records[0], "content"); got != "你好" {
		t.Fatalf("content = %q, want existing translation", got)
	}
}
