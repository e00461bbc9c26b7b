package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestTargetName(t *testing.T) {
	d := New(Options{})
	tests := map[string]string{
		"EN_S101.json":  "S101.json",
		"Skills.json":   "Skills.json",
		"EN_notes.txt":  "EN_notes.txt",
		"KR_Story.json": "KR_Story.json",
	}
	for in, want := range tests {
		if got := d.TargetName(in); got != want {
			t.Fatalf("TargetName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCollectMapsPathsAndBlacklist(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeFile(t, filepath.Join(src, "EN_Root.json"), "{}")
	writeFile(t, filepath.Join(src, "StoryData", "EN_S101.json"), "{}")
	writeFile(t, filepath.Join(src, "StoryData", "Lesson.json"), "{}")
	writeFile(t, filepath.Join(src, "StoryData", "readme.txt"), "x")

	d := New(Options{SourceRoot: src, TargetRoot: dst, Blacklist: []string{"Lesson.json"}})
	pairs, err := d.Collect()
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("pairs = %d, want 3: %#v", len(pairs), pairs)
	}

	byRel := make(map[string]Pair)
	for _, p := range pairs {
		byRel[p.Rel] = p
	}

	root := byRel["EN_Root.json"]
	if root.Target != filepath.Join(dst, "Root.json") || root.TargetRel != "Root.json" {
		t.Fatalf("root pair = %#v", root)
	}

	story := byRel["StoryData/EN_S101.json"]
	if story.Target != filepath.Join(dst, "StoryData", "S101.json") || story.Blacklisted {
		t.Fatalf("story pair = %#v", story)
	}

	lesson := byRel["StoryData/Lesson.json"]
	if !lesson.Blacklisted {
		t.Fatalf("Lesson.json should be blacklisted: %#v", lesson)
	}
}

func TestPairsStopsEarly(t *testing.T) {
	src := t.TempDir()
	for _, name := range []string{"EN_a.json", "EN_b.json", "EN_c.json"} {
		writeFile(t, filepath.Join(src, name), "{}")
	}
	d := New(Options{SourceRoot: src, TargetRoot: t.TempDir()})

	seen := 0
	for _, err := range d.Pairs() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Fatalf("seen = %d, want 2", seen)
	}
}

func TestMissingSourceRoot(t *testing.T) {
	d := New(Options{SourceRoot: filepath.Join(t.TempDir(), "missing")})
	if _, err := d.Collect(); !errors.Is(err, ErrSourceRootMissing) {
		t.Fatalf("Collect error = %v, want ErrSourceRootMissing", err)
	}
	if err := d.MirrorDirs(); !errors.Is(err, ErrSourceRootMissing) {
		t.Fatalf("MirrorDirs error = %v, want ErrSourceRootMissing", err)
	}
}

func TestMirrorDirs(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")
	writeFile(t, filepath.Join(src, "a", "b", "EN_x.json"), "{}")
	if err := os.MkdirAll(filepath.Join(src, "empty"), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	d := New(Options{SourceRoot: src, TargetRoot: dst})
	if err := d.MirrorDirs(); err != nil {
		t.Fatalf("MirrorDirs: %v", err)
	}

	for _, dir := range []string{"a", filepath.Join("a", "b"), "empty"} {
		info, err := os.Stat(filepath.Join(dst, dir))
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %s not mirrored: %v", dir, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dst, "a", "b", "x.json")); !os.IsNotExist(err) {
		t.Fatalf("MirrorDirs must not copy files, stat err = %v", err)
	}
}
