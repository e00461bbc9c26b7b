// Package lockfile implements locsync.lock, a lock file that tracks MD5
// checksums of each merged document pair. A document whose source bytes,
// target bytes and translation policy all match the recorded checksums was
// already merged cleanly, so a later run can skip it without reading its
// records or calling the translation service.
//
// The lock file is stored alongside .locsync.yaml as locsync.lock.
package lockfile

import (
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// LockFileName is the default lock file name.
const LockFileName = "locsync.lock"

// Version is the lock file format version.
const Version = 1

// ---------------------------------------------------------------------------
// Types
// ---------------------------------------------------------------------------

// Entry holds the checksums recorded after a clean merge of one document.
type Entry struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
	Policy string `yaml:"policy"`
}

// LockFile represents the locsync.lock file structure.
type LockFile struct {
	Version   int              `yaml:"version"`
	Documents map[string]Entry `yaml:"documents"` // target rel path -> checksums

	mu   sync.Mutex `yaml:"-"`
	path string     `yaml:"-"`
}

// ---------------------------------------------------------------------------
// Loading and saving
// ---------------------------------------------------------------------------

// Load reads a lock file from the given directory.
// Returns an empty lock file if the file doesn't exist.
func Load(dir string) (*LockFile, error) {
	path := filepath.Join(dir, LockFileName)
	lf := &LockFile{
		Version:   Version,
		Documents: make(map[string]Entry),
		path:      path,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lf, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, lf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	lf.path = path

	if lf.Documents == nil {
		lf.Documents = make(map[string]Entry)
	}
	if lf.Version != Version {
		// Unknown format: start over rather than trust foreign checksums.
		lf.Version = Version
		lf.Documents = make(map[string]Entry)
	}

	return lf, nil
}

// Save writes the lock file to disk.
func (lf *LockFile) Save() error {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	if lf.path == "" {
		return fmt.Errorf("lock file path not set")
	}

	data, err := yaml.Marshal(lf)
	if err != nil {
		return fmt.Errorf("marshaling lock file: %w", err)
	}

	if err := os.WriteFile(lf.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", lf.path, err)
	}

	return nil
}

// Path returns the lock file path.
func (lf *LockFile) Path() string {
	return lf.path
}

// ---------------------------------------------------------------------------
// Checksum operations
// ---------------------------------------------------------------------------

// Hash computes the MD5 hex digest of file content. A missing file hashes
// as empty content.
func Hash(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}

// IsChanged reports whether a document differs from its recorded state.
// Documents never recorded are always changed.
func (lf *LockFile) IsChanged(doc string, cur Entry) bool {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	old, ok := lf.Documents[doc]
	if !ok {
		return true
	}
	return old != cur
}

// Update records the checksums of a cleanly merged document.
func (lf *LockFile) Update(doc string, e Entry) {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	lf.Documents[doc] = e
}

// Remove forgets a document, forcing a full merge next time.
func (lf *LockFile) Remove(doc string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	delete(lf.Documents, doc)
}

// Clean removes entries for documents that are no longer present in the
// current run. This prevents stale entries from accumulating.
func (lf *LockFile) Clean(currentDocs []string) {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	valid := make(map[string]bool, len(currentDocs))
	for _, d := range currentDocs {
		valid[d] = true
	}
	for d := range lf.Documents {
		if !valid[d] {
			delete(lf.Documents, d)
		}
	}
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

// Len returns the number of recorded documents.
func (lf *LockFile) Len() int {
	lf.mu.Lock()
	defer lf.mu.Unlock()
	return len(lf.Documents)
}

// Names returns the sorted list of recorded documents.
func (lf *LockFile) Names() []string {
	lf.mu.Lock()
	defer lf.mu.Unlock()

	names := make([]string, 0, len(lf.Documents))
	for d := range lf.Documents {
		names = append(names, d)
	}
	sort.Strings(names)
	return names
}

// Summary returns a human-readable summary string.
func (lf *LockFile) Summary() string {
	n := lf.Len()
	if n == 0 {
		return "empty"
	}
	return fmt.Sprintf("%d documents in sync", n)
}
