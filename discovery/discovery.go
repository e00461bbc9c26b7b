// Package discovery enumerates the dataset documents under a source root and
// maps each one to its counterpart under the target root.
//
// Target paths mirror the source layout. The filename loses the source
// language prefix when it has one:
//
//	<source>/StoryData/EN_S101.json → <target>/StoryData/S101.json
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExt is the dataset file extension.
const DefaultExt = ".json"

// DefaultPrefix is the source-language filename prefix.
const DefaultPrefix = "EN_"

// ErrSourceRootMissing is returned when the source root does not exist.
var ErrSourceRootMissing = errors.New("source root does not exist")

// Options configures a Discovery.
type Options struct {
	// SourceRoot is the authoritative dataset directory.
	SourceRoot string
	// TargetRoot is the localized dataset directory.
	TargetRoot string
	// Ext is the document file extension (default ".json").
	Ext string
	// SourcePrefix is stripped from filenames to build target names (default "EN_").
	SourcePrefix string
	// Blacklist holds target filenames (after mapping) that are never merged.
	Blacklist []string
}

// Pair associates a source document with its target document.
type Pair struct {
	// Source and Target are full paths.
	Source string
	Target string
	// Rel and TargetRel are slash-separated paths relative to their roots.
	Rel       string
	TargetRel string
	// Blacklisted pairs are reported as skipped and never opened.
	Blacklisted bool
}

// Discovery walks a source root.
type Discovery struct {
	opts      Options
	blacklist map[string]bool
}

// New creates a Discovery, applying defaults.
func New(opts Options) *Discovery {
	if opts.Ext == "" {
		opts.Ext = DefaultExt
	}
	if opts.SourcePrefix == "" {
		opts.SourcePrefix = DefaultPrefix
	}
	d := &Discovery{opts: opts, blacklist: make(map[string]bool, len(opts.Blacklist))}
	for _, name := range opts.Blacklist {
		name = strings.TrimSpace(name)
		if name != "" {
			d.blacklist[name] = true
		}
	}
	return d
}

// TargetName maps a source filename to its target filename.
func (d *Discovery) TargetName(name string) string {
	if strings.HasPrefix(name, d.opts.SourcePrefix) && strings.HasSuffix(name, d.opts.Ext) {
		return strings.TrimPrefix(name, d.opts.SourcePrefix)
	}
	return name
}

// IsBlacklisted reports whether a source filename maps to a blacklisted target.
func (d *Discovery) IsBlacklisted(name string) bool {
	return d.blacklist[d.TargetName(name)]
}

// checkRoot verifies the source root exists and is a directory.
func (d *Discovery) checkRoot() error {
	info, err := os.Stat(d.opts.SourceRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrSourceRootMissing, d.opts.SourceRoot)
		}
		return fmt.Errorf("reading %s: %w", d.opts.SourceRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", d.opts.SourceRoot)
	}
	return nil
}

// Pairs lazily yields one Pair per document, in lexical walk order.
// Unreadable directories are yielded as errors and the walk continues.
func (d *Discovery) Pairs() iter.Seq2[Pair, error] {
	return func(yield func(Pair, error) bool) {
		if err := d.checkRoot(); err != nil {
			yield(Pair{}, err)
			return
		}

		_ = filepath.WalkDir(d.opts.SourceRoot, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				if !yield(Pair{}, fmt.Errorf("walking %s: %w", path, err)) {
					return filepath.SkipAll
				}
				if entry != nil && entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), d.opts.Ext) {
				return nil
			}
			pair, err := d.pairFor(path)
			if !yield(pair, err) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (d *Discovery) pairFor(path string) (Pair, error) {
	rel, err := filepath.Rel(d.opts.SourceRoot, path)
	if err != nil {
		return Pair{}, fmt.Errorf("relative path of %s: %w", path, err)
	}
	name := filepath.Base(rel)
	targetRel := filepath.Join(filepath.Dir(rel), d.TargetName(name))
	return Pair{
		Source:      path,
		Target:      filepath.Join(d.opts.TargetRoot, targetRel),
		Rel:         filepath.ToSlash(rel),
		TargetRel:   filepath.ToSlash(targetRel),
		Blacklisted: d.IsBlacklisted(name),
	}, nil
}

// Collect materializes Pairs. Walk errors are joined and returned together
// with every pair that could be resolved.
func (d *Discovery) Collect() ([]Pair, error) {
	var pairs []Pair
	var errs []error
	for pair, err := range d.Pairs() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pairs = append(pairs, pair)
	}
	return pairs, errors.Join(errs...)
}

// MirrorDirs recreates the source directory tree under the target root
// without copying any file content.
func (d *Discovery) MirrorDirs() error {
	if err := d.checkRoot(); err != nil {
		return err
	}
	return filepath.WalkDir(d.opts.SourceRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.opts.SourceRoot, path)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Join(d.opts.TargetRoot, rel), 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
		return nil
	})
}
