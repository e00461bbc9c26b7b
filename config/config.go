// Package config provides .locsync.yaml configuration file support.
//
// The file declares the datasets to synchronize together with the shared
// translation settings. Command-line flags override file values.
//
//	fields: [content, teller, dlg, desc, dialog, abName, name]
//	delay: 300ms
//	service:
//	  target_lang: zh-CHS
//	datasets:
//	  - name: story
//	    source_root: Localize/en
//	    target_root: workshop/LLC_zh-CN
//	    blacklist: [ProjectGSLessonName.json]
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/faustlauncher/locsync/discovery"
	"github.com/faustlauncher/locsync/policy"
	"github.com/faustlauncher/locsync/translator"
)

// ---------------------------------------------------------------------------
// YAML schema
// ---------------------------------------------------------------------------

// File is the top-level .locsync.yaml structure.
type File struct {
	// Fields is the default translatable field list (can be overridden per dataset).
	Fields []string `yaml:"fields,omitempty"`
	// Sentinel marks target values that must never be overwritten (default "??").
	Sentinel string `yaml:"sentinel,omitempty"`
	// Delay is the minimum spacing between service calls (default "300ms").
	Delay string `yaml:"delay,omitempty"`
	// Lock enables the locsync.lock journal (default true).
	Lock *bool `yaml:"lock,omitempty"`
	// Service configures the translation endpoint.
	Service Service `yaml:"service,omitempty"`
	// Datasets is the list of dataset pairs to synchronize.
	Datasets []Dataset `yaml:"datasets"`

	// Pacing is Delay parsed.
	Pacing time.Duration `yaml:"-"`
}

// Service describes the translation endpoint. Credentials are never read
// from this file.
type Service struct {
	BaseURL    string `yaml:"base_url,omitempty"`
	SourceLang string `yaml:"source_lang,omitempty"`
	TargetLang string `yaml:"target_lang,omitempty"`
	Proxy      string `yaml:"proxy,omitempty"`
	// Timeout is a Go duration string (default "10s").
	Timeout string `yaml:"timeout,omitempty"`
}

// Dataset describes a single source/target dataset pair.
type Dataset struct {
	// Name is a human-readable label shown in status/logs.
	Name string `yaml:"name"`
	// SourceRoot and TargetRoot are relative to .locsync.yaml unless absolute.
	SourceRoot string `yaml:"source_root"`
	TargetRoot string `yaml:"target_root"`
	// Ext is the document extension (default ".json").
	Ext string `yaml:"ext,omitempty"`
	// SourcePrefix is stripped from source filenames (default "EN_").
	SourcePrefix string `yaml:"source_prefix,omitempty"`
	// Blacklist lists target filenames that are never merged.
	Blacklist []string `yaml:"blacklist,omitempty"`

	// --- overrides ---

	// Fields overrides the global translatable field list for this dataset.
	Fields []string `yaml:"fields,omitempty"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// FileName is the default config file name.
const FileName = ".locsync.yaml"

// Default returns a configuration with every default applied and no
// datasets.
func Default() *File {
	f := &File{}
	if err := f.applyDefaults(""); err != nil {
		panic(err)
	}
	return f
}

// Load loads and validates .locsync.yaml from the given directory.
// Returns nil if no .locsync.yaml exists.
func Load(rootDir string) (*File, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := f.applyDefaults(path); err != nil {
		return nil, err
	}
	if err := f.validate(path); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) applyDefaults(path string) error {
	if len(f.Fields) == 0 {
		f.Fields = append([]string(nil), policy.DefaultFields...)
	}
	if f.Sentinel == "" {
		f.Sentinel = policy.DefaultSentinel
	}
	if f.Delay == "" {
		f.Delay = translator.DefaultDelay.String()
	}
	d, err := time.ParseDuration(f.Delay)
	if err != nil || d < 0 {
		return fmt.Errorf("%s: invalid delay %q", path, f.Delay)
	}
	f.Pacing = d
	if f.Lock == nil {
		enabled := true
		f.Lock = &enabled
	}

	def := translator.DefaultService()
	if f.Service.BaseURL == "" {
		f.Service.BaseURL = def.BaseURL
	}
	if f.Service.SourceLang == "" {
		f.Service.SourceLang = def.SourceLang
	}
	if f.Service.TargetLang == "" {
		f.Service.TargetLang = def.TargetLang
	}
	if f.Service.Timeout == "" {
		f.Service.Timeout = def.Timeout.String()
	}

	for i := range f.Datasets {
		ds := &f.Datasets[i]
		if ds.Ext == "" {
			ds.Ext = discovery.DefaultExt
		}
		if ds.SourcePrefix == "" {
			ds.SourcePrefix = discovery.DefaultPrefix
		}
		// Inherit global fields if not overridden
		if len(ds.Fields) == 0 {
			ds.Fields = f.Fields
		}
	}
	return nil
}

func (f *File) validate(path string) error {
	if d, err := time.ParseDuration(f.Service.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("%s: invalid service timeout %q", path, f.Service.Timeout)
	}

	seen := make(map[string]bool)
	for i := range f.Datasets {
		ds := &f.Datasets[i]

		if ds.Name == "" {
			return fmt.Errorf("%s: dataset #%d has no name", path, i+1)
		}
		if seen[ds.Name] {
			return fmt.Errorf("%s: duplicate dataset name %q", path, ds.Name)
		}
		seen[ds.Name] = true

		if ds.SourceRoot == "" {
			return fmt.Errorf("%s: dataset %q has no source_root", path, ds.Name)
		}
		if ds.TargetRoot == "" {
			return fmt.Errorf("%s: dataset %q has no target_root", path, ds.Name)
		}
		if filepath.Clean(ds.SourceRoot) == filepath.Clean(ds.TargetRoot) {
			return fmt.Errorf("%s: dataset %q: source_root and target_root are the same directory", path, ds.Name)
		}
		if !strings.HasPrefix(ds.Ext, ".") {
			return fmt.Errorf("%s: dataset %q: ext %q must start with a dot", path, ds.Name, ds.Ext)
		}
	}
	return nil
}

// LockEnabled reports whether the sync lock is used.
func (f *File) LockEnabled() bool {
	return f.Lock == nil || *f.Lock
}

// ServiceConfig converts the service section into a translator.Service.
// Credentials are filled by the caller.
func (f *File) ServiceConfig() translator.Service {
	svc := translator.Service{
		BaseURL:    f.Service.BaseURL,
		SourceLang: f.Service.SourceLang,
		TargetLang: f.Service.TargetLang,
		Proxy:      f.Service.Proxy,
	}
	if d, err := time.ParseDuration(f.Service.Timeout); err == nil {
		svc.Timeout = d
	}
	return svc
}

// Find returns the dataset with the given name.
func (f *File) Find(name string) (*Dataset, bool) {
	for i := range f.Datasets {
		if f.Datasets[i].Name == name {
			return &f.Datasets[i], true
		}
	}
	return nil, false
}

// ---------------------------------------------------------------------------
// Resolving datasets
// ---------------------------------------------------------------------------

// ResolvedDataset holds a dataset with absolute roots.
type ResolvedDataset struct {
	Dataset   Dataset
	AbsSource string
	AbsTarget string
	Sentinel  string
}

// Resolve converts the file's datasets into ResolvedDatasets with absolute
// paths. Relative roots are taken relative to projectRoot.
func (f *File) Resolve(projectRoot string) ([]ResolvedDataset, error) {
	absProjectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}

	var resolved []ResolvedDataset
	for _, ds := range f.Datasets {
		resolved = append(resolved, ResolvedDataset{
			Dataset:   ds,
			AbsSource: absPath(absProjectRoot, ds.SourceRoot),
			AbsTarget: absPath(absProjectRoot, ds.TargetRoot),
			Sentinel:  f.Sentinel,
		})
	}
	return resolved, nil
}

func absPath(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// Discovery returns the document discovery for the dataset.
func (rd *ResolvedDataset) Discovery() *discovery.Discovery {
	return discovery.New(discovery.Options{
		SourceRoot:   rd.AbsSource,
		TargetRoot:   rd.AbsTarget,
		Ext:          rd.Dataset.Ext,
		SourcePrefix: rd.Dataset.SourcePrefix,
		Blacklist:    rd.Dataset.Blacklist,
	})
}

// Policy returns the field translation policy for the dataset.
func (rd *ResolvedDataset) Policy() *policy.Policy {
	return policy.New(rd.Dataset.Fields, rd.Sentinel)
}
