// Package settings provides storage for locsync user settings, currently the
// credentials of the translation service.
//
// All settings are stored in the XDG data directory:
//
//	$XDG_DATA_HOME/locsync/  (default: ~/.local/share/locsync/)
//
// auth.json is a JSON object keyed by service ID. Each entry holds the app
// key and app secret used to sign requests, plus an optional endpoint
// override. File permissions are 0600 (owner read/write only).
//
// Lookup order for credentials:
//  1. --app-key / --app-secret flags (highest priority)
//  2. LOCSYNC_APP_KEY / LOCSYNC_APP_SECRET environment variables
//  3. This credential store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName = "locsync"
	fileName    = "auth.json"
)

// DefaultServiceID identifies the default translation service in auth.json.
const DefaultServiceID = "youdao"

// Environment variables consulted by Lookup.
const (
	EnvAppKey    = "LOCSYNC_APP_KEY"
	EnvAppSecret = "LOCSYNC_APP_SECRET"
)

// ---------------------------------------------------------------------------
// Auth entries
// ---------------------------------------------------------------------------

// Info is the entry stored per service in auth.json.
type Info struct {
	AppKey    string `json:"appKey"`
	AppSecret string `json:"appSecret"`
	// BaseURL overrides the configured endpoint when set.
	BaseURL string `json:"baseUrl,omitempty"`
}

// Complete reports whether both halves of the credential are present.
func (i *Info) Complete() bool {
	return i != nil && i.AppKey != "" && i.AppSecret != ""
}

// Store holds all service credentials, keyed by service ID.
type Store map[string]*Info

// ---------------------------------------------------------------------------
// File path
// ---------------------------------------------------------------------------

// dataDir returns the XDG data directory for locsync.
// Respects $XDG_DATA_HOME (falls back to ~/.local/share).
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json file path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// DataDir returns the locsync data directory path.
func DataDir() (string, error) {
	return dataDir()
}

// ---------------------------------------------------------------------------
// Load / Save
// ---------------------------------------------------------------------------

// Load reads the credential store from disk.
// Returns an empty store if the file doesn't exist or is invalid.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Get / Set / Remove
// ---------------------------------------------------------------------------

// Get returns the entry for a service, or nil if not found.
func Get(serviceID string) *Info {
	return Load()[serviceID]
}

// Set stores credentials for a service (upsert).
func Set(serviceID string, info *Info) error {
	if !info.Complete() {
		return fmt.Errorf("both app key and app secret are required")
	}
	store := Load()
	store[serviceID] = info
	return Save(store)
}

// Remove deletes credentials for a service.
func Remove(serviceID string) error {
	store := Load()
	if _, ok := store[serviceID]; !ok {
		return nil // Nothing to delete
	}
	delete(store, serviceID)
	return Save(store)
}

// RemoveAll removes all stored credentials.
func RemoveAll() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Lookup
// ---------------------------------------------------------------------------

// Credential sources reported by Lookup.
const (
	SourceFlag  = "flag"
	SourceEnv   = "env"
	SourceStore = "store"
)

// Lookup resolves the app key and secret for a service. Each half is taken
// from the first source that provides it: flags, then the environment, then
// the store. source names where the key came from; it is empty when no key
// was found.
func Lookup(serviceID, flagKey, flagSecret string) (info Info, source string) {
	stored := Get(serviceID)

	switch {
	case flagKey != "":
		info.AppKey, source = flagKey, SourceFlag
	case os.Getenv(EnvAppKey) != "":
		info.AppKey, source = os.Getenv(EnvAppKey), SourceEnv
	case stored != nil && stored.AppKey != "":
		info.AppKey, source = stored.AppKey, SourceStore
	}

	switch {
	case flagSecret != "":
		info.AppSecret = flagSecret
	case os.Getenv(EnvAppSecret) != "":
		info.AppSecret = os.Getenv(EnvAppSecret)
	case stored != nil:
		info.AppSecret = stored.AppSecret
	}

	if stored != nil {
		info.BaseURL = stored.BaseURL
	}
	return info, source
}

// ---------------------------------------------------------------------------
// Display helpers
// ---------------------------------------------------------------------------

// MaskKey returns a masked version of a key/secret for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
