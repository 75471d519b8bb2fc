// Package prefs is the port to the boolean flag store used for non-entry
// state, such as per-user SMS opt-in. Flag semantics live with the callers;
// this package only stores named booleans.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Flags is a simple boolean key-value capability. Unknown keys read false.
type Flags interface {
	Flag(key string) (bool, error)
	SetFlag(key string, value bool) error
}

// SMSOptInKey names the per-user SMS opt-in flag.
func SMSOptInKey(userID int64) string {
	return fmt.Sprintf("sms_opt_in_user_%d", userID)
}

// fileFlags persists flags as a small JSON file next to the database,
// rewritten on every set. Flag volume is tiny, so no finer-grained storage
// is warranted.
type fileFlags struct {
	mu   sync.Mutex
	path string
	m    map[string]bool
}

// NewFile loads (or lazily creates) a JSON-file flag store at path.
func NewFile(path string) (Flags, error) {
	f := &fileFlags{path: filepath.Clean(path), m: make(map[string]bool)}

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read flags file: %w", err)
	}
	if err := json.Unmarshal(data, &f.m); err != nil {
		return nil, fmt.Errorf("parse flags file %s: %w", f.path, err)
	}
	return f, nil
}

func (f *fileFlags) Flag(key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.m[key], nil
}

func (f *fileFlags) SetFlag(key string, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.m[key] = value

	data, err := json.MarshalIndent(f.m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

// memFlags keeps flags in memory only; used by tests.
type memFlags struct {
	mu sync.Mutex
	m  map[string]bool
}

// NewMemory returns a flag store that forgets everything on process exit.
func NewMemory() Flags {
	return &memFlags{m: make(map[string]bool)}
}

func (f *memFlags) Flag(key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.m[key], nil
}

func (f *memFlags) SetFlag(key string, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[key] = value
	return nil
}
