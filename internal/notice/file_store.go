package notice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

type flagFile struct {
	Client string          `toml:"client,omitempty"`
	Flags  map[string]bool `toml:"flags"`
}

// FileStore keeps flags in a small TOML file, for single-user clients
type FileStore struct {
	mu   sync.Mutex
	path string
}

// DefaultFilePath returns the XDG state location of the flag file
func DefaultFilePath() (string, error) {
	return xdg.StateFile("listings/notices.toml")
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Get(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	flags, err := f.read()
	if err != nil {
		return false, err
	}
	return flags.Flags[key], nil
}

func (f *FileStore) Set(_ context.Context, key string, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	flags, err := f.read()
	if err != nil {
		return err
	}
	flags.Flags[key] = value
	return f.write(flags)
}

// ClientID returns the client id kept in the flag file, creating one on first
// use. A terminal session is a single client across runs.
func (f *FileStore) ClientID() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	flags, err := f.read()
	if err != nil {
		return "", err
	}
	if flags.Client != "" {
		return flags.Client, nil
	}
	flags.Client = NewClientID()
	if err := f.write(flags); err != nil {
		return "", err
	}
	return flags.Client, nil
}

func (f *FileStore) read() (flagFile, error) {
	flags := flagFile{Flags: make(map[string]bool)}
	if _, err := toml.DecodeFile(f.path, &flags); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return flags, nil
		}
		return flags, fmt.Errorf("failed to read flag file: %w", err)
	}
	if flags.Flags == nil {
		flags.Flags = make(map[string]bool)
	}
	return flags, nil
}

func (f *FileStore) write(flags flagFile) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create flag directory: %w", err)
	}

	// Write then rename so a crash never leaves a truncated file
	tmp := f.path + ".tmp"
	out, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open flag file: %w", err)
	}
	if err := toml.NewEncoder(out).Encode(flags); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to encode flag file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close flag file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to replace flag file: %w", err)
	}
	return nil
}
