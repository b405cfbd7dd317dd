package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/datepicker-bot/internal/menu"
)

// fileState is the on-disk layout of a FileStore
type fileState struct {
	Messages  map[string]menu.State `json:"messages"`
	UpdatedAt string                `json:"updated_at"`
}

// FileStore keeps every message state in a single JSON file. The file is
// read once on first use and rewritten on every change.
type FileStore struct {
	stateFile string
	logger    *zap.Logger

	mu     sync.Mutex
	loaded bool
	state  *fileState
}

// NewFileStore creates a store backed by stateFile
func NewFileStore(stateFile string, logger *zap.Logger) *FileStore {
	return &FileStore{
		stateFile: stateFile,
		logger:    logger,
	}
}

// Load returns the state stored under key; ok is false when there is none
func (fs *FileStore) Load(_ context.Context, key string) (menu.State, bool, error) {
	if key == "" {
		return menu.State{}, false, ErrEmptyKey
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.load(); err != nil {
		return menu.State{}, false, err
	}

	s, ok := fs.state.Messages[key]
	return s, ok, nil
}

// Save stores s under key, replacing any previous state
func (fs *FileStore) Save(_ context.Context, key string, s menu.State) error {
	if key == "" {
		return ErrEmptyKey
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.load(); err != nil {
		return err
	}

	fs.state.Messages[key] = s
	return fs.save()
}

// Delete removes the state under key; a missing key is not an error
func (fs *FileStore) Delete(_ context.Context, key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if err := fs.load(); err != nil {
		return err
	}

	if _, ok := fs.state.Messages[key]; !ok {
		return nil
	}
	delete(fs.state.Messages, key)
	return fs.save()
}

// load reads the state file once; callers hold fs.mu
func (fs *FileStore) load() error {
	if fs.loaded {
		return nil
	}

	data, err := os.ReadFile(fs.stateFile)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist yet - will be created on first save
			fs.state = &fileState{Messages: make(map[string]menu.State)}
			fs.loaded = true
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse state file: %w", err)
	}
	if state.Messages == nil {
		state.Messages = make(map[string]menu.State)
	}

	fs.state = &state
	fs.loaded = true
	fs.logger.Info("Picker state loaded",
		zap.String("file", fs.stateFile),
		zap.Int("messages", len(state.Messages)))

	return nil
}

// save writes through a temp file so a crash never leaves half a file behind
func (fs *FileStore) save() error {
	fs.state.UpdatedAt = time.Now().Format(time.RFC3339)

	data, err := json.MarshalIndent(fs.state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if dir := filepath.Dir(fs.stateFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	tmp := fs.stateFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp, fs.stateFile); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}

	fs.logger.Debug("Picker state saved",
		zap.String("file", fs.stateFile),
		zap.Int("messages", len(fs.state.Messages)))

	return nil
}
