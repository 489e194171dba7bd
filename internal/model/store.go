// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// PersistenceError wraps a missing or corrupt model blob. The caller
// decides whether to retrain; this package never does.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("model blob: %v", e.Err)
	}
	return fmt.Sprintf("model %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Save serializes the state.
func Save(state *State) ([]byte, error) {
	if state == nil {
		return nil, &PersistenceError{Err: fmt.Errorf("nothing to save")}
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return nil, &PersistenceError{Err: fmt.Errorf("encoding: %w", err)}
	}
	return buf.Bytes(), nil
}

// Load reconstructs state from a blob produced by Save.
func Load(data []byte) (*State, error) {
	var state State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return nil, &PersistenceError{Err: fmt.Errorf("decoding: %w", err)}
	}
	return &state, nil
}

// SaveFile writes the state blob to path, creating parent directories.
func SaveFile(state *State, path string) error {
	data, err := Save(state)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &PersistenceError{Path: path, Err: err}
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	return nil
}

// LoadFile reads a state blob from path.
func LoadFile(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PersistenceError{Path: path, Err: err}
	}
	state, err := Load(data)
	if err != nil {
		var pe *PersistenceError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return state, nil
}
