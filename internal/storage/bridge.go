// Package storage persists JSON snapshots under fixed string keys.
//
// Persistence is best effort: the in-memory stores are the source of truth
// for the running process and the bridge is only a durability aid. Load
// reports a miss instead of an error, Save and Delete swallow failures, so a
// failed write leaves memory and storage diverged until the next successful
// write. There is no multi-process consistency requirement.
package storage

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

// Snapshot keys shared by the stores.
const (
	KeyAuth      = "gemini-auth"
	KeyDarkMode  = "darkMode"
	KeyChatrooms = "gemini-chatrooms"
	KeyMessages  = "gemini-messages"
)

// Bridge is the write-through snapshot store behind every state partition.
type Bridge interface {
	// Load decodes the value stored under key into out and reports whether
	// it succeeded. Missing keys, corrupt data and storage failures all
	// report false and leave out untouched.
	Load(key string, out interface{}) bool
	// Save serializes value under key, silently dropping the write on
	// failure.
	Save(key string, value interface{})
	// Delete removes key, silently ignoring failure.
	Delete(key string)
}

// FileBridge keeps one <key>.json file per key under a state directory.
type FileBridge struct {
	dir string
}

// NewFileBridge creates the state directory if needed.
func NewFileBridge(dir string) (*FileBridge, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileBridge{dir: dir}, nil
}

func (b *FileBridge) path(key string) string {
	return filepath.Join(b.dir, key+".json")
}

// Load implements Bridge.
func (b *FileBridge) Load(key string, out interface{}) bool {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("[storage] discarding corrupt snapshot %s: %v", key, err)
		return false
	}
	return true
}

// Save implements Bridge. The snapshot is written to a temp file first so a
// crash mid-write never corrupts the previous snapshot.
func (b *FileBridge) Save(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("[storage] cannot serialize snapshot %s: %v", key, err)
		return
	}

	tmp := b.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Printf("[storage] cannot write snapshot %s: %v", key, err)
		return
	}
	if err := os.Rename(tmp, b.path(key)); err != nil {
		log.Printf("[storage] cannot commit snapshot %s: %v", key, err)
	}
}

// Delete implements Bridge.
func (b *FileBridge) Delete(key string) {
	if err := os.Remove(b.path(key)); err != nil && !os.IsNotExist(err) {
		log.Printf("[storage] cannot delete snapshot %s: %v", key, err)
	}
}
