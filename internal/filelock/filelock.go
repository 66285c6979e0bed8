// Package filelock provides source-file locking and atomic writes so that a
// conversion never races another process over the same XML file and never
// leaves a half-written JSON file behind.
package filelock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"
)

// FileLock is an advisory lock held on an existing file.
// The file itself is the lock target, so no extra lock files are created.
//
// Writers of a file take the exclusive lock; readers take the shared lock,
// which fails while a writer holds it.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a lock for the file at path. Nothing is acquired yet.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// TryRLock attempts to acquire a shared lock without blocking.
// Returns false when another process holds the exclusive lock.
func (fl *FileLock) TryRLock() (bool, error) {
	acquired, err := fl.flock.TryRLock()
	if err != nil {
		return false, fmt.Errorf("failed to try shared lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock and closes the underlying handle.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// AtomicWrite writes data to path through a temporary file in the same
// directory followed by a rename. Readers see either the old file or the
// complete new one. On failure the temporary file is removed and any
// existing file at path is left untouched.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tempPath, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}

// PathMutex serializes in-process work per path. Distinct paths never block
// each other.
type PathMutex struct {
	mu    sync.Mutex
	locks map[string]*pathEntry
}

type pathEntry struct {
	mu   sync.Mutex
	refs int
}

// NewPathMutex creates an empty PathMutex.
func NewPathMutex() *PathMutex {
	return &PathMutex{locks: make(map[string]*pathEntry)}
}

// Lock blocks until path is free and returns the function that releases it.
func (pm *PathMutex) Lock(path string) (unlock func()) {
	pm.mu.Lock()
	entry, ok := pm.locks[path]
	if !ok {
		entry = &pathEntry{}
		pm.locks[path] = entry
	}
	entry.refs++
	pm.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		pm.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(pm.locks, path)
		}
		pm.mu.Unlock()
	}
}

// LockAndWrite holds path in pm while performing AtomicWrite, so concurrent
// writers of the same path in this process take turns.
func LockAndWrite(pm *PathMutex, path string, data []byte) error {
	unlock := pm.Lock(path)
	defer unlock()

	return AtomicWrite(path, data)
}
