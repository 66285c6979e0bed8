package filelock

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.xml")
	require.NoError(t, os.WriteFile(path, []byte("<a/>"), 0o644))

	lock := NewFileLock(path)
	require.NotNil(t, lock)
	assert.Equal(t, path, lock.path)
}

func TestTryRLockUnlock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.xml")
	require.NoError(t, os.WriteFile(path, []byte("<a/>"), 0o644))

	lock := NewFileLock(path)
	acquired, err := lock.TryRLock()
	require.NoError(t, err)
	assert.True(t, acquired)

	require.NoError(t, lock.Unlock())

	// The locked file keeps its content.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<a/>", string(data))
}

func TestSharedLockBlockedByExclusiveLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.xml")
	require.NoError(t, os.WriteFile(path, []byte("<a/>"), 0o644))

	writer := flock.New(path)
	acquired, err := writer.TryLock()
	require.NoError(t, err)
	require.True(t, acquired)

	reader := NewFileLock(path)
	acquired, err = reader.TryRLock()
	require.NoError(t, err)
	assert.False(t, acquired, "shared lock must fail while a writer holds the file")

	require.NoError(t, writer.Unlock())

	acquired, err = reader.TryRLock()
	require.NoError(t, err)
	assert.True(t, acquired)
	require.NoError(t, reader.Unlock())
}

func TestSharedLocksCoexist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.xml")
	require.NoError(t, os.WriteFile(path, []byte("<a/>"), 0o644))

	first := NewFileLock(path)
	second := NewFileLock(path)

	acquired, err := first.TryRLock()
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = second.TryRLock()
	require.NoError(t, err)
	assert.True(t, acquired)

	require.NoError(t, second.Unlock())
	require.NoError(t, first.Unlock())
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	require.NoError(t, AtomicWrite(path, []byte(`{"a": "1"}`)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a": "1"}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	// Overwrite replaces the content entirely.
	require.NoError(t, AtomicWrite(path, []byte(`{}`)))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

func TestAtomicWriteFailureLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	// A directory at the target path makes the final rename fail.
	require.NoError(t, os.Mkdir(path, 0o755))

	err := AtomicWrite(path, []byte(`{}`))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.json", entries[0].Name())
	assert.True(t, entries[0].IsDir())
}

func TestAtomicWriteMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.json")
	assert.Error(t, AtomicWrite(path, []byte(`{}`)))
}

func TestPathMutexSerializesSamePath(t *testing.T) {
	pm := NewPathMutex()

	var active, maxActive int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := pm.Lock("same.json")
			defer unlock()

			n := atomic.AddInt32(&active, 1)
			for {
				m := atomic.LoadInt32(&maxActive)
				if n <= m || atomic.CompareAndSwapInt32(&maxActive, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&active, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxActive)
	assert.Empty(t, pm.locks, "entries must be released after use")
}

func TestPathMutexDistinctPathsDoNotBlock(t *testing.T) {
	pm := NewPathMutex()

	unlockA := pm.Lock("a.json")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := pm.Lock("b.json")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on a different path blocked")
	}
}

func TestLockAndWriteConcurrentWriters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shared.json")
	pm := NewPathMutex()

	payloads := []string{`{"w": "1"}`, `{"w": "2"}`, `{"w": "3"}`, `{"w": "4"}`}

	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			assert.NoError(t, LockAndWrite(pm, path, []byte(p)))
		}(p)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, payloads, string(data))
}
