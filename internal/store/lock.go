package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"syscall"
	"time"
)

// staleLockAge is how old a lock can get before another process may steal it.
const staleLockAge = 30 * time.Minute

// lockInfo is the metadata stored in the lock file for diagnostics.
type lockInfo struct {
	PID       int       `json:"pid"`
	Hostname  string    `json:"hostname"`
	Owner     string    `json:"owner"` // e.g. "cli", "demo"
	Timestamp time.Time `json:"timestamp"`
}

// FileLock serializes data-directory access across processes via flock. Stale
// locks from dead processes are detected and stolen.
type FileLock struct {
	path  string
	file  *os.File
	owner string
}

// NewFileLock creates a lock at the given path. Acquire must be called before
// the data directory is touched.
func NewFileLock(path, owner string) *FileLock {
	return &FileLock{path: path, owner: owner}
}

// Acquire takes the exclusive lock, stealing it if the holder is stale.
func (l *FileLock) Acquire() error {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		if closeErr := file.Close(); closeErr != nil {
			log.Printf("warning: close lock file: %v", closeErr)
		}

		existing, readErr := l.readInfo()
		if readErr == nil && l.isStale(existing) {
			_ = os.Remove(l.path)
			return l.Acquire()
		}
		if readErr == nil {
			age := time.Since(existing.Timestamp).Round(time.Second)
			return fmt.Errorf("data directory locked by %s (PID %d, %v ago)",
				existing.Owner, existing.PID, age)
		}
		return fmt.Errorf("acquire lock: %w", err)
	}

	l.file = file

	hostname, _ := os.Hostname()
	info := lockInfo{
		PID:       os.Getpid(),
		Hostname:  hostname,
		Owner:     l.owner,
		Timestamp: time.Now(),
	}
	data, _ := json.MarshalIndent(info, "", "  ")
	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("seek lock file: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("write lock metadata: %w", err)
	}
	return nil
}

// Release drops the lock and removes the lock file.
func (l *FileLock) Release() error {
	if l.file == nil {
		return nil
	}
	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		log.Printf("warning: release flock: %v", err)
	}
	if err := l.file.Close(); err != nil {
		log.Printf("warning: close lock file: %v", err)
	}
	l.file = nil
	return os.Remove(l.path)
}

func (l *FileLock) readInfo() (*lockInfo, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	var info lockInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (l *FileLock) isStale(info *lockInfo) bool {
	process, err := os.FindProcess(info.PID)
	if err != nil {
		return true
	}
	// FindProcess always succeeds on Unix; signal 0 probes liveness.
	if err := process.Signal(syscall.Signal(0)); err != nil {
		return true
	}
	return time.Since(info.Timestamp) > staleLockAge
}
