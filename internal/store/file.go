package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"acqflow/pkg/schema"

	"gopkg.in/yaml.v3"
)

const (
	requestsDir = "requests"
	clinsDir    = "clins"

	// LockFileName is the cross-process lock in the data directory's parent.
	// It must stay outside the data directory: commit swaps the directory by
	// rename, which would orphan a lock held on a file inside it.
	LockFileName = ".lock"
)

// FileStore persists each request and CLIN entry as a YAML file under the
// data directory. Writes go through the copy-on-write transaction, so a
// crash never leaves a half-written record. The in-process mutex serializes
// the read-check-swap of compare-and-swap updates.
type FileStore struct {
	mu      sync.Mutex
	baseDir string
	lock    *FileLock
}

// NewFileStore opens (or initializes) a file-backed store rooted at dir and
// takes the cross-process lock. Close releases it.
func NewFileStore(dir string) (*FileStore, error) {
	for _, sub := range []string{requestsDir, clinsDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("initialize data directory: %w", err)
		}
	}

	lock := NewFileLock(filepath.Join(filepath.Dir(dir), LockFileName), "store")
	if err := lock.Acquire(); err != nil {
		return nil, fmt.Errorf("lock data directory: %w", err)
	}
	return &FileStore{baseDir: dir, lock: lock}, nil
}

// Close releases the data-directory lock.
func (s *FileStore) Close() error {
	return s.lock.Release()
}

// CreateRequest writes a new request record at version 0.
func (s *FileStore) CreateRequest(req *schema.AcquisitionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.baseDir, requestsDir, req.ID+".yaml")
	if _, err := os.Stat(path); err == nil {
		return &schema.ConflictError{Entity: "request", ID: req.ID}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat request file: %w", err)
	}

	req.Version = 0
	return s.writeRecord(filepath.Join(requestsDir, req.ID+".yaml"), req)
}

// GetRequest loads a request record.
func (s *FileStore) GetRequest(id string) (*schema.AcquisitionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readRequest(id)
}

// UpdateRequest replaces the stored record if the caller's version matches
// the version on disk, then bumps the caller's version.
func (s *FileStore) UpdateRequest(req *schema.AcquisitionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.readRequest(req.ID)
	if err != nil {
		return err
	}
	if stored.Version != req.Version {
		return &schema.ConflictError{Entity: "request", ID: req.ID}
	}

	req.Version++
	if err := s.writeRecord(filepath.Join(requestsDir, req.ID+".yaml"), req); err != nil {
		req.Version--
		return err
	}
	return nil
}

// ListRequests loads every request record, ordered by ID (directory order is
// already lexicographic via os.ReadDir).
func (s *FileStore) ListRequests() ([]*schema.AcquisitionRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(filepath.Join(s.baseDir, requestsDir))
	if err != nil {
		return nil, fmt.Errorf("read requests directory: %w", err)
	}

	var out []*schema.AcquisitionRequest
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		req, err := s.readRequest(strings.TrimSuffix(entry.Name(), ".yaml"))
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// SaveCLIN stores or replaces a CLIN ledger entry.
func (s *FileStore) SaveCLIN(entry schema.CLINLedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeRecord(filepath.Join(clinsDir, entry.ID+".yaml"), entry)
}

// GetCLIN loads a CLIN ledger entry.
func (s *FileStore) GetCLIN(id string) (schema.CLINLedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.baseDir, clinsDir, id+".yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return schema.CLINLedgerEntry{}, &schema.NotFoundError{Entity: "clin", ID: id}
		}
		return schema.CLINLedgerEntry{}, fmt.Errorf("read clin file: %w", err)
	}

	var entry schema.CLINLedgerEntry
	if err := yaml.Unmarshal(data, &entry); err != nil {
		return schema.CLINLedgerEntry{}, fmt.Errorf("parse clin file: %w", err)
	}
	return entry, nil
}

// ListCLINs loads every stored CLIN entry.
func (s *FileStore) ListCLINs() ([]schema.CLINLedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(filepath.Join(s.baseDir, clinsDir))
	if err != nil {
		return nil, fmt.Errorf("read clins directory: %w", err)
	}

	var out []schema.CLINLedgerEntry
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, clinsDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read clin file: %w", err)
		}
		var clin schema.CLINLedgerEntry
		if err := yaml.Unmarshal(data, &clin); err != nil {
			return nil, fmt.Errorf("parse clin file: %w", err)
		}
		out = append(out, clin)
	}
	return out, nil
}

func (s *FileStore) readRequest(id string) (*schema.AcquisitionRequest, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, requestsDir, id+".yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &schema.NotFoundError{Entity: "request", ID: id}
		}
		return nil, fmt.Errorf("read request file: %w", err)
	}

	var req schema.AcquisitionRequest
	if err := yaml.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("parse request file: %w", err)
	}
	return &req, nil
}

func (s *FileStore) writeRecord(relativePath string, record any) error {
	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	tx := NewTx(s.baseDir)
	if err := tx.Begin(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := tx.WriteFile(relativePath, data); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("write record: %w (rollback: %v)", err, rbErr)
		}
		return fmt.Errorf("write record: %w", err)
	}
	if err := tx.Commit(); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("commit transaction: %w (rollback: %v)", err, rbErr)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
