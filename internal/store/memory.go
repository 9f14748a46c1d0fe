package store

import (
	"sort"
	"sync"

	"acqflow/pkg/schema"
)

// MemoryStore is an in-process Store for tests and demos.
type MemoryStore struct {
	mu       sync.RWMutex
	requests map[string]*schema.AcquisitionRequest
	clins    map[string]schema.CLINLedgerEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		requests: make(map[string]*schema.AcquisitionRequest),
		clins:    make(map[string]schema.CLINLedgerEntry),
	}
}

// CreateRequest stores a new request at version 0.
func (s *MemoryStore) CreateRequest(req *schema.AcquisitionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.requests[req.ID]; exists {
		return &schema.ConflictError{Entity: "request", ID: req.ID}
	}

	req.Version = 0
	stored, err := cloneRequest(req)
	if err != nil {
		return err
	}
	s.requests[req.ID] = stored
	return nil
}

// GetRequest returns an isolated copy of the stored request.
func (s *MemoryStore) GetRequest(id string) (*schema.AcquisitionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.requests[id]
	if !ok {
		return nil, &schema.NotFoundError{Entity: "request", ID: id}
	}
	return cloneRequest(stored)
}

// UpdateRequest replaces the stored request if the caller's version matches,
// then bumps the version on both the stored copy and the caller's.
func (s *MemoryStore) UpdateRequest(req *schema.AcquisitionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.requests[req.ID]
	if !ok {
		return &schema.NotFoundError{Entity: "request", ID: req.ID}
	}
	if stored.Version != req.Version {
		return &schema.ConflictError{Entity: "request", ID: req.ID}
	}

	req.Version++
	next, err := cloneRequest(req)
	if err != nil {
		req.Version--
		return err
	}
	s.requests[req.ID] = next
	return nil
}

// ListRequests returns isolated copies of all requests, ordered by ID.
func (s *MemoryStore) ListRequests() ([]*schema.AcquisitionRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*schema.AcquisitionRequest, 0, len(s.requests))
	for _, stored := range s.requests {
		req, err := cloneRequest(stored)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveCLIN stores or replaces a CLIN ledger entry.
func (s *MemoryStore) SaveCLIN(entry schema.CLINLedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clins[entry.ID] = entry
	return nil
}

// GetCLIN returns a stored CLIN entry.
func (s *MemoryStore) GetCLIN(id string) (schema.CLINLedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.clins[id]
	if !ok {
		return schema.CLINLedgerEntry{}, &schema.NotFoundError{Entity: "clin", ID: id}
	}
	return entry, nil
}

// ListCLINs returns all stored CLIN entries, ordered by ID.
func (s *MemoryStore) ListCLINs() ([]schema.CLINLedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]schema.CLINLedgerEntry, 0, len(s.clins))
	for _, entry := range s.clins {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
