// Package store persists acquisition requests and CLIN ledger entries.
//
// Both backends implement whole-record compare-and-swap: an update must carry
// the version it was read at, and a stale version fails with ConflictError so
// two approvers racing on the same request cannot silently overwrite each
// other. Versions are bumped by the store on successful writes.
package store

import (
	"acqflow/pkg/schema"

	"gopkg.in/yaml.v3"
)

// Store is the persistence boundary for request aggregates and CLIN entries.
type Store interface {
	CreateRequest(req *schema.AcquisitionRequest) error
	GetRequest(id string) (*schema.AcquisitionRequest, error)
	UpdateRequest(req *schema.AcquisitionRequest) error
	ListRequests() ([]*schema.AcquisitionRequest, error)

	SaveCLIN(entry schema.CLINLedgerEntry) error
	GetCLIN(id string) (schema.CLINLedgerEntry, error)
	ListCLINs() ([]schema.CLINLedgerEntry, error)
}

// cloneRequest deep-copies a request through its YAML form so callers can
// never alias stored state.
func cloneRequest(req *schema.AcquisitionRequest) (*schema.AcquisitionRequest, error) {
	data, err := yaml.Marshal(req)
	if err != nil {
		return nil, err
	}
	var out schema.AcquisitionRequest
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
