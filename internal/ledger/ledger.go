// Package ledger tracks committed, obligated, and invoiced amounts per
// contract line item and validates funding availability for execution
// requests.
//
// Availability deliberately means obligated − invoiced − pending: funds
// already committed to the CLIN but not yet spent, eligible for new
// task-level charges. It is not ceiling headroom; do not "fix" the formula.
//
// Funding checks, reservations, and postings for the same CLIN are
// linearizable: they all run under the ledger lock, so two concurrent
// executions can never both pass a check against a balance only one can
// consume.
package ledger

import (
	"sync"
	"time"

	"acqflow/pkg/schema"

	"github.com/google/uuid"
)

// Ledger is the in-process funding ledger.
type Ledger struct {
	mu       sync.Mutex
	entries  map[string]*schema.CLINLedgerEntry
	reserved map[string]map[string]float64 // clinID → requestID → amount
	postings map[string]posting            // token → recorded posting
}

// posting records what a token was spent on, so a retry can be told apart
// from a token mistakenly reused for a different posting.
type posting struct {
	clinID string
	amount float64
	result schema.CLINLedgerEntry
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		entries:  make(map[string]*schema.CLINLedgerEntry),
		reserved: make(map[string]map[string]float64),
		postings: make(map[string]posting),
	}
}

// Upsert registers or replaces a CLIN entry.
func (l *Ledger) Upsert(entry schema.CLINLedgerEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := entry
	l.entries[e.ID] = &e
	l.syncPending(e.ID)
}

// Get returns a snapshot of a CLIN entry.
func (l *Ledger) Get(clinID string) (schema.CLINLedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[clinID]
	if !ok {
		return schema.CLINLedgerEntry{}, &schema.NotFoundError{Entity: "clin", ID: clinID}
	}
	return *e, nil
}

// CheckFunding computes availability for a requested amount.
// gap = max(0, requested − available), always ≥ 0. An insufficient result is
// not an error; the caller re-derives on the funding-augmented path.
func (l *Ledger) CheckFunding(clinID string, requested float64) (schema.FundingCheck, error) {
	if requested < 0 {
		return schema.FundingCheck{}, &schema.InvalidValueError{Field: "requested_amount", Message: "must be non-negative"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[clinID]
	if !ok {
		return schema.FundingCheck{}, &schema.NotFoundError{Entity: "clin", ID: clinID}
	}
	return checkAgainst(*e, requested), nil
}

// Reserve atomically checks availability and, when sufficient, holds the
// amount as pending for the given request so concurrent executions cannot
// double-spend the same balance. An insufficient check reserves nothing.
func (l *Ledger) Reserve(clinID, requestID string, amount float64) (schema.FundingCheck, error) {
	if amount < 0 {
		return schema.FundingCheck{}, &schema.InvalidValueError{Field: "requested_amount", Message: "must be non-negative"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[clinID]
	if !ok {
		return schema.FundingCheck{}, &schema.NotFoundError{Entity: "clin", ID: clinID}
	}

	check := checkAgainst(*e, amount)
	if check.Status == schema.FundingInsufficient {
		return check, nil
	}

	if l.reserved[clinID] == nil {
		l.reserved[clinID] = make(map[string]float64)
	}
	l.reserved[clinID][requestID] = amount
	l.syncPending(clinID)
	return check, nil
}

// Release drops a request's reservation, e.g. after a cancelled execution.
func (l *Ledger) Release(clinID, requestID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if holds, ok := l.reserved[clinID]; ok {
		delete(holds, requestID)
		l.syncPending(clinID)
	}
}

// PostExecution applies an approved execution to the CLIN, increasing the
// obligated amount. Only callable after full approval of the execution
// request. The client-supplied token makes retries idempotent: a token seen
// before returns the original posting result without mutating the ledger
// again, and a token reused for a different CLIN or amount is rejected.
// Postings that would push obligations past the ceiling fail with
// LedgerFaultError and leave the entry untouched.
func (l *Ledger) PostExecution(clinID, requestID string, approvedAmount float64, token string, now time.Time) (schema.CLINLedgerEntry, error) {
	if approvedAmount < 0 {
		return schema.CLINLedgerEntry{}, &schema.InvalidValueError{Field: "approved_amount", Message: "must be non-negative"}
	}
	if _, err := uuid.Parse(token); err != nil {
		return schema.CLINLedgerEntry{}, &schema.InvalidValueError{Field: "idempotency_token", Message: "must be a valid UUID"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if prior, ok := l.postings[token]; ok {
		if prior.clinID != clinID || prior.amount != approvedAmount {
			return schema.CLINLedgerEntry{}, &schema.InvalidValueError{
				Field:   "idempotency_token",
				Message: "token was already used for a different posting",
			}
		}
		return prior.result, nil
	}

	e, ok := l.entries[clinID]
	if !ok {
		return schema.CLINLedgerEntry{}, &schema.NotFoundError{Entity: "clin", ID: clinID}
	}

	if e.Obligated+approvedAmount > e.Ceiling {
		return schema.CLINLedgerEntry{}, &schema.LedgerFaultError{
			CLINID:  clinID,
			Message: "posting would exceed the CLIN ceiling",
		}
	}

	if holds, ok := l.reserved[clinID]; ok {
		delete(holds, requestID)
	}
	e.Obligated += approvedAmount
	e.Version++
	e.UpdatedAt = now.UTC()
	l.syncPending(clinID)

	snapshot := *e
	l.postings[token] = posting{clinID: clinID, amount: approvedAmount, result: snapshot}
	return snapshot, nil
}

// NewToken generates a client idempotency token.
func NewToken() string {
	return uuid.NewString()
}

func checkAgainst(e schema.CLINLedgerEntry, requested float64) schema.FundingCheck {
	available := e.Available()
	if requested <= available {
		return schema.FundingCheck{Status: schema.FundingSufficient, Available: available, Gap: 0}
	}
	return schema.FundingCheck{Status: schema.FundingInsufficient, Available: available, Gap: requested - available}
}

// syncPending recomputes the entry's pending amount from live reservations.
// Callers must hold the lock.
func (l *Ledger) syncPending(clinID string) {
	e, ok := l.entries[clinID]
	if !ok {
		return
	}
	total := 0.0
	for _, amount := range l.reserved[clinID] {
		total += amount
	}
	e.Pending = total
}
