package schema

import "time"

// CLINLedgerEntry tracks post-award balances for one contract line item.
//
// Available intentionally means obligated minus invoiced minus pending: funds
// already committed to the CLIN but not yet spent, eligible for new task-level
// charges. It is not ceiling headroom. Preserve the formula as-is.
type CLINLedgerEntry struct {
	ID         string   `json:"id" yaml:"id"`
	CLINNumber string   `json:"clin_number" yaml:"clin_number"`
	ContractID string   `json:"contract_id,omitempty" yaml:"contract_id,omitempty"`
	Type       CLINType `json:"type" yaml:"type"`
	Ceiling    float64  `json:"ceiling" yaml:"ceiling"`
	Obligated  float64  `json:"obligated" yaml:"obligated"`
	Invoiced   float64  `json:"invoiced" yaml:"invoiced"`

	// Pending is the sum of in-flight execution requests that have passed a
	// funding check but not yet posted.
	Pending float64 `json:"pending" yaml:"pending"`

	// Version guards compare-and-swap on posting.
	Version   int       `json:"version" yaml:"version"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Available returns the committed-but-unspent balance.
func (c CLINLedgerEntry) Available() float64 {
	return c.Obligated - c.Invoiced - c.Pending
}

// RemainingCeiling returns headroom under the CLIN ceiling.
func (c CLINLedgerEntry) RemainingCeiling() float64 {
	return c.Ceiling - c.Obligated
}

// BurnRate estimates monthly spend from invoiced amounts over an assumed
// six-month window.
func (c CLINLedgerEntry) BurnRate() float64 {
	if c.Invoiced > 0 {
		return c.Invoiced / 6
	}
	return 0
}

// Health classifies the CLIN's spending runway.
func (c CLINLedgerEntry) Health() CLINHealth {
	if c.Obligated == 0 {
		return CLINHealthy
	}
	available := c.Available()
	if available <= 0 {
		return CLINExhausted
	}
	if burn := c.BurnRate(); burn > 0 {
		months := available / burn
		if months < 1 {
			return CLINCritical
		}
		if months < 3 {
			return CLINWatch
		}
	}
	return CLINHealthy
}

// FundingCheck is the result of a CLIN availability check.
type FundingCheck struct {
	Status    FundingStatus `json:"status" yaml:"status"`
	Available float64       `json:"available" yaml:"available"`
	Gap       float64       `json:"gap" yaml:"gap"`
}
