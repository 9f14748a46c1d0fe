package schema

import (
	"fmt"
	"strings"
)

// Error codes surfaced to callers alongside human-readable messages.
const (
	CodeInvalidValue  = "invalid_value"
	CodeAmbiguousRule = "ambiguous_rule"
	CodeInvalidState  = "invalid_state"
	CodePermission    = "permission_denied"
	CodeAdvisoryBlock = "advisory_block"
	CodeConflict      = "conflict"
	CodeLedgerFault   = "ledger_fault"
	CodeNotFound      = "not_found"
)

// InvalidValueError reports malformed numeric or tier input.
type InvalidValueError struct {
	Field   string
	Message string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Code returns the structured error code.
func (e *InvalidValueError) Code() string { return CodeInvalidValue }

// AmbiguousRuleError is a catalog defect: more than one intake path matched a
// single answer combination. Fatal, must alert operators, never silently
// resolved.
type AmbiguousRuleError struct {
	PathIDs []string
}

func (e *AmbiguousRuleError) Error() string {
	return fmt.Sprintf("catalog defect: paths %s share a discriminator tuple", strings.Join(e.PathIDs, ", "))
}

// Code returns the structured error code.
func (e *AmbiguousRuleError) Code() string { return CodeAmbiguousRule }

// InvalidStateError reports an action attempted on a step or review that is
// not in an eligible state.
type InvalidStateError struct {
	Entity  string
	ID      string
	Status  string
	Message string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s in status %s: %s", e.Entity, e.ID, e.Status, e.Message)
}

// Code returns the structured error code.
func (e *InvalidStateError) Code() string { return CodeInvalidState }

// PermissionError reports an actor lacking the role an action requires.
type PermissionError struct {
	Actor    Role
	Required string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("role %s does not satisfy required %s", e.Actor, e.Required)
}

// Code returns the structured error code.
func (e *PermissionError) Code() string { return CodePermission }

// AdvisoryBlockError reports a gate approval blocked by unresolved advisory
// reviews.
type AdvisoryBlockError struct {
	GateName    string
	AdvisoryIDs []string
}

func (e *AdvisoryBlockError) Error() string {
	return fmt.Sprintf("gate %s blocked by unresolved advisories: %s", e.GateName, strings.Join(e.AdvisoryIDs, ", "))
}

// Code returns the structured error code.
func (e *AdvisoryBlockError) Code() string { return CodeAdvisoryBlock }

// ConflictError reports a lost concurrent-mutation race. The caller may retry
// with a fresh read; the engine never retries on its own.
type ConflictError struct {
	Entity string
	ID     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently", e.Entity, e.ID)
}

// Code returns the structured error code.
func (e *ConflictError) Code() string { return CodeConflict }

// LedgerFaultError reports a funding posting that would violate the CLIN
// ceiling invariant.
type LedgerFaultError struct {
	CLINID  string
	Message string
}

func (e *LedgerFaultError) Error() string {
	return fmt.Sprintf("ledger fault on %s: %s", e.CLINID, e.Message)
}

// Code returns the structured error code.
func (e *LedgerFaultError) Code() string { return CodeLedgerFault }

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// Code returns the structured error code.
func (e *NotFoundError) Code() string { return CodeNotFound }
