package schema

import "time"

// PackageDocument is a per-request instance of a required document. The set
// of instances is fixed at checklist-generation time; reconciliation only
// flips IsRequired/WasRequired, it never deletes history.
type PackageDocument struct {
	ID                 string         `json:"id" yaml:"id"`
	Name               string         `json:"name" yaml:"name"`
	Status             DocumentStatus `json:"status" yaml:"status"`
	IsRequired         bool           `json:"is_required" yaml:"is_required"`
	WasRequired        bool           `json:"was_required" yaml:"was_required"`
	RequiredBeforeGate string         `json:"required_before_gate" yaml:"required_before_gate"`
	AIAssistable       bool           `json:"ai_assistable" yaml:"ai_assistable"`
	CreatedAt          time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at" yaml:"updated_at"`
}

// ApprovalStep is a per-request instance of a template gate. Gate identity
// (number, name, role) is immutable after materialization; only status and
// decision fields mutate.
type ApprovalStep struct {
	ID         string     `json:"id" yaml:"id"`
	StepNumber int        `json:"step_number" yaml:"step_number"`
	GateName   string     `json:"gate_name" yaml:"gate_name"`
	Role       Role       `json:"approver_role" yaml:"approver_role"`
	Status     StepStatus `json:"status" yaml:"status"`
	SLADays    int        `json:"sla_days" yaml:"sla_days"`
	AssignedAt *time.Time `json:"assigned_at,omitempty" yaml:"assigned_at,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty" yaml:"decided_at,omitempty"`
	DecidedBy  Role       `json:"decided_by,omitempty" yaml:"decided_by,omitempty"`
	Comments   string     `json:"comments,omitempty" yaml:"comments,omitempty"`
}

// IsOverdue reports whether an active or in-review step has exceeded its SLA.
// Derived at query time, never persisted.
func (s ApprovalStep) IsOverdue(now time.Time) bool {
	if s.Status != StepActive && s.Status != StepInReview {
		return false
	}
	if s.AssignedAt == nil {
		return false
	}
	return now.After(s.AssignedAt.Add(time.Duration(s.SLADays) * 24 * time.Hour))
}

// AdvisoryReview is a per-request, per-team parallel review.
type AdvisoryReview struct {
	ID              string         `json:"id" yaml:"id"`
	Team            Team           `json:"team" yaml:"team"`
	Status          AdvisoryStatus `json:"status" yaml:"status"`
	Findings        string         `json:"findings,omitempty" yaml:"findings,omitempty"`
	Recommendation  string         `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	ImpactsStrategy bool           `json:"impacts_strategy" yaml:"impacts_strategy"`

	// BlocksGate names the gate this review must resolve before, empty if
	// the review is advisory-only.
	BlocksGate string `json:"blocks_gate,omitempty" yaml:"blocks_gate,omitempty"`

	// Info-exchange sub-protocol fields.
	RequestMessage     string `json:"request_message,omitempty" yaml:"request_message,omitempty"`
	Response           string `json:"response,omitempty" yaml:"response,omitempty"`
	ResponseAttachment string `json:"response_attachment,omitempty" yaml:"response_attachment,omitempty"`

	RequestedAt time.Time  `json:"requested_at" yaml:"requested_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// StepHistory records a superseded approval round. A returned pipeline is
// re-instantiated from step 1; prior decisions are retained here, not
// replayed.
type StepHistory struct {
	Round      int            `json:"round" yaml:"round"`
	ReturnedAt time.Time      `json:"returned_at" yaml:"returned_at"`
	Steps      []ApprovalStep `json:"steps" yaml:"steps"`
}

// AcquisitionRequest is the aggregate the engine mutates. Version guards
// whole-record compare-and-swap in the store.
type AcquisitionRequest struct {
	ID             string           `json:"id" yaml:"id"`
	Title          string           `json:"title" yaml:"title"`
	Requestor      string           `json:"requestor" yaml:"requestor"`
	Status         RequestStatus    `json:"status" yaml:"status"`
	Answers        IntakeAnswer     `json:"answers" yaml:"answers"`
	Classification Classification   `json:"classification" yaml:"classification"`
	Documents      []PackageDocument `json:"documents,omitempty" yaml:"documents,omitempty"`
	Steps          []ApprovalStep   `json:"steps,omitempty" yaml:"steps,omitempty"`
	StepHistory    []StepHistory    `json:"step_history,omitempty" yaml:"step_history,omitempty"`
	Advisories     []AdvisoryReview `json:"advisories,omitempty" yaml:"advisories,omitempty"`
	Version        int              `json:"version" yaml:"version"`
	CreatedAt      time.Time        `json:"created_at" yaml:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" yaml:"updated_at"`
}

// ActiveStep returns the single active step, or nil for a terminal or
// not-yet-submitted request.
func (r *AcquisitionRequest) ActiveStep() *ApprovalStep {
	for i := range r.Steps {
		if r.Steps[i].Status == StepActive || r.Steps[i].Status == StepInReview {
			return &r.Steps[i]
		}
	}
	return nil
}

// FindStep returns the step with the given ID, or nil.
func (r *AcquisitionRequest) FindStep(stepID string) *ApprovalStep {
	for i := range r.Steps {
		if r.Steps[i].ID == stepID {
			return &r.Steps[i]
		}
	}
	return nil
}

// FindDocument returns the document with the given ID, or nil.
func (r *AcquisitionRequest) FindDocument(documentID string) *PackageDocument {
	for i := range r.Documents {
		if r.Documents[i].ID == documentID {
			return &r.Documents[i]
		}
	}
	return nil
}

// FindAdvisory returns the advisory review with the given ID, or nil.
func (r *AcquisitionRequest) FindAdvisory(advisoryID string) *AdvisoryReview {
	for i := range r.Advisories {
		if r.Advisories[i].ID == advisoryID {
			return &r.Advisories[i]
		}
	}
	return nil
}
