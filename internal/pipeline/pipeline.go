// Package pipeline implements the sequenced, role-gated approval workflow.
// Steps are materialized in bulk from a resolved template at submission time;
// at most one step is active for a non-terminal request, enforced as an
// explicit invariant rather than inferred from scattered status fields.
package pipeline

import (
	"time"

	"acqflow/pkg/schema"
)

// Action is an approver decision on an active step.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionReturn  Action = "return"
)

// Instantiate resolves a template against a classification and builds the
// ordered step list. Steps whose conditional predicate fails are materialized
// as skipped; the first runnable step is activated immediately.
func Instantiate(tmpl schema.ApprovalTemplate, c schema.Classification, now time.Time) ([]schema.ApprovalStep, error) {
	steps := make([]schema.ApprovalStep, 0, len(tmpl.Steps))
	activated := false

	for _, ts := range tmpl.Steps {
		id, err := schema.NewStepID()
		if err != nil {
			return nil, err
		}
		step := schema.ApprovalStep{
			ID:         id,
			StepNumber: ts.StepNumber,
			GateName:   ts.GateName,
			Role:       ts.Role,
			SLADays:    ts.SLADays,
			Status:     schema.StepPending,
		}
		if !ts.Condition.Holds(c.AcquisitionType, c.Tier) {
			step.Status = schema.StepSkipped
		} else if !activated {
			step.Status = schema.StepActive
			assigned := now
			step.AssignedAt = &assigned
			activated = true
		}
		steps = append(steps, step)
	}

	return steps, nil
}

// Apply processes an approval action against a step of the request. The
// request is mutated in place only when the action is legal; a rejected call
// leaves it untouched.
func Apply(req *schema.AcquisitionRequest, stepID string, actor schema.Role, action Action, comments string, now time.Time) (*schema.ApprovalStep, error) {
	step := req.FindStep(stepID)
	if step == nil {
		return nil, &schema.NotFoundError{Entity: "approval step", ID: stepID}
	}

	if actor != step.Role && actor != schema.RoleAdmin {
		return nil, &schema.PermissionError{Actor: actor, Required: string(step.Role)}
	}

	if step.Status != schema.StepActive && step.Status != schema.StepInReview {
		return nil, &schema.InvalidStateError{
			Entity:  "approval step",
			ID:      step.ID,
			Status:  string(step.Status),
			Message: "only active or in-review steps accept decisions",
		}
	}

	switch action {
	case ActionApprove:
		if blocked := unresolvedBlockers(req, step.GateName); len(blocked) > 0 {
			return nil, &schema.AdvisoryBlockError{GateName: step.GateName, AdvisoryIDs: blocked}
		}
		decide(step, schema.StepApproved, actor, comments, now)
		if next := activateNext(req, step.StepNumber, now); next == nil {
			req.Status = schema.RequestApproved
		}
	case ActionReject:
		decide(step, schema.StepRejected, actor, comments, now)
		req.Status = schema.RequestCancelled
	case ActionReturn:
		decide(step, schema.StepReturned, actor, comments, now)
		req.Status = schema.RequestReturned
	default:
		return nil, &schema.InvalidValueError{Field: "action", Message: "must be approve, reject, or return"}
	}

	req.UpdatedAt = now
	return step, nil
}

// Resubmit re-instantiates the pipeline from step 1 after a return. The
// superseded round is retained as history, never replayed.
func Resubmit(req *schema.AcquisitionRequest, tmpl schema.ApprovalTemplate, now time.Time) error {
	if req.Status != schema.RequestReturned {
		return &schema.InvalidStateError{
			Entity:  "request",
			ID:      req.ID,
			Status:  string(req.Status),
			Message: "only returned requests can be resubmitted",
		}
	}

	req.StepHistory = append(req.StepHistory, schema.StepHistory{
		Round:      len(req.StepHistory) + 1,
		ReturnedAt: now,
		Steps:      req.Steps,
	})

	steps, err := Instantiate(tmpl, req.Classification, now)
	if err != nil {
		return err
	}
	req.Steps = steps
	req.Status = schema.RequestSubmitted
	req.UpdatedAt = now
	return nil
}

// Blocker describes one item preventing a gate from clearing.
type Blocker struct {
	Kind    string `json:"kind"` // "document" or "advisory"
	ID      string `json:"id"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// GateReadiness reports whether a gate's prerequisites are met: required
// documents due before the gate are finished and blocking advisories are
// resolved.
func GateReadiness(req *schema.AcquisitionRequest, gateName string) (bool, []Blocker) {
	var blockers []Blocker

	for _, doc := range req.Documents {
		if !doc.IsRequired || doc.RequiredBeforeGate != gateName {
			continue
		}
		switch doc.Status {
		case schema.DocCompleted, schema.DocApproved, schema.DocNotRequired:
		default:
			blockers = append(blockers, Blocker{
				Kind:    "document",
				ID:      doc.ID,
				Name:    doc.Name,
				Status:  string(doc.Status),
				Message: doc.Name + " is " + string(doc.Status) + " (required before " + gateName + ")",
			})
		}
	}

	for _, adv := range req.Advisories {
		if adv.BlocksGate != gateName || adv.Status.Terminal() {
			continue
		}
		blockers = append(blockers, Blocker{
			Kind:    "advisory",
			ID:      adv.ID,
			Name:    string(adv.Team),
			Status:  string(adv.Status),
			Message: string(adv.Team) + " advisory is " + string(adv.Status) + " (blocks " + gateName + ")",
		})
	}

	return len(blockers) == 0, blockers
}

// CheckSingleActive verifies the at-most-one-active-step invariant.
func CheckSingleActive(req *schema.AcquisitionRequest) error {
	count := 0
	for _, s := range req.Steps {
		if s.Status == schema.StepActive || s.Status == schema.StepInReview {
			count++
		}
	}
	if count > 1 {
		return &schema.InvalidStateError{
			Entity:  "request",
			ID:      req.ID,
			Status:  string(req.Status),
			Message: "more than one approval step is active",
		}
	}
	return nil
}

func decide(step *schema.ApprovalStep, status schema.StepStatus, actor schema.Role, comments string, now time.Time) {
	step.Status = status
	step.DecidedAt = &now
	step.DecidedBy = actor
	if comments != "" {
		step.Comments = comments
	}
}

func activateNext(req *schema.AcquisitionRequest, afterStep int, now time.Time) *schema.ApprovalStep {
	for i := range req.Steps {
		s := &req.Steps[i]
		if s.StepNumber > afterStep && s.Status == schema.StepPending {
			s.Status = schema.StepActive
			assigned := now
			s.AssignedAt = &assigned
			return s
		}
	}
	return nil
}

func unresolvedBlockers(req *schema.AcquisitionRequest, gateName string) []string {
	var ids []string
	for _, adv := range req.Advisories {
		if adv.BlocksGate == gateName && !adv.Status.Terminal() {
			ids = append(ids, adv.ID)
		}
	}
	return ids
}
