// Package core wires the subsystem packages into the acquisition lifecycle
// engine: intake derivation, checklist management, the approval pipeline,
// advisory reviews, and the CLIN funding ledger.
//
// Every mutating operation loads the request, applies the change in memory,
// and writes it back under the store's version precondition. A failed write
// surfaces as ConflictError; the engine never auto-retries.
package core

import (
	"fmt"
	"time"

	"acqflow/internal/advisory"
	"acqflow/internal/catalog"
	"acqflow/internal/checklist"
	"acqflow/internal/derive"
	"acqflow/internal/ledger"
	"acqflow/internal/pipeline"
	"acqflow/internal/store"
	"acqflow/pkg/schema"
)

// Engine orchestrates the acquisition request lifecycle.
type Engine struct {
	catalog *catalog.Store
	store   store.Store
	ledger  *ledger.Ledger
	derive  *derive.Engine
	logger  Logger
	clock   func() time.Time
}

// NewEngine creates an engine over the given collaborators. CLIN entries
// already persisted in the store seed the ledger.
func NewEngine(cat *catalog.Store, st store.Store, led *ledger.Ledger, logger Logger) (*Engine, error) {
	clins, err := st.ListCLINs()
	if err != nil {
		return nil, fmt.Errorf("seed ledger: %w", err)
	}
	for _, entry := range clins {
		led.Upsert(entry)
	}

	return &Engine{
		catalog: cat,
		store:   st,
		ledger:  led,
		derive:  derive.New(cat),
		logger:  logger,
		clock:   time.Now,
	}, nil
}

// DeriveClassification is the pure intake preview: it classifies the answer
// without creating or mutating any request. For CLIN executions it also runs
// the funding check and, when committed funds fall short, redirects to the
// funding-augmented path with the gap recorded.
func (e *Engine) DeriveClassification(answer schema.IntakeAnswer) (schema.Classification, error) {
	c, err := e.derive.Derive(answer)
	if err != nil {
		return schema.Classification{}, err
	}
	if !c.Matched {
		e.logger.Debug("derivation unclassified",
			"need_type", string(answer.NeedType), "situation", string(answer.Situation))
		return c, nil
	}

	if c.Pipeline == schema.PipelineCLINExecution && answer.CLINID != "" {
		check, err := e.ledger.CheckFunding(answer.CLINID, answer.EstimatedValue)
		if err != nil {
			return schema.Classification{}, err
		}
		if check.Status == schema.FundingInsufficient {
			augmented, err := e.derive.Derive(derive.FundingAugmented(answer))
			if err != nil {
				return schema.Classification{}, err
			}
			augmented.FundingGap = check.Gap
			e.logger.Info("execution redirected to funding action",
				"clin_id", answer.CLINID, "gap", check.Gap)
			return augmented, nil
		}
	}

	return c, nil
}

// CreateRequest opens a new request in intake with a classification preview.
func (e *Engine) CreateRequest(title, requestor string, answer schema.IntakeAnswer) (*schema.AcquisitionRequest, error) {
	c, err := e.DeriveClassification(answer)
	if err != nil {
		return nil, err
	}

	id, err := schema.NewRequestID()
	if err != nil {
		return nil, err
	}

	now := e.clock()
	req := &schema.AcquisitionRequest{
		ID:             id,
		Title:          title,
		Requestor:      requestor,
		Status:         schema.RequestIntake,
		Answers:        c.Answers,
		Classification: c,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := e.store.CreateRequest(req); err != nil {
		return nil, err
	}

	e.logger.Info("request created", "request_id", req.ID, "path_id", c.PathID, "tier", string(c.Tier))
	return req, nil
}

// CompleteIntake freezes the classification, generates the document
// checklist, materializes the approval pipeline and advisory reviews, and
// submits the request. CLIN executions additionally reserve the requested
// amount so concurrent executions cannot double-spend the same balance.
func (e *Engine) CompleteIntake(requestID string) (*schema.AcquisitionRequest, error) {
	req, err := e.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != schema.RequestIntake {
		return nil, &schema.InvalidStateError{
			Entity:  "request",
			ID:      req.ID,
			Status:  string(req.Status),
			Message: "intake can only be completed once, from intake status",
		}
	}

	c := req.Classification
	if !c.Matched {
		return nil, &schema.InvalidStateError{
			Entity:  "request",
			ID:      req.ID,
			Status:  string(req.Status),
			Message: "unclassified requests need more intake answers before submission",
		}
	}

	tmpl, ok := e.catalog.Template(c.ApprovalTemplateKey)
	if !ok {
		return nil, &schema.NotFoundError{Entity: "approval template", ID: c.ApprovalTemplateKey}
	}

	now := e.clock()

	// Recalculate may already have materialized documents during intake;
	// reconcile instead of regenerating so document IDs and history survive
	// submission.
	docs := req.Documents
	if len(docs) == 0 {
		docs, err = checklist.Generate(e.catalog.DocumentRules(), c, now)
	} else {
		docs, _, err = checklist.Reconcile(docs, e.catalog.DocumentRules(), c, now)
	}
	if err != nil {
		return nil, err
	}
	steps, err := pipeline.Instantiate(tmpl, c, now)
	if err != nil {
		return nil, err
	}
	advisories, err := advisory.Materialize(c.AdvisoryTriggers, now)
	if err != nil {
		return nil, err
	}

	if c.Pipeline == schema.PipelineCLINExecution && req.Answers.CLINID != "" {
		check, err := e.ledger.Reserve(req.Answers.CLINID, req.ID, req.Answers.EstimatedValue)
		if err != nil {
			return nil, err
		}
		if check.Status == schema.FundingInsufficient {
			// Balance moved since derivation. Push the request back through
			// intake so it re-derives onto the funding-augmented path.
			return nil, &schema.LedgerFaultError{
				CLINID:  req.Answers.CLINID,
				Message: fmt.Sprintf("committed funds no longer cover the request (gap %.2f); rerun intake", check.Gap),
			}
		}
	}

	req.Documents = docs
	req.Steps = steps
	req.Advisories = advisories
	req.Status = schema.RequestSubmitted
	req.UpdatedAt = now

	if err := e.store.UpdateRequest(req); err != nil {
		if req.Answers.CLINID != "" {
			e.ledger.Release(req.Answers.CLINID, req.ID)
		}
		return nil, err
	}

	e.logger.Info("intake completed", "request_id", req.ID,
		"documents", len(docs), "steps", len(steps), "advisories", len(advisories))
	return req, nil
}

// Recalculate re-derives the classification from updated answers and
// reconciles the document checklist. Only legal before submission or after a
// return; an in-flight pipeline is never reshaped underneath its approvers.
func (e *Engine) Recalculate(requestID string, answer schema.IntakeAnswer) (*schema.AcquisitionRequest, checklist.Diff, error) {
	req, err := e.store.GetRequest(requestID)
	if err != nil {
		return nil, checklist.Diff{}, err
	}
	if req.Status != schema.RequestIntake && req.Status != schema.RequestReturned {
		return nil, checklist.Diff{}, &schema.InvalidStateError{
			Entity:  "request",
			ID:      req.ID,
			Status:  string(req.Status),
			Message: "answers can only change during intake or after a return",
		}
	}

	c, err := e.DeriveClassification(answer)
	if err != nil {
		return nil, checklist.Diff{}, err
	}

	now := e.clock()
	docs, diff, err := checklist.Reconcile(req.Documents, e.catalog.DocumentRules(), c, now)
	if err != nil {
		return nil, checklist.Diff{}, err
	}

	req.Answers = c.Answers
	req.Classification = c
	req.Documents = docs
	req.UpdatedAt = now

	if err := e.store.UpdateRequest(req); err != nil {
		return nil, checklist.Diff{}, err
	}

	e.logger.Info("request recalculated", "request_id", req.ID, "path_id", c.PathID,
		"docs_added", len(diff.Added), "docs_removed", len(diff.Removed))
	return req, diff, nil
}

// ApprovalAction processes an approve, reject, or return decision on a step.
func (e *Engine) ApprovalAction(requestID, stepID string, actor schema.Role, action pipeline.Action, comments string) (*schema.AcquisitionRequest, error) {
	req, err := e.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}

	step, err := pipeline.Apply(req, stepID, actor, action, comments, e.clock())
	if err != nil {
		return nil, err
	}

	if err := e.store.UpdateRequest(req); err != nil {
		return nil, err
	}

	// A cancelled execution gives its funding hold back, only once the
	// cancellation is durably stored. A lost write must leave the hold in
	// place: the stored request is still live and still consuming it.
	if req.Status == schema.RequestCancelled && req.Answers.CLINID != "" {
		e.ledger.Release(req.Answers.CLINID, req.ID)
	}

	e.logger.Info("approval action", "request_id", req.ID, "gate", step.GateName,
		"action", string(action), "actor", string(actor), "request_status", string(req.Status))
	return req, nil
}

// Resubmit returns a revised request to the pipeline after a return. The
// superseded round is archived; approvals restart from step 1.
func (e *Engine) Resubmit(requestID string) (*schema.AcquisitionRequest, error) {
	req, err := e.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}

	tmpl, ok := e.catalog.Template(req.Classification.ApprovalTemplateKey)
	if !ok {
		return nil, &schema.NotFoundError{Entity: "approval template", ID: req.Classification.ApprovalTemplateKey}
	}

	if err := pipeline.Resubmit(req, tmpl, e.clock()); err != nil {
		return nil, err
	}
	if err := e.store.UpdateRequest(req); err != nil {
		return nil, err
	}

	e.logger.Info("request resubmitted", "request_id", req.ID, "round", len(req.StepHistory)+1)
	return req, nil
}

// AdvisorySubmit records a team's review findings or information request.
func (e *Engine) AdvisorySubmit(requestID, advisoryID string, actorTeam schema.Team, input advisory.SubmitInput) (*schema.AcquisitionRequest, error) {
	req, err := e.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}

	adv := req.FindAdvisory(advisoryID)
	if adv == nil {
		return nil, &schema.NotFoundError{Entity: "advisory review", ID: advisoryID}
	}
	if err := advisory.Submit(adv, actorTeam, input, e.clock()); err != nil {
		return nil, err
	}
	if err := e.store.UpdateRequest(req); err != nil {
		return nil, err
	}

	e.logger.Info("advisory submitted", "request_id", req.ID, "team", string(adv.Team), "status", string(adv.Status))
	return req, nil
}

// AdvisoryRespond answers an advisory information request and re-enters
// review.
func (e *Engine) AdvisoryRespond(requestID, advisoryID, response, attachment string) (*schema.AcquisitionRequest, error) {
	req, err := e.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}

	adv := req.FindAdvisory(advisoryID)
	if adv == nil {
		return nil, &schema.NotFoundError{Entity: "advisory review", ID: advisoryID}
	}
	if err := advisory.Respond(adv, response, attachment, e.clock()); err != nil {
		return nil, err
	}
	if err := e.store.UpdateRequest(req); err != nil {
		return nil, err
	}

	return req, nil
}

// ToggleDocumentRequired flips a document's required flag. Restricted to the
// allow-listed roles; never touches document status.
func (e *Engine) ToggleDocumentRequired(requestID, documentID string, required bool, actor schema.Role) (*schema.AcquisitionRequest, error) {
	req, err := e.store.GetRequest(requestID)
	if err != nil {
		return nil, err
	}

	doc := req.FindDocument(documentID)
	if doc == nil {
		return nil, &schema.NotFoundError{Entity: "document", ID: documentID}
	}
	if err := checklist.Toggle(doc, required, actor, e.clock()); err != nil {
		return nil, err
	}
	if err := e.store.UpdateRequest(req); err != nil {
		return nil, err
	}

	e.logger.Info("document toggled", "request_id", req.ID, "document", doc.Name,
		"required", required, "actor", string(actor))
	return req, nil
}

// GateReadiness reports whether a gate's document and advisory prerequisites
// are met.
func (e *Engine) GateReadiness(requestID, gateName string) (bool, []pipeline.Blocker, error) {
	req, err := e.store.GetRequest(requestID)
	if err != nil {
		return false, nil, err
	}
	ready, blockers := pipeline.GateReadiness(req, gateName)
	return ready, blockers, nil
}

// RegisterCLIN persists a contract line item and makes it available for
// funding checks. An entry without an ID gets one generated.
func (e *Engine) RegisterCLIN(entry schema.CLINLedgerEntry) (schema.CLINLedgerEntry, error) {
	if entry.ID == "" {
		id, err := schema.NewCLINID()
		if err != nil {
			return schema.CLINLedgerEntry{}, err
		}
		entry.ID = id
	}
	if err := e.store.SaveCLIN(entry); err != nil {
		return schema.CLINLedgerEntry{}, err
	}
	e.ledger.Upsert(entry)

	e.logger.Info("clin registered", "clin_id", entry.ID, "ceiling", entry.Ceiling)
	return entry, nil
}

// CheckCLINFunding runs the availability check without reserving anything.
func (e *Engine) CheckCLINFunding(clinID string, amount float64) (schema.FundingCheck, error) {
	return e.ledger.CheckFunding(clinID, amount)
}

// PostExecution applies a fully approved CLIN execution to the ledger. The
// idempotency token makes retries safe: a duplicate token returns the original
// posting without double-obligating. The updated entry is persisted back to
// the store.
func (e *Engine) PostExecution(requestID, token string) (schema.CLINLedgerEntry, error) {
	req, err := e.store.GetRequest(requestID)
	if err != nil {
		return schema.CLINLedgerEntry{}, err
	}
	if req.Status != schema.RequestApproved {
		return schema.CLINLedgerEntry{}, &schema.InvalidStateError{
			Entity:  "request",
			ID:      req.ID,
			Status:  string(req.Status),
			Message: "only fully approved executions post to the ledger",
		}
	}
	if req.Answers.CLINID == "" {
		return schema.CLINLedgerEntry{}, &schema.InvalidValueError{Field: "clin_id", Message: "request has no CLIN to post against"}
	}

	entry, err := e.ledger.PostExecution(req.Answers.CLINID, req.ID, req.Answers.EstimatedValue, token, e.clock())
	if err != nil {
		return schema.CLINLedgerEntry{}, err
	}
	if err := e.store.SaveCLIN(entry); err != nil {
		return schema.CLINLedgerEntry{}, err
	}

	e.logger.Info("execution posted", "request_id", req.ID, "clin_id", entry.ID,
		"obligated", entry.Obligated, "version", entry.Version)
	return entry, nil
}

// GetRequest exposes a read-only copy of a request.
func (e *Engine) GetRequest(requestID string) (*schema.AcquisitionRequest, error) {
	return e.store.GetRequest(requestID)
}
