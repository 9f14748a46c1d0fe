package pipeline

import (
	"testing"
	"time"

	"acqflow/internal/catalog"
	"acqflow/pkg/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullTemplate(t *testing.T) schema.ApprovalTemplate {
	t.Helper()
	tmpl, ok := catalog.Defaults().Template("APPR-FULL")
	require.True(t, ok)
	return tmpl
}

func aboveSATClassification() schema.Classification {
	return schema.Classification{
		Matched:         true,
		AcquisitionType: schema.AcqNewCompetitive,
		Tier:            schema.TierAboveSAT,
		Pipeline:        schema.PipelineFull,
	}
}

func newSubmittedRequest(t *testing.T, tmpl schema.ApprovalTemplate, c schema.Classification) *schema.AcquisitionRequest {
	t.Helper()
	steps, err := Instantiate(tmpl, c, time.Now())
	require.NoError(t, err)
	return &schema.AcquisitionRequest{
		ID:             "REQ-test",
		Status:         schema.RequestSubmitted,
		Classification: c,
		Steps:          steps,
	}
}

func TestInstantiateConditionalSteps(t *testing.T) {
	tmpl := fullTemplate(t)

	// above_sat IT acquisition: CIO approval included, senior review (major
	// only) skipped.
	steps, err := Instantiate(tmpl, aboveSATClassification(), time.Now())
	require.NoError(t, err)
	require.Len(t, steps, len(tmpl.Steps))

	byGate := make(map[string]schema.ApprovalStep)
	for _, s := range steps {
		byGate[s.GateName] = s
	}

	assert.Equal(t, schema.StepActive, byGate[schema.GateISS].Status)
	assert.NotNil(t, byGate[schema.GateISS].AssignedAt)
	assert.Equal(t, schema.StepPending, byGate[schema.GateCIOApproval].Status)
	assert.Equal(t, schema.StepSkipped, byGate[schema.GateSeniorReview].Status)

	nonSkipped := 0
	for _, s := range steps {
		if s.Status != schema.StepSkipped {
			nonSkipped++
		}
	}
	assert.Equal(t, len(tmpl.Steps)-1, nonSkipped)
}

func TestInstantiateMajorTierIncludesAllSteps(t *testing.T) {
	c := aboveSATClassification()
	c.Tier = schema.TierMajor

	steps, err := Instantiate(fullTemplate(t), c, time.Now())
	require.NoError(t, err)

	for _, s := range steps {
		assert.NotEqual(t, schema.StepSkipped, s.Status, "gate %s", s.GateName)
	}
}

func TestApproveAdvancesToNextNonSkippedStep(t *testing.T) {
	req := newSubmittedRequest(t, fullTemplate(t), aboveSATClassification())
	now := time.Now()

	first := req.ActiveStep()
	require.NotNil(t, first)
	require.Equal(t, schema.GateISS, first.GateName)

	updated, err := Apply(req, first.ID, schema.RoleISS, ActionApprove, "looks good", now)
	require.NoError(t, err)
	assert.Equal(t, schema.StepApproved, updated.Status)
	assert.NotNil(t, updated.DecidedAt)
	assert.Equal(t, "looks good", updated.Comments)

	next := req.ActiveStep()
	require.NotNil(t, next)
	assert.Equal(t, schema.GateASR, next.GateName)
	assert.NotNil(t, next.AssignedAt)
	require.NoError(t, CheckSingleActive(req))
}

func TestApproveFinalStepApprovesRequest(t *testing.T) {
	tmpl, ok := catalog.Defaults().Template("APPR-EXEC")
	require.True(t, ok)
	c := schema.Classification{
		Matched:         true,
		AcquisitionType: schema.AcqCLINExecution,
		Tier:            schema.TierSAT,
	}
	req := newSubmittedRequest(t, tmpl, c)

	// Three unconditional steps; approve them all in sequence.
	roles := []schema.Role{schema.RoleFinance, schema.RoleKO, schema.RoleKO}
	for _, role := range roles {
		active := req.ActiveStep()
		require.NotNil(t, active)
		_, err := Apply(req, active.ID, role, ActionApprove, "", time.Now())
		require.NoError(t, err)
	}

	assert.Equal(t, schema.RequestApproved, req.Status)
	assert.Nil(t, req.ActiveStep(), "approved request must leave no step active")
}

func TestRejectCancelsPipeline(t *testing.T) {
	req := newSubmittedRequest(t, fullTemplate(t), aboveSATClassification())

	active := req.ActiveStep()
	_, err := Apply(req, active.ID, schema.RoleISS, ActionReject, "not viable", time.Now())
	require.NoError(t, err)

	assert.Equal(t, schema.RequestCancelled, req.Status)
	assert.Nil(t, req.ActiveStep())
}

func TestReturnAndResubmit(t *testing.T) {
	tmpl := fullTemplate(t)
	req := newSubmittedRequest(t, tmpl, aboveSATClassification())
	now := time.Now()

	// Approve ISS, then ASR returns the request for revision.
	_, err := Apply(req, req.ActiveStep().ID, schema.RoleISS, ActionApprove, "", now)
	require.NoError(t, err)
	_, err = Apply(req, req.ActiveStep().ID, schema.RoleASR, ActionReturn, "needs detail", now)
	require.NoError(t, err)
	assert.Equal(t, schema.RequestReturned, req.Status)

	require.NoError(t, Resubmit(req, tmpl, now.Add(time.Hour)))

	assert.Equal(t, schema.RequestSubmitted, req.Status)
	require.Len(t, req.StepHistory, 1)
	assert.Equal(t, 1, req.StepHistory[0].Round)

	// Prior decisions are history, not replayed: the fresh round starts at
	// step 1 again.
	active := req.ActiveStep()
	require.NotNil(t, active)
	assert.Equal(t, schema.GateISS, active.GateName)
	assert.Equal(t, 1, active.StepNumber)
	require.NoError(t, CheckSingleActive(req))
}

func TestResubmitRequiresReturnedStatus(t *testing.T) {
	tmpl := fullTemplate(t)
	req := newSubmittedRequest(t, tmpl, aboveSATClassification())

	err := Resubmit(req, tmpl, time.Now())
	require.Error(t, err)

	var state *schema.InvalidStateError
	assert.ErrorAs(t, err, &state)
}

func TestApplyPermissionAndState(t *testing.T) {
	req := newSubmittedRequest(t, fullTemplate(t), aboveSATClassification())
	active := req.ActiveStep()

	// Wrong role.
	_, err := Apply(req, active.ID, schema.RoleFinance, ActionApprove, "", time.Now())
	var perm *schema.PermissionError
	require.ErrorAs(t, err, &perm)

	// Admin supersedes.
	_, err = Apply(req, active.ID, schema.RoleAdmin, ActionApprove, "", time.Now())
	require.NoError(t, err)

	// Decided steps accept no further actions.
	_, err = Apply(req, active.ID, schema.RoleISS, ActionApprove, "", time.Now())
	var state *schema.InvalidStateError
	require.ErrorAs(t, err, &state)

	// Pending steps are not actionable either.
	var pending *schema.ApprovalStep
	for i := range req.Steps {
		if req.Steps[i].Status == schema.StepPending {
			pending = &req.Steps[i]
			break
		}
	}
	require.NotNil(t, pending)
	_, err = Apply(req, pending.ID, schema.RoleAdmin, ActionApprove, "", time.Now())
	require.ErrorAs(t, err, &state)
}

func TestApproveBlockedByUnresolvedAdvisory(t *testing.T) {
	req := newSubmittedRequest(t, fullTemplate(t), aboveSATClassification())
	req.Advisories = []schema.AdvisoryReview{
		{ID: "ADV-1", Team: schema.TeamSCRM, Status: schema.AdvisoryInReview, BlocksGate: schema.GateISS},
		{ID: "ADV-2", Team: schema.TeamSBO, Status: schema.AdvisoryInReview},
	}

	active := req.ActiveStep()
	_, err := Apply(req, active.ID, schema.RoleISS, ActionApprove, "", time.Now())
	require.Error(t, err)

	var block *schema.AdvisoryBlockError
	require.ErrorAs(t, err, &block)
	assert.Equal(t, schema.GateISS, block.GateName)
	assert.Equal(t, []string{"ADV-1"}, block.AdvisoryIDs)
	assert.Equal(t, schema.StepActive, req.FindStep(active.ID).Status, "blocked approval must not transition the step")

	// Resolve the advisory; approval now goes through. ADV-2 never blocks:
	// it is advisory-only.
	req.Advisories[0].Status = schema.AdvisoryNoIssues
	_, err = Apply(req, active.ID, schema.RoleISS, ActionApprove, "", time.Now())
	require.NoError(t, err)
}

func TestGateReadiness(t *testing.T) {
	req := newSubmittedRequest(t, fullTemplate(t), aboveSATClassification())
	req.Documents = []schema.PackageDocument{
		{ID: "DOC-1", Name: "Requirements Document", Status: schema.DocDrafted, IsRequired: true, RequiredBeforeGate: schema.GateISS},
		{ID: "DOC-2", Name: "Market Research Report", Status: schema.DocNotStarted, IsRequired: true, RequiredBeforeGate: schema.GateASR},
		{ID: "DOC-3", Name: "Old Checklist", Status: schema.DocNotStarted, IsRequired: false, RequiredBeforeGate: schema.GateISS},
	}
	req.Advisories = []schema.AdvisoryReview{
		{ID: "ADV-1", Team: schema.TeamSCRM, Status: schema.AdvisoryRequested, BlocksGate: schema.GateISS},
	}

	ready, blockers := GateReadiness(req, schema.GateISS)
	assert.False(t, ready)
	require.Len(t, blockers, 2)

	// Not-required documents never block.
	kinds := map[string]int{}
	for _, b := range blockers {
		kinds[b.Kind]++
	}
	assert.Equal(t, 1, kinds["document"])
	assert.Equal(t, 1, kinds["advisory"])

	req.Documents[0].Status = schema.DocCompleted
	req.Advisories[0].Status = schema.AdvisoryNoIssues
	ready, blockers = GateReadiness(req, schema.GateISS)
	assert.True(t, ready)
	assert.Empty(t, blockers)
}
