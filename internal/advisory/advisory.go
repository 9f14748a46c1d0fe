// Package advisory implements the parallel, team-scoped review workflow that
// runs alongside the approval pipeline, including the information-request
// sub-protocol. Reviews marked blocking must resolve before their target gate
// can approve; the pipeline package enforces that side.
package advisory

import (
	"time"

	"acqflow/pkg/schema"
)

// BlockingGate returns the gate a team's review blocks by default, or empty
// for advisory-only teams.
func BlockingGate(team schema.Team) string {
	switch team {
	case schema.TeamSCRM:
		return schema.GateASR
	case schema.TeamLegal:
		return schema.GateKOReview
	case schema.TeamFM:
		return schema.GateFinance
	default:
		return ""
	}
}

// Materialize creates one review per triggered team at submission time.
func Materialize(triggers []schema.Team, now time.Time) ([]schema.AdvisoryReview, error) {
	reviews := make([]schema.AdvisoryReview, 0, len(triggers))
	for _, team := range triggers {
		id, err := schema.NewAdvisoryID()
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, schema.AdvisoryReview{
			ID:          id,
			Team:        team,
			Status:      schema.AdvisoryRequested,
			BlocksGate:  BlockingGate(team),
			RequestedAt: now,
		})
	}
	return reviews, nil
}

// SubmitInput carries a reviewer's findings or information request.
type SubmitInput struct {
	Findings           string
	Recommendation     string
	Status             schema.AdvisoryStatus
	InfoRequestMessage string
	ImpactsStrategy    bool
}

// Submit records a team's review outcome. A submission with
// InfoRequestMessage set moves the review to info_requested instead of
// completing it; otherwise Status must be one of the two terminal outcomes.
// The actor must belong to the review's team.
func Submit(adv *schema.AdvisoryReview, actorTeam schema.Team, input SubmitInput, now time.Time) error {
	if actorTeam != adv.Team {
		return &schema.PermissionError{Actor: schema.Role(actorTeam), Required: "team " + string(adv.Team)}
	}

	switch adv.Status {
	case schema.AdvisoryRequested, schema.AdvisoryInReview:
	default:
		return &schema.InvalidStateError{
			Entity:  "advisory review",
			ID:      adv.ID,
			Status:  string(adv.Status),
			Message: "findings can only be submitted while the review is open",
		}
	}

	if input.InfoRequestMessage != "" {
		adv.Status = schema.AdvisoryInfoRequested
		adv.RequestMessage = input.InfoRequestMessage
		adv.Findings = input.Findings
		adv.Recommendation = "request_info"
		return nil
	}

	switch input.Status {
	case schema.AdvisoryNoIssues, schema.AdvisoryIssuesFound:
	default:
		return &schema.InvalidValueError{
			Field:   "status",
			Message: "submission must complete with no_issues or issues_found",
		}
	}

	adv.Status = input.Status
	adv.Findings = input.Findings
	adv.Recommendation = input.Recommendation
	adv.ImpactsStrategy = input.ImpactsStrategy
	completed := now
	adv.CompletedAt = &completed
	return nil
}

// Respond records the requestor's answer to an information request and
// re-enters review.
func Respond(adv *schema.AdvisoryReview, response, attachment string, now time.Time) error {
	if adv.Status != schema.AdvisoryInfoRequested {
		return &schema.InvalidStateError{
			Entity:  "advisory review",
			ID:      adv.ID,
			Status:  string(adv.Status),
			Message: "responses are only accepted while information is requested",
		}
	}

	adv.Response = response
	adv.ResponseAttachment = attachment
	adv.Status = schema.AdvisoryInReview
	return nil
}

// Unresolved returns the reviews in a non-terminal status that block the
// named gate.
func Unresolved(reviews []schema.AdvisoryReview, gateName string) []schema.AdvisoryReview {
	var open []schema.AdvisoryReview
	for _, adv := range reviews {
		if adv.BlocksGate == gateName && !adv.Status.Terminal() {
			open = append(open, adv)
		}
	}
	return open
}
