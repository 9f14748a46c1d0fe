package main

import (
	"context"
	"fmt"
	"os"

	"acqflow/internal/advisory"
	"acqflow/internal/assist"
	"acqflow/internal/catalog"
	"acqflow/internal/core"
	"acqflow/internal/ledger"
	"acqflow/internal/pipeline"
	"acqflow/internal/store"
	"acqflow/pkg/schema"
)

func main() {
	cfg, err := core.LoadConfig()
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := core.NewLogger(cfg.LogLevel)

	cat, err := catalog.NewStoreFromCatalog(catalog.Defaults())
	if err != nil {
		fmt.Printf("❌ Invalid catalog: %v\n", err)
		os.Exit(1)
	}

	eng, err := core.NewEngine(cat, store.NewMemoryStore(), ledger.New(), logger)
	if err != nil {
		fmt.Printf("❌ Failed to create engine: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("🏛  acqflow Intake Lifecycle Demo")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	// Walk a new software purchase from free text to approval.
	req := demoIntake(eng)
	fmt.Println()
	req = demoAdvisories(eng, req)
	fmt.Println()
	demoApprovals(eng, req)
	fmt.Println()

	fmt.Println("✨ Demo completed successfully!")
}

// demoIntake proposes structured answers from free text, previews the
// classification, and submits the request.
func demoIntake(eng *core.Engine) *schema.AcquisitionRequest {
	fmt.Println("📋 Step 1: Intake")
	fmt.Println("   \"We need case management software licenses, roughly $200k.\"")

	// The mock proposer stands in for the OpenRouter-backed one so the demo
	// runs without an API key.
	proposer := &assist.MockProposer{
		Proposal: &assist.AnswerProposal{
			Answer: schema.IntakeAnswer{
				NeedType:       schema.NeedNew,
				Situation:      schema.SituationNoSpecificVendor,
				BuyCategory:    schema.BuySoftware,
				EstimatedValue: 200000,
			},
			Confidence: 0.95,
		},
	}

	proposal, err := proposer.Propose(context.Background(), "case management software licenses, ~$200k")
	if err != nil {
		fmt.Printf("   ❌ Proposal failed: %v\n", err)
		os.Exit(1)
	}

	c, err := eng.DeriveClassification(proposal.Answer)
	if err != nil {
		fmt.Printf("   ❌ Derivation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("   ✅ Classified: %s on %s (%s tier, %s pipeline)\n",
		c.AcquisitionType, c.PathID, c.Tier, c.Pipeline)

	req, err := eng.CreateRequest("Case management licenses", "jdoe", proposal.Answer)
	if err != nil {
		fmt.Printf("   ❌ Create failed: %v\n", err)
		os.Exit(1)
	}

	req, err = eng.CompleteIntake(req.ID)
	if err != nil {
		fmt.Printf("   ❌ Submission failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("   ✅ Submitted %s: %d documents, %d approval steps, %d advisory reviews\n",
		req.ID, len(req.Documents), len(req.Steps), len(req.Advisories))
	for _, doc := range req.Documents {
		fmt.Printf("      • %s (before %s)\n", doc.Name, doc.RequiredBeforeGate)
	}
	return req
}

// demoAdvisories completes the parallel team reviews so blocking gates can
// clear.
func demoAdvisories(eng *core.Engine, req *schema.AcquisitionRequest) *schema.AcquisitionRequest {
	fmt.Println("🔍 Step 2: Advisory reviews")

	for _, adv := range req.Advisories {
		updated, err := eng.AdvisorySubmit(req.ID, adv.ID, adv.Team, advisory.SubmitInput{
			Findings:       "no concerns",
			Recommendation: "proceed",
			Status:         schema.AdvisoryNoIssues,
		})
		if err != nil {
			fmt.Printf("   ❌ Advisory %s failed: %v\n", adv.Team, err)
			os.Exit(1)
		}
		req = updated

		blocking := ""
		if adv.BlocksGate != "" {
			blocking = fmt.Sprintf(" (was blocking %s)", adv.BlocksGate)
		}
		fmt.Printf("   → %s review complete%s\n", adv.Team, blocking)
	}
	return req
}

// demoApprovals drives the pipeline through every gate.
func demoApprovals(eng *core.Engine, req *schema.AcquisitionRequest) {
	fmt.Println("✅ Step 3: Approval pipeline")

	for {
		active := req.ActiveStep()
		if active == nil {
			break
		}

		updated, err := eng.ApprovalAction(req.ID, active.ID, schema.RoleAdmin, pipeline.ActionApprove, "")
		if err != nil {
			fmt.Printf("   ❌ Approval at %s failed: %v\n", active.GateName, err)
			os.Exit(1)
		}
		req = updated
		fmt.Printf("   → %s approved\n", active.GateName)
	}

	fmt.Printf("   ✅ Request %s is %s\n", req.ID, req.Status)
}
