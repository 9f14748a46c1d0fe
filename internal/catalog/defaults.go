package catalog

import "acqflow/pkg/schema"

// Defaults returns the seeded catalog. Production loads catalog.yaml; the
// defaults exist for first-run seeding and as fixture data for tests. The
// dollar thresholds mirror the current FAR boundaries the program operates
// under.
func Defaults() *schema.Catalog {
	return &schema.Catalog{
		Version: "2026.1",
		Thresholds: schema.Thresholds{
			MicroPurchase:   15000,
			SAT:             350000,
			AboveSATCeiling: 9000000,
		},
		Paths:         defaultPaths(),
		DocumentRules: defaultDocumentRules(),
		Templates:     defaultTemplates(),
	}
}

func defaultPaths() []schema.IntakePath {
	return []schema.IntakePath{
		{
			PathID:              "PATH-001",
			NeedType:            schema.NeedNew,
			Situation:           schema.SituationNoSpecificVendor,
			AcquisitionType:     schema.AcqNewCompetitive,
			Pipeline:            schema.PipelineFull,
			DocumentSetID:       "DOCSET-COMP",
			ApprovalTemplateKey: "APPR-FULL",
			AdvisoryTriggers:    []schema.Team{schema.TeamSCRM, schema.TeamSBO, schema.TeamCIO, schema.TeamSection508},
		},
		{
			PathID:              "PATH-002",
			NeedType:            schema.NeedNew,
			Situation:           schema.SituationSpecificVendor,
			VendorKnown:         schema.VendorSole,
			AcquisitionType:     schema.AcqBrandName,
			Pipeline:            schema.PipelineFull,
			DocumentSetID:       "DOCSET-SOLE",
			ApprovalTemplateKey: "APPR-FULL-LEGAL",
			AdvisoryTriggers:    []schema.Team{schema.TeamSCRM, schema.TeamSBO, schema.TeamLegal},
			Notes:               "Sole source requires J&A before KO review.",
		},
		{
			PathID:              "PATH-003",
			NeedType:            schema.NeedNew,
			Situation:           schema.SituationSpecificVendor,
			VendorKnown:         schema.VendorLimited,
			AcquisitionType:     schema.AcqNewCompetitive,
			Pipeline:            schema.PipelineFull,
			DocumentSetID:       "DOCSET-COMP",
			ApprovalTemplateKey: "APPR-FULL",
			AdvisoryTriggers:    []schema.Team{schema.TeamSCRM, schema.TeamSBO},
			Notes:               "Limited sources still compete.",
		},
		{
			PathID:              "PATH-010",
			NeedType:            schema.NeedContinueExtend,
			Situation:           schema.SituationOptionsRemaining,
			AcquisitionType:     schema.AcqOptionExercise,
			Pipeline:            schema.PipelineAbbreviated,
			DocumentSetID:       "DOCSET-OPTION",
			ApprovalTemplateKey: "APPR-ABBREV",
		},
		{
			PathID:              "PATH-011",
			NeedType:            schema.NeedContinueExtend,
			Situation:           schema.SituationExpiringSameVendor,
			AcquisitionType:     schema.AcqFollowOnSoleSource,
			Pipeline:            schema.PipelineFull,
			DocumentSetID:       "DOCSET-SOLE",
			ApprovalTemplateKey: "APPR-FULL-LEGAL",
			AdvisoryTriggers:    []schema.Team{schema.TeamSBO, schema.TeamLegal},
		},
		{
			PathID:              "PATH-012",
			NeedType:            schema.NeedContinueExtend,
			Situation:           schema.SituationExpiringCompete,
			AcquisitionType:     schema.AcqRecompete,
			Pipeline:            schema.PipelineFull,
			DocumentSetID:       "DOCSET-COMP",
			ApprovalTemplateKey: "APPR-FULL",
			AdvisoryTriggers:    []schema.Team{schema.TeamSCRM, schema.TeamSBO},
		},
		{
			PathID:              "PATH-013",
			NeedType:            schema.NeedContinueExtend,
			Situation:           schema.SituationNeedBridge,
			AcquisitionType:     schema.AcqBridgeExtension,
			Pipeline:            schema.PipelineAbbreviated,
			DocumentSetID:       "DOCSET-BRIDGE",
			ApprovalTemplateKey: "APPR-ABBREV",
			AdvisoryTriggers:    []schema.Team{schema.TeamLegal},
		},
		{
			PathID:              "PATH-014",
			NeedType:            schema.NeedContinueExtend,
			Situation:           schema.SituationExpiredGap,
			AcquisitionType:     schema.AcqNewCompetitiveUrgency,
			Pipeline:            schema.PipelineFull,
			DocumentSetID:       "DOCSET-COMP",
			ApprovalTemplateKey: "APPR-FULL",
			AdvisoryTriggers:    []schema.Team{schema.TeamSCRM},
		},
		{
			PathID:              "PATH-020",
			NeedType:            schema.NeedChangeExisting,
			Situation:           schema.SituationAddScope,
			AcquisitionType:     schema.AcqBilateralMod,
			Pipeline:            schema.PipelineAbbreviated,
			DocumentSetID:       "DOCSET-MOD",
			ApprovalTemplateKey: "APPR-ABBREV",
		},
		{
			PathID:              "PATH-021",
			NeedType:            schema.NeedChangeExisting,
			Situation:           schema.SituationAdminCorrection,
			AcquisitionType:     schema.AcqUnilateralMod,
			Pipeline:            schema.PipelineKOOnly,
			DocumentSetID:       "DOCSET-MOD-ADMIN",
			ApprovalTemplateKey: "APPR-KO",
		},
		{
			PathID:              "PATH-022",
			NeedType:            schema.NeedChangeExisting,
			Situation:           schema.SituationCLINReallocation,
			AcquisitionType:     schema.AcqCLINReallocation,
			Pipeline:            schema.PipelineKOOnly,
			DocumentSetID:       "DOCSET-MOD-ADMIN",
			ApprovalTemplateKey: "APPR-KO",
		},
		{
			PathID:              "PATH-030",
			NeedType:            schema.NeedChangeExisting,
			Situation:           schema.SituationODCCLIN,
			AcquisitionType:     schema.AcqCLINExecution,
			Pipeline:            schema.PipelineCLINExecution,
			DocumentSetID:       "DOCSET-EXEC",
			ApprovalTemplateKey: "APPR-EXEC",
			AdvisoryTriggers:    []schema.Team{schema.TeamFM},
		},
		{
			PathID:              "PATH-031",
			NeedType:            schema.NeedChangeExisting,
			Situation:           schema.SituationTravelCLIN,
			AcquisitionType:     schema.AcqCLINExecution,
			Pipeline:            schema.PipelineCLINExecution,
			DocumentSetID:       "DOCSET-EXEC-TRAVEL",
			ApprovalTemplateKey: "APPR-EXEC",
		},
		{
			PathID:              "PATH-032",
			NeedType:            schema.NeedChangeExisting,
			Situation:           schema.SituationODCCLINInsufficient,
			AcquisitionType:     schema.AcqCLINFundingAction,
			Pipeline:            schema.PipelineCLINFunding,
			DocumentSetID:       "DOCSET-EXEC-FUNDING",
			ApprovalTemplateKey: "APPR-EXEC-FUNDING",
			AdvisoryTriggers:    []schema.Team{schema.TeamFM},
			Notes:               "Funding-approval sub-chain runs ahead of the CLIN execution gates.",
		},
	}
}

func defaultDocumentRules() []schema.DocumentRule {
	newWork := []schema.AcquisitionType{
		schema.AcqNewCompetitive, schema.AcqBrandName, schema.AcqRecompete,
		schema.AcqFollowOnSoleSource, schema.AcqNewCompetitiveUrgency,
	}
	return []schema.DocumentRule{
		{
			Name:               "Requirements Document",
			AcquisitionTypes:   append(newWork, schema.AcqBridgeExtension, schema.AcqBilateralMod),
			RequiredBeforeGate: schema.GateISS,
			AIAssistable:       true,
		},
		{
			Name: "Market Research Report",
			AcquisitionTypes: []schema.AcquisitionType{
				schema.AcqNewCompetitive, schema.AcqRecompete, schema.AcqNewCompetitiveUrgency,
			},
			Tiers:              []schema.Tier{schema.TierSAT, schema.TierAboveSAT, schema.TierMajor},
			RequiredBeforeGate: schema.GateASR,
			AIAssistable:       true,
		},
		{
			Name:               "Independent Government Cost Estimate",
			AcquisitionTypes:   append(newWork, schema.AcqBridgeExtension, schema.AcqBilateralMod),
			Tiers:              []schema.Tier{schema.TierSAT, schema.TierAboveSAT, schema.TierMajor},
			RequiredBeforeGate: schema.GateFinance,
			AIAssistable:       true,
		},
		{
			Name: "Justification & Approval",
			AcquisitionTypes: []schema.AcquisitionType{
				schema.AcqBrandName, schema.AcqFollowOnSoleSource, schema.AcqBridgeExtension,
			},
			Tiers:              []schema.Tier{schema.TierSAT, schema.TierAboveSAT, schema.TierMajor},
			RequiredBeforeGate: schema.GateKOReview,
			AIAssistable:       true,
		},
		{
			Name:               "Acquisition Plan",
			AcquisitionTypes:   newWork,
			Tiers:              []schema.Tier{schema.TierAboveSAT, schema.TierMajor},
			RequiredBeforeGate: schema.GateASR,
		},
		{
			Name:               "Quality Assurance Surveillance Plan",
			AcquisitionTypes:   newWork,
			Tiers:              []schema.Tier{schema.TierSAT, schema.TierAboveSAT, schema.TierMajor},
			RequiredBeforeGate: schema.GateKOReview,
			Condition: &schema.DocumentCondition{
				BuyCategories: []schema.BuyCategory{schema.BuyService, schema.BuyMixed},
			},
		},
		{
			Name:               "Section 508 Accessibility Checklist",
			AcquisitionTypes:   newWork,
			RequiredBeforeGate: schema.GateISS,
			Condition: &schema.DocumentCondition{
				BuyCategories: []schema.BuyCategory{schema.BuySoftware, schema.BuyMixed},
			},
		},
		{
			Name:               "COR Nomination",
			AcquisitionTypes:   newWork,
			Tiers:              []schema.Tier{schema.TierAboveSAT, schema.TierMajor},
			RequiredBeforeGate: schema.GateKOReview,
			Condition: &schema.DocumentCondition{
				BuyCategories: []schema.BuyCategory{schema.BuyService, schema.BuyMixed},
			},
		},
		{
			Name: "Funding Availability Memo",
			AcquisitionTypes: []schema.AcquisitionType{
				schema.AcqCLINExecution, schema.AcqCLINFundingAction, schema.AcqCLINReallocation,
			},
			RequiredBeforeGate: schema.GateFinance,
		},
	}
}

func defaultTemplates() []schema.ApprovalTemplate {
	itTypes := []schema.AcquisitionType{
		schema.AcqNewCompetitive, schema.AcqBrandName, schema.AcqRecompete,
		schema.AcqFollowOnSoleSource, schema.AcqNewCompetitiveUrgency,
	}
	return []schema.ApprovalTemplate{
		{
			Key:      "APPR-FULL",
			Name:     "Full Review Pipeline",
			Pipeline: schema.PipelineFull,
			Steps: []schema.TemplateStep{
				{StepNumber: 1, GateName: schema.GateISS, Role: schema.RoleISS, SLADays: 5},
				{StepNumber: 2, GateName: schema.GateASR, Role: schema.RoleASR, SLADays: 5},
				{StepNumber: 3, GateName: schema.GateFinance, Role: schema.RoleFinance, SLADays: 4},
				{
					StepNumber: 4, GateName: schema.GateCIOApproval, Role: schema.RoleCIO, SLADays: 5,
					Condition: &schema.StepCondition{
						AcquisitionTypes: itTypes,
						Tiers:            []schema.Tier{schema.TierAboveSAT, schema.TierMajor},
					},
				},
				{StepNumber: 5, GateName: schema.GateKOReview, Role: schema.RoleKO, SLADays: 5},
				{
					StepNumber: 6, GateName: schema.GateSeniorReview, Role: schema.RoleSenior, SLADays: 7,
					Condition: &schema.StepCondition{Tiers: []schema.Tier{schema.TierMajor}},
				},
				{StepNumber: 7, GateName: schema.GateAward, Role: schema.RoleKO, SLADays: 3},
			},
		},
		{
			Key:      "APPR-FULL-LEGAL",
			Name:     "Full Review Pipeline with Legal",
			Pipeline: schema.PipelineFull,
			Steps: []schema.TemplateStep{
				{StepNumber: 1, GateName: schema.GateISS, Role: schema.RoleISS, SLADays: 5},
				{StepNumber: 2, GateName: schema.GateASR, Role: schema.RoleASR, SLADays: 5},
				{StepNumber: 3, GateName: schema.GateLegal, Role: schema.RoleLegal, SLADays: 6},
				{StepNumber: 4, GateName: schema.GateFinance, Role: schema.RoleFinance, SLADays: 4},
				{
					StepNumber: 5, GateName: schema.GateCIOApproval, Role: schema.RoleCIO, SLADays: 5,
					Condition: &schema.StepCondition{
						AcquisitionTypes: itTypes,
						Tiers:            []schema.Tier{schema.TierAboveSAT, schema.TierMajor},
					},
				},
				{StepNumber: 6, GateName: schema.GateKOReview, Role: schema.RoleKO, SLADays: 5},
				{StepNumber: 7, GateName: schema.GateAward, Role: schema.RoleKO, SLADays: 3},
			},
		},
		{
			Key:      "APPR-ABBREV",
			Name:     "Abbreviated Pipeline",
			Pipeline: schema.PipelineAbbreviated,
			Steps: []schema.TemplateStep{
				{StepNumber: 1, GateName: schema.GateISS, Role: schema.RoleISS, SLADays: 3},
				{StepNumber: 2, GateName: schema.GateFinance, Role: schema.RoleFinance, SLADays: 3},
				{StepNumber: 3, GateName: schema.GateKOReview, Role: schema.RoleKO, SLADays: 4},
				{StepNumber: 4, GateName: schema.GateAward, Role: schema.RoleKO, SLADays: 2},
			},
		},
		{
			Key:      "APPR-KO",
			Name:     "KO-Only Pipeline",
			Pipeline: schema.PipelineKOOnly,
			Steps: []schema.TemplateStep{
				{StepNumber: 1, GateName: schema.GateKOReview, Role: schema.RoleKO, SLADays: 3},
				{StepNumber: 2, GateName: schema.GateAward, Role: schema.RoleKO, SLADays: 1},
			},
		},
		{
			Key:      "APPR-EXEC",
			Name:     "CLIN Execution Pipeline",
			Pipeline: schema.PipelineCLINExecution,
			Steps: []schema.TemplateStep{
				{StepNumber: 1, GateName: schema.GateFinance, Role: schema.RoleFinance, SLADays: 2},
				{StepNumber: 2, GateName: schema.GateKOReview, Role: schema.RoleKO, SLADays: 2},
				{StepNumber: 3, GateName: schema.GateAward, Role: schema.RoleKO, SLADays: 1},
			},
		},
		{
			Key:      "APPR-EXEC-FUNDING",
			Name:     "CLIN Execution with Funding Action",
			Pipeline: schema.PipelineCLINFunding,
			Steps: []schema.TemplateStep{
				{StepNumber: 1, GateName: schema.GateFinance, Role: schema.RoleFinance, SLADays: 3},
				{StepNumber: 2, GateName: schema.GateSeniorReview, Role: schema.RoleSenior, SLADays: 5},
				{StepNumber: 3, GateName: schema.GateKOReview, Role: schema.RoleKO, SLADays: 2},
				{StepNumber: 4, GateName: schema.GateAward, Role: schema.RoleKO, SLADays: 1},
			},
		},
	}
}
