package schema

// NeedType is the intake question 1 answer: what kind of need is this.
type NeedType string

const (
	NeedNew            NeedType = "new"
	NeedContinueExtend NeedType = "continue_extend"
	NeedChangeExisting NeedType = "change_existing"
)

// Situation is the intake question 2 answer: the need sub-type.
type Situation string

const (
	SituationNoSpecificVendor    Situation = "no_specific_vendor"
	SituationSpecificVendor      Situation = "specific_vendor"
	SituationOptionsRemaining    Situation = "options_remaining"
	SituationExpiringSameVendor  Situation = "expiring_same_vendor"
	SituationExpiringCompete     Situation = "expiring_compete"
	SituationNeedBridge          Situation = "need_bridge"
	SituationExpiredGap          Situation = "expired_gap"
	SituationODCCLIN             Situation = "odc_clin"
	SituationTravelCLIN          Situation = "travel_clin"
	SituationODCCLINInsufficient Situation = "odc_clin_insufficient"
	SituationAddScope            Situation = "add_scope"
	SituationAdminCorrection     Situation = "admin_correction"
	SituationCLINReallocation    Situation = "clin_reallocation"
)

// VendorKnown captures whether the requestor has a vendor in mind.
type VendorKnown string

const (
	VendorNone    VendorKnown = "no"
	VendorLimited VendorKnown = "limited"
	VendorSole    VendorKnown = "sole"
)

// BuyCategory is what is being bought.
type BuyCategory string

const (
	BuyProduct  BuyCategory = "product"
	BuyService  BuyCategory = "service"
	BuySoftware BuyCategory = "software"
	BuyMixed    BuyCategory = "mixed"
)

// PredominantElement disambiguates mixed buys.
type PredominantElement string

const (
	PredominantlyProduct PredominantElement = "predominantly_product"
	PredominantlyService PredominantElement = "predominantly_service"
	RoughlyEqual         PredominantElement = "roughly_equal"
)

// Tier is the dollar-value classification band driving procedural rigor.
type Tier string

const (
	TierMicro    Tier = "micro"
	TierSAT      Tier = "sat"
	TierAboveSAT Tier = "above_sat"
	TierMajor    Tier = "major"
)

// AcquisitionType identifies the derived acquisition classification.
// The catalog may define additional types; these are the seeded ones.
type AcquisitionType string

const (
	AcqNewCompetitive        AcquisitionType = "new_competitive"
	AcqBrandName             AcquisitionType = "brand_name"
	AcqOptionExercise        AcquisitionType = "option_exercise"
	AcqFollowOnSoleSource    AcquisitionType = "follow_on_sole_source"
	AcqRecompete             AcquisitionType = "recompete"
	AcqBridgeExtension       AcquisitionType = "bridge_extension"
	AcqNewCompetitiveUrgency AcquisitionType = "new_competitive_urgency"
	AcqBilateralMod          AcquisitionType = "bilateral_mod"
	AcqUnilateralMod         AcquisitionType = "unilateral_mod"
	AcqCLINReallocation      AcquisitionType = "clin_reallocation"
	AcqCLINExecution         AcquisitionType = "clin_execution"
	AcqCLINFundingAction     AcquisitionType = "clin_funding_action"
)

// Pipeline identifies the approval workflow shape for a request.
type Pipeline string

const (
	PipelineMicro         Pipeline = "micro"
	PipelineAbbreviated   Pipeline = "abbreviated"
	PipelineKOOnly        Pipeline = "ko_only"
	PipelineFull          Pipeline = "full"
	PipelineCLINExecution Pipeline = "clin_execution"
	PipelineCLINFunding   Pipeline = "clin_funding"
)

// RequestStatus is the lifecycle status of an acquisition request.
type RequestStatus string

const (
	RequestIntake    RequestStatus = "intake"
	RequestSubmitted RequestStatus = "submitted"
	RequestReturned  RequestStatus = "returned"
	RequestApproved  RequestStatus = "approved"
	RequestCancelled RequestStatus = "cancelled"
)

// DocumentStatus is the lifecycle state of a package document.
type DocumentStatus string

const (
	DocNotStarted  DocumentStatus = "not_started"
	DocDrafted     DocumentStatus = "drafted"
	DocInReview    DocumentStatus = "in_review"
	DocUploaded    DocumentStatus = "uploaded"
	DocCompleted   DocumentStatus = "completed"
	DocApproved    DocumentStatus = "approved"
	DocNotRequired DocumentStatus = "not_required"
)

// StepStatus is the state of an approval step.
type StepStatus string

const (
	StepPending  StepStatus = "pending"
	StepActive   StepStatus = "active"
	StepInReview StepStatus = "in_review"
	StepApproved StepStatus = "approved"
	StepRejected StepStatus = "rejected"
	StepReturned StepStatus = "returned"
	StepSkipped  StepStatus = "skipped"
)

// AdvisoryStatus is the state of an advisory review.
type AdvisoryStatus string

const (
	AdvisoryRequested     AdvisoryStatus = "requested"
	AdvisoryInReview      AdvisoryStatus = "in_review"
	AdvisoryInfoRequested AdvisoryStatus = "info_requested"
	AdvisoryNoIssues      AdvisoryStatus = "complete_no_issues"
	AdvisoryIssuesFound   AdvisoryStatus = "complete_issues_found"
)

// Terminal reports whether the advisory review has completed.
func (s AdvisoryStatus) Terminal() bool {
	return s == AdvisoryNoIssues || s == AdvisoryIssuesFound
}

// Team is an advisory review team code.
type Team string

const (
	TeamSCRM       Team = "scrm"
	TeamSBO        Team = "sbo"
	TeamCIO        Team = "cio"
	TeamSection508 Team = "section508"
	TeamFM         Team = "fm"
	TeamLegal      Team = "legal"
)

// Role is an approver or actor role code.
type Role string

const (
	RoleRequestor  Role = "requestor"
	RoleSupervisor Role = "supervisor"
	RoleISS        Role = "iss"
	RoleASR        Role = "asr"
	RoleFinance    Role = "finance"
	RoleKO         Role = "ko"
	RoleLegal      Role = "legal"
	RoleCIO        Role = "cio"
	RoleSenior     Role = "senior"
	RoleAdmin      Role = "admin"
)

// Gate names used by approval templates and advisory blocking.
const (
	GateISS          = "iss"
	GateASR          = "asr"
	GateFinance      = "finance"
	GateKOReview     = "ko_review"
	GateLegal        = "legal"
	GateCIOApproval  = "cio_approval"
	GateSeniorReview = "senior_review"
	GateAward        = "award"
)

// CLINType categorizes a contract line item.
type CLINType string

const (
	CLINService CLINType = "service"
	CLINODC     CLINType = "odc"
	CLINTravel  CLINType = "travel"
)

// ContractCharacter is a second-order derivation from the buy category.
type ContractCharacter string

const (
	CharacterProduct      ContractCharacter = "product"
	CharacterService      ContractCharacter = "service"
	CharacterMixedProduct ContractCharacter = "mixed_product"
	CharacterMixedService ContractCharacter = "mixed_service"
)

// FundingStatus is the outcome of a CLIN funding check.
type FundingStatus string

const (
	FundingSufficient   FundingStatus = "sufficient"
	FundingInsufficient FundingStatus = "insufficient"
)

// CLINHealth summarizes a CLIN's remaining spending runway.
type CLINHealth string

const (
	CLINHealthy   CLINHealth = "healthy"
	CLINWatch     CLINHealth = "watch"
	CLINCritical  CLINHealth = "critical"
	CLINExhausted CLINHealth = "exhausted"
)
