package schema

// Classification is the output of derivation. When no catalog path matches,
// Matched is false and only Tier plus the echoed answer are meaningful; that
// is the "unclassified, ask for more input" signal, not an error.
type Classification struct {
	Matched bool   `json:"matched" yaml:"matched"`
	PathID  string `json:"path_id,omitempty" yaml:"path_id,omitempty"`

	AcquisitionType     AcquisitionType `json:"acquisition_type,omitempty" yaml:"acquisition_type,omitempty"`
	Tier                Tier            `json:"tier" yaml:"tier"`
	Pipeline            Pipeline        `json:"pipeline,omitempty" yaml:"pipeline,omitempty"`
	DocumentSetID       string          `json:"document_set_id,omitempty" yaml:"document_set_id,omitempty"`
	ApprovalTemplateKey string          `json:"approval_template_key,omitempty" yaml:"approval_template_key,omitempty"`
	AdvisoryTriggers    []Team          `json:"advisory_triggers,omitempty" yaml:"advisory_triggers,omitempty"`

	// Second-order derivations, computed from the answers rather than the
	// matched path.
	ContractCharacter     ContractCharacter `json:"contract_character,omitempty" yaml:"contract_character,omitempty"`
	RequirementsDocType   string            `json:"requirements_doc_type,omitempty" yaml:"requirements_doc_type,omitempty"`
	SCLSApplicable        bool              `json:"scls_applicable" yaml:"scls_applicable"`
	QASPRequired          bool              `json:"qasp_required" yaml:"qasp_required"`
	EvalApproach          string            `json:"eval_approach,omitempty" yaml:"eval_approach,omitempty"`
	UrgencyFlag           bool              `json:"urgency_flag" yaml:"urgency_flag"`
	MarketResearchPending bool              `json:"market_research_pending" yaml:"market_research_pending"`

	// FundingGap is set when a CLIN execution derivation found insufficient
	// committed funds and redirected to the funding-augmented path.
	FundingGap float64 `json:"funding_gap,omitempty" yaml:"funding_gap,omitempty"`

	// Answers is the snapshot the classification was derived from.
	Answers IntakeAnswer `json:"answers" yaml:"answers"`
}
