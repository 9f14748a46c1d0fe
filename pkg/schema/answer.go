package schema

// IntakeAnswer is the immutable structured input to derivation. It is created
// per request and never mutated after derivation; re-derivation operates on a
// fresh snapshot.
type IntakeAnswer struct {
	NeedType           NeedType           `json:"need_type" yaml:"need_type"`
	Situation          Situation          `json:"situation" yaml:"situation"`
	VendorKnown        VendorKnown        `json:"vendor_known,omitempty" yaml:"vendor_known,omitempty"`
	BuyCategory        BuyCategory        `json:"buy_category,omitempty" yaml:"buy_category,omitempty"`
	PredominantElement PredominantElement `json:"predominant_element,omitempty" yaml:"predominant_element,omitempty"`
	EstimatedValue     float64            `json:"estimated_value" yaml:"estimated_value"`

	// Existing-contract identifiers for continue/change/execution paths.
	ContractID string `json:"contract_id,omitempty" yaml:"contract_id,omitempty"`
	CLINID     string `json:"clin_id,omitempty" yaml:"clin_id,omitempty"`
}
