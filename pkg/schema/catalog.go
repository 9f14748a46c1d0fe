package schema

// Thresholds holds the dollar boundaries separating tiers. These are catalog
// data, revisable by administrators, never compile-time constants.
type Thresholds struct {
	MicroPurchase   float64 `json:"micro_purchase" yaml:"micro_purchase"`
	SAT             float64 `json:"sat" yaml:"sat"`
	AboveSATCeiling float64 `json:"above_sat_ceiling" yaml:"above_sat_ceiling"`
}

// IntakePath maps a combination of intake answers to a derived classification.
// NeedType and Situation are mandatory discriminators; VendorKnown and
// BuyCategory are optional (empty means "any").
type IntakePath struct {
	PathID      string      `json:"path_id" yaml:"path_id"`
	NeedType    NeedType    `json:"need_type" yaml:"need_type"`
	Situation   Situation   `json:"situation" yaml:"situation"`
	VendorKnown VendorKnown `json:"vendor_known,omitempty" yaml:"vendor_known,omitempty"`
	BuyCategory BuyCategory `json:"buy_category,omitempty" yaml:"buy_category,omitempty"`

	AcquisitionType     AcquisitionType `json:"acquisition_type" yaml:"acquisition_type"`
	Pipeline            Pipeline        `json:"pipeline" yaml:"pipeline"`
	DocumentSetID       string          `json:"document_set_id" yaml:"document_set_id"`
	ApprovalTemplateKey string          `json:"approval_template_key" yaml:"approval_template_key"`
	AdvisoryTriggers    []Team          `json:"advisory_triggers,omitempty" yaml:"advisory_triggers,omitempty"`
	Notes               string          `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// DiscriminatorTuple returns the matching key for ambiguity detection. Two
// paths sharing a tuple is a catalog-authoring error.
func (p IntakePath) DiscriminatorTuple() string {
	return string(p.NeedType) + "|" + string(p.Situation) + "|" +
		string(p.VendorKnown) + "|" + string(p.BuyCategory)
}

// DocumentCondition is an optional predicate on a document rule. All set
// fields must hold for the rule to apply.
type DocumentCondition struct {
	BuyCategories []BuyCategory `json:"buy_categories,omitempty" yaml:"buy_categories,omitempty"`
}

// DocumentRule declares when a document is required. A document is required
// iff the acquisition type is listed, the tier is listed (or the rule applies
// to all tiers), and the condition (if any) holds.
type DocumentRule struct {
	Name               string             `json:"name" yaml:"name"`
	AcquisitionTypes   []AcquisitionType  `json:"acquisition_types" yaml:"acquisition_types"`
	Tiers              []Tier             `json:"tiers,omitempty" yaml:"tiers,omitempty"` // empty = ALL
	RequiredBeforeGate string             `json:"required_before_gate" yaml:"required_before_gate"`
	AIAssistable       bool               `json:"ai_assistable" yaml:"ai_assistable"`
	Condition          *DocumentCondition `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// AppliesTo evaluates the rule against a derived classification.
func (r DocumentRule) AppliesTo(acqType AcquisitionType, tier Tier, buyCategory BuyCategory) bool {
	if !containsAcqType(r.AcquisitionTypes, acqType) {
		return false
	}
	if len(r.Tiers) > 0 && !containsTier(r.Tiers, tier) {
		return false
	}
	if r.Condition != nil && len(r.Condition.BuyCategories) > 0 {
		if !containsBuyCategory(r.Condition.BuyCategories, buyCategory) {
			return false
		}
	}
	return true
}

// StepCondition gates a conditional template step. All set fields must match
// the classification for the step to be included.
type StepCondition struct {
	AcquisitionTypes []AcquisitionType `json:"acquisition_types,omitempty" yaml:"acquisition_types,omitempty"`
	Tiers            []Tier            `json:"tiers,omitempty" yaml:"tiers,omitempty"`
}

// Holds evaluates the condition. A nil condition always holds.
func (c *StepCondition) Holds(acqType AcquisitionType, tier Tier) bool {
	if c == nil {
		return true
	}
	if len(c.AcquisitionTypes) > 0 && !containsAcqType(c.AcquisitionTypes, acqType) {
		return false
	}
	if len(c.Tiers) > 0 && !containsTier(c.Tiers, tier) {
		return false
	}
	return true
}

// TemplateStep is one gate in an approval template.
type TemplateStep struct {
	StepNumber int            `json:"step_number" yaml:"step_number"`
	GateName   string         `json:"gate_name" yaml:"gate_name"`
	Role       Role           `json:"approver_role" yaml:"approver_role"`
	SLADays    int            `json:"sla_days" yaml:"sla_days"`
	Condition  *StepCondition `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// ApprovalTemplate is an ordered gate sequence for a pipeline.
type ApprovalTemplate struct {
	Key      string         `json:"key" yaml:"key"`
	Name     string         `json:"name" yaml:"name"`
	Pipeline Pipeline       `json:"pipeline" yaml:"pipeline"`
	Steps    []TemplateStep `json:"steps" yaml:"steps"`
}

// Catalog is the full immutable rule set the engine derives against.
type Catalog struct {
	Version       string             `json:"version" yaml:"version"`
	Thresholds    Thresholds         `json:"thresholds" yaml:"thresholds"`
	Paths         []IntakePath       `json:"paths" yaml:"paths"`
	DocumentRules []DocumentRule     `json:"document_rules" yaml:"document_rules"`
	Templates     []ApprovalTemplate `json:"templates" yaml:"templates"`
}

// Template looks up an approval template by key.
func (c *Catalog) Template(key string) (ApprovalTemplate, bool) {
	for _, t := range c.Templates {
		if t.Key == key {
			return t, true
		}
	}
	return ApprovalTemplate{}, false
}

func containsAcqType(list []AcquisitionType, v AcquisitionType) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsTier(list []Tier, v Tier) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func containsBuyCategory(list []BuyCategory, v BuyCategory) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
