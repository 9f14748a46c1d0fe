package schema

import "fmt"

// ValidateAnswer checks that an intake answer is well-formed enough to
// attempt derivation. An incomplete answer is still valid; derivation returns
// an unclassified result for combinations the catalog cannot place.
func ValidateAnswer(a *IntakeAnswer) error {
	switch a.NeedType {
	case NeedNew, NeedContinueExtend, NeedChangeExisting:
	case "":
		return fmt.Errorf("need_type is required")
	default:
		return fmt.Errorf("invalid need_type: %s", a.NeedType)
	}

	if a.Situation == "" {
		return fmt.Errorf("situation is required")
	}

	switch a.VendorKnown {
	case "", VendorNone, VendorLimited, VendorSole:
	default:
		return fmt.Errorf("invalid vendor_known: %s", a.VendorKnown)
	}

	switch a.BuyCategory {
	case "", BuyProduct, BuyService, BuySoftware, BuyMixed:
	default:
		return fmt.Errorf("invalid buy_category: %s", a.BuyCategory)
	}

	if a.BuyCategory == BuyMixed {
		switch a.PredominantElement {
		case PredominantlyProduct, PredominantlyService, RoughlyEqual:
		default:
			return fmt.Errorf("mixed buys require a predominant_element")
		}
	}

	if a.EstimatedValue < 0 {
		return fmt.Errorf("estimated_value must be non-negative")
	}

	return nil
}

// ValidateDocumentStatus reports whether s is a known document status.
func ValidateDocumentStatus(s DocumentStatus) error {
	switch s {
	case DocNotStarted, DocDrafted, DocInReview, DocUploaded, DocCompleted, DocApproved, DocNotRequired:
		return nil
	}
	return fmt.Errorf("invalid document status: %s", s)
}

// ValidateStepStatus reports whether s is a known step status.
func ValidateStepStatus(s StepStatus) error {
	switch s {
	case StepPending, StepActive, StepInReview, StepApproved, StepRejected, StepReturned, StepSkipped:
		return nil
	}
	return fmt.Errorf("invalid step status: %s", s)
}

// ValidateAdvisoryStatus reports whether s is a known advisory status.
func ValidateAdvisoryStatus(s AdvisoryStatus) error {
	switch s {
	case AdvisoryRequested, AdvisoryInReview, AdvisoryInfoRequested, AdvisoryNoIssues, AdvisoryIssuesFound:
		return nil
	}
	return fmt.Errorf("invalid advisory status: %s", s)
}

// DocumentToggleRoles is the fixed allow-list of roles permitted to flip
// IsRequired on a package document.
var DocumentToggleRoles = map[Role]bool{
	RoleAdmin: true,
	RoleKO:    true,
	RoleISS:   true,
}

// CanToggleDocuments reports whether the role may toggle document
// requiredness.
func CanToggleDocuments(role Role) bool {
	return DocumentToggleRoles[role]
}
