// Package derive implements the path derivation engine: matching structured
// intake answers against the rule catalog to produce an acquisition
// classification. Derivation is pure and idempotent; identical answers yield
// identical classifications regardless of call order or prior state.
package derive

import (
	"acqflow/internal/catalog"
	"acqflow/pkg/schema"
)

// Engine derives classifications against an injected catalog store.
type Engine struct {
	catalog *catalog.Store
}

// New creates a derivation engine.
func New(cat *catalog.Store) *Engine {
	return &Engine{catalog: cat}
}

// Derive classifies an intake answer. Zero matching paths is not an error:
// the result carries Matched=false and the tier, signaling the caller to
// collect more input. More than one match is a catalog defect and fails fast
// with AmbiguousRuleError.
func (e *Engine) Derive(answer schema.IntakeAnswer) (schema.Classification, error) {
	if err := schema.ValidateAnswer(&answer); err != nil {
		return schema.Classification{}, &schema.InvalidValueError{Field: "answers", Message: err.Error()}
	}

	tier, err := ClassifyTier(answer.EstimatedValue, e.catalog.Thresholds())
	if err != nil {
		return schema.Classification{}, err
	}

	var matches []schema.IntakePath
	for _, p := range e.catalog.Paths() {
		if p.NeedType != answer.NeedType || p.Situation != answer.Situation {
			continue
		}
		if p.VendorKnown != "" && p.VendorKnown != answer.VendorKnown {
			continue
		}
		if p.BuyCategory != "" && p.BuyCategory != answer.BuyCategory {
			continue
		}
		matches = append(matches, p)
	}

	switch len(matches) {
	case 0:
		return schema.Classification{
			Matched: false,
			Tier:    tier,
			Answers: answer,
		}, nil
	case 1:
		// fall through below
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.PathID
		}
		return schema.Classification{}, &schema.AmbiguousRuleError{PathIDs: ids}
	}

	path := matches[0]
	character := contractCharacter(answer.BuyCategory, answer.PredominantElement)

	c := schema.Classification{
		Matched:             true,
		PathID:              path.PathID,
		AcquisitionType:     path.AcquisitionType,
		Tier:                tier,
		Pipeline:            path.Pipeline,
		DocumentSetID:       path.DocumentSetID,
		ApprovalTemplateKey: path.ApprovalTemplateKey,
		AdvisoryTriggers:    path.AdvisoryTriggers,

		ContractCharacter:   character,
		RequirementsDocType: requirementsDocType(character, answer.BuyCategory),
		SCLSApplicable:      character == schema.CharacterService || character == schema.CharacterMixedService,
		QASPRequired: (character == schema.CharacterService || character == schema.CharacterMixedService) &&
			tier != schema.TierMicro,
		EvalApproach: evalApproach(character, answer.BuyCategory),

		UrgencyFlag: answer.NeedType == schema.NeedContinueExtend &&
			answer.Situation == schema.SituationExpiredGap,
		MarketResearchPending: answer.NeedType == schema.NeedNew && answer.VendorKnown == "",

		Answers: answer,
	}
	return c, nil
}

// FundingAugmented returns the answer snapshot redirected to the
// insufficient-funds execution path. The funding-approval sub-chain runs
// ahead of the regular CLIN execution gates.
func FundingAugmented(answer schema.IntakeAnswer) schema.IntakeAnswer {
	answer.Situation = schema.SituationODCCLINInsufficient
	return answer
}

func contractCharacter(buy schema.BuyCategory, predominant schema.PredominantElement) schema.ContractCharacter {
	switch buy {
	case schema.BuyProduct, schema.BuySoftware:
		return schema.CharacterProduct
	case schema.BuyService:
		return schema.CharacterService
	case schema.BuyMixed:
		if predominant == schema.PredominantlyProduct {
			return schema.CharacterMixedProduct
		}
		return schema.CharacterMixedService
	default:
		return schema.CharacterService
	}
}

func requirementsDocType(character schema.ContractCharacter, buy schema.BuyCategory) string {
	if buy == schema.BuySoftware {
		return "description"
	}
	switch character {
	case schema.CharacterProduct, schema.CharacterMixedProduct:
		return "specification"
	default:
		return "pws"
	}
}

func evalApproach(character schema.ContractCharacter, buy schema.BuyCategory) string {
	if character == schema.CharacterProduct || buy == schema.BuySoftware {
		return "lpta"
	}
	return "best_value"
}
