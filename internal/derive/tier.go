package derive

import (
	"fmt"

	"acqflow/pkg/schema"
)

// ClassifyTier maps an estimated value to a threshold tier. Band upper bounds
// are inclusive: a value exactly at the micro-purchase limit is micro, one
// cent above is sat. Thresholds come from the catalog on every call; they are
// never cached across administrator edits.
func ClassifyTier(value float64, t schema.Thresholds) (schema.Tier, error) {
	if value < 0 {
		return "", &schema.InvalidValueError{
			Field:   "estimated_value",
			Message: fmt.Sprintf("must be non-negative, got %v", value),
		}
	}

	switch {
	case value <= t.MicroPurchase:
		return schema.TierMicro, nil
	case value <= t.SAT:
		return schema.TierSAT, nil
	case value <= t.AboveSATCeiling:
		return schema.TierAboveSAT, nil
	default:
		return schema.TierMajor, nil
	}
}
