// Package checklist expands a classification into the required-document set
// and reconciles it when answers change. Generation is a pure computation
// over catalog document rules; the caller owns persistence.
package checklist

import (
	"time"

	"acqflow/pkg/schema"
)

// Generate creates one PackageDocument per applicable rule, status
// not_started and required. Documents whose rule does not apply are not
// created at all.
func Generate(rules []schema.DocumentRule, c schema.Classification, now time.Time) ([]schema.PackageDocument, error) {
	var docs []schema.PackageDocument
	for _, rule := range rules {
		if !rule.AppliesTo(c.AcquisitionType, c.Tier, c.Answers.BuyCategory) {
			continue
		}
		id, err := schema.NewDocumentID()
		if err != nil {
			return nil, err
		}
		docs = append(docs, schema.PackageDocument{
			ID:                 id,
			Name:               rule.Name,
			Status:             schema.DocNotStarted,
			IsRequired:         true,
			RequiredBeforeGate: rule.RequiredBeforeGate,
			AIAssistable:       rule.AIAssistable,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
	}
	return docs, nil
}

// Diff summarizes a reconciliation.
type Diff struct {
	Added     []string `json:"added"`
	Removed   []string `json:"removed"`
	Unchanged []string `json:"unchanged"`
}

// Reconcile diffs the newly-applicable document set against existing
// instances after a re-derivation. Newly applicable documents are created;
// no-longer-applicable ones keep their history and are marked previously
// required; still-applicable ones are left untouched.
func Reconcile(existing []schema.PackageDocument, rules []schema.DocumentRule, c schema.Classification, now time.Time) ([]schema.PackageDocument, Diff, error) {
	applicable := make(map[string]schema.DocumentRule)
	for _, rule := range rules {
		if rule.AppliesTo(c.AcquisitionType, c.Tier, c.Answers.BuyCategory) {
			applicable[rule.Name] = rule
		}
	}

	var diff Diff
	docs := make([]schema.PackageDocument, len(existing))
	copy(docs, existing)

	seen := make(map[string]bool)
	for i := range docs {
		doc := &docs[i]
		seen[doc.Name] = true

		_, nowApplicable := applicable[doc.Name]
		switch {
		case doc.IsRequired && !nowApplicable:
			doc.IsRequired = false
			doc.WasRequired = true
			if doc.Status == schema.DocNotStarted {
				doc.Status = schema.DocNotRequired
			}
			doc.UpdatedAt = now
			diff.Removed = append(diff.Removed, doc.Name)
		case !doc.IsRequired && nowApplicable:
			doc.IsRequired = true
			doc.WasRequired = false
			if doc.Status == schema.DocNotRequired {
				doc.Status = schema.DocNotStarted
			}
			doc.UpdatedAt = now
			diff.Added = append(diff.Added, doc.Name)
		default:
			diff.Unchanged = append(diff.Unchanged, doc.Name)
		}
	}

	// Walk the rule list, not the map, so creation order is stable.
	for _, rule := range rules {
		name := rule.Name
		if _, ok := applicable[name]; !ok || seen[name] {
			continue
		}
		seen[name] = true
		id, err := schema.NewDocumentID()
		if err != nil {
			return nil, Diff{}, err
		}
		docs = append(docs, schema.PackageDocument{
			ID:                 id,
			Name:               rule.Name,
			Status:             schema.DocNotStarted,
			IsRequired:         true,
			RequiredBeforeGate: rule.RequiredBeforeGate,
			AIAssistable:       rule.AIAssistable,
			CreatedAt:          now,
			UpdatedAt:          now,
		})
		diff.Added = append(diff.Added, name)
	}

	return docs, diff, nil
}

// Toggle flips IsRequired on an existing document. Restricted to the
// document-toggle role allow-list; idempotent and reversible; never alters
// status so the document's lifecycle history stays intact.
func Toggle(doc *schema.PackageDocument, required bool, actor schema.Role, now time.Time) error {
	if !schema.CanToggleDocuments(actor) {
		return &schema.PermissionError{Actor: actor, Required: "document toggle role"}
	}
	if doc.IsRequired == required {
		return nil
	}
	doc.IsRequired = required
	if !required {
		doc.WasRequired = true
	}
	doc.UpdatedAt = now
	return nil
}
