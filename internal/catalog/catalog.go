// Package catalog loads and validates the acquisition rule catalog: intake
// paths, document rules, approval templates, and dollar thresholds. The
// catalog is reference data with an explicit load/refresh lifecycle; the
// engine receives a Store by injection and never bakes rules into code.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"acqflow/pkg/schema"

	"gopkg.in/yaml.v3"
)

// FileName is the catalog file read from the configured directory.
const FileName = "catalog.yaml"

// Store holds the currently loaded catalog. Reads always see a complete,
// validated catalog; Refresh swaps atomically under the lock so in-flight
// derivations keep a consistent view.
type Store struct {
	mu      sync.RWMutex
	dir     string
	catalog *schema.Catalog
}

// NewStore creates a store reading from dir. Call Load before use.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// NewStoreFromCatalog creates a store around an in-memory catalog, used by
// tests and by callers that seed the defaults. The catalog is validated the
// same way a loaded file would be.
func NewStoreFromCatalog(cat *schema.Catalog) (*Store, error) {
	if err := Validate(cat); err != nil {
		return nil, err
	}
	return &Store{catalog: cat}, nil
}

// Load reads and validates the catalog file, replacing the current catalog
// only on success.
func (s *Store) Load() error {
	if s.dir == "" {
		return fmt.Errorf("catalog store has no directory configured")
	}

	data, err := os.ReadFile(filepath.Join(s.dir, FileName))
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}

	var cat schema.Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}

	if err := Validate(&cat); err != nil {
		return fmt.Errorf("validate catalog: %w", err)
	}

	s.mu.Lock()
	s.catalog = &cat
	s.mu.Unlock()
	return nil
}

// Refresh re-reads the catalog file. Administrators edit the file and call
// Refresh; a failed refresh leaves the previous catalog in place.
func (s *Store) Refresh() error {
	return s.Load()
}

// Thresholds returns the current tier boundaries. Read per call so threshold
// edits take effect on the next derivation, never cached by callers.
func (s *Store) Thresholds() schema.Thresholds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Thresholds
}

// Paths returns the intake path entries.
func (s *Store) Paths() []schema.IntakePath {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Paths
}

// DocumentRules returns the document rule entries.
func (s *Store) DocumentRules() []schema.DocumentRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.DocumentRules
}

// Template looks up an approval template by key.
func (s *Store) Template(key string) (schema.ApprovalTemplate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Template(key)
}

// Version returns the loaded catalog version string.
func (s *Store) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Version
}

// Validate runs the startup consistency pass. Overlapping intake path
// discriminator tuples are a catalog-authoring defect and fail fast with
// AmbiguousRuleError; dangling template or gate references fail with plain
// errors.
func Validate(cat *schema.Catalog) error {
	t := cat.Thresholds
	if t.MicroPurchase <= 0 || t.SAT <= t.MicroPurchase || t.AboveSATCeiling <= t.SAT {
		return fmt.Errorf("thresholds must be ordered: 0 < micro_purchase < sat < above_sat_ceiling")
	}

	seenTuples := make(map[string]string)
	seenIDs := make(map[string]bool)
	for _, p := range cat.Paths {
		if p.PathID == "" {
			return fmt.Errorf("intake path with empty path_id")
		}
		if seenIDs[p.PathID] {
			return fmt.Errorf("duplicate path_id %s", p.PathID)
		}
		seenIDs[p.PathID] = true

		tuple := p.DiscriminatorTuple()
		if other, ok := seenTuples[tuple]; ok {
			ids := []string{other, p.PathID}
			sort.Strings(ids)
			return &schema.AmbiguousRuleError{PathIDs: ids}
		}
		seenTuples[tuple] = p.PathID

		if _, ok := cat.Template(p.ApprovalTemplateKey); !ok {
			return fmt.Errorf("path %s references unknown approval template %q", p.PathID, p.ApprovalTemplateKey)
		}
	}

	for _, tmpl := range cat.Templates {
		if len(tmpl.Steps) == 0 {
			return fmt.Errorf("template %s has no steps", tmpl.Key)
		}
		for i, step := range tmpl.Steps {
			if step.StepNumber != i+1 {
				return fmt.Errorf("template %s step %d has out-of-order step_number %d", tmpl.Key, i+1, step.StepNumber)
			}
			if step.GateName == "" || step.Role == "" {
				return fmt.Errorf("template %s step %d missing gate name or role", tmpl.Key, step.StepNumber)
			}
		}
	}

	for _, rule := range cat.DocumentRules {
		if rule.Name == "" {
			return fmt.Errorf("document rule with empty name")
		}
		if len(rule.AcquisitionTypes) == 0 {
			return fmt.Errorf("document rule %q lists no acquisition types", rule.Name)
		}
	}

	return nil
}

// Write serializes a catalog to dir/catalog.yaml. Used to seed a fresh
// deployment with the defaults.
func Write(dir string, cat *schema.Catalog) error {
	if err := Validate(cat); err != nil {
		return err
	}
	data, err := yaml.Marshal(cat)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileName), data, 0644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
