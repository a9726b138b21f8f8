package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	serr "declutter/internal/errors"
	"declutter/pkg/types"
)

// Store handles loading, validating, and persisting the rule set.
// A rule file is either a single rule document or {rules: [...]};
// unknown fields are rejected at parse time.
type Store struct {
	path  string
	rules []types.Rule
}

// NewStore creates a store bound to the given rule file path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads and validates the rule set. A missing file yields an
// empty set, not an error.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.rules = []types.Rule{}
			return nil
		}
		return fmt.Errorf("failed to read rules file %s: %w", s.path, err)
	}

	rules, err := Decode(data)
	if err != nil {
		return fmt.Errorf("failed to parse rules file %s: %w", s.path, err)
	}
	if err := Validate(rules); err != nil {
		return fmt.Errorf("invalid rules in %s: %w", s.path, err)
	}

	s.rules = rules
	return nil
}

// Decode parses rule definitions from YAML. The document may be a
// single rule object or {rules: [...]}. Unknown fields are rejected.
func Decode(data []byte) ([]types.Rule, error) {
	// Probe the top-level shape first so strict-decode errors point at
	// the form the document actually uses
	var probe map[string]interface{}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if probe == nil {
		return []types.Rule{}, nil
	}

	if _, hasRules := probe["rules"]; hasRules {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		var rf types.RulesFile
		if err := dec.Decode(&rf); err != nil {
			return nil, err
		}
		return rf.Rules, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var rule types.Rule
	if err := dec.Decode(&rule); err != nil {
		return nil, err
	}
	return []types.Rule{rule}, nil
}

// Validate checks a rule set before it is allowed near a sort pass:
// unique non-empty ids, names, non-empty action lists, non-empty
// destinations, and consistent size and date ranges.
func Validate(rules []types.Rule) error {
	seen := make(map[string]bool, len(rules))

	for i := range rules {
		rule := &rules[i]
		if rule.ID == "" {
			return serr.NewRuleError("rule id is required", rule.Name, serr.InvalidRule, nil)
		}
		if seen[rule.ID] {
			return serr.NewRuleError("duplicate rule id", rule.ID, serr.DuplicateRule, nil)
		}
		seen[rule.ID] = true

		if rule.Name == "" {
			return serr.NewRuleError("rule name is required", rule.ID, serr.InvalidRule, nil)
		}
		if len(rule.Then) == 0 {
			return serr.NewRuleError("rule must have at least one action", rule.ID, serr.InvalidRule, nil)
		}

		for _, action := range rule.Then {
			switch action.Type {
			case types.MoveAction, types.CopyAction, types.RenameAction:
				if action.To == "" {
					return serr.NewRuleError(fmt.Sprintf("%s action requires a destination", action.Type), rule.ID, serr.InvalidRule, nil)
				}
			case types.DeleteAction, types.SkipAction:
				// No required fields
			case types.ExecuteAction:
				if action.Command == "" {
					return serr.NewRuleError("execute action requires a command", rule.ID, serr.InvalidRule, nil)
				}
			default:
				return serr.NewRuleError(fmt.Sprintf("unknown action type: %s", action.Type), rule.ID, serr.InvalidRule, nil)
			}
		}

		if err := validateConditions(rule.ID, &rule.When); err != nil {
			return err
		}
	}
	return nil
}

func validateConditions(ruleID string, c *types.Conditions) error {
	if c.SizeKB != nil && c.SizeKB.MinKB != nil && c.SizeKB.MaxKB != nil {
		if *c.SizeKB.MinKB > *c.SizeKB.MaxKB {
			return serr.NewRuleError("size range min exceeds max", ruleID, serr.InvalidRule, nil)
		}
	}
	for _, r := range []*types.DateRange{c.CreatedDate, c.ModifiedDate} {
		if r == nil {
			continue
		}
		var from, to time.Time
		var err error
		if r.From != "" {
			if from, err = time.Parse(dateLayout, r.From); err != nil {
				return serr.NewRuleError(fmt.Sprintf("invalid date bound %q", r.From), ruleID, serr.InvalidRule, err)
			}
		}
		if r.To != "" {
			if to, err = time.Parse(dateLayout, r.To); err != nil {
				return serr.NewRuleError(fmt.Sprintf("invalid date bound %q", r.To), ruleID, serr.InvalidRule, err)
			}
		}
		if r.From != "" && r.To != "" && from.After(to) {
			return serr.NewRuleError("date range from exceeds to", ruleID, serr.InvalidRule, nil)
		}
	}
	return nil
}

// Rules returns the loaded rule set in declaration order
func (s *Store) Rules() []types.Rule {
	return s.rules
}

// Enabled returns the enabled rules, preserving declaration order
func (s *Store) Enabled() []types.Rule {
	var enabled []types.Rule
	for _, rule := range s.rules {
		if rule.Enabled {
			enabled = append(enabled, rule)
		}
	}
	return enabled
}

// Find returns the rule with the given id
func (s *Store) Find(id string) (*types.Rule, bool) {
	for i := range s.rules {
		if s.rules[i].ID == id {
			return &s.rules[i], true
		}
	}
	return nil, false
}

// Add validates and appends a new rule, then persists the set
func (s *Store) Add(rule types.Rule) error {
	if _, exists := s.Find(rule.ID); exists {
		return serr.NewRuleError("duplicate rule id", rule.ID, serr.DuplicateRule, nil)
	}
	next := append(append([]types.Rule{}, s.rules...), rule)
	if err := Validate(next); err != nil {
		return err
	}
	s.rules = next
	return s.Save()
}

// Remove deletes the rule with the given id and persists the set
func (s *Store) Remove(id string) error {
	for i := range s.rules {
		if s.rules[i].ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return s.Save()
		}
	}
	return serr.NewRuleError("rule not found", id, serr.RuleNotFound, nil)
}

// SetEnabled toggles a rule and persists the set
func (s *Store) SetEnabled(id string, enabled bool) error {
	rule, ok := s.Find(id)
	if !ok {
		return serr.NewRuleError("rule not found", id, serr.RuleNotFound, nil)
	}
	rule.Enabled = enabled
	return s.Save()
}

// Save writes the rule set back to its file, creating parent
// directories if needed.
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create rules directory: %w", err)
	}

	data, err := yaml.Marshal(types.RulesFile{Rules: s.rules})
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}
	return nil
}

// ExportJSON writes the rule set as a JSON document
func (s *Store) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(types.RulesFile{Rules: s.rules})
}
