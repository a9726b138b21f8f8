package rules

import (
	"declutter/pkg/types"
)

// Resolve picks the single best-matching rule for a file. Every
// enabled rule's conditions are evaluated; among the matches the
// highest priority wins and ties fall to the earliest-declared rule.
// The returned index is the rule's position in ruleSet. No match is
// not an error: ok is simply false.
func (ev *Evaluator) Resolve(path string, ruleSet []types.Rule) (rule *types.Rule, index int, ok bool) {
	bestIdx := -1
	for i := range ruleSet {
		r := &ruleSet[i]
		if !r.Enabled {
			continue
		}
		if !ev.Matches(path, &r.When) {
			continue
		}
		// Strictly-greater keeps the earliest declaration on ties
		if bestIdx == -1 || r.Priority > ruleSet[bestIdx].Priority {
			bestIdx = i
		}
	}
	if bestIdx == -1 {
		return nil, 0, false
	}
	return &ruleSet[bestIdx], bestIdx, true
}
