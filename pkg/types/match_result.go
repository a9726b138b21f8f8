package types

// MatchResult holds the outcome of one executed action on one file.
// NewPath is the computed destination even in dry-run mode; for
// deletions it is empty.
type MatchResult struct {
	FileName      string     `json:"file_name"`
	Action        ActionType `json:"action"`
	MatchedRuleID string     `json:"matched_rule_id"`
	CurrentPath   string     `json:"current_path"`
	NewPath       string     `json:"new_path"`
}
