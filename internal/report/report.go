// Package report renders sort pass results. Three independent
// renderers consume the same []MatchResult: a JSON array, a CSV table,
// and a paginated text document grouped by rule id then file name.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"declutter/pkg/types"
)

// CSVHeader is the fixed column order of the CSV renderer
var CSVHeader = []string{"file_name", "action", "matched_rule_id", "current_path", "new_path"}

// WriteJSON renders the results as an indented JSON array
func WriteJSON(w io.Writer, results []types.MatchResult) error {
	if results == nil {
		results = []types.MatchResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// WriteCSV renders the results as CSV with a fixed header row
func WriteCSV(w io.Writer, results []types.MatchResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{r.FileName, string(r.Action), r.MatchedRuleID, r.CurrentPath, r.NewPath}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteGrouped renders a paginated text document with results grouped
// by rule id, then ordered by file name within each group. pageSize is
// the number of result lines per page; zero or negative disables
// pagination.
func WriteGrouped(w io.Writer, results []types.MatchResult, pageSize int) error {
	grouped := make(map[string][]types.MatchResult)
	var ruleIDs []string
	for _, r := range results {
		if _, seen := grouped[r.MatchedRuleID]; !seen {
			ruleIDs = append(ruleIDs, r.MatchedRuleID)
		}
		grouped[r.MatchedRuleID] = append(grouped[r.MatchedRuleID], r)
	}
	sort.Strings(ruleIDs)

	line := 0
	page := 1
	if _, err := fmt.Fprintf(w, "Sort report: %d results\n", len(results)); err != nil {
		return err
	}

	for _, id := range ruleIDs {
		group := grouped[id]
		sort.Slice(group, func(i, j int) bool { return group[i].FileName < group[j].FileName })

		if _, err := fmt.Fprintf(w, "\nRule: %s (%d files)\n", id, len(group)); err != nil {
			return err
		}
		for _, r := range group {
			if pageSize > 0 && line >= pageSize {
				page++
				line = 0
				if _, err := fmt.Fprintf(w, "\n--- page %d ---\n", page); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "  %-8s %s -> %s\n", r.Action, r.CurrentPath, r.NewPath); err != nil {
				return err
			}
			line++
		}
	}
	return nil
}
