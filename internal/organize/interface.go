package organize

import (
	"declutter/pkg/types"
)

// Sorter defines the interface for sort pass operations.
// This allows for dependency injection in tests and other parts of the application
type Sorter interface {
	// SetDryRun sets whether operations should be performed or just simulated
	SetDryRun(dryRun bool)

	// IsDryRun returns whether the engine is in dry run mode
	IsDryRun() bool

	// SortDirectory recursively sorts every file under root
	SortDirectory(root string, ruleSet []types.Rule, progress func()) ([]types.MatchResult, error)

	// Sort resolves and executes rules for an explicit file list
	Sort(files []string, sourceRoot string, ruleSet []types.Rule, progress func()) ([]types.MatchResult, error)
}

// Ensure Engine implements the Sorter interface
var _ Sorter = (*Engine)(nil)
