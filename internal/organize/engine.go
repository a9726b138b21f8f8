// Package organize contains the sort engine: it resolves the best
// matching rule per file and executes that rule's actions, in parallel
// across the file set.
package organize

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"declutter/internal/analysis"
	"declutter/internal/config"
	serr "declutter/internal/errors"
	log "declutter/internal/log"
	"declutter/internal/rules"
	"declutter/pkg/types"
)

// Engine handles file sorting operations
type Engine struct {
	analysis  *analysis.Engine
	evaluator *rules.Evaluator
	dryRun    bool
	workers   int
}

// New creates a new sort Engine instance with safe defaults (dry run
// enabled, worker pool sized to available parallelism).
func New() *Engine {
	return NewWithConfig(config.New())
}

// NewWithConfig creates a new sort Engine instance with configuration
func NewWithConfig(cfg *config.Config) *Engine {
	a := analysis.New()
	return &Engine{
		analysis:  a,
		evaluator: rules.NewEvaluator(a),
		dryRun:    cfg.Settings.DryRun,
		workers:   cfg.WorkerCount(),
	}
}

// SetDryRun sets whether operations should be performed or just simulated
func (e *Engine) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// IsDryRun returns whether the engine is in dry run mode
func (e *Engine) IsDryRun() bool {
	return e.dryRun
}

// SortDirectory recursively enumerates files under root and sorts
// them. The root must exist and be a directory before any work begins.
func (e *Engine) SortDirectory(root string, ruleSet []types.Rule, progress func()) ([]types.MatchResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, serr.NewFileError("source directory not found", root, serr.FileNotFound, err)
		}
		return nil, serr.NewFileError("cannot access source directory", root, serr.FileAccessDenied, err)
	}
	if !info.IsDir() {
		return nil, serr.NewFileError("source path is not a directory", root, serr.InvalidPath, nil)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, serr.NewFileError("failed to enumerate source directory", root, serr.FileAccessDenied, err)
	}

	return e.Sort(files, root, ruleSet, progress)
}

// Sort resolves and executes the best-matching rule for every file,
// in parallel on a fixed worker pool. Files with no matching rule are
// skipped silently. One MatchResult is produced per executed action,
// with each action applied to the path the previous one produced;
// progress is invoked exactly once per processed file. The first
// fatal I/O error aborts the remaining pass; results collected so far
// are returned alongside the error.
func (e *Engine) Sort(files []string, sourceRoot string, ruleSet []types.Rule, progress func()) ([]types.MatchResult, error) {
	if err := rules.Validate(ruleSet); err != nil {
		return nil, err
	}

	log.Debug("Sorting %d files with %d rules (dry_run=%v)", len(files), len(ruleSet), e.dryRun)
	executor := NewExecutor(e.analysis, sourceRoot, e.dryRun)

	var mu sync.Mutex
	var results []types.MatchResult

	// Progress callbacks are funneled through a single consumer so the
	// callback itself never runs concurrently.
	var progressCh chan struct{}
	var progressDone chan struct{}
	if progress != nil {
		progressCh = make(chan struct{}, len(files))
		progressDone = make(chan struct{})
		go func() {
			for range progressCh {
				progress()
			}
			close(progressDone)
		}()
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(e.workers)

	for _, file := range files {
		file := file
		g.Go(func() error {
			// Fail-fast: once any file has failed, start no new work
			if ctx.Err() != nil {
				return ctx.Err()
			}
			defer func() {
				if progressCh != nil {
					progressCh <- struct{}{}
				}
			}()

			matched, _, ok := e.evaluator.Resolve(file, ruleSet)
			if !ok {
				return nil
			}

			// Actions run in declared order against wherever the previous
			// action left the file, in dry-run and real runs alike.
			current := file
			for _, action := range matched.Then {
				newPath, err := executor.Execute(current, action)
				if err != nil {
					return err
				}
				mu.Lock()
				results = append(results, types.MatchResult{
					FileName:      filepath.Base(file),
					Action:        action.Type,
					MatchedRuleID: matched.ID,
					CurrentPath:   current,
					NewPath:       newPath,
				})
				mu.Unlock()

				if action.Type == types.DeleteAction {
					// The file is gone; remaining actions have no target
					break
				}
				if action.Type == types.MoveAction || action.Type == types.RenameAction {
					current = newPath
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if progressCh != nil {
		close(progressCh)
		<-progressDone
	}

	if err != nil {
		log.LogWithError(err).Error("sort pass aborted")
		return results, err
	}
	log.Debug("Sort pass complete: %d results", len(results))
	return results, nil
}
