package main

import (
	"fmt"
	"io"
	"os"

	"declutter/cmd/declutter/cli"
	"declutter/internal/organize"
	"declutter/internal/report"
	"declutter/internal/rules"

	"github.com/spf13/cobra"
)

// NewSortCmd creates the sort command
func NewSortCmd() *cobra.Command {
	var (
		rulesFile string
		dryRun    bool
		workers   int
		format    string
		output    string
		pageSize  int
	)

	cmd := &cobra.Command{
		Use:   "sort [directory]",
		Short: "Sort files in a directory by the configured rules",
		Long: `Sort evaluates every file under the directory against the rule set
and executes the actions of the best matching rule. With --dry-run the
same pass runs without touching any file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.Directories.Default
			if len(args) > 0 {
				dir = args[0]
			}

			store := rules.NewStore(rulesPath(rulesFile))
			if err := store.Load(); err != nil {
				return fmt.Errorf("cannot load rules: %w", err)
			}
			ruleSet := store.Rules()
			if len(ruleSet) == 0 {
				fmt.Println(cli.Warning("no rules defined, nothing to do"))
				return nil
			}

			if cmd.Flags().Changed("dry-run") {
				cfg.Settings.DryRun = dryRun
			}
			if workers > 0 {
				cfg.Settings.Workers = workers
			}
			engine := organize.NewWithConfig(cfg)

			if engine.IsDryRun() {
				fmt.Println(cli.Info(fmt.Sprintf("Dry run: planning sort of %s", dir)))
			} else {
				fmt.Println(cli.Info(fmt.Sprintf("Sorting %s", dir)))
			}

			// Progress bar only when writing the report elsewhere or in
			// the grouped text format, so machine-readable stdout stays clean
			var progress func()
			if output != "" || format == "text" {
				files, total := 0, countFiles(dir)
				progress = func() {
					files++
					fmt.Print(cli.ProgressLine(files, total))
				}
			}

			results, sortErr := engine.SortDirectory(dir, ruleSet, progress)
			if progress != nil {
				fmt.Println()
			}

			var w io.Writer = os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("cannot create report file: %w", err)
				}
				defer f.Close()
				w = f
			}

			var renderErr error
			switch format {
			case "json":
				renderErr = report.WriteJSON(w, results)
			case "csv":
				renderErr = report.WriteCSV(w, results)
			case "text":
				renderErr = report.WriteGrouped(w, results, pageSize)
			default:
				return fmt.Errorf("unknown format %q (want text, json or csv)", format)
			}
			if renderErr != nil {
				return renderErr
			}

			if sortErr != nil {
				fmt.Println(cli.Error(fmt.Sprintf("sort pass aborted: %v", sortErr)))
				return sortErr
			}
			if engine.IsDryRun() {
				fmt.Println(cli.Success(fmt.Sprintf("Dry run complete: %d planned actions, no files touched", len(results))))
			} else {
				fmt.Println(cli.Success(fmt.Sprintf("Sort complete: %d actions", len(results))))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&rulesFile, "rules", "r", "", "rule set file (default from config)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "plan the pass without touching files")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "worker pool size (0 uses the configured value)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "report format: text, json or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "lines per page in the text report (0 disables pagination)")

	return cmd
}

// countFiles sizes the progress bar; errors just leave it at zero
func countFiles(dir string) int {
	total := 0
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	for _, e := range entries {
		if e.IsDir() {
			total += countFiles(dir + string(os.PathSeparator) + e.Name())
		} else {
			total++
		}
	}
	return total
}
