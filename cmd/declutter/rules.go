package main

import (
	"fmt"
	"io"
	"os"

	"declutter/cmd/declutter/cli"
	"declutter/internal/rules"

	"github.com/spf13/cobra"
)

// NewRulesCmd creates the rules command
func NewRulesCmd() *cobra.Command {
	var rulesFile string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage the sorting rule set",
		Long:  `View, add, remove, toggle and export the declarative sorting rules.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRules(rulesPath(rulesFile))
		},
	}

	cmd.PersistentFlags().StringVarP(&rulesFile, "rules", "r", "", "rule set file (default from config)")

	cmd.AddCommand(newRulesListCmd(&rulesFile))
	cmd.AddCommand(newRulesAddCmd(&rulesFile))
	cmd.AddCommand(newRulesRemoveCmd(&rulesFile))
	cmd.AddCommand(newRulesEnableCmd(&rulesFile, true))
	cmd.AddCommand(newRulesEnableCmd(&rulesFile, false))
	cmd.AddCommand(newRulesExportCmd(&rulesFile))
	cmd.AddCommand(newRulesValidateCmd(&rulesFile))

	return cmd
}

func loadStore(path string) (*rules.Store, error) {
	store := rules.NewStore(path)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("cannot load rules: %w", err)
	}
	return store, nil
}

func listRules(path string) error {
	store, err := loadStore(path)
	if err != nil {
		return err
	}

	all := store.Rules()
	if len(all) == 0 {
		fmt.Println(cli.Info("No rules defined"))
		fmt.Println(cli.Info("Use 'declutter rules add' to create one"))
		return nil
	}

	fmt.Println(cli.Header(fmt.Sprintf("Rules (%d)", len(all))))
	for _, rule := range all {
		state := cli.Success("enabled")
		if !rule.Enabled {
			state = cli.Warning("disabled")
		}
		fmt.Printf("\n%s  %s  priority=%d  [%s]\n", cli.Emphasis(rule.ID), rule.Name, rule.Priority, state)
		if rule.Description != "" {
			fmt.Println("  " + cli.Info(rule.Description))
		}
		for _, action := range rule.Then {
			line := "  -> " + string(action.Type)
			if action.To != "" {
				line += " " + action.To
			}
			if action.Command != "" {
				line += " " + action.Command
			}
			fmt.Println(line)
		}
	}
	return nil
}

// newRulesListCmd creates the 'rules list' command
func newRulesListCmd(rulesFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listRules(rulesPath(*rulesFile))
		},
	}
}

// newRulesAddCmd creates the 'rules add' command. The rule comes in as
// a YAML document, either from a file or stdin.
func newRulesAddCmd(rulesFile *string) *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a rule from a YAML document",
		Long: `Add reads a single rule as YAML, validates it and appends it to the
rule set. With --from the document comes from a file, otherwise stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if from != "" {
				data, err = os.ReadFile(from)
			} else {
				data, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("cannot read rule document: %w", err)
			}

			parsed, err := rules.Decode(data)
			if err != nil {
				return fmt.Errorf("cannot parse rule document: %w", err)
			}

			store, err := loadStore(rulesPath(*rulesFile))
			if err != nil {
				return err
			}
			for _, rule := range parsed {
				if err := store.Add(rule); err != nil {
					return err
				}
				fmt.Println(cli.Success(fmt.Sprintf("Added rule %s", rule.ID)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "read the rule document from a file instead of stdin")
	return cmd
}

// newRulesRemoveCmd creates the 'rules remove' command
func newRulesRemoveCmd(rulesFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a rule by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(rulesPath(*rulesFile))
			if err != nil {
				return err
			}
			if err := store.Remove(args[0]); err != nil {
				return err
			}
			fmt.Println(cli.Success(fmt.Sprintf("Removed rule %s", args[0])))
			return nil
		},
	}
}

// newRulesEnableCmd creates the 'rules enable' and 'rules disable' commands
func newRulesEnableCmd(rulesFile *string, enable bool) *cobra.Command {
	use, short := "enable <id>", "Enable a rule"
	if !enable {
		use, short = "disable <id>", "Disable a rule without removing it"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(rulesPath(*rulesFile))
			if err != nil {
				return err
			}
			if err := store.SetEnabled(args[0], enable); err != nil {
				return err
			}
			state := "enabled"
			if !enable {
				state = "disabled"
			}
			fmt.Println(cli.Success(fmt.Sprintf("Rule %s %s", args[0], state)))
			return nil
		},
	}
}

// newRulesExportCmd creates the 'rules export' command
func newRulesExportCmd(rulesFile *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the rule set as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(rulesPath(*rulesFile))
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("cannot create export file: %w", err)
				}
				defer f.Close()
				w = f
			}
			return store.ExportJSON(w)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

// newRulesValidateCmd creates the 'rules validate' command. It parses
// and validates the file directly so parse and validation errors are
// reported the same way.
func newRulesValidateCmd(rulesFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the rule set for errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(rulesPath(*rulesFile))
			if err != nil {
				return fmt.Errorf("cannot read rules file: %w", err)
			}
			parsed, err := rules.Decode(data)
			if err != nil {
				fmt.Println(cli.Error(err.Error()))
				return err
			}
			if err := rules.Validate(parsed); err != nil {
				fmt.Println(cli.Error(err.Error()))
				return err
			}
			fmt.Println(cli.Success(fmt.Sprintf("%d rules, all valid", len(parsed))))
			return nil
		},
	}
}
