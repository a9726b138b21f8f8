package main

import (
	"fmt"
	"os"

	"declutter/cmd/declutter/cli"
	"declutter/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the config command
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize the configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

// newConfigShowCmd creates the 'config show' command
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Println(cli.Header("Configuration"))
			fmt.Print(string(data))
			return nil
		},
	}
}

// newConfigInitCmd creates the 'config init' command
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				path = config.DefaultConfigPath()
			}

			if _, err := os.Stat(path); err == nil && !force {
				fmt.Println(cli.Warning(fmt.Sprintf("%s already exists, use --force to overwrite", path)))
				return nil
			}

			if err := config.SaveConfig(config.New(), path); err != nil {
				return err
			}
			fmt.Println(cli.Success(fmt.Sprintf("Wrote default configuration to %s", path)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	return cmd
}
