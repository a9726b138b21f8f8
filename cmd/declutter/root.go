package main

import (
	"fmt"

	"declutter/internal/config"
	"declutter/internal/log"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:     "declutter",
		Short:   "A rule-based file sorting tool",
		Long:    `Declutter sorts files with declarative rules: conditions on name, type, size, dates and metadata decide where each file goes.`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var err error
			if cfgFile != "" {
				cfg, err = config.LoadConfigFile(cfgFile)
			} else {
				cfg, err = config.LoadConfig()
			}
			if err != nil {
				fmt.Printf("Warning: could not load config: %v. Using defaults.\n", err)
				cfg = config.New()
			}

			if debug {
				cfg.Log.Debug = true
			}
			var opts []log.Option
			if cfg.Log.JSON {
				opts = append(opts, log.WithJSON())
			}
			if cfg.Log.File != "" {
				opts = append(opts, log.WithFile(cfg.Log.File))
			}
			log.Configure(opts...)
			log.SetDebug(cfg.Log.Debug)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/declutter/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(NewSortCmd())
	rootCmd.AddCommand(NewRulesCmd())
	rootCmd.AddCommand(NewConfigCmd())

	return rootCmd
}

// rulesPath resolves the rule set file, preferring an explicit flag
// over the configured location.
func rulesPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.Rules.File != "" {
		return cfg.Rules.File
	}
	return config.DefaultRulesPath()
}
