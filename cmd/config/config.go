// Package config provides CLI commands for configuration management.
package config

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetjson/internal/config"
)

// NewCommand returns the config command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage sheetjson configuration",
		Long: `View and modify sheetjson settings stored in ~/.sheetjson/config.yaml.

Every key can also be set through the environment, e.g.
SHEETJSON_DIALOG_WIDTH=600 for dialog.width.`,
	}

	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newSetCommand())
	cmd.AddCommand(newGetCommand())
	cmd.AddCommand(newResetCommand())
	cmd.AddCommand(newPathCommand())

	return cmd
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			jsonFlag, _ := cmd.Flags().GetBool("json")
			if jsonFlag {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			out, err := config.ShowConfig(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set a configuration value",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Keys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(); err != nil {
				return err
			}
			if err := config.Set(args[0], args[1]); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
			return nil
		},
	}
}

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value, or list all keys",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(); err != nil {
				return err
			}

			keys := args
			if len(keys) == 0 {
				keys = config.Keys()
			}
			for _, k := range keys {
				val := config.Get(k)
				if val == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: (not set)\n", k)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", k, val)
				}
			}
			return nil
		},
	}
}

func newResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ResetConfig(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset to defaults")
			return nil
		},
	}
}

func newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.ConfigPath())
		},
	}
}
