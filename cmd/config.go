package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/tabinsight-cli/internal/config"
	"github.com/KaramelBytes/tabinsight-cli/internal/logging"
	"github.com/KaramelBytes/tabinsight-cli/internal/report"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set tabinsight configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfig(); err != nil {
			return err
		}
		for _, k := range cfgpkg.Keys {
			v, err := cfg.Get(k)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", k, v)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if err := ensureConfig(); err != nil {
			return err
		}
		switch key {
		case "default_format":
			f, err := report.ParseFormat(val)
			if err != nil {
				return err
			}
			val = string(f)
		case "log_level":
			if _, err := logging.ParseLevel(val); err != nil {
				return err
			}
		case "log_format":
			if val != "text" && val != "json" {
				return fmt.Errorf("invalid log_format: %s (use text or json)", val)
			}
		}
		if err := cfg.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func ensureConfig() error {
	if cfg != nil {
		return nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
