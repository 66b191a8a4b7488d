package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	pmProject  string
	pmValue    string
	pmLabel    string
	pmCategory string
	pmClear    bool
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage per-project settings",
}

var projectDefaultsCmd = &cobra.Command{
	Use:   "defaults",
	Short: "Set or clear a project's default value/label/category columns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject(pmProject)
		if err != nil {
			return err
		}
		f := cmd.Flags()
		if pmClear {
			p.Defaults.ValueColumn, p.Defaults.LabelColumn, p.Defaults.CategoryColumn = "", "", ""
		} else {
			if !f.Changed("value") && !f.Changed("label") && !f.Changed("category") {
				return fmt.Errorf("set at least one of --value, --label or --category, or use --clear")
			}
			if f.Changed("value") {
				p.Defaults.ValueColumn = pmValue
			}
			if f.Changed("label") {
				p.Defaults.LabelColumn = pmLabel
			}
			if f.Changed("category") {
				p.Defaults.CategoryColumn = pmCategory
			}
		}
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Defaults for %s: value=%q label=%q category=%q\n",
			p.Name, p.Defaults.ValueColumn, p.Defaults.LabelColumn, p.Defaults.CategoryColumn)
		return nil
	},
}

var projectRemoveCmd = &cobra.Command{
	Use:   "remove <dataset>",
	Short: "Unregister a dataset (the file itself is kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProject(pmProject)
		if err != nil {
			return err
		}
		d, err := p.Remove(args[0])
		if err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s (id %s) from %s\n", d.Name, d.ShortID(), p.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectCmd)
	projectCmd.AddCommand(projectDefaultsCmd)
	projectCmd.AddCommand(projectRemoveCmd)

	projectCmd.PersistentFlags().StringVarP(&pmProject, "project", "p", "", "project name")
	projectDefaultsCmd.Flags().StringVar(&pmValue, "value", "", "default primary numeric column")
	projectDefaultsCmd.Flags().StringVar(&pmLabel, "label", "", "default label column")
	projectDefaultsCmd.Flags().StringVar(&pmCategory, "category", "", "default category column")
	projectDefaultsCmd.Flags().BoolVar(&pmClear, "clear", false, "clear all column defaults")
}
