package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addProjectName string
	addDocDesc     string
	addFlags       analysisFlags
)

var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Register a dataset file in a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		popt, err := addFlags.parserOptions()
		if err != nil {
			return err
		}
		p, err := loadProject(addProjectName)
		if err != nil {
			return err
		}
		d, err := p.AddDataset(file, addDocDesc, popt)
		if err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dataset added: %s (id %s, %d rows, %d valid)\n", d.Name, d.ShortID(), d.Rows, d.ValidRows)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addProjectName, "project", "p", "", "project name (default: project enclosing the working directory)")
	addCmd.Flags().StringVar(&addDocDesc, "desc", "", "dataset description")
	addCmd.Flags().StringVar(&addFlags.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (auto-detect if omitted)")
	addCmd.Flags().StringVar(&addFlags.sheetName, "sheet-name", "", "XLSX: sheet name to register")
	addCmd.Flags().IntVar(&addFlags.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
