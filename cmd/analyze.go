package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/tabinsight-cli/internal/analysis"
	"github.com/KaramelBytes/tabinsight-cli/internal/dataset"
	"github.com/KaramelBytes/tabinsight-cli/internal/logging"
	"github.com/KaramelBytes/tabinsight-cli/internal/parser"
	"github.com/KaramelBytes/tabinsight-cli/internal/project"
	"github.com/KaramelBytes/tabinsight-cli/internal/report"
	"github.com/spf13/cobra"
)

var (
	anaFlags       analysisFlags
	anaProject     string
	anaDataset     string
	anaOutputPath  string
	anaDescription string
	anaSave        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a CSV/TSV/XLSX/JSON file and report statistics and insights",
	Long: `Analyze a dataset file, or a dataset registered in a project with --dataset.

With --project and a file, the file is also registered in the project. --save
writes the report under the project's reports directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := anaFlags.reportFormat()
		if err != nil {
			return err
		}
		popt, err := anaFlags.parserOptions()
		if err != nil {
			return err
		}

		var (
			ds  *dataset.Dataset
			p   *project.Project
			reg *project.Dataset
		)
		switch {
		case anaDataset != "":
			if len(args) > 0 {
				return errors.New("pass either a file or --dataset, not both")
			}
			p, err = loadProject(anaProject)
			if err != nil {
				return err
			}
			reg, err = p.Find(anaDataset)
			if err != nil {
				return err
			}
			var stale bool
			ds, stale, err = p.Load(reg)
			if err != nil {
				return err
			}
			if stale {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s changed since it was added to project '%s'\n", reg.Name, p.Name)
			}
		case len(args) == 1:
			path := args[0]
			if anaProject != "" {
				p, err = loadProject(anaProject)
				if err != nil {
					return err
				}
				reg, err = p.AddDataset(path, anaDescription, popt)
				if err != nil {
					return err
				}
				if err := p.Save(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "✓ Added %s to project '%s' (id %s)\n", reg.Name, p.Name, reg.ShortID())
			}
			ds, err = parser.ParseFile(path, popt)
			if err != nil {
				return err
			}
		default:
			return errors.New("a file argument or --dataset is required")
		}
		if anaSave && p == nil {
			return errors.New("--save requires --project")
		}

		var defaults *project.Defaults
		if p != nil {
			defaults = p.Defaults
		}
		opt, err := anaFlags.options(cmd.Flags(), defaults)
		if err != nil {
			return err
		}
		m := analysis.Compute(ds, opt)
		logging.WithDataset(ds.Name).Debug("analyzed", "rows", m.Rows, "valid", m.TotalRecords, "insights", len(m.Insights))

		var buf bytes.Buffer
		if err := report.Render(&buf, m, format); err != nil {
			return err
		}

		written := false
		if anaOutputPath != "" {
			if err := os.WriteFile(anaOutputPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			written = true
		}
		if anaSave {
			out, err := p.SaveReport(reg, format.Extension(), buf.Bytes())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved report to %s\n", filepath.Join(filepath.Base(p.ReportsDir()), filepath.Base(out)))
			written = true
		}
		if !written {
			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaFlags.register(analyzeCmd.Flags())
	analyzeCmd.Flags().StringVarP(&anaProject, "project", "p", "", "project to register the file in, or to read --dataset from")
	analyzeCmd.Flags().StringVarP(&anaDataset, "dataset", "d", "", "registered dataset (ID, ID prefix or file name)")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVar(&anaDescription, "desc", "", "description when registering in a project")
	analyzeCmd.Flags().BoolVar(&anaSave, "save", false, "save the report under the project's reports directory")
}
