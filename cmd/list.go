package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/KaramelBytes/tabinsight-cli/internal/utils"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	listProjName string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, or the datasets of a project with --project",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listProjName == "" {
			return listAllProjects(cmd.OutOrStdout())
		}
		p, err := loadProject(listProjName)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		datasets := p.List()
		if len(datasets) == 0 {
			fmt.Fprintln(out, "(no datasets)")
			return nil
		}
		t := tablewriter.NewWriter(out)
		t.SetHeader([]string{"ID", "Name", "Format", "Rows", "Valid", "Columns", "Description"})
		t.SetAutoWrapText(false)
		for _, d := range datasets {
			name := d.Name
			if d.SheetName != "" {
				name += " [" + d.SheetName + "]"
			}
			t.Append([]string{
				d.ShortID(), name, d.Format,
				strconv.Itoa(d.Rows), strconv.Itoa(d.ValidRows), strconv.Itoa(len(d.Columns)),
				d.Description,
			})
		}
		t.Render()
		return nil
	},
}

func listAllProjects(out io.Writer) error {
	root, err := defaultProjectsDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		pj := filepath.Join(root, e.Name(), utils.ProjectFile)
		if _, err := os.Stat(pj); err == nil {
			fmt.Fprintf(out, "- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Fprintln(out, "(no projects)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listProjName, "project", "p", "", "list the datasets of this project")
}
