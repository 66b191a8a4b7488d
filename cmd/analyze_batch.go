package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/KaramelBytes/tabinsight-cli/internal/cache"
	"github.com/KaramelBytes/tabinsight-cli/internal/logging"
	"github.com/KaramelBytes/tabinsight-cli/internal/parser"
	"github.com/KaramelBytes/tabinsight-cli/internal/project"
	"github.com/KaramelBytes/tabinsight-cli/internal/report"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	abFlags       analysisFlags
	abProject     string
	abDescription string
	abJobs        int
	abQuiet       bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze many files in parallel with optional project attachment",
	Long: `Analyze every file matched by the given paths or glob patterns. Files are
analyzed concurrently (--jobs) and reports are printed in sorted path order.
Files with identical content are computed once.

With --project, each file is registered in the project and its report is
saved under the project's reports directory instead of being printed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		format, err := abFlags.reportFormat()
		if err != nil {
			return err
		}
		popt, err := abFlags.parserOptions()
		if err != nil {
			return err
		}

		var p *project.Project
		var defaults *project.Defaults
		if abProject != "" {
			p, err = loadProject(abProject)
			if err != nil {
				return err
			}
			defaults = p.Defaults
		}
		opt, err := abFlags.options(cmd.Flags(), defaults)
		if err != nil {
			return err
		}

		entries := defaultCacheEntries
		if cfg != nil {
			entries = cfg.CacheEntries
		}
		c := cache.New(entries, nil)
		log := logging.WithComponent("batch")

		jobs := abJobs
		if jobs <= 0 {
			jobs = runtime.NumCPU()
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(jobs)

		reports := make([][]byte, len(files))
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				ds, err := parser.ParseFile(path, popt)
				if err != nil {
					return err
				}
				m, err := c.Analyze(ds, opt)
				if err != nil {
					return fmt.Errorf("analyze %s: %w", path, err)
				}
				var buf bytes.Buffer
				if err := report.Render(&buf, m, format); err != nil {
					return err
				}
				reports[i] = buf.Bytes()
				log.Debug("analyzed", "file", path, "valid", m.TotalRecords)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if p == nil {
				if total > 1 {
					fmt.Fprintf(out, "==> %s <==\n", path)
				}
				if _, err := out.Write(reports[i]); err != nil {
					return err
				}
				continue
			}
			d, err := p.AddDataset(path, abDescription, popt)
			if err != nil {
				return err
			}
			saved, err := p.SaveReport(d, format.Extension(), reports[i])
			if err != nil {
				return err
			}
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] ✓ %s -> %s\n", i+1, total, filepath.Base(path), filepath.Base(saved))
			}
		}
		if p != nil {
			if err := p.Save(); err != nil {
				return err
			}
		}
		if !abQuiet {
			st := c.Stats()
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Analyzed %d file(s) (cache: %d hits, %d misses)\n", total, st.Hits, st.Misses)
		}
		return nil
	},
}

// expandInputs resolves globs and literal paths, dropping duplicates, in
// sorted order.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	abFlags.register(analyzeBatchCmd.Flags())
	analyzeBatchCmd.Flags().StringVarP(&abProject, "project", "p", "", "project to register files in and save reports to")
	analyzeBatchCmd.Flags().StringVar(&abDescription, "desc", "", "description when registering in a project")
	analyzeBatchCmd.Flags().IntVarP(&abJobs, "jobs", "j", 0, "parallel workers (default: number of CPUs)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
