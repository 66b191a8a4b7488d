package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	cfgpkg "github.com/KaramelBytes/tabinsight-cli/internal/config"
	"github.com/KaramelBytes/tabinsight-cli/internal/project"
	"github.com/KaramelBytes/tabinsight-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	initDescription string
)

var initCmd = &cobra.Command{
	Use:   "init <project-name>",
	Short: "Initialize a new tabinsight project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		projDir, err := resolveProjectDirByName(name)
		if err != nil {
			return err
		}
		if err := utils.CheckFreshProjectDir(projDir); err != nil {
			return err
		}
		if err := utils.EnsureProjectDir(projDir); err != nil {
			return err
		}
		p := project.NewProject(name, initDescription, projDir)
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Project initialized: %s\n", projDir)
		return nil
	},
}

// defaultProjectsDir resolves projects_dir from config, falling back to
// ~/.tabinsight/projects, and makes sure it exists.
func defaultProjectsDir() (string, error) {
	var (
		dir string
		err error
	)
	if cfg != nil && cfg.ProjectsDir != "" {
		dir, err = utils.ExpandHome(cfg.ProjectsDir)
	} else {
		dir, err = cfgpkg.Dir()
		dir = filepath.Join(dir, "projects")
	}
	if err != nil {
		return "", err
	}
	if err := utils.EnsureProjectDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func resolveProjectDirByName(name string) (string, error) {
	if name == "" {
		return "", errors.New("project name is required")
	}
	root, err := defaultProjectsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, name), nil
}

// loadProject opens a project by name. An empty name falls back to the
// project enclosing the working directory.
func loadProject(name string) (*project.Project, error) {
	if name == "" {
		dir, err := utils.FindProjectRoot("")
		if err != nil {
			return nil, fmt.Errorf("--project is required outside a project directory: %w", err)
		}
		return project.LoadProject(dir)
	}
	dir, err := resolveProjectDirByName(name)
	if err != nil {
		return nil, err
	}
	return project.LoadProject(dir)
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "project description")
}
