package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/shoestat-cli/internal/project"
	"github.com/KaramelBytes/shoestat-cli/internal/utils"
)

var (
	initDescription string
	initSampling    samplingFlags
)

var initCmd = &cobra.Command{
	Use:   "init <project-name>",
	Short: "Initialize a new shoestat project",
	Long: `Create a project folder that collects analysis runs. Sampling flags given
here become the project's overrides (see "project set-sampling").`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if utils.Slug(name, "") != name {
			return fmt.Errorf("invalid project name %q: use lowercase letters, digits and dashes", name)
		}
		root, err := defaultProjectsDir()
		if err != nil {
			return err
		}
		projDir := filepath.Join(root, name)
		if entries, err := os.ReadDir(projDir); err == nil {
			if _, err := os.Stat(filepath.Join(projDir, "project.json")); err == nil {
				return fmt.Errorf("project already exists at %s", projDir)
			}
			if len(entries) > 0 {
				return fmt.Errorf("directory %s already exists and is not empty; refusing to initialize project", projDir)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("inspect project directory: %w", err)
		}

		p := project.NewProject(name, initDescription, projDir)
		if _, err := initSampling.apply(cmd, p.Config); err != nil {
			return err
		}
		if err := utils.EnsureProjectDir(p.SummariesDir()); err != nil {
			return err
		}
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Project initialized: %s\n", projDir)
		fmt.Printf("  Next: shoestat analyze <file> -p %s\n", name)
		return nil
	},
}

// defaultProjectsDir returns the configured projects folder, expanding a
// leading "~" and creating it when missing.
func defaultProjectsDir() (string, error) {
	dir := ""
	if c, err := currentConfig(); err == nil {
		dir = c.ProjectsDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	switch {
	case dir == "":
		dir = filepath.Join(home, ".shoestat", "projects")
	case dir == "~":
		dir = home
	case strings.HasPrefix(dir, "~/"):
		dir = filepath.Join(home, dir[2:])
	}
	dir = filepath.Clean(dir)
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

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "project description")
	initSampling.register(initCmd)
}
