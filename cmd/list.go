package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/shoestat-cli/internal/project"
)

var (
	listProjects bool
	listRuns     bool
	listProjName string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects or analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listProjects == listRuns { // either both true or both false
			return fmt.Errorf("specify exactly one of --projects or --runs")
		}
		if listProjects {
			return listAllProjects()
		}
		if listProjName == "" {
			return fmt.Errorf("--project is required when using --runs")
		}
		p, err := loadProjectByName(listProjName)
		if err != nil {
			return err
		}
		runs := p.SortedRuns()
		if len(runs) == 0 {
			fmt.Println("(no runs)")
			return nil
		}
		for _, r := range runs {
			fmt.Printf("- %s: %s -> %s (%d rows, sample %d, fraction %.2f, seed %d",
				r.ID, filepath.Base(r.Source), r.Summary, r.RawRows, r.SampleRows, r.Fraction, r.Seed)
			if r.FailedQueries > 0 {
				fmt.Printf(", %d undefined", r.FailedQueries)
			}
			fmt.Println(")")
		}
		return nil
	},
}

// listAllProjects prints every folder under the projects dir that holds a
// loadable project, with its run count.
func listAllProjects() error {
	root, err := defaultProjectsDir()
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read projects dir: %w", err)
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		p, err := project.LoadProject(filepath.Join(root, e.Name()))
		if err != nil {
			logger.Debug("skipping folder", "dir", e.Name(), "error", err)
			continue
		}
		fmt.Printf("- %s (%d runs)", p.Name, len(p.Runs))
		if p.Description != "" {
			fmt.Printf(": %s", p.Description)
		}
		fmt.Println()
		n++
	}
	if n == 0 {
		fmt.Println("(no projects)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listProjects, "projects", false, "list projects")
	listCmd.Flags().BoolVar(&listRuns, "runs", false, "list analysis runs in a project")
	listCmd.Flags().StringVarP(&listProjName, "project", "p", "", "project name for --runs")
}
