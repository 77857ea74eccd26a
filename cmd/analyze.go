package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	anaProject     string
	anaOutputPath  string
	anaFormat      string
	anaDescription string
	anaFlags       runFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Clean a sales table, sample it and report the statistics battery",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		p, err := loadProjectByName(anaProject)
		if err != nil {
			return err
		}
		popt, opt, err := anaFlags.options(cmd, p)
		if err != nil {
			return err
		}
		format, err := resolveFormat(cmd, anaFormat, anaOutputPath)
		if err != nil {
			return err
		}
		if format == "xlsx" && anaOutputPath == "" && p == nil {
			return fmt.Errorf("xlsx output requires --output or --project")
		}

		rep, err := analyzeFile(commandContext(cmd), path, popt, opt)
		if err != nil {
			return err
		}

		// Decide where to write: --output path, or attach to project, or stdout
		written := false
		if anaOutputPath != "" {
			if err := writeReport(rep, format, anaOutputPath); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote analysis to %s\n", anaOutputPath)
			written = true
		}
		if p != nil {
			out, err := attachReport(p, rep, path, anaFlags.sheetName, format, anaDescription)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Added analysis to project '%s' as %s (run %s)\n", p.Name, filepath.Base(out), rep.RunID)
			written = true
		}
		if !written {
			b, err := renderReport(rep, format)
			if err != nil {
				return err
			}
			fmt.Print(string(b))
		}
		if n := len(rep.Failed()); n > 0 {
			fmt.Printf("⚠ %d of %d queries were undefined on this sample\n", n, len(rep.Sections))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaProject, "project", "p", "", "project name to attach summary")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "", "report format: markdown | yaml | json | xlsx (default from --output extension or config)")
	analyzeCmd.Flags().StringVar(&anaDescription, "desc", "", "description when attaching to project")
	anaFlags.register(analyzeCmd)
}
