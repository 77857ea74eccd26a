package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/shoestat-cli/internal/utils"
)

var (
	abProject     string
	abDescription string
	abFormat      string
	abOutputDir   string
	abQuiet       bool
	abKeepGoing   bool
	abFlags       runFlags
)

// expandInputs resolves globs, drops duplicates and sorts the result.
func expandInputs(args []string) []string {
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
	sort.Strings(files)
	return files
}

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files with progress and optional project attachment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		p, err := loadProjectByName(abProject)
		if err != nil {
			return err
		}
		popt, opt, err := abFlags.options(cmd, p)
		if err != nil {
			return err
		}
		format, err := resolveFormat(cmd, abFormat, "")
		if err != nil {
			return err
		}
		if format == "xlsx" && abOutputDir == "" && p == nil {
			return fmt.Errorf("xlsx output requires --output-dir or --project")
		}
		if abOutputDir != "" {
			if err := utils.EnsureProjectDir(abOutputDir); err != nil {
				return err
			}
		}

		var failures []string
		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			rep, err := analyzeFile(commandContext(cmd), path, popt, opt)
			if err != nil {
				if !abKeepGoing {
					return err
				}
				fmt.Fprintf(os.Stderr, "⚠ Skipping %s: %v\n", path, err)
				failures = append(failures, filepath.Base(path))
				continue
			}

			written := false
			if abOutputDir != "" {
				base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				out, err := utils.UniquePath(abOutputDir, base, ".summary"+formatExt[format])
				if err != nil {
					return err
				}
				if err := writeReport(rep, format, out); err != nil {
					return err
				}
				if !abQuiet {
					fmt.Printf("✓ Wrote %s\n", out)
				}
				written = true
			}
			if p != nil {
				out, err := attachReport(p, rep, path, abFlags.sheetName, format, abDescription)
				if err != nil {
					return err
				}
				if !abQuiet {
					fmt.Printf("✓ Added analysis to project '%s' as %s\n", p.Name, filepath.Base(out))
				}
				written = true
			}
			if !written && !abQuiet {
				b, err := renderReport(rep, format)
				if err != nil {
					return err
				}
				fmt.Println(string(b))
			}
		}
		if len(failures) > 0 {
			return fmt.Errorf("%d of %d files failed: %s", len(failures), total, strings.Join(failures, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abProject, "project", "p", "", "project name to attach summaries")
	analyzeBatchCmd.Flags().StringVar(&abDescription, "desc", "", "description when attaching to project")
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "", "report format: markdown | yaml | json | xlsx (default from config)")
	analyzeBatchCmd.Flags().StringVar(&abOutputDir, "output-dir", "", "directory to write one report per input")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	analyzeBatchCmd.Flags().BoolVar(&abKeepGoing, "keep-going", false, "continue with remaining files when one fails")
	abFlags.register(analyzeBatchCmd)
}
