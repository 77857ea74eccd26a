package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/shoestat-cli/internal/analysis"
	"github.com/KaramelBytes/shoestat-cli/internal/logging"
	"github.com/KaramelBytes/shoestat-cli/internal/parser"
	"github.com/KaramelBytes/shoestat-cli/internal/pipeline"
	"github.com/KaramelBytes/shoestat-cli/internal/project"
	"github.com/KaramelBytes/shoestat-cli/internal/sales"
	"github.com/KaramelBytes/shoestat-cli/internal/utils"
)

// runFlags are the ingestion and sampling flags shared by analyze,
// analyze-batch and clean.
type runFlags struct {
	delimiter  string
	sheetName  string
	sheetIndex int
	fraction   float64
	seed       int64
	stratifyBy string
	iqr        float64
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default from extension)")
	cmd.Flags().StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	cmd.Flags().IntVar(&f.sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	cmd.Flags().Float64Var(&f.fraction, "fraction", 0, "sample fraction per stratum in (0,1] (overrides config)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "sampling seed (overrides config)")
	cmd.Flags().StringVar(&f.stratifyBy, "stratify-by", "", "stratification field: shoe_type | country (overrides config)")
	cmd.Flags().Float64Var(&f.iqr, "iqr", 0, "IQR multiplier for outlier capping (overrides config)")
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s", s)
}

// options resolves parser and pipeline options: config, then project
// overrides, then flags.
func (f *runFlags) options(cmd *cobra.Command, p *project.Project) (parser.Options, pipeline.Options, error) {
	c, err := currentConfig()
	if err != nil {
		return parser.Options{}, pipeline.Options{}, err
	}
	popt := c.ParserOptions()
	if popt.Delimiter, err = parseDelimiter(f.delimiter); err != nil {
		return popt, pipeline.Options{}, err
	}
	popt.SheetName = f.sheetName
	popt.SheetIndex = f.sheetIndex

	opt, err := c.PipelineOptions()
	if err != nil {
		return popt, opt, err
	}
	if p != nil {
		if err := p.Config.Apply(&opt); err != nil {
			return popt, opt, err
		}
	}
	fl := cmd.Flags()
	if fl.Changed("fraction") {
		opt.Sampling.Fraction = f.fraction
	}
	if fl.Changed("seed") {
		opt.Sampling.Seed = f.seed
	}
	if fl.Changed("stratify-by") {
		by, err := sales.ParseField(f.stratifyBy)
		if err != nil {
			return popt, opt, fmt.Errorf("--stratify-by: %w", err)
		}
		opt.Sampling.By = by
	}
	if fl.Changed("iqr") {
		if f.iqr <= 0 {
			return popt, opt, fmt.Errorf("--iqr must be positive")
		}
		opt.IQRMultiplier = f.iqr
	}
	opt.Logger = logger
	return popt, opt, nil
}

// analyzeFile reads path, runs the cleaning pipeline and the battery, and
// returns the report stamped with a fresh run id.
func analyzeFile(ctx context.Context, path string, popt parser.Options, opt pipeline.Options) (*analysis.Report, error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger.InfoContext(ctx, "analyzing dataset", "file", path)

	raw, err := parser.ParseFile(path, popt)
	if err != nil {
		return nil, err
	}
	res, err := pipeline.Run(ctx, raw, opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	c, err := currentConfig()
	if err != nil {
		return nil, err
	}
	rep, err := analysis.RunBattery(ctx, res.Sample, c.BatteryOptions())
	if err != nil {
		return nil, err
	}
	rep.RunID = runID
	rep.Name = filepath.Base(path)
	rep.Cleaning = &res.Stats
	rep.Warnings = res.Stats.Warnings()
	for _, s := range rep.Failed() {
		logger.WarnContext(ctx, "query undefined", "query", s.ID, "error", s.Err)
	}
	return rep, nil
}

var formatExt = map[string]string{
	"markdown": ".md",
	"yaml":     ".yaml",
	"json":     ".json",
	"xlsx":     ".xlsx",
}

// resolveFormat picks the output format: --format if set, else the output
// path's extension, else the configured default.
func resolveFormat(cmd *cobra.Command, flag, output string) (string, error) {
	format := ""
	switch {
	case cmd.Flags().Changed("format"):
		format = strings.ToLower(flag)
	case output != "":
		switch strings.ToLower(filepath.Ext(output)) {
		case ".md", ".markdown":
			format = "markdown"
		case ".yaml", ".yml":
			format = "yaml"
		case ".json":
			format = "json"
		case ".xlsx":
			format = "xlsx"
		}
	}
	if format == "" {
		if c, err := currentConfig(); err == nil {
			format = c.OutputFormat
		}
	}
	if format == "" || format == "md" {
		format = "markdown"
	}
	if _, ok := formatExt[format]; !ok {
		return "", fmt.Errorf("unsupported --format: %s (use markdown|yaml|json|xlsx)", format)
	}
	return format, nil
}

// renderReport encodes a report in a text format.
func renderReport(rep *analysis.Report, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "markdown":
		buf.WriteString(rep.Markdown())
	case "yaml":
		if err := rep.WriteYAML(&buf); err != nil {
			return nil, err
		}
	case "json":
		if err := rep.WriteJSON(&buf); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("format %s cannot be rendered as text", format)
	}
	return buf.Bytes(), nil
}

// writeReport writes rep to path in the given format.
func writeReport(rep *analysis.Report, format, path string) error {
	if format == "xlsx" {
		return analysis.ExportXLSX(rep, path)
	}
	b, err := renderReport(rep, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// attachReport writes rep under the project's dataset_summaries folder, never
// overwriting an earlier summary, and records the run.
func attachReport(p *project.Project, rep *analysis.Report, source, sheet, format, desc string) (string, error) {
	outDir := p.SummariesDir()
	if err := utils.EnsureProjectDir(outDir); err != nil {
		return "", err
	}
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if sheet != "" {
		base += "__sheet-" + utils.Slug(sheet, "sheet")
	}
	outFile, err := utils.UniquePath(outDir, base, ".summary"+formatExt[format])
	if err != nil {
		return "", err
	}
	if err := writeReport(rep, format, outFile); err != nil {
		return "", fmt.Errorf("write project summary: %w", err)
	}
	if desc == "" {
		desc = "Auto-generated dataset summary"
	}
	if _, err := p.AddRun(source, outFile, desc, rep); err != nil {
		return "", err
	}
	if err := p.Save(); err != nil {
		return "", err
	}
	return outFile, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func loadProjectByName(name string) (*project.Project, error) {
	if name == "" {
		return nil, nil
	}
	dir, err := resolveProjectDirByName(name)
	if err != nil {
		return nil, err
	}
	return project.LoadProject(dir)
}
