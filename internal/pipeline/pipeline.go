// Package pipeline chains the cleaning stages and the stratified draw in their
// fixed order: normalize, deduplicate, impute, cap outliers, sample.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KaramelBytes/shoestat-cli/internal/cleaning"
	"github.com/KaramelBytes/shoestat-cli/internal/sales"
	"github.com/KaramelBytes/shoestat-cli/internal/sampling"
)

// Options configures a pipeline run.
type Options struct {
	Sampling      sampling.Config
	CapFields     []sales.Field
	IQRMultiplier float64
	Logger        *slog.Logger
}

// DefaultOptions matches the standard report: cap sale amount, profit and
// quantity at 1.5 IQR, sample 10% per shoe type with seed 42.
func DefaultOptions() Options {
	return Options{
		Sampling:      sampling.DefaultConfig(),
		CapFields:     cleaning.DefaultCapFields,
		IQRMultiplier: cleaning.DefaultIQRMultiplier,
	}
}

// Stats summarizes what each stage did.
type Stats struct {
	RawRows     int                   `json:"raw_rows" yaml:"raw_rows"`
	Duplicates  int                   `json:"duplicates" yaml:"duplicates"`
	CleanedRows int                   `json:"cleaned_rows" yaml:"cleaned_rows"`
	Imputation  cleaning.Imputation   `json:"size_imputation" yaml:"size_imputation"`
	Bounds      []cleaning.Bounds     `json:"outlier_bounds" yaml:"outlier_bounds"`
	SampleRows  int                   `json:"sample_rows" yaml:"sample_rows"`
	Allocations []sampling.Allocation `json:"allocations" yaml:"allocations"`
	Fraction    float64               `json:"fraction" yaml:"fraction"`
	Seed        int64                 `json:"seed" yaml:"seed"`
	StratifyBy  sales.Field           `json:"stratify_by" yaml:"stratify_by"`
}

// Result holds the cleaned dataset, the sample drawn from it and run stats.
type Result struct {
	Cleaned *sales.Dataset
	Sample  *sales.Sample
	Stats   Stats
}

type state struct {
	raw  []sales.RawRecord
	data *sales.Dataset
	res  Result
	opt  Options
}

type stage struct {
	name string
	run  func(*state) error
}

var stages = []stage{
	{"normalize", func(s *state) error {
		d, err := cleaning.Normalize(s.raw)
		if err != nil {
			return err
		}
		s.data = d
		return nil
	}},
	{"deduplicate", func(s *state) error {
		s.data, s.res.Stats.Duplicates = cleaning.Deduplicate(s.data)
		return nil
	}},
	{"impute", func(s *state) error {
		d, imp, err := cleaning.ImputeSize(s.data)
		if err != nil {
			return err
		}
		s.data, s.res.Stats.Imputation = d, imp
		return nil
	}},
	{"cap_outliers", func(s *state) error {
		d, bounds, err := cleaning.CapOutliers(s.data, s.opt.CapFields, s.opt.IQRMultiplier)
		if err != nil {
			return err
		}
		s.data, s.res.Stats.Bounds = d, bounds
		s.res.Cleaned = d
		s.res.Stats.CleanedRows = d.Len()
		return nil
	}},
	{"sample", func(s *state) error {
		smp, allocs, err := sampling.Stratified(s.data, s.opt.Sampling)
		if err != nil {
			return err
		}
		s.res.Sample = smp
		s.res.Stats.Allocations = allocs
		s.res.Stats.SampleRows = smp.Len()
		return nil
	}},
}

// Run executes every stage in order. Each stage consumes the previous stage's
// full output; the context is checked between stages.
func Run(ctx context.Context, raw []sales.RawRecord, opt Options) (*Result, error) {
	def := DefaultOptions()
	if opt.Sampling.Fraction == 0 {
		opt.Sampling.Fraction = def.Sampling.Fraction
	}
	if opt.Sampling.By == "" {
		opt.Sampling.By = def.Sampling.By
	}
	if len(opt.CapFields) == 0 {
		opt.CapFields = def.CapFields
	}
	if opt.IQRMultiplier <= 0 {
		opt.IQRMultiplier = def.IQRMultiplier
	}
	log := opt.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &state{raw: raw, opt: opt}
	s.res.Stats.RawRows = len(raw)
	s.res.Stats.Fraction = opt.Sampling.Fraction
	s.res.Stats.Seed = opt.Sampling.Seed
	s.res.Stats.StratifyBy = opt.Sampling.By
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		if err := st.run(s); err != nil {
			log.ErrorContext(ctx, "pipeline stage failed", "stage", st.name, "error", err)
			return nil, fmt.Errorf("%s: %w", st.name, err)
		}
		log.DebugContext(ctx, "pipeline stage done", "stage", st.name, "rows", s.data.Len(), "elapsed", time.Since(start))
	}
	log.InfoContext(ctx, "pipeline complete",
		"raw_rows", s.res.Stats.RawRows,
		"duplicates", s.res.Stats.Duplicates,
		"sizes_imputed", s.res.Stats.Imputation.Filled,
		"sample_rows", s.res.Stats.SampleRows)
	return &s.res, nil
}

// Warnings lists conditions worth surfacing next to the results: strata that
// drew nothing and a sample too small for dispersion measures.
func (s Stats) Warnings() []string {
	var out []string
	for _, a := range s.Allocations {
		if a.Population > 0 && a.Drawn == 0 {
			out = append(out, fmt.Sprintf("stratum %s (%d rows) drew no rows at fraction %.2f", a.Stratum, a.Population, s.Fraction))
		}
	}
	if s.SampleRows < 2 {
		out = append(out, fmt.Sprintf("sample has %d rows; variance and standard deviation are undefined", s.SampleRows))
	}
	if s.RawRows > 0 && s.Imputation.Filled*2 > s.CleanedRows {
		out = append(out, fmt.Sprintf("%d of %d sizes were imputed", s.Imputation.Filled, s.CleanedRows))
	}
	return out
}
