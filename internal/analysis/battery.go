package analysis

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

// BatteryOptions sets the truncation limits of the validation battery.
type BatteryOptions struct {
	TopSizes      int
	TopQuantities int
	TopShoeTypes  int
	SizeColumns   int
	StoreColumns  int
}

// DefaultBatteryOptions returns the limits of the standard report.
func DefaultBatteryOptions() BatteryOptions {
	return BatteryOptions{TopSizes: 5, TopQuantities: 5, TopShoeTypes: 3, SizeColumns: 5, StoreColumns: 3}
}

type query struct {
	id, title string
	group     SectionGroup
	run       func(*Section) error
}

func battery(s *sales.Sample, opt BatteryOptions) []query {
	scalar := func(fn func(*sales.Sample, sales.Field) (float64, error), f sales.Field, currency bool) func(*Section) error {
		return func(sec *Section) error {
			v, err := fn(s, f)
			sec.Kind, sec.Scalar, sec.Currency = KindScalar, v, currency
			return err
		}
	}
	freq := func(fn func() ([]Frequency, error), relative bool) func(*Section) error {
		return func(sec *Section) error {
			rows, err := fn()
			sec.Kind, sec.Frequencies, sec.Relative = KindFrequency, rows, relative
			return err
		}
	}
	table := func(row, col, value sales.Field, agg Aggregator, firstCols int) func(*Section) error {
		return func(sec *Section) error {
			t, err := CrossTab(s, row, col, value, agg)
			sec.Kind = KindTable
			if err != nil {
				return err
			}
			sec.TotalColumns = len(t.cols)
			if firstCols > 0 {
				t = t.FirstColumns(firstCols)
			}
			sec.Table = t
			return nil
		}
	}
	return []query{
		{"5.1.1", "Median of sale_amount", GroupParameters, scalar(Median, sales.FieldSaleAmount, true)},
		{"5.1.2", "Standard deviation of profit", GroupParameters, scalar(StdDev, sales.FieldProfit, true)},
		{"5.1.3", "Coefficient of variation of sale_amount", GroupParameters, func(sec *Section) error {
			v, err := CoefficientOfVariation(s, sales.FieldSaleAmount)
			sec.Kind, sec.Scalar, sec.Ratio = KindScalar, v, true
			return err
		}},
		{"5.1.4", "Median quantity by shoe_type", GroupParameters, func(sec *Section) error {
			g, err := GroupedMedian(s, sales.FieldQuantity, sales.FieldShoeType)
			sec.Kind, sec.Groups = KindGroups, g
			return err
		}},
		{"5.1.5", "Variance of profit", GroupParameters, scalar(Variance, sales.FieldProfit, false)},

		{"5.2.1", "Absolute frequency by shoe_type", GroupFrequencies, freq(func() ([]Frequency, error) {
			return AbsoluteFrequency(s, sales.FieldShoeType)
		}, false)},
		{"5.2.2", "Top sizes by absolute frequency", GroupFrequencies, freq(func() ([]Frequency, error) {
			return TopAbsolute(s, sales.FieldSize, opt.TopSizes)
		}, false)},
		{"5.2.3", "Relative frequency (%) of quantity per transaction", GroupFrequencies, freq(func() ([]Frequency, error) {
			return TopRelative(s, sales.FieldQuantity, opt.TopQuantities)
		}, true)},
		{"5.2.4", "Absolute frequency by country", GroupFrequencies, freq(func() ([]Frequency, error) {
			return AbsoluteFrequency(s, sales.FieldCountry)
		}, false)},
		{"5.2.5", "Relative frequency (%) of the leading shoe types", GroupFrequencies, freq(func() ([]Frequency, error) {
			return TopRelative(s, sales.FieldShoeType, opt.TopShoeTypes)
		}, true)},

		{"5.3.1", "Total sale_amount by shoe_type and country", GroupContingency,
			table(sales.FieldShoeType, sales.FieldCountry, sales.FieldSaleAmount, AggSum, 0)},
		{"5.3.2", "Mean profit by shoe_type and country", GroupContingency,
			table(sales.FieldShoeType, sales.FieldCountry, sales.FieldProfit, AggMean, 0)},
		{"5.3.3", "Total quantity by shoe_type and size", GroupContingency,
			table(sales.FieldShoeType, sales.FieldSize, sales.FieldQuantity, AggSum, opt.SizeColumns)},
		{"5.3.4", "Correlation between sale_amount and profit", GroupContingency, func(sec *Section) error {
			m, err := Correlation(s, sales.FieldSaleAmount, sales.FieldProfit)
			sec.Kind, sec.Corr = KindCorrelation, m
			return err
		}},
		{"5.3.5", "Total profit by shoe_type and store_id", GroupContingency,
			table(sales.FieldShoeType, sales.FieldStoreID, sales.FieldProfit, AggSum, opt.StoreColumns)},
	}
}

// RunBattery runs the fixed validation battery over the sample. Queries run
// concurrently and only read the sample; a failing query records its error in
// its own section and never aborts the others.
func RunBattery(ctx context.Context, s *sales.Sample, opt BatteryOptions) (*Report, error) {
	def := DefaultBatteryOptions()
	if opt == (BatteryOptions{}) {
		opt = def
	}
	qs := battery(s, opt)
	sections := make([]Section, len(qs))
	g, ctx := errgroup.WithContext(ctx)
	for i, q := range qs {
		sections[i] = Section{ID: q.id, Title: q.title, Group: q.group}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := q.run(&sections[i]); err != nil {
				sections[i].Err = err.Error()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Report{GeneratedAt: time.Now().UTC(), SampleRows: s.Len(), Sections: sections}, nil
}
