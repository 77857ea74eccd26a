// Package analysis computes descriptive statistics, frequency tables and
// contingency tables over a stratified sales sample, and renders the fixed
// validation battery as a report.
package analysis

import (
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

// GroupValue is one row of a grouped measure.
type GroupValue struct {
	Group sales.Value `json:"group" yaml:"group"`
	Value float64     `json:"value" yaml:"value"`
	Count int         `json:"count" yaml:"count"`
}

func numbers(s *sales.Sample, op string, f sales.Field, atLeast int) ([]float64, error) {
	xs, err := s.Numbers(f)
	if err != nil {
		return nil, err
	}
	if len(xs) < atLeast {
		return nil, &sales.FieldError{Op: op, Field: string(f), Err: sales.ErrDataInsufficient}
	}
	return xs, nil
}

// Median returns the median of a numeric field; even counts average the two
// central order statistics.
func Median(s *sales.Sample, f sales.Field) (float64, error) {
	xs, err := numbers(s, "median", f, 1)
	if err != nil {
		return 0, err
	}
	return stats.Median(xs)
}

// Mean returns the arithmetic mean of a numeric field.
func Mean(s *sales.Sample, f sales.Field) (float64, error) {
	xs, err := numbers(s, "mean", f, 1)
	if err != nil {
		return 0, err
	}
	return stat.Mean(xs, nil), nil
}

// Variance returns the sample variance (n-1 denominator).
func Variance(s *sales.Sample, f sales.Field) (float64, error) {
	xs, err := numbers(s, "variance", f, 2)
	if err != nil {
		return 0, err
	}
	return stat.Variance(xs, nil), nil
}

// StdDev returns the sample standard deviation (n-1 denominator).
func StdDev(s *sales.Sample, f sales.Field) (float64, error) {
	xs, err := numbers(s, "std dev", f, 2)
	if err != nil {
		return 0, err
	}
	return stat.StdDev(xs, nil), nil
}

// CoefficientOfVariation returns std dev / mean.
func CoefficientOfVariation(s *sales.Sample, f sales.Field) (float64, error) {
	xs, err := numbers(s, "coefficient of variation", f, 2)
	if err != nil {
		return 0, err
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if mean == 0 {
		return 0, &sales.FieldError{Op: "coefficient of variation", Field: string(f), Err: sales.ErrDivisionUndefined}
	}
	return std / mean, nil
}

// GroupedMedian computes the median of value within every observed group of
// by, sorted by median descending (ties by group order).
func GroupedMedian(s *sales.Sample, value, by sales.Field) ([]GroupValue, error) {
	if !value.IsNumeric() {
		return nil, &sales.FieldError{Op: "grouped median", Field: string(value), Err: sales.ErrUnknownField}
	}
	if !by.IsAxis() {
		return nil, &sales.FieldError{Op: "grouped median", Field: string(by), Err: sales.ErrUnknownField}
	}
	type acc struct {
		key  sales.Value
		vals []float64
	}
	groups := map[string]*acc{}
	for i := 0; i < s.Len(); i++ {
		r := s.Record(i)
		k, ok, err := s.Value(r, by)
		if err != nil {
			return nil, err
		}
		x, _ := r.Number(value)
		if !ok || sales.IsMissing(x) {
			continue
		}
		g := groups[k.Label]
		if g == nil {
			g = &acc{key: k}
			groups[k.Label] = g
		}
		g.vals = append(g.vals, x)
	}
	if len(groups) == 0 {
		return nil, &sales.FieldError{Op: "grouped median", Field: string(value), Err: sales.ErrDataInsufficient}
	}
	out := make([]GroupValue, 0, len(groups))
	for _, g := range groups {
		m, err := stats.Median(g.vals)
		if err != nil {
			return nil, err
		}
		out = append(out, GroupValue{Group: g.key, Value: m, Count: len(g.vals)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value == out[j].Value {
			return out[i].Group.Less(out[j].Group)
		}
		return out[i].Value > out[j].Value
	})
	return out, nil
}
