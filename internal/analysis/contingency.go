package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

// Aggregator reduces the values that fall into one contingency cell.
type Aggregator int

const (
	AggSum Aggregator = iota
	AggMean
)

func (a Aggregator) String() string {
	if a == AggMean {
		return "mean"
	}
	return "sum"
}

// ParseAggregator accepts "sum" or "mean".
func ParseAggregator(s string) (Aggregator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sum", "total":
		return AggSum, nil
	case "mean", "avg", "average":
		return AggMean, nil
	}
	return 0, fmt.Errorf("unknown aggregator %q (use sum or mean)", s)
}

// fill is the value of a cell with no contributing rows: 0 for sums, NaN
// (undefined) for means.
func (a Aggregator) fill() float64 {
	if a == AggMean {
		return math.NaN()
	}
	return 0
}

// Table is a two-axis aggregation T[row][col] = agg(value | row, col). It is
// rectangular over the observed row and column domains and immutable.
type Table struct {
	rowField, colField, valueField sales.Field
	agg                            Aggregator
	rows, cols                     []sales.Value
	cells                          [][]float64
	counts                         [][]int
}

// CrossTab builds the table of value aggregated by row and col axes. Axis
// values are laid out in intrinsic ascending order.
func CrossTab(s *sales.Sample, row, col, value sales.Field, agg Aggregator) (*Table, error) {
	for _, f := range []sales.Field{row, col} {
		if !f.IsAxis() {
			return nil, &sales.FieldError{Op: "cross tab axis", Field: string(f), Err: sales.ErrUnknownField}
		}
	}
	if !value.IsNumeric() {
		return nil, &sales.FieldError{Op: "cross tab value", Field: string(value), Err: sales.ErrUnknownField}
	}

	type key struct{ r, c string }
	sums := map[key]float64{}
	counts := map[key]int{}
	rowSet := map[string]sales.Value{}
	colSet := map[string]sales.Value{}
	for i := 0; i < s.Len(); i++ {
		rec := s.Record(i)
		rv, rok, err := s.Value(rec, row)
		if err != nil {
			return nil, err
		}
		cv, cok, err := s.Value(rec, col)
		if err != nil {
			return nil, err
		}
		x, _ := rec.Number(value)
		if !rok || !cok || sales.IsMissing(x) {
			continue
		}
		rowSet[rv.Label] = rv
		colSet[cv.Label] = cv
		k := key{rv.Label, cv.Label}
		sums[k] += x
		counts[k]++
	}

	t := &Table{rowField: row, colField: col, valueField: value, agg: agg,
		rows: sortedValues(rowSet), cols: sortedValues(colSet)}
	t.cells = make([][]float64, len(t.rows))
	t.counts = make([][]int, len(t.rows))
	for i, rv := range t.rows {
		t.cells[i] = make([]float64, len(t.cols))
		t.counts[i] = make([]int, len(t.cols))
		for j, cv := range t.cols {
			k := key{rv.Label, cv.Label}
			n := counts[k]
			t.counts[i][j] = n
			switch {
			case n == 0:
				t.cells[i][j] = agg.fill()
			case agg == AggMean:
				t.cells[i][j] = sums[k] / float64(n)
			default:
				t.cells[i][j] = sums[k]
			}
		}
	}
	return t, nil
}

func sortedValues(set map[string]sales.Value) []sales.Value {
	out := make([]sales.Value, 0, len(set))
	for _, v := range set {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (t *Table) RowField() sales.Field   { return t.rowField }
func (t *Table) ColField() sales.Field   { return t.colField }
func (t *Table) ValueField() sales.Field { return t.valueField }
func (t *Table) Aggregator() Aggregator  { return t.agg }

// Rows returns the row axis values in layout order.
func (t *Table) Rows() []sales.Value { return append([]sales.Value(nil), t.rows...) }

// Columns returns the column axis values in layout order.
func (t *Table) Columns() []sales.Value { return append([]sales.Value(nil), t.cols...) }

// At returns the cell at row i, column j.
func (t *Table) At(i, j int) float64 { return t.cells[i][j] }

// Count returns how many rows contributed to cell (i, j).
func (t *Table) Count(i, j int) int { return t.counts[i][j] }

// Cell looks up a cell by axis labels.
func (t *Table) Cell(row, col string) (float64, error) {
	i := indexOf(t.rows, row)
	if i < 0 {
		return 0, &sales.FieldError{Op: "cell row", Field: row, Err: sales.ErrUnknownCategory}
	}
	j := indexOf(t.cols, col)
	if j < 0 {
		return 0, &sales.FieldError{Op: "cell column", Field: col, Err: sales.ErrUnknownCategory}
	}
	return t.cells[i][j], nil
}

// RowTotal sums the defined cells of row i.
func (t *Table) RowTotal(i int) float64 {
	var vals []float64
	for _, v := range t.cells[i] {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return floats.Sum(vals)
}

// FirstColumns returns a new table holding only the first k columns in layout
// order. The receiver is left untouched.
func (t *Table) FirstColumns(k int) *Table {
	if k < 0 || k >= len(t.cols) {
		k = len(t.cols)
	}
	out := &Table{rowField: t.rowField, colField: t.colField, valueField: t.valueField, agg: t.agg,
		rows: t.Rows(), cols: append([]sales.Value(nil), t.cols[:k]...)}
	out.cells = make([][]float64, len(t.rows))
	out.counts = make([][]int, len(t.rows))
	for i := range t.rows {
		out.cells[i] = append([]float64(nil), t.cells[i][:k]...)
		out.counts[i] = append([]int(nil), t.counts[i][:k]...)
	}
	return out
}

func indexOf(vs []sales.Value, label string) int {
	for i, v := range vs {
		if v.Label == label {
			return i
		}
	}
	return -1
}

// CorrMatrix holds a symmetric Pearson correlation matrix.
type CorrMatrix struct {
	Columns []string    `json:"columns" yaml:"columns"`
	Values  [][]float64 `json:"values" yaml:"values"` // row-major, Values[i][j]
}

// R returns the off-diagonal coefficient of a 2x2 matrix.
func (m *CorrMatrix) R() float64 { return m.Values[0][1] }

// Correlation returns the Pearson correlation of two numeric fields as a 2x2
// matrix with unit diagonal. Rows missing either value are skipped.
func Correlation(s *sales.Sample, a, b sales.Field) (*CorrMatrix, error) {
	for _, f := range []sales.Field{a, b} {
		if !f.IsNumeric() {
			return nil, &sales.FieldError{Op: "correlation", Field: string(f), Err: sales.ErrUnknownField}
		}
	}
	var xs, ys []float64
	for i := 0; i < s.Len(); i++ {
		rec := s.Record(i)
		x, _ := rec.Number(a)
		y, _ := rec.Number(b)
		if sales.IsMissing(x) || sales.IsMissing(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) < 2 {
		return nil, &sales.FieldError{Op: "correlation", Field: string(a) + "~" + string(b), Err: sales.ErrDataInsufficient}
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return nil, &sales.FieldError{Op: "correlation", Field: string(a) + "~" + string(b), Err: sales.ErrDivisionUndefined}
	}
	r := stat.Correlation(xs, ys, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return &CorrMatrix{
		Columns: []string{string(a), string(b)},
		Values:  [][]float64{{1, r}, {r, 1}},
	}, nil
}
