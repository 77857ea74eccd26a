package cleaning

import (
	"math"
	"sort"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

// DefaultIQRMultiplier is the Tukey fence factor.
const DefaultIQRMultiplier = 1.5

// DefaultCapFields are the measures capped by the cleaning pipeline.
var DefaultCapFields = []sales.Field{sales.FieldSaleAmount, sales.FieldProfit, sales.FieldQuantity}

// Bounds records the IQR fences computed for one field.
type Bounds struct {
	Field  sales.Field `json:"field" yaml:"field"`
	Q1     float64     `json:"q1" yaml:"q1"`
	Q3     float64     `json:"q3" yaml:"q3"`
	IQR    float64     `json:"iqr" yaml:"iqr"`
	Lower  float64     `json:"lower" yaml:"lower"`
	Upper  float64     `json:"upper" yaml:"upper"`
	Capped int         `json:"capped" yaml:"capped"`
}

// Clamp limits x to [Lower, Upper]. Missing values pass through.
func (b Bounds) Clamp(x float64) float64 {
	switch {
	case sales.IsMissing(x):
		return x
	case x < b.Lower:
		return b.Lower
	case x > b.Upper:
		return b.Upper
	}
	return x
}

// Quantile returns the q-quantile (0..1) of xs by linear interpolation between
// the closest ranks, position q*(n-1) over the sorted values. xs is not modified.
func Quantile(xs []float64, q float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	return quantileSorted(sorted, q)
}

func quantileSorted(sorted []float64, q float64) float64 {
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// IQRBounds computes the fences Q1-k*IQR and Q3+k*IQR of xs.
func IQRBounds(xs []float64, k float64) (Bounds, error) {
	vals := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !sales.IsMissing(x) {
			vals = append(vals, x)
		}
	}
	if len(vals) == 0 {
		return Bounds{}, &sales.FieldError{Op: "iqr bounds", Err: sales.ErrDataInsufficient}
	}
	sort.Float64s(vals)
	b := Bounds{Q1: quantileSorted(vals, 0.25), Q3: quantileSorted(vals, 0.75)}
	b.IQR = b.Q3 - b.Q1
	b.Lower = b.Q1 - k*b.IQR
	b.Upper = b.Q3 + k*b.IQR
	return b, nil
}

// CapOutliers clamps every target field to its IQR fences. All fences are
// computed from the input dataset before any value changes.
func CapOutliers(d *sales.Dataset, fields []sales.Field, k float64) (*sales.Dataset, []Bounds, error) {
	if k <= 0 {
		k = DefaultIQRMultiplier
	}
	bounds := make([]Bounds, 0, len(fields))
	for _, f := range fields {
		xs, err := d.Numbers(f)
		if err != nil {
			return nil, nil, err
		}
		b, err := IQRBounds(xs, k)
		if err != nil {
			return nil, nil, &sales.FieldError{Op: "cap outliers", Field: string(f), Err: sales.ErrDataInsufficient}
		}
		b.Field = f
		bounds = append(bounds, b)
	}
	records := d.Records()
	for i := range records {
		for j := range bounds {
			b := &bounds[j]
			x, _ := records[i].Number(b.Field)
			c := b.Clamp(x)
			if c != x && !sales.IsMissing(x) {
				b.Capped++
				records[i], _ = records[i].WithNumber(b.Field, c)
			}
		}
	}
	return d.WithRecords(records), bounds, nil
}
