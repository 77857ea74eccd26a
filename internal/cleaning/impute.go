package cleaning

import (
	"math"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

// Imputation describes what ImputeSize filled in.
type Imputation struct {
	Mode   float64 `json:"mode" yaml:"mode"`
	Filled int     `json:"filled" yaml:"filled"`
}

// Mode returns the most frequent value of xs, ignoring missing markers.
// Ties resolve to the smallest value.
func Mode(xs []float64) (float64, error) {
	counts := make(map[float64]int)
	for _, x := range xs {
		if sales.IsMissing(x) {
			continue
		}
		counts[x]++
	}
	if len(counts) == 0 {
		return 0, &sales.FieldError{Op: "mode", Err: sales.ErrDataInsufficient}
	}
	best, bestCount := math.Inf(1), 0
	for v, c := range counts {
		if c > bestCount || (c == bestCount && v < best) {
			best, bestCount = v, c
		}
	}
	return best, nil
}

// ImputeSize replaces every missing size with the mode of the whole dataset
// and truncates sizes to integers.
func ImputeSize(d *sales.Dataset) (*sales.Dataset, Imputation, error) {
	records := d.Records()
	sizes := make([]float64, len(records))
	for i, r := range records {
		sizes[i] = r.Size
	}
	mode, err := Mode(sizes)
	if err != nil {
		return nil, Imputation{}, &sales.FieldError{Op: "impute", Field: string(sales.FieldSize), Err: sales.ErrDataInsufficient}
	}
	imp := Imputation{Mode: math.Trunc(mode)}
	for i := range records {
		if sales.IsMissing(records[i].Size) {
			records[i].Size = mode
			imp.Filled++
		}
		records[i].Size = math.Trunc(records[i].Size)
	}
	return d.WithRecords(records), imp, nil
}
