package cleaning

import (
	"math"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

// recordKey makes a record comparable: floats are compared by bit pattern so
// that two missing markers are equal, and -0 is folded into +0.
type recordKey struct {
	date                           int64
	shoe, country                  sales.Category
	store                          int
	size, amount, profit, quantity uint64
}

func keyOf(r sales.Record) recordKey {
	return recordKey{
		date:     r.SaleDate.UnixNano(),
		shoe:     r.ShoeType,
		country:  r.Country,
		store:    r.StoreID,
		size:     floatBits(r.Size),
		amount:   floatBits(r.SaleAmount),
		profit:   floatBits(r.Profit),
		quantity: floatBits(r.Quantity),
	}
}

func floatBits(x float64) uint64 {
	if math.IsNaN(x) {
		return math.Float64bits(math.NaN())
	}
	return math.Float64bits(x + 0)
}

// Deduplicate drops records identical across all fields, keeping the first
// occurrence. It returns the new dataset and the number of rows dropped.
func Deduplicate(d *sales.Dataset) (*sales.Dataset, int) {
	seen := make(map[recordKey]struct{}, d.Len())
	out := make([]sales.Record, 0, d.Len())
	for i := 0; i < d.Len(); i++ {
		r := d.Record(i)
		k := keyOf(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return d.WithRecords(out), d.Len() - len(out)
}
