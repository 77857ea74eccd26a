package analysis

import (
	"testing"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

type row struct {
	shoe, country string
	store         int
	size          float64
	amount        float64
	profit        float64
	qty           float64
}

// sampleOf builds a sample over a dataset whose vocabularies contain every
// label in rows plus extra shoe types that never occur.
func sampleOf(t *testing.T, rows []row, extraShoes ...string) *sales.Sample {
	t.Helper()
	shoes := append([]string(nil), extraShoes...)
	var countries []string
	for _, r := range rows {
		shoes = append(shoes, r.shoe)
		countries = append(countries, r.country)
	}
	sv := sales.NewVocabulary(shoes)
	cv := sales.NewVocabulary(countries)
	recs := make([]sales.Record, 0, len(rows))
	for _, r := range rows {
		sc, err := sv.Code(r.shoe)
		if err != nil {
			t.Fatalf("shoe code: %v", err)
		}
		cc, err := cv.Code(r.country)
		if err != nil {
			t.Fatalf("country code: %v", err)
		}
		recs = append(recs, sales.Record{
			ShoeType: sc, Country: cc, StoreID: r.store, Size: r.size,
			SaleAmount: r.amount, Profit: r.profit, Quantity: r.qty,
		})
	}
	d := sales.NewDataset(recs, sv, cv)
	return sales.NewSample(d, recs)
}

func amounts(xs ...float64) []row {
	out := make([]row, len(xs))
	for i, x := range xs {
		out[i] = row{shoe: "Boot", country: "Chile", store: 1, size: 40, amount: x, profit: x / 2, qty: 1}
	}
	return out
}
