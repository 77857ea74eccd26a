package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
	"github.com/KaramelBytes/shoestat-cli/internal/sampling"
)

// rawSales returns 20 boots (plus one exact duplicate) and 10 sneakers, two
// of which lack a size and one of which carries an extreme sale amount.
func rawSales() []sales.RawRecord {
	var out []sales.RawRecord
	for i := 0; i < 20; i++ {
		out = append(out, sales.RawRecord{
			SaleDate: fmt.Sprintf("2024-01-%02d", i+1), ShoeType: "Boot", Country: "Chile",
			StoreID: fmt.Sprint(i%4 + 1), Size: fmt.Sprint(40 + i%3),
			SaleAmount: fmt.Sprint(100 + i), Profit: fmt.Sprint(20 + i), Quantity: "1",
		})
	}
	out = append(out, out[0])
	for i := 0; i < 10; i++ {
		r := sales.RawRecord{
			SaleDate: fmt.Sprintf("2024-02-%02d", i+1), ShoeType: "Sneaker", Country: "Peru",
			StoreID: "9", Size: "38",
			SaleAmount: fmt.Sprint(60 + i), Profit: fmt.Sprint(10 + i), Quantity: "2",
		}
		switch i {
		case 3:
			r.Size = ""
		case 4:
			r.Size = "0"
		case 5:
			r.SaleAmount = "100000"
		}
		out = append(out, r)
	}
	return out
}

func TestRunStages(t *testing.T) {
	res, err := Run(context.Background(), rawSales(), DefaultOptions())
	require.NoError(t, err)

	st := res.Stats
	assert.Equal(t, 31, st.RawRows)
	assert.Equal(t, 1, st.Duplicates)
	assert.Equal(t, 30, st.CleanedRows)
	assert.Equal(t, 30, res.Cleaned.Len())
	assert.Equal(t, 2, st.Imputation.Filled)
	assert.Equal(t, 38.0, st.Imputation.Mode)
	assert.Equal(t, 0.10, st.Fraction)
	assert.Equal(t, int64(42), st.Seed)
	assert.Equal(t, sales.FieldShoeType, st.StratifyBy)

	require.Len(t, st.Bounds, 3)
	amount := st.Bounds[0]
	assert.Equal(t, sales.FieldSaleAmount, amount.Field)
	assert.GreaterOrEqual(t, amount.Capped, 1)
	xs, err := res.Cleaned.Numbers(sales.FieldSaleAmount)
	require.NoError(t, err)
	for _, x := range xs {
		assert.LessOrEqual(t, x, amount.Upper)
	}
	sizes, err := res.Cleaned.Numbers(sales.FieldSize)
	require.NoError(t, err)
	assert.Len(t, sizes, 30, "no size is left missing")

	assert.Equal(t, []sampling.Allocation{
		{Stratum: "Boot", Population: 20, Drawn: 2},
		{Stratum: "Sneaker", Population: 10, Drawn: 1},
	}, st.Allocations)
	require.Equal(t, 3, res.Sample.Len())
	assert.Equal(t, 3, st.SampleRows)
	shoes, err := res.Sample.Vocabulary(sales.FieldShoeType)
	require.NoError(t, err)
	assert.Equal(t, "Boot", shoes.Label(res.Sample.Record(0).ShoeType))
	assert.Equal(t, "Boot", shoes.Label(res.Sample.Record(1).ShoeType))
	assert.Equal(t, "Sneaker", shoes.Label(res.Sample.Record(2).ShoeType))
}

func TestRunIsReproducible(t *testing.T) {
	a, err := Run(context.Background(), rawSales(), DefaultOptions())
	require.NoError(t, err)
	b, err := Run(context.Background(), rawSales(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, a.Sample.Records(), b.Sample.Records())

	opt := DefaultOptions()
	opt.Sampling.Seed = 7
	c, err := Run(context.Background(), rawSales(), opt)
	require.NoError(t, err)
	assert.Equal(t, a.Sample.Len(), c.Sample.Len())
}

func TestRunFillsZeroOptions(t *testing.T) {
	res, err := Run(context.Background(), rawSales(), Options{})
	require.NoError(t, err)
	assert.Equal(t, sampling.DefaultFraction, res.Stats.Fraction)
	assert.Equal(t, sales.FieldShoeType, res.Stats.StratifyBy)
	assert.Len(t, res.Stats.Bounds, 3)
}

func TestRunStratifyByCountryFullFraction(t *testing.T) {
	opt := DefaultOptions()
	opt.Sampling = sampling.Config{Fraction: 1, Seed: 1, By: sales.FieldCountry}
	opt.CapFields = []sales.Field{sales.FieldProfit}
	res, err := Run(context.Background(), rawSales(), opt)
	require.NoError(t, err)
	assert.Equal(t, 30, res.Sample.Len())
	require.Len(t, res.Stats.Bounds, 1)
	assert.Equal(t, sales.FieldProfit, res.Stats.Bounds[0].Field)
}

func TestRunReportsFailingStage(t *testing.T) {
	raw := rawSales()
	raw[2].SaleDate = "yesterday"
	_, err := Run(context.Background(), raw, DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "normalize: row 3: sale_date")

	_, err = Run(context.Background(), nil, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, sales.ErrDataInsufficient))
	assert.Contains(t, err.Error(), "impute")

	opt := DefaultOptions()
	opt.Sampling.Fraction = 2
	_, err = Run(context.Background(), rawSales(), opt)
	assert.True(t, errors.Is(err, sampling.ErrInvalidFraction))
}

func TestRunHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, rawSales(), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunLogsStages(t *testing.T) {
	var buf bytes.Buffer
	opt := DefaultOptions()
	opt.Logger = slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, err := Run(context.Background(), rawSales(), opt)
	require.NoError(t, err)
	out := buf.String()
	for _, stage := range []string{"normalize", "deduplicate", "impute", "cap_outliers", "sample"} {
		assert.Contains(t, out, `"stage":"`+stage+`"`)
	}
	assert.Contains(t, out, `"msg":"pipeline complete"`)
	assert.Contains(t, out, `"sample_rows":3`)
}

func TestStatsWarnings(t *testing.T) {
	st := Stats{
		RawRows: 10, CleanedRows: 10, SampleRows: 1, Fraction: 0.1,
		Allocations: []sampling.Allocation{{Stratum: "Boot", Population: 9, Drawn: 1}, {Stratum: "Sandal", Population: 1, Drawn: 0}},
	}
	st.Imputation.Filled = 6
	w := st.Warnings()
	require.Len(t, w, 3)
	assert.Contains(t, w[0], "stratum Sandal (1 rows) drew no rows")
	assert.Contains(t, w[1], "sample has 1 rows")
	assert.Equal(t, "6 of 10 sizes were imputed", w[2])

	ok := Stats{RawRows: 30, CleanedRows: 30, SampleRows: 3}
	assert.Empty(t, ok.Warnings())
}
