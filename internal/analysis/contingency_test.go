package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

func crossRows() []row {
	return []row{
		{shoe: "A", country: "X", store: 1, amount: 4, profit: 1},
		{shoe: "A", country: "X", store: 2, amount: 6, profit: 3},
		{shoe: "A", country: "Y", store: 3, amount: 20, profit: 4},
		{shoe: "B", country: "X", store: 1, amount: 30, profit: 8},
	}
}

func TestCrossTabSum(t *testing.T) {
	s := sampleOf(t, crossRows())
	tab, err := CrossTab(s, sales.FieldShoeType, sales.FieldCountry, sales.FieldSaleAmount, AggSum)
	require.NoError(t, err)
	require.Len(t, tab.Rows(), 2)
	require.Len(t, tab.Columns(), 2)

	want := map[[2]string]float64{{"A", "X"}: 10, {"A", "Y"}: 20, {"B", "X"}: 30, {"B", "Y"}: 0}
	for k, v := range want {
		got, err := tab.Cell(k[0], k[1])
		require.NoError(t, err)
		assert.Equal(t, v, got, "cell %v", k)
	}
	assert.Equal(t, 0, tab.Count(1, 1))
	assert.Equal(t, 30.0, tab.RowTotal(0))
	assert.Equal(t, AggSum, tab.Aggregator())
	assert.Equal(t, sales.FieldCountry, tab.ColField())

	_, err = tab.Cell("A", "Z")
	assert.ErrorIs(t, err, sales.ErrUnknownCategory)
}

func TestCrossTabMeanLeavesEmptyCellsUndefined(t *testing.T) {
	s := sampleOf(t, crossRows())
	tab, err := CrossTab(s, sales.FieldShoeType, sales.FieldCountry, sales.FieldProfit, AggMean)
	require.NoError(t, err)
	ax, _ := tab.Cell("A", "X")
	assert.Equal(t, 2.0, ax)
	by, _ := tab.Cell("B", "Y")
	assert.True(t, math.IsNaN(by))
	assert.Equal(t, 6.0, tab.RowTotal(0))
	assert.Equal(t, 8.0, tab.RowTotal(1), "undefined cells are left out of totals")
}

func TestCrossTabNumericAxisOrder(t *testing.T) {
	rows := []row{
		{shoe: "A", country: "X", size: 10, qty: 1},
		{shoe: "A", country: "X", size: 9, qty: 2},
		{shoe: "A", country: "X", size: 38, qty: 3},
		{shoe: "B", country: "X", size: sales.Missing, qty: 4},
	}
	s := sampleOf(t, rows)
	tab, err := CrossTab(s, sales.FieldShoeType, sales.FieldSize, sales.FieldQuantity, AggSum)
	require.NoError(t, err)
	var cols []string
	for _, c := range tab.Columns() {
		cols = append(cols, c.Label)
	}
	assert.Equal(t, []string{"9", "10", "38"}, cols)
	require.Len(t, tab.Rows(), 1, "row B only had a missing size")
}

func TestFirstColumnsLeavesTableIntact(t *testing.T) {
	s := sampleOf(t, crossRows())
	tab, err := CrossTab(s, sales.FieldShoeType, sales.FieldStoreID, sales.FieldProfit, AggSum)
	require.NoError(t, err)
	require.Len(t, tab.Columns(), 3)

	first := tab.FirstColumns(2)
	require.Len(t, first.Columns(), 2)
	assert.Equal(t, "1", first.Columns()[0].Label)
	assert.Equal(t, "2", first.Columns()[1].Label)
	assert.Equal(t, tab.At(0, 1), first.At(0, 1))

	assert.Len(t, tab.Columns(), 3)
	assert.Len(t, tab.FirstColumns(10).Columns(), 3)
}

func TestCrossTabUnknownFields(t *testing.T) {
	s := sampleOf(t, crossRows())
	_, err := CrossTab(s, sales.FieldSaleDate, sales.FieldCountry, sales.FieldProfit, AggSum)
	assert.ErrorIs(t, err, sales.ErrUnknownField)
	_, err = CrossTab(s, sales.FieldShoeType, sales.FieldCountry, sales.FieldCountry, AggSum)
	assert.ErrorIs(t, err, sales.ErrUnknownField)
}

func TestParseAggregator(t *testing.T) {
	a, err := ParseAggregator("Mean")
	require.NoError(t, err)
	assert.Equal(t, AggMean, a)
	_, err = ParseAggregator("median")
	assert.Error(t, err)
}

func TestCorrelation(t *testing.T) {
	s := sampleOf(t, []row{
		{shoe: "A", country: "X", amount: 1, profit: 2},
		{shoe: "A", country: "X", amount: 2, profit: 4},
		{shoe: "A", country: "X", amount: 3, profit: 6},
	})
	m, err := Correlation(s, sales.FieldSaleAmount, sales.FieldProfit)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, m.R(), 1e-12)
	assert.Equal(t, 1.0, m.Values[0][0])
	assert.Equal(t, m.Values[0][1], m.Values[1][0])
	assert.Equal(t, []string{"sale_amount", "profit"}, m.Columns)

	s = sampleOf(t, []row{
		{shoe: "A", country: "X", amount: 1, profit: -1},
		{shoe: "A", country: "X", amount: 2, profit: -2},
	})
	m, err = Correlation(s, sales.FieldSaleAmount, sales.FieldProfit)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, m.R(), 1e-12)
}

func TestCorrelationZeroVariance(t *testing.T) {
	s := sampleOf(t, []row{
		{shoe: "A", country: "X", amount: 5, profit: 1},
		{shoe: "A", country: "X", amount: 5, profit: 2},
	})
	_, err := Correlation(s, sales.FieldSaleAmount, sales.FieldProfit)
	assert.ErrorIs(t, err, sales.ErrDivisionUndefined)

	_, err = Correlation(sampleOf(t, amounts(1)), sales.FieldSaleAmount, sales.FieldProfit)
	assert.ErrorIs(t, err, sales.ErrDataInsufficient)
	_, err = Correlation(s, sales.FieldSaleAmount, sales.FieldShoeType)
	assert.ErrorIs(t, err, sales.ErrUnknownField)
}
