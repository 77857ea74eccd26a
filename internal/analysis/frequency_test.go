package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

func labels(fs []Frequency) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Value.Label
	}
	return out
}

func TestAbsoluteFrequencyIncludesEmptyCategories(t *testing.T) {
	s := sampleOf(t, []row{
		{shoe: "Sneaker", country: "Chile"},
		{shoe: "Boot", country: "Chile"},
		{shoe: "Sneaker", country: "Peru"},
	}, "Sandal")
	fs, err := AbsoluteFrequency(s, sales.FieldShoeType)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sneaker", "Boot", "Sandal"}, labels(fs))
	assert.Equal(t, []int{2, 1, 0}, []int{fs[0].Count, fs[1].Count, fs[2].Count})

	total := 0
	for _, f := range fs {
		total += f.Count
	}
	assert.Equal(t, s.Len(), total)
}

func TestAbsoluteFrequencyTiesUseIntrinsicOrder(t *testing.T) {
	s := sampleOf(t, []row{
		{shoe: "B", country: "X", size: 10},
		{shoe: "B", country: "X", size: 9},
		{shoe: "B", country: "X", size: 42},
		{shoe: "B", country: "X", size: 42},
	})
	fs, err := AbsoluteFrequency(s, sales.FieldSize)
	require.NoError(t, err)
	// 9 sorts before 10 numerically, not lexically
	assert.Equal(t, []string{"42", "9", "10"}, labels(fs))

	top, err := TopAbsolute(s, sales.FieldSize, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"42", "9"}, labels(top))

	all, err := TopAbsolute(s, sales.FieldSize, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFrequencySkipsMissingSize(t *testing.T) {
	s := sampleOf(t, []row{
		{shoe: "B", country: "X", size: sales.Missing},
		{shoe: "B", country: "X", size: 40},
	})
	fs, err := AbsoluteFrequency(s, sales.FieldSize)
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, 1, fs[0].Count)
}

func TestRelativeFrequencyRoundsAfterConversion(t *testing.T) {
	s := sampleOf(t, []row{
		{shoe: "A", country: "X", qty: 1},
		{shoe: "B", country: "X", qty: 2},
		{shoe: "C", country: "X", qty: 3},
	})
	fs, err := RelativeFrequency(s, sales.FieldShoeType)
	require.NoError(t, err)
	for _, f := range fs {
		assert.Equal(t, 33.33, f.Percent)
	}

	top, err := TopRelative(s, sales.FieldShoeType, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, labels(top))

	s = sampleOf(t, []row{
		{shoe: "A", country: "X", qty: 1},
		{shoe: "A", country: "X", qty: 1},
		{shoe: "B", country: "X", qty: 2},
	})
	q, err := RelativeFrequency(s, sales.FieldQuantity)
	require.NoError(t, err)
	assert.Equal(t, "1", q[0].Value.Label)
	assert.Equal(t, 66.67, q[0].Percent)
	assert.Equal(t, 33.33, q[1].Percent)
}

func TestShare(t *testing.T) {
	s := sampleOf(t, []row{
		{shoe: "A", country: "X"},
		{shoe: "A", country: "X"},
		{shoe: "B", country: "X"},
		{shoe: "B", country: "X"},
	}, "C")
	p, err := Share(s, sales.FieldShoeType, "A")
	require.NoError(t, err)
	assert.Equal(t, 50.0, p)

	p, err = Share(s, sales.FieldShoeType, "C")
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)

	_, err = Share(s, sales.FieldShoeType, "Z")
	assert.ErrorIs(t, err, sales.ErrUnknownCategory)
}

func TestFrequencyErrors(t *testing.T) {
	s := sampleOf(t, nil)
	_, err := AbsoluteFrequency(s, sales.FieldSaleAmount)
	assert.ErrorIs(t, err, sales.ErrUnknownField)
	_, err = RelativeFrequency(s, sales.FieldSize)
	assert.ErrorIs(t, err, sales.ErrDataInsufficient)
}
