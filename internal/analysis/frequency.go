package analysis

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

// Frequency is one category of a frequency distribution. Percent is set only
// by the relative variants and is already rounded to two decimals.
type Frequency struct {
	Value   sales.Value `json:"value" yaml:"value"`
	Count   int         `json:"count" yaml:"count"`
	Percent float64     `json:"percent,omitempty" yaml:"percent,omitempty"`
}

// count tallies rows per axis value. Categorical fields report every label of
// their vocabulary, including labels absent from the sample.
func count(s *sales.Sample, f sales.Field) ([]Frequency, int, error) {
	if !f.IsAxis() {
		return nil, 0, &sales.FieldError{Op: "frequency", Field: string(f), Err: sales.ErrUnknownField}
	}
	byLabel := map[string]*Frequency{}
	if f.IsCategorical() {
		vocab, err := s.Vocabulary(f)
		if err != nil {
			return nil, 0, err
		}
		for i, l := range vocab.Labels() {
			byLabel[l] = &Frequency{Value: sales.Value{Label: l, Order: float64(i)}}
		}
	}
	total := 0
	for i := 0; i < s.Len(); i++ {
		v, ok, err := s.Value(s.Record(i), f)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			continue
		}
		fr := byLabel[v.Label]
		if fr == nil {
			fr = &Frequency{Value: v}
			byLabel[v.Label] = fr
		}
		fr.Count++
		total++
	}
	out := make([]Frequency, 0, len(byLabel))
	for _, fr := range byLabel {
		out = append(out, *fr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value.Less(out[j].Value)
		}
		return out[i].Count > out[j].Count
	})
	return out, total, nil
}

// AbsoluteFrequency counts rows per value, most frequent first; ties are
// broken by the value's intrinsic order.
func AbsoluteFrequency(s *sales.Sample, f sales.Field) ([]Frequency, error) {
	out, _, err := count(s, f)
	return out, err
}

// TopAbsolute truncates AbsoluteFrequency to the k largest counts.
func TopAbsolute(s *sales.Sample, f sales.Field, k int) ([]Frequency, error) {
	out, err := AbsoluteFrequency(s, f)
	if err != nil {
		return nil, err
	}
	return head(out, k), nil
}

// RelativeFrequency expresses each count as a percentage of all counted rows,
// rounded to two decimals after the conversion.
func RelativeFrequency(s *sales.Sample, f sales.Field) ([]Frequency, error) {
	out, total, err := count(s, f)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, &sales.FieldError{Op: "relative frequency", Field: string(f), Err: sales.ErrDataInsufficient}
	}
	for i := range out {
		out[i].Percent = percent(out[i].Count, total)
	}
	return out, nil
}

// TopRelative truncates RelativeFrequency to the n most frequent values.
func TopRelative(s *sales.Sample, f sales.Field, n int) ([]Frequency, error) {
	out, err := RelativeFrequency(s, f)
	if err != nil {
		return nil, err
	}
	return head(out, n), nil
}

// Share returns the rounded percentage of rows whose value has the given label.
func Share(s *sales.Sample, f sales.Field, label string) (float64, error) {
	out, err := RelativeFrequency(s, f)
	if err != nil {
		return 0, err
	}
	for _, fr := range out {
		if fr.Value.Label == label {
			return fr.Percent, nil
		}
	}
	return 0, &sales.FieldError{Op: "share", Field: label, Err: sales.ErrUnknownCategory}
}

func percent(n, total int) float64 {
	p, err := stats.Round(float64(n)*100/float64(total), 2)
	if err != nil {
		return float64(n) * 100 / float64(total)
	}
	return p
}

func head(fs []Frequency, k int) []Frequency {
	if k >= 0 && k < len(fs) {
		return fs[:k]
	}
	return fs
}
