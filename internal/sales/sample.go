package sales

// Sample is a read-only view over a subset of a cleaned dataset. It exposes
// only queries; the engines read it concurrently.
type Sample struct {
	data *Dataset
}

// NewSample wraps records drawn from a cleaned dataset.
func NewSample(from *Dataset, records []Record) *Sample {
	return &Sample{data: from.WithRecords(records)}
}

// Len returns the number of sampled rows.
func (s *Sample) Len() int { return s.data.Len() }

// Record returns the i-th sampled record.
func (s *Sample) Record(i int) Record { return s.data.Record(i) }

// Records returns a copy of the sampled records.
func (s *Sample) Records() []Record { return s.data.Records() }

// Numbers returns the non-missing values of a numeric field.
func (s *Sample) Numbers(f Field) ([]float64, error) { return s.data.Numbers(f) }

// Value returns the axis value of a sampled record.
func (s *Sample) Value(r Record, f Field) (Value, bool, error) { return s.data.Value(r, f) }

// Vocabulary returns the vocabulary of a categorical field.
func (s *Sample) Vocabulary(f Field) (*Vocabulary, error) { return s.data.Vocabulary(f) }

// Dataset returns a copy of the sample as a standalone dataset, e.g. for export.
func (s *Sample) Dataset() *Dataset { return s.data.WithRecords(s.data.records) }
