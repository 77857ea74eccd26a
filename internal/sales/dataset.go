package sales

// Dataset is an ordered collection of records sharing the sales schema.
// Cleaning stages derive new datasets with WithRecords; no method mutates a
// dataset after construction.
type Dataset struct {
	records   []Record
	shoeTypes *Vocabulary
	countries *Vocabulary
}

// NewDataset copies records into a new dataset bound to the given vocabularies.
func NewDataset(records []Record, shoeTypes, countries *Vocabulary) *Dataset {
	cp := make([]Record, len(records))
	copy(cp, records)
	if shoeTypes == nil {
		shoeTypes = NewVocabulary(nil)
	}
	if countries == nil {
		countries = NewVocabulary(nil)
	}
	return &Dataset{records: cp, shoeTypes: shoeTypes, countries: countries}
}

// WithRecords returns a new dataset with the same vocabularies.
func (d *Dataset) WithRecords(records []Record) *Dataset {
	return NewDataset(records, d.shoeTypes, d.countries)
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// Record returns the i-th record.
func (d *Dataset) Record(i int) Record { return d.records[i] }

// Records returns a copy of all records.
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Vocabulary returns the vocabulary of a categorical field.
func (d *Dataset) Vocabulary(f Field) (*Vocabulary, error) {
	switch f {
	case FieldShoeType:
		return d.shoeTypes, nil
	case FieldCountry:
		return d.countries, nil
	}
	return nil, fieldErr("vocabulary", f, ErrUnknownField)
}

// Numbers returns the non-missing values of a numeric field in record order.
func (d *Dataset) Numbers(f Field) ([]float64, error) {
	if !f.IsNumeric() {
		return nil, fieldErr("numeric values", f, ErrUnknownField)
	}
	out := make([]float64, 0, len(d.records))
	for _, r := range d.records {
		x, _ := r.Number(f)
		if IsMissing(x) {
			continue
		}
		out = append(out, x)
	}
	return out, nil
}

// Value returns the axis value of r for an axis field. ok is false when the
// record has no value (missing size).
func (d *Dataset) Value(r Record, f Field) (v Value, ok bool, err error) {
	switch f {
	case FieldShoeType:
		return Value{Label: d.shoeTypes.Label(r.ShoeType), Order: float64(r.ShoeType)}, true, nil
	case FieldCountry:
		return Value{Label: d.countries.Label(r.Country), Order: float64(r.Country)}, true, nil
	case FieldStoreID, FieldSize, FieldQuantity:
		x, _ := r.Number(f)
		if IsMissing(x) {
			return Value{}, false, nil
		}
		return NumberValue(x), true, nil
	}
	return Value{}, false, fieldErr("axis value", f, ErrUnknownField)
}
