// Package sales holds the typed model of a footwear sales dataset: fields,
// categorical vocabularies, records, datasets and read-only samples.
package sales

import "strings"

// Field names one column of the sales schema.
type Field string

const (
	FieldSaleDate   Field = "sale_date"
	FieldShoeType   Field = "shoe_type"
	FieldCountry    Field = "country"
	FieldStoreID    Field = "store_id"
	FieldSize       Field = "size"
	FieldSaleAmount Field = "sale_amount"
	FieldProfit     Field = "profit"
	FieldQuantity   Field = "quantity"
)

// Fields lists the schema in column order.
var Fields = []Field{
	FieldSaleDate, FieldShoeType, FieldCountry, FieldStoreID,
	FieldSize, FieldSaleAmount, FieldProfit, FieldQuantity,
}

// ParseField resolves a field by its canonical name (case-insensitive).
func ParseField(name string) (Field, error) {
	n := Field(strings.ToLower(strings.TrimSpace(name)))
	for _, f := range Fields {
		if f == n {
			return f, nil
		}
	}
	return "", &FieldError{Op: "parse field", Field: name, Err: ErrUnknownField}
}

// IsCategorical reports whether the field is a tagged enumeration.
func (f Field) IsCategorical() bool {
	return f == FieldShoeType || f == FieldCountry
}

// IsNumeric reports whether the field yields numbers for the statistics engine.
func (f Field) IsNumeric() bool {
	switch f {
	case FieldStoreID, FieldSize, FieldSaleAmount, FieldProfit, FieldQuantity:
		return true
	}
	return false
}

// IsAxis reports whether the field can key a frequency or contingency table:
// categories plus the discrete numeric fields.
func (f Field) IsAxis() bool {
	switch f {
	case FieldShoeType, FieldCountry, FieldStoreID, FieldSize, FieldQuantity:
		return true
	}
	return false
}

func (f Field) String() string { return string(f) }
