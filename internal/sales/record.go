package sales

import (
	"math"
	"strconv"
	"time"
)

// Missing marks an absent numeric value. Compare with IsMissing, never ==.
var Missing = math.NaN()

// IsMissing reports whether x is the missing marker.
func IsMissing(x float64) bool { return math.IsNaN(x) }

// RawRecord is one line item as supplied by ingestion, before typing.
type RawRecord struct {
	SaleDate   string
	ShoeType   string
	Country    string
	StoreID    string
	Size       string
	SaleAmount string
	Profit     string
	Quantity   string
}

// Record is one typed sales transaction line item.
type Record struct {
	SaleDate   time.Time
	ShoeType   Category
	Country    Category
	StoreID    int
	Size       float64 // Missing until imputation, integral afterwards
	SaleAmount float64
	Profit     float64
	Quantity   float64
}

// Number returns the value of a numeric field.
func (r Record) Number(f Field) (float64, error) {
	switch f {
	case FieldStoreID:
		return float64(r.StoreID), nil
	case FieldSize:
		return r.Size, nil
	case FieldSaleAmount:
		return r.SaleAmount, nil
	case FieldProfit:
		return r.Profit, nil
	case FieldQuantity:
		return r.Quantity, nil
	}
	return 0, fieldErr("numeric value", f, ErrUnknownField)
}

// WithNumber returns a copy of r with a numeric field replaced.
func (r Record) WithNumber(f Field, x float64) (Record, error) {
	switch f {
	case FieldStoreID:
		r.StoreID = int(x)
	case FieldSize:
		r.Size = x
	case FieldSaleAmount:
		r.SaleAmount = x
	case FieldProfit:
		r.Profit = x
	case FieldQuantity:
		r.Quantity = x
	default:
		return r, fieldErr("set numeric value", f, ErrUnknownField)
	}
	return r, nil
}

// Value is a key of a statistical table axis: a display label plus the
// intrinsic order used to sort axis values (category code or the number itself).
type Value struct {
	Label string  `json:"label" yaml:"label"`
	Order float64 `json:"-" yaml:"-"`
}

// Less orders values by intrinsic order, then label.
func (v Value) Less(o Value) bool {
	if v.Order != o.Order {
		return v.Order < o.Order
	}
	return v.Label < o.Label
}

// NumberValue builds an axis value for a discrete numeric field.
func NumberValue(x float64) Value {
	return Value{Label: FormatNumber(x), Order: x}
}

// FormatNumber renders x with the shortest exact representation ("42", "3.875").
func FormatNumber(x float64) string {
	if IsMissing(x) {
		return "NaN"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
