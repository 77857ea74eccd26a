package sales

import (
	"errors"
	"testing"
)

func TestVocabularyCodesFollowLabelOrder(t *testing.T) {
	v := NewVocabulary([]string{"Sneaker", "Boot", "Sandal", "Boot"})
	if v.Len() != 3 {
		t.Fatalf("expected 3 labels, got %d", v.Len())
	}
	want := []string{"Boot", "Sandal", "Sneaker"}
	for i, l := range v.Labels() {
		if l != want[i] {
			t.Fatalf("label %d = %q, want %q", i, l, want[i])
		}
		c, err := v.Code(l)
		if err != nil {
			t.Fatalf("code %q: %v", l, err)
		}
		if int(c) != i {
			t.Fatalf("code of %q = %d, want %d", l, c, i)
		}
	}
	if _, err := v.Code("Loafer"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if v.Label(Category(9)) != "" {
		t.Fatalf("out of range label should be empty")
	}
}

func TestVocabularyLabelsIsACopy(t *testing.T) {
	v := NewVocabulary([]string{"a", "b"})
	ls := v.Labels()
	ls[0] = "zzz"
	if v.Label(0) != "a" {
		t.Fatalf("vocabulary mutated through Labels()")
	}
}

func TestParseField(t *testing.T) {
	f, err := ParseField("  Sale_Amount ")
	if err != nil || f != FieldSaleAmount {
		t.Fatalf("ParseField = %q, %v", f, err)
	}
	_, err = ParseField("discount")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "discount" {
		t.Fatalf("expected FieldError naming the field, got %#v", err)
	}
}

func TestFieldKinds(t *testing.T) {
	if !FieldShoeType.IsCategorical() || FieldSize.IsCategorical() {
		t.Fatalf("categorical classification wrong")
	}
	if FieldSaleDate.IsNumeric() || FieldShoeType.IsNumeric() || !FieldStoreID.IsNumeric() {
		t.Fatalf("numeric classification wrong")
	}
	for _, f := range []Field{FieldSaleAmount, FieldProfit, FieldSaleDate} {
		if f.IsAxis() {
			t.Fatalf("%s should not be an axis", f)
		}
	}
}

func testDataset() *Dataset {
	shoes := NewVocabulary([]string{"Boot", "Sneaker"})
	countries := NewVocabulary([]string{"Chile"})
	return NewDataset([]Record{
		{ShoeType: 0, StoreID: 3, Size: 40, SaleAmount: 100, Profit: 20, Quantity: 1},
		{ShoeType: 1, StoreID: 7, Size: Missing, SaleAmount: 50, Profit: 5, Quantity: 2},
	}, shoes, countries)
}

func TestDatasetIsNotMutatedThroughAccessors(t *testing.T) {
	d := testDataset()
	recs := d.Records()
	recs[0].SaleAmount = -1
	if d.Record(0).SaleAmount != 100 {
		t.Fatalf("dataset mutated through Records()")
	}
	d2 := d.WithRecords(recs)
	if d2.Record(0).SaleAmount != -1 || d.Record(0).SaleAmount != 100 {
		t.Fatalf("WithRecords should derive an independent dataset")
	}
}

func TestDatasetNumbersSkipMissing(t *testing.T) {
	d := testDataset()
	xs, err := d.Numbers(FieldSize)
	if err != nil {
		t.Fatalf("numbers: %v", err)
	}
	if len(xs) != 1 || xs[0] != 40 {
		t.Fatalf("expected [40], got %v", xs)
	}
	if _, err := d.Numbers(FieldCountry); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField for categorical field, got %v", err)
	}
}

func TestDatasetValue(t *testing.T) {
	d := testDataset()
	v, ok, err := d.Value(d.Record(1), FieldShoeType)
	if err != nil || !ok || v.Label != "Sneaker" || v.Order != 1 {
		t.Fatalf("shoe value = %+v %v %v", v, ok, err)
	}
	if _, ok, _ := d.Value(d.Record(1), FieldSize); ok {
		t.Fatalf("missing size should report ok=false")
	}
	v, ok, _ = d.Value(d.Record(0), FieldStoreID)
	if !ok || v.Label != "3" || v.Order != 3 {
		t.Fatalf("store value = %+v", v)
	}
	if _, _, err := d.Value(d.Record(0), FieldProfit); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("profit is not an axis, got %v", err)
	}
}

func TestValueOrdering(t *testing.T) {
	nine, ten := NumberValue(9), NumberValue(10)
	if !nine.Less(ten) || ten.Less(nine) {
		t.Fatalf("numeric axis values must order by number, not label")
	}
	if FormatNumber(3.875) != "3.875" || FormatNumber(42) != "42" {
		t.Fatalf("FormatNumber: %s %s", FormatNumber(3.875), FormatNumber(42))
	}
}

func TestSampleIsAView(t *testing.T) {
	d := testDataset()
	s := NewSample(d, []Record{d.Record(1)})
	if s.Len() != 1 {
		t.Fatalf("sample len %d", s.Len())
	}
	vocab, err := s.Vocabulary(FieldShoeType)
	if err != nil || vocab.Len() != 2 {
		t.Fatalf("sample should keep the dataset vocabulary: %v", err)
	}
	cp := s.Dataset()
	if cp.Len() != 1 || cp.Record(0).SaleAmount != 50 {
		t.Fatalf("Dataset() copy mismatch")
	}
}
