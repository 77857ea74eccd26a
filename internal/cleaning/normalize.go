// Package cleaning turns raw sales rows into a typed, deduplicated, imputed
// and outlier-capped dataset. Every stage returns a new dataset.
package cleaning

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

var dateLayouts = []string{
	"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02 15:04",
	"2006/01/02", "02/01/2006", "01/02/2006", "1/2/2006 15:04", "1/2/2006 15:04:05",
	"01-02-06", // excelize default rendering of date cells
}

// Normalize types raw rows: dates become time values, shoe type and country
// become categories over a vocabulary derived from the data, and a size of 0
// (or an empty size) becomes the missing marker.
func Normalize(raw []sales.RawRecord) (*sales.Dataset, error) {
	shoeLabels := make([]string, len(raw))
	countryLabels := make([]string, len(raw))
	for i, r := range raw {
		shoeLabels[i] = strings.TrimSpace(r.ShoeType)
		countryLabels[i] = strings.TrimSpace(r.Country)
	}
	shoeTypes := sales.NewVocabulary(shoeLabels)
	countries := sales.NewVocabulary(countryLabels)

	records := make([]sales.Record, 0, len(raw))
	for i, r := range raw {
		rec, err := normalizeRow(r, shoeLabels[i], countryLabels[i], shoeTypes, countries)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return sales.NewDataset(records, shoeTypes, countries), nil
}

func normalizeRow(r sales.RawRecord, shoe, country string, shoeTypes, countries *sales.Vocabulary) (sales.Record, error) {
	var rec sales.Record
	var err error
	if rec.SaleDate, err = parseDate(r.SaleDate); err != nil {
		return rec, fmt.Errorf("%s: %w", sales.FieldSaleDate, err)
	}
	// Labels were fed to the vocabularies above, lookups cannot fail.
	rec.ShoeType, _ = shoeTypes.Code(shoe)
	rec.Country, _ = countries.Code(country)

	store, err := parseNumber(r.StoreID)
	if err != nil {
		return rec, fmt.Errorf("%s: %w", sales.FieldStoreID, err)
	}
	rec.StoreID = int(store)

	rec.Size = sales.Missing
	if strings.TrimSpace(r.Size) != "" {
		size, err := parseNumber(r.Size)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", sales.FieldSize, err)
		}
		if size != 0 {
			rec.Size = size
		}
	}
	if rec.SaleAmount, err = parseNumber(r.SaleAmount); err != nil {
		return rec, fmt.Errorf("%s: %w", sales.FieldSaleAmount, err)
	}
	if rec.Profit, err = parseNumber(r.Profit); err != nil {
		return rec, fmt.Errorf("%s: %w", sales.FieldProfit, err)
	}
	if rec.Quantity, err = parseNumber(r.Quantity); err != nil {
		return rec, fmt.Errorf("%s: %w", sales.FieldQuantity, err)
	}
	return rec, nil
}

func parseDate(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseNumber accepts plain numbers, currency symbols and either decimal
// separator; when both ',' and '.' occur the last one is the decimal point.
func parseNumber(s string) (float64, error) {
	raw := strings.TrimSpace(strings.ReplaceAll(s, "\u00A0", " "))
	raw = strings.TrimLeft(raw, "$€£ ")
	if raw == "" {
		return sales.Missing, nil
	}
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0 && cpos > dpos:
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	case cpos >= 0 && dpos >= 0:
		raw = strings.ReplaceAll(raw, ",", "")
	case cpos >= 0:
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	raw = strings.ReplaceAll(raw, " ", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}
