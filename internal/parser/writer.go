package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

// Header is the canonical column order used when writing datasets.
func Header() []string {
	out := make([]string, len(sales.Fields))
	for i, f := range sales.Fields {
		out[i] = string(f)
	}
	return out
}

// Rows renders the dataset in canonical column order. Missing numbers are empty.
func Rows(d *sales.Dataset) ([][]string, error) {
	shoe, err := d.Vocabulary(sales.FieldShoeType)
	if err != nil {
		return nil, err
	}
	country, err := d.Vocabulary(sales.FieldCountry)
	if err != nil {
		return nil, err
	}
	num := func(x float64) string {
		if sales.IsMissing(x) {
			return ""
		}
		return sales.FormatNumber(x)
	}
	out := make([][]string, 0, d.Len())
	for _, r := range d.Records() {
		date := ""
		if !r.SaleDate.IsZero() {
			date = r.SaleDate.Format("2006-01-02")
		}
		out = append(out, []string{
			date,
			shoe.Label(r.ShoeType),
			country.Label(r.Country),
			strconv.Itoa(r.StoreID),
			num(r.Size),
			num(r.SaleAmount),
			num(r.Profit),
			num(r.Quantity),
		})
	}
	return out, nil
}

// WriteCSV writes the header and every record.
func WriteCSV(w io.Writer, d *sales.Dataset, delim rune) error {
	rows, err := Rows(d)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if delim != 0 {
		cw.Comma = delim
	}
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// WriteXLSX writes the dataset to a single-sheet workbook. Numeric columns are
// stored as numbers.
func WriteXLSX(path string, d *sales.Dataset, sheet string) error {
	rows, err := Rows(d)
	if err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()
	if sheet == "" {
		sheet = "Data"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	header := Header()
	hdr := make([]interface{}, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := sw.SetRow("A1", hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
			if j >= 3 && v != "" {
				if x, err := strconv.ParseFloat(v, 64); err == nil {
					cells[j] = x
				}
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

// WriteFile picks the writer from the extension: .xlsx, .tsv or CSV otherwise.
func WriteFile(path string, d *sales.Dataset) error {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") {
		return WriteXLSX(path, d, "")
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, d, sniffDelimiter(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
