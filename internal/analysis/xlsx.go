package analysis

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

const summarySheet = "Summary"

// ExportXLSX writes the report to a workbook: a Summary sheet with the scalar
// parameters and one sheet per grouped, frequency, contingency or correlation
// section.
func ExportXLSX(r *Report, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	summary := [][]interface{}{{"Section", "Title", "Value", "Error"}}
	if r.Name != "" {
		summary = append([][]interface{}{{"File", r.Name}, {"Sample rows", r.SampleRows}, {}}, summary...)
	}
	for _, s := range r.Sections {
		if s.Kind != KindScalar {
			continue
		}
		row := []interface{}{s.ID, s.Title, s.Scalar, s.Err}
		if s.Err != "" {
			row[2] = ""
		}
		summary = append(summary, row)
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}

	for _, s := range r.Sections {
		var rows [][]interface{}
		switch s.Kind {
		case KindGroups:
			rows = append(rows, []interface{}{"Group", "Median", "Count"})
			for _, g := range s.Groups {
				rows = append(rows, []interface{}{g.Group.Label, g.Value, g.Count})
			}
		case KindFrequency:
			if s.Relative {
				rows = append(rows, []interface{}{"Value", "Count", "Percent"})
			} else {
				rows = append(rows, []interface{}{"Value", "Count"})
			}
			for _, fr := range s.Frequencies {
				row := []interface{}{fr.Value.Label, fr.Count}
				if s.Relative {
					row = append(row, fr.Percent)
				}
				rows = append(rows, row)
			}
		case KindTable:
			if s.Table == nil {
				continue
			}
			rows = gridRows(string(s.Table.rowField), s.Table.rows, s.Table.cols, s.Table.cells)
		case KindCorrelation:
			if s.Corr == nil {
				continue
			}
			header := []interface{}{""}
			for _, c := range s.Corr.Columns {
				header = append(header, c)
			}
			rows = append(rows, header)
			for i, c := range s.Corr.Columns {
				row := []interface{}{c}
				for _, v := range s.Corr.Values[i] {
					row = append(row, v)
				}
				rows = append(rows, row)
			}
		default:
			continue
		}
		name := "S" + s.ID
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
		rows = append([][]interface{}{{s.Title}, {}}, rows...)
		if err := writeRows(f, name, rows); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}

func gridRows(corner string, rowVals, colVals []sales.Value, cells [][]float64) [][]interface{} {
	header := []interface{}{corner}
	for _, c := range colVals {
		header = append(header, c.Label)
	}
	out := [][]interface{}{header}
	for i, r := range rowVals {
		row := []interface{}{r.Label}
		for _, x := range cells[i] {
			row = append(row, cellValue(x))
		}
		out = append(out, row)
	}
	return out
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func cellValue(x float64) interface{} {
	if math.IsNaN(x) {
		return ""
	}
	return x
}
