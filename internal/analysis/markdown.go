package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Markdown renders a compact report suitable for sharing or attaching to a project.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.RunID != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	}
	if c := r.Cleaning; c != nil {
		b.WriteString(fmt.Sprintf("Rows: %d (duplicates dropped %d, cleaned %d)\n", c.RawRows, c.Duplicates, c.CleanedRows))
		b.WriteString(fmt.Sprintf("Sample: %d rows (%.0f%% per %s, seed %d)\n", r.SampleRows, c.Fraction*100, c.StratifyBy, c.Seed))

		b.WriteString("\n[CLEANING]\n")
		b.WriteString(fmt.Sprintf("- size: %d missing values imputed with mode %s\n", c.Imputation.Filled, num(c.Imputation.Mode)))
		for _, bd := range c.Bounds {
			b.WriteString(fmt.Sprintf("- %s: Q1 %.4g, Q3 %.4g, IQR %.4g; capped to [%.4g, %.4g] (%d values)\n",
				bd.Field, bd.Q1, bd.Q3, bd.IQR, bd.Lower, bd.Upper, bd.Capped))
		}
		if len(c.Allocations) > 0 {
			b.WriteString("- strata: ")
			for i, a := range c.Allocations {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s %d/%d", safeVal(a.Stratum), a.Drawn, a.Population))
			}
			b.WriteString("\n")
		}
	} else {
		b.WriteString(fmt.Sprintf("Sample: %d rows\n", r.SampleRows))
	}

	for _, grp := range []struct {
		group  SectionGroup
		header string
	}{
		{GroupParameters, "[PARAMETERS]"},
		{GroupFrequencies, "[FREQUENCIES]"},
		{GroupContingency, "[CONTINGENCY]"},
	} {
		first := true
		for _, s := range r.Sections {
			if s.Group != grp.group {
				continue
			}
			if first {
				b.WriteString("\n" + grp.header + "\n")
				first = false
			}
			writeSection(&b, s)
		}
	}

	if failed := r.Failed(); len(failed) > 0 || len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, s := range failed {
			b.WriteString(fmt.Sprintf("- %s %s failed: %s\n", s.ID, s.Title, s.Err))
		}
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeSection(b *strings.Builder, s Section) {
	if s.Err != "" {
		b.WriteString(fmt.Sprintf("- %s %s: undefined (%s)\n", s.ID, s.Title, s.Err))
		return
	}
	switch s.Kind {
	case KindScalar:
		if s.Ratio {
			b.WriteString(fmt.Sprintf("- %s %s: %.2f (%.2f%%)\n", s.ID, s.Title, s.Scalar, s.Scalar*100))
		} else if s.Currency {
			b.WriteString(fmt.Sprintf("- %s %s: %s\n", s.ID, s.Title, money(s.Scalar)))
		} else {
			b.WriteString(fmt.Sprintf("- %s %s: %s\n", s.ID, s.Title, grouped(s.Scalar)))
		}
	case KindGroups:
		b.WriteString(fmt.Sprintf("- %s %s:\n", s.ID, s.Title))
		for _, g := range s.Groups {
			b.WriteString(fmt.Sprintf("  • %s: %s (n=%d)\n", safeVal(g.Group.Label), num(g.Value), g.Count))
		}
	case KindFrequency:
		b.WriteString(fmt.Sprintf("- %s %s: ", s.ID, s.Title))
		for i, f := range s.Frequencies {
			if i > 0 {
				b.WriteString(", ")
			}
			if s.Relative {
				b.WriteString(fmt.Sprintf("%s(%.2f%%)", safeVal(f.Value.Label), f.Percent))
			} else {
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(f.Value.Label), f.Count))
			}
		}
		b.WriteString("\n")
	case KindCorrelation:
		b.WriteString(fmt.Sprintf("- %s %s:\n", s.ID, s.Title))
		if s.Corr != nil {
			writeGrid(b, "", s.Corr.Columns, s.Corr.Columns, s.Corr.Values, "%.4f")
		}
	case KindTable:
		b.WriteString(fmt.Sprintf("- %s %s", s.ID, s.Title))
		if s.Table != nil && s.TotalColumns > len(s.Table.cols) {
			b.WriteString(fmt.Sprintf(" (first %d of %d columns)", len(s.Table.cols), s.TotalColumns))
		}
		b.WriteString(":\n")
		if s.Table != nil {
			t := s.Table
			rows := make([]string, len(t.rows))
			for i, v := range t.rows {
				rows[i] = v.Label
			}
			cols := make([]string, len(t.cols))
			for j, v := range t.cols {
				cols[j] = v.Label
			}
			writeGrid(b, string(t.rowField)+" \\ "+string(t.colField), rows, cols, t.cells, "%.2f")
		}
	}
}

// writeGrid renders a markdown table with one header row.
func writeGrid(b *strings.Builder, corner string, rows, cols []string, cells [][]float64, format string) {
	b.WriteString("\n| ")
	b.WriteString(safeName(corner))
	for _, c := range cols {
		b.WriteString(" | ")
		b.WriteString(safeVal(c))
	}
	b.WriteString(" |\n|")
	for i := 0; i <= len(cols); i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for i, r := range rows {
		b.WriteString("| ")
		b.WriteString(safeVal(r))
		for _, x := range cells[i] {
			b.WriteString(" | ")
			if math.IsNaN(x) {
				b.WriteString("—")
			} else {
				b.WriteString(fmt.Sprintf(format, x))
			}
		}
		b.WriteString(" |\n")
	}
	b.WriteString("\n")
}

func money(x float64) string {
	g := grouped(x)
	if strings.HasPrefix(g, "-") {
		return "-$" + g[1:]
	}
	return "$" + g
}

// grouped formats x with two decimals and comma thousands separators.
func grouped(x float64) string {
	neg := x < 0
	if neg {
		x = -x
	}
	whole := fmt.Sprintf("%.2f", x)
	intPart, frac := whole[:len(whole)-3], whole[len(whole)-3:]
	var sb strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(ch)
	}
	if neg {
		return "-" + sb.String() + frac
	}
	return sb.String() + frac
}

func num(x float64) string { return fmt.Sprintf("%.4g", x) }

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
