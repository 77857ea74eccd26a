package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/shoestat-cli/internal/pipeline"
)

// SectionKind tells which payload of a Section is set.
type SectionKind string

const (
	KindScalar      SectionKind = "scalar"
	KindGroups      SectionKind = "groups"
	KindFrequency   SectionKind = "frequency"
	KindTable       SectionKind = "table"
	KindCorrelation SectionKind = "correlation"
)

// SectionGroup is the block of the battery a section belongs to.
type SectionGroup string

const (
	GroupParameters  SectionGroup = "parameters"
	GroupFrequencies SectionGroup = "frequencies"
	GroupContingency SectionGroup = "contingency"
)

// Section is the outcome of one battery query. Err is non-empty when the
// query failed; the payload is then meaningless.
type Section struct {
	ID           string       `json:"id" yaml:"id"`
	Title        string       `json:"title" yaml:"title"`
	Group        SectionGroup `json:"group" yaml:"group"`
	Kind         SectionKind  `json:"kind" yaml:"kind"`
	Scalar       float64      `json:"scalar,omitempty" yaml:"scalar,omitempty"`
	Ratio        bool         `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	Currency     bool         `json:"currency,omitempty" yaml:"currency,omitempty"`
	Groups       []GroupValue `json:"groups,omitempty" yaml:"groups,omitempty"`
	Frequencies  []Frequency  `json:"frequencies,omitempty" yaml:"frequencies,omitempty"`
	Relative     bool         `json:"relative,omitempty" yaml:"relative,omitempty"`
	Table        *Table       `json:"table,omitempty" yaml:"table,omitempty"`
	TotalColumns int          `json:"total_columns,omitempty" yaml:"total_columns,omitempty"`
	Corr         *CorrMatrix  `json:"correlation,omitempty" yaml:"correlation,omitempty"`
	Err          string       `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the rendered outcome of a full run: cleaning stats plus battery.
type Report struct {
	RunID       string          `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Name        string          `json:"name" yaml:"name"`
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	SampleRows  int             `json:"sample_rows" yaml:"sample_rows"`
	Cleaning    *pipeline.Stats `json:"cleaning,omitempty" yaml:"cleaning,omitempty"`
	Sections    []Section       `json:"sections" yaml:"sections"`
	Warnings    []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Section returns the section with the given id.
func (r *Report) Section(id string) (Section, bool) {
	for _, s := range r.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Failed returns the sections whose query failed.
func (r *Report) Failed() []Section {
	var out []Section
	for _, s := range r.Sections {
		if s.Err != "" {
			out = append(out, s)
		}
	}
	return out
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteYAML writes the report as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

// tableView is the serialized form of a Table. Undefined cells are nil.
type tableView struct {
	Rows      string       `json:"rows" yaml:"rows"`
	Columns   string       `json:"columns" yaml:"columns"`
	Value     string       `json:"value" yaml:"value"`
	Aggregate string       `json:"aggregate" yaml:"aggregate"`
	RowLabels []string     `json:"row_labels" yaml:"row_labels"`
	ColLabels []string     `json:"column_labels" yaml:"column_labels"`
	Cells     [][]*float64 `json:"cells" yaml:"cells"`
}

func (t *Table) view() tableView {
	v := tableView{
		Rows: string(t.rowField), Columns: string(t.colField),
		Value: string(t.valueField), Aggregate: t.agg.String(),
	}
	for _, r := range t.rows {
		v.RowLabels = append(v.RowLabels, r.Label)
	}
	for _, c := range t.cols {
		v.ColLabels = append(v.ColLabels, c.Label)
	}
	v.Cells = make([][]*float64, len(t.cells))
	for i, row := range t.cells {
		v.Cells[i] = make([]*float64, len(row))
		for j, x := range row {
			if !math.IsNaN(x) {
				x := x
				v.Cells[i][j] = &x
			}
		}
	}
	return v
}

func (t *Table) MarshalJSON() ([]byte, error) { return json.Marshal(t.view()) }

func (t *Table) MarshalYAML() (interface{}, error) { return t.view(), nil }
