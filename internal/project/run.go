package project

import "time"

// Run holds metadata for one analysis attached to a project.
type Run struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	Summary       string    `json:"summary"`
	Description   string    `json:"description"`
	RawRows       int       `json:"raw_rows"`
	CleanedRows   int       `json:"cleaned_rows"`
	SampleRows    int       `json:"sample_rows"`
	FailedQueries int       `json:"failed_queries"`
	Fraction      float64   `json:"fraction"`
	Seed          int64     `json:"seed"`
	CreatedAt     time.Time `json:"created_at"`
}
