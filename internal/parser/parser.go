// Package parser ingests sales tables from CSV/TSV and XLSX files into raw
// records, resolving the source's column names to the sales schema.
package parser

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

// Source reads one file format into raw sales records.
type Source interface {
	CanParse(filename string) bool
	Parse(path string, opt Options) ([]sales.RawRecord, error)
}

// Options controls ingestion.
type Options struct {
	// Delimiter for CSV. If 0, picked from the extension (tab for .tsv, comma otherwise).
	Delimiter rune
	// SheetName selects an XLSX sheet; SheetIndex (1-based) is used when empty.
	SheetName  string
	SheetIndex int
	// Aliases maps extra source header names to canonical field names.
	Aliases map[string]string
}

var registry []Source

// Register adds a source implementation to the registry.
func Register(s Source) {
	registry = append(registry, s)
}

// ErrUnsupported indicates a file format no registered source can read.
var ErrUnsupported = errors.New("unsupported dataset format")

// ParseFile selects a source by filename and reads the file.
func ParseFile(path string, opt Options) ([]sales.RawRecord, error) {
	for _, s := range registry {
		if s.CanParse(path) {
			recs, err := s.Parse(path, opt)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
			}
			return recs, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

func init() {
	Register(csvSource{})
	Register(xlsxSource{})
}
