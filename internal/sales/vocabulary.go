package sales

import "sort"

// Category is the code of a label within a Vocabulary.
type Category int

// Vocabulary is the fixed, data-derived set of labels of a categorical field.
// Labels are unordered in meaning; codes follow lexical label order so that
// tables built over a vocabulary are laid out deterministically.
type Vocabulary struct {
	labels []string
	codes  map[string]Category
}

// NewVocabulary builds a vocabulary from the observed labels (duplicates allowed).
func NewVocabulary(observed []string) *Vocabulary {
	seen := make(map[string]struct{}, len(observed))
	labels := make([]string, 0, len(observed))
	for _, l := range observed {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		labels = append(labels, l)
	}
	sort.Strings(labels)
	codes := make(map[string]Category, len(labels))
	for i, l := range labels {
		codes[l] = Category(i)
	}
	return &Vocabulary{labels: labels, codes: codes}
}

// Code returns the category for label.
func (v *Vocabulary) Code(label string) (Category, error) {
	c, ok := v.codes[label]
	if !ok {
		return 0, &FieldError{Op: "lookup category", Field: label, Err: ErrUnknownCategory}
	}
	return c, nil
}

// Label returns the label of c, or "" when c is out of range.
func (v *Vocabulary) Label(c Category) string {
	if c < 0 || int(c) >= len(v.labels) {
		return ""
	}
	return v.labels[c]
}

// Len returns the number of labels.
func (v *Vocabulary) Len() int { return len(v.labels) }

// Labels returns a copy of the labels in code order.
func (v *Vocabulary) Labels() []string {
	out := make([]string, len(v.labels))
	copy(out, v.labels)
	return out
}
