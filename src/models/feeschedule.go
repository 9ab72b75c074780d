package models

import "sort"

// FeeSchedule is the category x marketplace commission table.
// Rows are keyed by category label, columns by fee-schedule column key
// (e.g. "Amazon.it"). Cells hold the raw commission text from the source
// file; tiered strings like "15% fino a 50€; 10% oltre" are kept verbatim
// and interpreted only by the fee resolver.
type FeeSchedule struct {
	Columns []string                     `json:"columns"`
	Cells   map[string]map[string]string `json:"cells"` // category -> column -> raw text
}

// NewFeeSchedule creates an empty schedule with the given column keys.
func NewFeeSchedule(columns []string) *FeeSchedule {
	return &FeeSchedule{
		Columns: columns,
		Cells:   make(map[string]map[string]string),
	}
}

// HasColumn reports whether the schedule carries the given column key.
func (f *FeeSchedule) HasColumn(column string) bool {
	for _, c := range f.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Cell returns the raw commission text at [category, column].
// The second return is false when the category or column is unknown.
func (f *FeeSchedule) Cell(category, column string) (string, bool) {
	row, ok := f.Cells[category]
	if !ok {
		return "", false
	}
	text, ok := row[column]
	return text, ok
}

// SetCell stores the raw commission text at [category, column].
func (f *FeeSchedule) SetCell(category, column, text string) {
	if f.Cells == nil {
		f.Cells = make(map[string]map[string]string)
	}
	row, ok := f.Cells[category]
	if !ok {
		row = make(map[string]string)
		f.Cells[category] = row
	}
	row[column] = text
}

// Categories returns the known category labels in sorted order.
func (f *FeeSchedule) Categories() []string {
	if f == nil {
		return nil
	}
	out := make([]string, 0, len(f.Cells))
	for c := range f.Cells {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// IsEmpty reports whether the schedule has no category rows.
func (f *FeeSchedule) IsEmpty() bool {
	return f == nil || len(f.Cells) == 0
}
