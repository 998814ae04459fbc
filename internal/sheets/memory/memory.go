// Package memory keeps exported dashboard rows in process, for dry runs and
// tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"buget/internal/sheets"
)

type Store struct {
	mu     sync.Mutex
	sheets map[string][][]any
	order  []string
	base   string
}

var _ sheets.DashboardExporter = (*Store)(nil)

// New returns an empty store naming its sheets "<year> <base>".
func New(base string) *Store {
	return &Store{sheets: make(map[string][][]any), base: base}
}

// ExportDashboard appends the row, writing the header first on a new sheet.
func (s *Store) ExportDashboard(_ context.Context, e sheets.Export) (string, error) {
	name := fmt.Sprintf("%d %s", sheets.SheetYear(e), s.base)

	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.sheets[name]
	if !ok {
		rows = [][]any{append([]any(nil), sheets.Header...)}
		s.order = append(s.order, name)
	}
	rows = append(rows, sheets.Row(e))
	s.sheets[name] = rows
	return fmt.Sprintf("mem:%s!%d", name, len(rows)), nil
}

// Rows returns a copy of every row of every sheet, headers included, in the
// order the sheets were created.
func (s *Store) Rows() [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out [][]any
	for _, name := range s.order {
		for _, r := range s.sheets[name] {
			out = append(out, append([]any(nil), r...))
		}
	}
	return out
}

// Sheets lists the sheet names in creation order.
func (s *Store) Sheets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}
