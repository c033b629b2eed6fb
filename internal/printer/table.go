package printer

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Table renders rows under header to the current output.
func Table(header []string, rows [][]string) error {
	return TableTo(stdout, header, rows)
}

// TableTo renders rows under header to w.
func TableTo(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)

	cols := make([]any, len(header))
	for i, h := range header {
		cols[i] = h
	}
	table.Header(cols...)

	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to build table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}
