package commands

import (
	"fmt"

	"github.com/dyluth/dogroom/internal/printer"
	"github.com/dyluth/dogroom/internal/render"
	"github.com/dyluth/dogroom/pkg/entitystore"
)

const (
	formatTable = "table"
	formatJSONL = "jsonl"
	formatJSON  = "json"
)

func validateOutputFormat() error {
	switch outputFormat {
	case formatTable, formatJSONL, formatJSON:
		return nil
	default:
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", outputFormat),
			[]string{"Valid formats: table, jsonl, json"},
		)
	}
}

// writeList writes items in the selected output format. table renders the
// human-readable form.
func writeList[T any](items []T, table func() error) error {
	w := printer.Out()
	switch outputFormat {
	case formatJSONL:
		return render.JSONL(w, items)
	case formatJSON:
		if items == nil {
			items = []T{}
		}
		return render.SingleJSON(w, items)
	default:
		return table()
	}
}

// writeOne writes a single record. Table mode prints pretty JSON as well,
// since one record does not fit a table well.
func writeOne(v any) error {
	w := printer.Out()
	if outputFormat == formatJSONL {
		return render.JSONL(w, []any{v})
	}
	return render.SingleJSON(w, v)
}

// writePage writes one page of a list. Table mode follows the table with the
// cursor of the next page; json mode writes the page object itself.
func writePage[T any](page entitystore.Page[T], table func() error) error {
	if outputFormat == formatJSON {
		return render.SingleJSON(printer.Out(), page)
	}
	if err := writeList(page.Items, table); err != nil {
		return err
	}
	if outputFormat == formatTable && page.Next != "" {
		printer.Info("\nMore results:\n  --cursor %s\n", page.Next)
	}
	return nil
}
