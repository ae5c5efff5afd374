package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

type printer struct {
	w    io.Writer
	json bool
}

// print writes v as indented JSON, or hands a tabwriter to table.
func (p printer) print(v any, table func(tw *tabwriter.Writer)) error {
	if p.json {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

func row(tw *tabwriter.Writer, cols ...any) {
	for i, c := range cols {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, c)
	}
	fmt.Fprintln(tw)
}

func pageFooter(tw *tabwriter.Writer, page, totalPages, total int) {
	if totalPages < 1 {
		totalPages = 1
	}
	fmt.Fprintf(tw, "\npage %d of %d (%d total)\n", page, totalPages, total)
}
