//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package txtfmt

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"
)

// TableRow is a map of string values to be printed, keyed by column title.
type TableRow map[string]string

// TableFormatter renders rows of labeled columns as an aligned text table.
type TableFormatter struct {
	titles []string
	writer *tabwriter.Writer
	out    bytes.Buffer
}

// NewTableFormatter returns a TableFormatter for the given ordered
// column titles.
func NewTableFormatter(columnTitles ...string) *TableFormatter {
	t := &TableFormatter{titles: columnTitles}
	t.writer = tabwriter.NewWriter(&t.out, 0, 0, 1, ' ', 0)
	return t
}

func (t *TableFormatter) formatHeader() {
	for _, title := range t.titles {
		fmt.Fprintf(t.writer, "%s\t", title)
	}
	fmt.Fprint(t.writer, "\n")
	for _, title := range t.titles {
		fmt.Fprintf(t.writer, "%s\t", strings.Repeat("-", len(title)))
	}
	fmt.Fprint(t.writer, "\n")
}

// Format generates an output string for the set of table rows provided.
// It includes a header with column titles, and fills only the requested
// columns in order. Cells with no value for a requested column are
// rendered as "None".
func (t *TableFormatter) Format(table []TableRow) string {
	if len(t.titles) == 0 {
		return ""
	}

	t.formatHeader()

	for _, row := range table {
		for _, title := range t.titles {
			value, ok := row[title]
			if !ok {
				value = "None"
			}
			fmt.Fprintf(t.writer, "%s\t", value)
		}
		fmt.Fprint(t.writer, "\n")
	}

	t.writer.Flush()
	return t.out.String()
}
