// Package report renders assessment results and rubrics as plain text.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const columnGap = "  "

type alignment int

const (
	alignLeft alignment = iota
	alignRight
)

type column struct {
	title string
	align alignment
}

var (
	levelColumns = []column{
		{title: "Level"},
		{title: "Score", align: alignRight},
		{title: "Threshold", align: alignRight},
		{title: "Status"},
		{},
	}
	breakdownColumns = []column{
		{title: "Category"},
		{title: "Answers", align: alignRight},
		{title: "Score", align: alignRight},
		{title: "Weight", align: alignRight},
		{title: "Points", align: alignRight},
		{},
	}
	rubricColumns = []column{
		{title: "Category"},
		{title: "Questions", align: alignRight},
		{title: "Weight", align: alignRight},
		{title: "Samples", align: alignRight},
	}
)

// table is a fixed set of columns filled row by row. Cells beyond the column
// count are dropped and missing cells render empty.
type table struct {
	columns []column
	rows    [][]string
}

func newTable(columns []column) *table {
	return &table{columns: columns}
}

func (t *table) addRow(cells ...string) {
	row := make([]string, len(t.columns))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

func (t *table) widths() []int {
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		widths[i] = runewidth.StringWidth(col.title)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// lines renders the header followed by every row, trailing blanks trimmed.
func (t *table) lines() []string {
	if len(t.columns) == 0 {
		return nil
	}
	widths := t.widths()
	header := make([]string, len(t.columns))
	for i, col := range t.columns {
		header[i] = col.title
	}
	lines := make([]string, 0, len(t.rows)+1)
	lines = append(lines, t.renderRow(header, widths))
	for _, row := range t.rows {
		lines = append(lines, t.renderRow(row, widths))
	}
	return lines
}

func (t *table) renderRow(cells []string, widths []int) string {
	var b strings.Builder
	for i, col := range t.columns {
		if i > 0 {
			b.WriteString(columnGap)
		}
		b.WriteString(col.pad(cells[i], widths[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func (c column) pad(value string, width int) string {
	if c.align == alignRight {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}

func (t *table) write(w io.Writer) error {
	for _, line := range t.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
