// Package formatter renders aligned markdown tables for terminal output.
package formatter

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// minWidth is the narrowest column, enough for a "---" separator.
const minWidth = 3

// Table renders header and rows as a markdown table whose columns are padded
// to a common display width. Wide runes count as two cells. Rows shorter than
// the header are padded with empty cells; pipes inside cells are escaped.
func Table(header []string, rows [][]string) string {
	if len(header) == 0 {
		return ""
	}

	table := make([][]string, 0, len(rows)+1)
	table = append(table, cleanCells(header))

	for _, row := range rows {
		table = append(table, cleanCells(row))
	}

	return strings.Join(render(table, len(header)), "\n") + "\n"
}

// Preview renders at most limit rows of a table, with a trailing note when
// rows were cut.
func Preview(header []string, rows [][]string, limit int) string {
	if limit < 0 || len(rows) <= limit {
		return Table(header, rows)
	}

	var sb strings.Builder

	sb.WriteString(Table(header, rows[:limit]))
	sb.WriteString("… ")
	sb.WriteString(strconv.Itoa(len(rows) - limit))
	sb.WriteString(" more rows\n")

	return sb.String()
}

func cleanCells(row []string) []string {
	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = strings.ReplaceAll(strings.TrimSpace(c), "|", `\|`)
	}

	return cells
}

func render(table [][]string, colCount int) []string {
	colWidths := make([]int, colCount)

	for _, row := range table {
		for i := 0; i < len(row) && i < colCount; i++ {
			width := runewidth.StringWidth(row[i])
			if width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	for i := range colWidths {
		if colWidths[i] < minWidth {
			colWidths[i] = minWidth
		}
	}

	result := make([]string, 0, len(table)+1)
	result = append(result, line(table[0], colWidths))

	sep := make([]string, colCount)
	for i, w := range colWidths {
		sep[i] = strings.Repeat("-", w)
	}

	result = append(result, line(sep, colWidths))

	for _, row := range table[1:] {
		result = append(result, line(row, colWidths))
	}

	return result
}

func line(row []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		sb.WriteString(" ")

		content := ""
		if j < len(row) {
			content = row[j]
		}

		sb.WriteString(content)

		// Pad with spaces based on display width
		if padding := width - runewidth.StringWidth(content); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
