// Package output formats command results for the terminal: colored
// status lines on stdout, aligned tables for list commands, and JSON
// when the --json flag is set.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

const columnGap = "  "

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
)

// JSON writes data to stdout as indented JSON
func JSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Table writes an aligned table with a separator under the header row.
// Short rows are padded with empty cells; extra cells are dropped.
func Table(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	widths := columnWidths(headers, rows)

	fmt.Println(joinRow(headers, widths))

	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	fmt.Println(strings.Join(sep, columnGap))

	for _, row := range rows {
		fmt.Println(joinRow(row, widths))
	}
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}

func joinRow(cells []string, widths []int) string {
	padded := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded[i] = fmt.Sprintf("%-*s", w, cell)
	}
	return strings.Join(padded, columnGap)
}

// Success prints a green check-marked message
func Success(format string, args ...interface{}) {
	statusLine(successColor, "✓", format, args...)
}

// Error prints a red cross-marked message
func Error(format string, args ...interface{}) {
	statusLine(errorColor, "✗", format, args...)
}

// Warn prints a yellow warning message
func Warn(format string, args ...interface{}) {
	statusLine(warnColor, "!", format, args...)
}

// Info prints a cyan progress message
func Info(format string, args ...interface{}) {
	statusLine(infoColor, "→", format, args...)
}

// Print prints an uncolored line
func Print(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

func statusLine(c *color.Color, symbol, format string, args ...interface{}) {
	_, _ = c.Printf(symbol+" "+format+"\n", args...)
}
