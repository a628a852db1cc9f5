package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/complianceops/scorecard/internal/score"
	"github.com/complianceops/scorecard/internal/view"
)

// ANSI color codes for coloured output (used when Colored=true).
const (
	ansiReset   = "\033[0m"
	ansiBoldRed = "\033[1;31m"
	ansiRed     = "\033[0;31m"
	ansiGreen   = "\033[0;32m"
	ansiYellow  = "\033[0;33m"
	ansiBlue    = "\033[0;34m"
)

// TableOptions controls how RenderTable renders a projection.
type TableOptions struct {
	// Colored wraps severity and score-trend cells with ANSI codes.
	// Default false (CI-safe).
	Colored bool

	// MaxCellWidth caps every cell's display width. 0 means the default.
	MaxCellWidth int
}

const defaultMaxCellWidth = 40

// ColorSeverity wraps a severity label with ANSI codes when colored is true.
// When colored is false the string is returned unchanged (CI-safe default).
func ColorSeverity(severity string, colored bool) string {
	if !colored {
		return severity
	}
	code := severityCode(severity)
	if code == "" {
		return severity
	}
	return code + severity + ansiReset
}

// severityCode maps a severity label to its ANSI code. Unknown labels
// render plain.
func severityCode(severity string) string {
	switch strings.ToLower(severity) {
	case "critical":
		return ansiBoldRed
	case "high":
		return ansiRed
	case "medium":
		return ansiYellow
	case "low":
		return ansiBlue
	default:
		return ""
	}
}

// trendCode maps a score trend class to its ANSI code: improvements green,
// regressions red.
func trendCode(trend string) string {
	switch trend {
	case string(score.TrendImproved):
		return ansiGreen
	case string(score.TrendRegressed):
		return ansiRed
	default:
		return ""
	}
}

// ShortenMessage truncates msg to at most max runes, appending "..." when truncated.
// max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

// cell pads value to width characters. When a code is given, ANSI codes wrap
// only the text; trailing padding spaces are plain so subsequent columns stay
// visually aligned regardless of terminal ANSI support.
func cell(value string, width int, code string) string {
	value = ShortenMessage(value, width)
	if code == "" {
		return fmt.Sprintf("%-*s", width, value)
	}
	spaces := width - len([]rune(value))
	if spaces < 0 {
		spaces = 0
	}
	return code + value + ansiReset + strings.Repeat(" ", spaces)
}

// columnWidth derives a display width for a column from its header text and
// the widest cell beneath it, capped at max.
func columnWidth(col view.Column, rows []view.Row, max int) int {
	width := len(col.Name)
	for _, row := range rows {
		if n := len([]rune(row[col.Key])); n > width {
			width = n
		}
	}
	if width > max {
		width = max
	}
	return width
}

// cellCode picks the ANSI code for one cell; empty means plain.
func cellCode(key string, row view.Row, opts TableOptions) string {
	if !opts.Colored {
		return ""
	}
	switch key {
	case "severity":
		return severityCode(row[key])
	case view.KeyCurrentScore:
		return trendCode(row[view.KeyCurrentScoreTrend])
	default:
		return ""
	}
}

// RenderTable writes a formatted projection table to w. Column widths are
// sized to the data, and the separator line width is derived from the header
// row so all rows align correctly.
func RenderTable(w io.Writer, table view.Table, opts TableOptions) {
	if len(table.Rows) == 0 {
		fmt.Fprintln(w, "No records.")
		return
	}

	maxWidth := opts.MaxCellWidth
	if maxWidth <= 0 {
		maxWidth = defaultMaxCellWidth
	}

	widths := make([]int, len(table.Columns))
	for i, col := range table.Columns {
		widths[i] = columnWidth(col, table.Rows, maxWidth)
	}

	var hb strings.Builder
	for i, col := range table.Columns {
		if i > 0 {
			hb.WriteString("  ")
		}
		hb.WriteString(fmt.Sprintf("%-*s", widths[i], strings.ToUpper(col.Name)))
	}
	header := hb.String()

	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	for _, row := range table.Rows {
		var rb strings.Builder
		for i, col := range table.Columns {
			if i > 0 {
				rb.WriteString("  ")
			}
			rb.WriteString(cell(row[col.Key], widths[i], cellCode(col.Key, row, opts)))
		}
		fmt.Fprintln(w, rb.String())
	}
}
