package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Param is one key/value line in a header or detail block.
type Param struct {
	Key   string
	Value string
}

// RenderHeader renders a bordered command banner.
func RenderHeader(title, command string, params []Param, width int) string {
	var b strings.Builder
	b.WriteString(HeaderTitleStyle.Render(strings.ToUpper(title)))
	b.WriteString("\n")
	b.WriteString(HeaderCommandStyle.Render(command))
	if len(params) > 0 {
		b.WriteString("\n\n")
		b.WriteString(RenderParams(params))
	}
	return HeaderBorderStyle(width).Render(b.String())
}

// RenderParams renders aligned key/value lines.
func RenderParams(params []Param) string {
	lines := make([]string, len(params))
	for i, p := range params {
		lines[i] = lipgloss.JoinHorizontal(lipgloss.Top,
			KeyStyle.Render(p.Key+":"),
			ValueStyle.Render(p.Value),
		)
	}
	return strings.Join(lines, "\n")
}

// RenderTable renders rows under headers with columns padded to the widest
// cell.
func RenderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var b strings.Builder
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = TableHeaderStyle.Width(widths[i] + 2).Render(h)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))

	for _, row := range rows {
		b.WriteString("\n")
		for i := range cells {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			cells[i] = ValueStyle.Width(widths[i] + 2).Render(v)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return b.String()
}

// RenderSuccess renders a one-line success message.
func RenderSuccess(format string, args ...any) string {
	return SuccessStyle.Render(SuccessMarker + " " + fmt.Sprintf(format, args...))
}

// RenderFailure renders a one-line failure message.
func RenderFailure(format string, args ...any) string {
	return ErrorStyle.Render(FailureMarker + " " + fmt.Sprintf(format, args...))
}
