package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"TOKEN", "HITS"},
		[][]string{{"AB", "5"}, {"LONGER", "12"}},
	)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("RenderTable() produced %d lines, want 3:\n%s", len(lines), out)
	}
	for _, want := range []string{"TOKEN", "AB", "LONGER", "12"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTable() missing %q:\n%s", want, out)
		}
	}

	w := lipgloss.Width(lines[0])
	for i, line := range lines {
		if lipgloss.Width(line) != w {
			t.Errorf("line %d width = %d, want %d", i, lipgloss.Width(line), w)
		}
	}
}

func TestRenderTableShortRow(t *testing.T) {
	out := RenderTable([]string{"A", "B"}, [][]string{{"only"}})
	if !strings.Contains(out, "only") {
		t.Errorf("RenderTable() = %q", out)
	}
}

func TestRenderHeader(t *testing.T) {
	out := RenderHeader("serve", "slhttpd-sim serve", []Param{{"Port", "8080"}}, MinTerminalWidth)
	for _, want := range []string{"SERVE", "slhttpd-sim serve", "Port:", "8080"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderHeader() missing %q:\n%s", want, out)
		}
	}
}

func TestRenderMessages(t *testing.T) {
	if got := RenderSuccess("saved %s", "x"); !strings.Contains(got, "✓ saved x") {
		t.Errorf("RenderSuccess() = %q", got)
	}
	if got := RenderFailure("bad %d", 1); !strings.Contains(got, "✗ bad 1") {
		t.Errorf("RenderFailure() = %q", got)
	}
}

func TestRenderHorizontalDivider(t *testing.T) {
	if got := RenderHorizontalDivider(5, "-"); !strings.Contains(got, "-----") {
		t.Errorf("RenderHorizontalDivider() = %q", got)
	}
}
