package console

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPadPlainCells(t *testing.T) {
	if got := pad("id", 6); got != "id    " {
		t.Fatalf("short cells are space-padded, got %q", got)
	}
	if got := pad("organization", 8); lipgloss.Width(got) != 8 {
		t.Fatalf("long cells are cut to the column, got %q", got)
	}
	if !strings.HasSuffix(pad("organization", 8), "…") {
		t.Fatal("truncation is marked with an ellipsis")
	}
}

func TestPadTruncatesStyledCellsOnVisibleWidth(t *testing.T) {
	styled := "\x1b[1;92mterminated\x1b[0m"
	got := pad(styled, 8)
	if w := lipgloss.Width(got); w != 8 {
		t.Fatalf("visible width %d, want 8: %q", w, got)
	}
	if !strings.Contains(got, "\x1b[1;92m") {
		t.Fatalf("the opening escape sequence must survive truncation: %q", got)
	}
}

func TestPadTruncatesOnRuneBoundaries(t *testing.T) {
	for _, cell := range []string{"crème brûlée désastre", "データソース管理", "währungsübersicht"} {
		got := pad(cell, 8)
		if w := lipgloss.Width(got); w != 8 {
			t.Fatalf("pad(%q, 8) has visible width %d: %q", cell, w, got)
		}
	}
}
