package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// placeModal centres card over base. Base cells outside the card's visible
// columns are kept, so the list stays readable around the modal.
func placeModal(base, card string, width, height int) string {
	if width <= 0 || height <= 0 {
		return base
	}
	baseCanvas := fitCanvas(base, width, height)
	overlay := fitCanvas(lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card), width, height)

	baseLines := strings.Split(baseCanvas, "\n")
	overLines := strings.Split(overlay, "\n")
	out := make([]string, height)
	for i := 0; i < height; i++ {
		start, end, ok := visibleSpan(overLines[i], width)
		if !ok {
			out[i] = baseLines[i]
			continue
		}
		left := ansi.Truncate(baseLines[i], start, "")
		segment := ansi.Truncate(dropColumns(overLines[i], start), end-start, "")
		right := dropColumns(baseLines[i], end)
		out[i] = padRightANSI(left+segment+right, width)
	}
	return strings.Join(out, "\n")
}

// visibleSpan returns the column range holding non-space cells.
func visibleSpan(line string, width int) (start, end int, ok bool) {
	plain := ansi.Strip(ansi.Truncate(line, width, ""))
	trimmed := strings.TrimRight(plain, " ")
	if trimmed == "" {
		return 0, 0, false
	}
	for start < len(trimmed) && trimmed[start] == ' ' {
		start++
	}
	return start, ansi.StringWidth(trimmed), true
}

func fitCanvas(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = padRightANSI(lines[i], width)
	}
	return strings.Join(lines, "\n")
}

func dropColumns(s string, cols int) string {
	if cols <= 0 {
		return s
	}
	return ansi.TruncateLeft(s, cols, "")
}

func padRightANSI(s string, width int) string {
	s = ansi.Truncate(s, width, "")
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
