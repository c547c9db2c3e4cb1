package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha subset.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPink)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorLavender)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorSubtext0)
	statusStyle   = lipgloss.NewStyle().Foreground(colorTeal)
	errorStyle    = lipgloss.NewStyle().Foreground(colorRed)
	footerStyle   = lipgloss.NewStyle().Foreground(colorOverlay0)
	personStyle   = lipgloss.NewStyle().Foreground(colorBlue)
	vehicleStyle  = lipgloss.NewStyle().Foreground(colorPeach)
	tagStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	labelStyle    = lipgloss.NewStyle().Foreground(colorSubtext0).Width(12)
	searchStyle   = lipgloss.NewStyle().Foreground(colorText)
	detailCard    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorLavender).Padding(1, 2)
	closingCard   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorSurface1).Foreground(colorOverlay0).Padding(1, 2)
	confirmCard   = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(colorRed).Padding(1, 2)
	dangerStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

func kindStyle(kind string) lipgloss.Style {
	if kind == "vehicle" {
		return vehicleStyle
	}
	return personStyle
}
