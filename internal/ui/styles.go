package ui

import (
	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent    = lipgloss.Color("#FF8C42")
	highlight = lipgloss.Color("#FFB84D")
	muted     = lipgloss.Color("#6B7280")
	plain     = lipgloss.Color("#FFFFFF")
	danger    = lipgloss.Color("#FF4757")

	// same fills the xlsx report uses for changed cells
	added   = lipgloss.Color("#C6EFCE")
	removed = lipgloss.Color("#FFC7CE")
)

// Styles are derived from two bases; lipgloss styles copy on every call,
// so the bases are never mutated.
var (
	bold = lipgloss.NewStyle().Bold(true)
	dim  = lipgloss.NewStyle().Foreground(muted)

	TitleStyle    = bold.Foreground(accent).MarginTop(1)
	SubtitleStyle = dim.MarginBottom(1)
	HelpStyle     = dim.MarginTop(1)
	LabelStyle    = dim.Width(18)
	LinkStyle     = lipgloss.NewStyle().Foreground(highlight).Underline(true)

	SelectedStyle   = bold.Foreground(accent)
	UnselectedStyle = lipgloss.NewStyle().Foreground(plain)
	CheckedStyle    = bold.Foreground(highlight)

	SuccessStyle = bold.Foreground(highlight)
	ErrorStyle   = bold.Foreground(danger)
	AddedStyle   = lipgloss.NewStyle().Foreground(added)
	RemovedStyle = lipgloss.NewStyle().Foreground(removed)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)
)

// pickerStyles themes the file picker with the palette above.
func pickerStyles() filepicker.Styles {
	s := filepicker.DefaultStyles()
	s.Cursor = lipgloss.NewStyle().Foreground(accent)
	s.Symlink = lipgloss.NewStyle().Foreground(highlight)
	s.Directory = lipgloss.NewStyle().Foreground(highlight)
	s.File = UnselectedStyle
	s.Permission = dim
	s.Selected = SelectedStyle
	s.FileSize = dim
	return s
}
