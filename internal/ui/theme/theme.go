package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/01Taka/rooted/internal/stage"
)

// Color palette, one hue per growth stage
var (
	Primary  = lipgloss.Color("#8B5CF6") // Vivid Purple
	Seedling = lipgloss.Color("#A3E635") // Lime
	Bud      = lipgloss.Color("#14B8A6") // Teal
	Bloom    = lipgloss.Color("#EC4899") // Pink
	Mastery  = lipgloss.Color("#F97316") // Orange
	Fame     = lipgloss.Color("#FACC15") // Gold
	Success  = lipgloss.Color("#22C55E") // Green
	Error    = lipgloss.Color("#F43F5E") // Rose
	Text     = lipgloss.Color("#F8FAFC") // White
	TextDim  = lipgloss.Color("#94A3B8") // Slate
	Border   = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Label = lipgloss.NewStyle().
		Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	HeaderCell = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextDim).
			PaddingRight(2)

	Cell = lipgloss.NewStyle().
		Foreground(Text).
		PaddingRight(2)
)

// States
var (
	Due = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	NotDue = lipgloss.NewStyle().
		Foreground(Success)

	Greenhouse = lipgloss.NewStyle().
			Foreground(Bud).
			Italic(true)
)

// StageColor returns the hue of a growth stage.
func StageColor(s stage.Stage) color.Color {
	switch s {
	case stage.Sprouting:
		return Seedling
	case stage.Budding:
		return Bud
	case stage.Blooming:
		return Bloom
	case stage.Mastered:
		return Mastery
	case stage.HallOfFame:
		return Fame
	}
	return TextDim
}

// StageBadge renders the stage name in its color.
func StageBadge(s stage.Stage) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(StageColor(s)).
		Render(string(s))
}

// Plain strips styling from rendered output.
func Plain(s string) string {
	return ansi.Strip(s)
}
