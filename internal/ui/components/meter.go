package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/01Taka/rooted/internal/ui/theme"
)

// Meter is a text progress bar counting toward a goal, such as sprouting
// check-ins or consecutive study days.
type Meter struct {
	Value int
	Goal  int
	Width int
	Color color.Color
}

// NewMeter creates a meter of the given bar width.
func NewMeter(value, goal, width int, c color.Color) Meter {
	return Meter{Value: value, Goal: goal, Width: width, Color: c}
}

// View renders the bar followed by "value/goal".
func (m Meter) View() string {
	width := max(m.Width, 4)
	filled := 0
	if m.Goal > 0 {
		filled = width * min(max(m.Value, 0), m.Goal) / m.Goal
	}

	bar := lipgloss.NewStyle().Foreground(m.Color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", width-filled))

	return bar + lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %d/%d", m.Value, m.Goal))
}
