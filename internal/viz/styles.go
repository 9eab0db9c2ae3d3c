package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func headerStyle() lipgloss.Style { return fg(CurrentTheme.Primary).Bold(true).MarginBottom(1) }
func labelStyle() lipgloss.Style  { return fg(CurrentTheme.Muted).Width(14) }
func valueStyle() lipgloss.Style  { return fg(CurrentTheme.Text) }
func graphStyle() lipgloss.Style  { return fg(CurrentTheme.Accent).Padding(1, 0) }
func helpStyle() lipgloss.Style   { return fg(CurrentTheme.Muted).MarginTop(1) }

func panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentTheme.Muted).
		Padding(1, 2)
}

func AnimatedSpinner(frame int) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%len(spinners)]
}

// ProgressBar renders a fill fraction. A full bank reads as a warning.
func ProgressBar(fraction float64, width int) string {
	filled := min(max(int(fraction*float64(width)), 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	switch {
	case fraction >= 1:
		return fg(CurrentTheme.Error).Render(bar)
	case fraction > 0.8:
		return fg(CurrentTheme.Warning).Render(bar)
	}
	return fg(CurrentTheme.Success).Render(bar)
}

// SparklineChart renders the most recent width values as block characters.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		b.WriteRune(chars[min(max(idx, 0), len(chars)-1)])
	}
	return fg(CurrentTheme.Accent).Render(b.String())
}

func Separator(width int) string {
	mid := width / 2
	return fg(CurrentTheme.Muted).Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}
