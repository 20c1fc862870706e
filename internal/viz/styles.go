package viz

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the set of lipgloss styles derived from a theme.
type Styles struct {
	Panel           lipgloss.Style
	Title           lipgloss.Style
	Subtle          lipgloss.Style
	StatusRunning   lipgloss.Style
	StatusPaused    lipgloss.Style
	StatusRecording lipgloss.Style
	StatusFault     lipgloss.Style
	MetricValue     lipgloss.Style
	MetricLabel     lipgloss.Style
	KeyHint         lipgloss.Style
	SparkHigh       lipgloss.Style
	SparkMid        lipgloss.Style
	SparkLow        lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2).
			Width(panelWidth),
		Title:           lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		Subtle:          lipgloss.NewStyle().Foreground(t.Muted),
		StatusRunning:   lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		StatusPaused:    lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		StatusRecording: lipgloss.NewStyle().Bold(true).Foreground(t.Error).Blink(true),
		StatusFault:     lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		MetricValue:     lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		MetricLabel:     lipgloss.NewStyle().Foreground(t.Secondary).Width(12),
		KeyHint:         lipgloss.NewStyle().Italic(true).Foreground(t.Muted),
		SparkHigh:       lipgloss.NewStyle().Foreground(t.Success),
		SparkMid:        lipgloss.NewStyle().Foreground(t.Warning),
		SparkLow:        lipgloss.NewStyle().Foreground(t.Error),
	}
}

// Sparkline renders the last width values as block characters scaled
// between their min and max.
func (s Styles) Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return s.Subtle.Render(strings.Repeat("─", width))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		c := string(chars[idx])
		switch {
		case norm > 0.7:
			b.WriteString(s.SparkHigh.Render(c))
		case norm > 0.3:
			b.WriteString(s.SparkMid.Render(c))
		default:
			b.WriteString(s.SparkLow.Render(c))
		}
	}
	return b.String()
}

// ProgressBar renders fraction in [0, 1] as a filled bar.
func (s Styles) ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case fraction > 0.8:
		return s.SparkHigh.Render(bar)
	case fraction > 0.4:
		return s.SparkMid.Render(bar)
	}
	return s.SparkLow.Render(bar)
}

func (s Styles) Separator(width int) string {
	mid := width / 2
	return s.Subtle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}

func hexColor(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
