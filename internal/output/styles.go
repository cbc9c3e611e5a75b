package output

import "github.com/charmbracelet/lipgloss"

// Color palette. One accent per marketplace so mixed result lists scan at a
// glance, plus neutral tones for scores and labels.
const (
	ColorStarTech = "196" // red
	ColorDaraz    = "33"  // blue
	ColorWhite    = "255" // headers, titles
	ColorGray     = "245" // labels, secondary text
	ColorDarkGray = "238" // separators
	ColorGreen    = "82"  // prices
	ColorYellow   = "220" // warnings, injected results
)

// Styles holds the lipgloss styles for result rendering.
type Styles struct {
	Header   lipgloss.Style
	Title    lipgloss.Style
	Price    lipgloss.Style
	Score    lipgloss.Style
	Label    lipgloss.Style
	Dim      lipgloss.Style
	Injected lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style

	sources map[string]lipgloss.Style
}

// DefaultStyles returns styled components for terminal output.
func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
		Title:    lipgloss.NewStyle().Bold(true),
		Price:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Score:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Injected: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorStarTech)),

		sources: map[string]lipgloss.Style{
			"startech": lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorStarTech)),
			"daraz":    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorDaraz)),
		},
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle(),
		Title:    lipgloss.NewStyle(),
		Price:    lipgloss.NewStyle(),
		Score:    lipgloss.NewStyle(),
		Label:    lipgloss.NewStyle(),
		Dim:      lipgloss.NewStyle(),
		Injected: lipgloss.NewStyle(),
		Warning:  lipgloss.NewStyle(),
		Error:    lipgloss.NewStyle(),
		sources:  map[string]lipgloss.Style{},
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}

// Source returns the style for a marketplace name, falling back to the
// label style for sources without a dedicated color.
func (s Styles) Source(name string) lipgloss.Style {
	if style, ok := s.sources[normalizeSource(name)]; ok {
		return style
	}
	return s.Label
}
