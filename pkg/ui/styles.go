package ui

import "github.com/charmbracelet/lipgloss"

var (
	neonCyan    = lipgloss.Color("#00FFFF")
	neonMagenta = lipgloss.Color("#FF00FF")
	neonGreen   = lipgloss.Color("#39FF14")
	neonYellow  = lipgloss.Color("#FFFF00")
	neonOrange  = lipgloss.Color("#FF6700")
	neonRed     = lipgloss.Color("#FF0000")
	dimGrey     = lipgloss.Color("#626262")
	emptyGrey   = lipgloss.Color("#333333")
)

// styles are bound to one renderer so colour detection follows the writer
// a Printer prints to rather than stdout.
type styles struct {
	logo      lipgloss.Style
	label     lipgloss.Style
	value     lipgloss.Style
	success   lipgloss.Style
	errorText lipgloss.Style
	warning   lipgloss.Style
	highlight lipgloss.Style
	dim       lipgloss.Style
	panel     lipgloss.Style
	title     lipgloss.Style
	barFull   lipgloss.Style
	barEmpty  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, color bool) styles {
	if !color {
		plain := r.NewStyle()
		return styles{
			logo: plain, label: plain, value: plain, success: plain,
			errorText: plain, warning: plain, highlight: plain, dim: plain,
			panel:    plain.Border(lipgloss.NormalBorder()).Padding(0, 1),
			title:    plain,
			barFull:  plain,
			barEmpty: plain,
		}
	}

	return styles{
		logo:      r.NewStyle().Foreground(neonCyan).Bold(true),
		label:     r.NewStyle().Foreground(neonCyan).Bold(true),
		value:     r.NewStyle().Foreground(neonYellow),
		success:   r.NewStyle().Foreground(neonGreen).Bold(true),
		errorText: r.NewStyle().Foreground(neonRed).Bold(true),
		warning:   r.NewStyle().Foreground(neonOrange).Bold(true),
		highlight: r.NewStyle().Foreground(neonMagenta),
		dim:       r.NewStyle().Foreground(dimGrey),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(neonMagenta).
			Padding(0, 1),
		title: r.NewStyle().
			Background(neonMagenta).
			Foreground(lipgloss.Color("#0A0E27")).
			Bold(true).
			Padding(0, 1),
		barFull:  r.NewStyle().Foreground(neonGreen),
		barEmpty: r.NewStyle().Foreground(emptyGrey),
	}
}

// progressStyle picks the bar colour for a completion percentage
func (s styles) progressStyle(percentage float64) lipgloss.Style {
	switch {
	case percentage >= 80:
		return s.barFull
	case percentage >= 50:
		return s.barFull.Foreground(neonYellow)
	case percentage >= 30:
		return s.barFull.Foreground(neonOrange)
	default:
		return s.barFull.Foreground(neonMagenta)
	}
}
