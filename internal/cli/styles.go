package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sprite-ai/refmark/internal/model"
)

// Color palette.
var (
	colorRed    = lipgloss.Color("#ff5555")
	colorGreen  = lipgloss.Color("#50fa7b")
	colorYellow = lipgloss.Color("#f1fa8c")
	colorBlue   = lipgloss.Color("#8be9fd")
	colorPurple = lipgloss.Color("#bd93f9")
	colorDim    = lipgloss.Color("#6272a4")
	colorFg     = lipgloss.Color("#f8f8f2")
	colorOrange = lipgloss.Color("#ffb86c")
)

// Style definitions.
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	nameStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	leafStyle = lipgloss.NewStyle().
			Foreground(colorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	beforeStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	afterStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	// Risk level styles
	riskStyles = map[model.RiskLevel]lipgloss.Style{
		model.RiskCritical: lipgloss.NewStyle().Foreground(colorRed).Bold(true),
		model.RiskHigh:     lipgloss.NewStyle().Foreground(colorRed),
		model.RiskMedium:   lipgloss.NewStyle().Foreground(colorOrange),
		model.RiskLow:      lipgloss.NewStyle().Foreground(colorYellow),
		model.RiskInfo:     lipgloss.NewStyle().Foreground(colorDim),
	}
)

func riskIcon(r model.RiskLevel) string {
	icon := "  "
	switch r {
	case model.RiskCritical:
		icon = "!!"
	case model.RiskHigh:
		icon = "! "
	case model.RiskMedium:
		icon = "* "
	case model.RiskLow:
		icon = "- "
	}
	return riskStyles[r].Render(icon)
}
