package ui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Category lipgloss.Style
	Selected lipgloss.Style
	Checked  lipgloss.Style
	Pane     lipgloss.Style
	PaneDim  lipgloss.Style
	Hint     lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Modal    lipgloss.Style
}

var DefaultTheme = Theme{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	Label:    lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#89B4FA")),
	Value:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F2CDCD")),
	Category: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89B4FA")),
	Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9E2AF")),
	Checked:  lipgloss.NewStyle().Faint(true).Strikethrough(true),
	Pane:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#CBA6F7")).Padding(0, 1),
	PaneDim:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#45475A")).Padding(0, 1),
	Hint:     lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#CBA6F7")),
	Error:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
	Success:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
	Modal:    lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#FAB387")).Padding(1, 2),
}

// MonoTheme avoids colour for terminals that render it badly.
var MonoTheme = Theme{
	Title:    lipgloss.NewStyle().Bold(true),
	Label:    lipgloss.NewStyle().Faint(true),
	Value:    lipgloss.NewStyle(),
	Category: lipgloss.NewStyle().Bold(true).Underline(true),
	Selected: lipgloss.NewStyle().Reverse(true),
	Checked:  lipgloss.NewStyle().Strikethrough(true),
	Pane:     lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	PaneDim:  lipgloss.NewStyle().Border(lipgloss.HiddenBorder()).Padding(0, 1),
	Hint:     lipgloss.NewStyle().Faint(true),
	Error:    lipgloss.NewStyle().Bold(true),
	Success:  lipgloss.NewStyle().Bold(true),
	Modal:    lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(1, 2),
}

// ThemeByName maps the config "theme" key; unknown names get DefaultTheme.
func ThemeByName(name string) Theme {
	if name == "mono" {
		return MonoTheme
	}
	return DefaultTheme
}
