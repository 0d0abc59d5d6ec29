package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ramanasai/shoppingify/internal/forms"
	"github.com/ramanasai/shoppingify/internal/model"
)

// CategorySource returns the categories to suggest from.
type CategorySource func() []model.Category

// AutocompleteMsg carries fresh suggestions for the current input.
type AutocompleteMsg struct {
	Query       string
	Suggestions []model.Category
}

// CategoryChosenMsg is sent when the user accepts an existing category.
type CategoryChosenMsg struct{ Category model.Category }

// CategoryCreateMsg is sent when the input names a category that does not exist yet.
type CategoryCreateMsg struct{ Name string }

// AutocompleteModel is a text input that suggests categories by prefix and
// offers to create the typed name when nothing matches.
type AutocompleteModel struct {
	input          textinput.Model
	suggestions    []model.Category
	showing        bool
	selected       int
	source         CategorySource
	style          lipgloss.Style
	maxSuggestions int
}

func NewAutocomplete(source CategorySource, maxSuggestions int) AutocompleteModel {
	input := textinput.New()
	input.Placeholder = "Enter a category"
	input.CharLimit = 64
	return AutocompleteModel{
		input:          input,
		source:         source,
		maxSuggestions: maxSuggestions,
		style:          lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (m AutocompleteModel) Update(msg tea.Msg) (AutocompleteModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyTab, tea.KeyDown:
			if m.showing && len(m.suggestions) > 0 {
				m.selected = (m.selected + 1) % len(m.suggestions)
				return m, nil
			}
		case tea.KeyShiftTab, tea.KeyUp:
			if m.showing && len(m.suggestions) > 0 {
				m.selected = (m.selected - 1 + len(m.suggestions)) % len(m.suggestions)
				return m, nil
			}
		case tea.KeyEnter:
			return m.accept()
		case tea.KeyEscape:
			if m.showing {
				m.showing = false
				m.selected = 0
				return m, nil
			}
		}
		old := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != old {
			return m, tea.Batch(cmd, m.fetchSuggestions())
		}
		return m, cmd

	case AutocompleteMsg:
		// drop answers for a query the user has already typed past
		if msg.Query != m.input.Value() {
			return m, nil
		}
		m.suggestions = msg.Suggestions
		m.showing = len(m.suggestions) > 0 && m.input.Value() != ""
		m.selected = 0
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m AutocompleteModel) accept() (AutocompleteModel, tea.Cmd) {
	query := strings.TrimSpace(m.input.Value())
	if m.showing && len(m.suggestions) > 0 {
		c := m.suggestions[m.selected]
		m.input.SetValue(c.Name)
		m.showing = false
		m.selected = 0
		return m, func() tea.Msg { return CategoryChosenMsg{Category: c} }
	}
	if query == "" {
		return m, nil
	}
	f := forms.ItemForm{CategoryQuery: query}
	var all []model.Category
	if m.source != nil {
		all = m.source()
	}
	if f.CanCreateCategory(all) {
		return m, func() tea.Msg { return CategoryCreateMsg{Name: query} }
	}
	// exact or prefix match that was not showing yet
	c := f.FilterCategories(all)[0]
	m.input.SetValue(c.Name)
	return m, func() tea.Msg { return CategoryChosenMsg{Category: c} }
}

func (m AutocompleteModel) fetchSuggestions() tea.Cmd {
	query := m.input.Value()
	source := m.source
	limit := m.maxSuggestions
	return func() tea.Msg {
		if source == nil || strings.TrimSpace(query) == "" {
			return AutocompleteMsg{Query: query}
		}
		f := forms.ItemForm{CategoryQuery: query}
		found := f.FilterCategories(source())
		if limit > 0 && len(found) > limit {
			found = found[:limit]
		}
		return AutocompleteMsg{Query: query, Suggestions: found}
	}
}

func (m AutocompleteModel) View() string {
	var content strings.Builder
	content.WriteString(m.input.View())

	if m.showing && len(m.suggestions) > 0 {
		content.WriteString("\n")
		for i, c := range m.suggestions {
			if i == m.selected {
				content.WriteString(m.style.Copy().Foreground(lipgloss.Color("12")).Render("▶ " + c.Name))
			} else {
				content.WriteString(m.style.Render("  " + c.Name))
			}
			content.WriteString("\n")
		}
	} else if q := strings.TrimSpace(m.input.Value()); q != "" && len(m.suggestions) == 0 && m.input.Focused() {
		content.WriteString("\n")
		content.WriteString(m.style.Render("  enter to create " + q))
	}
	return content.String()
}

func (m AutocompleteModel) Value() string { return m.input.Value() }

func (m *AutocompleteModel) SetValue(value string) { m.input.SetValue(value) }

func (m *AutocompleteModel) Focus() tea.Cmd {
	m.showing = false
	m.selected = 0
	return m.input.Focus()
}

func (m *AutocompleteModel) Blur() {
	m.input.Blur()
	m.showing = false
	m.selected = 0
}

func (m AutocompleteModel) Focused() bool { return m.input.Focused() }

func (m *AutocompleteModel) SetWidth(width int) { m.input.Width = width }

func (m AutocompleteModel) Showing() bool { return m.showing }

// Reset clears the input and any suggestions.
func (m *AutocompleteModel) Reset() {
	m.input.Reset()
	m.suggestions = nil
	m.showing = false
	m.selected = 0
}
