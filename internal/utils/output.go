package utils

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gosuri/uitable"

	"github.com/ramanasai/shoppingify/internal/group"
	"github.com/ramanasai/shoppingify/internal/model"
)

// OutputFormat represents different output formats
type OutputFormat string

const (
	FormatDefault OutputFormat = "default"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
	FormatCompact OutputFormat = "compact"
	FormatQuiet   OutputFormat = "quiet"
)

// ParseFormat accepts the --format flag value; empty means default.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatDefault, nil
	case FormatDefault, FormatTable, FormatJSON, FormatCSV, FormatCompact, FormatQuiet:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (default, table, json, csv, compact, quiet)", s)
}

// RenderConfig contains configuration for output rendering
type RenderConfig struct {
	Format   OutputFormat
	Width    int
	ShowID   bool
	Color    bool
	Location *time.Location
}

// DefaultRenderConfig returns a default render configuration
func DefaultRenderConfig() *RenderConfig {
	width := 100
	if colEnv := os.Getenv("COLUMNS"); colEnv != "" {
		if v, err := strconv.Atoi(colEnv); err == nil && v > 40 {
			width = v
		}
	}
	return &RenderConfig{
		Format:   FormatDefault,
		Width:    width,
		Color:    true,
		Location: time.Local,
	}
}

// Renderer handles output formatting
type Renderer struct {
	config *RenderConfig
	styles *Styles
}

// Styles contains lipgloss styles for different elements
type Styles struct {
	Title     lipgloss.Style
	Separator lipgloss.Style
	Meta      lipgloss.Style
	ID        lipgloss.Style
	Category  lipgloss.Style
	Checked   lipgloss.Style
	Quantity  lipgloss.Style
	Success   lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
}

func NewRenderer(config *RenderConfig) *Renderer {
	if config == nil {
		config = DefaultRenderConfig()
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	return &Renderer{config: config, styles: initStyles(config.Color)}
}

func initStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		bold := plain.Copy().Bold(true)
		return &Styles{
			Title: bold, Separator: plain, Meta: plain, ID: plain, Category: bold,
			Checked: plain.Copy().Strikethrough(true), Quantity: plain, Success: plain, Error: plain, Warning: plain,
		}
	}
	return &Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Meta:      lipgloss.NewStyle().Faint(true),
		ID:        lipgloss.NewStyle().Faint(true),
		Category:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89B4FA")),
		Checked:   lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Quantity:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		Success:   lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387")),
	}
}

func (r *Renderer) rule() string {
	return r.styles.Separator.Render(strings.Repeat("─", min(r.config.Width, 120)))
}

func (r *Renderer) date(t time.Time) string {
	return t.In(r.config.Location).Format("Mon 2006-01-02")
}

// RenderList renders one shopping list with its entries grouped by category.
func (r *Renderer) RenderList(l *model.ShoppingList) (string, error) {
	if r.config.Format == FormatJSON {
		return renderJSON(l)
	}
	if l == nil {
		return r.styles.Meta.Render("No items") + "\n", nil
	}

	switch r.config.Format {
	case FormatCSV:
		rows := [][]string{{"item_id", "name", "category", "quantity", "checked"}}
		for _, e := range l.Items {
			rows = append(rows, []string{e.ItemID, e.Name, e.CategoryName, strconv.Itoa(e.Quantity), strconv.FormatBool(e.Checked)})
		}
		return renderCSV(rows)
	case FormatQuiet:
		var b strings.Builder
		for _, e := range l.Items {
			fmt.Fprintf(&b, "%s\n", e.Name)
		}
		return b.String(), nil
	case FormatTable:
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow("CATEGORY", "ITEM", "QTY", "DONE")
		for _, e := range l.Items {
			tbl.AddRow(e.CategoryName, e.Name, e.Quantity, checkMark(e.Checked))
		}
		tbl.RightAlign(2)
		return tbl.String() + "\n", nil
	}

	var b strings.Builder
	b.WriteString(r.styles.Title.Render(l.Name))
	b.WriteString("  ")
	b.WriteString(r.styles.Meta.Render(fmt.Sprintf("%s · %s", l.State, r.date(l.UpdatedAt))))
	if r.config.ShowID && l.ID != "" {
		b.WriteString("  ")
		b.WriteString(r.styles.ID.Render("[" + l.ID + "]"))
	}
	b.WriteString("\n")
	if r.config.Format != FormatCompact {
		b.WriteString(r.rule())
		b.WriteString("\n")
	}
	if l.IsEmpty() {
		b.WriteString(r.styles.Meta.Render("  No items"))
		b.WriteString("\n")
		return b.String(), nil
	}
	for _, g := range group.ByCategory(l.Items) {
		b.WriteString(r.styles.Category.Render(g.Label))
		b.WriteString("\n")
		for _, e := range g.Items {
			name := e.Name
			if e.Checked {
				name = r.styles.Checked.Render(name)
			}
			fmt.Fprintf(&b, "  %s %s %s\n", checkMark(e.Checked), name, r.styles.Quantity.Render(fmt.Sprintf("%d pcs", e.Quantity)))
		}
	}
	if r.config.Format != FormatCompact {
		b.WriteString(r.styles.Meta.Render(fmt.Sprintf("%d pending of %d items", l.Pending(), len(l.Items))))
		b.WriteString("\n")
	}
	return b.String(), nil
}

func checkMark(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

// RenderHistory renders a page of past lists, newest first.
func (r *Renderer) RenderHistory(page *model.ListPage) (string, error) {
	switch r.config.Format {
	case FormatJSON:
		return renderJSON(page)
	case FormatCSV:
		rows := [][]string{{"id", "name", "state", "items", "updated_at"}}
		for _, l := range page.Lists {
			rows = append(rows, []string{l.ID, l.Name, string(l.State), strconv.Itoa(l.TotalQuantity()), l.UpdatedAt.Format(time.RFC3339)})
		}
		return renderCSV(rows)
	case FormatQuiet:
		var b strings.Builder
		for _, l := range page.Lists {
			fmt.Fprintf(&b, "%s\n", l.ID)
		}
		return b.String(), nil
	}

	var b strings.Builder
	b.WriteString(r.styles.Title.Render("Shopping history"))
	b.WriteString("\n")
	b.WriteString(r.rule())
	b.WriteString("\n")

	p := NewPagination(page.Total, max(page.PerPage, 1), page.Page)
	if len(page.Lists) == 0 {
		b.WriteString(r.styles.Meta.Render(p.FormatSummary()))
		b.WriteString("\n")
		return b.String(), nil
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	if r.config.Format == FormatTable {
		tbl.AddRow("DATE", "NAME", "STATE", "ITEMS", "ID")
	}
	for _, l := range page.Lists {
		tbl.AddRow(r.date(l.UpdatedAt), l.Name, r.stateLabel(l.State), l.TotalQuantity(), r.styles.ID.Render(l.ID))
	}
	b.WriteString(tbl.String())
	b.WriteString("\n")

	if r.config.Format != FormatCompact {
		b.WriteString(r.styles.Meta.Render(p.FormatSummary()))
		b.WriteString("\n")
		if nav := p.FormatNavigation(); nav != "" {
			b.WriteString(r.styles.Meta.Render(nav))
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}

func (r *Renderer) stateLabel(s model.ListState) string {
	switch s {
	case model.ListCompleted:
		return r.styles.Success.Render("completed")
	case model.ListCanceled:
		return r.styles.Error.Render("cancelled")
	default:
		return r.styles.Warning.Render("open")
	}
}

// RenderCatalog renders items grouped by category.
func (r *Renderer) RenderCatalog(cat model.Catalog) (string, error) {
	switch r.config.Format {
	case FormatJSON:
		return renderJSON(cat)
	case FormatCSV:
		rows := [][]string{{"id", "name", "category", "note", "image_url"}}
		for _, it := range cat.Items {
			rows = append(rows, []string{it.ID, it.Name, it.CategoryName, it.Description, it.ImageURL})
		}
		return renderCSV(rows)
	case FormatQuiet:
		var b strings.Builder
		for _, it := range cat.Items {
			fmt.Fprintf(&b, "%s\n", it.Name)
		}
		return b.String(), nil
	}

	if len(cat.Items) == 0 {
		return r.styles.Meta.Render("No items yet; add one with `shoppingify item add`") + "\n", nil
	}
	var b strings.Builder
	for _, g := range group.ByCategory(cat.Items) {
		b.WriteString(r.styles.Category.Render(g.Label))
		b.WriteString("\n")
		tbl := uitable.New()
		tbl.Separator = "  "
		for _, it := range g.Items {
			if r.config.ShowID {
				tbl.AddRow("", it.Name, r.styles.ID.Render(it.ID))
			} else {
				tbl.AddRow("", it.Name)
			}
		}
		b.WriteString(tbl.String())
		b.WriteString("\n")
	}
	return b.String(), nil
}

// RenderItem renders the item-info view.
func (r *Renderer) RenderItem(it model.Item) (string, error) {
	if r.config.Format == FormatJSON {
		return renderJSON(it)
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = uint(max(r.config.Width-12, 20))
	tbl.AddRow("name", r.styles.Title.Render(it.Name))
	tbl.AddRow("category", it.CategoryName)
	if it.Description != "" {
		tbl.AddRow("note", it.Description)
	}
	if it.ImageURL != "" {
		tbl.AddRow("image", it.ImageURL)
	}
	tbl.AddRow("id", r.styles.ID.Render(it.ID))
	return tbl.String() + "\n", nil
}

// RenderStats renders top items, top categories and monthly totals.
func (r *Renderer) RenderStats(st model.Stats) (string, error) {
	if r.config.Format == FormatJSON {
		return renderJSON(st)
	}

	var b strings.Builder
	section := func(title string, rows []model.NamedCount) {
		b.WriteString(r.styles.Title.Render(title))
		b.WriteString("\n")
		if len(rows) == 0 {
			b.WriteString(r.styles.Meta.Render("  nothing completed yet"))
			b.WriteString("\n")
			return
		}
		tbl := uitable.New()
		tbl.Separator = "  "
		for _, nc := range rows {
			tbl.AddRow("", nc.Name, fmt.Sprintf("%.1f%%", nc.Percent), bar(nc.Percent, 20))
		}
		b.WriteString(tbl.String())
		b.WriteString("\n")
	}
	section("Top items", st.TopItems)
	b.WriteString("\n")
	section("Top categories", st.TopCategories)

	if len(st.Monthly) > 0 {
		b.WriteString("\n")
		b.WriteString(r.styles.Title.Render("Monthly summary"))
		b.WriteString("\n")
		tbl := uitable.New()
		tbl.Separator = "  "
		for _, m := range st.Monthly {
			tbl.AddRow("", m.Month, m.Items)
		}
		tbl.RightAlign(2)
		b.WriteString(tbl.String())
		b.WriteString("\n")
	}
	return b.String(), nil
}

func bar(percent float64, width int) string {
	n := int(percent / 100 * float64(width))
	if n > width {
		n = width
	}
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

func renderJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data) + "\n", nil
}

func renderCSV(rows [][]string) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return b.String(), nil
}
