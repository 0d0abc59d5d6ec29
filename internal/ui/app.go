// Package ui is the terminal front end: the catalog on the left, the side
// panel (shopping list, item info or new-item form) on the right, plus
// history and statistics views. All state lives in the *store.Store.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/ramanasai/shoppingify/internal/db"
	"github.com/ramanasai/shoppingify/internal/forms"
	"github.com/ramanasai/shoppingify/internal/group"
	"github.com/ramanasai/shoppingify/internal/model"
	"github.com/ramanasai/shoppingify/internal/store"
	"github.com/ramanasai/shoppingify/internal/utils"
)

type view int
type focusPane int

const (
	viewShopping view = iota
	viewHistory
	viewHistoryDetail
	viewStats
)

const (
	focusCatalog focusPane = iota
	focusSide
)

// item form fields, in tab order
const (
	fieldName = iota
	fieldNote
	fieldImage
	fieldCategory
	fieldCount
)

// Options configures the UI. The zero value is usable.
type Options struct {
	Theme    string
	Location *time.Location
	Log      *zap.Logger
	// OnClosed runs after the active list was completed or cancelled.
	OnClosed func(*model.ShoppingList)
}

type Model struct {
	ctx   context.Context
	store *store.Store
	opts  Options
	th    Theme
	log   *zap.Logger

	width, height int

	// hydrated is set once the first load finished; it never resets.
	hydrated bool
	snap     store.State
	view     view
	focus    focusPane

	catalogCursor int
	listCursor    int
	historyCursor int

	confirmCancel bool

	renaming  bool
	nameInput textinput.Model
	nameForm  forms.ListNameForm

	itemForm   forms.ItemForm
	formInputs []textinput.Model
	category   AutocompleteModel
	formField  int

	history   model.ListPage
	detail    *model.ShoppingList
	detailErr string
	stats     *model.Stats

	status    string
	statusErr bool
}

func New(ctx context.Context, s *store.Store, opts Options) Model {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}

	name := textinput.New()
	name.Placeholder = "Enter a name"
	name.CharLimit = 80
	note := textinput.New()
	note.Placeholder = "Enter a note"
	note.CharLimit = 500
	image := textinput.New()
	image.Placeholder = "Enter a url"
	image.CharLimit = 500

	listName := textinput.New()
	listName.Placeholder = "Enter a name"
	listName.CharLimit = 80

	m := Model{
		ctx:        ctx,
		store:      s,
		opts:       opts,
		th:         ThemeByName(opts.Theme),
		log:        opts.Log.Named("ui"),
		formInputs: []textinput.Model{name, note, image},
		category:   NewAutocomplete(s.Categories, 5),
		nameInput:  listName,
		formField:  -1,
	}
	m.snap = s.Snapshot()
	m.hydrated = m.snap.Hydrated
	m.history = m.snap.History
	return m
}

// Run starts the full-screen program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, s *store.Store, opts Options) error {
	p := tea.NewProgram(New(ctx, s, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	if m.hydrated {
		return nil
	}
	return m.hydrateCmd()
}

// ---------- messages & commands ----------

type hydratedMsg struct{ err error }

type syncedMsg struct{ status string }

type closedMsg struct {
	list *model.ShoppingList
	err  error
}

type renamedMsg struct {
	form forms.ListNameForm
	err  error
}

type historyMsg struct {
	page model.ListPage
	err  error
}

type detailMsg struct {
	list *model.ShoppingList
	err  error
}

type statsMsg struct {
	stats model.Stats
	err   error
}

type itemSavedMsg struct {
	item model.Item
	form forms.ItemForm
	err  error
}

type categorySavedMsg struct {
	category model.Category
	err      error
}

type itemDeletedMsg struct {
	name string
	err  error
}

func (m Model) hydrateCmd() tea.Cmd {
	ctx, s := m.ctx, m.store
	return func() tea.Msg { return hydratedMsg{err: s.Hydrate(ctx)} }
}

// mutate runs a list action off the update loop. List actions never fail
// from the caller's point of view; sync problems are logged by the store.
func (m Model) mutate(status string, fn func(ctx context.Context, s *store.Store)) tea.Cmd {
	ctx, s := m.ctx, m.store
	return func() tea.Msg {
		fn(ctx, s)
		return syncedMsg{status: status}
	}
}

func (m Model) closeCmd(state model.ListState) tea.Cmd {
	ctx, s := m.ctx, m.store
	return func() tea.Msg {
		closed, err := s.SetListState(ctx, state)
		if err != nil || closed == nil {
			return closedMsg{err: err}
		}
		// another device may already have started the next list
		_ = s.FetchNewActiveList(ctx)
		return closedMsg{list: closed}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	ctx, s := m.ctx, m.store
	return func() tea.Msg {
		if err := s.FetchNewActiveList(ctx); err != nil {
			return syncedMsg{status: "Could not refresh the list"}
		}
		return syncedMsg{status: "List refreshed"}
	}
}

func (m Model) historyCmd(page int) tea.Cmd {
	ctx, s := m.ctx, m.store
	return func() tea.Msg {
		p, err := s.LoadHistory(ctx, model.HistoryQuery{Page: page})
		return historyMsg{page: p, err: err}
	}
}

func (m Model) detailCmd(id string) tea.Cmd {
	ctx, s := m.ctx, m.store
	return func() tea.Msg {
		l, err := s.HistoryList(ctx, id)
		return detailMsg{list: l, err: err}
	}
}

func (m Model) statsCmd() tea.Cmd {
	ctx, s := m.ctx, m.store
	return func() tea.Msg {
		st, err := s.Stats(ctx)
		return statsMsg{stats: st, err: err}
	}
}

func (m Model) createCategoryCmd() tea.Cmd {
	ctx, s := m.ctx, m.store
	f := m.itemForm
	return func() tea.Msg {
		c, err := f.CreateCategory(ctx, s)
		return categorySavedMsg{category: c, err: err}
	}
}

func (m Model) deleteItemCmd(it model.Item) tea.Cmd {
	ctx, s := m.ctx, m.store
	return func() tea.Msg {
		return itemDeletedMsg{name: it.Name, err: s.DeleteItem(ctx, it.ID)}
	}
}

// ---------- Update ----------

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case hydratedMsg:
		m.hydrated = true
		m.refresh()
		m.history = m.snap.History
		if msg.err != nil {
			m.setError(msg.err)
		}
		return m, nil

	case syncedMsg:
		m.refresh()
		if msg.status != "" {
			m.setStatus(msg.status)
		}
		return m, nil

	case closedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.refresh()
		m.history = m.snap.History
		m.listCursor = 0
		if msg.list == nil {
			m.setStatus("No items")
			return m, nil
		}
		m.setStatus(fmt.Sprintf("%s %s", msg.list.Name, stateWord(msg.list.State)))
		if m.opts.OnClosed != nil {
			m.opts.OnClosed(msg.list)
		}
		return m, nil

	case renamedMsg:
		if msg.err != nil {
			m.nameForm = msg.form
			if !errors.Is(msg.err, forms.ErrInvalid) {
				m.setError(msg.err)
			}
			return m, nil
		}
		m.renaming = false
		m.nameInput.Blur()
		m.nameForm = forms.ListNameForm{}
		m.refresh()
		m.setStatus("List renamed")
		return m, nil

	case historyMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.history = msg.page
		m.historyCursor = 0
		m.view = viewHistory
		return m, nil

	case detailMsg:
		m.view = viewHistoryDetail
		m.detail, m.detailErr = msg.list, ""
		if msg.err != nil {
			m.detail = nil
			m.detailErr = "not found"
			if !errors.Is(msg.err, db.ErrNotFound) {
				m.log.Warn("loading history list", zap.Error(msg.err))
			}
		}
		return m, nil

	case statsMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.stats = &msg.stats
		m.view = viewStats
		return m, nil

	case itemSavedMsg:
		if msg.err != nil {
			m.itemForm = msg.form
			m.setError(msg.err)
			return m, nil
		}
		m.resetForm()
		m.refresh()
		m.setStatus("Created " + msg.item.Name)
		return m, nil

	case categorySavedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.itemForm.SelectCategory(msg.category)
		m.category.SetValue(msg.category.Name)
		m.refresh()
		m.setStatus("Created category " + msg.category.Name)
		return m, nil

	case itemDeletedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.store.PopSidePanel()
		m.refresh()
		m.catalogCursor = clamp(m.catalogCursor, 0, len(m.catalogRows())-1)
		m.setStatus("Deleted " + msg.name)
		return m, nil

	case AutocompleteMsg:
		var cmd tea.Cmd
		m.category, cmd = m.category.Update(msg)
		return m, cmd

	case CategoryChosenMsg:
		m.itemForm.SelectCategory(msg.Category)
		return m, nil

	case CategoryCreateMsg:
		m.itemForm.CategoryQuery = msg.Name
		return m, m.createCategoryCmd()

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	// cursor blinks and the like
	var cmds []tea.Cmd
	for i := range m.formInputs {
		var cmd tea.Cmd
		m.formInputs[i], cmd = m.formInputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.category, cmd = m.category.Update(msg)
	cmds = append(cmds, cmd)
	m.nameInput, cmd = m.nameInput.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == "ctrl+c" {
		return m, tea.Quit
	}
	if !m.hydrated {
		if k == "q" {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.confirmCancel {
		switch k {
		case "y", "Y", "enter":
			m.confirmCancel = false
			return m, m.closeCmd(model.ListCanceled)
		case "n", "N", "esc":
			m.confirmCancel = false
			m.setStatus("Kept the list")
		}
		return m, nil
	}
	if m.renaming {
		return m.updateRename(msg)
	}

	switch m.view {
	case viewHistory:
		return m.updateHistory(k)
	case viewHistoryDetail:
		switch k {
		case "esc", "backspace", "left", "q":
			m.view = viewHistory
		}
		return m, nil
	case viewStats:
		switch k {
		case "esc", "q", "s", "S":
			m.view = viewShopping
		}
		return m, nil
	}

	if m.focus == focusSide && m.snap.Panel == model.PanelItemForm {
		return m.updateForm(msg)
	}
	return m.updateShopping(k)
}

func (m Model) updateShopping(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "q":
		return m, tea.Quit
	case "tab", "shift+tab":
		if m.focus == focusCatalog {
			m.focus = focusSide
		} else {
			m.focus = focusCatalog
		}
		return m, nil
	case "H":
		return m, m.historyCmd(1)
	case "S":
		return m, m.statsCmd()
	case "R":
		return m, m.refreshCmd()
	case "n":
		if m.snap.Panel != model.PanelItemForm {
			m.store.SetActiveSidePanel(model.PanelItemForm)
			m.refresh()
		}
		m.focus = focusSide
		return m, m.focusField(fieldName)
	case "esc":
		if m.snap.Panel != model.PanelShoppingList {
			m.store.PopSidePanel()
			m.refresh()
		}
		return m, nil
	}

	if m.focus == focusCatalog {
		return m.updateCatalog(k)
	}
	if m.snap.Panel == model.PanelItemInfo {
		return m.updateItemInfo(k)
	}
	return m.updateList(k)
}

func (m Model) updateCatalog(k string) (tea.Model, tea.Cmd) {
	items := m.catalogRows()
	if len(items) == 0 {
		return m, nil
	}
	switch k {
	case "up", "k":
		m.catalogCursor = clamp(m.catalogCursor-1, 0, len(items)-1)
	case "down", "j":
		m.catalogCursor = clamp(m.catalogCursor+1, 0, len(items)-1)
	case "enter", "a", "+":
		it := items[m.catalogCursor]
		return m, m.mutate("Added "+it.Name, func(ctx context.Context, s *store.Store) {
			s.AddItemToList(ctx, it)
		})
	case "i":
		it := items[m.catalogCursor]
		m.store.SetCurrentItem(it)
		if m.snap.Panel != model.PanelItemInfo {
			m.store.SetActiveSidePanel(model.PanelItemInfo)
		}
		m.refresh()
	}
	return m, nil
}

func (m Model) updateItemInfo(k string) (tea.Model, tea.Cmd) {
	it := m.snap.CurrentItem
	if it == nil {
		m.store.PopSidePanel()
		m.refresh()
		return m, nil
	}
	switch k {
	case "a", "enter":
		item := *it
		return m, m.mutate("Added "+item.Name, func(ctx context.Context, s *store.Store) {
			s.AddItemToList(ctx, item)
		})
	case "D", "delete":
		return m, m.deleteItemCmd(*it)
	case "backspace", "left":
		m.store.PopSidePanel()
		m.refresh()
	}
	return m, nil
}

func (m Model) updateList(k string) (tea.Model, tea.Cmd) {
	l := m.snap.ActiveList
	entries := m.listRows()

	switch k {
	case "up", "k":
		m.listCursor = clamp(m.listCursor-1, 0, len(entries)-1)
		return m, nil
	case "down", "j":
		m.listCursor = clamp(m.listCursor+1, 0, len(entries)-1)
		return m, nil
	case "e":
		mode := m.store.ToggleUIMode()
		m.refresh()
		m.setStatus(strings.ToLower(mode.String()))
		return m, nil
	case "r":
		if m.nameForm.Disabled(l) {
			m.setStatus("Add items before naming the list")
			return m, nil
		}
		m.renaming = true
		m.nameInput.SetValue(l.Name)
		return m, m.nameInput.Focus()
	case "c":
		if l.IsEmpty() {
			m.setStatus("No items")
			return m, nil
		}
		if m.snap.Mode != model.ModeCompleting {
			m.setStatus("Press e to start completing")
			return m, nil
		}
		return m, m.closeCmd(model.ListCompleted)
	case "C":
		if l.IsEmpty() {
			m.setStatus("No items")
			return m, nil
		}
		m.confirmCancel = true
		return m, nil
	}

	if len(entries) == 0 {
		return m, nil
	}
	e := entries[clamp(m.listCursor, 0, len(entries)-1)]
	switch k {
	case "+", "=":
		return m, m.mutate("", func(ctx context.Context, s *store.Store) {
			s.SetEntryQuantity(ctx, e.ItemID, e.Quantity+1)
		})
	case "-":
		return m, m.mutate("", func(ctx context.Context, s *store.Store) {
			s.SetEntryQuantity(ctx, e.ItemID, e.Quantity-1)
		})
	case "d", "delete":
		return m, m.mutate("Removed "+e.Name, func(ctx context.Context, s *store.Store) {
			s.RemoveItemFromList(ctx, e.ItemID)
		})
	case " ", "x":
		if m.snap.Mode != model.ModeCompleting {
			m.setStatus("Press e to start completing")
			return m, nil
		}
		return m, m.mutate("", func(ctx context.Context, s *store.Store) {
			s.ToggleEntryChecked(ctx, e.ItemID)
		})
	}
	return m, nil
}

func (m Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.renaming = false
		m.nameInput.Blur()
		m.nameForm = forms.ListNameForm{}
		return m, nil
	case "enter":
		ctx, s, l := m.ctx, m.store, m.snap.ActiveList
		f := forms.ListNameForm{Name: m.nameInput.Value()}
		return m, func() tea.Msg {
			err := f.Submit(ctx, s, l)
			return renamedMsg{form: f, err: err}
		}
	}
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) updateHistory(k string) (tea.Model, tea.Cmd) {
	lists := m.history.Lists
	switch k {
	case "esc", "q", "H":
		m.view = viewShopping
	case "up", "k":
		m.historyCursor = clamp(m.historyCursor-1, 0, len(lists)-1)
	case "down", "j":
		m.historyCursor = clamp(m.historyCursor+1, 0, len(lists)-1)
	case "right", "l", "]":
		if m.history.Page < m.history.TotalPages {
			return m, m.historyCmd(m.history.Page + 1)
		}
	case "left", "h", "[":
		if m.history.Page > 1 {
			return m, m.historyCmd(m.history.Page - 1)
		}
	case "enter":
		if len(lists) > 0 {
			return m, m.detailCmd(lists[clamp(m.historyCursor, 0, len(lists)-1)].ID)
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	picking := m.formField == fieldCategory && m.category.Showing()

	switch k {
	case "esc":
		if !picking {
			m.resetForm()
			m.store.PopSidePanel()
			m.refresh()
			return m, nil
		}
	case "tab", "down":
		if !picking {
			return m, m.focusField((m.formField + 1) % fieldCount)
		}
	case "shift+tab", "up":
		if !picking {
			return m, m.focusField((m.formField + fieldCount - 1) % fieldCount)
		}
	case "ctrl+s":
		return m.submitForm()
	case "enter":
		switch {
		case m.formField < fieldCategory:
			return m, m.focusField(m.formField + 1)
		case !picking && m.itemForm.Category != nil &&
			strings.EqualFold(strings.TrimSpace(m.category.Value()), m.itemForm.Category.Name):
			return m.submitForm()
		}
	}

	var cmd tea.Cmd
	if m.formField == fieldCategory {
		m.category, cmd = m.category.Update(msg)
		m.itemForm.CategoryQuery = m.category.Value()
		return m, cmd
	}
	if m.formField >= 0 {
		m.formInputs[m.formField], cmd = m.formInputs[m.formField].Update(msg)
	}
	return m, cmd
}

func (m *Model) focusField(i int) tea.Cmd {
	m.formField = i
	var cmds []tea.Cmd
	for j := range m.formInputs {
		if j == i {
			cmds = append(cmds, m.formInputs[j].Focus())
		} else {
			m.formInputs[j].Blur()
		}
	}
	if i == fieldCategory {
		cmds = append(cmds, m.category.Focus())
	} else {
		m.category.Blur()
	}
	return tea.Batch(cmds...)
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.itemForm
	f.Name = m.formInputs[fieldName].Value()
	f.Note = m.formInputs[fieldNote].Value()
	f.ImageURL = m.formInputs[fieldImage].Value()
	f.CategoryQuery = m.category.Value()

	query := strings.TrimSpace(f.CategoryQuery)
	if f.Category != nil && !strings.EqualFold(query, f.Category.Name) {
		f.Category = nil
	}
	if f.Category == nil {
		for _, c := range m.snap.Categories {
			if strings.EqualFold(c.Name, query) {
				f.SelectCategory(c)
				break
			}
		}
	}
	if errs := f.Validate(); !errs.Empty() {
		f.Errors = errs
		m.itemForm = f
		m.setStatus("Fix the highlighted fields")
		return m, nil
	}
	m.itemForm = f

	ctx, s := m.ctx, m.store
	return m, func() tea.Msg {
		it, err := f.Submit(ctx, s)
		return itemSavedMsg{item: it, form: f, err: err}
	}
}

func (m *Model) resetForm() {
	m.itemForm.Reset()
	for i := range m.formInputs {
		m.formInputs[i].Reset()
		m.formInputs[i].Blur()
	}
	m.category.Reset()
	m.category.Blur()
	m.formField = -1
}

// ---------- helpers ----------

func (m *Model) refresh() {
	m.snap = m.store.Snapshot()
	m.listCursor = clamp(m.listCursor, 0, len(m.listRows())-1)
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	m.status, m.statusErr = err.Error(), true
}

// catalogRows is the catalog in display order, so the cursor indexes what is drawn.
func (m Model) catalogRows() []model.Item {
	return group.Flatten(group.ByCategory(m.snap.Items))
}

func (m Model) listRows() []model.ListEntry {
	if m.snap.ActiveList == nil {
		return nil
	}
	return group.Flatten(group.ByCategory(m.snap.ActiveList.Items))
}

func stateWord(s model.ListState) string {
	if s == model.ListCanceled {
		return "cancelled"
	}
	return "completed"
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ---------- View ----------

func (m Model) View() string {
	if !m.hydrated {
		return m.th.Hint.Render("Loading your shopping list…")
	}
	width := m.width
	if width <= 0 {
		width = 100
	}

	top := m.th.Title.Render(m.topBar())
	status := m.statusBar()

	var body string
	switch m.view {
	case viewHistory:
		body = m.renderHistory(width)
	case viewHistoryDetail:
		body = m.renderDetail(width)
	case viewStats:
		body = m.renderStats(width)
	default:
		sideW := max(36, width/3)
		catW := max(30, width-sideW-4)
		catStyle, sideStyle := m.th.PaneDim, m.th.Pane
		if m.focus == focusCatalog {
			catStyle, sideStyle = m.th.Pane, m.th.PaneDim
		}
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			catStyle.Width(catW).Render(m.renderCatalog()),
			sideStyle.Width(sideW).Render(m.renderSide()),
		)
	}

	ui := lipgloss.JoinVertical(lipgloss.Left, top, body, status)
	if m.confirmCancel {
		box := m.th.Modal.Render("Are you sure that you want to cancel this list?\n\n" +
			m.th.Hint.Render("y yes • n no"))
		ui = overlayCenter(ui, box)
	}
	return ui
}

func (m Model) topBar() string {
	name := "No active list"
	if l := m.snap.ActiveList; l != nil {
		name = l.Name
	}
	switch m.view {
	case viewHistory:
		name = "History"
	case viewHistoryDetail:
		name = "History detail"
	case viewStats:
		name = "Statistics"
	}
	return fmt.Sprintf("Shoppingify • %s • %s", name, strings.ToLower(m.snap.Mode.String()))
}

func (m Model) statusBar() string {
	if m.status != "" {
		if m.statusErr {
			return m.th.Error.Render(m.status)
		}
		return m.th.Success.Render(m.status)
	}
	var hints string
	switch {
	case m.view == viewHistory:
		hints = "j/k move • enter open • [/] page • esc back"
	case m.view != viewShopping:
		hints = "esc back"
	case m.focus == focusSide && m.snap.Panel == model.PanelItemForm:
		hints = "tab next field • enter pick category • ctrl+s save • esc cancel"
	case m.focus == focusCatalog:
		hints = "j/k move • enter add • i info • n new item • tab list • R refresh • H history • S stats • q quit"
	case m.snap.Panel == model.PanelItemInfo:
		hints = "a add to list • D delete • esc back"
	default:
		hints = "+/- qty • d remove • e edit/complete • space check • c complete • C cancel • r rename"
	}
	return m.th.Hint.Render(hints)
}

func (m Model) renderCatalog() string {
	if len(m.snap.Items) == 0 {
		return m.th.Hint.Render("No items in the catalog. Press n to add one.")
	}
	var b strings.Builder
	i := 0
	for _, g := range group.ByCategory(m.snap.Items) {
		b.WriteString(m.th.Category.Render(g.Label))
		b.WriteString("\n")
		for _, it := range g.Items {
			line := "  " + it.Name
			if m.focus == focusCatalog && i == m.catalogCursor {
				line = m.th.Selected.Render("▶ " + it.Name)
			}
			if idx := m.snap.ActiveList.IndexOf(it.ID); idx >= 0 {
				line += m.th.Label.Render(fmt.Sprintf("  ×%d", m.snap.ActiveList.Items[idx].Quantity))
			}
			b.WriteString(line)
			b.WriteString("\n")
			i++
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderSide() string {
	switch m.snap.Panel {
	case model.PanelItemInfo:
		return m.renderItemInfo()
	case model.PanelItemForm:
		return m.renderItemForm()
	default:
		return m.renderList()
	}
}

func (m Model) renderList() string {
	l := m.snap.ActiveList
	var b strings.Builder
	title := model.DefaultListName
	if l != nil {
		title = l.Name
	}
	b.WriteString(m.th.Title.Render(title))
	b.WriteString("\n\n")

	if l.IsEmpty() {
		b.WriteString(m.th.Hint.Render("No items"))
		return b.String()
	}

	completing := m.snap.Mode == model.ModeCompleting
	i := 0
	for _, g := range group.ByCategory(l.Items) {
		b.WriteString(m.th.Category.Render(g.Label))
		b.WriteString("\n")
		for _, e := range g.Items {
			name := e.Name
			if e.Checked {
				name = m.th.Checked.Render(name)
			}
			prefix := "  "
			if completing {
				prefix = "[ ] "
				if e.Checked {
					prefix = "[x] "
				}
			}
			line := fmt.Sprintf("%s%s %s", prefix, name, m.th.Value.Render(fmt.Sprintf("%d pcs", e.Quantity)))
			if m.focus == focusSide && i == m.listCursor {
				line = m.th.Selected.Render("▶ ") + line
			}
			b.WriteString(line)
			b.WriteString("\n")
			i++
		}
	}

	if m.renaming {
		b.WriteString("\n")
		b.WriteString(m.nameInput.View())
		if msg := m.nameForm.Errors[forms.FieldName]; msg != "" {
			b.WriteString("\n")
			b.WriteString(m.th.Error.Render(msg))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderItemInfo() string {
	it := m.snap.CurrentItem
	if it == nil {
		return m.th.Hint.Render("not found")
	}
	var b strings.Builder
	b.WriteString(m.th.Label.Render("name"))
	b.WriteString("\n")
	b.WriteString(m.th.Title.Render(it.Name))
	b.WriteString("\n\n")
	b.WriteString(m.th.Label.Render("category"))
	b.WriteString("\n")
	b.WriteString(it.CategoryName)
	if it.Description != "" {
		b.WriteString("\n\n")
		b.WriteString(m.th.Label.Render("note"))
		b.WriteString("\n")
		b.WriteString(it.Description)
	}
	if it.ImageURL != "" {
		b.WriteString("\n\n")
		b.WriteString(m.th.Label.Render("image"))
		b.WriteString("\n")
		b.WriteString(it.ImageURL)
	}
	return b.String()
}

func (m Model) renderItemForm() string {
	labels := []string{"Name", "Note (optional)", "Image (optional)", "Category"}
	keys := []string{forms.FieldName, forms.FieldNote, forms.FieldImageURL, forms.FieldCategory}

	var b strings.Builder
	b.WriteString(m.th.Title.Render("Add a new item"))
	b.WriteString("\n\n")
	for i, label := range labels {
		b.WriteString(m.th.Label.Render(label))
		b.WriteString("\n")
		if i == fieldCategory {
			b.WriteString(m.category.View())
		} else {
			b.WriteString(m.formInputs[i].View())
		}
		if msg := m.itemForm.Errors[keys[i]]; msg != "" {
			b.WriteString("\n")
			b.WriteString(m.th.Error.Render(msg))
		}
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderer(width int) *utils.Renderer {
	return utils.NewRenderer(&utils.RenderConfig{
		Format:   utils.FormatDefault,
		Width:    width,
		Color:    true,
		Location: m.opts.Location,
	})
}

func (m Model) renderHistory(width int) string {
	var b strings.Builder
	b.WriteString(m.th.Title.Render("Shopping history"))
	b.WriteString("\n\n")
	if len(m.history.Lists) == 0 {
		b.WriteString(m.th.Hint.Render("No lists yet"))
		return b.String()
	}
	for i, l := range m.history.Lists {
		line := fmt.Sprintf("%-28s %s  %s",
			l.Name,
			l.UpdatedAt.In(m.opts.Location).Format("Mon 2006-01-02"),
			stateWord(l.State))
		if i == m.historyCursor {
			line = m.th.Selected.Render("▶ " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	p := utils.NewPagination(m.history.Total, max(m.history.PerPage, 1), m.history.Page)
	b.WriteString("\n")
	b.WriteString(m.th.Hint.Render(p.FormatSummary()))
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (m Model) renderDetail(width int) string {
	if m.detail == nil {
		msg := m.detailErr
		if msg == "" {
			msg = "not found"
		}
		return m.th.Error.Render(msg)
	}
	out, err := m.renderer(width).RenderList(m.detail)
	if err != nil {
		return m.th.Error.Render(err.Error())
	}
	return strings.TrimRight(out, "\n")
}

func (m Model) renderStats(width int) string {
	if m.stats == nil {
		return ""
	}
	out, err := m.renderer(width).RenderStats(*m.stats)
	if err != nil {
		return m.th.Error.Render(err.Error())
	}
	return strings.TrimRight(out, "\n")
}

func overlayCenter(base, modal string) string {
	baseH := lipgloss.Height(base)
	mh := lipgloss.Height(modal)
	topPad := max(0, (baseH-mh)/3)
	return lipgloss.JoinVertical(lipgloss.Left, strings.Repeat("\n", topPad), lipgloss.PlaceHorizontal(lipgloss.Width(base), lipgloss.Center, modal), "")
}
