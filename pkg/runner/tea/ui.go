package teaui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/progressly/pkg/app"
	"tableflip.dev/progressly/pkg/printers"
	"tableflip.dev/progressly/pkg/runner/tea/internal/bottombar"
	"tableflip.dev/progressly/pkg/runner/tea/internal/panel"
	"tableflip.dev/progressly/pkg/store"
	"tableflip.dev/progressly/pkg/task"
	"tableflip.dev/progressly/pkg/timeutil"
)

type mode int

const (
	modeNormal mode = iota
	modeInsert
	modeSearch
	modeHelp
)

type action int

const (
	actionNone action = iota
	actionAdd
	actionEdit
	actionSubtask
)

const progressStep = 10

// taskItem is one row of the task list.
type taskItem struct {
	t   task.Task
	now time.Time
}

func (it taskItem) Title() string {
	parts := []string{printers.PriorityMark(it.t.Priority), it.t.Title}
	if n := len(it.t.Subtasks); n > 0 {
		parts = append(parts, fmt.Sprintf("(%d)", n))
	}
	parts = append(parts, " "+printers.ProgressBar(it.t.EffectiveProgress(), 10))
	if due := timeutil.FormatDate(it.t.DueDate, it.now); due != "" {
		parts = append(parts, "· "+due)
	}
	if it.t.MigratedFrom != nil {
		parts = append(parts, "↪ "+it.t.MigratedFrom.String())
	}
	return strings.Join(parts, " ")
}
func (it taskItem) Description() string { return it.t.Category }
func (it taskItem) FilterValue() string { return it.t.Title }

// trashItem is one row of the trash list.
type trashItem struct {
	t   task.Task
	now time.Time
}

func (it trashItem) Title() string {
	deleted := ""
	if it.t.DeletedAt != nil {
		deleted = " · " + timeutil.FormatDeletedTime(time.UnixMilli(*it.t.DeletedAt), it.now)
	}
	return it.t.Title + deleted
}
func (it trashItem) Description() string { return "" }
func (it trashItem) FilterValue() string { return it.t.Title }

// Model holds the UI state. Tasks themselves live in the Service; the model
// only keeps the ids of what is shown.
type Model struct {
	svc        *app.Service
	ctx        context.Context
	now        func() time.Time
	categories []string

	mode      mode
	action    action
	showTrash bool

	query    app.Query
	summary  app.Summary
	selectID int64

	list  list.Model
	input textinput.Model

	status string

	termWidth  int
	termHeight int
}

// New creates a UI model showing the current month.
func New(svc *app.Service) Model {
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	d.SetSpacing(0)

	l := list.New([]list.Item{}, d, 80, 20)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("task", "tasks")

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Prompt = ""

	now := time.Now
	if svc != nil && svc.Now != nil {
		now = svc.Now
	}
	today := now()

	return Model{
		svc:        svc,
		ctx:        context.Background(),
		now:        now,
		categories: task.DefaultCategories,
		mode:       modeNormal,
		query: app.Query{
			Month:  timeutil.MonthIndex(today.Month()),
			Year:   today.Year(),
			Filter: app.FilterAll,
			Sort:   app.SortPriority,
		},
		list:  l,
		input: ti,
	}
}

// WithCategories sets the categories cycled by the c key.
func (m Model) WithCategories(categories []string) Model {
	if len(categories) > 0 {
		m.categories = categories
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.watch())
}

// messages
type errMsg struct{ err error }
type loadedMsg struct {
	items   []list.Item
	summary app.Summary
}
type watchingMsg struct{ ch <-chan store.Event }
type changedMsg struct{ ch <-chan store.Event }

func errCmd(err error) tea.Cmd {
	return func() tea.Msg { return errMsg{err} }
}

func (m *Model) load() tea.Cmd {
	svc, ctx, q, trash, now := m.svc, m.ctx, m.query, m.showTrash, m.now()
	return func() tea.Msg {
		if trash {
			deleted, err := svc.Trash(ctx)
			if err != nil {
				return errMsg{err}
			}
			items := make([]list.Item, 0, len(deleted))
			for _, t := range deleted {
				items = append(items, trashItem{t: t, now: now})
			}
			return loadedMsg{items: items}
		}
		tasks, err := svc.Tasks(ctx)
		if err != nil {
			return errMsg{err}
		}
		shown := app.View(tasks, q, now)
		items := make([]list.Item, 0, len(shown))
		for _, t := range shown {
			items = append(items, taskItem{t: t, now: now})
		}
		return loadedMsg{items: items, summary: app.MonthStats(tasks, q.Month, q.Year)}
	}
}

func (m *Model) watch() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		ch, err := svc.Watch(ctx)
		if err != nil {
			// Not every backend can be watched; the UI still refreshes after
			// its own edits.
			return nil
		}
		return watchingMsg{ch}
	}
}

func waitForChange(ch <-chan store.Event) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{ch}
	}
}

// Update handles messages and keybindings.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
	case errMsg:
		m.status = "ERR: " + msg.err.Error()
	case loadedMsg:
		m.summary = msg.summary
		cmds = append(cmds, m.list.SetItems(msg.items))
		m.restoreSelection()
	case watchingMsg:
		cmds = append(cmds, waitForChange(msg.ch))
	case changedMsg:
		cmds = append(cmds, m.load(), waitForChange(msg.ch))
	case tea.KeyMsg:
		switch m.mode {
		case modeHelp:
			m.mode = modeNormal
		case modeInsert:
			m.updateInsert(msg, &cmds)
		case modeSearch:
			m.updateSearch(msg, &cmds)
		case modeNormal:
			if m.showTrash {
				m.updateTrash(msg, &cmds)
			} else {
				m.updateNormal(msg, &cmds)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// keys shared by the task and trash views
func (m *Model) navigate(key string, cmds *[]tea.Cmd) bool {
	switch key {
	case "ctrl+c", "q":
		*cmds = append(*cmds, tea.Quit)
	case "?":
		m.mode = modeHelp
	case "j", "down":
		m.list.CursorDown()
	case "k", "up":
		m.list.CursorUp()
	case "g", "home":
		m.list.Select(0)
	case "G", "end":
		if n := len(m.list.Items()); n > 0 {
			m.list.Select(n - 1)
		}
	case "t":
		m.showTrash = !m.showTrash
		m.list.Select(0)
		*cmds = append(*cmds, m.load())
	default:
		return false
	}
	return true
}

func (m *Model) updateNormal(msg tea.KeyMsg, cmds *[]tea.Cmd) {
	key := msg.String()
	if m.navigate(key, cmds) {
		return
	}
	switch key {
	case "h", "left":
		m.shiftMonth(-1, cmds)
	case "l", "right":
		m.shiftMonth(1, cmds)
	case "T":
		today := m.now()
		m.query.Month, m.query.Year = timeutil.MonthIndex(today.Month()), today.Year()
		m.status = "Current month"
		*cmds = append(*cmds, m.load())
	case "f":
		m.query.Filter = cycle(app.Filters, m.query.Filter)
		m.status = "Filter: " + string(m.query.Filter)
		*cmds = append(*cmds, m.load())
	case "s":
		m.query.Sort = cycle(app.SortKeys, m.query.Sort)
		m.status = "Sort: " + string(m.query.Sort)
		*cmds = append(*cmds, m.load())
	case "/":
		m.mode = modeSearch
		m.input.Placeholder = "Search all months"
		m.input.SetValue(m.query.Search)
		m.input.CursorEnd()
		*cmds = append(*cmds, m.input.Focus(), textinput.Blink)
	case "esc":
		if m.query.Search != "" {
			m.query.Search = ""
			m.status = "Search cleared"
			*cmds = append(*cmds, m.load())
		}
	case "o", "a":
		m.beginInsert(actionAdd, "New task title", "", cmds)
	case "i":
		if it, ok := m.currentTask(); ok {
			m.selectID = it.ID
			m.beginInsert(actionEdit, "Edit title", it.Title, cmds)
		}
	case "n":
		if it, ok := m.currentTask(); ok {
			m.selectID = it.ID
			m.beginInsert(actionSubtask, "New subtask for "+it.Title, "", cmds)
		}
	case "+", "=":
		m.stepProgress(progressStep, cmds)
	case "-":
		m.stepProgress(-progressStep, cmds)
	case "x":
		if it, ok := m.currentTask(); ok {
			target := 100
			if it.Complete() {
				target = 0
			}
			m.setProgress(it, target, cmds)
		}
	case "p":
		if it, ok := m.currentTask(); ok {
			next := cycle(task.Priorities, it.Priority)
			m.apply(it.ID, app.Edit{Priority: &next}, "Priority: "+next.Label(), cmds)
		}
	case "c":
		if it, ok := m.currentTask(); ok {
			next := cycle(m.categories, it.Category)
			m.apply(it.ID, app.Edit{Category: &next}, "Category: "+next, cmds)
		}
	case "d":
		if it, ok := m.currentTask(); ok {
			if _, err := m.svc.MoveToTrash(m.ctx, it.ID); err != nil {
				*cmds = append(*cmds, errCmd(err))
				return
			}
			m.status = fmt.Sprintf("Moved %q to trash", it.Title)
			*cmds = append(*cmds, m.load())
		}
	case "r":
		*cmds = append(*cmds, m.load())
	}
}

func (m *Model) updateTrash(msg tea.KeyMsg, cmds *[]tea.Cmd) {
	key := msg.String()
	if m.navigate(key, cmds) {
		return
	}
	it, ok := m.currentTrashed()
	switch key {
	case "esc":
		m.showTrash = false
		*cmds = append(*cmds, m.load())
	case "r":
		if !ok {
			return
		}
		if _, err := m.svc.Restore(m.ctx, it.ID); err != nil {
			*cmds = append(*cmds, errCmd(err))
			return
		}
		m.status = fmt.Sprintf("Restored %q", it.Title)
		*cmds = append(*cmds, m.load())
	case "D":
		if !ok {
			return
		}
		if err := m.svc.PermanentDelete(m.ctx, it.ID); err != nil {
			*cmds = append(*cmds, errCmd(err))
			return
		}
		m.status = fmt.Sprintf("Deleted %q", it.Title)
		*cmds = append(*cmds, m.load())
	case "E":
		n, err := m.svc.EmptyTrash(m.ctx)
		if err != nil {
			*cmds = append(*cmds, errCmd(err))
			return
		}
		m.status = fmt.Sprintf("Emptied trash (%d)", n)
		*cmds = append(*cmds, m.load())
	}
}

func (m *Model) updateInsert(msg tea.KeyMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "enter":
		input := strings.TrimSpace(m.input.Value())
		if input != "" {
			m.commitInsert(input, cmds)
		}
		m.endInput()
		*cmds = append(*cmds, m.load())
	case "esc":
		switch m.action {
		case actionAdd:
			m.status = "Add cancelled"
		case actionEdit:
			m.status = "Edit cancelled"
		default:
			m.status = "Cancelled"
		}
		m.endInput()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) commitInsert(input string, cmds *[]tea.Cmd) {
	switch m.action {
	case actionAdd:
		month, year := m.query.Month, m.query.Year
		t, err := m.svc.AddTask(m.ctx, app.NewTask{Title: input, Month: &month, Year: &year})
		if err != nil {
			*cmds = append(*cmds, errCmd(err))
			return
		}
		m.selectID = t.ID
		m.status = "Added"
	case actionEdit:
		m.apply(m.selectID, app.Edit{Title: &input}, "Edited", cmds)
	case actionSubtask:
		if _, _, err := m.svc.AddSubtask(m.ctx, m.selectID, input); err != nil {
			*cmds = append(*cmds, errCmd(err))
			return
		}
		m.status = "Subtask added"
	}
}

func (m *Model) updateSearch(msg tea.KeyMsg, cmds *[]tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.query.Search = m.input.Value()
		if strings.TrimSpace(m.query.Search) == "" {
			m.query.Search = ""
			m.status = "Search cleared"
		} else {
			m.status = "Search: " + m.query.Search
		}
		m.endInput()
		m.list.Select(0)
		*cmds = append(*cmds, m.load())
	case "esc":
		m.endInput()
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) beginInsert(a action, placeholder, value string, cmds *[]tea.Cmd) {
	m.mode = modeInsert
	m.action = a
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	*cmds = append(*cmds, m.input.Focus(), textinput.Blink)
}

func (m *Model) endInput() {
	m.mode = modeNormal
	m.action = actionNone
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) shiftMonth(delta int, cmds *[]tea.Cmd) {
	m.query.Month, m.query.Year = timeutil.AddMonths(m.query.Month, m.query.Year, delta)
	m.list.Select(0)
	*cmds = append(*cmds, m.load())
}

func (m *Model) stepProgress(delta int, cmds *[]tea.Cmd) {
	it, ok := m.currentTask()
	if !ok {
		return
	}
	// the row may be stale if keys arrive faster than reloads
	fresh, err := m.svc.Task(m.ctx, it.ID)
	if err != nil {
		*cmds = append(*cmds, errCmd(err))
		return
	}
	m.setProgress(fresh, fresh.Progress+delta, cmds)
}

func (m *Model) setProgress(it task.Task, progress int, cmds *[]tea.Cmd) {
	if len(it.Subtasks) > 0 {
		m.status = "Progress follows subtasks"
		return
	}
	m.selectID = it.ID
	t, err := m.svc.SetProgress(m.ctx, it.ID, progress)
	if err != nil {
		*cmds = append(*cmds, errCmd(err))
		return
	}
	m.status = fmt.Sprintf("Progress %d%%", t.Progress)
	*cmds = append(*cmds, m.load())
}

func (m *Model) apply(id int64, e app.Edit, status string, cmds *[]tea.Cmd) {
	m.selectID = id
	if _, err := m.svc.EditTask(m.ctx, id, e); err != nil {
		*cmds = append(*cmds, errCmd(err))
		return
	}
	m.status = status
	*cmds = append(*cmds, m.load())
}

func (m *Model) currentTask() (task.Task, bool) {
	it, ok := m.list.SelectedItem().(taskItem)
	return it.t, ok
}

func (m *Model) currentTrashed() (task.Task, bool) {
	it, ok := m.list.SelectedItem().(trashItem)
	return it.t, ok
}

// restoreSelection keeps the cursor on the last touched task after a reload.
func (m *Model) restoreSelection() {
	items := m.list.Items()
	if m.selectID != 0 {
		for i, item := range items {
			if it, ok := item.(taskItem); ok && it.t.ID == m.selectID {
				m.list.Select(i)
				return
			}
		}
	}
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
}

func cycle[T comparable](options []T, current T) T {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var taskKeys = []panel.Binding{
	{Keys: "h/l", Action: "previous / next month"},
	{Keys: "T", Action: "this month"},
	{Keys: "j/k", Action: "move"},
	{Keys: "g/G", Action: "top / bottom"},
	{Keys: "o a", Action: "add task"},
	{Keys: "i", Action: "edit title"},
	{Keys: "n", Action: "add subtask"},
	{Keys: "x", Action: "toggle done"},
	{Keys: "+ -", Action: "progress ±10"},
	{Keys: "p", Action: "cycle priority"},
	{Keys: "c", Action: "cycle category"},
	{Keys: "d", Action: "move to trash"},
	{Keys: "f", Action: "cycle filter"},
	{Keys: "s", Action: "cycle sort"},
	{Keys: "/", Action: "search all months"},
	{Keys: "esc", Action: "clear search"},
	{Keys: "t", Action: "trash view"},
	{Keys: "r", Action: "reload"},
	{Keys: "q", Action: "quit"},
}

var trashKeys = []panel.Binding{
	{Keys: "j/k", Action: "move"},
	{Keys: "g/G", Action: "top / bottom"},
	{Keys: "r", Action: "restore"},
	{Keys: "D", Action: "delete forever"},
	{Keys: "E", Action: "empty trash"},
	{Keys: "t esc", Action: "back to tasks"},
	{Keys: "q", Action: "quit"},
}

// View renders the header, the list and the optional input or help.
func (m Model) View() string {
	var b strings.Builder
	if m.showTrash {
		b.WriteString(headerStyle.Render(fmt.Sprintf("Trash · %d", len(m.list.Items()))))
	} else {
		title := fmt.Sprintf("%s %d", timeutil.MonthName(m.query.Month), m.query.Year)
		if strings.TrimSpace(m.query.Search) != "" {
			title = fmt.Sprintf("Search %q", m.query.Search)
		}
		b.WriteString(headerStyle.Render(title))
		b.WriteString("\n")
		s := m.summary
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d tasks · %d done · %d in progress · ", s.Total, s.Completed, s.InProgress)))
		b.WriteString(printers.ProgressBar(s.AvgProgress, 10))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("filter: %s · sort: %s", m.query.Filter, m.query.Sort)))
	}
	b.WriteString("\n\n")
	b.WriteString(m.list.View())

	switch m.mode {
	case modeInsert:
		prompt := "Add: "
		switch m.action {
		case actionEdit:
			prompt = "Edit: "
		case actionSubtask:
			prompt = "Subtask: "
		}
		b.WriteString("\n\n" + prompt + m.input.View())
	case modeSearch:
		b.WriteString("\n\n/" + m.input.View())
	case modeHelp:
		keys := taskKeys
		if m.showTrash {
			keys = trashKeys
		}
		help, _ := panel.New("Keys", keys...).View(m.termWidth)
		b.WriteString("\n\n" + help)
	}

	b.WriteString("\n\n" + m.footer().View())
	return b.String()
}

func (m Model) footer() bottombar.Model {
	f := bottombar.New()
	switch {
	case m.mode == modeInsert:
		f.SetMode(bottombar.ModeInsert)
	case m.mode == modeSearch:
		f.SetMode(bottombar.ModeSearch)
	case m.mode == modeHelp:
		f.SetMode(bottombar.ModeHelp)
	case m.showTrash:
		f.SetMode(bottombar.ModeTrash)
	}
	f.SetStatus(m.status)
	return f
}

// applySizes recalculates the list size based on the terminal size.
func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	// header, input and status lines
	height := m.termHeight - 8
	if height < 5 {
		height = 5
	}
	m.list.SetSize(m.termWidth, height)
	m.input.Width = m.termWidth - 10
}
