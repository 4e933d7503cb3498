// Package tui is the interactive task list. It renders store snapshots
// with Bubble Tea and forwards keypresses to the store and row sessions.
package tui

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/row"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options tune the interactive list.
type Options struct {
	CharLimit int
	Logger    *log.Logger
}

// dialogs is the store's prompter: it holds at most one open notice or
// confirmation until the user answers it.
type dialogs struct {
	notice  *store.Notice
	confirm *store.Confirmation
}

func (d *dialogs) Notify(n store.Notice)         { d.notice = &n }
func (d *dialogs) Confirm(c *store.Confirmation) { d.confirm = c }
func (d *dialogs) open() bool                    { return d.notice != nil || d.confirm != nil }

// Model implements tea.Model for the task list.
type Model struct {
	store   *store.Store
	list    list.Model
	rows    map[model.ID]*rowView
	dialogs *dialogs

	// Inline add
	adding   bool
	addInput textinput.Model
	addErr   string

	charLimit int
	width     int
	height    int
	log       *log.Logger
}

// New builds the list over st and installs itself as st's prompter.
func New(st *store.Store, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	charLimit := opts.CharLimit
	if charLimit <= 0 {
		charLimit = 200
	}

	d := &dialogs{}
	st.SetPrompter(d)

	rows := map[model.ID]*rowView{}
	l := list.New(nil, itemDelegate{rows: rows}, 0, 0)
	th := ui.Current()
	l.SetShowHelp(true)
	l.SetShowPagination(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = th.Title
	l.Styles.HelpStyle = th.Muted
	l.Styles.NoItems = th.Muted
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = keys.listHelp
	l.AdditionalFullHelpKeys = keys.listHelp

	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "Add a new task..."
	in.CharLimit = charLimit

	m := Model{
		store:     st,
		list:      l,
		rows:      rows,
		dialogs:   d,
		addInput:  in,
		charLimit: charLimit,
		width:     80,
		height:    24,
		log:       logger,
	}
	m.refresh()
	m.resize()
	return m
}

// Run starts the Bubble Tea program on the alternate screen.
func Run(st *store.Store, opts Options) error {
	p := tea.NewProgram(New(st, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = size.Width, size.Height
		m.resize()
		return m, nil
	}

	km, isKey := msg.(tea.KeyMsg)
	if isKey && km.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// open dialog swallows every key until answered
	if m.dialogs.open() {
		if isKey {
			m.answerDialog(km)
		}
		return m, nil
	}

	if m.adding {
		return m.updateAdding(msg)
	}

	if rv := m.selectedRow(); rv != nil && rv.sess.Editing() {
		return m.updateEditing(rv, msg)
	}

	if isKey {
		switch {
		case key.Matches(km, keys.Quit):
			return m, tea.Quit
		case key.Matches(km, keys.Cancel):
			// esc only leaves the app when no row holds an unsaved draft
			if m.anyEditing() {
				return m, nil
			}
			return m, tea.Quit
		case key.Matches(km, keys.Toggle):
			if rv := m.selectedRow(); rv != nil {
				m.store.Toggle(rv.sess.ID())
				m.refresh()
			}
			return m, nil
		case key.Matches(km, keys.Delete):
			if rv := m.selectedRow(); rv != nil && rv.sess.DeleteEnabled() {
				m.store.RequestRemove(rv.sess.ID())
				m.refresh()
				m.resize()
			}
			return m, nil
		case key.Matches(km, keys.Edit):
			if rv := m.selectedRow(); rv != nil && rv.sess.Edit() {
				rv.input.SetValue(rv.sess.Draft())
				rv.input.CursorEnd()
				m.resize()
				return m, rv.input.Focus()
			}
			return m, nil
		case key.Matches(km, keys.Add):
			m.adding = true
			m.addErr = ""
			m.addInput.SetValue("")
			m.resize()
			return m, m.addInput.Focus()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) answerDialog(km tea.KeyMsg) {
	if c := m.dialogs.confirm; c != nil {
		switch {
		case key.Matches(km, keys.Confirm):
			c.Resolve(true)
		case key.Matches(km, keys.Decline):
			c.Resolve(false)
		default:
			return
		}
		m.dialogs.confirm = nil
		m.refresh()
		m.resize()
		return
	}
	if key.Matches(km, keys.Acknowledge) {
		m.dialogs.notice = nil
		m.resize()
	}
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Commit):
			title := strings.TrimSpace(m.addInput.Value())
			if title == "" {
				m.addErr = "Title cannot be empty"
				return m, nil
			}
			if snap, added := m.store.Add(title); added {
				m.refresh()
				m.list.Select(snap.Len() - 1)
			}
			m.closeAdd()
			return m, nil
		case key.Matches(km, keys.Cancel):
			m.closeAdd()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.addInput, cmd = m.addInput.Update(msg)
	return m, cmd
}

func (m *Model) closeAdd() {
	m.adding = false
	m.addErr = ""
	m.addInput.SetValue("")
	m.addInput.Blur()
	m.resize()
}

func (m Model) updateEditing(rv *rowView, msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, keys.Commit):
			rv.sess.Commit(func(id model.ID, title string) { m.store.Rename(id, title) })
			rv.input.Blur()
			m.refresh()
			return m, nil
		case key.Matches(km, keys.Cancel):
			rv.sess.Cancel()
			rv.input.SetValue(rv.sess.Draft())
			rv.input.Blur()
			return m, nil
		case key.Matches(km, keys.Move):
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, tea.Batch(cmd, m.focusSelected())
		}
	}
	var cmd tea.Cmd
	rv.input, cmd = rv.input.Update(msg)
	rv.sess.SetDraft(rv.input.Value())
	return m, cmd
}

// focusSelected gives input focus to the selected row if it is editing
// and takes it from every other row.
func (m *Model) focusSelected() tea.Cmd {
	sel := m.selectedRow()
	var cmd tea.Cmd
	for _, rv := range m.rows {
		if rv == sel && rv.sess.Editing() {
			cmd = rv.input.Focus()
			continue
		}
		rv.input.Blur()
	}
	return cmd
}

func (m Model) anyEditing() bool {
	for _, rv := range m.rows {
		if rv.sess.Editing() {
			return true
		}
	}
	return false
}

func (m Model) selectedRow() *rowView {
	it, ok := m.list.SelectedItem().(taskItem)
	if !ok {
		return nil
	}
	return m.rows[it.task.ID]
}

// refresh renders the current snapshot: list items, header counts and one
// row view per task. Row views of tasks that left the collection are dropped.
func (m *Model) refresh() {
	snap := m.store.Snapshot()

	items := make([]list.Item, 0, snap.Len())
	seen := make(map[model.ID]bool, snap.Len())
	for _, t := range snap.Tasks() {
		items = append(items, taskItem{task: t})
		seen[t.ID] = true
		if rv, ok := m.rows[t.ID]; ok {
			rv.sess.Sync(t)
			if !rv.sess.Editing() {
				rv.input.SetValue(rv.sess.Draft())
			}
			continue
		}
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = m.charLimit
		in.SetValue(t.Title)
		m.rows[t.ID] = &rowView{sess: row.New(t), input: in}
	}
	for id := range m.rows {
		if !seen[id] {
			delete(m.rows, id)
		}
	}
	m.list.SetItems(items)

	done, pending := snap.Stats()
	m.list.Title = ui.Header(done, pending)
	m.log.Debug("rendered snapshot", "tasks", snap.Len(), "done", done)
}

func (m *Model) resize() {
	h := m.height - 5
	if m.adding || m.dialogs.open() {
		h -= 4
	}
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width-4, h)
}

func (m Model) View() string {
	done, pending := m.store.Snapshot().Stats()
	progress := ui.Current().Muted.Render(ui.ProgressBar(done, done+pending, 28))

	content := m.list.View() + "\n" + progress
	if bottom := m.bottomBar(); bottom != "" {
		content += "\n" + bottom
	}
	return ui.Frame(content)
}

func (m Model) bottomBar() string {
	t := ui.Current()
	bar := lipgloss.NewStyle().Border(t.Border).BorderForeground(t.BorderColor).Padding(0, 1)

	switch {
	case m.dialogs.confirm != nil:
		c := m.dialogs.confirm
		return bar.Render(t.Title.Render(c.Title) + "\n" + c.Message + "\n" + t.Muted.Render("y yes • n no"))
	case m.dialogs.notice != nil:
		n := m.dialogs.notice
		return bar.Render(t.Error.Render(n.Title) + "\n" + n.Message + "\n" + t.Muted.Render("enter ok"))
	case m.adding:
		title := "Add new task"
		if m.addErr != "" {
			title += " - " + t.Error.Render(m.addErr)
		}
		return bar.Render(title + "\n" + m.addInput.View())
	}
	return ""
}
