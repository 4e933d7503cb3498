package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/row"
	"github.com/Makepad-fr/tada/internal/ui"
)

// taskItem adapts a Task to bubbles/list.Item
type taskItem struct {
	task model.Task
}

func (i taskItem) FilterValue() string { return i.task.Title }

// rowView is the presentation of one row: its edit session and the input
// that shows the title.
type rowView struct {
	sess  *row.Session
	input textinput.Model
}

// Custom delegate to control how items render (single line)
type itemDelegate struct {
	rows map[model.ID]*rowView
}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}
	t := ui.Current()

	box := t.Muted.Render(t.BoxUnchecked)
	if it.task.Done {
		box = t.Success.Render(t.BoxChecked)
	}

	rv := d.rows[it.task.ID]
	var text string
	switch {
	case rv != nil && rv.sess.Editing():
		text = rv.input.View()
	case it.task.Done:
		text = t.Done.Render(it.task.Title)
	default:
		text = it.task.Title
	}

	affordance := "[" + string(row.AffordanceEdit) + "]"
	del := "[del]"
	if rv != nil {
		affordance = "[" + string(rv.sess.Affordance()) + "]"
		if !rv.sess.DeleteEnabled() {
			del = t.Muted.Render(del)
		}
	}

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s  %s %s", prefix, box, text, t.Accent.Render(affordance), del)
}
