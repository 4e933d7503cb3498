// Package row implements the inline edit state of a single task row.
package row

import "github.com/Makepad-fr/tada/internal/model"

// State is the edit state of a row.
type State int

const (
	Viewing State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// Affordance is the action offered next to the title.
type Affordance string

const (
	AffordanceEdit   Affordance = "edit"
	AffordanceCancel Affordance = "cancel"
)

// RenameFunc receives the draft when an edit is committed.
type RenameFunc func(id model.ID, title string)

// Session is the per-row edit state. Sessions of different rows are
// independent; any number of rows may be editing at once.
type Session struct {
	id    model.ID
	title string // last committed title
	draft string
	state State
}

// New starts a session in Viewing with the draft set to the task title.
func New(task model.Task) *Session {
	return &Session{id: task.ID, title: task.Title, draft: task.Title}
}

func (s *Session) ID() model.ID        { return s.id }
func (s *Session) State() State        { return s.state }
func (s *Session) Editing() bool       { return s.state == Editing }
func (s *Session) Draft() string       { return s.draft }
func (s *Session) Title() string       { return s.title }
func (s *Session) DeleteEnabled() bool { return s.state == Viewing }

// Affordance returns edit while viewing and cancel while editing.
func (s *Session) Affordance() Affordance {
	if s.state == Editing {
		return AffordanceCancel
	}
	return AffordanceEdit
}

// Edit enters Editing. It reports whether the state changed, in which case
// the caller focuses the row input.
func (s *Session) Edit() bool {
	if s.state == Editing {
		return false
	}
	s.state = Editing
	return true
}

// SetDraft replaces the draft. The input is display-only while viewing,
// so the call is ignored then.
func (s *Session) SetDraft(text string) {
	if s.state != Editing {
		return
	}
	s.draft = text
}

// Cancel abandons the draft and returns to Viewing without renaming.
func (s *Session) Cancel() bool {
	if s.state != Editing {
		return false
	}
	s.draft = s.title
	s.state = Viewing
	return true
}

// Commit hands the draft to rename, even when it is empty or unchanged,
// and returns to Viewing.
func (s *Session) Commit(rename RenameFunc) bool {
	if s.state != Editing {
		return false
	}
	if rename != nil {
		rename(s.id, s.draft)
	}
	s.title = s.draft
	s.state = Viewing
	return true
}

// Sync takes the task as last published by the store. The draft follows
// the title only while viewing so an edit in progress is kept.
func (s *Session) Sync(task model.Task) {
	s.title = task.Title
	if s.state == Viewing {
		s.draft = task.Title
	}
}
