// Package store holds the in-memory task collection and its mutation rules.
//
// Every mutation publishes a new Snapshot; a snapshot returned earlier is
// never changed. Operations that target an unknown id are no-ops and say so
// through their boolean result instead of an error. A Store is driven from
// a single UI event loop and is not safe for concurrent use.
package store

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
)

// Store owns the ordered task collection.
type Store struct {
	current  Snapshot
	ids      IDSource
	prompter Prompter
	log      *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithPrompter sets the collaborator that shows notices and confirmations.
func WithPrompter(p Prompter) Option {
	return func(s *Store) {
		if p != nil {
			s.prompter = p
		}
	}
}

// WithIDs replaces the default Sequence.
func WithIDs(src IDSource) Option {
	return func(s *Store) {
		if src != nil {
			s.ids = src
		}
	}
}

// WithLogger sets the logger used for mutation traces.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		ids:      &Sequence{},
		prompter: discardPrompter{},
		log:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPrompter swaps the prompter, e.g. once the UI that owns it exists.
func (s *Store) SetPrompter(p Prompter) {
	if p == nil {
		p = discardPrompter{}
	}
	s.prompter = p
}

// Snapshot returns the current collection.
func (s *Store) Snapshot() Snapshot { return s.current }

// Add appends a new pending task. A title already present (exact,
// case-sensitive match) is rejected with a duplicate notice and the
// collection stays as it was.
func (s *Store) Add(title string) (Snapshot, bool) {
	if s.current.Contains(title) {
		s.log.Debug("duplicate task rejected", "title", title)
		s.prompter.Notify(Notice{
			Kind:    NoticeDuplicate,
			Title:   duplicateTitle,
			Message: duplicateMessage,
		})
		return s.current, false
	}

	next := make([]model.Task, len(s.current.tasks), len(s.current.tasks)+1)
	copy(next, s.current.tasks)
	task := model.Task{ID: s.ids.NextID(), Title: title}
	next = append(next, task)

	s.publish(next)
	s.log.Debug("task added", "id", task.ID, "title", title)
	return s.current, true
}

// Toggle flips the done flag of the task with the given id.
func (s *Store) Toggle(id model.ID) (Snapshot, bool) {
	next, i := s.copyFor(id)
	if i < 0 {
		s.log.Debug("toggle: no such task", "id", id)
		return s.current, false
	}
	next[i].Done = !next[i].Done

	s.publish(next)
	s.log.Debug("task toggled", "id", id, "done", next[i].Done)
	return s.current, true
}

// Rename replaces the title of the task with the given id. The new title
// is not checked for emptiness or uniqueness.
func (s *Store) Rename(id model.ID, title string) (Snapshot, bool) {
	next, i := s.copyFor(id)
	if i < 0 {
		s.log.Debug("rename: no such task", "id", id)
		return s.current, false
	}
	next[i].Title = title

	s.publish(next)
	s.log.Debug("task renamed", "id", id, "title", title)
	return s.current, true
}

// RequestRemove asks the prompter to confirm removal of the task with the
// given id. Confirming calls Remove; declining changes nothing.
func (s *Store) RequestRemove(id model.ID) {
	s.prompter.Confirm(&Confirmation{
		Title:     removeTitle,
		Message:   removeMessage,
		onConfirm: func() { s.Remove(id) },
		onDecline: func() { s.log.Debug("remove declined", "id", id) },
	})
}

// Remove drops the task with the given id without asking.
func (s *Store) Remove(id model.ID) (Snapshot, bool) {
	if s.current.indexOf(id) < 0 {
		s.log.Debug("remove: no such task", "id", id)
		return s.current, false
	}
	next := make([]model.Task, 0, len(s.current.tasks)-1)
	for _, t := range s.current.tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}

	s.publish(next)
	s.log.Debug("task removed", "id", id)
	return s.current, true
}

// copyFor copies the whole collection and returns the index of id in the
// copy, or -1 when the id is unknown.
func (s *Store) copyFor(id model.ID) ([]model.Task, int) {
	i := s.current.indexOf(id)
	if i < 0 {
		return nil, -1
	}
	next := make([]model.Task, len(s.current.tasks))
	copy(next, s.current.tasks)
	return next, i
}

func (s *Store) publish(tasks []model.Task) {
	s.current = Snapshot{tasks: tasks}
}
