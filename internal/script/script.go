// Package script replays a JSON list of user intents against a fresh task
// store, the way the interactive list would apply them one keypress at a time.
package script

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/row"
	"github.com/Makepad-fr/tada/internal/store"
)

// Op names one intent.
type Op string

const (
	OpAdd    Op = "add"
	OpToggle Op = "toggle"
	OpRename Op = "rename"
	OpRemove Op = "remove"
	OpEdit   Op = "edit"
	OpType   Op = "type"
	OpCommit Op = "commit"
	OpCancel Op = "cancel"
)

// Intent is one user action. A task is addressed either by ID or by its
// 1-based display Index at the time the intent runs.
type Intent struct {
	Op      Op       `json:"op"`
	Title   string   `json:"title,omitempty"`
	ID      model.ID `json:"id,omitempty"`
	Index   int      `json:"index,omitempty"`
	Confirm bool     `json:"confirm,omitempty"`
}

// Script is a parsed and validated intent list.
type Script struct {
	Intents []Intent `json:"intents"`
}

// Parse reads and validates a script.
func Parse(r io.Reader) (*Script, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(doc); err != nil {
		return nil, toValidationError(err)
	}

	var s Script
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	return &s, nil
}

// Result is what a replay leaves behind.
type Result struct {
	Snapshot store.Snapshot
	Notices  []store.Notice
	// Declined counts removals the script did not confirm.
	Declined int
	// Editing lists rows still in edit mode when the script ended.
	Editing []model.ID
	// Blank counts add intents skipped for a blank title.
	Blank int
}

// answerPrompter answers confirmations with the answer of the intent
// being replayed.
type answerPrompter struct {
	answer   bool
	notices  []store.Notice
	declined int
}

func (p *answerPrompter) Notify(n store.Notice) { p.notices = append(p.notices, n) }

func (p *answerPrompter) Confirm(c *store.Confirmation) {
	if !p.answer {
		p.declined++
	}
	c.Resolve(p.answer)
}

// Runner applies intents to its own store.
type Runner struct {
	store    *store.Store
	prompter *answerPrompter
	rows     map[model.ID]*row.Session
	blank    int
	log      *log.Logger
}

// NewRunner returns a runner over an empty store.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	p := &answerPrompter{}
	return &Runner{
		store:    store.New(store.WithPrompter(p), store.WithLogger(logger)),
		prompter: p,
		rows:     map[model.ID]*row.Session{},
		log:      logger,
	}
}

// Run applies every intent in order and returns the outcome.
func (r *Runner) Run(s *Script) Result {
	for i, in := range s.Intents {
		r.apply(i, in)
		r.reconcile()
	}

	res := Result{
		Snapshot: r.store.Snapshot(),
		Notices:  r.prompter.notices,
		Declined: r.prompter.declined,
		Blank:    r.blank,
	}
	for _, t := range res.Snapshot.Tasks() {
		if sess, ok := r.rows[t.ID]; ok && sess.Editing() {
			res.Editing = append(res.Editing, t.ID)
		}
	}
	return res
}

func (r *Runner) apply(i int, in Intent) {
	logger := r.log.With("intent", i, "op", in.Op)

	if in.Op == OpAdd {
		title := strings.TrimSpace(in.Title)
		if title == "" {
			logger.Warn("title cannot be empty")
			r.blank++
			return
		}
		r.store.Add(title)
		return
	}

	id := r.resolve(in)
	switch in.Op {
	case OpToggle:
		r.store.Toggle(id)
	case OpRename:
		r.store.Rename(id, in.Title)
	case OpRemove:
		sess := r.rows[id]
		if sess != nil && !sess.DeleteEnabled() {
			logger.Warn("delete disabled while editing", "id", id)
			return
		}
		r.prompter.answer = in.Confirm
		r.store.RequestRemove(id)
	case OpEdit, OpType, OpCommit, OpCancel:
		sess := r.session(id)
		if sess == nil {
			logger.Debug("no such row", "id", id)
			return
		}
		switch in.Op {
		case OpEdit:
			sess.Edit()
		case OpType:
			sess.SetDraft(in.Title)
		case OpCommit:
			sess.Commit(func(id model.ID, title string) { r.store.Rename(id, title) })
		case OpCancel:
			sess.Cancel()
		}
	default:
		logger.Warn("unknown op")
	}
}

// resolve maps an intent to a task id. An index outside the collection
// maps to the zero id, which no task ever has.
func (r *Runner) resolve(in Intent) model.ID {
	if in.Index == 0 {
		return in.ID
	}
	snap := r.store.Snapshot()
	if in.Index < 1 || in.Index > snap.Len() {
		return 0
	}
	return snap.At(in.Index - 1).ID
}

// session returns the row session for id, rendering the row on first use.
func (r *Runner) session(id model.ID) *row.Session {
	if sess, ok := r.rows[id]; ok {
		return sess
	}
	task, ok := r.store.Snapshot().Find(id)
	if !ok {
		return nil
	}
	sess := row.New(task)
	r.rows[id] = sess
	return sess
}

// reconcile drops sessions of removed rows and syncs the rest.
func (r *Runner) reconcile() {
	snap := r.store.Snapshot()
	for id, sess := range r.rows {
		task, ok := snap.Find(id)
		if !ok {
			delete(r.rows, id)
			continue
		}
		sess.Sync(task)
	}
}
