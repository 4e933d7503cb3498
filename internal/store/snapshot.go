package store

import "github.com/Makepad-fr/tada/internal/model"

// Snapshot is one published version of the task collection.
// It is never modified after the store hands it out.
type Snapshot struct {
	tasks []model.Task
}

// Len returns the number of tasks.
func (s Snapshot) Len() int { return len(s.tasks) }

// At returns a copy of the task at display position i.
func (s Snapshot) At(i int) model.Task { return s.tasks[i] }

// Tasks returns a copy of the tasks in display order.
func (s Snapshot) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Find returns the task with the given id.
func (s Snapshot) Find(id model.ID) (model.Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

// Contains reports whether a task with exactly this title exists.
func (s Snapshot) Contains(title string) bool {
	for _, t := range s.tasks {
		if t.Title == title {
			return true
		}
	}
	return false
}

// Stats counts done and pending tasks.
func (s Snapshot) Stats() (done, pending int) {
	for _, t := range s.tasks {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

func (s Snapshot) indexOf(id model.ID) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
