package model

import "fmt"

// ID identifies a task for as long as it is held in a collection.
type ID int64

func (id ID) String() string { return fmt.Sprintf("#%d", int64(id)) }

// Task is the domain model for a to-do entry.
type Task struct {
	ID    ID     `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}
