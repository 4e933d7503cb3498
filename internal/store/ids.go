package store

import "github.com/Makepad-fr/tada/internal/model"

// IDSource hands out task ids. Every call must return an id never
// returned before by the same source.
type IDSource interface {
	NextID() model.ID
}

// Sequence is a monotonic IDSource starting at 1.
type Sequence struct {
	last model.ID
}

func (s *Sequence) NextID() model.ID {
	s.last++
	return s.last
}
