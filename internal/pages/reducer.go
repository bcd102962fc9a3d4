package pages

import (
	"maps"
	"slices"

	"github.com/desertthunder/solvex/internal/models"
)

// ProblemListState is the account view's list of authored problems.
//
// Pending holds ids with a delete in flight. Items only lose an id once its
// delete succeeds.
type ProblemListState struct {
	Items   []models.Problem
	Pending map[int]bool
	Banner  string
}

// ListEvent is one step applied by [Reduce].
type ListEvent interface {
	listEvent()
}

// Loaded replaces the list with a fresh fetch.
type Loaded struct{ Items []models.Problem }

// DeleteRequested marks an id as having a delete in flight.
type DeleteRequested struct{ ID int }

// DeleteSucceeded removes the id from the list.
type DeleteSucceeded struct{ ID int }

// DeleteFailed clears the in-flight mark and sets the banner. The item stays.
type DeleteFailed struct {
	ID  int
	Err error
}

// Inserted adds a problem at the head of the list.
type Inserted struct{ Problem models.Problem }

func (Loaded) listEvent()          {}
func (DeleteRequested) listEvent() {}
func (DeleteSucceeded) listEvent() {}
func (DeleteFailed) listEvent()    {}
func (Inserted) listEvent()        {}

// Reduce returns the state after e. The input state is not modified.
func Reduce(s ProblemListState, e ListEvent) ProblemListState {
	next := s.Clone()

	switch e := e.(type) {
	case Loaded:
		next.Items = slices.Clone(e.Items)
		next.Pending = map[int]bool{}
		next.Banner = ""
	case DeleteRequested:
		next.Pending[e.ID] = true
		next.Banner = ""
	case DeleteSucceeded:
		delete(next.Pending, e.ID)
		next.Items = slices.DeleteFunc(next.Items, func(p models.Problem) bool { return p.ProblemID == e.ID })
	case DeleteFailed:
		delete(next.Pending, e.ID)
		if e.Err != nil {
			next.Banner = e.Err.Error()
		}
	case Inserted:
		if !slices.ContainsFunc(next.Items, func(p models.Problem) bool { return p.ProblemID == e.Problem.ProblemID }) {
			next.Items = append([]models.Problem{e.Problem}, next.Items...)
		}
	}
	return next
}

// Clone returns a deep copy of s.
func (s ProblemListState) Clone() ProblemListState {
	next := ProblemListState{
		Items:   slices.Clone(s.Items),
		Pending: maps.Clone(s.Pending),
		Banner:  s.Banner,
	}
	if next.Pending == nil {
		next.Pending = map[int]bool{}
	}
	return next
}

// IDs returns the ids of the listed problems in order.
func (s ProblemListState) IDs() []int {
	ids := make([]int, len(s.Items))
	for i, p := range s.Items {
		ids[i] = p.ProblemID
	}
	return ids
}
