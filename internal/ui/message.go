package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/solvex/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
//
// Results live in the page controllers; a Msg only says which request finished and how.
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProblemsLoaded MsgKind = iota
	MsgDetailLoaded
	MsgResolved
	MsgAccountLoaded
	MsgProblemDeleted
	MsgCreateOpened
	MsgProblemCreated
)

func (k MsgKind) String() string {
	switch k {
	case MsgProblemsLoaded:
		return "problems_loaded"
	case MsgDetailLoaded:
		return "detail_loaded"
	case MsgResolved:
		return "resolved"
	case MsgAccountLoaded:
		return "account_loaded"
	case MsgProblemDeleted:
		return "problem_deleted"
	case MsgCreateOpened:
		return "create_opened"
	case MsgProblemCreated:
		return "problem_created"
	default:
		return "unknown"
	}
}

// doneMsg is the constructor for messages that only carry an error
func doneMsg(kind MsgKind, err error) Msg {
	return Msg{kind: kind, data: err}
}

// createOpenedMsg is the constructor for [MsgCreateOpened]
func createOpenedMsg(user *models.User, err error) Msg {
	return Msg{
		kind: MsgCreateOpened,
		data: struct {
			user *models.User
			err  error
		}{user, err},
	}
}

// problemCreatedMsg is the constructor for [MsgProblemCreated]
func problemCreatedMsg(problem *models.Problem, err error) Msg {
	return Msg{
		kind: MsgProblemCreated,
		data: struct {
			problem *models.Problem
			err     error
		}{problem, err},
	}
}

// Err returns the error carried by m, if any.
func (m Msg) Err() error {
	switch data := m.data.(type) {
	case error:
		return data
	case struct {
		user *models.User
		err  error
	}:
		return data.err
	case struct {
		problem *models.Problem
		err     error
	}:
		return data.err
	default:
		return nil
	}
}
