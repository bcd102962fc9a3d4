// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow over the SolveX API:
//  1. [ProblemListView] : Browse problems; typing in the search box re-fetches on every change
//  2. [ProblemDetailView] : Read the aggregate (solutions, tags, resources) and mark it resolved
//  3. [CreateProblemView] : Fill in and submit a new problem
//  4. [AccountView] : List the signed-in user's problems
//  5. [ConfirmDeleteView] : Confirm deleting one of them
//
// State lives in the [pages] controllers; the (view) [Model] only renders their snapshots.
// Every request runs inside a tea.Cmd so rendering never waits on the network, and a
// response superseded by a newer request comes back as [pages.ErrStale] and is ignored.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
