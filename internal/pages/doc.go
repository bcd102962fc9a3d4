// Package pages holds the view controllers shared by the CLI and the TUI.
//
// Each controller owns the local state of one screen, calls the API services
// on open or on user action, and reconciles results into that state. The
// CLI drives them once per command; the TUI drives them from tea.Cmds and
// renders their snapshots.
//
// # State machine
//
// Every async view moves through [Status]:
//
//	idle -> loading -> ready | error
//	ready -> mutating -> ready | error
//
// A mutation never sends the view back to loading.
//
// # Stale responses
//
// Each fetch takes a token from the view's [Generation]. A response only
// updates state while its token is the latest; otherwise the fetch returns
// [ErrStale] and the result is dropped. Close bumps the generation so
// late responses after a view is dismissed are dropped too.
//
// # List reconciliation
//
// The account view's problem list is a [ProblemListState] reduced over
// [DeleteRequested], [DeleteSucceeded], [DeleteFailed] and [Inserted]
// events. Removal happens only on success, so a failed delete leaves the
// list unchanged and only sets the banner.
//
// # Validation
//
// Forms are validated with go-playground/validator before any request is
// sent. Failures are returned as [*FormError], which wraps
// [shared.ErrValidation].
package pages
