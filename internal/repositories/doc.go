// Package repositories implements local persistence for the SolveX client.
//
// The client keeps very little state of its own. Everything canonical lives
// behind the remote API; this package holds:
//
//   - [SessionStore] : the signed-in user snapshot. [SQLiteSessionStore] keeps it
//     in the sessions table, [MemorySessionStore] in process memory.
//   - [ExportRunRepository] : the history of bulk exports.
//
// A session is trusted verbatim on reload. There is no expiry and no
// server-side check, so it can drift from the server until the account view
// re-fetches the user.
package repositories
