// Package services implements typed access to the SolveX HTTP+JSON API.
//
// # Client
//
// [Client] resolves paths against a configured base address, attaches JSON
// headers and a generated X-Request-ID, and decodes 2xx bodies into the
// caller's type. Decoded values implementing [models.Validator] are checked
// before they are returned, so a malformed payload yields
// [shared.ErrMalformedResponse] rather than zero values.
//
// Non-2xx responses become an [*APIError] whose message is taken from the
// body's detail field:
//   - {"detail": "..."} : the string is the message
//   - {"detail": [{"loc": [...], "msg": "..."}]} : "loc.joined: msg" fragments joined by ", "
//   - anything else : "API request failed"
//
// Transport failures are wrapped and returned. Nothing is retried.
//
// # Resource modules
//
// One type per resource maps each application action to a single request:
//   - [UsersAPI] : /users, /users/login, /users/{id}/problems
//   - [ProblemsAPI] : /problems, /problems/{id}/full, /problems/{id}/resolve
//   - [SolutionsAPI] : /problems/{id}/solutions, /solutions/{id}, /solutions/{id}/children
//   - [TagsAPI] : /tags
//   - [ResourcesAPI] : /resources, /resources/{id}/visit
//   - [DashboardAPI] : /dashboard/{user_id}, /health
//
// No module batches or paginates; list endpoints return the full collection.
package services
