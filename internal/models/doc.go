// Package models defines the SolveX entities as served by the remote API,
// along with the request payloads and list filters the client sends.
//
// The package contains three categories of types:
//
// 1. Entities decoded from API responses
//   - [User] : account identity
//   - [Problem] : a tracked programming problem, [ProblemWithAuthor] adds its author
//   - [Solution] : one attempt at a problem, [SolutionDetail] adds its tree position
//   - [Tag] and [Resource] : classification and learning material
//   - [ProblemFull] : the aggregate of a problem with its solutions, tags, resources and relations
//   - [Dashboard] : recent activity and usage rankings for one user
//
// 2. Request payloads such as [CreateProblemRequest] and [UpdateUserRequest].
// Update payloads use pointer fields so that only set values are sent.
//
// 3. List filters ([ProblemFilter], [ResourceFilter]) which encode to query strings
// with empty values omitted.
//
// Every entity implements [Validator]. The HTTP client checks decoded values
// with it so that a malformed payload fails instead of leaking zero values.
package models
