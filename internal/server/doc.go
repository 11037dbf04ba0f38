// Package server provides the routing and middleware used to stand up review API stand-ins in tests.
//
// A [Router] registers "METHOD path" routes with [http.ServeMux] under a shared prefix such as
// /api/v1, so wildcards like /albums/{id} reach handlers through [http.Request.PathValue].
//
// # Middleware
//
//   - [RequestLogger] : logs method, path, status, duration and the client's X-Request-ID
//   - [Recoverer] : turns handler panics into a JSON 500
//
// Responses use [WriteJSON] and [WriteError]; the latter produces the {"error": "..."} body the
// review API sends on failure.
package server
