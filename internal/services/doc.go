// Package services talks to the music-review REST API.
//
// # Transport
//
// [Client] builds requests against a fixed base address (default http://localhost:8080/api/v1), sends a JSON
// content type whenever a body is present and tags each request with an X-Request-ID for log correlation.
// The response body is always read in full as text before JSON parsing is attempted, so error bodies that are
// not JSON are still recoverable.
//
// # Operations
//
// [ReviewService] implements [API]: one method per backend capability, each a typed wrapper over [Client.Do].
// The only client-side rule is that a comment needs text; everything else is left to the server.
//
// # Error Handling
//
// Failures use three types, all matchable with errors.Is against the shared sentinels:
//   - [NetworkError] : request could not be sent or received ([shared.ErrNetwork])
//   - [APIError] : non-success status, carrying exactly one extracted message ([shared.ErrAPIRequest], and [shared.ErrNotFound] on 404)
//   - [ValidationError] : precondition failed before sending ([shared.ErrInvalidInput])
package services
