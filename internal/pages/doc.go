// Package pages holds the page controllers: per-screen state machines that turn API operations into
// display state.
//
// Each controller owns its view state behind a mutex and exposes a value snapshot for rendering.
// Loads are tagged with a generation number; a result that comes back after a newer load has started
// is dropped, so the last requested route always wins regardless of response order.
//
// Mutations never patch view state. On success they run the load cycle again so that server-computed
// values (average rating, comment order) stay authoritative.
//
// Controllers:
//   - [Home] : album list and search
//   - [AlbumDetail] : one album with its comments, genres and the comment form
//   - [Profile] : the signed-in user's comments and account deletion
//   - [Auth] : login, signup and logout
//   - [Form] : create-artist and create-album forms
package pages
