// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a thin shell over the page controllers in [pages]:
//  1. [HomeView] : Browse or search albums
//  2. [AlbumView] : Read an album's reviews and post one
//  3. [ProfileView] : List the signed-in user's reviews and delete the account
//  4. [LoginView] : Sign in with email and password
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Controller calls run inside [tea.Cmd] goroutines; when one finishes, the view re-reads the controller's snapshot.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
