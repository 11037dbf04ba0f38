package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spindle/internal/pages"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
//
// Page data is never carried in the message; views read it back from the controllers' snapshots.
type Msg struct {
	kind    MsgKind
	outcome pages.Outcome
	user    string
	seq     uint64
	err     error
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgAlbumsLoaded MsgKind = iota
	MsgAlbumLoaded
	MsgCommentPosted
	MsgProfileLoaded
	MsgAccountDeleted
	MsgLoggedIn
	MsgSessionChanged
)

// albumsLoadedMsg is the constructor for [MsgAlbumsLoaded]
func albumsLoadedMsg(err error) Msg {
	return Msg{kind: MsgAlbumsLoaded, err: err}
}

// albumLoadedMsg is the constructor for [MsgAlbumLoaded]
func albumLoadedMsg(err error) Msg {
	return Msg{kind: MsgAlbumLoaded, err: err}
}

// commentPostedMsg is the constructor for [MsgCommentPosted]
func commentPostedMsg(err error) Msg {
	return Msg{kind: MsgCommentPosted, err: err}
}

// profileLoadedMsg is the constructor for [MsgProfileLoaded]
func profileLoadedMsg(outcome pages.Outcome, err error) Msg {
	return Msg{kind: MsgProfileLoaded, outcome: outcome, err: err}
}

// accountDeletedMsg is the constructor for [MsgAccountDeleted]
func accountDeletedMsg(outcome pages.Outcome, err error) Msg {
	return Msg{kind: MsgAccountDeleted, outcome: outcome, err: err}
}

// loggedInMsg is the constructor for [MsgLoggedIn]
func loggedInMsg(username string, err error) Msg {
	return Msg{kind: MsgLoggedIn, user: username, err: err}
}

// sessionChangedMsg is the constructor for [MsgSessionChanged]. seq orders changes that are
// delivered out of order.
func sessionChangedMsg(seq uint64, username string) Msg {
	return Msg{kind: MsgSessionChanged, seq: seq, user: username}
}
