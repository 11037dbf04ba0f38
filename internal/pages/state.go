package pages

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/shared"
)

// State is the load state of a page.
type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
	NotFound
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	case NotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Outcome tells the caller where to navigate after an operation.
type Outcome int

const (
	Stay Outcome = iota
	RedirectHome
)

func (o Outcome) String() string {
	if o == RedirectHome {
		return "redirect home"
	}
	return "stay"
}

// Sessions is the part of the session store controllers depend on.
type Sessions interface {
	Get() (string, bool)
	Set(username string) error
	Clear() error
}

// generation tags loads so a late result can be recognized and dropped. Callers hold the controller lock.
type generation struct {
	n uint64
}

func (g *generation) next() uint64 {
	g.n++
	return g.n
}

func (g *generation) current(n uint64) bool {
	return g.n == n
}

func pageLogger(logger *log.Logger, page string) *log.Logger {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return shared.WithLogger(logger, "page", page)
}
