package pages

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/services"
)

// HomeView is a snapshot of the home page.
type HomeView struct {
	SearchTerm string
	Albums     []models.AlbumSummary
	State      State
}

// Empty reports whether there is nothing to list.
func (v HomeView) Empty() bool {
	return len(v.Albums) == 0
}

// Home lists albums, optionally filtered by a search term.
//
// A failed load shows no albums instead of an error; the failure is only logged.
type Home struct {
	api    services.API
	logger *log.Logger

	mu     sync.Mutex
	gen    generation
	term   string
	albums []models.AlbumSummary
	state  State
}

func NewHome(api services.API, logger *log.Logger) *Home {
	return &Home{api: api, logger: pageLogger(logger, "home"), albums: []models.AlbumSummary{}}
}

// SetSearchTerm updates the term without loading.
func (h *Home) SetSearchTerm(term string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.term = term
}

// Load lists every album when the trimmed term is empty and searches otherwise.
//
// The returned error is informational; the view already reflects it as an empty result.
func (h *Home) Load(ctx context.Context) error {
	h.mu.Lock()
	gen := h.gen.next()
	query := strings.TrimSpace(h.term)
	h.state = Loading
	h.mu.Unlock()

	var (
		albums []models.AlbumSummary
		err    error
	)
	if query == "" {
		albums, err = h.api.ListAlbums(ctx)
	} else {
		albums, err = h.api.SearchAlbums(ctx, query)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.gen.current(gen) {
		h.logger.Debug("dropping stale album list", "query", query)
		return err
	}

	if err != nil {
		h.logger.Error("failed to load albums", "query", query, "error", err)
		h.albums = []models.AlbumSummary{}
		h.state = Failed
		return err
	}

	h.albums = albums
	h.state = Loaded
	return nil
}

// Submit reruns the load cycle for the current term.
func (h *Home) Submit(ctx context.Context) error {
	return h.Load(ctx)
}

func (h *Home) Snapshot() HomeView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HomeView{SearchTerm: h.term, Albums: slices.Clone(h.albums), State: h.state}
}
