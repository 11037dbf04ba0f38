package tasks

import (
	"fmt"

	"github.com/desertthunder/spindle/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchAlbums Phase = iota
	FetchDetails
	Assemble
)

func (p Phase) String() string {
	switch p {
	case FetchAlbums:
		return "fetch_albums"
	case FetchDetails:
		return "fetch_details"
	case Assemble:
		return "assemble"
	default:
		return ""
	}
}

func fetchingAlbumsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchAlbums,
		Step:    0,
		Total:   1,
		Message: "Fetching album list...",
	}
}

func foundAlbumsUpdate(albums []models.AlbumSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchAlbums,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d albums", len(albums)),
		Data:    albums,
	}
}

func detailFetchedUpdate(step, total int, album models.AlbumSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s - %s", step, total, album.ArtistName, album.Title),
	}
}

func detailFailedUpdate(step, total int, album models.AlbumSummary, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, album.Title, err),
	}
}

func assembledUpdate(export *models.CatalogueExport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Assemble,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Catalogue ready (%d albums)", len(export.Albums)),
		Data:    export,
	}
}
