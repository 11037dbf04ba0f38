package models

import "time"

// CatalogueEntry is one album in an export, with its detail when it was fetched.
type CatalogueEntry struct {
	Summary  AlbumSummary `json:"summary"`
	Detail   *AlbumDetail `json:"detail,omitempty"`
	Genres   []Genre      `json:"genres,omitempty"`
	Comments []Comment    `json:"comments,omitempty"`
}

// CatalogueExport is a snapshot of the album catalogue.
type CatalogueExport struct {
	Title       string           `json:"title"`
	GeneratedAt time.Time        `json:"generated_at"`
	Albums      []CatalogueEntry `json:"albums"`
}
