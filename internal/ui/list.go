package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spindle/internal/formatter"
	"github.com/desertthunder/spindle/internal/models"
)

var (
	_ list.Item = albumItem{}
)

// albumItem wraps [models.AlbumSummary] to implement [list.Item].
type albumItem struct {
	album models.AlbumSummary
}

func (i albumItem) FilterValue() string { return i.album.Title }
func (i albumItem) Title() string       { return i.album.Title }
func (i albumItem) Description() string {
	return fmt.Sprintf("%s • %s • %s",
		i.album.ArtistName, formatter.FormatAverage(i.album.AverageRating), formatter.FormatReviewCount(i.album.TotalComments))
}

func albumItems(albums []models.AlbumSummary) []list.Item {
	items := make([]list.Item, len(albums))
	for i, a := range albums {
		items[i] = albumItem{album: a}
	}
	return items
}
