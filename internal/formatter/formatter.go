// Package formatter renders albums, reviews and catalogue exports as plain text, Markdown, CSV and JSON
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spindle/internal/models"
)

const (
	filledMark = "★"
	emptyMark  = "☆"
)

// RatingMarks renders r filled marks followed by empty marks up to [models.MaxRating]. r is clamped to [0, 10].
func RatingMarks(r int) string {
	r = max(0, min(r, models.MaxRating))
	return strings.Repeat(filledMark, r) + strings.Repeat(emptyMark, models.MaxRating-r)
}

// FormatAverage renders an average rating with one decimal, e.g. "7.5/10".
func FormatAverage(avg float64) string {
	return fmt.Sprintf("%.1f/%d", avg, models.MaxRating)
}

// FormatReviewCount renders "1 review" or "n reviews".
func FormatReviewCount(n int) string {
	if n == 1 {
		return "1 review"
	}
	return fmt.Sprintf("%d reviews", n)
}

// AlbumsToText renders a numbered album list, or a placeholder when empty.
func AlbumsToText(albums []models.AlbumSummary) []byte {
	var buf bytes.Buffer
	if len(albums) == 0 {
		buf.WriteString("No albums found.\n")
		return buf.Bytes()
	}

	for _, a := range albums {
		buf.WriteString(fmt.Sprintf("#%-4d %s - %s  [%s, %s]\n",
			a.ID, a.ArtistName, a.Title, FormatAverage(a.AverageRating), FormatReviewCount(a.TotalComments)))
	}
	return buf.Bytes()
}

// AlbumDetailToText renders one album with its genres and comments.
func AlbumDetailToText(detail *models.AlbumDetailResponse) []byte {
	var buf bytes.Buffer
	if detail == nil || detail.Album == nil {
		buf.WriteString("Album not found.\n")
		return buf.Bytes()
	}

	album := detail.Album
	buf.WriteString(fmt.Sprintf("%s\n", album.Title))
	buf.WriteString(fmt.Sprintf("Artist: %s\n", album.ArtistName))
	if !album.ReleaseDate.IsZero() {
		buf.WriteString(fmt.Sprintf("Released: %s\n", album.ReleaseDate))
	}
	if len(detail.Genres) > 0 {
		buf.WriteString(fmt.Sprintf("Genres: %s\n", GenreNames(detail.Genres)))
	}
	buf.WriteString("\n")
	buf.Write(CommentsToText(detail.Comments, false))
	return buf.Bytes()
}

// CommentsToText renders reviews. withAlbum prefixes each with its album title, as on a profile.
func CommentsToText(comments []models.Comment, withAlbum bool) []byte {
	var buf bytes.Buffer
	if len(comments) == 0 {
		buf.WriteString("No reviews yet.\n")
		return buf.Bytes()
	}

	for _, c := range comments {
		if withAlbum && c.AlbumTitle != "" {
			buf.WriteString(fmt.Sprintf("%s\n", c.AlbumTitle))
		}
		buf.WriteString(fmt.Sprintf("%s %s", RatingMarks(c.Rating), c.Author()))
		if !c.CreatedAt.IsZero() {
			buf.WriteString(fmt.Sprintf(" (%s)", c.CreatedAt.Format(models.DateLayout)))
		}
		buf.WriteString(fmt.Sprintf("\n  %s\n\n", c.CommentText))
	}
	return buf.Bytes()
}

// GenreNames joins genre names with commas.
func GenreNames(genres []models.Genre) string {
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

// AlbumsToCSV converts albums to CSV with columns: ID, Title, Artist, Average Rating, Reviews, Cover
func AlbumsToCSV(albums []models.AlbumSummary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Average Rating", "Reviews", "Cover"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, a := range albums {
		record := []string{
			strconv.Itoa(a.ID),
			a.Title,
			a.ArtistName,
			strconv.FormatFloat(a.AverageRating, 'f', 1, 64),
			strconv.Itoa(a.TotalComments),
			a.CoverImageURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// AlbumsToMarkdown converts albums to a Markdown table.
func AlbumsToMarkdown(title string, albums []models.AlbumSummary) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Albums**: %d\n\n", len(albums)))
	buf.WriteString("| # | Album | Artist | Rating | Reviews |\n")
	buf.WriteString("|---|---|---|---|---|\n")
	for _, a := range albums {
		buf.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %d |\n",
			a.ID, escapeCell(a.Title), escapeCell(a.ArtistName), FormatAverage(a.AverageRating), a.TotalComments))
	}
	return buf.Bytes()
}

// AlbumDetailToMarkdown renders one album page with an optional cover image.
func AlbumDetailToMarkdown(detail *models.AlbumDetailResponse, imageFilename string) ([]byte, error) {
	if detail == nil || detail.Album == nil {
		return nil, fmt.Errorf("album detail is empty")
	}

	var buf bytes.Buffer
	writeAlbumSection(&buf, 1, detail.Album, detail.Genres, detail.Comments, imageFilename)
	return buf.Bytes(), nil
}

func writeAlbumSection(buf *bytes.Buffer, level int, album *models.AlbumDetail, genres []models.Genre, comments []models.Comment, imageFilename string) {
	heading := strings.Repeat("#", level)

	buf.WriteString(fmt.Sprintf("%s %s\n\n", heading, album.Title))
	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Artist**: %s\n", album.ArtistName))
	if !album.ReleaseDate.IsZero() {
		buf.WriteString(fmt.Sprintf("**Released**: %s\n", album.ReleaseDate))
	}
	if len(genres) > 0 {
		buf.WriteString(fmt.Sprintf("**Genres**: %s\n", GenreNames(genres)))
	}

	buf.WriteString(fmt.Sprintf("\n%s# Reviews (%d)\n\n", heading, len(comments)))
	for _, c := range comments {
		buf.WriteString(fmt.Sprintf("- %s **%s**: %s\n", RatingMarks(c.Rating), c.Author(), c.CommentText))
	}
}

// CatalogueToMarkdown renders a full export: the album table and a section per album that has detail.
func CatalogueToMarkdown(export *models.CatalogueExport) []byte {
	summaries := make([]models.AlbumSummary, 0, len(export.Albums))
	for _, e := range export.Albums {
		summaries = append(summaries, e.Summary)
	}

	var buf bytes.Buffer
	buf.Write(AlbumsToMarkdown(export.Title, summaries))
	if !export.GeneratedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("\n_Generated %s_\n", export.GeneratedAt.Format(time.RFC3339)))
	}

	for _, e := range export.Albums {
		if e.Detail == nil {
			continue
		}
		buf.WriteString("\n")
		writeAlbumSection(&buf, 2, e.Detail, e.Genres, e.Comments, "")
	}
	return buf.Bytes()
}

// CatalogueToCSV converts an export to album-level CSV.
func CatalogueToCSV(export *models.CatalogueExport) ([]byte, error) {
	summaries := make([]models.AlbumSummary, 0, len(export.Albums))
	for _, e := range export.Albums {
		summaries = append(summaries, e.Summary)
	}
	return AlbumsToCSV(summaries)
}

// ToJSON renders any value as indented JSON.
func ToJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// MarkdownExportResult contains information about files created by WriteAlbumMarkdown
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
	Warnings   []string
}

// WriteAlbumMarkdown writes an album page to {dir}/README.md, with the cover saved as {dir}/cover.jpg when it can
// be downloaded. Directory name defaults to album-{id}.
func WriteAlbumMarkdown(ctx context.Context, client *http.Client, detail *models.AlbumDetailResponse, outputDir string) (*MarkdownExportResult, error) {
	if detail == nil || detail.Album == nil {
		return nil, fmt.Errorf("album detail is empty")
	}
	if outputDir == "" {
		outputDir = fmt.Sprintf("album-%d", detail.Album.ID)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}

	var coverImageFilename string
	if url := detail.Album.CoverImageURL; url != "" {
		imageData, err := DownloadImage(ctx, client, url)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("failed to save cover image: %v", err))
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := AlbumDetailToMarkdown(detail, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)
	return result, nil
}

// WriteFile writes data to path, or to w when path is empty or "-".
func WriteFile(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
