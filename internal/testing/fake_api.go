package testing

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spindle/internal/models"
	"github.com/desertthunder/spindle/internal/server"
)

// APIPrefix is the path every review API route lives under.
const APIPrefix = "/api/v1"

type fakeUser struct {
	username string
	email    string
	password string
}

type fakeAlbum struct {
	detail models.AlbumDetail
	genres []models.Genre
}

type injectedFailure struct {
	status  int
	body    string
	skip    int
	remains int
}

// FakeAPI is an in-memory review API served over HTTP.
//
// Its responses follow the real backend: {"error": ...} bodies on failure, albums listed by
// review count then average rating, comments newest first.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	users    []fakeUser
	artists  []models.Artist
	albums   []fakeAlbum
	comments []models.Comment
	genres   []models.Genre
	nextID   int
	failures map[string]*injectedFailure
	clock    time.Time

	requests atomic.Int32
	paths    []string
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()

	f := &FakeAPI{
		failures: make(map[string]*injectedFailure),
		clock:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	logger := log.New(io.Discard)
	router := server.NewRouter(APIPrefix)
	router.Use(f.track, server.Recoverer(logger), server.RequestLogger(logger), f.inject)

	router.HandleFunc(http.MethodPost, "/signup", f.signup)
	router.HandleFunc(http.MethodPost, "/login", f.login)
	router.HandleFunc(http.MethodGet, "/albums", f.listAlbums)
	router.HandleFunc(http.MethodGet, "/albums/search", f.searchAlbums)
	router.HandleFunc(http.MethodGet, "/albums/{id}", f.albumDetail)
	router.HandleFunc(http.MethodPost, "/albums/{id}/comments", f.postComment)
	router.HandleFunc(http.MethodPost, "/albums", f.createAlbum)
	router.HandleFunc(http.MethodGet, "/artists", f.listArtists)
	router.HandleFunc(http.MethodPost, "/artists", f.createArtist)
	router.HandleFunc(http.MethodGet, "/genres", f.listGenres)
	router.HandleFunc(http.MethodGet, "/users/{username}/comments", f.userComments)
	router.HandleFunc(http.MethodDelete, "/users/{username}", f.deleteUser)

	f.Server = httptest.NewServer(router)
	t.Cleanup(f.Server.Close)
	return f
}

// URL returns the API base address, including [APIPrefix].
func (f *FakeAPI) URL() string {
	return f.Server.URL + APIPrefix
}

// Requests returns how many requests reached the server.
func (f *FakeAPI) Requests() int {
	return int(f.requests.Load())
}

// Paths returns "METHOD path?query" for every request, in arrival order.
func (f *FakeAPI) Paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.paths)
}

// Fail makes the next n requests matching "METHOD /path" (without the prefix) answer with status and a JSON error.
func (f *FakeAPI) Fail(route string, status int, message string, n int) {
	body, _ := json.Marshal(map[string]string{"error": message})
	f.FailRaw(route, status, string(body), n)
}

// FailAfter lets skip matching requests through, then fails the next n like [FakeAPI.Fail].
func (f *FakeAPI) FailAfter(route string, skip int, status int, message string, n int) {
	body, _ := json.Marshal(map[string]string{"error": message})
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[route] = &injectedFailure{status: status, body: string(body), skip: skip, remains: n}
}

// FailRaw is like [FakeAPI.Fail] but writes body verbatim as text/plain unless it looks like JSON.
func (f *FakeAPI) FailRaw(route string, status int, body string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[route] = &injectedFailure{status: status, body: body, remains: n}
}

// AddUser seeds an account.
func (f *FakeAPI) AddUser(username, email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, fakeUser{username: username, email: email, password: password})
}

// HasUser reports whether username exists.
func (f *FakeAPI) HasUser(username string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userIndex(username) >= 0
}

// AddArtist seeds an artist and returns its id.
func (f *FakeAPI) AddArtist(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addArtist(name, "")
}

// AddGenre seeds a genre and returns its id.
func (f *FakeAPI) AddGenre(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.genres = append(f.genres, models.Genre{ID: f.nextID, Name: name})
	return f.nextID
}

// AddAlbum seeds an album by an existing artist and returns its id.
func (f *FakeAPI) AddAlbum(title string, artistID int, released string, genreIDs ...int) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	date, _ := models.ParseDate(released)
	id, ok := f.addAlbum(models.AlbumCreateRequest{Title: title, ArtistID: artistID}, date)
	if !ok {
		return 0
	}

	for _, gid := range genreIDs {
		for _, g := range f.genres {
			if g.ID == gid {
				f.albums[len(f.albums)-1].genres = append(f.albums[len(f.albums)-1].genres, g)
			}
		}
	}
	return id
}

// AddComment seeds a review. An empty username is anonymous.
func (f *FakeAPI) AddComment(albumID int, username string, rating int, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addComment(albumID, models.CommentRequest{Rating: rating, CommentText: text, Username: username})
}

// Comments returns every stored comment for albumID.
func (f *FakeAPI) Comments(albumID int) []models.Comment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.albumComments(albumID)
}

func (f *FakeAPI) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests.Add(1)
		entry := r.Method + " " + strings.TrimPrefix(r.URL.Path, APIPrefix)
		if r.URL.RawQuery != "" {
			entry += "?" + r.URL.RawQuery
		}
		f.mu.Lock()
		f.paths = append(f.paths, entry)
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + strings.TrimPrefix(r.URL.Path, APIPrefix)

		f.mu.Lock()
		failure, ok := f.failures[route]
		if ok && failure.skip > 0 {
			failure.skip--
			ok = false
		} else if ok {
			failure.remains--
			if failure.remains <= 0 {
				delete(f.failures, route)
			}
		}
		f.mu.Unlock()

		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		if strings.HasPrefix(failure.body, "{") {
			w.Header().Set("Content-Type", "application/json")
		} else {
			w.Header().Set("Content-Type", "text/plain")
		}
		w.WriteHeader(failure.status)
		io.WriteString(w, failure.body)
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		server.WriteError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (f *FakeAPI) signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		server.WriteError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.username == req.Username || u.email == req.Email {
			server.WriteError(w, http.StatusConflict, "Email or username already exists")
			return
		}
	}
	f.users = append(f.users, fakeUser{username: req.Username, email: req.Email, password: req.Password})
	server.WriteJSON(w, http.StatusCreated, models.Acknowledgement{Message: "User registered successfully"})
}

func (f *FakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.email == req.Email && u.password == req.Password {
			server.WriteJSON(w, http.StatusOK, models.LoginResult{Username: u.username})
			return
		}
	}
	server.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
}

func (f *FakeAPI) listAlbums(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	server.WriteJSON(w, http.StatusOK, f.summaries(""))
}

func (f *FakeAPI) searchAlbums(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	server.WriteJSON(w, http.StatusOK, f.summaries(r.URL.Query().Get("q")))
}

func (f *FakeAPI) albumDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		server.WriteError(w, http.StatusNotFound, "Album not found")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	album := f.album(id)
	if album == nil {
		server.WriteError(w, http.StatusNotFound, "Album not found")
		return
	}

	genres := album.genres
	if genres == nil {
		genres = []models.Genre{}
	}
	server.WriteJSON(w, http.StatusOK, models.AlbumDetailResponse{
		Album:    &album.detail,
		Comments: f.albumComments(id),
		Genres:   genres,
	})
}

func (f *FakeAPI) postComment(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(r.PathValue("id"))

	var req models.CommentRequest
	if !decode(w, r, &req) {
		return
	}
	if req.CommentText == "" {
		server.WriteError(w, http.StatusBadRequest, "comment_text is required")
		return
	}
	if !models.ValidRating(req.Rating) {
		server.WriteError(w, http.StatusBadRequest, "Rating must be between 1 and 10")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.album(id) == nil {
		server.WriteError(w, http.StatusInternalServerError, "Failed to post comment")
		return
	}
	f.addComment(id, req)
	server.WriteJSON(w, http.StatusCreated, models.Acknowledgement{Message: "Comment created"})
}

func (f *FakeAPI) createAlbum(w http.ResponseWriter, r *http.Request) {
	var req models.AlbumCreateRequest
	if !decode(w, r, &req) {
		return
	}

	var date models.Date
	if req.ReleaseDate != "" {
		parsed, err := models.ParseDate(req.ReleaseDate)
		if err != nil {
			server.WriteError(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD")
			return
		}
		date = parsed
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.addAlbum(req, date)
	if !ok {
		server.WriteError(w, http.StatusInternalServerError, "Failed to create album")
		return
	}
	server.WriteJSON(w, http.StatusCreated, models.CreatedAlbum{Message: "Album created", AlbumID: id})
}

func (f *FakeAPI) listArtists(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	artists := slices.Clone(f.artists)
	if artists == nil {
		artists = []models.Artist{}
	}
	server.WriteJSON(w, http.StatusOK, artists)
}

func (f *FakeAPI) createArtist(w http.ResponseWriter, r *http.Request) {
	var req models.ArtistCreateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		server.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.addArtist(req.Name, req.Bio)
	server.WriteJSON(w, http.StatusCreated, models.CreatedArtist{Message: "Artist created", ArtistID: id})
}

func (f *FakeAPI) listGenres(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	genres := slices.Clone(f.genres)
	if genres == nil {
		genres = []models.Genre{}
	}
	server.WriteJSON(w, http.StatusOK, genres)
}

func (f *FakeAPI) userComments(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	f.mu.Lock()
	defer f.mu.Unlock()

	out := []models.Comment{}
	for _, c := range f.newestFirst() {
		if c.Username != username {
			continue
		}
		if album := f.album(c.AlbumID); album != nil {
			c.AlbumTitle = album.detail.Title
			c.CoverImageURL = album.detail.CoverImageURL
		}
		out = append(out, c)
	}
	server.WriteJSON(w, http.StatusOK, out)
}

func (f *FakeAPI) deleteUser(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	f.mu.Lock()
	defer f.mu.Unlock()

	idx := f.userIndex(username)
	if idx < 0 {
		server.WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	f.users = slices.Delete(f.users, idx, idx+1)
	f.comments = slices.DeleteFunc(f.comments, func(c models.Comment) bool { return c.Username == username })
	server.WriteJSON(w, http.StatusOK, models.Acknowledgement{Message: "User and all their comments deleted"})
}

// The helpers below expect f.mu to be held.

func (f *FakeAPI) userIndex(username string) int {
	return slices.IndexFunc(f.users, func(u fakeUser) bool { return u.username == username })
}

func (f *FakeAPI) addArtist(name, bio string) int {
	f.nextID++
	f.artists = append(f.artists, models.Artist{ID: f.nextID, Name: name, Bio: bio})
	return f.nextID
}

func (f *FakeAPI) addAlbum(req models.AlbumCreateRequest, released models.Date) (int, bool) {
	idx := slices.IndexFunc(f.artists, func(a models.Artist) bool { return a.ID == req.ArtistID })
	if idx < 0 {
		return 0, false
	}

	f.nextID++
	f.albums = append(f.albums, fakeAlbum{detail: models.AlbumDetail{
		ID:            f.nextID,
		Title:         req.Title,
		ArtistID:      req.ArtistID,
		ArtistName:    f.artists[idx].Name,
		ReleaseDate:   released,
		CoverImageURL: req.CoverImageURL,
	}})
	return f.nextID, true
}

func (f *FakeAPI) addComment(albumID int, req models.CommentRequest) {
	if req.Username != "" && f.userIndex(req.Username) < 0 {
		f.users = append(f.users, fakeUser{username: req.Username})
	}

	f.nextID++
	f.clock = f.clock.Add(time.Minute)
	f.comments = append(f.comments, models.Comment{
		ID:          f.nextID,
		AlbumID:     albumID,
		Username:    req.Username,
		Rating:      req.Rating,
		CommentText: req.CommentText,
		CreatedAt:   f.clock,
	})
}

func (f *FakeAPI) album(id int) *fakeAlbum {
	for i := range f.albums {
		if f.albums[i].detail.ID == id {
			return &f.albums[i]
		}
	}
	return nil
}

func (f *FakeAPI) newestFirst() []models.Comment {
	out := slices.Clone(f.comments)
	slices.Reverse(out)
	return out
}

func (f *FakeAPI) albumComments(albumID int) []models.Comment {
	out := []models.Comment{}
	for _, c := range f.newestFirst() {
		if c.AlbumID == albumID {
			out = append(out, c)
		}
	}
	return out
}

func (f *FakeAPI) summaries(query string) []models.AlbumSummary {
	query = strings.ToLower(query)
	out := []models.AlbumSummary{}

	for _, a := range f.albums {
		if query != "" && !strings.Contains(strings.ToLower(a.detail.Title), query) &&
			!strings.Contains(strings.ToLower(a.detail.ArtistName), query) {
			continue
		}

		summary := models.AlbumSummary{
			ID:            a.detail.ID,
			Title:         a.detail.Title,
			ArtistName:    a.detail.ArtistName,
			CoverImageURL: a.detail.CoverImageURL,
		}
		var sum int
		for _, c := range f.comments {
			if c.AlbumID == a.detail.ID {
				summary.TotalComments++
				sum += c.Rating
			}
		}
		if summary.TotalComments > 0 {
			summary.AverageRating = float64(sum) / float64(summary.TotalComments)
		}
		out = append(out, summary)
	}

	slices.SortStableFunc(out, func(a, b models.AlbumSummary) int {
		if c := cmp.Compare(b.TotalComments, a.TotalComments); c != 0 {
			return c
		}
		return cmp.Compare(b.AverageRating, a.AverageRating)
	})
	return out
}

func (f *FakeAPI) String() string {
	return fmt.Sprintf("FakeAPI(%s)", f.URL())
}
