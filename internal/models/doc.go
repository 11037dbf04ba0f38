// Package models defines the data transfer objects exchanged with the music-review API.
//
// Read-side projections:
//   - [AlbumSummary] : list/search rows with server-computed aggregates
//   - [AlbumDetail] : a single album, delivered inside [AlbumDetailResponse] with its [Comment] and [Genre] lists
//   - [Comment] : a rating plus review text, attributed to a username or anonymous
//
// Write-side requests ([CommentRequest], [ArtistCreateRequest], [AlbumCreateRequest]) carry their own
// client-side validation so callers can reject bad input before any request is made.
//
// The client never reconstructs server-computed fields (average_rating, total_comments); after a
// mutation it re-fetches instead of patching these values.
package models
