package pgetl

import "context"

// RowWriter inserts rows into the analytics tables.
// A RowWriter is bound to one open transaction and is only valid inside
// the callback passed to Store.WithinTransaction.
type RowWriter interface {
	InsertSong(ctx context.Context, row SongRow) error
	InsertArtist(ctx context.Context, row ArtistRow) error
	InsertTime(ctx context.Context, row TimeRow) error
	InsertUser(ctx context.Context, row UserRow) error
	InsertSongplay(ctx context.Context, row SongplayRow) error

	// LookupSong finds the song and artist identifiers matching a play.
	// found is false when no loaded song matches; that is not an error.
	LookupSong(ctx context.Context, title, artist string, length float64) (songID, artistID string, found bool, err error)
}

// Store runs file-sized units of work.
type Store interface {
	// WithinTransaction runs fn inside one transaction. The transaction
	// commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(RowWriter) error) error
}
