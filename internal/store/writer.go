package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Writer implements pgetl.RowWriter on an open transaction.
type Writer struct {
	q querier
}

func newWriter(q querier) *Writer {
	return &Writer{q: q}
}

func (w *Writer) exec(ctx context.Context, table, sql string, args ...any) error {
	if _, err := w.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert into %s: %w: %w", table, pgetl.ErrLoadFailed, err)
	}
	return nil
}

func (w *Writer) InsertSong(ctx context.Context, row pgetl.SongRow) error {
	return w.exec(ctx, "songs", insertSong, row.SongID, row.Title, row.ArtistID, row.Year, row.Duration)
}

func (w *Writer) InsertArtist(ctx context.Context, row pgetl.ArtistRow) error {
	return w.exec(ctx, "artists", insertArtist, row.ArtistID, row.Name, row.Location, row.Latitude, row.Longitude)
}

func (w *Writer) InsertTime(ctx context.Context, row pgetl.TimeRow) error {
	return w.exec(ctx, "time", insertTime, row.StartTime, row.Hour, row.Day, row.Week, row.Month, row.Year, row.Weekday)
}

func (w *Writer) InsertUser(ctx context.Context, row pgetl.UserRow) error {
	return w.exec(ctx, "users", insertUser, row.UserID, row.FirstName, row.LastName, row.Gender, row.Level)
}

func (w *Writer) InsertSongplay(ctx context.Context, row pgetl.SongplayRow) error {
	return w.exec(ctx, "songplays", insertSongplay,
		row.StartTime, row.UserID, row.Level, row.SongID, row.ArtistID, row.SessionID, row.Location, row.UserAgent)
}

func (w *Writer) LookupSong(ctx context.Context, title, artist string, length float64) (string, string, bool, error) {
	var songID, artistID string
	err := w.q.QueryRow(ctx, selectSongByPlay, title, artist, length).Scan(&songID, &artistID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return "", "", false, nil
	case err != nil:
		return "", "", false, fmt.Errorf("song lookup: %w: %w", pgetl.ErrLoadFailed, err)
	}
	return songID, artistID, true, nil
}

var _ pgetl.RowWriter = (*Writer)(nil)
