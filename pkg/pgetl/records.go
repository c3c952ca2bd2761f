package pgetl

import "time"

// SongRow is one row of the songs table, built from a song metadata file.
type SongRow struct {
	SongID   string
	Title    string
	ArtistID string
	Year     int
	Duration float64
}

// ArtistRow is one row of the artists table, built from a song metadata file.
// Location, Latitude and Longitude are nil when the source value is null.
type ArtistRow struct {
	ArtistID  string
	Name      string
	Location  *string
	Latitude  *float64
	Longitude *float64
}

// LogEvent is a single line of an event log file.
// Only the fields the load uses are kept.
type LogEvent struct {
	Page      string
	Timestamp int64 // epoch milliseconds
	UserID    int
	FirstName string
	LastName  string
	Gender    string
	Level     string
	Song      string
	Artist    string
	Length    float64
	SessionID int
	Location  string
	UserAgent string
}

// StartTime returns the event timestamp as a UTC time.
func (e LogEvent) StartTime() time.Time {
	return time.UnixMilli(e.Timestamp).UTC()
}

// TimeRow is a timestamp decomposed into calendar components.
type TimeRow struct {
	StartTime time.Time
	Hour      int
	Day       int
	Week      int // ISO 8601 week number
	Month     int
	Year      int
	Weekday   string
}

// UserRow is one row of the users table.
type UserRow struct {
	UserID    int
	FirstName string
	LastName  string
	Gender    string
	Level     string
}

// SongplayRow is one row of the songplays fact table.
// SongID and ArtistID are nil when the play could not be matched to a loaded song.
type SongplayRow struct {
	StartTime time.Time
	UserID    int
	Level     string
	SongID    *string
	ArtistID  *string
	SessionID int
	Location  string
	UserAgent string
}
