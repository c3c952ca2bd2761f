package extract

import (
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// TimeRowFor decomposes an epoch-millisecond timestamp in UTC.
func TimeRowFor(ts int64) pgetl.TimeRow {
	t := (pgetl.LogEvent{Timestamp: ts}).StartTime()
	_, week := t.ISOWeek()

	return pgetl.TimeRow{
		StartTime: t,
		Hour:      t.Hour(),
		Day:       t.Day(),
		Week:      week,
		Month:     int(t.Month()),
		Year:      t.Year(),
		Weekday:   t.Weekday().String(),
	}
}

// UniqueUsers returns one row per distinct user id, taken from the user's
// first event and ordered by first occurrence.
func UniqueUsers(events []pgetl.LogEvent) []pgetl.UserRow {
	seen := make(map[int]bool)
	var users []pgetl.UserRow

	for _, e := range events {
		if seen[e.UserID] {
			continue
		}
		seen[e.UserID] = true
		users = append(users, pgetl.UserRow{
			UserID:    e.UserID,
			FirstName: e.FirstName,
			LastName:  e.LastName,
			Gender:    e.Gender,
			Level:     e.Level,
		})
	}
	return users
}

// SongplayFor builds the songplay row for an event. songID and artistID are
// nil when the play did not match a loaded song.
func SongplayFor(e pgetl.LogEvent, songID, artistID *string) pgetl.SongplayRow {
	return pgetl.SongplayRow{
		StartTime: e.StartTime(),
		UserID:    e.UserID,
		Level:     e.Level,
		SongID:    songID,
		ArtistID:  artistID,
		SessionID: e.SessionID,
		Location:  e.Location,
		UserAgent: e.UserAgent,
	}
}
