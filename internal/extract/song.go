package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// songFields must all be present in a song file. Location, latitude and longitude may be null.
var songFields = []string{
	"song_id",
	"title",
	"artist_id",
	"year",
	"duration",
	"artist_name",
	"artist_location",
	"artist_latitude",
	"artist_longitude",
}

type songRecord struct {
	SongID          string   `json:"song_id"`
	Title           string   `json:"title"`
	ArtistID        string   `json:"artist_id"`
	Year            int      `json:"year"`
	Duration        float64  `json:"duration"`
	ArtistName      string   `json:"artist_name"`
	ArtistLocation  *string  `json:"artist_location"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
}

// ParseSongFile decodes a song metadata file into its song and artist rows.
// The content must be exactly one JSON object; surrounding whitespace is allowed.
func ParseSongFile(content []byte) (pgetl.SongRow, pgetl.ArtistRow, error) {
	dec := json.NewDecoder(bytes.NewReader(content))

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return pgetl.SongRow{}, pgetl.ArtistRow{}, fmt.Errorf("song file is not a JSON object: %v: %w", err, pgetl.ErrInvalidData)
	}
	if raw == nil {
		return pgetl.SongRow{}, pgetl.ArtistRow{}, fmt.Errorf("song file holds null instead of an object: %w", pgetl.ErrInvalidData)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return pgetl.SongRow{}, pgetl.ArtistRow{}, fmt.Errorf("song file holds more than one JSON value: %w", pgetl.ErrInvalidData)
	}

	for _, field := range songFields {
		if _, ok := raw[field]; !ok {
			return pgetl.SongRow{}, pgetl.ArtistRow{}, missingField(field)
		}
	}

	var rec songRecord
	if err := json.Unmarshal(content, &rec); err != nil {
		return pgetl.SongRow{}, pgetl.ArtistRow{}, fmt.Errorf("song file has a field of the wrong type: %v: %w", err, pgetl.ErrInvalidData)
	}

	song := pgetl.SongRow{
		SongID:   rec.SongID,
		Title:    rec.Title,
		ArtistID: rec.ArtistID,
		Year:     rec.Year,
		Duration: rec.Duration,
	}
	artist := pgetl.ArtistRow{
		ArtistID:  rec.ArtistID,
		Name:      rec.ArtistName,
		Location:  rec.ArtistLocation,
		Latitude:  rec.ArtistLatitude,
		Longitude: rec.ArtistLongitude,
	}
	return song, artist, nil
}

// missingField returns an error matching both ErrMissingField and ErrInvalidData.
func missingField(name string) error {
	return fmt.Errorf("%w %q: %w", pgetl.ErrMissingField, name, pgetl.ErrInvalidData)
}
