package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

const songFile = `{"num_songs": 1, "artist_id": "ARD7TVE1187B99BFB1", "artist_latitude": null, "artist_longitude": null, "artist_location": "California - LA", "artist_name": "Casual", "song_id": "SOMZWCG12A8C13C480", "title": "I Didn't Mean To", "duration": 218.93179, "year": 0}
`

func TestParseSongFile(t *testing.T) {
	song, artist, err := ParseSongFile([]byte(songFile))
	require.NoError(t, err)

	assert.Equal(t, pgetl.SongRow{
		SongID:   "SOMZWCG12A8C13C480",
		Title:    "I Didn't Mean To",
		ArtistID: "ARD7TVE1187B99BFB1",
		Year:     0,
		Duration: 218.93179,
	}, song)
	assert.Equal(t, "ARD7TVE1187B99BFB1", artist.ArtistID)
	assert.Equal(t, "Casual", artist.Name)
	require.NotNil(t, artist.Location)
	assert.Equal(t, "California - LA", *artist.Location)
	assert.Nil(t, artist.Latitude)
	assert.Nil(t, artist.Longitude)
}

func TestParseSongFile_Coordinates(t *testing.T) {
	content := `{"artist_id": "AR8ZCNI1187B9A069B", "artist_latitude": 35.14968, "artist_longitude": -90.04892, "artist_location": "Memphis, TN", "artist_name": "Planet P Project", "song_id": "SOIAZJW12AB01853F1", "title": "Pink World", "duration": 269.81832, "year": 1984}`

	song, artist, err := ParseSongFile([]byte(content))
	require.NoError(t, err)

	assert.Equal(t, 1984, song.Year)
	require.NotNil(t, artist.Latitude)
	require.NotNil(t, artist.Longitude)
	assert.InDelta(t, 35.14968, *artist.Latitude, 1e-9)
	assert.InDelta(t, -90.04892, *artist.Longitude, 1e-9)
}

func TestParseSongFile_NullLocation(t *testing.T) {
	content := `{"artist_id": "ARMJAGH1187FB546F3", "artist_latitude": null, "artist_longitude": null, "artist_location": null, "artist_name": "The Box Tops", "song_id": "SOCIWDW12A8C13D406", "title": "Soul Deep", "duration": 148.03546, "year": 1969}`

	_, artist, err := ParseSongFile([]byte(content))
	require.NoError(t, err)
	assert.Nil(t, artist.Location, "null location is stored as NULL")

	_, artist, err = ParseSongFile([]byte(strings.Replace(content, `"artist_location": null`, `"artist_location": ""`, 1)))
	require.NoError(t, err)
	require.NotNil(t, artist.Location)
	assert.Empty(t, *artist.Location, "empty location stays an empty string")
}

func TestParseSongFile_NullContent(t *testing.T) {
	_, _, err := ParseSongFile([]byte("null\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, pgetl.ErrInvalidData)
	assert.Contains(t, err.Error(), "null instead of an object")
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestParseSongFile_MissingField(t *testing.T) {
	content := `{"artist_id": "A", "artist_latitude": null, "artist_longitude": null, "artist_location": "", "artist_name": "N", "title": "T", "duration": 1.0, "year": 2000}`

	_, _, err := ParseSongFile([]byte(content))
	require.Error(t, err)
	assert.ErrorIs(t, err, pgetl.ErrMissingField)
	assert.ErrorIs(t, err, pgetl.ErrInvalidData)
	assert.Contains(t, err.Error(), `"song_id"`)
}

func TestParseSongFile_InvalidContent(t *testing.T) {
	tests := map[string]string{
		"empty":         "",
		"not json":      "song_id=1",
		"array":         `[{"song_id": "S"}]`,
		"null":          "null",
		"two objects":   songFile + songFile,
		"wrong type":    `{"song_id": 1, "title": "T", "artist_id": "A", "year": 2000, "duration": 1.0, "artist_name": "N", "artist_location": "", "artist_latitude": null, "artist_longitude": null}`,
		"trailing junk": songFile + "}",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := ParseSongFile([]byte(content))
			assert.ErrorIs(t, err, pgetl.ErrInvalidData)
		})
	}
}
