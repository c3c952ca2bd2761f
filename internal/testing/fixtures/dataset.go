// Package fixtures builds small song and event-log datasets for tests.
package fixtures

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vvka-141/pgetl/internal/files/filesystem"
)

// Song is the content of one song metadata file.
type Song struct {
	SongID          string   `json:"song_id"`
	Title           string   `json:"title"`
	ArtistID        string   `json:"artist_id"`
	Year            int      `json:"year"`
	Duration        float64  `json:"duration"`
	ArtistName      string   `json:"artist_name"`
	ArtistLocation  *string  `json:"artist_location"`
	ArtistLatitude  *float64 `json:"artist_latitude"`
	ArtistLongitude *float64 `json:"artist_longitude"`
	NumSongs        int      `json:"num_songs"`
}

// Event is one line of an event log file. UserID is emitted verbatim so tests
// can use both the string and the numeric form.
type Event struct {
	Artist        string  `json:"artist,omitempty"`
	Auth          string  `json:"auth"`
	FirstName     string  `json:"firstName"`
	Gender        string  `json:"gender"`
	ItemInSession int     `json:"itemInSession"`
	LastName      string  `json:"lastName"`
	Length        float64 `json:"length,omitempty"`
	Level         string  `json:"level"`
	Location      string  `json:"location"`
	Method        string  `json:"method"`
	Page          string  `json:"page"`
	SessionID     int     `json:"sessionId"`
	Song          string  `json:"song,omitempty"`
	Status        int     `json:"status"`
	Ts            int64   `json:"ts"`
	UserAgent     string  `json:"userAgent"`
	UserID        any     `json:"userId"`
}

// Dataset accumulates files keyed by path relative to a data root.
type Dataset struct {
	files map[string]string
}

// NewDataset creates an empty Dataset.
func NewDataset() *Dataset {
	return &Dataset{files: make(map[string]string)}
}

// AddSong writes s as a single-object song file at path.
func (d *Dataset) AddSong(path string, s Song) *Dataset {
	b, err := json.Marshal(s)
	if err != nil {
		panic(fmt.Sprintf("marshal song %s: %v", s.SongID, err))
	}
	d.files[path] = string(b) + "\n"
	return d
}

// AddLog writes events as one JSON object per line at path.
func (d *Dataset) AddLog(path string, events ...Event) *Dataset {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		b, err := json.Marshal(e)
		if err != nil {
			panic(fmt.Sprintf("marshal event %d: %v", e.Ts, err))
		}
		lines = append(lines, string(b))
	}
	d.files[path] = strings.Join(lines, "\n") + "\n"
	return d
}

// AddRaw stores content verbatim at path.
func (d *Dataset) AddRaw(path, content string) *Dataset {
	d.files[path] = content
	return d
}

// Build returns an in-memory filesystem rooted at root holding every file.
func (d *Dataset) Build(root string) *filesystem.MemoryFileSystem {
	fs := filesystem.NewMemoryFileSystem(root)
	for path, content := range d.files {
		fs.AddFile(path, content)
	}
	return fs
}

// WriteTo writes every file below dir, creating directories as needed.
func (d *Dataset) WriteTo(dir string) error {
	for path, content := range d.files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

func ptr(f float64) *float64 { return &f }

func str(s string) *string { return &s }

// Sparkify returns a small dataset in the shape of the Sparkify sample:
// two song files under song_data and one log file under log_data with
// three NextSong plays (one matching a loaded song) and one Home event.
func Sparkify() *Dataset {
	return NewDataset().
		AddSong("song_data/A/A/A/TRAAAAW128F429D538.json", Song{
			SongID: "SOMZWCG12A8C13C480", Title: "I Didn't Mean To",
			ArtistID: "ARD7TVE1187B99BFB1", Year: 0, Duration: 218.93179,
			ArtistName: "Casual", ArtistLocation: str("California - LA"), NumSongs: 1,
		}).
		AddSong("song_data/A/A/B/TRAABJL12903CDCF1A.json", Song{
			SongID: "SOUPIRU12A6D4FA1E1", Title: "Der Kleine Dompfaff",
			ArtistID: "ARJIE2Y1187B994AB7", Year: 0, Duration: 152.92036,
			ArtistName:     "Line Renaud",
			ArtistLatitude: ptr(35.14968), ArtistLongitude: ptr(-90.04892), NumSongs: 1,
		}).
		AddLog("log_data/2018/11/2018-11-02-events.json",
			Event{
				Artist: "Casual", Auth: "Logged In", FirstName: "Walter", Gender: "M",
				LastName: "Frye", Length: 218.93179, Level: "free",
				Location: "San Francisco-Oakland-Hayward, CA", Method: "PUT", Page: "NextSong",
				SessionID: 38, Song: "I Didn't Mean To", Status: 200, Ts: 1541121934796,
				UserAgent: "Mozilla/5.0", UserID: "39",
			},
			Event{
				Auth: "Logged In", FirstName: "Walter", Gender: "M", LastName: "Frye",
				Level: "free", Location: "San Francisco-Oakland-Hayward, CA", Method: "GET",
				Page: "Home", SessionID: 38, Status: 200, Ts: 1541121935796,
				UserAgent: "Mozilla/5.0", UserID: "39",
			},
			Event{
				Artist: "Des'ree", Auth: "Logged In", FirstName: "Kaylee", Gender: "F",
				LastName: "Summers", Length: 246.30812, Level: "free",
				Location: "Phoenix-Mesa-Scottsdale, AZ", Method: "PUT", Page: "NextSong",
				SessionID: 139, Song: "You Gotta Be", Status: 200, Ts: 1541106106796,
				UserAgent: "Mozilla/5.0 (Windows NT 6.1)", UserID: 8,
			},
			Event{
				Artist: "Mr Oizo", Auth: "Logged In", FirstName: "Kaylee", Gender: "F",
				LastName: "Summers", Length: 144.03873, Level: "free",
				Location: "Phoenix-Mesa-Scottsdale, AZ", Method: "PUT", Page: "NextSong",
				SessionID: 139, Song: "Flat 55", Status: 200, Ts: 1541106352796,
				UserAgent: "Mozilla/5.0 (Windows NT 6.1)", UserID: 8,
			},
		)
}
