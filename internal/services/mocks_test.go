package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

type mockSessionPreparer struct {
	err    error
	called int
	config *pgetl.ConnectionConfig
}

func (m *mockSessionPreparer) PrepareSession(ctx context.Context, connConfig *pgetl.ConnectionConfig) (*pgetl.Session, error) {
	m.called++
	m.config = connConfig
	if m.err != nil {
		return nil, m.err
	}
	return nil, errors.New("mockSessionPreparer cannot open real sessions")
}

type mockSchemaManager struct {
	exists    bool
	existsErr error
	createErr error
	dropErr   error
	created   int
	dropped   int
}

func (m *mockSchemaManager) Exists(ctx context.Context, conn pgetl.DBConnection) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockSchemaManager) Create(ctx context.Context, conn pgetl.DBConnection) error {
	m.created++
	return m.createErr
}

func (m *mockSchemaManager) Drop(ctx context.Context, conn pgetl.DBConnection) error {
	m.dropped++
	return m.dropErr
}

func (m *mockSchemaManager) Tables() []string {
	return []string{"songs", "artists", "time", "users", "songplays"}
}

type mockDiscoverer struct {
	files       map[string][]string
	contents    map[string]string
	discoverErr error
	readErr     error
}

func (m *mockDiscoverer) Discover(ctx context.Context, root string) ([]string, error) {
	if m.discoverErr != nil {
		return nil, m.discoverErr
	}
	return m.files[root], nil
}

func (m *mockDiscoverer) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	content, ok := m.contents[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return []byte(content), nil
}

// cancellingDiscoverer cancels the run while a file is being read.
type cancellingDiscoverer struct {
	mockDiscoverer
	cancel context.CancelFunc
}

func (d *cancellingDiscoverer) ReadFile(ctx context.Context, path string) ([]byte, error) {
	d.cancel()
	return nil, fmt.Errorf("read %s: %w", path, ctx.Err())
}

type mockApprover struct {
	approve bool
	err     error
	asked   []string
}

func (m *mockApprover) RequestApproval(ctx context.Context, dbName string) (bool, error) {
	m.asked = append(m.asked, dbName)
	return m.approve, m.err
}

type progressEvent struct {
	root        string
	found       int
	done, total int
	failed      string
}

type mockProgress struct {
	events []progressEvent
}

func (m *mockProgress) FilesFound(root string, count int) {
	m.events = append(m.events, progressEvent{root: root, found: count})
}

func (m *mockProgress) FileProcessed(done, total int) {
	m.events = append(m.events, progressEvent{done: done, total: total})
}

func (m *mockProgress) FileFailed(path string) {
	m.events = append(m.events, progressEvent{failed: path})
}

// recordingStore keeps committed rows and discards rows from failed transactions.
type recordingStore struct {
	committed []string
	rolled    int

	songs     map[[2]string]songRef
	failOn    string
	songplays []pgetl.SongplayRow
	users     []pgetl.UserRow
	times     []pgetl.TimeRow
}

type songRef struct {
	songID, artistID string
	length           float64
}

func newRecordingStore() *recordingStore {
	return &recordingStore{songs: make(map[[2]string]songRef)}
}

func (s *recordingStore) WithinTransaction(ctx context.Context, fn func(pgetl.RowWriter) error) error {
	w := &recordingWriter{store: s}
	if err := fn(w); err != nil {
		s.rolled++
		return err
	}
	s.committed = append(s.committed, w.ops...)
	s.songplays = append(s.songplays, w.songplays...)
	s.users = append(s.users, w.users...)
	s.times = append(s.times, w.times...)
	for k, v := range w.songs {
		s.songs[k] = v
	}
	return nil
}

type recordingWriter struct {
	store     *recordingStore
	ops       []string
	pending   []pgetl.SongRow
	songs     map[[2]string]songRef
	songplays []pgetl.SongplayRow
	users     []pgetl.UserRow
	times     []pgetl.TimeRow
}

func (w *recordingWriter) record(op string) error {
	if w.store.failOn == op {
		return fmt.Errorf("insert into %s: %w", op, pgetl.ErrLoadFailed)
	}
	w.ops = append(w.ops, op)
	return nil
}

func (w *recordingWriter) InsertSong(ctx context.Context, row pgetl.SongRow) error {
	if err := w.record("songs"); err != nil {
		return err
	}
	w.pending = append(w.pending, row)
	return nil
}

// InsertArtist makes pending songs by this artist visible to LookupSong
// once the transaction commits.
func (w *recordingWriter) InsertArtist(ctx context.Context, row pgetl.ArtistRow) error {
	if err := w.record("artists"); err != nil {
		return err
	}
	if w.songs == nil {
		w.songs = make(map[[2]string]songRef)
	}
	for _, song := range w.pending {
		if song.ArtistID == row.ArtistID {
			w.songs[[2]string{song.Title, row.Name}] = songRef{songID: song.SongID, artistID: song.ArtistID, length: song.Duration}
		}
	}
	return nil
}

func (w *recordingWriter) InsertTime(ctx context.Context, row pgetl.TimeRow) error {
	if err := w.record("time"); err != nil {
		return err
	}
	w.times = append(w.times, row)
	return nil
}

func (w *recordingWriter) InsertUser(ctx context.Context, row pgetl.UserRow) error {
	if err := w.record("users"); err != nil {
		return err
	}
	w.users = append(w.users, row)
	return nil
}

func (w *recordingWriter) InsertSongplay(ctx context.Context, row pgetl.SongplayRow) error {
	if err := w.record("songplays"); err != nil {
		return err
	}
	w.songplays = append(w.songplays, row)
	return nil
}

func (w *recordingWriter) LookupSong(ctx context.Context, title, artist string, length float64) (string, string, bool, error) {
	ref, ok := w.store.songs[[2]string{title, artist}]
	if !ok || ref.length != length {
		return "", "", false, nil
	}
	return ref.songID, ref.artistID, true, nil
}
