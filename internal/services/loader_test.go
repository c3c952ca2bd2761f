package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/pgetl/internal/logging"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

const (
	songA = `{"num_songs": 1, "artist_id": "ARD7TVE1187B99BFB1", "artist_latitude": null, "artist_longitude": null, "artist_location": "California - LA", "artist_name": "Casual", "song_id": "SOMZWCG12A8C13C480", "title": "I Didn't Mean To", "duration": 218.93179, "year": 0}`
	songB = `{"num_songs": 1, "artist_id": "ARJIE2Y1187B994AB7", "artist_latitude": 35.14968, "artist_longitude": -90.04892, "artist_location": "", "artist_name": "Line Renaud", "song_id": "SOUPIRU12A6D4FA1E1", "title": "Der Kleine Dompfaff", "duration": 152.92036, "year": 0}`

	logLines = `{"artist":"Casual","auth":"Logged In","firstName":"Walter","gender":"M","itemInSession":0,"lastName":"Frye","length":218.93179,"level":"free","location":"San Francisco-Oakland-Hayward, CA","method":"PUT","page":"NextSong","registration":1540919166796.0,"sessionId":38,"song":"I Didn't Mean To","status":200,"ts":1541121934796,"userAgent":"Mozilla","userId":"39"}
{"artist":null,"auth":"Logged In","firstName":"Walter","gender":"M","itemInSession":1,"lastName":"Frye","length":null,"level":"free","location":"San Francisco-Oakland-Hayward, CA","method":"GET","page":"Home","registration":1540919166796.0,"sessionId":38,"song":null,"status":200,"ts":1541121935796,"userAgent":"Mozilla","userId":"39"}
{"artist":"Des'ree","auth":"Logged In","firstName":"Kaylee","gender":"F","itemInSession":1,"lastName":"Summers","length":246.30812,"level":"free","location":"Phoenix-Mesa-Scottsdale, AZ","method":"PUT","page":"NextSong","registration":1540344794796.0,"sessionId":139,"song":"You Gotta Be","status":200,"ts":1541106106796,"userAgent":"Mozilla","userId":"8"}
{"artist":"Mr Oizo","auth":"Logged In","firstName":"Kaylee","gender":"F","itemInSession":3,"lastName":"Summers","length":144.03873,"level":"paid","location":"Phoenix-Mesa-Scottsdale, AZ","method":"PUT","page":"NextSong","registration":1540344794796.0,"sessionId":139,"song":"Flat 55","status":200,"ts":1541106352796,"userAgent":"Mozilla","userId":8}
`
)

func newTestLoadService(discoverer *mockDiscoverer, progress *mockProgress) *LoadService {
	return NewLoadService(
		&mockSessionPreparer{},
		&mockSchemaManager{},
		discoverer,
		logging.NewNullLogger(),
		progress,
	)
}

func TestNewLoadService_PanicsOnNilDependency(t *testing.T) {
	logger := logging.NewNullLogger()
	progress := &mockProgress{}

	assert.Panics(t, func() { NewLoadService(nil, &mockSchemaManager{}, &mockDiscoverer{}, logger, progress) })
	assert.Panics(t, func() { NewLoadService(&mockSessionPreparer{}, nil, &mockDiscoverer{}, logger, progress) })
	assert.Panics(t, func() { NewLoadService(&mockSessionPreparer{}, &mockSchemaManager{}, nil, logger, progress) })
	assert.Panics(t, func() { NewLoadService(&mockSessionPreparer{}, &mockSchemaManager{}, &mockDiscoverer{}, nil, progress) })
	assert.Panics(t, func() { NewLoadService(&mockSessionPreparer{}, &mockSchemaManager{}, &mockDiscoverer{}, logger, nil) })
}

func TestLoad_InvalidConfig(t *testing.T) {
	preparer := &mockSessionPreparer{}
	svc := NewLoadService(preparer, &mockSchemaManager{}, &mockDiscoverer{}, logging.NewNullLogger(), &mockProgress{})

	err := svc.Load(context.Background(), pgetl.LoadConfig{})

	require.Error(t, err)
	assert.ErrorIs(t, err, pgetl.ErrInvalidConfig)
	assert.Equal(t, 0, preparer.called, "no connection attempt on invalid config")
}

func TestLoad_SessionErrorPropagates(t *testing.T) {
	connErr := errors.New("refused")
	preparer := &mockSessionPreparer{err: connErr}
	svc := NewLoadService(preparer, &mockSchemaManager{}, &mockDiscoverer{}, logging.NewNullLogger(), &mockProgress{})

	conn := &pgetl.ConnectionConfig{Host: "localhost", Port: 5432, Database: "sparkifydb"}
	err := svc.Load(context.Background(), pgetl.LoadConfig{
		SongDataPath: "data/song_data",
		LogDataPath:  "data/log_data",
		Connection:   conn,
		RunID:        "0f8fad5b-d9cb-469f-a165-70867728950e",
	})

	assert.ErrorIs(t, err, connErr)
	require.NotNil(t, preparer.config)
	assert.Equal(t, "pgetl-0f8fad5b", preparer.config.AppName)
	assert.Empty(t, conn.AppName, "caller's config is not mutated")
}

func TestEnsureSchema(t *testing.T) {
	ctx := context.Background()

	t.Run("creates when requested", func(t *testing.T) {
		sm := &mockSchemaManager{}
		svc := NewLoadService(&mockSessionPreparer{}, sm, &mockDiscoverer{}, logging.NewNullLogger(), &mockProgress{})

		require.NoError(t, svc.ensureSchema(ctx, nil, true))
		assert.Equal(t, 1, sm.created)
	})

	t.Run("missing tables fail without create", func(t *testing.T) {
		sm := &mockSchemaManager{exists: false}
		svc := NewLoadService(&mockSessionPreparer{}, sm, &mockDiscoverer{}, logging.NewNullLogger(), &mockProgress{})

		err := svc.ensureSchema(ctx, nil, false)
		assert.ErrorIs(t, err, pgetl.ErrLoadFailed)
		assert.Contains(t, err.Error(), "--create-schema")
		assert.Equal(t, 0, sm.created)
	})

	t.Run("existing tables pass", func(t *testing.T) {
		sm := &mockSchemaManager{exists: true}
		svc := NewLoadService(&mockSessionPreparer{}, sm, &mockDiscoverer{}, logging.NewNullLogger(), &mockProgress{})

		assert.NoError(t, svc.ensureSchema(ctx, nil, false))
	})

	t.Run("create failure is a load failure", func(t *testing.T) {
		sm := &mockSchemaManager{createErr: errors.New("permission denied for schema public")}
		svc := NewLoadService(&mockSessionPreparer{}, sm, &mockDiscoverer{}, logging.NewNullLogger(), &mockProgress{})

		assert.ErrorIs(t, svc.ensureSchema(ctx, nil, true), pgetl.ErrLoadFailed)
	})
}

func TestProcessData_SongsThenLogs(t *testing.T) {
	ctx := context.Background()
	discoverer := &mockDiscoverer{
		files: map[string][]string{
			"/data/song_data": {"/data/song_data/A/a.json", "/data/song_data/B/b.json"},
			"/data/log_data":  {"/data/log_data/2018-11-02-events.json"},
		},
		contents: map[string]string{
			"/data/song_data/A/a.json":              songA,
			"/data/song_data/B/b.json":              songB + "\n",
			"/data/log_data/2018-11-02-events.json": logLines,
		},
	}
	progress := &mockProgress{}
	svc := newTestLoadService(discoverer, progress)
	st := newRecordingStore()

	n, err := svc.processData(ctx, st, "/data/song_data", svc.processSongFile)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.processData(ctx, st, "/data/log_data", svc.processLogFile)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, []progressEvent{
		{root: "/data/song_data", found: 2},
		{done: 1, total: 2},
		{done: 2, total: 2},
		{root: "/data/log_data", found: 1},
		{done: 1, total: 1},
	}, progress.events)

	assert.Equal(t, []string{
		"songs", "artists",
		"songs", "artists",
		"time", "time", "time",
		"users", "users",
		"songplays", "songplays", "songplays",
	}, st.committed)

	require.Len(t, st.users, 2)
	assert.Equal(t, 39, st.users[0].UserID)
	assert.Equal(t, 8, st.users[1].UserID)
	assert.Equal(t, "free", st.users[1].Level, "first occurrence wins")

	require.Len(t, st.songplays, 3)
	require.NotNil(t, st.songplays[0].SongID)
	assert.Equal(t, "SOMZWCG12A8C13C480", *st.songplays[0].SongID)
	assert.Equal(t, "ARD7TVE1187B99BFB1", *st.songplays[0].ArtistID)
	assert.Nil(t, st.songplays[1].SongID)
	assert.Nil(t, st.songplays[1].ArtistID)
	assert.Equal(t, 139, st.songplays[2].SessionID)

	assert.Equal(t, 1541121934796, int(st.times[0].StartTime.UnixMilli()))
}

func TestProcessData_EmptyRoot(t *testing.T) {
	progress := &mockProgress{}
	svc := newTestLoadService(&mockDiscoverer{}, progress)
	st := newRecordingStore()

	n, err := svc.processData(context.Background(), st, "/empty", svc.processSongFile)

	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, []progressEvent{{root: "/empty", found: 0}}, progress.events)
}

func TestProcessData_DiscoveryErrorIsConfigError(t *testing.T) {
	svc := newTestLoadService(&mockDiscoverer{discoverErr: errors.New("directory not found: /nope")}, &mockProgress{})

	_, err := svc.processData(context.Background(), newRecordingStore(), "/nope", svc.processSongFile)

	assert.ErrorIs(t, err, pgetl.ErrInvalidConfig)
	assert.Equal(t, pgetl.ExitConfigError, pgetl.ExitCodeForError(err))
}

func TestProcessData_StopsAtFirstBadFile(t *testing.T) {
	discoverer := &mockDiscoverer{
		files: map[string][]string{
			"/songs": {"/songs/1.json", "/songs/2.json", "/songs/3.json"},
		},
		contents: map[string]string{
			"/songs/1.json": songA,
			"/songs/2.json": `{"song_id": "SOX", "title": "No artist"}`,
			"/songs/3.json": songB,
		},
	}
	progress := &mockProgress{}
	svc := newTestLoadService(discoverer, progress)
	st := newRecordingStore()

	n, err := svc.processData(context.Background(), st, "/songs", svc.processSongFile)

	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, pgetl.ErrMissingField)
	assert.Equal(t, pgetl.ExitInvalidData, pgetl.ExitCodeForError(err))
	assert.Contains(t, err.Error(), "/songs/2.json")
	assert.Equal(t, []string{"songs", "artists"}, st.committed, "file 3 never runs")
}

func TestProcessData_UnreadableFileIsInvalidData(t *testing.T) {
	discoverer := &mockDiscoverer{
		files:    map[string][]string{"/songs": {"/songs/1.json"}},
		contents: map[string]string{"/songs/1.json": songA},
		readErr:  errors.New("permission denied"),
	}
	progress := &mockProgress{}
	svc := newTestLoadService(discoverer, progress)

	n, err := svc.processData(context.Background(), newRecordingStore(), "/songs", svc.processSongFile)

	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, pgetl.ErrInvalidData)
	assert.Equal(t, pgetl.ExitInvalidData, pgetl.ExitCodeForError(err))
	assert.Contains(t, err.Error(), "/songs/1.json")
	assert.Contains(t, err.Error(), "permission denied")
	assert.Equal(t, []progressEvent{
		{root: "/songs", found: 1},
		{failed: "/songs/1.json"},
	}, progress.events)
}

func TestProcessData_ReadCancelledIsNotInvalidData(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	discoverer := &cancellingDiscoverer{
		mockDiscoverer: mockDiscoverer{files: map[string][]string{"/songs": {"/songs/1.json"}}},
		cancel:         cancel,
	}
	svc := newTestLoadService(&discoverer.mockDiscoverer, &mockProgress{})
	svc.discoverer = discoverer

	_, err := svc.processData(ctx, newRecordingStore(), "/songs", svc.processSongFile)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, pgetl.ErrInvalidData)
}

func TestProcessData_FailureReportedOnce(t *testing.T) {
	discoverer := &mockDiscoverer{
		files: map[string][]string{"/songs": {"/songs/1.json", "/songs/2.json"}},
		contents: map[string]string{
			"/songs/1.json": songA,
			"/songs/2.json": "null",
		},
	}
	progress := &mockProgress{}
	svc := newTestLoadService(discoverer, progress)

	_, err := svc.processData(context.Background(), newRecordingStore(), "/songs", svc.processSongFile)

	assert.ErrorIs(t, err, pgetl.ErrInvalidData)
	assert.Equal(t, []progressEvent{
		{root: "/songs", found: 2},
		{done: 1, total: 2},
		{failed: "/songs/2.json"},
	}, progress.events)
}

func TestProcessLogFile_RollsBackOnInsertFailure(t *testing.T) {
	svc := newTestLoadService(&mockDiscoverer{}, &mockProgress{})
	st := newRecordingStore()
	st.failOn = "songplays"

	err := svc.processLogFile(context.Background(), st, []byte(logLines))

	assert.ErrorIs(t, err, pgetl.ErrLoadFailed)
	assert.Equal(t, 1, st.rolled)
	assert.Empty(t, st.committed)
	assert.Empty(t, st.times)
	assert.Empty(t, st.users)
}

func TestProcessLogFile_InvalidUserIDFailsBeforeWriting(t *testing.T) {
	svc := newTestLoadService(&mockDiscoverer{}, &mockProgress{})
	st := newRecordingStore()

	content := `{"page":"NextSong","ts":1541121934796,"userId":"abc","song":"x","artist":"y","length":1.0}`
	err := svc.processLogFile(context.Background(), st, []byte(content))

	assert.ErrorIs(t, err, pgetl.ErrInvalidData)
	assert.Equal(t, 0, st.rolled, "parse errors happen before the transaction")
	assert.Empty(t, st.committed)
}

func TestProcessLogFile_NoNextSongEvents(t *testing.T) {
	svc := newTestLoadService(&mockDiscoverer{}, &mockProgress{})
	st := newRecordingStore()

	content := `{"page":"Home","ts":1541121934796,"userId":""}` + "\n"
	require.NoError(t, svc.processLogFile(context.Background(), st, []byte(content)))
	assert.Empty(t, st.committed)
}

func TestProcessData_CancelledContext(t *testing.T) {
	discoverer := &mockDiscoverer{
		files:    map[string][]string{"/songs": {"/songs/1.json"}},
		contents: map[string]string{"/songs/1.json": songA},
	}
	svc := newTestLoadService(discoverer, &mockProgress{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.processData(ctx, newRecordingStore(), "/songs", svc.processSongFile)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestShortRunID(t *testing.T) {
	assert.Equal(t, "0f8fad5b", shortRunID("0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.Equal(t, "abc", shortRunID("abc"))
}
