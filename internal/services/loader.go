package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/pgetl/internal/db"
	"github.com/vvka-141/pgetl/internal/extract"
	"github.com/vvka-141/pgetl/internal/store"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// fileFunc loads the content of one file through st.
type fileFunc func(ctx context.Context, st pgetl.Store, content []byte) error

// LoadService implements pgetl.Loader.
// Thread-Safety: NOT safe for concurrent Load() calls on the same instance.
type LoadService struct {
	sessionPreparer pgetl.SessionPreparer
	schemaManager   pgetl.SchemaManager
	discoverer      pgetl.FileDiscoverer
	logger          pgetl.Logger
	progress        pgetl.ProgressReporter
}

// NewLoadService creates a LoadService.
// Panics if any dependency is nil.
func NewLoadService(
	sessionPreparer pgetl.SessionPreparer,
	schemaManager pgetl.SchemaManager,
	discoverer pgetl.FileDiscoverer,
	logger pgetl.Logger,
	progress pgetl.ProgressReporter,
) *LoadService {
	if sessionPreparer == nil {
		panic("sessionPreparer cannot be nil")
	}
	if schemaManager == nil {
		panic("schemaManager cannot be nil")
	}
	if discoverer == nil {
		panic("discoverer cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	if progress == nil {
		panic("progress cannot be nil")
	}

	return &LoadService{
		sessionPreparer: sessionPreparer,
		schemaManager:   schemaManager,
		discoverer:      discoverer,
		logger:          logger,
		progress:        progress,
	}
}

// Load connects, checks or creates the tables, then loads every song file
// followed by every log file, one transaction per file. It stops at the
// first failing file; files before it stay committed.
func (s *LoadService) Load(ctx context.Context, config pgetl.LoadConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	s.logger.Verbose("Run %s", config.RunID)
	s.logger.Verbose("Song data: %s", config.SongDataPath)
	s.logger.Verbose("Log data: %s", config.LogDataPath)

	connConfig := *config.Connection
	if connConfig.AppName == "" && config.RunID != "" {
		connConfig.AppName = pgetl.ApplicationNamePrefix + shortRunID(config.RunID)
	}

	session, err := s.sessionPreparer.PrepareSession(ctx, &connConfig)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := s.ensureSchema(ctx, db.NewConnAdapter(session.Conn()), config.CreateSchema); err != nil {
		return err
	}

	st := store.New(session.Conn())

	songFiles, err := s.processData(ctx, st, config.SongDataPath, s.processSongFile)
	if err != nil {
		return err
	}

	logFiles, err := s.processData(ctx, st, config.LogDataPath, s.processLogFile)
	if err != nil {
		return err
	}

	s.logger.Info("✓ Loaded %d song files and %d log files into '%s'", songFiles, logFiles, connConfig.Database)
	return nil
}

func (s *LoadService) ensureSchema(ctx context.Context, conn pgetl.DBConnection, create bool) error {
	if create {
		s.logger.Verbose("Creating tables if absent...")
		if err := s.schemaManager.Create(ctx, conn); err != nil {
			return fmt.Errorf("failed to create tables: %w: %w", pgetl.ErrLoadFailed, err)
		}
		return nil
	}

	exists, err := s.schemaManager.Exists(ctx, conn)
	if err != nil {
		return fmt.Errorf("failed to check tables: %w: %w", pgetl.ErrLoadFailed, err)
	}
	if !exists {
		return fmt.Errorf("analytics tables are missing; run 'pgetl schema create' or pass --create-schema: %w", pgetl.ErrLoadFailed)
	}
	return nil
}

// processData discovers the files under root and loads them in order,
// reporting progress after each commit. It returns the number of files loaded.
func (s *LoadService) processData(ctx context.Context, st pgetl.Store, root string, fn fileFunc) (int, error) {
	paths, err := s.discoverer.Discover(ctx, root)
	if err != nil {
		return 0, fmt.Errorf("failed to discover data files: %w: %w", pgetl.ErrInvalidConfig, err)
	}

	total := len(paths)
	s.progress.FilesFound(root, total)

	for i, path := range paths {
		if err := s.processFile(ctx, st, path, fn); err != nil {
			s.progress.FileFailed(path)
			return i, err
		}
		s.progress.FileProcessed(i+1, total)
	}

	return total, nil
}

func (s *LoadService) processFile(ctx context.Context, st pgetl.Store, path string, fn fileFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := s.discoverer.ReadFile(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// A discovered file that cannot be read is unusable input.
		return fmt.Errorf("failed to read %s: %w: %w", path, pgetl.ErrInvalidData, err)
	}

	s.logger.Verbose("Loading %s", path)
	if err := fn(ctx, st, content); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (s *LoadService) processSongFile(ctx context.Context, st pgetl.Store, content []byte) error {
	song, artist, err := extract.ParseSongFile(content)
	if err != nil {
		return err
	}

	return st.WithinTransaction(ctx, func(w pgetl.RowWriter) error {
		if err := w.InsertSong(ctx, song); err != nil {
			return err
		}
		return w.InsertArtist(ctx, artist)
	})
}

// processLogFile writes time rows, then users, then songplays.
func (s *LoadService) processLogFile(ctx context.Context, st pgetl.Store, content []byte) error {
	events, err := extract.ParseLogFile(content)
	if err != nil {
		return err
	}

	return st.WithinTransaction(ctx, func(w pgetl.RowWriter) error {
		for _, e := range events {
			if err := w.InsertTime(ctx, extract.TimeRowFor(e.Timestamp)); err != nil {
				return err
			}
		}

		for _, u := range extract.UniqueUsers(events) {
			if err := w.InsertUser(ctx, u); err != nil {
				return err
			}
		}

		for _, e := range events {
			var songID, artistID *string
			sid, aid, found, err := w.LookupSong(ctx, e.Song, e.Artist, e.Length)
			if err != nil {
				return err
			}
			if found {
				songID, artistID = &sid, &aid
			} else {
				s.logger.Verbose("No song matches %q by %q (%.5f s)", e.Song, e.Artist, e.Length)
			}

			if err := w.InsertSongplay(ctx, extract.SongplayFor(e, songID, artistID)); err != nil {
				return err
			}
		}
		return nil
	})
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

var _ pgetl.Loader = (*LoadService)(nil)
