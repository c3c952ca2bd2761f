package pgetl

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionPreparer abstracts session preparation for testability.
type SessionPreparer interface {
	PrepareSession(ctx context.Context, connConfig *ConnectionConfig) (*Session, error)
}

// Session owns the database resources of one run: the connection pool and
// the single connection every file is loaded through.
//
// Thread-Safety: NOT safe for concurrent use.
//
// Example usage:
//
//	session, err := sessionManager.PrepareSession(ctx, connConfig)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
type Session struct {
	pool    *pgxpool.Pool
	conn    *pgxpool.Conn
	onClose []func()
}

// NewSession creates a new Session instance.
// This is intended to be called by SessionManager, not by external code.
//
// Panics if pool or conn is nil.
func NewSession(pool *pgxpool.Pool, conn *pgxpool.Conn) *Session {
	if pool == nil {
		panic("pool cannot be nil")
	}
	if conn == nil {
		panic("conn cannot be nil")
	}

	return &Session{
		pool: pool,
		conn: conn,
	}
}

// Pool returns the connection pool for the session.
// The pool is valid until Close() is called.
func (s *Session) Pool() *pgxpool.Pool {
	return s.pool
}

// Conn returns the connection all loading happens on.
// The connection is valid until Close() is called.
func (s *Session) Conn() *pgxpool.Conn {
	return s.conn
}

// OnClose registers fn to run after the pool is closed, such as releasing
// a cloud dialer the pool depended on.
func (s *Session) OnClose(fn func()) {
	s.onClose = append(s.onClose, fn)
}

// Close releases the connection and closes the pool.
// This method is idempotent and safe to call multiple times.
func (s *Session) Close() error {
	if s.conn != nil {
		s.conn.Release()
		s.conn = nil
	}

	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}

	for _, fn := range s.onClose {
		fn()
	}
	s.onClose = nil

	return nil
}
