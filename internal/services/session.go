package services

import (
	"context"
	"fmt"
	"io"

	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// SessionManager connects to the target database and acquires the single
// connection a run loads through.
//
// SessionManager is safe for concurrent use as long as connectorFactory and
// logger are.
type SessionManager struct {
	connectorFactory func(*pgetl.ConnectionConfig) (pgetl.Connector, error)
	logger           pgetl.Logger
}

// NewSessionManager creates a SessionManager.
// Panics if any dependency is nil.
func NewSessionManager(
	connectorFactory func(*pgetl.ConnectionConfig) (pgetl.Connector, error),
	logger pgetl.Logger,
) *SessionManager {
	if connectorFactory == nil {
		panic("connectorFactory cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &SessionManager{
		connectorFactory: connectorFactory,
		logger:           logger,
	}
}

// PrepareSession connects and acquires one connection.
// The caller must Close the returned session.
func (sm *SessionManager) PrepareSession(ctx context.Context, connConfig *pgetl.ConnectionConfig) (*pgetl.Session, error) {
	sm.logger.Verbose("Connecting to database '%s' on %s:%d (%s)", connConfig.Database, connConfig.Host, connConfig.Port, connConfig.AuthMethod)

	connector, err := sm.connectorFactory(connConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		closeConnector(connector)
		return nil, fmt.Errorf("failed to connect to database %q: %w", connConfig.Database, err)
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		closeConnector(connector)
		return nil, fmt.Errorf("failed to acquire connection: %w: %w", pgetl.ErrConnectionFailed, err)
	}

	session := pgetl.NewSession(pool, conn)
	if _, ok := connector.(io.Closer); ok {
		session.OnClose(func() { closeConnector(connector) })
	}

	sm.logger.Verbose("Connected to database '%s'", connConfig.Database)
	return session, nil
}

func closeConnector(connector pgetl.Connector) {
	if c, ok := connector.(io.Closer); ok {
		_ = c.Close()
	}
}

var _ pgetl.SessionPreparer = (*SessionManager)(nil)
