package services

import (
	"context"
	"fmt"

	"github.com/vvka-141/pgetl/internal/db"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// SchemaService runs the table management commands.
type SchemaService struct {
	sessionPreparer pgetl.SessionPreparer
	schemaManager   pgetl.SchemaManager
	approver        pgetl.Approver
	logger          pgetl.Logger
}

// NewSchemaService creates a SchemaService.
// Panics if any dependency is nil.
func NewSchemaService(
	sessionPreparer pgetl.SessionPreparer,
	schemaManager pgetl.SchemaManager,
	approver pgetl.Approver,
	logger pgetl.Logger,
) *SchemaService {
	if sessionPreparer == nil {
		panic("sessionPreparer cannot be nil")
	}
	if schemaManager == nil {
		panic("schemaManager cannot be nil")
	}
	if approver == nil {
		panic("approver cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &SchemaService{
		sessionPreparer: sessionPreparer,
		schemaManager:   schemaManager,
		approver:        approver,
		logger:          logger,
	}
}

// Create creates any missing analytics table.
func (s *SchemaService) Create(ctx context.Context, connConfig *pgetl.ConnectionConfig) error {
	session, err := s.sessionPreparer.PrepareSession(ctx, connConfig)
	if err != nil {
		return err
	}
	defer session.Close()

	return s.create(ctx, db.NewConnAdapter(session.Conn()), connConfig.Database)
}

func (s *SchemaService) create(ctx context.Context, conn pgetl.DBConnection, database string) error {
	if err := s.schemaManager.Create(ctx, conn); err != nil {
		return fmt.Errorf("failed to create tables: %w: %w", pgetl.ErrLoadFailed, err)
	}
	s.logger.Info("✓ Tables %v ready in '%s'", s.schemaManager.Tables(), database)
	return nil
}

// Drop drops the analytics tables after the approver agrees.
func (s *SchemaService) Drop(ctx context.Context, connConfig *pgetl.ConnectionConfig) error {
	session, err := s.sessionPreparer.PrepareSession(ctx, connConfig)
	if err != nil {
		return err
	}
	defer session.Close()

	return s.drop(ctx, db.NewConnAdapter(session.Conn()), connConfig.Database)
}

func (s *SchemaService) drop(ctx context.Context, conn pgetl.DBConnection, database string) error {
	approved, err := s.approver.RequestApproval(ctx, database)
	if err != nil {
		return fmt.Errorf("approval failed: %w", err)
	}
	if !approved {
		return fmt.Errorf("dropping tables in '%s': %w", database, pgetl.ErrApprovalDenied)
	}

	if err := s.schemaManager.Drop(ctx, conn); err != nil {
		return fmt.Errorf("failed to drop tables: %w: %w", pgetl.ErrLoadFailed, err)
	}
	s.logger.Info("✓ Dropped tables %v from '%s'", s.schemaManager.Tables(), database)
	return nil
}
