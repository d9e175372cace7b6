package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetServerHistory returns every history row of a server in insertion order.
	// A server without history yields an empty slice and no error.
	GetServerHistory(ctx context.Context, serverID int64) ([]ServerData, error)

	// AppendServerHistory inserts one history row holding blob.
	AppendServerHistory(ctx context.Context, serverID int64, blob string) error

	// DeleteServerHistory removes all history rows of a server and returns how many were deleted.
	DeleteServerHistory(ctx context.Context, serverID int64) (int64, error)

	// RunSQLMaintenance performs driver-specific maintenance such as VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	driver string
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// driver is one of the Driver* constants and selects maintenance statements.
func NewStore(db *sqlx.DB, driver string, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		driver: driver,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) GetServerHistory(ctx context.Context, serverID int64) ([]ServerData, error) {
	if serverID == 0 {
		return nil, fmt.Errorf("server_id cannot be zero")
	}

	rows := []ServerData{}
	query := s.db.Rebind(`SELECT id, server_id, json FROM server_data WHERE server_id = ? ORDER BY id`)

	err := s.db.SelectContext(ctx, &rows, query, serverID)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.logger.WarnContext(ctx, "Context timeout or cancellation while fetching history",
			"server_id", serverID, "error", err)
		return nil, err
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting server history", "server_id", serverID, "error", err)
		return nil, fmt.Errorf("failed to get history for server %d: %w", serverID, err)
	}

	s.logger.DebugContext(ctx, "Fetched server history", "server_id", serverID, "count", len(rows))
	return rows, nil
}

func (s *sqlxStore) AppendServerHistory(ctx context.Context, serverID int64, blob string) error {
	if serverID == 0 {
		return fmt.Errorf("server_id cannot be zero")
	}

	query := s.db.Rebind(`INSERT INTO server_data (server_id, json) VALUES (?, ?)`)
	result, err := s.db.ExecContext(ctx, query, serverID, blob)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error appending server history", "server_id", serverID, "error", err)
		return fmt.Errorf("failed to append history for server %d: %w", serverID, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected != 1 {
		s.logger.WarnContext(ctx, "Unexpected number of rows affected when appending history",
			"server_id", serverID, "affected", affected)
	}

	s.logger.DebugContext(ctx, "Appended server history", "server_id", serverID)
	return nil
}

// DeleteServerHistory runs a single DELETE, so a server's history is either
// removed completely or left untouched.
func (s *sqlxStore) DeleteServerHistory(ctx context.Context, serverID int64) (int64, error) {
	if serverID == 0 {
		return 0, fmt.Errorf("server_id cannot be zero")
	}

	query := s.db.Rebind(`DELETE FROM server_data WHERE server_id = ?`)
	result, err := s.db.ExecContext(ctx, query, serverID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting server history", "server_id", serverID, "error", err)
		return 0, fmt.Errorf("failed to delete history for server %d: %w", serverID, err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not get affected row count after delete", "server_id", serverID, "error", err)
		count = 0
	}

	s.logger.InfoContext(ctx, "Deleted server history", "server_id", serverID, "count", count)
	return count, nil
}

// RunSQLMaintenance reclaims space and refreshes planner statistics.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting maintenance", "error", ctx.Err())
		return ctx.Err()
	}

	var statement string
	switch s.driver {
	case DriverSQLite:
		// VACUUM must run outside a transaction in SQLite
		statement = "VACUUM"
	case DriverPostgres:
		statement = "VACUUM ANALYZE server_data"
	case DriverMySQL:
		statement = "OPTIMIZE TABLE server_data"
	default:
		return fmt.Errorf("no maintenance statement for driver %q", s.driver)
	}

	s.logger.InfoContext(ctx, "Starting database maintenance", "statement", statement)

	_, err := s.db.ExecContext(ctx, statement)
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "Database maintenance timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance failed", "statement", statement, "error", err)
		return fmt.Errorf("failed to execute %s: %w", statement, err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed successfully")
	return nil
}
