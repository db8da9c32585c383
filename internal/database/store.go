package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edgard/relaybot/internal/relay"
)

// maxContentRunes caps the text stored per journal entry.
const maxContentRunes = 4096

// Store defines the journal database operations.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	relay.Journal

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// PruneJournal deletes entries created before cutoff and returns how many were removed.
	PruneJournal(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore implements Store using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by a connected sqlx.DB.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Record inserts one journal entry.
func (s *sqlxStore) Record(ctx context.Context, entry relay.JournalEntry) error {
	if entry.Kind == "" {
		return errors.New("journal entry must have a kind")
	}
	if entry.UserID == 0 {
		return errors.New("journal entry must have a non-zero user_id")
	}

	record := JournalRecord{
		Kind:      string(entry.Kind),
		UserID:    entry.UserID,
		MessageID: entry.MessageID,
		Content:   truncateRunes(entry.Text, maxContentRunes),
		CreatedAt: entry.CreatedAt.UTC(),
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO relay_journal (kind, user_id, message_id, content, created_at)
        VALUES (:kind, :user_id, :message_id, :content, :created_at);
    `
	if _, err := s.db.NamedExecContext(ctx, query, record); err != nil {
		s.logger.ErrorContext(ctx, "Error saving journal entry", "kind", record.Kind, "user_id", record.UserID, "error", err)
		return fmt.Errorf("failed to save journal entry (user %d): %w", record.UserID, err)
	}

	s.logger.DebugContext(ctx, "Journal entry saved", "kind", record.Kind, "user_id", record.UserID)
	return nil
}

func (s *sqlxStore) PruneJournal(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM relay_journal WHERE created_at < ?;`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune journal: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		s.logger.WarnContext(ctx, "Could not read affected rows after pruning journal", "error", err)
		return 0, nil
	}
	s.logger.InfoContext(ctx, "Pruned journal entries", "deleted", affected, "cutoff", cutoff.UTC())
	return affected, nil
}

// RunSQLMaintenance executes VACUUM. SQLite requires it outside a transaction.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Failed to execute VACUUM", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully.")
	return nil
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
