package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const journalCleanupTimeout = 2 * time.Minute

// newJournalCleanupTask creates the scheduled task that deletes journal
// entries older than the configured retention.
func newJournalCleanupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "journal_cleanup")
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return func(ctx context.Context) error {
		retention := deps.Config.Database.JournalRetention
		if retention <= 0 {
			log.WarnContext(ctx, "Journal retention not set, skipping cleanup")
			return nil
		}

		timeoutCtx, cancel := context.WithTimeout(ctx, journalCleanupTimeout)
		defer cancel()

		cutoff := now().Add(-retention)
		deleted, err := deps.Store.PruneJournal(timeoutCtx, cutoff)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				log.WarnContext(ctx, "Journal cleanup timed out", "cutoff", cutoff)
			}
			return fmt.Errorf("journal cleanup failed: %w", err)
		}

		log.InfoContext(ctx, "Journal cleanup completed", "deleted", deleted, "cutoff", cutoff)
		return nil
	}
}
