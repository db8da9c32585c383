package database

import "time"

// JournalRecord is one row of the relay_journal table: an audit line for a
// relay, reply or delete action.
type JournalRecord struct {
	ID        int64     `db:"id"`
	Kind      string    `db:"kind"`
	UserID    int64     `db:"user_id"`
	MessageID int       `db:"message_id"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}
