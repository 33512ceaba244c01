package store

import (
	"context"
	"time"
)

// Store is the persistence surface the analysis service depends on.
// Range queries take [from, to) instants and return rows ordered by
// creation time ascending.
type Store interface {
	SaveMessage(ctx context.Context, msg *Message) error
	MessagesInRange(ctx context.Context, userID string, from, to time.Time) ([]Message, error)
	SaveJournal(ctx context.Context, entry *JournalEntry) error
	JournalsInRange(ctx context.Context, userID string, from, to time.Time) ([]JournalEntry, error)
	Close() error
}
