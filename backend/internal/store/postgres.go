package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // register the pgx driver with database/sql
	"go.uber.org/zap"

	"moodlens/backend/pkg/logger"
)

// Postgres implements Store over database/sql with the pgx driver
type Postgres struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open connects to Postgres and verifies the connection. Timestamps are
// stored in UTC; conversion to the aggregation zone happens at read time
// in the callers.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Postgres{
		db:     db,
		logger: logger.Get(),
	}, nil
}

// Close closes the underlying connection pool
func (p *Postgres) Close() error {
	return p.db.Close()
}

// DB exposes the pool for schema scripts
func (p *Postgres) DB() *sql.DB {
	return p.db
}

// SaveMessage inserts one analyzed message, assigning an ID and creation
// time when the caller left them empty
func (p *Postgres) SaveMessage(ctx context.Context, msg *Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO messages (id, user_id, content, source, emotion, confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.db.ExecContext(ctx, query,
		msg.ID, msg.UserID, msg.Content, msg.Source, msg.Emotion, nullableFloat(msg.Confidence), msg.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	p.logger.Debug("Message saved",
		zap.String("message_id", msg.ID),
		zap.String("user_id", msg.UserID),
		zap.String("source", msg.Source),
	)
	return nil
}

// MessagesInRange returns a user's messages created in [from, to),
// oldest first
func (p *Postgres) MessagesInRange(ctx context.Context, userID string, from, to time.Time) ([]Message, error) {
	query := `
		SELECT id, user_id, content, source, emotion, confidence, created_at
		FROM messages
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC
	`

	rows, err := p.db.QueryContext(ctx, query, userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		var conf sql.NullFloat64
		if err := rows.Scan(&m.ID, &m.UserID, &m.Content, &m.Source, &m.Emotion, &conf, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if conf.Valid {
			v := conf.Float64
			m.Confidence = &v
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	return messages, nil
}

// SaveJournal inserts one journal entry, assigning an ID and creation
// time when the caller left them empty
func (p *Postgres) SaveJournal(ctx context.Context, entry *JournalEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if err := entry.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO journal_entries (id, user_id, content, self_emotion, derived_emotion, confidence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Content, entry.SelfEmotion, entry.DerivedEmotion, nullableFloat(entry.Confidence), entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}

	p.logger.Debug("Journal entry saved",
		zap.String("entry_id", entry.ID),
		zap.String("user_id", entry.UserID),
	)
	return nil
}

// JournalsInRange returns a user's journal entries created in [from, to),
// oldest first
func (p *Postgres) JournalsInRange(ctx context.Context, userID string, from, to time.Time) ([]JournalEntry, error) {
	query := `
		SELECT id, user_id, content, self_emotion, derived_emotion, confidence, created_at
		FROM journal_entries
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC
	`

	rows, err := p.db.QueryContext(ctx, query, userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var conf sql.NullFloat64
		if err := rows.Scan(&e.ID, &e.UserID, &e.Content, &e.SelfEmotion, &e.DerivedEmotion, &conf, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		if conf.Valid {
			v := conf.Float64
			e.Confidence = &v
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal entries: %w", err)
	}

	return entries, nil
}

// Helper functions

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
