package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"time"

	"go.uber.org/zap"

	"moodlens/backend/internal/store"
	"moodlens/backend/pkg/config"
	"moodlens/backend/pkg/logger"
)

func main() {
	drop := flag.Bool("drop", false, "Drop existing tables before creating the schema")
	seed := flag.Bool("seed", false, "Insert a demo user with a week of sample data")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting schema migration...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer st.Close()

	if *drop {
		log.Info("Dropping existing tables...")
		if err := dropTables(ctx, st.DB()); err != nil {
			log.Fatal("Failed to drop tables", zap.Error(err))
		}
	}

	log.Info("Creating tables and indexes...")
	if err := createSchema(ctx, st.DB()); err != nil {
		log.Fatal("Failed to create schema", zap.Error(err))
	}

	if *seed {
		loc, err := cfg.Location()
		if err != nil {
			log.Fatal("Failed to resolve timezone", zap.Error(err))
		}
		log.Info("Seeding demo data...")
		if err := seedDemoData(ctx, st, loc, log); err != nil {
			log.Fatal("Failed to seed demo data", zap.Error(err))
		}
	}

	log.Info("Migration completed")
}

func dropTables(ctx context.Context, db *sql.DB) error {
	statements := []string{
		"DROP TABLE IF EXISTS messages",
		"DROP TABLE IF EXISTS journal_entries",
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func createSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS messages (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			content    TEXT NOT NULL DEFAULT '',
			source     TEXT NOT NULL,
			emotion    TEXT NOT NULL DEFAULT '',
			confidence DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_user_created
			ON messages (user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS journal_entries (
			id              TEXT PRIMARY KEY,
			user_id         TEXT NOT NULL,
			content         TEXT NOT NULL,
			self_emotion    TEXT NOT NULL DEFAULT '',
			derived_emotion TEXT NOT NULL DEFAULT '',
			confidence      DOUBLE PRECISION,
			created_at      TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_journal_entries_user_created
			ON journal_entries (user_id, created_at)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// seedDemoData writes one demo user's week: varied messages across the day
// periods plus a couple of journal entries, ending today in loc.
func seedDemoData(ctx context.Context, st store.Store, loc *time.Location, log *zap.Logger) error {
	const demoUser = "demo-user"

	now := time.Now().In(loc)
	weekStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -6)

	conf := func(v float64) *float64 { return &v }

	messages := []struct {
		day     int
		hour    int
		source  string
		emotion string
		content string
		conf    *float64
	}{
		{0, 8, store.SourceText, "joy", "Started the week with a sunrise run, feeling great", conf(0.91)},
		{0, 19, store.SourceText, "neutral", "Quiet evening, leftovers for dinner", conf(0.62)},
		{1, 10, store.SourceText, "anger", "Build broke right before the demo, so frustrating", conf(0.84)},
		{1, 21, store.SourceVoice, "sadness", "Long day, just want to sleep", conf(0.7)},
		{2, 13, store.SourceText, "fear", "Dentist appointment tomorrow and I keep thinking about it", conf(0.66)},
		{3, 9, store.SourceText, "joy", "Appointment went fine, celebrated with pancakes", conf(0.88)},
		{3, 15, store.SourceText, "surprise", "Old friend from college called out of nowhere", conf(0.79)},
		{4, 11, store.SourceText, "neutral", "Groceries, laundry, nothing special", conf(0.55)},
		{5, 18, store.SourceVoice, "joy", "Board game night was hilarious", conf(0.93)},
		{6, 7, store.SourceText, "joy", "Slept in, slow coffee, good book", conf(0.86)},
	}

	for _, m := range messages {
		msg := &store.Message{
			UserID:     demoUser,
			Content:    m.content,
			Source:     m.source,
			Emotion:    m.emotion,
			Confidence: m.conf,
			CreatedAt:  weekStart.AddDate(0, 0, m.day).Add(time.Duration(m.hour) * time.Hour).UTC(),
		}
		if err := st.SaveMessage(ctx, msg); err != nil {
			return err
		}
	}

	journals := []struct {
		day     int
		hour    int
		emotion string
		content string
	}{
		{2, 22, "anxious", "Wrote down everything on my mind before bed, helped a little"},
		{5, 23, "happy", "Grateful for the people around me this week"},
	}

	for _, j := range journals {
		entry := &store.JournalEntry{
			UserID:      demoUser,
			Content:     j.content,
			SelfEmotion: j.emotion,
			CreatedAt:   weekStart.AddDate(0, 0, j.day).Add(time.Duration(j.hour) * time.Hour).UTC(),
		}
		if err := st.SaveJournal(ctx, entry); err != nil {
			return err
		}
	}

	log.Info("Demo data seeded",
		zap.String("user_id", demoUser),
		zap.String("week_start", weekStart.Format("2006-01-02")),
		zap.Int("messages", len(messages)),
		zap.Int("journal_entries", len(journals)),
	)
	return nil
}
