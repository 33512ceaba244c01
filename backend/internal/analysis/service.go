package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"moodlens/backend/internal/adapter"
	"moodlens/backend/internal/emotion"
	"moodlens/backend/internal/ingest"
	"moodlens/backend/internal/insights"
	"moodlens/backend/internal/store"
	"moodlens/backend/internal/timeline"
	apperrors "moodlens/backend/pkg/errors"
	"moodlens/backend/pkg/logger"
)

// Provider interfaces. Declared here so the service can be exercised with
// hand-rolled fakes; the adapter package's concrete clients satisfy them.

// TextAnalyzer derives an emotion reading from free text via the LLM gateway
type TextAnalyzer interface {
	AnalyzeText(ctx context.Context, text string) (*adapter.Reading, error)
}

// TextClassifier is the hosted classifier used when the LLM path fails
type TextClassifier interface {
	Classify(ctx context.Context, text string) (*adapter.Reading, error)
}

// VoiceAnalyzer reads emotion straight from audio tone
type VoiceAnalyzer interface {
	Analyze(ctx context.Context, filename string, audio []byte) (*adapter.Reading, error)
}

// Transcriber converts audio to text
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (*adapter.Transcript, error)
}

// Service orchestrates providers, storage and the scoring core
type Service struct {
	llm        TextAnalyzer
	classifier TextClassifier
	voice      VoiceAnalyzer
	stt        Transcriber
	store      store.Store
	loc        *time.Location
	logger     *zap.Logger
}

// NewService creates the analysis service. loc fixes the calendar zone all
// day and week boundaries are computed in; nil falls back to UTC.
func NewService(llm TextAnalyzer, classifier TextClassifier, voice VoiceAnalyzer, stt Transcriber, st store.Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		llm:        llm,
		classifier: classifier,
		voice:      voice,
		stt:        stt,
		store:      st,
		loc:        loc,
		logger:     logger.Named("analysis"),
	}
}

// AnalysisResult is the immediate outcome of analyzing one input
type AnalysisResult struct {
	Message    store.Message       `json:"message"`
	Summary    emotion.Summary     `json:"summary"`
	Transcript *adapter.Transcript `json:"transcript,omitempty"`
}

// AnalyzeText classifies a text message, persists it, and returns the
// stored message with its single-observation summary.
func (s *Service) AnalyzeText(ctx context.Context, userID, content string) (*AnalysisResult, error) {
	if userID == "" {
		return nil, apperrors.NewInvalidInput("user_id", "cannot be empty")
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewInvalidInput("content", "cannot be empty")
	}

	reading, err := s.analyzeTextContent(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze text: %w", err)
	}

	msg := &store.Message{
		UserID:     userID,
		Content:    content,
		Source:     store.SourceText,
		Emotion:    reading.Emotion,
		Confidence: reading.Confidence,
	}
	if err := s.store.SaveMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	return &AnalysisResult{
		Message: *msg,
		Summary: emotion.Summarize(ingest.FromMessages([]store.Message{*msg})),
	}, nil
}

// AnalyzeVoice runs the two voice branches in parallel: transcription
// followed by text classification, and tone analysis straight off the
// audio. The branch readings are fused with the tone reading as the label
// authority; a failed branch degrades to a zero-sample summary so the
// other branch passes through untouched.
func (s *Service) AnalyzeVoice(ctx context.Context, userID, filename string, audio []byte) (*AnalysisResult, error) {
	if userID == "" {
		return nil, apperrors.NewInvalidInput("user_id", "cannot be empty")
	}
	if len(audio) == 0 {
		return nil, apperrors.NewInvalidInput("audio", "cannot be empty")
	}

	var (
		g           errgroup.Group
		toneReading *adapter.Reading
		toneErr     error
		transcript  *adapter.Transcript
		textReading *adapter.Reading
		textErr     error
	)

	g.Go(func() error {
		toneReading, toneErr = s.voice.Analyze(ctx, filename, audio)
		if toneErr != nil {
			s.logger.Warn("Voice tone branch failed", zap.Error(toneErr))
		}
		return nil
	})

	g.Go(func() error {
		tr, err := s.stt.Transcribe(ctx, filename, audio)
		if err != nil {
			textErr = err
			s.logger.Warn("Transcription branch failed", zap.Error(err))
			return nil
		}
		transcript = tr
		textReading, textErr = s.analyzeTextContent(ctx, tr.Text)
		return nil
	})

	_ = g.Wait()

	if toneReading == nil && textReading == nil {
		err := toneErr
		if err == nil {
			err = textErr
		}
		return nil, fmt.Errorf("failed to analyze voice note: %w", err)
	}

	now := time.Now().UTC()
	fused := emotion.Fuse(readingSummary(toneReading, now), readingSummary(textReading, now))

	msg := &store.Message{
		UserID:     userID,
		Source:     store.SourceVoice,
		Emotion:    string(fused.DominantEmotion),
		Confidence: firstConfidence(toneReading, textReading),
	}
	if transcript != nil {
		msg.Content = transcript.Text
	}
	if err := s.store.SaveMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}

	return &AnalysisResult{
		Message:    *msg,
		Summary:    fused,
		Transcript: transcript,
	}, nil
}

// CreateJournal strips markup from the entry, derives an emotion via the
// text providers when the user did not pick one, and persists it. A failed
// derivation is logged and the entry saved without a label; a journal is
// user content first and a sample second.
func (s *Service) CreateJournal(ctx context.Context, userID, content, selfEmotion string) (*store.JournalEntry, error) {
	if userID == "" {
		return nil, apperrors.NewInvalidInput("user_id", "cannot be empty")
	}
	plain := ingest.PlainText(content)
	if plain == "" {
		return nil, apperrors.NewInvalidInput("content", "cannot be empty")
	}

	entry := &store.JournalEntry{
		UserID:      userID,
		Content:     plain,
		SelfEmotion: strings.TrimSpace(selfEmotion),
	}

	if entry.SelfEmotion == "" {
		reading, err := s.analyzeTextContent(ctx, plain)
		if err != nil {
			s.logger.Warn("Journal emotion derivation failed", zap.Error(err))
		} else {
			entry.DerivedEmotion = reading.Emotion
			entry.Confidence = reading.Confidence
		}
	}

	if err := s.store.SaveJournal(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}
	return entry, nil
}

// ListJournals returns the user's entries for the inclusive local date
// range [from, to]. Empty bounds default to the last seven days.
func (s *Service) ListJournals(ctx context.Context, userID, from, to string) ([]store.JournalEntry, error) {
	if userID == "" {
		return nil, apperrors.NewInvalidInput("user_id", "cannot be empty")
	}
	today := timeline.LocalDateKey(time.Now(), s.loc)
	if to == "" {
		to = today
	}
	if from == "" {
		from = timeline.AddDays(to, -6)
	}

	start, _, err := timeline.DayWindow(from, s.loc)
	if err != nil {
		return nil, apperrors.NewInvalidInput("from", "must be YYYY-MM-DD")
	}
	_, end, err := timeline.DayWindow(to, s.loc)
	if err != nil {
		return nil, apperrors.NewInvalidInput("to", "must be YYYY-MM-DD")
	}

	journals, err := s.store.JournalsInRange(ctx, userID, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to load journal entries: %w", err)
	}
	return journals, nil
}

// DailyInsights builds one local calendar day's report: the fused
// journal-and-messages summary, the time segments, and the trend. An
// empty date means today.
func (s *Service) DailyInsights(ctx context.Context, userID, date string) (*insights.DailyReport, error) {
	if userID == "" {
		return nil, apperrors.NewInvalidInput("user_id", "cannot be empty")
	}
	if date == "" {
		date = timeline.LocalDateKey(time.Now(), s.loc)
	}
	from, to, err := timeline.DayWindow(date, s.loc)
	if err != nil {
		return nil, apperrors.NewInvalidInput("date", "must be YYYY-MM-DD")
	}

	msgs, journals, err := s.loadRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	msgObs := ingest.FromMessages(msgs)
	daily := timeline.BuildDailySummary(msgObs, date, s.loc)

	journalSummary := emotion.Summarize(ingest.FromJournals(journals))
	daily.Summary = emotion.Fuse(journalSummary, daily.Summary)

	// With no message text the context line tracks the fused dominant
	if len(msgObs) == 0 {
		daily.ContextSummary = fmt.Sprintf("Experienced %s emotions", daily.DominantEmotion)
	}

	report := insights.BuildDailyReport(daily)
	return &report, nil
}

// WeeklyInsights builds the seven-day report starting at weekStart. Each
// day is fused journal-over-messages before the week rolls up, so a day
// carried only by journal entries still contributes. An empty start means
// the rolling week ending today.
func (s *Service) WeeklyInsights(ctx context.Context, userID, weekStart string) (*insights.WeeklyReport, error) {
	if userID == "" {
		return nil, apperrors.NewInvalidInput("user_id", "cannot be empty")
	}
	if weekStart == "" {
		weekStart = timeline.AddDays(timeline.LocalDateKey(time.Now(), s.loc), -6)
	}
	from, to, err := timeline.WeekWindow(weekStart, s.loc)
	if err != nil {
		return nil, apperrors.NewInvalidInput("start", "must be YYYY-MM-DD")
	}

	msgs, journals, err := s.loadRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	msgObs := ingest.FromMessages(msgs)
	msgDailies := timeline.BuildRangeSummaries(msgObs, from, to.Add(-time.Second), s.loc)
	byDate := make(map[string]timeline.DailySummary, len(msgDailies))
	for _, d := range msgDailies {
		byDate[d.Date] = d
	}

	journalsByDate := make(map[string][]emotion.Observation)
	for _, o := range ingest.FromJournals(journals) {
		key := timeline.LocalDateKey(o.Timestamp, s.loc)
		journalsByDate[key] = append(journalsByDate[key], o)
	}

	// A day contributes when either side has usable samples after fusion
	dailies := make([]timeline.DailySummary, 0, len(byDate)+len(journalsByDate))
	for _, date := range unionDates(byDate, journalsByDate) {
		daily, ok := byDate[date]
		if !ok {
			daily = timeline.BuildDailySummary(nil, date, s.loc)
		}
		daily.Summary = emotion.Fuse(emotion.Summarize(journalsByDate[date]), daily.Summary)
		if daily.SampleSize == 0 {
			continue
		}
		dailies = append(dailies, daily)
	}

	report := insights.BuildWeeklyReport(dailies, weekStart)
	return &report, nil
}

// Helper functions

func (s *Service) loadRange(ctx context.Context, userID string, from, to time.Time) ([]store.Message, []store.JournalEntry, error) {
	msgs, err := s.store.MessagesInRange(ctx, userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load messages: %w", err)
	}
	journals, err := s.store.JournalsInRange(ctx, userID, from.UTC(), to.UTC())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load journal entries: %w", err)
	}
	return msgs, journals, nil
}

// analyzeTextContent tries the LLM path first and degrades to the hosted
// classifier
func (s *Service) analyzeTextContent(ctx context.Context, text string) (*adapter.Reading, error) {
	reading, err := s.llm.AnalyzeText(ctx, text)
	if err == nil {
		return reading, nil
	}
	s.logger.Warn("LLM analysis failed, falling back to hosted classifier", zap.Error(err))

	reading, fallbackErr := s.classifier.Classify(ctx, text)
	if fallbackErr != nil {
		s.logger.Error("Hosted classifier fallback failed", zap.Error(fallbackErr))
		return nil, fallbackErr
	}
	return reading, nil
}

// readingSummary lifts one provider reading into a summary; nil readings
// become the zero-sample summary that fuses as a pass-through
func readingSummary(r *adapter.Reading, ts time.Time) emotion.Summary {
	if r == nil {
		return emotion.NeutralSummary()
	}
	return emotion.Summarize([]emotion.Observation{{
		Emotion:    r.Emotion,
		Confidence: r.Confidence,
		Timestamp:  ts,
	}})
}

// firstConfidence keeps the label authority's confidence on the stored row
func firstConfidence(readings ...*adapter.Reading) *float64 {
	for _, r := range readings {
		if r != nil && r.Confidence != nil {
			return r.Confidence
		}
	}
	return nil
}

func unionDates(msgs map[string]timeline.DailySummary, journals map[string][]emotion.Observation) []string {
	seen := make(map[string]bool, len(msgs)+len(journals))
	dates := make([]string, 0, len(msgs)+len(journals))
	for date := range msgs {
		if !seen[date] {
			seen[date] = true
			dates = append(dates, date)
		}
	}
	for date := range journals {
		if !seen[date] {
			seen[date] = true
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates
}
