package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"moodlens/backend/internal/adapter"
	"moodlens/backend/internal/emotion"
	"moodlens/backend/internal/insights"
	"moodlens/backend/internal/store"
	apperrors "moodlens/backend/pkg/errors"
)

var ist = time.FixedZone("IST", 5*3600+1800)

// Mock implementations for testing

type mockStore struct {
	messages   []store.Message
	journals   []store.JournalEntry
	saveMsgErr error
	rangeErr   error
}

func (m *mockStore) SaveMessage(ctx context.Context, msg *store.Message) error {
	if m.saveMsgErr != nil {
		return m.saveMsgErr
	}
	if msg.ID == "" {
		msg.ID = fmt.Sprintf("msg-%d", len(m.messages)+1)
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockStore) MessagesInRange(ctx context.Context, userID string, from, to time.Time) ([]store.Message, error) {
	if m.rangeErr != nil {
		return nil, m.rangeErr
	}
	var out []store.Message
	for _, msg := range m.messages {
		if msg.UserID != userID {
			continue
		}
		if msg.CreatedAt.Before(from) || !msg.CreatedAt.Before(to) {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func (m *mockStore) SaveJournal(ctx context.Context, entry *store.JournalEntry) error {
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("journal-%d", len(m.journals)+1)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	m.journals = append(m.journals, *entry)
	return nil
}

func (m *mockStore) JournalsInRange(ctx context.Context, userID string, from, to time.Time) ([]store.JournalEntry, error) {
	if m.rangeErr != nil {
		return nil, m.rangeErr
	}
	var out []store.JournalEntry
	for _, entry := range m.journals {
		if entry.UserID != userID {
			continue
		}
		if entry.CreatedAt.Before(from) || !entry.CreatedAt.Before(to) {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

func (m *mockStore) Close() error { return nil }

type mockTextAnalyzer struct {
	reading *adapter.Reading
	err     error
	calls   int
}

func (m *mockTextAnalyzer) AnalyzeText(ctx context.Context, text string) (*adapter.Reading, error) {
	m.calls++
	return m.reading, m.err
}

type mockClassifier struct {
	reading *adapter.Reading
	err     error
	calls   int
}

func (m *mockClassifier) Classify(ctx context.Context, text string) (*adapter.Reading, error) {
	m.calls++
	return m.reading, m.err
}

type mockVoiceAnalyzer struct {
	reading *adapter.Reading
	err     error
}

func (m *mockVoiceAnalyzer) Analyze(ctx context.Context, filename string, audio []byte) (*adapter.Reading, error) {
	return m.reading, m.err
}

type mockTranscriber struct {
	transcript *adapter.Transcript
	err        error
}

func (m *mockTranscriber) Transcribe(ctx context.Context, filename string, audio []byte) (*adapter.Transcript, error) {
	return m.transcript, m.err
}

func newTestService(llm *mockTextAnalyzer, cls *mockClassifier, voice *mockVoiceAnalyzer, stt *mockTranscriber, st *mockStore) *Service {
	if llm == nil {
		llm = &mockTextAnalyzer{err: errors.New("llm unavailable")}
	}
	if cls == nil {
		cls = &mockClassifier{err: errors.New("classifier unavailable")}
	}
	if voice == nil {
		voice = &mockVoiceAnalyzer{err: errors.New("voice unavailable")}
	}
	if stt == nil {
		stt = &mockTranscriber{err: errors.New("stt unavailable")}
	}
	if st == nil {
		st = &mockStore{}
	}
	return NewService(llm, cls, voice, stt, st, ist)
}

func TestService_AnalyzeText(t *testing.T) {
	st := &mockStore{}
	llm := &mockTextAnalyzer{reading: &adapter.Reading{Emotion: "joy", Confidence: emotion.Conf(0.9)}}
	svc := newTestService(llm, nil, nil, nil, st)

	result, err := svc.AnalyzeText(context.Background(), "user-1", "best day ever")
	if err != nil {
		t.Fatalf("AnalyzeText failed: %v", err)
	}

	if len(st.messages) != 1 {
		t.Fatalf("expected 1 stored message, got %d", len(st.messages))
	}
	msg := st.messages[0]
	if msg.Source != store.SourceText {
		t.Errorf("expected source text, got %s", msg.Source)
	}
	if msg.Emotion != "joy" {
		t.Errorf("expected stored emotion joy, got %s", msg.Emotion)
	}
	if result.Message.ID == "" {
		t.Error("expected stored message ID on result")
	}
	if result.Summary.DominantEmotion != emotion.Joy {
		t.Errorf("expected dominant joy, got %s", result.Summary.DominantEmotion)
	}
	if result.Summary.MoodScore != 85 {
		t.Errorf("expected mood score 85, got %d", result.Summary.MoodScore)
	}
	if result.Summary.SampleSize != 1 {
		t.Errorf("expected sample size 1, got %d", result.Summary.SampleSize)
	}
}

func TestService_AnalyzeText_ClassifierFallback(t *testing.T) {
	st := &mockStore{}
	llm := &mockTextAnalyzer{err: errors.New("gateway down")}
	cls := &mockClassifier{reading: &adapter.Reading{Emotion: "sadness", Confidence: emotion.Conf(0.6)}}
	svc := newTestService(llm, cls, nil, nil, st)

	result, err := svc.AnalyzeText(context.Background(), "user-1", "rough week")
	if err != nil {
		t.Fatalf("AnalyzeText failed: %v", err)
	}

	if llm.calls != 1 || cls.calls != 1 {
		t.Errorf("expected llm then classifier, got llm=%d classifier=%d", llm.calls, cls.calls)
	}
	if result.Message.Emotion != "sadness" {
		t.Errorf("expected fallback emotion sadness, got %s", result.Message.Emotion)
	}
}

func TestService_AnalyzeText_BothProvidersFail(t *testing.T) {
	st := &mockStore{}
	svc := newTestService(nil, nil, nil, nil, st)

	_, err := svc.AnalyzeText(context.Background(), "user-1", "hello")
	if err == nil {
		t.Fatal("expected error when both providers fail")
	}
	if len(st.messages) != 0 {
		t.Errorf("expected nothing stored, got %d messages", len(st.messages))
	}
}

func TestService_AnalyzeText_Validation(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil, nil)

	if _, err := svc.AnalyzeText(context.Background(), "", "hello"); !apperrors.IsErrorType(err, apperrors.ErrorTypeInput) {
		t.Errorf("expected input error for empty user, got %v", err)
	}
	if _, err := svc.AnalyzeText(context.Background(), "user-1", "   "); !apperrors.IsErrorType(err, apperrors.ErrorTypeInput) {
		t.Errorf("expected input error for blank content, got %v", err)
	}
}

func TestService_AnalyzeVoice_FusesBothBranches(t *testing.T) {
	st := &mockStore{}
	llm := &mockTextAnalyzer{reading: &adapter.Reading{Emotion: "joy", Confidence: emotion.Conf(0.6)}}
	voice := &mockVoiceAnalyzer{reading: &adapter.Reading{Emotion: "happy", Confidence: emotion.Conf(0.8)}}
	stt := &mockTranscriber{transcript: &adapter.Transcript{Text: "what a great day", Language: "en"}}
	svc := newTestService(llm, nil, voice, stt, st)

	result, err := svc.AnalyzeVoice(context.Background(), "user-1", "note.wav", []byte("audio"))
	if err != nil {
		t.Fatalf("AnalyzeVoice failed: %v", err)
	}

	if result.Summary.DominantEmotion != emotion.Joy {
		t.Errorf("expected fused dominant joy, got %s", result.Summary.DominantEmotion)
	}
	if result.Summary.SampleSize != 2 {
		t.Errorf("expected fused sample size 2, got %d", result.Summary.SampleSize)
	}
	if result.Summary.Sources == nil {
		t.Fatal("expected fusion provenance on a two-sided blend")
	}
	if result.Summary.Sources.A != "joy" || result.Summary.Sources.B != "joy" {
		t.Errorf("unexpected sources: %+v", result.Summary.Sources)
	}
	if result.Message.Content != "what a great day" {
		t.Errorf("expected transcript as content, got %q", result.Message.Content)
	}
	if result.Message.Confidence == nil || *result.Message.Confidence != 0.8 {
		t.Errorf("expected tone confidence 0.8 on stored message, got %v", result.Message.Confidence)
	}
	if result.Transcript == nil || result.Transcript.Language != "en" {
		t.Errorf("expected transcript on result, got %+v", result.Transcript)
	}
}

func TestService_AnalyzeVoice_ToneBranchFails(t *testing.T) {
	st := &mockStore{}
	llm := &mockTextAnalyzer{reading: &adapter.Reading{Emotion: "sadness", Confidence: emotion.Conf(0.7)}}
	voice := &mockVoiceAnalyzer{err: errors.New("ser service down")}
	stt := &mockTranscriber{transcript: &adapter.Transcript{Text: "not my best day"}}
	svc := newTestService(llm, nil, voice, stt, st)

	result, err := svc.AnalyzeVoice(context.Background(), "user-1", "note.wav", []byte("audio"))
	if err != nil {
		t.Fatalf("AnalyzeVoice failed: %v", err)
	}

	// One dead branch means the live one passes through unblended
	if result.Summary.Sources != nil {
		t.Error("expected no provenance on a pass-through")
	}
	if result.Summary.DominantEmotion != emotion.Sadness {
		t.Errorf("expected dominant sadness, got %s", result.Summary.DominantEmotion)
	}
	if result.Summary.SampleSize != 1 {
		t.Errorf("expected sample size 1, got %d", result.Summary.SampleSize)
	}
	if result.Message.Emotion != "sadness" {
		t.Errorf("expected stored emotion sadness, got %s", result.Message.Emotion)
	}
}

func TestService_AnalyzeVoice_TranscriptionFails(t *testing.T) {
	st := &mockStore{}
	voice := &mockVoiceAnalyzer{reading: &adapter.Reading{Emotion: "calm", Confidence: emotion.Conf(0.9)}}
	stt := &mockTranscriber{err: apperrors.ErrEmptyTranscript}
	svc := newTestService(nil, nil, voice, stt, st)

	result, err := svc.AnalyzeVoice(context.Background(), "user-1", "note.wav", []byte("audio"))
	if err != nil {
		t.Fatalf("AnalyzeVoice failed: %v", err)
	}

	if result.Summary.DominantEmotion != emotion.Neutral {
		t.Errorf("expected calm normalized to neutral, got %s", result.Summary.DominantEmotion)
	}
	if result.Message.Content != "" {
		t.Errorf("expected empty content without transcript, got %q", result.Message.Content)
	}
	if result.Transcript != nil {
		t.Error("expected nil transcript on result")
	}
}

func TestService_AnalyzeVoice_BothBranchesFail(t *testing.T) {
	st := &mockStore{}
	svc := newTestService(nil, nil, nil, nil, st)

	_, err := svc.AnalyzeVoice(context.Background(), "user-1", "note.wav", []byte("audio"))
	if err == nil {
		t.Fatal("expected error when both branches fail")
	}
	if len(st.messages) != 0 {
		t.Errorf("expected nothing stored, got %d messages", len(st.messages))
	}
}

func TestService_CreateJournal_SelfEmotion(t *testing.T) {
	st := &mockStore{}
	llm := &mockTextAnalyzer{reading: &adapter.Reading{Emotion: "joy"}}
	svc := newTestService(llm, nil, nil, nil, st)

	entry, err := svc.CreateJournal(context.Background(), "user-1", "Slept badly, everything felt heavy.", "sad")
	if err != nil {
		t.Fatalf("CreateJournal failed: %v", err)
	}

	if entry.SelfEmotion != "sad" {
		t.Errorf("expected self emotion sad, got %q", entry.SelfEmotion)
	}
	if entry.DerivedEmotion != "" {
		t.Errorf("expected no derived emotion, got %q", entry.DerivedEmotion)
	}
	if llm.calls != 0 {
		t.Errorf("expected no provider call with a self-report, got %d", llm.calls)
	}
}

func TestService_CreateJournal_DerivesEmotion(t *testing.T) {
	st := &mockStore{}
	llm := &mockTextAnalyzer{reading: &adapter.Reading{Emotion: "joy", Confidence: emotion.Conf(0.8)}}
	svc := newTestService(llm, nil, nil, nil, st)

	entry, err := svc.CreateJournal(context.Background(), "user-1", "<p>Great <b>news</b> today!</p>", "")
	if err != nil {
		t.Fatalf("CreateJournal failed: %v", err)
	}

	if entry.Content != "Great news today!" {
		t.Errorf("expected stripped content, got %q", entry.Content)
	}
	if entry.DerivedEmotion != "joy" {
		t.Errorf("expected derived joy, got %q", entry.DerivedEmotion)
	}
	if entry.Confidence == nil || *entry.Confidence != 0.8 {
		t.Errorf("expected confidence 0.8, got %v", entry.Confidence)
	}
}

func TestService_CreateJournal_DerivationFailureIsNonFatal(t *testing.T) {
	st := &mockStore{}
	svc := newTestService(nil, nil, nil, nil, st)

	entry, err := svc.CreateJournal(context.Background(), "user-1", "just writing things down", "")
	if err != nil {
		t.Fatalf("CreateJournal failed: %v", err)
	}

	if entry.DerivedEmotion != "" {
		t.Errorf("expected no derived emotion, got %q", entry.DerivedEmotion)
	}
	if len(st.journals) != 1 {
		t.Errorf("expected entry stored despite derivation failure, got %d", len(st.journals))
	}
}

func seedMessage(userID, emotionLabel string, confidence float64, ts time.Time, content string) store.Message {
	return store.Message{
		ID:         "msg-" + ts.Format("150405"),
		UserID:     userID,
		Content:    content,
		Source:     store.SourceText,
		Emotion:    emotionLabel,
		Confidence: emotion.Conf(confidence),
		CreatedAt:  ts.UTC(),
	}
}

func TestService_DailyInsights(t *testing.T) {
	st := &mockStore{
		messages: []store.Message{
			seedMessage("user-1", "joy", 0.9, time.Date(2025, 6, 1, 8, 0, 0, 0, ist), "morning run felt amazing"),
			seedMessage("user-1", "sadness", 0.6, time.Date(2025, 6, 1, 14, 0, 0, 0, ist), ""),
			seedMessage("user-1", "joy", 0.8, time.Date(2025, 6, 1, 22, 0, 0, 0, ist), ""),
			// Day before, outside the window
			seedMessage("user-1", "anger", 1.0, time.Date(2025, 5, 31, 23, 0, 0, 0, ist), ""),
			// Different user
			seedMessage("user-2", "fear", 1.0, time.Date(2025, 6, 1, 9, 0, 0, 0, ist), ""),
		},
	}
	svc := newTestService(nil, nil, nil, nil, st)

	report, err := svc.DailyInsights(context.Background(), "user-1", "2025-06-01")
	if err != nil {
		t.Fatalf("DailyInsights failed: %v", err)
	}

	if report.Date != "2025-06-01" {
		t.Errorf("expected date 2025-06-01, got %s", report.Date)
	}
	if report.DominantEmotion != emotion.Joy {
		t.Errorf("expected dominant joy, got %s", report.DominantEmotion)
	}
	if report.MoodScore != 71 {
		t.Errorf("expected mood score 71, got %d", report.MoodScore)
	}
	if report.SampleSize != 3 {
		t.Errorf("expected sample size 3, got %d", report.SampleSize)
	}
	if len(report.TimeSegments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(report.TimeSegments))
	}
	if report.Trend != insights.TrendStablePositive {
		t.Errorf("expected stable-positive trend, got %s", report.Trend)
	}
	if report.ContextSummary != "morning run felt amazing" {
		t.Errorf("unexpected context summary: %q", report.ContextSummary)
	}
}

func TestService_DailyInsights_FusesJournal(t *testing.T) {
	st := &mockStore{
		messages: []store.Message{
			seedMessage("user-1", "joy", 0.9, time.Date(2025, 6, 1, 8, 0, 0, 0, ist), ""),
			seedMessage("user-1", "sadness", 0.6, time.Date(2025, 6, 1, 14, 0, 0, 0, ist), ""),
			seedMessage("user-1", "joy", 0.8, time.Date(2025, 6, 1, 22, 0, 0, 0, ist), ""),
		},
		journals: []store.JournalEntry{
			{
				ID:          "journal-1",
				UserID:      "user-1",
				Content:     "honestly a hard day",
				SelfEmotion: "sadness",
				CreatedAt:   time.Date(2025, 6, 1, 21, 0, 0, 0, ist).UTC(),
			},
		},
	}
	svc := newTestService(nil, nil, nil, nil, st)

	report, err := svc.DailyInsights(context.Background(), "user-1", "2025-06-01")
	if err != nil {
		t.Fatalf("DailyInsights failed: %v", err)
	}

	// Journal side: sadness at 30. Message side: 71. Blend: round(50.5) = 51
	// with the self-report as label authority.
	if report.DominantEmotion != emotion.Sadness {
		t.Errorf("expected journal label to win, got %s", report.DominantEmotion)
	}
	if report.MoodScore != 51 {
		t.Errorf("expected fused score 51, got %d", report.MoodScore)
	}
	if report.SampleSize != 4 {
		t.Errorf("expected sample size 4, got %d", report.SampleSize)
	}
	if report.Sources == nil || report.Sources.A != "sadness" || report.Sources.B != "joy" {
		t.Errorf("unexpected provenance: %+v", report.Sources)
	}
}

func TestService_DailyInsights_EmptyDay(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil, &mockStore{})

	report, err := svc.DailyInsights(context.Background(), "user-1", "2025-06-01")
	if err != nil {
		t.Fatalf("DailyInsights failed: %v", err)
	}

	if report.DominantEmotion != emotion.Neutral || report.MoodScore != 50 {
		t.Errorf("expected neutral baseline, got %s/%d", report.DominantEmotion, report.MoodScore)
	}
	if report.SampleSize != 0 {
		t.Errorf("expected sample size 0, got %d", report.SampleSize)
	}
	if report.Trend != insights.TrendInsufficientData {
		t.Errorf("expected insufficient-data trend, got %s", report.Trend)
	}
	if !strings.Contains(report.ContextSummary, "neutral") {
		t.Errorf("expected neutral context line, got %q", report.ContextSummary)
	}
}

func TestService_DailyInsights_BadDate(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil, nil)

	_, err := svc.DailyInsights(context.Background(), "user-1", "06-01-2025")
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeInput) {
		t.Errorf("expected input error, got %v", err)
	}
}

func TestService_DailyInsights_StoreError(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil, &mockStore{rangeErr: errors.New("db down")})

	_, err := svc.DailyInsights(context.Background(), "user-1", "2025-06-01")
	if err == nil {
		t.Fatal("expected store error to surface")
	}
}

func TestService_WeeklyInsights(t *testing.T) {
	st := &mockStore{
		messages: []store.Message{
			seedMessage("user-1", "joy", 1.0, time.Date(2025, 6, 1, 10, 0, 0, 0, ist), ""),
			seedMessage("user-1", "sadness", 1.0, time.Date(2025, 6, 2, 10, 0, 0, 0, ist), ""),
		},
		journals: []store.JournalEntry{
			// June 4 has no messages at all; the journal alone carries it
			{
				ID:          "journal-1",
				UserID:      "user-1",
				Content:     "quiet but good",
				SelfEmotion: "joy",
				CreatedAt:   time.Date(2025, 6, 4, 20, 0, 0, 0, ist).UTC(),
			},
		},
	}
	svc := newTestService(nil, nil, nil, nil, st)

	report, err := svc.WeeklyInsights(context.Background(), "user-1", "2025-06-01")
	if err != nil {
		t.Fatalf("WeeklyInsights failed: %v", err)
	}

	if report.WeekStart != "2025-06-01" {
		t.Errorf("expected week start 2025-06-01, got %s", report.WeekStart)
	}
	// Dailies: joy 85, sadness 30, joy 85. Mode joy, mean 66.67 rounds to 67.
	if report.DominantEmotion != emotion.Joy {
		t.Errorf("expected weekly dominant joy, got %s", report.DominantEmotion)
	}
	if report.MoodScore != 67 {
		t.Errorf("expected weekly score 67, got %d", report.MoodScore)
	}
	if report.SampleSize != 3 {
		t.Errorf("expected 3 contributing days, got %d", report.SampleSize)
	}

	if len(report.DailyArc) != 7 {
		t.Fatalf("expected 7 arc entries, got %d", len(report.DailyArc))
	}
	if !report.DailyArc[0].HasData || report.DailyArc[0].Emotion != emotion.Joy {
		t.Errorf("expected June 1 arc entry with joy, got %+v", report.DailyArc[0])
	}
	if report.DailyArc[2].HasData {
		t.Errorf("expected June 3 gap, got %+v", report.DailyArc[2])
	}
	if !report.DailyArc[3].HasData || report.DailyArc[3].Emotion != emotion.Joy {
		t.Errorf("expected journal-only June 4 to contribute, got %+v", report.DailyArc[3])
	}
}

func TestService_WeeklyInsights_EmptyWeek(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil, &mockStore{})

	report, err := svc.WeeklyInsights(context.Background(), "user-1", "2025-06-01")
	if err != nil {
		t.Fatalf("WeeklyInsights failed: %v", err)
	}

	if report.SampleSize != 0 {
		t.Errorf("expected no contributing days, got %d", report.SampleSize)
	}
	if report.DominantEmotion != emotion.Neutral || report.MoodScore != 50 {
		t.Errorf("expected neutral baseline, got %s/%d", report.DominantEmotion, report.MoodScore)
	}
	if len(report.DailyArc) != 7 {
		t.Errorf("expected gap-filled arc, got %d entries", len(report.DailyArc))
	}
	if len(report.KeyHighlights) != 0 {
		t.Errorf("expected no highlights, got %d", len(report.KeyHighlights))
	}
}

func TestService_ListJournals(t *testing.T) {
	st := &mockStore{
		journals: []store.JournalEntry{
			{ID: "j1", UserID: "user-1", Content: "a", CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, ist).UTC()},
			{ID: "j2", UserID: "user-1", Content: "b", CreatedAt: time.Date(2025, 6, 3, 10, 0, 0, 0, ist).UTC()},
			{ID: "j3", UserID: "user-1", Content: "c", CreatedAt: time.Date(2025, 6, 9, 10, 0, 0, 0, ist).UTC()},
		},
	}
	svc := newTestService(nil, nil, nil, nil, st)

	entries, err := svc.ListJournals(context.Background(), "user-1", "2025-06-01", "2025-06-03")
	if err != nil {
		t.Fatalf("ListJournals failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries in range, got %d", len(entries))
	}
	if entries[0].ID != "j1" || entries[1].ID != "j2" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}
