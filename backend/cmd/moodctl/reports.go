package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"moodlens/backend/internal/insights"
)

func runDaily(api, user, date string, out io.Writer) error {
	var report insights.DailyReport
	params := map[string]string{"user_id": user, "date": date}
	if err := getJSON(api, "/api/insights/daily", params, &report); err != nil {
		return err
	}
	renderDaily(out, report)
	return nil
}

func runWeekly(api, user, start string, out io.Writer) error {
	var report insights.WeeklyReport
	params := map[string]string{"user_id": user, "start": start}
	if err := getJSON(api, "/api/insights/weekly", params, &report); err != nil {
		return err
	}
	renderWeekly(out, report)
	return nil
}

// getJSON fetches path from the API and decodes the response into v.
// Empty params are dropped so the server applies its defaults.
func getJSON(api, path string, params map[string]string, v interface{}) error {
	req := resty.New().SetBaseURL(api).R()
	for key, val := range params {
		if val != "" {
			req.SetQueryParam(key, val)
		}
	}
	resp, err := req.Get(path)
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), strings.TrimSpace(string(resp.Body())))
	}
	return json.Unmarshal(resp.Body(), v)
}

func renderDaily(out io.Writer, r insights.DailyReport) {
	fmt.Fprintf(out, "Daily report for %s\n", r.Date)
	fmt.Fprintf(out, "  Mood:    %d/100 (%s)\n", r.MoodScore, r.DominantEmotion)
	fmt.Fprintf(out, "  Samples: %d\n", r.SampleSize)
	fmt.Fprintf(out, "  Trend:   %s\n", r.Trend)
	if r.ContextSummary != "" {
		fmt.Fprintf(out, "  Context: %s\n", r.ContextSummary)
	}
	if len(r.TimeSegments) > 0 {
		fmt.Fprintln(out, "  Segments:")
		for _, seg := range r.TimeSegments {
			fmt.Fprintf(out, "    %-10s %d/100 %s (%d readings)\n", seg.Period, seg.MoodScore, seg.DominantEmotion, seg.SampleSize)
		}
	}
}

func renderWeekly(out io.Writer, r insights.WeeklyReport) {
	fmt.Fprintf(out, "Weekly report for week of %s\n", r.WeekStart)
	fmt.Fprintf(out, "  Mood: %d/100 (%s), %d of 7 days with data\n", r.MoodScore, r.DominantEmotion, r.SampleSize)
	fmt.Fprintln(out, "  Arc:")
	for _, day := range r.DailyArc {
		if !day.HasData {
			fmt.Fprintf(out, "    %s    -\n", day.Date)
			continue
		}
		fmt.Fprintf(out, "    %s  %3d  %s\n", day.Date, *day.MoodScore, day.Emotion)
	}
	if len(r.KeyHighlights) > 0 {
		fmt.Fprintln(out, "  Highlights:")
		for _, h := range r.KeyHighlights {
			fmt.Fprintf(out, "    [%s] %s: %s\n", h.Kind, h.Date, h.Description)
		}
	}
}
